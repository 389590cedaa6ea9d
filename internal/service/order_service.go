package service

import (
	"fmt"
	"time"

	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/logger"
	"github.com/knotara/storefront/internal/models"

	"github.com/google/uuid"
)

// legal status transitions; everything else is rejected
var orderTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
}

// OrderService creates and queries orders.
type OrderService struct {
	store *dal.Store
}

// NewOrderService creates the order service.
func NewOrderService(store *dal.Store) *OrderService {
	return &OrderService{store: store}
}

// CreateOrderInput carries everything needed to place an order. TotalAmount
// is the caller-computed total including tax; the core stores it as given.
type CreateOrderInput struct {
	UserID         string
	Items          []models.OrderItem
	TotalAmount    models.Money
	PaymentMethod  models.PaymentMethod
	BillingAddress models.BillingAddress
}

// Create places a new pending order, flattening the items into the child
// table within the same logical insert. The caller total is trusted but
// checked against the line-item sum for visibility: a total below the
// pre-tax subtotal cannot be right.
func (s *OrderService) Create(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := models.Order{
		ID:             uuid.NewString(),
		UserID:         input.UserID,
		Items:          input.Items,
		TotalAmount:    input.TotalAmount,
		Status:         models.OrderStatusPending,
		PaymentMethod:  input.PaymentMethod,
		BillingAddress: input.BillingAddress,
		CreatedAt:      time.Now().UTC(),
	}

	if subtotal := order.ItemTotal(); input.TotalAmount.Decimal.Cmp(subtotal.Decimal) < 0 {
		logger.Warnw("order_total_below_subtotal",
			"order_id", order.ID,
			"total", input.TotalAmount.String(),
			"subtotal", subtotal.String(),
		)
	}

	created, err := dal.Insert(s.store, dal.Orders, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &created, nil
}

// ByID returns the order with its items populated, or nil.
func (s *OrderService) ByID(orderID string) *models.Order {
	return s.store.OrderWithItems(orderID)
}

// UserOrders returns a user's orders newest-first with items populated.
func (s *OrderService) UserOrders(userID string) []models.Order {
	return s.store.UserOrders(userID)
}

// All returns orders without items, honoring options.
func (s *OrderService) All(opts dal.Options) []models.Order {
	return dal.Find(s.store, dal.Orders, nil, opts)
}

// ByStatus returns orders in the given status.
func (s *OrderService) ByStatus(status string) []models.Order {
	return dal.Find(s.store, dal.Orders, dal.Filter{"status": status}, dal.Options{})
}

// DateRange returns orders created within [start, end].
func (s *OrderService) DateRange(start, end time.Time) []models.Order {
	orders := s.All(dal.Options{})
	matched := orders[:0]
	for _, order := range orders {
		if !order.CreatedAt.Before(start) && !order.CreatedAt.After(end) {
			matched = append(matched, order)
		}
	}
	return matched
}

// UpdateStatus moves an order along the status lifecycle, rejecting unknown
// statuses and illegal transitions.
func (s *OrderService) UpdateStatus(orderID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	order := dal.FindByID(s.store, dal.Orders, orderID)
	if order == nil {
		return nil, ErrNotFound
	}
	if !transitionAllowed(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, status)
	}

	updated, err := dal.Update(s.store, dal.Orders, orderID, dal.Fields{"status": status})
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Cancel cancels a pending order; anything further along is refused.
func (s *OrderService) Cancel(orderID string) (*models.Order, error) {
	order := dal.FindByID(s.store, dal.Orders, orderID)
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}
	return s.UpdateStatus(orderID, models.OrderStatusCancelled)
}

// Process confirms a pending order. Payment, fulfillment and notification
// are simulated; confirming is all that happens here.
func (s *OrderService) Process(orderID string) (*models.Order, error) {
	order := dal.FindByID(s.store, dal.Orders, orderID)
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, models.OrderStatusConfirmed)
	}
	return s.UpdateStatus(orderID, models.OrderStatusConfirmed)
}

// OrderStats summarizes order volume and revenue.
type OrderStats struct {
	TotalOrders       int          `json:"total_orders"`
	PendingOrders     int          `json:"pending_orders"`
	CompletedOrders   int          `json:"completed_orders"`
	TotalRevenue      models.Money `json:"total_revenue"`
	AverageOrderValue models.Money `json:"average_order_value"`
}

// Stats reduces the full order set in application code.
func (s *OrderService) Stats() OrderStats {
	orders := s.All(dal.Options{})
	stats := OrderStats{TotalOrders: len(orders)}
	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusPending:
			stats.PendingOrders++
		case models.OrderStatusDelivered:
			stats.CompletedOrders++
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(order.TotalAmount)
	}
	if len(orders) > 0 {
		stats.AverageOrderValue = models.NewMoneyFromDecimal(
			stats.TotalRevenue.Decimal.Div(models.NewMoneyFromInt(int64(len(orders))).Decimal))
	}
	return stats
}

func transitionAllowed(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
