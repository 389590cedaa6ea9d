package models

import "time"

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod identifies how an order was (simulated) paid.
type PaymentMethod struct {
	ID   string `json:"id"`
	Type string `json:"type"` // card / wallet / bank / cod
	Name string `json:"name"`
}

// BillingAddress is the structured address attached to an order. It is a
// proper value in memory and only JSON-encoded at the storage edge.
type BillingAddress struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// OrderItem is one line of an order. Price is a point-in-time snapshot of the
// product price at purchase, not live-joined.
type OrderItem struct {
	ID            string `json:"id"`
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name,omitempty"` // joined on read
	ProductImage  string `json:"product_image,omitempty"`
	Quantity      int    `json:"quantity"`
	Price         Money  `json:"price"`
	SelectedColor string `json:"selected_color,omitempty"`
}

// Order is a placed order with its flattened line items. TotalAmount is
// computed by the caller (sum of item price x qty plus tax) and stored as
// given; the core does not derive it.
type Order struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id,omitempty"`
	Items          []OrderItem    `json:"items"`
	TotalAmount    Money          `json:"total_amount"`
	Status         string         `json:"status"`
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	BillingAddress BillingAddress `json:"billing_address"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ItemTotal returns the sum of price x quantity over the order's items,
// before tax.
func (o Order) ItemTotal() Money {
	var total Money
	for _, item := range o.Items {
		total = total.Add(item.Price.MulInt(int64(item.Quantity)))
	}
	return total
}
