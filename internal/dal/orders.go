package dal

import (
	"github.com/knotara/storefront/internal/engine"
	"github.com/knotara/storefront/internal/logger"
	"github.com/knotara/storefront/internal/models"
)

// The order read path needs a two-step join emulation: the generic transform
// layer only handles flat rows, so the order row is fetched first and the
// item list is assembled in application code from a second statement joining
// order_items to products.

// OrderItems returns the order's line items with product name, image and the
// snapshot price populated.
func (s *Store) OrderItems(orderID string) []models.OrderItem {
	rows, err := s.engine.Query(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.selected_color,
		       p.name AS product_name, p.image AS product_image
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?`, orderID)
	if err != nil {
		logger.Warnw("order_items_query_failed", "order_id", orderID, "error", err)
		return nil
	}
	items := make([]models.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, transformOrderItem(row))
	}
	return items
}

// OrderWithItems returns the order with its item list populated, or nil.
func (s *Store) OrderWithItems(orderID string) *models.Order {
	order := FindByID(s, Orders, orderID)
	if order == nil {
		return nil
	}
	order.Items = s.OrderItems(orderID)
	return order
}

// UserOrders returns a user's orders newest-first, each with its items
// populated.
func (s *Store) UserOrders(userID string) []models.Order {
	orders := Find(s, Orders, Filter{"user_id": userID}, Options{
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	for i := range orders {
		orders[i].Items = s.OrderItems(orders[i].ID)
	}
	return orders
}

func transformOrderItem(row engine.Row) models.OrderItem {
	return models.OrderItem{
		ID:            row.String("id"),
		OrderID:       row.String("order_id"),
		ProductID:     row.String("product_id"),
		ProductName:   row.String("product_name"),
		ProductImage:  row.String("product_image"),
		Quantity:      row.Int("quantity"),
		Price:         models.NewMoneyFromFloat(row.Float("price")),
		SelectedColor: row.String("selected_color"),
	}
}

// SearchProducts matches the term against product names and descriptions,
// ranking name matches first, then by rating.
func (s *Store) SearchProducts(term string, limit int) []models.Product {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + term + "%"
	rows, err := s.engine.Query(`
		SELECT * FROM products
		WHERE name LIKE ? OR description LIKE ?
		ORDER BY
		  CASE WHEN name LIKE ? THEN 1 ELSE 2 END,
		  rating DESC
		LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		logger.Warnw("product_search_failed", "term", term, "error", err)
		return nil
	}
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, transformProduct(row))
	}
	return products
}
