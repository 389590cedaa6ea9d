package dal

import (
	"encoding/json"

	"github.com/knotara/storefront/internal/engine"
	"github.com/knotara/storefront/internal/logger"
	"github.com/knotara/storefront/internal/models"
)

// The collection registry. Each descriptor knows its table, the
// domain-to-column renames used by filters and updates, the insert routine,
// and the transform back to the domain shape.
var (
	Users = Collection[models.User]{
		name:      "users",
		table:     "users",
		columns:   map[string]string{},
		insert:    insertUser,
		transform: transformUser,
	}

	Categories = Collection[models.Category]{
		name:      "categories",
		table:     "categories",
		columns:   map[string]string{},
		insert:    insertCategory,
		transform: transformCategory,
	}

	Products = Collection[models.Product]{
		name:  "products",
		table: "products",
		columns: map[string]string{
			"category": "category_id",
			"reviews":  "review_count",
		},
		insert:    insertProduct,
		transform: transformProduct,
	}

	Orders = Collection[models.Order]{
		name:      "orders",
		table:     "orders",
		columns:   map[string]string{"user": "user_id"},
		insert:    insertOrder,
		transform: transformOrder,
	}

	Reviews = Collection[models.Review]{
		name:      "reviews",
		table:     "reviews",
		columns:   map[string]string{"product": "product_id"},
		insert:    insertReview,
		transform: transformReview,
	}

	Analytics = Collection[models.AnalyticsEvent]{
		name:      "analytics",
		table:     "analytics",
		columns:   map[string]string{"type": "event_type"},
		insert:    insertAnalyticsEvent,
		transform: transformAnalyticsEvent,
	}

	Inventory = Collection[models.Inventory]{
		name:      "inventory",
		table:     "inventory",
		columns:   map[string]string{"product": "product_id"},
		insert:    insertInventory,
		transform: transformInventory,
	}
)

func insertUser(e *engine.Engine, user models.User) error {
	role := user.Role
	if role == "" {
		role = models.RoleCustomer
	}
	_, err := e.Run(
		`INSERT INTO users (id, name, email, password_hash, role, is_verified) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, role, boolFlag(user.IsVerified),
	)
	return err
}

func transformUser(row engine.Row) models.User {
	return models.User{
		ID:           row.String("id"),
		Name:         row.String("name"),
		Email:        row.String("email"),
		PasswordHash: row.String("password_hash"),
		Role:         row.String("role"),
		IsVerified:   row.Bool("is_verified"),
		LastLoginAt:  row.TimePtr("last_login_at"),
		CreatedAt:    row.Time("created_at"),
		UpdatedAt:    row.Time("updated_at"),
	}
}

func insertCategory(e *engine.Engine, category models.Category) error {
	_, err := e.Run(
		`INSERT INTO categories (id, name, slug, description, image) VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Slug, category.Description, category.Image,
	)
	return err
}

func transformCategory(row engine.Row) models.Category {
	return models.Category{
		ID:          row.String("id"),
		Name:        row.String("name"),
		Slug:        row.String("slug"),
		Description: row.String("description"),
		Image:       row.String("image"),
		CreatedAt:   row.Time("created_at"),
	}
}

func insertProduct(e *engine.Engine, product models.Product) error {
	colors, err := json.Marshal(orEmpty(product.Colors))
	if err != nil {
		return err
	}
	_, err = e.Run(
		`INSERT INTO products (id, name, description, price, image, category_id, material, colors, rating, review_count, is_new, is_best_seller, stock_quantity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Description, product.Price.Float(), product.Image,
		nullable(product.Category), product.Material, string(colors), product.Rating, product.ReviewCount,
		boolFlag(product.IsNew), boolFlag(product.IsBestSeller), product.StockQuantity,
	)
	return err
}

func transformProduct(row engine.Row) models.Product {
	return models.Product{
		ID:            row.String("id"),
		Name:          row.String("name"),
		Description:   row.String("description"),
		Price:         models.NewMoneyFromFloat(row.Float("price")),
		Image:         row.String("image"),
		Category:      row.String("category_id"),
		Material:      row.String("material"),
		Colors:        decodeStringList(row.String("colors")),
		Rating:        row.Float("rating"),
		ReviewCount:   row.Int("review_count"),
		IsNew:         row.Bool("is_new"),
		IsBestSeller:  row.Bool("is_best_seller"),
		StockQuantity: row.Int("stock_quantity"),
		CreatedAt:     row.Time("created_at"),
		UpdatedAt:     row.Time("updated_at"),
	}
}

// insertOrder flattens the order's line items into order_items within the
// same logical call.
func insertOrder(e *engine.Engine, order models.Order) error {
	address, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return err
	}
	_, err = e.Run(
		`INSERT INTO orders (id, user_id, total_amount, status, payment_method_id, payment_method_type, billing_address)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ID, nullable(order.UserID), order.TotalAmount.Float(), order.Status,
		order.PaymentMethod.ID, order.PaymentMethod.Type, string(address),
	)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		itemID := item.ID
		if itemID == "" {
			itemID = order.ID + "_" + item.ProductID
		}
		_, err := e.Run(
			`INSERT INTO order_items (id, order_id, product_id, quantity, price, selected_color)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			itemID, order.ID, item.ProductID, item.Quantity, item.Price.Float(), item.SelectedColor,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func transformOrder(row engine.Row) models.Order {
	methodType := row.String("payment_method_type")
	return models.Order{
		ID:          row.String("id"),
		UserID:      row.String("user_id"),
		TotalAmount: models.NewMoneyFromFloat(row.Float("total_amount")),
		Status:      row.String("status"),
		PaymentMethod: models.PaymentMethod{
			ID:   row.String("payment_method_id"),
			Type: methodType,
			Name: paymentMethodName(methodType),
		},
		BillingAddress: decodeBillingAddress(row.String("billing_address")),
		CreatedAt:      row.Time("created_at"),
		UpdatedAt:      row.Time("updated_at"),
		// Items require the two-step join; see OrderItems.
	}
}

func insertReview(e *engine.Engine, review models.Review) error {
	_, err := e.Run(
		`INSERT INTO reviews (id, product_id, user_id, rating, comment) VALUES (?, ?, ?, ?, ?)`,
		review.ID, review.ProductID, nullable(review.UserID), review.Rating, review.Comment,
	)
	return err
}

func transformReview(row engine.Row) models.Review {
	return models.Review{
		ID:        row.String("id"),
		ProductID: row.String("product_id"),
		UserID:    row.String("user_id"),
		Rating:    row.Int("rating"),
		Comment:   row.String("comment"),
		CreatedAt: row.Time("created_at"),
	}
}

func insertAnalyticsEvent(e *engine.Engine, event models.AnalyticsEvent) error {
	metadata, err := json.Marshal(orEmptyMap(event.Metadata))
	if err != nil {
		return err
	}
	_, err = e.Run(
		`INSERT INTO analytics (id, event_type, product_id, user_id, session_id, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.EventType, nullable(event.ProductID), nullable(event.UserID),
		event.SessionID, string(metadata),
	)
	return err
}

func transformAnalyticsEvent(row engine.Row) models.AnalyticsEvent {
	return models.AnalyticsEvent{
		ID:        row.String("id"),
		EventType: row.String("event_type"),
		ProductID: row.String("product_id"),
		UserID:    row.String("user_id"),
		SessionID: row.String("session_id"),
		Metadata:  decodeMetadata(row.String("metadata")),
		CreatedAt: row.Time("created_at"),
	}
}

func insertInventory(e *engine.Engine, inventory models.Inventory) error {
	location := inventory.Location
	if location == "" {
		location = "Warehouse A"
	}
	_, err := e.Run(
		`INSERT INTO inventory (id, product_id, quantity, reserved_quantity, location) VALUES (?, ?, ?, ?, ?)`,
		inventory.ID, inventory.ProductID, inventory.Quantity, inventory.ReservedQuantity, location,
	)
	return err
}

func transformInventory(row engine.Row) models.Inventory {
	return models.Inventory{
		ID:               row.String("id"),
		ProductID:        row.String("product_id"),
		Quantity:         row.Int("quantity"),
		ReservedQuantity: row.Int("reserved_quantity"),
		Location:         row.String("location"),
		LastUpdated:      row.Time("last_updated"),
	}
}

// decodeStringList parses a JSON array column. Corrupt data degrades to an
// empty list rather than failing the read.
func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.Warnw("json_column_corrupt", "kind", "string_list", "error", err)
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

func decodeMetadata(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		logger.Warnw("json_column_corrupt", "kind", "metadata", "error", err)
		return map[string]any{}
	}
	if m == nil {
		return map[string]any{}
	}
	return m
}

func decodeBillingAddress(raw string) models.BillingAddress {
	if raw == "" {
		return models.BillingAddress{}
	}
	var address models.BillingAddress
	if err := json.Unmarshal([]byte(raw), &address); err != nil {
		logger.Warnw("json_column_corrupt", "kind", "billing_address", "error", err)
		return models.BillingAddress{}
	}
	return address
}

func paymentMethodName(methodType string) string {
	if methodType == "cod" {
		return "Cash on Delivery"
	}
	if methodType == "" {
		return ""
	}
	return "Payment"
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
