package service

import (
	"fmt"
	"time"

	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/models"
)

// InventoryService tracks per-product stock levels and reservations.
type InventoryService struct {
	store *dal.Store
}

// NewInventoryService creates the inventory service.
func NewInventoryService(store *dal.Store) *InventoryService {
	return &InventoryService{store: store}
}

// ByProduct returns the inventory record for a product, or nil.
func (s *InventoryService) ByProduct(productID string) *models.Inventory {
	return dal.FindOne(s.store, dal.Inventory, dal.Filter{"product_id": productID})
}

// All returns every inventory record.
func (s *InventoryService) All() []models.Inventory {
	return dal.Find(s.store, dal.Inventory, nil, dal.Options{})
}

// Available returns the sellable quantity for a product. Unknown products
// have zero stock.
func (s *InventoryService) Available(productID string) int {
	inv := s.ByProduct(productID)
	if inv == nil {
		return 0
	}
	return inv.Available()
}

// InStock reports whether at least the requested quantity is sellable.
func (s *InventoryService) InStock(productID string, quantity int) bool {
	if quantity <= 0 {
		quantity = 1
	}
	return s.Available(productID) >= quantity
}

// Reserve holds stock for a pending order. The hold counts against the
// sellable quantity but keeps the units on hand until confirmed.
func (s *InventoryService) Reserve(productID string, quantity int) (*models.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("reserve %q: quantity must be positive", productID)
	}
	inv := s.ByProduct(productID)
	if inv == nil {
		return nil, ErrNotFound
	}
	if inv.Available() < quantity {
		return nil, ErrInsufficientStock
	}
	return s.update(inv.ID, dal.Fields{"reserved_quantity": inv.ReservedQuantity + quantity})
}

// Release returns reserved units to the sellable pool, e.g. on cancellation.
func (s *InventoryService) Release(productID string, quantity int) (*models.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("release %q: quantity must be positive", productID)
	}
	inv := s.ByProduct(productID)
	if inv == nil {
		return nil, ErrNotFound
	}
	reserved := inv.ReservedQuantity - quantity
	if reserved < 0 {
		reserved = 0
	}
	return s.update(inv.ID, dal.Fields{"reserved_quantity": reserved})
}

// Confirm consumes reserved units when an order ships: both the hold and the
// on-hand quantity shrink.
func (s *InventoryService) Confirm(productID string, quantity int) (*models.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("confirm %q: quantity must be positive", productID)
	}
	inv := s.ByProduct(productID)
	if inv == nil {
		return nil, ErrNotFound
	}
	if inv.ReservedQuantity < quantity || inv.Quantity < quantity {
		return nil, ErrInsufficientStock
	}
	return s.update(inv.ID, dal.Fields{
		"quantity":          inv.Quantity - quantity,
		"reserved_quantity": inv.ReservedQuantity - quantity,
	})
}

// UpdateStock sets a product's on-hand quantity to an absolute value,
// leaving reservations untouched.
func (s *InventoryService) UpdateStock(productID string, quantity int) (*models.Inventory, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("update stock %q: quantity must not be negative", productID)
	}
	inv := s.ByProduct(productID)
	if inv == nil {
		return nil, ErrNotFound
	}
	return s.update(inv.ID, dal.Fields{"quantity": quantity})
}

// StockUpdate names an absolute quantity for one product.
type StockUpdate struct {
	ProductID string
	Quantity  int
}

// BulkUpdate applies absolute stock levels, stopping at the first failure.
func (s *InventoryService) BulkUpdate(updates []StockUpdate) error {
	for _, update := range updates {
		if _, err := s.UpdateStock(update.ProductID, update.Quantity); err != nil {
			return fmt.Errorf("bulk update %q: %w", update.ProductID, err)
		}
	}
	return nil
}

// Move relocates a product's stock to another warehouse location. Inventory
// is one record per product, so a move with enough units on hand simply
// updates the location.
func (s *InventoryService) Move(productID, fromLocation, toLocation string, quantity int) (*models.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("move %q: quantity must be positive", productID)
	}
	if toLocation == "" {
		return nil, fmt.Errorf("move %q: destination location is empty", productID)
	}
	inv := s.ByProduct(productID)
	if inv == nil {
		return nil, ErrNotFound
	}
	if fromLocation != "" && inv.Location != fromLocation {
		return nil, fmt.Errorf("move %q: stock is at %q, not %q", productID, inv.Location, fromLocation)
	}
	if inv.Quantity < quantity {
		return nil, ErrInsufficientStock
	}
	return s.update(inv.ID, dal.Fields{"location": toLocation})
}

// AddStock receives units into a location, creating the record on first use.
func (s *InventoryService) AddStock(productID string, quantity int, location string) (*models.Inventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add stock %q: quantity must be positive", productID)
	}
	inv := s.ByProduct(productID)
	if inv == nil {
		created, err := dal.Insert(s.store, dal.Inventory, models.Inventory{
			ID:          "inv_" + productID,
			ProductID:   productID,
			Quantity:    quantity,
			Location:    location,
			LastUpdated: time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("create inventory record: %w", err)
		}
		return &created, nil
	}
	fields := dal.Fields{"quantity": inv.Quantity + quantity}
	if location != "" {
		fields["location"] = location
	}
	return s.update(inv.ID, fields)
}

// LowStock returns records whose sellable quantity is at or below threshold
// but not zero.
func (s *InventoryService) LowStock(threshold int) []models.Inventory {
	if threshold <= 0 {
		threshold = 5
	}
	var result []models.Inventory
	for _, inv := range s.All() {
		if avail := inv.Available(); avail > 0 && avail <= threshold {
			result = append(result, inv)
		}
	}
	return result
}

// OutOfStock returns records with nothing sellable.
func (s *InventoryService) OutOfStock() []models.Inventory {
	var result []models.Inventory
	for _, inv := range s.All() {
		if inv.Available() <= 0 {
			result = append(result, inv)
		}
	}
	return result
}

// ByLocation returns records held at a location.
func (s *InventoryService) ByLocation(location string) []models.Inventory {
	return dal.Find(s.store, dal.Inventory, dal.Filter{"location": location}, dal.Options{})
}

// InventoryStats summarizes warehouse state.
type InventoryStats struct {
	TotalProducts int `json:"total_products"`
	TotalUnits    int `json:"total_units"`
	TotalReserved int `json:"total_reserved"`
	LowStockCount int `json:"low_stock_count"`
	OutOfStock    int `json:"out_of_stock"`
}

// Stats aggregates inventory across all products.
func (s *InventoryService) Stats() InventoryStats {
	stats := InventoryStats{}
	for _, inv := range s.All() {
		stats.TotalProducts++
		stats.TotalUnits += inv.Quantity
		stats.TotalReserved += inv.ReservedQuantity
		switch avail := inv.Available(); {
		case avail <= 0:
			stats.OutOfStock++
		case avail <= 5:
			stats.LowStockCount++
		}
	}
	return stats
}

func (s *InventoryService) update(id string, fields dal.Fields) (*models.Inventory, error) {
	updated, err := dal.Update(s.store, dal.Inventory, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update inventory: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}
