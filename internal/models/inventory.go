package models

import "time"

// Inventory tracks stock for exactly one product. Available stock is
// quantity minus reserved; the storage layer does not hard-enforce it
// staying non-negative.
type Inventory struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	Location         string    `json:"location"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Available returns the stock available for sale, floored at zero.
func (i Inventory) Available() int {
	available := i.Quantity - i.ReservedQuantity
	if available < 0 {
		return 0
	}
	return available
}
