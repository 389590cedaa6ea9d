package storage

import (
	"encoding/json"

	"github.com/knotara/storefront/internal/logger"
)

// DefaultWishlistSlot is the historical key of the wishlist slot.
const DefaultWishlistSlot = "knotara_wishlist"

// Wishlist is the client's ordered list of product ids, stored in its own
// slot outside the relational image and read/written directly by UI-state
// collaborators.
type Wishlist struct {
	slot Slot
	key  string
}

// NewWishlist creates a wishlist over the given slot store.
func NewWishlist(slot Slot, key string) *Wishlist {
	if key == "" {
		key = DefaultWishlistSlot
	}
	return &Wishlist{slot: slot, key: key}
}

// Load returns the stored product ids in order. Corrupt data degrades to an
// empty list.
func (w *Wishlist) Load() []string {
	raw, ok := w.slot.Get(w.key)
	if !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Warnw("wishlist_corrupt", "slot", w.key, "error", err)
		return nil
	}
	return ids
}

// Save overwrites the stored list.
func (w *Wishlist) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return w.slot.Set(w.key, string(raw))
}

// Add appends a product id if not already present.
func (w *Wishlist) Add(productID string) error {
	ids := w.Load()
	for _, id := range ids {
		if id == productID {
			return nil
		}
	}
	return w.Save(append(ids, productID))
}

// Remove deletes a product id, keeping the remaining order.
func (w *Wishlist) Remove(productID string) error {
	ids := w.Load()
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	return w.Save(kept)
}

// Contains reports whether the product id is wishlisted.
func (w *Wishlist) Contains(productID string) bool {
	for _, id := range w.Load() {
		if id == productID {
			return true
		}
	}
	return false
}

// Clear empties the wishlist slot.
func (w *Wishlist) Clear() error {
	return w.slot.Remove(w.key)
}
