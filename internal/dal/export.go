package dal

import (
	"encoding/json"
	"io"
	"time"

	"github.com/knotara/storefront/internal/models"
)

// ExportDocument is the human-readable dump of all logical collections. It
// serializes the domain shapes, not the raw engine image, so the output is
// diffable and safe to share (password hashes are excluded by the User
// marshalling rules).
type ExportDocument struct {
	ExportedAt time.Time               `json:"exported_at"`
	Users      []models.User           `json:"users"`
	Categories []models.Category       `json:"categories"`
	Products   []models.Product        `json:"products"`
	Orders     []models.Order          `json:"orders"`
	Reviews    []models.Review         `json:"reviews"`
	Analytics  []models.AnalyticsEvent `json:"analytics"`
	Inventory  []models.Inventory      `json:"inventory"`
}

// Export assembles the full document from the live collections.
func (s *Store) Export() ExportDocument {
	orders := Find(s, Orders, nil, Options{SortBy: "created_at"})
	for i := range orders {
		orders[i].Items = s.OrderItems(orders[i].ID)
	}
	return ExportDocument{
		ExportedAt: time.Now().UTC(),
		Users:      Find(s, Users, nil, Options{}),
		Categories: Find(s, Categories, nil, Options{}),
		Products:   Find(s, Products, nil, Options{}),
		Orders:     orders,
		Reviews:    Find(s, Reviews, nil, Options{}),
		Analytics:  Find(s, Analytics, nil, Options{}),
		Inventory:  Find(s, Inventory, nil, Options{}),
	}
}

// ExportJSON writes the export document as indented JSON.
func (s *Store) ExportJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s.Export())
}

// ImportJSON is a declared extension point; importing a previously exported
// document is not implemented.
func (s *Store) ImportJSON(io.Reader) error {
	return ErrNotImplemented
}
