package models

import "time"

// Analytics event types.
const (
	EventView       = "view"
	EventClick      = "click"
	EventPurchase   = "purchase"
	EventCartAdd    = "cart_add"
	EventCartRemove = "cart_remove"
)

// AnalyticsEvent is an append-only usage event. Events are never updated;
// old events are bulk-deleted by age.
type AnalyticsEvent struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	ProductID string         `json:"product_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	SessionID string         `json:"session_id"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
