package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/logger"
	"github.com/knotara/storefront/internal/models"
	"github.com/knotara/storefront/internal/storage"

	"github.com/google/uuid"
)

// DefaultSessionSlot is the slot key for the anonymous session id.
const DefaultSessionSlot = "analytics_session_id"

// AnalyticsService records usage events against an anonymous session id that
// survives restarts through the slot store.
type AnalyticsService struct {
	store     *dal.Store
	slot      storage.Slot
	slotKey   string
	sessionID string
}

// NewAnalyticsService creates the analytics service. slotKey falls back to
// DefaultSessionSlot when empty.
func NewAnalyticsService(store *dal.Store, slot storage.Slot, slotKey string) *AnalyticsService {
	if slotKey == "" {
		slotKey = DefaultSessionSlot
	}
	return &AnalyticsService{store: store, slot: slot, slotKey: slotKey}
}

// SessionID returns the current session id, minting and caching one on first
// use.
func (s *AnalyticsService) SessionID() string {
	if s.sessionID != "" {
		return s.sessionID
	}
	if s.slot != nil {
		if cached, ok := s.slot.Get(s.slotKey); ok && cached != "" {
			s.sessionID = cached
			return s.sessionID
		}
	}
	s.sessionID = "session_" + uuid.NewString()
	if s.slot != nil {
		if err := s.slot.Set(s.slotKey, s.sessionID); err != nil {
			logger.Warnw("persist session id failed", "error", err)
		}
	}
	return s.sessionID
}

// Track records a single event. Tracking failures are logged and swallowed;
// analytics never disturbs the caller's flow.
func (s *AnalyticsService) Track(eventType, productID, userID string, metadata map[string]any) *models.AnalyticsEvent {
	event := models.AnalyticsEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		ProductID: productID,
		UserID:    userID,
		SessionID: s.SessionID(),
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	created, err := dal.Insert(s.store, dal.Analytics, event)
	if err != nil {
		logger.Warnw("track event failed", "event_type", eventType, "error", err)
		return nil
	}
	return &created
}

// TrackView records a product page view.
func (s *AnalyticsService) TrackView(productID, userID string) *models.AnalyticsEvent {
	return s.Track(models.EventView, productID, userID, nil)
}

// TrackClick records a product click.
func (s *AnalyticsService) TrackClick(productID, userID string) *models.AnalyticsEvent {
	return s.Track(models.EventClick, productID, userID, nil)
}

// TrackPurchase records a completed purchase for a product.
func (s *AnalyticsService) TrackPurchase(productID, userID string, metadata map[string]any) *models.AnalyticsEvent {
	return s.Track(models.EventPurchase, productID, userID, metadata)
}

// TrackCartAdd records adding a product to the cart.
func (s *AnalyticsService) TrackCartAdd(productID, userID string) *models.AnalyticsEvent {
	return s.Track(models.EventCartAdd, productID, userID, nil)
}

// TrackCartRemove records removing a product from the cart.
func (s *AnalyticsService) TrackCartRemove(productID, userID string) *models.AnalyticsEvent {
	return s.Track(models.EventCartRemove, productID, userID, nil)
}

// ProductAnalytics is the per-product event breakdown over a window.
type ProductAnalytics struct {
	ProductID string `json:"product_id"`
	Views     int    `json:"views"`
	Clicks    int    `json:"clicks"`
	CartAdds  int    `json:"cart_adds"`
	Purchases int    `json:"purchases"`
}

// ForProduct summarizes events for one product over the last days.
func (s *AnalyticsService) ForProduct(productID string, days int) ProductAnalytics {
	stats := ProductAnalytics{ProductID: productID}
	for _, event := range s.since(days) {
		if event.ProductID != productID {
			continue
		}
		switch event.EventType {
		case models.EventView:
			stats.Views++
		case models.EventClick:
			stats.Clicks++
		case models.EventCartAdd:
			stats.CartAdds++
		case models.EventPurchase:
			stats.Purchases++
		}
	}
	return stats
}

// TopProducts ranks products by view count over the last days.
func (s *AnalyticsService) TopProducts(days, limit int) []ProductAnalytics {
	byProduct := map[string]*ProductAnalytics{}
	for _, event := range s.since(days) {
		if event.ProductID == "" {
			continue
		}
		stats := byProduct[event.ProductID]
		if stats == nil {
			stats = &ProductAnalytics{ProductID: event.ProductID}
			byProduct[event.ProductID] = stats
		}
		switch event.EventType {
		case models.EventView:
			stats.Views++
		case models.EventClick:
			stats.Clicks++
		case models.EventCartAdd:
			stats.CartAdds++
		case models.EventPurchase:
			stats.Purchases++
		}
	}

	ranked := make([]ProductAnalytics, 0, len(byProduct))
	for _, stats := range byProduct {
		ranked = append(ranked, *stats)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if limit <= 0 {
		limit = 10
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// DashboardStats is the storewide event summary over a window.
type DashboardStats struct {
	TotalEvents    int            `json:"total_events"`
	UniqueSessions int            `json:"unique_sessions"`
	EventCounts    map[string]int `json:"event_counts"`
}

// Dashboard aggregates all events over the last days.
func (s *AnalyticsService) Dashboard(days int) DashboardStats {
	stats := DashboardStats{EventCounts: map[string]int{}}
	sessions := map[string]struct{}{}
	for _, event := range s.since(days) {
		stats.TotalEvents++
		stats.EventCounts[event.EventType]++
		if event.SessionID != "" {
			sessions[event.SessionID] = struct{}{}
		}
	}
	stats.UniqueSessions = len(sessions)
	return stats
}

// ByDateRange returns events between start and end, optionally filtered by
// event type.
func (s *AnalyticsService) ByDateRange(start, end time.Time, eventType string) []models.AnalyticsEvent {
	var filter dal.Filter
	if eventType != "" {
		filter = dal.Filter{"event_type": eventType}
	}
	events := dal.Find(s.store, dal.Analytics, filter, dal.Options{SortBy: "created_at", SortOrder: "asc"})
	var result []models.AnalyticsEvent
	for _, event := range events {
		if event.CreatedAt.Before(start) || event.CreatedAt.After(end) {
			continue
		}
		result = append(result, event)
	}
	return result
}

// ClearOldEvents deletes events older than days and returns how many went.
func (s *AnalyticsService) ClearOldEvents(days int) (int64, error) {
	if days <= 0 {
		days = 90
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	deleted, err := s.store.Engine().Run(
		"DELETE FROM analytics WHERE created_at < ?",
		cutoff.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("clear old events: %w", err)
	}
	return deleted, nil
}

func (s *AnalyticsService) since(days int) []models.AnalyticsEvent {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	events := dal.Find(s.store, dal.Analytics, nil, dal.Options{})
	var result []models.AnalyticsEvent
	for _, event := range events {
		if event.CreatedAt.Before(cutoff) {
			continue
		}
		result = append(result, event)
	}
	return result
}
