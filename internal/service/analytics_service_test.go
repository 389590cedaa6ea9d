package service

import (
	"testing"
	"time"

	"github.com/knotara/storefront/internal/models"
	"github.com/knotara/storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalytics(t *testing.T) *AnalyticsService {
	t.Helper()
	return NewAnalyticsService(newTestStore(t), storage.NewMemStore(), "")
}

func TestSessionIDStableAcrossCalls(t *testing.T) {
	slot := storage.NewMemStore()
	analytics := NewAnalyticsService(newTestStore(t), slot, "")

	first := analytics.SessionID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, analytics.SessionID())

	// A new service instance over the same slot resumes the session.
	resumed := NewAnalyticsService(newTestStore(t), slot, "")
	assert.Equal(t, first, resumed.SessionID())
}

func TestSessionIDWithoutSlot(t *testing.T) {
	analytics := NewAnalyticsService(newTestStore(t), nil, "")
	id := analytics.SessionID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, analytics.SessionID())
}

func TestTrackEvents(t *testing.T) {
	analytics := newTestAnalytics(t)

	event := analytics.TrackView("1", "")
	require.NotNil(t, event)
	assert.Equal(t, models.EventView, event.EventType)
	assert.Equal(t, "1", event.ProductID)
	assert.Equal(t, analytics.SessionID(), event.SessionID)

	require.NotNil(t, analytics.TrackClick("1", ""))
	require.NotNil(t, analytics.TrackCartAdd("2", ""))
	require.NotNil(t, analytics.TrackCartRemove("2", ""))
	require.NotNil(t, analytics.TrackPurchase("1", "", map[string]any{"quantity": 2}))

	dashboard := analytics.Dashboard(7)
	assert.Equal(t, 5, dashboard.TotalEvents)
	assert.Equal(t, 1, dashboard.UniqueSessions)
	assert.Equal(t, 1, dashboard.EventCounts[models.EventView])
	assert.Equal(t, 1, dashboard.EventCounts[models.EventPurchase])
}

func TestTrackPersistsMetadata(t *testing.T) {
	analytics := newTestAnalytics(t)

	event := analytics.TrackPurchase("1", "", map[string]any{"color": "Brown"})
	require.NotNil(t, event)

	stored := analytics.ByDateRange(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), models.EventPurchase)
	require.Len(t, stored, 1)
	assert.Equal(t, "Brown", stored[0].Metadata["color"])
}

func TestForProduct(t *testing.T) {
	analytics := newTestAnalytics(t)

	analytics.TrackView("1", "")
	analytics.TrackView("1", "")
	analytics.TrackClick("1", "")
	analytics.TrackView("2", "")

	stats := analytics.ForProduct("1", 7)
	assert.Equal(t, 2, stats.Views)
	assert.Equal(t, 1, stats.Clicks)
	assert.Equal(t, 0, stats.Purchases)
}

func TestTopProducts(t *testing.T) {
	analytics := newTestAnalytics(t)

	analytics.TrackView("1", "")
	analytics.TrackView("2", "")
	analytics.TrackView("2", "")
	analytics.TrackView("3", "")

	top := analytics.TopProducts(7, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "2", top[0].ProductID)
	assert.Equal(t, 2, top[0].Views)
}

func TestByDateRangeFiltersType(t *testing.T) {
	analytics := newTestAnalytics(t)

	analytics.TrackView("1", "")
	analytics.TrackClick("1", "")

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	assert.Len(t, analytics.ByDateRange(start, end, ""), 2)
	assert.Len(t, analytics.ByDateRange(start, end, models.EventClick), 1)
	assert.Empty(t, analytics.ByDateRange(start, end, models.EventPurchase))

	// A window in the past matches nothing.
	past := analytics.ByDateRange(start.Add(-48*time.Hour), start.Add(-47*time.Hour), "")
	assert.Empty(t, past)
}

func TestClearOldEvents(t *testing.T) {
	analytics := newTestAnalytics(t)

	analytics.TrackView("1", "")
	analytics.TrackView("2", "")

	// Backdate one event beyond the retention window.
	_, err := analytics.store.Engine().Run(
		"UPDATE analytics SET created_at = ? WHERE product_id = ?",
		time.Now().UTC().AddDate(0, 0, -120).Format("2006-01-02 15:04:05"), "1",
	)
	require.NoError(t, err)

	deleted, err := analytics.ClearOldEvents(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.Equal(t, 1, analytics.Dashboard(365).TotalEvents)
}
