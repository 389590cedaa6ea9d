package engine

import (
	"encoding/base64"
	"testing"

	"github.com/knotara/storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEngine(t *testing.T, slot storage.Slot) *Engine {
	t.Helper()
	e, err := Open(storage.NewBridge(slot, ""), Options{SeedDemo: true})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestFreshBootstrapSeedsCatalog(t *testing.T) {
	e := openTestEngine(t, storage.NewMemStore())

	row, err := e.Get("SELECT COUNT(*) AS n FROM categories")
	require.NoError(t, err)
	assert.Equal(t, 4, row.Int("n"))

	row, err = e.Get("SELECT COUNT(*) AS n FROM products")
	require.NoError(t, err)
	assert.Equal(t, 9, row.Int("n"))

	// Every seeded product has an inventory record.
	row, err = e.Get("SELECT COUNT(*) AS n FROM inventory")
	require.NoError(t, err)
	assert.Equal(t, 9, row.Int("n"))
}

func TestBootstrapWithoutDemoSeed(t *testing.T) {
	e, err := Open(storage.NewBridge(storage.NewMemStore(), ""), Options{})
	require.NoError(t, err)
	defer e.Close()

	row, err := e.Get("SELECT COUNT(*) AS n FROM products")
	require.NoError(t, err)
	assert.Equal(t, 0, row.Int("n"))

	// Categories are structural and always present.
	row, err = e.Get("SELECT COUNT(*) AS n FROM categories")
	require.NoError(t, err)
	assert.Equal(t, 4, row.Int("n"))
}

func TestMutationPersistsImage(t *testing.T) {
	slot := storage.NewMemStore()
	e := openTestEngine(t, slot)

	// Bootstrap already saved an image.
	initial, ok := slot.Get(storage.DefaultDatabaseSlot)
	require.True(t, ok)

	affected, err := e.Run(
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"u1", "Ada", "ada@example.com", "hash",
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	after, ok := slot.Get(storage.DefaultDatabaseSlot)
	require.True(t, ok)
	assert.NotEqual(t, initial, after)
}

func TestRestartRestoresData(t *testing.T) {
	slot := storage.NewMemStore()

	first := openTestEngine(t, slot)
	_, err := first.Run(
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"u1", "Ada", "ada@example.com", "hash",
	)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := openTestEngine(t, slot)
	row, err := second.Get("SELECT name FROM users WHERE id = ?", "u1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Ada", row.String("name"))

	// Restored image keeps the seed catalog too.
	row, err = second.Get("SELECT COUNT(*) AS n FROM products")
	require.NoError(t, err)
	assert.Equal(t, 9, row.Int("n"))
}

func TestCorruptSlotBootstrapsFresh(t *testing.T) {
	slot := storage.NewMemStore()
	require.NoError(t, slot.Set(storage.DefaultDatabaseSlot, "!!! not base64 !!!"))

	e := openTestEngine(t, slot)
	row, err := e.Get("SELECT COUNT(*) AS n FROM categories")
	require.NoError(t, err)
	assert.Equal(t, 4, row.Int("n"))
}

func TestNonSQLiteImageBootstrapsFresh(t *testing.T) {
	slot := storage.NewMemStore()
	garbage := []byte("this decodes cleanly from base64 but is in no way a database image, just opaque text padding")
	require.NoError(t, slot.Set(storage.DefaultDatabaseSlot,
		base64.StdEncoding.EncodeToString(garbage)))

	e := openTestEngine(t, slot)

	// The engine must be fully usable, not a husk that fails on first read.
	row, err := e.Get("SELECT COUNT(*) AS n FROM categories")
	require.NoError(t, err)
	assert.Equal(t, 4, row.Int("n"))

	_, err = e.Run(
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"u1", "Ada", "ada@example.com", "hash",
	)
	require.NoError(t, err)

	// Bootstrap replaced the bad slot value with a real image.
	encoded, ok := slot.Get(storage.DefaultDatabaseSlot)
	require.True(t, ok)
	image, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "SQLite format 3", string(image[:15]))
}

func TestTruncatedImageBootstrapsFresh(t *testing.T) {
	slot := storage.NewMemStore()

	first := openTestEngine(t, slot)
	image, err := first.Serialize()
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// A valid header with the body chopped off.
	require.NoError(t, slot.Set(storage.DefaultDatabaseSlot,
		base64.StdEncoding.EncodeToString(image[:100])))

	second := openTestEngine(t, slot)
	row, err := second.Get("SELECT COUNT(*) AS n FROM products")
	require.NoError(t, err)
	assert.Equal(t, 9, row.Int("n"))
}

func TestResetRebuildsSeedState(t *testing.T) {
	slot := storage.NewMemStore()
	e := openTestEngine(t, slot)

	_, err := e.Run(
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"u1", "Ada", "ada@example.com", "hash",
	)
	require.NoError(t, err)

	require.NoError(t, e.Reset())

	row, err := e.Get("SELECT COUNT(*) AS n FROM users")
	require.NoError(t, err)
	assert.Equal(t, 0, row.Int("n"))

	row, err = e.Get("SELECT COUNT(*) AS n FROM products")
	require.NoError(t, err)
	assert.Equal(t, 9, row.Int("n"))

	// Reset persisted the fresh image.
	_, ok := slot.Get(storage.DefaultDatabaseSlot)
	assert.True(t, ok)
}

func TestForeignKeysEnforced(t *testing.T) {
	e := openTestEngine(t, storage.NewMemStore())

	_, err := e.Run(
		"INSERT INTO order_items (id, order_id, product_id, quantity, price) VALUES (?, ?, ?, ?, ?)",
		"oi1", "no_such_order", "1", 1, 9.99,
	)
	assert.Error(t, err)
}

func TestUniqueEmailConstraint(t *testing.T) {
	e := openTestEngine(t, storage.NewMemStore())

	_, err := e.Run(
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"u1", "Ada", "ada@example.com", "hash",
	)
	require.NoError(t, err)

	_, err = e.Run(
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"u2", "Other", "ada@example.com", "hash",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

func TestNoOpDeleteReportsZeroRows(t *testing.T) {
	e := openTestEngine(t, storage.NewMemStore())

	affected, err := e.Run("DELETE FROM users WHERE id = ?", "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestSerializeRoundTrip(t *testing.T) {
	e := openTestEngine(t, storage.NewMemStore())

	image, err := e.Serialize()
	require.NoError(t, err)
	assert.NotEmpty(t, image)

	// A serialized SQLite image starts with the standard header.
	assert.Equal(t, "SQLite format 3", string(image[:15]))
}
