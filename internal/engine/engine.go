// Package engine hosts the embedded relational engine: one in-memory SQLite
// database whose full image is re-serialized to the persistence bridge after
// every mutating statement, and restored from it at startup.
package engine

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/knotara/storefront/internal/logger"

	sqlite3 "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Persister is the bridge surface the engine depends on. Save is
// best-effort; Load returns nil when no usable image exists.
type Persister interface {
	Save(image []byte)
	Load() []byte
	Clear() error
}

// Options configures bootstrap behaviour.
type Options struct {
	SeedDemo bool // load demo catalog data on fresh bootstrap
}

// Engine owns the single embedded database instance for the process. All
// access is synchronous on one pinned connection; there is no write-behind
// queue, so a successful mutating call implies the image has been handed to
// the bridge.
type Engine struct {
	db     *sql.DB
	conn   *sql.Conn
	bridge Persister
	opts   Options
}

// Open constructs the engine: restore from the bridge's saved image when one
// exists, otherwise create the schema and seed it fresh. Construction errors
// are fatal to the persistence subsystem; callers decide between degraded
// mode and abort.
func Open(bridge Persister, opts Options) (*Engine, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("initialize engine: %w", err)
	}
	// A :memory: database exists per connection; pin exactly one so every
	// statement sees the same image.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	// Connection-level pragma, not part of the image; applies to both the
	// restore and bootstrap paths.
	if _, err := conn.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	e := &Engine{db: db, conn: conn, bridge: bridge, opts: opts}

	if image := bridge.Load(); image != nil {
		restoreErr := e.restore(image)
		if restoreErr == nil {
			logger.Infow("database_restored", "image_bytes", len(image))
			return e, nil
		}
		// Corrupt image degrades to fresh bootstrap, never to a fatal error.
		logger.Warnw("database_restore_failed", "error", restoreErr)
	}

	if err := e.bootstrap(); err != nil {
		e.Close()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}
	return e, nil
}

// Close releases the pinned connection and the database handle.
func (e *Engine) Close() error {
	if e.conn != nil {
		e.conn.Close()
		e.conn = nil
	}
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Query executes a read-only statement and returns all rows. It never
// mutates state and never triggers persistence.
func (e *Engine) Query(query string, params ...any) ([]Row, error) {
	rows, err := e.conn.QueryContext(context.Background(), query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// Get returns the first row of Query, or nil when there is no match.
func (e *Engine) Get(query string, params ...any) (Row, error) {
	rows, err := e.Query(query, params...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Run executes a mutating statement and, on success, synchronously hands the
// re-serialized image to the bridge before returning. The rows-affected
// count is reported so callers can distinguish no-op deletes and updates.
func (e *Engine) Run(query string, params ...any) (int64, error) {
	result, err := e.conn.ExecContext(context.Background(), query, params...)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()
	e.persist()
	return affected, nil
}

// Serialize exports the complete database image.
func (e *Engine) Serialize() ([]byte, error) {
	var image []byte
	err := e.conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		b, err := c.Serialize("")
		if err != nil {
			return fmt.Errorf("serialize database: %w", err)
		}
		image = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

// Reset discards the saved image and the live database, then bootstraps
// fresh (schema + seed) and persists the result.
func (e *Engine) Reset() error {
	if err := e.bridge.Clear(); err != nil {
		return fmt.Errorf("clear saved image: %w", err)
	}
	if err := e.dropAll(); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return e.bootstrap()
}

// restore installs a saved image and probes it for readability. The driver
// defers corruption checks to first page access, so a successful install is
// not enough to know the image is usable. A failed probe rolls the connection
// back to the pre-restore blank image, leaving bootstrap an empty database to
// build on.
func (e *Engine) restore(image []byte) error {
	blank, err := e.Serialize()
	if err != nil {
		return fmt.Errorf("snapshot blank database: %w", err)
	}
	if err := e.deserialize(image); err != nil {
		return err
	}
	if err := e.probe(); err != nil {
		if resetErr := e.deserialize(blank); resetErr != nil {
			return fmt.Errorf("read restored image: %w (blank reset failed: %v)", err, resetErr)
		}
		return fmt.Errorf("read restored image: %w", err)
	}
	return nil
}

// probe forces a schema read so a non-database image surfaces here instead of
// on the first caller statement.
func (e *Engine) probe() error {
	var n int
	return e.conn.QueryRowContext(context.Background(), "SELECT count(*) FROM sqlite_master").Scan(&n)
}

func (e *Engine) deserialize(image []byte) error {
	return e.conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return c.Deserialize(image, "")
	})
}

// bootstrap creates all tables and indexes, loads seed data, then persists
// the resulting image. Indexes exist only here: a restore loads the saved
// image verbatim, indexes included.
func (e *Engine) bootstrap() error {
	ctx := context.Background()
	if _, err := e.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := e.seed(); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	e.persist()
	logger.Infow("database_bootstrapped", "seed_demo", e.opts.SeedDemo)
	return nil
}

func (e *Engine) dropAll() error {
	ctx := context.Background()
	// children first so foreign keys stay satisfied
	for _, table := range []string{
		"order_items", "reviews", "analytics", "inventory",
		"orders", "products", "categories", "users",
	} {
		if _, err := e.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return err
		}
	}
	return nil
}

// persist hands the current image to the bridge. Failures are logged and
// swallowed: the in-memory engine stays authoritative for the rest of the
// process.
func (e *Engine) persist() {
	image, err := e.Serialize()
	if err != nil {
		logger.Errorw("database_serialize_failed", "error", err)
		return
	}
	e.bridge.Save(image)
}
