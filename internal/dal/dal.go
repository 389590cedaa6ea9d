// Package dal presents a uniform, collection-oriented CRUD contract over the
// relational engine, insulating domain services from statement construction
// and row-shape differences. Collections are typed descriptors rather than
// string-dispatched table names; every mutation funnels through the engine's
// persist-after-write choke point.
package dal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/knotara/storefront/internal/engine"
	"github.com/knotara/storefront/internal/logger"
	"github.com/knotara/storefront/internal/models"
)

// ErrNotImplemented marks declared extension points.
var ErrNotImplemented = errors.New("not implemented")

// Store is the data access layer over one injected engine instance. It holds
// no state of its own.
type Store struct {
	engine *engine.Engine
}

// New creates a Store over the given engine.
func New(e *engine.Engine) *Store {
	return &Store{engine: e}
}

// Engine exposes the underlying engine for collection-specific statements
// within this package and its tests.
func (s *Store) Engine() *engine.Engine {
	return s.engine
}

// Filter is an exact-match equality map over domain field names. No range or
// partial matching happens at this layer.
type Filter map[string]any

// Fields is a partial set of domain field values for Update.
type Fields map[string]any

// Options controls result ordering and pagination.
type Options struct {
	SortBy    string
	SortOrder string // "asc" (default) or "desc"
	Limit     int
	Offset    int
}

// Collection describes how one logical collection maps onto its table: the
// physical name, field-to-column renames, the insert routine, and the row
// transform back to the domain shape.
type Collection[T any] struct {
	name      string
	table     string
	columns   map[string]string
	insert    func(*engine.Engine, T) error
	transform func(engine.Row) T
}

// Name returns the logical collection name.
func (c Collection[T]) Name() string { return c.name }

// Table returns the physical table name.
func (c Collection[T]) Table() string { return c.table }

// Insert stores the record and echoes the input back unchanged; callers must
// treat the input as authoritative after insert, there is no re-read.
func Insert[T any](s *Store, c Collection[T], record T) (T, error) {
	if err := c.insert(s.engine, record); err != nil {
		return record, fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return record, nil
}

// FindByID queries by primary key and transforms the row. Missing ids and
// read failures both yield nil; read errors are logged, never propagated.
func FindByID[T any](s *Store, c Collection[T], id string) *T {
	row, err := s.engine.Get(`SELECT * FROM `+c.table+` WHERE id = ?`, id)
	if err != nil {
		logger.Warnw("find_by_id_failed", "collection", c.name, "id", id, "error", err)
		return nil
	}
	if row == nil {
		return nil
	}
	record := c.transform(row)
	return &record
}

// Find returns all records matching the equality filter, as a single
// parameterized statement. An empty filter is an unrestricted scan. Read
// failures degrade to an empty result.
func Find[T any](s *Store, c Collection[T], filter Filter, opts Options) []T {
	query := `SELECT * FROM ` + c.table
	var params []any

	if len(filter) > 0 {
		conditions := make([]string, 0, len(filter))
		for _, field := range sortedKeys(filter) {
			conditions = append(conditions, c.column(field)+" = ?")
			params = append(params, encodeValue(filter[field]))
		}
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	if opts.SortBy != "" {
		direction := "ASC"
		if strings.EqualFold(opts.SortOrder, "desc") {
			direction = "DESC"
		}
		query += ` ORDER BY ` + c.column(opts.SortBy) + ` ` + direction
	}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		params = append(params, opts.Limit)
	} else if opts.Offset > 0 {
		// OFFSET is only valid after LIMIT; -1 means unbounded.
		query += ` LIMIT -1`
	}
	if opts.Offset > 0 {
		query += ` OFFSET ?`
		params = append(params, opts.Offset)
	}

	rows, err := s.engine.Query(query, params...)
	if err != nil {
		logger.Warnw("find_failed", "collection", c.name, "error", err)
		return nil
	}
	records := make([]T, 0, len(rows))
	for _, row := range rows {
		records = append(records, c.transform(row))
	}
	return records
}

// FindOne returns the first record matching the filter, or nil.
func FindOne[T any](s *Store, c Collection[T], filter Filter) *T {
	records := Find(s, c, filter, Options{Limit: 1})
	if len(records) == 0 {
		return nil
	}
	return &records[0]
}

// Update builds a partial SET clause from only the supplied fields, always
// additionally stamping the update timestamp, then re-reads and returns the
// updated record. A missing id yields nil.
func Update[T any](s *Store, c Collection[T], id string, fields Fields) (*T, error) {
	if len(fields) == 0 {
		return FindByID(s, c, id), nil
	}

	assignments := make([]string, 0, len(fields)+1)
	var params []any
	for _, field := range sortedKeys(fields) {
		assignments = append(assignments, c.column(field)+" = ?")
		params = append(params, encodeValue(fields[field]))
	}
	assignments = append(assignments, c.timestampColumn()+" = ?")
	params = append(params, time.Now().UTC())
	params = append(params, id)

	query := `UPDATE ` + c.table + ` SET ` + strings.Join(assignments, ", ") + ` WHERE id = ?`
	affected, err := s.engine.Run(query, params...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", c.name, err)
	}
	if affected == 0 {
		return nil, nil
	}
	return FindByID(s, c, id), nil
}

// Delete removes the record by primary key. The result is existence-aware:
// true only when a row was actually removed.
func Delete[T any](s *Store, c Collection[T], id string) (bool, error) {
	affected, err := s.engine.Run(`DELETE FROM `+c.table+` WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", c.name, err)
	}
	return affected > 0, nil
}

// Count returns the number of records matching the filter. Read failures
// degrade to zero.
func Count[T any](s *Store, c Collection[T], filter Filter) int {
	query := `SELECT COUNT(*) AS n FROM ` + c.table
	var params []any
	if len(filter) > 0 {
		conditions := make([]string, 0, len(filter))
		for _, field := range sortedKeys(filter) {
			conditions = append(conditions, c.column(field)+" = ?")
			params = append(params, encodeValue(filter[field]))
		}
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	row, err := s.engine.Get(query, params...)
	if err != nil || row == nil {
		return 0
	}
	return row.Int("n")
}

// column resolves a domain field name to its physical column. Unknown names
// pass through after an identifier check so a hostile field cannot smuggle
// SQL into the statement.
func (c Collection[T]) column(field string) string {
	if col, ok := c.columns[field]; ok {
		return col
	}
	return safeIdentifier(field)
}

// timestampColumn is the column stamped on every update. The inventory table
// predates the shared naming and keeps last_updated.
func (c Collection[T]) timestampColumn() string {
	if c.table == "inventory" {
		return "last_updated"
	}
	return "updated_at"
}

func safeIdentifier(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, name)
	if cleaned == "" {
		return "id"
	}
	return cleaned
}

// sortedKeys gives deterministic statement text for map-shaped input.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// encodeValue converts a domain value to its storage representation:
// structured values are JSON-encoded at this edge, booleans become integer
// flags, money becomes its numeric value.
func encodeValue(v any) any {
	switch value := v.(type) {
	case models.Money:
		return value.Float()
	case bool:
		if value {
			return 1
		}
		return 0
	case []string, map[string]any, models.BillingAddress:
		raw, err := json.Marshal(value)
		if err != nil {
			logger.Warnw("encode_value_failed", "error", err)
			return "null"
		}
		return string(raw)
	case *time.Time:
		if value == nil {
			return nil
		}
		return *value
	default:
		return v
	}
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
