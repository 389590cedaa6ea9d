package engine

import (
	"database/sql"
	"time"
)

// Row is a result row keyed by column name, mirroring what the embedded
// engine hands back. Typed accessors absorb SQLite's dynamic typing.
type Row map[string]any

// Has reports whether the column is present and non-NULL.
func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the column as a string, or "" when absent or NULL.
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Float returns the column as a float64.
func (r Row) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Int returns the column as an int.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Bool coerces an integer-flag column to a boolean.
func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// Time returns the column as a time.Time. DATETIME columns come back as
// time.Time from the driver; string values are parsed as a fallback.
func (r Row) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}
	}
}

// TimePtr returns the column as *time.Time, nil for NULL.
func (r Row) TimePtr(key string) *time.Time {
	if !r.Has(key) {
		return nil
	}
	t := r.Time(key)
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseTime(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// scanRows drains sql.Rows into column-keyed maps.
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				// copy: the driver may reuse the buffer on the next step
				row[name] = string(b)
			} else {
				row[name] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
