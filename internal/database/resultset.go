package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/koustreak/cursorkit/internal/errs"
)

// ResultSet is a forward-only cursor over a Rows stream that implements
// cursor.Cursor. Each call to Next scans the whole row into memory so that
// the typed getters can be called any number of times, in any order.
//
// A ResultSet is not safe for concurrent use.
type ResultSet struct {
	rows    Rows
	columns []string
	index   map[string]int
	current []any // nil when not positioned on a row
	err     error
}

// NewResultSet wraps rows. The column list is read once here; when a name
// appears more than once, ColumnIndex resolves it to the first position.
// On error rows is closed.
func NewResultSet(rows Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, wrapQuery("failed to read column names", err)
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	return &ResultSet{rows: rows, columns: columns, index: index}, nil
}

// QueryCursor runs sql against db and returns the result as a ResultSet.
// The caller must Close it.
func QueryCursor(ctx context.Context, db DB, sql string, args ...any) (*ResultSet, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return NewResultSet(rows)
}

// Next advances to the next row. It returns false when the rows are
// exhausted or a scan failed; check Err afterwards.
func (r *ResultSet) Next() bool {
	r.current = nil
	if r.err != nil || !r.rows.Next() {
		return false
	}

	// Allocate scan targets as *any so the driver can write any type.
	dest := make([]any, len(r.columns))
	destPtrs := make([]any, len(r.columns))
	for i := range dest {
		destPtrs[i] = &dest[i]
	}

	if err := r.rows.Scan(destPtrs...); err != nil {
		r.err = wrapQuery("failed to scan row", err)
		return false
	}

	r.current = dest
	return true
}

// Err returns the first error met while iterating.
func (r *ResultSet) Err() error {
	if r.err != nil {
		return r.err
	}
	if err := r.rows.Err(); err != nil {
		return wrapQuery("error during row iteration", err)
	}
	return nil
}

// Close releases the underlying rows.
func (r *ResultSet) Close() {
	r.current = nil
	r.rows.Close()
}

// Columns returns the column names in position order.
func (r *ResultSet) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// ColumnIndex returns the position of the column with exactly this name,
// or -1.
func (r *ResultSet) ColumnIndex(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

// --- cursor.Cursor positional getters ---

func (r *ResultSet) String(i int) (string, error) {
	v, err := r.cell(i)
	if err != nil {
		return "", err
	}
	return toString(v, r.columns[i])
}

func (r *ResultSet) Int16(i int) (int16, error) {
	v, err := r.cell(i)
	if err != nil {
		return 0, err
	}
	n, err := toInt(v, 16, r.columns[i])
	return int16(n), err
}

func (r *ResultSet) Int32(i int) (int32, error) {
	v, err := r.cell(i)
	if err != nil {
		return 0, err
	}
	n, err := toInt(v, 32, r.columns[i])
	return int32(n), err
}

func (r *ResultSet) Int64(i int) (int64, error) {
	v, err := r.cell(i)
	if err != nil {
		return 0, err
	}
	return toInt(v, 64, r.columns[i])
}

func (r *ResultSet) Float32(i int) (float32, error) {
	v, err := r.cell(i)
	if err != nil {
		return 0, err
	}
	f, err := toFloat(v, 32, r.columns[i])
	return float32(f), err
}

func (r *ResultSet) Float64(i int) (float64, error) {
	v, err := r.cell(i)
	if err != nil {
		return 0, err
	}
	return toFloat(v, 64, r.columns[i])
}

// Bytes returns []byte cells without copying; the slice is only valid
// until the next call to Next.
func (r *ResultSet) Bytes(i int) ([]byte, error) {
	v, err := r.cell(i)
	if err != nil {
		return nil, err
	}
	return toBytes(v, r.columns[i])
}

func (r *ResultSet) IsNull(i int) (bool, error) {
	v, err := r.cell(i)
	if err != nil {
		return false, err
	}
	v, err = resolve(v, r.columns[i])
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (r *ResultSet) cell(i int) (any, error) {
	if i < 0 || i >= len(r.columns) {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "column index %d out of range [0, %d)", i, len(r.columns))
	}
	if r.current == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "result set is not positioned on a row")
	}
	return r.current[i], nil
}

// wrapQuery keeps errors a driver already classified and marks everything
// else as a query failure.
func wrapQuery(msg string, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
