// Package cursor reads typed column values from a result cursor by column
// name instead of by position.
//
// Every accessor resolves the name through the cursor's own ColumnIndex and
// then calls the positional getter for the requested type. Nothing is cached,
// converted or defaulted here: what happens for NULL cells, mismatched types
// or numeric overflow is decided by the Cursor implementation, and its errors
// are returned unchanged.
//
// Usage:
//
//	rs, err := database.QueryCursor(ctx, db, `SELECT name, age FROM users`)
//	if err != nil { ... }
//	defer rs.Close()
//
//	for rs.Next() {
//	    name, err := cursor.GetText(rs, "name")
//	    ...
//	}
package cursor

import (
	"github.com/koustreak/cursorkit/internal/errs"
)

// Cursor is the positional result-set contract the accessors resolve against.
// The current row is owned and advanced by the implementation.
type Cursor interface {
	// ColumnIndex returns the zero-based position of the column with exactly
	// this name, or -1 if the result set has no such column.
	ColumnIndex(name string) int

	String(i int) (string, error)
	Int32(i int) (int32, error)
	Int16(i int) (int16, error)
	Int64(i int) (int64, error)
	Float32(i int) (float32, error)
	Float64(i int) (float64, error)
	Bytes(i int) ([]byte, error)
	IsNull(i int) (bool, error)
}

// ColumnIndex resolves column to its position in c.
// Returns an ErrKindColumnNotFound error when c has no column with that
// exact (case-sensitive) name.
func ColumnIndex(c Cursor, column string) (int, error) {
	i := c.ColumnIndex(column)
	if i < 0 {
		return -1, errs.Newf(errs.ErrKindColumnNotFound, "column %q not found", column)
	}
	return i, nil
}

// GetText returns the value of the named column in the current row as a string.
func GetText(c Cursor, column string) (string, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return "", err
	}
	return c.String(i)
}

// GetInt32 returns the value of the named column in the current row as an int32.
func GetInt32(c Cursor, column string) (int32, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return 0, err
	}
	return c.Int32(i)
}

// GetFloat32 returns the value of the named column in the current row as a float32.
func GetFloat32(c Cursor, column string) (float32, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return 0, err
	}
	return c.Float32(i)
}

// GetInt64 returns the value of the named column in the current row as an int64.
func GetInt64(c Cursor, column string) (int64, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return 0, err
	}
	return c.Int64(i)
}

// GetInt16 returns the value of the named column in the current row as an int16.
func GetInt16(c Cursor, column string) (int16, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return 0, err
	}
	return c.Int16(i)
}

// GetFloat64 returns the value of the named column in the current row as a float64.
func GetFloat64(c Cursor, column string) (float64, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return 0, err
	}
	return c.Float64(i)
}

// GetBlob returns the raw bytes of the named column in the current row.
// The slice may alias the cursor's row buffer; copy it to keep it past Next.
func GetBlob(c Cursor, column string) ([]byte, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return nil, err
	}
	return c.Bytes(i)
}

// IsNull reports whether the named column in the current row holds NULL.
func IsNull(c Cursor, column string) (bool, error) {
	i, err := ColumnIndex(c, column)
	if err != nil {
		return false, err
	}
	return c.IsNull(i)
}
