package database

import (
	"github.com/koustreak/cursorkit/internal/errs"
)

// staticRows is an in-memory Rows over pre-materialised cells.
type staticRows struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
}

// StaticRows returns a Rows that yields the given rows in order. Scan only
// accepts *any destinations, which is what ResultSet passes.
func StaticRows(columns []string, rows [][]any) Rows {
	return &staticRows{columns: columns, rows: rows, pos: -1}
}

func (s *staticRows) Next() bool {
	if s.closed || s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return s.pos < len(s.rows)
}

func (s *staticRows) Scan(dest ...any) error {
	if s.closed || s.pos < 0 || s.pos >= len(s.rows) {
		return errs.New(errs.ErrKindInvalidInput, "scan called without a current row")
	}
	row := s.rows[s.pos]
	if len(dest) != len(row) {
		return errs.Newf(errs.ErrKindInvalidInput, "expected %d scan destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		p, ok := d.(*any)
		if !ok {
			return errs.Newf(errs.ErrKindInvalidInput, "unsupported scan destination %T", d)
		}
		*p = row[i]
	}
	return nil
}

func (s *staticRows) Columns() ([]string, error) {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out, nil
}

func (s *staticRows) Close()     { s.closed = true }
func (s *staticRows) Err() error { return nil }
