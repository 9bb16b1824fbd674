package database

import (
	"database/sql/driver"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/koustreak/cursorkit/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decimal mimics driver types such as pgtype.Numeric that resolve to text.
type decimal string

func (d decimal) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

type broken struct{}

func (broken) Value() (driver.Value, error) { return nil, errors.New("corrupt") }

type status int

func (s status) String() string { return "active" }

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		bits int
		want int64
		kind errs.ErrKind // ErrKindUnknown means success
	}{
		{"int32 as int32", int32(7), 32, 7, errs.ErrKindUnknown},
		{"int64 fits int16", int64(-32768), 16, -32768, errs.ErrKindUnknown},
		{"int64 overflows int16", int64(32768), 16, 0, errs.ErrKindOutOfRange},
		{"int64 overflows int32", int64(math.MaxInt32 + 1), 32, 0, errs.ErrKindOutOfRange},
		{"int8 from msgpack", int8(-5), 64, -5, errs.ErrKindUnknown},
		{"uint64 too large", uint64(math.MaxUint64), 64, 0, errs.ErrKindOutOfRange},
		{"uint16", uint16(65535), 32, 65535, errs.ErrKindUnknown},
		{"bool true", true, 32, 1, errs.ErrKindUnknown},
		{"float truncates", 12.9, 32, 12, errs.ErrKindUnknown},
		{"negative float truncates", float32(-2.5), 16, -2, errs.ErrKindUnknown},
		{"float too large", 1e30, 64, 0, errs.ErrKindOutOfRange},
		{"NaN", math.NaN(), 64, 0, errs.ErrKindTypeMismatch},
		{"decimal text", "42", 32, 42, errs.ErrKindUnknown},
		{"text with spaces", " 42 ", 32, 42, errs.ErrKindUnknown},
		{"mysql bytes", []byte("-17"), 16, -17, errs.ErrKindUnknown},
		{"fractional text", "12.7", 32, 12, errs.ErrKindUnknown},
		{"huge text", "99999999999999999999", 64, 0, errs.ErrKindOutOfRange},
		{"exponent text beyond float64", "1e400", 64, 0, errs.ErrKindOutOfRange},
		{"non numeric text", "seven", 32, 0, errs.ErrKindTypeMismatch},
		{"nil", nil, 32, 0, errs.ErrKindNullValue},
		{"time", time.Unix(0, 0), 64, 0, errs.ErrKindTypeMismatch},
		{"valuer", decimal("123"), 64, 123, errs.ErrKindUnknown},
		{"null valuer", decimal(""), 64, 0, errs.ErrKindNullValue},
		{"broken valuer", broken{}, 64, 0, errs.ErrKindTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toInt(tt.in, tt.bits, "col")
			if tt.kind == errs.ErrKindUnknown {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err), err.Error())
			assert.Contains(t, err.Error(), `"col"`)
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		bits int
		want float64
		kind errs.ErrKind
	}{
		{"float64", 98.25, 64, 98.25, errs.ErrKindUnknown},
		{"float32", float32(0.5), 32, 0.5, errs.ErrKindUnknown},
		{"int", int32(3), 64, 3, errs.ErrKindUnknown},
		{"uint", uint8(200), 32, 200, errs.ErrKindUnknown},
		{"text", "2.5e3", 64, 2500, errs.ErrKindUnknown},
		{"bytes", []byte("-0.25"), 32, -0.25, errs.ErrKindUnknown},
		{"too large for float32", 1e39, 32, 0, errs.ErrKindOutOfRange},
		{"infinity passes", math.Inf(1), 32, math.Inf(1), errs.ErrKindUnknown},
		{"text overflow", "1e400", 64, 0, errs.ErrKindOutOfRange},
		{"bad text", "abc", 64, 0, errs.ErrKindTypeMismatch},
		{"bool", true, 64, 0, errs.ErrKindTypeMismatch},
		{"nil", nil, 64, 0, errs.ErrKindNullValue},
		{"valuer", decimal("1.5"), 64, 1.5, errs.ErrKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toFloat(tt.in, tt.bits, "col")
			if tt.kind == errs.ErrKindUnknown {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err), err.Error())
		})
	}
}

func TestToString(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)

	tests := []struct {
		name string
		in   any
		want string
		kind errs.ErrKind
	}{
		{"string", "Ann", "Ann", errs.ErrKindUnknown},
		{"bytes", []byte("Ann"), "Ann", errs.ErrKindUnknown},
		{"int", int64(-7), "-7", errs.ErrKindUnknown},
		{"uint", uint32(7), "7", errs.ErrKindUnknown},
		{"float32 shortest", float32(0.1), "0.1", errs.ErrKindUnknown},
		{"float64", 2.5, "2.5", errs.ErrKindUnknown},
		{"bool", false, "false", errs.ErrKindUnknown},
		{"time", ts, "2024-03-01T12:30:00.0000005Z", errs.ErrKindUnknown},
		{"stringer", status(1), "active", errs.ErrKindUnknown},
		{"valuer", decimal("9.99"), "9.99", errs.ErrKindUnknown},
		{"nil", nil, "", errs.ErrKindNullValue},
		{"slice", []int{1}, "", errs.ErrKindTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toString(tt.in, "col")
			if tt.kind == errs.ErrKindUnknown {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err), err.Error())
		})
	}
}

func TestToBytes(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}

	got, err := toBytes(raw, "photo")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Same(t, &raw[0], &got[0], "[]byte cells are returned without copying")

	got, err = toBytes("abc", "photo")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	_, err = toBytes(nil, "photo")
	assert.True(t, errs.IsNullValue(err))

	_, err = toBytes(int64(1), "photo")
	assert.True(t, errs.IsTypeMismatch(err))
}
