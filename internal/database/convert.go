package database

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/koustreak/cursorkit/internal/errs"
)

// Conversion rules for ResultSet cells. Drivers hand back whatever Go type
// suits the wire format (int32 from pgx int4, int64 or []byte from MySQL,
// int8 from MessagePack, ...), so the typed getters accept any value that
// can be read losslessly or by truncation, and reject the rest:
//
//   - nil is NULL and fails every typed read with ErrKindNullValue
//   - integers accept every integer kind, bool, floats (truncated toward
//     zero) and decimal text; narrowing overflow is ErrKindOutOfRange
//   - floats accept every numeric kind and decimal text
//   - strings accept text, numbers, bool, time.Time and fmt.Stringer
//   - bytes accept []byte (borrowed) and string (copied)
//
// driver.Valuer cells (pgtype values and the like) are resolved first.

func toString(v any, column string) (string, error) {
	v, err := resolve(v, column)
	if err != nil {
		return "", err
	}

	switch x := v.(type) {
	case nil:
		return "", nullErr(column, "string")
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	}
	return "", mismatchErr(column, v, "string")
}

// toInt reads v as a signed integer that must fit in bits.
func toInt(v any, bits int, column string) (int64, error) {
	want := "int" + strconv.Itoa(bits)

	v, err := resolve(v, column)
	if err != nil {
		return 0, err
	}

	var n int64
	switch x := v.(type) {
	case nil:
		return 0, nullErr(column, want)
	case string:
		if n, err = parseInt(x, column, want); err != nil {
			return 0, err
		}
	case []byte:
		if n, err = parseInt(string(x), column, want); err != nil {
			return 0, err
		}
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Bool:
			if rv.Bool() {
				n = 1
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n = rv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			u := rv.Uint()
			if u > math.MaxInt64 {
				return 0, rangeErr(column, v, want)
			}
			n = int64(u)
		case reflect.Float32, reflect.Float64:
			if n, err = truncate(rv.Float(), column, want); err != nil {
				return 0, err
			}
		default:
			return 0, mismatchErr(column, v, want)
		}
	}

	if bits < 64 {
		limit := int64(1) << (bits - 1)
		if n < -limit || n > limit-1 {
			return 0, rangeErr(column, n, want)
		}
	}
	return n, nil
}

// toFloat reads v as a floating-point number representable in bits.
func toFloat(v any, bits int, column string) (float64, error) {
	want := "float" + strconv.Itoa(bits)

	v, err := resolve(v, column)
	if err != nil {
		return 0, err
	}

	var f float64
	switch x := v.(type) {
	case nil:
		return 0, nullErr(column, want)
	case string:
		if f, err = parseFloat(x, column, want); err != nil {
			return 0, err
		}
	case []byte:
		if f, err = parseFloat(string(x), column, want); err != nil {
			return 0, err
		}
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return 0, mismatchErr(column, v, want)
		}
	}

	if bits == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, rangeErr(column, f, want)
	}
	return f, nil
}

func toBytes(v any, column string) ([]byte, error) {
	v, err := resolve(v, column)
	if err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case nil:
		return nil, nullErr(column, "bytes")
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	}
	return nil, mismatchErr(column, v, "bytes")
}

// resolve unwraps driver.Valuer cells into their driver value.
func resolve(v any, column string) (any, error) {
	vr, ok := v.(driver.Valuer)
	if !ok {
		return v, nil
	}
	dv, err := vr.Value()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindTypeMismatch, fmt.Sprintf("column %q: cannot resolve %T", column, v), err)
	}
	return dv, nil
}

func parseInt(s, column, want string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// "12.7" and "1e3" still read as integers, like numeric columns do.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if isRange(err) {
			return 0, rangeErr(column, s, want)
		}
		return 0, mismatchErr(column, s, want)
	}
	return truncate(f, column, want)
}

func parseFloat(s, column, want string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		if isRange(err) {
			return 0, rangeErr(column, s, want)
		}
		return 0, mismatchErr(column, s, want)
	}
	return f, nil
}

func isRange(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func truncate(f float64, column, want string) (int64, error) {
	if math.IsNaN(f) {
		return 0, mismatchErr(column, f, want)
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, rangeErr(column, f, want)
	}
	return int64(t), nil
}

func nullErr(column, want string) error {
	return errs.Newf(errs.ErrKindNullValue, "column %q is NULL, cannot read as %s", column, want)
}

func mismatchErr(column string, v any, want string) error {
	return errs.Newf(errs.ErrKindTypeMismatch, "column %q holds %T, cannot read as %s", column, v, want)
}

func rangeErr(column string, v any, want string) error {
	return errs.Newf(errs.ErrKindOutOfRange, "column %q value %v overflows %s", column, v, want)
}
