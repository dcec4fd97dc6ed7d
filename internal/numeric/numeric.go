// Package numeric coerces loosely typed wire values into finite decimals.
package numeric

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation failures
var (
	ErrNotNumeric = errors.New("not a number")
	ErrNotFinite  = errors.New("not finite")
	ErrNegative   = errors.New("negative")
	ErrZero       = errors.New("zero")
)

// FiniteNonNegative returns x as a decimal when it is a finite number >= 0.
func FiniteNonNegative(x any) (decimal.Decimal, error) {
	d, err := toDecimal(x)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	return d, nil
}

// FinitePositive returns x as a decimal when it is a finite number > 0.
func FinitePositive(x any) (decimal.Decimal, error) {
	d, err := FiniteNonNegative(x)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsZero() {
		return decimal.Zero, ErrZero
	}
	return d, nil
}

// OrZero returns the finite non-negative value of x, or zero.
// Used for optional prices where "unknown" and "invalid" mean the same.
func OrZero(x any) decimal.Decimal {
	d, err := FiniteNonNegative(x)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Coerce converts a wire value to float64. Non-numeric input yields NaN so
// downstream validation rejects it instead of silently using a default.
func Coerce(x any) float64 {
	switch v := x.(type) {
	case nil:
		return math.NaN()
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint64:
		return float64(v)
	case uint32:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case decimal.Decimal:
		return v.InexactFloat64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// IsFinite reports whether d fits in a finite float64.
func IsFinite(d decimal.Decimal) bool {
	f, _ := d.Float64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func toDecimal(x any) (decimal.Decimal, error) {
	switch v := x.(type) {
	case decimal.Decimal:
		if !IsFinite(v) {
			return decimal.Zero, ErrNotFinite
		}
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, ErrNotNumeric
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			f := Coerce(s)
			if math.IsNaN(f) {
				return decimal.Zero, ErrNotNumeric
			}
			return decimal.Zero, ErrNotFinite
		}
		if !IsFinite(d) {
			return decimal.Zero, ErrNotFinite
		}
		return d, nil
	case json.Number:
		return toDecimal(string(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	}

	f := Coerce(x)
	if math.IsNaN(f) {
		if x == nil {
			return decimal.Zero, ErrNotNumeric
		}
		if _, ok := x.(float64); ok {
			return decimal.Zero, ErrNotFinite
		}
		if _, ok := x.(float32); ok {
			return decimal.Zero, ErrNotFinite
		}
		return decimal.Zero, ErrNotNumeric
	}
	if math.IsInf(f, 0) {
		return decimal.Zero, ErrNotFinite
	}
	return decimal.NewFromFloat(f), nil
}
