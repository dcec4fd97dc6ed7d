package asset

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNilAsset       = errors.New("asset: nil asset")
	ErrNegativeAmount = errors.New("asset: negative amount")
	ErrInvalidRaw     = errors.New("asset: invalid base-unit integer")
)

// Amount is a quantity in the asset's smallest unit, as aggregators report
// swap outputs (wei for 18-decimal tokens).
type Amount struct {
	units *big.Int
	asset *Asset
}

// ParseRaw reads a base-10 base-unit integer such as "1500000000000000000".
func ParseRaw(a *Asset, s string) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}
	units, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidRaw, s)
	}
	if units.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{units: units, asset: a}, nil
}

func (a Amount) Asset() *Asset { return a.asset }

// ToDecimal shifts the base units by the asset's decimals.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.units == nil || a.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.units, -int32(a.asset.Decimals()))
}

// ToFloat64 is ToDecimal for the float quote path.
func (a Amount) ToFloat64() float64 {
	f, _ := a.ToDecimal().Float64()
	return f
}

func (a Amount) String() string {
	if a.asset == nil {
		return "0"
	}
	return a.ToDecimal().String() + " " + a.asset.Symbol()
}
