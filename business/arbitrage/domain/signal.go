package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

// VolumeGate selects how CEX liquidity gates a signal.
type VolumeGate string

const (
	GateOff       VolumeGate = "off"
	GateStrict    VolumeGate = "strict"     // volume >= modal
	GateAutoLevel VolumeGate = "auto_level" // order book fills the modal within tolerance
)

// DefaultAutoLevelTolerance is the share of the modal an auto-level fill may fall short by.
var DefaultAutoLevelTolerance = decimal.RequireFromString("0.001")

// ParseVolumeGate parses a configured gate name.
func ParseVolumeGate(s string) (VolumeGate, error) {
	switch g := VolumeGate(s); g {
	case GateOff, GateStrict, GateAutoLevel:
		return g, nil
	case "":
		return GateOff, nil
	default:
		return "", fmt.Errorf("unknown volume gate %q", s)
	}
}

// SignalPolicy decides which results are worth notifying. A zero Threshold
// disables the threshold check.
type SignalPolicy struct {
	Threshold decimal.Decimal
	Volume    VolumeGate
	Tolerance decimal.Decimal
}

// IsProfitable reports pnl > 0.
func (p SignalPolicy) IsProfitable(pnl decimal.Decimal) bool {
	return pnl.IsPositive()
}

// VolumeOK applies the volume gate. Auto-level passes when the book was not
// measured, since there is nothing to level against.
func (p SignalPolicy) VolumeOK(modal decimal.Decimal, liq pricingDomain.Liquidity) bool {
	switch p.Volume {
	case GateStrict:
		return liq.Volume.GreaterThanOrEqual(modal)
	case GateAutoLevel:
		if !liq.Measured {
			return true
		}
		tol := p.Tolerance
		if tol.IsZero() {
			tol = DefaultAutoLevelTolerance
		}
		return liq.ActualModal.Add(tol.Mul(modal)).GreaterThanOrEqual(modal)
	default:
		return true
	}
}

// IsSignalWorthy reports pnl > 0, pnl above the threshold when one is set,
// and a passing volume gate.
func (p SignalPolicy) IsSignalWorthy(pnl, modal decimal.Decimal, liq pricingDomain.Liquidity) bool {
	if !p.IsProfitable(pnl) {
		return false
	}
	if !p.Threshold.IsZero() && !pnl.GreaterThan(p.Threshold) {
		return false
	}
	return p.VolumeOK(modal, liq)
}
