package domain

import pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"

// Describe returns a human-readable description of a route direction.
func Describe(d pricingDomain.Direction, cex, dex string) string {
	if cex == "" {
		cex = "CEX"
	}
	if dex == "" {
		dex = "DEX"
	}
	switch d {
	case pricingDomain.TokenToPair:
		return "CEX → DEX (buy token on " + cex + ", sell on " + dex + ")"
	case pricingDomain.PairToToken:
		return "DEX → CEX (buy token on " + dex + ", sell on " + cex + ")"
	default:
		return "Unknown"
	}
}
