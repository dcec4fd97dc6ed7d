package domain

import (
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

// Opportunity is one evaluated tick as shown and dispatched downstream.
type Opportunity struct {
	ID        string
	TickID    string
	Timestamp time.Time
	CEX       string
	DEX       string
	Route     pricingDomain.RouteQuote
	Modal     decimal.Decimal
	Prices    pricingDomain.CexPriceSnapshot
	Liquidity pricingDomain.Liquidity
	Wallet    pricingDomain.WalletStatus

	Result *PnlResult        // best result when Multi is set
	Multi  *MultiRouteResult // nil for single-route evaluation
	Err    error             // evaluation failure; Result is nil

	VolumeOK bool
	Signal   bool
}

// Key identifies the route; later opportunities supersede earlier ones.
func (o *Opportunity) Key() string {
	return o.CEX + "|" + o.DEX + "|" + o.Route.Key()
}

// IsProfitable returns true if the best result has positive profit.
func (o *Opportunity) IsProfitable() bool {
	return o.Err == nil && o.Result.IsProfitable()
}

// Provider is the label of the quote behind Result.
func (o *Opportunity) Provider() string {
	if o.Multi != nil && o.Multi.BestProvider != "" {
		return o.Multi.BestProvider
	}
	if o.Result != nil && o.Result.Provider != "" {
		return o.Result.Provider
	}
	if o.Route.Provider != "" {
		return o.Route.Provider
	}
	return o.DEX
}

// Percent is the headline percentage: BestPercent for multi-route results,
// ProfitLossPercent otherwise.
func (o *Opportunity) Percent() decimal.Decimal {
	switch {
	case o.Multi != nil:
		return o.Multi.BestPercent
	case o.Result != nil:
		return o.Result.ProfitLossPercent
	default:
		return decimal.Zero
	}
}
