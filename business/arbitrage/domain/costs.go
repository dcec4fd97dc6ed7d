// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

// TradeCostModel is the full cost of one attempt in USD.
// TotalCost is always Modal + TotalFee.
type TradeCostModel struct {
	Modal       decimal.Decimal
	FeeWithdraw decimal.Decimal
	FeeTransfer decimal.Decimal
	FeeTrade    decimal.Decimal
	FeeSwap     decimal.Decimal
	TotalFee    decimal.Decimal
	TotalCost   decimal.Decimal
}

// PnlResult is the outcome of evaluating one route.
type PnlResult struct {
	TotalValue        decimal.Decimal
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
	Gross             decimal.Decimal // TotalValue - Modal
	ResolvedUSDRate   decimal.Decimal
	RateSource        pricingDomain.RateSource
	Costs             TradeCostModel
	BuyPrice          decimal.Decimal
	SellPrice         decimal.Decimal
	Provider          string
}

// IsProfitable reports a strictly positive profit.
func (r *PnlResult) IsProfitable() bool {
	return r != nil && r.ProfitLoss.IsPositive()
}

// Candidate is one sub-route of a multi-route evaluation. Exactly one of
// Result and Err is set.
type Candidate struct {
	Provider string
	Result   *PnlResult
	Err      error
}

// MultiRouteResult is the best-of-N breakdown for a route.
type MultiRouteResult struct {
	Candidates   []Candidate
	Best         *PnlResult
	BestProvider string
	BestPnl      decimal.Decimal
	BestPercent  decimal.Decimal // BestPnl relative to the modal
}

// Valid counts candidates that evaluated successfully.
func (m *MultiRouteResult) Valid() int {
	n := 0
	for _, c := range m.Candidates {
		if c.Err == nil {
			n++
		}
	}
	return n
}
