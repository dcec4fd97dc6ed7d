package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbscan/internal/numeric"
)

// ErrUnresolvedRate is returned when no strategy yields a usable USD rate.
var ErrUnresolvedRate = errors.New("dex usd rate invalid")

// RateSource names the strategy that produced a rate.
type RateSource string

const (
	SourceStableQuote RateSource = "stable_quote"
	SourceChainBase   RateSource = "chain_base"
	SourceCrossRate   RateSource = "cross_rate"
	SourceFallback    RateSource = "fallback"
)

// RateInput carries everything a strategy may look at. Amounts are already validated.
type RateInput struct {
	Direction Direction
	AmountIn  decimal.Decimal
	AmountOut decimal.Decimal
	Quote     string // the route's pair symbol
	ChainBase string // native coin symbol of the route's chain
	Prices    Prices
}

// Raw is the DEX output per unit of input: pair per token for TokenToPair,
// token per pair for PairToToken.
func (in RateInput) Raw() decimal.Decimal {
	if !in.AmountIn.IsPositive() {
		return decimal.Zero
	}
	return in.AmountOut.Div(in.AmountIn)
}

// reference is the CEX token price the DEX rate is compared against.
func (in RateInput) reference() decimal.Decimal {
	if in.Direction == PairToToken {
		return in.Prices.SellToken
	}
	return in.Prices.BuyToken
}

// UsdRate is a resolved USD-per-token rate.
type UsdRate struct {
	Value  decimal.Decimal
	Source RateSource
}

// RateStrategy converts a route's raw DEX rate to USD per token.
type RateStrategy interface {
	Source() RateSource
	Rate(in RateInput) (decimal.Decimal, bool)
}

// StableChecker reports whether a symbol is a USD stablecoin.
type StableChecker interface {
	IsStable(symbol string) bool
}

// Resolver tries strategies in order; the first acceptable rate wins.
type Resolver struct {
	strategies []RateStrategy
}

// NewResolver returns the standard ladder: stable quote, chain base, CEX cross rate, fallback.
func NewResolver(stables StableChecker) *Resolver {
	return NewResolverWithStrategies(
		StableQuote{Stables: stables},
		ChainBase{},
		CrossRate{},
		Fallback{},
	)
}

// NewResolverWithStrategies builds a resolver from an explicit ladder.
func NewResolverWithStrategies(strategies ...RateStrategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the first finite non-negative rate.
func (r *Resolver) Resolve(in RateInput) (UsdRate, error) {
	for _, s := range r.strategies {
		v, ok := s.Rate(in)
		if !ok || v.IsNegative() || !numeric.IsFinite(v) {
			continue
		}
		return UsdRate{Value: v, Source: s.Source()}, nil
	}
	return UsdRate{}, ErrUnresolvedRate
}

// StableQuote applies when the quote is a stablecoin: the raw rate already is USD.
type StableQuote struct {
	Stables StableChecker
}

func (StableQuote) Source() RateSource { return SourceStableQuote }

func (s StableQuote) Rate(in RateInput) (decimal.Decimal, bool) {
	if s.Stables == nil || !s.Stables.IsStable(in.Quote) {
		return decimal.Zero, false
	}
	raw := in.Raw()
	if in.Direction == PairToToken {
		if !raw.IsPositive() {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(1).Div(raw), true
	}
	return raw, raw.IsPositive()
}

// ChainBase applies when the quote is the chain's native coin and its USD price is known.
type ChainBase struct{}

func (ChainBase) Source() RateSource { return SourceChainBase }

func (ChainBase) Rate(in RateInput) (decimal.Decimal, bool) {
	if in.ChainBase == "" || !equalSymbol(in.Quote, in.ChainBase) || !in.Prices.BaseUSD.IsPositive() {
		return decimal.Zero, false
	}
	return oriented(in, in.Prices.BaseUSD)
}

// CrossRate converts through the CEX price of the quote asset.
type CrossRate struct{}

func (CrossRate) Source() RateSource { return SourceCrossRate }

func (CrossRate) Rate(in RateInput) (decimal.Decimal, bool) {
	if !in.Prices.BuyPair.IsPositive() {
		return decimal.Zero, false
	}
	return oriented(in, in.Prices.BuyPair)
}

// Fallback falls back to CEX prices, then to the raw rate itself.
type Fallback struct{}

func (Fallback) Source() RateSource { return SourceFallback }

func (Fallback) Rate(in RateInput) (decimal.Decimal, bool) {
	raw := in.Raw()
	p := in.Prices
	if in.Direction == PairToToken {
		switch {
		case p.SellToken.IsPositive():
			return p.SellToken, true
		case p.BuyPair.IsPositive():
			return p.BuyPair, true
		case raw.IsPositive():
			return decimal.NewFromInt(1).Div(raw), true
		default:
			return decimal.Zero, true
		}
	}
	switch {
	case raw.IsPositive() && p.SellPair.IsPositive():
		return raw.Mul(p.SellPair), true
	case p.BuyToken.IsPositive():
		return p.BuyToken, true
	default:
		return raw, true
	}
}

// oriented picks between raw*q2u and q2u/raw. Provider payloads are not
// consistent about which way round a rate is quoted, so when the CEX reference
// price is known the candidate closer to it wins (raw*q2u on a tie). Without a
// reference the direction's canonical form is used.
func oriented(in RateInput, q2u decimal.Decimal) (decimal.Decimal, bool) {
	raw := in.Raw()
	candA := raw.Mul(q2u)
	candB := decimal.Zero
	if raw.IsPositive() {
		candB = q2u.Div(raw)
	}

	ref := in.reference()
	if ref.IsPositive() && candA.IsPositive() && candB.IsPositive() {
		if candA.Sub(ref).Abs().LessThanOrEqual(candB.Sub(ref).Abs()) {
			return candA, true
		}
		return candB, true
	}

	canonical := candA
	if in.Direction == PairToToken {
		canonical = candB
	}
	return canonical, canonical.IsPositive()
}

func equalSymbol(a, b string) bool {
	return normalizeSymbol(a) == normalizeSymbol(b)
}
