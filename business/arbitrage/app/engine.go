package app

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fd1az/arbscan/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/internal/apm"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/numeric"
)

// DefaultMaxCandidates bounds multi-route evaluation when none is configured.
const DefaultMaxCandidates = 3

var hundred = decimal.NewFromInt(100)

// ReferenceData is the read-only asset knowledge the engine needs.
type ReferenceData interface {
	IsStable(symbol string) bool
	NativeSymbol(chainKey string) string
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Fees          FeeModel
	MaxCandidates int
}

// Engine computes route profit and loss. It holds only immutable state and is
// safe for concurrent use.
type Engine struct {
	fees          FeeModel
	maxCandidates int
	refs          ReferenceData
	resolver      *pricingDomain.Resolver
	tracer        *apm.Tracer
}

// NewEngine creates an Engine with the standard rate ladder.
func NewEngine(cfg EngineConfig, refs ReferenceData) *Engine {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	return &Engine{
		fees:          cfg.Fees,
		maxCandidates: cfg.MaxCandidates,
		refs:          refs,
		resolver:      pricingDomain.NewResolver(refs),
		tracer:        apm.NewTracer("arbitrage.engine"),
	}
}

// Evaluate computes the PNL of one route at the given modal.
func (e *Engine) Evaluate(
	ctx context.Context,
	route pricingDomain.RouteQuote,
	snap pricingDomain.CexPriceSnapshot,
	modal float64,
) (*domain.PnlResult, error) {
	_, span := e.tracer.Start(ctx, "arbitrage.evaluate",
		attribute.String("route", route.Key()),
		attribute.String("provider", route.Provider),
	)
	defer span.End()

	res, err := e.evaluate(route, snap, modal)
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	span.Set(
		attribute.String("pnl", res.ProfitLoss.String()),
		attribute.String("rate_source", string(res.RateSource)),
	)
	return res, nil
}

func invalid(field string, cause error) error {
	return apperror.New(apperror.CodeInvalidInput,
		apperror.WithMessage(field+" invalid"),
		apperror.WithCause(cause))
}

func (e *Engine) evaluate(
	route pricingDomain.RouteQuote,
	snap pricingDomain.CexPriceSnapshot,
	modalIn float64,
) (*domain.PnlResult, error) {
	amountIn, err := numeric.FinitePositive(route.AmountIn)
	if err != nil {
		return nil, invalid("amount_in", err)
	}
	amountOut, err := numeric.FiniteNonNegative(route.AmountOut)
	if err != nil {
		return nil, invalid("amount_out", err)
	}
	feeSwap, err := numeric.FiniteNonNegative(route.FeeSwap)
	if err != nil {
		return nil, invalid("fee_swap", err)
	}
	modal, err := numeric.FiniteNonNegative(modalIn)
	if err != nil {
		return nil, invalid("modal", err)
	}

	prices := snap.Decimals()
	costs := e.fees.Compute(
		route.Direction,
		modal,
		feeSwap,
		numeric.OrZero(snap.WithdrawFee),
		e.refs.IsStable(route.Pair.Symbol),
	)

	rate, err := e.resolver.Resolve(pricingDomain.RateInput{
		Direction: route.Direction,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Quote:     route.Pair.Symbol,
		ChainBase: e.refs.NativeSymbol(route.Chain),
		Prices:    prices,
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeUnresolvedRate,
			apperror.WithMessage(err.Error()),
			apperror.WithContext(route.Key()))
	}

	totalValue := value(route.Direction, amountIn, amountOut, prices)

	for _, agg := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"total_cost", costs.TotalCost},
		{"total_fee", costs.TotalFee},
		{"total_value", totalValue},
	} {
		if !numeric.IsFinite(agg.v) {
			return nil, apperror.New(apperror.CodeNonFiniteAggregate, apperror.WithContext(agg.name))
		}
	}

	pl := totalValue.Sub(costs.TotalCost)
	pct := decimal.Zero
	if !costs.TotalCost.IsZero() {
		pct = pl.Div(costs.TotalCost).Mul(hundred)
	}

	res := &domain.PnlResult{
		TotalValue:        totalValue,
		ProfitLoss:        pl,
		ProfitLossPercent: pct,
		Gross:             totalValue.Sub(modal),
		ResolvedUSDRate:   rate.Value,
		RateSource:        rate.Source,
		Costs:             costs,
		Provider:          route.Provider,
	}
	if route.Direction == pricingDomain.PairToToken {
		res.BuyPrice = rate.Value
		res.SellPrice = prices.SellToken
	} else {
		res.BuyPrice = prices.BuyToken
		res.SellPrice = rate.Value
	}
	return res, nil
}

// value is what the route's output is worth in USD. When the CEX price for the
// output is unknown the input is valued instead, and as a last resort the raw
// output amount is taken as USD.
func value(dir pricingDomain.Direction, in, out decimal.Decimal, p pricingDomain.Prices) decimal.Decimal {
	outPrice, inPrice := p.SellPair, p.BuyToken
	if dir == pricingDomain.PairToToken {
		outPrice, inPrice = p.SellToken, p.BuyPair
	}
	switch {
	case outPrice.IsPositive():
		return out.Mul(outPrice)
	case inPrice.IsPositive():
		return in.Mul(inPrice)
	default:
		return out
	}
}
