package app

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fd1az/arbscan/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/internal/numeric"
)

// EvaluateBest evaluates up to maxCandidates sub-routes in received order and
// keeps the most profitable one. A failing candidate is recorded and skipped.
// When all fail, the first candidate's error is returned. A route without
// sub-routes is evaluated as its own single candidate.
func (e *Engine) EvaluateBest(
	ctx context.Context,
	route pricingDomain.RouteQuote,
	snap pricingDomain.CexPriceSnapshot,
	modal float64,
	maxCandidates int,
) (*domain.MultiRouteResult, error) {
	if maxCandidates <= 0 {
		maxCandidates = e.maxCandidates
	}

	ctx, span := e.tracer.Start(ctx, "arbitrage.evaluate_best")
	defer span.End()

	candidates := []pricingDomain.RouteQuote{route}
	if len(route.SubRoutes) > 0 {
		n := min(maxCandidates, len(route.SubRoutes))
		candidates = make([]pricingDomain.RouteQuote, 0, n)
		for _, sub := range route.SubRoutes[:n] {
			candidates = append(candidates, route.WithCandidate(sub))
		}
	}
	span.Set(attribute.Int("candidates", len(candidates)))

	out := &domain.MultiRouteResult{Candidates: make([]domain.Candidate, 0, len(candidates))}
	var firstErr error
	for _, c := range candidates {
		res, err := e.Evaluate(ctx, c, snap, modal)
		out.Candidates = append(out.Candidates, domain.Candidate{Provider: c.Provider, Result: res, Err: err})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if out.Best == nil || res.ProfitLoss.GreaterThan(out.BestPnl) {
			out.Best = res
			out.BestPnl = res.ProfitLoss
			out.BestProvider = c.Provider
		}
	}

	if out.Best == nil {
		span.Fail(firstErr)
		return nil, firstErr
	}

	if m := numeric.OrZero(modal); m.IsPositive() {
		out.BestPercent = out.BestPnl.Div(m).Mul(hundred)
	}
	span.Set(
		attribute.String("best_provider", out.BestProvider),
		attribute.String("best_pnl", out.BestPnl.String()),
	)
	return out, nil
}
