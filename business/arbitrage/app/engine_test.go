package app

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/asset"
)

func newTestEngine() *Engine {
	return NewEngine(EngineConfig{Fees: DefaultFeeModel()}, asset.DefaultRegistry())
}

// scenarioA: TokenToPair into USDT, loses on fees.
func scenarioA() (pricingDomain.RouteQuote, pricingDomain.CexPriceSnapshot) {
	route := pricingDomain.RouteQuote{
		AmountIn:  100,
		AmountOut: 99.5,
		FeeSwap:   0.2,
		Direction: pricingDomain.TokenToPair,
		Token:     pricingDomain.TokenRef{Symbol: "CAKE"},
		Pair:      pricingDomain.TokenRef{Symbol: "USDT"},
		Chain:     "bsc",
		Provider:  "PancakeSwap",
	}
	return route, pricingDomain.CexPriceSnapshot{WithdrawFee: 1}
}

func TestEngine_Evaluate_ScenarioA(t *testing.T) {
	route, snap := scenarioA()
	res, err := newTestEngine().Evaluate(context.Background(), route, snap, 100)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"FeeTrade", res.Costs.FeeTrade, "0.14"},
		{"TotalFee", res.Costs.TotalFee, "1.34"},
		{"TotalCost", res.Costs.TotalCost, "101.34"},
		{"TotalValue", res.TotalValue, "99.5"},
		{"ProfitLoss", res.ProfitLoss, "-1.84"},
		{"Gross", res.Gross, "-0.5"},
		{"ResolvedUSDRate", res.ResolvedUSDRate, "0.995"},
		{"SellPrice", res.SellPrice, "0.995"},
	}
	for _, c := range checks {
		if !c.got.Equal(d(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	wantPct := d("-1.84").Div(d("101.34")).Mul(decimal.NewFromInt(100))
	if !res.ProfitLossPercent.Equal(wantPct) {
		t.Errorf("ProfitLossPercent = %s, want %s", res.ProfitLossPercent, wantPct)
	}
	if res.RateSource != pricingDomain.SourceStableQuote {
		t.Errorf("RateSource = %s", res.RateSource)
	}
	if res.IsProfitable() {
		t.Error("scenario A must be a loss")
	}
	if res.Provider != "PancakeSwap" {
		t.Errorf("Provider = %s", res.Provider)
	}
}

func TestEngine_Evaluate_ScenarioB(t *testing.T) {
	route, snap := scenarioA()
	route.Pair.Symbol = "XYZ"
	snap.SellPairPrice = 1.02

	res, err := newTestEngine().Evaluate(context.Background(), route, snap, 100)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Costs.FeeTrade.Equal(d("0.28")) {
		t.Errorf("FeeTrade = %s, want 0.28", res.Costs.FeeTrade)
	}
	if !res.TotalValue.Equal(d("101.49")) {
		t.Errorf("TotalValue = %s, want 101.49", res.TotalValue)
	}
	if !res.ProfitLoss.Equal(d("0.01")) {
		t.Errorf("ProfitLoss = %s, want 0.01", res.ProfitLoss)
	}
	if res.RateSource != pricingDomain.SourceFallback {
		t.Errorf("RateSource = %s, want fallback", res.RateSource)
	}
}

func TestEngine_Evaluate_PairToToken(t *testing.T) {
	route := pricingDomain.RouteQuote{
		AmountIn:  100, // USDT
		AmountOut: 50,  // token
		FeeSwap:   0.2,
		Direction: pricingDomain.PairToToken,
		Token:     pricingDomain.TokenRef{Symbol: "CAKE"},
		Pair:      pricingDomain.TokenRef{Symbol: "USDT"},
		Chain:     "bsc",
	}
	snap := pricingDomain.CexPriceSnapshot{SellTokenPrice: 2.05, WithdrawFee: 1}

	res, err := newTestEngine().Evaluate(context.Background(), route, snap, 100)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// value 50*2.05, costs 100 + 0.2 swap + 0.1 transfer + 0.14 trade
	if !res.Costs.FeeWithdraw.IsZero() {
		t.Errorf("FeeWithdraw = %s, want 0", res.Costs.FeeWithdraw)
	}
	if !res.Costs.TotalCost.Equal(d("100.44")) {
		t.Errorf("TotalCost = %s, want 100.44", res.Costs.TotalCost)
	}
	if !res.ProfitLoss.Equal(d("2.06")) {
		t.Errorf("ProfitLoss = %s, want 2.06", res.ProfitLoss)
	}
	if !res.BuyPrice.Equal(d("2")) || !res.SellPrice.Equal(d("2.05")) {
		t.Errorf("BuyPrice/SellPrice = %s/%s, want 2/2.05", res.BuyPrice, res.SellPrice)
	}
}

func TestEngine_Evaluate_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*pricingDomain.RouteQuote)
		modal   float64
		wantMsg string
	}{
		{"amount_in_zero", func(r *pricingDomain.RouteQuote) { r.AmountIn = 0 }, 100, "amount_in invalid"},
		{"amount_in_nan", func(r *pricingDomain.RouteQuote) { r.AmountIn = math.NaN() }, 100, "amount_in invalid"},
		{"amount_in_negative", func(r *pricingDomain.RouteQuote) { r.AmountIn = -1 }, 100, "amount_in invalid"},
		{"amount_out_negative", func(r *pricingDomain.RouteQuote) { r.AmountOut = -1 }, 100, "amount_out invalid"},
		{"amount_out_inf", func(r *pricingDomain.RouteQuote) { r.AmountOut = math.Inf(1) }, 100, "amount_out invalid"},
		{"fee_swap_nan", func(r *pricingDomain.RouteQuote) { r.FeeSwap = math.NaN() }, 100, "fee_swap invalid"},
		{"modal_negative", func(*pricingDomain.RouteQuote) {}, -5, "modal invalid"},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, snap := scenarioA()
			tt.mutate(&route)

			res, err := e.Evaluate(context.Background(), route, snap, tt.modal)
			if res != nil {
				t.Errorf("expected nil result, got %+v", res)
			}
			if !apperror.HasCode(err, apperror.CodeInvalidInput) {
				t.Fatalf("error = %v, want INVALID_INPUT", err)
			}
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestEngine_Evaluate_ZeroCostPercent(t *testing.T) {
	route, _ := scenarioA()
	route.FeeSwap = 0

	res, err := newTestEngine().Evaluate(context.Background(), route, pricingDomain.CexPriceSnapshot{}, 0)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Costs.TotalCost.IsZero() {
		t.Fatalf("TotalCost = %s, want 0", res.Costs.TotalCost)
	}
	if !res.ProfitLossPercent.IsZero() {
		t.Errorf("ProfitLossPercent = %s, want 0", res.ProfitLossPercent)
	}
}

func TestEngine_Evaluate_InvalidPricesAreUnavailable(t *testing.T) {
	route, snap := scenarioA()
	snap.SellPairPrice = math.NaN()
	snap.BuyTokenPrice = -3

	res, err := newTestEngine().Evaluate(context.Background(), route, snap, 100)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.TotalValue.Equal(d("99.5")) {
		t.Errorf("TotalValue = %s, want raw amount out", res.TotalValue)
	}
}

func TestEngine_Evaluate_Idempotent(t *testing.T) {
	route, snap := scenarioA()
	snap.SellPairPrice = 1.001
	e := newTestEngine()

	first, err := e.Evaluate(context.Background(), route, snap, 100)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := e.Evaluate(context.Background(), route, snap, 100)
			if err != nil {
				t.Error(err)
				return
			}
			if !again.ProfitLoss.Equal(first.ProfitLoss) || !again.TotalValue.Equal(first.TotalValue) {
				t.Errorf("result changed: %s vs %s", again.ProfitLoss, first.ProfitLoss)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkEngine_Evaluate(b *testing.B) {
	route, snap := scenarioA()
	e := newTestEngine()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Evaluate(ctx, route, snap, 100)
	}
}

func TestEngine_Evaluate_AggregateErrors(t *testing.T) {
	tests := []struct {
		name     string
		route    func() pricingDomain.RouteQuote
		snap     pricingDomain.CexPriceSnapshot
		modal    float64
		wantCode apperror.Code
		wantCtx  string
	}{
		{
			name: "value_overflows",
			route: func() pricingDomain.RouteQuote {
				r, _ := scenarioA()
				r.AmountIn, r.AmountOut = 1, 1e308
				return r
			},
			snap:     pricingDomain.CexPriceSnapshot{SellPairPrice: 1e308},
			modal:    100,
			wantCode: apperror.CodeNonFiniteAggregate,
			wantCtx:  "total_value",
		},
		{
			// cost and value both overflow; cost is checked first
			name: "cost_reported_first",
			route: func() pricingDomain.RouteQuote {
				r, _ := scenarioA()
				r.AmountIn, r.AmountOut = 1, 1e308
				return r
			},
			snap:     pricingDomain.CexPriceSnapshot{SellPairPrice: 1e308},
			modal:    1.797e308,
			wantCode: apperror.CodeNonFiniteAggregate,
			wantCtx:  "total_cost",
		},
		{
			// non-stable, non-native quote with no CEX prices: every rung
			// yields the raw rate, which overflows
			name: "rate_overflows",
			route: func() pricingDomain.RouteQuote {
				r, _ := scenarioA()
				r.Pair = pricingDomain.TokenRef{Symbol: "XYZ"}
				r.AmountIn, r.AmountOut = 1e-10, 1e300
				return r
			},
			modal:    100,
			wantCode: apperror.CodeUnresolvedRate,
		},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 10 {
				res, err := e.Evaluate(context.Background(), tt.route(), tt.snap, tt.modal)
				if res != nil {
					t.Fatalf("expected nil result, got %+v", res)
				}
				if !apperror.HasCode(err, tt.wantCode) {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				var appErr *apperror.AppError
				errors.As(err, &appErr)
				if tt.wantCtx != "" && appErr.Context != tt.wantCtx {
					t.Fatalf("context = %q, want %q", appErr.Context, tt.wantCtx)
				}
			}
		})
	}
}
