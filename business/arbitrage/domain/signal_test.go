package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSignalPolicy_IsSignalWorthy(t *testing.T) {
	modal := dec("100")
	deep := pricingDomain.Liquidity{Volume: dec("5000"), ActualModal: dec("100"), Measured: true}
	shallow := pricingDomain.Liquidity{Volume: dec("60"), ActualModal: dec("60"), Measured: true}

	tests := []struct {
		name   string
		policy SignalPolicy
		pnl    string
		liq    pricingDomain.Liquidity
		want   bool
	}{
		{"loss never signals", SignalPolicy{}, "-1", deep, false},
		{"zero pnl never signals", SignalPolicy{}, "0", deep, false},
		{"no threshold, gate off", SignalPolicy{Volume: GateOff}, "0.01", shallow, true},
		{"below threshold", SignalPolicy{Threshold: dec("2")}, "1.5", deep, false},
		{"equal to threshold", SignalPolicy{Threshold: dec("2")}, "2", deep, false},
		{"above threshold", SignalPolicy{Threshold: dec("2")}, "2.01", deep, true},
		{"strict with deep book", SignalPolicy{Volume: GateStrict}, "1", deep, true},
		{"strict with shallow book", SignalPolicy{Volume: GateStrict}, "1", shallow, false},
		{"auto level shallow", SignalPolicy{Volume: GateAutoLevel}, "1", shallow, false},
		{"auto level within tolerance", SignalPolicy{Volume: GateAutoLevel}, "1",
			pricingDomain.Liquidity{ActualModal: dec("99.9"), Measured: true}, true},
		{"auto level just outside tolerance", SignalPolicy{Volume: GateAutoLevel}, "1",
			pricingDomain.Liquidity{ActualModal: dec("99.89"), Measured: true}, false},
		{"auto level unmeasured", SignalPolicy{Volume: GateAutoLevel}, "1", pricingDomain.Liquidity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.IsSignalWorthy(dec(tt.pnl), modal, tt.liq)
			if got != tt.want {
				t.Errorf("IsSignalWorthy(%s) = %v, want %v", tt.pnl, got, tt.want)
			}
		})
	}
}

func TestParseVolumeGate(t *testing.T) {
	for in, want := range map[string]VolumeGate{"": GateOff, "off": GateOff, "strict": GateStrict, "auto_level": GateAutoLevel} {
		got, err := ParseVolumeGate(in)
		if err != nil || got != want {
			t.Errorf("ParseVolumeGate(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseVolumeGate("loose"); err == nil {
		t.Error("expected error")
	}
}

func TestOpportunity_Accessors(t *testing.T) {
	opp := &Opportunity{
		DEX:    "1inch",
		Route:  pricingDomain.RouteQuote{Chain: "bsc", Token: pricingDomain.TokenRef{Symbol: "CAKE"}, Pair: pricingDomain.TokenRef{Symbol: "USDT"}, Direction: pricingDomain.TokenToPair},
		Result: &PnlResult{ProfitLoss: dec("1"), ProfitLossPercent: dec("0.9")},
		Multi:  &MultiRouteResult{BestProvider: "PancakeSwap", BestPercent: dec("1")},
	}
	if !opp.IsProfitable() {
		t.Error("expected profitable")
	}
	if opp.Provider() != "PancakeSwap" {
		t.Errorf("Provider = %s", opp.Provider())
	}
	if !opp.Percent().Equal(dec("1")) {
		t.Errorf("Percent = %s", opp.Percent())
	}

	opp.Multi = nil
	opp.Result.Provider = ""
	if opp.Provider() != "1inch" {
		t.Errorf("Provider fallback = %s", opp.Provider())
	}
	if !opp.Percent().Equal(dec("0.9")) {
		t.Errorf("Percent = %s", opp.Percent())
	}
}
