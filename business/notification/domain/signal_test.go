package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	arbDomain "github.com/fd1az/arbscan/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func opportunity(dir pricingDomain.Direction) *arbDomain.Opportunity {
	return &arbDomain.Opportunity{
		ID:        "8d1f",
		Timestamp: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		CEX:       "binance",
		DEX:       "dzap",
		Route: pricingDomain.RouteQuote{
			Direction: dir,
			Token: pricingDomain.TokenRef{
				Symbol:   "CAKE",
				Contract: common.HexToAddress("0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82"),
			},
			Pair:  pricingDomain.TokenRef{Symbol: "USDT"},
			Chain: "bsc",
		},
		Modal: dec("100"),
		Result: &arbDomain.PnlResult{
			ProfitLoss:        dec("1.25"),
			ProfitLossPercent: dec("1.2376"),
			BuyPrice:          dec("2.5"),
			SellPrice:         dec("2.54"),
			Provider:          "Pancake",
			Costs: arbDomain.TradeCostModel{
				FeeSwap:     dec("0.3"),
				FeeWithdraw: dec("0.2"),
				TotalFee:    dec("0.64"),
			},
		},
		Wallet:   pricingDomain.WalletStatus{DepositToken: true, WithdrawToken: true, DepositPair: true},
		VolumeOK: true,
		Signal:   true,
	}
}

func TestFromOpportunity(t *testing.T) {
	sig, err := FromOpportunity(opportunity(pricingDomain.TokenToPair), "desk-1")
	if err != nil {
		t.Fatalf("FromOpportunity: %v", err)
	}

	if sig.Direction != "cex_to_dex" {
		t.Errorf("direction = %s", sig.Direction)
	}
	if sig.Provider != "Pancake" {
		t.Errorf("provider = %s", sig.Provider)
	}
	if sig.Token.Contract != "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82" {
		t.Errorf("token contract = %s", sig.Token.Contract)
	}
	if sig.Pair.Contract != "" {
		t.Errorf("pair contract = %q, want empty", sig.Pair.Contract)
	}
	if !sig.TotalFee.Equal(dec("0.64")) || !sig.PnLPercent.Equal(dec("1.2376")) {
		t.Errorf("totals = %s / %s", sig.TotalFee, sig.PnLPercent)
	}
	if sig.Wallet.WithdrawPair {
		t.Error("withdraw_pair should be false")
	}

	raw, err := json.Marshal(sig)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"direction":"cex_to_dex"`, `"pnl":"1.25"`, `"nickname":"desk-1"`, `"withdraw_pair":false`} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("json lacks %s: %s", want, raw)
		}
	}
}

func TestFromOpportunity_NoResult(t *testing.T) {
	opp := opportunity(pricingDomain.TokenToPair)
	opp.Result = nil
	opp.Err = errors.New("invalid")
	if _, err := FromOpportunity(opp, ""); !errors.Is(err, ErrNoResult) {
		t.Errorf("err = %v, want ErrNoResult", err)
	}
}

func TestSignal_FormatHTML(t *testing.T) {
	tests := []struct {
		name string
		dir  pricingDomain.Direction
		want []string
	}{
		{
			name: "cex to dex",
			dir:  pricingDomain.TokenToPair,
			want: []string{"<b>CAKE/USDT</b> on BSC", "Flow: CEX → DEX (binance → Pancake)", "P/L: <b>$1.25</b> (1.24%)", "withdraw ❌"},
		},
		{
			name: "dex to cex",
			dir:  pricingDomain.PairToToken,
			want: []string{"Flow: DEX → CEX (Pancake → binance)", "<code>0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82</code>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := FromOpportunity(opportunity(tt.dir), "<desk>")
			if err != nil {
				t.Fatal(err)
			}
			text := sig.FormatHTML()
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("missing %q in:\n%s", w, text)
				}
			}
			if !strings.Contains(text, "&lt;desk&gt;") {
				t.Errorf("nickname not escaped:\n%s", text)
			}
		})
	}
}
