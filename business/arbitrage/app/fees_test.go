package app

import (
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFeeModel_Compute(t *testing.T) {
	tests := []struct {
		name          string
		dir           pricingDomain.Direction
		modal         string
		feeSwap       string
		feeWithdraw   string
		counterStable bool
		wantTrade     string
		wantTransfer  string
		wantWithdraw  string
		wantTotalFee  string
	}{
		{
			name:          "token_to_pair_stable",
			dir:           pricingDomain.TokenToPair,
			modal:         "100",
			feeSwap:       "0.2",
			feeWithdraw:   "1",
			counterStable: true,
			wantTrade:     "0.14",
			wantTransfer:  "0",
			wantWithdraw:  "1",
			wantTotalFee:  "1.34",
		},
		{
			name:         "token_to_pair_non_stable_doubles_trade_fee",
			dir:          pricingDomain.TokenToPair,
			modal:        "100",
			feeSwap:      "0.2",
			feeWithdraw:  "1",
			wantTrade:    "0.28",
			wantTransfer: "0",
			wantWithdraw: "1",
			wantTotalFee: "1.48",
		},
		{
			name:          "pair_to_token_charges_transfer_not_withdraw",
			dir:           pricingDomain.PairToToken,
			modal:         "100",
			feeSwap:       "0.2",
			feeWithdraw:   "1",
			counterStable: true,
			wantTrade:     "0.14",
			wantTransfer:  "0.1",
			wantWithdraw:  "0",
			wantTotalFee:  "0.44",
		},
		{
			name:         "large_modal",
			dir:          pricingDomain.PairToToken,
			modal:        "25000",
			feeSwap:      "3",
			wantTrade:    "70",
			wantTransfer: "1.5",
			wantWithdraw: "0",
			wantTotalFee: "74.5",
		},
		{
			name:          "zero_modal",
			dir:           pricingDomain.TokenToPair,
			modal:         "0",
			feeSwap:       "0",
			feeWithdraw:   "0",
			counterStable: true,
			wantTrade:     "0",
			wantTransfer:  "0",
			wantWithdraw:  "0",
			wantTotalFee:  "0",
		},
	}

	m := DefaultFeeModel()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withdraw := decimal.Zero
			if tt.feeWithdraw != "" {
				withdraw = d(tt.feeWithdraw)
			}
			c := m.Compute(tt.dir, d(tt.modal), d(tt.feeSwap), withdraw, tt.counterStable)

			if !c.FeeTrade.Equal(d(tt.wantTrade)) {
				t.Errorf("FeeTrade = %s, want %s", c.FeeTrade, tt.wantTrade)
			}
			if !c.FeeTransfer.Equal(d(tt.wantTransfer)) {
				t.Errorf("FeeTransfer = %s, want %s", c.FeeTransfer, tt.wantTransfer)
			}
			if !c.FeeWithdraw.Equal(d(tt.wantWithdraw)) {
				t.Errorf("FeeWithdraw = %s, want %s", c.FeeWithdraw, tt.wantWithdraw)
			}
			if !c.TotalFee.Equal(d(tt.wantTotalFee)) {
				t.Errorf("TotalFee = %s, want %s", c.TotalFee, tt.wantTotalFee)
			}
			if !c.TotalCost.Equal(c.Modal.Add(c.TotalFee)) {
				t.Errorf("TotalCost = %s, want modal + total fee", c.TotalCost)
			}
		})
	}
}

func TestFeeModel_ConfigurableTransferRatio(t *testing.T) {
	m := FeeModel{TradeFeeRate: DefaultTradeFeeRate, TransferFeeRatio: d("0.25")}
	c := m.Compute(pricingDomain.PairToToken, d("100"), d("2"), decimal.Zero, true)
	if !c.FeeTransfer.Equal(d("0.5")) {
		t.Errorf("FeeTransfer = %s, want 0.5", c.FeeTransfer)
	}
}
