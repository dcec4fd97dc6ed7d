package app

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/arbscan/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

// Default fee constants
var (
	DefaultTradeFeeRate     = decimal.RequireFromString("0.0014")
	DefaultTransferFeeRatio = decimal.RequireFromString("0.5")
)

var two = decimal.NewFromInt(2)

// FeeModel computes direction-specific costs.
type FeeModel struct {
	TradeFeeRate     decimal.Decimal // CEX taker fee per trade leg, relative to the modal
	TransferFeeRatio decimal.Decimal // on-chain transfer cost relative to the swap fee
}

// DefaultFeeModel returns the standard fee constants.
func DefaultFeeModel() FeeModel {
	return FeeModel{TradeFeeRate: DefaultTradeFeeRate, TransferFeeRatio: DefaultTransferFeeRatio}
}

// Compute builds the cost model. A non-stable counter asset needs a second CEX
// trade to get back to USD, so the trade fee doubles.
//
// TokenToPair withdraws the token from the CEX and pays no transfer fee.
// PairToToken deposits to the CEX: the transfer costs TransferFeeRatio of the
// swap fee and no withdrawal fee applies.
func (m FeeModel) Compute(
	dir pricingDomain.Direction,
	modal, feeSwap, feeWithdraw decimal.Decimal,
	counterStable bool,
) domain.TradeCostModel {
	feeTrade := m.TradeFeeRate.Mul(modal)
	if !counterStable {
		feeTrade = feeTrade.Mul(two)
	}

	c := domain.TradeCostModel{
		Modal:    modal,
		FeeSwap:  feeSwap,
		FeeTrade: feeTrade,
	}

	if dir == pricingDomain.PairToToken {
		c.FeeTransfer = feeSwap.Mul(m.TransferFeeRatio)
		c.FeeWithdraw = decimal.Zero
	} else {
		c.FeeTransfer = decimal.Zero
		c.FeeWithdraw = feeWithdraw
	}

	c.TotalFee = c.FeeSwap.Add(c.FeeWithdraw).Add(c.FeeTransfer).Add(c.FeeTrade)
	c.TotalCost = c.Modal.Add(c.TotalFee)
	return c
}
