// Package domain contains the signal payload dispatched to notification channels.
package domain

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	arbDomain "github.com/fd1az/arbscan/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
)

// ErrNoResult is returned when an opportunity carries no evaluated result.
var ErrNoResult = errors.New("notification: opportunity has no result")

// Asset identifies one side of the route.
type Asset struct {
	Symbol   string `json:"symbol"`
	Contract string `json:"contract,omitempty"`
}

// Wallet mirrors the CEX deposit and withdraw availability.
type Wallet struct {
	DepositToken  bool `json:"deposit_token"`
	WithdrawToken bool `json:"withdraw_token"`
	DepositPair   bool `json:"deposit_pair"`
	WithdrawPair  bool `json:"withdraw_pair"`
}

// Signal is a signal-worthy route as sent to subscribers.
type Signal struct {
	ID          string          `json:"id"`
	Nickname    string          `json:"nickname,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	CEX         string          `json:"cex"`
	DEX         string          `json:"dex"`
	Provider    string          `json:"provider"`
	Chain       string          `json:"chain"`
	Token       Asset           `json:"token"`
	Pair        Asset           `json:"pair"`
	Direction   string          `json:"direction"` // cex_to_dex or dex_to_cex
	Modal       decimal.Decimal `json:"modal"`
	PnL         decimal.Decimal `json:"pnl"`
	PnLPercent  decimal.Decimal `json:"pnl_percent"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	FeeSwap     decimal.Decimal `json:"fee_swap"`
	FeeWithdraw decimal.Decimal `json:"fee_withdraw"`
	TotalFee    decimal.Decimal `json:"total_fee"`
	VolumeOK    bool            `json:"volume_ok"`
	Wallet      Wallet          `json:"wallet"`
}

// FromOpportunity builds the payload for an evaluated opportunity.
func FromOpportunity(opp *arbDomain.Opportunity, nickname string) (Signal, error) {
	if opp == nil || opp.Err != nil || opp.Result == nil {
		return Signal{}, ErrNoResult
	}
	res := opp.Result
	return Signal{
		ID:          opp.ID,
		Nickname:    nickname,
		Timestamp:   opp.Timestamp,
		CEX:         opp.CEX,
		DEX:         opp.DEX,
		Provider:    opp.Provider(),
		Chain:       opp.Route.Chain,
		Token:       assetOf(opp.Route.Token),
		Pair:        assetOf(opp.Route.Pair),
		Direction:   opp.Route.Direction.Flow(),
		Modal:       opp.Modal,
		PnL:         res.ProfitLoss,
		PnLPercent:  opp.Percent(),
		BuyPrice:    res.BuyPrice,
		SellPrice:   res.SellPrice,
		FeeSwap:     res.Costs.FeeSwap,
		FeeWithdraw: res.Costs.FeeWithdraw,
		TotalFee:    res.Costs.TotalFee,
		VolumeOK:    opp.VolumeOK,
		Wallet: Wallet{
			DepositToken:  opp.Wallet.DepositToken,
			WithdrawToken: opp.Wallet.WithdrawToken,
			DepositPair:   opp.Wallet.DepositPair,
			WithdrawPair:  opp.Wallet.WithdrawPair,
		},
	}, nil
}

func assetOf(ref pricingDomain.TokenRef) Asset {
	a := Asset{Symbol: ref.Symbol}
	if ref.Contract != (common.Address{}) {
		a.Contract = ref.Contract.Hex()
	}
	return a
}

// FormatHTML renders the signal in Telegram's HTML parse mode.
func (s Signal) FormatHTML() string {
	esc := html.EscapeString

	var b strings.Builder
	b.WriteString("<b>⚡ ARBITRAGE SIGNAL</b>")
	if s.Nickname != "" {
		b.WriteString(" · " + esc(s.Nickname))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "<b>%s/%s</b> on %s\n", esc(s.Token.Symbol), esc(s.Pair.Symbol), esc(strings.ToUpper(s.Chain)))
	if s.Direction == pricingDomain.PairToToken.Flow() {
		fmt.Fprintf(&b, "Flow: DEX → CEX (%s → %s)\n", esc(s.Provider), esc(s.CEX))
	} else {
		fmt.Fprintf(&b, "Flow: CEX → DEX (%s → %s)\n", esc(s.CEX), esc(s.Provider))
	}
	fmt.Fprintf(&b, "Modal: $%s\n", s.Modal.StringFixed(2))
	fmt.Fprintf(&b, "P/L: <b>$%s</b> (%s%%)\n", s.PnL.StringFixed(2), s.PnLPercent.StringFixed(2))
	fmt.Fprintf(&b, "Buy: %s · Sell: %s\n", s.BuyPrice.StringFixed(6), s.SellPrice.StringFixed(6))
	fmt.Fprintf(&b, "Fees: swap $%s · withdraw $%s · total $%s\n",
		s.FeeSwap.StringFixed(2), s.FeeWithdraw.StringFixed(2), s.TotalFee.StringFixed(2))

	if s.VolumeOK {
		b.WriteString("Volume: ✅ sufficient\n")
	} else {
		b.WriteString("Volume: ⚠️ insufficient\n")
	}
	fmt.Fprintf(&b, "Wallet %s: deposit %s withdraw %s\n", esc(s.Token.Symbol), mark(s.Wallet.DepositToken), mark(s.Wallet.WithdrawToken))
	fmt.Fprintf(&b, "Wallet %s: deposit %s withdraw %s\n", esc(s.Pair.Symbol), mark(s.Wallet.DepositPair), mark(s.Wallet.WithdrawPair))

	if s.Token.Contract != "" {
		fmt.Fprintf(&b, "Contract: <code>%s</code>\n", esc(s.Token.Contract))
	}
	if !s.Timestamp.IsZero() {
		fmt.Fprintf(&b, "<i>%s</i>", s.Timestamp.UTC().Format(time.RFC3339))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
