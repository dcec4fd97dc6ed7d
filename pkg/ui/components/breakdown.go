package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// CandidateRow is one sub-route of a multi-route evaluation.
type CandidateRow struct {
	Provider string
	PnL      decimal.Decimal
	Error    string
	Best     bool
}

// Breakdown holds the engine's figures for one route. The UI only formats them.
type Breakdown struct {
	Description string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	USDRate     decimal.Decimal
	RateSource  string

	Modal       decimal.Decimal
	FeeTrade    decimal.Decimal
	FeeSwap     decimal.Decimal
	FeeTransfer decimal.Decimal
	FeeWithdraw decimal.Decimal
	TotalFee    decimal.Decimal
	TotalCost   decimal.Decimal
	TotalValue  decimal.Decimal
	Gross       decimal.Decimal
	PnL         decimal.Decimal
	Percent     decimal.Decimal

	Candidates []CandidateRow
}

// BreakdownComponent renders the cost breakdown of the selected route.
type BreakdownComponent struct {
	title string
	data  *Breakdown
	err   string
}

// NewBreakdownComponent creates a new breakdown component.
func NewBreakdownComponent() *BreakdownComponent {
	return &BreakdownComponent{}
}

// Set replaces the displayed route.
func (b *BreakdownComponent) Set(title string, data *Breakdown, err string) {
	b.title = title
	b.data = data
	b.err = err
}

// View renders the breakdown.
func (b *BreakdownComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("COST BREAKDOWN"))
	sb.WriteString("\n\n")

	if b.title == "" {
		sb.WriteString(mutedStyle.Render("  Select a route with ↑/↓"))
		return sb.String()
	}
	sb.WriteString("  " + b.title + "\n")

	if b.err != "" {
		sb.WriteString(red.Render("  " + b.err))
		return sb.String()
	}
	if b.data == nil {
		return sb.String()
	}
	d := b.data

	line := func(label string, v decimal.Decimal) {
		sb.WriteString(fmt.Sprintf("  %s %12s\n", labelStyle.Render(fmt.Sprintf("%-14s", label)), "$"+v.StringFixed(2)))
	}

	sb.WriteString(mutedStyle.Render("  " + d.Description))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  %s %12s\n", labelStyle.Render(fmt.Sprintf("%-14s", "Buy price")), d.BuyPrice.StringFixed(6)))
	sb.WriteString(fmt.Sprintf("  %s %12s\n", labelStyle.Render(fmt.Sprintf("%-14s", "Sell price")), d.SellPrice.StringFixed(6)))
	sb.WriteString(fmt.Sprintf("  %s %12s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", "USD rate")), d.USDRate.StringFixed(4), mutedStyle.Render("("+d.RateSource+")")))
	sb.WriteString("\n")

	line("Modal", d.Modal)
	line("Trade fee", d.FeeTrade)
	line("Swap fee", d.FeeSwap)
	line("Transfer fee", d.FeeTransfer)
	line("Withdraw fee", d.FeeWithdraw)
	line("Total fee", d.TotalFee)
	line("Total cost", d.TotalCost)
	line("Total value", d.TotalValue)
	line("Gross", d.Gross)

	pnlStyle := red
	if d.PnL.IsPositive() {
		pnlStyle = green
	}
	sb.WriteString(fmt.Sprintf("  %s %12s %s\n",
		labelStyle.Render(fmt.Sprintf("%-14s", "Net P/L")),
		pnlStyle.Render("$"+d.PnL.StringFixed(2)),
		pnlStyle.Render("("+d.Percent.StringFixed(2)+"%)")))

	if len(d.Candidates) > 0 {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("  Candidates"))
		sb.WriteString("\n")
		for _, c := range d.Candidates {
			mark := " "
			if c.Best {
				mark = "★"
			}
			if c.Error != "" {
				sb.WriteString(fmt.Sprintf("   %s %-16s %s\n", mark, c.Provider, red.Render(c.Error)))
				continue
			}
			sb.WriteString(fmt.Sprintf("   %s %-16s %12s\n", mark, c.Provider, "$"+c.PnL.StringFixed(2)))
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
