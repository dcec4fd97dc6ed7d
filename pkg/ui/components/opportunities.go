// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow is the latest evaluation of one route.
type OpportunityRow struct {
	Key       string
	Time      string
	Route     string
	Flow      string
	Provider  string
	Modal     decimal.Decimal
	PnL       decimal.Decimal
	Percent   decimal.Decimal
	Signal    bool
	VolumeOK  bool
	Error     string // error code, empty when evaluated
	Breakdown *Breakdown
}

// OpportunitiesComponent renders the route board. A row for a known key
// replaces the previous one and moves to the top.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	maxRows int
	cursor  int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	if maxRows <= 0 {
		maxRows = 50
	}
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0, maxRows),
		maxRows: maxRows,
	}
}

// Upsert adds a row, superseding any row with the same key.
func (o *OpportunitiesComponent) Upsert(row OpportunityRow) {
	selected := ""
	if sel, ok := o.Selected(); ok {
		selected = sel.Key
	}

	for i, r := range o.rows {
		if r.Key == row.Key {
			o.rows = append(o.rows[:i], o.rows[i+1:]...)
			break
		}
	}
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}

	// keep the cursor on the same route
	o.cursor = 0
	for i, r := range o.rows {
		if r.Key == selected {
			o.cursor = i
			break
		}
	}
}

// Len returns the number of routes on the board.
func (o *OpportunitiesComponent) Len() int {
	return len(o.rows)
}

// Clear clears all rows.
func (o *OpportunitiesComponent) Clear() {
	o.rows = o.rows[:0]
	o.cursor = 0
}

// ScrollUp moves the cursor up.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.cursor > 0 {
		o.cursor--
	}
}

// ScrollDown moves the cursor down.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.cursor < len(o.rows)-1 {
		o.cursor++
	}
}

// Selected returns the row under the cursor.
func (o *OpportunitiesComponent) Selected() (OpportunityRow, bool) {
	if len(o.rows) == 0 {
		return OpportunityRow{}, false
	}
	return o.rows[o.cursor], true
}

// View renders up to visible rows around the cursor.
func (o *OpportunitiesComponent) View(visible int) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("ROUTES (%d)", len(o.rows))))
	sb.WriteString("\n\n")

	if len(o.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for ticks..."))
		return sb.String()
	}

	if visible <= 0 || visible > len(o.rows) {
		visible = len(o.rows)
	}
	start := 0
	if o.cursor >= visible {
		start = o.cursor - visible + 1
	}

	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %-8s  %-22s %-10s %-14s %10s %9s  %s",
		"TIME", "ROUTE", "FLOW", "PROVIDER", "PNL", "PNL%", "STATUS")))
	sb.WriteString("\n")

	for i := start; i < start+visible; i++ {
		row := o.rows[i]
		marker := " "
		if i == o.cursor {
			marker = "›"
		}
		sb.WriteString(fmt.Sprintf("%s %-8s  %-22s %-10s %-14s %10s %9s  %s\n",
			marker,
			row.Time,
			truncate(row.Route, 22),
			row.Flow,
			truncate(row.Provider, 14),
			pnlCell(row),
			percentCell(row),
			statusCell(row),
		))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func pnlCell(row OpportunityRow) string {
	if row.Error != "" {
		return "-"
	}
	return fmt.Sprintf("$%s", row.PnL.StringFixed(2))
}

func percentCell(row OpportunityRow) string {
	if row.Error != "" {
		return "-"
	}
	return row.Percent.StringFixed(2) + "%"
}

func statusCell(row OpportunityRow) string {
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	amber := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	switch {
	case row.Error != "":
		return red.Render("✗ " + row.Error)
	case row.Signal:
		return green.Render("✓ SIGNAL")
	case row.PnL.IsPositive() && !row.VolumeOK:
		return amber.Render("low volume")
	case row.PnL.IsPositive():
		return muted.Render("below threshold")
	default:
		return red.Render("loss")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
