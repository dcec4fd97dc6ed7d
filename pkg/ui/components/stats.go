package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds scan totals for display.
type Stats struct {
	Ticks     int64
	Evaluated int64
	Failed    int64
	Skipped   int64
	Signals   int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// Get returns the current statistics.
func (s *StatsComponent) Get() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	signalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

	signalRate := float64(0)
	if s.stats.Evaluated > 0 {
		signalRate = float64(s.stats.Signals) / float64(s.stats.Evaluated) * 100
	}

	failed := valueStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	if s.stats.Failed > 0 {
		failed = errorStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	}

	return style.Render("Ticks ") + valueStyle.Render(fmt.Sprintf("%d", s.stats.Ticks)) +
		style.Render("  │  Evaluated ") + valueStyle.Render(fmt.Sprintf("%d", s.stats.Evaluated)) +
		style.Render("  │  Failed ") + failed +
		style.Render("  │  Skipped ") + valueStyle.Render(fmt.Sprintf("%d", s.stats.Skipped)) +
		style.Render("  │  Signals ") + signalStyle.Render(fmt.Sprintf("%d", s.stats.Signals)) +
		style.Render(fmt.Sprintf(" (%.1f%%)", signalRate))
}
