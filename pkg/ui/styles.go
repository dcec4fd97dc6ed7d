package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorAccent = lipgloss.Color("#0EA5E9")
	ColorProfit = lipgloss.Color("#22C55E")
	ColorLoss   = lipgloss.Color("#F43F5E")
	ColorSignal = lipgloss.Color("#FACC15")
	ColorDim    = lipgloss.Color("#71717A")
	ColorFrame  = lipgloss.Color("#3F3F46")
)

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFrame).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0C0A09")).
			Background(ColorAccent).
			Padding(0, 2)

	// feed state in the status bar
	FeedLive   = lipgloss.NewStyle().Foreground(ColorProfit).Bold(true)
	FeedFailed = lipgloss.NewStyle().Foreground(ColorLoss).Bold(true)
	FeedIdle   = lipgloss.NewStyle().Foreground(ColorSignal)

	Dim         = lipgloss.NewStyle().Foreground(ColorDim)
	ErrorLine   = lipgloss.NewStyle().Foreground(ColorLoss)
	ErrorHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorLoss)
	PausedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSignal)
	HelpStyle   = lipgloss.NewStyle().Foreground(ColorDim).Padding(0, 1)
)
