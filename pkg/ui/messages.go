package ui

import (
	"github.com/fd1az/arbscan/business/arbitrage/app"
	"github.com/fd1az/arbscan/business/arbitrage/domain"
)

// Message types for TUI updates

// OpportunityMsg carries one evaluated tick.
type OpportunityMsg struct {
	Opportunity *domain.Opportunity
}

// StatsMsg carries the scanner's running totals.
type StatsMsg struct {
	Stats app.Stats
}

// StatusMsg is sent when a pipeline stage changes state.
type StatusMsg struct {
	Name   string
	State  string
	Active bool
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// DoneMsg is sent when the feed is exhausted. The dashboard stays up until quit.
type DoneMsg struct {
	Err error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

type beginMsg struct{}
