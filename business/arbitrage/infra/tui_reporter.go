package infra

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fd1az/arbscan/business/arbitrage/app"
	"github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/pkg/ui"
)

// Sender delivers messages to a running Bubble Tea program.
type Sender interface {
	Send(msg tea.Msg)
}

// TUIReporter implements Reporter for the Bubble Tea dashboard.
type TUIReporter struct {
	program Sender
}

var _ app.Reporter = (*TUIReporter)(nil)

// NewTUIReporter creates a new TUIReporter; *tea.Program satisfies Sender.
func NewTUIReporter(program Sender) *TUIReporter {
	return &TUIReporter{program: program}
}

// Start marks the feed as streaming.
func (r *TUIReporter) Start(ctx context.Context) error {
	r.program.Send(ui.StatusMsg{Name: "feed", State: "streaming", Active: true})
	return nil
}

// Report sends an evaluated route to the dashboard.
func (r *TUIReporter) Report(opp *domain.Opportunity) {
	r.program.Send(ui.OpportunityMsg{Opportunity: opp})
}

// UpdateStats sends the running totals.
func (r *TUIReporter) UpdateStats(stats app.Stats) {
	r.program.Send(ui.StatsMsg{Stats: stats})
}

// Done reports the end of the feed; err is nil on a clean finish.
func (r *TUIReporter) Done(err error) {
	r.program.Send(ui.DoneMsg{Err: err})
}

// Stop marks the feed as finished. The program itself is owned by main.
func (r *TUIReporter) Stop() error {
	r.program.Send(ui.StatusMsg{Name: "feed", State: "done", Active: false})
	return nil
}
