// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"

	"github.com/fd1az/arbscan/business/arbitrage/domain"
)

// Stats is a running summary of the scan.
type Stats struct {
	Ticks     int64
	Evaluated int64
	Failed    int64
	Skipped   int64 // feed entries dropped before evaluation
	Signals   int64
}

// Reporter defines the interface for presenting evaluated routes.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report presents an evaluated tick. The latest report for a route key
	// supersedes earlier ones.
	Report(opp *domain.Opportunity)

	// UpdateStats refreshes the running totals.
	UpdateStats(stats Stats)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// Notifier dispatches signal-worthy opportunities.
type Notifier interface {
	Notify(ctx context.Context, opp *domain.Opportunity) error
}

// Recorder observes every evaluation for metrics.
type Recorder interface {
	Record(ctx context.Context, opp *domain.Opportunity)
}
