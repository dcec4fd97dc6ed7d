// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/fd1az/arbscan/business/pricing/domain"
)

// TickSource produces scan ticks until it is exhausted or ctx is done.
// Implementations send on out and return; the caller owns the channel.
type TickSource interface {
	Stream(ctx context.Context, out chan<- domain.Tick) error
}

// Progress is optionally implemented by sources that can report how far they got.
type Progress interface {
	Processed() (ok, skipped int64)
}
