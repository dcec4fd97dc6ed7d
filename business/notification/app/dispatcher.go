// Package app fans signals out to notification channels.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	arbApp "github.com/fd1az/arbscan/business/arbitrage/app"
	arbDomain "github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/business/notification/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/logger"
)

// Channel delivers a signal to one destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, sig domain.Signal) error
}

// DispatcherConfig holds dispatcher settings.
type DispatcherConfig struct {
	Nickname    string
	QueueSize   int
	SendTimeout time.Duration // per signal, across all channels
}

// Dispatcher queues signals and delivers each one to every channel. Notify
// never blocks the scanner; a full queue drops the signal.
type Dispatcher struct {
	cfg      DispatcherConfig
	channels []Channel
	logger   logger.LoggerInterface

	queue   chan domain.Signal
	wg      sync.WaitGroup
	mu      sync.RWMutex // guards stopped and the queue close
	stopped bool

	sent    atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

var _ arbApp.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher over channels.
func NewDispatcher(cfg DispatcherConfig, log logger.LoggerInterface, channels ...Channel) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = time.Minute
	}
	return &Dispatcher{
		cfg:      cfg,
		channels: channels,
		logger:   log,
		queue:    make(chan domain.Signal, cfg.QueueSize),
	}
}

// Channels returns the channel names.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

// Start launches the delivery loop.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for sig := range d.queue {
			ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
			if err := d.Deliver(ctx, sig); err != nil {
				d.logger.Warn(ctx, "signal delivery failed", "signal", sig.ID, "error", err)
			}
			cancel()
		}
	}()
}

// Stop closes the queue and waits until queued signals are delivered or ctx ends.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notify queues a signal for the opportunity.
func (d *Dispatcher) Notify(ctx context.Context, opp *arbDomain.Opportunity) error {
	sig, err := domain.FromOpportunity(opp, d.cfg.Nickname)
	if err != nil {
		return err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return apperror.New(apperror.CodeServiceUnavailable, apperror.WithContext("dispatcher stopped"))
	}

	select {
	case d.queue <- sig:
		return nil
	default:
		d.dropped.Add(1)
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext("signal queue full"))
	}
}

// Deliver sends sig to every channel concurrently. Failures of one channel
// do not affect the others; all errors are joined.
func (d *Dispatcher) Deliver(ctx context.Context, sig domain.Signal) error {
	errs := make([]error, len(d.channels))

	var g errgroup.Group
	for i, ch := range d.channels {
		g.Go(func() error {
			if err := ch.Send(ctx, sig); err != nil {
				errs[i] = fmt.Errorf("%s: %w", ch.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	if err != nil {
		d.failed.Add(1)
	} else {
		d.sent.Add(1)
	}
	return err
}

// Stats returns delivered, dropped and failed signal counts.
func (d *Dispatcher) Stats() (sent, dropped, failed int64) {
	return d.sent.Load(), d.dropped.Load(), d.failed.Load()
}
