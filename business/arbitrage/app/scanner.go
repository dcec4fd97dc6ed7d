package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/arbscan/business/arbitrage/domain"
	pricingApp "github.com/fd1az/arbscan/business/pricing/app"
	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/numeric"
)

// ScannerConfig holds scanner settings.
type ScannerConfig struct {
	Workers       int
	Buffer        int
	MultiRoute    bool
	MaxCandidates int
	DefaultModal  float64
	Policy        domain.SignalPolicy
}

// Preparer completes a raw tick with CEX prices and liquidity.
type Preparer interface {
	Prepare(ctx context.Context, tick pricingDomain.Tick) (pricingDomain.Prepared, error)
}

// Scanner pulls ticks from a source and evaluates them in parallel.
type Scanner struct {
	source   pricingApp.TickSource
	progress pricingApp.Progress
	pricing  Preparer
	engine   *Engine
	reporter Reporter
	notifier Notifier
	recorder Recorder
	cfg      ScannerConfig
	logger   logger.LoggerInterface
	now      func() time.Time

	ticks     atomic.Int64
	evaluated atomic.Int64
	failed    atomic.Int64
	signals   atomic.Int64
}

// ScannerDeps groups the scanner's collaborators. Notifier, Recorder and
// Progress are optional.
type ScannerDeps struct {
	Source   pricingApp.TickSource
	Progress pricingApp.Progress
	Pricing  Preparer
	Engine   *Engine
	Reporter Reporter
	Notifier Notifier
	Recorder Recorder
	Logger   logger.LoggerInterface
}

// NewScanner creates a Scanner.
func NewScanner(cfg ScannerConfig, deps ScannerDeps) *Scanner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = cfg.Workers * 4
	}
	return &Scanner{
		source:   deps.Source,
		progress: deps.Progress,
		pricing:  deps.Pricing,
		engine:   deps.Engine,
		reporter: deps.Reporter,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		cfg:      cfg,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// Run scans until the source is exhausted or ctx is cancelled. Route failures
// are logged and counted; only source errors end the run with an error.
func (s *Scanner) Run(ctx context.Context) error {
	ticks := make(chan pricingDomain.Tick, s.cfg.Buffer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ticks)
		return s.source.Stream(gctx, ticks)
	})
	g.Go(func() error {
		var work errgroup.Group
		work.SetLimit(s.cfg.Workers)
		for tick := range ticks {
			work.Go(func() error {
				s.process(gctx, tick)
				return nil
			})
		}
		return work.Wait()
	})

	err := g.Wait()
	s.reporter.UpdateStats(s.Stats())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stats returns the running totals.
func (s *Scanner) Stats() Stats {
	st := Stats{
		Ticks:     s.ticks.Load(),
		Evaluated: s.evaluated.Load(),
		Failed:    s.failed.Load(),
		Signals:   s.signals.Load(),
	}
	if s.progress != nil {
		_, st.Skipped = s.progress.Processed()
	}
	return st
}

func (s *Scanner) process(ctx context.Context, tick pricingDomain.Tick) {
	s.ticks.Add(1)
	opp := s.Evaluate(ctx, tick)

	if opp.Err != nil {
		s.failed.Add(1)
		s.logger.Warn(ctx, "route skipped",
			"tick", tick.ID,
			"route", tick.Route.Key(),
			"code", apperror.GetCode(opp.Err),
			"error", opp.Err)
	} else {
		s.evaluated.Add(1)
	}

	if s.recorder != nil {
		s.recorder.Record(ctx, opp)
	}
	s.reporter.Report(opp)

	if opp.Signal {
		s.signals.Add(1)
		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, opp); err != nil {
				s.logger.Warn(ctx, "signal dispatch failed", "opportunity", opp.ID, "error", err)
			}
		}
	}
	s.reporter.UpdateStats(s.Stats())
}

// Evaluate turns one tick into an Opportunity. It never fails; evaluation
// errors are carried in Opportunity.Err.
func (s *Scanner) Evaluate(ctx context.Context, tick pricingDomain.Tick) *domain.Opportunity {
	// the book walk and the engine must see the same modal
	if tick.Modal == 0 {
		tick.Modal = s.cfg.DefaultModal
	}
	modalIn := tick.Modal

	opp := &domain.Opportunity{
		ID:        uuid.NewString(),
		TickID:    tick.ID,
		Timestamp: s.now(),
		CEX:       tick.CEX,
		DEX:       tick.DEX,
		Route:     tick.Route,
		Modal:     numeric.OrZero(modalIn),
		Prices:    tick.Prices,
		Wallet:    tick.Wallet,
	}

	prepared, err := s.pricing.Prepare(ctx, tick)
	if err != nil {
		opp.Err = err
		return opp
	}
	opp.Prices = prepared.Prices
	opp.Liquidity = prepared.Liquidity

	if s.cfg.MultiRoute {
		multi, err := s.engine.EvaluateBest(ctx, tick.Route, prepared.Prices, modalIn, s.cfg.MaxCandidates)
		if err != nil {
			opp.Err = err
			return opp
		}
		opp.Multi = multi
		opp.Result = multi.Best
	} else {
		res, err := s.engine.Evaluate(ctx, tick.Route, prepared.Prices, modalIn)
		if err != nil {
			opp.Err = err
			return opp
		}
		opp.Result = res
	}

	opp.VolumeOK = s.cfg.Policy.VolumeOK(opp.Modal, opp.Liquidity)
	opp.Signal = s.cfg.Policy.IsSignalWorthy(opp.Result.ProfitLoss, opp.Modal, opp.Liquidity)
	return opp
}
