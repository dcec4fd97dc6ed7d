// Package arbitrage implements the arbitrage bounded context: route evaluation,
// signal policy and the scan loop.
package arbitrage

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/fd1az/arbscan/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/arbscan/business/arbitrage/di"
	"github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/business/arbitrage/infra"
	pricingDI "github.com/fd1az/arbscan/business/pricing/di"
	"github.com/fd1az/arbscan/internal/asset"
	"github.com/fd1az/arbscan/internal/config"
	"github.com/fd1az/arbscan/internal/di"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/monolith"
	"github.com/fd1az/arbscan/internal/numeric"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	cfg := c.Get(monolith.ConfigKey).(*config.Config)
	policy, err := PolicyFromConfig(cfg.Arbitrage)
	if err != nil {
		return err
	}
	c.Register(arbitrageDI.Policy.Key(), policy)

	di.RegisterToken(c, arbitrageDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		return app.NewEngine(EngineConfigFromConfig(cfg.Arbitrage), sr.Get(monolith.AssetRegistryKey).(*asset.Registry))
	})

	if !c.Has(arbitrageDI.Reporter.Key()) {
		di.RegisterToken(c, arbitrageDI.Reporter, func(di.ServiceRegistry) app.Reporter {
			return infra.NewConsoleReporter(nil)
		})
	}

	di.RegisterToken(c, arbitrageDI.Recorder, func(sr di.ServiceRegistry) app.Recorder {
		rec, err := infra.NewMetricsRecorder(otel.Meter("arbscan/arbitrage"))
		if err != nil {
			sr.Get(monolith.LoggerKey).(logger.LoggerInterface).Warn(context.Background(),
				"metrics recorder disabled", "error", err)
			return nopRecorder{}
		}
		return rec
	})

	di.RegisterToken(c, arbitrageDI.Scanner, func(sr di.ServiceRegistry) *app.Scanner {
		deps := app.ScannerDeps{
			Source:   pricingDI.GetTickSource(sr),
			Progress: pricingDI.GetProgress(sr),
			Pricing:  pricingDI.GetPricingService(sr),
			Engine:   arbitrageDI.GetEngine(sr),
			Reporter: arbitrageDI.GetReporter(sr),
			Logger:   sr.Get(monolith.LoggerKey).(logger.LoggerInterface),
		}
		if sr.Has(arbitrageDI.Notifier.Key()) {
			deps.Notifier = di.GetToken(sr, arbitrageDI.Notifier)
		}
		deps.Recorder = di.GetToken(sr, arbitrageDI.Recorder)
		return app.NewScanner(app.ScannerConfig{
			Workers:       cfg.Arbitrage.Workers,
			Buffer:        cfg.Feed.Buffer,
			MultiRoute:    cfg.Arbitrage.MultiRoute,
			MaxCandidates: cfg.Arbitrage.MaxCandidates,
			DefaultModal:  cfg.Arbitrage.DefaultModal,
			Policy:        di.GetToken(sr, arbitrageDI.Policy),
		}, deps)
	})

	return nil
}

// Startup resolves the scanner so wiring errors surface before the feed opens.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config().Arbitrage
	_ = arbitrageDI.GetScanner(mono.Services())

	mono.Logger().Info(ctx, "arbitrage module started",
		"default_modal", cfg.DefaultModal,
		"threshold", cfg.Threshold,
		"volume_gate", cfg.VolumeGate,
		"multi_route", cfg.MultiRoute,
		"max_candidates", cfg.MaxCandidates,
		"workers", cfg.Workers)
	return nil
}

// Run starts the reporter, scans the feed to the end and stops the reporter.
func Run(ctx context.Context, mono monolith.Monolith) error {
	reporter := arbitrageDI.GetReporter(mono.Services())
	scanner := arbitrageDI.GetScanner(mono.Services())

	if err := reporter.Start(ctx); err != nil {
		return fmt.Errorf("start reporter: %w", err)
	}
	runErr := scanner.Run(ctx)
	if err := reporter.Stop(); err != nil && runErr == nil {
		runErr = fmt.Errorf("stop reporter: %w", err)
	}
	return runErr
}

// PolicyFromConfig builds the signal policy from configuration.
func PolicyFromConfig(cfg config.ArbitrageConfig) (domain.SignalPolicy, error) {
	gate, err := domain.ParseVolumeGate(cfg.VolumeGate)
	if err != nil {
		return domain.SignalPolicy{}, err
	}
	tolerance := numeric.OrZero(cfg.AutoLevelTolerance)
	if !tolerance.IsPositive() {
		tolerance = domain.DefaultAutoLevelTolerance
	}
	return domain.SignalPolicy{
		Threshold: cfg.ThresholdDecimal(),
		Volume:    gate,
		Tolerance: tolerance,
	}, nil
}

// EngineConfigFromConfig builds the engine settings from configuration,
// falling back to the standard fee constants for unset values.
func EngineConfigFromConfig(cfg config.ArbitrageConfig) app.EngineConfig {
	fees := app.DefaultFeeModel()
	if rate := numeric.OrZero(cfg.Fees.TradeRate); rate.IsPositive() {
		fees.TradeFeeRate = rate
	}
	if cfg.Fees.TransferRatio != nil {
		if ratio, err := numeric.FiniteNonNegative(*cfg.Fees.TransferRatio); err == nil {
			fees.TransferFeeRatio = ratio
		}
	}
	return app.EngineConfig{Fees: fees, MaxCandidates: cfg.MaxCandidates}
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, *domain.Opportunity) {}
