// Package pricing turns scan-feed entries into priced ticks for the engine.
package pricing

import (
	"context"

	"github.com/fd1az/arbscan/business/pricing/app"
	pricingDI "github.com/fd1az/arbscan/business/pricing/di"
	"github.com/fd1az/arbscan/business/pricing/infra/aggregator"
	"github.com/fd1az/arbscan/business/pricing/infra/feed"
	"github.com/fd1az/arbscan/internal/asset"
	"github.com/fd1az/arbscan/internal/config"
	"github.com/fd1az/arbscan/internal/di"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pricingDI.Normalizer, func(sr di.ServiceRegistry) *aggregator.Normalizer {
		return aggregator.NewNormalizer(sr.Get(monolith.AssetRegistryKey).(*asset.Registry))
	})

	di.RegisterToken(c, pricingDI.FeedSource, func(sr di.ServiceRegistry) *feed.Source {
		cfg := sr.Get(monolith.ConfigKey).(*config.Config)
		log := sr.Get(monolith.LoggerKey).(logger.LoggerInterface)
		return feed.NewSource(feed.Config{
			Path:     cfg.Feed.Path,
			Format:   cfg.Feed.Format,
			Interval: cfg.Feed.Interval,
		}, di.GetToken(sr, pricingDI.Normalizer), log)
	})

	di.RegisterToken(c, pricingDI.TickSource, func(sr di.ServiceRegistry) app.TickSource {
		return di.GetToken(sr, pricingDI.FeedSource)
	})
	di.RegisterToken(c, pricingDI.Progress, func(sr di.ServiceRegistry) app.Progress {
		return di.GetToken(sr, pricingDI.FeedSource)
	})

	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		return app.NewPricingService(
			sr.Get(monolith.AssetRegistryKey).(*asset.Registry),
			sr.Get(monolith.LoggerKey).(logger.LoggerInterface),
		)
	})

	return nil
}

// Startup resolves the feed eagerly so configuration errors surface at boot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	_ = pricingDI.GetTickSource(mono.Services())

	mono.Logger().Info(ctx, "pricing module started",
		"feed", cfg.Feed.Path,
		"stablecoins", mono.AssetRegistry().Stablecoins(),
		"chains", len(mono.AssetRegistry().Chains()))
	return nil
}
