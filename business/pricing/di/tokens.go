// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/arbscan/business/pricing/app"
	"github.com/fd1az/arbscan/business/pricing/infra/aggregator"
	"github.com/fd1az/arbscan/business/pricing/infra/feed"
	"github.com/fd1az/arbscan/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
	TickSource     = di.NewToken[app.TickSource]("pricing.TickSource")
	Progress       = di.NewToken[app.Progress]("pricing.Progress")
)

// Private dependency tokens - internal to pricing module
var (
	Normalizer = di.NewToken[*aggregator.Normalizer]("pricing:normalizer")
	FeedSource = di.NewToken[*feed.Source]("pricing:feedSource")
)

func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetTickSource(c di.ServiceRegistry) app.TickSource {
	return di.GetToken(c, TickSource)
}

func GetProgress(c di.ServiceRegistry) app.Progress {
	return di.GetToken(c, Progress)
}
