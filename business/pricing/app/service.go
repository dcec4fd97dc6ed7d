package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/asset"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/numeric"
)

// PricingService completes the CEX side of a tick: it fills prices missing from
// the feed using order book tops and measures how much of the modal the book absorbs.
type PricingService struct {
	registry *asset.Registry
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

// NewPricingService creates a PricingService.
func NewPricingService(registry *asset.Registry, log logger.LoggerInterface) *PricingService {
	return &PricingService{
		registry: registry,
		logger:   log,
		tracer:   otel.Tracer("pricing"),
	}
}

// Prepare builds the snapshot and liquidity for a tick.
func (s *PricingService) Prepare(ctx context.Context, tick domain.Tick) (domain.Prepared, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.prepare",
		trace.WithAttributes(
			attribute.String("tick", tick.ID),
			attribute.String("route", tick.Route.Key()),
		),
	)
	defer span.End()

	for name, book := range map[string]*domain.Orderbook{"token": tick.Books.Token, "pair": tick.Books.Pair} {
		if book == nil {
			continue
		}
		if err := book.Validate(); err != nil {
			span.SetStatus(codes.Error, "invalid orderbook")
			return domain.Prepared{}, apperror.New(apperror.CodeInvalidOrderbook,
				apperror.WithContext(name+" book of "+tick.ID), apperror.WithCause(err))
		}
	}

	prices := s.completePrices(tick)
	liq := s.measure(ctx, tick)

	span.SetAttributes(
		attribute.Float64("buy_token", prices.BuyTokenPrice),
		attribute.Float64("sell_token", prices.SellTokenPrice),
		attribute.Bool("liquidity_measured", liq.Measured),
	)
	return domain.Prepared{Tick: tick, Prices: prices, Liquidity: liq}, nil
}

func (s *PricingService) completePrices(tick domain.Tick) domain.CexPriceSnapshot {
	p := tick.Prices
	fill := func(dst *float64, level *domain.OrderbookLevel) {
		if level != nil && !numeric.OrZero(*dst).IsPositive() {
			*dst = level.Price.InexactFloat64()
		}
	}

	fill(&p.BuyTokenPrice, tick.Books.Token.BestAsk())
	fill(&p.SellTokenPrice, tick.Books.Token.BestBid())
	fill(&p.BuyPairPrice, tick.Books.Pair.BestAsk())
	fill(&p.SellPairPrice, tick.Books.Pair.BestBid())

	pair := tick.Route.Pair.Symbol
	if s.registry.IsStable(pair) {
		if !numeric.OrZero(p.BuyPairPrice).IsPositive() {
			p.BuyPairPrice = 1
		}
		if !numeric.OrZero(p.SellPairPrice).IsPositive() {
			p.SellPairPrice = 1
		}
	}

	if !numeric.OrZero(p.BaseAssetUSD).IsPositive() {
		native := s.registry.NativeSymbol(tick.Route.Chain)
		if native != "" && native == normalize(pair) && numeric.OrZero(p.BuyPairPrice).IsPositive() {
			p.BaseAssetUSD = p.BuyPairPrice
		}
	}

	if p.Timestamp.IsZero() {
		p.Timestamp = tick.ReceivedAt
	}
	return p
}

// measure reports CEX liquidity on the side the route trades: TokenToPair buys
// the token from asks, PairToToken sells it into bids.
func (s *PricingService) measure(ctx context.Context, tick domain.Tick) domain.Liquidity {
	side := domain.SideBuy
	if tick.Route.Direction == domain.PairToToken {
		side = domain.SideSell
	}

	liq := domain.Liquidity{Volume: numeric.OrZero(tick.Volume)}
	book := tick.Books.Token
	if book == nil {
		return liq
	}

	if !liq.Volume.IsPositive() {
		liq.Volume = book.Depth(side)
	}

	modal := numeric.OrZero(tick.Modal)
	fill, err := book.FillNotional(side, modal)
	if err != nil {
		s.logger.Debug(ctx, "orderbook walk skipped", "tick", tick.ID, "side", side, "error", err)
		return liq
	}
	liq.ActualModal = decimal.Min(fill.Notional, modal)
	liq.Measured = true
	if !fill.Complete {
		s.logger.Debug(ctx, "partial fill for modal",
			"tick", tick.ID,
			"modal", modal.String(),
			"filled", fill.Notional.String(),
			"vwap", fill.AvgPrice.String())
	}
	return liq
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
