package infra

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/arbscan/business/arbitrage/app"
	"github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/internal/apperror"
)

// MetricsRecorder records engine outcomes as OTEL instruments.
type MetricsRecorder struct {
	evaluations metric.Int64Counter
	failures    metric.Int64Counter
	signals     metric.Int64Counter
	pnl         metric.Float64Histogram
}

var _ app.Recorder = (*MetricsRecorder)(nil)

// NewMetricsRecorder creates the instruments on meter.
func NewMetricsRecorder(meter metric.Meter) (*MetricsRecorder, error) {
	evaluations, err := meter.Int64Counter("arbscan_evaluations_total",
		metric.WithDescription("Routes evaluated successfully"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("arbscan_evaluation_failures_total",
		metric.WithDescription("Routes skipped, by error code"))
	if err != nil {
		return nil, err
	}
	signals, err := meter.Int64Counter("arbscan_signals_total",
		metric.WithDescription("Signal-worthy routes"))
	if err != nil {
		return nil, err
	}
	pnl, err := meter.Float64Histogram("arbscan_route_pnl_usd",
		metric.WithDescription("Net profit or loss per evaluated route"),
		metric.WithUnit("USD"),
		metric.WithExplicitBucketBoundaries(-50, -10, -5, -1, -0.1, 0, 0.1, 1, 5, 10, 50))
	if err != nil {
		return nil, err
	}
	return &MetricsRecorder{
		evaluations: evaluations,
		failures:    failures,
		signals:     signals,
		pnl:         pnl,
	}, nil
}

// Record observes one evaluation.
func (r *MetricsRecorder) Record(ctx context.Context, opp *domain.Opportunity) {
	attrs := []attribute.KeyValue{
		attribute.String("cex", opp.CEX),
		attribute.String("chain", opp.Route.Chain),
		attribute.String("direction", opp.Route.Direction.Flow()),
	}

	if opp.Err != nil {
		r.failures.Add(ctx, 1, metric.WithAttributes(
			append(attrs, attribute.String("code", string(apperror.GetCode(opp.Err))))...))
		return
	}

	set := metric.WithAttributes(attrs...)
	r.evaluations.Add(ctx, 1, metric.WithAttributes(
		append(attrs, attribute.Bool("profitable", opp.IsProfitable()))...))
	r.pnl.Record(ctx, opp.Result.ProfitLoss.InexactFloat64(), set)
	if opp.Signal {
		r.signals.Add(ctx, 1, set)
	}
}
