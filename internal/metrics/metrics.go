// Package metrics wires the OpenTelemetry meter provider and the Prometheus endpoint.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/arbscan/internal/logger"
)

const defaultPushInterval = 30 * time.Second

// Config selects the metric readers. Prometheus is a pull reader served by
// Server; a non-empty OTLPEndpoint adds a periodic gRPC push reader.
type Config struct {
	ServiceName  string
	Prometheus   bool
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	Insecure     bool
	PushInterval time.Duration
}

func (c Config) readers(ctx context.Context) ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	if c.Prometheus {
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("metrics: prometheus exporter: %w", err)
		}
		readers = append(readers, exp)
	}
	if c.OTLPEndpoint != "" {
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpointURL(c.OTLPEndpoint),
			otlpmetricgrpc.WithHeaders(c.OTLPHeaders),
		}
		if c.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("metrics: otlp exporter: %w", err)
		}
		interval := c.PushInterval
		if interval <= 0 {
			interval = defaultPushInterval
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval)))
	}
	return readers, nil
}

// NewMeterProvider builds the meter provider and installs it globally.
// Instruments created before this call bind to it through the otel global
// delegate. With no readers nothing is exported.
func NewMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	readers, err := cfg.readers(ctx)
	if err != nil {
		return nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(
		resource.NewSchemaless(semconv.ServiceNameKey.String(cfg.ServiceName)),
	)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Server exposes /metrics for Prometheus scraping.
type Server struct {
	server *http.Server
	logger logger.LoggerInterface
}

// NewServer creates a metrics server on port.
func NewServer(port int, log logger.LoggerInterface) *Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

func (s *Server) Handler() http.Handler { return s.server.Handler }

// Start serves in the background.
func (s *Server) Start(ctx context.Context) {
	s.logger.Info(ctx, "serving metrics", "addr", s.server.Addr+"/metrics")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(ctx, "metrics server stopped", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
