// Package main is the entry point for arbscan, the CEX/DEX route scanner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/arbscan/business/arbitrage"
	arbitrageApp "github.com/fd1az/arbscan/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/arbscan/business/arbitrage/di"
	"github.com/fd1az/arbscan/business/arbitrage/infra"
	"github.com/fd1az/arbscan/business/notification"
	notificationDI "github.com/fd1az/arbscan/business/notification/di"
	"github.com/fd1az/arbscan/business/pricing"
	pricingDI "github.com/fd1az/arbscan/business/pricing/di"
	"github.com/fd1az/arbscan/internal/apm"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/config"
	"github.com/fd1az/arbscan/internal/di"
	"github.com/fd1az/arbscan/internal/health"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/metrics"
	"github.com/fd1az/arbscan/internal/monolith"
	"github.com/fd1az/arbscan/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type options struct {
	configPath string
	feedPath   string
	tuiMode    bool
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	feedPath := flag.String("feed", "", "Scan feed to replay (JSON lines or YAML, - for stdin)")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("arbscan %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{configPath: *configPath, feedPath: *feedPath, tuiMode: !*cliMode}
	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.feedPath != "" {
		cfg.Feed.Path = opts.feedPath
	}
	cfg.Arbitrage.TUIMode = opts.tuiMode

	// the TUI owns the terminal; logs go to the file sink or nowhere
	var out io.Writer = os.Stderr
	if opts.tuiMode {
		out = io.Discard
	}
	log, logCloser := logger.NewWithOptions(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, logger.Options{
		Format:     cfg.App.LogFormat,
		File:       cfg.App.LogFile,
		MaxSizeMB:  cfg.App.LogMaxSize,
		MaxBackups: cfg.App.LogBackups,
		MaxAgeDays: cfg.App.LogMaxAge,
	})
	defer logCloser.Close()

	log.Info(ctx, "starting arbscan",
		"version", version,
		"environment", cfg.App.Environment,
		"feed", cfg.Feed.Path,
		"tui", opts.tuiMode)

	shutdownTelemetry, err := setupTelemetry(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer func() {
		if err := mono.Close(); err != nil {
			log.Warn(context.Background(), "shutdown", "error", err)
		}
	}()

	var scan *tuiScan
	if opts.tuiMode {
		scan = newTUIScan(ctx, mono)
		di.RegisterToken(mono.Container(), arbitrageDI.Reporter, func(di.ServiceRegistry) arbitrageApp.Reporter {
			return scan.reporter
		})
	}

	modules := []monolith.Module{
		&pricing.Module{},
		&notification.Module{},
		&arbitrage.Module{},
	}
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	if cfg.Health.Enabled {
		startHealth(ctx, cfg.Health.Port, mono, log)
	}

	if opts.tuiMode {
		return scan.run()
	}
	return runCLI(ctx, mono, log)
}

func setupTelemetry(ctx context.Context, cfg config.TelemetryConfig, log logger.LoggerInterface) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}

	endpoint := cfg.TraceEndpoint
	if endpoint == "" {
		endpoint = cfg.OTLPEndpoint
	}
	tp, err := apm.NewTraceProvider(ctx, log, apm.TraceConfig{
		Provider:    apm.Provider(cfg.TraceProvider),
		ServiceName: cfg.ServiceName,
		Endpoint:    endpoint,
		Headers:     cfg.OTLPHeaders,
		SampleRatio: cfg.SampleRatio,
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeTelemetrySetupFailed, apperror.WithContext("tracing"), apperror.WithCause(err))
	}

	mp, err := metrics.NewMeterProvider(ctx, metrics.Config{
		ServiceName:  cfg.ServiceName,
		Prometheus:   true,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPHeaders:  apm.ParseHeaders(cfg.OTLPHeaders),
		Insecure:     true,
	})
	if err != nil {
		_ = tp.Stop()
		return nil, apperror.New(apperror.CodeTelemetrySetupFailed, apperror.WithContext("metrics"), apperror.WithCause(err))
	}

	srv := metrics.NewServer(cfg.PrometheusPort, log)
	srv.Start(ctx)

	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(sctx)
		_ = mp.Shutdown(sctx)
		_ = tp.Stop()
	}, nil
}

func startHealth(ctx context.Context, port int, mono monolith.Monolith, log logger.LoggerInterface) {
	srv := health.NewServer(port, version, log)
	sr := mono.Services()

	progress := pricingDI.GetProgress(sr)
	srv.RegisterCheck("feed", func(context.Context) (bool, string) {
		ok, skipped := progress.Processed()
		return true, fmt.Sprintf("ticks=%d skipped=%d", ok, skipped)
	})
	if sr.Has(notificationDI.Telegram.Key()) {
		tg := di.GetToken(sr, notificationDI.Telegram)
		srv.RegisterCheck("telegram", func(context.Context) (bool, string) {
			if tg.BreakerOpen() {
				return false, "circuit open"
			}
			return true, "ok"
		}, health.NonCritical())
	}

	srv.Start(ctx)
	log.Info(ctx, "health server started", "port", port)
	mono.OnClose(func() error {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(sctx)
	})
}

func runCLI(ctx context.Context, mono monolith.Monolith, log logger.LoggerInterface) error {
	log.Info(ctx, "all modules started, scanning feed")

	err := arbitrage.Run(ctx, mono)
	if errors.Is(err, context.Canceled) {
		log.Info(ctx, "interrupted")
		return nil
	}
	return err
}

// tuiScan runs the scanner behind the dashboard. The scan starts once the
// welcome screen is gone and is cancelled when the user quits.
type tuiScan struct {
	ctx      context.Context
	cancel   context.CancelFunc
	mono     monolith.Monolith
	program  *tea.Program
	reporter *infra.TUIReporter

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
}

func newTUIScan(ctx context.Context, mono monolith.Monolith) *tuiScan {
	scanCtx, cancel := context.WithCancel(ctx)
	s := &tuiScan{ctx: scanCtx, cancel: cancel, mono: mono, done: make(chan struct{})}
	s.program = tea.NewProgram(ui.New(ui.WithOnStart(s.start)), tea.WithAltScreen(), tea.WithContext(ctx))
	s.reporter = infra.NewTUIReporter(s.program)
	return s
}

func (s *tuiScan) start() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	defer close(s.done)
	err := arbitrage.Run(s.ctx, s.mono)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	s.reporter.Done(err)
}

// run blocks until the user quits, then waits for an in-flight scan.
func (s *tuiScan) run() error {
	_, runErr := s.program.Run()

	s.cancel()
	s.mu.Lock()
	s.closed = true
	wait := s.started
	s.mu.Unlock()
	if wait {
		<-s.done
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}
