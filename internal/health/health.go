// Package health serves liveness, readiness and a detailed check report.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/arbscan/internal/logger"
)

const checkTimeout = 3 * time.Second

// Overall states reported by /health.
const (
	StateOK       = "ok"
	StateDegraded = "degraded"
	StateDown     = "down"
)

// Status is the /health body.
type Status struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Version   string           `json:"version,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// Check is one check's result.
type Check struct {
	Healthy  bool   `json:"healthy"`
	Critical bool   `json:"critical"`
	Message  string `json:"message,omitempty"`
}

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) (bool, string)

type check struct {
	fn       CheckFunc
	critical bool
}

// CheckOption tunes a registered check.
type CheckOption func(*check)

// NonCritical marks a check whose failure degrades /health but keeps /ready up.
func NonCritical() CheckOption {
	return func(c *check) { c.critical = false }
}

// Server serves /health, /ready and /live.
type Server struct {
	port    int
	version string
	logger  logger.LoggerInterface
	now     func() time.Time

	mu     sync.RWMutex
	checks map[string]check
	server *http.Server
}

func NewServer(port int, version string, log logger.LoggerInterface) *Server {
	return &Server{
		port:    port,
		version: version,
		logger:  log,
		now:     time.Now,
		checks:  make(map[string]check),
	}
}

// RegisterCheck adds or replaces a check. Checks are critical by default.
func (s *Server) RegisterCheck(name string, fn CheckFunc, opts ...CheckOption) {
	c := check{fn: fn, critical: true}
	for _, opt := range opts {
		opt(&c)
	}
	s.mu.Lock()
	s.checks[name] = c
	s.mu.Unlock()
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)
	return r
}

// Start listens in the background.
func (s *Server) Start(ctx context.Context) {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn(ctx, "health server stopped", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// evaluate runs every check concurrently, each under its own timeout.
func (s *Server) evaluate(ctx context.Context) (map[string]Check, string) {
	s.mu.RLock()
	checks := make(map[string]check, len(s.checks))
	for name, c := range s.checks {
		checks[name] = c
	}
	s.mu.RUnlock()

	var (
		mu  sync.Mutex
		out = make(map[string]Check, len(checks))
		g   errgroup.Group
	)
	for name, c := range checks {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			ok, msg := c.fn(cctx)
			mu.Lock()
			out[name] = Check{Healthy: ok, Critical: c.critical, Message: msg}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	state := StateOK
	for _, c := range out {
		switch {
		case c.Healthy:
		case c.Critical:
			return out, StateDown
		default:
			state = StateDegraded
		}
	}
	return out, state
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks, state := s.evaluate(r.Context())
	code := http.StatusOK
	if state == StateDown {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Status{
		Status:    state,
		Checks:    checks,
		Version:   s.version,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, state := s.evaluate(r.Context()); state == StateDown {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("alive"))
}
