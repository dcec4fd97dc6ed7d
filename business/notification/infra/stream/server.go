// Package stream publishes signals to websocket subscribers.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fd1az/arbscan/business/notification/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/wsconn"
)

// Config holds stream server settings.
type Config struct {
	Addr   string
	Recent int // signals replayed to new subscribers and served on /recent
	Hub    wsconn.Config
}

// Envelope is the frame written to subscribers.
type Envelope struct {
	Type string        `json:"type"`
	Data domain.Signal `json:"data"`
}

// Server serves GET /ws and GET /recent.
type Server struct {
	cfg    Config
	hub    *wsconn.Hub
	logger logger.LoggerInterface
	server *http.Server

	mu     sync.Mutex
	recent [][]byte
}

// NewServer creates a Server.
func NewServer(cfg Config, log logger.LoggerInterface) *Server {
	if cfg.Recent < 0 {
		cfg.Recent = 0
	}
	s := &Server{cfg: cfg, logger: log}
	hubCfg := cfg.Hub
	hubCfg.Replay = s.snapshot
	s.hub = wsconn.NewHub(hubCfg, log)
	return s
}

// Name implements the notification channel.
func (s *Server) Name() string { return "stream" }

// Send broadcasts sig to every subscriber. Having no subscribers is not an error.
func (s *Server) Send(_ context.Context, sig domain.Signal) error {
	msg, err := json.Marshal(Envelope{Type: "signal", Data: sig})
	if err != nil {
		return apperror.New(apperror.CodeNotifySendFailed, apperror.WithContext("stream"), apperror.WithCause(err))
	}
	s.remember(msg)
	s.hub.Broadcast(msg)
	return nil
}

// Clients returns the number of connected subscribers.
func (s *Server) Clients() int { return s.hub.Clients() }

func (s *Server) remember(msg []byte) {
	if s.cfg.Recent == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append(s.recent, msg)
	if len(s.recent) > s.cfg.Recent {
		s.recent = s.recent[len(s.recent)-s.cfg.Recent:]
	}
}

func (s *Server) snapshot() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.recent))
	copy(out, s.recent)
	return out
}

// Handler returns the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", s.hub.ServeHTTP)
	r.Get("/recent", s.handleRecent)
	return r
}

func (s *Server) handleRecent(w http.ResponseWriter, _ *http.Request) {
	frames := s.snapshot()
	out := make([]json.RawMessage, len(frames))
	for i, f := range frames {
		out[i] = f
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Start listens in the background.
func (s *Server) Start(ctx context.Context) {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info(ctx, "signal stream listening", "addr", s.cfg.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(ctx, "signal stream stopped",
				"error", apperror.New(apperror.CodeStreamServerFailed, apperror.WithContext(s.cfg.Addr), apperror.WithCause(err)))
		}
	}()
}

// Stop disconnects subscribers and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
