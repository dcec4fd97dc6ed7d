// Package wsconn fans messages out to websocket subscribers.
package wsconn

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/logger"
)

// Config holds hub settings.
type Config struct {
	SendBuffer     int           // per-client queue; a full queue drops the client
	WriteTimeout   time.Duration
	PingInterval   time.Duration // 0 disables keepalive pings
	OriginPatterns []string
	// Replay returns messages sent to each client right after it joins.
	Replay func() [][]byte
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   32,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is an http.Handler that upgrades requests and broadcasts to every
// connected client. Clients are write-only; inbound frames are discarded.
type Hub struct {
	cfg     Config
	logger  logger.LoggerInterface
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a Hub.
func NewHub(cfg Config, log logger.LoggerInterface) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultConfig().SendBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	return &Hub{
		cfg:     cfg,
		logger:  log,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and blocks until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.cfg.OriginPatterns})
	if err != nil {
		h.logger.Warn(r.Context(), "websocket accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.cfg.SendBuffer)}
	if h.cfg.Replay != nil {
		for _, msg := range h.cfg.Replay() {
			select {
			case c.send <- msg:
			default:
			}
		}
	}
	if !h.add(c) {
		_ = conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	defer h.remove(c)

	h.logger.Debug(r.Context(), "stream client joined", "remote", r.RemoteAddr)
	ctx := conn.CloseRead(r.Context())
	if err := h.writeLoop(ctx, c); err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Debug(r.Context(), "stream client left", "remote", r.RemoteAddr, "error", err)
	}
}

func (h *Hub) writeLoop(ctx context.Context, c *client) error {
	var ping <-chan time.Time
	if h.cfg.PingInterval > 0 {
		t := time.NewTicker(h.cfg.PingInterval)
		defer t.Stop()
		ping = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.Close(websocket.StatusPolicyViolation, "closed by server")
				return apperror.New(apperror.CodeWebSocketClosed)
			}
			if err := h.write(ctx, c, msg); err != nil {
				return err
			}
		case <-ping:
			pctx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, c *client, msg []byte) error {
	wctx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
	defer cancel()
	if err := c.conn.Write(wctx, websocket.MessageText, msg); err != nil {
		return apperror.New(apperror.CodeWebSocketSendError, apperror.WithCause(err))
	}
	return nil
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast queues msg for every client and returns how many accepted it.
// Clients whose queue is full are disconnected.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for c := range h.clients {
		select {
		case c.send <- msg:
			n++
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
	return n
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
