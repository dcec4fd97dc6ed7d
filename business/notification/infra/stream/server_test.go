package stream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/arbscan/business/notification/domain"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/wsconn"
)

func newTestServer(t *testing.T, recent int) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(Config{Recent: recent, Hub: wsconn.Config{PingInterval: 0}},
		logger.New(io.Discard, logger.LevelError, "", nil))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		_ = s.Stop(context.Background())
		ts.Close()
	})
	return s, ts
}

func sig(id, pnl string) domain.Signal {
	return domain.Signal{ID: id, CEX: "binance", Provider: "Pancake", PnL: decimal.RequireFromString(pnl)}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestServer_BroadcastsSignals(t *testing.T) {
	s, ts := newTestServer(t, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()
	require.Eventually(t, func() bool { return s.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Send(context.Background(), sig("t1", "0.51")))

	env := readEnvelope(t, conn)
	assert.Equal(t, "signal", env.Type)
	assert.Equal(t, "t1", env.Data.ID)
	assert.True(t, env.Data.PnL.Equal(decimal.RequireFromString("0.51")))
}

func TestServer_ReplaysRecentToNewClients(t *testing.T) {
	s, ts := newTestServer(t, 2)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Send(context.Background(), sig(id, "1")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	assert.Equal(t, "b", readEnvelope(t, conn).Data.ID)
	assert.Equal(t, "c", readEnvelope(t, conn).Data.ID)
}

func TestServer_Recent(t *testing.T) {
	s, ts := newTestServer(t, 5)
	require.NoError(t, s.Send(context.Background(), sig("x", "2.5")))

	resp, err := http.Get(ts.URL + "/recent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Data.ID)
}

func TestServer_SendWithoutClients(t *testing.T) {
	s, _ := newTestServer(t, 0)
	assert.NoError(t, s.Send(context.Background(), sig("lonely", "1")))
	assert.Equal(t, "stream", s.Name())
}
