package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arbDomain "github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/business/notification/domain"
	pricingDomain "github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/logger"
)

type memChannel struct {
	name string
	err  error
	mu   sync.Mutex
	got  []domain.Signal
}

func (c *memChannel) Name() string { return c.name }

func (c *memChannel) Send(_ context.Context, sig domain.Signal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, sig)
	return c.err
}

func (c *memChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func signalOpportunity(id string) *arbDomain.Opportunity {
	return &arbDomain.Opportunity{
		ID:    id,
		CEX:   "binance",
		Route: pricingDomain.RouteQuote{Direction: pricingDomain.TokenToPair, Token: pricingDomain.TokenRef{Symbol: "CAKE"}},
		Modal: decimal.NewFromInt(100),
		Result: &arbDomain.PnlResult{
			ProfitLoss: decimal.NewFromInt(2),
		},
		Signal: true,
	}
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestDispatcher_FanOut(t *testing.T) {
	a := &memChannel{name: "a"}
	b := &memChannel{name: "b", err: errors.New("down")}
	d := NewDispatcher(DispatcherConfig{Nickname: "desk"}, testLogger(), a, b)
	d.Start()

	require.NoError(t, d.Notify(context.Background(), signalOpportunity("1")))
	require.NoError(t, d.Notify(context.Background(), signalOpportunity("2")))
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, 2, a.count())
	assert.Equal(t, 2, b.count())
	assert.Equal(t, "desk", a.got[0].Nickname)

	sent, dropped, failed := d.Stats()
	assert.EqualValues(t, 0, sent)
	assert.EqualValues(t, 0, dropped)
	assert.EqualValues(t, 2, failed)
	assert.Equal(t, []string{"a", "b"}, d.Channels())
}

func TestDispatcher_DeliverJoinsErrors(t *testing.T) {
	a := &memChannel{name: "telegram", err: errors.New("rejected")}
	b := &memChannel{name: "stream"}
	d := NewDispatcher(DispatcherConfig{}, testLogger(), a, b)

	sig, err := domain.FromOpportunity(signalOpportunity("1"), "")
	require.NoError(t, err)

	err = d.Deliver(context.Background(), sig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram: rejected")
	assert.Equal(t, 1, b.count())
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{QueueSize: 1}, testLogger(), &memChannel{name: "a"})

	require.NoError(t, d.Notify(context.Background(), signalOpportunity("1")))
	err := d.Notify(context.Background(), signalOpportunity("2"))
	assert.True(t, apperror.HasCode(err, apperror.CodeRateLimitExceeded))

	_, dropped, _ := d.Stats()
	assert.EqualValues(t, 1, dropped)
}

func TestDispatcher_RejectsFailedOpportunity(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{}, testLogger())
	opp := signalOpportunity("1")
	opp.Result = nil
	opp.Err = errors.New("boom")
	assert.ErrorIs(t, d.Notify(context.Background(), opp), domain.ErrNoResult)
}

func TestDispatcher_StopAfterStop(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{}, testLogger())
	d.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	require.NoError(t, d.Stop(ctx))
	assert.Error(t, d.Notify(context.Background(), signalOpportunity("1")))
}
