package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.MaxFailures = 2
	cfg.Timeout = time.Hour

	var changes []gobreaker.State
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) { changes = append(changes, to) }
	cb := New[int](cfg)

	boom := errors.New("boom")
	for range 2 {
		_, err := cb.Execute(func() (int, error) { return 0, boom })
		require.ErrorIs(t, err, boom)
	}

	assert.True(t, cb.IsOpen())
	_, err := cb.Execute(func() (int, error) { return 1, nil })
	assert.True(t, IsRejection(err))
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, changes)
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	permanent := errors.New("bad request")
	cfg := DefaultConfig("test")
	cfg.MaxFailures = 1
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, permanent) }
	cb := New[string](cfg)

	_, err := cb.Execute(func() (string, error) { return "", permanent })
	require.ErrorIs(t, err, permanent)
	assert.False(t, cb.IsOpen())

	v, err := cb.Execute(func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, "test", cb.Name())
}
