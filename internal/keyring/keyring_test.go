package keyring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_RoundRobin(t *testing.T) {
	r := New("a", " ", "b", "c")
	require.Equal(t, 3, r.Len())

	var got []string
	for i := 0; i < 5; i++ {
		k, ok := r.Next()
		require.True(t, ok)
		got = append(got, k)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b"}, got)

	peek, _ := r.Peek()
	assert.Equal(t, "c", peek)

	r.Reset()
	first, _ := r.Next()
	assert.Equal(t, "a", first)
}

func TestRing_Empty(t *testing.T) {
	r := New()
	_, ok := r.Next()
	assert.False(t, ok)

	var zero Ring
	_, ok = zero.Peek()
	assert.False(t, ok)
}

func TestRing_IndependentCursors(t *testing.T) {
	a := New("k1", "k2")
	b := New("k1", "k2")

	a.Next()
	k, _ := b.Next()
	assert.Equal(t, "k1", k, "rings must not share state")
}

func TestRing_Concurrent(t *testing.T) {
	r := New("x", "y")
	counts := map[string]int{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k, _ := r.Next()
			mu.Lock()
			counts[k]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counts["x"])
	assert.Equal(t, 50, counts["y"])
}
