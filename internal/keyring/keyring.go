// Package keyring rotates through a fixed set of credentials.
package keyring

import (
	"strings"
	"sync/atomic"
)

// Ring hands out keys round-robin. The zero value is an empty ring.
// A Ring is safe for concurrent use; each caller owns its own cursor.
type Ring struct {
	keys   []string
	cursor atomic.Uint64
}

// New builds a ring from keys, dropping blanks.
func New(keys ...string) *Ring {
	kept := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			kept = append(kept, k)
		}
	}
	return &Ring{keys: kept}
}

// Len returns the number of keys.
func (r *Ring) Len() int { return len(r.keys) }

// Next returns the next key and advances the cursor.
func (r *Ring) Next() (string, bool) {
	if len(r.keys) == 0 {
		return "", false
	}
	n := r.cursor.Add(1) - 1
	return r.keys[n%uint64(len(r.keys))], true
}

// Peek returns the key Next would return without advancing.
func (r *Ring) Peek() (string, bool) {
	if len(r.keys) == 0 {
		return "", false
	}
	return r.keys[r.cursor.Load()%uint64(len(r.keys))], true
}

// Reset moves the cursor back to the first key.
func (r *Ring) Reset() { r.cursor.Store(0) }
