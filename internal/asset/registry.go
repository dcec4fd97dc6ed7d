package asset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is immutable reference data. It is built once at startup and
// shared read-only, so lookups take no locks.
type Registry struct {
	chains   map[string]Chain
	byID     map[AssetID]*Asset
	bySymbol map[string][]*Asset
	stables  map[string]struct{}
}

// Builder accumulates reference data and validates it in Build.
type Builder struct {
	chains  map[string]Chain
	assets  []*Asset
	stables map[string]struct{}
	errs    []error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		chains:  make(map[string]Chain),
		stables: make(map[string]struct{}),
	}
}

// AddChain registers or replaces a chain by key.
func (b *Builder) AddChain(c Chain) *Builder {
	c.Key = NormalizeChainKey(c.Key)
	c.Native = strings.ToUpper(strings.TrimSpace(c.Native))
	if c.Key == "" || c.Native == "" {
		b.errs = append(b.errs, fmt.Errorf("asset: chain %q needs a key and a native symbol", c.Name))
		return b
	}
	if c.Name == "" {
		c.Name = c.Key
	}
	b.chains[c.Key] = c
	return b
}

// AddAsset registers an asset. Duplicate IDs are reported by Build.
func (b *Builder) AddAsset(a *Asset) *Builder {
	if a == nil {
		b.errs = append(b.errs, errors.New("asset: nil asset"))
		return b
	}
	b.assets = append(b.assets, a)
	return b
}

// SetStablecoins replaces the stablecoin set.
func (b *Builder) SetStablecoins(symbols ...string) *Builder {
	b.stables = make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			b.stables[s] = struct{}{}
		}
	}
	return b
}

// Build validates and freezes the data.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	r := &Registry{
		chains:   make(map[string]Chain, len(b.chains)),
		byID:     make(map[AssetID]*Asset, len(b.assets)),
		bySymbol: make(map[string][]*Asset),
		stables:  make(map[string]struct{}, len(b.stables)),
	}
	for k, c := range b.chains {
		r.chains[k] = c
	}
	for s := range b.stables {
		r.stables[s] = struct{}{}
	}

	for _, a := range b.assets {
		if _, dup := r.byID[a.id]; dup {
			return nil, fmt.Errorf("asset: %s registered twice", a.id)
		}
		cp := *a
		_, cp.stable = r.stables[cp.symbol]
		r.byID[cp.id] = &cp
		r.bySymbol[cp.symbol] = append(r.bySymbol[cp.symbol], &cp)
	}
	return r, nil
}

// IsStable reports whether symbol is a USD stablecoin.
func (r *Registry) IsStable(symbol string) bool {
	_, ok := r.stables[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// Stablecoins returns the stablecoin symbols, sorted.
func (r *Registry) Stablecoins() []string {
	out := make([]string, 0, len(r.stables))
	for s := range r.stables {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Chain looks up a chain by key.
func (r *Registry) Chain(key string) (Chain, bool) {
	c, ok := r.chains[NormalizeChainKey(key)]
	return c, ok
}

// Chains returns all chains sorted by key.
func (r *Registry) Chains() []Chain {
	out := make([]Chain, 0, len(r.chains))
	for _, c := range r.chains {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// NativeSymbol returns the base asset symbol of a chain, or "" when unknown.
func (r *Registry) NativeSymbol(chainKey string) string {
	return r.chains[NormalizeChainKey(chainKey)].Native
}

// Get retrieves an asset by ID.
func (r *Registry) Get(id AssetID) (*Asset, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// BySymbol returns every asset with the symbol, across chains.
func (r *Registry) BySymbol(symbol string) []*Asset {
	assets := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if len(assets) == 0 {
		return nil
	}
	out := make([]*Asset, len(assets))
	copy(out, assets)
	return out
}

// Token finds an asset by symbol on a chain.
func (r *Registry) Token(chainKey, symbol string) (*Asset, bool) {
	c, ok := r.Chain(chainKey)
	if !ok {
		return nil, false
	}
	for _, a := range r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))] {
		if a.ChainID() == c.ID {
			return a, true
		}
	}
	return nil, false
}

// TokenByAddress finds a token by contract on a chain.
func (r *Registry) TokenByAddress(chainKey string, addr common.Address) (*Asset, bool) {
	c, ok := r.Chain(chainKey)
	if !ok || addr == (common.Address{}) {
		return nil, false
	}
	return r.Get(NewTokenAssetID(c.ID, addr))
}

// Len returns the number of registered assets.
func (r *Registry) Len() int { return len(r.byID) }
