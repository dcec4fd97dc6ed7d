package asset

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// maxDecimals bounds the base-unit shift; no real token goes beyond 36.
const maxDecimals = 36

// Asset is immutable reference data for one token on one chain, or for a
// symbol only a CEX knows about.
type Asset struct {
	id       AssetID
	symbol   string
	name     string
	decimals uint8
	stable   bool
}

// NewAsset upper-cases symbol. It panics on an empty symbol or on more than
// maxDecimals decimals, both of which are programming errors at the call site.
func NewAsset(id AssetID, symbol string, decimals uint8) *Asset {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	switch {
	case symbol == "":
		panic("asset: empty symbol")
	case decimals > maxDecimals:
		panic(fmt.Sprintf("asset: %s has %d decimals", symbol, decimals))
	}
	return &Asset{id: id, symbol: symbol, decimals: decimals}
}

// NewAssetWithName is NewAsset with a display name.
func NewAssetWithName(id AssetID, symbol, name string, decimals uint8) *Asset {
	a := NewAsset(id, symbol, decimals)
	a.name = strings.TrimSpace(name)
	return a
}

func (a *Asset) ID() AssetID     { return a.id }
func (a *Asset) Symbol() string  { return a.symbol }
func (a *Asset) Decimals() uint8 { return a.decimals }

// IsStable is set by the Registry that handed out the asset.
func (a *Asset) IsStable() bool { return a.stable }

func (a *Asset) ChainID() uint64         { return a.id.ChainID() }
func (a *Asset) Address() common.Address { return a.id.Address() }

func (a *Asset) Name() string {
	if a.name != "" {
		return a.name
	}
	return a.symbol
}

func (a *Asset) String() string {
	if a.id.IsNative() || a.id.ChainID() == 0 {
		return a.symbol
	}
	return fmt.Sprintf("%s@%d", a.symbol, a.id.ChainID())
}

// Equals compares by ID; two nils are equal.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id == other.id
}
