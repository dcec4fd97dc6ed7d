// Package asset holds the immutable reference data the scanner relies on:
// chains, their native assets, stablecoins and known token contracts.
package asset

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AssetID identifies an on-chain asset by chain and contract address.
// Native coins use the zero address; CEX-only assets use chain 0.
type AssetID struct {
	chainID uint64
	address common.Address
}

// NewNativeAssetID creates an AssetID for a chain's native coin.
func NewNativeAssetID(chainID uint64) AssetID {
	return AssetID{chainID: chainID}
}

// NewTokenAssetID creates an AssetID for a token contract.
func NewTokenAssetID(chainID uint64, addr common.Address) AssetID {
	if addr == (common.Address{}) {
		panic("asset: token address cannot be zero")
	}
	return AssetID{chainID: chainID, address: addr}
}

// NewOffChainAssetID identifies an asset only known by its CEX symbol.
func NewOffChainAssetID(symbol string) AssetID {
	return AssetID{address: common.BytesToAddress(common.RightPadBytes([]byte(strings.ToUpper(symbol)), 20))}
}

// ChainID returns the chain ID (0 for off-chain).
func (id AssetID) ChainID() uint64 { return id.chainID }

// Address returns the contract address (zero for native coins).
func (id AssetID) Address() common.Address { return id.address }

// IsNative returns true for a chain's native coin.
func (id AssetID) IsNative() bool {
	return id.chainID != 0 && id.address == (common.Address{})
}

func (id AssetID) String() string {
	switch {
	case id.chainID == 0:
		return "offchain:" + strings.TrimRight(string(id.address.Bytes()), "\x00")
	case id.IsNative():
		return fmt.Sprintf("chain:%d/native", id.chainID)
	default:
		return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
	}
}

// ParseAddress validates a hex contract address and returns it checksummed.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("asset: invalid contract address %q", s)
	}
	return common.HexToAddress(s), nil
}
