package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum  = 1
	ChainIDOptimism  = 10
	ChainIDBSC       = 56
	ChainIDPolygon   = 137
	ChainIDBase      = 8453
	ChainIDArbitrum  = 42161
	ChainIDAvalanche = 43114
)

// DefaultStablecoins is the stablecoin set used when config does not override it.
var DefaultStablecoins = []string{"USDT", "USDC", "DAI"}

// DefaultChains are the networks known without configuration.
var DefaultChains = []Chain{
	{Key: "ethereum", ID: ChainIDEthereum, Name: "Ethereum", Native: "ETH"},
	{Key: "bsc", ID: ChainIDBSC, Name: "BNB Smart Chain", Native: "BNB"},
	{Key: "polygon", ID: ChainIDPolygon, Name: "Polygon", Native: "POL"},
	{Key: "arbitrum", ID: ChainIDArbitrum, Name: "Arbitrum One", Native: "ETH"},
	{Key: "optimism", ID: ChainIDOptimism, Name: "Optimism", Native: "ETH"},
	{Key: "base", ID: ChainIDBase, Name: "Base", Native: "ETH"},
	{Key: "avalanche", ID: ChainIDAvalanche, Name: "Avalanche C-Chain", Native: "AVAX"},
}

// Well-known token contracts
var wellKnownTokens = []struct {
	chain    uint64
	addr     string
	symbol   string
	name     string
	decimals uint8
}{
	{ChainIDEthereum, "0xdAC17F958D2ee523a2206206994597C13D831ec7", "USDT", "Tether USD", 6},
	{ChainIDEthereum, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USDC", "USD Coin", 6},
	{ChainIDEthereum, "0x6B175474E89094C44Da98b954EedeAC495271d0F", "DAI", "Dai Stablecoin", 18},
	{ChainIDEthereum, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "WETH", "Wrapped Ether", 18},
	{ChainIDEthereum, "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", "WBTC", "Wrapped Bitcoin", 8},
	{ChainIDBSC, "0x55d398326f99059fF775485246999027B3197955", "USDT", "Tether USD", 18},
	{ChainIDBSC, "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", "USDC", "USD Coin", 18},
	{ChainIDBSC, "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", "WBNB", "Wrapped BNB", 18},
	{ChainIDPolygon, "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", "USDT", "Tether USD", 6},
	{ChainIDPolygon, "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", "USDC", "USD Coin", 6},
}

// NewDefaultBuilder returns a builder preloaded with the well-known chains,
// their native coins, stablecoins and common token contracts.
func NewDefaultBuilder() *Builder {
	b := NewBuilder().SetStablecoins(DefaultStablecoins...)
	for _, c := range DefaultChains {
		b.AddChain(c)
		b.AddAsset(NewAsset(NewNativeAssetID(c.ID), c.Native, 18))
	}
	for _, t := range wellKnownTokens {
		b.AddAsset(MustNewToken(t.chain, common.HexToAddress(t.addr), t.symbol, t.name, t.decimals))
	}
	return b
}

// DefaultRegistry returns the well-known reference data.
func DefaultRegistry() *Registry {
	r, err := NewDefaultBuilder().Build()
	if err != nil {
		panic(err)
	}
	return r
}

// MustNewToken creates a token asset.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	return NewAssetWithName(NewTokenAssetID(chainID, address), symbol, name, decimals)
}
