package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/business/pricing/infra/aggregator"
	"github.com/fd1az/arbscan/internal/asset"
	"github.com/fd1az/arbscan/internal/logger"
)

const jsonlFeed = `# sample
{"id":"t1","cex":"binance","dex":"dzap","chain":"BSC","direction":"tokentopair","token":{"symbol":"abc","contract":"0x55d398326f99059ff775485246999027b3197955"},"pair":{"symbol":"USDT"},"modal":100,"amount_in":83.33,"quote":{"amountOut":"101.2","fee":0.3,"subResults":[{"amount_out":101.5,"FeeSwap":0.35,"dexTitle":"Pancake"},{"amountOut":100.9,"fee":0.2}]},"prices":{"buy_token":1.2,"sell_token":1.19},"fee_withdraw":0.5,"volume":5000,"wallet":{"deposit_token":false}}

not json at all
{"id":"t2","direction":"sideways","token":{"symbol":"A"},"pair":{"symbol":"B"}}
{"cex":"gate","dex":"kyber","chain":"polygon","direction":"pairtotoken","token":{"symbol":"XYZ"},"pair":{"symbol":"USDC"},"modal":"50","amount_in":50,"quote":{"amount_out":400,"FeeSwap":0.1},"books":{"token":{"bids":[[0.13,1000],[0.12,500]],"asks":[[0.131,800]]}}}
`

func newTestSource(t *testing.T, cfg Config) *Source {
	t.Helper()
	log := logger.New(os.Stderr, logger.LevelError, "test", nil)
	return NewSource(cfg, aggregator.NewNormalizer(asset.DefaultRegistry()), log)
}

func collect(t *testing.T, s *Source) []domain.Tick {
	t.Helper()
	out := make(chan domain.Tick, 16)
	require.NoError(t, s.Stream(context.Background(), out))
	close(out)

	var ticks []domain.Tick
	for tk := range out {
		ticks = append(ticks, tk)
	}
	return ticks
}

func TestSource_JSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(jsonlFeed), 0o600))

	s := newTestSource(t, Config{Path: path})
	ticks := collect(t, s)

	require.Len(t, ticks, 2)
	ok, skipped := s.Processed()
	assert.EqualValues(t, 2, ok)
	assert.EqualValues(t, 2, skipped)

	t1 := ticks[0]
	assert.Equal(t, "t1", t1.ID)
	assert.Equal(t, "BINANCE", t1.CEX)
	assert.Equal(t, domain.TokenToPair, t1.Route.Direction)
	assert.Equal(t, "bsc", t1.Route.Chain)
	assert.Equal(t, "ABC", t1.Route.Token.Symbol)
	assert.Equal(t, "0x55d398326f99059fF775485246999027B3197955", t1.Route.Token.Contract.Hex())
	assert.Equal(t, 101.2, t1.Route.AmountOut)
	assert.Equal(t, 0.3, t1.Route.FeeSwap)
	assert.Equal(t, "dzap", t1.Route.Provider)
	require.Len(t, t1.Route.SubRoutes, 2)
	assert.Equal(t, "Pancake", t1.Route.SubRoutes[0].Provider)
	assert.Equal(t, "dzap#2", t1.Route.SubRoutes[1].Provider)
	assert.Equal(t, 1.2, t1.Prices.BuyTokenPrice)
	assert.Equal(t, 0.0, t1.Prices.BuyPairPrice)
	assert.Equal(t, 0.5, t1.Prices.WithdrawFee)
	assert.Equal(t, 100.0, t1.Modal)
	assert.False(t, t1.Wallet.DepositToken)
	assert.True(t, t1.Wallet.WithdrawToken)

	t2 := ticks[1]
	assert.Equal(t, "line-6", t2.ID)
	assert.Equal(t, domain.PairToToken, t2.Route.Direction)
	assert.Equal(t, 50.0, t2.Modal)
	require.NotNil(t, t2.Books.Token)
	assert.Len(t, t2.Books.Token.Bids, 2)
	assert.Nil(t, t2.Books.Pair)
}

func TestSource_YAMLFromStdin(t *testing.T) {
	doc := `
id: y1
cex: binance
dex: odos
chain: ethereum
direction: dex_to_cex
token: {symbol: LINK}
pair: {symbol: ETH}
modal: 200
amount_in: 0.05
quote:
  routes:
    - {amountOut: 10.1, fee: 1.5, provider: odos-v2}
    - {amountOut: 10.3, fee: 2.0, provider: paraswap}
prices: {sell_token: 20.1, buy_pair: 4000}
base_usd: 4000
---
id: y2
direction: nowhere
`
	s := newTestSource(t, Config{Path: "-", Format: FormatYAML})
	s.stdin = strings.NewReader(doc)

	ticks := collect(t, s)
	require.Len(t, ticks, 1)

	y := ticks[0]
	assert.Equal(t, domain.PairToToken, y.Route.Direction)
	assert.Equal(t, 0.05, y.Route.AmountIn)
	assert.Equal(t, 10.3, y.Route.AmountOut, "best sub-route fills a missing primary amount")
	require.Len(t, y.Route.SubRoutes, 2)
	assert.Equal(t, "paraswap", y.Route.SubRoutes[1].Provider)
	assert.Equal(t, 4000.0, y.Prices.BaseAssetUSD)
}

func TestSource_MissingFile(t *testing.T) {
	s := newTestSource(t, Config{Path: filepath.Join(t.TempDir(), "nope.jsonl")})
	err := s.Stream(context.Background(), make(chan domain.Tick))
	assert.Error(t, err)
}

func TestSource_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(jsonlFeed), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestSource(t, Config{Path: path, Interval: time.Hour})
	err := s.Stream(ctx, make(chan domain.Tick))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_MissingModalIsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.jsonl")
	line := `{"id":"m","cex":"binance","dex":"dzap","chain":"bsc","direction":"tokentopair","token":{"symbol":"ABC"},"pair":{"symbol":"USDT"},"amount_in":10,"quote":{"amountOut":11}}`
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o600))

	ticks := collect(t, newTestSource(t, Config{Path: path}))
	require.Len(t, ticks, 1)
	assert.Equal(t, 0.0, ticks[0].Modal, "absent modal must defer to the configured default")
}
