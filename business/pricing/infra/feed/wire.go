package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/business/pricing/infra/aggregator"
	"github.com/fd1az/arbscan/internal/asset"
	"github.com/fd1az/arbscan/internal/numeric"
)

// wireTick is the on-disk shape of a scan tick, shared by the JSON and YAML decoders.
type wireTick struct {
	ID          string         `json:"id" yaml:"id"`
	CEX         string         `json:"cex" yaml:"cex"`
	DEX         string         `json:"dex" yaml:"dex"`
	Chain       string         `json:"chain" yaml:"chain"`
	Direction   string         `json:"direction" yaml:"direction"`
	Token       wireAsset      `json:"token" yaml:"token"`
	Pair        wireAsset      `json:"pair" yaml:"pair"`
	Modal       any            `json:"modal" yaml:"modal"`
	AmountIn    any            `json:"amount_in" yaml:"amount_in"`
	Quote       map[string]any `json:"quote" yaml:"quote"`
	Prices      wirePrices     `json:"prices" yaml:"prices"`
	Books       wireBooks      `json:"books" yaml:"books"`
	FeeWithdraw any            `json:"fee_withdraw" yaml:"fee_withdraw"`
	BaseUSD     any            `json:"base_usd" yaml:"base_usd"`
	Volume      any            `json:"volume" yaml:"volume"`
	Wallet      wireWallet     `json:"wallet" yaml:"wallet"`
}

type wireAsset struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Contract string `json:"contract" yaml:"contract"`
	Decimals *int   `json:"decimals" yaml:"decimals"`
}

type wirePrices struct {
	BuyToken  any `json:"buy_token" yaml:"buy_token"`
	SellToken any `json:"sell_token" yaml:"sell_token"`
	BuyPair   any `json:"buy_pair" yaml:"buy_pair"`
	SellPair  any `json:"sell_pair" yaml:"sell_pair"`
}

type wireBooks struct {
	Token *wireBook `json:"token" yaml:"token"`
	Pair  *wireBook `json:"pair" yaml:"pair"`
}

// wireBook levels are [price, amount] pairs.
type wireBook struct {
	Bids [][]any `json:"bids" yaml:"bids"`
	Asks [][]any `json:"asks" yaml:"asks"`
}

type wireWallet struct {
	DepositToken  *bool `json:"deposit_token" yaml:"deposit_token"`
	WithdrawToken *bool `json:"withdraw_token" yaml:"withdraw_token"`
	DepositPair   *bool `json:"deposit_pair" yaml:"deposit_pair"`
	WithdrawPair  *bool `json:"withdraw_pair" yaml:"withdraw_pair"`
}

// toDomain validates identity fields and normalizes the quote payload.
// Numeric fields are carried as received; the engine validates them.
func (w wireTick) toDomain(n *aggregator.Normalizer, now time.Time) (domain.Tick, error) {
	dir, err := domain.ParseDirection(w.Direction)
	if err != nil {
		return domain.Tick{}, err
	}
	if strings.TrimSpace(w.Token.Symbol) == "" || strings.TrimSpace(w.Pair.Symbol) == "" {
		return domain.Tick{}, fmt.Errorf("feed: token and pair symbols are required")
	}

	token, err := w.Token.ref()
	if err != nil {
		return domain.Tick{}, err
	}
	pair, err := w.Pair.ref()
	if err != nil {
		return domain.Tick{}, err
	}

	// the swap produces the pair for TokenToPair and the token otherwise
	outAsset := w.Pair
	if dir == domain.PairToToken {
		outAsset = w.Token
	}
	out := aggregator.Output{Chain: w.Chain, Symbol: strings.ToUpper(outAsset.Symbol), Decimals: -1}
	if outAsset.Decimals != nil {
		out.Decimals = *outAsset.Decimals
	}

	q, err := n.Normalize(w.Quote, out, w.DEX)
	if err != nil {
		return domain.Tick{}, err
	}

	tokenBook, err := w.Books.Token.toDomain(token.Symbol)
	if err != nil {
		return domain.Tick{}, err
	}
	pairBook, err := w.Books.Pair.toDomain(pair.Symbol)
	if err != nil {
		return domain.Tick{}, err
	}

	return domain.Tick{
		ID:  w.ID,
		CEX: strings.ToUpper(w.CEX),
		DEX: strings.ToUpper(w.DEX),
		Route: domain.RouteQuote{
			AmountIn:  numeric.Coerce(w.AmountIn),
			AmountOut: q.AmountOut,
			FeeSwap:   q.FeeSwap,
			Direction: dir,
			Token:     token,
			Pair:      pair,
			Chain:     asset.NormalizeChainKey(w.Chain),
			Provider:  q.Provider,
			SubRoutes: q.SubRoutes,
		},
		Prices: domain.CexPriceSnapshot{
			BuyTokenPrice:  optional(w.Prices.BuyToken),
			SellTokenPrice: optional(w.Prices.SellToken),
			BuyPairPrice:   optional(w.Prices.BuyPair),
			SellPairPrice:  optional(w.Prices.SellPair),
			WithdrawFee:    optional(w.FeeWithdraw),
			BaseAssetUSD:   optional(w.BaseUSD),
		},
		Books:  domain.Books{Token: tokenBook, Pair: pairBook},
		Modal:  optional(w.Modal),
		Volume: optional(w.Volume),
		Wallet: domain.WalletStatus{
			DepositToken:  flag(w.Wallet.DepositToken),
			WithdrawToken: flag(w.Wallet.WithdrawToken),
			DepositPair:   flag(w.Wallet.DepositPair),
			WithdrawPair:  flag(w.Wallet.WithdrawPair),
		},
		ReceivedAt: now,
	}, nil
}

func (a wireAsset) ref() (domain.TokenRef, error) {
	ref := domain.TokenRef{Symbol: strings.ToUpper(strings.TrimSpace(a.Symbol))}
	if strings.TrimSpace(a.Contract) == "" {
		return ref, nil
	}
	addr, err := asset.ParseAddress(a.Contract)
	if err != nil {
		return domain.TokenRef{}, err
	}
	ref.Contract = addr
	return ref, nil
}

func (b *wireBook) toDomain(symbol string) (*domain.Orderbook, error) {
	if b == nil {
		return nil, nil
	}
	ob := &domain.Orderbook{Symbol: symbol}
	var err error
	if ob.Bids, err = levels(b.Bids); err != nil {
		return nil, fmt.Errorf("feed: %s bids: %w", symbol, err)
	}
	if ob.Asks, err = levels(b.Asks); err != nil {
		return nil, fmt.Errorf("feed: %s asks: %w", symbol, err)
	}
	return ob, nil
}

func levels(raw [][]any) ([]domain.OrderbookLevel, error) {
	out := make([]domain.OrderbookLevel, 0, len(raw))
	for i, l := range raw {
		if len(l) != 2 {
			return nil, fmt.Errorf("level %d: want [price, amount]", i)
		}
		price, err := numeric.FinitePositive(l[0])
		if err != nil {
			return nil, fmt.Errorf("level %d price: %w", i, err)
		}
		amount, err := numeric.FiniteNonNegative(l[1])
		if err != nil {
			return nil, fmt.Errorf("level %d amount: %w", i, err)
		}
		out = append(out, domain.OrderbookLevel{Price: price, Amount: amount})
	}
	return out, nil
}

// optional treats a missing price as unavailable (zero) rather than invalid.
func optional(v any) float64 {
	if v == nil {
		return 0
	}
	return numeric.Coerce(v)
}

// flag defaults to open when the feed does not report wallet status.
func flag(b *bool) bool {
	return b == nil || *b
}
