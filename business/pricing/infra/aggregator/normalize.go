// Package aggregator turns heterogeneous DEX aggregator payloads into route quotes.
// Providers disagree on field names and units; everything provider-specific
// stops here so the engine only ever sees domain.SubRoute values.
package aggregator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/asset"
	"github.com/fd1az/arbscan/internal/numeric"
)

// Field aliases, checked in order.
var (
	amountOutKeys = []string{"amount_out", "amountOut", "toAmount", "outAmount", "dstAmount"}
	rawOutKeys    = []string{"raw_amount_out", "buyAmount", "toTokenAmount"}
	feeKeys       = []string{"FeeSwap", "feeSwap", "fee_swap", "fee", "feeUSD"}
	providerKeys  = []string{"dexTitle", "dexName", "provider", "dexId", "name"}
	subRouteKeys  = []string{"subResults", "sub_routes", "subRoutes", "routes", "providers", "quotes"}
	decimalsKeys  = []string{"decimals", "toTokenDecimals", "out_decimals"}
)

// Output describes the asset the swap produces, used to scale base-unit amounts.
type Output struct {
	Chain    string
	Symbol   string
	Decimals int // negative when unknown
}

// Quote is a normalized aggregator response.
type Quote struct {
	AmountOut float64
	FeeSwap   float64
	Provider  string
	SubRoutes []domain.SubRoute
}

// Normalizer maps raw payloads to Quotes.
type Normalizer struct {
	registry *asset.Registry
}

// NewNormalizer creates a Normalizer. The registry resolves token decimals.
func NewNormalizer(registry *asset.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize reads the primary quote and its sub-routes. Unparseable amounts
// become NaN so the engine rejects the candidate instead of scoring a default.
// dex labels sub-routes that carry no provider name.
func (n *Normalizer) Normalize(payload map[string]any, out Output, dex string) (Quote, error) {
	if payload == nil {
		return Quote{}, apperror.New(apperror.CodeInvalidQuote, apperror.WithContext("empty payload"))
	}

	q := Quote{
		AmountOut: n.amountOut(payload, out),
		FeeSwap:   fee(payload),
		Provider:  stringField(payload, providerKeys),
	}
	if q.Provider == "" {
		q.Provider = dex
	}

	for i, item := range sliceField(payload, subRouteKeys) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sub := domain.SubRoute{
			AmountOut: n.amountOut(m, out),
			FeeSwap:   fee(m),
			Provider:  stringField(m, providerKeys),
		}
		if sub.Provider == "" {
			sub.Provider = fmt.Sprintf("%s#%d", dex, i+1)
		}
		q.SubRoutes = append(q.SubRoutes, sub)
	}

	if math.IsNaN(q.AmountOut) && len(q.SubRoutes) > 0 {
		best := math.NaN()
		for _, s := range q.SubRoutes {
			if !math.IsNaN(s.AmountOut) && (math.IsNaN(best) || s.AmountOut > best) {
				best = s.AmountOut
				q.FeeSwap = s.FeeSwap
			}
		}
		q.AmountOut = best
	}
	return q, nil
}

func (n *Normalizer) amountOut(m map[string]any, out Output) float64 {
	if v, ok := lookup(m, amountOutKeys); ok {
		return numeric.Coerce(v)
	}
	v, ok := lookup(m, rawOutKeys)
	if !ok {
		return math.NaN()
	}

	decimals := out.Decimals
	if dv, ok := lookup(m, decimalsKeys); ok {
		if f := numeric.Coerce(dv); !math.IsNaN(f) {
			decimals = int(f)
		}
	}
	if decimals < 0 && n.registry != nil {
		if a, ok := n.registry.Token(out.Chain, out.Symbol); ok {
			decimals = int(a.Decimals())
		}
	}
	if decimals < 0 || decimals > 36 || out.Symbol == "" {
		return math.NaN()
	}

	a := asset.NewAsset(asset.NewOffChainAssetID(out.Symbol), out.Symbol, uint8(decimals))
	amt, err := asset.ParseRaw(a, rawString(v))
	if err != nil {
		return math.NaN()
	}
	return amt.ToFloat64()
}

func fee(m map[string]any) float64 {
	v, ok := lookup(m, feeKeys)
	if !ok {
		return 0
	}
	return numeric.Coerce(v)
}

func lookup(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(m map[string]any, keys []string) string {
	v, ok := lookup(m, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case fmt.Stringer:
		return strings.TrimSpace(s.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func sliceField(m map[string]any, keys []string) []any {
	v, ok := lookup(m, keys)
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

// rawString renders an integer amount without float formatting artifacts.
func rawString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 0, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	default:
		return fmt.Sprint(v)
	}
}
