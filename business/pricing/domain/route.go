package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SubRoute is one provider's alternative quote for the same swap.
type SubRoute struct {
	AmountOut float64
	FeeSwap   float64
	Provider  string
}

// TokenRef names an asset of a route and, when known, its contract on the route's chain.
type TokenRef struct {
	Symbol   string
	Contract common.Address
}

// RouteQuote is a single quoted swap route. Amounts are kept as received;
// validation happens when the route is evaluated.
type RouteQuote struct {
	AmountIn  float64
	AmountOut float64
	FeeSwap   float64 // USD
	Direction Direction
	Token     TokenRef
	Pair      TokenRef
	Chain     string
	Provider  string
	SubRoutes []SubRoute
}

// Key identifies the route for superseding results at the presentation layer.
func (r RouteQuote) Key() string {
	return fmt.Sprintf("%s:%s/%s:%s", r.Chain, r.Token.Symbol, r.Pair.Symbol, r.Direction)
}

// WithCandidate returns a copy quoting the sub-route's output and fee.
func (r RouteQuote) WithCandidate(s SubRoute) RouteQuote {
	r.AmountOut = s.AmountOut
	r.FeeSwap = s.FeeSwap
	r.Provider = s.Provider
	r.SubRoutes = nil
	return r
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
