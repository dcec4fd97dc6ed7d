// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"strings"
)

// Direction is the trade flow of a route.
type Direction string

const (
	// TokenToPair buys the token on the CEX, swaps it to the pair asset on the DEX.
	TokenToPair Direction = "token_to_pair"
	// PairToToken swaps the pair asset to the token on the DEX, sells the token on the CEX.
	PairToToken Direction = "pair_to_token"
)

// ParseDirection accepts the canonical names and the flow aliases used by feeds.
func ParseDirection(s string) (Direction, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "tokentopair", "cextodex":
		return TokenToPair, nil
	case "pairtotoken", "dextocex":
		return PairToToken, nil
	default:
		return "", fmt.Errorf("pricing: unknown direction %q", s)
	}
}

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == TokenToPair || d == PairToToken
}

// Flow is the exchange-level label of the direction.
func (d Direction) Flow() string {
	if d == PairToToken {
		return "dex_to_cex"
	}
	return "cex_to_dex"
}

func (d Direction) String() string { return string(d) }
