package asset

import "strings"

// Chain describes an EVM network the aggregators quote on.
type Chain struct {
	Key    string // config key, e.g. "bsc"
	ID     uint64
	Name   string
	Native string // native coin symbol, the chain's base asset
}

// NormalizeChainKey lower-cases and trims a chain key.
func NormalizeChainKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
