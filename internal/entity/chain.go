package entity

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain identifies a supported network.
type Chain string

// Constants for supported chains.
const (
	ChainEth Chain = "eth"
	ChainBsc Chain = "bsc"
)

var chainIDs = map[Chain]int64{
	ChainEth: 1,
	ChainBsc: 56,
}

var explorerHosts = map[Chain]string{
	ChainEth: "https://etherscan.io",
	ChainBsc: "https://bscscan.com",
}

// ParseChain validates a raw chain query value.
func ParseChain(raw string) (Chain, bool) {
	c := Chain(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := chainIDs[c]
	return c, ok
}

// ExplorerChainID returns the chain id used by the explorer API.
func (c Chain) ExplorerChainID() (int64, bool) {
	id, ok := chainIDs[c]
	return id, ok
}

// ExplorerAddressURL builds a human-facing explorer link for an address,
// or "" when the chain has no known explorer host.
func (c Chain) ExplorerAddressURL(address string) string {
	host, ok := explorerHosts[c]
	if !ok {
		return ""
	}
	return host + "/address/" + address + "#code"
}

// IsValidAddress reports whether raw is a 0x-prefixed 40-hex-char address.
func IsValidAddress(raw string) bool {
	return strings.HasPrefix(raw, "0x") && common.IsHexAddress(raw)
}

// NormalizeAddress lowercases an already-validated address so it can be
// used as a cache key. Downstream components rely on this canonical form.
func NormalizeAddress(raw string) string {
	return strings.ToLower(raw)
}
