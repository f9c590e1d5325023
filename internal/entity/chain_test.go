package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChain(t *testing.T) {
	cases := []struct {
		raw  string
		want Chain
		ok   bool
	}{
		{"eth", ChainEth, true},
		{"bsc", ChainBsc, true},
		{"ETH", ChainEth, true},
		{" bsc ", ChainBsc, true},
		{"polygon", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		chain, ok := ParseChain(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, chain, tc.raw)
		}
	}
}

func TestExplorerChainID(t *testing.T) {
	id, ok := ChainEth.ExplorerChainID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	id, ok = ChainBsc.ExplorerChainID()
	assert.True(t, ok)
	assert.Equal(t, int64(56), id)

	_, ok = Chain("sol").ExplorerChainID()
	assert.False(t, ok)
}

func TestExplorerAddressURL(t *testing.T) {
	assert.Equal(t, "https://etherscan.io/address/0xabc#code", ChainEth.ExplorerAddressURL("0xabc"))
	assert.Equal(t, "https://bscscan.com/address/0xabc#code", ChainBsc.ExplorerAddressURL("0xabc"))
	assert.Empty(t, Chain("sol").ExplorerAddressURL("0xabc"))
}

func TestIsValidAddress(t *testing.T) {
	valid := []string{
		"0x1234567890abcdef1234567890abcdef12345678",
		"0x1234567890ABCDEF1234567890ABCDEF12345678",
	}
	for _, addr := range valid {
		assert.True(t, IsValidAddress(addr), addr)
	}

	invalid := []string{
		"",
		"0x",
		"0x1234",
		strings.Repeat("a", 42),
		"0x" + strings.Repeat("g", 40),
		"0x" + strings.Repeat("a", 41),
	}
	for _, addr := range invalid {
		assert.False(t, IsValidAddress(addr), addr)
	}
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t,
		"0x1234567890abcdef1234567890abcdef12345678",
		NormalizeAddress("0x1234567890ABCDEF1234567890abcdef12345678"))
}

func TestTriState(t *testing.T) {
	assert.False(t, TriUnknown.Known())
	assert.True(t, TriTrue.Known())
	assert.True(t, TriTrue.Bool())
	assert.False(t, TriFalse.Bool())
	assert.Equal(t, "unknown", TriUnknown.String())
	assert.Equal(t, TriTrue, TriFromBool(true))
	assert.Equal(t, TriFalse, TriFromBool(false))
}

func TestTokenIdentityStatus(t *testing.T) {
	name, symbol := "Test", "TST"
	decimals := 18

	assert.Equal(t, IdentityFailed, TokenIdentity{}.Status())
	assert.Equal(t, IdentityPartial, TokenIdentity{Name: &name}.Status())
	assert.Equal(t, IdentityPartial, TokenIdentity{Name: &name, Symbol: &symbol}.Status())
	assert.Equal(t, IdentityOK, TokenIdentity{Name: &name, Symbol: &symbol, Decimals: &decimals}.Status())
}
