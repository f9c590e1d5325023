package scan

import (
	"encoding/json"
	"strings"
)

// ABISignalKey names a risk-relevant function family found in a contract
// ABI.
type ABISignalKey string

// ABI signal keys.
const (
	SignalPause               ABISignalKey = "pause"
	SignalUnpause             ABISignalKey = "unpause"
	SignalBlacklist           ABISignalKey = "blacklist"
	SignalWhitelist           ABISignalKey = "whitelist"
	SignalTradingEnableToggle ABISignalKey = "tradingEnableToggle"
	SignalMint                ABISignalKey = "mint"
	SignalMinterRole          ABISignalKey = "minterRole"
	SignalOwnerSetter         ABISignalKey = "ownerSetter"
)

// ABISignals records which function families the contract ABI exposes and
// the function names that matched each one.
type ABISignals struct {
	MatchedBySignal  map[ABISignalKey][]string
	MatchedFunctions []string
}

// Has reports whether any function matched the given signal key.
func (s ABISignals) Has(key ABISignalKey) bool {
	return len(s.MatchedBySignal[key]) > 0
}

type abiEntry struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type signalMatcher struct {
	key  ABISignalKey
	test func(name string) bool
}

func containsAny(name string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(name, needle) {
			return true
		}
	}
	return false
}

var signalMatchers = []signalMatcher{
	{SignalPause, func(n string) bool { return n == "pause" }},
	{SignalUnpause, func(n string) bool { return n == "unpause" }},
	{SignalBlacklist, func(n string) bool { return strings.Contains(n, "blacklist") }},
	{SignalWhitelist, func(n string) bool { return strings.Contains(n, "whitelist") }},
	{SignalTradingEnableToggle, func(n string) bool {
		return containsAny(n, "enabletrading", "disabletrading", "opentrading", "settrading")
	}},
	{SignalMint, func(n string) bool {
		return n == "mint" || strings.HasPrefix(n, "mint") || strings.Contains(n, "_mint")
	}},
	{SignalMinterRole, func(n string) bool {
		return containsAny(n, "setminter", "addminter", "grantrole", "minterrole")
	}},
	{SignalOwnerSetter, func(n string) bool {
		return containsAny(n, "transferownership", "renounceownership", "setowner")
	}},
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// ExtractABISignals parses an explorer-supplied ABI JSON string and matches
// function names against the signal families. Unverified contracts hand
// back non-JSON placeholders; those yield empty signals.
func ExtractABISignals(abiJSON string) ABISignals {
	signals := ABISignals{MatchedBySignal: make(map[ABISignalKey][]string)}

	var entries []abiEntry
	if err := json.Unmarshal([]byte(abiJSON), &entries); err != nil {
		return signals
	}

	for _, entry := range entries {
		if entry.Type != "" && entry.Type != "function" {
			continue
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}

		lowered := strings.ToLower(name)
		for _, matcher := range signalMatchers {
			if !matcher.test(lowered) {
				continue
			}
			signals.MatchedBySignal[matcher.key] = appendUnique(signals.MatchedBySignal[matcher.key], name)
			signals.MatchedFunctions = appendUnique(signals.MatchedFunctions, name)
		}
	}

	return signals
}

// CollectABIFunctionEvidence gathers up to limit matched function names for
// the given signal keys, preserving key order.
func CollectABIFunctionEvidence(signals ABISignals, keys []ABISignalKey, limit int) []string {
	var collected []string
	for _, key := range keys {
		for _, name := range signals.MatchedBySignal[key] {
			collected = appendUnique(collected, name)
			if len(collected) >= limit {
				return collected
			}
		}
	}
	return collected
}
