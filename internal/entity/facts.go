package entity

import "token-inspector/internal/pkg/apperrors"

// TriState is a fact that may be unavailable: true, false, or unknown.
type TriState int

// TriState values. The zero value is unknown so that default-constructed
// fact groups are safe to consume.
const (
	TriUnknown TriState = iota
	TriTrue
	TriFalse
)

// Known reports whether the fact was actually resolved.
func (t TriState) Known() bool { return t != TriUnknown }

// Bool returns the resolved value; only meaningful when Known().
func (t TriState) Bool() bool { return t == TriTrue }

func (t TriState) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unknown"
	}
}

// TriFromBool lifts a resolved boolean into a TriState.
func TriFromBool(v bool) TriState {
	if v {
		return TriTrue
	}
	return TriFalse
}

// SourceFacts describes the verified-source situation of a contract.
type SourceFacts struct {
	SourceAvailable TriState
	IsProxy         TriState
	SourceCode      string
	ABI             string
}

// CreationFacts carries creator metadata. Empty strings mean unknown.
type CreationFacts struct {
	CreatorAddress string
	CreationTxHash string
}

// HolderFacts carries the top-holder distribution. TopHolderPercents is
// only usable when it holds exactly TopHolderCount entries.
type HolderFacts struct {
	HolderListAvailable TriState
	TopHolderPercents   []float64
}

// TopHolderCount is the number of holder entries required for the
// concentration check to run.
const TopHolderCount = 10

// SourceResult pairs source facts with the error that limited them, if any.
// Facts are always present (zero values mean unknown) even when Err is set.
type SourceResult struct {
	Facts SourceFacts
	Err   *apperrors.UpstreamError
}

// CreationResult pairs creation facts with their fetch error, if any.
type CreationResult struct {
	Facts CreationFacts
	Err   *apperrors.UpstreamError
}

// HolderResult pairs holder facts with their fetch error, if any.
type HolderResult struct {
	Facts HolderFacts
	Err   *apperrors.UpstreamError
}

// ExplorerFacts is the result of the three independent explorer calls for
// one (chain, address). Groups fail independently; consumers never branch
// on group absence, only on the per-group Err.
type ExplorerFacts struct {
	Source   SourceResult
	Creation CreationResult
	Holders  HolderResult
}
