package usecase

import (
	"context"
	"time"

	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
)

// CacheOutcome reports how the response cache participated in a request.
type CacheOutcome string

// Cache outcomes, surfaced verbatim in the x-tsi-cache header.
const (
	CacheHit   CacheOutcome = "HIT"
	CacheMiss  CacheOutcome = "MISS"
	CacheStale CacheOutcome = "STALE"
)

// ExplorerRepository fetches the three explorer fact groups for one
// contract. Failures are per-group, carried inside the returned facts.
type ExplorerRepository interface {
	FetchFacts(ctx context.Context, chain entity.Chain, address string) entity.ExplorerFacts
}

// RPCCaller issues a raw eth_call against the chain's JSON-RPC endpoint
// and returns the hex-encoded result.
type RPCCaller interface {
	EthCall(ctx context.Context, chain entity.Chain, address, data string) (string, *apperrors.UpstreamError)
}

// CacheRepository is the shared edge cache: full reports, the token
// identity sub-cache and the fixed-window rate-limit counter.
type CacheRepository interface {
	// GetReport returns a cached report. fresh is false when the entry is
	// resident but past its freshness TTL (the stale replay window).
	GetReport(ctx context.Context, chain entity.Chain, address string) (report *entity.InspectReport, fresh bool, found bool)
	SetReport(ctx context.Context, chain entity.Chain, address string, report *entity.InspectReport) error

	GetIdentity(ctx context.Context, chain entity.Chain, address string) (*entity.TokenIdentity, bool)
	SetIdentity(ctx context.Context, chain entity.Chain, address string, identity entity.TokenIdentity) error

	// IncrementRequestCount bumps and returns the request counter for the
	// client's current fixed window.
	IncrementRequestCount(ctx context.Context, clientIP string, window time.Duration) (int, error)
}

// InspectRequest carries the raw, unvalidated request input.
type InspectRequest struct {
	Chain    string
	Address  string
	ClientIP string
}

// InspectUseCase drives the full inspection pipeline behind the endpoint.
type InspectUseCase interface {
	Inspect(ctx context.Context, req InspectRequest) (*entity.InspectReport, CacheOutcome, *apperrors.InspectError)
}
