package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
)

func TestResolveIdentity_AllFieldsResolved(t *testing.T) {
	rpc := fullRPC()
	cache := &stubCache{}
	uc := newTestUseCase(&stubExplorer{}, rpc, cache)

	identity := uc.resolveIdentity(context.Background(), entity.ChainEth, "0xabc")

	require.NotNil(t, identity.Name)
	require.NotNil(t, identity.Symbol)
	require.NotNil(t, identity.Decimals)
	assert.Equal(t, "Test Token", *identity.Name)
	assert.Equal(t, "TEST", *identity.Symbol)
	assert.Equal(t, 18, *identity.Decimals)

	assert.Equal(t, entity.IdentitySourceRPC, identity.Evidence.Source)
	assert.Equal(t, entity.IdentityOK, identity.Evidence.Status)
	assert.Empty(t, identity.Evidence.Notes)

	assert.Equal(t, 3, rpc.calls)
	require.Len(t, cache.setIdentities, 1)
}

func TestResolveIdentity_PartialWithNotes(t *testing.T) {
	rpc := fullRPC()
	rpc.errs = map[string]*apperrors.UpstreamError{
		selectorSymbol: {Code: apperrors.CodeReverted, Message: "RPC call reverted."},
	}
	cache := &stubCache{}
	uc := newTestUseCase(&stubExplorer{}, rpc, cache)

	identity := uc.resolveIdentity(context.Background(), entity.ChainEth, "0xabc")

	assert.NotNil(t, identity.Name)
	assert.Nil(t, identity.Symbol)
	assert.NotNil(t, identity.Decimals)
	assert.Equal(t, entity.IdentityPartial, identity.Evidence.Status)
	assert.Equal(t, "symbol:revert", identity.Evidence.Notes)

	// Partial resolutions are still worth caching.
	assert.Len(t, cache.setIdentities, 1)
}

func TestResolveIdentity_AllFieldsFail(t *testing.T) {
	rpc := &stubRPC{errs: map[string]*apperrors.UpstreamError{
		selectorName:     {Code: apperrors.CodeMissingRPCURL, Message: "No RPC endpoint configured."},
		selectorSymbol:   {Code: apperrors.CodeMissingRPCURL, Message: "No RPC endpoint configured."},
		selectorDecimals: {Code: apperrors.CodeMissingRPCURL, Message: "No RPC endpoint configured."},
	}}
	cache := &stubCache{}
	uc := newTestUseCase(&stubExplorer{}, rpc, cache)

	identity := uc.resolveIdentity(context.Background(), entity.ChainEth, "0xabc")

	assert.Equal(t, entity.IdentityFailed, identity.Evidence.Status)
	assert.Equal(t, "name:missing_rpc_url, symbol:missing_rpc_url, decimals:missing_rpc_url", identity.Evidence.Notes)

	// A fully failed resolution is never cached, so the next request
	// retries instead of replaying the outage.
	assert.Empty(t, cache.setIdentities)
}

func TestResolveIdentity_UndecodableResultIsInvalidResponse(t *testing.T) {
	rpc := fullRPC()
	rpc.results[selectorName] = "0xnothex"
	uc := newTestUseCase(&stubExplorer{}, rpc, &stubCache{})

	identity := uc.resolveIdentity(context.Background(), entity.ChainEth, "0xabc")

	assert.Nil(t, identity.Name)
	assert.Equal(t, "name:invalid_response", identity.Evidence.Notes)
}

func TestResolveIdentity_SubCacheHitSkipsRPC(t *testing.T) {
	name := "Cached Token"
	cached := entity.TokenIdentity{
		Name:     &name,
		Evidence: entity.IdentityEvidence{Source: entity.IdentitySourceRPC, Status: entity.IdentityPartial},
	}
	rpc := fullRPC()
	cache := &stubCache{identity: &cached}
	uc := newTestUseCase(&stubExplorer{}, rpc, cache)

	identity := uc.resolveIdentity(context.Background(), entity.ChainEth, "0xabc")

	require.NotNil(t, identity.Name)
	assert.Equal(t, "Cached Token", *identity.Name)
	assert.Zero(t, rpc.calls)
	assert.Empty(t, cache.setIdentities)
}

func TestErrorNote(t *testing.T) {
	cases := []struct {
		code apperrors.Code
		want string
	}{
		{apperrors.CodeReverted, "revert"},
		{apperrors.CodeMissingRPCURL, "missing_rpc_url"},
		{apperrors.CodeTimeout, "timeout"},
		{apperrors.CodeRateLimited, "rate_limited"},
		{apperrors.CodeInvalidResponse, "invalid_response"},
		{apperrors.CodeNotSupported, "upstream_error"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, errorNote(&apperrors.UpstreamError{Code: tc.code}), string(tc.code))
	}
}

func TestRunBounded_CapsConcurrencyAndKeepsOrder(t *testing.T) {
	var inFlight, peak int32
	var mu sync.Mutex

	task := func(i int) func() fieldOutcome {
		return func() fieldOutcome {
			current := atomic.AddInt32(&inFlight, 1)
			mu.Lock()
			if current > peak {
				peak = current
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)

			key := []string{"name", "symbol", "decimals", "extra"}[i]
			return fieldOutcome{key: key}
		}
	}

	tasks := make([]func() fieldOutcome, 4)
	for i := range tasks {
		tasks[i] = task(i)
	}

	results := runBounded(tasks, 2)

	require.Len(t, results, 4)
	assert.Equal(t, "name", results[0].key)
	assert.Equal(t, "symbol", results[1].key)
	assert.Equal(t, "decimals", results[2].key)
	assert.Equal(t, "extra", results[3].key)
	assert.LessOrEqual(t, peak, int32(2))
	assert.GreaterOrEqual(t, peak, int32(1))
}
