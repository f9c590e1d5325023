package usecase

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"token-inspector/internal/abi"
	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
)

// identityConcurrency caps in-flight RPC calls while resolving the
// name/symbol/decimals triple.
const identityConcurrency = 2

func selector(signature string) string {
	return "0x" + hex.EncodeToString(crypto.Keccak256([]byte(signature))[:4])
}

var (
	selectorName     = selector("name()")
	selectorSymbol   = selector("symbol()")
	selectorDecimals = selector("decimals()")
)

type fieldOutcome struct {
	key      string
	strValue *string
	intValue *int
	note     string
}

func errorNote(err *apperrors.UpstreamError) string {
	switch err.Code {
	case apperrors.CodeMissingRPCURL, apperrors.CodeTimeout, apperrors.CodeRateLimited, apperrors.CodeInvalidResponse:
		return string(err.Code)
	case apperrors.CodeReverted:
		return "revert"
	default:
		return string(apperrors.CodeUpstreamError)
	}
}

// resolveIdentity reads the token's name, symbol and decimals via raw
// eth_call, consulting the identity sub-cache first. Resolution never
// fails the request; missing fields are reported through the evidence.
func (uc *inspectUseCase) resolveIdentity(ctx context.Context, chain entity.Chain, address string) entity.TokenIdentity {
	if cached, ok := uc.cache.GetIdentity(ctx, chain, address); ok && cached != nil {
		return *cached
	}

	tasks := []func() fieldOutcome{
		func() fieldOutcome { return uc.callStringField(ctx, chain, address, "name", selectorName) },
		func() fieldOutcome { return uc.callStringField(ctx, chain, address, "symbol", selectorSymbol) },
		func() fieldOutcome { return uc.callDecimalsField(ctx, chain, address) },
	}
	outcomes := runBounded(tasks, identityConcurrency)

	identity := buildIdentity(outcomes)

	// Only resolutions that recovered at least one field are persisted; a
	// transient RPC outage must not pin an empty identity for the full TTL.
	// The write itself is best-effort and never fails the request.
	if identity.Evidence.Status != entity.IdentityFailed {
		if err := uc.cache.SetIdentity(ctx, chain, address, identity); err != nil {
			uc.logger.Warn("Failed to cache token identity",
				zap.String("chain", string(chain)), zap.String("address", address), zap.Error(err))
		}
	}

	return identity
}

// runBounded executes tasks with at most limit workers, collecting results
// positionally. Workers claim the next pending index as they free up.
func runBounded(tasks []func() fieldOutcome, limit int) []fieldOutcome {
	results := make([]fieldOutcome, len(tasks))
	indexes := make(chan int)

	workers := limit
	if len(tasks) < workers {
		workers = len(tasks)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = tasks[i]()
			}
		}()
	}

	for i := range tasks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

func (uc *inspectUseCase) callStringField(ctx context.Context, chain entity.Chain, address, key, sel string) fieldOutcome {
	result, rpcErr := uc.rpc.EthCall(ctx, chain, address, sel)
	if rpcErr != nil {
		return fieldOutcome{key: key, note: errorNote(rpcErr)}
	}

	decoded, ok := abi.DecodeString(result)
	if !ok {
		return fieldOutcome{key: key, note: string(apperrors.CodeInvalidResponse)}
	}
	return fieldOutcome{key: key, strValue: &decoded}
}

func (uc *inspectUseCase) callDecimalsField(ctx context.Context, chain entity.Chain, address string) fieldOutcome {
	result, rpcErr := uc.rpc.EthCall(ctx, chain, address, selectorDecimals)
	if rpcErr != nil {
		return fieldOutcome{key: "decimals", note: errorNote(rpcErr)}
	}

	decoded, ok := abi.DecodeUint8(result)
	if !ok {
		return fieldOutcome{key: "decimals", note: string(apperrors.CodeInvalidResponse)}
	}
	value := int(decoded)
	return fieldOutcome{key: "decimals", intValue: &value}
}

func buildIdentity(outcomes []fieldOutcome) entity.TokenIdentity {
	identity := entity.TokenIdentity{}
	var notes []string
	seen := make(map[string]bool)

	for _, outcome := range outcomes {
		switch outcome.key {
		case "name":
			identity.Name = outcome.strValue
		case "symbol":
			identity.Symbol = outcome.strValue
		case "decimals":
			identity.Decimals = outcome.intValue
		}

		if outcome.strValue == nil && outcome.intValue == nil {
			note := outcome.key + ":unknown"
			if outcome.note != "" {
				note = outcome.key + ":" + outcome.note
			}
			if !seen[note] {
				seen[note] = true
				notes = append(notes, note)
			}
		}
	}

	identity.Evidence = entity.IdentityEvidence{
		Source: entity.IdentitySourceRPC,
		Status: identity.Status(),
	}
	if len(notes) > 0 {
		identity.Evidence.Notes = strings.Join(notes, ", ")
	}
	return identity
}
