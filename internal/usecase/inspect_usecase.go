package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"token-inspector/internal/check"
	"token-inspector/internal/config"
	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
)

// Compile-time check to ensure inspectUseCase implements InspectUseCase
var _ InspectUseCase = (*inspectUseCase)(nil)

type inspectUseCase struct {
	explorer ExplorerRepository
	rpc      RPCCaller
	cache    CacheRepository
	logger   *zap.Logger
	cfg      config.Config
	now      func() time.Time
}

// NewInspectUseCase wires the inspection pipeline.
func NewInspectUseCase(
	explorer ExplorerRepository,
	rpc RPCCaller,
	cache CacheRepository,
	logger *zap.Logger,
	cfg config.Config,
) InspectUseCase {
	return &inspectUseCase{
		explorer: explorer,
		rpc:      rpc,
		cache:    cache,
		logger:   logger.Named("InspectUseCase"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Inspect validates input, enforces the rate limit, serves from cache when
// fresh and otherwise drives the gateway, resolver, check engine and
// aggregator, persisting the result.
func (uc *inspectUseCase) Inspect(ctx context.Context, req InspectRequest) (*entity.InspectReport, CacheOutcome, *apperrors.InspectError) {
	chain, ok := entity.ParseChain(req.Chain)
	if !ok {
		return nil, "", apperrors.NewInputError(apperrors.CodeInvalidChain, "Unsupported chain; expected eth or bsc.")
	}
	if !entity.IsValidAddress(req.Address) {
		return nil, "", apperrors.NewInputError(apperrors.CodeInvalidAddress, "Invalid address format; expected 0x followed by 40 hex characters.")
	}
	address := entity.NormalizeAddress(req.Address)

	if limitErr := uc.enforceRateLimit(ctx, req.ClientIP); limitErr != nil {
		return nil, "", limitErr
	}

	if cached, fresh, found := uc.cache.GetReport(ctx, chain, address); found && fresh {
		uc.logger.Debug("Report cache hit", zap.String("chain", string(chain)), zap.String("address", address))
		return uc.replay(cached, false), CacheHit, nil
	}

	facts := uc.explorer.FetchFacts(ctx, chain, address)

	if blocking := blockingUpstreamError(facts); blocking != nil {
		uc.logger.Warn("Pipeline blocked by upstream error",
			zap.String("chain", string(chain)),
			zap.String("address", address),
			zap.String("code", string(blocking.Code)))

		// Stale-while-revalidate: replay a resident copy before failing.
		if cached, _, found := uc.cache.GetReport(ctx, chain, address); found {
			return uc.replay(cached, true), CacheStale, nil
		}
		return nil, "", blocking
	}

	identity := uc.resolveIdentity(ctx, chain, address)

	checks := check.Run(check.Facts{Chain: chain, Address: address, Explorer: facts})
	level, summary, reasons := check.Aggregate(checks)

	now := uc.now()
	report := &entity.InspectReport{
		OK:    true,
		Input: entity.InspectInput{Chain: chain, Address: address},
		Result: entity.InspectResult{
			OverallRisk: level,
			Summary:     summary,
			TopReasons:  reasons,
			Token:       &identity,
		},
		Checks: checks,
		Meta: entity.ReportMeta{
			GeneratedAt: now.UTC().Format(time.RFC3339),
			Cached:      false,
			Stale:       false,
			TS:          now.Unix(),
		},
	}

	// Cache writes are swallowed; a successful computation must not turn
	// into a client-visible failure.
	if err := uc.cache.SetReport(ctx, chain, address, report); err != nil {
		uc.logger.Warn("Failed to cache inspect report",
			zap.String("chain", string(chain)), zap.String("address", address), zap.Error(err))
	}

	return report, CacheMiss, nil
}

// replay returns a copy of a cached report with only the freshness
// metadata restamped; checks and result are reused verbatim.
func (uc *inspectUseCase) replay(cached *entity.InspectReport, stale bool) *entity.InspectReport {
	report := *cached
	report.Meta.Cached = true
	report.Meta.Stale = stale
	report.Meta.TS = uc.now().Unix()
	return &report
}

func (uc *inspectUseCase) enforceRateLimit(ctx context.Context, clientIP string) *apperrors.InspectError {
	window := uc.cfg.RateLimit.Window
	maxRequests := uc.cfg.RateLimit.MaxRequests
	if window <= 0 || maxRequests <= 0 {
		return nil
	}

	count, err := uc.cache.IncrementRequestCount(ctx, clientIP, window)
	if err != nil {
		// The limiter is best-effort; a broken counter must not take the
		// endpoint down.
		uc.logger.Warn("Rate limit counter failed", zap.String("ip", clientIP), zap.Error(err))
		return nil
	}

	if count > maxRequests {
		return apperrors.NewRateLimitError()
	}
	return nil
}

// blockingUpstreamError surfaces a fatal upstream failure when one of the
// core fact groups (source, creation) carries a blocking code. Holder
// errors only degrade the concentration check.
func blockingUpstreamError(facts entity.ExplorerFacts) *apperrors.InspectError {
	for _, upstreamErr := range []*apperrors.UpstreamError{facts.Source.Err, facts.Creation.Err} {
		if upstreamErr != nil && apperrors.IsBlocking(upstreamErr.Code) {
			return apperrors.MapUpstreamError(upstreamErr)
		}
	}
	return nil
}
