package repository

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"token-inspector/internal/config"
	"token-inspector/internal/entity"
	"token-inspector/internal/usecase"
)

// Compile-time check
var _ usecase.CacheRepository = (*goCacheRepo)(nil)

const (
	reportKeyPrefix    = "report:"
	identityKeyPrefix  = "identity:"
	rateLimitKeyPrefix = "rl:"
)

// reportEntry keeps the stored-at timestamp next to the report so the repo
// can distinguish fresh entries from resident-but-expired ones.
type reportEntry struct {
	report   *entity.InspectReport
	storedAt time.Time
}

type goCacheRepo struct {
	cache  *cache.Cache
	cfg    config.CacheConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewGoCacheRepo builds the shared edge cache. Report entries live for the
// stale-retention window; freshness within that window is judged against
// the report TTL on read.
func NewGoCacheRepo(cfg config.CacheConfig, logger *zap.Logger) usecase.CacheRepository {
	c := cache.New(cfg.ReportTTL, cfg.CleanupInterval)
	logger.Info("Initialized go-cache",
		zap.Duration("reportTTL", cfg.ReportTTL),
		zap.Duration("staleRetention", cfg.StaleRetention),
		zap.Duration("cleanupInterval", cfg.CleanupInterval))

	return &goCacheRepo{
		cache:  c,
		cfg:    cfg,
		logger: logger.Named("GoCacheRepo"),
		now:    time.Now,
	}
}

func reportKey(chain entity.Chain, address string) string {
	return reportKeyPrefix + string(chain) + ":" + address
}

func identityKey(chain entity.Chain, address string) string {
	return identityKeyPrefix + string(chain) + ":" + address
}

func (r *goCacheRepo) GetReport(ctx context.Context, chain entity.Chain, address string) (*entity.InspectReport, bool, bool) {
	key := reportKey(chain, address)
	x, found := r.cache.Get(key)
	if !found {
		r.logger.Debug("Cache miss", zap.String("key", key))
		return nil, false, false
	}

	entry, ok := x.(reportEntry)
	if !ok {
		r.logger.Warn("Cache data type mismatch for key", zap.String("key", key), zap.String("type", fmt.Sprintf("%T", x)))
		return nil, false, false
	}

	fresh := r.now().Sub(entry.storedAt) < r.cfg.ReportTTL
	r.logger.Debug("Cache hit", zap.String("key", key), zap.Bool("fresh", fresh))
	return entry.report, fresh, true
}

func (r *goCacheRepo) SetReport(ctx context.Context, chain entity.Chain, address string, report *entity.InspectReport) error {
	retention := r.cfg.StaleRetention
	if retention < r.cfg.ReportTTL {
		retention = r.cfg.ReportTTL
	}
	r.cache.Set(reportKey(chain, address), reportEntry{report: report, storedAt: r.now()}, retention)
	return nil
}

func (r *goCacheRepo) GetIdentity(ctx context.Context, chain entity.Chain, address string) (*entity.TokenIdentity, bool) {
	key := identityKey(chain, address)
	x, found := r.cache.Get(key)
	if !found {
		return nil, false
	}

	identity, ok := x.(entity.TokenIdentity)
	if !ok {
		r.logger.Warn("Cache data type mismatch for key", zap.String("key", key), zap.String("type", fmt.Sprintf("%T", x)))
		return nil, false
	}
	return &identity, true
}

func (r *goCacheRepo) SetIdentity(ctx context.Context, chain entity.Chain, address string, identity entity.TokenIdentity) error {
	r.cache.Set(identityKey(chain, address), identity, r.cfg.IdentityTTL)
	return nil
}

// IncrementRequestCount tracks a fixed-window counter keyed by IP and the
// window start, so the limiter needs no process-local state.
func (r *goCacheRepo) IncrementRequestCount(ctx context.Context, clientIP string, window time.Duration) (int, error) {
	windowStart := r.now().Unix() / int64(window.Seconds())
	key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, clientIP, windowStart)

	// Add is a no-op when the counter already exists in this window.
	_ = r.cache.Add(key, 0, window)

	count, err := r.cache.IncrementInt(key, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	return count, nil
}
