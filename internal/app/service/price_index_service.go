package service

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/config"
	"asset_dashboard/internal/domain/entity"
	"asset_dashboard/pkg/metrics"
)

const (
	priceIndexCacheKey = "price_index_latest"
	// priceIndexStaleKey keeps the last good index past its TTL so a dead
	// oracle feed degrades to stale prices instead of none.
	priceIndexStaleKey = "price_index_stale"
)

// priceIndexServiceImpl implements port.PriceIndexProvider on top of an
// OracleSource and a TTL cache.
type priceIndexServiceImpl struct {
	source port.OracleSource
	cache  *cache.Cache
	logger *zap.Logger
}

// NewPriceIndexService creates a price index provider that rebuilds the
// index from the oracle feed at most once per cache TTL.
func NewPriceIndexService(source port.OracleSource, cfg *config.Config, logger *zap.Logger) port.PriceIndexProvider {
	ttl := time.Duration(cfg.PriceIndex.CacheTTLMinutes) * time.Minute
	return &priceIndexServiceImpl{
		source: source,
		cache:  cache.New(ttl, 10*time.Minute),
		logger: logger.Named("PriceIndexService"),
	}
}

// LatestIndex returns the cached index when fresh, otherwise refetches the
// oracle feed and rebuilds it. On upstream failure it falls back to the last
// good index, or an empty one; the returned error is advisory and the index
// is always usable.
func (s *priceIndexServiceImpl) LatestIndex(ctx context.Context) (entity.PriceIndex, error) {
	if cached, ok := s.cache.Get(priceIndexCacheKey); ok {
		return cached.(entity.PriceIndex), nil
	}

	observations, err := s.source.FetchObservations(ctx)
	if err != nil {
		metrics.UpstreamFailuresTotal.WithLabelValues(metrics.SourceOracle).Inc()
		s.logger.Warn("Oracle feed unavailable, serving fallback price index", zap.Error(err))
		if stale, ok := s.cache.Get(priceIndexStaleKey); ok {
			return stale.(entity.PriceIndex), fmt.Errorf("oracle feed unavailable, serving stale index: %w", err)
		}
		return entity.PriceIndex{}, fmt.Errorf("oracle feed unavailable, serving empty index: %w", err)
	}

	index := BuildPriceIndex(observations)
	s.cache.Set(priceIndexCacheKey, index, cache.DefaultExpiration)
	s.cache.Set(priceIndexStaleKey, index, cache.NoExpiration)
	s.logger.Debug("Price index rebuilt",
		zap.Int("observations", len(observations)),
		zap.Int("symbols", len(index)))
	return index, nil
}
