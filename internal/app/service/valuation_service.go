package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/domain/entity"
	"asset_dashboard/pkg/metrics"
)

// valuationServiceImpl implements port.ValuationService.
type valuationServiceImpl struct {
	assets port.AssetSource
	prices port.PriceIndexProvider
	logger *zap.Logger
}

// NewValuationService creates a new instance of ValuationService.
func NewValuationService(assets port.AssetSource, prices port.PriceIndexProvider, logger *zap.Logger) port.ValuationService {
	return &valuationServiceImpl{
		assets: assets,
		prices: prices,
		logger: logger.Named("ValuationService"),
	}
}

// ValuateOwner fetches the owner's asset records and the price index
// concurrently, then aggregates and valuates. Either fetch failing degrades
// that input to empty with a diagnostic; the result is always produced. The
// returned error is reserved for context cancellation.
func (s *valuationServiceImpl) ValuateOwner(ctx context.Context, owner string) (entity.PortfolioValuation, error) {
	timer := metrics.NewValuationTimer()
	defer timer.ObserveDuration()

	var (
		records     []entity.AssetRecord
		priceIndex  entity.PriceIndex
		fetchErrors []entity.ValuationError
	)

	eg, childCtx := errgroup.WithContext(ctx)

	// Fetch failures are captured per source and degraded below; the group
	// error is reserved for context cancellation.
	var recordsErr, pricesErr error
	eg.Go(func() error {
		records, recordsErr = s.assets.FetchAssetsByOwner(childCtx, owner)
		return childCtx.Err()
	})
	eg.Go(func() error {
		priceIndex, pricesErr = s.prices.LatestIndex(childCtx)
		return childCtx.Err()
	})
	if err := eg.Wait(); err != nil {
		return entity.PortfolioValuation{}, fmt.Errorf("valuation for %s aborted: %w", owner, err)
	}

	if recordsErr != nil {
		metrics.UpstreamFailuresTotal.WithLabelValues(metrics.SourceCirrus).Inc()
		s.logger.Warn("Asset fetch failed, proceeding with empty record set",
			zap.String("owner", owner), zap.Error(recordsErr))
		records = nil
		fetchErrors = append(fetchErrors, entity.ValuationError{
			Stage:   "fetch-assets",
			Message: recordsErr.Error(),
		})
	}
	if pricesErr != nil {
		// The provider already degraded to a stale or empty index; surface
		// the condition but keep whatever index it handed back.
		s.logger.Warn("Price index degraded", zap.Error(pricesErr))
		fetchErrors = append(fetchErrors, entity.ValuationError{
			Stage:   "fetch-prices",
			Message: pricesErr.Error(),
		})
	}
	if priceIndex == nil {
		priceIndex = entity.PriceIndex{}
	}

	groups := GroupAssets(records, s.logger)
	assets, summary, diagnostics := ValuateGroups(groups, priceIndex, s.logger)

	s.logger.Info("Owner portfolio valuated",
		zap.String("owner", owner),
		zap.Int("records", len(records)),
		zap.Int("groups", len(groups)),
		zap.Int("diagnostics", len(diagnostics)))

	return entity.PortfolioValuation{
		Owner:   owner,
		Assets:  assets,
		Summary: summary,
		Errors:  append(fetchErrors, diagnostics...),
	}, nil
}
