package port

import (
	"context"

	"asset_dashboard/internal/domain/entity"
)

// PriceIndexProvider returns the current price index. Implementations degrade
// to an empty index rather than failing; an error here is advisory.
type PriceIndexProvider interface {
	LatestIndex(ctx context.Context) (entity.PriceIndex, error)
}

// ValuationService produces the aggregated, valuated asset list for an owner.
type ValuationService interface {
	ValuateOwner(ctx context.Context, owner string) (entity.PortfolioValuation, error)
}
