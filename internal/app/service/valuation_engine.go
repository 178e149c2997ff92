package service

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"asset_dashboard/internal/domain/entity"
	"asset_dashboard/internal/pkg/utils"
)

// minDisplayedUsdValue is the floor for nonzero valuations: a holding worth
// anything at all never renders as $0.00.
var minDisplayedUsdValue = decimal.New(1, -2)

// ValuateGroups computes the display quantity and, where a price is known,
// the USD value for each aggregated group. Multiplication and summing happen
// in decimal arithmetic; binary floats drift at cent level for large
// holdings. A malformed price or quantity marks that group's valuation
// absent, records a diagnostic and moves on.
func ValuateGroups(
	groups []entity.AssetGroup,
	prices entity.PriceIndex,
	logger *zap.Logger,
) ([]entity.ValuedAsset, entity.PortfolioSummary, []entity.ValuationError) {
	assets := make([]entity.ValuedAsset, 0, len(groups))
	var diagnostics []entity.ValuationError
	var fungibleValues []decimal.Decimal

	summary := entity.PortfolioSummary{}
	nativeQuantity := decimal.Zero

	for _, group := range groups {
		quantity, err := utils.ToDisplayDecimal(group.TotalQuantity, uint8(group.Decimals))
		if err != nil {
			logger.Warn("Failed to normalize group quantity",
				zap.String("asset", group.Name), zap.Error(err))
			diagnostics = append(diagnostics, entity.ValuationError{
				AssetName: group.Name,
				Stage:     "quantity-normalize",
				Message:   err.Error(),
			})
			quantity = decimal.Zero
		}

		valued := entity.ValuedAsset{
			Name:            group.Name,
			DisplayQuantity: utils.FormatDisplayQuantity(quantity),
			TokenCount:      group.TokenCount,
		}

		if group.Name == entity.NativePlatformSymbol {
			// The platform token rides in its own bucket regardless of
			// whether the oracle prices it.
			summary.NativeTokenCount += group.TokenCount
			nativeQuantity = nativeQuantity.Add(quantity)
			assets = append(assets, valued)
			continue
		}

		priceStr, priced := prices.Lookup(group.Name)
		if !priced {
			summary.NonFungibleCount += group.TokenCount
			assets = append(assets, valued)
			continue
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			logger.Warn("Malformed oracle price, treating group as unpriced",
				zap.String("asset", group.Name),
				zap.String("price", priceStr),
				zap.Error(err))
			diagnostics = append(diagnostics, entity.ValuationError{
				AssetName: group.Name,
				Stage:     "price-parse",
				Message:   fmt.Sprintf("malformed price %q: %v", priceStr, err),
			})
			summary.NonFungibleCount += group.TokenCount
			assets = append(assets, valued)
			continue
		}

		usd := quantity.Mul(price)
		if usd.IsPositive() && usd.LessThan(minDisplayedUsdValue) {
			usd = minDisplayedUsdValue
		} else {
			usd = usd.Round(2)
		}

		usdStr := usd.StringFixed(2)
		valued.UsdValue = &usdStr
		summary.FungibleCount += group.TokenCount
		fungibleValues = append(fungibleValues, usd)
		assets = append(assets, valued)
	}

	total := lo.Reduce(fungibleValues, func(acc decimal.Decimal, v decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(v)
	}, decimal.Zero)
	summary.FungibleValueUsd = total.StringFixed(2)
	summary.NativeTokenQuantity = utils.FormatDisplayQuantity(nativeQuantity)

	return assets, summary, diagnostics
}
