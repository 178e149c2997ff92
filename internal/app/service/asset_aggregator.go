package service

import (
	"math/big"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"asset_dashboard/internal/domain/entity"
	"asset_dashboard/internal/pkg/decimals"
)

// GroupAssets groups a flat list of asset records by display name in a single
// pass. Quantities are accumulated in big.Int arithmetic; a record whose
// quantity fails to parse as a non-negative integer contributes its token
// count but not its quantity. Decimals are resolved once per group from the
// first-seen record. The result is sorted ascending by name with
// locale-aware collation.
func GroupAssets(records []entity.AssetRecord, logger *zap.Logger) []entity.AssetGroup {
	byName := make(map[string]*entity.AssetGroup)

	for _, record := range records {
		key := record.Key()
		group, ok := byName[key]
		if !ok {
			if record.Decimals != nil && !decimals.InRange(*record.Decimals) {
				logger.Warn("Reported decimals out of range, treating as absent",
					zap.String("asset", key),
					zap.Int("decimals", *record.Decimals))
			}
			group = &entity.AssetGroup{
				Name:          key,
				TotalQuantity: new(big.Int),
				Decimals:      decimals.Resolve(key, record.Decimals),
			}
			byName[key] = group
		}

		quantity, ok := new(big.Int).SetString(record.Quantity, 10)
		if !ok || quantity.Sign() < 0 {
			if record.Quantity != "" {
				logger.Warn("Unparseable asset quantity, counting record with zero quantity",
					zap.String("asset", key),
					zap.String("quantity", record.Quantity))
			}
			quantity = new(big.Int)
		}

		group.TotalQuantity.Add(group.TotalQuantity, quantity)
		group.TokenCount++
		group.Members = append(group.Members, record)
	}

	names := lo.Keys(byName)
	coll := collate.New(language.English)
	coll.SortStrings(names)

	groups := make([]entity.AssetGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, *byName[name])
	}
	return groups
}
