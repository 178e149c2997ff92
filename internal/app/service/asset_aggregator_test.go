package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset_dashboard/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

func record(name, quantity string, dec *int) entity.AssetRecord {
	return entity.AssetRecord{Name: name, Quantity: quantity, Decimals: dec}
}

func TestGroupAssetsSumsQuantitiesExactly(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		record("STKN", "1000000000000000000000", intPtr(18)),
		record("STKN", "500000000000000000000", intPtr(18)),
	}, zap.NewNop())

	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "STKN", g.Name)
	assert.Equal(t, "1500000000000000000000", g.TotalQuantity.String())
	assert.Equal(t, 2, g.TokenCount)
	assert.Equal(t, 18, g.Decimals)
	assert.Len(t, g.Members, 2)
}

func TestGroupAssetsKeyFallback(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		{Name: "Named", Quantity: "1"},
		{ID: "token-7", Quantity: "1"},
		{Quantity: "1"},
	}, zap.NewNop())

	require.Len(t, groups, 3)
	names := []string{groups[0].Name, groups[1].Name, groups[2].Name}
	assert.Contains(t, names, "Named")
	assert.Contains(t, names, "token-7")
	assert.Contains(t, names, entity.UnnamedAssetKey)
}

func TestGroupAssetsMalformedQuantityCountsAsZero(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		record("TOK", "100", intPtr(2)),
		record("TOK", "not-a-number", nil),
		record("TOK", "", nil),
		record("TOK", "-5", nil),
	}, zap.NewNop())

	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "100", g.TotalQuantity.String())
	assert.Equal(t, 4, g.TokenCount)
}

func TestGroupAssetsDecimalsResolvedFromFirstSeenRecord(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		record("TOK", "1", intPtr(6)),
		record("TOK", "1", intPtr(9)),
	}, zap.NewNop())

	require.Len(t, groups, 1)
	assert.Equal(t, 6, groups[0].Decimals)
}

func TestGroupAssetsAppliesDecimalOverrides(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		record("STRAT", "10000", intPtr(8)),
	}, zap.NewNop())

	require.Len(t, groups, 1)
	assert.Equal(t, 4, groups[0].Decimals)
}

func TestGroupAssetsOutOfRangeDecimalsTreatedAsAbsent(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		record("NEG", "100", intPtr(-2)),
		record("BIG", "100", intPtr(1000)),
	}, zap.NewNop())

	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Equal(t, 0, g.Decimals)
	}
}

// A record reporting negative decimals must not wrap through the fixed-point
// placement and shrink the holding to dust.
func TestGroupAssetsNegativeDecimalsValuatesAtFullValue(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		record("ODD", "100", intPtr(-2)),
	}, zap.NewNop())

	assets, summary, diags := ValuateGroups(groups, entity.PriceIndex{"ODD": "1"}, zap.NewNop())

	require.Len(t, assets, 1)
	require.Empty(t, diags)
	assert.Equal(t, "100.00", assets[0].DisplayQuantity)
	require.NotNil(t, assets[0].UsdValue)
	assert.Equal(t, "100.00", *assets[0].UsdValue)
	assert.Equal(t, "100.00", summary.FungibleValueUsd)
}

func TestGroupAssetsSortedByName(t *testing.T) {
	groups := GroupAssets([]entity.AssetRecord{
		record("zeta", "1", nil),
		record("Alpha", "1", nil),
		record("beta", "1", nil),
	}, zap.NewNop())

	require.Len(t, groups, 3)
	assert.Equal(t, "Alpha", groups[0].Name)
	assert.Equal(t, "beta", groups[1].Name)
	assert.Equal(t, "zeta", groups[2].Name)
}

// Permuting the input must not change totals, counts or ordering of the
// output, only the order of each group's members.
func TestGroupAssetsCommutativeUnderReordering(t *testing.T) {
	records := []entity.AssetRecord{
		record("A", "10", intPtr(2)),
		record("B", "999999999999999999999999", intPtr(18)),
		record("A", "5", intPtr(2)),
		record("C", "0", nil),
		record("B", "1", intPtr(18)),
	}

	baseline := GroupAssets(records, zap.NewNop())

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]entity.AssetRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		groups := GroupAssets(shuffled, zap.NewNop())
		require.Len(t, groups, len(baseline))
		for j := range groups {
			assert.Equal(t, baseline[j].Name, groups[j].Name)
			assert.Equal(t, baseline[j].TokenCount, groups[j].TokenCount)
			assert.Zero(t, baseline[j].TotalQuantity.Cmp(groups[j].TotalQuantity))
			assert.Equal(t, baseline[j].Decimals, groups[j].Decimals)
		}
	}
}
