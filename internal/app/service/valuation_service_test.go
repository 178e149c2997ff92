package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset_dashboard/internal/domain/entity"
)

type stubAssetSource struct {
	records []entity.AssetRecord
	err     error
}

func (s *stubAssetSource) FetchAssetsByOwner(_ context.Context, _ string) ([]entity.AssetRecord, error) {
	return s.records, s.err
}

type stubPriceProvider struct {
	index entity.PriceIndex
	err   error
}

func (s *stubPriceProvider) LatestIndex(_ context.Context) (entity.PriceIndex, error) {
	return s.index, s.err
}

func TestValuateOwnerHappyPath(t *testing.T) {
	assets := &stubAssetSource{records: []entity.AssetRecord{
		{Name: "STKN", Quantity: "1000000000000000000000", Decimals: intPtr(18)},
		{Name: "STKN", Quantity: "500000000000000000000", Decimals: intPtr(18)},
	}}
	prices := &stubPriceProvider{index: entity.PriceIndex{"STKN": "2"}}

	svc := NewValuationService(assets, prices, zap.NewNop())
	result, err := svc.ValuateOwner(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", result.Owner)
	require.Len(t, result.Assets, 1)
	assert.Equal(t, "1500.00", result.Assets[0].DisplayQuantity)
	require.NotNil(t, result.Assets[0].UsdValue)
	assert.Equal(t, "3000.00", *result.Assets[0].UsdValue)
	assert.Empty(t, result.Errors)
}

func TestValuateOwnerAssetFetchFailureDegradesToEmpty(t *testing.T) {
	assets := &stubAssetSource{err: errors.New("indexer unreachable")}
	prices := &stubPriceProvider{index: entity.PriceIndex{"STKN": "2"}}

	svc := NewValuationService(assets, prices, zap.NewNop())
	result, err := svc.ValuateOwner(context.Background(), "alice")

	require.NoError(t, err)
	assert.Empty(t, result.Assets)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "fetch-assets", result.Errors[0].Stage)
	assert.Equal(t, "0.00", result.Summary.FungibleValueUsd)
}

func TestValuateOwnerPriceFailureFallsBackToUnpriced(t *testing.T) {
	assets := &stubAssetSource{records: []entity.AssetRecord{
		{Name: "STKN", Quantity: "100", Decimals: intPtr(2)},
	}}
	prices := &stubPriceProvider{index: entity.PriceIndex{}, err: errors.New("oracle down")}

	svc := NewValuationService(assets, prices, zap.NewNop())
	result, err := svc.ValuateOwner(context.Background(), "alice")

	require.NoError(t, err)
	require.Len(t, result.Assets, 1)
	assert.Nil(t, result.Assets[0].UsdValue)
	assert.Equal(t, 1, result.Summary.NonFungibleCount)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "fetch-prices", result.Errors[0].Stage)
}

func TestValuateOwnerCancelledContextAborts(t *testing.T) {
	assets := &stubAssetSource{records: []entity.AssetRecord{
		{Name: "STKN", Quantity: "100", Decimals: intPtr(2)},
	}}
	prices := &stubPriceProvider{index: entity.PriceIndex{"STKN": "2"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewValuationService(assets, prices, zap.NewNop())
	_, err := svc.ValuateOwner(ctx, "alice")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValuateOwnerBothSourcesFailStillProducesResult(t *testing.T) {
	assets := &stubAssetSource{err: errors.New("indexer unreachable")}
	prices := &stubPriceProvider{index: nil, err: errors.New("oracle down")}

	svc := NewValuationService(assets, prices, zap.NewNop())
	result, err := svc.ValuateOwner(context.Background(), "alice")

	require.NoError(t, err)
	assert.Empty(t, result.Assets)
	assert.Len(t, result.Errors, 2)
}
