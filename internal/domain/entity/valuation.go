package entity

// ValuedAsset is one row of the valuated asset list. UsdValue is nil for
// unpriced ("non-fungible") groups.
type ValuedAsset struct {
	Name            string  `json:"name"`
	DisplayQuantity string  `json:"displayQuantity"`
	TokenCount      int     `json:"tokenCount"`
	UsdValue        *string `json:"usdValue,omitempty"`
}

// PortfolioSummary carries the aggregate buckets: priced holdings, unpriced
// holdings, and the native platform token tracked on its own.
type PortfolioSummary struct {
	FungibleCount       int    `json:"fungibleCount"`
	FungibleValueUsd    string `json:"fungibleValueUsd"`
	NonFungibleCount    int    `json:"nonFungibleCount"`
	NativeTokenCount    int    `json:"nativeTokenCount"`
	NativeTokenQuantity string `json:"nativeTokenQuantity"`
}

// ValuationError records a recoverable failure during fetching or valuation.
// Errors of this kind never abort the computation; they ride along with the
// partial result.
type ValuationError struct {
	AssetName string `json:"assetName,omitempty"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
}

// PortfolioValuation is the full per-owner result: the ordered valuated asset
// list, summary totals and any recoverable diagnostics. Rebuilt per request,
// never persisted.
type PortfolioValuation struct {
	Owner   string           `json:"owner"`
	Assets  []ValuedAsset    `json:"assets"`
	Summary PortfolioSummary `json:"summary"`
	Errors  []ValuationError `json:"errors,omitempty"`
}
