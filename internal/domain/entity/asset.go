package entity

import "math/big"

// NativePlatformSymbol is the display name of the platform's own token.
// Holdings of it are tracked in a dedicated summary bucket, separate from the
// generic priced/unpriced buckets.
const NativePlatformSymbol = "STRAT"

// UnnamedAssetKey is the grouping key for records that carry neither a name
// nor an id.
const UnnamedAssetKey = "Unnamed Asset"

// AssetRecord is one tokenized holding entry returned by the indexing
// service, scoped to an owner. Fields are optional on the wire: Name may be
// empty with only ID set, and Decimals may be absent entirely.
type AssetRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Decimals *int   `json:"decimals,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Key returns the grouping key for the record: name, else id, else a fixed
// placeholder.
func (r AssetRecord) Key() string {
	if r.Name != "" {
		return r.Name
	}
	if r.ID != "" {
		return r.ID
	}
	return UnnamedAssetKey
}

// AssetGroup aggregates all records sharing one display name. TotalQuantity
// is summed in big.Int arithmetic; raw quantities routinely exceed the exact
// integer range of a float64.
type AssetGroup struct {
	Name          string        `json:"name"`
	TotalQuantity *big.Int      `json:"-"`
	TokenCount    int           `json:"tokenCount"`
	Decimals      int           `json:"decimals"`
	Members       []AssetRecord `json:"-"`
}
