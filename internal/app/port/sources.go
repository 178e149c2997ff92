package port

import (
	"context"

	"asset_dashboard/internal/domain/entity"
)

// AssetSource fetches the raw asset records held by one owner, filtered
// upstream by exact match on the owner's common name.
type AssetSource interface {
	FetchAssetsByOwner(ctx context.Context, owner string) ([]entity.AssetRecord, error)
}

// OracleSource fetches the full, unfiltered list of oracle price
// observations.
type OracleSource interface {
	FetchObservations(ctx context.Context) ([]entity.OracleObservation, error)
}

// TokenProvider supplies a bearer token for authenticated upstream calls.
// Implementations cache the token and are safe for concurrent use.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}
