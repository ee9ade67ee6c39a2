package trades

import "errors"

var (
	// ErrTradeNotFound means no proposal exists with the given id.
	ErrTradeNotFound = errors.New("trade proposal not found")

	// ErrSameTeam means a proposal named the same team on both sides.
	ErrSameTeam = errors.New("cannot trade with yourself")

	// ErrEmptyTrade means neither side offered any assets.
	ErrEmptyTrade = errors.New("trade has no assets")

	// ErrAssetNotOwned means a proposed asset does not belong to the
	// offering team.
	ErrAssetNotOwned = errors.New("asset not owned by offering team")
)
