package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the lifecycle of a trade proposal.
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "PENDING"
	TradeStatusAccepted TradeStatus = "ACCEPTED"
	TradeStatusRejected TradeStatus = "REJECTED"
)

// TradeAssets lists what one side sends in a trade.
type TradeAssets struct {
	PlayerIDs []uuid.UUID `json:"player_ids,omitempty"`
	PickIDs   []uuid.UUID `json:"pick_ids,omitempty"`
}

// TradeProposal is a pending two-team trade. Status transitions out of
// PENDING exactly once, through the claim protocol, so a concurrent
// accept and reject cannot both take effect.
type TradeProposal struct {
	ID           uuid.UUID   `json:"id"`
	SeasonID     uuid.UUID   `json:"season_id"`
	FromTeamID   uuid.UUID   `json:"from_team_id"`
	ToTeamID     uuid.UUID   `json:"to_team_id"`
	FromAssets   TradeAssets `json:"from_assets"`
	ToAssets     TradeAssets `json:"to_assets"`
	Status       TradeStatus `json:"status"`
	ResolvedByID *uuid.UUID  `json:"resolved_by_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	ResolvedAt   *time.Time  `json:"resolved_at,omitempty"`
}
