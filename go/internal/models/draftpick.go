package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a single pick slot in the two-round draft.
// PickNumber is unique per season and round; a pick with a non-nil
// PlayerID has been used and is immutable. CurrentTeamID may differ from
// OriginalTeamID after trades.
type DraftPick struct {
	ID             uuid.UUID  `json:"id"`
	SeasonID       uuid.UUID  `json:"season_id"`
	Round          int        `json:"round"`       // 1 or 2
	PickNumber     int        `json:"pick_number"` // 1..60 overall
	OriginalTeamID uuid.UUID  `json:"original_team_id"`
	CurrentTeamID  uuid.UUID  `json:"current_team_id"`
	PlayerID       *uuid.UUID `json:"player_id,omitempty"` // nil until used
	PickedAt       *time.Time `json:"picked_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
