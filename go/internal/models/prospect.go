package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftProspect is a draft-eligible player who does not yet exist in the
// player pool. IsDrafted flips exactly once, through the claim protocol,
// and never reverts.
type DraftProspect struct {
	ID              uuid.UUID     `json:"id"`
	SeasonID        uuid.UUID     `json:"season_id"`
	FullName        string        `json:"full_name"`
	Position        string        `json:"position"`
	Age             int           `json:"age"`
	Ratings         PlayerRatings `json:"ratings"`
	IsDrafted       bool          `json:"is_drafted"`
	DraftedByTeamID *uuid.UUID    `json:"drafted_by_team_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
