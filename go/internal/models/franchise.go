package models

import (
	"time"

	"github.com/google/uuid"
)

// FranchisePhase defines which part of the league calendar a franchise is in.
type FranchisePhase string

const (
	PhasePreseason     FranchisePhase = "PRESEASON"
	PhaseRegularSeason FranchisePhase = "REGULAR_SEASON"
	PhaseAllStar       FranchisePhase = "ALL_STAR"
	PhasePlayoffs      FranchisePhase = "PLAYOFFS"
	PhaseOffseason     FranchisePhase = "OFFSEASON"
)

// OffseasonPhase defines the sub-phase while a franchise is in the offseason.
type OffseasonPhase string

const (
	OffseasonReview       OffseasonPhase = "REVIEW"
	OffseasonLottery      OffseasonPhase = "LOTTERY"
	OffseasonDraft        OffseasonPhase = "DRAFT"
	OffseasonFreeAgency   OffseasonPhase = "FREE_AGENCY"
	OffseasonTrainingCamp OffseasonPhase = "TRAINING_CAMP"
)

// Franchise binds a user to the team they control for a season.
// Exactly one franchise per user has IsActive set.
type Franchise struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	TeamID         uuid.UUID       `json:"team_id"`
	SeasonID       uuid.UUID       `json:"season_id"`
	Phase          FranchisePhase  `json:"phase"`
	OffseasonPhase *OffseasonPhase `json:"offseason_phase,omitempty"` // nil outside the offseason
	CurrentDay     int             `json:"current_day"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
