package models

import (
	"time"

	"github.com/google/uuid"
)

// SeriesStatus defines the lifecycle of a playoff series.
type SeriesStatus string

const (
	SeriesStatusScheduled  SeriesStatus = "SCHEDULED"
	SeriesStatusInProgress SeriesStatus = "IN_PROGRESS"
	SeriesStatusCompleted  SeriesStatus = "COMPLETED"
)

// Playoff round numbers. Round 0 is the play-in; rounds 1-3 are
// conference rounds; round 4 is the finals (conference is nil there).
const (
	RoundPlayIn     = 0
	RoundFirst      = 1
	RoundConfSemis  = 2
	RoundConfFinals = 3
	RoundFinals     = 4
)

// PlayoffSeries represents one matchup in the bracket. Win counts are
// mutated only through the atomic record-game-result operation; a
// completed series is immutable.
type PlayoffSeries struct {
	ID             uuid.UUID    `json:"id"`
	SeasonID       uuid.UUID    `json:"season_id"`
	Round          int          `json:"round"`
	Conference     *Conference  `json:"conference,omitempty"` // nil for the finals
	BracketSlot    int          `json:"bracket_slot"`         // position within (round, conference); adjacent slots feed one next-round series
	HigherSeedID   uuid.UUID    `json:"higher_seed_id"`
	LowerSeedID    uuid.UUID    `json:"lower_seed_id"`
	HigherSeed     int          `json:"higher_seed"`
	LowerSeed      int          `json:"lower_seed"`
	HigherSeedWins int          `json:"higher_seed_wins"`
	LowerSeedWins  int          `json:"lower_seed_wins"`
	Status         SeriesStatus `json:"status"`
	WinnerID       *uuid.UUID   `json:"winner_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// GamesPlayed returns how many games of the series have been played.
func (s *PlayoffSeries) GamesPlayed() int {
	return s.HigherSeedWins + s.LowerSeedWins
}
