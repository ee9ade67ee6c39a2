package models

import (
	"time"

	"github.com/google/uuid"
)

// SeasonStatus defines the lifecycle status of a season.
type SeasonStatus string

const (
	SeasonStatusPreseason     SeasonStatus = "PRESEASON"
	SeasonStatusRegularSeason SeasonStatus = "REGULAR_SEASON"
	SeasonStatusPlayoffs      SeasonStatus = "PLAYOFFS"
	SeasonStatusOffseason     SeasonStatus = "OFFSEASON"
	SeasonStatusCompleted     SeasonStatus = "COMPLETED"
)

// Season represents one league year. At most one season per dynasty is
// non-completed at any time; status only moves forward.
type Season struct {
	ID               uuid.UUID    `json:"id"`
	SequenceNumber   int          `json:"sequence_number"`
	Status           SeasonStatus `json:"status"`
	TradeDeadlineDay int          `json:"trade_deadline_day"`
	AllStarDay       int          `json:"all_star_day"`
	ScheduleGames    int          `json:"schedule_games"`
	ChampionTeamID   *uuid.UUID   `json:"champion_team_id,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
