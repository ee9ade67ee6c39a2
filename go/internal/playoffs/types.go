package playoffs

import (
	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// GameOutcome is the result of one simulate-series-game request. When
// AlreadyCompleted is set the series was finished before this request
// and nothing was mutated.
type GameOutcome struct {
	Series           *models.PlayoffSeries `json:"series"`
	AlreadyCompleted bool                  `json:"already_completed"`
	HomeTeamID       uuid.UUID             `json:"home_team_id,omitempty"`
	AwayTeamID       uuid.UUID             `json:"away_team_id,omitempty"`
	HomeScore        int                   `json:"home_score,omitempty"`
	AwayScore        int                   `json:"away_score,omitempty"`
	SeriesCompleted  bool                  `json:"series_completed"`
}

// SeriesOutcome is the result of simulating a series to completion.
type SeriesOutcome struct {
	Series           *models.PlayoffSeries `json:"series"`
	AlreadyCompleted bool                  `json:"already_completed"`
	GamesPlayed      int                   `json:"games_played"`
}

// RoundSummary accumulates what a round sweep did. Skipped counts series
// that were already finished when the sweep reached them.
type RoundSummary struct {
	Round            int  `json:"round"`
	SeriesSimulated  int  `json:"series_simulated"`
	SeriesSkipped    int  `json:"series_skipped"`
	NextRoundCreated bool `json:"next_round_created"`
}

// PlayoffSummary accumulates a full simulate-all sweep.
type PlayoffSummary struct {
	Rounds     []RoundSummary `json:"rounds"`
	ChampionID *uuid.UUID     `json:"champion_id,omitempty"`
}
