package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Game represents one played game, regular season or playoff. SeriesID is
// set only for playoff games; BoxStats is the simulator's stat payload,
// stored as JSONB.
type Game struct {
	ID         uuid.UUID       `json:"id"`
	SeasonID   uuid.UUID       `json:"season_id"`
	SeriesID   *uuid.UUID      `json:"series_id,omitempty"`
	Day        int             `json:"day"`
	HomeTeamID uuid.UUID       `json:"home_team_id"`
	AwayTeamID uuid.UUID       `json:"away_team_id"`
	HomeScore  int             `json:"home_score"`
	AwayScore  int             `json:"away_score"`
	WinnerID   uuid.UUID       `json:"winner_id"`
	BoxStats   json.RawMessage `json:"box_stats,omitempty"`
	PlayedAt   time.Time       `json:"played_at"`
}
