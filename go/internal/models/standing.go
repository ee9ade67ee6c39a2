package models

import (
	"github.com/google/uuid"
)

// Standing is one team's regular-season record. Seed is the team's rank
// within its conference, 1 = best record.
type Standing struct {
	SeasonID   uuid.UUID  `json:"season_id"`
	TeamID     uuid.UUID  `json:"team_id"`
	Conference Conference `json:"conference"`
	Wins       int        `json:"wins"`
	Losses     int        `json:"losses"`
	Seed       int        `json:"seed"`
}

// WinPct returns the team's winning percentage, 0 for an unplayed season.
func (s *Standing) WinPct() float64 {
	games := s.Wins + s.Losses
	if games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(games)
}
