package models

import (
	"time"

	"github.com/google/uuid"
)

// Conference identifies which half of the league a team plays in.
type Conference string

const (
	ConferenceEast Conference = "EAST"
	ConferenceWest Conference = "WEST"
)

// Team represents one of the 30 league teams.
type Team struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Code       string     `json:"code"`
	City       string     `json:"city"`
	Conference Conference `json:"conference"`
	CreatedAt  time.Time  `json:"created_at"`
}
