package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerRatings holds the attribute sheet used by the game simulator.
type PlayerRatings struct {
	Overall   int `json:"overall"`
	Inside    int `json:"inside"`
	Outside   int `json:"outside"`
	Playmake  int `json:"playmake"`
	Defense   int `json:"defense"`
	Rebound   int `json:"rebound"`
	Stamina   int `json:"stamina"`
	Potential int `json:"potential"`
}

// Player represents a league player. TeamID is nil while the player is
// a free agent; a free agent is signed through the claim protocol, never
// by a direct team_id write.
type Player struct {
	ID            uuid.UUID     `json:"id"`
	FullName      string        `json:"full_name"`
	Position      string        `json:"position"` // 'PG', 'SG', 'SF', 'PF', 'C'
	Age           int           `json:"age"`
	TeamID        *uuid.UUID    `json:"team_id,omitempty"` // nil = free agent
	Ratings       PlayerRatings `json:"ratings"`
	ContractYears int           `json:"contract_years"`
	Salary        int64         `json:"salary"`
	CreatedAt     time.Time     `json:"created_at"`
}
