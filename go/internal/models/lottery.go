package models

import (
	"time"

	"github.com/google/uuid"
)

// LotteryEntry is one of the 14 non-playoff teams entered in the draft
// lottery. PreLotteryPosition 1 is the worst record. PostLotteryPosition
// stays nil until the lottery has been run; its presence is the
// "lottery already run" check.
type LotteryEntry struct {
	ID                  uuid.UUID `json:"id"`
	SeasonID            uuid.UUID `json:"season_id"`
	TeamID              uuid.UUID `json:"team_id"`
	PreLotteryPosition  int       `json:"pre_lottery_position"`
	Odds                float64   `json:"odds"`
	PostLotteryPosition *int      `json:"post_lottery_position,omitempty"`
	LotteryWin          bool      `json:"lottery_win"`
	CreatedAt           time.Time `json:"created_at"`
}
