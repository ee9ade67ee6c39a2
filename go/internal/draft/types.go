package draft

import (
	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// PickResult describes what one make-draft-pick attempt did. When
// AlreadyDrafted is set the prospect was claimed by a concurrent actor
// and nothing was mutated; the caller should pick another target.
type PickResult struct {
	Pick           *models.DraftPick     `json:"pick,omitempty"`
	Prospect       *models.DraftProspect `json:"prospect,omitempty"`
	Player         *models.Player        `json:"player,omitempty"`
	AlreadyDrafted bool                  `json:"already_drafted"`
}

// SweepSummary accumulates a sim-to-pick or auto-draft loop.
type SweepSummary struct {
	PicksMade int               `json:"picks_made"`
	Complete  bool              `json:"complete"`
	NextPick  *models.DraftPick `json:"next_pick,omitempty"` // nil when the draft is done
}

// LotterySummary is the result of run-lottery: the final order plus the
// teams that jumped their pre-lottery rank.
type LotterySummary struct {
	Entries     []models.LotteryEntry `json:"entries"`
	JumpedTeams []uuid.UUID           `json:"jumped_teams"`
}
