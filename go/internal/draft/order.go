package draft

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// TotalPicks is the size of the two-round board.
const TotalPicks = 60

// BuildPickOrder materializes both rounds of the draft board. The first
// round is the 14 lottery teams in post-lottery order followed by the 16
// playoff teams worst record first; the second round is the exact
// reverse of the first-round team order, picks 31-60.
func BuildPickOrder(seasonID uuid.UUID, lotteryOrder, playoffTeams []uuid.UUID) ([]models.DraftPick, error) {
	if len(lotteryOrder) != LotterySize {
		return nil, fmt.Errorf("pick order needs %d lottery teams, have %d", LotterySize, len(lotteryOrder))
	}
	firstRound := make([]uuid.UUID, 0, TotalPicks/2)
	firstRound = append(firstRound, lotteryOrder...)
	firstRound = append(firstRound, playoffTeams...)
	if len(firstRound) != TotalPicks/2 {
		return nil, fmt.Errorf("first round has %d teams, want %d", len(firstRound), TotalPicks/2)
	}

	picks := make([]models.DraftPick, 0, TotalPicks)
	for i, teamID := range firstRound {
		picks = append(picks, models.DraftPick{
			ID:             uuid.New(),
			SeasonID:       seasonID,
			Round:          1,
			PickNumber:     i + 1,
			OriginalTeamID: teamID,
			CurrentTeamID:  teamID,
		})
	}
	for i := range firstRound {
		teamID := firstRound[len(firstRound)-1-i]
		picks = append(picks, models.DraftPick{
			ID:             uuid.New(),
			SeasonID:       seasonID,
			Round:          2,
			PickNumber:     TotalPicks/2 + i + 1,
			OriginalTeamID: teamID,
			CurrentTeamID:  teamID,
		})
	}
	return picks, nil
}
