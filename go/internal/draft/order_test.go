package draft_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/draft"
)

func teamIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

// TestBuildPickOrder verifies the 60-pick board: round 1 is lottery
// order then playoff teams, round 2 is the exact reverse.
func TestBuildPickOrder(t *testing.T) {
	seasonID := uuid.New()
	lottery := teamIDs(draft.LotterySize)
	playoff := teamIDs(16)

	picks, err := draft.BuildPickOrder(seasonID, lottery, playoff)
	if err != nil {
		t.Fatalf("BuildPickOrder failed: %v", err)
	}
	if len(picks) != draft.TotalPicks {
		t.Fatalf("got %d picks, want %d", len(picks), draft.TotalPicks)
	}

	firstRound := append(append([]uuid.UUID{}, lottery...), playoff...)
	for i, p := range picks {
		if p.SeasonID != seasonID {
			t.Errorf("pick %d bound to the wrong season", i)
		}
		if p.PickNumber != i+1 {
			t.Errorf("pick %d has number %d", i, p.PickNumber)
		}
		if p.PlayerID != nil {
			t.Errorf("pick %d already used", i)
		}
		if p.OriginalTeamID != p.CurrentTeamID {
			t.Errorf("pick %d starts traded", i)
		}

		wantRound := 1
		wantTeam := firstRound[i%30]
		if i >= 30 {
			wantRound = 2
			wantTeam = firstRound[29-(i-30)]
		}
		if p.Round != wantRound {
			t.Errorf("pick %d in round %d, want %d", i+1, p.Round, wantRound)
		}
		if p.OriginalTeamID != wantTeam {
			t.Errorf("pick %d belongs to the wrong team", i+1)
		}
	}
}

func TestBuildPickOrder_WrongLotterySize(t *testing.T) {
	if _, err := draft.BuildPickOrder(uuid.New(), teamIDs(10), teamIDs(16)); err == nil {
		t.Error("expected an error for a short lottery order")
	}
}

func TestBuildPickOrder_WrongPlayoffCount(t *testing.T) {
	if _, err := draft.BuildPickOrder(uuid.New(), teamIDs(draft.LotterySize), teamIDs(12)); err == nil {
		t.Error("expected an error when the first round is not 30 teams")
	}
}
