package draft_test

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/draft"
)

// TestGenerateProspectClass verifies the class is big enough to feed
// both draft rounds, carries playable ratings, and covers every
// position.
func TestGenerateProspectClass(t *testing.T) {
	seasonID := uuid.New()
	class := draft.GenerateProspectClass(seasonID, rand.New(rand.NewSource(7)))

	if len(class) != draft.ProspectClassSize {
		t.Fatalf("class has %d prospects, want %d", len(class), draft.ProspectClassSize)
	}
	if draft.ProspectClassSize < draft.TotalPicks {
		t.Fatalf("class size %d cannot cover %d picks", draft.ProspectClassSize, draft.TotalPicks)
	}

	positions := map[string]int{}
	ids := map[uuid.UUID]bool{}
	for i, p := range class {
		if p.SeasonID != seasonID {
			t.Fatalf("prospect %d bound to season %s", i, p.SeasonID)
		}
		if p.IsDrafted || p.DraftedByTeamID != nil {
			t.Fatalf("prospect %d generated already drafted", i)
		}
		if ids[p.ID] {
			t.Fatalf("duplicate prospect id %s", p.ID)
		}
		ids[p.ID] = true
		if p.FullName == "" {
			t.Fatalf("prospect %d has no name", i)
		}
		positions[p.Position]++

		r := p.Ratings
		for _, v := range []int{r.Overall, r.Inside, r.Outside, r.Playmake, r.Defense, r.Rebound, r.Stamina, r.Potential} {
			if v < 30 || v > 99 {
				t.Fatalf("prospect %d has rating %d outside 30..99", i, v)
			}
		}
		if r.Potential < r.Overall {
			t.Errorf("prospect %d potential %d below overall %d", i, r.Potential, r.Overall)
		}
	}

	for _, pos := range []string{"PG", "SG", "SF", "PF", "C"} {
		if positions[pos] == 0 {
			t.Errorf("class has no %s", pos)
		}
	}
}

// TestGenerateProspectClass_TopHeavy verifies the ratings curve: the
// front of the class outrates the back.
func TestGenerateProspectClass_TopHeavy(t *testing.T) {
	class := draft.GenerateProspectClass(uuid.New(), rand.New(rand.NewSource(3)))

	front, back := 0, 0
	for i := 0; i < 10; i++ {
		front += class[i].Ratings.Overall
		back += class[len(class)-1-i].Ratings.Overall
	}
	if front <= back {
		t.Errorf("front of class averages %d, back %d; want a descending curve", front/10, back/10)
	}
}

// TestGenerateProspectClass_Deterministic verifies a fixed seed replays
// the same ratings sheet.
func TestGenerateProspectClass_Deterministic(t *testing.T) {
	seasonID := uuid.New()
	a := draft.GenerateProspectClass(seasonID, rand.New(rand.NewSource(42)))
	b := draft.GenerateProspectClass(seasonID, rand.New(rand.NewSource(42)))

	for i := range a {
		if a[i].FullName != b[i].FullName || a[i].Ratings != b[i].Ratings || a[i].Age != b[i].Age {
			t.Fatalf("prospect %d differs between replays", i)
		}
	}
}
