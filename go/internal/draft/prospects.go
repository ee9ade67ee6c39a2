package draft

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// ProspectClassSize is how many prospects a season's class carries,
// comfortably more than the 60 picks so auto-draft never runs dry.
const ProspectClassSize = 75

var prospectFirstNames = []string{
	"Marcus", "Jalen", "Tyrese", "Devin", "Malik", "Darius", "Isaiah",
	"Cameron", "Trey", "Jaylen", "Andre", "Keon", "Zion", "Chet",
	"Victor", "Scoot", "Amen", "Ausar", "Brandon", "Cade",
}

var prospectLastNames = []string{
	"Johnson", "Williams", "Carter", "Mitchell", "Brooks", "Edwards",
	"Holmes", "Jackson", "Thompson", "Banchero", "Murray", "Porter",
	"Green", "Sharpe", "Henderson", "Whitmore", "Walker", "Dick",
	"Hendricks", "Coulibaly",
}

var prospectPositions = []string{"PG", "SG", "SF", "PF", "C"}

// GenerateProspectClass builds one season's draft class: a top-heavy
// ratings curve with per-skill noise, positions cycling so every slot
// stays draftable by need. Deterministic for a given rng.
func GenerateProspectClass(seasonID uuid.UUID, rng *rand.Rand) []models.DraftProspect {
	out := make([]models.DraftProspect, ProspectClassSize)
	for i := range out {
		overall := 85 - i/2 - rng.Intn(4)
		if overall < 40 {
			overall = 40
		}
		potential := overall + 4 + rng.Intn(12)
		if potential > 99 {
			potential = 99
		}
		out[i] = models.DraftProspect{
			ID:       uuid.New(),
			SeasonID: seasonID,
			FullName: fmt.Sprintf("%s %s",
				prospectFirstNames[rng.Intn(len(prospectFirstNames))],
				prospectLastNames[rng.Intn(len(prospectLastNames))]),
			Position: prospectPositions[i%len(prospectPositions)],
			Age:      19 + rng.Intn(4),
			Ratings: models.PlayerRatings{
				Overall:   overall,
				Inside:    skillAround(overall, rng),
				Outside:   skillAround(overall, rng),
				Playmake:  skillAround(overall, rng),
				Defense:   skillAround(overall, rng),
				Rebound:   skillAround(overall, rng),
				Stamina:   60 + rng.Intn(35),
				Potential: potential,
			},
		}
	}
	return out
}

// skillAround scatters a skill rating around the overall, clamped to a
// playable range.
func skillAround(overall int, rng *rand.Rand) int {
	v := overall - 8 + rng.Intn(17)
	if v < 30 {
		v = 30
	}
	if v > 99 {
		v = 99
	}
	return v
}
