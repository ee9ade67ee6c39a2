package sim

import (
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// RatingSimulator is the default GameSimulator: team strength from the
// top-eight rotation's ratings, a small home edge, gaussian noise.
type RatingSimulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRatingSimulator constructs a simulator with its own seed.
func NewRatingSimulator() *RatingSimulator {
	src := rand.NewSource(time.Now().UnixNano())
	return &RatingSimulator{rng: rand.New(src)}
}

// NewRatingSimulatorWithRand constructs a simulator over a caller-owned
// random source, for deterministic replays.
func NewRatingSimulatorWithRand(rng *rand.Rand) *RatingSimulator {
	return &RatingSimulator{rng: rng}
}

const homeCourtEdge = 2.5

func (s *RatingSimulator) SimulateGame(homeTeamID, awayTeamID uuid.UUID, homeRoster, awayRoster []models.Player) GameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	homeStrength := rotationStrength(homeRoster) + homeCourtEdge
	awayStrength := rotationStrength(awayRoster)

	homeScore := baseScore(s.rng, homeStrength)
	awayScore := baseScore(s.rng, awayStrength)
	// No ties in basketball; replay overtime until someone leads.
	for homeScore == awayScore {
		homeScore += s.rng.Intn(8)
		awayScore += s.rng.Intn(8)
	}

	winnerID := homeTeamID
	if awayScore > homeScore {
		winnerID = awayTeamID
	}

	stats, _ := json.Marshal(map[string]any{
		"home_rotation_strength": homeStrength,
		"away_rotation_strength": awayStrength,
	})

	return GameResult{
		HomeScore: homeScore,
		AwayScore: awayScore,
		WinnerID:  winnerID,
		BoxStats:  stats,
	}
}

func rotationStrength(roster []models.Player) float64 {
	if len(roster) == 0 {
		return 40 // skeleton crew
	}
	overalls := make([]int, len(roster))
	for i, p := range roster {
		overalls[i] = p.Ratings.Overall
	}
	sort.Sort(sort.Reverse(sort.IntSlice(overalls)))

	n := len(overalls)
	if n > 8 {
		n = 8
	}
	sum := 0
	for _, v := range overalls[:n] {
		sum += v
	}
	return float64(sum) / float64(n)
}

func baseScore(rng *rand.Rand, strength float64) int {
	score := 70 + strength/2 + rng.NormFloat64()*8
	if score < 60 {
		score = 60
	}
	return int(score)
}
