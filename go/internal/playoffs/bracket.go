package playoffs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// Pure bracket rules: wins needed, home-court rotation, matchup
// derivation. No database access here.

// WinsNeeded returns the series wins required to advance at a round.
// The play-in is single elimination; every other round is best of seven.
func WinsNeeded(round int) int {
	if round == models.RoundPlayIn {
		return 1
	}
	return 4
}

// Game indices where the higher seed hosts, 0-based: the 2-2-1-1-1
// rotation. Games 2, 3 and 5 belong to the lower seed.
var higherSeedHomeGames = map[int]bool{0: true, 1: true, 4: true, 6: true}

// HigherSeedHome reports whether the higher seed hosts the given game
// index. The rotation is fixed by position, independent of the series
// score.
func HigherSeedHome(gameIndex int) bool {
	return higherSeedHomeGames[gameIndex]
}

// HomeTeamForGame returns the home team for the series' next game given
// how many games have been played.
func HomeTeamForGame(s *models.PlayoffSeries, gameIndex int) uuid.UUID {
	if HigherSeedHome(gameIndex) {
		return s.HigherSeedID
	}
	return s.LowerSeedID
}

// Matchup pairs two seeded teams; Higher is the better (numerically
// lower) seed.
type Matchup struct {
	HigherSeedID uuid.UUID
	LowerSeedID  uuid.UUID
	HigherSeed   int
	LowerSeed    int
}

// PlayInMatchups builds the play-in for one conference from its seeds
// (best record first). Two single-elimination games: 7 vs 10 for the
// seventh berth and 8 vs 9 for the eighth.
func PlayInMatchups(seeds []models.Standing) ([]Matchup, error) {
	if len(seeds) < 10 {
		return nil, fmt.Errorf("need at least 10 seeded teams, have %d", len(seeds))
	}
	return []Matchup{
		{HigherSeedID: seeds[6].TeamID, LowerSeedID: seeds[9].TeamID, HigherSeed: 7, LowerSeed: 10},
		{HigherSeedID: seeds[7].TeamID, LowerSeedID: seeds[8].TeamID, HigherSeed: 8, LowerSeed: 9},
	}, nil
}

// FirstRoundMatchups builds a conference's round-1 bracket from seeds
// 1-6 plus the two play-in winners, who enter as seeds 7 and 8. The
// pairings are 1v8, 4v5, 2v7, 3v6, in that order, so that adjacent
// series feed the same conference-semifinal slot.
func FirstRoundMatchups(seeds []models.Standing, seventhSeedID, eighthSeedID uuid.UUID) ([]Matchup, error) {
	if len(seeds) < 6 {
		return nil, fmt.Errorf("need at least 6 seeded teams, have %d", len(seeds))
	}
	bySeed := map[int]uuid.UUID{
		1: seeds[0].TeamID, 2: seeds[1].TeamID, 3: seeds[2].TeamID,
		4: seeds[3].TeamID, 5: seeds[4].TeamID, 6: seeds[5].TeamID,
		7: seventhSeedID, 8: eighthSeedID,
	}
	return []Matchup{
		{HigherSeedID: bySeed[1], LowerSeedID: bySeed[8], HigherSeed: 1, LowerSeed: 8},
		{HigherSeedID: bySeed[4], LowerSeedID: bySeed[5], HigherSeed: 4, LowerSeed: 5},
		{HigherSeedID: bySeed[2], LowerSeedID: bySeed[7], HigherSeed: 2, LowerSeed: 7},
		{HigherSeedID: bySeed[3], LowerSeedID: bySeed[6], HigherSeed: 3, LowerSeed: 6},
	}, nil
}

// NextRoundMatchups advances a conference's completed round under fixed
// bracket slotting: adjacent series in creation order feed the same
// next-round series, and the surviving team with the better original
// seed number is the higher seed. There is no global re-seed between
// rounds.
func NextRoundMatchups(completed []models.PlayoffSeries) ([]Matchup, error) {
	if len(completed)%2 != 0 {
		return nil, fmt.Errorf("cannot pair an odd number of series (%d)", len(completed))
	}
	var out []Matchup
	for i := 0; i+1 < len(completed); i += 2 {
		a, err := survivingSeed(&completed[i])
		if err != nil {
			return nil, err
		}
		b, err := survivingSeed(&completed[i+1])
		if err != nil {
			return nil, err
		}
		if a.seed <= b.seed {
			out = append(out, Matchup{HigherSeedID: a.teamID, LowerSeedID: b.teamID, HigherSeed: a.seed, LowerSeed: b.seed})
		} else {
			out = append(out, Matchup{HigherSeedID: b.teamID, LowerSeedID: a.teamID, HigherSeed: b.seed, LowerSeed: a.seed})
		}
	}
	return out, nil
}

// FinalsMatchup pairs the two conference champions. Home court goes to
// the champion with the better regular-season win total; ties go to the
// lower seed number, then to the East champion.
func FinalsMatchup(east, west models.PlayoffSeries, eastWins, westWins int) (Matchup, error) {
	e, err := survivingSeed(&east)
	if err != nil {
		return Matchup{}, err
	}
	w, err := survivingSeed(&west)
	if err != nil {
		return Matchup{}, err
	}

	eastHome := eastWins > westWins ||
		(eastWins == westWins && e.seed <= w.seed)
	if eastHome {
		return Matchup{HigherSeedID: e.teamID, LowerSeedID: w.teamID, HigherSeed: e.seed, LowerSeed: w.seed}, nil
	}
	return Matchup{HigherSeedID: w.teamID, LowerSeedID: e.teamID, HigherSeed: w.seed, LowerSeed: e.seed}, nil
}

type survivor struct {
	teamID uuid.UUID
	seed   int
}

func survivingSeed(s *models.PlayoffSeries) (survivor, error) {
	if s.Status != models.SeriesStatusCompleted || s.WinnerID == nil {
		return survivor{}, fmt.Errorf("series %s has not completed", s.ID)
	}
	if *s.WinnerID == s.HigherSeedID {
		return survivor{teamID: s.HigherSeedID, seed: s.HigherSeed}, nil
	}
	return survivor{teamID: s.LowerSeedID, seed: s.LowerSeed}, nil
}
