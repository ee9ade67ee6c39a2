package playoffs_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/playoffs"
)

func seededStandings(n int) []models.Standing {
	seeds := make([]models.Standing, n)
	for i := range seeds {
		seeds[i] = models.Standing{
			TeamID:     uuid.New(),
			Conference: models.ConferenceEast,
			Wins:       60 - i,
			Losses:     22 + i,
			Seed:       i + 1,
		}
	}
	return seeds
}

func completedSeries(round, higherSeed, lowerSeed int, higherWins bool) models.PlayoffSeries {
	s := models.PlayoffSeries{
		ID:           uuid.New(),
		Round:        round,
		HigherSeedID: uuid.New(),
		LowerSeedID:  uuid.New(),
		HigherSeed:   higherSeed,
		LowerSeed:    lowerSeed,
		Status:       models.SeriesStatusCompleted,
	}
	if higherWins {
		s.HigherSeedWins = 4
		s.LowerSeedWins = 1
		s.WinnerID = &s.HigherSeedID
	} else {
		s.HigherSeedWins = 2
		s.LowerSeedWins = 4
		s.WinnerID = &s.LowerSeedID
	}
	return s
}

func TestWinsNeeded(t *testing.T) {
	if got := playoffs.WinsNeeded(models.RoundPlayIn); got != 1 {
		t.Errorf("play-in needs %d wins, want 1", got)
	}
	for _, round := range []int{models.RoundFirst, models.RoundConfSemis, models.RoundConfFinals, models.RoundFinals} {
		if got := playoffs.WinsNeeded(round); got != 4 {
			t.Errorf("round %d needs %d wins, want 4", round, got)
		}
	}
}

// TestHigherSeedHome_Rotation verifies the 2-2-1-1-1 home pattern: the
// higher seed hosts games 1, 2, 5 and 7.
func TestHigherSeedHome_Rotation(t *testing.T) {
	want := []bool{true, true, false, false, true, false, true}
	for i, expect := range want {
		if got := playoffs.HigherSeedHome(i); got != expect {
			t.Errorf("game index %d: higher seed home = %v, want %v", i, got, expect)
		}
	}
}

func TestHomeTeamForGame(t *testing.T) {
	s := &models.PlayoffSeries{HigherSeedID: uuid.New(), LowerSeedID: uuid.New()}
	if got := playoffs.HomeTeamForGame(s, 0); got != s.HigherSeedID {
		t.Errorf("game 1 home = %s, want the higher seed", got)
	}
	if got := playoffs.HomeTeamForGame(s, 2); got != s.LowerSeedID {
		t.Errorf("game 3 home = %s, want the lower seed", got)
	}
}

// TestPlayInMatchups verifies the 7v10 and 8v9 single-elimination games.
func TestPlayInMatchups(t *testing.T) {
	seeds := seededStandings(15)

	matchups, err := playoffs.PlayInMatchups(seeds)
	if err != nil {
		t.Fatalf("PlayInMatchups failed: %v", err)
	}
	if len(matchups) != 2 {
		t.Fatalf("got %d play-in games, want 2", len(matchups))
	}
	if matchups[0].HigherSeedID != seeds[6].TeamID || matchups[0].LowerSeedID != seeds[9].TeamID {
		t.Errorf("first play-in game is not 7 vs 10")
	}
	if matchups[1].HigherSeedID != seeds[7].TeamID || matchups[1].LowerSeedID != seeds[8].TeamID {
		t.Errorf("second play-in game is not 8 vs 9")
	}
}

func TestPlayInMatchups_TooFewTeams(t *testing.T) {
	if _, err := playoffs.PlayInMatchups(seededStandings(9)); err == nil {
		t.Error("expected an error for 9 seeded teams")
	}
}

// TestFirstRoundMatchups verifies the 1v8, 4v5, 2v7, 3v6 pairing order,
// with the play-in winners slotted in as seeds 7 and 8.
func TestFirstRoundMatchups(t *testing.T) {
	seeds := seededStandings(15)
	seventh := uuid.New()
	eighth := uuid.New()

	matchups, err := playoffs.FirstRoundMatchups(seeds, seventh, eighth)
	if err != nil {
		t.Fatalf("FirstRoundMatchups failed: %v", err)
	}
	if len(matchups) != 4 {
		t.Fatalf("got %d first-round series, want 4", len(matchups))
	}

	wantPairs := [][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}
	for i, pair := range wantPairs {
		if matchups[i].HigherSeed != pair[0] || matchups[i].LowerSeed != pair[1] {
			t.Errorf("series %d is %dv%d, want %dv%d",
				i, matchups[i].HigherSeed, matchups[i].LowerSeed, pair[0], pair[1])
		}
	}
	if matchups[0].LowerSeedID != eighth {
		t.Errorf("seed 8 slot is not the second play-in winner")
	}
	if matchups[2].LowerSeedID != seventh {
		t.Errorf("seed 7 slot is not the first play-in winner")
	}
	if matchups[0].HigherSeedID != seeds[0].TeamID {
		t.Errorf("seed 1 slot is not the conference leader")
	}
}

// TestNextRoundMatchups_AdjacentPairing verifies adjacent series feed
// the same next-round slot and the better surviving seed gets home
// court, with no re-seed between rounds.
func TestNextRoundMatchups_AdjacentPairing(t *testing.T) {
	// 1 beats 8, 5 upsets 4, 7 upsets 2, 3 beats 6.
	completed := []models.PlayoffSeries{
		completedSeries(models.RoundFirst, 1, 8, true),
		completedSeries(models.RoundFirst, 4, 5, false),
		completedSeries(models.RoundFirst, 2, 7, false),
		completedSeries(models.RoundFirst, 3, 6, true),
	}

	matchups, err := playoffs.NextRoundMatchups(completed)
	if err != nil {
		t.Fatalf("NextRoundMatchups failed: %v", err)
	}
	if len(matchups) != 2 {
		t.Fatalf("got %d semifinal series, want 2", len(matchups))
	}

	if matchups[0].HigherSeed != 1 || matchups[0].LowerSeed != 5 {
		t.Errorf("first semifinal is %dv%d, want 1v5", matchups[0].HigherSeed, matchups[0].LowerSeed)
	}
	if matchups[0].HigherSeedID != completed[0].HigherSeedID {
		t.Errorf("seed 1 did not carry through to the semifinal")
	}
	// 3 outranks 7 even though 7 came from the upper half of the bracket.
	if matchups[1].HigherSeed != 3 || matchups[1].LowerSeed != 7 {
		t.Errorf("second semifinal is %dv%d, want 3v7", matchups[1].HigherSeed, matchups[1].LowerSeed)
	}
}

func TestNextRoundMatchups_OddSeriesCount(t *testing.T) {
	completed := []models.PlayoffSeries{completedSeries(models.RoundFirst, 1, 8, true)}
	if _, err := playoffs.NextRoundMatchups(completed); err == nil {
		t.Error("expected an error pairing an odd number of series")
	}
}

func TestNextRoundMatchups_IncompleteSeries(t *testing.T) {
	completed := []models.PlayoffSeries{
		completedSeries(models.RoundFirst, 1, 8, true),
		completedSeries(models.RoundFirst, 4, 5, true),
	}
	completed[1].Status = models.SeriesStatusInProgress
	completed[1].WinnerID = nil

	if _, err := playoffs.NextRoundMatchups(completed); err == nil {
		t.Error("expected an error for an unfinished series")
	}
}

// TestFinalsMatchup_HomeCourt verifies home court in the finals goes to
// the champion with the better regular-season record, then to the lower
// seed number, then to the East.
func TestFinalsMatchup_HomeCourt(t *testing.T) {
	east := completedSeries(models.RoundConfFinals, 1, 2, true)
	west := completedSeries(models.RoundConfFinals, 1, 3, false)

	// West champion has more wins.
	m, err := playoffs.FinalsMatchup(east, west, 58, 61)
	if err != nil {
		t.Fatalf("FinalsMatchup failed: %v", err)
	}
	if m.HigherSeedID != west.LowerSeedID {
		t.Errorf("home court did not go to the team with more wins")
	}

	// Equal wins: seed 1 (East) outranks seed 3 (West).
	m, err = playoffs.FinalsMatchup(east, west, 60, 60)
	if err != nil {
		t.Fatalf("FinalsMatchup failed: %v", err)
	}
	if m.HigherSeedID != east.HigherSeedID {
		t.Errorf("home court did not go to the lower seed number on a wins tie")
	}

	// Equal wins and equal seeds: the East champion hosts.
	west2 := completedSeries(models.RoundConfFinals, 1, 2, true)
	m, err = playoffs.FinalsMatchup(east, west2, 60, 60)
	if err != nil {
		t.Fatalf("FinalsMatchup failed: %v", err)
	}
	if m.HigherSeedID != east.HigherSeedID {
		t.Errorf("full tie did not break toward the East champion")
	}
}
