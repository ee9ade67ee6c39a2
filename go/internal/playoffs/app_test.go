package playoffs_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/events"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/playoffs"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

// fakeSeriesRepo keeps series in memory. RunTx and RunLocked pass a nil
// transaction straight through; the callbacks never dereference it.
type fakeSeriesRepo struct {
	mu     sync.Mutex
	series map[uuid.UUID]*models.PlayoffSeries
}

func newFakeSeriesRepo() *fakeSeriesRepo {
	return &fakeSeriesRepo{series: make(map[uuid.UUID]*models.PlayoffSeries)}
}

func (r *fakeSeriesRepo) CreateSeries(_ context.Context, _ *sql.Tx, series []models.PlayoffSeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range series {
		s := series[i]
		s.CreatedAt = time.Now()
		r.series[s.ID] = &s
	}
	return nil
}

func (r *fakeSeriesRepo) GetSeries(_ context.Context, id uuid.UUID) (*models.PlayoffSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok {
		return nil, playoffs.ErrSeriesNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSeriesRepo) GetSeriesForUpdate(ctx context.Context, _ *sql.Tx, id uuid.UUID) (*models.PlayoffSeries, error) {
	return r.GetSeries(ctx, id)
}

func (r *fakeSeriesRepo) ListByRound(_ context.Context, seasonID uuid.UUID, round int) ([]models.PlayoffSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PlayoffSeries
	for _, s := range r.series {
		if s.SeasonID == seasonID && s.Round == round {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessSeries(out[i], out[j]) })
	return out, nil
}

// lessSeries orders series the way the SQL repository does: conference
// then bracket slot.
func lessSeries(a, b models.PlayoffSeries) bool {
	ac, bc := "", ""
	if a.Conference != nil {
		ac = string(*a.Conference)
	}
	if b.Conference != nil {
		bc = string(*b.Conference)
	}
	if ac != bc {
		return ac < bc
	}
	return a.BracketSlot < b.BracketSlot
}

func (r *fakeSeriesRepo) RoundExists(_ context.Context, _ *sql.Tx, seasonID uuid.UUID, round int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.series {
		if s.SeasonID == seasonID && s.Round == round {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSeriesRepo) ApplyGameResult(_ context.Context, _ *sql.Tx, id uuid.UUID, higherSeedWon bool, completed bool, winnerID *uuid.UUID) (*models.PlayoffSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok {
		return nil, playoffs.ErrSeriesNotFound
	}
	if higherSeedWon {
		s.HigherSeedWins++
	} else {
		s.LowerSeedWins++
	}
	s.Status = models.SeriesStatusInProgress
	if completed {
		s.Status = models.SeriesStatusCompleted
		s.WinnerID = winnerID
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSeriesRepo) RunTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

func (r *fakeSeriesRepo) RunLocked(_ context.Context, _ sqlutil.LockKey, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fakeStandingsRepo struct {
	seeds map[models.Conference][]models.Standing
}

func newFakeStandingsRepo(seasonID uuid.UUID) *fakeStandingsRepo {
	r := &fakeStandingsRepo{seeds: make(map[models.Conference][]models.Standing)}
	for _, conf := range []models.Conference{models.ConferenceEast, models.ConferenceWest} {
		var seeds []models.Standing
		for i := 0; i < 15; i++ {
			seeds = append(seeds, models.Standing{
				SeasonID:   seasonID,
				TeamID:     uuid.New(),
				Conference: conf,
				Wins:       60 - i,
				Losses:     22 + i,
				Seed:       i + 1,
			})
		}
		r.seeds[conf] = seeds
	}
	return r
}

func (r *fakeStandingsRepo) ConferenceSeeds(_ context.Context, _ uuid.UUID, conf models.Conference) ([]models.Standing, error) {
	return r.seeds[conf], nil
}

func (r *fakeStandingsRepo) GetStanding(_ context.Context, _, teamID uuid.UUID) (*models.Standing, error) {
	for _, seeds := range r.seeds {
		for i := range seeds {
			if seeds[i].TeamID == teamID {
				return &seeds[i], nil
			}
		}
	}
	return nil, errors.New("standing not found")
}

func (r *fakeStandingsRepo) Count(_ context.Context, _ uuid.UUID) (int, error) {
	n := 0
	for _, seeds := range r.seeds {
		n += len(seeds)
	}
	return n, nil
}

type fakePlayerRepo struct{}

func (fakePlayerRepo) GetTeamRoster(_ context.Context, _ uuid.UUID) ([]models.Player, error) {
	return nil, nil
}

type fakeGameRepo struct {
	mu    sync.Mutex
	games []models.Game
}

func (r *fakeGameRepo) InsertGame(_ context.Context, _ *sql.Tx, g models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games = append(r.games, g)
	return nil
}

// fakeSeasonRepo mirrors the conditional champion write: only the first
// call claims it.
type fakeSeasonRepo struct {
	mu         sync.Mutex
	champion   *uuid.UUID
	setAttempt int
}

func (r *fakeSeasonRepo) SetChampion(_ context.Context, _ *sql.Tx, _, teamID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setAttempt++
	if r.champion != nil {
		return false, nil
	}
	r.champion = &teamID
	return true, nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []string
}

func (o *fakeOutbox) Insert(_ context.Context, _ *sql.Tx, _ uuid.UUID, eventType string, _ any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, eventType)
	return nil
}

func (o *fakeOutbox) count(eventType string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, e := range o.events {
		if e == eventType {
			n++
		}
	}
	return n
}

// homeWinsSimulator always awards the game to the home team, which makes
// a best-of-seven under the 2-2-1-1-1 rotation run the full seven games.
type homeWinsSimulator struct{}

func (homeWinsSimulator) SimulateGame(homeTeamID, _ uuid.UUID, _, _ []models.Player) sim.GameResult {
	return sim.GameResult{HomeScore: 110, AwayScore: 102, WinnerID: homeTeamID}
}

type playoffFixture struct {
	app       *playoffs.App
	repo      *fakeSeriesRepo
	standings *fakeStandingsRepo
	games     *fakeGameRepo
	seasons   *fakeSeasonRepo
	outbox    *fakeOutbox
	seasonID  uuid.UUID
}

func newPlayoffFixture(t *testing.T) *playoffFixture {
	t.Helper()
	seasonID := uuid.New()
	f := &playoffFixture{
		repo:      newFakeSeriesRepo(),
		standings: newFakeStandingsRepo(seasonID),
		games:     &fakeGameRepo{},
		seasons:   &fakeSeasonRepo{},
		outbox:    &fakeOutbox{},
		seasonID:  seasonID,
	}
	f.app = playoffs.NewApp(f.repo, f.standings, fakePlayerRepo{}, f.games, f.seasons, f.outbox, homeWinsSimulator{})
	return f
}

// TestStartPlayoffs creates the play-in: two single-elimination games
// per conference.
func TestStartPlayoffs(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	series, err := f.app.StartPlayoffs(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("StartPlayoffs failed: %v", err)
	}
	if len(series) != 4 {
		t.Fatalf("got %d play-in series, want 4", len(series))
	}
	for _, s := range series {
		if s.Round != models.RoundPlayIn {
			t.Errorf("series %s in round %d, want the play-in", s.ID, s.Round)
		}
		if s.Status != models.SeriesStatusScheduled {
			t.Errorf("series %s created with status %s", s.ID, s.Status)
		}
	}
}

// TestStartPlayoffs_Idempotent verifies a second start returns the
// existing bracket instead of creating a duplicate round.
func TestStartPlayoffs_Idempotent(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	first, err := f.app.StartPlayoffs(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("first StartPlayoffs failed: %v", err)
	}
	second, err := f.app.StartPlayoffs(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("second StartPlayoffs failed: %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("second start returned %d series, want the original %d", len(second), len(first))
	}
	if len(f.repo.series) != 4 {
		t.Errorf("store holds %d series, want 4", len(f.repo.series))
	}
}

// TestStartPlayoffs_StandingsIncomplete rejects a bracket over partial
// standings.
func TestStartPlayoffs_StandingsIncomplete(t *testing.T) {
	f := newPlayoffFixture(t)
	f.standings.seeds[models.ConferenceWest] = f.standings.seeds[models.ConferenceWest][:5]

	_, err := f.app.StartPlayoffs(context.Background(), f.seasonID)
	if !errors.Is(err, playoffs.ErrStandingsIncomplete) {
		t.Fatalf("got %v, want ErrStandingsIncomplete", err)
	}
}

// TestSimulateSeriesGame_PlayIn verifies a play-in game is single
// elimination: one game decides the series.
func TestSimulateSeriesGame_PlayIn(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	series, err := f.app.StartPlayoffs(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("StartPlayoffs failed: %v", err)
	}

	out, err := f.app.SimulateSeriesGame(ctx, series[0].ID)
	if err != nil {
		t.Fatalf("SimulateSeriesGame failed: %v", err)
	}
	if !out.SeriesCompleted {
		t.Error("play-in game did not complete the series")
	}
	if out.Series.WinnerID == nil {
		t.Error("completed series has no winner")
	}
	// The higher seed hosts a single-elimination game and the home team
	// always wins here.
	if *out.Series.WinnerID != series[0].HigherSeedID {
		t.Error("home win was not credited to the hosting higher seed")
	}
}

// TestSimulateSeriesGame_Completed verifies replaying a finished series
// is benign.
func TestSimulateSeriesGame_Completed(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	series, err := f.app.StartPlayoffs(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("StartPlayoffs failed: %v", err)
	}
	if _, err := f.app.SimulateSeriesGame(ctx, series[0].ID); err != nil {
		t.Fatalf("first game failed: %v", err)
	}

	gamesBefore := len(f.games.games)
	out, err := f.app.SimulateSeriesGame(ctx, series[0].ID)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !out.AlreadyCompleted {
		t.Error("expected an AlreadyCompleted outcome")
	}
	if len(f.games.games) != gamesBefore {
		t.Error("replay inserted a game")
	}
}

// TestSimulateSeries_BestOfSeven verifies a full series respects the
// win target and the home rotation. With the home team always winning,
// the 2-2-1-1-1 pattern forces a seven game series won by the higher
// seed.
func TestSimulateSeries_BestOfSeven(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	east := models.ConferenceEast
	s := models.PlayoffSeries{
		ID:           uuid.New(),
		SeasonID:     f.seasonID,
		Round:        models.RoundFirst,
		Conference:   &east,
		HigherSeedID: uuid.New(),
		LowerSeedID:  uuid.New(),
		HigherSeed:   1,
		LowerSeed:    8,
		Status:       models.SeriesStatusScheduled,
	}
	if err := f.repo.CreateSeries(ctx, nil, []models.PlayoffSeries{s}); err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}

	out, err := f.app.SimulateSeries(ctx, s.ID)
	if err != nil {
		t.Fatalf("SimulateSeries failed: %v", err)
	}
	if out.GamesPlayed != 7 {
		t.Errorf("series ran %d games, want 7", out.GamesPlayed)
	}
	if out.Series.HigherSeedWins != 4 || out.Series.LowerSeedWins != 3 {
		t.Errorf("final count %d-%d, want 4-3", out.Series.HigherSeedWins, out.Series.LowerSeedWins)
	}
	if *out.Series.WinnerID != s.HigherSeedID {
		t.Error("higher seed did not win the seventh home game")
	}
}

// TestGenerateNextRoundIfReady_Idempotent completes the play-in and
// checks a double advance creates the first round exactly once.
func TestGenerateNextRoundIfReady_Idempotent(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	series, err := f.app.StartPlayoffs(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("StartPlayoffs failed: %v", err)
	}
	for _, s := range series {
		if _, err := f.app.SimulateSeries(ctx, s.ID); err != nil {
			t.Fatalf("SimulateSeries failed: %v", err)
		}
	}

	created, err := f.app.GenerateNextRoundIfReady(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("first advance failed: %v", err)
	}
	if !created {
		t.Fatal("first advance created nothing")
	}
	created, err = f.app.GenerateNextRoundIfReady(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("second advance failed: %v", err)
	}
	if created {
		t.Error("second advance created a duplicate round")
	}

	firstRound, err := f.repo.ListByRound(ctx, f.seasonID, models.RoundFirst)
	if err != nil {
		t.Fatalf("ListByRound failed: %v", err)
	}
	if len(firstRound) != 8 {
		t.Errorf("first round has %d series, want 8", len(firstRound))
	}
}

// TestGenerateNextRoundIfReady_RoundLive does nothing while the latest
// round still has unfinished series.
func TestGenerateNextRoundIfReady_RoundLive(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	if _, err := f.app.StartPlayoffs(ctx, f.seasonID); err != nil {
		t.Fatalf("StartPlayoffs failed: %v", err)
	}
	created, err := f.app.GenerateNextRoundIfReady(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if created {
		t.Error("advanced past a live round")
	}
}

// TestSimulateAll runs the whole bracket and verifies the champion is
// crowned exactly once even when the final sweep repeats.
func TestSimulateAll(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	if _, err := f.app.StartPlayoffs(ctx, f.seasonID); err != nil {
		t.Fatalf("StartPlayoffs failed: %v", err)
	}
	summary, err := f.app.SimulateAll(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("SimulateAll failed: %v", err)
	}
	if summary.ChampionID == nil {
		t.Fatal("no champion crowned")
	}
	if f.seasons.champion == nil || *f.seasons.champion != *summary.ChampionID {
		t.Error("season champion does not match the finals winner")
	}
	if got := f.outbox.count(events.TypeChampionCrowned); got != 1 {
		t.Errorf("ChampionCrowned emitted %d times, want 1", got)
	}

	// A second full sweep over the finished bracket must not re-crown.
	if _, err := f.app.SimulateRound(ctx, f.seasonID); err != nil {
		t.Fatalf("post-championship sweep failed: %v", err)
	}
	if got := f.outbox.count(events.TypeChampionCrowned); got != 1 {
		t.Errorf("ChampionCrowned emitted %d times after re-sweep, want 1", got)
	}

	// Play-in 4, first round 8, semis 4, conference finals 2, finals 1.
	total := 0
	for round := models.RoundPlayIn; round <= models.RoundFinals; round++ {
		series, err := f.repo.ListByRound(ctx, f.seasonID, round)
		if err != nil {
			t.Fatalf("ListByRound failed: %v", err)
		}
		total += len(series)
		for _, s := range series {
			if s.Status != models.SeriesStatusCompleted {
				t.Errorf("series %s in round %d left unfinished", s.ID, round)
			}
		}
	}
	if total != 19 {
		t.Errorf("bracket holds %d series, want 19", total)
	}
}

// TestSimulateRound_SweepsCurrentRound verifies a sweep finishes every
// series of the live round and generates the next one.
func TestSimulateRound_SweepsCurrentRound(t *testing.T) {
	f := newPlayoffFixture(t)
	ctx := context.Background()

	series, err := f.app.StartPlayoffs(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("StartPlayoffs failed: %v", err)
	}
	// Pre-finish one series; the sweep should skip it.
	if _, err := f.app.SimulateSeries(ctx, series[0].ID); err != nil {
		t.Fatalf("SimulateSeries failed: %v", err)
	}

	summary, err := f.app.SimulateRound(ctx, f.seasonID)
	if err != nil {
		t.Fatalf("SimulateRound failed: %v", err)
	}
	if summary.Round != models.RoundPlayIn {
		t.Errorf("swept round %d, want the play-in", summary.Round)
	}
	if summary.SeriesSkipped != 1 || summary.SeriesSimulated != 3 {
		t.Errorf("sweep simulated %d and skipped %d, want 3 and 1",
			summary.SeriesSimulated, summary.SeriesSkipped)
	}
	if !summary.NextRoundCreated {
		t.Error("sweep did not generate the first round")
	}
}

// TestSimulateRound_NotStarted rejects a sweep before the bracket
// exists.
func TestSimulateRound_NotStarted(t *testing.T) {
	f := newPlayoffFixture(t)
	_, err := f.app.SimulateRound(context.Background(), f.seasonID)
	if !errors.Is(err, playoffs.ErrPlayoffsNotStarted) {
		t.Fatalf("got %v, want ErrPlayoffsNotStarted", err)
	}
}
