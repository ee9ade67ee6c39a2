package playoffs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hardwoodgm/hardwood/go/internal/events"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

// LeagueSize is the number of teams that must hold standings before a
// bracket can be generated.
const LeagueSize = 30

// SeriesRepository defines what the playoffs app needs from the series store.
type SeriesRepository interface {
	CreateSeries(ctx context.Context, tx *sql.Tx, series []models.PlayoffSeries) error
	GetSeries(ctx context.Context, id uuid.UUID) (*models.PlayoffSeries, error)
	GetSeriesForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.PlayoffSeries, error)
	ListByRound(ctx context.Context, seasonID uuid.UUID, round int) ([]models.PlayoffSeries, error)
	RoundExists(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, round int) (bool, error)
	ApplyGameResult(ctx context.Context, tx *sql.Tx, id uuid.UUID, higherSeedWon bool, completed bool, winnerID *uuid.UUID) (*models.PlayoffSeries, error)
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	RunLocked(ctx context.Context, key sqlutil.LockKey, fn func(tx *sql.Tx) error) error
}

// StandingsRepository provides the seeding inputs.
type StandingsRepository interface {
	ConferenceSeeds(ctx context.Context, seasonID uuid.UUID, conf models.Conference) ([]models.Standing, error)
	GetStanding(ctx context.Context, seasonID, teamID uuid.UUID) (*models.Standing, error)
	Count(ctx context.Context, seasonID uuid.UUID) (int, error)
}

// PlayerRepository provides rosters for the game simulator.
type PlayerRepository interface {
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
}

// GameRepository persists played games.
type GameRepository interface {
	InsertGame(ctx context.Context, tx *sql.Tx, g models.Game) error
}

// SeasonRepository receives the champion when the finals complete.
// SetChampion writes only while no champion is recorded and reports
// whether this call did the write.
type SeasonRepository interface {
	SetChampion(ctx context.Context, tx *sql.Tx, seasonID, teamID uuid.UUID) (bool, error)
}

// OutboxRepository records domain events transactionally.
type OutboxRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, eventType string, payload any) error
}

// App drives the playoff bracket state machine.
type App struct {
	repo      SeriesRepository
	standings StandingsRepository
	players   PlayerRepository
	games     GameRepository
	seasons   SeasonRepository
	outbox    OutboxRepository
	simulator sim.GameSimulator
}

func NewApp(repo SeriesRepository, standings StandingsRepository, players PlayerRepository, games GameRepository, seasons SeasonRepository, outbox OutboxRepository, simulator sim.GameSimulator) *App {
	return &App{
		repo:      repo,
		standings: standings,
		players:   players,
		games:     games,
		seasons:   seasons,
		outbox:    outbox,
		simulator: simulator,
	}
}

// StartPlayoffs validates standings and generates the play-in round:
// seeds 7-10 per conference, single elimination. Generation is
// claim-protected, so two concurrent starts create the round once; the
// loser gets the existing bracket back.
func (a *App) StartPlayoffs(ctx context.Context, seasonID uuid.UUID) ([]models.PlayoffSeries, error) {
	count, err := a.standings.Count(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if count < LeagueSize {
		return nil, fmt.Errorf("%d of %d teams have standings: %w", count, LeagueSize, ErrStandingsIncomplete)
	}

	var toCreate []models.PlayoffSeries
	for _, conf := range []models.Conference{models.ConferenceEast, models.ConferenceWest} {
		seeds, err := a.standings.ConferenceSeeds(ctx, seasonID, conf)
		if err != nil {
			return nil, err
		}
		if len(seeds) < 10 {
			return nil, fmt.Errorf("%s conference has %d seeded teams: %w", conf, len(seeds), ErrStandingsIncomplete)
		}
		matchups, err := PlayInMatchups(seeds)
		if err != nil {
			return nil, err
		}
		toCreate = append(toCreate, seriesFromMatchups(seasonID, models.RoundPlayIn, &conf, matchups)...)
	}

	key := sqlutil.LockKey{Kind: sqlutil.LockRoundAdvance, ID: roundKey(seasonID, models.RoundPlayIn)}
	err = a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		exists, err := a.repo.RoundExists(ctx, tx, seasonID, models.RoundPlayIn)
		if err != nil {
			return err
		}
		if exists {
			return nil // concurrent start already created the bracket
		}
		return a.repo.CreateSeries(ctx, tx, toCreate)
	})
	if err != nil {
		return nil, err
	}

	created, err := a.repo.ListByRound(ctx, seasonID, models.RoundPlayIn)
	if err != nil {
		return nil, err
	}
	log.Info().Str("season_id", seasonID.String()).Int("series", len(created)).Msg("playoffs started")
	return created, nil
}

// SimulateSeriesGame plays the next game of a series. The series
// advisory lock orders concurrent requests on the same series; the row
// lock plus the conditional update make the credit exactly-once. A
// completed series yields a benign AlreadyCompleted outcome.
func (a *App) SimulateSeriesGame(ctx context.Context, seriesID uuid.UUID) (*GameOutcome, error) {
	var outcome *GameOutcome

	key := sqlutil.LockKey{Kind: sqlutil.LockPlayoffSeries, ID: seriesID.String()}
	err := a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		series, err := a.repo.GetSeriesForUpdate(ctx, tx, seriesID)
		if err != nil {
			return err
		}
		if series.Status == models.SeriesStatusCompleted {
			outcome = &GameOutcome{Series: series, AlreadyCompleted: true}
			return nil
		}

		gameIndex := series.GamesPlayed()
		homeID := HomeTeamForGame(series, gameIndex)
		awayID := series.LowerSeedID
		if homeID == series.LowerSeedID {
			awayID = series.HigherSeedID
		}

		homeRoster, err := a.players.GetTeamRoster(ctx, homeID)
		if err != nil {
			return err
		}
		awayRoster, err := a.players.GetTeamRoster(ctx, awayID)
		if err != nil {
			return err
		}
		result := a.simulator.SimulateGame(homeID, awayID, homeRoster, awayRoster)

		higherSeedWon := result.WinnerID == series.HigherSeedID
		winsNeeded := WinsNeeded(series.Round)
		newHigher, newLower := series.HigherSeedWins, series.LowerSeedWins
		if higherSeedWon {
			newHigher++
		} else {
			newLower++
		}
		if newHigher > winsNeeded || newLower > winsNeeded {
			// Row lock should make this unreachable; a hit means the
			// stored counts are corrupt.
			return fmt.Errorf("series %s win counts exceed target %d", series.ID, winsNeeded)
		}

		completed := newHigher == winsNeeded || newLower == winsNeeded
		var winnerID *uuid.UUID
		if completed {
			w := series.HigherSeedID
			if newLower == winsNeeded {
				w = series.LowerSeedID
			}
			winnerID = &w
		}

		// Game row and series credit commit atomically.
		if err := a.games.InsertGame(ctx, tx, models.Game{
			ID:         uuid.New(),
			SeasonID:   series.SeasonID,
			SeriesID:   &series.ID,
			Day:        gameIndex,
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			HomeScore:  result.HomeScore,
			AwayScore:  result.AwayScore,
			WinnerID:   result.WinnerID,
			BoxStats:   result.BoxStats,
			PlayedAt:   time.Now(),
		}); err != nil {
			return err
		}

		updated, err := a.repo.ApplyGameResult(ctx, tx, series.ID, higherSeedWon, completed, winnerID)
		if err != nil {
			return err
		}

		if completed {
			loserID := updated.HigherSeedID
			if *winnerID == updated.HigherSeedID {
				loserID = updated.LowerSeedID
			}
			err := a.outbox.Insert(ctx, tx, updated.SeasonID, events.TypeSeriesCompleted, events.SeriesCompletedPayload{
				SeriesID:   updated.ID.String(),
				Round:      updated.Round,
				WinnerID:   winnerID.String(),
				LoserID:    loserID.String(),
				FinalScore: fmt.Sprintf("%d-%d", updated.HigherSeedWins, updated.LowerSeedWins),
				EndedAt:    time.Now(),
			})
			if err != nil {
				return err
			}
		}

		outcome = &GameOutcome{
			Series:          updated,
			HomeTeamID:      homeID,
			AwayTeamID:      awayID,
			HomeScore:       result.HomeScore,
			AwayScore:       result.AwayScore,
			SeriesCompleted: completed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// SimulateSeries plays a series to completion.
func (a *App) SimulateSeries(ctx context.Context, seriesID uuid.UUID) (*SeriesOutcome, error) {
	played := 0
	for {
		game, err := a.SimulateSeriesGame(ctx, seriesID)
		if err != nil {
			return nil, err
		}
		if game.AlreadyCompleted {
			return &SeriesOutcome{Series: game.Series, AlreadyCompleted: played == 0, GamesPlayed: played}, nil
		}
		played++
		if game.SeriesCompleted {
			return &SeriesOutcome{Series: game.Series, GamesPlayed: played}, nil
		}
	}
}

// SimulateRound sweeps the current round: every unfinished series is
// played out, already-finished series are skipped, and the next round is
// generated if the sweep closed the round. A lost race on any one series
// never aborts the sweep.
func (a *App) SimulateRound(ctx context.Context, seasonID uuid.UUID) (*RoundSummary, error) {
	round, series, err := a.currentRound(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	summary := &RoundSummary{Round: round}
	for _, s := range series {
		out, err := a.SimulateSeries(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if out.AlreadyCompleted {
			summary.SeriesSkipped++
		} else {
			summary.SeriesSimulated++
		}
	}

	created, err := a.GenerateNextRoundIfReady(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	summary.NextRoundCreated = created
	return summary, nil
}

// SimulateAll sweeps rounds until the finals complete and a champion is
// crowned.
func (a *App) SimulateAll(ctx context.Context, seasonID uuid.UUID) (*PlayoffSummary, error) {
	summary := &PlayoffSummary{}
	for {
		roundSummary, err := a.SimulateRound(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		summary.Rounds = append(summary.Rounds, *roundSummary)

		if roundSummary.Round == models.RoundFinals && !roundSummary.NextRoundCreated {
			finals, err := a.repo.ListByRound(ctx, seasonID, models.RoundFinals)
			if err != nil {
				return nil, err
			}
			if len(finals) == 1 && finals[0].WinnerID != nil {
				summary.ChampionID = finals[0].WinnerID
			}
			return summary, nil
		}
	}
}

// GenerateNextRoundIfReady advances the bracket when the highest
// existing round has fully completed. The round-advance advisory lock
// plus the exists re-check under it make generation idempotent: two
// concurrent calls that both observe a completed round create the next
// round exactly once. Finals completion crowns the champion instead of
// creating a round. Returns whether new series were created.
func (a *App) GenerateNextRoundIfReady(ctx context.Context, seasonID uuid.UUID) (bool, error) {
	round, series, err := a.latestRound(ctx, seasonID)
	if err != nil {
		return false, err
	}
	for _, s := range series {
		if s.Status != models.SeriesStatusCompleted {
			return false, nil // round still live, nothing to do
		}
	}

	if round == models.RoundFinals {
		return false, a.crownChampion(ctx, seasonID, series)
	}

	next, err := a.buildNextRound(ctx, seasonID, round, series)
	if err != nil {
		return false, err
	}

	created := false
	key := sqlutil.LockKey{Kind: sqlutil.LockRoundAdvance, ID: roundKey(seasonID, round+1)}
	err = a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		exists, err := a.repo.RoundExists(ctx, tx, seasonID, round+1)
		if err != nil {
			return err
		}
		if exists {
			return nil // a concurrent sweep advanced the bracket first
		}
		if err := a.repo.CreateSeries(ctx, tx, next); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		log.Info().
			Str("season_id", seasonID.String()).
			Int("round", round+1).
			Int("series", len(next)).
			Msg("generated next playoff round")
	}
	return created, nil
}

// Champion returns the playoff champion once the finals are complete.
func (a *App) Champion(ctx context.Context, seasonID uuid.UUID) (*uuid.UUID, error) {
	finals, err := a.repo.ListByRound(ctx, seasonID, models.RoundFinals)
	if err != nil {
		return nil, err
	}
	if len(finals) != 1 || finals[0].WinnerID == nil {
		return nil, nil
	}
	return finals[0].WinnerID, nil
}

func (a *App) buildNextRound(ctx context.Context, seasonID uuid.UUID, round int, completed []models.PlayoffSeries) ([]models.PlayoffSeries, error) {
	if round == models.RoundConfFinals {
		// Conference champions meet in the finals.
		var east, west *models.PlayoffSeries
		for i := range completed {
			switch *completed[i].Conference {
			case models.ConferenceEast:
				east = &completed[i]
			case models.ConferenceWest:
				west = &completed[i]
			}
		}
		if east == nil || west == nil {
			return nil, fmt.Errorf("conference finals missing a conference: %w", ErrRoundNotComplete)
		}
		eastWins, err := a.championWins(ctx, seasonID, east)
		if err != nil {
			return nil, err
		}
		westWins, err := a.championWins(ctx, seasonID, west)
		if err != nil {
			return nil, err
		}
		matchup, err := FinalsMatchup(*east, *west, eastWins, westWins)
		if err != nil {
			return nil, err
		}
		return seriesFromMatchups(seasonID, models.RoundFinals, nil, []Matchup{matchup}), nil
	}

	if round == models.RoundPlayIn {
		return a.buildFirstRound(ctx, seasonID, completed)
	}

	var next []models.PlayoffSeries
	for _, conf := range []models.Conference{models.ConferenceEast, models.ConferenceWest} {
		var confSeries []models.PlayoffSeries
		for _, s := range completed {
			if s.Conference != nil && *s.Conference == conf {
				confSeries = append(confSeries, s)
			}
		}
		matchups, err := NextRoundMatchups(confSeries)
		if err != nil {
			return nil, err
		}
		c := conf
		next = append(next, seriesFromMatchups(seasonID, round+1, &c, matchups)...)
	}
	return next, nil
}

func (a *App) buildFirstRound(ctx context.Context, seasonID uuid.UUID, playIn []models.PlayoffSeries) ([]models.PlayoffSeries, error) {
	var next []models.PlayoffSeries
	for _, conf := range []models.Conference{models.ConferenceEast, models.ConferenceWest} {
		seeds, err := a.standings.ConferenceSeeds(ctx, seasonID, conf)
		if err != nil {
			return nil, err
		}

		// Play-in series were created 7v10 then 8v9 per conference, so
		// the first winner takes the seventh berth.
		var winners []uuid.UUID
		for _, s := range playIn {
			if s.Conference != nil && *s.Conference == conf {
				if s.WinnerID == nil {
					return nil, fmt.Errorf("play-in series %s unresolved: %w", s.ID, ErrRoundNotComplete)
				}
				winners = append(winners, *s.WinnerID)
			}
		}
		if len(winners) != 2 {
			return nil, fmt.Errorf("%s conference has %d play-in winners: %w", conf, len(winners), ErrRoundNotComplete)
		}

		matchups, err := FirstRoundMatchups(seeds, winners[0], winners[1])
		if err != nil {
			return nil, err
		}
		c := conf
		next = append(next, seriesFromMatchups(seasonID, models.RoundFirst, &c, matchups)...)
	}
	return next, nil
}

// crownChampion records the champion on the season and emits the event.
// The phase-advance advisory lock keeps a double sweep from inserting
// the ChampionCrowned event twice: only the attempt that still sees no
// champion writes.
func (a *App) crownChampion(ctx context.Context, seasonID uuid.UUID, finals []models.PlayoffSeries) error {
	if len(finals) != 1 || finals[0].WinnerID == nil {
		return fmt.Errorf("finals unresolved: %w", ErrRoundNotComplete)
	}
	championID := *finals[0].WinnerID

	key := sqlutil.LockKey{Kind: sqlutil.LockPhaseAdvance, ID: seasonID.String()}
	return a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		claimed, err := a.seasons.SetChampion(ctx, tx, seasonID, championID)
		if err != nil {
			return err
		}
		if !claimed {
			return nil // an earlier sweep already crowned the champion
		}
		return a.outbox.Insert(ctx, tx, seasonID, events.TypeChampionCrowned, events.ChampionCrownedPayload{
			SeasonID:  seasonID.String(),
			TeamID:    championID.String(),
			CrownedAt: time.Now(),
		})
	})
}

func (a *App) championWins(ctx context.Context, seasonID uuid.UUID, s *models.PlayoffSeries) (int, error) {
	winner := *s.WinnerID
	standing, err := a.standings.GetStanding(ctx, seasonID, winner)
	if err != nil {
		return 0, err
	}
	return standing.Wins, nil
}

// currentRound returns the lowest round that still has live series, or
// the highest existing round when everything is complete.
func (a *App) currentRound(ctx context.Context, seasonID uuid.UUID) (int, []models.PlayoffSeries, error) {
	var lastRound int
	var lastSeries []models.PlayoffSeries
	for round := models.RoundPlayIn; round <= models.RoundFinals; round++ {
		series, err := a.repo.ListByRound(ctx, seasonID, round)
		if err != nil {
			return 0, nil, err
		}
		if len(series) == 0 {
			break
		}
		lastRound, lastSeries = round, series
		for _, s := range series {
			if s.Status != models.SeriesStatusCompleted {
				return round, series, nil
			}
		}
	}
	if lastSeries == nil {
		return 0, nil, ErrPlayoffsNotStarted
	}
	return lastRound, lastSeries, nil
}

// latestRound returns the highest round that has series.
func (a *App) latestRound(ctx context.Context, seasonID uuid.UUID) (int, []models.PlayoffSeries, error) {
	for round := models.RoundFinals; round >= models.RoundPlayIn; round-- {
		series, err := a.repo.ListByRound(ctx, seasonID, round)
		if err != nil {
			return 0, nil, err
		}
		if len(series) > 0 {
			return round, series, nil
		}
	}
	return 0, nil, ErrPlayoffsNotStarted
}

func seriesFromMatchups(seasonID uuid.UUID, round int, conf *models.Conference, matchups []Matchup) []models.PlayoffSeries {
	out := make([]models.PlayoffSeries, len(matchups))
	for i, m := range matchups {
		out[i] = models.PlayoffSeries{
			ID:           uuid.New(),
			SeasonID:     seasonID,
			Round:        round,
			Conference:   conf,
			BracketSlot:  i,
			HigherSeedID: m.HigherSeedID,
			LowerSeedID:  m.LowerSeedID,
			HigherSeed:   m.HigherSeed,
			LowerSeed:    m.LowerSeed,
			Status:       models.SeriesStatusScheduled,
		}
	}
	return out
}

func roundKey(seasonID uuid.UUID, round int) string {
	return fmt.Sprintf("%s:%d", seasonID, round)
}
