// Package season owns the league calendar: seasons, the human
// franchise, and the phase state machine that gates every other
// operation. Phase, day and season status always move in one
// transaction under the phase-advance advisory lock.
package season

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hardwoodgm/hardwood/go/internal/draft"
	"github.com/hardwoodgm/hardwood/go/internal/events"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

// LeagueSize is the number of teams expected to hold standings rows.
const LeagueSize = 30

// Config carries the league calendar settings a new season starts with.
type Config struct {
	ScheduleGames    int `yaml:"schedule_games"`
	TradeDeadlineDay int `yaml:"trade_deadline_day"`
	AllStarDay       int `yaml:"all_star_day"`
}

// DefaultConfig mirrors a standard league year.
func DefaultConfig() Config {
	return Config{ScheduleGames: 82, TradeDeadlineDay: 55, AllStarDay: 45}
}

// SeasonRepository defines what the controller needs from the
// season/franchise store.
type SeasonRepository interface {
	CreateSeason(ctx context.Context, tx *sql.Tx, s *models.Season) error
	GetSeason(ctx context.Context, id uuid.UUID) (*models.Season, error)
	UpdateSeasonStatus(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, status models.SeasonStatus) error
	CreateFranchise(ctx context.Context, tx *sql.Tx, f *models.Franchise) error
	GetFranchise(ctx context.Context, id uuid.UUID) (*models.Franchise, error)
	GetFranchiseForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Franchise, error)
	FranchiseForSeason(ctx context.Context, seasonID uuid.UUID) (*models.Franchise, error)
	ActiveFranchiseForUser(ctx context.Context, userID uuid.UUID) (*models.Franchise, error)
	ActivateFranchise(ctx context.Context, tx *sql.Tx, userID, franchiseID uuid.UUID) error
	DeleteFranchise(ctx context.Context, id uuid.UUID) error
	UpdateProgress(ctx context.Context, tx *sql.Tx, franchiseID uuid.UUID, phase models.FranchisePhase, offseason *models.OffseasonPhase, day int) error
	RebindFranchise(ctx context.Context, tx *sql.Tx, franchiseID, seasonID uuid.UUID) error
	NextSequenceNumber(ctx context.Context, tx *sql.Tx) (int, error)
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	RunLocked(ctx context.Context, key sqlutil.LockKey, fn func(tx *sql.Tx) error) error
}

// TeamRepository lists the league's teams.
type TeamRepository interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// StandingsRepository seeds and updates the season's records.
type StandingsRepository interface {
	InitSeason(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, teams []models.Team) error
	RecordResult(ctx context.Context, tx *sql.Tx, seasonID, winnerID, loserID uuid.UUID) error
	Count(ctx context.Context, seasonID uuid.UUID) (int, error)
}

// GameRepository persists regular-season games.
type GameRepository interface {
	InsertGame(ctx context.Context, tx *sql.Tx, g models.Game) error
	CountByDay(ctx context.Context, seasonID uuid.UUID, day int) (int, error)
}

// PlayerRepository provides rosters for the game simulator.
type PlayerRepository interface {
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
}

// ProspectRepository materializes each season's draft class.
type ProspectRepository interface {
	ProspectCount(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID) (int, error)
	CreateProspects(ctx context.Context, tx *sql.Tx, prospects []models.DraftProspect) error
}

// OutboxRepository records domain events transactionally.
type OutboxRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, eventType string, payload any) error
}

// CPUDirector runs the computer-controlled teams. The controller invokes
// it after each played day and when the calendar opens free agency.
type CPUDirector interface {
	RunDailyTick(ctx context.Context, seasonID, humanTeamID uuid.UUID) error
}

// DayResult describes one advance-day call.
type DayResult struct {
	Franchise   *models.Franchise `json:"franchise"`
	GamesPlayed int               `json:"games_played"`
	DaySkipped  bool              `json:"day_skipped"`
}

// App is the phase/season controller.
type App struct {
	repo      SeasonRepository
	teams     TeamRepository
	standings StandingsRepository
	games     GameRepository
	players   PlayerRepository
	prospects ProspectRepository
	outbox    OutboxRepository
	simulator sim.GameSimulator
	clock     clockwork.Clock
	rng       *rand.Rand
	cfg       Config

	cpu CPUDirector
}

// NewApp wires the controller. rng drives prospect class generation;
// inject a seeded source for reproducible classes.
func NewApp(repo SeasonRepository, teams TeamRepository, standings StandingsRepository, games GameRepository, players PlayerRepository, prospects ProspectRepository, outbox OutboxRepository, simulator sim.GameSimulator, clock clockwork.Clock, rng *rand.Rand, cfg Config) *App {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &App{
		repo:      repo,
		teams:     teams,
		standings: standings,
		games:     games,
		players:   players,
		prospects: prospects,
		outbox:    outbox,
		simulator: simulator,
		clock:     clock,
		rng:       rng,
		cfg:       cfg,
	}
}

// SetCPUDirector attaches the computer-controlled team runner. Set after
// construction: the director is built on apps that gate through this
// controller.
func (a *App) SetCPUDirector(d CPUDirector) {
	a.cpu = d
}

// StartDynasty creates a season plus the user's franchise for teamID,
// seeds zeroed standings for the whole league, and activates the new
// franchise.
func (a *App) StartDynasty(ctx context.Context, userID, teamID uuid.UUID) (*models.Franchise, error) {
	teams, err := a.teams.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	seasonID := uuid.New()
	franchise := &models.Franchise{
		ID:         uuid.New(),
		UserID:     userID,
		TeamID:     teamID,
		SeasonID:   seasonID,
		Phase:      models.PhasePreseason,
		CurrentDay: 0,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = a.repo.RunTx(ctx, func(tx *sql.Tx) error {
		seq, err := a.repo.NextSequenceNumber(ctx, tx)
		if err != nil {
			return err
		}
		s := &models.Season{
			ID:               seasonID,
			SequenceNumber:   seq,
			Status:           models.SeasonStatusPreseason,
			TradeDeadlineDay: a.cfg.TradeDeadlineDay,
			AllStarDay:       a.cfg.AllStarDay,
			ScheduleGames:    a.cfg.ScheduleGames,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := a.repo.CreateSeason(ctx, tx, s); err != nil {
			return err
		}
		if err := a.standings.InitSeason(ctx, tx, seasonID, teams); err != nil {
			return err
		}
		if err := a.repo.CreateFranchise(ctx, tx, franchise); err != nil {
			return err
		}
		return a.repo.ActivateFranchise(ctx, tx, userID, franchise.ID)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("franchise_id", franchise.ID.String()).
		Str("season_id", seasonID.String()).
		Msg("dynasty started")
	return franchise, nil
}

// GetFranchise returns one franchise.
func (a *App) GetFranchise(ctx context.Context, id uuid.UUID) (*models.Franchise, error) {
	return a.repo.GetFranchise(ctx, id)
}

// ActiveFranchise returns the user's active franchise.
func (a *App) ActiveFranchise(ctx context.Context, userID uuid.UUID) (*models.Franchise, error) {
	return a.repo.ActiveFranchiseForUser(ctx, userID)
}

// SwitchFranchise makes franchiseID the user's active one.
func (a *App) SwitchFranchise(ctx context.Context, userID, franchiseID uuid.UUID) error {
	return a.repo.RunTx(ctx, func(tx *sql.Tx) error {
		return a.repo.ActivateFranchise(ctx, tx, userID, franchiseID)
	})
}

// DeleteFranchise removes a franchise.
func (a *App) DeleteFranchise(ctx context.Context, franchiseID uuid.UUID) error {
	return a.repo.DeleteFranchise(ctx, franchiseID)
}

// GetSeason returns one season.
func (a *App) GetSeason(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	return a.repo.GetSeason(ctx, id)
}

// AdvanceDay plays one regular-season day: simulate the slate, credit
// standings, and bump the day counter in one transaction. During the
// all-star break it resumes the regular season instead. A day whose
// games already exist is skipped, so a double call cannot double-count
// records.
func (a *App) AdvanceDay(ctx context.Context, franchiseID uuid.UUID) (*DayResult, error) {
	var result *DayResult
	key := sqlutil.LockKey{Kind: sqlutil.LockPhaseAdvance, ID: franchiseID.String()}
	err := a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		franchise, err := a.repo.GetFranchiseForUpdate(ctx, tx, franchiseID)
		if err != nil {
			return err
		}

		switch franchise.Phase {
		case models.PhaseAllStar:
			// The break is a single rest day.
			if err := a.writeProgress(ctx, tx, franchise, models.PhaseRegularSeason, nil, franchise.CurrentDay); err != nil {
				return err
			}
			result = &DayResult{Franchise: franchise, DaySkipped: true}
			return nil
		case models.PhaseRegularSeason:
		default:
			return fmt.Errorf("advance day in phase %s: %w", franchise.Phase, ErrWrongPhase)
		}

		season, err := a.repo.GetSeason(ctx, franchise.SeasonID)
		if err != nil {
			return err
		}
		if franchise.CurrentDay >= season.ScheduleGames {
			return ErrScheduleComplete
		}

		played, skipped, err := a.simulateDay(ctx, tx, season, franchise.CurrentDay)
		if err != nil {
			return err
		}

		newDay := franchise.CurrentDay + 1
		phase := models.PhaseRegularSeason
		if newDay == season.AllStarDay {
			phase = models.PhaseAllStar
		}
		if err := a.writeProgress(ctx, tx, franchise, phase, nil, newDay); err != nil {
			return err
		}
		result = &DayResult{Franchise: franchise, GamesPlayed: played, DaySkipped: skipped}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// CPU teams answer trades and chase free agents once per played day,
	// in their own claim-protected transactions after the slate commits.
	if a.cpu != nil && result.GamesPlayed > 0 {
		if err := a.cpu.RunDailyTick(ctx, result.Franchise.SeasonID, result.Franchise.TeamID); err != nil {
			log.Warn().Err(err).
				Str("franchise_id", franchiseID.String()).
				Msg("cpu tick failed, day already committed")
		}
	}
	return result, nil
}

// AdvancePhase moves the franchise to the next calendar phase. Each
// transition checks its precondition and writes franchise phase plus
// season status atomically. Training camp rolls the dynasty into a
// fresh season.
func (a *App) AdvancePhase(ctx context.Context, franchiseID uuid.UUID) (*models.Franchise, error) {
	var advanced *models.Franchise
	key := sqlutil.LockKey{Kind: sqlutil.LockPhaseAdvance, ID: franchiseID.String()}
	err := a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		franchise, err := a.repo.GetFranchiseForUpdate(ctx, tx, franchiseID)
		if err != nil {
			return err
		}
		season, err := a.repo.GetSeason(ctx, franchise.SeasonID)
		if err != nil {
			return err
		}

		switch franchise.Phase {
		case models.PhasePreseason:
			if err := a.repo.UpdateSeasonStatus(ctx, tx, season.ID, models.SeasonStatusRegularSeason); err != nil {
				return err
			}
			err = a.writeProgress(ctx, tx, franchise, models.PhaseRegularSeason, nil, 0)

		case models.PhaseAllStar:
			err = a.writeProgress(ctx, tx, franchise, models.PhaseRegularSeason, nil, franchise.CurrentDay)

		case models.PhaseRegularSeason:
			if franchise.CurrentDay < season.ScheduleGames {
				return fmt.Errorf("day %d of %d: %w", franchise.CurrentDay, season.ScheduleGames, ErrScheduleNotComplete)
			}
			count, err := a.standings.Count(ctx, season.ID)
			if err != nil {
				return err
			}
			if count < LeagueSize {
				return fmt.Errorf("%d of %d teams have standings: %w", count, LeagueSize, ErrStandingsIncomplete)
			}
			if err := a.repo.UpdateSeasonStatus(ctx, tx, season.ID, models.SeasonStatusPlayoffs); err != nil {
				return err
			}
			err = a.writeProgress(ctx, tx, franchise, models.PhasePlayoffs, nil, franchise.CurrentDay)

		case models.PhasePlayoffs:
			if season.ChampionTeamID == nil {
				return ErrChampionNotCrowned
			}
			review := models.OffseasonReview
			if err := a.repo.UpdateSeasonStatus(ctx, tx, season.ID, models.SeasonStatusOffseason); err != nil {
				return err
			}
			// The offseason's lottery and draft consume this class.
			if err := a.ensureProspectClass(ctx, tx, season.ID); err != nil {
				return err
			}
			err = a.writeProgress(ctx, tx, franchise, models.PhaseOffseason, &review, franchise.CurrentDay)

		case models.PhaseOffseason:
			err = a.advanceOffseason(ctx, tx, franchise, season)

		default:
			return fmt.Errorf("phase %s: %w", franchise.Phase, ErrWrongPhase)
		}
		if err != nil {
			return err
		}

		advanced, err = a.repo.GetFranchise(ctx, franchiseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("franchise_id", franchiseID.String()).
		Str("phase", string(advanced.Phase)).
		Msg("phase advanced")

	// Opening free agency hands the CPU teams their first crack at the
	// market before the user's next request.
	if a.cpu != nil && advanced.Phase == models.PhaseOffseason &&
		advanced.OffseasonPhase != nil && *advanced.OffseasonPhase == models.OffseasonFreeAgency {
		if err := a.cpu.RunDailyTick(ctx, advanced.SeasonID, advanced.TeamID); err != nil {
			log.Warn().Err(err).
				Str("franchise_id", franchiseID.String()).
				Msg("cpu free agency tick failed")
		}
	}
	return advanced, nil
}

// CheckTradeWindow reports whether trading is currently legal for the
// season: preseason, regular season up to the deadline day, or the
// free-agency sub-phase.
func (a *App) CheckTradeWindow(ctx context.Context, seasonID uuid.UUID) error {
	franchise, season, err := a.calendar(ctx, seasonID)
	if err != nil {
		return err
	}
	switch franchise.Phase {
	case models.PhasePreseason:
		return nil
	case models.PhaseRegularSeason, models.PhaseAllStar:
		if franchise.CurrentDay > season.TradeDeadlineDay {
			return ErrTradeDeadlinePassed
		}
		return nil
	case models.PhaseOffseason:
		if franchise.OffseasonPhase != nil && *franchise.OffseasonPhase == models.OffseasonFreeAgency {
			return nil
		}
	}
	return fmt.Errorf("trading in phase %s: %w", franchise.Phase, ErrWrongPhase)
}

// CheckSigningAllowed reports whether free-agent signings are legal:
// preseason, regular season, or the free-agency sub-phase.
func (a *App) CheckSigningAllowed(ctx context.Context, seasonID uuid.UUID) error {
	franchise, _, err := a.calendar(ctx, seasonID)
	if err != nil {
		return err
	}
	switch franchise.Phase {
	case models.PhasePreseason, models.PhaseRegularSeason, models.PhaseAllStar:
		return nil
	case models.PhaseOffseason:
		if franchise.OffseasonPhase != nil && *franchise.OffseasonPhase == models.OffseasonFreeAgency {
			return nil
		}
	}
	return fmt.Errorf("signing in phase %s: %w", franchise.Phase, ErrWrongPhase)
}

// CheckDraftAllowed reports whether lottery/draft operations are legal:
// the lottery and draft offseason sub-phases only.
func (a *App) CheckDraftAllowed(ctx context.Context, seasonID uuid.UUID) error {
	franchise, _, err := a.calendar(ctx, seasonID)
	if err != nil {
		return err
	}
	if franchise.Phase == models.PhaseOffseason && franchise.OffseasonPhase != nil {
		switch *franchise.OffseasonPhase {
		case models.OffseasonLottery, models.OffseasonDraft:
			return nil
		}
	}
	return fmt.Errorf("drafting in phase %s: %w", franchise.Phase, ErrWrongPhase)
}

// CheckPlayoffsAllowed reports whether playoff simulation is legal.
func (a *App) CheckPlayoffsAllowed(ctx context.Context, seasonID uuid.UUID) error {
	franchise, _, err := a.calendar(ctx, seasonID)
	if err != nil {
		return err
	}
	if franchise.Phase != models.PhasePlayoffs {
		return fmt.Errorf("playoffs in phase %s: %w", franchise.Phase, ErrWrongPhase)
	}
	return nil
}

// calendar loads the season together with its franchise, the pair every
// phase gate consults.
func (a *App) calendar(ctx context.Context, seasonID uuid.UUID) (*models.Franchise, *models.Season, error) {
	season, err := a.repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, nil, err
	}
	franchise, err := a.repo.FranchiseForSeason(ctx, seasonID)
	if err != nil {
		return nil, nil, err
	}
	return franchise, season, nil
}

func (a *App) advanceOffseason(ctx context.Context, tx *sql.Tx, franchise *models.Franchise, season *models.Season) error {
	if franchise.OffseasonPhase == nil {
		return fmt.Errorf("offseason franchise missing sub-phase: %w", ErrWrongPhase)
	}

	var next models.OffseasonPhase
	switch *franchise.OffseasonPhase {
	case models.OffseasonReview:
		next = models.OffseasonLottery
	case models.OffseasonLottery:
		next = models.OffseasonDraft
	case models.OffseasonDraft:
		next = models.OffseasonFreeAgency
	case models.OffseasonFreeAgency:
		next = models.OffseasonTrainingCamp
	case models.OffseasonTrainingCamp:
		return a.rolloverSeason(ctx, tx, franchise, season)
	default:
		return fmt.Errorf("offseason sub-phase %s: %w", *franchise.OffseasonPhase, ErrWrongPhase)
	}
	return a.writeProgress(ctx, tx, franchise, models.PhaseOffseason, &next, franchise.CurrentDay)
}

// rolloverSeason completes the current season and binds the franchise
// to a fresh preseason.
func (a *App) rolloverSeason(ctx context.Context, tx *sql.Tx, franchise *models.Franchise, season *models.Season) error {
	teams, err := a.teams.ListTeams(ctx)
	if err != nil {
		return err
	}
	if err := a.repo.UpdateSeasonStatus(ctx, tx, season.ID, models.SeasonStatusCompleted); err != nil {
		return err
	}

	seq, err := a.repo.NextSequenceNumber(ctx, tx)
	if err != nil {
		return err
	}
	now := a.clock.Now()
	next := &models.Season{
		ID:               uuid.New(),
		SequenceNumber:   seq,
		Status:           models.SeasonStatusPreseason,
		TradeDeadlineDay: a.cfg.TradeDeadlineDay,
		AllStarDay:       a.cfg.AllStarDay,
		ScheduleGames:    a.cfg.ScheduleGames,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := a.repo.CreateSeason(ctx, tx, next); err != nil {
		return err
	}
	if err := a.standings.InitSeason(ctx, tx, next.ID, teams); err != nil {
		return err
	}
	if err := a.repo.RebindFranchise(ctx, tx, franchise.ID, next.ID); err != nil {
		return err
	}
	franchise.SeasonID = next.ID
	return a.writeProgress(ctx, tx, franchise, models.PhasePreseason, nil, 0)
}

// ensureProspectClass materializes the draft class the offseason will
// consume. Idempotent: an existing class is left alone.
func (a *App) ensureProspectClass(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID) error {
	n, err := a.prospects.ProspectCount(ctx, tx, seasonID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	class := draft.GenerateProspectClass(seasonID, a.rng)
	if err := a.prospects.CreateProspects(ctx, tx, class); err != nil {
		return err
	}
	log.Info().
		Str("season_id", seasonID.String()).
		Int("prospects", len(class)).
		Msg("draft class generated")
	return nil
}

// simulateDay plays the slate for one schedule day. Games and standings
// credit land on the caller's transaction. An already-simulated day is
// reported as skipped.
func (a *App) simulateDay(ctx context.Context, tx *sql.Tx, season *models.Season, day int) (int, bool, error) {
	existing, err := a.games.CountByDay(ctx, season.ID, day)
	if err != nil {
		return 0, false, err
	}
	if existing > 0 {
		return 0, true, nil
	}

	teams, err := a.teams.ListTeams(ctx)
	if err != nil {
		return 0, false, err
	}
	ids := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}

	played := 0
	for _, pairing := range DayMatchups(ids, day) {
		homeRoster, err := a.players.GetTeamRoster(ctx, pairing.HomeTeamID)
		if err != nil {
			return played, false, err
		}
		awayRoster, err := a.players.GetTeamRoster(ctx, pairing.AwayTeamID)
		if err != nil {
			return played, false, err
		}
		result := a.simulator.SimulateGame(pairing.HomeTeamID, pairing.AwayTeamID, homeRoster, awayRoster)

		if err := a.games.InsertGame(ctx, tx, models.Game{
			ID:         uuid.New(),
			SeasonID:   season.ID,
			Day:        day,
			HomeTeamID: pairing.HomeTeamID,
			AwayTeamID: pairing.AwayTeamID,
			HomeScore:  result.HomeScore,
			AwayScore:  result.AwayScore,
			WinnerID:   result.WinnerID,
			BoxStats:   result.BoxStats,
			PlayedAt:   a.clock.Now(),
		}); err != nil {
			return played, false, err
		}

		loserID := pairing.AwayTeamID
		if result.WinnerID == pairing.AwayTeamID {
			loserID = pairing.HomeTeamID
		}
		if err := a.standings.RecordResult(ctx, tx, season.ID, result.WinnerID, loserID); err != nil {
			return played, false, err
		}
		played++
	}
	return played, false, nil
}

// writeProgress persists a calendar move and emits the PhaseAdvanced
// event when the phase actually changed.
func (a *App) writeProgress(ctx context.Context, tx *sql.Tx, franchise *models.Franchise, phase models.FranchisePhase, offseason *models.OffseasonPhase, day int) error {
	if err := a.repo.UpdateProgress(ctx, tx, franchise.ID, phase, offseason, day); err != nil {
		return err
	}

	phaseChanged := franchise.Phase != phase
	subChanged := offseason != nil && (franchise.OffseasonPhase == nil || *franchise.OffseasonPhase != *offseason)
	if !phaseChanged && !subChanged {
		return nil
	}

	payload := events.PhaseAdvancedPayload{
		FranchiseID: franchise.ID.String(),
		SeasonID:    franchise.SeasonID.String(),
		Phase:       string(phase),
		Day:         day,
		AdvancedAt:  a.clock.Now(),
	}
	if offseason != nil {
		payload.OffseasonPhase = string(*offseason)
	}
	return a.outbox.Insert(ctx, tx, franchise.SeasonID, events.TypePhaseAdvanced, payload)
}
