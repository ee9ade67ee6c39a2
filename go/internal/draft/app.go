package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hardwoodgm/hardwood/go/internal/claim"
	"github.com/hardwoodgm/hardwood/go/internal/events"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

// rookieSalaryBase scales a rookie contract by draft position.
const rookieSalaryBase = int64(8_000_000)

// DraftRepository defines what the draft app needs from its store.
type DraftRepository interface {
	CreateLotteryEntries(ctx context.Context, tx *sql.Tx, entries []models.LotteryEntry) error
	ListLotteryEntries(ctx context.Context, seasonID uuid.UUID) ([]models.LotteryEntry, error)
	LotteryAlreadyRun(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID) (bool, error)
	ApplyLotteryResults(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, results []LotteryResult) error
	CreatePicks(ctx context.Context, tx *sql.Tx, picks []models.DraftPick) error
	ListPicks(ctx context.Context, seasonID uuid.UUID) ([]models.DraftPick, error)
	NextUnusedPick(ctx context.Context, seasonID uuid.UUID) (*models.DraftPick, error)
	NextUnusedPickForUpdate(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID) (*models.DraftPick, error)
	StampPick(ctx context.Context, tx *sql.Tx, pickID, playerID uuid.UUID) (claim.Outcome[uuid.UUID], error)
	GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error)
	ListAvailableProspects(ctx context.Context, seasonID uuid.UUID) ([]models.DraftProspect, error)
	ClaimProspect(ctx context.Context, tx *sql.Tx, prospectID, teamID uuid.UUID) (claim.Outcome[*models.DraftProspect], error)
	AdvisoryLock(ctx context.Context, tx *sql.Tx, key sqlutil.LockKey) error
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	RunLocked(ctx context.Context, key sqlutil.LockKey, fn func(tx *sql.Tx) error) error
}

// PlayerRepository turns drafted prospects into players.
type PlayerRepository interface {
	CreateFromProspect(ctx context.Context, tx *sql.Tx, prospect *models.DraftProspect, teamID uuid.UUID, rookieSalary int64) (*models.Player, error)
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
}

// StandingsRepository provides the worst-first ordering behind the
// lottery and the pick order.
type StandingsRepository interface {
	LeagueWorstFirst(ctx context.Context, seasonID uuid.UUID) ([]models.Standing, error)
}

// OutboxRepository records domain events transactionally.
type OutboxRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, eventType string, payload any) error
}

// App runs the lottery and sequences draft picks.
type App struct {
	repo      DraftRepository
	players   PlayerRepository
	standings StandingsRepository
	outbox    OutboxRepository
	oracle    sim.StrategyOracle
	odds      sim.LotteryOdds
	rng       *rand.Rand
}

// NewApp wires the draft app. rng drives the lottery draw; inject a
// seeded source for reproducible lotteries.
func NewApp(repo DraftRepository, players PlayerRepository, standings StandingsRepository, outbox OutboxRepository, oracle sim.StrategyOracle, odds sim.LotteryOdds, rng *rand.Rand) *App {
	if odds == nil {
		odds = DefaultLotteryOdds
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &App{
		repo:      repo,
		players:   players,
		standings: standings,
		outbox:    outbox,
		oracle:    oracle,
		odds:      odds,
		rng:       rng,
	}
}

// RunLottery seeds entries from the standings if needed, runs the
// weighted draw, and materializes both rounds of the pick board, all in
// one advisory-locked transaction. A completed lottery rejects a second
// run with ErrLotteryAlreadyRun.
func (a *App) RunLottery(ctx context.Context, seasonID uuid.UUID) (*LotterySummary, error) {
	worstFirst, err := a.standings.LeagueWorstFirst(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if len(worstFirst) < playoffTeamCount+LotterySize {
		return nil, fmt.Errorf("league has %d standings rows, need %d: %w",
			len(worstFirst), playoffTeamCount+LotterySize, ErrLotteryNotRun)
	}

	key := sqlutil.LockKey{Kind: sqlutil.LockLottery, ID: seasonID.String()}
	err = a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		done, err := a.repo.LotteryAlreadyRun(ctx, tx, seasonID)
		if err != nil {
			return err
		}
		if done {
			return ErrLotteryAlreadyRun
		}

		entries, err := a.ensureEntries(ctx, tx, seasonID, worstFirst)
		if err != nil {
			return err
		}

		results, err := DrawLottery(entries, a.odds, a.rng)
		if err != nil {
			return err
		}
		if err := a.repo.ApplyLotteryResults(ctx, tx, seasonID, results); err != nil {
			return err
		}

		// Materialize the pick board while the lottery lock is held.
		lotteryOrder := make([]uuid.UUID, LotterySize)
		for _, res := range results {
			lotteryOrder[res.PostLotteryPosition-1] = res.TeamID
		}
		playoffTeams := make([]uuid.UUID, 0, playoffTeamCount)
		for _, s := range worstFirst[LotterySize:] {
			playoffTeams = append(playoffTeams, s.TeamID)
		}
		picks, err := BuildPickOrder(seasonID, lotteryOrder, playoffTeams)
		if err != nil {
			return err
		}
		if err := a.repo.CreatePicks(ctx, tx, picks); err != nil {
			return err
		}

		var jumped []string
		for _, res := range results {
			if res.LotteryWin {
				jumped = append(jumped, res.TeamID.String())
			}
		}
		return a.outbox.Insert(ctx, tx, seasonID, events.TypeLotteryCompleted, events.LotteryCompletedPayload{
			SeasonID:    seasonID.String(),
			FirstPickID: lotteryOrder[0].String(),
			RanAt:       time.Now(),
			JumpedTeams: jumped,
		})
	})
	if err != nil {
		return nil, err
	}

	entries, err := a.repo.ListLotteryEntries(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	summary := &LotterySummary{Entries: entries}
	for _, e := range entries {
		if e.LotteryWin {
			summary.JumpedTeams = append(summary.JumpedTeams, e.TeamID)
		}
	}
	log.Info().Str("season_id", seasonID.String()).Msg("lottery completed")
	return summary, nil
}

const playoffTeamCount = 16

// LotteryOdds returns the season's lottery board. Before the draw no
// rows exist yet, so the board is derived from the current standings and
// the odds table without persisting anything; after the draw the stored
// entries carry the post-lottery positions.
func (a *App) LotteryOdds(ctx context.Context, seasonID uuid.UUID) ([]models.LotteryEntry, error) {
	entries, err := a.repo.ListLotteryEntries(ctx, seasonID)
	if err != nil || len(entries) > 0 {
		return entries, err
	}

	worstFirst, err := a.standings.LeagueWorstFirst(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if len(worstFirst) < LotterySize {
		return nil, fmt.Errorf("league has %d standings rows, need %d: %w",
			len(worstFirst), LotterySize, ErrLotteryNotRun)
	}

	board := make([]models.LotteryEntry, LotterySize)
	for i := 0; i < LotterySize; i++ {
		board[i] = models.LotteryEntry{
			SeasonID:           seasonID,
			TeamID:             worstFirst[i].TeamID,
			PreLotteryPosition: i + 1,
			Odds:               a.odds.GetLotteryOdds(i + 1),
		}
	}
	return board, nil
}

// MakeDraftPick executes the current pick for teamID on prospectID. The
// pick-sequence advisory lock orders concurrent picks; the prospect
// claim makes the is_drafted flip exactly-once. An out-of-turn attempt
// is rejected without mutating anything; a lost prospect race returns
// AlreadyDrafted so the caller can choose again.
func (a *App) MakeDraftPick(ctx context.Context, seasonID, prospectID, teamID uuid.UUID) (*PickResult, error) {
	var result *PickResult

	key := sqlutil.LockKey{Kind: sqlutil.LockDraftPick, ID: seasonID.String()}
	err := a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		pick, err := a.repo.NextUnusedPickForUpdate(ctx, tx, seasonID)
		if err != nil {
			return err
		}
		if pick.CurrentTeamID != teamID {
			return fmt.Errorf("pick %d belongs to team %s: %w", pick.PickNumber, pick.CurrentTeamID, ErrOutOfTurn)
		}

		prospectKey := sqlutil.LockKey{Kind: sqlutil.LockDraftProspect, ID: prospectID.String()}
		if err := a.repo.AdvisoryLock(ctx, tx, prospectKey); err != nil {
			return err
		}

		outcome, err := a.repo.ClaimProspect(ctx, tx, prospectID, teamID)
		if err != nil {
			return err
		}
		if !outcome.Won() {
			result = &PickResult{AlreadyDrafted: true}
			return nil // benign: concurrent actor drafted this prospect
		}
		prospect := outcome.Resource

		player, err := a.players.CreateFromProspect(ctx, tx, prospect, teamID, rookieSalary(pick.PickNumber))
		if err != nil {
			return err
		}

		stamp, err := a.repo.StampPick(ctx, tx, pick.ID, player.ID)
		if err != nil {
			return err
		}
		if !stamp.Won() {
			// The pick row was locked above; losing here means the
			// board state is corrupt.
			return fmt.Errorf("pick %d already stamped despite row lock", pick.PickNumber)
		}

		if err := a.outbox.Insert(ctx, tx, seasonID, events.TypePickMade, events.PickMadePayload{
			PickID:       pick.ID.String(),
			Round:        pick.Round,
			PickNumber:   pick.PickNumber,
			TeamID:       teamID.String(),
			ProspectID:   prospect.ID.String(),
			ProspectName: prospect.FullName,
			MadeAt:       time.Now(),
		}); err != nil {
			return err
		}

		now := time.Now()
		pick.PlayerID = &player.ID
		pick.PickedAt = &now
		result = &PickResult{Pick: pick, Prospect: prospect, Player: player}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Pick != nil {
		log.Info().
			Int("pick", result.Pick.PickNumber).
			Str("team_id", teamID.String()).
			Str("prospect", result.Prospect.FullName).
			Msg("draft pick made")
	}
	return result, nil
}

// AIMakePick drafts for whichever team is on the clock, consulting the
// selection oracle. A lost prospect race re-reads the board and asks the
// oracle for the next candidate rather than failing.
func (a *App) AIMakePick(ctx context.Context, seasonID uuid.UUID) (*PickResult, error) {
	for {
		pick, err := a.repo.NextUnusedPick(ctx, seasonID)
		if err != nil {
			return nil, err
		}

		prospects, err := a.repo.ListAvailableProspects(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		if len(prospects) == 0 {
			return nil, ErrNoProspects
		}

		roster, err := a.players.GetTeamRoster(ctx, pick.CurrentTeamID)
		if err != nil {
			return nil, err
		}
		prospectID := a.oracle.SelectDraftPick(roster, prospects, pick.PickNumber)

		result, err := a.MakeDraftPick(ctx, seasonID, prospectID, pick.CurrentTeamID)
		if err != nil {
			if errors.Is(err, ErrOutOfTurn) {
				// A concurrent pick advanced the board between our read
				// and the lock; re-resolve the team on the clock.
				continue
			}
			return nil, err
		}
		if result.AlreadyDrafted {
			continue // oracle's choice got sniped, choose again
		}
		return result, nil
	}
}

// SimToNextHumanPick runs AI picks until the board reaches a pick owned
// by humanTeamID, or the draft completes.
func (a *App) SimToNextHumanPick(ctx context.Context, seasonID, humanTeamID uuid.UUID) (*SweepSummary, error) {
	summary := &SweepSummary{}
	for {
		pick, err := a.repo.NextUnusedPick(ctx, seasonID)
		if err != nil {
			if errors.Is(err, ErrDraftComplete) {
				summary.Complete = true
				return summary, nil
			}
			return nil, err
		}
		if pick.CurrentTeamID == humanTeamID {
			summary.NextPick = pick
			return summary, nil
		}
		if _, err := a.AIMakePick(ctx, seasonID); err != nil {
			if errors.Is(err, ErrDraftComplete) {
				summary.Complete = true
				return summary, nil
			}
			return nil, err
		}
		summary.PicksMade++
	}
}

// AutoDraftRemaining runs AI picks until the board is exhausted.
func (a *App) AutoDraftRemaining(ctx context.Context, seasonID uuid.UUID) (*SweepSummary, error) {
	summary := &SweepSummary{}
	for {
		if _, err := a.AIMakePick(ctx, seasonID); err != nil {
			if errors.Is(err, ErrDraftComplete) {
				summary.Complete = true
				return summary, nil
			}
			return nil, err
		}
		summary.PicksMade++
	}
}

// Complete reports whether every pick has been used.
func (a *App) Complete(ctx context.Context, seasonID uuid.UUID) (bool, error) {
	_, err := a.repo.NextUnusedPick(ctx, seasonID)
	if err != nil {
		if errors.Is(err, ErrDraftComplete) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// ensureEntries returns the season's lottery entries, creating them from
// the worst 14 records when absent.
func (a *App) ensureEntries(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, worstFirst []models.Standing) ([]models.LotteryEntry, error) {
	existing, err := a.repo.ListLotteryEntries(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if len(existing) == LotterySize {
		return existing, nil
	}
	if len(existing) != 0 {
		return nil, fmt.Errorf("season has %d lottery entries, want %d or none", len(existing), LotterySize)
	}

	entries := make([]models.LotteryEntry, LotterySize)
	for i := 0; i < LotterySize; i++ {
		entries[i] = models.LotteryEntry{
			ID:                 uuid.New(),
			SeasonID:           seasonID,
			TeamID:             worstFirst[i].TeamID,
			PreLotteryPosition: i + 1,
			Odds:               a.odds.GetLotteryOdds(i + 1),
		}
	}
	if err := a.repo.CreateLotteryEntries(ctx, tx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func rookieSalary(pickNumber int) int64 {
	salary := rookieSalaryBase - int64(pickNumber)*100_000
	if salary < 1_000_000 {
		salary = 1_000_000
	}
	return salary
}
