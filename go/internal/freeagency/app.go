// Package freeagency handles free-agent signings and releases: the
// purest use of the claim protocol, where the contested resource is a
// player row with team_id still NULL.
package freeagency

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hardwoodgm/hardwood/go/internal/claim"
	"github.com/hardwoodgm/hardwood/go/internal/events"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

// RosterCap is the maximum roster size a signing may not exceed.
const RosterCap = 15

// freeAgentBoardSize bounds how deep the CPU sweep looks.
const freeAgentBoardSize = 50

// PlayerRepository defines what the free-agency app needs from the
// player store.
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
	ListFreeAgents(ctx context.Context, limit int) ([]models.Player, error)
	ClaimFreeAgent(ctx context.Context, tx *sql.Tx, playerID, teamID uuid.UUID, years int, salary int64) (claim.Outcome[*models.Player], error)
	ReleasePlayer(ctx context.Context, tx *sql.Tx, playerID, teamID uuid.UUID) (claim.Outcome[*models.Player], error)
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	RunLocked(ctx context.Context, key sqlutil.LockKey, fn func(tx *sql.Tx) error) error
}

// OutboxRepository records domain events transactionally.
type OutboxRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, eventType string, payload any) error
}

// SignResult describes one sign-free-agent attempt. AlreadySigned means
// another team won the race; nothing was mutated.
type SignResult struct {
	Player        *models.Player `json:"player,omitempty"`
	AlreadySigned bool           `json:"already_signed"`
}

// ReleaseResult describes one release-player attempt. NotOnTeam means
// the player was not on the releasing team when the update ran.
type ReleaseResult struct {
	Player    *models.Player `json:"player,omitempty"`
	NotOnTeam bool           `json:"not_on_team"`
}

// SweepSummary accumulates a CPU free-agency tick.
type SweepSummary struct {
	Signings    int `json:"signings"`
	LostRaces   int `json:"lost_races"`
	TeamsActed  int `json:"teams_acted"`
	TeamsPassed int `json:"teams_passed"`
}

// App drives signings and releases.
type App struct {
	players PlayerRepository
	outbox  OutboxRepository
	oracle  sim.StrategyOracle
}

func NewApp(players PlayerRepository, outbox OutboxRepository, oracle sim.StrategyOracle) *App {
	return &App{players: players, outbox: outbox, oracle: oracle}
}

// SignFreeAgent signs playerID to teamID. The player advisory lock
// serializes same-player requests before they reach the conditional
// update; the update itself is the last-mile guarantee that only one
// team ever gets the player.
func (a *App) SignFreeAgent(ctx context.Context, seasonID, playerID, teamID uuid.UUID, years int, salary int64) (*SignResult, error) {
	roster, err := a.players.GetTeamRoster(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(roster) >= RosterCap {
		return nil, fmt.Errorf("team %s roster is full (%d): %w", teamID, len(roster), ErrRosterFull)
	}

	var result *SignResult
	key := sqlutil.LockKey{Kind: sqlutil.LockSignPlayer, ID: playerID.String()}
	err = a.players.RunLocked(ctx, key, func(tx *sql.Tx) error {
		outcome, err := a.players.ClaimFreeAgent(ctx, tx, playerID, teamID, years, salary)
		if err != nil {
			return err
		}
		if !outcome.Won() {
			result = &SignResult{AlreadySigned: true}
			return nil
		}
		player := outcome.Resource

		if err := a.outbox.Insert(ctx, tx, seasonID, events.TypePlayerSigned, events.PlayerSignedPayload{
			PlayerID:   player.ID.String(),
			PlayerName: player.FullName,
			TeamID:     teamID.String(),
			Years:      years,
			Salary:     salary,
			SignedAt:   time.Now(),
		}); err != nil {
			return err
		}
		result = &SignResult{Player: player}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Player != nil {
		log.Info().
			Str("player_id", playerID.String()).
			Str("team_id", teamID.String()).
			Int("years", years).
			Int64("salary", salary).
			Msg("free agent signed")
	}
	return result, nil
}

// ReleasePlayer waives a player from teamID back into the free-agent
// pool.
func (a *App) ReleasePlayer(ctx context.Context, seasonID, playerID, teamID uuid.UUID) (*ReleaseResult, error) {
	var result *ReleaseResult
	err := a.players.RunTx(ctx, func(tx *sql.Tx) error {
		outcome, err := a.players.ReleasePlayer(ctx, tx, playerID, teamID)
		if err != nil {
			return err
		}
		if !outcome.Won() {
			result = &ReleaseResult{NotOnTeam: true}
			return nil
		}

		if err := a.outbox.Insert(ctx, tx, seasonID, events.TypePlayerReleased, events.PlayerReleasedPayload{
			PlayerID:   playerID.String(),
			TeamID:     teamID.String(),
			ReleasedAt: time.Now(),
		}); err != nil {
			return err
		}
		result = &ReleaseResult{Player: outcome.Resource}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CPUSweep gives each CPU team one signing attempt this tick. The
// team-action advisory lock keeps a team to a single discretionary move
// even if two sweeps overlap; a lost race on a player moves the team to
// its next candidate instead of failing the sweep.
func (a *App) CPUSweep(ctx context.Context, seasonID uuid.UUID, cpuTeamIDs []uuid.UUID) (*SweepSummary, error) {
	board, err := a.players.ListFreeAgents(ctx, freeAgentBoardSize)
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{}
	for _, teamID := range cpuTeamIDs {
		acted, lost, err := a.cpuTeamAction(ctx, seasonID, teamID, board)
		if err != nil {
			return nil, err
		}
		summary.LostRaces += lost
		if acted {
			summary.Signings++
			summary.TeamsActed++
		} else {
			summary.TeamsPassed++
		}
	}
	return summary, nil
}

func (a *App) cpuTeamAction(ctx context.Context, seasonID, teamID uuid.UUID, board []models.Player) (bool, int, error) {
	roster, err := a.players.GetTeamRoster(ctx, teamID)
	if err != nil {
		return false, 0, err
	}
	if len(roster) >= RosterCap {
		return false, 0, nil
	}

	lost := 0
	signed := false
	key := sqlutil.LockKey{Kind: sqlutil.LockTeamAction, ID: teamID.String()}
	err = a.players.RunLocked(ctx, key, func(tx *sql.Tx) error {
		for _, target := range board {
			eval := a.oracle.EvaluateFreeAgentTarget(target, roster)
			if !eval.Interested {
				continue
			}

			outcome, err := a.players.ClaimFreeAgent(ctx, tx, target.ID, teamID, 2, eval.MaxOffer)
			if err != nil {
				return err
			}
			if !outcome.Won() {
				lost++ // somebody signed them first, next candidate
				continue
			}

			player := outcome.Resource
			if err := a.outbox.Insert(ctx, tx, seasonID, events.TypePlayerSigned, events.PlayerSignedPayload{
				PlayerID:   player.ID.String(),
				PlayerName: player.FullName,
				TeamID:     teamID.String(),
				Years:      2,
				Salary:     eval.MaxOffer,
				SignedAt:   time.Now(),
			}); err != nil {
				return err
			}
			signed = true
			return nil
		}
		return nil // nobody on the board fit; the team passes
	})
	if err != nil {
		return false, lost, err
	}
	return signed, lost, nil
}
