// Package cpu drives the league's computer-controlled teams. Each tick
// every CPU team answers its pending trade proposals and, strategy
// permitting, chases a free agent. All moves go through the same
// claim-protected apps that serve human requests, so a CPU actor can
// lose a race exactly like anyone else.
package cpu

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hardwoodgm/hardwood/go/internal/freeagency"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
)

// FreeAgencySweeper gives CPU teams one signing attempt each.
type FreeAgencySweeper interface {
	CPUSweep(ctx context.Context, seasonID uuid.UUID, cpuTeamIDs []uuid.UUID) (*freeagency.SweepSummary, error)
}

// TradeResponder resolves a team's pending trade proposals.
type TradeResponder interface {
	CPURespondPending(ctx context.Context, teamID, cpuActorID uuid.UUID) (int, error)
}

// TeamRepository lists the league's teams.
type TeamRepository interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// StandingsRepository provides the record behind a team's strategy.
type StandingsRepository interface {
	GetStanding(ctx context.Context, seasonID, teamID uuid.UUID) (*models.Standing, error)
}

// PlayerRepository provides rosters for the strategy oracle.
type PlayerRepository interface {
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
}

// Director sequences the CPU teams' moves for one tick.
type Director struct {
	freeAgency FreeAgencySweeper
	trades     TradeResponder
	teams      TeamRepository
	standings  StandingsRepository
	players    PlayerRepository
	oracle     sim.StrategyOracle
}

func NewDirector(freeAgency FreeAgencySweeper, trades TradeResponder, teams TeamRepository, standings StandingsRepository, players PlayerRepository, oracle sim.StrategyOracle) *Director {
	return &Director{
		freeAgency: freeAgency,
		trades:     trades,
		teams:      teams,
		standings:  standings,
		players:    players,
		oracle:     oracle,
	}
}

// RunDailyTick runs every CPU team once: pending trades are answered
// first, then teams whose strategy wants win-now help enter the
// free-agent sweep. Rebuilding teams keep their cap space and pass.
func (d *Director) RunDailyTick(ctx context.Context, seasonID, humanTeamID uuid.UUID) error {
	teams, err := d.teams.ListTeams(ctx)
	if err != nil {
		return err
	}

	tradesResolved := 0
	holding := 0
	var chasing []uuid.UUID
	for _, team := range teams {
		if team.ID == humanTeamID {
			continue
		}

		resolved, err := d.trades.CPURespondPending(ctx, team.ID, team.ID)
		if err != nil {
			return err
		}
		tradesResolved += resolved

		standing, err := d.standings.GetStanding(ctx, seasonID, team.ID)
		if err != nil {
			return err
		}
		roster, err := d.players.GetTeamRoster(ctx, team.ID)
		if err != nil {
			return err
		}
		if d.oracle.DetermineTeamStrategy(*standing, roster) == sim.StrategyRebuild {
			holding++
			continue
		}
		chasing = append(chasing, team.ID)
	}

	signings := 0
	if len(chasing) > 0 {
		sweep, err := d.freeAgency.CPUSweep(ctx, seasonID, chasing)
		if err != nil {
			return err
		}
		signings = sweep.Signings
	}

	log.Debug().
		Str("season_id", seasonID.String()).
		Int("trades_resolved", tradesResolved).
		Int("signings", signings).
		Int("teams_chasing", len(chasing)).
		Int("teams_holding", holding).
		Msg("cpu tick complete")
	return nil
}
