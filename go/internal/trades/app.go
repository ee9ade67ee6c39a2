// Package trades implements two-team trade proposals. A proposal leaves
// PENDING exactly once; asset movement happens in the same transaction
// as the acceptance, so a stale asset rolls the whole accept back.
package trades

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

// TradeRepository defines what the app needs from the trade store.
type TradeRepository interface {
	CreateProposal(ctx context.Context, p *models.TradeProposal) error
	GetProposal(ctx context.Context, id uuid.UUID) (*models.TradeProposal, error)
	ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.TradeProposal, error)
	ClaimResolve(ctx context.Context, tx *sql.Tx, tradeID uuid.UUID, status models.TradeStatus, resolvedBy uuid.UUID) (claim.Outcome[*models.TradeProposal], error)
	RunLocked(ctx context.Context, key sqlutil.LockKey, fn func(tx *sql.Tx) error) error
}

// PlayerRepository covers the player-side asset moves.
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
	TransferPlayer(ctx context.Context, tx *sql.Tx, playerID, fromTeamID, toTeamID uuid.UUID) error
}

// PickRepository covers the pick-side asset moves.
type PickRepository interface {
	GetPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error)
	TransferPick(ctx context.Context, tx *sql.Tx, pickID, fromTeamID, toTeamID uuid.UUID) error
}

// PhaseGate answers whether the league calendar currently allows
// trading. Implemented by the season controller.
type PhaseGate interface {
	CheckTradeWindow(ctx context.Context, seasonID uuid.UUID) error
}

// OutboxRepository records domain events transactionally.
type OutboxRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, eventType string, payload any) error
}

// ResolveResult describes one accept/reject attempt. AlreadyResolved
// means another resolution landed first; nothing was mutated.
type ResolveResult struct {
	Proposal        *models.TradeProposal `json:"proposal,omitempty"`
	AlreadyResolved bool                  `json:"already_resolved"`
}

// App drives trade proposal lifecycle.
type App struct {
	repo    TradeRepository
	players PlayerRepository
	picks   PickRepository
	gate    PhaseGate
	outbox  OutboxRepository
	oracle  sim.StrategyOracle
}

func NewApp(repo TradeRepository, players PlayerRepository, picks PickRepository, gate PhaseGate, outbox OutboxRepository, oracle sim.StrategyOracle) *App {
	return &App{repo: repo, players: players, picks: picks, gate: gate, outbox: outbox, oracle: oracle}
}

// ProposeTrade validates a proposal and stores it as PENDING. Ownership
// is checked at proposal time as a courtesy; acceptance re-verifies it
// through the transfer guards.
func (a *App) ProposeTrade(ctx context.Context, seasonID, fromTeamID, toTeamID uuid.UUID, fromAssets, toAssets models.TradeAssets) (*models.TradeProposal, error) {
	if fromTeamID == toTeamID {
		return nil, ErrSameTeam
	}
	if len(fromAssets.PlayerIDs)+len(fromAssets.PickIDs)+len(toAssets.PlayerIDs)+len(toAssets.PickIDs) == 0 {
		return nil, ErrEmptyTrade
	}
	if err := a.gate.CheckTradeWindow(ctx, seasonID); err != nil {
		return nil, err
	}
	if err := a.validateAssets(ctx, fromTeamID, fromAssets); err != nil {
		return nil, err
	}
	if err := a.validateAssets(ctx, toTeamID, toAssets); err != nil {
		return nil, err
	}

	proposal := &models.TradeProposal{
		ID:         uuid.New(),
		SeasonID:   seasonID,
		FromTeamID: fromTeamID,
		ToTeamID:   toTeamID,
		FromAssets: fromAssets,
		ToAssets:   toAssets,
		Status:     models.TradeStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := a.repo.CreateProposal(ctx, proposal); err != nil {
		return nil, err
	}
	log.Info().
		Str("trade_id", proposal.ID.String()).
		Str("from_team_id", fromTeamID.String()).
		Str("to_team_id", toTeamID.String()).
		Msg("trade proposed")
	return proposal, nil
}

// AcceptTrade resolves a proposal to ACCEPTED and moves every asset in
// the same transaction. If any asset has gone stale the transfer guard
// fails, the transaction rolls back, and the proposal stays PENDING.
func (a *App) AcceptTrade(ctx context.Context, tradeID, resolvedBy uuid.UUID) (*ResolveResult, error) {
	pending, err := a.repo.GetProposal(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if err := a.gate.CheckTradeWindow(ctx, pending.SeasonID); err != nil {
		return nil, err
	}

	var result *ResolveResult
	key := sqlutil.LockKey{Kind: sqlutil.LockTrade, ID: tradeID.String()}
	err = a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		outcome, err := a.repo.ClaimResolve(ctx, tx, tradeID, models.TradeStatusAccepted, resolvedBy)
		if err != nil {
			return err
		}
		if !outcome.Won() {
			result = &ResolveResult{AlreadyResolved: true}
			return nil
		}
		proposal := outcome.Resource

		if err := a.executeSwap(ctx, tx, proposal); err != nil {
			return err
		}

		if err := a.outbox.Insert(ctx, tx, proposal.SeasonID, events.TypeTradeExecuted, events.TradeExecutedPayload{
			TradeID:    proposal.ID.String(),
			FromTeamID: proposal.FromTeamID.String(),
			ToTeamID:   proposal.ToTeamID.String(),
			ExecutedAt: time.Now(),
		}); err != nil {
			return err
		}
		result = &ResolveResult{Proposal: proposal}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Proposal != nil {
		log.Info().Str("trade_id", tradeID.String()).Msg("trade executed")
	}
	return result, nil
}

// RejectTrade resolves a proposal to REJECTED. No assets move.
func (a *App) RejectTrade(ctx context.Context, tradeID, resolvedBy uuid.UUID) (*ResolveResult, error) {
	var result *ResolveResult
	key := sqlutil.LockKey{Kind: sqlutil.LockTrade, ID: tradeID.String()}
	err := a.repo.RunLocked(ctx, key, func(tx *sql.Tx) error {
		outcome, err := a.repo.ClaimResolve(ctx, tx, tradeID, models.TradeStatusRejected, resolvedBy)
		if err != nil {
			return err
		}
		if !outcome.Won() {
			result = &ResolveResult{AlreadyResolved: true}
			return nil
		}
		result = &ResolveResult{Proposal: outcome.Resource}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CPURespondPending lets the CPU recipient decide each pending proposal
// using the valuation oracle.
func (a *App) CPURespondPending(ctx context.Context, teamID, cpuActorID uuid.UUID) (int, error) {
	pending, err := a.repo.ListPendingForTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}
	roster, err := a.players.GetTeamRoster(ctx, teamID)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, proposal := range pending {
		eval := a.oracle.EvaluateIncomingTrade(proposal, roster)
		if eval.Accept {
			_, err = a.AcceptTrade(ctx, proposal.ID, cpuActorID)
		} else {
			_, err = a.RejectTrade(ctx, proposal.ID, cpuActorID)
		}
		if err != nil {
			return resolved, err
		}
		resolved++
	}
	return resolved, nil
}

// GetTrade returns one proposal.
func (a *App) GetTrade(ctx context.Context, tradeID uuid.UUID) (*models.TradeProposal, error) {
	return a.repo.GetProposal(ctx, tradeID)
}

// ListPendingForTeam returns proposals awaiting the team's decision.
func (a *App) ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.TradeProposal, error) {
	return a.repo.ListPendingForTeam(ctx, teamID)
}

func (a *App) executeSwap(ctx context.Context, tx *sql.Tx, p *models.TradeProposal) error {
	for _, playerID := range p.FromAssets.PlayerIDs {
		if err := a.players.TransferPlayer(ctx, tx, playerID, p.FromTeamID, p.ToTeamID); err != nil {
			return err
		}
	}
	for _, playerID := range p.ToAssets.PlayerIDs {
		if err := a.players.TransferPlayer(ctx, tx, playerID, p.ToTeamID, p.FromTeamID); err != nil {
			return err
		}
	}
	for _, pickID := range p.FromAssets.PickIDs {
		if err := a.picks.TransferPick(ctx, tx, pickID, p.FromTeamID, p.ToTeamID); err != nil {
			return err
		}
	}
	for _, pickID := range p.ToAssets.PickIDs {
		if err := a.picks.TransferPick(ctx, tx, pickID, p.ToTeamID, p.FromTeamID); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) validateAssets(ctx context.Context, ownerID uuid.UUID, assets models.TradeAssets) error {
	for _, playerID := range assets.PlayerIDs {
		player, err := a.players.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if player.TeamID == nil || *player.TeamID != ownerID {
			return fmt.Errorf("player %s: %w", playerID, ErrAssetNotOwned)
		}
	}
	for _, pickID := range assets.PickIDs {
		pick, err := a.picks.GetPick(ctx, pickID)
		if err != nil {
			return err
		}
		if pick.CurrentTeamID != ownerID {
			return fmt.Errorf("pick %s: %w", pickID, ErrAssetNotOwned)
		}
		if pick.PlayerID != nil {
			return fmt.Errorf("pick %s already used: %w", pickID, ErrAssetNotOwned)
		}
	}
	return nil
}
