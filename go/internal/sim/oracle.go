// Package sim holds the scoring-oracle boundary: the game simulator and
// the CPU valuation heuristics the engine consults. The engine treats
// them as pure functions; none of them touch the database.
package sim

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// GameResult is the outcome of one simulated game.
type GameResult struct {
	HomeScore int             `json:"home_score"`
	AwayScore int             `json:"away_score"`
	WinnerID  uuid.UUID       `json:"winner_id"`
	BoxStats  json.RawMessage `json:"box_stats,omitempty"`
}

// GameSimulator produces a game result from two rosters.
type GameSimulator interface {
	SimulateGame(homeTeamID, awayTeamID uuid.UUID, homeRoster, awayRoster []models.Player) GameResult
}

// TeamStrategy summarizes how a CPU team approaches the current tick.
type TeamStrategy string

const (
	StrategyContend TeamStrategy = "CONTEND"
	StrategyRetool  TeamStrategy = "RETOOL"
	StrategyRebuild TeamStrategy = "REBUILD"
)

// TradeEvaluation is the oracle's verdict on an incoming trade.
type TradeEvaluation struct {
	Accept bool
	Score  float64
}

// FreeAgentEvaluation is the oracle's verdict on a free-agent target.
type FreeAgentEvaluation struct {
	Interested bool
	MaxOffer   int64
}

// StrategyOracle groups the CPU valuation heuristics. Implementations
// must be fast; calls happen while claim locks are held.
type StrategyOracle interface {
	DetermineTeamStrategy(standing models.Standing, roster []models.Player) TeamStrategy
	EvaluateIncomingTrade(proposal models.TradeProposal, roster []models.Player) TradeEvaluation
	EvaluateFreeAgentTarget(target models.Player, roster []models.Player) FreeAgentEvaluation
	// SelectDraftPick returns the chosen prospect's id. The sequencer
	// still runs the choice through the claim protocol: the oracle's
	// pick can race with a human pick on the same prospect.
	SelectDraftPick(roster []models.Player, prospects []models.DraftProspect, pickNumber int) uuid.UUID
}

// LotteryOdds maps pre-lottery rank (1 = worst record) to a probability
// weight. Fourteen entries; weights need not sum to 100.
type LotteryOdds []float64

// GetLotteryOdds returns the weight for a rank, 0 for ranks outside the
// table.
func (o LotteryOdds) GetLotteryOdds(rank int) float64 {
	if rank < 1 || rank > len(o) {
		return 0
	}
	return o[rank-1]
}
