package sim

import (
	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

// HeuristicOracle is the default StrategyOracle. Valuations are simple
// rating arithmetic; the engine only depends on them being deterministic
// for a given input and cheap to compute.
type HeuristicOracle struct{}

func NewHeuristicOracle() *HeuristicOracle {
	return &HeuristicOracle{}
}

func (o *HeuristicOracle) DetermineTeamStrategy(standing models.Standing, roster []models.Player) TeamStrategy {
	pct := standing.WinPct()
	switch {
	case pct >= 0.55:
		return StrategyContend
	case pct >= 0.40:
		return StrategyRetool
	default:
		return StrategyRebuild
	}
}

func (o *HeuristicOracle) EvaluateIncomingTrade(proposal models.TradeProposal, roster []models.Player) TradeEvaluation {
	// Count-based proxy: more incoming assets than outgoing reads as a
	// win. Real valuation lives behind this interface.
	incoming := len(proposal.FromAssets.PlayerIDs) + len(proposal.FromAssets.PickIDs)
	outgoing := len(proposal.ToAssets.PlayerIDs) + len(proposal.ToAssets.PickIDs)
	score := float64(incoming - outgoing)
	return TradeEvaluation{Accept: score >= 0, Score: score}
}

func (o *HeuristicOracle) EvaluateFreeAgentTarget(target models.Player, roster []models.Player) FreeAgentEvaluation {
	worst := 100
	for _, p := range roster {
		if p.Ratings.Overall < worst {
			worst = p.Ratings.Overall
		}
	}
	if len(roster) >= 15 && target.Ratings.Overall <= worst {
		return FreeAgentEvaluation{Interested: false}
	}
	offer := int64(target.Ratings.Overall) * 250_000
	return FreeAgentEvaluation{Interested: true, MaxOffer: offer}
}

func (o *HeuristicOracle) SelectDraftPick(roster []models.Player, prospects []models.DraftProspect, pickNumber int) uuid.UUID {
	need := positionalNeed(roster)

	var bestID uuid.UUID
	bestValue := -1.0
	for _, pr := range prospects {
		if pr.IsDrafted {
			continue
		}
		// Best-player-available, nudged by positional need and by value
		// over the slot's expected rating.
		value := float64(pr.Ratings.Overall) + float64(pr.Ratings.Potential)/2
		if pr.Position == need {
			value += 5
		}
		value += float64(pr.Ratings.Overall) - slotExpectation(pickNumber)
		if value > bestValue {
			bestValue = value
			bestID = pr.ID
		}
	}
	return bestID
}

func positionalNeed(roster []models.Player) string {
	counts := map[string]int{"PG": 0, "SG": 0, "SF": 0, "PF": 0, "C": 0}
	for _, p := range roster {
		counts[p.Position]++
	}
	need, min := "PG", int(^uint(0)>>1)
	for _, pos := range []string{"PG", "SG", "SF", "PF", "C"} {
		if counts[pos] < min {
			need, min = pos, counts[pos]
		}
	}
	return need
}

// slotExpectation approximates the rating a prospect "should" have at a
// given overall pick, linearly decaying from the top of the board.
func slotExpectation(pickNumber int) float64 {
	exp := 80 - float64(pickNumber)*0.5
	if exp < 50 {
		exp = 50
	}
	return exp
}
