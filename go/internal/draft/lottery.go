package draft

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
)

// LotterySize is the number of non-playoff teams entered in the lottery.
const LotterySize = 14

// lotteryTopPicks is how many picks the weighted draw assigns; the rest
// fall in pre-lottery order.
const lotteryTopPicks = 4

// DefaultLotteryOdds is the built-in odds table, worst record first.
// It is configuration, not law: the yaml league config can replace it.
var DefaultLotteryOdds = sim.LotteryOdds{
	14.0, 14.0, 14.0, 12.5, 10.5, 9.0, 7.5, 6.0, 4.5, 3.0, 2.0, 1.5, 1.0, 0.5,
}

// LotteryResult is the drawn outcome for one entry.
type LotteryResult struct {
	TeamID              uuid.UUID
	PreLotteryPosition  int
	PostLotteryPosition int
	LotteryWin          bool
}

// DrawLottery runs the weighted-without-replacement draw over the
// entries, which must be ordered by PreLotteryPosition (1 = worst
// record). The top picks are sampled one at a time, each selection
// removing the winner from the pool and renormalizing the remaining
// weights; everyone else files in behind them in pre-lottery order. The
// draw is deterministic for a fixed rng.
func DrawLottery(entries []models.LotteryEntry, odds sim.LotteryOdds, rng *rand.Rand) ([]LotteryResult, error) {
	if len(entries) != LotterySize {
		return nil, fmt.Errorf("lottery needs %d entries, have %d", LotterySize, len(entries))
	}
	for i, e := range entries {
		if e.PreLotteryPosition != i+1 {
			return nil, fmt.Errorf("entries out of order: index %d has pre-lottery position %d", i, e.PreLotteryPosition)
		}
	}

	// Weighted draw for the top of the board.
	type candidate struct {
		idx    int
		weight float64
	}
	pool := make([]candidate, len(entries))
	for i := range entries {
		w := odds.GetLotteryOdds(entries[i].PreLotteryPosition)
		if w <= 0 {
			return nil, fmt.Errorf("no lottery odds for rank %d", entries[i].PreLotteryPosition)
		}
		pool[i] = candidate{idx: i, weight: w}
	}

	drawn := make([]int, 0, lotteryTopPicks)
	for pick := 0; pick < lotteryTopPicks; pick++ {
		total := 0.0
		for _, c := range pool {
			total += c.weight
		}
		roll := rng.Float64() * total
		chosen := len(pool) - 1
		for i, c := range pool {
			roll -= c.weight
			if roll < 0 {
				chosen = i
				break
			}
		}
		drawn = append(drawn, pool[chosen].idx)
		pool = append(pool[:chosen], pool[chosen+1:]...)
	}

	// Assemble final order: drawn teams first, the rest in pre-lottery
	// order.
	inTop := make(map[int]bool, lotteryTopPicks)
	for _, idx := range drawn {
		inTop[idx] = true
	}
	order := make([]int, 0, len(entries))
	order = append(order, drawn...)
	for i := range entries {
		if !inTop[i] {
			order = append(order, i)
		}
	}

	results := make([]LotteryResult, len(entries))
	for pos, idx := range order {
		e := entries[idx]
		results[idx] = LotteryResult{
			TeamID:              e.TeamID,
			PreLotteryPosition:  e.PreLotteryPosition,
			PostLotteryPosition: pos + 1,
			LotteryWin:          pos+1 < e.PreLotteryPosition,
		}
	}
	return results, nil
}
