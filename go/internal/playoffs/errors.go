package playoffs

import "errors"

var (
	// ErrSeriesNotFound indicates the series id does not exist.
	ErrSeriesNotFound = errors.New("series not found")
	// ErrSeriesCompleted indicates an attempt to record a game for a
	// series that already reached its win target. Batch sweeps treat
	// this as skip-and-continue.
	ErrSeriesCompleted = errors.New("series already completed")
	// ErrStandingsIncomplete indicates playoff generation was requested
	// before all teams have standings. Fatal, never retried.
	ErrStandingsIncomplete = errors.New("standings incomplete")
	// ErrRoundNotComplete indicates next-round generation was requested
	// while the current round still has live series.
	ErrRoundNotComplete = errors.New("round not complete")
	// ErrPlayoffsNotStarted indicates no bracket exists for the season.
	ErrPlayoffsNotStarted = errors.New("playoffs not started")
)
