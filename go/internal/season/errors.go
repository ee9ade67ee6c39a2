package season

import "errors"

var (
	// ErrSeasonNotFound means no season exists with the given id.
	ErrSeasonNotFound = errors.New("season not found")

	// ErrFranchiseNotFound means no franchise exists with the given id.
	ErrFranchiseNotFound = errors.New("franchise not found")

	// ErrWrongPhase means the requested action is not legal in the
	// franchise's current phase.
	ErrWrongPhase = errors.New("not allowed in current phase")

	// ErrTradeDeadlinePassed means the regular-season trade window has
	// closed.
	ErrTradeDeadlinePassed = errors.New("trade deadline has passed")

	// ErrScheduleNotComplete means the regular season still has games
	// left before the playoffs can begin.
	ErrScheduleNotComplete = errors.New("regular season schedule not complete")

	// ErrScheduleComplete means every regular-season day has been played.
	ErrScheduleComplete = errors.New("regular season schedule complete")

	// ErrChampionNotCrowned means the playoffs have not produced a
	// champion yet.
	ErrChampionNotCrowned = errors.New("champion not crowned")

	// ErrStandingsIncomplete means not every team has a standings row.
	ErrStandingsIncomplete = errors.New("standings incomplete")
)
