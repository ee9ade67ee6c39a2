package draft

import "errors"

var (
	// ErrLotteryAlreadyRun rejects a second lottery run for a season.
	ErrLotteryAlreadyRun = errors.New("lottery already completed")
	// ErrLotteryNotRun indicates the pick order does not exist yet.
	ErrLotteryNotRun = errors.New("lottery has not been run")
	// ErrDraftComplete indicates every pick has been used.
	ErrDraftComplete = errors.New("draft complete")
	// ErrOutOfTurn rejects a pick by a team whose pick is not up. No
	// prospect or pick row is mutated.
	ErrOutOfTurn = errors.New("not this team's pick")
	// ErrProspectNotFound indicates an unknown prospect id.
	ErrProspectNotFound = errors.New("prospect not found")
	// ErrNoProspects indicates the board is empty, which should never
	// happen before the draft ends.
	ErrNoProspects = errors.New("no prospects available")
)
