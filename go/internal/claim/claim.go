// Package claim models the outcome of a conditional-update claim on a
// contested resource: a free agent, a draft prospect, a pending trade, a
// playoff series result. A claim either succeeds exactly once or reports
// that another actor got there first; losing the race is an expected
// outcome, not an error.
package claim

import (
	"database/sql"
	"errors"
)

// Status tags the two ways a claim attempt can end.
type Status int

const (
	// StatusClaimed means this attempt won the resource.
	StatusClaimed Status = iota
	// StatusAlreadyTaken means a concurrent actor claimed it first.
	StatusAlreadyTaken
)

// Outcome is the tagged result of a claim attempt. Callers switch on the
// status instead of interpreting a bare boolean or row count.
type Outcome[T any] struct {
	Status   Status
	Resource T // valid only when Status == StatusClaimed
}

// Claimed builds a winning outcome carrying the claimed resource.
func Claimed[T any](resource T) Outcome[T] {
	return Outcome[T]{Status: StatusClaimed, Resource: resource}
}

// AlreadyTaken builds a losing outcome.
func AlreadyTaken[T any]() Outcome[T] {
	return Outcome[T]{Status: StatusAlreadyTaken}
}

// Won reports whether this attempt claimed the resource.
func (o Outcome[T]) Won() bool {
	return o.Status == StatusClaimed
}

// FromRow converts the result of a conditional UPDATE ... RETURNING scan
// into an outcome: sql.ErrNoRows means the unclaimed condition no longer
// held, i.e. somebody else won the race.
func FromRow[T any](resource T, err error) (Outcome[T], error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AlreadyTaken[T](), nil
		}
		var zero Outcome[T]
		return zero, err
	}
	return Claimed(resource), nil
}
