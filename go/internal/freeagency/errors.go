package freeagency

import "errors"

var (
	// ErrRosterFull means a signing would push the roster past the cap.
	ErrRosterFull = errors.New("roster is full")
)
