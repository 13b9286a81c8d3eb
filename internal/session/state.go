package session

import "errors"

// RoundState is the derived lifecycle state of a round.
type RoundState string

const (
	RoundUnassigned RoundState = "UNASSIGNED"
	RoundAssigned   RoundState = "ASSIGNED"
	RoundStarted    RoundState = "STARTED"
	RoundEnded      RoundState = "ENDED"
)

// Guard errors returned when a mutation is illegal in the round's current
// state. They are rejected locally, before any network call.
var (
	ErrRoundStarted    = errors.New("round already started: slot edits are frozen")
	ErrRoundNotStarted = errors.New("round not started")
	ErrRoundEnded      = errors.New("round already ended")
	ErrNoRound         = errors.New("no current round")
)

// State derives the lifecycle state from the round's timestamps and courts.
func (r *Round) State() RoundState {
	switch {
	case r.EndedAt != nil:
		return RoundEnded
	case r.StartedAt != nil:
		return RoundStarted
	case len(r.CourtAssignments) > 0:
		return RoundAssigned
	}
	return RoundUnassigned
}

// CanAssign reports whether (re-)running assignment is legal. Re-running it
// before the round starts fully replaces the court assignments.
func (r *Round) CanAssign() bool {
	s := r.State()
	return s == RoundUnassigned || s == RoundAssigned
}

// CanStart reports whether the round may be started. Any number of filled
// slots is acceptable, but the round must have courts.
func (r *Round) CanStart() bool {
	return r.State() == RoundAssigned
}

// CanEnd reports whether the round may be ended.
func (r *Round) CanEnd() bool {
	return r.State() == RoundStarted
}

// CanCancel reports whether the round may be cancelled. Cancellation is
// only legal before the round starts; it removes the round's courts without
// consuming a round index.
func (r *Round) CanCancel() bool {
	s := r.State()
	return s == RoundUnassigned || s == RoundAssigned
}

// CanEditSlots reports whether slot-level mutations (place, swap, remove)
// are accepted. Starting a round freezes the board.
func (r *Round) CanEditSlots() bool {
	return r.StartedAt == nil && r.EndedAt == nil
}

// GuardEdit returns the guard error for a slot mutation, or nil when the
// mutation is legal.
func (r *Round) GuardEdit() error {
	switch r.State() {
	case RoundStarted:
		return ErrRoundStarted
	case RoundEnded:
		return ErrRoundEnded
	}
	return nil
}
