package board

import (
	"errors"
	"sync"

	"github.com/courtflow/courtflow/internal/backend"
	"github.com/courtflow/courtflow/internal/metrics"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/courtflow/courtflow/internal/stats"
)

// Validation and guard errors rejected locally, before any network call.
var (
	ErrNoEligiblePlayers  = errors.New("no eligible players checked in")
	ErrUnknownCourt       = errors.New("no such court in the current round")
	ErrInvalidSlot        = errors.New("invalid slot address")
	ErrInvalidPreferences = errors.New("preference weights must be between 0 and 1")
	ErrNoCourts           = errors.New("round has no court assignments")
)

// Board is the operator's live view of one session. It keeps a confirmed
// mirror of the server state plus a pending overlay of the current round
// holding optimistic edits. Any backend failure discards the overlay and
// refetches, so the visible board always converges to server truth.
type Board struct {
	client  backend.Client
	metrics metrics.Metrics
	notify  func(error)

	mu          sync.Mutex
	wg          sync.WaitGroup
	sessionID   string
	session     *session.Session
	players     []session.Player
	attendance  []session.Attendance
	eligible    []session.Player
	rounds      []session.Round
	overlay     *session.Round
	serverStats *session.SessionStats
	view        stats.View
	timer       Timer
}
