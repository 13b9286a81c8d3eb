package stats

import (
	"strings"

	"github.com/courtflow/courtflow/internal/session"
)

// WaitingPlayers returns the eligible players not occupying any slot in the
// current round, preserving eligibility order. With no current round every
// eligible player is waiting.
func WaitingPlayers(eligible []session.Player, current *session.Round) []session.Player {
	if current == nil {
		return append([]session.Player(nil), eligible...)
	}
	playing := current.PlayingPlayerIDs()
	var waiting []session.Player
	for _, p := range eligible {
		if !playing[p.ID] {
			waiting = append(waiting, p)
		}
	}
	return waiting
}

// HistoryGlyphs renders one character per round from session start:
// '-' for rounds before the player joined, 'P' for rounds the player
// occupied a slot, 'W' otherwise. Derived on every call, never cached.
func HistoryGlyphs(rounds []session.Round, attendance []session.Attendance, playerID string) string {
	checkIn, joined := checkInTimes(attendance)[playerID]

	var b strings.Builder
	for ri := range rounds {
		round := &rounds[ri]
		switch {
		case playedIn(round, playerID):
			b.WriteByte('P')
		case !joined || round.CreatedAt.Before(checkIn):
			b.WriteByte('-')
		default:
			b.WriteByte('W')
		}
	}
	return b.String()
}

func playedIn(round *session.Round, playerID string) bool {
	for ci := range round.CourtAssignments {
		if round.CourtAssignments[ci].Has(playerID) {
			return true
		}
	}
	return false
}

// View caches one computed statistics snapshot keyed by input identity.
// It recomputes when handed different round or attendance slices and
// otherwise returns the previous result unchanged. It is not a mutable
// incremental model: a changed input always triggers a full recompute.
type View struct {
	rounds     []session.Round
	attendance []session.Attendance
	players    []session.Player
	duration   int
	cached     []session.PlayerStats
}

// Stats returns the participation records for the given inputs, reusing the
// cached result when the inputs are the same slices as last time.
func (v *View) Stats(rounds []session.Round, players []session.Player, attendance []session.Attendance, matchDurationMinutes int) []session.PlayerStats {
	if v.cached != nil &&
		sameRounds(v.rounds, rounds) &&
		sameAttendance(v.attendance, attendance) &&
		samePlayers(v.players, players) &&
		v.duration == matchDurationMinutes {
		return v.cached
	}
	v.rounds, v.attendance, v.players, v.duration = rounds, attendance, players, matchDurationMinutes
	v.cached = Compute(rounds, players, attendance, matchDurationMinutes)
	return v.cached
}

// Invalidate drops the cached snapshot so the next call recomputes.
func (v *View) Invalidate() {
	v.cached = nil
}

func sameRounds(a, b []session.Round) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func sameAttendance(a, b []session.Attendance) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func samePlayers(a, b []session.Player) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
