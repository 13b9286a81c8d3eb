package store

import (
	"time"

	"github.com/courtflow/courtflow/internal/session"
)

// Store is the system of record for sessions, players, attendance, rounds
// and court assignments. It is the final authority on round state: slot
// mutations against a started round are rejected here even if a stale
// client attempts them.
type Store interface {
	// Sessions
	CreateSession(name string, date time.Time, matchDurationMinutes, numberOfCourts int) (*session.Session, error)
	GetSession(id string) (*session.Session, error)
	EndSession(id string) error

	// Players
	GetActivePlayers() ([]session.Player, error)
	CreatePlayer(p session.Player) (*session.Player, error)

	// Attendance
	GetAttendance(sessionID string) ([]session.Attendance, error)
	SetAttendance(sessionID string, playerIDs []string) ([]session.Attendance, error)

	// Rounds
	GetRounds(sessionID string) ([]session.Round, error)
	GetRound(id string) (*session.Round, error)
	ReplaceUnstartedRound(sessionID string, courts []session.CourtAssignment) (*session.Round, error)
	StartRound(id string) (*session.Round, error)
	EndRound(id string) (*session.Round, error)
	CancelRound(id string) error
	UpdateCourtAssignment(id string, slots [4]*string) (*session.CourtAssignment, error)
}
