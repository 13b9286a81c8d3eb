package backend

import "github.com/courtflow/courtflow/internal/session"

// Client is the interface the operator console uses to reach the backend.
// One method per backend operation; the wire format is owned by the server.
type Client interface {
	GetSession(id string) (*session.Session, error)
	GetPlayers() ([]session.Player, error)
	GetRounds(sessionID string) ([]session.Round, error)
	GetAttendance(sessionID string) ([]session.Attendance, error)
	SetAttendance(sessionID string, playerIDs []string) ([]session.Attendance, error)
	AutoAssign(sessionID string, prefs session.Preferences, locked []session.CourtAssignment) (*session.Round, error)
	ManualAssign(sessionID string, courts []session.CourtAssignment) (*session.Round, error)
	StartRound(id string) (*session.Round, error)
	EndRound(id string) (*session.Round, error)
	CancelRound(id string) error
	UpdateCourtAssignment(id string, slots [4]*string) (*session.CourtAssignment, error)
	GetSessionStats(sessionID string) (*session.SessionStats, error)
	CreateGuest(fullName string, gender session.Gender, level string) (*session.Player, error)
}
