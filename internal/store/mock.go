package store

import (
	"sync"
	"time"

	"github.com/courtflow/courtflow/internal/session"
)

// MockStore is a mock implementation of the Store interface for testing.
type MockStore struct {
	CreateSessionFunc         func(name string, date time.Time, matchDurationMinutes, numberOfCourts int) (*session.Session, error)
	GetSessionFunc            func(id string) (*session.Session, error)
	EndSessionFunc            func(id string) error
	GetActivePlayersFunc      func() ([]session.Player, error)
	CreatePlayerFunc          func(p session.Player) (*session.Player, error)
	GetAttendanceFunc         func(sessionID string) ([]session.Attendance, error)
	SetAttendanceFunc         func(sessionID string, playerIDs []string) ([]session.Attendance, error)
	GetRoundsFunc             func(sessionID string) ([]session.Round, error)
	GetRoundFunc              func(id string) (*session.Round, error)
	ReplaceUnstartedRoundFunc func(sessionID string, courts []session.CourtAssignment) (*session.Round, error)
	StartRoundFunc            func(id string) (*session.Round, error)
	EndRoundFunc              func(id string) (*session.Round, error)
	CancelRoundFunc           func(id string) error
	UpdateCourtAssignmentFunc func(id string, slots [4]*string) (*session.CourtAssignment, error)

	mu sync.Mutex

	ReplaceUnstartedRoundCalls []ReplaceUnstartedRoundCall
	UpdateCourtAssignmentCalls []UpdateCourtAssignmentCall
	SetAttendanceCalls         []SetAttendanceCall
	StartRoundCalls            []string
	EndRoundCalls              []string
	CancelRoundCalls           []string
}

// ReplaceUnstartedRoundCall records a call to ReplaceUnstartedRound.
type ReplaceUnstartedRoundCall struct {
	SessionID string
	Courts    []session.CourtAssignment
}

// UpdateCourtAssignmentCall records a call to UpdateCourtAssignment.
type UpdateCourtAssignmentCall struct {
	ID    string
	Slots [4]*string
}

// SetAttendanceCall records a call to SetAttendance.
type SetAttendanceCall struct {
	SessionID string
	PlayerIDs []string
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) CreateSession(name string, date time.Time, matchDurationMinutes, numberOfCourts int) (*session.Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(name, date, matchDurationMinutes, numberOfCourts)
	}
	return nil, nil
}

func (m *MockStore) GetSession(id string) (*session.Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(id)
	}
	return nil, nil
}

func (m *MockStore) EndSession(id string) error {
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(id)
	}
	return nil
}

func (m *MockStore) GetActivePlayers() ([]session.Player, error) {
	if m.GetActivePlayersFunc != nil {
		return m.GetActivePlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) CreatePlayer(p session.Player) (*session.Player, error) {
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(p)
	}
	return nil, nil
}

func (m *MockStore) GetAttendance(sessionID string) ([]session.Attendance, error) {
	if m.GetAttendanceFunc != nil {
		return m.GetAttendanceFunc(sessionID)
	}
	return nil, nil
}

func (m *MockStore) SetAttendance(sessionID string, playerIDs []string) ([]session.Attendance, error) {
	m.mu.Lock()
	m.SetAttendanceCalls = append(m.SetAttendanceCalls, SetAttendanceCall{SessionID: sessionID, PlayerIDs: playerIDs})
	m.mu.Unlock()
	if m.SetAttendanceFunc != nil {
		return m.SetAttendanceFunc(sessionID, playerIDs)
	}
	return nil, nil
}

func (m *MockStore) GetRounds(sessionID string) ([]session.Round, error) {
	if m.GetRoundsFunc != nil {
		return m.GetRoundsFunc(sessionID)
	}
	return nil, nil
}

func (m *MockStore) GetRound(id string) (*session.Round, error) {
	if m.GetRoundFunc != nil {
		return m.GetRoundFunc(id)
	}
	return nil, nil
}

func (m *MockStore) ReplaceUnstartedRound(sessionID string, courts []session.CourtAssignment) (*session.Round, error) {
	m.mu.Lock()
	m.ReplaceUnstartedRoundCalls = append(m.ReplaceUnstartedRoundCalls, ReplaceUnstartedRoundCall{SessionID: sessionID, Courts: courts})
	m.mu.Unlock()
	if m.ReplaceUnstartedRoundFunc != nil {
		return m.ReplaceUnstartedRoundFunc(sessionID, courts)
	}
	return nil, nil
}

func (m *MockStore) StartRound(id string) (*session.Round, error) {
	m.mu.Lock()
	m.StartRoundCalls = append(m.StartRoundCalls, id)
	m.mu.Unlock()
	if m.StartRoundFunc != nil {
		return m.StartRoundFunc(id)
	}
	return nil, nil
}

func (m *MockStore) EndRound(id string) (*session.Round, error) {
	m.mu.Lock()
	m.EndRoundCalls = append(m.EndRoundCalls, id)
	m.mu.Unlock()
	if m.EndRoundFunc != nil {
		return m.EndRoundFunc(id)
	}
	return nil, nil
}

func (m *MockStore) CancelRound(id string) error {
	m.mu.Lock()
	m.CancelRoundCalls = append(m.CancelRoundCalls, id)
	m.mu.Unlock()
	if m.CancelRoundFunc != nil {
		return m.CancelRoundFunc(id)
	}
	return nil
}

func (m *MockStore) UpdateCourtAssignment(id string, slots [4]*string) (*session.CourtAssignment, error) {
	m.mu.Lock()
	m.UpdateCourtAssignmentCalls = append(m.UpdateCourtAssignmentCalls, UpdateCourtAssignmentCall{ID: id, Slots: slots})
	m.mu.Unlock()
	if m.UpdateCourtAssignmentFunc != nil {
		return m.UpdateCourtAssignmentFunc(id, slots)
	}
	return nil, nil
}
