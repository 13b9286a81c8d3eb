package backend

import (
	"sync"

	"github.com/courtflow/courtflow/internal/session"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	GetSessionFunc            func(id string) (*session.Session, error)
	GetPlayersFunc            func() ([]session.Player, error)
	GetRoundsFunc             func(sessionID string) ([]session.Round, error)
	GetAttendanceFunc         func(sessionID string) ([]session.Attendance, error)
	SetAttendanceFunc         func(sessionID string, playerIDs []string) ([]session.Attendance, error)
	AutoAssignFunc            func(sessionID string, prefs session.Preferences, locked []session.CourtAssignment) (*session.Round, error)
	ManualAssignFunc          func(sessionID string, courts []session.CourtAssignment) (*session.Round, error)
	StartRoundFunc            func(id string) (*session.Round, error)
	EndRoundFunc              func(id string) (*session.Round, error)
	CancelRoundFunc           func(id string) error
	UpdateCourtAssignmentFunc func(id string, slots [4]*string) (*session.CourtAssignment, error)
	GetSessionStatsFunc       func(sessionID string) (*session.SessionStats, error)
	CreateGuestFunc           func(fullName string, gender session.Gender, level string) (*session.Player, error)

	mu sync.Mutex

	UpdateCourtAssignmentCalls []UpdateCourtAssignmentCall
	AutoAssignCalls            []AutoAssignCall
	SetAttendanceCalls         []SetAttendanceCall
	StartRoundCalls            []string
	EndRoundCalls              []string
	CancelRoundCalls           []string
	RoundFetches               int
}

// UpdateCourtAssignmentCall records a call to UpdateCourtAssignment.
type UpdateCourtAssignmentCall struct {
	ID    string
	Slots [4]*string
}

// AutoAssignCall records a call to AutoAssign.
type AutoAssignCall struct {
	SessionID string
	Prefs     session.Preferences
	Locked    []session.CourtAssignment
}

// SetAttendanceCall records a call to SetAttendance.
type SetAttendanceCall struct {
	SessionID string
	PlayerIDs []string
}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) GetSession(id string) (*session.Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(id)
	}
	return nil, nil
}

func (m *MockClient) GetPlayers() ([]session.Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc()
	}
	return nil, nil
}

func (m *MockClient) GetRounds(sessionID string) ([]session.Round, error) {
	m.mu.Lock()
	m.RoundFetches++
	m.mu.Unlock()
	if m.GetRoundsFunc != nil {
		return m.GetRoundsFunc(sessionID)
	}
	return nil, nil
}

func (m *MockClient) GetAttendance(sessionID string) ([]session.Attendance, error) {
	if m.GetAttendanceFunc != nil {
		return m.GetAttendanceFunc(sessionID)
	}
	return nil, nil
}

func (m *MockClient) SetAttendance(sessionID string, playerIDs []string) ([]session.Attendance, error) {
	m.mu.Lock()
	m.SetAttendanceCalls = append(m.SetAttendanceCalls, SetAttendanceCall{SessionID: sessionID, PlayerIDs: playerIDs})
	m.mu.Unlock()
	if m.SetAttendanceFunc != nil {
		return m.SetAttendanceFunc(sessionID, playerIDs)
	}
	return nil, nil
}

func (m *MockClient) AutoAssign(sessionID string, prefs session.Preferences, locked []session.CourtAssignment) (*session.Round, error) {
	m.mu.Lock()
	m.AutoAssignCalls = append(m.AutoAssignCalls, AutoAssignCall{SessionID: sessionID, Prefs: prefs, Locked: locked})
	m.mu.Unlock()
	if m.AutoAssignFunc != nil {
		return m.AutoAssignFunc(sessionID, prefs, locked)
	}
	return nil, nil
}

func (m *MockClient) ManualAssign(sessionID string, courts []session.CourtAssignment) (*session.Round, error) {
	if m.ManualAssignFunc != nil {
		return m.ManualAssignFunc(sessionID, courts)
	}
	return nil, nil
}

func (m *MockClient) StartRound(id string) (*session.Round, error) {
	m.mu.Lock()
	m.StartRoundCalls = append(m.StartRoundCalls, id)
	m.mu.Unlock()
	if m.StartRoundFunc != nil {
		return m.StartRoundFunc(id)
	}
	return nil, nil
}

func (m *MockClient) EndRound(id string) (*session.Round, error) {
	m.mu.Lock()
	m.EndRoundCalls = append(m.EndRoundCalls, id)
	m.mu.Unlock()
	if m.EndRoundFunc != nil {
		return m.EndRoundFunc(id)
	}
	return nil, nil
}

func (m *MockClient) CancelRound(id string) error {
	m.mu.Lock()
	m.CancelRoundCalls = append(m.CancelRoundCalls, id)
	m.mu.Unlock()
	if m.CancelRoundFunc != nil {
		return m.CancelRoundFunc(id)
	}
	return nil
}

func (m *MockClient) UpdateCourtAssignment(id string, slots [4]*string) (*session.CourtAssignment, error) {
	m.mu.Lock()
	m.UpdateCourtAssignmentCalls = append(m.UpdateCourtAssignmentCalls, UpdateCourtAssignmentCall{ID: id, Slots: slots})
	m.mu.Unlock()
	if m.UpdateCourtAssignmentFunc != nil {
		return m.UpdateCourtAssignmentFunc(id, slots)
	}
	return nil, nil
}

func (m *MockClient) GetSessionStats(sessionID string) (*session.SessionStats, error) {
	if m.GetSessionStatsFunc != nil {
		return m.GetSessionStatsFunc(sessionID)
	}
	return nil, nil
}

func (m *MockClient) CreateGuest(fullName string, gender session.Gender, level string) (*session.Player, error) {
	if m.CreateGuestFunc != nil {
		return m.CreateGuestFunc(fullName, gender, level)
	}
	return nil, nil
}
