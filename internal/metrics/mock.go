package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	assignmentsRun      int
	assignmentDurations []float64
	boardEditsApplied   int
	editsRejected       int
	resyncs             int
	roundsStarted       int
	roundsEnded         int
	roundsCancelled     int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		assignmentDurations: make([]float64, 0),
	}
}

var _ Metrics = (*Mock)(nil)

func (m *Mock) IncAssignmentsRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignmentsRun++
}

func (m *Mock) ObserveAssignmentDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignmentDurations = append(m.assignmentDurations, duration)
}

func (m *Mock) IncBoardEditsApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boardEditsApplied++
}

func (m *Mock) IncEditsRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editsRejected++
}

func (m *Mock) IncResyncs() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resyncs++
}

func (m *Mock) IncRoundsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsStarted++
}

func (m *Mock) IncRoundsEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsEnded++
}

func (m *Mock) IncRoundsCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsCancelled++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// AssignmentsRun returns the number of times IncAssignmentsRun was called.
func (m *Mock) AssignmentsRun() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignmentsRun
}

// BoardEditsApplied returns the number of times IncBoardEditsApplied was called.
func (m *Mock) BoardEditsApplied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boardEditsApplied
}

// EditsRejected returns the number of times IncEditsRejected was called.
func (m *Mock) EditsRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editsRejected
}

// Resyncs returns the number of times IncResyncs was called.
func (m *Mock) Resyncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resyncs
}

// RoundsStarted returns the number of times IncRoundsStarted was called.
func (m *Mock) RoundsStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsStarted
}

// RoundsEnded returns the number of times IncRoundsEnded was called.
func (m *Mock) RoundsEnded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsEnded
}

// RoundsCancelled returns the number of times IncRoundsCancelled was called.
func (m *Mock) RoundsCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsCancelled
}
