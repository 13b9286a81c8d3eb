package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncAssignmentsRun()
	ObserveAssignmentDuration(duration float64)
	IncBoardEditsApplied()
	IncEditsRejected()
	IncResyncs()
	IncRoundsStarted()
	IncRoundsEnded()
	IncRoundsCancelled()
	SetStartupTime(duration float64)
}
