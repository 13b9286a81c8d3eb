package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	AssignmentsRun     prometheus.Counter
	AssignmentDuration prometheus.Histogram
	BoardEditsApplied  prometheus.Counter
	EditsRejected      prometheus.Counter
	Resyncs            prometheus.Counter
	RoundsStarted      prometheus.Counter
	RoundsEnded        prometheus.Counter
	RoundsCancelled    prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
