package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		AssignmentsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtflow_assignments_run_total",
			Help: "The total number of auto-assignment runs.",
		}),
		AssignmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtflow_assignment_duration_seconds",
			Help:    "The duration of individual auto-assignment runs.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BoardEditsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtflow_board_edits_applied_total",
			Help: "The total number of court slot edits applied.",
		}),
		EditsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtflow_edits_rejected_total",
			Help: "The total number of slot edits rejected by round state guards.",
		}),
		Resyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtflow_resyncs_total",
			Help: "The total number of full board reconciliations.",
		}),
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtflow_rounds_started_total",
			Help: "The total number of rounds started.",
		}),
		RoundsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtflow_rounds_ended_total",
			Help: "The total number of rounds ended.",
		}),
		RoundsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtflow_rounds_cancelled_total",
			Help: "The total number of rounds cancelled before starting.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtflow_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.AssignmentsRun,
		s.AssignmentDuration,
		s.BoardEditsApplied,
		s.EditsRejected,
		s.Resyncs,
		s.RoundsStarted,
		s.RoundsEnded,
		s.RoundsCancelled,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncAssignmentsRun() {
	s.AssignmentsRun.Inc()
}

func (s *Service) ObserveAssignmentDuration(duration float64) {
	s.AssignmentDuration.Observe(duration)
}

func (s *Service) IncBoardEditsApplied() {
	s.BoardEditsApplied.Inc()
}

func (s *Service) IncEditsRejected() {
	s.EditsRejected.Inc()
}

func (s *Service) IncResyncs() {
	s.Resyncs.Inc()
}

func (s *Service) IncRoundsStarted() {
	s.RoundsStarted.Inc()
}

func (s *Service) IncRoundsEnded() {
	s.RoundsEnded.Inc()
}

func (s *Service) IncRoundsCancelled() {
	s.RoundsCancelled.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
