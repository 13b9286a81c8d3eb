package http

import (
	"net/http"

	"github.com/courtflow/courtflow/internal/config"
	"github.com/courtflow/courtflow/internal/metrics"
	"github.com/courtflow/courtflow/internal/store"
	"github.com/go-playground/validator/v10"
)

func NewServer(st store.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          st,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		validate:       validator.New(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /sessions", Chain(s.CreateSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}", Chain(s.GetSessionHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/end", Chain(s.EndSessionHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players/guest", Chain(s.CreateGuestHandler(), paramsMiddleware))

	s.Router.Handle("GET /sessions/{id}/attendance", Chain(s.GetAttendanceHandler(), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/attendance", Chain(s.SetAttendanceHandler(), paramsMiddleware))

	s.Router.Handle("GET /sessions/{id}/rounds", Chain(s.ListRoundsHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/auto-assign", Chain(s.AutoAssignHandler(), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/rounds", Chain(s.ManualAssignHandler(), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}/stats", Chain(s.SessionStatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /rounds/{id}/start", Chain(s.StartRoundHandler(), paramsMiddleware))
	s.Router.Handle("POST /rounds/{id}/end", Chain(s.EndRoundHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /rounds/{id}", Chain(s.CancelRoundHandler(), paramsMiddleware))

	s.Router.Handle("PATCH /court-assignments/{id}", Chain(s.UpdateCourtAssignmentHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
