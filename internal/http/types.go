package http

import (
	"net/http"

	"github.com/courtflow/courtflow/internal/config"
	"github.com/courtflow/courtflow/internal/metrics"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/courtflow/courtflow/internal/store"
	"github.com/go-playground/validator/v10"
)

type Server struct {
	Store          store.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	validate       *validator.Validate
}

type createSessionRequest struct {
	Name                 string `json:"name" validate:"required"`
	Date                 string `json:"date" validate:"required"`
	MatchDurationMinutes int    `json:"match_duration_minutes" validate:"min=1"`
	NumberOfCourts       int    `json:"number_of_courts" validate:"min=1"`
}

type setAttendanceRequest struct {
	PlayerIDs []string `json:"player_ids" validate:"dive,required"`
}

type autoAssignRequest struct {
	Preferences  session.Preferences       `json:"preferences" validate:"required"`
	LockedCourts []session.CourtAssignment `json:"locked_courts"`
}

type manualAssignRequest struct {
	Courts []session.CourtAssignment `json:"courts" validate:"required,dive"`
}

type updateCourtRequest struct {
	TeamAPlayer1 *string `json:"team_a_player1_id"`
	TeamAPlayer2 *string `json:"team_a_player2_id"`
	TeamBPlayer1 *string `json:"team_b_player1_id"`
	TeamBPlayer2 *string `json:"team_b_player2_id"`
}

type createGuestRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female other unspecified"`
	Level    string `json:"level"`
}

type errorResponse struct {
	Error string `json:"error"`
}
