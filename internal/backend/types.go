package backend

import (
	"fmt"

	"github.com/courtflow/courtflow/internal/session"
)

// APIError is a non-2xx response from the backend. The board treats every
// variety the same way (notify and resync), but the message is shown to
// the operator.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Message)
}

type errorResponse struct {
	Error string `json:"error"`
}

type setAttendanceRequest struct {
	PlayerIDs []string `json:"player_ids"`
}

type autoAssignRequest struct {
	Preferences  session.Preferences       `json:"preferences"`
	LockedCourts []session.CourtAssignment `json:"locked_courts,omitempty"`
}

type manualAssignRequest struct {
	Courts []session.CourtAssignment `json:"courts"`
}

type updateCourtRequest struct {
	TeamAPlayer1 *string `json:"team_a_player1_id"`
	TeamAPlayer2 *string `json:"team_a_player2_id"`
	TeamBPlayer1 *string `json:"team_b_player1_id"`
	TeamBPlayer2 *string `json:"team_b_player2_id"`
}

type createGuestRequest struct {
	FullName string `json:"full_name"`
	Gender   string `json:"gender,omitempty"`
	Level    string `json:"level,omitempty"`
}
