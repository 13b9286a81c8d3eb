// Package backend is the HTTP client for the courtflow server API. The
// board and the CLI both drive the server through it.
package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtflow/courtflow/internal/session"
)

// APIClient implements the Client interface over HTTP and JSON.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

var _ Client = (*APIClient)(nil)

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses come back as *APIError.
func (c *APIClient) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("backend request", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) GetSession(id string) (*session.Session, error) {
	var sess session.Session
	if err := c.do(http.MethodGet, "/sessions/"+id, nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *APIClient) GetPlayers() ([]session.Player, error) {
	var players []session.Player
	if err := c.do(http.MethodGet, "/players", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *APIClient) GetRounds(sessionID string) ([]session.Round, error) {
	var rounds []session.Round
	if err := c.do(http.MethodGet, "/sessions/"+sessionID+"/rounds", nil, &rounds); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (c *APIClient) GetAttendance(sessionID string) ([]session.Attendance, error) {
	var attendance []session.Attendance
	if err := c.do(http.MethodGet, "/sessions/"+sessionID+"/attendance", nil, &attendance); err != nil {
		return nil, err
	}
	return attendance, nil
}

func (c *APIClient) SetAttendance(sessionID string, playerIDs []string) ([]session.Attendance, error) {
	if playerIDs == nil {
		playerIDs = []string{}
	}
	var attendance []session.Attendance
	err := c.do(http.MethodPut, "/sessions/"+sessionID+"/attendance", setAttendanceRequest{PlayerIDs: playerIDs}, &attendance)
	if err != nil {
		return nil, err
	}
	return attendance, nil
}

func (c *APIClient) AutoAssign(sessionID string, prefs session.Preferences, locked []session.CourtAssignment) (*session.Round, error) {
	var round session.Round
	req := autoAssignRequest{Preferences: prefs, LockedCourts: locked}
	if err := c.do(http.MethodPost, "/sessions/"+sessionID+"/auto-assign", req, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (c *APIClient) ManualAssign(sessionID string, courts []session.CourtAssignment) (*session.Round, error) {
	var round session.Round
	if err := c.do(http.MethodPost, "/sessions/"+sessionID+"/rounds", manualAssignRequest{Courts: courts}, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (c *APIClient) StartRound(id string) (*session.Round, error) {
	var round session.Round
	if err := c.do(http.MethodPost, "/rounds/"+id+"/start", nil, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (c *APIClient) EndRound(id string) (*session.Round, error) {
	var round session.Round
	if err := c.do(http.MethodPost, "/rounds/"+id+"/end", nil, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (c *APIClient) CancelRound(id string) error {
	return c.do(http.MethodDelete, "/rounds/"+id, nil, nil)
}

func (c *APIClient) UpdateCourtAssignment(id string, slots [4]*string) (*session.CourtAssignment, error) {
	req := updateCourtRequest{
		TeamAPlayer1: slots[0],
		TeamAPlayer2: slots[1],
		TeamBPlayer1: slots[2],
		TeamBPlayer2: slots[3],
	}
	var court session.CourtAssignment
	if err := c.do(http.MethodPatch, "/court-assignments/"+id, req, &court); err != nil {
		return nil, err
	}
	return &court, nil
}

func (c *APIClient) GetSessionStats(sessionID string) (*session.SessionStats, error) {
	var stats session.SessionStats
	if err := c.do(http.MethodGet, "/sessions/"+sessionID+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *APIClient) CreateGuest(fullName string, gender session.Gender, level string) (*session.Player, error) {
	req := createGuestRequest{FullName: fullName, Gender: string(gender), Level: level}
	var player session.Player
	if err := c.do(http.MethodPost, "/players/guest", req, &player); err != nil {
		return nil, err
	}
	return &player, nil
}
