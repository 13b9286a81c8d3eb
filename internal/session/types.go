package session

import (
	"time"
)

// Gender of a player. Guests may be created without one.
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
	GenderUnspecified Gender = "unspecified"
)

// SessionStatus represents the lifecycle status of a session.
type SessionStatus string

const (
	SessionDraft  SessionStatus = "draft"
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// AttendanceStatus marks whether a player is still present at the session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLeft    AttendanceStatus = "left"
)

// MatchType is derived from the genders of the four slot occupants.
// It is never stored authoritatively; see DeriveMatchType.
type MatchType string

const (
	MatchTypeMM    MatchType = "MM"
	MatchTypeFF    MatchType = "FF"
	MatchTypeMF    MatchType = "MF"
	MatchTypeOther MatchType = "OTHER"
)

// Player is a club member or a session-scoped guest.
type Player struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Gender   Gender `json:"gender"`
	Level    string `json:"level,omitempty"`
	IsTemp   bool   `json:"is_temp"`
	IsActive bool   `json:"is_active"`
}

// Session is one club evening: a fixed number of courts and a match duration.
type Session struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Date                 time.Time     `json:"date"`
	MatchDurationMinutes int           `json:"match_duration_minutes"`
	NumberOfCourts       int           `json:"number_of_courts"`
	Status               SessionStatus `json:"status"`
	StartedAt            *time.Time    `json:"started_at,omitempty"`
	EndedAt              *time.Time    `json:"ended_at,omitempty"`
}

// Attendance is one player's check-in record for one session.
type Attendance struct {
	ID          string           `json:"id"`
	SessionID   string           `json:"session_id"`
	PlayerID    string           `json:"player_id"`
	Status      AttendanceStatus `json:"status"`
	CheckInTime time.Time        `json:"check_in_time"`
}

// CourtAssignment is the four-player, two-team allocation for one court in
// one round. Slots are nullable; an empty slot is a nil pointer.
type CourtAssignment struct {
	ID           string    `json:"id"`
	RoundID      string    `json:"round_id"`
	CourtNumber  int       `json:"court_number"`
	TeamAPlayer1 *string   `json:"team_a_player1_id"`
	TeamAPlayer2 *string   `json:"team_a_player2_id"`
	TeamBPlayer1 *string   `json:"team_b_player1_id"`
	TeamBPlayer2 *string   `json:"team_b_player2_id"`
	MatchType    MatchType `json:"match_type"`
	Locked       bool      `json:"locked"`
}

// Round is one timed batch of simultaneous court matches.
type Round struct {
	ID               string            `json:"id"`
	SessionID        string            `json:"session_id"`
	RoundIndex       int               `json:"round_index"`
	CreatedAt        time.Time         `json:"created_at"`
	StartedAt        *time.Time        `json:"started_at,omitempty"`
	EndedAt          *time.Time        `json:"ended_at,omitempty"`
	CourtAssignments []CourtAssignment `json:"court_assignments"`
}

// Preferences is the weighted preference vector fed to the assignment
// engine. Desired match-type counts are soft targets, not hard constraints.
type Preferences struct {
	DesiredMM              int     `json:"desired_mm" validate:"min=0"`
	DesiredMF              int     `json:"desired_mf" validate:"min=0"`
	DesiredFF              int     `json:"desired_ff" validate:"min=0"`
	PrioritizeWaiting      float64 `json:"prioritize_waiting" validate:"min=0,max=1"`
	PrioritizeEqualMatches float64 `json:"prioritize_equal_matches" validate:"min=0,max=1"`
	AvoidRepeatPartners    float64 `json:"avoid_repeat_partners" validate:"min=0,max=1"`
	AvoidRepeatOpponents   float64 `json:"avoid_repeat_opponents" validate:"min=0,max=1"`
	BalanceSkill           float64 `json:"balance_skill" validate:"min=0,max=1"`
}

// DefaultPreferences returns the weights the operator console submits when
// no custom vector has been configured.
func DefaultPreferences() Preferences {
	return Preferences{
		PrioritizeWaiting:      1.0,
		PrioritizeEqualMatches: 1.0,
		AvoidRepeatPartners:    0.5,
		AvoidRepeatOpponents:   0.3,
		BalanceSkill:           0.5,
	}
}

// PlayerStats is the derived per-player participation record for a session.
// It is recomputed from scratch whenever rounds or attendance change.
type PlayerStats struct {
	PlayerID         string            `json:"player_id"`
	PlayerName       string            `json:"player_name"`
	MatchesPlayed    int               `json:"matches_played"`
	RoundsSittingOut int               `json:"rounds_sitting_out"`
	WaitingMinutes   int               `json:"waiting_time_minutes"`
	Partners         []string          `json:"partners"`
	Opponents        []string          `json:"opponents"`
	MatchTypeCounts  map[MatchType]int `json:"match_type_counts"`
	CourtsPlayed     []int             `json:"courts_played"`
}

// SessionStats is the full statistics payload for the stats panel. The
// fairness score is computed server-side; the console only displays it.
type SessionStats struct {
	SessionID           string        `json:"session_id"`
	TotalRounds         int           `json:"total_rounds"`
	PlayerStats         []PlayerStats `json:"player_stats"`
	FairnessScore       float64       `json:"fairness_score"`
	AvgMatchesPerPlayer float64       `json:"avg_matches_per_player"`
	AvgWaitingTime      float64       `json:"avg_waiting_time"`
}
