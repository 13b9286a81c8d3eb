// Package assign implements the round auto-assignment engine: a weighted
// greedy constructive heuristic that seats eligible players on courts while
// balancing participation, skill and partner/opponent repetition. It is
// deliberately not a global optimizer; determinism and stable tie-breaking
// matter more than optimality here.
package assign

import (
	"errors"
	"time"

	"github.com/courtflow/courtflow/internal/session"
)

// ErrInvalidConfiguration is returned when the court count is not positive
// or a locked court sits outside the configured court range. It is a
// validation error: no assignment is attempted.
var ErrInvalidConfiguration = errors.New("number of courts must be positive")

// PlayerHistory is the id-keyed participation history the engine scores
// against. It is built from the round history, not from the display-level
// statistics, so partner and opponent identities stay id-based.
type PlayerHistory struct {
	PlayerID         string
	Gender           session.Gender
	Skill            float64
	MatchesPlayed    int
	RoundsSittingOut int
	Partners         map[string]int // partner id -> times partnered
	Opponents        map[string]int // opponent id -> times opposed
	CourtsPlayed     map[int]int    // court number -> times played
}

// BuildHistory derives per-player history from the full round list. Skill is
// the player's position in the club's level ordering; players with no level
// or an unknown label sit in the middle. Rounds without court assignments
// contribute nothing, and a round only counts as a sit-out for players
// checked in at or before its creation, matching the statistics tracker: a
// late joiner starts with zero waiting priority.
func BuildHistory(rounds []session.Round, players []session.Player, attendance []session.Attendance, levels []string) []PlayerHistory {
	rank := levelRanks(levels)
	checkIn := earliestCheckIns(attendance)
	histories := make([]PlayerHistory, 0, len(players))

	for _, player := range players {
		h := PlayerHistory{
			PlayerID:     player.ID,
			Gender:       player.Gender,
			Skill:        rank(player.Level),
			Partners:     map[string]int{},
			Opponents:    map[string]int{},
			CourtsPlayed: map[int]int{},
		}

		for ri := range rounds {
			round := &rounds[ri]
			if len(round.CourtAssignments) == 0 {
				continue
			}
			played := false
			for ci := range round.CourtAssignments {
				court := &round.CourtAssignments[ci]
				if !court.Has(player.ID) {
					continue
				}
				played = true
				h.MatchesPlayed++
				h.CourtsPlayed[court.CourtNumber]++

				team := [2]*string{court.TeamAPlayer1, court.TeamAPlayer2}
				opponents := [2]*string{court.TeamBPlayer1, court.TeamBPlayer2}
				if !contains(team, player.ID) {
					team, opponents = opponents, team
				}
				for _, p := range team {
					if p != nil && *p != player.ID {
						h.Partners[*p]++
					}
				}
				for _, p := range opponents {
					if p != nil {
						h.Opponents[*p]++
					}
				}
			}
			if !played {
				if t, ok := checkIn[player.ID]; ok && !round.CreatedAt.Before(t) {
					h.RoundsSittingOut++
				}
			}
		}
		histories = append(histories, h)
	}
	return histories
}

// earliestCheckIns maps each player to their first check-in time.
func earliestCheckIns(attendance []session.Attendance) map[string]time.Time {
	times := make(map[string]time.Time, len(attendance))
	for _, a := range attendance {
		if existing, ok := times[a.PlayerID]; !ok || a.CheckInTime.Before(existing) {
			times[a.PlayerID] = a.CheckInTime
		}
	}
	return times
}

func contains(team [2]*string, playerID string) bool {
	for _, p := range team {
		if p != nil && *p == playerID {
			return true
		}
	}
	return false
}

// levelRanks maps a level label to a numeric skill via its index in the
// club-defined ordering. Unknown labels land mid-range so a missing level
// never dominates the skill-distance penalty.
func levelRanks(levels []string) func(string) float64 {
	index := make(map[string]int, len(levels))
	for i, level := range levels {
		index[level] = i
	}
	mid := float64(len(levels)) / 2
	return func(level string) float64 {
		if i, ok := index[level]; ok {
			return float64(i)
		}
		return mid
	}
}
