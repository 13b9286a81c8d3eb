// Package stats derives per-player participation statistics and the
// waiting-list/round-history views from the round and attendance history.
// Everything here is a pure function of its inputs: statistics are
// recomputed from scratch on every change, never patched incrementally.
package stats

import (
	"math"
	"time"

	"github.com/courtflow/courtflow/internal/session"
)

// Compute builds the participation record for each eligible player from the
// full round history. A round with zero court assignments contributes
// nothing: it is not a match, not a sit-out, and not part of the
// rounds-considered denominator. Rounds created strictly before a player's
// check-in are excluded for that player unless they actually occupy a slot
// (a manual override may seat a player who never checked in).
func Compute(rounds []session.Round, players []session.Player, attendance []session.Attendance, matchDurationMinutes int) []session.PlayerStats {
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.FullName
	}
	checkIn := checkInTimes(attendance)

	out := make([]session.PlayerStats, 0, len(players))
	for _, player := range players {
		ps := session.PlayerStats{
			PlayerID:        player.ID,
			PlayerName:      player.FullName,
			Partners:        []string{},
			Opponents:       []string{},
			MatchTypeCounts: map[session.MatchType]int{},
			CourtsPlayed:    []int{},
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
				ps.MatchesPlayed++
				ps.MatchTypeCounts[court.MatchType]++
				ps.CourtsPlayed = append(ps.CourtsPlayed, court.CourtNumber)
				recordCompany(&ps, court, player.ID, names)
			}
			if !played && considers(round, player.ID, checkIn) {
				ps.RoundsSittingOut++
			}
		}

		ps.WaitingMinutes = ps.RoundsSittingOut * matchDurationMinutes
		out = append(out, ps)
	}
	return out
}

// recordCompany appends the co-team player to the partner list and both
// opposing players to the opponent list. Duplicates are kept so frequency
// counts survive.
func recordCompany(ps *session.PlayerStats, court *session.CourtAssignment, playerID string, names map[string]string) {
	team := [2]*string{court.TeamAPlayer1, court.TeamAPlayer2}
	opponents := [2]*string{court.TeamBPlayer1, court.TeamBPlayer2}
	if !inTeam(team, playerID) {
		team, opponents = opponents, team
	}
	for _, p := range team {
		if p != nil && *p != playerID {
			ps.Partners = append(ps.Partners, displayName(names, *p))
		}
	}
	for _, p := range opponents {
		if p != nil {
			ps.Opponents = append(ps.Opponents, displayName(names, *p))
		}
	}
}

func inTeam(team [2]*string, playerID string) bool {
	for _, p := range team {
		if p != nil && *p == playerID {
			return true
		}
	}
	return false
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

// considers reports whether the round counts toward the player's
// rounds-considered denominator: the player must have checked in at or
// before the round was created.
func considers(round *session.Round, playerID string, checkIn map[string]time.Time) bool {
	t, ok := checkIn[playerID]
	if !ok {
		return false
	}
	return !round.CreatedAt.Before(t)
}

// checkInTimes maps each player to their earliest check-in.
func checkInTimes(attendance []session.Attendance) map[string]time.Time {
	times := make(map[string]time.Time, len(attendance))
	for _, a := range attendance {
		if existing, ok := times[a.PlayerID]; !ok || a.CheckInTime.Before(existing) {
			times[a.PlayerID] = a.CheckInTime
		}
	}
	return times
}

// Aggregate folds per-player records into the session-level statistics,
// including the fairness score: 100 minus ten times the variance of
// matches played, floored at zero.
func Aggregate(sessionID string, totalRounds int, playerStats []session.PlayerStats) session.SessionStats {
	agg := session.SessionStats{
		SessionID:     sessionID,
		TotalRounds:   totalRounds,
		PlayerStats:   playerStats,
		FairnessScore: 100,
	}
	if len(playerStats) == 0 {
		return agg
	}

	var matches, waiting float64
	for _, p := range playerStats {
		matches += float64(p.MatchesPlayed)
		waiting += float64(p.WaitingMinutes)
	}
	n := float64(len(playerStats))
	agg.AvgMatchesPerPlayer = matches / n
	agg.AvgWaitingTime = waiting / n

	var variance float64
	for _, p := range playerStats {
		variance += math.Pow(float64(p.MatchesPlayed)-agg.AvgMatchesPerPlayer, 2)
	}
	variance /= n
	agg.FairnessScore = math.Max(0, 100-variance*10)
	return agg
}
