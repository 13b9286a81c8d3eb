package stats_test

import (
	"testing"
	"time"

	"github.com/courtflow/courtflow/internal/session"
	"github.com/courtflow/courtflow/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionStart = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func roster() []session.Player {
	return []session.Player{
		{ID: "p1", FullName: "Anna", Gender: session.GenderFemale},
		{ID: "p2", FullName: "Ben", Gender: session.GenderMale},
		{ID: "p3", FullName: "Carla", Gender: session.GenderFemale},
		{ID: "p4", FullName: "Dan", Gender: session.GenderMale},
		{ID: "p5", FullName: "Eva", Gender: session.GenderFemale},
	}
}

func attendanceAt(playerID string, t time.Time) session.Attendance {
	return session.Attendance{
		ID: "att-" + playerID, SessionID: "s1", PlayerID: playerID,
		Status: session.AttendancePresent, CheckInTime: t,
	}
}

func fullAttendance() []session.Attendance {
	var out []session.Attendance
	for _, p := range roster() {
		out = append(out, attendanceAt(p.ID, sessionStart))
	}
	return out
}

// court seats p1+p2 vs p3+p4, mixed teams.
func court(roundID string, number int) session.CourtAssignment {
	p1, p2, p3, p4 := "p1", "p2", "p3", "p4"
	return session.CourtAssignment{
		ID: roundID + "-c0", RoundID: roundID, CourtNumber: number,
		TeamAPlayer1: &p1, TeamAPlayer2: &p2,
		TeamBPlayer1: &p3, TeamBPlayer2: &p4,
		MatchType: session.MatchTypeMF,
	}
}

func round(id string, index int, courts ...session.CourtAssignment) session.Round {
	return session.Round{
		ID: id, SessionID: "s1", RoundIndex: index,
		CreatedAt:        sessionStart.Add(time.Duration(index) * 20 * time.Minute),
		CourtAssignments: courts,
	}
}

func TestCompute(t *testing.T) {
	rounds := []session.Round{
		round("r1", 0, court("r1", 0)),
		round("r2", 1, court("r2", 1)),
	}

	playerStats := stats.Compute(rounds, roster(), fullAttendance(), 15)
	byID := make(map[string]session.PlayerStats)
	for _, ps := range playerStats {
		byID[ps.PlayerID] = ps
	}

	t.Run("matches and sit-outs", func(t *testing.T) {
		assert.Equal(t, 2, byID["p1"].MatchesPlayed)
		assert.Equal(t, 0, byID["p1"].RoundsSittingOut)
		assert.Equal(t, 0, byID["p5"].MatchesPlayed)
		assert.Equal(t, 2, byID["p5"].RoundsSittingOut)
		assert.Equal(t, 30, byID["p5"].WaitingMinutes)
	})

	t.Run("partners keep duplicates for frequency counts", func(t *testing.T) {
		assert.Equal(t, []string{"Ben", "Ben"}, byID["p1"].Partners)
		assert.Equal(t, []string{"Carla", "Dan", "Carla", "Dan"}, byID["p1"].Opponents)
	})

	t.Run("match type counters and courts played", func(t *testing.T) {
		assert.Equal(t, 2, byID["p2"].MatchTypeCounts[session.MatchTypeMF])
		assert.Equal(t, []int{0, 1}, byID["p2"].CourtsPlayed)
	})
}

func TestComputeEmptyRoundContributesNothing(t *testing.T) {
	rounds := []session.Round{
		round("r1", 0, court("r1", 0)),
		round("r2", 1), // cancelled/reset round: no court assignments
	}

	playerStats := stats.Compute(rounds, roster(), fullAttendance(), 15)
	for _, ps := range playerStats {
		if ps.PlayerID == "p5" {
			assert.Equal(t, 1, ps.RoundsSittingOut, "the empty round is not a sit-out")
		}
	}
}

func TestComputeLateJoiner(t *testing.T) {
	rounds := []session.Round{
		round("r1", 0, court("r1", 0)),
		round("r2", 1, court("r2", 0)),
	}
	// p5 checks in between round 1 and round 2.
	attendance := fullAttendance()[:4]
	attendance = append(attendance, attendanceAt("p5", sessionStart.Add(10*time.Minute)))

	playerStats := stats.Compute(rounds, roster(), attendance, 15)
	for _, ps := range playerStats {
		if ps.PlayerID == "p5" {
			assert.Equal(t, 1, ps.RoundsSittingOut, "rounds before check-in are not considered")
		}
	}
}

func TestAggregate(t *testing.T) {
	t.Run("even distribution scores a perfect fairness", func(t *testing.T) {
		playerStats := []session.PlayerStats{
			{PlayerID: "p1", MatchesPlayed: 2, WaitingMinutes: 15},
			{PlayerID: "p2", MatchesPlayed: 2, WaitingMinutes: 15},
		}
		agg := stats.Aggregate("s1", 3, playerStats)
		assert.Equal(t, 3, agg.TotalRounds)
		assert.InDelta(t, 2.0, agg.AvgMatchesPerPlayer, 0.001)
		assert.InDelta(t, 15.0, agg.AvgWaitingTime, 0.001)
		assert.InDelta(t, 100.0, agg.FairnessScore, 0.001)
	})

	t.Run("variance drags the fairness score down", func(t *testing.T) {
		playerStats := []session.PlayerStats{
			{PlayerID: "p1", MatchesPlayed: 4},
			{PlayerID: "p2", MatchesPlayed: 0},
		}
		agg := stats.Aggregate("s1", 4, playerStats)
		// variance = 4, score = 100 - 40
		assert.InDelta(t, 60.0, agg.FairnessScore, 0.001)
	})

	t.Run("no players is a perfect score", func(t *testing.T) {
		agg := stats.Aggregate("s1", 0, nil)
		assert.InDelta(t, 100.0, agg.FairnessScore, 0.001)
	})
}

func TestWaitingPlayers(t *testing.T) {
	eligible := roster()
	current := round("r1", 0, court("r1", 0))

	waiting := stats.WaitingPlayers(eligible, &current)
	require.Len(t, waiting, 1)
	assert.Equal(t, "p5", waiting[0].ID)

	t.Run("complement covers the roster", func(t *testing.T) {
		playing := current.PlayingPlayerIDs()
		assert.Equal(t, len(eligible), len(playing)+len(waiting))
		for _, w := range waiting {
			assert.False(t, playing[w.ID])
		}
	})

	t.Run("no current round means everyone waits", func(t *testing.T) {
		waiting := stats.WaitingPlayers(eligible, nil)
		assert.Len(t, waiting, len(eligible))
	})
}

func TestHistoryGlyphs(t *testing.T) {
	rounds := []session.Round{
		round("r1", 0, court("r1", 0)),
		round("r2", 1),
		round("r3", 2, court("r3", 0)),
	}

	t.Run("present from the start", func(t *testing.T) {
		attendance := fullAttendance()
		assert.Equal(t, "PWP", stats.HistoryGlyphs(rounds, attendance, "p1"))
		assert.Equal(t, "WWW", stats.HistoryGlyphs(rounds, attendance, "p5"))
	})

	t.Run("late joiner gets leading dashes", func(t *testing.T) {
		attendance := []session.Attendance{
			attendanceAt("p5", sessionStart.Add(30*time.Minute)),
		}
		g := stats.HistoryGlyphs(rounds, attendance, "p5")
		assert.Len(t, g, len(rounds))
		assert.Equal(t, "--W", g)
	})

	t.Run("never checked in renders all dashes", func(t *testing.T) {
		assert.Equal(t, "---", stats.HistoryGlyphs(rounds, nil, "p5"))
	})
}

func TestViewCache(t *testing.T) {
	rounds := []session.Round{round("r1", 0, court("r1", 0))}
	players := roster()
	attendance := fullAttendance()

	var v stats.View
	first := v.Stats(rounds, players, attendance, 15)
	second := v.Stats(rounds, players, attendance, 15)
	assert.Same(t, &first[0], &second[0], "identical inputs reuse the cached snapshot")

	t.Run("changed rounds trigger a full recompute", func(t *testing.T) {
		grown := append(append([]session.Round(nil), rounds...), round("r2", 1, court("r2", 1)))
		third := v.Stats(grown, players, attendance, 15)
		byID := make(map[string]session.PlayerStats)
		for _, ps := range third {
			byID[ps.PlayerID] = ps
		}
		assert.Equal(t, 2, byID["p1"].MatchesPlayed)
	})

	t.Run("invalidate drops the snapshot", func(t *testing.T) {
		v.Invalidate()
		fresh := v.Stats(rounds, players, attendance, 15)
		require.NotEmpty(t, fresh)
	})
}
