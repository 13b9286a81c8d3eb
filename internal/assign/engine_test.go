package assign_test

import (
	"testing"
	"time"

	"github.com/courtflow/courtflow/internal/assign"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(id string, gender session.Gender) session.Player {
	return session.Player{ID: id, FullName: "Player " + id, Gender: gender, IsActive: true}
}

func mixedRoster() []session.Player {
	return []session.Player{
		player("m1", session.GenderMale),
		player("m2", session.GenderMale),
		player("m3", session.GenderMale),
		player("m4", session.GenderMale),
		player("f1", session.GenderFemale),
		player("f2", session.GenderFemale),
		player("f3", session.GenderFemale),
		player("f4", session.GenderFemale),
	}
}

func seatedIDs(courts []session.CourtAssignment) map[string]int {
	seated := make(map[string]int)
	for i := range courts {
		for _, id := range courts[i].PlayerIDs() {
			seated[id]++
		}
	}
	return seated
}

func TestAssignFillsCourts(t *testing.T) {
	courts, err := assign.Assign(mixedRoster(), 2, nil, session.DefaultPreferences(), nil)
	require.NoError(t, err)
	require.Len(t, courts, 2)

	seated := seatedIDs(courts)
	assert.Len(t, seated, 8, "all eight players should be seated")
	for id, n := range seated {
		assert.Equal(t, 1, n, "player %s must occupy exactly one slot", id)
	}
	for _, court := range courts {
		assert.Len(t, court.PlayerIDs(), 4)
		assert.Contains(t, []session.MatchType{session.MatchTypeMM, session.MatchTypeMF, session.MatchTypeFF}, court.MatchType,
			"a balanced roster must never produce an OTHER court")
	}
}

func TestAssignDeterministic(t *testing.T) {
	prefs := session.DefaultPreferences()
	first, err := assign.Assign(mixedRoster(), 2, nil, prefs, nil)
	require.NoError(t, err)
	second, err := assign.Assign(mixedRoster(), 2, nil, prefs, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssignInsufficientPlayers(t *testing.T) {
	roster := []session.Player{
		player("m1", session.GenderMale),
		player("m2", session.GenderMale),
		player("m3", session.GenderMale),
	}
	courts, err := assign.Assign(roster, 2, nil, session.DefaultPreferences(), nil)
	require.NoError(t, err)
	require.Len(t, courts, 2)

	var filled int
	for i := range courts {
		filled += len(courts[i].PlayerIDs())
	}
	assert.Equal(t, 3, filled)
	assert.Len(t, courts[0].PlayerIDs(), 3, "players fill the first court before the second")
	assert.Empty(t, courts[1].PlayerIDs())
	assert.Equal(t, session.MatchTypeOther, courts[0].MatchType, "a court with an empty slot is OTHER")
}

func TestAssignZeroEligible(t *testing.T) {
	courts, err := assign.Assign(nil, 3, nil, session.DefaultPreferences(), nil)
	require.NoError(t, err)
	require.Len(t, courts, 3)
	for i := range courts {
		assert.Empty(t, courts[i].PlayerIDs())
	}
}

func TestAssignInvalidCourtCount(t *testing.T) {
	_, err := assign.Assign(mixedRoster(), 0, nil, session.DefaultPreferences(), nil)
	assert.ErrorIs(t, err, assign.ErrInvalidConfiguration)

	_, err = assign.Assign(mixedRoster(), -1, nil, session.DefaultPreferences(), nil)
	assert.ErrorIs(t, err, assign.ErrInvalidConfiguration)
}

func TestAssignLockedCourtOutOfRange(t *testing.T) {
	locked := []session.CourtAssignment{{CourtNumber: 2, Locked: true}}
	_, err := assign.Assign(mixedRoster(), 2, nil, session.DefaultPreferences(), locked)
	assert.ErrorIs(t, err, assign.ErrInvalidConfiguration, "locked court 2 does not exist with two courts")

	locked[0].CourtNumber = -1
	_, err = assign.Assign(mixedRoster(), 2, nil, session.DefaultPreferences(), locked)
	assert.ErrorIs(t, err, assign.ErrInvalidConfiguration)
}

func TestAssignLockedCourtPassthrough(t *testing.T) {
	ids := []string{"x1", "x2", "x3", "x4"}
	locked := session.CourtAssignment{
		CourtNumber:  0,
		TeamAPlayer1: &ids[0],
		TeamAPlayer2: &ids[1],
		TeamBPlayer1: &ids[2],
		TeamBPlayer2: &ids[3],
		MatchType:    session.MatchTypeMM,
		Locked:       true,
	}
	extra := []session.Player{
		player("m1", session.GenderMale),
		player("m2", session.GenderMale),
		player("f1", session.GenderFemale),
		player("f2", session.GenderFemale),
	}

	courts, err := assign.Assign(extra, 2, nil, session.DefaultPreferences(), []session.CourtAssignment{locked})
	require.NoError(t, err)
	require.Len(t, courts, 2)

	assert.Equal(t, locked, courts[0], "locked court must be preserved verbatim")
	assert.ElementsMatch(t, []string{"m1", "m2", "f1", "f2"}, courts[1].PlayerIDs())
}

func TestAssignLockedPlayersExcludedFromPool(t *testing.T) {
	roster := mixedRoster()
	locked := session.CourtAssignment{CourtNumber: 0}
	for i, slot := range []session.Slot{
		{CourtNumber: 0, Team: session.TeamA, Position: 1},
		{CourtNumber: 0, Team: session.TeamA, Position: 2},
		{CourtNumber: 0, Team: session.TeamB, Position: 1},
		{CourtNumber: 0, Team: session.TeamB, Position: 2},
	} {
		id := roster[i].ID
		locked.Set(slot, &id)
	}

	courts, err := assign.Assign(roster, 2, nil, session.DefaultPreferences(), []session.CourtAssignment{locked})
	require.NoError(t, err)

	seated := seatedIDs(courts)
	for id, n := range seated {
		assert.Equal(t, 1, n, "player %s seated twice", id)
	}
	assert.Len(t, seated, 8)
}

func TestAssignPrioritizesWaitingPlayers(t *testing.T) {
	roster := mixedRoster()
	history := []assign.PlayerHistory{
		{PlayerID: "m1", Gender: session.GenderMale, MatchesPlayed: 3},
		{PlayerID: "m2", Gender: session.GenderMale, MatchesPlayed: 3},
		{PlayerID: "m3", Gender: session.GenderMale, MatchesPlayed: 3},
		{PlayerID: "m4", Gender: session.GenderMale, MatchesPlayed: 3},
		{PlayerID: "f1", Gender: session.GenderFemale, RoundsSittingOut: 3},
		{PlayerID: "f2", Gender: session.GenderFemale, RoundsSittingOut: 3},
		{PlayerID: "f3", Gender: session.GenderFemale, RoundsSittingOut: 3},
		{PlayerID: "f4", Gender: session.GenderFemale, RoundsSittingOut: 3},
	}

	courts, err := assign.Assign(roster, 1, history, session.DefaultPreferences(), nil)
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.ElementsMatch(t, []string{"f1", "f2", "f3", "f4"}, courts[0].PlayerIDs(),
		"the four players who waited must be seated ahead of the four who played")
}

func TestAssignAvoidsRepeatPartners(t *testing.T) {
	roster := []session.Player{
		player("m1", session.GenderMale),
		player("m2", session.GenderMale),
		player("m3", session.GenderMale),
		player("m4", session.GenderMale),
	}
	// m1+m2 have partnered repeatedly; the arrangement should split them.
	history := []assign.PlayerHistory{
		{PlayerID: "m1", Gender: session.GenderMale, Partners: map[string]int{"m2": 3}},
		{PlayerID: "m2", Gender: session.GenderMale, Partners: map[string]int{"m1": 3}},
		{PlayerID: "m3", Gender: session.GenderMale},
		{PlayerID: "m4", Gender: session.GenderMale},
	}

	courts, err := assign.Assign(roster, 1, history, session.DefaultPreferences(), nil)
	require.NoError(t, err)
	require.Len(t, courts, 1)
	court := courts[0]

	teamA := []string{deref(court.TeamAPlayer1), deref(court.TeamAPlayer2)}
	teamB := []string{deref(court.TeamBPlayer1), deref(court.TeamBPlayer2)}
	for _, team := range [][]string{teamA, teamB} {
		if team[0] == "m1" || team[1] == "m1" {
			assert.NotContains(t, team, "m2", "repeat partners should not be paired again")
		}
	}
}

func TestAssignHonorsDesiredMatchTypes(t *testing.T) {
	prefs := session.DefaultPreferences()
	prefs.DesiredMF = 2

	courts, err := assign.Assign(mixedRoster(), 2, nil, prefs, nil)
	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, session.MatchTypeMF, courts[0].MatchType)
	assert.Equal(t, session.MatchTypeMF, courts[1].MatchType)
}

func checkedIn(roster []session.Player, at time.Time) []session.Attendance {
	attendance := make([]session.Attendance, len(roster))
	for i, p := range roster {
		attendance[i] = session.Attendance{PlayerID: p.ID, Status: session.AttendancePresent, CheckInTime: at}
	}
	return attendance
}

func TestBuildHistory(t *testing.T) {
	roster := mixedRoster()
	m1, m2, m3, m4 := "m1", "m2", "m3", "m4"
	now := time.Now()
	rounds := []session.Round{
		{
			ID: "r1", RoundIndex: 0, CreatedAt: now,
			CourtAssignments: []session.CourtAssignment{{
				ID: "c1", CourtNumber: 1,
				TeamAPlayer1: &m1, TeamAPlayer2: &m2,
				TeamBPlayer1: &m3, TeamBPlayer2: &m4,
				MatchType: session.MatchTypeMM,
			}},
		},
		{ID: "r2", RoundIndex: 1, CreatedAt: now.Add(time.Minute)}, // reset round, contributes nothing
	}

	history := assign.BuildHistory(rounds, roster, checkedIn(roster, now.Add(-time.Hour)), []string{"A", "B", "C"})
	byID := make(map[string]assign.PlayerHistory)
	for _, h := range history {
		byID[h.PlayerID] = h
	}

	assert.Equal(t, 1, byID["m1"].MatchesPlayed)
	assert.Equal(t, 0, byID["m1"].RoundsSittingOut, "an empty round is not a sit-out")
	assert.Equal(t, map[string]int{"m2": 1}, byID["m1"].Partners)
	assert.Equal(t, map[string]int{"m3": 1, "m4": 1}, byID["m1"].Opponents)
	assert.Equal(t, map[int]int{1: 1}, byID["m1"].CourtsPlayed)
	assert.Equal(t, 1, byID["f1"].RoundsSittingOut, "players off court in a played round sat out")
}

func TestBuildHistoryLateJoinerOwesNoWaitingCredit(t *testing.T) {
	roster := mixedRoster()
	m1, m2, m3, m4 := "m1", "m2", "m3", "m4"
	now := time.Now()
	rounds := []session.Round{
		{
			ID: "r1", RoundIndex: 0, CreatedAt: now,
			CourtAssignments: []session.CourtAssignment{{
				ID: "c1", CourtNumber: 0,
				TeamAPlayer1: &m1, TeamAPlayer2: &m2,
				TeamBPlayer1: &m3, TeamBPlayer2: &m4,
				MatchType: session.MatchTypeMM,
			}},
		},
		{
			ID: "r2", RoundIndex: 1, CreatedAt: now.Add(20 * time.Minute),
			CourtAssignments: []session.CourtAssignment{{
				ID: "c2", CourtNumber: 0,
				TeamAPlayer1: &m1, TeamAPlayer2: &m3,
				TeamBPlayer1: &m2, TeamBPlayer2: &m4,
				MatchType: session.MatchTypeMM,
			}},
		},
	}

	attendance := checkedIn(roster[:7], now.Add(-time.Hour))
	// f4 arrives between the two rounds.
	attendance = append(attendance, session.Attendance{
		PlayerID: "f4", Status: session.AttendancePresent, CheckInTime: now.Add(10 * time.Minute),
	})

	history := assign.BuildHistory(rounds, roster, attendance, []string{"A", "B", "C"})
	byID := make(map[string]assign.PlayerHistory)
	for _, h := range history {
		byID[h.PlayerID] = h
	}

	assert.Equal(t, 2, byID["f1"].RoundsSittingOut, "present from the start, waited both rounds")
	assert.Equal(t, 1, byID["f4"].RoundsSittingOut, "rounds before check-in are not sit-outs")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
