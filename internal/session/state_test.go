package session_test

import (
	"testing"
	"time"

	"github.com/courtflow/courtflow/internal/session"
	"github.com/stretchr/testify/assert"
)

func tptr(t time.Time) *time.Time { return &t }

func TestRoundState(t *testing.T) {
	now := time.Now()

	t.Run("unassigned", func(t *testing.T) {
		r := &session.Round{}
		assert.Equal(t, session.RoundUnassigned, r.State())
		assert.True(t, r.CanAssign())
		assert.True(t, r.CanCancel())
		assert.True(t, r.CanEditSlots())
		assert.False(t, r.CanEnd())
	})

	t.Run("assigned", func(t *testing.T) {
		r := &session.Round{CourtAssignments: []session.CourtAssignment{{CourtNumber: 0}}}
		assert.Equal(t, session.RoundAssigned, r.State())
		assert.True(t, r.CanAssign(), "re-running assignment before start replaces the courts")
		assert.True(t, r.CanStart())
		assert.True(t, r.CanCancel())
		assert.NoError(t, r.GuardEdit())
	})

	t.Run("started freezes edits", func(t *testing.T) {
		r := &session.Round{
			StartedAt:        tptr(now),
			CourtAssignments: []session.CourtAssignment{{CourtNumber: 0}},
		}
		assert.Equal(t, session.RoundStarted, r.State())
		assert.False(t, r.CanAssign())
		assert.False(t, r.CanCancel())
		assert.False(t, r.CanEditSlots())
		assert.True(t, r.CanEnd())
		assert.ErrorIs(t, r.GuardEdit(), session.ErrRoundStarted)
	})

	t.Run("ended is terminal", func(t *testing.T) {
		r := &session.Round{
			StartedAt:        tptr(now),
			EndedAt:          tptr(now.Add(15 * time.Minute)),
			CourtAssignments: []session.CourtAssignment{{CourtNumber: 0}},
		}
		assert.Equal(t, session.RoundEnded, r.State())
		assert.False(t, r.CanAssign())
		assert.False(t, r.CanEnd())
		assert.False(t, r.CanCancel())
		assert.ErrorIs(t, r.GuardEdit(), session.ErrRoundEnded)
	})
}

func TestSlotOperations(t *testing.T) {
	p1, p2 := "p1", "p2"
	court := session.CourtAssignment{CourtNumber: 2}

	slot := session.Slot{CourtNumber: 2, Team: session.TeamA, Position: 1}
	court.Set(slot, &p1)
	assert.Equal(t, &p1, court.Get(slot))
	assert.True(t, court.Has("p1"))
	assert.Equal(t, []string{"p1"}, court.PlayerIDs())

	t.Run("set on a foreign court number is ignored", func(t *testing.T) {
		court.Set(session.Slot{CourtNumber: 5, Team: session.TeamB, Position: 1}, &p2)
		assert.False(t, court.Has("p2"))
	})

	t.Run("clearing a slot", func(t *testing.T) {
		court.Set(slot, nil)
		assert.Nil(t, court.Get(slot))
		assert.Empty(t, court.PlayerIDs())
	})
}

func TestFindSlot(t *testing.T) {
	p1, p2 := "p1", "p2"
	round := session.Round{
		CourtAssignments: []session.CourtAssignment{
			{CourtNumber: 0, TeamAPlayer1: &p1},
			{CourtNumber: 1, TeamBPlayer2: &p2},
		},
	}

	slot, ok := round.FindSlot("p2")
	assert.True(t, ok)
	assert.Equal(t, session.Slot{CourtNumber: 1, Team: session.TeamB, Position: 2}, slot)

	_, ok = round.FindSlot("missing")
	assert.False(t, ok)
}

func TestSlotValid(t *testing.T) {
	assert.True(t, session.Slot{CourtNumber: 0, Team: session.TeamA, Position: 1}.Valid())
	assert.False(t, session.Slot{CourtNumber: -1, Team: session.TeamA, Position: 1}.Valid())
	assert.False(t, session.Slot{CourtNumber: 0, Team: "c", Position: 1}.Valid())
	assert.False(t, session.Slot{CourtNumber: 0, Team: session.TeamB, Position: 3}.Valid())
}
