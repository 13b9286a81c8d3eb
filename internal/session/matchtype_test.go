package session_test

import (
	"testing"

	"github.com/courtflow/courtflow/internal/session"
	"github.com/stretchr/testify/assert"
)

func gptr(g session.Gender) *session.Gender { return &g }

func TestDeriveMatchType(t *testing.T) {
	m := gptr(session.GenderMale)
	f := gptr(session.GenderFemale)
	o := gptr(session.GenderOther)
	u := gptr(session.GenderUnspecified)

	tests := []struct {
		name           string
		a1, a2, b1, b2 *session.Gender
		want           session.MatchType
	}{
		{"all male", m, m, m, m, session.MatchTypeMM},
		{"all female", f, f, f, f, session.MatchTypeFF},
		{"mixed both teams", m, f, f, m, session.MatchTypeMF},
		{"male team vs female team", m, m, f, f, session.MatchTypeOther},
		{"three males one female", m, m, m, f, session.MatchTypeOther},
		{"empty slot forces other", m, m, m, nil, session.MatchTypeOther},
		{"all slots empty", nil, nil, nil, nil, session.MatchTypeOther},
		{"unspecified gender forces other", m, u, m, m, session.MatchTypeOther},
		{"other gender forces other", m, o, m, m, session.MatchTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, session.DeriveMatchType(tt.a1, tt.a2, tt.b1, tt.b2))
		})
	}
}

func TestDeriveCourtMatchType(t *testing.T) {
	m1, m2, f1, f2 := "m1", "m2", "f1", "f2"
	registry := map[string]session.Player{
		"m1": {ID: "m1", Gender: session.GenderMale},
		"m2": {ID: "m2", Gender: session.GenderMale},
		"f1": {ID: "f1", Gender: session.GenderFemale},
		"f2": {ID: "f2", Gender: session.GenderFemale},
	}

	court := &session.CourtAssignment{
		TeamAPlayer1: &m1, TeamAPlayer2: &f1,
		TeamBPlayer1: &m2, TeamBPlayer2: &f2,
	}
	assert.Equal(t, session.MatchTypeMF, session.DeriveCourtMatchType(court, registry))

	t.Run("id missing from registry is an empty slot", func(t *testing.T) {
		ghost := "ghost"
		court := &session.CourtAssignment{
			TeamAPlayer1: &m1, TeamAPlayer2: &ghost,
			TeamBPlayer1: &m2, TeamBPlayer2: &f2,
		}
		assert.Equal(t, session.MatchTypeOther, session.DeriveCourtMatchType(court, registry))
	})
}
