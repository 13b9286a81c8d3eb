package session

// DeriveMatchType classifies a court by the genders of its four occupants:
// MM when both teams are all-male, FF when both are all-female, MF when each
// team is exactly one male and one female, OTHER for everything else. Any
// empty slot forces OTHER, as does a guest of unspecified gender.
func DeriveMatchType(teamA1, teamA2, teamB1, teamB2 *Gender) MatchType {
	for _, g := range []*Gender{teamA1, teamA2, teamB1, teamB2} {
		if g == nil {
			return MatchTypeOther
		}
	}
	teamType := func(g1, g2 Gender) MatchType {
		switch {
		case g1 == GenderMale && g2 == GenderMale:
			return MatchTypeMM
		case g1 == GenderFemale && g2 == GenderFemale:
			return MatchTypeFF
		case (g1 == GenderMale && g2 == GenderFemale) || (g1 == GenderFemale && g2 == GenderMale):
			return MatchTypeMF
		}
		return MatchTypeOther
	}
	a := teamType(*teamA1, *teamA2)
	b := teamType(*teamB1, *teamB2)
	if a == b && a != MatchTypeOther {
		return a
	}
	return MatchTypeOther
}

// DeriveCourtMatchType looks up the occupants' genders in the registry and
// derives the court's match type. Ids missing from the registry are treated
// like empty slots.
func DeriveCourtMatchType(c *CourtAssignment, registry map[string]Player) MatchType {
	lookup := func(id *string) *Gender {
		if id == nil {
			return nil
		}
		p, ok := registry[*id]
		if !ok {
			return nil
		}
		g := p.Gender
		return &g
	}
	return DeriveMatchType(lookup(c.TeamAPlayer1), lookup(c.TeamAPlayer2), lookup(c.TeamBPlayer1), lookup(c.TeamBPlayer2))
}
