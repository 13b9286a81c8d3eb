package assign

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/courtflow/courtflow/internal/session"
)

// Weight constants for the greedy score. Waiting dominates equal-matches,
// which dominates the repeat and skill penalties, mirroring the priority
// order the preferences express.
const (
	waitingWeight    = 100.0
	equalMatchWeight = 10.0
	partnerPenalty   = 10.0
	opponentPenalty  = 5.0
	skillPenalty     = 3.0
	offGenderPenalty = 1000.0
)

// Assign partitions the eligible players into doubles matches across
// numCourts courts. Locked courts are passed through verbatim and their
// players excluded from the pool, even when those ids are not eligible.
// Zero eligible players is not an error: every unlocked court comes back
// empty. Ties break by stable input order so identical inputs always
// produce identical output.
func Assign(eligible []session.Player, numCourts int, history []PlayerHistory, prefs session.Preferences, locked []session.CourtAssignment) ([]session.CourtAssignment, error) {
	if numCourts <= 0 {
		return nil, ErrInvalidConfiguration
	}

	lockedByNumber := make(map[int]session.CourtAssignment, len(locked))
	lockedIDs := make(map[string]bool)
	for _, court := range locked {
		if court.CourtNumber < 0 || court.CourtNumber >= numCourts {
			return nil, ErrInvalidConfiguration
		}
		lockedByNumber[court.CourtNumber] = court
		for _, id := range court.PlayerIDs() {
			lockedIDs[id] = true
		}
	}

	byID := make(map[string]PlayerHistory, len(history))
	for _, h := range history {
		byID[h.PlayerID] = h
	}

	var pool []candidate
	for _, p := range eligible {
		if lockedIDs[p.ID] {
			continue
		}
		h, ok := byID[p.ID]
		if !ok {
			h = PlayerHistory{PlayerID: p.ID, Gender: p.Gender}
		}
		pool = append(pool, candidate{player: p, history: h})
	}

	// Highest priority first; sort.SliceStable keeps input order on ties.
	sort.SliceStable(pool, func(i, j int) bool {
		return priorityScore(pool[i].history, prefs) > priorityScore(pool[j].history, prefs)
	})

	desired := desiredCounts{mm: prefs.DesiredMM, mf: prefs.DesiredMF, ff: prefs.DesiredFF}
	courts := make([]session.CourtAssignment, 0, numCourts)

	for number := 0; number < numCourts; number++ {
		if lockedCourt, ok := lockedByNumber[number]; ok {
			courts = append(courts, lockedCourt)
			continue
		}
		court, rest := fillCourt(number, pool, prefs, &desired)
		pool = rest
		courts = append(courts, court)
	}
	log.Debug("assignment complete", "courts", len(courts), "waiting", len(pool))
	return courts, nil
}

type candidate struct {
	player  session.Player
	history PlayerHistory
}

type desiredCounts struct {
	mm, mf, ff int
}

// priorityScore ranks a candidate for selection: players who have waited
// longer and played less come first.
func priorityScore(h PlayerHistory, prefs session.Preferences) float64 {
	score := float64(h.RoundsSittingOut) * prefs.PrioritizeWaiting * waitingWeight
	score -= float64(h.MatchesPlayed) * prefs.PrioritizeEqualMatches * equalMatchWeight
	return score
}

// fillCourt seats up to four players from the pool on one court, slot by
// slot in team-a-1, team-a-2, team-b-1, team-b-2 order. For each slot it
// picks the remaining candidate maximizing priority minus the repeat,
// skill-distance and off-gender penalties. The returned pool excludes the
// seated players.
func fillCourt(number int, pool []candidate, prefs session.Preferences, desired *desiredCounts) (session.CourtAssignment, []candidate) {
	court := session.CourtAssignment{CourtNumber: number, MatchType: session.MatchTypeOther}
	if len(pool) == 0 {
		return court, pool
	}

	target := pickTargetGenders(pool, desired)
	var seated []candidate

	slots := []session.Slot{
		{CourtNumber: number, Team: session.TeamA, Position: 1},
		{CourtNumber: number, Team: session.TeamA, Position: 2},
		{CourtNumber: number, Team: session.TeamB, Position: 1},
		{CourtNumber: number, Team: session.TeamB, Position: 2},
	}
	for slotIdx, slot := range slots {
		if len(pool) == 0 {
			break
		}
		best := -1
		bestScore := math.Inf(-1)
		for i, c := range pool {
			score := slotScore(c, seated, slotIdx, prefs)
			if target != nil && c.player.Gender != target[slotIdx] {
				score -= offGenderPenalty
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		chosen := pool[best]
		pool = append(pool[:best:best], pool[best+1:]...)
		seated = append(seated, chosen)
		id := chosen.player.ID
		court.Set(slot, &id)
	}

	court.MatchType = matchTypeOf(seated)
	consumeDesired(desired, court.MatchType)
	return court, pool
}

// slotScore combines the candidate's selection priority with the penalties
// accrued against players already seated on this court.
func slotScore(c candidate, seated []candidate, slotIdx int, prefs session.Preferences) float64 {
	score := priorityScore(c.history, prefs)

	for i, placed := range seated {
		sameTeam := teamOf(i) == teamOf(slotIdx)
		if sameTeam {
			score -= float64(c.history.Partners[placed.player.ID]) * prefs.AvoidRepeatPartners * partnerPenalty
		} else {
			score -= float64(c.history.Opponents[placed.player.ID]) * prefs.AvoidRepeatOpponents * opponentPenalty
		}
		score -= math.Abs(c.history.Skill-placed.history.Skill) * prefs.BalanceSkill * skillPenalty
	}
	return score
}

// teamOf maps a seat index (0..3) to its team: seats 0 and 1 are team A.
func teamOf(slotIdx int) session.TeamSide {
	if slotIdx < 2 {
		return session.TeamA
	}
	return session.TeamB
}

// pickTargetGenders chooses a soft per-slot gender pattern for the next
// court. Remaining desired match-type counts are honored first, then the
// top-priority candidate's gender decides among the compositions the pool
// can still satisfy. A nil target means no gender constraint: the court
// seats whoever scores best and the match type falls out as OTHER if the
// mix is unbalanced.
func pickTargetGenders(pool []candidate, desired *desiredCounts) []session.Gender {
	var males, females int
	for _, c := range pool {
		switch c.player.Gender {
		case session.GenderMale:
			males++
		case session.GenderFemale:
			females++
		}
	}

	mm := []session.Gender{session.GenderMale, session.GenderMale, session.GenderMale, session.GenderMale}
	ff := []session.Gender{session.GenderFemale, session.GenderFemale, session.GenderFemale, session.GenderFemale}
	mf := []session.Gender{session.GenderMale, session.GenderFemale, session.GenderMale, session.GenderFemale}

	switch {
	case desired.mm > 0 && males >= 4:
		return mm
	case desired.ff > 0 && females >= 4:
		return ff
	case desired.mf > 0 && males >= 2 && females >= 2:
		return mf
	}

	// No desired count applies: follow the top candidate's gender so the
	// highest-priority player is never penalized out of their own court.
	switch pool[0].player.Gender {
	case session.GenderMale:
		if males >= 4 {
			return mm
		}
		if males >= 2 && females >= 2 {
			return mf
		}
	case session.GenderFemale:
		if females >= 4 {
			return ff
		}
		if males >= 2 && females >= 2 {
			return mf
		}
	}
	return nil
}

func consumeDesired(desired *desiredCounts, mt session.MatchType) {
	switch mt {
	case session.MatchTypeMM:
		if desired.mm > 0 {
			desired.mm--
		}
	case session.MatchTypeFF:
		if desired.ff > 0 {
			desired.ff--
		}
	case session.MatchTypeMF:
		if desired.mf > 0 {
			desired.mf--
		}
	}
}

func matchTypeOf(seated []candidate) session.MatchType {
	if len(seated) != 4 {
		return session.MatchTypeOther
	}
	genders := make([]*session.Gender, 4)
	for i := range seated {
		g := seated[i].player.Gender
		genders[i] = &g
	}
	return session.DeriveMatchType(genders[0], genders[1], genders[2], genders[3])
}
