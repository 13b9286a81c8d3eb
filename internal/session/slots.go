package session

import "fmt"

// TeamSide identifies one of the two teams on a court.
type TeamSide string

const (
	TeamA TeamSide = "a"
	TeamB TeamSide = "b"
)

// Slot addresses one of the four player positions on one court of the
// current round.
type Slot struct {
	CourtNumber int      `json:"court_number"`
	Team        TeamSide `json:"team"`
	Position    int      `json:"position"` // 1 or 2
}

func (s Slot) String() string {
	return fmt.Sprintf("court-%d-team-%s-player-%d", s.CourtNumber, s.Team, s.Position)
}

// Valid reports whether the slot addresses a real position.
func (s Slot) Valid() bool {
	return s.CourtNumber >= 0 && (s.Team == TeamA || s.Team == TeamB) && (s.Position == 1 || s.Position == 2)
}

// Get returns the occupant of the given slot, or nil if it is empty or the
// slot does not belong to this court.
func (c *CourtAssignment) Get(s Slot) *string {
	if s.CourtNumber != c.CourtNumber {
		return nil
	}
	switch {
	case s.Team == TeamA && s.Position == 1:
		return c.TeamAPlayer1
	case s.Team == TeamA && s.Position == 2:
		return c.TeamAPlayer2
	case s.Team == TeamB && s.Position == 1:
		return c.TeamBPlayer1
	case s.Team == TeamB && s.Position == 2:
		return c.TeamBPlayer2
	}
	return nil
}

// Set places playerID in the given slot. A nil playerID clears the slot.
func (c *CourtAssignment) Set(s Slot, playerID *string) {
	if s.CourtNumber != c.CourtNumber {
		return
	}
	switch {
	case s.Team == TeamA && s.Position == 1:
		c.TeamAPlayer1 = playerID
	case s.Team == TeamA && s.Position == 2:
		c.TeamAPlayer2 = playerID
	case s.Team == TeamB && s.Position == 1:
		c.TeamBPlayer1 = playerID
	case s.Team == TeamB && s.Position == 2:
		c.TeamBPlayer2 = playerID
	}
}

// SlotValues returns the four slots in team-a-1, team-a-2, team-b-1,
// team-b-2 order.
func (c *CourtAssignment) SlotValues() [4]*string {
	return [4]*string{c.TeamAPlayer1, c.TeamAPlayer2, c.TeamBPlayer1, c.TeamBPlayer2}
}

// PlayerIDs returns the ids of the occupied slots, in slot order.
func (c *CourtAssignment) PlayerIDs() []string {
	var ids []string
	for _, p := range c.SlotValues() {
		if p != nil {
			ids = append(ids, *p)
		}
	}
	return ids
}

// Has reports whether playerID occupies any slot on this court.
func (c *CourtAssignment) Has(playerID string) bool {
	for _, p := range c.SlotValues() {
		if p != nil && *p == playerID {
			return true
		}
	}
	return false
}

// FindSlot locates the slot occupied by playerID on any court of the round.
func (r *Round) FindSlot(playerID string) (Slot, bool) {
	for i := range r.CourtAssignments {
		court := &r.CourtAssignments[i]
		for _, team := range []TeamSide{TeamA, TeamB} {
			for _, pos := range []int{1, 2} {
				s := Slot{CourtNumber: court.CourtNumber, Team: team, Position: pos}
				if p := court.Get(s); p != nil && *p == playerID {
					return s, true
				}
			}
		}
	}
	return Slot{}, false
}

// Court returns the assignment for the given court number, or nil.
func (r *Round) Court(courtNumber int) *CourtAssignment {
	for i := range r.CourtAssignments {
		if r.CourtAssignments[i].CourtNumber == courtNumber {
			return &r.CourtAssignments[i]
		}
	}
	return nil
}

// PlayingPlayerIDs returns the set of player ids occupying any slot across
// all courts of the round.
func (r *Round) PlayingPlayerIDs() map[string]bool {
	playing := make(map[string]bool)
	for i := range r.CourtAssignments {
		for _, id := range r.CourtAssignments[i].PlayerIDs() {
			playing[id] = true
		}
	}
	return playing
}
