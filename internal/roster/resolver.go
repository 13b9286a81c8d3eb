// Package roster resolves session attendance against the player registry
// into the eligible player set for the current round.
package roster

import (
	"github.com/courtflow/courtflow/internal/session"
)

// Eligible returns the players whose id appears in the attendance set with
// status present. Order follows attendance insertion order, duplicate
// attendance rows for the same player are collapsed into the first one, and
// ids with no matching registry entry are skipped.
func Eligible(attendance []session.Attendance, registry []session.Player) []session.Player {
	byID := make(map[string]session.Player, len(registry))
	for _, p := range registry {
		byID[p.ID] = p
	}

	seen := make(map[string]bool, len(attendance))
	var eligible []session.Player
	for _, a := range attendance {
		if a.Status != session.AttendancePresent || seen[a.PlayerID] {
			continue
		}
		seen[a.PlayerID] = true
		if p, ok := byID[a.PlayerID]; ok {
			eligible = append(eligible, p)
		}
	}
	return eligible
}
