// Package board is the live court-editing controller for one session. It
// applies operator gestures (place, remove, swap) optimistically, sends
// them to the backend fire-and-forget, and reconciles by refetching
// whenever anything is rejected.
package board

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtflow/courtflow/internal/backend"
	"github.com/courtflow/courtflow/internal/metrics"
	"github.com/courtflow/courtflow/internal/roster"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/courtflow/courtflow/internal/stats"
)

// New creates a board for the given backend. notify receives every
// user-visible failure; nil falls back to logging.
func New(client backend.Client, metricsSvc metrics.Metrics, notify func(error)) *Board {
	if notify == nil {
		notify = func(err error) { log.Error("board operation failed", "error", err) }
	}
	return &Board{
		client:  client,
		metrics: metricsSvc,
		notify:  notify,
	}
}

// Load fetches the full session state and replaces the mirror.
func (b *Board) Load(sessionID string) error {
	sess, err := b.client.GetSession(sessionID)
	if err != nil {
		return err
	}
	players, err := b.client.GetPlayers()
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.sessionID = sessionID
	b.session = sess
	b.players = players
	b.mu.Unlock()

	return b.Resync()
}

// Resync discards the optimistic overlay and refetches rounds, attendance
// and stats. It is the single reconciliation path: every rejection and
// every transport failure funnels through here.
func (b *Board) Resync() error {
	b.metrics.IncResyncs()

	rounds, err := b.client.GetRounds(b.currentSessionID())
	if err != nil {
		return err
	}
	attendance, err := b.client.GetAttendance(b.currentSessionID())
	if err != nil {
		return err
	}
	serverStats, err := b.client.GetSessionStats(b.currentSessionID())
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.overlay = nil
	b.rounds = rounds
	b.attendance = attendance
	b.eligible = roster.Eligible(attendance, b.players)
	b.serverStats = serverStats
	b.view.Invalidate()
	b.syncTimerLocked()
	b.mu.Unlock()
	return nil
}

func (b *Board) currentSessionID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessionID
}

// syncTimerLocked aligns the countdown with the current round's state: a
// started round owns an armed timer, everything else disarms it.
func (b *Board) syncTimerLocked() {
	cur := b.currentLocked()
	if cur == nil || cur.StartedAt == nil || cur.EndedAt != nil {
		b.timer.Stop()
		return
	}
	elapsed := time.Since(*cur.StartedAt)
	remaining := time.Duration(b.session.MatchDurationMinutes)*time.Minute - elapsed
	if remaining > 0 {
		b.timer.Start(remaining, nil)
	} else {
		b.timer.Stop()
	}
}

// currentLocked returns the working copy of the current round: the overlay
// when one exists, else the last mirrored round unless it has ended.
func (b *Board) currentLocked() *session.Round {
	if b.overlay != nil {
		return b.overlay
	}
	if len(b.rounds) == 0 {
		return nil
	}
	last := &b.rounds[len(b.rounds)-1]
	if last.EndedAt != nil {
		return nil
	}
	return last
}

// ensureOverlayLocked clones the current mirror round into the overlay so
// optimistic edits never touch confirmed state.
func (b *Board) ensureOverlayLocked() *session.Round {
	if b.overlay == nil {
		clone := cloneRound(b.currentLocked())
		b.overlay = &clone
	}
	return b.overlay
}

func cloneRound(r *session.Round) session.Round {
	clone := *r
	clone.CourtAssignments = make([]session.CourtAssignment, len(r.CourtAssignments))
	for i := range r.CourtAssignments {
		court := r.CourtAssignments[i]
		court.TeamAPlayer1 = cloneID(court.TeamAPlayer1)
		court.TeamAPlayer2 = cloneID(court.TeamAPlayer2)
		court.TeamBPlayer1 = cloneID(court.TeamBPlayer1)
		court.TeamBPlayer2 = cloneID(court.TeamBPlayer2)
		clone.CourtAssignments[i] = court
	}
	return clone
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// guardEditLocked is the client-side state-machine guard: a rejected edit
// issues no network request at all.
func (b *Board) guardEditLocked() (*session.Round, error) {
	cur := b.currentLocked()
	if cur == nil {
		return nil, session.ErrNoRound
	}
	if err := cur.GuardEdit(); err != nil {
		b.metrics.IncEditsRejected()
		return nil, err
	}
	return cur, nil
}

// Place puts a waiting player into a slot. A previous occupant is bumped
// back to the waiting pool, not swapped. Placing a player onto the slot
// they already hold is a no-op.
func (b *Board) Place(playerID string, target session.Slot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !target.Valid() {
		return ErrInvalidSlot
	}
	cur, err := b.guardEditLocked()
	if err != nil {
		return err
	}
	if cur.Court(target.CourtNumber) == nil {
		return ErrUnknownCourt
	}

	overlay := b.ensureOverlayLocked()
	updates := []*session.CourtAssignment{overlay.Court(target.CourtNumber)}

	if from, ok := overlay.FindSlot(playerID); ok {
		if from == target {
			return nil
		}
		source := overlay.Court(from.CourtNumber)
		source.Set(from, nil)
		if source != updates[0] {
			updates = append(updates, source)
		}
	}
	updates[0].Set(target, &playerID)

	b.deriveAndDispatchLocked(updates)
	return nil
}

// Remove clears a slot, returning its occupant to the waiting pool. This
// backs both the drag-outside gesture and the click-based remove
// affordance. Clearing an empty slot is a no-op.
func (b *Board) Remove(target session.Slot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !target.Valid() {
		return ErrInvalidSlot
	}
	cur, err := b.guardEditLocked()
	if err != nil {
		return err
	}
	court := cur.Court(target.CourtNumber)
	if court == nil {
		return ErrUnknownCourt
	}
	if court.Get(target) == nil {
		return nil
	}

	overlay := b.ensureOverlayLocked()
	cleared := overlay.Court(target.CourtNumber)
	cleared.Set(target, nil)

	b.deriveAndDispatchLocked([]*session.CourtAssignment{cleared})
	return nil
}

// Swap exchanges the occupants of two slots. Dropping a slot onto itself
// is a no-op.
func (b *Board) Swap(a, c session.Slot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !a.Valid() || !c.Valid() {
		return ErrInvalidSlot
	}
	if a == c {
		return nil
	}
	cur, err := b.guardEditLocked()
	if err != nil {
		return err
	}
	if cur.Court(a.CourtNumber) == nil || cur.Court(c.CourtNumber) == nil {
		return ErrUnknownCourt
	}

	overlay := b.ensureOverlayLocked()
	courtA := overlay.Court(a.CourtNumber)
	courtC := overlay.Court(c.CourtNumber)

	valA, valC := courtA.Get(a), courtC.Get(c)
	courtA.Set(a, valC)
	courtC.Set(c, valA)

	updates := []*session.CourtAssignment{courtA}
	if courtC != courtA {
		updates = append(updates, courtC)
	}
	b.deriveAndDispatchLocked(updates)
	return nil
}

// ResetCourts clears every slot of the current round.
func (b *Board) ResetCourts() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.guardEditLocked(); err != nil {
		return err
	}
	overlay := b.ensureOverlayLocked()
	updates := make([]*session.CourtAssignment, 0, len(overlay.CourtAssignments))
	for i := range overlay.CourtAssignments {
		court := &overlay.CourtAssignments[i]
		court.TeamAPlayer1 = nil
		court.TeamAPlayer2 = nil
		court.TeamBPlayer1 = nil
		court.TeamBPlayer2 = nil
		updates = append(updates, court)
	}
	b.deriveAndDispatchLocked(updates)
	return nil
}

// deriveAndDispatchLocked re-derives match types for the touched courts and
// sends their new slot values to the backend. Requests are fire-and-forget
// and may interleave; a failure notifies the operator and resyncs.
func (b *Board) deriveAndDispatchLocked(courts []*session.CourtAssignment) {
	registry := make(map[string]session.Player, len(b.players))
	for _, p := range b.players {
		registry[p.ID] = p
	}

	type update struct {
		id    string
		slots [4]*string
	}
	updates := make([]update, 0, len(courts))
	for _, court := range courts {
		court.MatchType = session.DeriveCourtMatchType(court, registry)
		updates = append(updates, update{id: court.ID, slots: court.SlotValues()})
	}
	b.metrics.IncBoardEditsApplied()
	b.view.Invalidate()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for _, u := range updates {
			if _, err := b.client.UpdateCourtAssignment(u.id, u.slots); err != nil {
				b.notify(err)
				if rerr := b.Resync(); rerr != nil {
					b.notify(rerr)
				}
				return
			}
		}
	}()
}

// Wait blocks until all in-flight edit requests have completed. In-flight
// requests are never cancelled; an abandoned continuation is a no-op.
func (b *Board) Wait() {
	b.wg.Wait()
}

// AutoAssign runs the server-side assignment engine and replaces the
// pending round with the result. Zero eligible players and out-of-range
// weights are rejected before any network call.
func (b *Board) AutoAssign(prefs session.Preferences, locked []session.CourtAssignment) error {
	if !validWeights(prefs) {
		return ErrInvalidPreferences
	}

	b.mu.Lock()
	if cur := b.currentLocked(); cur != nil && !cur.CanAssign() {
		b.mu.Unlock()
		return session.ErrRoundStarted
	}
	eligible := len(b.eligible)
	b.mu.Unlock()
	if eligible == 0 {
		return ErrNoEligiblePlayers
	}

	round, err := b.client.AutoAssign(b.currentSessionID(), prefs, locked)
	if err != nil {
		return b.reconcile(err)
	}
	b.replacePendingRound(round)
	return nil
}

// ManualAssign submits operator-chosen courts as the pending round.
func (b *Board) ManualAssign(courts []session.CourtAssignment) error {
	b.mu.Lock()
	if cur := b.currentLocked(); cur != nil && !cur.CanAssign() {
		b.mu.Unlock()
		return session.ErrRoundStarted
	}
	b.mu.Unlock()

	round, err := b.client.ManualAssign(b.currentSessionID(), courts)
	if err != nil {
		return b.reconcile(err)
	}
	b.replacePendingRound(round)
	return nil
}

// StartRound starts the current round and arms the countdown. Starting a
// round that another client has since cancelled is reported, not
// auto-resolved.
func (b *Board) StartRound() error {
	b.mu.Lock()
	cur := b.currentLocked()
	if cur == nil {
		b.mu.Unlock()
		return session.ErrNoRound
	}
	if !cur.CanStart() {
		b.mu.Unlock()
		if cur.StartedAt != nil {
			return session.ErrRoundStarted
		}
		return ErrNoCourts
	}
	id := cur.ID
	duration := time.Duration(b.session.MatchDurationMinutes) * time.Minute
	b.mu.Unlock()

	round, err := b.client.StartRound(id)
	if err != nil {
		return b.reconcile(err)
	}
	b.replacePendingRound(round)
	b.timer.Start(duration, nil)
	return nil
}

// EndRound ends the current round and disarms the countdown.
func (b *Board) EndRound() error {
	b.mu.Lock()
	cur := b.currentLocked()
	if cur == nil {
		b.mu.Unlock()
		return session.ErrNoRound
	}
	if !cur.CanEnd() {
		b.mu.Unlock()
		return session.ErrRoundNotStarted
	}
	id := cur.ID
	b.mu.Unlock()

	round, err := b.client.EndRound(id)
	if err != nil {
		return b.reconcile(err)
	}
	b.timer.Stop()
	b.replacePendingRound(round)
	return nil
}

// CancelRound removes the pending round entirely, without consuming its
// round index.
func (b *Board) CancelRound() error {
	b.mu.Lock()
	cur := b.currentLocked()
	if cur == nil {
		b.mu.Unlock()
		return session.ErrNoRound
	}
	if !cur.CanCancel() {
		b.mu.Unlock()
		return session.ErrRoundStarted
	}
	id := cur.ID
	b.mu.Unlock()

	if err := b.client.CancelRound(id); err != nil {
		return b.reconcile(err)
	}

	b.mu.Lock()
	b.overlay = nil
	if n := len(b.rounds); n > 0 && b.rounds[n-1].ID == id {
		b.rounds = b.rounds[:n-1]
	}
	b.timer.Stop()
	b.view.Invalidate()
	b.mu.Unlock()
	return nil
}

// SetAttendance replaces the full present-player list.
func (b *Board) SetAttendance(playerIDs []string) error {
	attendance, err := b.client.SetAttendance(b.currentSessionID(), playerIDs)
	if err != nil {
		return b.reconcile(err)
	}
	b.mu.Lock()
	b.attendance = attendance
	b.eligible = roster.Eligible(attendance, b.players)
	b.view.Invalidate()
	b.mu.Unlock()
	return nil
}

// AddGuest registers a guest player and checks them in, in one gesture.
func (b *Board) AddGuest(fullName string, gender session.Gender, level string) (*session.Player, error) {
	guest, err := b.client.CreateGuest(fullName, gender, level)
	if err != nil {
		return nil, b.reconcile(err)
	}

	b.mu.Lock()
	b.players = append(b.players, *guest)
	present := make([]string, 0, len(b.attendance)+1)
	for _, a := range b.attendance {
		if a.Status == session.AttendancePresent {
			present = append(present, a.PlayerID)
		}
	}
	b.mu.Unlock()

	if err := b.SetAttendance(append(present, guest.ID)); err != nil {
		return guest, err
	}
	return guest, nil
}

// reconcile notifies the operator and refetches server truth. Every
// failure is user-visible, nothing is silently retried.
func (b *Board) reconcile(err error) error {
	b.notify(err)
	if rerr := b.Resync(); rerr != nil {
		b.notify(rerr)
	}
	return err
}

// replacePendingRound swaps the mirror's pending round for the server's
// authoritative version and drops the overlay.
func (b *Board) replacePendingRound(round *session.Round) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.overlay = nil
	if n := len(b.rounds); n > 0 && (b.rounds[n-1].ID == round.ID || b.rounds[n-1].EndedAt == nil) {
		b.rounds[n-1] = *round
	} else {
		b.rounds = append(b.rounds, *round)
	}
	b.view.Invalidate()
}

// CurrentRound returns a copy of the working round, or nil between rounds.
func (b *Board) CurrentRound() *session.Round {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.currentLocked()
	if cur == nil {
		return nil
	}
	clone := cloneRound(cur)
	return &clone
}

// WaitingList returns the eligible players not seated in the current round.
func (b *Board) WaitingList() []session.Player {
	b.mu.Lock()
	defer b.mu.Unlock()
	return stats.WaitingPlayers(b.eligible, b.currentLocked())
}

// PlayerStats recomputes the participation stats from the confirmed round
// mirror. Identical inputs reuse the cached result.
func (b *Board) PlayerStats() []session.PlayerStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	duration := 0
	if b.session != nil {
		duration = b.session.MatchDurationMinutes
	}
	return b.view.Stats(b.rounds, b.eligible, b.attendance, duration)
}

// SessionStats returns the last server-computed aggregate, including the
// fairness score. Display-only; never computed locally.
func (b *Board) SessionStats() *session.SessionStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.serverStats
}

// History returns the per-round glyph string for one player.
func (b *Board) History(playerID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return stats.HistoryGlyphs(b.rounds, b.attendance, playerID)
}

// TimeRemaining returns the countdown left on the started round.
func (b *Board) TimeRemaining() time.Duration {
	return b.timer.Remaining()
}

// TimerActive reports whether the round countdown is armed.
func (b *Board) TimerActive() bool {
	return b.timer.Active()
}

func validWeights(prefs session.Preferences) bool {
	for _, w := range []float64{
		prefs.PrioritizeWaiting,
		prefs.PrioritizeEqualMatches,
		prefs.AvoidRepeatPartners,
		prefs.AvoidRepeatOpponents,
		prefs.BalanceSkill,
	} {
		if w < 0 || w > 1 {
			return false
		}
	}
	return prefs.DesiredMM >= 0 && prefs.DesiredMF >= 0 && prefs.DesiredFF >= 0
}
