// Package store persists sessions, players, attendance and rounds in
// sqlite and enforces the round lifecycle server-side.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/google/uuid"
)

// New creates a new Store backed by the given database.
func New(db *sql.DB) Store {
	return &storeImpl{db: db}
}

var _ Store = (*storeImpl)(nil)

func (s *storeImpl) CreateSession(name string, date time.Time, matchDurationMinutes, numberOfCourts int) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &session.Session{
		ID:                   uuid.New().String(),
		Name:                 name,
		Date:                 date,
		MatchDurationMinutes: matchDurationMinutes,
		NumberOfCourts:       numberOfCourts,
		Status:               session.SessionActive,
	}
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, name, date, match_duration_minutes, number_of_courts, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Name, sess.Date.Unix(), sess.MatchDurationMinutes, sess.NumberOfCourts, sess.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

func (s *storeImpl) GetSession(id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, date, match_duration_minutes, number_of_courts, status, started_at, ended_at
		FROM sessions WHERE id = ?`, id)

	var sess session.Session
	var date int64
	var startedAt, endedAt sql.NullInt64
	err := row.Scan(&sess.ID, &sess.Name, &date, &sess.MatchDurationMinutes, &sess.NumberOfCourts, &sess.Status, &startedAt, &endedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess.Date = time.Unix(date, 0).UTC()
	sess.StartedAt = nullTime(startedAt)
	sess.EndedAt = nullTime(endedAt)
	return &sess, nil
}

// EndSession marks the session ended and clears its rounds and attendance,
// including any session-scoped guest players.
func (s *storeImpl) EndSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status session.SessionStatus
	err := s.db.QueryRow(`SELECT status FROM sessions WHERE id = ?`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if status == session.SessionEnded {
		return ErrSessionEnded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE sessions SET status = ?, ended_at = ? WHERE id = ?`,
		session.SessionEnded, time.Now().Unix(), id); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM rounds WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear rounds: %w", err)
	}
	if _, err := tx.Exec(`
		DELETE FROM players WHERE is_temp = 1 AND id IN (SELECT player_id FROM attendances WHERE session_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to clear guest players: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM attendances WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear attendance: %w", err)
	}
	return tx.Commit()
}

func (s *storeImpl) GetActivePlayers() ([]session.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, full_name, gender, COALESCE(level, ''), is_temp, is_active
		FROM players WHERE is_active = 1 ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []session.Player
	for rows.Next() {
		var p session.Player
		if err := rows.Scan(&p.ID, &p.FullName, &p.Gender, &p.Level, &p.IsTemp, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *storeImpl) CreatePlayer(p session.Player) (*session.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Gender == "" {
		p.Gender = session.GenderUnspecified
	}
	p.IsActive = true
	_, err := s.db.Exec(`
		INSERT INTO players (id, full_name, gender, level, is_temp, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		p.ID, p.FullName, p.Gender, p.Level, p.IsTemp, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	log.Debug("Created player", "playerID", p.ID, "guest", p.IsTemp)
	return &p, nil
}

func (s *storeImpl) GetAttendance(sessionID string) ([]session.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attendance(sessionID)
}

func (s *storeImpl) attendance(sessionID string) ([]session.Attendance, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, player_id, status, check_in_time
		FROM attendances WHERE session_id = ? ORDER BY check_in_time, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []session.Attendance
	for rows.Next() {
		var a session.Attendance
		var checkIn int64
		if err := rows.Scan(&a.ID, &a.SessionID, &a.PlayerID, &a.Status, &checkIn); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		a.CheckInTime = time.Unix(checkIn, 0).UTC()
		records = append(records, a)
	}
	return records, rows.Err()
}

// SetAttendance replaces the full present-player list. Check-in times of
// players already present are preserved; newcomers are stamped now.
func (s *storeImpl) SetAttendance(sessionID string, playerIDs []string) ([]session.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.attendance(sessionID)
	if err != nil {
		return nil, err
	}
	checkIns := make(map[string]int64, len(existing))
	for _, a := range existing {
		if _, ok := checkIns[a.PlayerID]; !ok {
			checkIns[a.PlayerID] = a.CheckInTime.Unix()
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM attendances WHERE session_id = ?`, sessionID); err != nil {
		return nil, fmt.Errorf("failed to reset attendance: %w", err)
	}

	now := time.Now().Unix()
	seen := make(map[string]bool, len(playerIDs))
	for _, playerID := range playerIDs {
		if seen[playerID] {
			continue
		}
		seen[playerID] = true
		checkIn, ok := checkIns[playerID]
		if !ok {
			checkIn = now
		}
		_, err := tx.Exec(`
			INSERT INTO attendances (id, session_id, player_id, status, check_in_time)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), sessionID, playerID, session.AttendancePresent, checkIn)
		if err != nil {
			return nil, fmt.Errorf("failed to insert attendance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.attendance(sessionID)
}

func (s *storeImpl) GetRounds(sessionID string) ([]session.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, session_id, round_index, created_at, started_at, ended_at
		FROM rounds WHERE session_id = ? ORDER BY round_index`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []session.Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *round)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range rounds {
		courts, err := s.courtsForRound(rounds[i].ID)
		if err != nil {
			return nil, err
		}
		rounds[i].CourtAssignments = courts
	}
	return rounds, nil
}

func (s *storeImpl) GetRound(id string) (*session.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.round(id)
}

func (s *storeImpl) round(id string) (*session.Round, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, round_index, created_at, started_at, ended_at
		FROM rounds WHERE id = ?`, id)
	round, err := scanRound(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	courts, err := s.courtsForRound(round.ID)
	if err != nil {
		return nil, err
	}
	round.CourtAssignments = courts
	return round, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRound(row scannable) (*session.Round, error) {
	var r session.Round
	var createdAt int64
	var startedAt, endedAt sql.NullInt64
	if err := row.Scan(&r.ID, &r.SessionID, &r.RoundIndex, &createdAt, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(createdAt, 0).UTC()
	r.StartedAt = nullTime(startedAt)
	r.EndedAt = nullTime(endedAt)
	return &r, nil
}

func (s *storeImpl) courtsForRound(roundID string) ([]session.CourtAssignment, error) {
	rows, err := s.db.Query(`
		SELECT id, round_id, court_number, team_a_player1_id, team_a_player2_id,
		       team_b_player1_id, team_b_player2_id, match_type, locked
		FROM court_assignments WHERE round_id = ? ORDER BY court_number`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list court assignments: %w", err)
	}
	defer rows.Close()

	var courts []session.CourtAssignment
	for rows.Next() {
		var c session.CourtAssignment
		var a1, a2, b1, b2 sql.NullString
		if err := rows.Scan(&c.ID, &c.RoundID, &c.CourtNumber, &a1, &a2, &b1, &b2, &c.MatchType, &c.Locked); err != nil {
			return nil, fmt.Errorf("failed to scan court assignment: %w", err)
		}
		c.TeamAPlayer1 = nullString(a1)
		c.TeamAPlayer2 = nullString(a2)
		c.TeamBPlayer1 = nullString(b1)
		c.TeamBPlayer2 = nullString(b2)
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

// ReplaceUnstartedRound deletes any still-unstarted round of the session
// and creates a fresh one holding the given courts. The round index is the
// number of rounds that survive the replacement, so cancelling and
// re-assigning never consumes an index.
func (s *storeImpl) ReplaceUnstartedRound(sessionID string, courts []session.CourtAssignment) (*session.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for i := range courts {
		for _, playerID := range courts[i].PlayerIDs() {
			if seen[playerID] {
				return nil, ErrPlayerConflict
			}
			seen[playerID] = true
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rounds WHERE session_id = ? AND started_at IS NULL`, sessionID); err != nil {
		return nil, fmt.Errorf("failed to replace unstarted round: %w", err)
	}

	var index int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM rounds WHERE session_id = ?`, sessionID).Scan(&index); err != nil {
		return nil, fmt.Errorf("failed to count rounds: %w", err)
	}

	roundID := uuid.New().String()
	createdAt := time.Now().Unix()
	if _, err := tx.Exec(`
		INSERT INTO rounds (id, session_id, round_index, created_at) VALUES (?, ?, ?, ?)`,
		roundID, sessionID, index, createdAt); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	for i := range courts {
		court := courts[i]
		if court.ID == "" {
			court.ID = uuid.New().String()
		}
		if court.MatchType == "" {
			court.MatchType = session.MatchTypeOther
		}
		_, err := tx.Exec(`
			INSERT INTO court_assignments (id, round_id, court_number, team_a_player1_id,
				team_a_player2_id, team_b_player1_id, team_b_player2_id, match_type, locked)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			court.ID, roundID, court.CourtNumber,
			court.TeamAPlayer1, court.TeamAPlayer2, court.TeamBPlayer1, court.TeamBPlayer2,
			court.MatchType, court.Locked)
		if err != nil {
			return nil, fmt.Errorf("failed to insert court assignment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Round assigned", "sessionID", sessionID, "roundID", roundID, "index", index, "courts", len(courts))
	return s.round(roundID)
}

func (s *storeImpl) StartRound(id string) (*session.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.round(id)
	if err != nil {
		return nil, err
	}
	if round.EndedAt != nil {
		return nil, ErrRoundEnded
	}
	if round.StartedAt != nil {
		return nil, ErrRoundStarted
	}
	if _, err := s.db.Exec(`UPDATE rounds SET started_at = ? WHERE id = ?`, time.Now().Unix(), id); err != nil {
		return nil, fmt.Errorf("failed to start round: %w", err)
	}
	log.Info("Round started", "roundID", id)
	return s.round(id)
}

func (s *storeImpl) EndRound(id string) (*session.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.round(id)
	if err != nil {
		return nil, err
	}
	if round.StartedAt == nil {
		return nil, ErrRoundNotStarted
	}
	if round.EndedAt != nil {
		return nil, ErrRoundEnded
	}
	if _, err := s.db.Exec(`UPDATE rounds SET ended_at = ? WHERE id = ?`, time.Now().Unix(), id); err != nil {
		return nil, fmt.Errorf("failed to end round: %w", err)
	}
	log.Info("Round ended", "roundID", id)
	return s.round(id)
}

// CancelRound removes the round and its courts entirely. Only legal before
// the round starts.
func (s *storeImpl) CancelRound(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.round(id)
	if err != nil {
		return err
	}
	if round.StartedAt != nil {
		return ErrRoundStarted
	}
	if _, err := s.db.Exec(`DELETE FROM rounds WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to cancel round: %w", err)
	}
	log.Info("Round cancelled", "roundID", id)
	return nil
}

// UpdateCourtAssignment replaces the four slot values of one court. The
// parent round must not have started; late edits from stale clients are
// rejected so the board converges on reconciliation.
func (s *storeImpl) UpdateCourtAssignment(id string, slots [4]*string) (*session.CourtAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var roundID string
	err := s.db.QueryRow(`SELECT round_id FROM court_assignments WHERE id = ?`, id).Scan(&roundID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up court assignment: %w", err)
	}
	round, err := s.round(roundID)
	if err != nil {
		return nil, err
	}
	if round.StartedAt != nil {
		return nil, ErrRoundStarted
	}

	// A player id may occupy at most one slot across the round's courts.
	incoming := make(map[string]bool, 4)
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		if incoming[*slot] {
			return nil, ErrPlayerConflict
		}
		incoming[*slot] = true
	}
	for i := range round.CourtAssignments {
		court := &round.CourtAssignments[i]
		if court.ID == id {
			continue
		}
		for _, playerID := range court.PlayerIDs() {
			if incoming[playerID] {
				return nil, ErrPlayerConflict
			}
		}
	}

	matchType, err := s.deriveMatchType(slots)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(`
		UPDATE court_assignments SET team_a_player1_id = ?, team_a_player2_id = ?,
			team_b_player1_id = ?, team_b_player2_id = ?, match_type = ?
		WHERE id = ?`,
		slots[0], slots[1], slots[2], slots[3], matchType, id); err != nil {
		return nil, fmt.Errorf("failed to update court assignment: %w", err)
	}

	courts, err := s.courtsForRound(roundID)
	if err != nil {
		return nil, err
	}
	for i := range courts {
		if courts[i].ID == id {
			return &courts[i], nil
		}
	}
	return nil, ErrNotFound
}

// deriveMatchType classifies the new slot occupants by gender. Match type
// is derived on every write, never trusted from the client.
func (s *storeImpl) deriveMatchType(slots [4]*string) (session.MatchType, error) {
	genders := make([]*session.Gender, 4)
	for i, slot := range slots {
		if slot == nil {
			continue
		}
		var g session.Gender
		err := s.db.QueryRow(`SELECT gender FROM players WHERE id = ?`, *slot).Scan(&g)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to look up player gender: %w", err)
		}
		genders[i] = &g
	}
	return session.DeriveMatchType(genders[0], genders[1], genders[2], genders[3]), nil
}

func nullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
