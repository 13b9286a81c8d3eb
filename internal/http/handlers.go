package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtflow/courtflow/internal/assign"
	"github.com/courtflow/courtflow/internal/roster"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/courtflow/courtflow/internal/stats"
	"github.com/courtflow/courtflow/internal/store"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be RFC3339")
			return
		}
		sess, err := s.Store.CreateSession(req.Name, date, req.MatchDurationMinutes, req.NumberOfCourts)
		if err != nil {
			s.storeError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, sess)
	}
}

func (s *Server) GetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Store.GetSession(r.PathValue("id"))
		if err != nil {
			s.storeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) EndSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := s.Store.EndSession(id); err != nil {
			s.storeError(w, err)
			return
		}
		sess, err := s.Store.GetSession(id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetActivePlayers()
		if err != nil {
			s.storeError(w, err)
			return
		}
		if players == nil {
			players = []session.Player{}
		}
		respondJSON(w, http.StatusOK, players)
	}
}

// CreateGuestHandler registers a session-scoped guest. The caller is
// expected to follow up with an attendance update including the new id.
func (s *Server) CreateGuestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGuestRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		player, err := s.Store.CreatePlayer(session.Player{
			FullName: req.FullName,
			Gender:   session.Gender(req.Gender),
			Level:    req.Level,
			IsTemp:   true,
		})
		if err != nil {
			s.storeError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) GetAttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attendance, err := s.Store.GetAttendance(r.PathValue("id"))
		if err != nil {
			s.storeError(w, err)
			return
		}
		if attendance == nil {
			attendance = []session.Attendance{}
		}
		respondJSON(w, http.StatusOK, attendance)
	}
}

func (s *Server) SetAttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setAttendanceRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		if _, err := s.Store.GetSession(r.PathValue("id")); err != nil {
			s.storeError(w, err)
			return
		}
		attendance, err := s.Store.SetAttendance(r.PathValue("id"), req.PlayerIDs)
		if err != nil {
			s.storeError(w, err)
			return
		}
		if attendance == nil {
			attendance = []session.Attendance{}
		}
		respondJSON(w, http.StatusOK, attendance)
	}
}

func (s *Server) ListRoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rounds, err := s.Store.GetRounds(r.PathValue("id"))
		if err != nil {
			s.storeError(w, err)
			return
		}
		if rounds == nil {
			rounds = []session.Round{}
		}
		respondJSON(w, http.StatusOK, rounds)
	}
}

// AutoAssignHandler runs the assignment engine over the present players and
// replaces the session's pending round with the result.
func (s *Server) AutoAssignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req autoAssignRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			req.Preferences = session.DefaultPreferences()
		} else if err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.validate.Struct(req.Preferences); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		sess, rounds, ok := s.assignableSession(w, r.PathValue("id"))
		if !ok {
			return
		}
		players, err := s.Store.GetActivePlayers()
		if err != nil {
			s.storeError(w, err)
			return
		}
		attendance, err := s.Store.GetAttendance(sess.ID)
		if err != nil {
			s.storeError(w, err)
			return
		}
		eligible := roster.Eligible(attendance, players)

		history := assign.BuildHistory(playedRounds(rounds), eligible, attendance, s.Cfg.LevelOrder)
		started := time.Now()
		courts, err := assign.Assign(eligible, sess.NumberOfCourts, history, req.Preferences, req.LockedCourts)
		if err != nil {
			if errors.Is(err, assign.ErrInvalidConfiguration) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.storeError(w, err)
			return
		}
		s.Metrics.IncAssignmentsRun()
		s.Metrics.ObserveAssignmentDuration(time.Since(started).Seconds())

		round, err := s.Store.ReplaceUnstartedRound(sess.ID, courts)
		if err != nil {
			s.storeError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, round)
	}
}

// ManualAssignHandler replaces the pending round with operator-chosen
// courts. Match types are derived server-side from the occupants' genders.
func (s *Server) ManualAssignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req manualAssignRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		sess, _, ok := s.assignableSession(w, r.PathValue("id"))
		if !ok {
			return
		}
		for i := range req.Courts {
			if req.Courts[i].CourtNumber < 0 || req.Courts[i].CourtNumber >= sess.NumberOfCourts {
				respondError(w, http.StatusBadRequest, "court number out of range")
				return
			}
		}
		players, err := s.Store.GetActivePlayers()
		if err != nil {
			s.storeError(w, err)
			return
		}
		registry := make(map[string]session.Player, len(players))
		for _, p := range players {
			registry[p.ID] = p
		}
		for i := range req.Courts {
			req.Courts[i].MatchType = session.DeriveCourtMatchType(&req.Courts[i], registry)
		}

		round, err := s.Store.ReplaceUnstartedRound(sess.ID, req.Courts)
		if err != nil {
			s.storeError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, round)
	}
}

func (s *Server) StartRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := s.Store.StartRound(r.PathValue("id"))
		if err != nil {
			s.storeError(w, err)
			return
		}
		s.Metrics.IncRoundsStarted()
		respondJSON(w, http.StatusOK, round)
	}
}

func (s *Server) EndRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := s.Store.EndRound(r.PathValue("id"))
		if err != nil {
			s.storeError(w, err)
			return
		}
		s.Metrics.IncRoundsEnded()
		respondJSON(w, http.StatusOK, round)
	}
}

func (s *Server) CancelRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.CancelRound(r.PathValue("id")); err != nil {
			s.storeError(w, err)
			return
		}
		s.Metrics.IncRoundsCancelled()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) UpdateCourtAssignmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateCourtRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		court, err := s.Store.UpdateCourtAssignment(r.PathValue("id"),
			[4]*string{req.TeamAPlayer1, req.TeamAPlayer2, req.TeamBPlayer1, req.TeamBPlayer2})
		if err != nil {
			if errors.Is(err, store.ErrRoundStarted) || errors.Is(err, store.ErrRoundEnded) {
				s.Metrics.IncEditsRejected()
			}
			s.storeError(w, err)
			return
		}
		s.Metrics.IncBoardEditsApplied()
		respondJSON(w, http.StatusOK, court)
	}
}

// SessionStatsHandler recomputes the participation stats from scratch. The
// stats are never stored, so they cannot drift from the round history.
func (s *Server) SessionStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Store.GetSession(r.PathValue("id"))
		if err != nil {
			s.storeError(w, err)
			return
		}
		rounds, err := s.Store.GetRounds(sess.ID)
		if err != nil {
			s.storeError(w, err)
			return
		}
		players, err := s.Store.GetActivePlayers()
		if err != nil {
			s.storeError(w, err)
			return
		}
		attendance, err := s.Store.GetAttendance(sess.ID)
		if err != nil {
			s.storeError(w, err)
			return
		}
		eligible := roster.Eligible(attendance, players)
		playerStats := stats.Compute(rounds, eligible, attendance, sess.MatchDurationMinutes)
		respondJSON(w, http.StatusOK, stats.Aggregate(sess.ID, len(rounds), playerStats))
	}
}

// assignableSession loads the session and its rounds and rejects the
// request when the session has ended or a round is in progress.
func (s *Server) assignableSession(w http.ResponseWriter, sessionID string) (*session.Session, []session.Round, bool) {
	sess, err := s.Store.GetSession(sessionID)
	if err != nil {
		s.storeError(w, err)
		return nil, nil, false
	}
	if sess.Status == session.SessionEnded {
		respondError(w, http.StatusConflict, store.ErrSessionEnded.Error())
		return nil, nil, false
	}
	rounds, err := s.Store.GetRounds(sessionID)
	if err != nil {
		s.storeError(w, err)
		return nil, nil, false
	}
	if len(rounds) > 0 {
		if last := &rounds[len(rounds)-1]; !last.CanAssign() && last.EndedAt == nil {
			respondError(w, http.StatusConflict, session.ErrRoundStarted.Error())
			return nil, nil, false
		}
	}
	return sess, rounds, true
}

// playedRounds filters the history input down to rounds that actually ran.
// The pending round is about to be replaced and must not count.
func playedRounds(rounds []session.Round) []session.Round {
	var played []session.Round
	for _, round := range rounds {
		if round.StartedAt != nil {
			played = append(played, round)
		}
	}
	return played
}

func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrSessionEnded),
		errors.Is(err, store.ErrRoundStarted),
		errors.Is(err, store.ErrRoundNotStarted),
		errors.Is(err, store.ErrRoundEnded),
		errors.Is(err, store.ErrPlayerConflict):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
