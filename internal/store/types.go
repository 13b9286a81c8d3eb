package store

import (
	"database/sql"
	"errors"
	"sync"
)

// storeImpl handles all database operations for the club's sessions.
type storeImpl struct {
	db *sql.DB
	mu sync.RWMutex
}

// Not-found and guard errors surfaced to the HTTP layer.
var (
	ErrNotFound        = errors.New("record not found")
	ErrSessionEnded    = errors.New("session already ended")
	ErrRoundStarted    = errors.New("round already started")
	ErrRoundNotStarted = errors.New("round not started")
	ErrRoundEnded      = errors.New("round already ended")
	ErrPlayerConflict  = errors.New("player already assigned in this round")
)
