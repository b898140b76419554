// internal/store/memory.go
//
// In-memory session store for the HTTP API.
//
// Characteristics:
//   - Stores *Session values keyed by game ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; signed session tokens let a
//     client rebuild a game after that.
//   - Sweep drops sessions idle for longer than a given age.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordlebot/internal/bot"
	"github.com/robalobadob/wordlebot/internal/game"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("store: session not found")

// Keeper names the evaluator playing the keeper role.
type Keeper string

const (
	Honest   Keeper = "honest"
	Flexible Keeper = "flexible"
)

// Valid reports whether k names a known keeper.
func (k Keeper) Valid() bool { return k == Honest || k == Flexible }

// Session is one game being played through the API. Callers hold the
// session lock while touching Game or Keeper.
type Session struct {
	sync.Mutex

	Game     *game.Game
	Keeper   bot.Evaluator
	Solver   *bot.Solver // suggestions; built on first use
	Kind     Keeper
	Seed     int64
	DailyKey string // empty for free play
	Player   string
	Recorded bool // history row written

	touched time.Time
}

// ID is the game ID.
func (s *Session) ID() uuid.UUID { return s.Game.ID() }

// Store defines the persistence interface for sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by game ID, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session; unknown IDs are ignored.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[uuid.UUID]*Session), now: time.Now}
}

// Save adds or replaces the session.
func (m *Memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.touched = m.now()
	m.sessions[s.ID()] = s
	return nil
}

// Get looks up a session by game ID and marks it as used.
func (m *Memory) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.touched = m.now()
	return s, nil
}

// Delete removes a session.
func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len is the number of stored sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions not used within maxAge and returns how many went.
func (m *Memory) Sweep(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-maxAge)
	n := 0
	for id, s := range m.sessions {
		if s.touched.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
