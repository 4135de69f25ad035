package game

import (
	"fmt"
	"sync"

	"github.com/nthieu173/disastle/internal/castle"
)

// ActionMeta carries the optimistic-concurrency and idempotency metadata a
// caller attaches to an action request.
type ActionMeta struct {
	ActionID         string
	ExpectedRevision int
}

// ActionResult reports the outcome of a successful or deduplicated action.
type ActionResult struct {
	Revision  int
	Duplicate bool
}

// RevisionMismatchError indicates the caller's expected revision is stale.
type RevisionMismatchError struct {
	Expected int
	Current  int
}

func (e *RevisionMismatchError) Error() string {
	return fmt.Sprintf("game: revision mismatch: expected %d, current %d", e.Expected, e.Current)
}

// Manager holds many in-memory games, each guarded by a revision counter so
// that concurrent submitters can use compare-and-swap semantics instead of
// coarse locking around the whole session.
type Manager struct {
	mu              sync.RWMutex
	games           map[string]GameState
	revisions       map[string]int
	appliedActionID map[string]map[string]int
	rng             RNG
}

// NewManager creates an empty Manager whose games draw randomness from rng.
func NewManager(rng RNG) *Manager {
	return &Manager{
		games:           make(map[string]GameState),
		revisions:       make(map[string]int),
		appliedActionID: make(map[string]map[string]int),
		rng:             rng,
	}
}

// CreateGame seeds a new GameState under id.
func (m *Manager) CreateGame(id string, players []PlayerSecret, setting Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.games[id]; exists {
		return fmt.Errorf("game: id %q already exists", id)
	}
	gs, err := New(players, setting, m.rng)
	if err != nil {
		return err
	}
	m.games[id] = gs
	m.revisions[id] = 0
	m.appliedActionID[id] = make(map[string]int)
	return nil
}

// GetGame retrieves a game's current state by id.
func (m *Manager) GetGame(id string) (GameState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.games[id]
	return gs, ok
}

// GetRevision returns the current revision for a game.
func (m *Manager) GetRevision(id string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.games[id]; !ok {
		return 0, false
	}
	return m.revisions[id], true
}

// ExecuteAction applies act on behalf of secret, enforcing idempotency (via
// meta.ActionID) and optimistic concurrency (via meta.ExpectedRevision,
// ignored when negative).
func (m *Manager) ExecuteAction(id string, secret PlayerSecret, act castle.Action, meta ActionMeta) (*ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gs, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("game: id %q not found", id)
	}

	currentRevision := m.revisions[id]
	if meta.ActionID != "" {
		if rev, exists := m.appliedActionID[id][meta.ActionID]; exists {
			return &ActionResult{Revision: rev, Duplicate: true}, nil
		}
	}
	if meta.ExpectedRevision >= 0 && meta.ExpectedRevision != currentRevision {
		return nil, &RevisionMismatchError{Expected: meta.ExpectedRevision, Current: currentRevision}
	}

	next, err := gs.Action(secret, act, m.rng)
	if err != nil {
		return nil, err
	}

	currentRevision++
	m.games[id] = next
	m.revisions[id] = currentRevision
	if meta.ActionID != "" {
		m.appliedActionID[id][meta.ActionID] = currentRevision
	}
	return &ActionResult{Revision: currentRevision}, nil
}
