// Package lobby tracks open games waiting for players to seat before the
// core state machine takes over. It knows nothing about castles, rooms or
// disasters; it only matches display names to the opaque secrets game.Manager
// expects.
package lobby

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nthieu173/disastle/internal/game"
)

// Seat pairs a display name with the minted secret a client must present to
// act on that seat's behalf.
type Seat struct {
	Name   string           `json:"name"`
	Secret game.PlayerSecret `json:"-"`
}

// GameMeta describes one open or in-progress lobby game.
type GameMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Catalog    string    `json:"catalog"`
	Seats      []Seat    `json:"seats"`
	MaxPlayers int       `json:"maxPlayers"`
	CreatedAt  time.Time `json:"createdAt"`
	Started    bool      `json:"started"`
}

// Manager maintains the set of open games for joining. It is separate from
// game.Manager, which owns the full rules-engine state once a game starts.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*GameMeta
}

// NewManager creates an empty lobby.
func NewManager() *Manager {
	return &Manager{games: make(map[string]*GameMeta)}
}

// CreateGame opens a new lobby entry for a game using the named catalog file.
func (m *Manager) CreateGame(name, catalog string, maxPlayers int) *GameMeta {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := &GameMeta{
		ID:         uuid.NewString(),
		Name:       name,
		Catalog:    catalog,
		MaxPlayers: maxPlayers,
		CreatedAt:  time.Now(),
		Seats:      make([]Seat, 0, maxPlayers),
	}
	m.games[g.ID] = g
	return g
}

// JoinGame seats playerName in game id, minting a fresh secret for it. It
// fails if the game is unknown, full, already started, or playerName is
// already seated.
func (m *Manager) JoinGame(id string, playerName string) (game.PlayerSecret, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok || g.Started || len(g.Seats) >= g.MaxPlayers {
		return "", false
	}
	for _, s := range g.Seats {
		if s.Name == playerName {
			return "", false
		}
	}
	secret := game.PlayerSecret(uuid.NewString())
	g.Seats = append(g.Seats, Seat{Name: playerName, Secret: secret})
	return secret, true
}

// LeaveGame removes playerName's seat from game id, if present.
func (m *Manager) LeaveGame(id string, playerName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return false
	}
	seats := make([]Seat, 0, len(g.Seats))
	for _, s := range g.Seats {
		if s.Name != playerName {
			seats = append(seats, s)
		}
	}
	g.Seats = seats
	return true
}

// Start marks a game as no longer accepting new seats, returning the minted
// secrets in seating order for the caller to pass to game.Manager.CreateGame.
func (m *Manager) Start(id string) ([]game.PlayerSecret, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok || g.Started {
		return nil, false
	}
	g.Started = true
	secrets := make([]game.PlayerSecret, len(g.Seats))
	for i, s := range g.Seats {
		secrets[i] = s.Secret
	}
	return secrets, true
}

// ListGames returns every known game, started or not.
func (m *Manager) ListGames() []*GameMeta {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*GameMeta, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g)
	}
	return out
}
