package session

import (
	"errors"
	"sync"
	"time"

	"github.com/mazehack/quizmaze/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Manager is an in-memory cache of live sessions keyed by game id.
// Durable state lives in the store; evicting a session loses nothing.
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Add registers a session under its game id.
func (m *Manager) Add(sess *Session) error {
	if sess == nil || sess.GameID == "" {
		return errors.New("session must have a game id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sess.GameID]; exists {
		return ErrSessionAlreadyExists
	}
	m.sessions[sess.GameID] = sess
	return nil
}

// Get retrieves a live session by game id.
func (m *Manager) Get(gameID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[gameID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete evicts a session from the cache.
func (m *Manager) Delete(gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[gameID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, gameID)
	return nil
}

// List returns all live sessions.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired evicts sessions idle for longer than maxAge and returns
// how many were removed.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, sess := range m.sessions {
		if sess.LastAccess().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Session aliases the service session type so callers of this package
// do not need both imports.
type Session = service.Session
