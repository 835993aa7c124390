package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pbaille/localconnect/internal/domain"
)

// Manager owns the mutable current-state cell of each live session.
// States live in memory only and are dropped with the manager.
type Manager struct {
	mu        sync.RWMutex
	states    map[string]domain.QueryState
	favorites []string
	recents   []string
	logger    *zap.Logger
}

// NewManager creates a Manager whose new sessions start with the given seeds
func NewManager(favorites, recents []string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		states:    make(map[string]domain.QueryState),
		favorites: favorites,
		recents:   recents,
		logger:    logger,
	}
}

// Create starts a session with default state
func (m *Manager) Create() (string, domain.QueryState) {
	id := uuid.New().String()
	s := NewState(m.favorites, m.recents)

	m.mu.Lock()
	m.states[id] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session", id))
	return id, s
}

// Get returns the current state of a session
func (m *Manager) Get(id string) (domain.QueryState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[id]
	if !ok {
		return domain.QueryState{}, fmt.Errorf("get session %s: %w", id, domain.ErrSessionNotFound)
	}
	return s, nil
}

// Apply runs fn against the current state and stores its result. When fn
// fails the stored state is left as it was and the error is returned.
func (m *Manager) Apply(id string, fn func(domain.QueryState) (domain.QueryState, error)) (domain.QueryState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[id]
	if !ok {
		return domain.QueryState{}, fmt.Errorf("apply to session %s: %w", id, domain.ErrSessionNotFound)
	}

	next, err := fn(s)
	if err != nil {
		m.logger.Warn("transition rejected", zap.String("session", id), zap.Error(err))
		return s, err
	}
	m.states[id] = next
	return next, nil
}

// Delete ends a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[id]; !ok {
		return fmt.Errorf("delete session %s: %w", id, domain.ErrSessionNotFound)
	}
	delete(m.states, id)
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
