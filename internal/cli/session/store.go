package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// StorageKey is the well-known key the session record lives under
const StorageKey = "user"

// Store reads and writes the single session record through a Backend.
// Last writer wins; there is no cross-process locking.
type Store struct {
	backend Backend
	log     zerolog.Logger
	mu      sync.Mutex
}

// NewStore creates a session store on top of the given backend
func NewStore(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// Save overwrites any existing record with s
func (st *Store) Save(s *Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.backend.Set(StorageKey, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	st.log.Debug().Str("role", s.Role.String()).Msg("Session saved")
	return nil
}

// Load returns the persisted session, or nil when there is none.
// A record that fails to parse is removed and reported as absent.
func (st *Store) Load() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := st.backend.Get(StorageKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		st.log.Warn().Err(err).Msg("Discarding malformed session record")
		if delErr := st.backend.Delete(StorageKey); delErr != nil && !errors.Is(delErr, ErrNotFound) {
			st.log.Warn().Err(delErr).Msg("Failed to remove malformed session record")
		}
		return nil, nil
	}

	return &s, nil
}

// Current is Load with backend failures logged and mapped to "no session".
// Navigation and request policies use it so a broken store never crashes them.
func (st *Store) Current() *Session {
	s, err := st.Load()
	if err != nil {
		st.log.Error().Err(err).Msg("Failed to read session")
		return nil
	}
	return s
}

// Clear removes the persisted record. Clearing an empty store is not an error.
func (st *Store) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.backend.Delete(StorageKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	st.log.Debug().Msg("Session cleared")
	return nil
}

// Token returns the bearer token of the current session, or ""
func (st *Store) Token() string {
	s := st.Current()
	if s == nil {
		return ""
	}
	return s.AccessToken
}
