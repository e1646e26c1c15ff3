// Package session owns the client's authentication state: the current user,
// the bearer token and the development bypass flag. State is persisted in a
// JSON file whose keys mirror the original browser storage keys (auth_token,
// user, devBypassAuth) so a session survives restarts.
//
// The store is the sole owner of the token; everything else reads it through
// Token(). There is no cross-process invalidation: another process logging
// out is only noticed after a reload. Known limitation.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkovalev-net/vizlab/internal/client/models"
)

// State is the session lifecycle phase.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// fileData is the persisted shape of the session file.
type fileData struct {
	Token     string       `json:"auth_token,omitempty"`
	User      *models.User `json:"user,omitempty"`
	DevBypass bool         `json:"devBypassAuth,omitempty"`
}

// Store holds session state in memory and mirrors it to a file on disk.
// All methods are safe for concurrent use; concurrent writers are serialized
// and the last write wins.
type Store struct {
	mu    sync.RWMutex
	path  string
	token string
	user  *models.User
	dev   bool
	state State
	subs  []func(State)
}

// NewStore creates a Store persisting to the given file path. The file is
// not read until Load is called.
func NewStore(path string) *Store {
	return &Store{path: path, state: StateAnonymous}
}

// Load restores persisted session state. A missing file leaves the store
// anonymous; a corrupt file is treated the same way rather than failing
// startup.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil
	}

	s.mu.Lock()
	s.token = fd.Token
	s.user = fd.User
	s.dev = fd.DevBypass
	if fd.Token != "" {
		s.state = StateAuthenticated
	}
	s.mu.Unlock()
	return nil
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Token returns the current bearer token, or "" when anonymous.
// Implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user record, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// State returns the current lifecycle phase.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// DevBypass reports whether the development bypass flag is set.
func (s *Store) DevBypass() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dev
}

// SetAuthenticating marks a login as in flight.
func (s *Store) SetAuthenticating() {
	s.transition(func() { s.state = StateAuthenticating })
}

// Set stores a fresh (user, token) pair, persists it and notifies
// subscribers. The user record is always refreshed together with the token.
func (s *Store) Set(user *models.User, token string) error {
	var err error
	s.transition(func() {
		s.user = user
		s.token = token
		s.state = StateAuthenticated
		err = s.persistLocked()
	})
	return err
}

// SetUser refreshes the stored user record without touching the token
// (profile re-validation on restore).
func (s *Store) SetUser(user *models.User) error {
	var err error
	s.transition(func() {
		s.user = user
		err = s.persistLocked()
	})
	return err
}

// Clear wipes user and token (logout or failed restore). The dev bypass flag
// survives so a developer session can be re-fabricated after restart.
func (s *Store) Clear() error {
	var err error
	s.transition(func() {
		s.user = nil
		s.token = ""
		s.state = StateAnonymous
		err = s.persistLocked()
	})
	return err
}

// SetDevBypass flips the development bypass flag and persists it. The caller
// is responsible for re-initializing the application afterwards.
func (s *Store) SetDevBypass(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev = enabled
	return s.persistLocked()
}

// OnChange registers fn to be called after every state transition.
// Subscribers run synchronously, outside the store lock.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// TokenExpired inspects the token's JWT exp claim without verifying the
// signature. Opaque (non-JWT) tokens and tokens without exp are reported as
// not expired; only the backend can judge those.
func (s *Store) TokenExpired() bool {
	token := s.Token()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// transition runs fn under the write lock, then invokes subscribers with the
// resulting state.
func (s *Store) transition(fn func()) {
	s.mu.Lock()
	fn()
	state := s.state
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(state)
	}
}

// persistLocked writes the session file. Caller must hold the write lock.
func (s *Store) persistLocked() error {
	fd := fileData{Token: s.token, User: s.user, DevBypass: s.dev}

	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o770); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
