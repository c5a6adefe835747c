// Package session holds the identity of the currently logged-in user.
// The identity is persisted to ~/.config/boardwalk/session.toml so a login
// survives restarts; presence of a stored identity alone means
// "authenticated" — there is no token or expiry in the board contract.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrUnauthenticated is returned by RequireUserID when no identity is stored.
// Callers should treat it as "redirect to login", not as a server failure.
var ErrUnauthenticated = errors.New("login required")

// Identity is the locally held proof of the current user.
type Identity struct {
	UserID   int64  `toml:"user_id"`
	Nickname string `toml:"nickname"`
}

const defaultSessionPath = "~/.config/boardwalk/session.toml"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Store is the process-wide identity context. It is read by every authorized
// call and written only by login, logout, and account deletion, each of which
// replaces the identity wholesale.
type Store struct {
	mu    sync.RWMutex
	path  string
	ident Identity
	ok    bool
}

// Open creates a Store backed by the given file path, loading any persisted
// identity. A missing or unreadable file degrades to the logged-out state.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}

	s := &Store{path: resolved}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return s, nil
	}
	var ident Identity
	if err := toml.Unmarshal(bytes, &ident); err != nil {
		return s, nil
	}
	if ident.UserID > 0 {
		s.ident = ident
		s.ok = true
	}
	return s, nil
}

// Set replaces the stored identity and persists it.
func (s *Store) Set(userID int64, nickname string) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id %d", userID)
	}

	s.mu.Lock()
	s.ident = Identity{UserID: userID, Nickname: nickname}
	s.ok = true
	ident := s.ident
	path := s.path
	s.mu.Unlock()

	return persist(path, ident)
}

// Clear drops the identity and removes the persisted file. Used by logout and
// account deletion.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.ident = Identity{}
	s.ok = false
	path := s.path
	s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Current returns the identity and whether one is present.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ident, s.ok
}

// UserID returns the current user id when logged in.
func (s *Store) UserID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return 0, false
	}
	return s.ident.UserID, true
}

// Nickname returns the current display name, or empty when logged out.
func (s *Store) Nickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return ""
	}
	return s.ident.Nickname
}

// RequireUserID returns the current user id or ErrUnauthenticated. Authorized
// resource-client calls must go through this so a missing login fails locally
// instead of producing a malformed request.
func (s *Store) RequireUserID() (int64, error) {
	id, ok := s.UserID()
	if !ok {
		return 0, ErrUnauthenticated
	}
	return id, nil
}

func persist(path string, ident Identity) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	bytes, err := toml.Marshal(ident)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultSessionPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
