// ABOUTME: Authenticated-session store for the defectctl client
// ABOUTME: Persists token and user identity as JSON in the XDG config directory

package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sloobman/ControlSystem/internal/api"
)

// sessionFile is the well-known file name under the config directory.
const sessionFile = "session.json"

// persisted is the on-disk shape of an authenticated session.
type persisted struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Store holds the current authenticated identity and token. It is the sole
// source of truth for "is the user logged in". One Store exists per running
// client; it is constructed at the composition root and injected, never
// reached through a global.
type Store struct {
	mu        sync.RWMutex
	configDir string
	token     string
	user      *api.User
}

// New creates a Store backed by the given config directory. Call Rehydrate
// to pick up a session persisted by a previous run.
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "defectctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "defectctl")
}

func (s *Store) path() string {
	return filepath.Join(s.configDir, sessionFile)
}

// SetAuthenticated stores the identity and token in memory and persists
// them so the session survives a restart.
func (s *Store) SetAuthenticated(user api.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	s.token = token

	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(persisted{Token: token, User: user}, "", "  ")
	if err != nil {
		return err
	}
	// The file holds a credential; keep it owner-only.
	return os.WriteFile(s.path(), data, 0o600)
}

// ClearAuthenticated resets the session to logged-out and removes the
// persisted credential.
func (s *Store) ClearAuthenticated() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""

	err := os.Remove(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Rehydrate loads a previously persisted session. A missing file, malformed
// JSON, or an already-expired token all degrade to the logged-out state
// rather than failing; there is nothing actionable for the user in any of
// those cases.
func (s *Store) Rehydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""

	data, err := os.ReadFile(s.path())
	if err != nil {
		return
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Debug("discarding malformed session file", "path", s.path(), "err", err)
		return
	}
	if p.Token == "" || p.User.ID == "" {
		return
	}
	if tokenExpired(p.Token) {
		slog.Debug("discarding expired session token")
		return
	}

	s.user = &p.User
	s.token = p.Token
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is never verified client-side (the server is the authority);
// tokens that do not parse as JWTs are kept and left for the server to judge.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// IsAuthenticated reports whether both an identity and a token are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// Current returns the authenticated user, or nil when logged out.
func (s *Store) Current() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current credential token, or "" when logged out.
// Its signature matches api.TokenSource so the Store can be wired straight
// into the API client.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
