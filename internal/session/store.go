// Package session persists the bearer token between CLI invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the persisted login state.
type Session struct {
	Token   string    `json:"token,omitempty"`
	Email   string    `json:"email,omitempty"`
	SavedAt time.Time `json:"saved_at,omitempty"`

	// Pending holds a login that still waits for its 2FA code.
	Pending *Pending `json:"pending,omitempty"`
}

// Pending is a login waiting for 2FA confirmation.
type Pending struct {
	Email     string    `json:"email"`
	TempToken string    `json:"temp_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the pending code window has passed.
func (p *Pending) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// Store reads and writes a Session file.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".suprss-session.json")
	}
	return filepath.Join(dir, "suprss", "session.json")
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the session. A missing file yields an empty session.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", s.path, err)
	}
	return &sess, nil
}

// Save writes the session with owner-only permissions.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if sess.SavedAt.IsZero() {
		sess.SavedAt = s.now()
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// SaveToken stores a fresh bearer token and drops any pending 2FA login.
func (s *Store) SaveToken(token, email string) error {
	return s.Save(&Session{Token: token, Email: email, SavedAt: s.now()})
}

// SavePending records a login that needs a 2FA code. Any stored token is
// dropped.
func (s *Store) SavePending(p Pending) error {
	return s.Save(&Session{Email: p.Email, Pending: &p, SavedAt: s.now()})
}

// Clear removes the session file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or an empty string when there is
// none or it has expired.
func (s *Store) Token() (string, error) {
	sess, err := s.Load()
	if err != nil {
		return "", err
	}
	if sess.Token == "" {
		return "", nil
	}
	if exp, ok := Expiry(sess.Token); ok && !s.now().Before(exp) {
		return "", nil
	}
	return sess.Token, nil
}

// Expiry returns the exp claim of a JWT. The signature is not checked;
// only the server can verify it.
func Expiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subject returns the sub claim of a JWT, which the server sets to the
// account email.
func Subject(token string) string {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
