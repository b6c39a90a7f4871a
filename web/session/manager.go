package session

import (
	"context"
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"github.com/ortosupport/course-assistant/logger"

	"github.com/gorilla/securecookie"
)

// DefaultTTL is the fixed lifetime of a session from its creation.
const DefaultTTL = 24 * time.Hour

const tokenBytes = 32

// ErrNotFound is returned by backends for unknown tokens.
var ErrNotFound = errors.New("session not found")

// Record is a persisted session.
type Record struct {
	Token     string    `json:"token"`
	UserID    int       `json:"userId"`
	Data      []byte    `json:"data,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the record is past its expiry at now.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Backend persists session records.
type Backend interface {
	Save(ctx context.Context, rec *Record) error
	Load(ctx context.Context, token string) (*Record, error)
	Delete(ctx context.Context, token string) error
}

// Manager issues, resolves and destroys session tokens.
type Manager struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
}

// NewManager returns a Manager storing sessions in backend. A non-positive
// ttl selects DefaultTTL.
func NewManager(backend Backend, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{backend: backend, ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores a new session for userID and returns its token.
func (m *Manager) Create(ctx context.Context, userID int) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	rec := &Record{
		Token:     token,
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.backend.Save(ctx, rec); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user owning token. Unknown, expired or unreadable
// sessions resolve to false.
func (m *Manager) Resolve(ctx context.Context, token string) (int, bool) {
	rec, ok := m.Lookup(ctx, token)
	if !ok {
		return 0, false
	}
	return rec.UserID, true
}

// Lookup returns the full record of a valid session.
func (m *Manager) Lookup(ctx context.Context, token string) (*Record, bool) {
	if token == "" {
		return nil, false
	}
	rec, err := m.backend.Load(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warning("session lookup failed:", err)
		}
		return nil, false
	}
	if rec.Expired(m.now()) {
		return nil, false
	}
	return rec, true
}

// Update replaces the payload of a valid session. The expiry is kept.
func (m *Manager) Update(ctx context.Context, token string, data []byte) error {
	rec, ok := m.Lookup(ctx, token)
	if !ok {
		return ErrNotFound
	}
	rec.Data = data
	return m.backend.Save(ctx, rec)
}

// Destroy removes the session. Destroying an unknown token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := m.backend.Delete(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func newToken() (string, error) {
	key := securecookie.GenerateRandomKey(tokenBytes)
	if key == nil {
		return "", errors.New("failed to generate session token")
	}
	return strings.TrimRight(base32.StdEncoding.EncodeToString(key), "="), nil
}
