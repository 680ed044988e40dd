package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hostelhub/snackshop-service/internal/models"
)

const sessionKeyPrefix = "session:"

// Session is the authenticated state resolved from an opaque token.
// It is created at login, destroyed at logout, and never shared across
// unrelated requests.
type Session struct {
	UserID    uint            `json:"user_id"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// ErrSessionNotFound is returned for unknown or expired tokens
var ErrSessionNotFound = fmt.Errorf("session not found")

// SessionStore issues and resolves opaque session tokens. Redis-backed when a
// client is provided; otherwise it degrades to an in-process map so the
// service still runs without Redis (sessions then don't survive restarts).
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.RWMutex
	local map[string]localSession
}

type localSession struct {
	session   Session
	expiresAt time.Time
}

// NewSessionStore creates a session store with the given TTL
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		local:  make(map[string]localSession),
	}
}

// Create issues a new opaque token for an authenticated user
func (s *SessionStore) Create(ctx context.Context, user *models.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session := Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}

	if s.client == nil {
		s.mu.Lock()
		s.local[token] = localSession{session: session, expiresAt: time.Now().Add(s.ttl)}
		s.mu.Unlock()
		return token, nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Get resolves a token to its session, or ErrSessionNotFound
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	if s.client == nil {
		s.mu.RLock()
		entry, ok := s.local[token]
		s.mu.RUnlock()
		if !ok || time.Now().After(entry.expiresAt) {
			if ok {
				s.mu.Lock()
				delete(s.local, token)
				s.mu.Unlock()
			}
			return nil, ErrSessionNotFound
		}
		session := entry.session
		return &session, nil
	}

	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Refresh slides the session TTL on access
func (s *SessionStore) Refresh(ctx context.Context, token string) error {
	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		entry, ok := s.local[token]
		if !ok {
			return ErrSessionNotFound
		}
		entry.expiresAt = time.Now().Add(s.ttl)
		s.local[token] = entry
		return nil
	}

	ok, err := s.client.Expire(ctx, sessionKeyPrefix+token, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete destroys a session (logout). Deleting an unknown token is a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if s.client == nil {
		s.mu.Lock()
		delete(s.local, token)
		s.mu.Unlock()
		return nil
	}

	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// TTL returns the configured session lifetime
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// newToken generates a cryptographically random 32-byte hex token
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
