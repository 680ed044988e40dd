package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hostelhub/snackshop-service/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       7,
		Username: "alice-101",
		Name:     "alice",
		Room:     "101",
		Role:     models.RoleStudent,
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSessionStore(client, ttl), mr
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, time.Hour)

	token, err := store.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64-hex token, got %d chars", len(token))
	}

	session, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if session.UserID != 7 {
		t.Errorf("expected user_id 7, got %d", session.UserID)
	}
	if session.Username != "alice-101" {
		t.Errorf("expected username alice-101, got %s", session.Username)
	}
	if session.Role != models.RoleStudent {
		t.Errorf("expected role student, got %s", session.Role)
	}

	// Logout destroys the session
	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, token); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	token, err := store.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, token); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after expiry, got %v", err)
	}
}

func TestSessionStore_Refresh(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	token, err := store.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Sliding TTL: a refresh just before expiry keeps the session alive
	mr.FastForward(30 * time.Second)
	if err := store.Refresh(ctx, token); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	mr.FastForward(45 * time.Second)

	if _, err := store.Get(ctx, token); err != nil {
		t.Errorf("expected session alive after refresh, got %v", err)
	}

	if err := store.Refresh(ctx, "unknown-token"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound for unknown token, got %v", err)
	}
}

func TestSessionStore_UnknownToken(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, time.Hour)

	if _, err := store.Get(ctx, "deadbeef"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := store.Get(ctx, ""); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound for empty token, got %v", err)
	}
}

func TestSessionStore_LocalFallback(t *testing.T) {
	// Nil client degrades to the in-process map with the same contract
	ctx := context.Background()
	store := NewSessionStore(nil, time.Hour)

	token, err := store.Create(ctx, testUser())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	session, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if session.Username != "alice-101" {
		t.Errorf("expected username alice-101, got %s", session.Username)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, token); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
