package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/hostelhub/snackshop-service/internal/cache"
	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/validator"
)

func newAuthServiceForTest(repo *mockRepository) (*authService, *cache.SessionStore) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	sessions := cache.NewSessionStore(nil, 30*time.Minute)
	svc := &authService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
		sessions:  sessions,
	}
	return svc, sessions
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers student with derived identity", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newAuthServiceForTest(repo)

		user, err := svc.Register(ctx, &RegisterRequest{Name: "Alice", Room: "101", Password: "secret1"})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if user.Username != "Alice-101" {
			t.Errorf("expected identity %q, got %q", "Alice-101", user.Username)
		}
		if user.Role != models.RoleStudent {
			t.Errorf("expected role %q, got %q", models.RoleStudent, user.Role)
		}

		stored, err := repo.user.GetByUsername(ctx, "Alice-101")
		if err != nil {
			t.Fatalf("stored user not found: %v", err)
		}
		if stored.Password == "secret1" {
			t.Error("password must not be stored in clear")
		}
	})

	t.Run("same name different room is a distinct identity", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newAuthServiceForTest(repo)

		if _, err := svc.Register(ctx, &RegisterRequest{Name: "Alice", Room: "101", Password: "secret1"}); err != nil {
			t.Fatalf("first Register failed: %v", err)
		}
		if _, err := svc.Register(ctx, &RegisterRequest{Name: "Alice", Room: "102", Password: "secret1"}); err != nil {
			t.Fatalf("second Register failed: %v", err)
		}
	})

	t.Run("duplicate identity is rejected", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newAuthServiceForTest(repo)

		if _, err := svc.Register(ctx, &RegisterRequest{Name: "Alice", Room: "101", Password: "secret1"}); err != nil {
			t.Fatalf("first Register failed: %v", err)
		}
		if _, err := svc.Register(ctx, &RegisterRequest{Name: "Alice", Room: "101", Password: "other99"}); !errors.Is(err, ErrDuplicateIdentity) {
			t.Errorf("expected ErrDuplicateIdentity, got %v", err)
		}
	})

	t.Run("invalid requests are rejected", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newAuthServiceForTest(repo)

		cases := []struct {
			name string
			req  RegisterRequest
		}{
			{"empty name", RegisterRequest{Name: "", Room: "101", Password: "secret1"}},
			{"name containing separator", RegisterRequest{Name: "Ali-ce", Room: "101", Password: "secret1"}},
			{"non-numeric room", RegisterRequest{Name: "Alice", Room: "10a", Password: "secret1"}},
			{"short password", RegisterRequest{Name: "Alice", Room: "101", Password: "abc"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := svc.Register(ctx, &tc.req); !errors.Is(err, ErrValidationFailed) {
					t.Errorf("expected ErrValidationFailed, got %v", err)
				}
			})
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*authService, *cache.SessionStore) {
		repo := newMockRepository()
		svc, sessions := newAuthServiceForTest(repo)
		if _, err := svc.Register(ctx, &RegisterRequest{Name: "Alice", Room: "101", Password: "secret1"}); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		return svc, sessions
	}

	t.Run("valid credentials issue a session", func(t *testing.T) {
		svc, sessions := setup(t)

		resp, err := svc.Login(ctx, &LoginRequest{Username: "Alice-101", Password: "secret1"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Token == "" {
			t.Fatal("expected a session token")
		}
		if resp.User.Username != "Alice-101" {
			t.Errorf("unexpected user in response: %q", resp.User.Username)
		}

		session, err := sessions.Get(ctx, resp.Token)
		if err != nil {
			t.Fatalf("token does not resolve: %v", err)
		}
		if session.Role != models.RoleStudent {
			t.Errorf("expected student session, got %q", session.Role)
		}
	})

	t.Run("wrong password and unknown identity fail identically", func(t *testing.T) {
		svc, _ := setup(t)

		_, wrongPass := svc.Login(ctx, &LoginRequest{Username: "Alice-101", Password: "nope999"})
		_, unknown := svc.Login(ctx, &LoginRequest{Username: "Bob-999", Password: "secret1"})

		if !errors.Is(wrongPass, ErrInvalidCredentials) {
			t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
		}
		if !errors.Is(unknown, ErrInvalidCredentials) {
			t.Errorf("unknown identity: expected ErrInvalidCredentials, got %v", unknown)
		}
		if wrongPass.Error() != unknown.Error() {
			t.Errorf("failure modes must be indistinguishable: %q vs %q", wrongPass, unknown)
		}
	})

	t.Run("logout destroys the session", func(t *testing.T) {
		svc, sessions := setup(t)

		resp, err := svc.Login(ctx, &LoginRequest{Username: "Alice-101", Password: "secret1"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if err := svc.Logout(ctx, resp.Token); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if _, err := sessions.Get(ctx, resp.Token); !errors.Is(err, cache.ErrSessionNotFound) {
			t.Errorf("expected session gone after logout, got %v", err)
		}
	})
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc, _ := newAuthServiceForTest(repo)

	if err := svc.EnsureAdmin(ctx, "shopkeeper", "keeper-pass"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	admin, err := repo.user.GetByUsername(ctx, "shopkeeper")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, admin.Role)
	}

	// Second run is a no-op
	if err := svc.EnsureAdmin(ctx, "shopkeeper", "different-pass"); err != nil {
		t.Fatalf("EnsureAdmin re-run failed: %v", err)
	}
	count, _ := repo.user.CountByRole(ctx, models.RoleAdmin)
	if count != 1 {
		t.Errorf("expected exactly 1 admin, got %d", count)
	}

	if _, err := svc.Login(ctx, &LoginRequest{Username: "shopkeeper", Password: "keeper-pass"}); err != nil {
		t.Errorf("admin login failed: %v", err)
	}
}
