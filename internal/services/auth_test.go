package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/repos/testutil"
	"github.com/skrblv/bilimGO/internal/requestdata"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)
	return NewAuthService(db, log, userRepo, tokenRepo)
}

func TestRegisterAndLogin(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	user, pair, err := service.Register(ctx, "alice", "Alice@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email must be lowercased, got %q", user.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("register must issue a token pair")
	}

	if _, _, err := service.Login(ctx, "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := service.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong password must be unauthorized, got %v", err)
	}
	if _, _, err := service.Login(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown email must be unauthorized, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "alice", "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := service.Register(ctx, "alice2", "alice@example.com", "supersecret"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email must conflict, got %v", err)
	}
	if _, _, err := service.Register(ctx, "alice", "other@example.com", "supersecret"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate username must conflict, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	service := newAuthService(t)
	if _, _, err := service.Register(context.Background(), "bob", "bob@example.com", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password must be invalid, got %v", err)
	}
}

func TestSetContextFromToken(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	user, pair, err := service.Register(ctx, "alice", "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	authed, err := service.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("expected the caller's identity on the context, got %+v", rd)
	}

	if _, err := service.SetContextFromToken(ctx, "not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage tokens must be unauthorized, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	_, pair, err := service.Register(ctx, "alice", "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rotated, err := service.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh must rotate the refresh token")
	}
	// the consumed refresh token is dead
	if _, err := service.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("reused refresh token must be unauthorized, got %v", err)
	}
	// and the old access token is revoked with it
	if _, err := service.SetContextFromToken(ctx, pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old access token must be revoked after refresh, got %v", err)
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	user, pair, err := service.Register(ctx, "alice", "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := service.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := service.SetContextFromToken(ctx, pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("access token must be revoked after logout, got %v", err)
	}
}
