package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/repos/testutil"
	"github.com/skrblv/bilimGO/internal/types"
)

type friendshipFixture struct {
	db      *gorm.DB
	service FriendshipService
	alice   *types.User
	bob     *types.User
}

func newFriendshipFixture(t *testing.T) *friendshipFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	alice := testutil.SeedUser(t, ctx, db, "alice")
	bob := testutil.SeedUser(t, ctx, db, "bob")

	friendshipRepo := repos.NewFriendshipRepo(db, log)
	userRepo := repos.NewUserRepo(db, log)
	service := NewFriendshipService(db, log, friendshipRepo, userRepo)
	return &friendshipFixture{db: db, service: service, alice: alice, bob: bob}
}

func TestFriendshipRequestFlow(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()

	request, err := f.service.SendRequest(ctx, f.alice.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	requests, err := f.service.Requests(ctx, f.bob.ID)
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(requests.Incoming) != 1 || len(requests.Outgoing) != 0 {
		t.Fatalf("bob expected one incoming request, got %d in %d out", len(requests.Incoming), len(requests.Outgoing))
	}

	if err := f.service.Accept(ctx, f.bob.ID, request.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	friends, err := f.service.ListFriends(ctx, f.alice.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != f.bob.ID {
		t.Fatalf("alice expected bob as a friend, got %+v", friends)
	}
}

func TestFriendshipGuards(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()

	if _, err := f.service.SendRequest(ctx, f.alice.ID, f.alice.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self-request must be rejected, got %v", err)
	}

	request, err := f.service.SendRequest(ctx, f.alice.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := f.service.SendRequest(ctx, f.alice.ID, f.bob.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate request must conflict, got %v", err)
	}
	// a pending pair is unique in either direction
	if _, err := f.service.SendRequest(ctx, f.bob.ID, f.alice.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("reverse request while pending must conflict, got %v", err)
	}

	// only the recipient may accept
	if err := f.service.Accept(ctx, f.alice.ID, request.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("sender accepting own request must be forbidden, got %v", err)
	}
}

func TestFriendshipDeclineAllowsRetry(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()

	request, err := f.service.SendRequest(ctx, f.alice.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if err := f.service.Decline(ctx, f.bob.ID, request.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := f.service.SendRequest(ctx, f.alice.ID, f.bob.ID); err != nil {
		t.Fatalf("a declined request must not block a new one: %v", err)
	}
}

func TestFriendshipRemove(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()

	request, err := f.service.SendRequest(ctx, f.alice.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if err := f.service.Accept(ctx, f.bob.ID, request.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := f.service.Remove(ctx, f.alice.ID, f.bob.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	friends, err := f.service.ListFriends(ctx, f.bob.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 0 {
		t.Fatalf("expected no friends after removal, got %+v", friends)
	}
}
