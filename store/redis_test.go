package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authgate "github.com/MrEthical07/authgate"
)

func testRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "")
}

func TestRedisInsertAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(t)

	first, err := s.Insert(ctx, "alice", "digest-a")
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	second, err := s.Insert(ctx, "bob", "digest-b")
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	if first != 1 || second != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", first, second)
	}
}

func TestRedisInsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(t)

	id, err := s.Insert(ctx, "devon", "digest-1")
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	byName, err := s.FindByUsername(ctx, "devon")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if byName == nil || byName.ID != id || byName.Username != "devon" || byName.Password != "digest-1" {
		t.Fatalf("unexpected account: %+v", byName)
	}

	byID, err := s.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if byID == nil || byID.Username != "devon" {
		t.Fatalf("unexpected account: %+v", byID)
	}
}

func TestRedisAbsentIsNilNil(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(t)

	account, err := s.FindByUsername(ctx, "ghost")
	if err != nil || account != nil {
		t.Fatalf("FindByUsername = (%v, %v), want (nil, nil)", account, err)
	}

	account, err = s.FindByID(ctx, 99)
	if err != nil || account != nil {
		t.Fatalf("FindByID = (%v, %v), want (nil, nil)", account, err)
	}
}

func TestRedisDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(t)

	if _, err := s.Insert(ctx, "devon", "digest-1"); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	if _, err := s.Insert(ctx, "devon", "digest-2"); !errors.Is(err, authgate.ErrDuplicateUsername) {
		t.Fatalf("Insert duplicate error = %v, want ErrDuplicateUsername", err)
	}

	account, err := s.FindByUsername(ctx, "devon")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if account.Password != "digest-1" {
		t.Fatalf("digest = %q, want digest-1", account.Password)
	}
}

func TestRedisFindOrderedByID(t *testing.T) {
	ctx := context.Background()
	s := testRedisStore(t)

	names := []string{"carol", "alice", "bob"}
	for _, name := range names {
		if _, err := s.Insert(ctx, name, "digest"); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}

	accounts, err := s.Find(ctx)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if len(accounts) != len(names) {
		t.Fatalf("len = %d, want %d", len(accounts), len(names))
	}
	for i, account := range accounts {
		if account.ID != int64(i+1) {
			t.Fatalf("accounts[%d].ID = %d, want %d", i, account.ID, i+1)
		}
		if account.Username != names[i] {
			t.Fatalf("accounts[%d].Username = %q, want %q", i, account.Username, names[i])
		}
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client, "")

	mr.Close()

	if _, err := s.FindByUsername(ctx, "devon"); !errors.Is(err, authgate.ErrStoreUnavailable) {
		t.Fatalf("FindByUsername error = %v, want ErrStoreUnavailable", err)
	}
	if _, err := s.Insert(ctx, "devon", "digest"); !errors.Is(err, authgate.ErrStoreUnavailable) {
		t.Fatalf("Insert error = %v, want ErrStoreUnavailable", err)
	}
}
