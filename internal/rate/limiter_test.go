package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, cfg), mr
}

func TestLoginThrottleDisabled(t *testing.T) {
	ctx := context.Background()
	l, _ := testLimiter(t, Config{})

	for i := 0; i < 100; i++ {
		if err := l.CheckLogin(ctx, "devon", "10.0.0.1"); err != nil {
			t.Fatalf("CheckLogin error: %v", err)
		}
		if err := l.IncrementLogin(ctx, "devon", "10.0.0.1"); err != nil {
			t.Fatalf("IncrementLogin error: %v", err)
		}
	}
}

func TestLoginThrottleBudget(t *testing.T) {
	ctx := context.Background()
	l, _ := testLimiter(t, Config{
		EnableLoginThrottle:   true,
		MaxLoginAttempts:      3,
		LoginCooldownDuration: time.Minute,
	})

	for i := 0; i < 3; i++ {
		if err := l.CheckLogin(ctx, "devon", ""); err != nil {
			t.Fatalf("CheckLogin attempt %d error: %v", i, err)
		}
		if err := l.IncrementLogin(ctx, "devon", ""); err != nil {
			t.Fatalf("IncrementLogin attempt %d error: %v", i, err)
		}
	}

	if err := l.CheckLogin(ctx, "devon", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("CheckLogin after budget = %v, want ErrRateLimited", err)
	}

	// Other usernames are unaffected.
	if err := l.CheckLogin(ctx, "alice", ""); err != nil {
		t.Fatalf("CheckLogin(alice) error: %v", err)
	}
}

func TestLoginThrottleResetOnSuccess(t *testing.T) {
	ctx := context.Background()
	l, _ := testLimiter(t, Config{
		EnableLoginThrottle:   true,
		MaxLoginAttempts:      2,
		LoginCooldownDuration: time.Minute,
	})

	for i := 0; i < 2; i++ {
		if err := l.IncrementLogin(ctx, "devon", ""); err != nil {
			t.Fatalf("IncrementLogin error: %v", err)
		}
	}
	if err := l.CheckLogin(ctx, "devon", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("CheckLogin = %v, want ErrRateLimited", err)
	}

	if err := l.ResetLogin(ctx, "devon", ""); err != nil {
		t.Fatalf("ResetLogin error: %v", err)
	}
	if err := l.CheckLogin(ctx, "devon", ""); err != nil {
		t.Fatalf("CheckLogin after reset error: %v", err)
	}
}

func TestLoginThrottleCooldownExpiry(t *testing.T) {
	ctx := context.Background()
	l, mr := testLimiter(t, Config{
		EnableLoginThrottle:   true,
		MaxLoginAttempts:      1,
		LoginCooldownDuration: time.Minute,
	})

	if err := l.IncrementLogin(ctx, "devon", ""); err != nil {
		t.Fatalf("IncrementLogin error: %v", err)
	}
	if err := l.CheckLogin(ctx, "devon", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("CheckLogin = %v, want ErrRateLimited", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := l.CheckLogin(ctx, "devon", ""); err != nil {
		t.Fatalf("CheckLogin after cooldown error: %v", err)
	}
}

func TestIPThrottle(t *testing.T) {
	ctx := context.Background()
	l, _ := testLimiter(t, Config{
		EnableLoginThrottle:   true,
		EnableIPThrottle:      true,
		MaxLoginAttempts:      2,
		LoginCooldownDuration: time.Minute,
	})

	// Burn the budget from one IP across different usernames.
	if err := l.IncrementLogin(ctx, "alice", "10.0.0.1"); err != nil {
		t.Fatalf("IncrementLogin error: %v", err)
	}
	if err := l.IncrementLogin(ctx, "bob", "10.0.0.1"); err != nil {
		t.Fatalf("IncrementLogin error: %v", err)
	}

	if err := l.CheckLogin(ctx, "carol", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("CheckLogin same IP = %v, want ErrRateLimited", err)
	}
	if err := l.CheckLogin(ctx, "carol", "10.0.0.2"); err != nil {
		t.Fatalf("CheckLogin other IP error: %v", err)
	}
}

func TestRegistrationThrottleConsumes(t *testing.T) {
	ctx := context.Background()
	l, _ := testLimiter(t, Config{
		EnableRegistrationThrottle: true,
		MaxRegistrationAttempts:    2,
		RegistrationCooldown:       time.Minute,
	})

	for i := 0; i < 2; i++ {
		if err := l.EnforceRegistration(ctx, "devon", ""); err != nil {
			t.Fatalf("EnforceRegistration attempt %d error: %v", i, err)
		}
	}

	if err := l.EnforceRegistration(ctx, "devon", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("EnforceRegistration = %v, want ErrRateLimited", err)
	}
}

func TestRedisDownSurfacesUnavailable(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := New(client, Config{
		EnableLoginThrottle:   true,
		MaxLoginAttempts:      3,
		LoginCooldownDuration: time.Minute,
	})

	mr.Close()

	if err := l.IncrementLogin(ctx, "devon", ""); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("IncrementLogin error = %v, want ErrRedisUnavailable", err)
	}
}
