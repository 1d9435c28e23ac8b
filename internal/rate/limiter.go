package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	EnableLoginThrottle        bool
	EnableRegistrationThrottle bool
	EnableIPThrottle           bool
	MaxLoginAttempts           int
	LoginCooldownDuration      time.Duration
	MaxRegistrationAttempts    int
	RegistrationCooldown       time.Duration
}

// Limiter enforces per-username and per-IP attempt budgets for login and
// registration using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckLogin checks whether the username+IP pair is within the login attempt
// budget. Returns an error if rate-limited. It does not consume budget;
// failed attempts are recorded separately via [Limiter.IncrementLogin].
func (l *Limiter) CheckLogin(ctx context.Context, username, ip string) error {
	if !l.config.EnableLoginThrottle {
		return nil
	}

	if err := l.checkCounter(ctx, loginUserKey(username), l.config.MaxLoginAttempts); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkCounter(ctx, loginIPKey(ip), l.config.MaxLoginAttempts); err != nil {
			return err
		}
	}

	return nil
}

// IncrementLogin records a failed login attempt for the username+IP pair.
func (l *Limiter) IncrementLogin(ctx context.Context, username, ip string) error {
	if !l.config.EnableLoginThrottle {
		return nil
	}

	count, err := l.incrementWithTTL(ctx, loginUserKey(username), l.config.LoginCooldownDuration)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}

	if l.config.EnableIPThrottle && ip != "" {
		count, err = l.incrementWithTTL(ctx, loginIPKey(ip), l.config.LoginCooldownDuration)
		if err != nil {
			return err
		}
		if count > int64(l.config.MaxLoginAttempts) {
			return ErrRateLimited
		}
	}

	return nil
}

// ResetLogin clears the failed-login counter for the username+IP pair.
// Called after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, username, ip string) error {
	if !l.config.EnableLoginThrottle {
		return nil
	}

	keys := []string{loginUserKey(username)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, loginIPKey(ip))
	}

	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// EnforceRegistration consumes one unit of the registration budget for the
// username+IP pair, applying the cooldown TTL on first use.
func (l *Limiter) EnforceRegistration(ctx context.Context, username, ip string) error {
	if !l.config.EnableRegistrationThrottle {
		return nil
	}

	if err := l.enforceKey(ctx, registrationUserKey(username), l.config.MaxRegistrationAttempts, l.config.RegistrationCooldown); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.enforceKey(ctx, registrationIPKey(ip), l.config.MaxRegistrationAttempts, l.config.RegistrationCooldown); err != nil {
			return err
		}
	}

	return nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string, max int) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count >= int64(max) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func (l *Limiter) enforceKey(ctx context.Context, key string, max int, ttl time.Duration) error {
	count, err := l.incrementWithTTL(ctx, key, ttl)
	if err != nil {
		return err
	}
	if count > int64(max) {
		return ErrRateLimited
	}
	return nil
}

func loginUserKey(username string) string {
	return "lr:u:" + username
}

func loginIPKey(ip string) string {
	return "lr:ip:" + ip
}

func registrationUserKey(username string) string {
	return "reg:u:" + username
}

func registrationIPKey(ip string) string {
	return "reg:ip:" + ip
}
