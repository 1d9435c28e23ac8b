package authgate

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/authgate/internal/rate"
	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/password"
)

// Engine defines a public type used by authgate APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	userStore    UserStore
	rateLimiter  *rate.Limiter
	audit        *auditDispatcher
	metrics      *Metrics
	passwordHash *password.Argon2
	jwtManager   *jwt.Manager
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// An unknown username and a wrong password both return
// [ErrInvalidCredentials]; the two cases are indistinguishable to the caller
// so that login cannot be used to probe for account existence. Failed logins
// never mutate stored account state.
func (e *Engine) Login(ctx context.Context, username, plaintext string) (*LoginResult, error) {
	if e == nil || e.passwordHash == nil || e.jwtManager == nil || e.userStore == nil {
		return nil, ErrEngineNotReady
	}

	if err := validateCredentials(e.config.Validation, username, plaintext); err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, username, err, nil)
		return nil, err
	}

	ip := clientIPFromContext(ctx)
	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckLogin(ctx, username, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, auditEventLoginRateLimited, false, 0, username, ErrLoginRateLimited, nil)
				return nil, ErrLoginRateLimited
			}
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
	}

	account, err := e.userStore.FindByUsername(ctx, username)
	if err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, username, err, func() map[string]string {
			return map[string]string{"reason": "store_lookup_failed"}
		})
		return nil, err
	}

	if account == nil || !e.passwordHash.Verify(plaintext, account.Password) {
		if e.rateLimiter != nil {
			if err := e.rateLimiter.IncrementLogin(ctx, username, ip); errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, auditEventLoginRateLimited, false, 0, username, ErrLoginRateLimited, nil)
				return nil, ErrLoginRateLimited
			}
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, username, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	token, err := e.jwtManager.Issue(account.ID, account.Username)
	if err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, username, err, func() map[string]string {
			return map[string]string{"reason": "token_issue_failed"}
		})
		return nil, err
	}

	if e.rateLimiter != nil {
		_ = e.rateLimiter.ResetLogin(ctx, username, ip)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditEventLoginSuccess, true, account.ID, account.Username, nil, nil)

	return &LoginResult{Token: token, Account: account}, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// An empty token returns [ErrTokenRequired]. Every other failure — malformed
// token, signature mismatch, expiry — returns the uniform [ErrTokenInvalid]
// so that verification cannot be used as an oracle for which check failed.
func (e *Engine) Validate(ctx context.Context, token string) (*Claims, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	if token == "" {
		return nil, ErrTokenRequired
	}

	start := time.Now()
	claims, err := e.jwtManager.Parse(token)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		e.emitAudit(ctx, auditEventTokenRejected, false, 0, "", ErrTokenInvalid, nil)
		return nil, ErrTokenInvalid
	}

	if e.metrics != nil {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}

	return claims, nil
}
