package authgate

import (
	"context"
	"errors"

	"github.com/MrEthical07/authgate/internal/rate"
)

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The pipeline is validate → uniqueness pre-check → hash → atomic insert →
// re-fetch. The pre-check avoids spending an Argon2id computation on a name
// that is already taken; the insert remains the authority, so two racing
// registrations of the same username still yield exactly one success.
func (e *Engine) Register(ctx context.Context, username, plaintext string) (*Account, error) {
	if e == nil || e.passwordHash == nil || e.userStore == nil {
		return nil, ErrEngineNotReady
	}

	if err := validateCredentials(e.config.Validation, username, plaintext); err != nil {
		e.metricInc(MetricRegisterInvalid)
		e.emitAudit(ctx, auditEventRegisterFailure, false, 0, username, err, func() map[string]string {
			return map[string]string{"reason": "invalid_input"}
		})
		return nil, err
	}

	ip := clientIPFromContext(ctx)
	if e.rateLimiter != nil {
		if err := e.rateLimiter.EnforceRegistration(ctx, username, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricRegisterRateLimited)
				e.emitAudit(ctx, auditEventRegisterRateLimited, false, 0, username, ErrRegistrationRateLimited, nil)
				return nil, ErrRegistrationRateLimited
			}
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
	}

	existing, err := e.userStore.FindByUsername(ctx, username)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, 0, username, err, func() map[string]string {
			return map[string]string{"reason": "store_lookup_failed"}
		})
		return nil, err
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegisterDuplicate, false, 0, username, ErrUsernameTaken, nil)
		return nil, ErrUsernameTaken
	}

	digest, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, 0, username, err, func() map[string]string {
			return map[string]string{"reason": "hash_failed"}
		})
		return nil, err
	}

	id, err := e.userStore.Insert(ctx, username, digest)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, 0, username, ErrUsernameTaken, nil)
			return nil, ErrUsernameTaken
		}
		e.emitAudit(ctx, auditEventRegisterFailure, false, 0, username, err, func() map[string]string {
			return map[string]string{"reason": "store_insert_failed"}
		})
		return nil, err
	}

	created, err := e.userStore.FindByID(ctx, id)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, id, username, err, func() map[string]string {
			return map[string]string{"reason": "store_refetch_failed"}
		})
		return nil, err
	}
	if created == nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, id, username, ErrStoreUnavailable, func() map[string]string {
			return map[string]string{"reason": "missing_created_record"}
		})
		return nil, ErrStoreUnavailable
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, created.ID, created.Username, nil, nil)

	return created, nil
}
