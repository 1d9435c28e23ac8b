// Package store provides implementations of the authgate.UserStore contract:
// an in-memory store for tests and demos, a Redis-backed store with atomic
// id assignment, and a PostgreSQL store on pgx.
//
// All three share the same semantics: lookup misses return (nil, nil),
// inserts are atomic and map username collisions — including racing ones —
// to authgate.ErrDuplicateUsername, and infrastructure faults wrap
// authgate.ErrStoreUnavailable.
package store
