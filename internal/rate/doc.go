// Package rate implements Redis-counter throttles for login and registration
// attempts. Counters are keyed per username and, optionally, per client IP,
// with a cooldown TTL applied on first increment.
//
// This layer takes no availability stance: Redis faults surface as
// ErrRedisUnavailable and the engine decides policy. Attempt counters never
// reveal whether an account exists.
package rate
