// Package authgate provides a credential-authentication boundary for HTTP
// services: account registration with Argon2id password hashing, login with
// JWT bearer token issuance, and stateless token verification for protected
// routes.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// the [UserStore] contract, and value types (Account, LoginResult,
// MetricsSnapshot). Rate limiting coordination lives under internal/ and is
// never exported. Store implementations live under store/ and the HTTP
// adapters under middleware/ and httpapi/.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store internals, or hash encoding details in its
//     public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Distinguish unknown-user from wrong-password in any observable outcome.
//
// # Performance contract
//
// Validate is the hot path. It is purely CPU-bound (signature + expiry check)
// and must not touch the user store. Login and Register are allowed store
// round-trips plus one Argon2id computation per call.
package authgate
