// Package middleware exposes the HTTP middleware adapter that gates
// protected routes on authgate.Engine token verification.
//
// # Guard
//
//   - [Guard] — reads the Authorization header, calls Engine.Validate, and
//     injects validated claims into the request context.
//
// The two rejection messages ("token required" for a missing header, "token
// invalid" for everything else) are an external contract consumed by
// clients; both carry status 401.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Validate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Touch the user store (token verification is stateless).
//   - Make authorization decisions beyond pass/reject from Engine.Validate.
package middleware
