// Package httpapi implements the HTTP surface of the authentication
// boundary.
//
// # Endpoints
//
//	POST /api/auth/register — {username, password} → 201 {id, username}
//	POST /api/auth/login    — {username, password} → 200 {message, token}
//	GET  /api/jokes         — token-guarded demo resource
//	GET  /api/users         — open listing of {id, username} projections
//
// Failure bodies are {"message": ...} with the exact wording clients depend
// on: "username and password required", "username taken", "invalid
// credentials", "token required", "token invalid". Store faults surface as a
// generic 500 "server error" with no internal detail.
package httpapi
