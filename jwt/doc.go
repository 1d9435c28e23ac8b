// Package jwt wraps github.com/golang-jwt/jwt/v5 behind a narrow [Manager]
// that issues and verifies the engine’s bearer tokens.
//
// # Token shape
//
// Tokens are standard JWTs with subject (account id), username, jti, iat,
// exp, and an optional issuer. HS256 is the default signing method; Ed25519
// is supported for split sign/verify deployments.
//
// # Architecture boundaries
//
// This package owns signing-key handling and claim encoding only. It knows
// nothing about accounts, stores, or HTTP. Error uniformity — collapsing all
// verification failures into a single invalid-token outcome — is enforced by
// the engine, not here, so Parse errors stay diagnosable in tests.
package jwt
