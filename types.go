package authgate

import (
	"context"

	"github.com/MrEthical07/authgate/jwt"
)

// Account is the persisted identity record. Password always holds the
// Argon2id PHC digest, never the original secret, and is excluded from JSON
// serialization so it can never be echoed to a client.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Credentials is the transient username/password pair submitted on register
// and login requests. It is validated and then discarded, never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned by [Engine.Login]. Token is the signed bearer
// token; Account is the matched record (digest included, for callers that
// already hold store access — HTTP layers must rely on the JSON projection).
type LoginResult struct {
	Token   string
	Account *Account
}

// Claims is the decoded token payload returned by [Engine.Validate].
type Claims = jwt.Claims

// UserStore is the interface callers must implement to integrate authgate
// with their user database. Lookup misses are a normal outcome and return
// (nil, nil); only infrastructure faults return errors, wrapped so that
// errors.Is(err, ErrStoreUnavailable) holds.
//
// Insert must be atomic: either the row is durably created and its
// store-assigned id returned, or nothing is written. A username collision —
// including one that races a concurrent Insert — returns
// [ErrDuplicateUsername].
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	Find(ctx context.Context) ([]Account, error)
	Insert(ctx context.Context, username, passwordHash string) (int64, error)
}
