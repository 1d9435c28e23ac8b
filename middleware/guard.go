package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authgate "github.com/MrEthical07/authgate"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the token claims attached by [Guard], if any.
func ClaimsFromContext(ctx context.Context) (*authgate.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*authgate.Claims)
	return claims, ok
}

// Guard returns middleware that enforces bearer token authentication.
//
// A missing Authorization header is rejected with 401 and the exact message
// "token required"; a present but unverifiable token with 401 and "token
// invalid". The two messages are part of the external contract and must not
// drift. On success the decoded claims are attached to the request context
// for the downstream handler.
func Guard(engine *authgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeMessage(w, http.StatusUnauthorized, authgate.ErrTokenInvalid.Error())
				return
			}

			token, ok := headerToken(r.Header.Get("Authorization"))
			if !ok {
				writeMessage(w, http.StatusUnauthorized, authgate.ErrTokenRequired.Error())
				return
			}

			claims, err := engine.Validate(r.Context(), token)
			if err != nil {
				if errors.Is(err, authgate.ErrTokenRequired) {
					writeMessage(w, http.StatusUnauthorized, authgate.ErrTokenRequired.Error())
					return
				}
				writeMessage(w, http.StatusUnauthorized, authgate.ErrTokenInvalid.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// headerToken extracts the raw token from the Authorization header. The
// header carries the token directly; a conventional "Bearer " prefix is
// tolerated and stripped.
func headerToken(value string) (string, bool) {
	token := strings.TrimSpace(value)
	if token == "" {
		return "", false
	}

	const bearer = "Bearer "
	if strings.HasPrefix(token, bearer) {
		token = strings.TrimSpace(token[len(bearer):])
	}
	if token == "" {
		return "", false
	}

	return token, true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
