package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	authgate "github.com/MrEthical07/authgate"
)

const serverErrorMessage = "server error"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps engine errors onto the external status/message contract.
// Infrastructure faults deliberately collapse into a generic 500 so that no
// security-shaped wording or internal detail leaks.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authgate.ErrInvalidInput):
		writeMessage(w, http.StatusUnauthorized, authgate.ErrInvalidInput.Error())
	case errors.Is(err, authgate.ErrUsernameTaken):
		writeMessage(w, http.StatusUnauthorized, authgate.ErrUsernameTaken.Error())
	case errors.Is(err, authgate.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, authgate.ErrInvalidCredentials.Error())
	case errors.Is(err, authgate.ErrLoginRateLimited), errors.Is(err, authgate.ErrRegistrationRateLimited):
		writeMessage(w, http.StatusTooManyRequests, "too many requests")
	default:
		writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
	}
}
