package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	authgate "github.com/MrEthical07/authgate"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds authgate.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusUnauthorized, authgate.ErrInvalidInput.Error())
		return
	}

	account, err := s.engine.Register(requestContext(r), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// Account serializes to {id, username}; the digest is json:"-".
	writeJSON(w, http.StatusCreated, account)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds authgate.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusUnauthorized, authgate.ErrInvalidInput.Error())
		return
	}

	result, err := s.engine.Login(requestContext(r), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("welcome, %s", result.Account.Username),
		"token":   result.Token,
	})
}

func (s *Server) handleJokes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jokes)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.users.Find(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}
