package authgate

import "strings"

// validateCredentials applies the configured input rule before any store or
// crypto work. It is the cheapest pipeline stage and must short-circuit:
// hashing and lookups never run for input that cannot possibly authenticate.
func validateCredentials(cfg ValidationConfig, username, password string) error {
	if !fieldValid(cfg, username) {
		return ErrInvalidInput
	}
	if !fieldValid(cfg, password) {
		return ErrInvalidInput
	}
	return nil
}

func fieldValid(cfg ValidationConfig, value string) bool {
	if value == "" {
		return false
	}
	if cfg.RequireNonBlank && strings.TrimSpace(value) == "" {
		return false
	}
	if len(value) > cfg.MaxFieldLength {
		return false
	}
	return true
}
