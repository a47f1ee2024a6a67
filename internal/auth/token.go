// Package auth handles 7TV token persistence and inspection.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation failures. Callers distinguish them to give the user
// a useful re-prompt message.
var (
	// ErrMalformed means the token is not a decodable JWT.
	ErrMalformed = errors.New("invalid token format")

	// ErrIncomplete means the payload lacks an expiry or subject.
	ErrIncomplete = errors.New("token payload is missing exp or sub")

	// ErrExpired means the token's expiry is in the past.
	ErrExpired = errors.New("token has expired")
)

// UserID extracts the 7TV user id from a token, validating that the
// payload decodes, carries both exp and sub, and has not expired.
// The signature is deliberately not verified: the token is the user's
// own credential and the API is the authority on its validity.
func UserID(token string, now time.Time) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", ErrIncomplete
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrIncomplete
	}

	if exp.Before(now) {
		return "", ErrExpired
	}

	return sub, nil
}

// Load reads a saved token from path. A missing file yields ("", nil);
// the caller falls back to prompting.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	// The file holds the token on its first line.
	token, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(token), nil
}

// Save writes the token to path, creating parent directories as needed.
// The file is restricted to the owner since it holds a credential.
func Save(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(token)+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
