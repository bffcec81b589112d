// ABOUTME: Operator credential check against the configured username
// ABOUTME: Compares in constant time so timing does not leak the name

package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned when a login does not match the operator.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CheckUsername reports whether submitted matches the configured operator name.
// Surrounding whitespace in the submitted value is ignored.
func CheckUsername(configured, submitted string) error {
	submitted = strings.TrimSpace(submitted)
	if configured == "" || submitted == "" {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
