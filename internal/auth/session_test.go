// ABOUTME: Unit tests for session token issue and verification
// ABOUTME: Tests valid sessions, tampered tokens, and expired sessions

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-key-for-session-signing")

func TestSessionManager_IssueAndVerify(t *testing.T) {
	sessions := NewSessionManager(testSecret, time.Hour)

	token, err := sessions.Issue("ram")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	sess, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if sess.Username != "ram" {
		t.Errorf("Username = %q, want %q", sess.Username, "ram")
	}
	if got := sess.ExpiresAt.Sub(sess.IssuedAt); got != time.Hour {
		t.Errorf("session lifetime = %v, want %v", got, time.Hour)
	}
}

func TestSessionManager_IssueEmptyUsername(t *testing.T) {
	sessions := NewSessionManager(testSecret, time.Hour)

	_, err := sessions.Issue("")
	if !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Issue(\"\") error = %v, want ErrInvalidSession", err)
	}
}

func TestSessionManager_InvalidToken(t *testing.T) {
	sessions := NewSessionManager(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				other := NewSessionManager([]byte("a-completely-different-secret-value"), time.Hour)
				token, _ := other.Issue("ram")
				return token
			}(),
		},
		{
			name: "wrong issuer",
			token: func() string {
				claims := jwt.RegisteredClaims{
					Issuer:    "someone-else",
					Subject:   "ram",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				}
				token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
				return token
			}(),
		},
		{
			name: "missing expiry",
			token: func() string {
				claims := jwt.RegisteredClaims{Issuer: issuer, Subject: "ram"}
				token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sessions.Verify(tt.token)
			if !errors.Is(err, ErrInvalidSession) {
				t.Errorf("Verify() error = %v, want ErrInvalidSession", err)
			}
		})
	}
}

func TestSessionManager_ExpiredSession(t *testing.T) {
	sessions := NewSessionManager(testSecret, time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	sessions.now = func() time.Time { return issuedAt }

	token, err := sessions.Issue("ram")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	sessions.now = time.Now
	_, err = sessions.Verify(token)
	if !errors.Is(err, ErrExpiredSession) {
		t.Errorf("Verify() error = %v, want ErrExpiredSession", err)
	}
}
