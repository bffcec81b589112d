// ABOUTME: Stateless session tokens for the operator login cookie
// ABOUTME: Uses HS256 signed JWTs with a configurable secret and lifetime

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie set after login.
const CookieName = "my_auth_cookie"

const issuer = "admin-portal"

// Session errors
var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
)

// Session is a verified operator session.
type Session struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionManager issues and verifies session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a session manager signing with secret.
// Issued sessions are valid for ttl.
func NewSessionManager(secret []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued sessions.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a signed session token for username.
func (m *SessionManager) Issue(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("%w: empty username", ErrInvalidSession)
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session: %w", err)
	}
	return signed, nil
}

// Verify validates tokenString and returns the session it carries.
func (m *SessionManager) Verify(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	sess := &Session{Username: claims.Subject}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}
