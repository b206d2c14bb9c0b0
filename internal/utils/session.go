package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var sessionSecret []byte

// SetSessionSecret configures the HMAC key used to sign session tokens.
// Call once at startup, before any token is issued or parsed.
func SetSessionSecret(secret string) {
	sessionSecret = []byte(secret)
}

// SessionClaims is the server-opaque state carried by the session cookie.
// MemberID is nil for guest sessions. SessionCreatedAt anchors the
// application-level absolute timeout and resets whenever the privilege
// level changes (login, registration).
type SessionClaims struct {
	MemberID         *uint `json:"member_id,omitempty"`
	CodeVerified     bool  `json:"code_verified,omitempty"`
	SessionCreatedAt int64 `json:"session_created_at"`
	jwt.RegisteredClaims
}

// CreatedTime returns the session creation instant.
func (c *SessionClaims) CreatedTime() time.Time {
	return time.Unix(c.SessionCreatedAt, 0)
}

// NewGuestSession returns fresh claims for a visitor who just verified the
// access code.
func NewGuestSession() *SessionClaims {
	return &SessionClaims{
		CodeVerified:     true,
		SessionCreatedAt: time.Now().Unix(),
	}
}

// NewMemberSession returns fresh claims for a just-authenticated member.
// Everything from the prior session is discarded except an already-true
// code_verified flag, so a pre-auth session cannot be fixated across the
// privilege change.
func NewMemberSession(memberID uint, codeVerified bool) *SessionClaims {
	return &SessionClaims{
		MemberID:         &memberID,
		CodeVerified:     codeVerified,
		SessionCreatedAt: time.Now().Unix(),
	}
}

// GenerateSessionToken signs claims with an HMAC-SHA256 signature and the
// transport-level expiry. The application-level absolute timeout is the
// caller's concern.
func GenerateSessionToken(claims *SessionClaims, maxAge time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

// ParseSessionToken verifies the signature and transport expiry and
// returns the embedded claims.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sessionSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
