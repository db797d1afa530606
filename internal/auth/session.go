// Package auth issues and verifies the session tokens carried in the
// "session" cookie.
//
// A token is an HS256 JWT holding the username, the issue time and an
// informational "expires" field. Only the signer's max-age check against the
// issue time decides whether a token is still valid. Tokens are not revocable:
// logging out deletes the cookie, but a copy replayed before it ages out is
// still accepted.
package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

type Claims struct {
	Username string `json:"username"`
	Expires  string `json:"expires"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	issuer string
	maxAge time.Duration
	now    func() time.Time
}

func NewSigner(secret, issuer string, maxAge time.Duration) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer, maxAge: maxAge, now: time.Now}
}

// WithClock returns a copy of the signer that reads time from now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	c := *s
	c.now = now
	return &c
}

func (s *Signer) MaxAge() time.Duration {
	return s.maxAge
}

// Issue signs a token for username.
func (s *Signer) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.New("username is empty")
	}
	now := s.now()
	claims := Claims{
		Username: username,
		Expires:  now.Add(s.maxAge).UTC().Format(time.RFC3339),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify returns the username embedded in a valid token. Any failure yields
// ErrInvalidToken or ErrTokenExpired.
func (s *Signer) Verify(tokenStr string) (string, error) {
	if tokenStr == "" || len(s.secret) == 0 {
		return "", ErrInvalidToken
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Username == "" || claims.IssuedAt == nil {
		return "", ErrInvalidToken
	}

	// expires is informational; age since issue governs.
	if s.now().Sub(claims.IssuedAt.Time) > s.maxAge {
		return "", ErrTokenExpired
	}
	return claims.Username, nil
}
