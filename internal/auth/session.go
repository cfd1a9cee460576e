// Package auth turns identity-provider tokens into an explicit Session value.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Session is the authenticated caller of one request.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Complete reports whether both required claims are present.
func (s Session) Complete() bool {
	return s.UserID != "" && s.Email != ""
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses an HS256 token issued by the identity provider.
func (v *Verifier) Verify(token string) (Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	return Session{UserID: claims.Subject, Email: claims.Email}, nil
}

// Issue signs a token for s. Used by tests and local tooling.
func (v *Verifier) Issue(s Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
