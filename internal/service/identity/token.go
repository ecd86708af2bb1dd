// Package identity implements accounts, session tokens and API keys.
package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"icare/internal/domain"
)

// TokenIssuer signs HS256 session tokens. Tokens carry the user id as sub
// and are checked by the HS256 validator in the middleware package.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for u and its expiry.
func (i *TokenIssuer) Issue(u *domain.User) (string, time.Time, error) {
	iat := i.now().UTC()
	exp := iat.Add(i.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID,
		"iss":  i.issuer,
		"name": u.Name,
		"iat":  iat.Unix(),
		"exp":  exp.Unix(),
	})
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}
