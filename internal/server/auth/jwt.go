// Package auth issues and verifies bearer tokens and hashes account
// passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried inside a bearer token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims grant the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == common.RoleAdmin
}

// Codec signs and verifies HS256 tokens with a server-held secret.
// It is safe for concurrent use.
type Codec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewCodec fails with common.ErrMissingSigningSecret when secret is empty.
func NewCodec(secret []byte, validity time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, common.ErrMissingSigningSecret
	}
	if validity <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %v", validity)
	}
	return &Codec{secret: secret, validity: validity, now: time.Now}, nil
}

// Issue returns a signed token for the identity in claims. Registered
// claims supplied by the caller are replaced; expiry is now + validity.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := c.now()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded
// claims. Every failure is reported as common.ErrInvalidToken; the
// expired case additionally matches jwt.ErrTokenExpired.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, jwt.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
