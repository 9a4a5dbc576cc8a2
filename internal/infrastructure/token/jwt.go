// Package token issues and verifies HS256 bearer tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
)

const issuer = "clinic-api"

// Claims is the JWT payload.
type Claims struct {
	UserID        string `json:"userId"`
	Role          string `json:"role"`
	SecurityStamp int64  `json:"stamp"`
	jwt.RegisteredClaims
}

// JWTIssuer signs tokens with a process-wide secret.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), now: time.Now}
}

// Issue mints a token for user that expires ttl from now.
func (i *JWTIssuer) Issue(user *domain.User, ttl time.Duration) (string, *ports.TokenClaims, error) {
	now := i.now().UTC().Truncate(time.Second)
	claims := Claims{
		UserID:        user.ID,
		Role:          string(user.Role),
		SecurityStamp: user.SecurityStamp,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, toPortClaims(&claims), nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (i *JWTIssuer) Verify(tokenString string) (*ports.TokenClaims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, &domain.TokenError{Reason: classify(err), Err: err}
	}
	if !tkn.Valid || claims.UserID == "" || !domain.Role(claims.Role).Valid() {
		return nil, &domain.TokenError{Reason: domain.TokenMalformed}
	}
	return toPortClaims(claims), nil
}

func classify(err error) domain.TokenFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.TokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.TokenSignatureInvalid
	default:
		return domain.TokenMalformed
	}
}

func toPortClaims(c *Claims) *ports.TokenClaims {
	out := &ports.TokenClaims{
		TokenID:       c.ID,
		UserID:        c.UserID,
		Role:          domain.Role(c.Role),
		SecurityStamp: c.SecurityStamp,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
