// Package auth issues and verifies the HS256 JWTs used for sessions.
// Access and refresh tokens share the claim layout but are signed with
// different secrets, so one can never pass for the other.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify the user a token was issued to. UserID travels as the
// standard "sub" claim.
type Claims struct {
	UserID   string `json:"-"`
	Username string `json:"username"`
}

// RefreshClaims are verified refresh claims together with the raw token
// they came from, needed to check it against the stored hash.
type RefreshClaims struct {
	Claims
	RefreshToken string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Issue signs claims with secret. The token expires after ttl and carries
// a random jti, so two tokens issued in the same second still differ.
func Issue(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: claims.Username,
	})

	return token.SignedString(secret)
}

// Verify checks the signature, algorithm and expiry of token. Every failure
// matches common.ErrInvalidToken; an expired token also matches
// common.ErrTokenExpired.
func Verify(token string, secret []byte) (*Claims, error) {
	tc := &tokenClaims{}

	_, err := jwt.ParseWithClaims(token, tc, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if tc.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	return &Claims{UserID: tc.Subject, Username: tc.Username}, nil
}
