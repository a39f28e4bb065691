// Package auth verifies the bearer tokens the auth service issues. Tokens
// are HS256-signed and carry the user id in the standard sub claim.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs a token for userID. The server never issues tokens
// itself; tests and local tooling use this to mint them.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})
	return token.SignedString(secretKey)
}

// GetUserIDFromToken verifies tokenString and returns its subject.
// An optional "Bearer " prefix is stripped. An empty secret rejects every
// token.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	if len(secretKey) == 0 {
		return "", common.ErrInvalidToken
	}
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, common.BearerPrefix))
	if tokenString == "" {
		return "", common.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
