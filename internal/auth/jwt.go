// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the minimum JWT secret size accepted. HMAC-SHA256
// needs at least 32 bytes of key material to be worth anything.
const minSecretLength = 32

// ErrInvalidToken is returned for tokens that parse but fail validation,
// and wraps nothing so callers match it with errors.Is.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by Hemat bearer tokens. Older tokens
// carried the uid under "userId"; both spellings are accepted.
type Claims struct {
	UID          string `json:"uid,omitempty"`
	LegacyUserID string `json:"userId,omitempty"`
	Email        string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the caller uid, preferring the current claim name over
// the legacy one.
func (c *Claims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.LegacyUserID
}

// Manager handles JWT token creation and validation. Uses HS256 signing.
type Manager struct {
	secret  []byte
	timeout time.Duration
}

// NewManager creates a token manager. The secret must be at least 32
// characters; timeout is the token lifetime (default 24h when zero).
func NewManager(secret string, timeout time.Duration) (*Manager, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters", minSecretLength)
	}
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), timeout: timeout}, nil
}

// GenerateToken creates a signed token for the given caller.
func (m *Manager) GenerateToken(uid, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, algorithm, and time claims, and
// returns the caller claims. Tokens with a missing uid are rejected.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID() == "" {
		return nil, fmt.Errorf("%w: missing uid claim", ErrInvalidToken)
	}
	return claims, nil
}
