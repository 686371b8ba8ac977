// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestNewManagerRejectsShortSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewManager("too-short", time.Hour); err == nil {
		t.Fatal("NewManager() error = nil, want error for short secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	token, err := m.GenerateToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID() != "u1" {
		t.Errorf("uid = %q, want u1", claims.UserID())
	}
	if claims.Email != "u1@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	other, err := NewManager(strings.Repeat("x", 32), time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	token, err := other.GenerateToken("u1", "")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("ValidateToken() error = nil, want signature error")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		UID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newTestManager(t).ValidateToken(token); err == nil {
		t.Fatal("ValidateToken() error = nil, want expiry error")
	}
}

func TestValidateTokenRejectsMissingUID(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newTestManager(t).ValidateToken(token); err == nil {
		t.Fatal("ValidateToken() error = nil, want missing-uid error")
	}
}

// Tokens minted by the previous deployment carried the uid under
// "userId". They must still validate.
func TestValidateTokenLegacyUserIDClaim(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		LegacyUserID: "legacy-uid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := newTestManager(t).ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if got.UserID() != "legacy-uid" {
		t.Errorf("uid = %q, want legacy-uid", got.UserID())
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	token, err := m.GenerateToken("u1", "")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.ValidateToken(tampered); err == nil {
		t.Fatal("ValidateToken() error = nil, want signature error")
	}
}
