// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken is returned when no API token is configured.
	ErrNoToken = errors.New("auth: no API token")

	// ErrTokenExpired is returned for a JWT whose exp claim has passed.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrNoMembership is returned when the user has no organization.
	ErrNoMembership = errors.New("auth: user has no organization membership")
)

// Claims are the JWT claims the session reads.
type Claims struct {
	Email          string `json:"email,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken decodes a JWT without verifying its signature and checks its
// expiry against now. A token that is not a JWT returns an error wrapping
// jwt.ErrTokenMalformed.
func ParseToken(token string, now time.Time) (*Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return claims, fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return claims, nil
}
