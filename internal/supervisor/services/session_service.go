// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// SessionRunner is satisfied by *auth.Session.
type SessionRunner interface {
	// Run resolves the organization and re-resolves it on an interval
	// until ctx is canceled or a fatal error occurs.
	Run(ctx context.Context) error
}

// SessionService supervises the auth session. Errors for which permanent
// returns true stop the service for good; everything else is restarted
// with the supervisor's backoff.
type SessionService struct {
	session   SessionRunner
	permanent func(error) bool
}

// NewSessionService wraps session. permanent may be nil.
func NewSessionService(session SessionRunner, permanent func(error) bool) *SessionService {
	return &SessionService{session: session, permanent: permanent}
}

// Serve implements suture.Service.
func (s *SessionService) Serve(ctx context.Context) error {
	err := s.session.Run(ctx)
	if err == nil || ctx.Err() != nil {
		return err
	}
	if s.permanent != nil && s.permanent(err) {
		return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
	}
	return fmt.Errorf("auth session: %w", err)
}

func (s *SessionService) String() string {
	return "auth-session"
}
