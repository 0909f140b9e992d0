// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/logging"
	"github.com/tomtom215/fleetcache/internal/models"
)

// DefaultResolveInterval is used when Options.ResolveInterval is zero.
const DefaultResolveInterval = 15 * time.Minute

// State is what subscribers gate on.
type State struct {
	OrganizationID string
	UserID         string
	// Loading is true until the first resolution completes.
	Loading bool
}

// Subscriber is called after every state change.
type Subscriber func(ctx context.Context, s State)

// Options configures a Session.
type Options struct {
	Client graphql.Doer
	Token  string

	// OrganizationID skips the ME query when set.
	OrganizationID string

	ResolveInterval time.Duration

	// Now overrides the clock used for token expiry.
	Now func() time.Time
}

// Session resolves and publishes the current organization.
type Session struct {
	client   graphql.Doer
	token    string
	static   string
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	state       State
	subscribers []Subscriber
}

// NewSession creates a session in the Loading state.
func NewSession(opts Options) *Session {
	interval := opts.ResolveInterval
	if interval <= 0 {
		interval = DefaultResolveInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		client:   opts.Client,
		token:    opts.Token,
		static:   opts.OrganizationID,
		interval: interval,
		now:      now,
		state:    State{Loading: true},
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and calls it once with the current state.
func (s *Session) Subscribe(ctx context.Context, fn Subscriber) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	st := s.state
	s.mu.Unlock()

	fn(ctx, st)
}

// Resolve checks the token and resolves the organization. On failure the
// session stops loading with no organization, so subscribers go idle
// rather than wait forever.
func (s *Session) Resolve(ctx context.Context) error {
	st, err := s.resolve(ctx)
	if err != nil {
		s.publish(ctx, State{})
		return err
	}
	s.publish(ctx, st)
	return nil
}

func (s *Session) resolve(ctx context.Context) (State, error) {
	claims, err := ParseToken(s.token, s.now())
	switch {
	case errors.Is(err, ErrNoToken), errors.Is(err, ErrTokenExpired):
		return State{}, err
	case errors.Is(err, jwt.ErrTokenMalformed):
		logging.Ctx(ctx).Debug().Msg("API token is not a JWT, skipping expiry check")
	case err != nil:
		return State{}, err
	}

	if s.static != "" {
		st := State{OrganizationID: s.static}
		if claims != nil {
			st.UserID = claims.Subject
		}
		return st, nil
	}

	user, err := graphql.Fetch[models.User](ctx, s.client, graphql.Me, nil)
	if err != nil {
		return State{}, fmt.Errorf("resolve organization: %w", err)
	}
	org := user.PrimaryOrganizationID()
	if org == "" {
		return State{}, fmt.Errorf("%w: %s", ErrNoMembership, user.ID)
	}
	return State{OrganizationID: org, UserID: user.ID}, nil
}

func (s *Session) publish(ctx context.Context, st State) {
	s.mu.Lock()
	if st == s.state {
		s.mu.Unlock()
		return
	}
	s.state = st
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	logging.Ctx(ctx).Info().
		Str("organization_id", st.OrganizationID).
		Bool("loading", st.Loading).
		Msg("Auth state changed")

	for _, fn := range subs {
		fn(ctx, st)
	}
}

// Run resolves the organization and re-resolves every ResolveInterval
// until ctx is done. A rejected or expired token ends Run with an error;
// other failures of a later resolution keep the current state.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Resolve(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			st, err := s.resolve(ctx)
			if err == nil {
				s.publish(ctx, st)
				continue
			}
			if IsFatal(err) {
				s.publish(ctx, State{})
				return err
			}
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to re-resolve organization, keeping current state")
		}
	}
}

// IsFatal reports whether err ends the session instead of being retried on
// the next tick.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoToken) || errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrNoMembership) || graphql.IsUnauthorized(err)
}
