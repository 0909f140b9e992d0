// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/testinfra"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := &Claims{
		Email: "pilot@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-that-is-long-enough!!"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", signToken(t, testNow.Add(time.Hour)), nil},
		{"expired", signToken(t, testNow.Add(-time.Minute)), ErrTokenExpired},
		{"expires now", signToken(t, testNow), ErrTokenExpired},
		{"opaque", "not-a-jwt", jwt.ErrTokenMalformed},
		{"empty", "", ErrNoToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseToken(tt.token, testNow)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ParseToken() error = %v", err)
				}
				if claims.Subject != "u1" || claims.Email != "pilot@example.com" {
					t.Errorf("claims = %+v", claims)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

type stateLog struct {
	mu     sync.Mutex
	states []State
}

func (l *stateLog) record(_ context.Context, s State) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) all() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]State(nil), l.states...)
}

func meHandler(org string) map[string]any {
	user := map[string]any{"id": "u1", "email": "pilot@example.com"}
	if org != "" {
		user["organizationMemberships"] = []map[string]any{
			{"id": "mem1", "role": "OPERATOR", "organization": map[string]any{"id": org, "name": "Acme"}},
		}
	}
	return map[string]any{"me": user}
}

func newSessionFor(srv *testinfra.MockGraphQLServer, token, static string) *Session {
	client := graphql.NewClient(graphql.Options{Endpoint: srv.URL(), Token: token, RetryBaseDelay: time.Millisecond})
	return NewSession(Options{
		Client:          client,
		Token:           token,
		OrganizationID:  static,
		ResolveInterval: 5 * time.Millisecond,
		Now:             func() time.Time { return testNow },
	})
}

func TestSession_ResolveFromMe(t *testing.T) {
	srv := testinfra.NewMockGraphQLServer(t)
	srv.HandleData("Me", meHandler("org1"))

	s := newSessionFor(srv, signToken(t, testNow.Add(time.Hour)), "")
	log := &stateLog{}
	s.Subscribe(context.Background(), log.record)

	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	states := log.all()
	if len(states) != 2 || !states[0].Loading {
		t.Fatalf("states = %+v, want initial loading then resolved", states)
	}
	if states[1] != (State{OrganizationID: "org1", UserID: "u1"}) {
		t.Errorf("resolved state = %+v", states[1])
	}

	// An unchanged resolution is not republished.
	if err := s.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(log.all()) != 2 {
		t.Errorf("unchanged state republished: %+v", log.all())
	}
}

func TestSession_StaticOrganization(t *testing.T) {
	srv := testinfra.NewMockGraphQLServer(t)
	s := newSessionFor(srv, "opaque-token", "org-static")

	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := s.State(); got.OrganizationID != "org-static" || got.Loading {
		t.Errorf("State() = %+v", got)
	}
	if srv.Count("Me") != 0 {
		t.Error("static organization should skip the ME query")
	}
}

func TestSession_ResolveFailures(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T) string
		setup   func(*testinfra.MockGraphQLServer)
		wantErr error
	}{
		{
			name:    "expired token",
			token:   func(t *testing.T) string { return signToken(t, testNow.Add(-time.Hour)) },
			setup:   func(s *testinfra.MockGraphQLServer) { s.HandleData("Me", meHandler("org1")) },
			wantErr: ErrTokenExpired,
		},
		{
			name:    "no membership",
			token:   func(t *testing.T) string { return signToken(t, testNow.Add(time.Hour)) },
			setup:   func(s *testinfra.MockGraphQLServer) { s.HandleData("Me", meHandler("")) },
			wantErr: ErrNoMembership,
		},
		{
			name:    "no token",
			token:   func(*testing.T) string { return "" },
			setup:   func(*testinfra.MockGraphQLServer) {},
			wantErr: ErrNoToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testinfra.NewMockGraphQLServer(t)
			tt.setup(srv)
			s := newSessionFor(srv, tt.token(t), "")

			err := s.Resolve(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
			if got := s.State(); got != (State{}) {
				t.Errorf("State() = %+v, want idle", got)
			}
		})
	}
}

func TestSession_RunStopsOnUnauthorized(t *testing.T) {
	srv := testinfra.NewMockGraphQLServer(t)
	srv.HandleData("Me", meHandler("org1"))
	srv.StatusFunc = func(op string, attempt int) int {
		if attempt > 2 {
			return http.StatusUnauthorized
		}
		return 0
	}

	s := newSessionFor(srv, signToken(t, testNow.Add(time.Hour)), "")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.Run(ctx)
	if !graphql.IsUnauthorized(err) {
		t.Fatalf("Run() error = %v, want unauthorized", err)
	}
	if got := s.State(); got.OrganizationID != "" || got.Loading {
		t.Errorf("State() = %+v, want idle after rejection", got)
	}
}

func TestSession_RunKeepsStateOnTransientErrors(t *testing.T) {
	srv := testinfra.NewMockGraphQLServer(t)
	srv.HandleData("Me", meHandler("org1"))
	srv.StatusFunc = func(op string, attempt int) int {
		if attempt > 1 {
			return http.StatusBadGateway
		}
		return 0
	}

	s := newSessionFor(srv, signToken(t, testNow.Add(time.Hour)), "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Count("Me") < 3 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if got := s.State(); got.OrganizationID != "org1" {
		t.Errorf("State() = %+v, want org1 kept", got)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrNoToken, true},
		{ErrTokenExpired, true},
		{ErrNoMembership, true},
		{&graphql.HTTPError{StatusCode: http.StatusUnauthorized}, true},
		{&graphql.HTTPError{StatusCode: http.StatusBadGateway}, false},
		{errors.New("dial tcp: connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.want {
			t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
