// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// GraphQLCapture is one request received by MockGraphQLServer.
type GraphQLCapture struct {
	OperationName string
	Query         string
	Variables     map[string]any
	Headers       http.Header
}

// GraphQLHandler answers one operation. Returning a non-nil error produces
// a GraphQL errors array; otherwise data is encoded as the data object.
type GraphQLHandler func(vars map[string]any) (data any, err error)

// MockGraphQLServer is an httptest server that routes GraphQL requests by
// operation name and captures every request.
type MockGraphQLServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]GraphQLHandler
	captures []GraphQLCapture

	// StatusFunc, when set, may return a non-200 status to send instead of
	// a GraphQL response (0 means answer normally).
	StatusFunc func(operation string, attempt int) int
}

// NewMockGraphQLServer starts a server closed automatically at test end.
func NewMockGraphQLServer(t testing.TB) *MockGraphQLServer {
	t.Helper()

	m := &MockGraphQLServer{handlers: make(map[string]GraphQLHandler)}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockGraphQLServer) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req struct {
		Query         string         `json:"query"`
		Variables     map[string]any `json:"variables"`
		OperationName string         `json:"operationName"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.captures = append(m.captures, GraphQLCapture{
		OperationName: req.OperationName,
		Query:         req.Query,
		Variables:     req.Variables,
		Headers:       r.Header.Clone(),
	})
	attempt := 0
	for _, c := range m.captures {
		if c.OperationName == req.OperationName {
			attempt++
		}
	}
	handler := m.handlers[req.OperationName]
	statusFunc := m.StatusFunc
	m.mu.Unlock()

	if statusFunc != nil {
		if status := statusFunc(req.OperationName, attempt); status != 0 {
			w.WriteHeader(status)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if handler == nil {
		writeJSON(w, map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": "no handler for operation " + req.OperationName}},
		})
		return
	}

	data, err := handler(req.Variables)
	if err != nil {
		writeJSON(w, map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": err.Error()}},
		})
		return
	}
	writeJSON(w, map[string]any{"data": data})
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write(data) //nolint:errcheck
}

// URL returns the server URL.
func (m *MockGraphQLServer) URL() string {
	return m.Server.URL
}

// Handle registers h for operation.
func (m *MockGraphQLServer) Handle(operation string, h GraphQLHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[operation] = h
}

// HandleData registers a handler that always returns data.
func (m *MockGraphQLServer) HandleData(operation string, data any) {
	m.Handle(operation, func(map[string]any) (any, error) { return data, nil })
}

// GetCaptures returns all captured requests.
func (m *MockGraphQLServer) GetCaptures() []GraphQLCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]GraphQLCapture, len(m.captures))
	copy(result, m.captures)
	return result
}

// Count returns how many requests named operation were received.
func (m *MockGraphQLServer) Count(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.captures {
		if c.OperationName == operation {
			n++
		}
	}
	return n
}

// ClearCaptures clears all captured requests.
func (m *MockGraphQLServer) ClearCaptures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captures = nil
}
