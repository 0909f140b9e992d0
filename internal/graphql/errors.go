// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package graphql

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a request.
	ErrCircuitOpen = errors.New("graphql: circuit breaker open")

	// ErrRateLimited is returned when the API keeps answering 429.
	ErrRateLimited = errors.New("graphql: rate limit exceeded")

	// ErrNoData is returned when a response carries neither data nor errors.
	ErrNoData = errors.New("graphql: response has no data")
)

// ErrorLocation points into the query text.
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ErrorMessage is one entry of a GraphQL errors array.
type ErrorMessage struct {
	Message    string          `json:"message"`
	Path       []any           `json:"path,omitempty"`
	Locations  []ErrorLocation `json:"locations,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
}

// Code returns extensions.code, or "" when absent.
func (m ErrorMessage) Code() string {
	if code, ok := m.Extensions["code"].(string); ok {
		return code
	}
	return ""
}

// Error is returned when the API answers with GraphQL errors.
type Error struct {
	Operation string
	Messages  []ErrorMessage
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		parts = append(parts, m.Message)
	}
	return fmt.Sprintf("graphql %s: %s", e.Operation, strings.Join(parts, "; "))
}

// HasCode reports whether any message carries extensions.code == code.
func (e *Error) HasCode(code string) bool {
	for _, m := range e.Messages {
		if m.Code() == code {
			return true
		}
	}
	return false
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("graphql %s: HTTP %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("graphql %s: HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Temporary reports whether the status is worth counting against the
// upstream's health (5xx).
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= 500
}
