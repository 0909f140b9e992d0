// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

import "time"

// APIResponse is the envelope written by every admin API endpoint.
//
// Status is "success" with Data set, or "error" with Error set.
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": {"totalKeys": 6, "hitRate": 83.3},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "9f2c1a7e"}
//	}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	ElapsedMS int64     `json:"elapsed_ms,omitempty"`
}

// APIError describes a failed request.
//
// Common error codes:
//   - VALIDATION_ERROR: bad path or body parameter
//   - NOT_FOUND: unknown entity
//   - UNAUTHORIZED: missing or wrong admin token
//   - NO_ORGANIZATION: the session has not resolved an organization yet
//   - REFRESH_FAILED: one or more entity refreshes failed
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
