// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

/*
Package graphql is the HTTP client for the fleet GraphQL API.

Every entity collection reads and writes through this client. A request is a
POST of {query, variables, operationName} with a bearer token; the response
envelope {data, errors} is decoded with goccy/go-json.

Resilience:

  - Client-side rate limiting with golang.org/x/time/rate, so a burst of
    refreshes from the admin API cannot flood the upstream.
  - HTTP 429 retries with exponential backoff (base delay doubling, honoring
    Retry-After), up to MaxRetries.
  - A sony/gobreaker circuit breaker (60% failures over at least 10 requests
    opens it for 2 minutes). Requests rejected by an open breaker return an
    error matching ErrCircuitOpen. GraphQL errors and HTTP 4xx responses
    do not count as breaker failures.

Errors:

  - *Error: the API answered with a non-empty errors array
  - *HTTPError: a non-2xx status other than an exhausted 429
  - ErrRateLimited: 429 after all retries
  - ErrCircuitOpen: the breaker rejected the request

Caching:

CachedQuery runs a query through the cache Store under a key derived from
the query text and variables (cache.GenerateQueryKey), so identical queries
issued within the TTL are served locally.

Operations:

operations.go declares every query and mutation the fleet collections use.
*/
package graphql
