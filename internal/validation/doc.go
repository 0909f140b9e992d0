// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package validation provides struct validation using go-playground/validator v10.
//
// Every mutation input of the fleet collections is validated here before a
// request reaches the GraphQL API, so malformed input never costs a round
// trip and never leaves a collection half-updated.
//
// # Quick Start
//
//	input := models.CreateDroneInput{Name: "Falcon", Model: "X4", SerialNumber: "SN-1"}
//	if err := validation.Validate(&input); err != nil {
//	    // errors.Is(err, validation.ErrValidation) == true
//	    return err
//	}
//
// # Custom Validators
//
//   - notblank: the string is not empty after trimming whitespace
//
// All built-in validators (email, latitude, longitude, oneof, timezone, dive,
// and so on) are available.
//
// # Error Translation
//
// Field errors are rendered as short sentences such as "Name is required" or
// "Priority must be less than or equal to 10". ToAPIError converts them into
// the VALIDATION_ERROR envelope used by the admin API.
package validation
