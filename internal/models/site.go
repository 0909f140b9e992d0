// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

import "time"

// Site is one record of the sites collection.
type Site struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Altitude    *float64  `json:"altitude,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EntityID implements Identifiable.
func (s Site) EntityID() string { return s.ID }

// CreateSiteInput is the payload of the create site mutation.
type CreateSiteInput struct {
	OrganizationID string   `json:"organizationId"`
	Name           string   `json:"name" validate:"required,notblank,max=200"`
	Description    string   `json:"description,omitempty" validate:"max=2000"`
	Latitude       float64  `json:"latitude" validate:"latitude"`
	Longitude      float64  `json:"longitude" validate:"longitude"`
	Altitude       *float64 `json:"altitude,omitempty"`
}

// UpdateSiteInput is the payload of the update site mutation.
type UpdateSiteInput struct {
	OrganizationID string   `json:"organizationId,omitempty"`
	Name           *string  `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Description    *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Altitude       *float64 `json:"altitude,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
}
