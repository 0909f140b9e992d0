// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

import "time"

// Role is a user's permission level within the platform.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleModerator  Role = "MODERATOR"
	RoleOperator   Role = "OPERATOR"
	RoleViewer     Role = "VIEWER"
)

// User is one record of the users collection.
type User struct {
	ID                      string                   `json:"id"`
	Email                   string                   `json:"email"`
	FirstName               string                   `json:"firstName"`
	LastName                string                   `json:"lastName"`
	Role                    Role                     `json:"role"`
	IsActive                bool                     `json:"isActive"`
	LastLogin               *time.Time               `json:"lastLogin,omitempty"`
	CreatedAt               time.Time                `json:"createdAt"`
	UpdatedAt               *time.Time               `json:"updatedAt,omitempty"`
	OrganizationMemberships []OrganizationMembership `json:"organizationMemberships,omitempty"`
}

// EntityID implements Identifiable.
func (u User) EntityID() string { return u.ID }

// PrimaryOrganizationID returns the organization of the first membership,
// or "" when the user belongs to none.
func (u User) PrimaryOrganizationID() string {
	if len(u.OrganizationMemberships) == 0 {
		return ""
	}
	return u.OrganizationMemberships[0].Organization.ID
}

// OrganizationMembership links a user to an organization.
type OrganizationMembership struct {
	ID           string       `json:"id"`
	Role         Role         `json:"role"`
	Organization Organization `json:"organization"`
}

// Organization is the tenant every collection is scoped to.
type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateUserInput is the payload of the create user mutation.
type CreateUserInput struct {
	OrganizationID string `json:"organizationId"`
	Email          string `json:"email" validate:"required,email"`
	FirstName      string `json:"firstName" validate:"required,notblank,max=100"`
	LastName       string `json:"lastName" validate:"required,notblank,max=100"`
	Role           Role   `json:"role" validate:"required,oneof=SUPER_ADMIN MODERATOR OPERATOR VIEWER"`
	Password       string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// UpdateUserInput is the payload of the update user mutation.
type UpdateUserInput struct {
	OrganizationID string  `json:"organizationId,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName      *string `json:"firstName,omitempty" validate:"omitempty,notblank,max=100"`
	LastName       *string `json:"lastName,omitempty" validate:"omitempty,notblank,max=100"`
	Role           *Role   `json:"role,omitempty" validate:"omitempty,oneof=SUPER_ADMIN MODERATOR OPERATOR VIEWER"`
	IsActive       *bool   `json:"isActive,omitempty"`
}
