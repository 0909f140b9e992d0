// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// MissionType classifies what a mission is flown for.
type MissionType string

const (
	MissionTypeInspection     MissionType = "INSPECTION"
	MissionTypeSecurityPatrol MissionType = "SECURITY_PATROL"
	MissionTypeSiteMapping    MissionType = "SITE_MAPPING"
	MissionTypeSurvey         MissionType = "SURVEY"
)

// MissionStatus is the lifecycle state reported by the fleet API.
type MissionStatus string

const (
	MissionStatusPlanned    MissionStatus = "PLANNED"
	MissionStatusInProgress MissionStatus = "IN_PROGRESS"
	MissionStatusPaused     MissionStatus = "PAUSED"
	MissionStatusCompleted  MissionStatus = "COMPLETED"
	MissionStatusAborted    MissionStatus = "ABORTED"
	MissionStatusFailed     MissionStatus = "FAILED"
)

// Valid reports whether s is a status the API knows.
func (s MissionStatus) Valid() bool {
	switch s {
	case MissionStatusPlanned, MissionStatusInProgress, MissionStatusPaused,
		MissionStatusCompleted, MissionStatusAborted, MissionStatusFailed:
		return true
	}
	return false
}

// FlightPattern is the path shape flown over a site.
type FlightPattern string

const (
	FlightPatternCrosshatch FlightPattern = "CROSSHATCH"
	FlightPatternPerimeter  FlightPattern = "PERIMETER"
	FlightPatternWaypoint   FlightPattern = "WAYPOINT"
	FlightPatternGrid       FlightPattern = "GRID"
	FlightPatternSpiral     FlightPattern = "SPIRAL"
)

// Mission is one record of the missions collection.
type Mission struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Type              MissionType   `json:"type"`
	Status            MissionStatus `json:"status"`
	Priority          int           `json:"priority"`
	FlightPattern     FlightPattern `json:"flightPattern"`
	PlannedAltitude   float64       `json:"plannedAltitude"`
	PlannedSpeed      float64       `json:"plannedSpeed"`
	OverlapPercentage float64       `json:"overlapPercentage"`
	ScheduledAt       *time.Time    `json:"scheduledAt,omitempty"`
	StartedAt         *time.Time    `json:"startedAt,omitempty"`
	CompletedAt       *time.Time    `json:"completedAt,omitempty"`
	EstimatedDuration *int          `json:"estimatedDuration,omitempty"`
	Progress          *float64      `json:"progress,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	CreatedBy         *UserRef      `json:"createdBy,omitempty"`
	AssignedTo        *UserRef      `json:"assignedTo,omitempty"`
	Drone             *DroneRef     `json:"drone,omitempty"`
	Site              *SiteRef      `json:"site,omitempty"`
	Waypoints         []Waypoint    `json:"waypoints,omitempty"`
}

// EntityID implements Identifiable.
func (m Mission) EntityID() string { return m.ID }

// Waypoint is one point of a mission's flight plan.
type Waypoint struct {
	ID         string          `json:"id"`
	Sequence   int             `json:"sequence"`
	Latitude   float64         `json:"latitude"`
	Longitude  float64         `json:"longitude"`
	Altitude   float64         `json:"altitude"`
	Action     string          `json:"action,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// UserRef is the user summary embedded in a mission.
type UserRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// DroneRef is the drone summary embedded in a mission.
type DroneRef struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Model        string      `json:"model,omitempty"`
	Status       DroneStatus `json:"status,omitempty"`
	BatteryLevel int         `json:"batteryLevel,omitempty"`
}

// SiteRef is the site summary embedded in a mission.
type SiteRef struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MissionFilter narrows the missions query.
type MissionFilter struct {
	Status    MissionStatus `json:"status,omitempty" validate:"omitempty,oneof=PLANNED IN_PROGRESS PAUSED COMPLETED ABORTED FAILED"`
	TimeRange string        `json:"timeRange,omitempty" validate:"omitempty,oneof=24h 7d 30d 90d"`
}

// WaypointInput is a waypoint of a mission being created or updated.
type WaypointInput struct {
	Sequence   int             `json:"sequence" validate:"gte=0"`
	Latitude   float64         `json:"latitude" validate:"latitude"`
	Longitude  float64         `json:"longitude" validate:"longitude"`
	Altitude   float64         `json:"altitude" validate:"gte=0,lte=10000"`
	Action     string          `json:"action,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// CreateMissionInput is the payload of the create mission mutation.
// OrganizationID is filled in by the missions collection.
type CreateMissionInput struct {
	OrganizationID    string          `json:"organizationId"`
	Name              string          `json:"name" validate:"required,notblank,max=200"`
	Description       string          `json:"description,omitempty" validate:"max=2000"`
	Type              MissionType     `json:"type" validate:"required,oneof=INSPECTION SECURITY_PATROL SITE_MAPPING SURVEY"`
	Priority          int             `json:"priority" validate:"gte=0,lte=10"`
	FlightPattern     FlightPattern   `json:"flightPattern" validate:"required,oneof=CROSSHATCH PERIMETER WAYPOINT GRID SPIRAL"`
	PlannedAltitude   float64         `json:"plannedAltitude" validate:"gte=0,lte=10000"`
	PlannedSpeed      float64         `json:"plannedSpeed" validate:"gte=0"`
	OverlapPercentage float64         `json:"overlapPercentage" validate:"gte=0,lte=100"`
	ScheduledAt       *time.Time      `json:"scheduledAt,omitempty"`
	EstimatedDuration *int            `json:"estimatedDuration,omitempty" validate:"omitempty,gte=0"`
	DroneID           string          `json:"droneId" validate:"required,notblank"`
	SiteID            string          `json:"siteId" validate:"required,notblank"`
	Waypoints         []WaypointInput `json:"waypoints,omitempty" validate:"dive"`
}

// UpdateMissionInput is the payload of the update mission mutation. Nil
// fields are left unchanged by the API.
type UpdateMissionInput struct {
	Name              *string         `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Description       *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type              *MissionType    `json:"type,omitempty" validate:"omitempty,oneof=INSPECTION SECURITY_PATROL SITE_MAPPING SURVEY"`
	Status            *MissionStatus  `json:"status,omitempty" validate:"omitempty,oneof=PLANNED IN_PROGRESS PAUSED COMPLETED ABORTED FAILED"`
	Priority          *int            `json:"priority,omitempty" validate:"omitempty,gte=0,lte=10"`
	FlightPattern     *FlightPattern  `json:"flightPattern,omitempty" validate:"omitempty,oneof=CROSSHATCH PERIMETER WAYPOINT GRID SPIRAL"`
	PlannedAltitude   *float64        `json:"plannedAltitude,omitempty" validate:"omitempty,gte=0,lte=10000"`
	PlannedSpeed      *float64        `json:"plannedSpeed,omitempty" validate:"omitempty,gte=0"`
	OverlapPercentage *float64        `json:"overlapPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	ScheduledAt       *time.Time      `json:"scheduledAt,omitempty"`
	EstimatedDuration *int            `json:"estimatedDuration,omitempty" validate:"omitempty,gte=0"`
	Waypoints         []WaypointInput `json:"waypoints,omitempty" validate:"omitempty,dive"`
}
