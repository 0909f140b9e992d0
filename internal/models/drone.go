// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

import "time"

// DroneStatus is the operational state of a drone.
type DroneStatus string

const (
	DroneStatusAvailable   DroneStatus = "AVAILABLE"
	DroneStatusInMission   DroneStatus = "IN_MISSION"
	DroneStatusMaintenance DroneStatus = "MAINTENANCE"
	DroneStatusCharging    DroneStatus = "CHARGING"
	DroneStatusOffline     DroneStatus = "OFFLINE"
)

// Valid reports whether s is a status the API knows.
func (s DroneStatus) Valid() bool {
	switch s {
	case DroneStatusAvailable, DroneStatusInMission, DroneStatusMaintenance,
		DroneStatusCharging, DroneStatusOffline:
		return true
	}
	return false
}

// Drone is one record of the drones collection.
type Drone struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Model             string      `json:"model"`
	SerialNumber      string      `json:"serialNumber"`
	Status            DroneStatus `json:"status"`
	BatteryLevel      int         `json:"batteryLevel"`
	LastMaintenanceAt *time.Time  `json:"lastMaintenanceAt,omitempty"`
	CurrentLatitude   *float64    `json:"currentLatitude,omitempty"`
	CurrentLongitude  *float64    `json:"currentLongitude,omitempty"`
	CurrentAltitude   *float64    `json:"currentAltitude,omitempty"`
	IsActive          bool        `json:"isActive"`
	MaxFlightTime     int         `json:"maxFlightTime"`
	MaxSpeed          float64     `json:"maxSpeed"`
	MaxAltitude       float64     `json:"maxAltitude"`
	CameraResolution  string      `json:"cameraResolution,omitempty"`
	SensorTypes       []string    `json:"sensorTypes"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// EntityID implements Identifiable.
func (d Drone) EntityID() string { return d.ID }

// CreateDroneInput is the payload of the create drone mutation.
type CreateDroneInput struct {
	OrganizationID   string   `json:"organizationId"`
	Name             string   `json:"name" validate:"required,notblank,max=100"`
	Model            string   `json:"model" validate:"required,notblank,max=100"`
	SerialNumber     string   `json:"serialNumber" validate:"required,notblank,max=100"`
	MaxFlightTime    int      `json:"maxFlightTime" validate:"gte=0"`
	MaxSpeed         float64  `json:"maxSpeed" validate:"gte=0"`
	MaxAltitude      float64  `json:"maxAltitude" validate:"gte=0,lte=10000"`
	CameraResolution string   `json:"cameraResolution,omitempty" validate:"max=50"`
	SensorTypes      []string `json:"sensorTypes,omitempty" validate:"dive,notblank"`
}

// UpdateDroneInput is the payload of the update drone mutation.
type UpdateDroneInput struct {
	OrganizationID   string   `json:"organizationId,omitempty"`
	Name             *string  `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Model            *string  `json:"model,omitempty" validate:"omitempty,notblank,max=100"`
	MaxFlightTime    *int     `json:"maxFlightTime,omitempty" validate:"omitempty,gte=0"`
	MaxSpeed         *float64 `json:"maxSpeed,omitempty" validate:"omitempty,gte=0"`
	MaxAltitude      *float64 `json:"maxAltitude,omitempty" validate:"omitempty,gte=0,lte=10000"`
	CameraResolution *string  `json:"cameraResolution,omitempty" validate:"omitempty,max=50"`
	SensorTypes      []string `json:"sensorTypes,omitempty" validate:"omitempty,dive,notblank"`
}
