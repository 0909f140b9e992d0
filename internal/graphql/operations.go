// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package graphql

import "strings"

// Operation is a named GraphQL document.
type Operation struct {
	Name  string
	Query string
}

// Field returns the top-level response field of the operation: its name
// with a lowercase first letter ("CreateMission" -> "createMission").
func (o Operation) Field() string {
	if o.Name == "" {
		return ""
	}
	return strings.ToLower(o.Name[:1]) + o.Name[1:]
}

// Shared selection sets.
const (
	missionFields = `
      id
      name
      description
      type
      status
      priority
      flightPattern
      plannedAltitude
      plannedSpeed
      overlapPercentage
      scheduledAt
      startedAt
      completedAt
      estimatedDuration
      progress
      createdAt
      updatedAt
      createdBy { id firstName lastName }
      assignedTo { id firstName lastName }
      drone { id name model status batteryLevel }
      site { id name latitude longitude }
      waypoints { id sequence latitude longitude altitude action parameters }`

	droneFields = `
      id
      name
      model
      serialNumber
      status
      batteryLevel
      lastMaintenanceAt
      currentLatitude
      currentLongitude
      currentAltitude
      isActive
      maxFlightTime
      maxSpeed
      maxAltitude
      cameraResolution
      sensorTypes
      createdAt
      updatedAt`

	siteFields = `
      id
      name
      description
      latitude
      longitude
      altitude
      isActive
      createdAt
      updatedAt`

	userFields = `
      id
      email
      firstName
      lastName
      role
      isActive
      lastLogin
      createdAt
      organizationMemberships {
        id
        role
        organization { id name description }
      }`
)

// Queries.
var (
	Me = Operation{Name: "Me", Query: `query Me {
    me {` + userFields + `
    }
  }`}

	Missions = Operation{Name: "Missions", Query: `query Missions($organizationId: ID!, $status: MissionStatus, $timeRange: String) {
    missions(organizationId: $organizationId, status: $status, timeRange: $timeRange) {` + missionFields + `
    }
  }`}

	Drones = Operation{Name: "Drones", Query: `query Drones($organizationId: ID!) {
    drones(organizationId: $organizationId) {` + droneFields + `
    }
  }`}

	Sites = Operation{Name: "Sites", Query: `query Sites($organizationId: ID!) {
    sites(organizationId: $organizationId) {` + siteFields + `
    }
  }`}

	Users = Operation{Name: "Users", Query: `query Users($organizationId: ID) {
    users(organizationId: $organizationId) {` + userFields + `
    }
  }`}

	Settings = Operation{Name: "Settings", Query: `query Settings($organizationId: ID!) {
    settings(organizationId: $organizationId) {
      notifications { email push sms }
      theme
      language
      timezone
      units
      autoRefresh
      refreshInterval
    }
  }`}

	OrganizationStats = Operation{Name: "OrganizationStats", Query: `query OrganizationStats($organizationId: ID!) {
    organizationStats(organizationId: $organizationId) {
      totalDrones
      activeDrones
      totalMissions
      completedMissions
      totalSites
      totalFlightHours
      averageMissionDuration
    }
  }`}

	MissionStats = Operation{Name: "MissionStats", Query: `query MissionStats($organizationId: ID!, $timeRange: String) {
    missionStats(organizationId: $organizationId, timeRange: $timeRange)
  }`}

	DroneUtilization = Operation{Name: "DroneUtilization", Query: `query DroneUtilization($organizationId: ID!) {
    droneUtilization(organizationId: $organizationId)
  }`}
)

// Mission mutations.
var (
	CreateMission = Operation{Name: "CreateMission", Query: `mutation CreateMission($input: CreateMissionInput!) {
    createMission(input: $input) {` + missionFields + `
    }
  }`}

	UpdateMission = Operation{Name: "UpdateMission", Query: `mutation UpdateMission($id: ID!, $input: UpdateMissionInput!) {
    updateMission(id: $id, input: $input) {` + missionFields + `
    }
  }`}

	DeleteMission = Operation{Name: "DeleteMission", Query: `mutation DeleteMission($id: ID!) {
    deleteMission(id: $id)
  }`}

	StartMission = Operation{Name: "StartMission", Query: `mutation StartMission($id: ID!) {
    startMission(id: $id) { id status startedAt progress }
  }`}

	PauseMission = Operation{Name: "PauseMission", Query: `mutation PauseMission($id: ID!) {
    pauseMission(id: $id) { id status }
  }`}

	ResumeMission = Operation{Name: "ResumeMission", Query: `mutation ResumeMission($id: ID!) {
    resumeMission(id: $id) { id status }
  }`}

	AbortMission = Operation{Name: "AbortMission", Query: `mutation AbortMission($id: ID!) {
    abortMission(id: $id) { id status }
  }`}

	CompleteMission = Operation{Name: "CompleteMission", Query: `mutation CompleteMission($id: ID!) {
    completeMission(id: $id) { id status completedAt progress }
  }`}
)

// Drone mutations.
var (
	CreateDrone = Operation{Name: "CreateDrone", Query: `mutation CreateDrone($input: CreateDroneInput!) {
    createDrone(input: $input) {` + droneFields + `
    }
  }`}

	UpdateDrone = Operation{Name: "UpdateDrone", Query: `mutation UpdateDrone($id: ID!, $input: UpdateDroneInput!) {
    updateDrone(id: $id, input: $input) {` + droneFields + `
    }
  }`}

	UpdateDroneStatus = Operation{Name: "UpdateDroneStatus", Query: `mutation UpdateDroneStatus($id: ID!, $status: DroneStatus!) {
    updateDroneStatus(id: $id, status: $status) { id status updatedAt }
  }`}

	DeleteDrone = Operation{Name: "DeleteDrone", Query: `mutation DeleteDrone($id: ID!) {
    deleteDrone(id: $id)
  }`}
)

// Site mutations.
var (
	CreateSite = Operation{Name: "CreateSite", Query: `mutation CreateSite($input: CreateSiteInput!) {
    createSite(input: $input) {` + siteFields + `
    }
  }`}

	UpdateSite = Operation{Name: "UpdateSite", Query: `mutation UpdateSite($id: ID!, $input: UpdateSiteInput!) {
    updateSite(id: $id, input: $input) {` + siteFields + `
    }
  }`}

	DeleteSite = Operation{Name: "DeleteSite", Query: `mutation DeleteSite($id: ID!) {
    deleteSite(id: $id)
  }`}
)

// User mutations.
var (
	CreateUser = Operation{Name: "CreateUser", Query: `mutation CreateUser($input: CreateUserInput!) {
    createUser(input: $input) {` + userFields + `
    }
  }`}

	UpdateUser = Operation{Name: "UpdateUser", Query: `mutation UpdateUser($id: ID!, $input: UpdateUserInput!) {
    updateUser(id: $id, input: $input) {` + userFields + `
    }
  }`}

	DeleteUser = Operation{Name: "DeleteUser", Query: `mutation DeleteUser($id: ID!) {
    deleteUser(id: $id)
  }`}
)
