// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

// Analytics is the dashboard analytics snapshot of one organization.
type Analytics struct {
	MissionData          []MissionMonth     `json:"missionData"`
	DroneUtilizationData []DroneUtilization `json:"droneUtilizationData"`
	SiteActivityData     []SiteActivity     `json:"siteActivityData"`
	BatteryTrendData     []BatteryTrend     `json:"batteryTrendData"`
	MissionTypeData      []MissionTypeShare `json:"missionTypeData"`
	KeyMetrics           KeyMetrics         `json:"keyMetrics"`
}

type MissionMonth struct {
	Month      string `json:"month"`
	Completed  int    `json:"completed"`
	Failed     int    `json:"failed"`
	InProgress int    `json:"inProgress"`
}

type DroneUtilization struct {
	Drone       string  `json:"drone"`
	Utilization float64 `json:"utilization"`
	Missions    int     `json:"missions"`
	Hours       float64 `json:"hours"`
}

type SiteActivity struct {
	Site        string  `json:"site"`
	Missions    int     `json:"missions"`
	AvgDuration float64 `json:"avgDuration"`
	SuccessRate float64 `json:"successRate"`
}

type BatteryTrend struct {
	Time       string  `json:"time"`
	AvgBattery float64 `json:"avgBattery"`
}

type MissionTypeShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// KeyMetrics are the headline numbers of the analytics page.
type KeyMetrics struct {
	TotalMissions  int     `json:"totalMissions"`
	SuccessRate    float64 `json:"successRate"`
	AvgUtilization float64 `json:"avgUtilization"`
	FlightHours    float64 `json:"flightHours"`
}

// OrganizationStats is the result of the organization stats query.
type OrganizationStats struct {
	TotalDrones            int     `json:"totalDrones"`
	ActiveDrones           int     `json:"activeDrones"`
	TotalMissions          int     `json:"totalMissions"`
	CompletedMissions      int     `json:"completedMissions"`
	TotalSites             int     `json:"totalSites"`
	TotalFlightHours       float64 `json:"totalFlightHours"`
	AverageMissionDuration float64 `json:"averageMissionDuration"`
}

// SuccessRate is completed/total as a percentage, 0 when nothing completed.
func (s OrganizationStats) SuccessRate() float64 {
	if s.CompletedMissions <= 0 || s.TotalMissions <= 0 {
		return 0
	}
	return float64(s.CompletedMissions) / float64(s.TotalMissions) * 100
}

// MissionStats is the JSON scalar returned by the mission stats query.
type MissionStats struct {
	MissionData      []MissionMonth     `json:"missionData"`
	SiteActivityData []SiteActivity     `json:"siteActivityData"`
	MissionTypeData  []MissionTypeShare `json:"missionTypeData"`
}

// DroneUtilizationStats is the JSON scalar returned by the drone
// utilization query.
type DroneUtilizationStats struct {
	DroneUtilizationData []DroneUtilization `json:"droneUtilizationData"`
	BatteryTrendData     []BatteryTrend     `json:"batteryTrendData"`
}

// MockAnalytics returns the placeholder analytics shown when the API has
// no data for an organization.
func MockAnalytics() Analytics {
	return Analytics{
		MissionData: []MissionMonth{
			{Month: "Jan", Completed: 12, Failed: 2, InProgress: 3},
			{Month: "Feb", Completed: 15, Failed: 1, InProgress: 2},
			{Month: "Mar", Completed: 18, Failed: 3, InProgress: 4},
			{Month: "Apr", Completed: 14, Failed: 2, InProgress: 1},
			{Month: "May", Completed: 20, Failed: 1, InProgress: 3},
			{Month: "Jun", Completed: 16, Failed: 2, InProgress: 2},
		},
		DroneUtilizationData: []DroneUtilization{
			{Drone: "Drone-001", Utilization: 85, Missions: 12, Hours: 24},
			{Drone: "Drone-002", Utilization: 72, Missions: 8, Hours: 18},
			{Drone: "Drone-003", Utilization: 91, Missions: 15, Hours: 32},
			{Drone: "Drone-004", Utilization: 68, Missions: 6, Hours: 14},
		},
		SiteActivityData: []SiteActivity{
			{Site: "Site A", Missions: 15, AvgDuration: 45, SuccessRate: 92},
			{Site: "Site B", Missions: 12, AvgDuration: 38, SuccessRate: 88},
			{Site: "Site C", Missions: 8, AvgDuration: 52, SuccessRate: 95},
			{Site: "Site D", Missions: 10, AvgDuration: 41, SuccessRate: 90},
		},
		BatteryTrendData: []BatteryTrend{
			{Time: "00:00", AvgBattery: 85},
			{Time: "04:00", AvgBattery: 82},
			{Time: "08:00", AvgBattery: 78},
			{Time: "12:00", AvgBattery: 75},
			{Time: "16:00", AvgBattery: 72},
			{Time: "20:00", AvgBattery: 80},
		},
		MissionTypeData: []MissionTypeShare{
			{Name: "Inspection", Value: 45, Color: "#3b82f6"},
			{Name: "Security", Value: 25, Color: "#10b981"},
			{Name: "Mapping", Value: 20, Color: "#f59e0b"},
			{Name: "Survey", Value: 10, Color: "#8b5cf6"},
		},
		KeyMetrics: KeyMetrics{
			TotalMissions:  75,
			SuccessRate:    89.3,
			AvgUtilization: 78.5,
			FlightHours:    88,
		},
	}
}

// BuildAnalytics combines the three analytics queries. Any section the API
// did not return is taken from MockAnalytics. With stats nil, or with both
// mission and drone stats nil, the whole mock snapshot is returned.
func BuildAnalytics(stats *OrganizationStats, missions *MissionStats, drones *DroneUtilizationStats) Analytics {
	mock := MockAnalytics()
	if stats == nil || (missions == nil && drones == nil) {
		return mock
	}

	out := mock
	out.KeyMetrics = KeyMetrics{
		TotalMissions:  stats.TotalMissions,
		SuccessRate:    stats.SuccessRate(),
		AvgUtilization: stats.AverageMissionDuration,
		FlightHours:    stats.TotalFlightHours,
	}
	if missions != nil {
		if len(missions.MissionData) > 0 {
			out.MissionData = missions.MissionData
		}
		if len(missions.SiteActivityData) > 0 {
			out.SiteActivityData = missions.SiteActivityData
		}
		if len(missions.MissionTypeData) > 0 {
			out.MissionTypeData = missions.MissionTypeData
		}
	}
	if drones != nil {
		if len(drones.DroneUtilizationData) > 0 {
			out.DroneUtilizationData = drones.DroneUtilizationData
		}
		if len(drones.BatteryTrendData) > 0 {
			out.BatteryTrendData = drones.BatteryTrendData
		}
	}
	return out
}
