// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrUnknownSetting is returned by Settings.With for a key that is not a
// top-level settings field.
var ErrUnknownSetting = errors.New("unknown setting")

// Settings holds per-organization dashboard preferences.
type Settings struct {
	Notifications   NotificationSettings `json:"notifications"`
	Theme           string               `json:"theme" validate:"oneof=light dark system"`
	Language        string               `json:"language" validate:"required"`
	Timezone        string               `json:"timezone" validate:"required,timezone"`
	Units           string               `json:"units" validate:"oneof=metric imperial"`
	AutoRefresh     bool                 `json:"autoRefresh"`
	RefreshInterval int                  `json:"refreshInterval" validate:"gte=5,lte=3600"`
}

// NotificationSettings selects the notification channels.
type NotificationSettings struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// SettingsPatch is a partial Settings; nil fields are kept.
type SettingsPatch struct {
	Notifications   *NotificationSettings `json:"notifications,omitempty"`
	Theme           *string               `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	Language        *string               `json:"language,omitempty" validate:"omitempty,notblank"`
	Timezone        *string               `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Units           *string               `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
	AutoRefresh     *bool                 `json:"autoRefresh,omitempty"`
	RefreshInterval *int                  `json:"refreshInterval,omitempty" validate:"omitempty,gte=5,lte=3600"`
}

// DefaultSettings returns the settings used when none are cached.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Email: true,
			Push:  true,
			SMS:   false,
		},
		Theme:           "system",
		Language:        "en",
		Timezone:        "UTC",
		Units:           "metric",
		AutoRefresh:     true,
		RefreshInterval: 30,
	}
}

// Apply returns s with every non-nil field of p set.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.Units != nil {
		s.Units = *p.Units
	}
	if p.AutoRefresh != nil {
		s.AutoRefresh = *p.AutoRefresh
	}
	if p.RefreshInterval != nil {
		s.RefreshInterval = *p.RefreshInterval
	}
	return s
}

// With returns s with the top-level field named key (its JSON name) set to
// value. The value must decode into the field's type.
func (s Settings) With(key string, value any) (Settings, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return s, fmt.Errorf("encode settings: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	if _, ok := fields[key]; !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return s, fmt.Errorf("encode setting %q: %w", key, err)
	}
	fields[key] = encoded

	merged, err := json.Marshal(fields)
	if err != nil {
		return s, fmt.Errorf("encode settings: %w", err)
	}
	var out Settings
	if err := json.Unmarshal(merged, &out); err != nil {
		return s, fmt.Errorf("setting %q: %w", key, err)
	}
	return out, nil
}
