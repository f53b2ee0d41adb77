// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads dockbot's configuration: a single YAML file
// named by the DOCKBOT_CONFIG environment variable or the --config
// flag, plus secret tokens taken from the environment. There are no
// fallback locations and no automatic discovery; a deployment states
// its configuration in one auditable place.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seagrove-marine/dockbot/lib/schedule"
)

// Environment variable names.
const (
	// EnvConfig names the config file when --config is not passed.
	EnvConfig = "DOCKBOT_CONFIG"

	// EnvSigningSecret is the webhook signing secret. Required.
	EnvSigningSecret = "DOCKBOT_SIGNING_SECRET"

	// EnvBotToken is the workspace Web API token. Required.
	EnvBotToken = "DOCKBOT_BOT_TOKEN"

	// EnvFleetToken is the fleet API bearer token. Optional.
	EnvFleetToken = "DOCKBOT_API_TOKEN"

	// EnvAssetsToken is the inventory service bearer token. Optional.
	EnvAssetsToken = "DOCKBOT_ASSETS_TOKEN"
)

// Config is the full dockbot configuration.
type Config struct {
	Listen    ListenConfig    `yaml:"listen"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Channels  ChannelsConfig  `yaml:"channels"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Service   ServiceConfig   `yaml:"service"`

	// Secrets come from the environment, never from the file.
	Secrets Secrets `yaml:"-"`
}

// ListenConfig configures the inbound webhook listener.
type ListenConfig struct {
	// Address is the listen address. Default ":3000".
	Address string `yaml:"address"`
}

// EndpointsConfig names the external services.
type EndpointsConfig struct {
	// WorkspaceAPI is the chat platform Web API base URL.
	// Default "https://slack.com/api".
	WorkspaceAPI string `yaml:"workspace_api"`

	// FleetAPI is the uplogd control endpoint. Required.
	FleetAPI string `yaml:"fleet_api"`

	// GarageAPI is the garage mode endpoint. Empty uses the fleet API
	// client's default.
	GarageAPI string `yaml:"garage_api"`

	// Assets is the asset inventory endpoint. Empty disables inventory
	// lookups; every form renders an empty asset list.
	Assets string `yaml:"assets"`

	// Forecast provider overrides. Empty values use the public
	// production endpoints.
	WaveURL    string `yaml:"wave_url"`
	WeatherURL string `yaml:"weather_url"`
	TideAPI    string `yaml:"tide_api"`
	SunAPI     string `yaml:"sun_api"`
}

// ChannelsConfig names the chat surfaces dockbot writes to.
type ChannelsConfig struct {
	// Updates receives compact flow summaries in ephemeral response
	// mode.
	Updates string `yaml:"updates"`

	// Forecast receives the daily briefing. Empty disables it.
	Forecast string `yaml:"forecast"`

	// DMOverride redirects per-operator detail messages to one fixed
	// conversation. Normally empty.
	DMOverride string `yaml:"dm_override"`

	// ResponseMode is "update" (default) or "ephemeral".
	ResponseMode string `yaml:"response_mode"`
}

// ForecastConfig schedules the daily briefing.
type ForecastConfig struct {
	// Time is the post time, "HH:MM" 24-hour. Default "08:00".
	Time string `yaml:"time"`

	// Days is the weekday field (names, numbers, ranges, lists).
	// Default "mon-fri".
	Days string `yaml:"days"`

	// Timezone is an IANA zone name for the briefing.
	// Default "America/Los_Angeles".
	Timezone string `yaml:"timezone"`
}

// ServiceConfig labels the managed service.
type ServiceConfig struct {
	// Label names the service in rendered messages. Default "uplogd".
	Label string `yaml:"label"`
}

// Secrets holds the environment-sourced tokens.
type Secrets struct {
	SigningSecret string
	BotToken      string
	FleetToken    string
	AssetsToken   string
}

// Default returns the configuration defaults applied under a loaded
// file.
func Default() Config {
	return Config{
		Listen: ListenConfig{Address: ":3000"},
		Endpoints: EndpointsConfig{
			WorkspaceAPI: "https://slack.com/api",
		},
		Channels: ChannelsConfig{ResponseMode: "update"},
		Forecast: ForecastConfig{
			Time:     "08:00",
			Days:     "mon-fri",
			Timezone: "America/Los_Angeles",
		},
	}
}

// Load reads and validates the configuration. path wins over the
// DOCKBOT_CONFIG environment variable; with neither set Load fails.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return Config{}, fmt.Errorf("config: no config file: set %s or pass --config", EnvConfig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	applyDefaults(&cfg)

	cfg.Secrets = Secrets{
		SigningSecret: os.Getenv(EnvSigningSecret),
		BotToken:      os.Getenv(EnvBotToken),
		FleetToken:    os.Getenv(EnvFleetToken),
		AssetsToken:   os.Getenv(EnvAssetsToken),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults restores defaults for fields an explicit file set to
// empty.
func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.Listen.Address == "" {
		cfg.Listen.Address = defaults.Listen.Address
	}
	if cfg.Endpoints.WorkspaceAPI == "" {
		cfg.Endpoints.WorkspaceAPI = defaults.Endpoints.WorkspaceAPI
	}
	if cfg.Channels.ResponseMode == "" {
		cfg.Channels.ResponseMode = defaults.Channels.ResponseMode
	}
	if cfg.Forecast.Time == "" {
		cfg.Forecast.Time = defaults.Forecast.Time
	}
	if cfg.Forecast.Days == "" {
		cfg.Forecast.Days = defaults.Forecast.Days
	}
	if cfg.Forecast.Timezone == "" {
		cfg.Forecast.Timezone = defaults.Forecast.Timezone
	}
}

// Validate checks the whole configuration and reports every problem
// at once.
func (c *Config) Validate() error {
	var problems []error

	if c.Endpoints.FleetAPI == "" {
		problems = append(problems, fmt.Errorf("config: endpoints.fleet_api is required"))
	}
	switch c.Channels.ResponseMode {
	case "update", "ephemeral":
	default:
		problems = append(problems, fmt.Errorf("config: channels.response_mode %q: expected update or ephemeral", c.Channels.ResponseMode))
	}
	if _, err := schedule.Parse(c.Forecast.Time, c.Forecast.Days); err != nil {
		problems = append(problems, fmt.Errorf("config: forecast schedule: %w", err))
	}
	if _, err := time.LoadLocation(c.Forecast.Timezone); err != nil {
		problems = append(problems, fmt.Errorf("config: forecast.timezone %q: %w", c.Forecast.Timezone, err))
	}

	if c.Secrets.SigningSecret == "" {
		problems = append(problems, fmt.Errorf("config: %s is required", EnvSigningSecret))
	}
	if c.Secrets.BotToken == "" {
		problems = append(problems, fmt.Errorf("config: %s is required", EnvBotToken))
	}

	return errors.Join(problems...)
}

// Location resolves the briefing timezone. Call Validate first; an
// invalid zone falls back to UTC here rather than failing twice.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Forecast.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
