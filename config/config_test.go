// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalConfig = `
endpoints:
  fleet_api: http://localhost:8000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dockbot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv(EnvSigningSecret, "sekrit")
	t.Setenv(EnvBotToken, "xoxb-test")
	t.Setenv(EnvFleetToken, "")
	t.Setenv(EnvAssetsToken, "")
}

func TestLoadMinimal(t *testing.T) {
	setSecrets(t)
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Endpoints.FleetAPI != "http://localhost:8000" {
		t.Errorf("fleet_api = %q", cfg.Endpoints.FleetAPI)
	}
	if cfg.Listen.Address != ":3000" {
		t.Errorf("listen address = %q, want default", cfg.Listen.Address)
	}
	if cfg.Endpoints.WorkspaceAPI != "https://slack.com/api" {
		t.Errorf("workspace_api = %q, want default", cfg.Endpoints.WorkspaceAPI)
	}
	if cfg.Channels.ResponseMode != "update" {
		t.Errorf("response_mode = %q, want default", cfg.Channels.ResponseMode)
	}
	if cfg.Forecast.Time != "08:00" || cfg.Forecast.Days != "mon-fri" {
		t.Errorf("forecast schedule = %q %q, want defaults", cfg.Forecast.Time, cfg.Forecast.Days)
	}
	if cfg.Secrets.SigningSecret != "sekrit" || cfg.Secrets.BotToken != "xoxb-test" {
		t.Errorf("secrets = %+v", cfg.Secrets)
	}
	if cfg.Location().String() != "America/Los_Angeles" {
		t.Errorf("location = %q", cfg.Location())
	}
}

func TestLoadFullFile(t *testing.T) {
	setSecrets(t)
	t.Setenv(EnvFleetToken, "fleet-token")

	cfg, err := Load(writeConfig(t, `
listen:
  address: 127.0.0.1:8080
endpoints:
  fleet_api: http://fleet:8000
  garage_api: http://fleet:8010
  assets: http://inventory:9000/assets
  wave_url: http://fake/waves.txt
channels:
  updates: C-OPS
  forecast: C-MARINA
  response_mode: ephemeral
forecast:
  time: "06:30"
  days: mon,wed,fri
  timezone: UTC
service:
  label: uplogd
`))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Listen.Address != "127.0.0.1:8080" {
		t.Errorf("address = %q", cfg.Listen.Address)
	}
	if cfg.Channels.ResponseMode != "ephemeral" || cfg.Channels.Updates != "C-OPS" {
		t.Errorf("channels = %+v", cfg.Channels)
	}
	if cfg.Forecast.Time != "06:30" {
		t.Errorf("forecast time = %q", cfg.Forecast.Time)
	}
	if cfg.Secrets.FleetToken != "fleet-token" {
		t.Errorf("fleet token = %q", cfg.Secrets.FleetToken)
	}
	if cfg.Location().String() != "UTC" {
		t.Errorf("location = %q", cfg.Location())
	}
}

func TestLoadRequiresPath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	if _, err := Load(""); err == nil {
		t.Error("Load() succeeded without a config path")
	}
}

func TestLoadEnvFallbackPath(t *testing.T) {
	setSecrets(t)
	path := writeConfig(t, minimalConfig)
	t.Setenv(EnvConfig, path)

	if _, err := Load(""); err != nil {
		t.Errorf("Load() with %s error: %v", EnvConfig, err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	setSecrets(t)
	_, err := Load(writeConfig(t, minimalConfig+"\nbogus_section:\n  x: 1\n"))
	if err == nil {
		t.Error("Load() accepted unknown fields")
	}
}

func TestValidateJoinsAllProblems(t *testing.T) {
	t.Setenv(EnvSigningSecret, "")
	t.Setenv(EnvBotToken, "")

	_, err := Load(writeConfig(t, `
channels:
  response_mode: shouty
forecast:
  time: "25:00"
  timezone: Mars/Olympus
`))
	if err == nil {
		t.Fatal("Load() succeeded, want joined validation errors")
	}

	for _, want := range []string{
		"fleet_api is required",
		"response_mode",
		"forecast schedule",
		"forecast.timezone",
		EnvSigningSecret,
		EnvBotToken,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() succeeded on missing file")
	}
}
