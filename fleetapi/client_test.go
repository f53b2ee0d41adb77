// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package fleetapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seagrove-marine/dockbot/interaction"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		Endpoint:       server.URL,
		GarageEndpoint: server.URL,
		AuthToken:      "fleet-token",
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func TestPerformAction(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	var gotPayload ActionPayload

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		fmt.Fprint(w, `{"message":"start accepted"}`)
	})

	target := interaction.MachineTarget{AssetID: "sg-101", Machine: interaction.MachinePrimary}
	payload := ActionPayload{
		Asset:     AssetInfo{ID: "sg-101", Primary: true},
		Operation: "start",
		Machine:   "imx8",
	}
	statusCode, summary, err := client.PerformAction(context.Background(), target, "start", payload)
	if err != nil {
		t.Fatalf("PerformAction() error: %v", err)
	}

	if gotPath != "/uplogd/sg-101/start" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "machine=imx8" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "Bearer fleet-token" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotPayload.Asset.ID != "sg-101" || gotPayload.Operation != "start" {
		t.Errorf("payload = %+v", gotPayload)
	}
	if statusCode != http.StatusOK {
		t.Errorf("statusCode = %d", statusCode)
	}
	if summary != "start accepted" {
		t.Errorf("summary = %q", summary)
	}
}

func TestPerformActionMachineNoneOmitsQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{}`)
	})

	target := interaction.MachineTarget{AssetID: "sg-101", Machine: interaction.MachineNone}
	if _, _, err := client.PerformAction(context.Background(), target, "restart", ActionPayload{}); err != nil {
		t.Fatalf("PerformAction() error: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want empty", gotQuery)
	}
}

func TestPerformActionErrorKeepsServerWords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"detail":"uplogd unreachable"}`)
	})

	target := interaction.MachineTarget{AssetID: "sg-101", Machine: interaction.MachinePrimary}
	statusCode, summary, err := client.PerformAction(context.Background(), target, "stop", ActionPayload{})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if statusCode != http.StatusBadGateway {
		t.Errorf("statusCode = %d, want 502", statusCode)
	}
	if summary != "uplogd unreachable" {
		t.Errorf("summary = %q", summary)
	}
}

func TestPathSegmentEscaping(t *testing.T) {
	var gotURI string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		fmt.Fprint(w, `{}`)
	})

	target := interaction.MachineTarget{AssetID: "sg 101/x", Machine: interaction.MachineNone}
	client.PerformAction(context.Background(), target, "start", ActionPayload{})
	if !strings.HasPrefix(gotURI, "/uplogd/sg%20101%2Fx/start") {
		t.Errorf("request URI = %q", gotURI)
	}

	// Empty segments can never collapse the path shape.
	empty := interaction.MachineTarget{AssetID: "  ", Machine: interaction.MachineNone}
	client.PerformAction(context.Background(), empty, "", ActionPayload{})
	if !strings.HasPrefix(gotURI, "/uplogd/unknown/unknown") {
		t.Errorf("request URI = %q", gotURI)
	}
}

func TestFetchStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uplogd/sg-101/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %q", r.Method)
		}
		fmt.Fprint(w, `{"status":"running"}`)
	})

	target := interaction.MachineTarget{AssetID: "sg-101", Machine: interaction.MachinePrimary}
	status, err := client.FetchStatus(context.Background(), target)
	if err != nil {
		t.Fatalf("FetchStatus() error: %v", err)
	}
	if status.Success == nil || !*status.Success {
		t.Error("Success should be true")
	}
	if status.ResponseSummary != "running" {
		t.Errorf("summary = %q", status.ResponseSummary)
	}
	if status.AssetID != "sg-101" || status.Machine != interaction.MachinePrimary {
		t.Errorf("identity = %q/%q", status.AssetID, status.Machine)
	}
}

func TestFetchStatusFailureCarriesBodyDigest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"no such boat"}`)
	})

	target := interaction.MachineTarget{AssetID: "sg-999", Machine: interaction.MachinePrimary}
	status, err := client.FetchStatus(context.Background(), target)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if status.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", status.StatusCode)
	}
	if status.ResponseSummary != "no such boat" {
		t.Errorf("summary = %q", status.ResponseSummary)
	}
}

func TestSubmitGarageMode(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"message":"entering garage mode"}`)
	})

	statusCode, summary, err := client.SubmitGarageMode(context.Background(), "sg-101", "enter")
	if err != nil {
		t.Fatalf("SubmitGarageMode() error: %v", err)
	}
	if gotPath != "/garage_mode/sg-101" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["action"] != "enter" {
		t.Errorf("action = %v", gotBody["action"])
	}
	if gotBody["pause_netmand"] != true {
		t.Errorf("pause_netmand = %v, want true", gotBody["pause_netmand"])
	}
	if statusCode != http.StatusOK || summary != "entering garage mode" {
		t.Errorf("result = %d %q", statusCode, summary)
	}
}

func TestFetchGarageStatusParsesDeviceTable(t *testing.T) {
	stdout := "garage mode report\n" +
		"device          state      notes\n" +
		"==========================================\n" +
		"cam-fwd         paused     netmand hold\n" +
		"cam-aft         paused\n" +
		"==========================================\n" +
		"trailing text ignored\n"
	response := map[string]any{"message": "ok", "stdout": stdout}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/garage_mode/sg-101/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(response)
	})

	status, err := client.FetchGarageStatus(context.Background(), "sg-101")
	if err != nil {
		t.Fatalf("FetchGarageStatus() error: %v", err)
	}
	if status.ResponseSummary != "ok" {
		t.Errorf("summary = %q", status.ResponseSummary)
	}
	if len(status.Devices) != 2 {
		t.Fatalf("devices = %+v, want 2 rows", status.Devices)
	}
	if status.Devices[0].Device != "cam-fwd" || status.Devices[0].State != "paused" || status.Devices[0].Notes != "netmand hold" {
		t.Errorf("devices[0] = %+v", status.Devices[0])
	}
	if status.Devices[1].Device != "cam-aft" || status.Devices[1].Notes != "" {
		t.Errorf("devices[1] = %+v", status.Devices[1])
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error for missing Endpoint")
	}

	client, err := NewClient(ClientConfig{Endpoint: "http://fleet.local/"})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if client.garageEndpoint != DefaultGarageEndpoint {
		t.Errorf("garageEndpoint = %q, want default", client.garageEndpoint)
	}
	if client.endpoint != "http://fleet.local" {
		t.Errorf("endpoint = %q, want trailing slash trimmed", client.endpoint)
	}
}
