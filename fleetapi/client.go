// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package fleetapi calls the fleet's uplogd control API and the
// garage mode service. Methods return the transport status code plus
// a bounded response digest so they plug directly into the
// interaction package's fan-out executor and status refresher.
package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// DefaultGarageEndpoint is the garage mode service address when the
// config leaves it unset. The service runs next to the bot.
const DefaultGarageEndpoint = "http://localhost:8010"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Endpoint is the uplogd control API base URL. Required.
	Endpoint string
	// GarageEndpoint is the garage mode service base URL. Defaults to
	// DefaultGarageEndpoint.
	GarageEndpoint string
	// AuthToken is an optional bearer token sent on every request.
	AuthToken string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client talks to the uplogd control API and the garage mode service.
type Client struct {
	endpoint       string
	garageEndpoint string
	authToken      string
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewClient creates a fleet API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("fleetapi: Endpoint is required")
	}
	garageEndpoint := config.GarageEndpoint
	if garageEndpoint == "" {
		garageEndpoint = DefaultGarageEndpoint
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:       strings.TrimRight(config.Endpoint, "/"),
		garageEndpoint: strings.TrimRight(garageEndpoint, "/"),
		authToken:      config.AuthToken,
		httpClient:     httpClient,
		logger:         logger,
	}, nil
}

// ActionPayload is the body posted with an uplogd action. It carries
// the submission context so the agent can attribute the request.
type ActionPayload struct {
	Asset       AssetInfo    `json:"asset"`
	Operation   string       `json:"operation"`
	Machine     string       `json:"machine,omitempty"`
	Targets     MachineFlags `json:"targets"`
	SubmittedBy string       `json:"submittedBy,omitempty"`
	TeamID      string       `json:"teamId,omitempty"`
	SubmittedAt time.Time    `json:"submittedAt"`
}

// AssetInfo identifies the asset an action payload addresses.
type AssetInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	Primary   bool   `json:"primary"`
	Secondary bool   `json:"secondary"`
}

// MachineFlags mirrors the form's machine checkboxes.
type MachineFlags struct {
	Primary   bool `json:"primary"`
	Secondary bool `json:"secondary"`
}

// garagePayload is the body posted to the garage mode endpoint.
// pause_netmand is always set: netmand fights garage transitions if
// left running.
type garagePayload struct {
	Action       string `json:"action"`
	PauseNetmand bool   `json:"pause_netmand"`
}

// PerformAction issues one uplogd operation against one target:
// POST <endpoint>/uplogd/<asset>/<operation>, with the machine as a
// query parameter when the target names one. Returns the transport
// status code and a bounded digest of the response body; non-2xx
// responses and transport failures are errors, with the digest still
// describing what the server said when it said anything.
func (c *Client) PerformAction(ctx context.Context, target interaction.MachineTarget, operation string, payload ActionPayload) (int, string, error) {
	endpoint := c.endpoint + "/uplogd/" + pathSegment(target.AssetID) + "/" + pathSegment(operation)
	if target.Machine != interaction.MachineNone {
		endpoint += "?machine=" + url.QueryEscape(string(target.Machine))
	}
	return c.postJSON(ctx, endpoint, payload)
}

// FetchStatus fetches live uplogd status for one target:
// GET <endpoint>/uplogd/<asset>/status. Plugs into the status
// refresher as its StatusFetcher.
func (c *Client) FetchStatus(ctx context.Context, target interaction.MachineTarget) (interaction.StatusResult, error) {
	endpoint := c.endpoint + "/uplogd/" + pathSegment(target.AssetID) + "/status"
	statusCode, body, err := c.getJSON(ctx, endpoint)

	status := interaction.StatusResult{
		TargetResult: interaction.TargetResult{
			AssetID:         target.AssetID,
			Machine:         target.Machine,
			StatusCode:      statusCode,
			ResponseSummary: SummarizeResponse(body),
		},
	}
	if err != nil {
		return status, err
	}
	status.Success = interaction.SuccessOf(true)
	return status, nil
}

// SubmitGarageMode posts a garage mode transition for an asset:
// POST <garage endpoint>/garage_mode/<asset> with the action and the
// netmand pause flag.
func (c *Client) SubmitGarageMode(ctx context.Context, assetID, operation string) (int, string, error) {
	endpoint := c.garageEndpoint + "/garage_mode/" + pathSegment(assetID)
	return c.postJSON(ctx, endpoint, garagePayload{Action: operation, PauseNetmand: true})
}

// FetchGarageStatus fetches garage mode status for an asset:
// GET <garage endpoint>/garage_mode/<asset>/status. The response's
// stdout field carries a plain-text device table, parsed into
// per-device rows.
func (c *Client) FetchGarageStatus(ctx context.Context, assetID string) (interaction.StatusResult, error) {
	endpoint := c.garageEndpoint + "/garage_mode/" + pathSegment(assetID) + "/status"
	statusCode, body, err := c.getJSON(ctx, endpoint)

	status := interaction.StatusResult{
		TargetResult: interaction.TargetResult{
			AssetID:         assetID,
			StatusCode:      statusCode,
			ResponseSummary: SummarizeResponse(body),
		},
	}
	if err != nil {
		return status, err
	}

	var response struct {
		Stdout string `json:"stdout"`
	}
	if err := json.Unmarshal(body, &response); err == nil {
		status.Devices = ParseDeviceTable(response.Stdout)
	}
	status.Success = interaction.SuccessOf(true)
	return status, nil
}

// postJSON posts a JSON body and digests the response.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) (int, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("fleetapi: encoding payload: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("fleetapi: building request: %w", err)
	}
	return c.do(request)
}

// getJSON fetches endpoint and returns the raw response body for the
// caller to interpret. Non-2xx responses return the body alongside
// the error so summaries can carry the server's words.
func (c *Client) getJSON(ctx context.Context, endpoint string) (int, []byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("fleetapi: building request: %w", err)
	}
	c.setHeaders(request)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("fleetapi: %w", err)
	}
	defer response.Body.Close()

	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		return response.StatusCode, nil, fmt.Errorf("fleetapi: reading response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response.StatusCode, body, fmt.Errorf("fleetapi: %s returned %d", request.URL.Path, response.StatusCode)
	}
	return response.StatusCode, body, nil
}

func (c *Client) do(request *http.Request) (int, string, error) {
	c.setHeaders(request)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, "", fmt.Errorf("fleetapi: %w", err)
	}
	defer response.Body.Close()

	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		return response.StatusCode, "", fmt.Errorf("fleetapi: reading response: %w", err)
	}

	summary := SummarizeResponse(body)
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response.StatusCode, summary, fmt.Errorf("fleetapi: %s returned %d", request.URL.Path, response.StatusCode)
	}
	return response.StatusCode, summary, nil
}

func (c *Client) setHeaders(request *http.Request) {
	request.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		request.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// pathSegment URL-escapes one path segment. Empty or whitespace-only
// segments become "unknown" so a malformed id can never change the
// URL's shape.
func pathSegment(segment string) string {
	trimmed := strings.TrimSpace(segment)
	if trimmed == "" {
		return "unknown"
	}
	return url.PathEscape(trimmed)
}
