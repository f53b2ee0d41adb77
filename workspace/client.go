// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// APIURL is the base URL of the workspace Web API
	// (e.g. "https://slack.com/api").
	APIURL string
	// BotToken authenticates Web API calls.
	BotToken string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is an authenticated workspace Web API client.
type Client struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a workspace Web API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIURL == "" {
		return nil, fmt.Errorf("workspace: APIURL is required")
	}
	if _, err := url.Parse(config.APIURL); err != nil {
		return nil, fmt.Errorf("workspace: invalid APIURL %q: %w", config.APIURL, err)
	}
	if config.BotToken == "" {
		return nil, fmt.Errorf("workspace: BotToken is required")
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
		baseURL:    strings.TrimRight(config.APIURL, "/"),
		botToken:   config.BotToken,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// apiEnvelope is the common ok/error wrapper on every Web API
// response. Method-specific fields are decoded separately from the
// same body.
type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessageResponse is returned by PostMessage.
type PostMessageResponse struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

// PostMessage posts a new message to a channel or direct conversation
// and returns its coordinates for later in-place updates.
func (c *Client) PostMessage(ctx context.Context, channel string, message Message) (*PostMessageResponse, error) {
	request := struct {
		Channel string `json:"channel"`
		Message
	}{Channel: channel, Message: message}

	var response PostMessageResponse
	if err := c.doRequest(ctx, "chat.postMessage", request, &response); err != nil {
		return nil, fmt.Errorf("workspace: post message to %s: %w", channel, err)
	}
	return &response, nil
}

// UpdateMessage replaces an existing message's content in place,
// addressed by its channel and timestamp coordinates.
func (c *Client) UpdateMessage(ctx context.Context, channel, ts string, message Message) error {
	request := struct {
		Channel string `json:"channel"`
		TS      string `json:"ts"`
		Message
	}{Channel: channel, TS: ts, Message: message}

	if err := c.doRequest(ctx, "chat.update", request, nil); err != nil {
		return fmt.Errorf("workspace: update message %s/%s: %w", channel, ts, err)
	}
	return nil
}

// PostEphemeral posts a message visible only to one user in a
// channel.
func (c *Client) PostEphemeral(ctx context.Context, channel, userID string, message Message) error {
	request := struct {
		Channel string `json:"channel"`
		User    string `json:"user"`
		Message
	}{Channel: channel, User: userID, Message: message}

	if err := c.doRequest(ctx, "chat.postEphemeral", request, nil); err != nil {
		return fmt.Errorf("workspace: post ephemeral to %s in %s: %w", userID, channel, err)
	}
	return nil
}

// OpenView opens a modal view in response to a user interaction. The
// trigger ID expires seconds after the triggering event, so call this
// promptly.
func (c *Client) OpenView(ctx context.Context, triggerID string, view View) error {
	request := struct {
		TriggerID string `json:"trigger_id"`
		View      View   `json:"view"`
	}{TriggerID: triggerID, View: view}

	if err := c.doRequest(ctx, "views.open", request, nil); err != nil {
		return fmt.Errorf("workspace: open view: %w", err)
	}
	return nil
}

// UpdateView replaces an open modal's content. hash guards against
// concurrent updates clobbering each other; pass the hash from the
// triggering event.
func (c *Client) UpdateView(ctx context.Context, viewID, hash string, view View) error {
	request := struct {
		ViewID string `json:"view_id"`
		Hash   string `json:"hash,omitempty"`
		View   View   `json:"view"`
	}{ViewID: viewID, Hash: hash, View: view}

	if err := c.doRequest(ctx, "views.update", request, nil); err != nil {
		return fmt.Errorf("workspace: update view %s: %w", viewID, err)
	}
	return nil
}

// ResponseMessage is a message delivered through an interaction's
// response URL rather than the Web API.
type ResponseMessage struct {
	ResponseType    string `json:"response_type,omitempty"` // "ephemeral" or "in_channel"
	ReplaceOriginal bool   `json:"replace_original,omitempty"`
	Message
}

// Respond delivers a message through a response URL. Response URLs
// are pre-authenticated, so no bot token is attached.
func (c *Client) Respond(ctx context.Context, responseURL string, message ResponseMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("workspace: encoding response message: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("workspace: building response request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("workspace: responding via response URL: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("workspace: response URL returned %d: %s",
			response.StatusCode, httpx.ErrorBody(response.Body))
	}
	return nil
}

// doRequest performs a Web API call and decodes the response into
// result (when non-nil). Platform-level failures (ok=false) surface
// as *APIError.
func (c *Client) doRequest(ctx context.Context, method string, requestBody any, result any) error {
	body, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json; charset=utf-8")
	request.Header.Set("Authorization", "Bearer "+c.botToken)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	data, err := httpx.ReadBody(response.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parsing response envelope: %w", err)
	}
	if !envelope.OK {
		return &APIError{Code: envelope.Error, StatusCode: response.StatusCode}
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parsing %s response: %w", method, err)
		}
	}
	return nil
}
