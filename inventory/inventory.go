// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package inventory fetches the fleet asset list from the inventory
// service. The service's response shape varies by deployment, so the
// client resolves the asset array from an explicit ordered list of
// envelope field names and tolerates both string and object entries.
//
// Inventory failures never block an interaction: FetchAssets degrades
// to an empty list with a logged warning, and the caller renders a
// "no assets available" state.
package inventory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// assetPrefixes are the fleet prefixes an asset name must carry to be
// offered in control forms.
var assetPrefixes = []string{"sg", "by", "cr"}

// envelopeFields are the accepted names for the asset array inside an
// object envelope, resolved in order.
var envelopeFields = []string{"assets", "items", "results", "data", "records"}

// nameFields are the accepted names for an entry's asset name inside
// an object entry, resolved in order.
var nameFields = []string{"asset", "name", "title", "label", "display_name", "slug"}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Endpoint is the full URL of the asset list endpoint. Empty
	// disables inventory lookup; FetchAssets returns an empty list.
	Endpoint string
	// AuthToken is an optional bearer token.
	AuthToken string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client fetches assets from the inventory service.
type Client struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an inventory client.
func NewClient(config ClientConfig) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   config.Endpoint,
		authToken:  config.AuthToken,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchAssets returns the prefix-filtered, naturally sorted asset
// list. Any failure degrades to an empty list with a warning; the
// interactive flow must keep working when inventory is down.
func (c *Client) FetchAssets(ctx context.Context) []interaction.Asset {
	if c.endpoint == "" {
		c.logger.Warn("inventory endpoint not configured; showing empty asset list")
		return nil
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		c.logger.Warn("inventory request build failed", "error", err)
		return nil
	}
	if c.authToken != "" {
		request.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Warn("inventory fetch failed", "error", err)
		return nil
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		c.logger.Warn("inventory fetch returned error status",
			"status", response.StatusCode, "body", httpx.ErrorBody(response.Body))
		return nil
	}

	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		c.logger.Warn("inventory response read failed", "error", err)
		return nil
	}

	entries, err := resolveAssetArray(body)
	if err != nil {
		c.logger.Warn("inventory response parse failed", "error", err)
		return nil
	}

	assets := make([]interaction.Asset, 0, len(entries))
	for _, entry := range entries {
		asset, ok := decodeEntry(entry)
		if !ok || !matchesPrefix(asset.ID) {
			continue
		}
		assets = append(assets, asset)
	}

	sort.SliceStable(assets, func(i, j int) bool {
		return compareNatural(assets[i].ID, assets[j].ID) < 0
	})

	c.logger.Debug("fetched assets", "raw", len(entries), "filtered", len(assets))
	return assets
}

// resolveAssetArray extracts the asset entry list from the response
// body: either a bare top-level array, or the first present array
// among the accepted envelope fields.
func resolveAssetArray(body []byte) ([]json.RawMessage, error) {
	var direct []json.RawMessage
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	for _, field := range envelopeFields {
		raw, ok := envelope[field]
		if !ok {
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, nil
		}
	}
	return nil, nil
}

// assetEntry is the object form of one inventory entry.
type assetEntry struct {
	Asset       string `json:"asset"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Label       string `json:"label"`
	DisplayName string `json:"display_name"`
	Slug        string `json:"slug"`

	Primary   bool `json:"primary"`
	Secondary bool `json:"secondary"`

	LastAutoPLT string `json:"last_auto_plt_time"`
	LastAuto    string `json:"lastAuto"`
}

// decodeEntry converts one raw entry (string or object) into an Asset.
// Entries with no resolvable name are dropped.
func decodeEntry(raw json.RawMessage) (interaction.Asset, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if name == "" {
			return interaction.Asset{}, false
		}
		return interaction.Asset{ID: name, Label: name}, true
	}

	var entry assetEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return interaction.Asset{}, false
	}
	for _, candidate := range []string{entry.Asset, entry.Name, entry.Title, entry.Label, entry.DisplayName, entry.Slug} {
		if candidate != "" {
			name = candidate
			break
		}
	}
	if name == "" {
		return interaction.Asset{}, false
	}

	lastAuto := entry.LastAutoPLT
	if lastAuto == "" {
		lastAuto = entry.LastAuto
	}
	return interaction.Asset{
		ID:        name,
		Label:     name,
		Primary:   entry.Primary,
		Secondary: entry.Secondary,
		LastAuto:  lastAuto,
	}, true
}

func matchesPrefix(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range assetPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// compareNatural orders names case-insensitively with embedded digit
// runs compared by numeric value, so sg-2 sorts before sg-10.
func compareNatural(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		aDigits, aRest := splitLeadingDigits(a)
		bDigits, bRest := splitLeadingDigits(b)

		if aDigits != "" && bDigits != "" {
			if c := compareNumeric(aDigits, bDigits); c != 0 {
				return c
			}
			a, b = aRest, bRest
			continue
		}

		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// splitLeadingDigits splits s into its leading digit run and the rest.
func splitLeadingDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// compareNumeric compares two digit strings by numeric value without
// parsing, so arbitrarily long runs cannot overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
