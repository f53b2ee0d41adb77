// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// tideTimeout bounds one tide prediction fetch.
const tideTimeout = 20 * time.Second

// TidePrediction is one high or low water prediction for today.
type TidePrediction struct {
	// Time is the station-local prediction time, "2006-01-02 15:04".
	Time string
	// HeightFt is the predicted height in feet (MLLW), or nil when
	// the station omitted it.
	HeightFt *float64
	// Type is "High" or "Low".
	Type string
}

// FetchTides fetches today's high/low predictions from the NOAA
// datagetter, scoped to the briefing timezone's current date.
func (c *Client) FetchTides(ctx context.Context) ([]TidePrediction, error) {
	ctx, cancel := context.WithTimeout(ctx, tideTimeout)
	defer cancel()

	today := c.localDate("20060102")
	query := url.Values{
		"product":     {"predictions"},
		"application": {"dockbot"},
		"begin_date":  {today},
		"end_date":    {today},
		"datum":       {"MLLW"},
		"station":     {c.tideStation},
		"time_zone":   {"lst_ldt"},
		"units":       {"english"},
		"interval":    {"hilo"},
		"format":      {"json"},
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tideEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: building tide request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("forecast: fetching tides: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast: tide service returned %d", response.StatusCode)
	}
	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		return nil, fmt.Errorf("forecast: reading tide response: %w", err)
	}

	var envelope struct {
		Predictions []struct {
			T    string `json:"t"`
			V    string `json:"v"`
			Type string `json:"type"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("forecast: parsing tide response: %w", err)
	}
	if envelope.Predictions == nil {
		return nil, fmt.Errorf("forecast: tide response has no predictions")
	}

	predictions := make([]TidePrediction, 0, len(envelope.Predictions))
	for _, entry := range envelope.Predictions {
		prediction := TidePrediction{Time: entry.T, Type: "Low"}
		if entry.Type == "H" {
			prediction.Type = "High"
		}
		if height, err := strconv.ParseFloat(entry.V, 64); err == nil {
			prediction.HeightFt = &height
		}
		predictions = append(predictions, prediction)
	}
	return predictions, nil
}
