// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// sunTimeout bounds one sunrise/sunset fetch.
const sunTimeout = 15 * time.Second

// SunReport holds today's sun times, already converted to the
// briefing timezone.
type SunReport struct {
	Sunrise   time.Time
	Sunset    time.Time
	SolarNoon time.Time

	// DayLength is the daylight duration, or zero when the provider
	// omitted it.
	DayLength time.Duration
}

// FetchSun fetches today's sunrise/sunset times for the configured
// coordinates and converts them to the briefing timezone.
func (c *Client) FetchSun(ctx context.Context) (*SunReport, error) {
	ctx, cancel := context.WithTimeout(ctx, sunTimeout)
	defer cancel()

	query := url.Values{
		"lat":       {c.latitude},
		"lng":       {c.longitude},
		"date":      {c.localDate("2006-01-02")},
		"formatted": {"0"},
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sunEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: building sun request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("forecast: fetching sun times: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast: sun service returned %d", response.StatusCode)
	}
	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		return nil, fmt.Errorf("forecast: reading sun response: %w", err)
	}

	var envelope struct {
		Status  string `json:"status"`
		Results struct {
			Sunrise   string  `json:"sunrise"`
			Sunset    string  `json:"sunset"`
			SolarNoon string  `json:"solar_noon"`
			DayLength float64 `json:"day_length"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("forecast: parsing sun response: %w", err)
	}
	if envelope.Status != "OK" {
		return nil, fmt.Errorf("forecast: sun service status %q", envelope.Status)
	}

	report := &SunReport{
		DayLength: time.Duration(envelope.Results.DayLength) * time.Second,
	}
	if report.Sunrise, err = c.localTime(envelope.Results.Sunrise); err != nil {
		return nil, err
	}
	if report.Sunset, err = c.localTime(envelope.Results.Sunset); err != nil {
		return nil, err
	}
	if report.SolarNoon, err = c.localTime(envelope.Results.SolarNoon); err != nil {
		return nil, err
	}
	return report, nil
}

// localTime parses an RFC 3339 instant and shifts it to the briefing
// timezone.
func (c *Client) localTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("forecast: parsing sun time %q: %w", value, err)
	}
	return parsed.In(c.location), nil
}
