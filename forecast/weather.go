// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// weatherTimeout bounds one gridpoint forecast fetch.
const weatherTimeout = 20 * time.Second

// WeatherPeriod is one NWS forecast period. Period 0 is "today" (or
// "tonight" after dark); period 1 is the following one.
type WeatherPeriod struct {
	Name             string `json:"name"`
	Temperature      *int   `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

// WeatherReport is the NWS gridpoint forecast.
type WeatherReport struct {
	Periods []WeatherPeriod
}

// Today returns the current forecast period, or nil when the report
// is empty.
func (r *WeatherReport) Today() *WeatherPeriod {
	if r == nil || len(r.Periods) == 0 {
		return nil
	}
	return &r.Periods[0]
}

// Tonight returns the second forecast period, or nil.
func (r *WeatherReport) Tonight() *WeatherPeriod {
	if r == nil || len(r.Periods) < 2 {
		return nil
	}
	return &r.Periods[1]
}

// FetchWeather fetches the NWS gridpoint forecast. The request asks
// for ld+json, which carries the periods at the top level, but the
// decoder also accepts the geojson shape with a properties wrapper.
func (c *Client) FetchWeather(ctx context.Context) (*WeatherReport, error) {
	ctx, cancel := context.WithTimeout(ctx, weatherTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.weatherURL, nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: building weather request: %w", err)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/ld+json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("forecast: fetching weather: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast: weather service returned %d", response.StatusCode)
	}
	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		return nil, fmt.Errorf("forecast: reading weather response: %w", err)
	}

	var envelope struct {
		Periods    []WeatherPeriod `json:"periods"`
		Properties struct {
			Periods []WeatherPeriod `json:"periods"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("forecast: parsing weather response: %w", err)
	}

	periods := envelope.Periods
	if len(periods) == 0 {
		periods = envelope.Properties.Periods
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("forecast: weather response has no periods")
	}
	return &WeatherReport{Periods: periods}, nil
}
