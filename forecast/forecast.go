// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package forecast collects the San Diego marine briefing: buoy wave
// observations (NDBC), the NWS gridpoint forecast, NOAA tide
// predictions, and sunrise/sunset times. Collect fans out over all
// four providers and settles every fetch; a failed provider leaves
// its section nil and the briefing still posts with what it has.
package forecast

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/seagrove-marine/dockbot/lib/clock"
)

// Default provider endpoints and site parameters (San Diego).
const (
	DefaultWaveURL      = "https://www.ndbc.noaa.gov/data/realtime2/46232.txt"
	DefaultWeatherURL   = "https://api.weather.gov/gridpoints/SGX/54,13/forecast"
	DefaultTideEndpoint = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	DefaultTideStation  = "9410170"
	DefaultSunEndpoint  = "https://api.sunrise-sunset.org/json"
	DefaultLatitude     = "32.7157"
	DefaultLongitude    = "-117.1611"
)

// userAgent identifies the bot to providers that require one (the NWS
// API rejects anonymous clients).
const userAgent = "dockbot/1.0 (forecast)"

// ClientConfig holds configuration for creating a Client. Zero-value
// fields fall back to the San Diego defaults.
type ClientConfig struct {
	WaveURL      string
	WeatherURL   string
	TideEndpoint string
	TideStation  string
	SunEndpoint  string
	Latitude     string
	Longitude    string

	// Location is the local timezone for dates and clock rendering.
	// If nil, America/Los_Angeles is loaded.
	Location *time.Location

	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
	// Clock supplies "today" for date-scoped queries. If nil, the
	// real clock is used.
	Clock clock.Clock
}

// Client fetches forecast sections from the four providers.
type Client struct {
	waveURL      string
	weatherURL   string
	tideEndpoint string
	tideStation  string
	sunEndpoint  string
	latitude     string
	longitude    string

	location   *time.Location
	httpClient *http.Client
	logger     *slog.Logger
	clk        clock.Clock
}

// NewClient creates a forecast client.
func NewClient(config ClientConfig) *Client {
	location := config.Location
	if location == nil {
		loaded, err := time.LoadLocation("America/Los_Angeles")
		if err != nil {
			loaded = time.UTC
		}
		location = loaded
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	client := &Client{
		waveURL:      config.WaveURL,
		weatherURL:   config.WeatherURL,
		tideEndpoint: config.TideEndpoint,
		tideStation:  config.TideStation,
		sunEndpoint:  config.SunEndpoint,
		latitude:     config.Latitude,
		longitude:    config.Longitude,
		location:     location,
		httpClient:   httpClient,
		logger:       logger,
		clk:          clk,
	}
	if client.waveURL == "" {
		client.waveURL = DefaultWaveURL
	}
	if client.weatherURL == "" {
		client.weatherURL = DefaultWeatherURL
	}
	if client.tideEndpoint == "" {
		client.tideEndpoint = DefaultTideEndpoint
	}
	if client.tideStation == "" {
		client.tideStation = DefaultTideStation
	}
	if client.sunEndpoint == "" {
		client.sunEndpoint = DefaultSunEndpoint
	}
	if client.latitude == "" {
		client.latitude = DefaultLatitude
	}
	if client.longitude == "" {
		client.longitude = DefaultLongitude
	}
	return client
}

// Location returns the local timezone the briefing renders in.
func (c *Client) Location() *time.Location {
	return c.location
}

// Report is one collected briefing. A nil (or empty) section means
// that provider failed; the renderer shows N/A for it.
type Report struct {
	Waves   *WaveReport
	Weather *WeatherReport
	Tides   []TidePrediction
	Sun     *SunReport
}

// Collect fetches all four sections concurrently and waits for every
// fetch to settle. Provider failures are logged and leave their
// section unset; Collect itself never fails.
func (c *Client) Collect(ctx context.Context) Report {
	var report Report
	var wg sync.WaitGroup

	wg.Add(4)
	go func() {
		defer wg.Done()
		waves, err := c.FetchWaves(ctx)
		if err != nil {
			c.logger.Error("wave fetch failed", "error", err)
			return
		}
		report.Waves = waves
	}()
	go func() {
		defer wg.Done()
		weather, err := c.FetchWeather(ctx)
		if err != nil {
			c.logger.Error("weather fetch failed", "error", err)
			return
		}
		report.Weather = weather
	}()
	go func() {
		defer wg.Done()
		tides, err := c.FetchTides(ctx)
		if err != nil {
			c.logger.Error("tide fetch failed", "error", err)
			return
		}
		report.Tides = tides
	}()
	go func() {
		defer wg.Done()
		sun, err := c.FetchSun(ctx)
		if err != nil {
			c.logger.Error("sun fetch failed", "error", err)
			return
		}
		report.Sun = sun
	}()

	wg.Wait()
	return report
}

// localDate formats today's date in the briefing timezone.
func (c *Client) localDate(layout string) string {
	return c.clk.Now().In(c.location).Format(layout)
}
