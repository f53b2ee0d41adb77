// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package forecast

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// waveTimeout bounds one buoy fetch.
const waveTimeout = 20 * time.Second

// WaveField is one column of the latest buoy observation.
type WaveField struct {
	// Name is the column header, e.g. "WVHT".
	Name string
	// Unit is the column unit, e.g. "m".
	Unit string
	// Raw is the observation text as published.
	Raw string
	// Value is the numeric observation, or nil when the station
	// reported no data ("MM"/"9999") or a non-numeric token.
	Value *float64
}

// WaveReport is the parsed latest observation from an NDBC realtime2
// station file.
type WaveReport struct {
	// Observed is the observation time (UTC), or the zero time when
	// the file's date columns could not be resolved.
	Observed time.Time
	Fields   []WaveField
}

// Field returns the named column, or nil when the station does not
// publish it.
func (r *WaveReport) Field(name string) *WaveField {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}

// Value returns the named column's numeric value, or nil when the
// column is absent or has no data.
func (r *WaveReport) Value(name string) *float64 {
	if field := r.Field(name); field != nil {
		return field.Value
	}
	return nil
}

// FetchWaves downloads the station's realtime2 text file and parses
// the most recent observation line.
func (c *Client) FetchWaves(ctx context.Context) (*WaveReport, error) {
	ctx, cancel := context.WithTimeout(ctx, waveTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.waveURL, nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: building wave request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("forecast: fetching waves: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast: wave station returned %d", response.StatusCode)
	}
	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		return nil, fmt.Errorf("forecast: reading wave response: %w", err)
	}

	report, err := ParseWaveReport(string(body))
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	return report, nil
}

// ParseWaveReport parses an NDBC realtime2 station file: a "#" header
// line naming the columns, a "#" units line, then observation lines
// newest first. Only the newest observation is kept. "MM" and "9999"
// mark missing data.
func ParseWaveReport(text string) (*WaveReport, error) {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("wave file too short: %d lines", len(lines))
	}

	var header, units, data string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "#") && header == "":
			header = line
		case strings.HasPrefix(line, "#") && units == "":
			units = line
		case !strings.HasPrefix(line, "#") && data == "":
			data = line
		}
	}
	if header == "" || units == "" || data == "" {
		return nil, fmt.Errorf("wave file missing header, units, or data line")
	}

	names := tokenize(header)
	unitNames := tokenize(units)
	values := tokenize(data)

	report := &WaveReport{Fields: make([]WaveField, len(names))}
	for i, name := range names {
		field := WaveField{Name: name}
		if i < len(unitNames) {
			field.Unit = unitNames[i]
		}
		if i < len(values) {
			field.Raw = values[i]
			field.Value = normalizeValue(values[i])
		}
		report.Fields[i] = field
	}
	report.Observed = resolveObservationTime(report)
	return report, nil
}

// tokenize strips the "#" comment prefix and splits on whitespace.
func tokenize(line string) []string {
	return strings.Fields(strings.TrimLeft(line, "# "))
}

// normalizeValue parses one observation token. The station publishes
// "MM" (and occasionally "9999") for missing data.
func normalizeValue(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "MM" || trimmed == "9999" {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &value
}

// resolveObservationTime assembles the observation timestamp from the
// station's date columns. Stations disagree on column names, so each
// component accepts its known aliases. Two-digit years are 2000-based.
func resolveObservationTime(report *WaveReport) time.Time {
	lookup := func(names ...string) (float64, bool) {
		for _, name := range names {
			if value := report.Value(name); value != nil {
				return *value, true
			}
		}
		return 0, false
	}

	year, okYear := lookup("YYYY", "YY", "yr")
	month, okMonth := lookup("MM", "mo")
	day, okDay := lookup("DD", "dy")
	hour, okHour := lookup("hh", "hr")
	minute, okMinute := lookup("mm", "mn")
	if !okYear || !okMonth || !okDay || !okHour || !okMinute {
		return time.Time{}
	}

	if year < 100 {
		year += 2000
	}
	return time.Date(int(year), time.Month(month), int(day), int(hour), int(minute), 0, 0, time.UTC)
}
