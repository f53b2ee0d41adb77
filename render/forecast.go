// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/seagrove-marine/dockbot/forecast"
	"github.com/seagrove-marine/dockbot/workspace"
)

// unavailable marks a briefing line whose provider failed. The rest of
// the briefing still posts.
const unavailable = "_unavailable_"

// Forecast renders the daily marine briefing. now must already be in
// the briefing timezone; it supplies the date in the header.
func Forecast(report forecast.Report, now time.Time) workspace.Message {
	date := now.Format("Jan 2, 2006")
	message := workspace.Message{
		Text: fmt.Sprintf("San Diego marine forecast for %s", date),
	}

	message.Blocks = append(message.Blocks,
		workspace.Header(fmt.Sprintf("San Diego, CA || %s", date)),
		workspace.Divider(),
		workspace.Section(strings.Join([]string{
			"🌡 *Temps:* " + tempLine(report.Weather),
			"💨 *Winds:* " + windLine(report.Weather),
			"🌊 *Waves:* " + waveLine(report.Waves),
			"☀️ *Daylight:* " + daylightLine(report.Sun),
		}, "\n")),
	)

	if today := report.Weather.Today(); today != nil && today.ShortForecast != "" {
		message.Blocks = append(message.Blocks, workspace.ContextNote(today.ShortForecast))
	}

	message.Blocks = append(message.Blocks,
		workspace.Divider(),
		workspace.Section("🏝️ *Tides:*\n"+tideLines(report.Tides)),
	)
	return message
}

func tempLine(weather *forecast.WeatherReport) string {
	today := weather.Today()
	tonight := weather.Tonight()
	if today == nil || today.Temperature == nil {
		return unavailable
	}

	line := fmt.Sprintf("%d°%s", *today.Temperature, temperatureUnit(today))
	if tonight != nil && tonight.Temperature != nil {
		line += fmt.Sprintf(" / %d°%s overnight", *tonight.Temperature, temperatureUnit(tonight))
	}
	return line
}

func temperatureUnit(period *forecast.WeatherPeriod) string {
	if period.TemperatureUnit == "" {
		return "F"
	}
	return period.TemperatureUnit
}

func windLine(weather *forecast.WeatherReport) string {
	today := weather.Today()
	if today == nil || today.WindSpeed == "" {
		return unavailable
	}

	speed := forecast.WindSpeedKnots(today.WindSpeed)
	if speed == "" {
		speed = today.WindSpeed
	}

	parts := []string{}
	if today.WindDirection != "" {
		parts = append(parts, today.WindDirection)
		if arrow := forecast.DirectionArrow(today.WindDirection); arrow != "" {
			parts = append(parts, arrow)
		}
	}
	parts = append(parts, speed)
	return strings.Join(parts, " ")
}

func waveLine(waves *forecast.WaveReport) string {
	if waves == nil {
		return unavailable
	}
	height := waves.Value("WVHT")
	if height == nil {
		return unavailable
	}

	line := fmt.Sprintf("%.1f ft", forecast.MetersToFeet(*height))
	if period := waves.Value("DPD"); period != nil {
		line += fmt.Sprintf(" @ %.0f s", *period)
	}
	if direction := waves.Value("MWD"); direction != nil {
		cardinal := forecast.DegreesToCardinal(*direction)
		line += " from " + cardinal
		if arrow := forecast.DirectionArrow(cardinal); arrow != "" {
			line += " " + arrow
		}
	}
	return line
}

func daylightLine(sun *forecast.SunReport) string {
	if sun == nil {
		return unavailable
	}

	line := fmt.Sprintf("%s to %s",
		forecast.FormatClock(sun.Sunrise), forecast.FormatClock(sun.Sunset))
	if sun.DayLength > 0 {
		hours := int(sun.DayLength.Hours())
		minutes := int(sun.DayLength.Minutes()) % 60
		line += fmt.Sprintf(" (%dh %dm)", hours, minutes)
	}
	return line
}

func tideLines(tides []forecast.TidePrediction) string {
	if len(tides) == 0 {
		return unavailable
	}

	lines := make([]string, 0, len(tides))
	for _, tide := range tides {
		line := fmt.Sprintf("%s  %s", tide.Type, forecast.ParseLocalClock(tide.Time))
		if tide.HeightFt != nil {
			line += fmt.Sprintf("  %.1f ft", *tide.HeightFt)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
