// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package forecast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Conversion factors for provider units.
const (
	metersToFeet = 3.28084
	mphToKnots   = 0.868976
)

// MetersToFeet converts meters to feet.
func MetersToFeet(meters float64) float64 {
	return meters * metersToFeet
}

// MPHToKnots converts miles per hour to knots.
func MPHToKnots(mph float64) float64 {
	return mph * mphToKnots
}

// cardinals are the 8-point compass directions, clockwise from north.
var cardinals = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// arrows maps each cardinal to its emoji arrow.
var arrows = map[string]string{
	"N":  "⬆️",
	"NE": "↗️",
	"E":  "➡️",
	"SE": "↘️",
	"S":  "⬇️",
	"SW": "↙️",
	"W":  "⬅️",
	"NW": "↖️",
}

// DegreesToCardinal maps a bearing to the nearest 8-point cardinal.
func DegreesToCardinal(degrees float64) string {
	index := int(math.Round(degrees/45)) % 8
	if index < 0 {
		index += 8
	}
	return cardinals[index]
}

// DirectionArrow returns the emoji arrow for a cardinal direction, or
// "" for anything it does not recognize.
func DirectionArrow(cardinal string) string {
	return arrows[strings.ToUpper(cardinal)]
}

// WindSpeedKnots converts an NWS wind speed phrase ("5 to 10 mph")
// into a knots range ("4 - 9 kts"). Returns "" when the phrase
// carries no numbers.
func WindSpeedKnots(speed string) string {
	numbers := extractNumbers(speed)
	if len(numbers) == 0 {
		return ""
	}

	low := int(math.Round(MPHToKnots(numbers[0])))
	if len(numbers) == 1 {
		return fmt.Sprintf("%d kts", low)
	}
	high := int(math.Round(MPHToKnots(numbers[1])))
	return fmt.Sprintf("%d - %d kts", low, high)
}

// extractNumbers pulls every decimal number out of a phrase, in
// order.
func extractNumbers(s string) []float64 {
	var numbers []float64
	start := -1
	flush := func(end int) {
		if start == -1 {
			return
		}
		if value, err := strconv.ParseFloat(s[start:end], 64); err == nil {
			numbers = append(numbers, value)
		}
		start = -1
	}
	for i := 0; i < len(s); i++ {
		if (s[i] >= '0' && s[i] <= '9') || s[i] == '.' {
			if start == -1 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(s))
	return numbers
}

// FormatClock renders a time in the 12-hour briefing style, e.g.
// "6:24 AM".
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// ParseLocalClock parses a station-local "2006-01-02 15:04" string
// (the NOAA tide time format) and renders it 12-hour. Unparseable
// input is returned unchanged.
func ParseLocalClock(value string) string {
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		return value
	}
	return FormatClock(parsed)
}
