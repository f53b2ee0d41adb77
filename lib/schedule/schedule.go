// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package schedule computes the next occurrence of a daily wall-clock
// time restricted to a set of weekdays. This is the shape of every
// recurring job dockbot runs (the weekday-morning briefing); a full
// cron grammar would be unused surface.
//
// The time of day is "HH:MM" in 24-hour form. The day field supports:
//
//   - Wildcard: *
//   - Names: mon, tue, wed, thu, fri, sat, sun
//   - Numbers: 0-6 (0 = Sunday)
//   - Ranges: mon-fri, 1-5
//   - Lists: mon,wed,fri
//
// Occurrences are computed in the location passed to Next, so "08:00"
// tracks local civil time across DST transitions.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Daily is a parsed daily schedule. Use Parse to create one, then call
// Next to compute the next matching time.
type Daily struct {
	hour   int
	minute int
	days   dayset
}

// dayset uses a uint8 as a compact set of weekdays 0-6 (0 = Sunday).
type dayset uint8

func (d dayset) has(day time.Weekday) bool { return d&(1<<uint(day)) != 0 }
func (d *dayset) set(day int)              { *d |= 1 << uint(day) }

var dayNames = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// Parse parses a "HH:MM" time of day and a weekday field. Returns an
// error if either is malformed or out of range.
func Parse(timeOfDay, days string) (Daily, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return Daily{}, err
	}

	set, err := parseDays(days)
	if err != nil {
		return Daily{}, fmt.Errorf("schedule: day field: %w", err)
	}

	return Daily{hour: hour, minute: minute, days: set}, nil
}

// ParseTimeOfDay parses "HH:MM" in 24-hour form.
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("schedule: time of day %q: expected HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("schedule: time of day %q: hour out of range", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("schedule: time of day %q: minute out of range", value)
	}
	return hour, minute, nil
}

// Next returns the earliest time strictly after t at which the
// schedule fires, computed in t's location.
func (d Daily) Next(t time.Time) time.Time {
	candidate := time.Date(t.Year(), t.Month(), t.Day(), d.hour, d.minute, 0, 0, t.Location())
	if !candidate.After(t) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	// At most 7 iterations: the dayset is never empty after Parse.
	for !d.days.has(candidate.Weekday()) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// parseDays parses a comma-separated list of weekday terms.
func parseDays(field string) (dayset, error) {
	var result dayset
	for _, term := range strings.Split(field, ",") {
		if err := parseDayTerm(strings.TrimSpace(term), &result); err != nil {
			return 0, err
		}
	}
	if result == 0 {
		return 0, fmt.Errorf("field %q produces empty set", field)
	}
	return result, nil
}

func parseDayTerm(term string, result *dayset) error {
	if term == "*" {
		for day := 0; day <= 6; day++ {
			result.set(day)
		}
		return nil
	}

	if dashIndex := strings.IndexByte(term, '-'); dashIndex >= 0 {
		start, err := parseDay(term[:dashIndex])
		if err != nil {
			return err
		}
		end, err := parseDay(term[dashIndex+1:])
		if err != nil {
			return err
		}
		if start > end {
			return fmt.Errorf("range start %d > end %d", start, end)
		}
		for day := start; day <= end; day++ {
			result.set(day)
		}
		return nil
	}

	day, err := parseDay(term)
	if err != nil {
		return err
	}
	result.set(day)
	return nil
}

func parseDay(value string) (int, error) {
	if day, ok := dayNames[strings.ToLower(value)]; ok {
		return day, nil
	}
	day, err := strconv.Atoi(value)
	if err != nil || day < 0 || day > 6 {
		return 0, fmt.Errorf("invalid day %q", value)
	}
	return day, nil
}
