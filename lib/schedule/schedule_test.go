// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"strings"
	"testing"
	"time"
)

func mustParse(t *testing.T, timeOfDay, days string) Daily {
	t.Helper()
	daily, err := Parse(timeOfDay, days)
	if err != nil {
		t.Fatalf("Parse(%q, %q): %v", timeOfDay, days, err)
	}
	return daily
}

func pacific(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name      string
		timeOfDay string
		days      string
		wantErr   string
	}{
		{"no_colon", "0800", "*", "expected HH:MM"},
		{"hour_out_of_range", "24:00", "*", "hour out of range"},
		{"minute_out_of_range", "08:60", "*", "minute out of range"},
		{"bad_day_name", "08:00", "moonday", "invalid day"},
		{"day_out_of_range", "08:00", "7", "invalid day"},
		{"reversed_range", "08:00", "fri-mon", "range start"},
		{"empty_days", "08:00", "", "invalid day"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.timeOfDay, test.days)
			if err == nil {
				t.Fatalf("Parse(%q, %q) = nil, want error containing %q", test.timeOfDay, test.days, test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Parse(%q, %q) = %q, want error containing %q", test.timeOfDay, test.days, err, test.wantErr)
			}
		})
	}
}

func TestNextSameDay(t *testing.T) {
	daily := mustParse(t, "08:00", "mon-fri")
	loc := pacific(t)

	// Monday 2026-03-02 at 06:30 local.
	now := time.Date(2026, 3, 2, 6, 30, 0, 0, loc)
	next := daily.Next(now)
	want := time.Date(2026, 3, 2, 8, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, next, want)
	}
}

func TestNextSkipsWeekend(t *testing.T) {
	daily := mustParse(t, "08:00", "mon-fri")
	loc := pacific(t)

	// Friday 2026-03-06 at 09:00 local — past today's firing.
	now := time.Date(2026, 3, 6, 9, 0, 0, 0, loc)
	next := daily.Next(now)
	want := time.Date(2026, 3, 9, 8, 0, 0, 0, loc) // Monday
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, next, want)
	}
}

func TestNextExactlyAtFiringTime(t *testing.T) {
	daily := mustParse(t, "08:00", "*")
	loc := pacific(t)

	// Next is strictly after: firing at 08:00 schedules tomorrow.
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, loc)
	next := daily.Next(now)
	want := time.Date(2026, 3, 3, 8, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, next, want)
	}
}

func TestNextDayList(t *testing.T) {
	daily := mustParse(t, "12:30", "mon,wed,fri")
	loc := pacific(t)

	// Tuesday 2026-03-03.
	now := time.Date(2026, 3, 3, 0, 0, 0, 0, loc)
	next := daily.Next(now)
	want := time.Date(2026, 3, 4, 12, 30, 0, 0, loc) // Wednesday
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, next, want)
	}
}

func TestNextNumericDays(t *testing.T) {
	daily := mustParse(t, "08:00", "0,6")
	loc := pacific(t)

	// Wednesday 2026-03-04 → Saturday 2026-03-07.
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, loc)
	next := daily.Next(now)
	want := time.Date(2026, 3, 7, 8, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", now, next, want)
	}
}
