// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package fleetapi

import (
	"strings"
	"testing"
)

func TestParseDeviceTable(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   [][3]string
	}{
		{
			name: "header with divider",
			stdout: "Device        State     Notes\n" +
				"=============================\n" +
				"cam-fwd       paused    netmand hold active\n" +
				"gps           running\n",
			want: [][3]string{
				{"cam-fwd", "paused", "netmand hold active"},
				{"gps", "running", ""},
			},
		},
		{
			name: "no divider after header",
			stdout: "device  state\n" +
				"cam-fwd  up\n",
			want: [][3]string{{"cam-fwd", "up"}},
		},
		{
			name: "table ends at second divider",
			stdout: "device  state\n" +
				"====\n" +
				"cam-fwd  up\n" +
				"====\n" +
				"cam-aft  up\n",
			want: [][3]string{{"cam-fwd", "up"}},
		},
		{
			name: "blank rows skipped",
			stdout: "device  state\n" +
				"\n" +
				"cam-fwd  up\n" +
				"\n" +
				"cam-aft  down\n",
			want: [][3]string{{"cam-fwd", "up"}, {"cam-aft", "down"}},
		},
		{
			name: "single column rows skipped",
			stdout: "device  state\n" +
				"loner\n" +
				"cam-fwd  up\n",
			want: [][3]string{{"cam-fwd", "up"}},
		},
		{
			name:   "no header",
			stdout: "nothing to see here\njust logs\n",
			want:   nil,
		},
		{
			name:   "empty input",
			stdout: "",
			want:   nil,
		},
		{
			name: "windows line endings",
			stdout: "device  state\r\n" +
				"cam-fwd  up\r\n",
			want: [][3]string{{"cam-fwd", "up"}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			devices := ParseDeviceTable(test.stdout)
			if len(devices) != len(test.want) {
				t.Fatalf("got %d devices, want %d: %+v", len(devices), len(test.want), devices)
			}
			for i, want := range test.want {
				if devices[i].Device != want[0] || devices[i].State != want[1] || devices[i].Notes != want[2] {
					t.Errorf("devices[%d] = %+v, want %v", i, devices[i], want)
				}
			}
		})
	}
}

func TestSummarizeResponse(t *testing.T) {
	long := strings.Repeat("x", 300)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"ok","status":"ignored"}`, "ok"},
		{"status field", `{"status":"running"}`, "running"},
		{"detail field", `{"detail":"not found"}`, "not found"},
		{"description field", `{"description":"maintenance"}`, "maintenance"},
		{"non-string summary field skipped", `{"status":7,"detail":"real"}`, "real"},
		{"json string", `"plain words"`, "plain words"},
		{"plain text", "plain body", "plain body"},
		{"empty", "", ""},
		{"whitespace only", "  \n ", ""},
		{"object without summary fields", `{"a":1}`, `{"a":1}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := SummarizeResponse([]byte(test.body)); got != test.want {
				t.Errorf("SummarizeResponse(%q) = %q, want %q", test.body, got, test.want)
			}
		})
	}

	t.Run("truncates long bodies", func(t *testing.T) {
		got := SummarizeResponse([]byte(long))
		if len(got) != 200 || !strings.HasSuffix(got, "...") {
			t.Errorf("len = %d, suffix ok = %v", len(got), strings.HasSuffix(got, "..."))
		}
	})
}
