// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package fleetapi

import (
	"strings"

	"github.com/seagrove-marine/dockbot/interaction"
)

// ParseDeviceTable extracts per-device rows from the garage mode
// service's plain-text stdout. The table starts at the first line
// whose trimmed text begins with "device" (any case), optionally
// followed by "="-divider lines; each following non-empty line is one
// device row with columns separated by two or more spaces. A later
// divider line ends the table.
//
// Rows with fewer than two columns are skipped; a third and later
// columns join into the notes field.
func ParseDeviceTable(stdout string) []interaction.DeviceState {
	if stdout == "" {
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(stdout, "\r\n", "\n"), "\n")
	headerIndex := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "device") {
			headerIndex = i
			break
		}
	}
	if headerIndex == -1 {
		return nil
	}

	var devices []interaction.DeviceState
	i := headerIndex + 1
	for i < len(lines) && isDivider(lines[i]) {
		i++
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if isDivider(line) {
			break
		}

		columns := splitColumns(line)
		if len(columns) < 2 {
			continue
		}
		devices = append(devices, interaction.DeviceState{
			Device: columns[0],
			State:  columns[1],
			Notes:  strings.Join(columns[2:], " "),
		})
	}
	return devices
}

// isDivider reports whether a line is a "="-divider row.
func isDivider(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "=")
}

// splitColumns splits a table row on runs of two or more spaces.
func splitColumns(line string) []string {
	var columns []string
	remaining := line
	for remaining != "" {
		gap := strings.Index(remaining, "  ")
		if gap == -1 {
			columns = append(columns, remaining)
			break
		}
		if column := strings.TrimSpace(remaining[:gap]); column != "" {
			columns = append(columns, column)
		}
		remaining = strings.TrimLeft(remaining[gap:], " ")
	}
	return columns
}
