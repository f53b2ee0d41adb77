// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package fleetapi

import (
	"encoding/json"
	"strings"

	"github.com/seagrove-marine/dockbot/interaction"
)

// summaryFields are the JSON object fields tried, in order, for a
// human-readable response digest.
var summaryFields = []string{"message", "status", "detail", "description"}

// SummarizeResponse produces a bounded human-readable digest of a
// response body. A JSON object's first string-valued summary field
// wins; otherwise the compact body itself is used, truncated to the
// interaction summary limit. Empty bodies digest to "".
func SummarizeResponse(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return interaction.TruncateSummary(trimmed)
	}

	switch value := decoded.(type) {
	case string:
		return interaction.TruncateSummary(value)
	case map[string]any:
		for _, field := range summaryFields {
			if text, ok := value[field].(string); ok && text != "" {
				return interaction.TruncateSummary(text)
			}
		}
		compact, err := json.Marshal(value)
		if err != nil {
			return "[object]"
		}
		return interaction.TruncateSummary(string(compact))
	default:
		return interaction.TruncateSummary(trimmed)
	}
}
