// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides bounded HTTP response body helpers shared by
// dockbot's outbound HTTP clients (chat-workspace API, fleet API,
// asset inventory, forecast providers).
//
// All body reads are capped at MaxBodySize to prevent a misbehaving
// server from exhausting memory. The cap is generous — legitimate
// responses from these APIs are kilobytes.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxBodySize is the bound on response body reads: 8 MB. The largest
// legitimate response dockbot handles is an NDBC realtime observation
// file, which is well under 1 MB.
const MaxBodySize int64 = 8 << 20

// ReadBody reads a response body up to MaxBodySize bytes. Use instead
// of io.ReadAll when reading HTTP response bodies.
func ReadBody(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxBodySize))
}

// DecodeBody reads a response body (up to MaxBodySize bytes) and
// JSON-decodes it into v.
func DecodeBody(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxBodySize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an HTTP error response body and returns it as a
// string for diagnostic messages. Read errors are silently ignored —
// a partial or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxBodySize))
	return string(data)
}
