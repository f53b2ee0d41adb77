// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides dockbot's standard CBOR encoding configuration.
//
// Dockbot uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the chat-workspace Web API, the
//     fleet HTTP API, and the forecast data providers.
//   - CBOR for the opaque payload embedded in interactive controls,
//     where every byte counts against the platform's control-value
//     size limit.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, which keeps
// re-rendered controls byte-identical for unchanged contexts.
package codec
