// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package interaction implements the stateless interaction model at
// the heart of dockbot.
//
// The bot process keeps no session store: everything needed to resume
// a flow after a button click travels inside the control itself, as an
// opaque payload produced by EncodeControlPayload. A Context is
// created when an operator submits a form, filled in by the fan-out
// executor (ExecuteActions) or the status refresher (RefreshStatuses),
// rendered into a message, and a sanitized projection of it is folded
// back into that message's controls for the next click.
//
// Key exports:
//
//   - [Context] -- the aggregate describing one in-progress or
//     completed operator-triggered flow
//   - [ResolveTargets] -- deterministic (asset, machine) target list
//   - [MachineOptions] -- form availability for the machine checkboxes
//   - [EncodeControlPayload] / [DecodeControlPayload] -- the codec
//   - [ExecuteActions] -- concurrent, partial-failure-tolerant fan-out
//   - [RefreshStatuses] -- concurrent read-only status fan-out
//
// Nothing in this package performs chat-platform I/O.
package interaction
