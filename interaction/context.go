// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import (
	"time"
)

// Machine identifies which compute board on a boat an operation is
// addressed to. The values are wire constants shared with the fleet
// API; changing them breaks in-flight control payloads.
type Machine string

const (
	// MachinePrimary is the imx8 board that runs uplogd proper.
	MachinePrimary Machine = "imx8"

	// MachineSecondary is the crystal companion board. Its fleet API
	// asset id is the base id with a "-crystal" suffix.
	MachineSecondary Machine = "crystal"

	// MachineNone addresses the asset itself, with no machine query
	// parameter. Used when a form is submitted with no machine
	// selected so the request is still attempted rather than
	// silently dropped.
	MachineNone Machine = ""
)

// Label returns the human-readable machine name used in rendered
// messages. MachineNone renders as "auto": the fleet API picks.
func (m Machine) Label() string {
	if m == MachineNone {
		return "auto"
	}
	return string(m)
}

// Asset is one named boat from the inventory service. Immutable for
// the duration of one interaction.
type Asset struct {
	// ID is the inventory asset name, e.g. "sg-101".
	ID string

	// Label is the display name shown in forms and messages.
	Label string

	// Primary reports whether the asset carries an imx8 board.
	Primary bool

	// Secondary reports whether the asset carries a crystal board.
	Secondary bool

	// LastAuto is the asset's last automatic report time as reported
	// by the inventory service, if any. Display-only.
	LastAuto string
}

// AssetRef is the minimal asset identity carried through a flow.
type AssetRef struct {
	ID    string
	Label string
}

// MachineTarget is one (asset id, machine) pair that a single
// operation or status check is addressed to.
type MachineTarget struct {
	AssetID string
	Machine Machine
}

// TargetResult records the outcome of one call to one target.
type TargetResult struct {
	AssetID string
	Machine Machine

	// Success is nil while the call is in flight or its outcome is
	// unknown, true on confirmed success, false on failure.
	Success *bool

	// StatusCode is the HTTP status of the response, or 0 when the
	// call never produced one (transport error, timeout).
	StatusCode int

	// ResponseSummary is a bounded human-readable digest of the
	// response or error body, at most SummaryLimit characters.
	ResponseSummary string

	// Error is the underlying error message on failure.
	Error string
}

// DeviceState is one row of a multi-device status report (the garage
// mode device table).
type DeviceState struct {
	Device string
	State  string
	Notes  string
}

// StatusResult is a TargetResult from a live status check.
type StatusResult struct {
	TargetResult

	// CheckedAt is when the status check ran. All results of one
	// refresh share the same value so the UI can report a single
	// "last checked at" line.
	CheckedAt time.Time

	// Devices holds per-device rows for multi-device status kinds
	// (garage mode). Empty for plain uplogd statuses.
	Devices []DeviceState
}

// User identifies the operator who triggered a flow.
type User struct {
	ID       string
	Username string
	RealName string
}

// ResponseMode selects how follow-up renders are delivered.
type ResponseMode string

const (
	// ModeUpdate updates the original message in place with the full
	// per-target breakdown.
	ModeUpdate ResponseMode = "update"

	// ModeEphemeral renders the compact single-line summary used on
	// shared channels, with full detail sent ephemerally to the
	// clicking operator.
	ModeEphemeral ResponseMode = "ephemeral"
)

// Context is the aggregate root describing one operator-triggered
// flow: which asset, which operation, how each resolved target fared,
// and what the most recent status check returned.
//
// A Context lives only inside one message thread. It is never stored
// server-side; the sanitized projection embedded in the message's
// controls (see EncodeControlPayload) is the only copy that survives
// between interactions.
type Context struct {
	BaseAsset   AssetRef
	Operation   string
	SubmittedAt time.Time

	// Results is the outcome of the triggering action, in target
	// resolution order.
	Results []TargetResult

	// Statuses is the outcome of the most recent status check, in
	// target resolution order.
	Statuses []StatusResult

	// PendingRequest is set while the triggering action has not yet
	// been confirmed. Mutually exclusive with populated Results.
	PendingRequest bool

	// PendingStatusCheck is set while a status refresh is in flight.
	// Mutually exclusive with a populated terminal Statuses.
	PendingStatusCheck bool

	ResponseMode ResponseMode
	RequestedBy  User

	// ServiceLabel names the managed service in rendered fields,
	// e.g. "uplogd". Empty means the default service.
	ServiceLabel string

	// StatusKind discriminates rendering for multi-device statuses.
	// Empty for plain uplogd status; StatusKindGarage for the garage
	// mode device table.
	StatusKind string

	// MachineLabel overrides the per-target machine label in compact
	// renders, when a flow addresses a single named machine.
	MachineLabel string

	// SummaryLine caches the compact channel-mode summary. The
	// renderer recomputes it when empty.
	SummaryLine string
}

// StatusKindGarage marks statuses produced by the garage mode
// endpoint, which carry a per-device state table.
const StatusKindGarage = "garage"

// SummaryLimit is the maximum length of a response summary, in
// characters. Longer digests are truncated with an ellipsis.
const SummaryLimit = 200

// TruncateSummary bounds s to SummaryLimit characters, replacing the
// tail with "..." when truncation occurs.
func TruncateSummary(s string) string {
	if len(s) <= SummaryLimit {
		return s
	}
	return s[:SummaryLimit-3] + "..."
}

// succeeded and failed are the shared backing values for Success
// pointers. Results only ever point at these or nil.
var (
	succeeded = true
	failed    = false
)

// SuccessOf returns a *bool for a known outcome.
func SuccessOf(ok bool) *bool {
	if ok {
		return &succeeded
	}
	return &failed
}
