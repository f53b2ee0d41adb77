// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/workspace"
)

// Block and action identifiers shared with the bot's interaction
// handlers. These are wire values: they round-trip through the chat
// platform inside posted messages, so renaming one orphans every
// message already on a channel.
const (
	// StatusActionsBlockID is the actions block holding the status
	// check button.
	StatusActionsBlockID = "uplogd_status_actions"

	// StatusCheckActionID is the status check button itself. Its value
	// carries the encoded interaction context.
	StatusCheckActionID = "status_check_button"
)

// timestampLayout is the operator-facing timestamp format.
const timestampLayout = "01-02-2006 03:04 PM"

// defaultService names the managed service when the context does not
// override it.
const defaultService = "uplogd"

// maxFieldsPerSection is the platform's cap on fields in one section
// block. Longer field lists are split across consecutive sections.
const maxFieldsPerSection = 10

// Message renders the full interaction context as an outbound message.
// In ephemeral response mode it renders the compact channel summary
// instead of the per-target breakdown; ChannelSummary is the same
// function exposed directly for callers that know which surface they
// are writing to.
func Message(ctx *interaction.Context) workspace.Message {
	if ctx.ResponseMode == interaction.ModeEphemeral {
		return ChannelSummary(ctx)
	}

	label := assetLabel(ctx)
	message := workspace.Message{
		Text: fmt.Sprintf("%s request sent to %s at %s",
			titleWord(ctx.Operation), label, formatTimestamp(ctx.SubmittedAt)),
	}

	message.Blocks = append(message.Blocks,
		workspace.Section(fmt.Sprintf("*%s* request sent to *%s* at %s",
			titleWord(ctx.Operation), label, formatTimestamp(ctx.SubmittedAt))),
		workspace.Divider(),
		workspace.Header(label),
		workspace.Divider(),
	)

	if ctx.PendingRequest {
		message.Blocks = append(message.Blocks,
			workspace.Section(":hourglass_flowing_sand: _Waiting for confirmation..._"))
		return message
	}

	if fields := resultFields(ctx); len(fields) > 0 {
		message.Blocks = append(message.Blocks, fieldSections(fields)...)
	} else {
		message.Blocks = append(message.Blocks, workspace.Section("_No requests were sent._"))
	}
	message.Blocks = append(message.Blocks, workspace.Divider())

	message.Blocks = append(message.Blocks, statusArea(ctx)...)
	return message
}

// ChannelSummary renders the compact single-line variant posted to a
// shared channel in ephemeral response mode. The status check control
// still rides along so the flow can continue from the channel copy.
func ChannelSummary(ctx *interaction.Context) workspace.Message {
	line := SummaryLine(ctx)
	message := workspace.Message{Text: flattenMarkup(line)}
	message.Blocks = append(message.Blocks, workspace.Section(line))

	if ctx.PendingRequest {
		return message
	}
	if ctx.PendingStatusCheck {
		message.Blocks = append(message.Blocks,
			workspace.Section(":large_blue_circle: Checking current status... _up to 1 minute_"))
		return message
	}

	message.Blocks = append(message.Blocks,
		workspace.Actions(StatusActionsBlockID, statusButton(ctx)))
	if len(ctx.Statuses) > 0 {
		message.Blocks = append(message.Blocks, workspace.ContextNote(
			fmt.Sprintf("Last status check | %s", formatTimestamp(checkedAt(ctx)))))
	}
	return message
}

// StatusOnly renders just the most recent status check, used for the
// ephemeral per-operator detail that accompanies a channel summary.
func StatusOnly(ctx *interaction.Context) workspace.Message {
	label := assetLabel(ctx)
	message := workspace.Message{Text: fmt.Sprintf("Status for %s", label)}

	if len(ctx.Statuses) == 0 {
		message.Blocks = append(message.Blocks, workspace.Section("_No status checks yet._"))
		return message
	}

	message.Blocks = append(message.Blocks,
		workspace.Section(fmt.Sprintf("*Last status check | %s:*", formatTimestamp(checkedAt(ctx)))))
	message.Blocks = append(message.Blocks, fieldSections(statusFields(ctx))...)
	return message
}

// SummaryLine computes the compact one-line summary of a flow. The
// cached line on the context wins when present so a line never changes
// retroactively as the flow progresses.
func SummaryLine(ctx *interaction.Context) string {
	if ctx.SummaryLine != "" {
		return ctx.SummaryLine
	}

	who := ctx.RequestedBy.RealName
	if who == "" {
		who = ctx.RequestedBy.Username
	}
	if who == "" {
		who = ctx.RequestedBy.ID
	}

	line := fmt.Sprintf("%s requested *%s* for *%s*", who, titleWord(ctx.Operation), assetLabel(ctx))
	switch {
	case ctx.PendingRequest:
		line += " (pending)"
	case len(ctx.Results) > 0:
		ok := 0
		for _, result := range ctx.Results {
			if result.Success != nil && *result.Success {
				ok++
			}
		}
		line += fmt.Sprintf(": %d/%d succeeded", ok, len(ctx.Results))
	}
	return line
}

// statusArea renders the status check control and the last-check
// section for the full message variant.
func statusArea(ctx *interaction.Context) []workspace.Block {
	if ctx.PendingStatusCheck {
		return []workspace.Block{
			workspace.Section(":large_blue_circle: Checking current status... _up to 1 minute_"),
		}
	}

	blocks := []workspace.Block{
		workspace.Actions(StatusActionsBlockID, statusButton(ctx)),
	}
	if len(ctx.Statuses) == 0 {
		blocks = append(blocks, workspace.ContextNote("_No status checks yet._"))
		return blocks
	}

	blocks = append(blocks,
		workspace.Section(fmt.Sprintf("*Last status check | %s:*", formatTimestamp(checkedAt(ctx)))))
	blocks = append(blocks, fieldSections(statusFields(ctx))...)
	return blocks
}

// statusButton builds the check status button. The embedded payload is
// the current context with the in-flight flag cleared: the control
// always describes the at-rest state it was rendered from.
func statusButton(ctx *interaction.Context) workspace.Element {
	embedded := *ctx
	embedded.PendingStatusCheck = false
	return workspace.Button(StatusCheckActionID, "Check status", "primary",
		interaction.EncodeControlPayload(&embedded))
}

// resultFields renders one field per target result.
func resultFields(ctx *interaction.Context) []workspace.TextObject {
	fields := make([]workspace.TextObject, 0, len(ctx.Results))
	for _, result := range ctx.Results {
		fields = append(fields, workspace.Markdown(fmt.Sprintf("*%s*\n%s %s %s",
			machineLabel(ctx, result.Machine),
			strings.ToLower(ctx.Operation), service(ctx), outcomeWord(result.Success))))
	}
	return fields
}

// statusFields renders the last status check as fields. Garage mode
// statuses expand into one field per device row; everything else is
// one field per target.
func statusFields(ctx *interaction.Context) []workspace.TextObject {
	var fields []workspace.TextObject
	for _, status := range ctx.Statuses {
		if ctx.StatusKind == interaction.StatusKindGarage && len(status.Devices) > 0 {
			for _, device := range status.Devices {
				body := device.State
				if device.Notes != "" {
					body += " (" + device.Notes + ")"
				}
				fields = append(fields, workspace.Markdown(
					fmt.Sprintf("*%s*\n%s", device.Device, body)))
			}
			continue
		}

		body := status.ResponseSummary
		if body == "" {
			body = "status check " + outcomeWord(status.Success)
		}
		fields = append(fields, workspace.Markdown(fmt.Sprintf("*%s*\n%s",
			machineLabel(ctx, status.Machine), body)))
	}
	return fields
}

// fieldSections splits a field list across section blocks, honoring
// the per-section field cap.
func fieldSections(fields []workspace.TextObject) []workspace.Block {
	var blocks []workspace.Block
	for len(fields) > maxFieldsPerSection {
		blocks = append(blocks, workspace.FieldsSection(fields[:maxFieldsPerSection]))
		fields = fields[maxFieldsPerSection:]
	}
	if len(fields) > 0 {
		blocks = append(blocks, workspace.FieldsSection(fields))
	}
	return blocks
}

// checkedAt returns the shared check time of the current statuses.
func checkedAt(ctx *interaction.Context) time.Time {
	for _, status := range ctx.Statuses {
		if !status.CheckedAt.IsZero() {
			return status.CheckedAt
		}
	}
	return time.Time{}
}

// machineLabel resolves the per-target label, honoring the context's
// single-machine override.
func machineLabel(ctx *interaction.Context, machine interaction.Machine) string {
	if ctx.MachineLabel != "" {
		return ctx.MachineLabel
	}
	return machine.Label()
}

func service(ctx *interaction.Context) string {
	if ctx.ServiceLabel != "" {
		return ctx.ServiceLabel
	}
	return defaultService
}

func assetLabel(ctx *interaction.Context) string {
	label := ctx.BaseAsset.Label
	if label == "" {
		label = ctx.BaseAsset.ID
	}
	return strings.ToUpper(label)
}

// outcomeWord maps a tri-state success to its display word.
func outcomeWord(success *bool) string {
	switch {
	case success == nil:
		return "in progress"
	case *success:
		return "succeeded"
	default:
		return "failed"
	}
}

// titleWord upper-cases the first rune of a word for display.
func titleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

// formatTimestamp renders a timestamp in the operator-facing layout,
// or a placeholder for the zero time.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return t.Format(timestampLayout)
}

// flattenMarkup strips the bold markers from a summary line for the
// plain-text notification fallback.
func flattenMarkup(s string) string {
	return strings.ReplaceAll(s, "*", "")
}
