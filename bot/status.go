// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"

	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/render"
	"github.com/seagrove-marine/dockbot/workspace"
)

// HandleStatusCheck resumes a flow from the opaque payload on a
// clicked status button: decode, re-derive the targets, show the
// in-progress state, refresh every target, and render the outcome.
//
// Fail-closed rules, in order: an undecodable payload is logged and
// dropped without any message (acting on corrupted state is worse than
// ignoring the click); a payload that already records an in-flight
// check is a no-op (the click raced a running refresh); an empty
// target list issues no calls and no update, only a warning.
func (b *Bot) HandleStatusCheck(ctx context.Context, payload workspace.InteractionPayload, action workspace.ActionRef) {
	flow, err := interaction.DecodeControlPayload(action.Value)
	if err != nil {
		b.logger.Warn("unusable control payload, dropping status check",
			"user_id", payload.User.ID, "error", err)
		return
	}
	if flow.PendingStatusCheck {
		b.logger.Debug("status check already in flight", "asset_id", flow.BaseAsset.ID)
		return
	}

	targets := statusTargets(flow)
	if len(targets) == 0 {
		b.logger.Warn("status check with no targets", "asset_id", flow.BaseAsset.ID)
		return
	}

	channel, ts := messageCoordinates(payload)
	if channel == "" || ts == "" {
		b.logger.Warn("status check without message coordinates", "asset_id", flow.BaseAsset.ID)
		return
	}

	progress := *flow
	progress.PendingStatusCheck = true
	if err := b.workspace.UpdateMessage(ctx, channel, ts, render.Message(&progress)); err != nil {
		b.logger.Error("showing status check progress", "channel", channel, "ts", ts, "error", err)
	}

	flow.Statuses = interaction.RefreshStatuses(ctx, targets, b.statusFetcher(flow), b.refreshConfig())
	flow.PendingStatusCheck = false

	if err := b.workspace.UpdateMessage(ctx, channel, ts, render.Message(flow)); err != nil {
		b.logger.Error("rendering status check result", "channel", channel, "ts", ts, "error", err)
	}

	if flow.ResponseMode == interaction.ModeEphemeral {
		b.sendStatusDetail(ctx, payload, channel, flow)
	}
}

// sendStatusDetail delivers the full status breakdown to the clicking
// operator in ephemeral mode. The response URL is preferred; a failed
// or absent one falls back to a plain ephemeral post.
func (b *Bot) sendStatusDetail(ctx context.Context, payload workspace.InteractionPayload, channel string, flow *interaction.Context) {
	detail := render.StatusOnly(flow)

	if payload.ResponseURL != "" {
		response := workspace.ResponseMessage{ResponseType: "ephemeral", Message: detail}
		err := b.workspace.Respond(ctx, payload.ResponseURL, response)
		if err == nil {
			return
		}
		b.logger.Warn("response URL delivery failed, falling back to ephemeral post", "error", err)
	}
	if err := b.workspace.PostEphemeral(ctx, channel, payload.User.ID, detail); err != nil {
		b.logger.Error("posting ephemeral status detail", "channel", channel, "user_id", payload.User.ID, "error", err)
	}
}

// statusFetcher picks the status source matching the flow's kind.
func (b *Bot) statusFetcher(flow *interaction.Context) interaction.StatusFetcher {
	if flow.StatusKind == interaction.StatusKindGarage {
		return func(fetchCtx context.Context, target interaction.MachineTarget) (interaction.StatusResult, error) {
			return b.fleet.FetchGarageStatus(fetchCtx, target.AssetID)
		}
	}
	return b.fleet.FetchStatus
}

// statusTargets re-derives the target list from the decoded flow. The
// action's results define it; a flow that never ran an action (garage
// status) falls back to its prior statuses.
func statusTargets(flow *interaction.Context) []interaction.MachineTarget {
	var targets []interaction.MachineTarget
	for _, result := range flow.Results {
		targets = append(targets, interaction.MachineTarget{AssetID: result.AssetID, Machine: result.Machine})
	}
	if len(targets) > 0 {
		return targets
	}
	for _, status := range flow.Statuses {
		targets = append(targets, interaction.MachineTarget{AssetID: status.AssetID, Machine: status.Machine})
	}
	return targets
}

// messageCoordinates locates the message a block action came from.
func messageCoordinates(payload workspace.InteractionPayload) (channel, ts string) {
	channel = payload.Container.ChannelID
	if channel == "" {
		channel = payload.Channel.ID
	}
	ts = payload.Container.MessageTS
	if ts == "" && payload.MessageRef != nil {
		ts = payload.MessageRef.TS
	}
	return channel, ts
}
