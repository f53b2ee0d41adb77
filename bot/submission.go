// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"

	"github.com/seagrove-marine/dockbot/fleetapi"
	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/render"
	"github.com/seagrove-marine/dockbot/workspace"
)

// pendingSummary is shown per target while the triggering action is
// still in flight.
const pendingSummary = "Waiting for uplogd..."

// assetsUnavailable is the error modal body when the inventory cannot
// be read.
const assetsUnavailable = "Unable to fetch assets. Try again in a moment."

// HandleShortcut opens the control form. An empty inventory opens an
// error modal instead; if even that fails, the failure is logged and
// the flow ends (there is no further fallback surface).
func (b *Bot) HandleShortcut(ctx context.Context, payload workspace.InteractionPayload, garage bool) {
	assets := b.inventory.FetchAssets(ctx)
	if len(assets) == 0 {
		b.logger.Warn("no assets available for shortcut", "user_id", payload.User.ID)
		if err := b.workspace.OpenView(ctx, payload.TriggerID, render.ErrorModal(assetsUnavailable)); err != nil {
			b.logger.Error("opening error modal", "error", err)
		}
		return
	}

	params := render.ModalParams{OpenedBy: payload.User.ID, Assets: assets}
	view := render.SubmissionModal(params)
	if garage {
		view = render.GarageModal(params)
	}
	if err := b.workspace.OpenView(ctx, payload.TriggerID, view); err != nil {
		b.logger.Error("opening modal", "user_id", payload.User.ID, "error", err)
	}
}

// HandleAssetSelect re-renders an open form after the asset selection
// changed. Machine selections survive only while still valid for the
// newly selected asset.
func (b *Bot) HandleAssetSelect(ctx context.Context, payload workspace.InteractionPayload, action workspace.ActionRef) {
	if payload.View == nil {
		b.logger.Warn("asset select outside a view")
		return
	}
	if action.SelectedOption == nil || action.SelectedOption.Value == render.NoAssetValue {
		return
	}

	params := render.ModalParams{
		OpenedBy:        render.DecodeMetadata(payload.View.PrivateMetadata).OpenedBy,
		Assets:          b.inventory.FetchAssets(ctx),
		SelectedAssetID: action.SelectedOption.Value,
		PriorMachines:   selectedMachines(payload.View.State),
	}
	if option := payload.View.State.SelectedOption(render.OperationBlockID, render.OperationAction); option != nil {
		params.PriorOperation = option.Value
	}

	view := render.SubmissionModal(params)
	if payload.View.CallbackID == render.GarageCallbackID {
		view = render.GarageModal(params)
	}
	if err := b.workspace.UpdateView(ctx, payload.View.ID, payload.View.Hash, view); err != nil {
		b.logger.Error("updating modal", "view_id", payload.View.ID, "error", err)
	}
}

// HandleSubmission runs the uplogd control flow for one submitted
// form: resolve targets, post the pending detail message, fan out the
// calls, and update the message with the settled results.
func (b *Bot) HandleSubmission(ctx context.Context, payload workspace.InteractionPayload) {
	state := payload.View.State
	assetID, operation, ok := requiredSelections(state)
	if !ok {
		b.logger.Warn("submission missing required selection", "user_id", payload.User.ID)
		return
	}

	asset := b.lookupAsset(ctx, assetID)
	machines := selectedMachines(state)
	primary := containsMachine(machines, interaction.MachinePrimary)
	secondary := containsMachine(machines, interaction.MachineSecondary)
	targets := interaction.ResolveTargets(asset, primary, secondary)

	flow := &interaction.Context{
		BaseAsset:      interaction.AssetRef{ID: interaction.BaseAssetID(asset.ID), Label: asset.Label},
		Operation:      operation,
		SubmittedAt:    b.clock.Now().UTC(),
		Results:        interaction.PendingResults(targets, pendingSummary),
		PendingRequest: true,
		ResponseMode:   b.mode,
		RequestedBy:    eventUser(payload.User),
		ServiceLabel:   b.serviceLabel,
	}

	call := b.actionCaller(fleetapi.ActionPayload{
		Asset: fleetapi.AssetInfo{
			ID:        asset.ID,
			Label:     asset.Label,
			Primary:   asset.Primary,
			Secondary: asset.Secondary,
		},
		Operation:   operation,
		Targets:     fleetapi.MachineFlags{Primary: primary, Secondary: secondary},
		SubmittedBy: payload.User.ID,
		TeamID:      payload.Team.ID,
		SubmittedAt: flow.SubmittedAt,
	})
	b.runActionFlow(ctx, flow, targets, call, payload.User.ID)
}

// HandleGarageSubmission runs the garage mode flow. Enter and exit are
// single-target actions against the asset itself; the status operation
// fetches the device table and posts it without issuing any action.
func (b *Bot) HandleGarageSubmission(ctx context.Context, payload workspace.InteractionPayload) {
	state := payload.View.State
	assetID, operation, ok := requiredSelections(state)
	if !ok {
		b.logger.Warn("garage submission missing required selection", "user_id", payload.User.ID)
		return
	}

	asset := b.lookupAsset(ctx, assetID)
	targets := []interaction.MachineTarget{{AssetID: asset.ID, Machine: interaction.MachineNone}}

	if operation == "status" {
		b.garageStatusFlow(ctx, asset, targets, payload.User.ID)
		return
	}

	flow := &interaction.Context{
		BaseAsset:      interaction.AssetRef{ID: interaction.BaseAssetID(asset.ID), Label: asset.Label},
		Operation:      operation,
		SubmittedAt:    b.clock.Now().UTC(),
		Results:        interaction.PendingResults(targets, pendingSummary),
		PendingRequest: true,
		ResponseMode:   b.mode,
		RequestedBy:    eventUser(payload.User),
		ServiceLabel:   "garage mode",
		MachineLabel:   "garage",
	}

	call := func(callCtx context.Context, target interaction.MachineTarget) (int, string, error) {
		return b.fleet.SubmitGarageMode(callCtx, target.AssetID, operation)
	}
	b.runActionFlow(ctx, flow, targets, call, payload.User.ID)
}

// garageStatusFlow fetches the garage device table once and posts it
// as a statuses-only message.
func (b *Bot) garageStatusFlow(ctx context.Context, asset interaction.Asset, targets []interaction.MachineTarget, userID string) {
	fetch := func(fetchCtx context.Context, target interaction.MachineTarget) (interaction.StatusResult, error) {
		return b.fleet.FetchGarageStatus(fetchCtx, target.AssetID)
	}
	statuses := interaction.RefreshStatuses(ctx, targets, fetch, b.refreshConfig())

	flow := &interaction.Context{
		BaseAsset:    interaction.AssetRef{ID: interaction.BaseAssetID(asset.ID), Label: asset.Label},
		Operation:    "status",
		Statuses:     statuses,
		ResponseMode: b.mode,
		StatusKind:   interaction.StatusKindGarage,
		MachineLabel: "garage",
	}
	if _, err := b.workspace.PostMessage(ctx, b.dmChannel(userID), render.StatusOnly(flow)); err != nil {
		b.logger.Error("posting garage status", "asset_id", asset.ID, "error", err)
	}
}

// runActionFlow is the shared shape of every action submission: a
// pending detail message, an optional compact channel summary, the
// concurrent fan-out, then in-place updates with the settled results.
// A failed update falls back to a fresh post so the outcome is never
// silently lost.
func (b *Bot) runActionFlow(ctx context.Context, flow *interaction.Context, targets []interaction.MachineTarget, call interaction.Caller, userID string) {
	detailChannel := b.dmChannel(userID)
	var detailTS string
	if posted, err := b.workspace.PostMessage(ctx, detailChannel, b.detailMessage(flow)); err != nil {
		b.logger.Error("posting pending message", "channel", detailChannel, "error", err)
	} else {
		detailChannel, detailTS = posted.Channel, posted.TS
	}

	var summaryTS string
	if b.mode == interaction.ModeEphemeral && b.updatesChannel != "" {
		if posted, err := b.workspace.PostMessage(ctx, b.updatesChannel, render.ChannelSummary(flow)); err != nil {
			b.logger.Error("posting channel summary", "channel", b.updatesChannel, "error", err)
		} else {
			summaryTS = posted.TS
		}
	}

	flow.Results = interaction.ExecuteActions(ctx, targets, flow.Operation, call, b.fanOutConfig())
	flow.PendingRequest = false

	final := b.detailMessage(flow)
	if detailTS == "" {
		if _, err := b.workspace.PostMessage(ctx, detailChannel, final); err != nil {
			b.logger.Error("posting final message", "channel", detailChannel, "error", err)
		}
	} else if err := b.workspace.UpdateMessage(ctx, detailChannel, detailTS, final); err != nil {
		b.logger.Error("updating final message", "channel", detailChannel, "ts", detailTS, "error", err)
		if _, err := b.workspace.PostMessage(ctx, detailChannel, final); err != nil {
			b.logger.Error("fallback post failed", "channel", detailChannel, "error", err)
		}
	}

	if summaryTS != "" {
		if err := b.workspace.UpdateMessage(ctx, b.updatesChannel, summaryTS, render.ChannelSummary(flow)); err != nil {
			b.logger.Error("updating channel summary", "channel", b.updatesChannel, "error", err)
		}
	}
}

// detailMessage renders the full per-target breakdown regardless of
// the flow's response mode. The detail surface is always private; the
// mode governs only the shared-channel copy.
func (b *Bot) detailMessage(flow *interaction.Context) workspace.Message {
	detail := *flow
	detail.ResponseMode = interaction.ModeUpdate
	return render.Message(&detail)
}

// actionCaller adapts the fleet API to the fan-out executor. The
// per-target machine is stamped into a copy of the shared payload.
func (b *Bot) actionCaller(payload fleetapi.ActionPayload) interaction.Caller {
	return func(callCtx context.Context, target interaction.MachineTarget) (int, string, error) {
		body := payload
		body.Machine = string(target.Machine)
		return b.fleet.PerformAction(callCtx, target, payload.Operation, body)
	}
}

func (b *Bot) fanOutConfig() interaction.FanOutConfig {
	return interaction.FanOutConfig{Timeout: b.callTimeout, Logger: b.logger}
}

func (b *Bot) refreshConfig() interaction.RefreshConfig {
	return interaction.RefreshConfig{Timeout: b.callTimeout, Logger: b.logger, Clock: b.clock}
}

// lookupAsset resolves an asset id against the live inventory,
// falling back to a bare zero-capability asset when the id is no
// longer listed. ResolveTargets then degrades to the machine-none
// fallback target.
func (b *Bot) lookupAsset(ctx context.Context, assetID string) interaction.Asset {
	for _, asset := range b.inventory.FetchAssets(ctx) {
		if asset.ID == assetID {
			return asset
		}
	}
	b.logger.Warn("submitted asset not in inventory", "asset_id", assetID)
	return interaction.Asset{ID: assetID, Label: assetID}
}

// requiredSelections extracts the asset and operation from a view
// state. Either missing (or the no-asset placeholder) abandons the
// submission.
func requiredSelections(state workspace.ViewState) (assetID, operation string, ok bool) {
	assetOption := state.SelectedOption(render.AssetBlockID, render.AssetActionID)
	if assetOption == nil || assetOption.Value == "" || assetOption.Value == render.NoAssetValue {
		return "", "", false
	}
	operationOption := state.SelectedOption(render.OperationBlockID, render.OperationAction)
	if operationOption == nil || operationOption.Value == "" {
		return "", "", false
	}
	return assetOption.Value, operationOption.Value, true
}

func selectedMachines(state workspace.ViewState) []interaction.Machine {
	var machines []interaction.Machine
	for _, value := range state.SelectedValues(render.MachinesBlockID, render.MachinesActionID) {
		machines = append(machines, interaction.Machine(value))
	}
	return machines
}

func containsMachine(machines []interaction.Machine, machine interaction.Machine) bool {
	for _, candidate := range machines {
		if candidate == machine {
			return true
		}
	}
	return false
}
