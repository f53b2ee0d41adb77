// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package bot wires the interaction handlers together: it receives
// decoded webhook payloads from the workspace server, drives the
// interaction flows, and talks back through the workspace client.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seagrove-marine/dockbot/fleetapi"
	"github.com/seagrove-marine/dockbot/forecast"
	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/lib/clock"
	"github.com/seagrove-marine/dockbot/lib/schedule"
	"github.com/seagrove-marine/dockbot/render"
	"github.com/seagrove-marine/dockbot/workspace"
)

// Shortcut callback IDs registered with the chat platform.
const (
	ShortcutUplogd = "uplogd_control"
	ShortcutGarage = "garage_mode"
)

// Messenger is the outbound surface of the workspace client the bot
// uses. *workspace.Client satisfies it.
type Messenger interface {
	PostMessage(ctx context.Context, channel string, message workspace.Message) (*workspace.PostMessageResponse, error)
	UpdateMessage(ctx context.Context, channel, ts string, message workspace.Message) error
	PostEphemeral(ctx context.Context, channel, userID string, message workspace.Message) error
	OpenView(ctx context.Context, triggerID string, view workspace.View) error
	UpdateView(ctx context.Context, viewID, hash string, view workspace.View) error
	Respond(ctx context.Context, responseURL string, message workspace.ResponseMessage) error
}

// AssetSource lists the fleet's assets. *inventory.Client satisfies
// it; failures surface as an empty list, never an error.
type AssetSource interface {
	FetchAssets(ctx context.Context) []interaction.Asset
}

// FleetAPI is the fleet control surface. *fleetapi.Client satisfies
// it.
type FleetAPI interface {
	PerformAction(ctx context.Context, target interaction.MachineTarget, operation string, payload fleetapi.ActionPayload) (int, string, error)
	FetchStatus(ctx context.Context, target interaction.MachineTarget) (interaction.StatusResult, error)
	SubmitGarageMode(ctx context.Context, assetID, operation string) (int, string, error)
	FetchGarageStatus(ctx context.Context, assetID string) (interaction.StatusResult, error)
}

// ForecastSource collects the marine briefing data. *forecast.Client
// satisfies it.
type ForecastSource interface {
	Collect(ctx context.Context) forecast.Report
	Location() *time.Location
}

// Config holds configuration for creating a Bot.
type Config struct {
	Workspace Messenger
	Inventory AssetSource
	Fleet     FleetAPI
	Forecast  ForecastSource

	// UpdatesChannel receives the compact channel summary in ephemeral
	// response mode. Empty disables the channel copy.
	UpdatesChannel string

	// ForecastChannel receives the daily briefing. Empty disables the
	// recurring post.
	ForecastChannel string

	// DMOverride redirects the per-operator detail messages to a fixed
	// conversation instead of the submitting user's DM.
	DMOverride string

	// ResponseMode selects how flow updates are delivered. Defaults to
	// ModeUpdate.
	ResponseMode interaction.ResponseMode

	// ServiceLabel names the managed service in rendered messages.
	// Empty means the default.
	ServiceLabel string

	// ForecastTime and ForecastDays schedule the daily briefing.
	// Defaults: "08:00", "mon-fri".
	ForecastTime string
	ForecastDays string

	// CallTimeout is the per-target budget for fleet API calls. Zero
	// means interaction.DefaultCallTimeout.
	CallTimeout time.Duration

	Clock  clock.Clock
	Logger *slog.Logger
}

// Bot handles all inbound interactions. It implements
// workspace.Handler.
type Bot struct {
	workspace Messenger
	inventory AssetSource
	fleet     FleetAPI
	forecast  ForecastSource

	updatesChannel  string
	forecastChannel string
	dmOverride      string
	mode            interaction.ResponseMode
	serviceLabel    string
	daily           schedule.Daily
	callTimeout     time.Duration

	clock  clock.Clock
	logger *slog.Logger
}

// New creates a Bot.
func New(cfg Config) (*Bot, error) {
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("bot: Workspace is required")
	}
	if cfg.Inventory == nil {
		return nil, fmt.Errorf("bot: Inventory is required")
	}
	if cfg.Fleet == nil {
		return nil, fmt.Errorf("bot: Fleet is required")
	}
	if cfg.Forecast == nil {
		return nil, fmt.Errorf("bot: Forecast is required")
	}

	mode := cfg.ResponseMode
	if mode == "" {
		mode = interaction.ModeUpdate
	}
	forecastTime := cfg.ForecastTime
	if forecastTime == "" {
		forecastTime = "08:00"
	}
	forecastDays := cfg.ForecastDays
	if forecastDays == "" {
		forecastDays = "mon-fri"
	}
	daily, err := schedule.Parse(forecastTime, forecastDays)
	if err != nil {
		return nil, fmt.Errorf("bot: forecast schedule: %w", err)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		workspace:       cfg.Workspace,
		inventory:       cfg.Inventory,
		fleet:           cfg.Fleet,
		forecast:        cfg.Forecast,
		updatesChannel:  cfg.UpdatesChannel,
		forecastChannel: cfg.ForecastChannel,
		dmOverride:      cfg.DMOverride,
		mode:            mode,
		serviceLabel:    cfg.ServiceLabel,
		daily:           daily,
		callTimeout:     cfg.CallTimeout,
		clock:           clk,
		logger:          logger,
	}, nil
}

// HandleInteraction dispatches one interactivity event. It runs on a
// dispatch goroutine after the webhook was acknowledged; errors are
// terminal here, so every path logs instead of returning.
func (b *Bot) HandleInteraction(ctx context.Context, payload workspace.InteractionPayload) {
	switch payload.Type {
	case workspace.InteractionShortcut:
		b.handleShortcut(ctx, payload)
	case workspace.InteractionBlockActions:
		b.handleBlockActions(ctx, payload)
	case workspace.InteractionViewSubmission:
		b.handleViewSubmission(ctx, payload)
	default:
		b.logger.Warn("unhandled interaction type", "type", payload.Type)
	}
}

// HandleCommand dispatches one slash command.
func (b *Bot) HandleCommand(ctx context.Context, cmd workspace.SlashCommand) {
	switch cmd.Command {
	case "/forecast":
		b.HandleForecastCommand(ctx, cmd)
	default:
		b.logger.Warn("unhandled command", "command", cmd.Command)
	}
}

func (b *Bot) handleShortcut(ctx context.Context, payload workspace.InteractionPayload) {
	switch payload.CallbackID {
	case ShortcutUplogd:
		b.HandleShortcut(ctx, payload, false)
	case ShortcutGarage:
		b.HandleShortcut(ctx, payload, true)
	default:
		b.logger.Warn("unknown shortcut", "callback_id", payload.CallbackID)
	}
}

func (b *Bot) handleBlockActions(ctx context.Context, payload workspace.InteractionPayload) {
	for _, action := range payload.Actions {
		switch action.ActionID {
		case render.AssetActionID:
			b.HandleAssetSelect(ctx, payload, action)
		case render.StatusCheckActionID:
			b.HandleStatusCheck(ctx, payload, action)
		default:
			b.logger.Debug("ignoring block action", "action_id", action.ActionID)
		}
	}
}

func (b *Bot) handleViewSubmission(ctx context.Context, payload workspace.InteractionPayload) {
	if payload.View == nil {
		b.logger.Warn("view submission without a view")
		return
	}
	switch payload.View.CallbackID {
	case render.SubmissionCallbackID:
		b.HandleSubmission(ctx, payload)
	case render.GarageCallbackID:
		b.HandleGarageSubmission(ctx, payload)
	default:
		b.logger.Warn("unknown view submission", "callback_id", payload.View.CallbackID)
	}
}

// eventUser converts the webhook's user reference.
func eventUser(user workspace.EventUser) interaction.User {
	username := user.Username
	if username == "" {
		username = user.Name
	}
	return interaction.User{ID: user.ID, Username: username, RealName: user.RealName}
}

// dmChannel picks the conversation for per-operator detail messages.
func (b *Bot) dmChannel(userID string) string {
	if b.dmOverride != "" {
		return b.dmOverride
	}
	return userID
}
