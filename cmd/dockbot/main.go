// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// dockbot is the chat-workspace fleet control bot: operators start,
// stop, and restart the uplogd agent on named boats, toggle garage
// mode, check live status from message buttons, and receive the daily
// San Diego marine briefing.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/seagrove-marine/dockbot/bot"
	"github.com/seagrove-marine/dockbot/config"
	"github.com/seagrove-marine/dockbot/fleetapi"
	"github.com/seagrove-marine/dockbot/forecast"
	"github.com/seagrove-marine/dockbot/interaction"
	"github.com/seagrove-marine/dockbot/inventory"
	"github.com/seagrove-marine/dockbot/lib/version"
	"github.com/seagrove-marine/dockbot/workspace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.String("config", "", "path to the config file (default: $"+config.EnvConfig+")")
	showVersion := pflag.Bool("version", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("dockbot %s\n", version.Info())
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 90 * time.Second}

	workspaceClient, err := workspace.NewClient(workspace.ClientConfig{
		APIURL:     cfg.Endpoints.WorkspaceAPI,
		BotToken:   cfg.Secrets.BotToken,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	inventoryClient := inventory.NewClient(inventory.ClientConfig{
		Endpoint:   cfg.Endpoints.Assets,
		AuthToken:  cfg.Secrets.AssetsToken,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	fleetClient, err := fleetapi.NewClient(fleetapi.ClientConfig{
		Endpoint:       cfg.Endpoints.FleetAPI,
		GarageEndpoint: cfg.Endpoints.GarageAPI,
		AuthToken:      cfg.Secrets.FleetToken,
		HTTPClient:     httpClient,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	forecastClient := forecast.NewClient(forecast.ClientConfig{
		WaveURL:      cfg.Endpoints.WaveURL,
		WeatherURL:   cfg.Endpoints.WeatherURL,
		TideEndpoint: cfg.Endpoints.TideAPI,
		SunEndpoint:  cfg.Endpoints.SunAPI,
		Location:     cfg.Location(),
		HTTPClient:   httpClient,
		Logger:       logger,
	})

	dockbot, err := bot.New(bot.Config{
		Workspace:       workspaceClient,
		Inventory:       inventoryClient,
		Fleet:           fleetClient,
		Forecast:        forecastClient,
		UpdatesChannel:  cfg.Channels.Updates,
		ForecastChannel: cfg.Channels.Forecast,
		DMOverride:      cfg.Channels.DMOverride,
		ResponseMode:    interaction.ResponseMode(cfg.Channels.ResponseMode),
		ServiceLabel:    cfg.Service.Label,
		ForecastTime:    cfg.Forecast.Time,
		ForecastDays:    cfg.Forecast.Days,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	server, err := workspace.NewServer(workspace.ServerConfig{
		Address:       cfg.Listen.Address,
		SigningSecret: cfg.Secrets.SigningSecret,
		Handler:       dockbot,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	go func() {
		if err := dockbot.RunDailyForecast(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("daily forecast runner stopped", "error", err)
		}
	}()

	logger.Info("dockbot listening", "address", cfg.Listen.Address)
	return server.Serve(ctx)
}
