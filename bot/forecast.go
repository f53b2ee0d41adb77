// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/seagrove-marine/dockbot/forecast"
	"github.com/seagrove-marine/dockbot/lib/schedule"
	"github.com/seagrove-marine/dockbot/render"
	"github.com/seagrove-marine/dockbot/workspace"
)

// forecastUnavailable is the ephemeral failure text when no provider
// returned data.
const forecastUnavailable = "Unable to fetch San Diego forecast right now. Try again in a moment."

// forecastUsage explains the scheduling grammar.
const forecastUsage = "Usage: /forecast [in 30m | at 07:30]"

// HandleForecastCommand serves the /forecast slash command. Bare
// invocations post the briefing immediately; "in <duration>" and
// "at <HH:MM>" schedule a one-time post to the invoking channel.
func (b *Bot) HandleForecastCommand(ctx context.Context, cmd workspace.SlashCommand) {
	delay, label, scheduled, err := parseForecastRequest(cmd.Text, b.clock.Now().In(b.forecast.Location()))
	if err != nil {
		b.respondEphemeral(ctx, cmd, forecastUsage)
		return
	}

	if !scheduled {
		b.postForecast(ctx, cmd.ChannelID, cmd.ResponseURL, cmd.UserID)
		return
	}

	b.respondEphemeral(ctx, cmd, fmt.Sprintf("Scheduled forecast %s for <#%s>.", label, cmd.ChannelID))
	go func() {
		select {
		case <-ctx.Done():
		case <-b.clock.After(delay):
			b.postForecast(ctx, cmd.ChannelID, "", cmd.UserID)
		}
	}()
}

// RunDailyForecast posts the briefing on the configured weekday
// schedule until ctx is canceled. A failed post is logged and never
// blocks the next occurrence. With no forecast channel configured the
// runner exits immediately.
func (b *Bot) RunDailyForecast(ctx context.Context) error {
	if b.forecastChannel == "" {
		b.logger.Info("daily forecast disabled: no channel configured")
		return nil
	}

	location := b.forecast.Location()
	for {
		now := b.clock.Now().In(location)
		next := b.daily.Next(now)
		b.logger.Info("daily forecast scheduled", "next", next)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.clock.After(next.Sub(now)):
			b.postForecast(ctx, b.forecastChannel, "", "")
		}
	}
}

// postForecast collects and posts one briefing. With a response URL
// the message goes back through it in-channel; otherwise it is posted
// directly. A fully failed collection reports ephemerally to the
// requesting user when one is known, and only logs otherwise.
func (b *Bot) postForecast(ctx context.Context, channel, responseURL, userID string) {
	report := b.forecast.Collect(ctx)
	if reportEmpty(report) {
		b.logger.Error("forecast collection failed: no provider returned data")
		if userID != "" && channel != "" {
			failure := workspace.Message{Text: forecastUnavailable}
			if err := b.workspace.PostEphemeral(ctx, channel, userID, failure); err != nil {
				b.logger.Error("posting forecast failure notice", "error", err)
			}
		}
		return
	}

	message := render.Forecast(report, b.clock.Now().In(b.forecast.Location()))
	if responseURL != "" {
		response := workspace.ResponseMessage{ResponseType: "in_channel", Message: message}
		if err := b.workspace.Respond(ctx, responseURL, response); err == nil {
			return
		}
		b.logger.Warn("forecast response URL delivery failed, posting directly", "channel", channel)
	}
	if _, err := b.workspace.PostMessage(ctx, channel, message); err != nil {
		b.logger.Error("posting forecast", "channel", channel, "error", err)
	}
}

func (b *Bot) respondEphemeral(ctx context.Context, cmd workspace.SlashCommand, text string) {
	message := workspace.Message{Text: text}
	if cmd.ResponseURL != "" {
		response := workspace.ResponseMessage{ResponseType: "ephemeral", Message: message}
		if err := b.workspace.Respond(ctx, cmd.ResponseURL, response); err == nil {
			return
		}
	}
	if cmd.ChannelID == "" || cmd.UserID == "" {
		return
	}
	if err := b.workspace.PostEphemeral(ctx, cmd.ChannelID, cmd.UserID, message); err != nil {
		b.logger.Error("posting ephemeral reply", "channel", cmd.ChannelID, "error", err)
	}
}

// parseForecastRequest parses the slash command text. An optional
// leading "schedule" keyword is tolerated. Supported forms:
//
//	""            immediate post
//	"in 30m"      one-time post after a duration (bare numbers are minutes)
//	"at 07:30"    one-time post at the next occurrence of a wall-clock time
func parseForecastRequest(text string, now time.Time) (delay time.Duration, label string, scheduled bool, err error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) > 0 && fields[0] == "schedule" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return 0, "", false, nil
	}
	if len(fields) != 2 {
		return 0, "", false, fmt.Errorf("bot: forecast request %q: expected 'in <duration>' or 'at <HH:MM>'", text)
	}

	switch fields[0] {
	case "in":
		delay, err = parseDelay(fields[1])
		if err != nil {
			return 0, "", false, err
		}
		return delay, "in " + fields[1], true, nil

	case "at":
		hour, minute, err := schedule.ParseTimeOfDay(fields[1])
		if err != nil {
			return 0, "", false, err
		}
		target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !target.After(now) {
			target = target.AddDate(0, 0, 1)
		}
		return target.Sub(now), "at " + fields[1], true, nil

	default:
		return 0, "", false, fmt.Errorf("bot: forecast request %q: unknown form", text)
	}
}

// parseDelay parses a duration, treating a bare number as minutes.
func parseDelay(value string) (time.Duration, error) {
	if minutes, err := strconv.Atoi(value); err == nil {
		if minutes <= 0 {
			return 0, fmt.Errorf("bot: delay %q must be positive", value)
		}
		return time.Duration(minutes) * time.Minute, nil
	}
	delay, err := time.ParseDuration(value)
	if err != nil || delay <= 0 {
		return 0, fmt.Errorf("bot: invalid delay %q", value)
	}
	return delay, nil
}

// reportEmpty reports whether every provider section failed.
func reportEmpty(report forecast.Report) bool {
	return report.Waves == nil && report.Weather == nil &&
		len(report.Tides) == 0 && report.Sun == nil
}
