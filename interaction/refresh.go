// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/seagrove-marine/dockbot/lib/clock"
)

// StatusFetcher fetches live status for one target. Implementations
// should fill AssetID/Machine on the returned result; the refresher
// overwrites them anyway to keep results aligned with their targets.
type StatusFetcher func(ctx context.Context, target MachineTarget) (StatusResult, error)

// RefreshConfig tunes a status refresh. The zero value is usable.
type RefreshConfig struct {
	// Timeout is the per-call budget. Zero means DefaultCallTimeout.
	Timeout time.Duration

	// Logger receives one line per target-level failure. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Clock stamps CheckedAt. Nil means the real clock.
	Clock clock.Clock
}

// RefreshStatuses concurrently fetches live status for every target
// and waits for all fetches to settle. It is read-only and
// independent of any action's outcome — a status check can run any
// number of times after, or even without, an action.
//
// The result list always has exactly one entry per input target, in
// input order: a failed fetch is synthesized into a StatusResult
// carrying the failure summary rather than omitted. Every result of
// one refresh shares the same CheckedAt stamp.
func RefreshStatuses(ctx context.Context, targets []MachineTarget, fetch StatusFetcher, cfg RefreshConfig) []StatusResult {
	if len(targets) == 0 {
		return nil
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	checkedAt := clk.Now().UTC()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	statuses := make([]StatusResult, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target MachineTarget) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			status, err := fetch(fetchCtx, target)
			if err != nil {
				logger.Error("status check failed for target",
					"asset_id", target.AssetID,
					"machine", target.Machine.Label(),
					"error", err,
				)
				summary := status.ResponseSummary
				if summary == "" {
					summary = TruncateSummary(err.Error())
				}
				status = StatusResult{
					TargetResult: TargetResult{
						Success:         SuccessOf(false),
						StatusCode:      status.StatusCode,
						ResponseSummary: summary,
						Error:           err.Error(),
					},
				}
			}
			status.AssetID = target.AssetID
			status.Machine = target.Machine
			status.CheckedAt = checkedAt
			status.ResponseSummary = TruncateSummary(status.ResponseSummary)
			statuses[i] = status
		}(i, target)
	}
	wg.Wait()
	return statuses
}
