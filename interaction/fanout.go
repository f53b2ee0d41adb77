// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCallTimeout is the fixed per-target budget for one remote
// call. A target that exceeds it is recorded as failed; its siblings
// continue unaffected.
const DefaultCallTimeout = 60 * time.Second

// Caller performs one remote operation against one target and
// reports the transport status code plus a bounded human-readable
// digest of the response body. On error the digest may still carry
// whatever the failure body said.
type Caller func(ctx context.Context, target MachineTarget) (statusCode int, summary string, err error)

// FanOutConfig tunes a fan-out run. The zero value is usable.
type FanOutConfig struct {
	// Timeout is the per-call budget. Zero means DefaultCallTimeout.
	Timeout time.Duration

	// Logger receives one line per target-level failure. Nil means
	// slog.Default().
	Logger *slog.Logger
}

func (cfg FanOutConfig) timeout() time.Duration {
	if cfg.Timeout <= 0 {
		return DefaultCallTimeout
	}
	return cfg.Timeout
}

func (cfg FanOutConfig) logger() *slog.Logger {
	if cfg.Logger == nil {
		return slog.Default()
	}
	return cfg.Logger
}

// ExecuteActions issues one call per target concurrently and waits
// for every call to settle. Exactly one TargetResult is produced per
// input target, in input order — never completion order. A failing or
// slow target never hides or blocks a sibling's result, and no retry
// is ever attempted: one attempt per target is the whole contract.
//
// An empty target list is a no-op, not an error: ExecuteActions
// returns nil without any network activity and the caller decides
// what that means.
func ExecuteActions(ctx context.Context, targets []MachineTarget, operation string, call Caller, cfg FanOutConfig) []TargetResult {
	if len(targets) == 0 {
		return nil
	}

	results := make([]TargetResult, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target MachineTarget) {
			defer wg.Done()
			results[i] = executeOne(ctx, target, operation, call, cfg)
		}(i, target)
	}
	wg.Wait()
	return results
}

func executeOne(ctx context.Context, target MachineTarget, operation string, call Caller, cfg FanOutConfig) TargetResult {
	callCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	statusCode, summary, err := call(callCtx, target)
	if err != nil {
		if summary == "" {
			summary = TruncateSummary(err.Error())
		}
		cfg.logger().Error("action failed for target",
			"asset_id", target.AssetID,
			"machine", target.Machine.Label(),
			"operation", operation,
			"error", err,
		)
		return TargetResult{
			AssetID:         target.AssetID,
			Machine:         target.Machine,
			Success:         SuccessOf(false),
			StatusCode:      statusCode,
			ResponseSummary: TruncateSummary(summary),
			Error:           err.Error(),
		}
	}

	return TargetResult{
		AssetID:         target.AssetID,
		Machine:         target.Machine,
		Success:         SuccessOf(true),
		StatusCode:      statusCode,
		ResponseSummary: TruncateSummary(summary),
	}
}

// PendingResults builds the transient result list shown while the
// triggering action is still in flight: one entry per target with an
// unknown outcome.
func PendingResults(targets []MachineTarget, summary string) []TargetResult {
	results := make([]TargetResult, len(targets))
	for i, target := range targets {
		results[i] = TargetResult{
			AssetID:         target.AssetID,
			Machine:         target.Machine,
			ResponseSummary: summary,
		}
	}
	return results
}
