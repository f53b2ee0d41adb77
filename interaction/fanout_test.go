// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExecuteActionsPreservesInputOrder(t *testing.T) {
	targets := []MachineTarget{
		{AssetID: "sg-101", Machine: MachinePrimary},
		{AssetID: "sg-101-crystal", Machine: MachineSecondary},
	}

	// T1 blocks until T2 has settled, so T2's call resolves first.
	t2Done := make(chan struct{})
	call := func(ctx context.Context, target MachineTarget) (int, string, error) {
		if target.Machine == MachinePrimary {
			<-t2Done
			return 200, "first target", nil
		}
		defer close(t2Done)
		return 200, "second target", nil
	}

	results := ExecuteActions(context.Background(), targets, "start", call, FanOutConfig{})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].AssetID != "sg-101" || results[0].ResponseSummary != "first target" {
		t.Errorf("results[0] = %+v, want the first input target", results[0])
	}
	if results[1].AssetID != "sg-101-crystal" || results[1].ResponseSummary != "second target" {
		t.Errorf("results[1] = %+v, want the second input target", results[1])
	}
}

func TestExecuteActionsPartialFailure(t *testing.T) {
	targets := []MachineTarget{
		{AssetID: "sg-101", Machine: MachinePrimary},
		{AssetID: "sg-101-crystal", Machine: MachineSecondary},
	}

	call := func(ctx context.Context, target MachineTarget) (int, string, error) {
		if target.Machine == MachineSecondary {
			return 502, "bad gateway", errors.New("upstream unreachable")
		}
		return 200, "ok", nil
	}

	results := ExecuteActions(context.Background(), targets, "restart", call, FanOutConfig{})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Success == nil || !*results[0].Success {
		t.Errorf("results[0].Success = %v, want true", results[0].Success)
	}
	if results[1].Success == nil || *results[1].Success {
		t.Errorf("results[1].Success = %v, want false", results[1].Success)
	}
	if results[1].StatusCode != 502 || results[1].ResponseSummary != "bad gateway" {
		t.Errorf("results[1] = %+v, want the failure body summary", results[1])
	}
	if results[1].Error != "upstream unreachable" {
		t.Errorf("results[1].Error = %q", results[1].Error)
	}
}

func TestExecuteActionsEmptyTargetsIsNoOp(t *testing.T) {
	called := false
	call := func(ctx context.Context, target MachineTarget) (int, string, error) {
		called = true
		return 200, "", nil
	}

	results := ExecuteActions(context.Background(), nil, "start", call, FanOutConfig{})
	if results != nil {
		t.Errorf("got %v, want nil for empty target list", results)
	}
	if called {
		t.Error("caller was invoked for an empty target list")
	}
}

func TestExecuteActionsTimeoutFailsOnlyThatTarget(t *testing.T) {
	targets := []MachineTarget{
		{AssetID: "sg-101", Machine: MachinePrimary},
		{AssetID: "sg-101-crystal", Machine: MachineSecondary},
	}

	call := func(ctx context.Context, target MachineTarget) (int, string, error) {
		if target.Machine == MachineSecondary {
			<-ctx.Done()
			return 0, "", ctx.Err()
		}
		return 200, "ok", nil
	}

	results := ExecuteActions(context.Background(), targets, "stop", call, FanOutConfig{
		Timeout: 20 * time.Millisecond,
	})
	if results[0].Success == nil || !*results[0].Success {
		t.Errorf("sibling of a timed-out target failed: %+v", results[0])
	}
	if results[1].Success == nil || *results[1].Success {
		t.Fatalf("timed-out target reported success: %+v", results[1])
	}
	if !strings.Contains(results[1].ResponseSummary, "deadline") {
		t.Errorf("results[1].ResponseSummary = %q, want a timeout-derived message", results[1].ResponseSummary)
	}
}

func TestExecuteActionsBoundsSummaries(t *testing.T) {
	targets := []MachineTarget{{AssetID: "sg-101", Machine: MachinePrimary}}
	call := func(ctx context.Context, target MachineTarget) (int, string, error) {
		return 200, strings.Repeat("v", 5000), nil
	}

	results := ExecuteActions(context.Background(), targets, "start", call, FanOutConfig{})
	if len(results[0].ResponseSummary) > SummaryLimit {
		t.Errorf("summary length %d exceeds limit %d", len(results[0].ResponseSummary), SummaryLimit)
	}
}

func TestPendingResults(t *testing.T) {
	targets := []MachineTarget{
		{AssetID: "sg-101", Machine: MachinePrimary},
		{AssetID: "sg-101-crystal", Machine: MachineSecondary},
	}
	pending := PendingResults(targets, "Waiting for uplogd…")
	if len(pending) != 2 {
		t.Fatalf("got %d pending results, want 2", len(pending))
	}
	for i, result := range pending {
		if result.Success != nil {
			t.Errorf("pending[%d].Success = %v, want nil (outcome unknown)", i, result.Success)
		}
		if result.AssetID != targets[i].AssetID {
			t.Errorf("pending[%d].AssetID = %q, want %q", i, result.AssetID, targets[i].AssetID)
		}
	}
}
