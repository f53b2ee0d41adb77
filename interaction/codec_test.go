// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func fullContext() *Context {
	submitted := time.Date(2026, 3, 2, 16, 4, 5, 0, time.UTC)
	checked := submitted.Add(3 * time.Minute)
	return &Context{
		BaseAsset:   AssetRef{ID: "sg-101", Label: "sg-101"},
		Operation:   "start",
		SubmittedAt: submitted,
		Results: []TargetResult{
			{AssetID: "sg-101", Machine: MachinePrimary, Success: SuccessOf(true), StatusCode: 200, ResponseSummary: "uplogd started"},
			{AssetID: "sg-101-crystal", Machine: MachineSecondary, Success: SuccessOf(false), StatusCode: 504, ResponseSummary: "gateway timeout"},
		},
		Statuses: []StatusResult{
			{
				TargetResult: TargetResult{AssetID: "sg-101", Machine: MachinePrimary, Success: SuccessOf(true), StatusCode: 200, ResponseSummary: "running"},
				CheckedAt:    checked,
			},
		},
		ResponseMode: ModeUpdate,
		RequestedBy:  User{ID: "U123", Username: "skipper", RealName: "Sam Skipper"},
		ServiceLabel: "uplogd",
		MachineLabel: "imx8",
	}
}

func TestCodecRoundTrip(t *testing.T) {
	original := fullContext()

	encoded := EncodeControlPayload(original)
	if len(encoded) > MaxControlValue {
		t.Fatalf("encoded payload is %d chars, want <= %d", len(encoded), MaxControlValue)
	}

	decoded, err := DecodeControlPayload(encoded)
	if err != nil {
		t.Fatalf("DecodeControlPayload: %v", err)
	}

	// Every retained field round-trips exactly.
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round-trip mismatch:\n got: %+v\nwant: %+v", decoded, original)
	}
}

func TestCodecExcludesUnsanitizedFields(t *testing.T) {
	original := fullContext()
	original.SummaryLine = "cached summary"
	original.Results[0].Error = "raw transport error"
	original.Statuses[0].Devices = []DeviceState{{Device: "gps", State: "off"}}

	decoded, err := DecodeControlPayload(EncodeControlPayload(original))
	if err != nil {
		t.Fatalf("DecodeControlPayload: %v", err)
	}

	if decoded.SummaryLine != "" {
		t.Errorf("SummaryLine survived sanitization: %q", decoded.SummaryLine)
	}
	if decoded.Results[0].Error != "" {
		t.Errorf("per-target Error survived sanitization: %q", decoded.Results[0].Error)
	}
	if len(decoded.Statuses[0].Devices) != 0 {
		t.Errorf("Devices survived sanitization: %v", decoded.Statuses[0].Devices)
	}
}

func TestCodecDeterministic(t *testing.T) {
	first := EncodeControlPayload(fullContext())
	second := EncodeControlPayload(fullContext())
	if first != second {
		t.Error("encoding the same context twice produced different payloads")
	}
}

func TestCodecNilAndEmptyContext(t *testing.T) {
	encoded := EncodeControlPayload(nil)
	if encoded == "" {
		t.Fatal("nil context produced empty encoding")
	}
	decoded, err := DecodeControlPayload(encoded)
	if err != nil {
		t.Fatalf("DecodeControlPayload(empty encoding): %v", err)
	}
	if decoded.BaseAsset.ID != "" || len(decoded.Results) != 0 {
		t.Errorf("empty encoding decoded to non-empty context: %+v", decoded)
	}
}

func TestCodecSizeBoundDegradation(t *testing.T) {
	ctx := fullContext()
	// Blow well past the control limit with many targets carrying
	// maximal summaries.
	long := strings.Repeat("x", SummaryLimit)
	ctx.Results = nil
	ctx.Statuses = nil
	for i := 0; i < 40; i++ {
		ctx.Results = append(ctx.Results, TargetResult{
			AssetID:         "sg-101",
			Machine:         MachinePrimary,
			Success:         SuccessOf(true),
			StatusCode:      200,
			ResponseSummary: long + strings.Repeat("y", i), // defeat compression a little
		})
		ctx.Statuses = append(ctx.Statuses, StatusResult{
			TargetResult: TargetResult{AssetID: "sg-101", Machine: MachinePrimary, Success: SuccessOf(true), StatusCode: 200, ResponseSummary: strings.Repeat("z", i) + long},
			CheckedAt:    ctx.SubmittedAt,
		})
	}

	encoded := EncodeControlPayload(ctx)
	if len(encoded) > MaxControlValue {
		t.Fatalf("encoded payload is %d chars, want <= %d", len(encoded), MaxControlValue)
	}

	decoded, err := DecodeControlPayload(encoded)
	if err != nil {
		t.Fatalf("DecodeControlPayload: %v", err)
	}
	// Identity fields survive even when summaries or sections were
	// shed to fit.
	if decoded.BaseAsset.ID != "sg-101" || decoded.Operation != "start" {
		t.Errorf("degraded payload lost identity fields: %+v", decoded.BaseAsset)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"not_base64", "!!!not-base64!!!"},
		{"too_short", "AAAA"},
		{"random_bytes", "aGVsbG8gd29ybGQgdGhpcyBpcyBub3QgYSBwYXlsb2Fk"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeControlPayload(test.value)
			if !errors.Is(err, ErrNoContext) {
				t.Errorf("DecodeControlPayload(%q) error = %v, want ErrNoContext", test.value, err)
			}
		})
	}
}

func TestDecodeRejectsCorruptedPayload(t *testing.T) {
	encoded := EncodeControlPayload(fullContext())

	// Flip a character near the end (inside the compressed body).
	corrupted := []byte(encoded)
	last := len(corrupted) - 1
	if corrupted[last] == 'A' {
		corrupted[last] = 'B'
	} else {
		corrupted[last] = 'A'
	}

	_, err := DecodeControlPayload(string(corrupted))
	if !errors.Is(err, ErrNoContext) {
		t.Errorf("corrupted payload error = %v, want ErrNoContext", err)
	}
}

func TestTruncateSummary(t *testing.T) {
	if got := TruncateSummary("short"); got != "short" {
		t.Errorf("TruncateSummary(short) = %q", got)
	}
	long := strings.Repeat("a", SummaryLimit+50)
	got := TruncateSummary(long)
	if len(got) != SummaryLimit {
		t.Errorf("len(TruncateSummary(long)) = %d, want %d", len(got), SummaryLimit)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("TruncateSummary(long) does not end with ellipsis: %q", got[len(got)-5:])
	}
}
