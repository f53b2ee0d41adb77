// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package interaction

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/seagrove-marine/dockbot/lib/codec"
)

// MaxControlValue is the chat platform's limit on an interactive
// control's value, in characters. Encoded payloads never exceed it:
// EncodeControlPayload degrades the projection until it fits.
const MaxControlValue = 2000

// ErrNoContext is returned by DecodeControlPayload when the payload
// is missing, corrupted, or otherwise unusable. Callers must treat it
// as "no prior context" and abandon the interaction step, never as a
// fatal error.
var ErrNoContext = errors.New("interaction: no usable control payload")

// payloadVersion is bumped when the projection shape changes
// incompatibly. Decoding rejects unknown versions (stale controls
// from an old deploy fail closed instead of resuming with garbage).
const payloadVersion = 1

// payloadKey is the 32-byte BLAKE3 key for the payload checksum. The
// byte values are the ASCII domain name zero-padded to 32 bytes:
// readable in hex dumps, and domain separation costs nothing. The key
// is a fixed constant — the checksum guards against corruption and
// cross-version confusion, not against a forging adversary (the chat
// platform already authenticates who may click a control).
var payloadKey = [32]byte{
	'd', 'o', 'c', 'k', 'b', 'o', 't', '.',
	'c', 'o', 'n', 't', 'r', 'o', 'l', '.',
	'p', 'a', 'y', 'l', 'o', 'a', 'd', 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// checksumLen is the truncated BLAKE3 digest length prefixed to the
// encoded payload.
const checksumLen = 16

// controlPayload is the sanitized projection of a Context that rides
// inside an interactive control. Only fields required to resume the
// flow are retained; raw provider payloads and anything else on the
// aggregate never leave the process. Field keys are single characters
// because every byte counts against MaxControlValue.
//
// This type is only ever serialized as CBOR.
type controlPayload struct {
	Version      uint8           `cbor:"v"`
	AssetID      string          `cbor:"a,omitempty"`
	AssetLabel   string          `cbor:"l,omitempty"`
	Operation    string          `cbor:"o,omitempty"`
	SubmittedAt  int64           `cbor:"t,omitempty"` // unix milliseconds; 0 = unset
	Results      []payloadResult `cbor:"r,omitempty"`
	Statuses     []payloadStatus `cbor:"s,omitempty"`
	PendingReq   bool            `cbor:"p,omitempty"`
	PendingCheck bool            `cbor:"c,omitempty"`
	Mode         string          `cbor:"m,omitempty"`
	UserID       string          `cbor:"u,omitempty"`
	Username     string          `cbor:"n,omitempty"`
	RealName     string          `cbor:"f,omitempty"`
	ServiceLabel string          `cbor:"g,omitempty"`
	StatusKind   string          `cbor:"k,omitempty"`
	MachineLabel string          `cbor:"b,omitempty"`
}

type payloadResult struct {
	AssetID    string `cbor:"a,omitempty"`
	Machine    string `cbor:"m,omitempty"`
	Success    *bool  `cbor:"k"`
	StatusCode int    `cbor:"c,omitempty"`
	Summary    string `cbor:"s,omitempty"`
}

type payloadStatus struct {
	payloadResult
	CheckedAt int64 `cbor:"t,omitempty"` // unix milliseconds
}

// project builds the sanitized projection of ctx. Devices, errors,
// and the cached summary line are deliberately excluded: they are
// re-derivable or too large for a control value.
func project(ctx *Context) controlPayload {
	payload := controlPayload{
		Version:      payloadVersion,
		AssetID:      ctx.BaseAsset.ID,
		AssetLabel:   ctx.BaseAsset.Label,
		Operation:    ctx.Operation,
		PendingReq:   ctx.PendingRequest,
		PendingCheck: ctx.PendingStatusCheck,
		Mode:         string(ctx.ResponseMode),
		UserID:       ctx.RequestedBy.ID,
		Username:     ctx.RequestedBy.Username,
		RealName:     ctx.RequestedBy.RealName,
		ServiceLabel: ctx.ServiceLabel,
		StatusKind:   ctx.StatusKind,
		MachineLabel: ctx.MachineLabel,
	}
	if !ctx.SubmittedAt.IsZero() {
		payload.SubmittedAt = ctx.SubmittedAt.UnixMilli()
	}
	for _, result := range ctx.Results {
		payload.Results = append(payload.Results, payloadResult{
			AssetID:    result.AssetID,
			Machine:    string(result.Machine),
			Success:    result.Success,
			StatusCode: result.StatusCode,
			Summary:    result.ResponseSummary,
		})
	}
	for _, status := range ctx.Statuses {
		projected := payloadStatus{
			payloadResult: payloadResult{
				AssetID:    status.AssetID,
				Machine:    string(status.Machine),
				Success:    status.Success,
				StatusCode: status.StatusCode,
				Summary:    status.ResponseSummary,
			},
		}
		if !status.CheckedAt.IsZero() {
			projected.CheckedAt = status.CheckedAt.UnixMilli()
		}
		payload.Statuses = append(payload.Statuses, projected)
	}
	return payload
}

// restore rebuilds a Context from a decoded projection. Absent fields
// come back as their zero values; decode never invents data.
func restore(payload controlPayload) *Context {
	ctx := &Context{
		BaseAsset:          AssetRef{ID: payload.AssetID, Label: payload.AssetLabel},
		Operation:          payload.Operation,
		PendingRequest:     payload.PendingReq,
		PendingStatusCheck: payload.PendingCheck,
		ResponseMode:       ResponseMode(payload.Mode),
		RequestedBy:        User{ID: payload.UserID, Username: payload.Username, RealName: payload.RealName},
		ServiceLabel:       payload.ServiceLabel,
		StatusKind:         payload.StatusKind,
		MachineLabel:       payload.MachineLabel,
	}
	if payload.SubmittedAt != 0 {
		ctx.SubmittedAt = time.UnixMilli(payload.SubmittedAt).UTC()
	}
	for _, result := range payload.Results {
		ctx.Results = append(ctx.Results, TargetResult{
			AssetID:         result.AssetID,
			Machine:         Machine(result.Machine),
			Success:         result.Success,
			StatusCode:      result.StatusCode,
			ResponseSummary: result.Summary,
		})
	}
	for _, status := range payload.Statuses {
		restored := StatusResult{
			TargetResult: TargetResult{
				AssetID:         status.AssetID,
				Machine:         Machine(status.Machine),
				Success:         status.Success,
				StatusCode:      status.StatusCode,
				ResponseSummary: status.Summary,
			},
		}
		if status.CheckedAt != 0 {
			restored.CheckedAt = time.UnixMilli(status.CheckedAt).UTC()
		}
		ctx.Statuses = append(ctx.Statuses, restored)
	}
	return ctx
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
		zstd.WithWindowSize(zstd.MinWindowSize),
	)
	if err != nil {
		panic("interaction: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		// Payloads are at most a few KB; a 1 MB cap stops a
		// crafted bomb long before it matters.
		zstd.WithDecoderMaxMemory(1<<20),
	)
	if err != nil {
		panic("interaction: zstd decoder initialization failed: " + err.Error())
	}
}

// EncodeControlPayload serializes the sanitized projection of ctx
// into the opaque string carried by an interactive control. It never
// fails: when the full projection cannot be encoded or does not fit
// in MaxControlValue, it degrades stepwise — drop response summaries,
// then statuses, then results — and bottoms out at an empty-context
// encoding.
func EncodeControlPayload(ctx *Context) string {
	if ctx == nil {
		return seal(controlPayload{Version: payloadVersion})
	}

	payload := project(ctx)
	if encoded := seal(payload); len(encoded) <= MaxControlValue {
		return encoded
	}

	// Too big: summaries are the only unbounded-ish fields. Drop
	// them first, then whole sections, preserving target identity
	// for as long as possible.
	for i := range payload.Results {
		payload.Results[i].Summary = ""
	}
	for i := range payload.Statuses {
		payload.Statuses[i].Summary = ""
	}
	if encoded := seal(payload); len(encoded) <= MaxControlValue {
		return encoded
	}

	payload.Statuses = nil
	if encoded := seal(payload); len(encoded) <= MaxControlValue {
		return encoded
	}

	payload.Results = nil
	if encoded := seal(payload); len(encoded) <= MaxControlValue {
		return encoded
	}

	return seal(controlPayload{Version: payloadVersion})
}

// DecodeControlPayload parses an opaque control value back into a
// Context. Any failure — bad base64, checksum mismatch, truncated
// compression frame, unknown version — returns ErrNoContext (wrapped
// with the cause); the caller re-derives from first principles or
// abandons the step.
func DecodeControlPayload(value string) (*Context, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrNoContext, err)
	}
	if len(raw) < checksumLen {
		return nil, fmt.Errorf("%w: payload too short", ErrNoContext)
	}

	sum := keyedChecksum(raw[checksumLen:])
	for i := 0; i < checksumLen; i++ {
		if raw[i] != sum[i] {
			return nil, fmt.Errorf("%w: checksum mismatch", ErrNoContext)
		}
	}

	compressed := raw[checksumLen:]
	data, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrNoContext, err)
	}

	var payload controlPayload
	if err := codec.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrNoContext, err)
	}
	if payload.Version != payloadVersion {
		return nil, fmt.Errorf("%w: payload version %d", ErrNoContext, payload.Version)
	}

	return restore(payload), nil
}

// seal encodes a projection to its final wire form:
// base64url(checksum || zstd(cbor)). On a marshal failure it recurses
// to the empty-context encoding rather than propagating an error —
// the codec contract is that encoding never throws.
func seal(payload controlPayload) string {
	data, err := codec.Marshal(payload)
	if err != nil {
		if payload.Results == nil && payload.Statuses == nil && payload.AssetID == "" {
			// Empty context failed to marshal: unreachable with a
			// well-formed type, but never panic in the render path.
			return ""
		}
		return seal(controlPayload{Version: payloadVersion})
	}

	compressed := zstdEncoder.EncodeAll(data, nil)
	sum := keyedChecksum(compressed)

	sealed := make([]byte, 0, checksumLen+len(compressed))
	sealed = append(sealed, sum[:checksumLen]...)
	sealed = append(sealed, compressed...)
	return base64.RawURLEncoding.EncodeToString(sealed)
}

func keyedChecksum(data []byte) [32]byte {
	hasher, err := blake3.NewKeyed(payloadKey[:])
	if err != nil {
		// Only possible with a wrong key length; payloadKey is 32
		// bytes by construction.
		panic("interaction: blake3 keyed hasher: " + err.Error())
	}
	hasher.Write(data)
	var sum [32]byte
	hasher.Sum(sum[:0])
	return sum
}
