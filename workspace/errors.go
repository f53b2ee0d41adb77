// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"errors"
	"fmt"
)

// APIError represents a structured error response from the workspace
// Web API. Callers can use errors.As to extract the platform error
// code:
//
//	var apiErr *workspace.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.Code == workspace.ErrCodeChannelNotFound { ... }
//	}
type APIError struct {
	// Code is the platform error code (e.g. "channel_not_found").
	Code string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("workspace: %s (%d)", e.Code, e.StatusCode)
}

// Error codes the bot branches on.
const (
	ErrCodeChannelNotFound = "channel_not_found"
	ErrCodeMessageNotFound = "message_not_found"
	ErrCodeNotInChannel    = "not_in_channel"
	ErrCodeExpiredTrigger  = "expired_trigger_id"
	ErrCodeHashConflict    = "hash_conflict"
	ErrCodeRateLimited     = "rate_limited"
)

// IsAPIError checks whether err is an *APIError with the given code.
func IsAPIError(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
