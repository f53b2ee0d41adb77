// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace is dockbot's client for the chat-workspace
// platform: the outbound Web API (post, update, and ephemeral
// messages, modal views) and the inbound interactivity webhook.
//
// The outbound side follows one pattern: a Client configured with the
// API base URL and bot token, a doRequest helper that handles auth
// and the ok/error response envelope, and typed methods per endpoint.
// Platform-level failures surface as *APIError so callers can branch
// on the platform error code with errors.As.
//
// The inbound side is a Server that verifies the platform's v0 HMAC
// request signature, parses interaction payloads (shortcuts, block
// actions, view submissions) and slash commands, acknowledges within
// the platform's deadline, and dispatches to a Handler on a separate
// goroutine. Malformed or unverifiable requests are logged and
// dropped; the bot never acts on input it cannot trust.
//
// The structured message model (blocks, text objects, interactive
// elements) lives here too; the render package builds values of these
// types and never touches the network.
package workspace
