// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seagrove-marine/dockbot/lib/clock"
	"github.com/seagrove-marine/dockbot/lib/httpx"
)

// signatureTolerance bounds how stale a signed request may be. Older
// requests are rejected to blunt replay of captured traffic.
const signatureTolerance = 5 * time.Minute

// Handler receives verified, decoded events from the webhook server.
// Calls are made on a dispatch goroutine after the HTTP request has
// already been acknowledged, so handlers may block on slow work.
type Handler interface {
	HandleInteraction(ctx context.Context, payload InteractionPayload)
	HandleCommand(ctx context.Context, command SlashCommand)
}

// ServerConfig configures a webhook Server.
type ServerConfig struct {
	// Address is the TCP listen address (e.g., ":3000"). Required.
	Address string

	// SigningSecret verifies the platform's request signatures.
	// Required.
	SigningSecret string

	// Handler receives decoded events. Required.
	Handler Handler

	// ShutdownTimeout is the maximum time to wait for in-flight
	// requests to complete during graceful shutdown. Defaults to
	// 10 seconds if zero.
	ShutdownTimeout time.Duration

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger

	// Clock supplies the current time for signature freshness checks.
	// If nil, the real clock is used.
	Clock clock.Clock
}

// Server receives the platform's interactivity and slash-command
// webhooks. Every request is signature-verified before any of its
// content is interpreted; verified events are acknowledged immediately
// and dispatched to the Handler on a separate goroutine so slow work
// never trips the platform's acknowledgement deadline.
type Server struct {
	address         string
	signingSecret   []byte
	handler         Handler
	logger          *slog.Logger
	clk             clock.Clock
	shutdownTimeout time.Duration

	// ready is closed after the listener is bound and the server is
	// accepting connections.
	ready chan struct{}

	// addr is the resolved listen address, available after ready is
	// closed.
	addr net.Addr

	// dispatchCtx is the context handed to Handler calls. Set by
	// Serve; cancelled when serving stops.
	dispatchCtx context.Context
}

// NewServer creates a webhook server. Call Serve to start accepting
// connections.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("workspace: Address is required")
	}
	if config.SigningSecret == "" {
		return nil, fmt.Errorf("workspace: SigningSecret is required")
	}
	if config.Handler == nil {
		return nil, fmt.Errorf("workspace: Handler is required")
	}

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	return &Server{
		address:         config.Address,
		signingSecret:   []byte(config.SigningSecret),
		handler:         config.Handler,
		logger:          logger,
		clk:             clk,
		shutdownTimeout: timeout,
		ready:           make(chan struct{}),
	}, nil
}

// Ready returns a channel that is closed once the server is bound and
// accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the resolved listen address. Only valid after Ready()
// is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve starts accepting webhook requests. Blocks until ctx is
// cancelled, then performs graceful shutdown: stops accepting new
// connections and waits up to ShutdownTimeout for active requests to
// complete. Dispatched handler calls observe ctx through their own
// context.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("workspace: listening on %s: %w", s.address, err)
	}
	s.addr = listener.Addr()

	dispatchCtx, cancelDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelDispatch()
	s.dispatchCtx = dispatchCtx
	close(s.ready)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /interactions", s.handleInteractions)
	mux.HandleFunc("POST /commands", s.handleCommands)

	server := &http.Server{
		Handler: mux,

		// Webhook payloads are small; generous timeouts protect
		// against slow clients holding connections open.
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("webhook server listening", "address", s.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
	case err := <-serveDone:
		if err != nil {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("webhook server shutdown error", "error", err)
		return fmt.Errorf("workspace: server shutdown: %w", err)
	}

	s.logger.Info("webhook server stopped")
	return nil
}

// verifiedBody reads the request body and checks the platform's v0
// signature over it. Returns the raw body on success. On failure it
// writes the rejection status and returns false; the caller must not
// interpret any part of the request.
func (s *Server) verifiedBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := httpx.ReadBody(r.Body)
	if err != nil {
		s.logger.Warn("webhook body read failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")
	if err := s.verifySignature(body, timestamp, signature); err != nil {
		s.logger.Warn("webhook signature rejected", "error", err, "remote", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}
	return body, true
}

// verifySignature checks the v0 signing scheme: hex(HMAC-SHA256(secret,
// "v0:" + timestamp + ":" + body)) carried in the signature header with
// a "v0=" prefix. Timestamps outside the tolerance window are rejected
// regardless of signature validity. The error is safe to log; it never
// includes the expected digest.
func (s *Server) verifySignature(body []byte, timestamp, signature string) error {
	if timestamp == "" {
		return errors.New("missing timestamp header")
	}
	if signature == "" {
		return errors.New("missing signature header")
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", timestamp, err)
	}
	age := s.clk.Now().Sub(time.Unix(seconds, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("timestamp outside tolerance: %s", age)
	}

	hexSignature := strings.TrimPrefix(signature, "v0=")
	signatureBytes, err := hex.DecodeString(hexSignature)
	if err != nil {
		return fmt.Errorf("invalid hex signature: %w", err)
	}

	mac := hmac.New(sha256.New, s.signingSecret)
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	expected := mac.Sum(nil)

	if subtle.ConstantTimeCompare(expected, signatureBytes) != 1 {
		return errors.New("signature mismatch")
	}
	return nil
}

// handleInteractions receives interactivity events. The payload
// arrives form-encoded with the JSON event under the "payload" field.
func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		s.logger.Warn("interaction form parse failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var payload InteractionPayload
	if err := json.Unmarshal([]byte(form.Get("payload")), &payload); err != nil {
		s.logger.Warn("interaction payload parse failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch payload.Type {
	case InteractionShortcut, InteractionBlockActions, InteractionViewSubmission:
	default:
		s.logger.Warn("unrecognized interaction type dropped", "type", payload.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Acknowledge before doing any work: the platform retries
	// unacknowledged events, and slow handlers must not cause
	// duplicate deliveries.
	w.WriteHeader(http.StatusOK)

	go s.handler.HandleInteraction(s.dispatchCtx, payload)
}

// handleCommands receives slash-command invocations, form-encoded.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	body, ok := s.verifiedBody(w, r)
	if !ok {
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		s.logger.Warn("command form parse failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	command := SlashCommand{
		Command:     form.Get("command"),
		Text:        strings.TrimSpace(form.Get("text")),
		ChannelID:   form.Get("channel_id"),
		UserID:      form.Get("user_id"),
		ResponseURL: form.Get("response_url"),
	}
	if command.Command == "" {
		s.logger.Warn("command without name dropped")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	go s.handler.HandleCommand(s.dispatchCtx, command)
}
