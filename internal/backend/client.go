// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP implementation of the assistant caller.
// One POST per turn; failures are reported, never retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/platefront/assist-tui/internal/assist"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the assistant backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeBadStatus
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable     = &ClientError{Type: ErrTypeUnreachable, Message: "assistant backend is unreachable"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "assistant request timed out"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "assistant returned an invalid response"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the assistant client.
type ClientConfig struct {
	// URL is the assistant endpoint.
	URL string

	// Timeout bounds one turn request (default: 30s).
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		URL:     "http://127.0.0.1:8600/api/assistant",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client calls the assistant backend over HTTP. It implements assist.Caller.
type Client struct {
	cfg  *ClientConfig
	http *http.Client
}

// NewClient creates a client with the given configuration.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// turnRequest is the wire request for one assistant turn.
type turnRequest struct {
	Message  string `json:"message"`
	TenantID string `json:"tenant_id"`
}

// SendTurn issues exactly one assistant turn. The reply is returned as the
// opaque union the renderer consumes; HTTP and decode failures map to typed
// client errors.
func (c *Client) SendTurn(ctx context.Context, text string, tc assist.TurnContext) (assist.Reply, error) {
	body, err := json.Marshal(turnRequest{Message: text, TenantID: tc.TenantID})
	if err != nil {
		return assist.Reply{}, &ClientError{Type: ErrTypeUnknown, Message: "encoding turn request failed", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return assist.Reply{}, &ClientError{Type: ErrTypeUnknown, Message: "building turn request failed", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return assist.Reply{}, ErrTimeout
		}
		return assist.Reply{}, &ClientError{Type: ErrTypeUnreachable, Message: ErrUnreachable.Message, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return assist.Reply{}, &ClientError{
			Type:    ErrTypeBadStatus,
			Message: "assistant returned status " + resp.Status,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return assist.Reply{}, &ClientError{Type: ErrTypeInvalidResponse, Message: ErrInvalidResponse.Message, Cause: err}
	}

	var reply assist.Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return assist.Reply{}, &ClientError{Type: ErrTypeInvalidResponse, Message: ErrInvalidResponse.Message, Cause: err}
	}
	return reply, nil
}
