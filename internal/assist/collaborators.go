// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import "context"

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// TurnContext carries per-call context for one assistant turn.
type TurnContext struct {
	// TenantID is the caller's business-unit identifier, supplied by the
	// Identity collaborator.
	TenantID string
}

// Caller issues one assistant turn to the backend AI service. Implementations
// make exactly one attempt per call; the widget never retries a turn.
type Caller interface {
	SendTurn(ctx context.Context, text string, tc TurnContext) (Reply, error)
}

// Notifier surfaces a transient error notification outside the transcript.
// Fire and forget; used only when a turn fails.
type Notifier interface {
	NotifyError(title, body string)
}

// Navigator moves the surrounding application to a restaurant page when the
// user activates an attached card. Navigation closes the chat session as a
// side effect, which the widget handles itself before calling this.
type Navigator interface {
	GoToRestaurant(restaurantID string)
}

// Identity is the read-only accessor for the current session's tenant.
type Identity interface {
	TenantID() string
}

// =============================================================================
// NO-OP DEFAULTS
// =============================================================================

// NopNotifier discards notifications. Useful in tests and headless wiring.
type NopNotifier struct{}

func (NopNotifier) NotifyError(title, body string) {}

// NopNavigator ignores navigation requests.
type NopNavigator struct{}

func (NopNavigator) GoToRestaurant(restaurantID string) {}

// StaticIdentity supplies a fixed tenant identifier.
type StaticIdentity string

func (s StaticIdentity) TenantID() string { return string(s) }
