// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package widget implements the assistant chat widget: the session state
// machine (closed, open, minimized), the unread indicator, the turn protocol
// against the AI caller, and the Bubble Tea view of the transcript.
package widget
