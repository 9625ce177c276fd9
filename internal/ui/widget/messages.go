// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the widget.
// Messages are organized into the following categories:
//   - Session: open, close, minimize requests from the host
//   - Turn: reply and error delivery from the AI caller
//   - Deferred: the one-shot nudge and the delayed suggested-actions append
//   - Viewport: host viewport observations and focus scroll
package widget

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/platefront/assist-tui/internal/assist"
	"github.com/platefront/assist-tui/internal/transcript"
	"github.com/platefront/assist-tui/internal/ui/layout"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// OpenMsg asks the widget to open the chat session.
type OpenMsg struct{}

// CloseMsg asks the widget to close the chat session.
type CloseMsg struct{}

// ToggleMinimizeMsg toggles between open and minimized while the session is
// not closed.
type ToggleMinimizeMsg struct{}

// =============================================================================
// TURN MESSAGES
// =============================================================================

// TurnReplyMsg delivers the backend reply for the in-flight turn.
type TurnReplyMsg struct {
	Reply assist.Reply
}

// TurnErrorMsg signals that the in-flight turn failed.
type TurnErrorMsg struct {
	Err error
}

// =============================================================================
// DEFERRED TASK MESSAGES
// =============================================================================

// NudgeMsg is the one-shot "come talk to me" timer firing.
type NudgeMsg struct{}

// FollowUpMsg delivers the delayed suggested-actions message. Seq is the
// generation token: a stale tick (after close or teardown bumped the
// generation) is dropped.
type FollowUpMsg struct {
	Seq     int
	Message *transcript.Message
}

// =============================================================================
// VIEWPORT MESSAGES
// =============================================================================

// ViewportObservationMsg is a host report of the visible viewport. Hosts
// without a visible-viewport signal never send this; the widget then falls
// back to tea.WindowSizeMsg alone.
type ViewportObservationMsg struct {
	Observation layout.Observation
}

// scrollInputIntoViewMsg fires shortly after the input gains focus to
// counter keyboard-open reflow races.
type scrollInputIntoViewMsg struct {
	Seq int
}

// =============================================================================
// COMMANDS
// =============================================================================

// nudgeCmd schedules the one-shot unread nudge.
func nudgeCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return NudgeMsg{}
	})
}

// followUpCmd schedules the deferred suggested-actions append.
func followUpCmd(seq int, msg *transcript.Message) tea.Cmd {
	return tea.Tick(assist.FollowUpDelay, func(time.Time) tea.Msg {
		return FollowUpMsg{Seq: seq, Message: msg}
	})
}

// scrollInputCmd schedules the delayed scroll-into-view after input focus.
func scrollInputCmd(seq int) tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return scrollInputIntoViewMsg{Seq: seq}
	})
}
