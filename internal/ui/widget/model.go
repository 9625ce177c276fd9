// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/platefront/assist-tui/internal/assist"
	"github.com/platefront/assist-tui/internal/config"
	"github.com/platefront/assist-tui/internal/transcript"
	"github.com/platefront/assist-tui/internal/ui/layout"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionState is the chat session state, owned exclusively by this model.
// It is independent of the transcript: closing the session does not discard
// messages.
type SessionState int

const (
	SessionClosed    SessionState = iota // Launcher only; unread indicator may show
	SessionOpen                          // Full chat surface
	SessionMinimized                     // Title bar only; session still live
)

// String returns a display name for the session state.
func (s SessionState) String() string {
	switch s {
	case SessionClosed:
		return "closed"
	case SessionOpen:
		return "open"
	case SessionMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// fallbackTurnError is the single fixed transcript message appended when the
// AI call fails. Never retried automatically.
const fallbackTurnError = "A technical error occurred. Please try again later."

// =============================================================================
// RUNTIME STATE
// =============================================================================

// runtime holds state shared across Bubble Tea's value copies of the model:
// the teardown flag and the transcript change signal set by the transcript
// subscription. All access happens on the single UI loop.
type runtime struct {
	destroyed   bool
	dirty       bool // transcript changed since last drain
	unsubscribe func()
}

// =============================================================================
// WIDGET MODEL
// =============================================================================

// Model is the Bubble Tea model for the assistant widget.
type Model struct {
	// Session state machine
	session   SessionState
	hasUnread bool // meaningful only while session is Closed
	awaiting  bool // true while a turn is in flight; the sole concurrency guard

	// Conversation
	transcript *transcript.Transcript

	// Collaborators
	caller    assist.Caller
	notifier  assist.Notifier
	navigator assist.Navigator
	identity  assist.Identity

	// Geometry
	layout *layout.Controller
	width  int

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Deferred task generations. Bumping a generation invalidates any tick
	// already in flight; tea.Tick itself cannot be cancelled.
	followSeq int
	scrollSeq int

	// One-shot nudge bookkeeping
	nudgeFired bool
	nudgeDelay time.Duration

	// Settings
	title       string
	maxHeight   int
	turnTimeout time.Duration

	rt *runtime
}

// New creates the widget wired to its collaborators. The session starts
// Closed with an empty transcript.
func New(caller assist.Caller, notifier assist.Notifier, navigator assist.Navigator, identity assist.Identity) Model {
	cfg := config.Global()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your order, menus, payments..."
	ti.CharLimit = 1024

	vp := viewport.New(60, layout.DefaultGeometry().UsableHeight)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	rt := &runtime{}
	tr := transcript.New()
	rt.unsubscribe = tr.Subscribe(func(*transcript.Message) {
		rt.dirty = true
	})

	return Model{
		session:     SessionClosed,
		transcript:  tr,
		caller:      caller,
		notifier:    notifier,
		navigator:   navigator,
		identity:    identity,
		layout:      layout.New(),
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		nudgeDelay:  time.Duration(cfg.Widget.NudgeDelaySecs) * time.Second,
		title:       cfg.Widget.Title,
		maxHeight:   cfg.Widget.MaxHeight,
		turnTimeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		rt:          rt,
	}
}

// Teardown invalidates pending deferred tasks and detaches the transcript
// subscription. After Teardown no timer callback mutates widget state.
func (m *Model) Teardown() {
	m.rt.destroyed = true
	if m.rt.unsubscribe != nil {
		m.rt.unsubscribe()
		m.rt.unsubscribe = nil
	}
}

// Session returns the current session state.
func (m *Model) Session() SessionState {
	return m.session
}

// HasUnread reports the unread indicator, true only while Closed.
func (m *Model) HasUnread() bool {
	return m.hasUnread
}

// Awaiting reports whether a turn is in flight.
func (m *Model) Awaiting() bool {
	return m.awaiting
}

// Transcript exposes the transcript, for the host and for tests.
func (m *Model) Transcript() *transcript.Transcript {
	return m.transcript
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init schedules the one-shot unread nudge.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, nudgeCmd(m.nudgeDelay))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.rt.destroyed {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Fallback signal: hosts without visible-viewport observation
		// report only the outer window size.
		return m.handleObservation(layout.Observation{
			Width:         msg.Width,
			VisibleHeight: msg.Height,
			OuterHeight:   msg.Height,
		})

	case ViewportObservationMsg:
		return m.handleObservation(msg.Observation)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case OpenMsg:
		return m.openSession()

	case CloseMsg:
		return m.closeSession(), nil

	case ToggleMinimizeMsg:
		return m.toggleMinimize(), nil

	case NudgeMsg:
		return m.handleNudge()

	case TurnReplyMsg:
		return m.handleTurnReply(msg)

	case TurnErrorMsg:
		return m.handleTurnError(msg)

	case FollowUpMsg:
		return m.handleFollowUp(msg)

	case scrollInputIntoViewMsg:
		if msg.Seq == m.scrollSeq && m.session == SessionOpen {
			m.viewport.GotoBottom()
		}
		return m, nil

	case spinner.TickMsg:
		if m.awaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		if m.session == SessionOpen && !m.awaiting {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
		return m, tea.Batch(cmds...)
	}
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+q" {
		return m, tea.Quit
	}

	switch m.session {
	case SessionClosed:
		switch keyStr {
		case "enter", "o":
			return m.openSession()
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case SessionMinimized:
		switch keyStr {
		case "enter", "ctrl+o":
			return m.restoreSession()
		case "esc":
			return m.closeSession(), nil
		}
		return m, nil

	case SessionOpen:
		switch keyStr {
		case "esc":
			return m.closeSession(), nil

		case "ctrl+o":
			return m.toggleMinimize(), nil

		case "enter":
			return m.submitTurn()

		case "up", "pgup":
			m.viewport.LineUp(1)
			return m, nil

		case "down", "pgdown":
			m.viewport.LineDown(1)
			return m, nil
		}

		// Alt+digit activates the corresponding card on the latest
		// assistant message.
		if strings.HasPrefix(keyStr, "alt+") {
			if n, err := strconv.Atoi(strings.TrimPrefix(keyStr, "alt+")); err == nil && n >= 1 {
				return m.activateCard(n - 1)
			}
		}

		if m.awaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

// openSession transitions Closed -> Open and clears the unread indicator.
func (m Model) openSession() (tea.Model, tea.Cmd) {
	if m.session != SessionClosed {
		return m, nil
	}
	m.session = SessionOpen
	m.hasUnread = false
	m.input.Focus()
	m.syncViewport()
	m.viewport.GotoBottom()

	// Focus pulls the soft keyboard up on mobile hosts; counter the reflow
	// race with a short-delayed scroll.
	m.scrollSeq++
	return m, tea.Batch(textinput.Blink, scrollInputCmd(m.scrollSeq))
}

// closeSession transitions any state to Closed. Closing always fully resets
// the minimized flag so the next open starts expanded. In-flight deferred
// appends are invalidated.
func (m Model) closeSession() Model {
	m.session = SessionClosed
	m.followSeq++
	m.scrollSeq++
	m.input.Blur()
	return m
}

// toggleMinimize flips Open <-> Minimized; no-op while Closed.
func (m Model) toggleMinimize() Model {
	switch m.session {
	case SessionOpen:
		m.session = SessionMinimized
		m.input.Blur()
	case SessionMinimized:
		m.session = SessionOpen
		m.input.Focus()
	}
	return m
}

// restoreSession transitions Minimized -> Open.
func (m Model) restoreSession() (tea.Model, tea.Cmd) {
	if m.session != SessionMinimized {
		return m, nil
	}
	m.session = SessionOpen
	m.input.Focus()
	m.syncViewport()
	m.viewport.GotoBottom()
	m.scrollSeq++
	return m, tea.Batch(textinput.Blink, scrollInputCmd(m.scrollSeq))
}

// handleNudge fires the one-shot unread nudge: only when the transcript is
// still empty and the session still Closed, and never twice.
func (m Model) handleNudge() (tea.Model, tea.Cmd) {
	if m.nudgeFired {
		return m, nil
	}
	m.nudgeFired = true
	if m.session == SessionClosed && m.transcript.IsEmpty() {
		m.hasUnread = true
	}
	return m, nil
}

// =============================================================================
// TURN PROTOCOL
// =============================================================================

// submitTurn runs the turn protocol: validate input, echo the user message,
// raise the in-flight guard, and issue exactly one backend call.
func (m Model) submitTurn() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		// Input validation failure: silent no-op, no transition.
		return m, nil
	}
	if m.awaiting {
		// At most one in-flight turn. Without this guard, interleaved
		// completions could violate the transcript's monotonic append.
		return m, nil
	}

	m.input.Reset()
	m = m.appendMessage(transcript.NewUserMessage(content))
	m.awaiting = true

	return m, tea.Batch(m.spinner.Tick, m.callTurn(content))
}

// callTurn issues the single backend call for this turn off the UI loop.
func (m Model) callTurn(content string) tea.Cmd {
	caller := m.caller
	identity := m.identity
	timeout := m.turnTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, err := caller.SendTurn(ctx, content, assist.TurnContext{TenantID: identity.TenantID()})
		if err != nil {
			return TurnErrorMsg{Err: err}
		}
		return TurnReplyMsg{Reply: reply}
	}
}

// handleTurnReply renders the backend reply into the transcript and, when
// the renderer produced a deferred suggested-actions message, schedules its
// append without blocking the first message.
func (m Model) handleTurnReply(msg TurnReplyMsg) (tea.Model, tea.Cmd) {
	res := assist.Render(msg.Reply)
	for _, out := range res.Messages {
		m = m.appendMessage(out)
	}
	m.awaiting = false

	var cmd tea.Cmd
	if res.Deferred != nil {
		m.followSeq++
		cmd = followUpCmd(m.followSeq, res.Deferred)
	}
	return m, cmd
}

// handleTurnError appends the single fixed fallback message and surfaces one
// external notification. The turn is terminal; nothing is retried.
func (m Model) handleTurnError(msg TurnErrorMsg) (tea.Model, tea.Cmd) {
	m = m.appendMessage(transcript.NewAssistantMessage(fallbackTurnError))
	m.awaiting = false
	if m.notifier != nil {
		body := ""
		if msg.Err != nil {
			body = msg.Err.Error()
		}
		m.notifier.NotifyError("Assistant unavailable", body)
	}
	return m, nil
}

// handleFollowUp appends the deferred suggested-actions message unless the
// generation token went stale (session closed or widget torn down since).
func (m Model) handleFollowUp(msg FollowUpMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.followSeq || msg.Message == nil {
		return m, nil
	}
	// Stamp at append time, not render time, so a turn submitted during the
	// delay cannot make this append non-monotonic.
	msg.Message.Timestamp = time.Now()
	m = m.appendMessage(msg.Message)
	return m, nil
}

// =============================================================================
// TRANSCRIPT PLUMBING
// =============================================================================

// appendMessage appends to the transcript and consumes the resulting change
// notification: scroll to latest, and mark unread while the session is
// Closed. An out-of-order timestamp cannot occur on this single loop; if it
// ever did, the message is dropped rather than displayed out of order.
func (m Model) appendMessage(msg *transcript.Message) Model {
	if err := m.transcript.Append(msg); err != nil {
		return m
	}
	if m.rt.dirty {
		m.rt.dirty = false
		if m.session == SessionClosed {
			m.hasUnread = true
		}
		m.syncViewport()
		m.viewport.GotoBottom()
	}
	return m
}

// =============================================================================
// GEOMETRY
// =============================================================================

// handleObservation recomputes geometry from a host viewport report and
// resizes the chat surface.
func (m Model) handleObservation(o layout.Observation) (tea.Model, tea.Cmd) {
	m.width = o.Width
	g := m.layout.Observe(o)

	height := g.UsableHeight
	if m.maxHeight > 0 && height > m.maxHeight {
		height = m.maxHeight
	}
	m.viewport.Height = height

	width := o.Width - 2
	if width < 20 {
		width = 20
	}
	m.viewport.Width = width

	inputWidth := width - len(m.input.Prompt) - 2
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.syncViewport()
	return m, nil
}

// Geometry returns the current chat surface geometry.
func (m *Model) Geometry() layout.Geometry {
	return m.layout.Current()
}

// syncViewport re-renders the transcript into the scrollback viewport.
func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderTranscript())
}

// =============================================================================
// CARD ACTIVATION
// =============================================================================

// activateCard navigates to the restaurant behind the idx-th card of the
// latest assistant message. Navigation closes the session as a side effect.
func (m Model) activateCard(idx int) (tea.Model, tea.Cmd) {
	last := m.transcript.LastAssistant()
	if last == nil || idx < 0 || idx >= len(last.Attached) {
		return m, nil
	}
	att := last.Attached[idx]
	if att.RestaurantID == "" {
		return m, nil
	}

	m = m.closeSession()
	if m.navigator != nil {
		m.navigator.GoToRestaurant(att.RestaurantID)
	}
	return m, nil
}
