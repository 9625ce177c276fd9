// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/platefront/assist-tui/internal/assist"
	"github.com/platefront/assist-tui/internal/transcript"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeCaller struct {
	reply      assist.Reply
	err        error
	calls      int
	lastText   string
	lastTenant string
}

func (f *fakeCaller) SendTurn(_ context.Context, text string, tc assist.TurnContext) (assist.Reply, error) {
	f.calls++
	f.lastText = text
	f.lastTenant = tc.TenantID
	return f.reply, f.err
}

type fakeNotifier struct {
	calls  int
	titles []string
}

func (f *fakeNotifier) NotifyError(title, _ string) {
	f.calls++
	f.titles = append(f.titles, title)
}

type fakeNavigator struct {
	visited []string
}

func (f *fakeNavigator) GoToRestaurant(id string) {
	f.visited = append(f.visited, id)
}

func newTestWidget(caller *fakeCaller) (Model, *fakeNotifier, *fakeNavigator) {
	notifier := &fakeNotifier{}
	navigator := &fakeNavigator{}
	m := New(caller, notifier, navigator, assist.StaticIdentity("tenant-1"))
	return m, notifier, navigator
}

// update drives one message through the model and re-asserts the concrete type.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want widget.Model", next)
	}
	return got, cmd
}

// drain executes a command tree and collects the produced messages. Timer
// commands in this package fire quickly enough to run inline except the
// nudge and follow-up delays, which tests inject directly instead.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func openWidget(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, OpenMsg{})
	if m.Session() != SessionOpen {
		t.Fatalf("expected open session, got %v", m.Session())
	}
	return m
}

// submit types text into the input and presses enter.
func submit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

// findTurnResult runs the submit command tree and returns the turn outcome.
func findTurnResult(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	for _, msg := range drain(t, cmd) {
		switch msg.(type) {
		case TurnReplyMsg, TurnErrorMsg:
			return msg
		}
	}
	t.Fatal("submit produced no turn result")
	return nil
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

func TestSessionStartsClosed(t *testing.T) {
	m, _, _ := newTestWidget(&fakeCaller{})
	defer m.Teardown()

	if m.Session() != SessionClosed {
		t.Errorf("expected closed session, got %v", m.Session())
	}
	if !m.Transcript().IsEmpty() {
		t.Error("expected empty transcript")
	}
	if m.HasUnread() {
		t.Error("expected no unread indicator")
	}
}

func TestOpenClearsUnread(t *testing.T) {
	m, _, _ := newTestWidget(&fakeCaller{})
	defer m.Teardown()

	m, _ = update(t, m, NudgeMsg{})
	if !m.HasUnread() {
		t.Fatal("nudge on a closed empty session should set unread")
	}

	m = openWidget(t, m)
	if m.HasUnread() {
		t.Error("opening must clear the unread indicator")
	}
}

func TestCloseFromAnyStateResetsMinimized(t *testing.T) {
	m, _, _ := newTestWidget(&fakeCaller{})
	defer m.Teardown()

	m = openWidget(t, m)
	m, _ = update(t, m, ToggleMinimizeMsg{})
	if m.Session() != SessionMinimized {
		t.Fatalf("expected minimized, got %v", m.Session())
	}

	m, _ = update(t, m, CloseMsg{})
	if m.Session() != SessionClosed {
		t.Fatalf("close must reach Closed from minimized, got %v", m.Session())
	}

	// Reopening after a close from minimized must start expanded.
	m = openWidget(t, m)
	if m.Session() != SessionOpen {
		t.Errorf("reopen must start expanded, got %v", m.Session())
	}
}

func TestCloseKeepsTranscript(t *testing.T) {
	caller := &fakeCaller{reply: assist.Reply{Intent: assist.IntentSmalltalk, Text: "Hi!"}}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "hello")
	m, _ = update(t, m, findTurnResult(t, cmd))

	before := m.Transcript().Len()
	m, _ = update(t, m, CloseMsg{})
	m = openWidget(t, m)

	if m.Transcript().Len() != before {
		t.Errorf("close/reopen must preserve the transcript, had %d got %d", before, m.Transcript().Len())
	}
}

func TestMinimizeToggle(t *testing.T) {
	m, _, _ := newTestWidget(&fakeCaller{})
	defer m.Teardown()

	// Toggling while closed is a no-op.
	m, _ = update(t, m, ToggleMinimizeMsg{})
	if m.Session() != SessionClosed {
		t.Errorf("toggle while closed must be a no-op, got %v", m.Session())
	}

	m = openWidget(t, m)
	m, _ = update(t, m, ToggleMinimizeMsg{})
	if m.Session() != SessionMinimized {
		t.Errorf("expected minimized, got %v", m.Session())
	}
	m, _ = update(t, m, ToggleMinimizeMsg{})
	if m.Session() != SessionOpen {
		t.Errorf("expected open after second toggle, got %v", m.Session())
	}
}

// =============================================================================
// NUDGE
// =============================================================================

func TestNudgeFiresOnce(t *testing.T) {
	m, _, _ := newTestWidget(&fakeCaller{})
	defer m.Teardown()

	m, _ = update(t, m, NudgeMsg{})
	if !m.HasUnread() {
		t.Fatal("first nudge should set unread")
	}

	m = openWidget(t, m)
	m, _ = update(t, m, CloseMsg{})

	m, _ = update(t, m, NudgeMsg{})
	if m.HasUnread() {
		t.Error("nudge must never fire twice")
	}
}

func TestNudgeSkippedWhenTranscriptNotEmpty(t *testing.T) {
	caller := &fakeCaller{reply: assist.Reply{Intent: assist.IntentSmalltalk, Text: "Hi!"}}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "hello")
	m, _ = update(t, m, findTurnResult(t, cmd))
	m, _ = update(t, m, CloseMsg{})
	m.hasUnread = false

	m, _ = update(t, m, NudgeMsg{})
	if m.HasUnread() {
		t.Error("nudge must not fire once the transcript has messages")
	}
}

func TestNudgeSkippedWhileOpen(t *testing.T) {
	m, _, _ := newTestWidget(&fakeCaller{})
	defer m.Teardown()

	m = openWidget(t, m)
	m, _ = update(t, m, NudgeMsg{})
	if m.HasUnread() {
		t.Error("nudge must not fire while the session is open")
	}
}

// =============================================================================
// TURN PROTOCOL
// =============================================================================

func TestSubmitTurn(t *testing.T) {
	caller := &fakeCaller{reply: assist.Reply{Intent: assist.IntentSmalltalk, Text: "Hello to you!"}}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "  hi there  ")

	if !m.Awaiting() {
		t.Error("expected in-flight turn after submit")
	}
	if m.Transcript().Len() != 1 {
		t.Fatalf("expected the user echo in the transcript, got %d messages", m.Transcript().Len())
	}
	echo := m.Transcript().Last()
	if echo.Role != transcript.RoleUser || echo.Content != "hi there" {
		t.Errorf("user echo should be the trimmed text, got %q", echo.Content)
	}

	result := findTurnResult(t, cmd)
	if caller.calls != 1 {
		t.Errorf("expected exactly 1 backend call, got %d", caller.calls)
	}
	if caller.lastText != "hi there" {
		t.Errorf("backend should receive the trimmed text, got %q", caller.lastText)
	}
	if caller.lastTenant != "tenant-1" {
		t.Errorf("backend should receive the tenant ID, got %q", caller.lastTenant)
	}

	m, _ = update(t, m, result)
	if m.Awaiting() {
		t.Error("turn should complete after the reply")
	}
	if m.Transcript().Len() != 2 {
		t.Fatalf("expected echo + reply, got %d messages", m.Transcript().Len())
	}
	if m.Transcript().Last().Content != "Hello to you!" {
		t.Errorf("unexpected assistant reply: %q", m.Transcript().Last().Content)
	}
}

func TestWhitespaceSubmitIsSilentNoOp(t *testing.T) {
	caller := &fakeCaller{}
	m, notifier, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	for _, text := range []string{"", "   ", "\t", " \t \n "} {
		m, _ = submit(t, m, text)
	}

	if m.Transcript().Len() != 0 {
		t.Errorf("whitespace submits must not touch the transcript, got %d messages", m.Transcript().Len())
	}
	if caller.calls != 0 {
		t.Errorf("whitespace submits must not call the backend, got %d calls", caller.calls)
	}
	if notifier.calls != 0 {
		t.Errorf("whitespace submits must not notify, got %d calls", notifier.calls)
	}
	if m.Awaiting() {
		t.Error("whitespace submit must not start a turn")
	}
}

func TestAtMostOneInFlightTurn(t *testing.T) {
	caller := &fakeCaller{reply: assist.Reply{Intent: assist.IntentSmalltalk, Text: "Hi!"}}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "first")

	// A second submit while awaiting must be dropped entirely.
	m, _ = submit(t, m, "second")
	if m.Transcript().Len() != 1 {
		t.Errorf("second submit while awaiting must not append, got %d messages", m.Transcript().Len())
	}

	result := findTurnResult(t, cmd)
	if caller.calls != 1 {
		t.Errorf("expected exactly 1 backend call, got %d", caller.calls)
	}

	// After completion a new turn is allowed again.
	m, _ = update(t, m, result)
	m, cmd = submit(t, m, "third")
	findTurnResult(t, cmd)
	if caller.calls != 2 {
		t.Errorf("expected a second backend call after completion, got %d", caller.calls)
	}
	_ = m
}

func TestTurnFailureFallback(t *testing.T) {
	caller := &fakeCaller{err: errors.New("backend exploded")}
	m, notifier, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "hello?")
	m, _ = update(t, m, findTurnResult(t, cmd))

	if m.Awaiting() {
		t.Error("failed turn must still complete")
	}
	if m.Transcript().Len() != 2 {
		t.Fatalf("expected echo + exactly one fallback, got %d messages", m.Transcript().Len())
	}
	last := m.Transcript().Last()
	if last.Role != transcript.RoleAssistant || last.Content != fallbackTurnError {
		t.Errorf("expected the fixed fallback message, got %q", last.Content)
	}
	if notifier.calls != 1 {
		t.Errorf("expected exactly one notification, got %d", notifier.calls)
	}
	if caller.calls != 1 {
		t.Errorf("failures must not be retried, got %d calls", caller.calls)
	}
}

func TestUnreadSetWhenReplyArrivesWhileClosed(t *testing.T) {
	caller := &fakeCaller{reply: assist.Reply{Intent: assist.IntentSmalltalk, Text: "Hi!"}}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "hello")
	result := findTurnResult(t, cmd)

	// Close before the reply lands.
	m, _ = update(t, m, CloseMsg{})
	m, _ = update(t, m, result)

	if !m.HasUnread() {
		t.Error("a reply landing while closed must set the unread indicator")
	}
	if m.Transcript().Len() != 2 {
		t.Errorf("the reply must still append while closed, got %d messages", m.Transcript().Len())
	}
}

// =============================================================================
// DEFERRED FOLLOW-UP
// =============================================================================

func escalationReply() assist.Reply {
	return assist.Reply{
		Intent:           assist.IntentSupportEscalation,
		Message:          "Go to orders",
		SuggestedActions: []string{"Report a problem", "Request a refund"},
	}
}

func TestEscalationSchedulesFollowUp(t *testing.T) {
	caller := &fakeCaller{reply: escalationReply()}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "my order is wrong")
	m, followCmd := update(t, m, findTurnResult(t, cmd))

	if m.Transcript().Len() != 2 {
		t.Fatalf("expected echo + immediate message only, got %d", m.Transcript().Len())
	}
	if followCmd == nil {
		t.Fatal("escalation with suggested actions must schedule a follow-up")
	}

	m, _ = update(t, m, FollowUpMsg{
		Seq:     m.followSeq,
		Message: transcript.NewAssistantMessage("You could also try:\n1. Report a problem\n2. Request a refund"),
	})
	if m.Transcript().Len() != 3 {
		t.Fatalf("follow-up should append, got %d messages", m.Transcript().Len())
	}
	if m.Transcript().Last().Content != "You could also try:\n1. Report a problem\n2. Request a refund" {
		t.Errorf("unexpected follow-up content: %q", m.Transcript().Last().Content)
	}
}

func TestStaleFollowUpDropped(t *testing.T) {
	caller := &fakeCaller{reply: escalationReply()}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "my order is wrong")
	m, _ = update(t, m, findTurnResult(t, cmd))
	staleSeq := m.followSeq

	// Closing the session invalidates the pending follow-up.
	m, _ = update(t, m, CloseMsg{})
	before := m.Transcript().Len()

	m, _ = update(t, m, FollowUpMsg{Seq: staleSeq, Message: transcript.NewAssistantMessage("stale")})
	if m.Transcript().Len() != before {
		t.Error("a follow-up scheduled before close must be dropped")
	}
}

func TestFollowUpAfterInterleavedTurnStillAppends(t *testing.T) {
	caller := &fakeCaller{reply: escalationReply()}
	m, _, _ := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "help")
	m, _ = update(t, m, findTurnResult(t, cmd))
	seq := m.followSeq

	// A user message lands during the follow-up delay. The deferred message
	// is restamped at append time so the transcript stays monotonic.
	deferred := transcript.NewAssistantMessage("You could also try:\n1. Report a problem")
	deferred.Timestamp = time.Now().Add(-time.Minute)
	m, _ = submit(t, m, "another question")
	before := m.Transcript().Len()

	m, _ = update(t, m, FollowUpMsg{Seq: seq, Message: deferred})
	if m.Transcript().Len() != before+1 {
		t.Error("restamped follow-up should still append")
	}
}

// =============================================================================
// CARD ACTIVATION
// =============================================================================

func menuReply() assist.Reply {
	return assist.Reply{
		Intent: assist.IntentBudgetMenuSearch,
		Text:   "Found these:",
		Items: []assist.MenuItem{
			{ID: "m1", RestaurantID: "rest-42", Name: "Margherita"},
			{ID: "m2", RestaurantID: "rest-7", Name: "Pad Thai"},
		},
	}
}

func TestCardActivationNavigatesAndCloses(t *testing.T) {
	caller := &fakeCaller{reply: menuReply()}
	m, _, navigator := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "pizza under 10")
	m, _ = update(t, m, findTurnResult(t, cmd))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})

	if len(navigator.visited) != 1 || navigator.visited[0] != "rest-7" {
		t.Errorf("expected navigation to rest-7, got %v", navigator.visited)
	}
	if m.Session() != SessionClosed {
		t.Errorf("card activation must close the session, got %v", m.Session())
	}
}

func TestCardActivationOutOfRangeIgnored(t *testing.T) {
	caller := &fakeCaller{reply: menuReply()}
	m, _, navigator := newTestWidget(caller)
	defer m.Teardown()

	m = openWidget(t, m)
	m, cmd := submit(t, m, "pizza under 10")
	m, _ = update(t, m, findTurnResult(t, cmd))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9"), Alt: true})

	if len(navigator.visited) != 0 {
		t.Errorf("out-of-range card must be ignored, got %v", navigator.visited)
	}
	if m.Session() != SessionOpen {
		t.Errorf("session must stay open, got %v", m.Session())
	}
}

// =============================================================================
// TEARDOWN
// =============================================================================

func TestTeardownStopsUpdates(t *testing.T) {
	m, _, _ := newTestWidget(&fakeCaller{})

	m.Teardown()

	next, _ := update(t, m, OpenMsg{})
	if next.Session() != SessionClosed {
		t.Error("a torn-down widget must ignore messages")
	}

	next, _ = update(t, m, NudgeMsg{})
	if next.HasUnread() {
		t.Error("a torn-down widget must ignore the nudge")
	}
}
