// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/platefront/assist-tui/internal/transcript"
	"github.com/platefront/assist-tui/internal/ui/styles"
)

// View renders the widget for the current session state.
func (m Model) View() string {
	switch m.session {
	case SessionClosed:
		return m.viewLauncher()
	case SessionMinimized:
		return m.viewMinimized()
	case SessionOpen:
		return m.viewOpen()
	default:
		return ""
	}
}

// viewLauncher renders the collapsed launcher with the unread indicator.
func (m Model) viewLauncher() string {
	label := "(o) " + m.title
	if m.hasUnread {
		return styles.Unread.Render("● ") + styles.Body.Render(label)
	}
	return styles.Muted.Render(label)
}

// viewMinimized renders the title bar only.
func (m Model) viewMinimized() string {
	bar := styles.Header.Render(" " + m.title + " ")
	hint := styles.Muted.Render("  enter restore · esc close")
	return bar + hint
}

// viewOpen renders the full chat surface: header, scrollback, status line
// and input.
func (m Model) viewOpen() string {
	var b strings.Builder

	b.WriteString(styles.Header.Render(" " + m.title + " "))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.awaiting {
		b.WriteString(styles.StatusLine.Render(m.spinner.View() + " Thinking..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("enter send · ctrl+o minimize · esc close · alt+N open card"))

	return b.String()
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderTranscript renders the full transcript into scrollback text.
func (m *Model) renderTranscript() string {
	msgs := m.transcript.All()
	if len(msgs) == 0 {
		return styles.Muted.Render("Hi! Ask me about menus, orders or payments.")
	}

	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMessage(msg *transcript.Message) string {
	var b strings.Builder

	label := msg.Role.DisplayName()
	stamp := msg.Timestamp.Format("15:04")
	switch msg.Role {
	case transcript.RoleUser:
		b.WriteString(styles.UserLabel.Render(label))
	default:
		b.WriteString(styles.AssistantLabel.Render(label))
	}
	b.WriteString(styles.Muted.Render(" " + stamp))
	b.WriteString("\n")
	b.WriteString(styles.Body.Render(msg.Content))

	for i, att := range msg.Attached {
		b.WriteString("\n")
		b.WriteString(m.renderCard(i, att))
	}
	return b.String()
}

// renderCard renders one attachment card. Card number n maps to the alt+n
// activation key.
func (m *Model) renderCard(idx int, att transcript.Attachment) string {
	innerWidth := m.viewport.Width - 6
	if innerWidth < 16 {
		innerWidth = 16
	}

	title := runewidth.Truncate(fmt.Sprintf("[%d] %s", idx+1, att.Title), innerWidth, "…")

	lines := []string{styles.Body.Render(title)}
	if att.Subtitle != "" {
		lines = append(lines, styles.Muted.Render(runewidth.Truncate(att.Subtitle, innerWidth, "…")))
	}

	var meta []string
	if att.Price != "" {
		meta = append(meta, att.Price+" €")
	}
	if att.PrepMinutes > 0 {
		meta = append(meta, fmt.Sprintf("%d min", att.PrepMinutes))
	}
	if len(att.Tags) > 0 {
		meta = append(meta, strings.Join(att.Tags, ", "))
	}
	if len(meta) > 0 {
		lines = append(lines, styles.Muted.Render(runewidth.Truncate(strings.Join(meta, " · "), innerWidth, "…")))
	}

	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
