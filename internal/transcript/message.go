// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Platefront Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment is one structured result record carried alongside a message,
// rendered as an interactive card beneath the text. Today these are always
// menu or product entries pointing at a restaurant.
type Attachment struct {
	ID           string
	RestaurantID string
	Title        string
	Subtitle     string
	Price        string
	PrepMinutes  int
	Tags         []string
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Messages are immutable once appended;
// the widget never edits an entry in place.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time

	// Attached holds structured result cards, in order. Only assistant
	// messages built by the renderer carry attachments.
	Attached []Attachment
}

// NewMessage creates a message with a generated ID and the current timestamp.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message echoing submitted text verbatim.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// HasAttachments returns true if the message carries result cards.
func (m *Message) HasAttachments() bool {
	return len(m.Attached) > 0
}

// Preview returns a truncated preview of the message content.
// Rune-based so multi-byte content truncates cleanly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no visible content at all.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == "" && len(m.Attached) == 0
}
