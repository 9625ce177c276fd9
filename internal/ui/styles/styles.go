// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the assistant widget.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// COLORS
// =============================================================================

// Coral - brand accent, assistant labels, open-widget chrome
var Coral = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Cyan - user labels and highlights
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - success and availability indicators
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - warnings and the unread nudge indicator
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Surface - widget background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// Overlay - borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// TextPrimary - main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextMuted - hints, timestamps, card metadata
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// SHARED STYLES
// =============================================================================

// Header styles the widget title bar.
var Header = lipgloss.NewStyle().
	Foreground(Coral).
	Bold(true).
	Padding(0, 1)

// UserLabel styles the "You" transcript label.
var UserLabel = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true)

// AssistantLabel styles the assistant transcript label.
var AssistantLabel = lipgloss.NewStyle().
	Foreground(Coral).
	Bold(true)

// Body styles message body text.
var Body = lipgloss.NewStyle().
	Foreground(TextPrimary)

// Muted styles hints and metadata.
var Muted = lipgloss.NewStyle().
	Foreground(TextMuted)

// Unread styles the unread nudge indicator on the closed launcher.
var Unread = lipgloss.NewStyle().
	Foreground(Amber).
	Bold(true)

// Card styles an attached result card.
var Card = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(Overlay).
	Padding(0, 1)

// StatusLine styles the widget's bottom status line.
var StatusLine = lipgloss.NewStyle().
	Foreground(TextMuted).
	Padding(0, 1)
