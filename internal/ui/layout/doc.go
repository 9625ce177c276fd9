// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package layout computes the chat surface geometry from host viewport
// observations. It keeps the widget usable when the visible viewport shrinks
// under the outer window (the soft-keyboard case on mobile hosts) and
// degrades to a fixed default geometry on hosts that report nothing.
package layout
