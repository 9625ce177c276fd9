// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript holds the ordered, append-only conversation transcript
// for the assistant widget. It is the single source of truth for what the
// widget displays and has no dependencies on the rest of the module.
package transcript
