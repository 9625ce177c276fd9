// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assist defines the backend reply union for the Platefront
// assistant, the pure renderer that turns one reply into transcript
// messages, and the collaborator interfaces the widget consumes
// (AI caller, notifier, navigator, identity).
package assist
