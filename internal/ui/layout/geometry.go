// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

// =============================================================================
// CONSTANTS
// =============================================================================

// Geometry tuning. The reserved-chrome constant must stay in sync with the
// widget's rendered header, input area, and status line heights; it is
// deliberately conservative so the scrollback viewport is never too tall.
const (
	// ChromeAllowance is the fixed height reserved for the widget's own
	// chrome: header, input line, and status line.
	ChromeAllowance = 6

	// MaxDesiredHeight caps the chat surface even on tall viewports.
	MaxDesiredHeight = 32

	// RestingAnchor is the normal bottom-anchor offset of the chat surface.
	RestingAnchor = 2

	// KeyboardAnchor is the bottom-anchor offset while the soft keyboard is
	// open: close to the true bottom edge instead of floating above the
	// hidden keyboard gap.
	KeyboardAnchor = 0

	// keyboardShrinkNum/keyboardShrinkDen express the keyboard-open
	// heuristic: visible height below 70% of the outer height means a
	// keyboard is eating the viewport.
	keyboardShrinkNum = 7
	keyboardShrinkDen = 10

	minUsableHeight = 3
)

// =============================================================================
// TYPES
// =============================================================================

// Observation is one host report of the viewport state. VisibleHeight is the
// preferred visible-viewport signal; OuterHeight is the outer window height
// used both as the shrink baseline and as the fallback signal on hosts
// without visible-viewport observation (pass VisibleHeight == OuterHeight
// there).
type Observation struct {
	Width         int
	VisibleHeight int
	OuterHeight   int
}

// Geometry is the derived chat surface geometry. It is recomputed on every
// observation and never stored historically.
type Geometry struct {
	// UsableHeight is the height available to the chat surface.
	UsableHeight int

	// AnchorOffset is the distance of the surface's bottom anchor from the
	// bottom edge of the viewport.
	AnchorOffset int

	// KeyboardOpen reports whether the shrink heuristic fired.
	KeyboardOpen bool
}

// DefaultGeometry is the fixed geometry used before any observation arrives
// or on hosts lacking viewport observation entirely.
func DefaultGeometry() Geometry {
	return Geometry{
		UsableHeight: 20,
		AnchorOffset: RestingAnchor,
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller tracks the current chat surface geometry. Zero value is not
// ready; use New.
type Controller struct {
	current  Geometry
	observed bool
}

// New creates a controller holding the default geometry.
func New() *Controller {
	return &Controller{current: DefaultGeometry()}
}

// Current returns the most recently computed geometry.
func (c *Controller) Current() Geometry {
	return c.current
}

// Observed reports whether any host observation has arrived yet.
func (c *Controller) Observed() bool {
	return c.observed
}

// Observe recomputes the geometry from a host observation and returns it.
// Nonsensical observations (zero or negative sizes) keep the previous
// geometry; this is best-effort presentation logic with no error path.
func (c *Controller) Observe(o Observation) Geometry {
	if o.VisibleHeight <= 0 || o.Width <= 0 {
		return c.current
	}
	if o.OuterHeight < o.VisibleHeight {
		o.OuterHeight = o.VisibleHeight
	}

	g := Geometry{AnchorOffset: RestingAnchor}

	// Keyboard heuristic: the visible viewport shrank well below the outer
	// window, so anchor tight to the true bottom edge.
	if o.VisibleHeight*keyboardShrinkDen < o.OuterHeight*keyboardShrinkNum {
		g.KeyboardOpen = true
		g.AnchorOffset = KeyboardAnchor
	}

	// Track the visible viewport on every host. The chrome and anchor must
	// always fit inside it, whatever the width; MaxDesiredHeight only caps
	// tall viewports.
	usable := o.VisibleHeight - ChromeAllowance - g.AnchorOffset
	if usable > MaxDesiredHeight {
		usable = MaxDesiredHeight
	}
	if usable < minUsableHeight {
		usable = minUsableHeight
	}
	g.UsableHeight = usable

	c.current = g
	c.observed = true
	return g
}
