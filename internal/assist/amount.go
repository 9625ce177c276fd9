// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// AMOUNT TYPE
// =============================================================================

// Amount is a price-like field that may arrive as a JSON number, a numeric
// or free-form string ("free"), or not at all. Display renders the literal
// "N/A" whenever neither a finite number nor a string is present; the
// backend is not trusted to be consistent here and a bad value must degrade
// to text, never to an error.
type Amount struct {
	num   float64
	str   string
	isNum bool
	isStr bool
}

// NumberAmount builds an Amount holding a number. Test and fixture helper.
func NumberAmount(v float64) Amount {
	return Amount{num: v, isNum: true}
}

// StringAmount builds an Amount holding a raw string. Test and fixture helper.
func StringAmount(s string) Amount {
	return Amount{str: s, isStr: true}
}

// UnmarshalJSON accepts a number, a string, or null. Any other shape leaves
// the Amount unset rather than failing the surrounding decode.
func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" || trimmed == "" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		a.num = n
		a.isNum = true
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		a.str = s
		a.isStr = true
		return nil
	}

	return nil
}

// MarshalJSON round-trips whatever was decoded; unset marshals as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.isNum:
		return json.Marshal(a.num)
	case a.isStr:
		return json.Marshal(a.str)
	default:
		return []byte("null"), nil
	}
}

// IsSet returns true if the amount carries a usable value.
func (a Amount) IsSet() bool {
	if a.isNum {
		return !math.IsNaN(a.num) && !math.IsInf(a.num, 0)
	}
	return a.isStr
}

// Display renders the amount for transcript text. A finite number renders
// with minimal digits (12.5 not 12.50), a string renders verbatim, and
// everything else renders as the literal "N/A".
func (a Amount) Display() string {
	switch {
	case a.isNum && !math.IsNaN(a.num) && !math.IsInf(a.num, 0):
		return strconv.FormatFloat(a.num, 'f', -1, 64)
	case a.isStr:
		return a.str
	default:
		return "N/A"
	}
}
