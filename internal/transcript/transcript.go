// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"errors"
	"time"
)

// ErrNonMonotonic is returned by Append when a message carries a timestamp
// earlier than the last appended message. The transcript rejects such
// messages rather than silently ignoring them: an out-of-order append is a
// programming error in the caller, not a user-visible condition.
var ErrNonMonotonic = errors.New("transcript: message timestamp precedes last entry")

// Listener is notified after every successful append.
type Listener func(*Message)

// Transcript is an ordered, append-only sequence of messages. Append order
// always equals timestamp order; see Append. A Transcript is not safe for
// concurrent use; the widget runs on a single cooperative event loop.
type Transcript struct {
	messages  []*Message
	listeners map[int]Listener
	nextToken int
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{
		messages:  make([]*Message, 0),
		listeners: make(map[int]Listener),
	}
}

// Append adds a message to the end of the transcript and notifies listeners.
// Returns ErrNonMonotonic (and appends nothing) when the message timestamp is
// earlier than the last entry's.
func (t *Transcript) Append(msg *Message) error {
	if last := t.Last(); last != nil && msg.Timestamp.Before(last.Timestamp) {
		return ErrNonMonotonic
	}
	t.messages = append(t.messages, msg)
	for _, fn := range t.listeners {
		fn(msg)
	}
	return nil
}

// All returns the transcript in append order. The returned slice is a copy;
// iterating it is always safe against later appends.
func (t *Transcript) All() []*Message {
	out := make([]*Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message, or nil if the transcript is empty.
func (t *Transcript) Last() *Message {
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// LastAssistant returns the most recent assistant message, or nil.
func (t *Transcript) LastAssistant() *Message {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == RoleAssistant {
			return t.messages[i]
		}
	}
	return nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// IsEmpty returns true if there are no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}

// LastTimestamp returns the timestamp of the last entry, or the zero time.
func (t *Transcript) LastTimestamp() time.Time {
	if last := t.Last(); last != nil {
		return last.Timestamp
	}
	return time.Time{}
}

// Subscribe registers a listener called after every successful append.
// The returned function removes the listener; the widget calls it on
// teardown so no notification fires after the widget is destroyed.
func (t *Transcript) Subscribe(fn Listener) (unsubscribe func()) {
	token := t.nextToken
	t.nextToken++
	t.listeners[token] = fn
	return func() {
		delete(t.listeners, token)
	}
}
