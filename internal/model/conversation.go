// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// MaxMessages bounds a History. The oldest turns after the seed are pruned
// once it is exceeded.
const MaxMessages = 500

// History is the ordered conversation of one detail view. It only grows;
// there is no edit or delete.
type History struct {
	msgs []Message
}

// NewHistory creates a history holding the given messages in order.
func NewHistory(seed ...Message) *History {
	h := &History{msgs: make([]Message, 0, len(seed)+8)}
	h.msgs = append(h.msgs, seed...)
	return h
}

// Append adds m to the end of the history.
func (h *History) Append(m Message) {
	h.msgs = append(h.msgs, m)
	h.prune()
}

// Messages returns a copy of the messages in order.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.msgs))
	copy(out, h.msgs)
	return out
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.msgs)
}

// Last returns the most recent message.
func (h *History) Last() (Message, bool) {
	if len(h.msgs) == 0 {
		return Message{}, false
	}
	return h.msgs[len(h.msgs)-1], true
}

// LastByRole returns the most recent message from role.
func (h *History) LastByRole(role Role) (Message, bool) {
	for i := len(h.msgs) - 1; i >= 0; i-- {
		if h.msgs[i].Role == role {
			return h.msgs[i], true
		}
	}
	return Message{}, false
}

// prune keeps the first message (the seed) and the newest MaxMessages-1.
func (h *History) prune() {
	if len(h.msgs) <= MaxMessages {
		return
	}
	excess := len(h.msgs) - MaxMessages
	kept := make([]Message, 0, MaxMessages)
	kept = append(kept, h.msgs[0])
	kept = append(kept, h.msgs[1+excess:]...)
	h.msgs = kept
}
