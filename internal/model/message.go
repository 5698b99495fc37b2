// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
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
		return "Analyst"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// SeedMessage opens every conversation.
const SeedMessage = "Analyst Node Active. Analyzing market volatility models. How can I assist?"

// FallbackReply replaces an assistant reply that could not be obtained.
const FallbackReply = "Connection interrupted. Please check API configuration."

// Message is a single chat turn. Messages are values; a History hands out
// copies so callers cannot rewrite the past.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Fallback marks an assistant message that stands in for a failed reply.
	Fallback bool `json:"fallback,omitempty"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) Message {
	return NewMessage(RoleUser, text)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(text string) Message {
	return NewMessage(RoleAssistant, text)
}

// NewFallbackMessage creates the assistant message used when a reply fails.
func NewFallbackMessage() Message {
	m := NewMessage(RoleAssistant, FallbackReply)
	m.Fallback = true
	return m
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// FormatTimestamp returns the message time as HH:MM.
func (m Message) FormatTimestamp() string {
	return m.Timestamp.Format("15:04")
}
