// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the value types shared by the assistant session,
// the UI and line mode.
//
// # Key Types
//
//   - Message: one chat turn with role, text and timestamp
//   - History: append-only ordered list of messages for one detail view
//   - Insight / InsightSet: the "Alpha Signals" records shown beside the chat
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
//	h := model.NewHistory(model.NewAssistantMessage(model.SeedMessage))
//	h.Append(model.NewUserMessage("Is this overbought?"))
//	for _, m := range h.Messages() {
//	    fmt.Printf("%s: %s\n", m.Role.DisplayName(), m.Text)
//	}
package model
