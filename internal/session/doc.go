// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the per-detail-view assistant state: the chat
// history, the insight panel and whatever requests are in flight for them.
//
// A Session is confined to the goroutine that owns its Poster (the UI loop).
// Requests run on worker goroutines, and their results come back as
// closures posted to that loop, so no Session field is ever touched
// concurrently. Closing a session cancels its workers; anything they post
// afterwards is dropped.
//
// # Usage
//
//	s := session.New(quote, assistantClient, eventLoop, session.Config{
//	    OnChange: func() { /* re-render */ },
//	})
//	defer s.Close()
//
//	if err := s.Send("What's the downside risk?"); err != nil {
//	    // ErrEmptyMessage, ErrReplyPending or ErrClosed
//	}
package session
