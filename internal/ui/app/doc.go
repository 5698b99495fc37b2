// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Bubble Tea program for TrackBets.
//
// The Model renders whatever state the flow orchestrator is in and turns
// key presses into orchestrator events. Background work (sequencer ticks,
// analysis fetches, assistant replies) never touches the model directly: it
// posts closures to a loop.Loop, and the model runs them one at a time from
// Update through the waitForCallback command. This keeps every mutation on
// the Bubble Tea goroutine.
//
// # Screens
//
//   - Landing: pick buy, sell or track
//   - Intake: per-intent form, ticker required
//   - Loading: staged progress, esc returns home
//   - Detail: report, chart, insights and the assistant chat
//
// Settings and profile overlays sit above any screen.
package app
