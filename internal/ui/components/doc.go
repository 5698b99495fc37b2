// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable pieces the TrackBets screens are
// built from: the header and status bar, the staged loading progress, the
// typing spinner, price sparklines and the markdown renderer.
//
// Components hold no application state beyond what they draw; the app model
// feeds them values on every View.
package components
