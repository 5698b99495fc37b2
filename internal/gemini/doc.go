// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini is a minimal client for the Generative Language
// generateContent endpoint.
//
// Only single-turn text prompts are supported. There is no streaming and no
// retry: a failed call is reported once and the caller decides what to show.
//
// # Usage
//
//	client := gemini.NewClient(os.Getenv("GEMINI_API_KEY"))
//	text, err := client.Generate(ctx, "Summarize TSLA in one line.", nil)
//	if errors.Is(err, gemini.ErrNotConfigured) {
//	    // no key
//	}
//
// Request JSON output:
//
//	text, err := client.Generate(ctx, prompt, gemini.JSONOutput())
package gemini
