// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// Part is one piece of content. Only text parts are used.
type Part struct {
	Text string `json:"text"`
}

// Content is a turn made of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes a single request.
type GenerationConfig struct {
	// ResponseMimeType asks for a specific output format, e.g. "application/json".
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
}

// JSONOutput returns a config that requests JSON text.
func JSONOutput() *GenerationConfig {
	return &GenerationConfig{ResponseMimeType: "application/json"}
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateResponse is the generateContent response body.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns candidates[0].content.parts[0].text.
func (r *GenerateResponse) Text() (string, bool) {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	text := r.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", false
	}
	return text, true
}
