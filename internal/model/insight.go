// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Insight is one short titled observation about the analyzed asset.
type Insight struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// InsightSet is an ordered list of insights. It is replaced as a whole,
// never patched.
type InsightSet []Insight

// DefaultInsights returns the pair shown before any regeneration.
func DefaultInsights() InsightSet {
	return InsightSet{
		{Title: "Technical Breakout", Text: "Price action cleared resistance with 2.1x volume confirmation."},
		{Title: "Sentiment Shift", Text: "Institutional sentiment flipped net-long following supply chain updates."},
	}
}

// UnavailableInsights returns the single record shown when regeneration fails.
func UnavailableInsights() InsightSet {
	return InsightSet{
		{Title: "Analysis Unavailable", Text: "Unable to generate new insights. Check API configuration."},
	}
}

// Clone returns an independent copy of s.
func (s InsightSet) Clone() InsightSet {
	if s == nil {
		return nil
	}
	out := make(InsightSet, len(s))
	copy(out, s)
	return out
}
