// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package flow

import (
	"errors"
	"maps"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TickerKey is the one required intake field.
const TickerKey = "ticker"

// ErrEmptyTicker is returned when an intake form has no usable ticker.
var ErrEmptyTicker = errors.New("flow: ticker is required")

// IntakeForm is the free-form data collected for one analysis.
type IntakeForm map[string]string

// NormalizeTicker folds compatibility characters (full-width letters and the
// like), trims space and upper-cases.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(s)))
}

// Ticker returns the normalized ticker.
func (f IntakeForm) Ticker() string {
	return NormalizeTicker(f[TickerKey])
}

// Validate checks that the form carries a non-empty ticker.
func (f IntakeForm) Validate() error {
	if f.Ticker() == "" {
		return ErrEmptyTicker
	}
	return nil
}

// Clone returns an independent copy with trimmed values and a normalized
// ticker.
func (f IntakeForm) Clone() IntakeForm {
	if f == nil {
		return IntakeForm{}
	}
	out := maps.Clone(f)
	for k, v := range out {
		out[k] = strings.TrimSpace(v)
	}
	if _, ok := out[TickerKey]; ok {
		out[TickerKey] = f.Ticker()
	}
	return out
}

// Field describes one intake input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Required    bool
}

// IntakeFields returns the inputs collected for intent, ticker first.
func IntakeFields(intent Intent) []Field {
	ticker := Field{Key: TickerKey, Label: "Ticker", Placeholder: "e.g. TSLA, AAPL, RELIANCE.NS", Required: true}
	switch intent {
	case IntentBuy:
		return []Field{
			ticker,
			{Key: "budget", Label: "Budget", Placeholder: "e.g. 5000"},
			{Key: "horizon", Label: "Time horizon", Placeholder: "e.g. 3-6 months"},
		}
	case IntentSell:
		return []Field{
			ticker,
			{Key: "shares", Label: "Shares held", Placeholder: "e.g. 40"},
			{Key: "cost_basis", Label: "Average cost", Placeholder: "e.g. 182.50"},
		}
	case IntentTrack:
		return []Field{
			ticker,
			{Key: "alert", Label: "Alert threshold (%)", Placeholder: "e.g. 5"},
		}
	default:
		return []Field{ticker}
	}
}
