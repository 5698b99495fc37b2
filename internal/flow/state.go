// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package flow

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// NAVIGATION STATE
// =============================================================================

// State is the active screen.
type State int

const (
	StateLanding State = iota
	StateIntake
	StateLoading
	StateDetail
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateLanding:
		return "landing"
	case StateIntake:
		return "intake"
	case StateLoading:
		return "loading"
	case StateDetail:
		return "detail"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// =============================================================================
// INTENT
// =============================================================================

// Intent is what the user wants to do with the asset.
type Intent string

const (
	IntentNone  Intent = ""
	IntentBuy   Intent = "buy"
	IntentSell  Intent = "sell"
	IntentTrack Intent = "track"
)

// Intents lists the selectable intents in display order.
var Intents = []Intent{IntentBuy, IntentSell, IntentTrack}

// ErrUnknownIntent is returned by ParseIntent for anything but buy, sell or track.
var ErrUnknownIntent = errors.New("flow: unknown intent")

// ParseIntent parses an intent name, ignoring case and surrounding space.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentBuy:
		return IntentBuy, nil
	case IntentSell:
		return IntentSell, nil
	case IntentTrack:
		return IntentTrack, nil
	default:
		return IntentNone, fmt.Errorf("%w: %q", ErrUnknownIntent, s)
	}
}

// Valid reports whether i is one of the selectable intents.
func (i Intent) Valid() bool {
	return i == IntentBuy || i == IntentSell || i == IntentTrack
}

// Label returns the landing-screen caption for the intent.
func (i Intent) Label() string {
	switch i {
	case IntentBuy:
		return "Buy"
	case IntentSell:
		return "Sell"
	case IntentTrack:
		return "Track"
	default:
		return ""
	}
}

// Description returns a one-line explanation of the intent.
func (i Intent) Description() string {
	switch i {
	case IntentBuy:
		return "Find an entry point for a new position"
	case IntentSell:
		return "Decide whether to exit or trim a holding"
	case IntentTrack:
		return "Watch an asset and get the AI read on it"
	default:
		return ""
	}
}

// =============================================================================
// TRANSITION ERRORS
// =============================================================================

// TransitionError reports an event that is not valid in the current state.
type TransitionError struct {
	From  State
	Event string
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("flow: %s is not valid in %s", e.Event, e.From)
}
