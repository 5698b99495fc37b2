// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind tags the state of a Result.
type Kind int

const (
	// KindPending means a fetch is outstanding.
	KindPending Kind = iota
	// KindOk carries the payload returned by the analysis service.
	KindOk
	// KindMock carries a synthetic payload because the service could not be used.
	KindMock
	// KindFailed is reserved for fetches abandoned by their caller.
	KindFailed
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindOk:
		return "ok"
	case KindMock:
		return "mock"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Cause says why a fetch degraded to mock data.
type Cause string

const (
	CauseTransport   Cause = "transport"
	CauseStatus      Cause = "status"
	CauseContentType Cause = "content-type"
	CauseMalformed   Cause = "malformed"
	CauseAppError    Cause = "app-error"
)

// MockReason records the failure that produced a mock result.
type MockReason struct {
	Cause  Cause
	Detail string
}

// String formats the reason for logs and the status line.
func (r MockReason) String() string {
	if r.Detail == "" {
		return string(r.Cause)
	}
	return fmt.Sprintf("%s: %s", r.Cause, r.Detail)
}

// Result is the tagged outcome of one analysis fetch. Payload is the service
// JSON object (or the synthetic one) and is never modified after creation.
type Result struct {
	Kind      Kind
	Ticker    string
	Payload   json.RawMessage
	Reason    MockReason
	Err       error
	SettledAt time.Time
}

// Pending returns the placeholder result for an outstanding fetch.
func Pending(ticker string) Result {
	return Result{Kind: KindPending, Ticker: ticker}
}

// Ok wraps a payload returned by the service.
func Ok(ticker string, payload json.RawMessage) Result {
	return Result{Kind: KindOk, Ticker: ticker, Payload: payload, SettledAt: time.Now()}
}

// Mock wraps a synthetic payload together with the reason it was used.
func Mock(ticker string, payload json.RawMessage, reason MockReason) Result {
	return Result{Kind: KindMock, Ticker: ticker, Payload: payload, Reason: reason, SettledAt: time.Now()}
}

// Failed wraps an error that prevented any result.
func Failed(ticker string, err error) Result {
	return Result{Kind: KindFailed, Ticker: ticker, Err: err, SettledAt: time.Now()}
}

// Settled reports whether the result is Ok or Mock.
func (r Result) Settled() bool {
	return r.Kind == KindOk || r.Kind == KindMock
}

// IsZero reports whether r is the zero value (no analysis cycle).
func (r Result) IsZero() bool {
	return r.Kind == KindPending && r.Ticker == "" && r.Payload == nil
}

// Report decodes the payload into its display view.
func (r Result) Report() (Report, error) {
	if !r.Settled() {
		return Report{}, fmt.Errorf("analysis: no payload in %s result", r.Kind)
	}
	return DecodeReport(r.Payload)
}
