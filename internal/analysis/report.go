// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Prices shown on the detail screen before a payload supplies them.
var (
	DefaultDisplayPrice  = decimal.RequireFromString("234.00")
	DefaultDisplayChange = decimal.RequireFromString("2.51")
)

// Report is a read-only view over an analysis payload. The payload belongs
// to the service, so decoding is lenient: each member is decoded on its own,
// and one that does not fit its field is left at the zero value and named in
// Skipped instead of failing the whole report.
type Report struct {
	Ticker    string    `json:"ticker"`
	PriceData PriceData `json:"price_data"`
	Analysis  Analysis  `json:"analysis"`
	Social    string    `json:"social"`
	News      string    `json:"news"`
	GraphData GraphData `json:"graph_data"`
	Source    string    `json:"source"`

	// Skipped lists the dotted paths of members that could not be read.
	Skipped []string `json:"-"`
}

// PriceData is the quote section of a payload.
type PriceData struct {
	Price         decimal.NullDecimal `json:"price"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
	Currency      string              `json:"currency"`
	Name          string              `json:"name"`
	MarketCap     FlexString          `json:"market_cap"`
	Volume        FlexString          `json:"volume"`
}

// Analysis is the verdict section of a payload.
type Analysis struct {
	Verdict     Verdict             `json:"verdict"`
	Confidence  decimal.NullDecimal `json:"confidence"`
	Action      string              `json:"action"`
	TargetPrice FlexString          `json:"target_price"`
	Timeframe   string              `json:"timeframe"`
	RiskLevel   string              `json:"risk_level"`
	Explanation string              `json:"ai_explanation"`
	Reasons     []string            `json:"reasons"`
	Flashcard   struct {
		Title string `json:"title"`
	} `json:"flashcard"`
}

// GraphData is the price series of a payload.
type GraphData struct {
	Points []Point `json:"points"`
}

// Point is one sample of the price series.
type Point struct {
	Time  string          `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// Verdict accepts either a bare signal string or {"signal", "confidence"}.
type Verdict struct {
	Signal     string
	Confidence decimal.NullDecimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		*v = Verdict{}
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &v.Signal)
	}
	var obj struct {
		Signal     FlexString  `json:"signal"`
		Confidence flexDecimal `json:"confidence"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("analysis: verdict: %w", err)
	}
	v.Signal, v.Confidence = obj.Signal.String(), obj.Confidence.NullDecimal
	return nil
}

// MarshalJSON implements json.Marshaler using the object form.
func (v Verdict) MarshalJSON() ([]byte, error) {
	obj := struct {
		Signal     string              `json:"signal"`
		Confidence decimal.NullDecimal `json:"confidence"`
	}{v.Signal, v.Confidence}
	return json.Marshal(obj)
}

// =============================================================================
// FLEXIBLE SCALARS
// =============================================================================

// FlexString holds text that may arrive as a string, a number, a boolean,
// null, or an array of those (joined one per line).
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case isNull(data):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case data[0] == '[':
		var items []FlexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		lines := make([]string, 0, len(items))
		for _, it := range items {
			if it != "" {
				lines = append(lines, it.String())
			}
		}
		*f = FlexString(strings.Join(lines, "\n"))
	case data[0] == '{':
		return errors.New("analysis: expected text, got an object")
	default:
		*f = FlexString(data)
	}
	return nil
}

// String returns the raw text.
func (f FlexString) String() string {
	return string(f)
}

// FlexList holds short texts sent either as an array or as one string.
type FlexList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *FlexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []FlexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(FlexList, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(it.String()); s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}
	var one FlexString
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = nil
	if s := strings.TrimSpace(one.String()); s != "" {
		*l = FlexList{s}
	}
	return nil
}

// flexDecimal reads a number that may be quoted and decorated, e.g.
// "85%", "$1,204.50" or " 3.1 ".
type flexDecimal struct {
	decimal.NullDecimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	f.NullDecimal = decimal.NullDecimal{}
	if isNull(data) {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		text = strings.TrimSuffix(text, "%")
		text = strings.TrimLeft(text, "$€£¥")
		text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
		if text == "" {
			return nil
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("analysis: not a number: %s", data)
	}
	f.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// =============================================================================
// LENIENT DECODING
// =============================================================================

// DecodeReport parses payload into a Report. It fails only when payload is
// not a JSON object; unreadable members end up in Report.Skipped.
func DecodeReport(payload json.RawMessage) (Report, error) {
	var r Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return Report{}, fmt.Errorf("analysis: decode report: %w", err)
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler member by member.
func (r *Report) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}

	*r = Report{}
	d := &lenient{}
	d.text(top, "", "ticker", &r.Ticker)

	if q := d.object(top, "", "price_data"); q != nil {
		const at = "price_data"
		d.decimal(q, at, "price", &r.PriceData.Price)
		d.decimal(q, at, "change_percent", &r.PriceData.ChangePercent)
		d.text(q, at, "currency", &r.PriceData.Currency)
		d.text(q, at, "name", &r.PriceData.Name)
		d.flex(q, at, "market_cap", &r.PriceData.MarketCap)
		d.flex(q, at, "volume", &r.PriceData.Volume)
	}

	if a := d.object(top, "", "analysis"); a != nil {
		const at = "analysis"
		d.verdict(a, at, &r.Analysis.Verdict)
		d.decimal(a, at, "confidence", &r.Analysis.Confidence)
		d.text(a, at, "action", &r.Analysis.Action)
		d.flex(a, at, "target_price", &r.Analysis.TargetPrice)
		d.text(a, at, "timeframe", &r.Analysis.Timeframe)
		d.text(a, at, "risk_level", &r.Analysis.RiskLevel)
		d.text(a, at, "ai_explanation", &r.Analysis.Explanation)
		if reasons, ok := member[FlexList](d, a, at, "reasons"); ok {
			r.Analysis.Reasons = reasons
		}
		if fc := d.object(a, at, "flashcard"); fc != nil {
			d.text(fc, "analysis.flashcard", "title", &r.Analysis.Flashcard.Title)
		}
	}

	d.text(top, "", "social", &r.Social)
	d.text(top, "", "news", &r.News)
	if g := d.object(top, "", "graph_data"); g != nil {
		r.GraphData.Points = d.points(g)
	}
	d.text(top, "", "source", &r.Source)

	r.Skipped = d.skipped
	return nil
}

// lenient collects the members that did not fit while a report is decoded.
type lenient struct {
	skipped []string
}

func (d *lenient) skip(path, key string) {
	if path != "" {
		key = path + "." + key
	}
	d.skipped = append(d.skipped, key)
}

// member decodes obj[key] as T. Absent and null members report false
// without being recorded as skipped.
func member[T any](d *lenient, obj map[string]json.RawMessage, path, key string) (T, bool) {
	var v T
	raw, ok := obj[key]
	if !ok || isNull(bytes.TrimSpace(raw)) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		d.skip(path, key)
		var zero T
		return zero, false
	}
	return v, true
}

func (d *lenient) object(obj map[string]json.RawMessage, path, key string) map[string]json.RawMessage {
	m, _ := member[map[string]json.RawMessage](d, obj, path, key)
	return m
}

func (d *lenient) text(obj map[string]json.RawMessage, path, key string, dst *string) {
	if v, ok := member[FlexString](d, obj, path, key); ok {
		*dst = v.String()
	}
}

func (d *lenient) flex(obj map[string]json.RawMessage, path, key string, dst *FlexString) {
	if v, ok := member[FlexString](d, obj, path, key); ok {
		*dst = v
	}
}

func (d *lenient) decimal(obj map[string]json.RawMessage, path, key string, dst *decimal.NullDecimal) {
	if v, ok := member[flexDecimal](d, obj, path, key); ok {
		*dst = v.NullDecimal
	}
}

func (d *lenient) verdict(obj map[string]json.RawMessage, path string, dst *Verdict) {
	raw, ok := obj["verdict"]
	if !ok {
		return
	}
	var signal string
	if json.Unmarshal(raw, &signal) == nil {
		dst.Signal = signal
		return
	}
	if v := d.object(obj, path, "verdict"); v != nil {
		at := path + ".verdict"
		d.text(v, at, "signal", &dst.Signal)
		d.decimal(v, at, "confidence", &dst.Confidence)
	}
}

// points keeps the samples that carry a readable value.
func (d *lenient) points(graph map[string]json.RawMessage) []Point {
	items, ok := member[[]json.RawMessage](d, graph, "graph_data", "points")
	if !ok {
		return nil
	}
	out := make([]Point, 0, len(items))
	for i, item := range items {
		at := fmt.Sprintf("graph_data.points[%d]", i)
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			d.skipped = append(d.skipped, at)
			continue
		}
		var p Point
		var value decimal.NullDecimal
		d.text(fields, at, "time", &p.Time)
		d.decimal(fields, at, "value", &value)
		if !value.Valid {
			continue
		}
		p.Value = value.Decimal
		out = append(out, p)
	}
	return out
}

// DisplayPrice returns the quote price or DefaultDisplayPrice.
func (r Report) DisplayPrice() decimal.Decimal {
	if r.PriceData.Price.Valid {
		return r.PriceData.Price.Decimal
	}
	return DefaultDisplayPrice
}

// DisplayChange returns the daily change percent or DefaultDisplayChange.
func (r Report) DisplayChange() decimal.Decimal {
	if r.PriceData.ChangePercent.Valid {
		return r.PriceData.ChangePercent.Decimal
	}
	return DefaultDisplayChange
}

// Currency returns the currency symbol, "$" when absent.
func (r Report) Currency() string {
	if r.PriceData.Currency == "" {
		return "$"
	}
	return r.PriceData.Currency
}

// Signal returns the verdict signal, "HOLD" when absent.
func (r Report) Signal() string {
	if r.Analysis.Verdict.Signal == "" {
		return "HOLD"
	}
	return r.Analysis.Verdict.Signal
}

// ConfidencePercent returns the verdict confidence from whichever field
// carries it.
func (r Report) ConfidencePercent() (int, bool) {
	c := r.Analysis.Verdict.Confidence
	if !c.Valid {
		c = r.Analysis.Confidence
	}
	if !c.Valid {
		return 0, false
	}
	return int(c.Decimal.Round(0).IntPart()), true
}

// Series returns the chart values in order.
func (r Report) Series() []float64 {
	out := make([]float64, 0, len(r.GraphData.Points))
	for _, p := range r.GraphData.Points {
		f, _ := p.Value.Float64()
		out = append(out, f)
	}
	return out
}

// FormatMarketCap renders a market cap that may be a raw number as a short
// figure such as "1.34T". Non-numeric values pass through.
func FormatMarketCap(s FlexString) string {
	raw := s.String()
	if raw == "" {
		return "N/A"
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	switch {
	case f >= 1e12:
		return fmt.Sprintf("%.2fT", f/1e12)
	case f >= 1e9:
		return fmt.Sprintf("%.2fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("%.2fM", f/1e6)
	default:
		return raw
	}
}
