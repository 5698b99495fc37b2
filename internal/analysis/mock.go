// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Bounds of the randomized mock price.
var (
	MinMockPrice = decimal.RequireFromString("0.01")
	MaxMockPrice = decimal.RequireFromString("999.99")
)

type mockQuote struct {
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Currency      string          `json:"currency"`
	Name          string          `json:"name"`
	MarketCap     string          `json:"market_cap"`
	Volume        string          `json:"volume"`
}

type mockVerdict struct {
	Signal     string `json:"signal"`
	Confidence int    `json:"confidence"`
}

type mockAnalysis struct {
	Verdict     mockVerdict `json:"verdict"`
	Action      string      `json:"action"`
	TargetPrice string      `json:"target_price"`
	Timeframe   string      `json:"timeframe"`
	RiskLevel   string      `json:"risk_level"`
	Explanation string      `json:"ai_explanation"`
	Reasons     []string    `json:"reasons"`
	Flashcard   struct {
		Title string `json:"title"`
	} `json:"flashcard"`
}

type mockPoint struct {
	Time  string          `json:"time"`
	Value decimal.Decimal `json:"value"`
}

type mockPayload struct {
	Ticker    string       `json:"ticker"`
	PriceData mockQuote    `json:"price_data"`
	Analysis  mockAnalysis `json:"analysis"`
	Social    string       `json:"social"`
	GraphData struct {
		Points []mockPoint `json:"points"`
	} `json:"graph_data"`
	Source string `json:"source"`
}

func mockTemplate() mockPayload {
	var p mockPayload
	p.Ticker = "MOCK"
	p.PriceData = mockQuote{
		Price:         decimal.RequireFromString("245.30"),
		ChangePercent: decimal.RequireFromString("3.45"),
		Currency:      "$",
		Name:          "Mock Company Inc.",
		MarketCap:     "780B",
		Volume:        "125M",
	}
	p.Analysis = mockAnalysis{
		Verdict:     mockVerdict{Signal: "STRONG BUY", Confidence: 92},
		Action:      "Accumulate on dips",
		TargetPrice: "285.00",
		Timeframe:   "3-6 Months",
		RiskLevel:   "HIGH",
		Explanation: "This is MOCK DATA because the backend is not reachable. The asset shows strong momentum breaking above key resistance levels. " +
			"Delivery numbers exceeded expectations and margin improvements suggest operational efficiency. Technical indicators RSI and MACD are bullish.",
		Reasons: []string{
			"Earnings beat estimates by 5%",
			"New product launch faster than expected",
			"Regulatory approval limits downside",
		},
	}
	p.Analysis.Flashcard.Title = "Growth Catalyst"
	p.Social = "1. [r/wallstreetbets] THIS STOCK TO THE MOON 🚀\n2. @TechAnalyst: Buying the dip here.\n3. MarketWatch: Sector rally continues."
	series := []struct {
		t string
		v string
	}{
		{"9:30", "238"}, {"10:00", "240"}, {"11:00", "242"}, {"12:00", "241"},
		{"13:00", "243"}, {"14:00", "244"}, {"15:00", "245.30"},
	}
	for _, s := range series {
		p.GraphData.Points = append(p.GraphData.Points, mockPoint{Time: s.t, Value: decimal.RequireFromString(s.v)})
	}
	p.Source = "mock"
	return p
}

// MockPrice maps u in [0,1) to a cent-rounded price in [0.01, 1000).
func MockPrice(u float64) decimal.Decimal {
	price := decimal.NewFromFloat(u * 1000).Round(2)
	if price.LessThan(MinMockPrice) {
		return MinMockPrice
	}
	if price.GreaterThan(MaxMockPrice) {
		return MaxMockPrice
	}
	return price
}

// MockPayload builds the synthetic payload for ticker. u feeds MockPrice.
func MockPayload(ticker string, u float64) json.RawMessage {
	p := mockTemplate()
	p.Ticker = ticker
	p.PriceData.Name = ticker + " (Mock Mode)"
	p.PriceData.Price = MockPrice(u)

	data, err := json.Marshal(p)
	if err != nil {
		// Every field is a plain value; Marshal cannot fail here.
		panic("analysis: marshal mock payload: " + err.Error())
	}
	return data
}
