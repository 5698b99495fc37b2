// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/trackbets-tui/internal/analysis"
	"github.com/jeranaias/trackbets-tui/internal/model"
	"github.com/jeranaias/trackbets-tui/internal/ui/components"
	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
	"github.com/jeranaias/trackbets-tui/internal/util"
)

// printReport writes a settled result as plain sections.
func printReport(w io.Writer, res analysis.Result, width int) error {
	rep, err := res.Report()
	if err != nil {
		fmt.Fprintln(w, TitleStyle.Render(res.Ticker))
		fmt.Fprintln(w, DimStyle.Render("analysis details unavailable: "+err.Error()))
		return nil
	}

	name := rep.PriceData.Name
	if name == "" {
		name = res.Ticker
	}
	fmt.Fprintln(w, TitleStyle.Render(name)+"  "+DimStyle.Render(res.Ticker))

	change := rep.DisplayChange()
	changeStyle := UpStyle
	if change.IsNegative() {
		changeStyle = DownStyle
	}
	fmt.Fprintf(w, "%s  %s\n",
		ValueStyle.Render(rep.Currency()+rep.DisplayPrice().StringFixed(2)),
		changeStyle.Render(util.SignedPercent(change)),
	)
	if res.Kind == analysis.KindMock {
		fmt.Fprintln(w, WarningStyle.Render(styles.StatusIndicators.Mock)+" "+
			DimStyle.Render("live data unavailable ("+res.Reason.String()+"); figures are simulated"))
	}

	signal := strings.ToUpper(rep.Signal())
	verdict := signalStyle(signal).Render(signal)
	if pct, ok := rep.ConfidencePercent(); ok {
		verdict += DimStyle.Render(fmt.Sprintf("  %d%% confidence", pct))
	}
	fmt.Fprintln(w, SectionStyle.Render("Verdict"))
	fmt.Fprintln(w, verdict)
	printField(w, "Action", rep.Analysis.Action)
	printField(w, "Target", rep.Analysis.TargetPrice.String())
	printField(w, "Timeframe", rep.Analysis.Timeframe)
	printField(w, "Risk", rep.Analysis.RiskLevel)
	printField(w, "Market cap", analysis.FormatMarketCap(rep.PriceData.MarketCap))
	printField(w, "Volume", rep.PriceData.Volume.String())

	if series := rep.Series(); len(series) > 0 {
		fmt.Fprintln(w, SectionStyle.Render("Trend"))
		fmt.Fprintln(w, components.Sparkline(series, min(width, 60)))
	}

	if rep.Analysis.Explanation != "" {
		fmt.Fprintln(w, SectionStyle.Render("Why"))
		fmt.Fprintln(w, wrap(rep.Analysis.Explanation, width))
	}
	if len(rep.Analysis.Reasons) > 0 {
		fmt.Fprintln(w, SectionStyle.Render("Key reasons"))
		for _, r := range rep.Analysis.Reasons {
			fmt.Fprintln(w, wrap("- "+r, width))
		}
	}
	if rep.Social != "" {
		fmt.Fprintln(w, SectionStyle.Render("Social pulse"))
		fmt.Fprintln(w, wrap(rep.Social, width))
	}
	if rep.News != "" {
		fmt.Fprintln(w, SectionStyle.Render("News"))
		fmt.Fprintln(w, wrap(rep.News, width))
	}
	return nil
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintln(w, LabelStyle.Render(label)+ValueStyle.Render(value))
}

func printInsights(w io.Writer, set model.InsightSet, width int) {
	fmt.Fprintln(w, SectionStyle.Render("Insights"))
	for _, in := range set {
		fmt.Fprintln(w, AnalystStyle.Render(in.Title))
		fmt.Fprintln(w, wrap(in.Text, width))
	}
}

// wrap breaks text on word boundaries to fit width columns.
func wrap(text string, width int) string {
	if width <= 0 {
		width = ReportWidth()
	}
	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		cur := words[0]
		for _, word := range words[1:] {
			if util.StringWidth(cur)+1+util.StringWidth(word) <= width {
				cur += " " + word
				continue
			}
			out.WriteString(cur)
			out.WriteByte('\n')
			cur = word
		}
		out.WriteString(cur)
	}
	return out.String()
}
