// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/trackbets-tui/internal/analysis"
	"github.com/jeranaias/trackbets-tui/internal/assistant"
	"github.com/jeranaias/trackbets-tui/internal/config"
	"github.com/jeranaias/trackbets-tui/internal/flow"
	"github.com/jeranaias/trackbets-tui/internal/loading"
	"github.com/jeranaias/trackbets-tui/internal/loop"
	"github.com/jeranaias/trackbets-tui/internal/model"
	"github.com/jeranaias/trackbets-tui/internal/session"
)

const payloadNVDA = `{
  "ticker": "NVDA",
  "price_data": {"price": 131.2, "change_percent": -0.8, "currency": "$", "name": "NVIDIA Corp"},
  "analysis": {"verdict": "BUY", "confidence": 81, "reasons": ["Datacenter demand"], "ai_explanation": "Demand keeps outrunning supply."}
}`

// =============================================================================
// HELPERS
// =============================================================================

// isolate points HOME and the config at a temp dir and clears the
// environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		config.EnvAPIURL, config.EnvGeminiKey, config.EnvViteGeminiKey,
		config.EnvModel, config.EnvTheme, config.EnvLogLevel, config.EnvRPM,
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeConfig(t *testing.T, dir, apiURL string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`[analysis]
base_url = %q
timeout_secs = 5

[loading]
total_ms = 60
tick_ms = 5
stage_offsets_ms = [10, 20, 30]

[storage]
path = %q

[log]
path = %q
level = "debug"
`, apiURL, filepath.Join(dir, "profile.db"), filepath.Join(dir, "trackbets.log"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("9.9.9")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// =============================================================================
// COMMAND TESTS
// =============================================================================

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "TrackBets v9.9.9\n", out)
}

func TestConfigPath(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".trackbets", "config.toml"), strings.TrimSpace(out))

	custom := filepath.Join(home, "elsewhere.yaml")
	out, err = execute(t, "--config", custom, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, custom, strings.TrimSpace(out))
}

func TestConfigShowRedactsKey(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, home, "http://127.0.0.1:1")
	t.Setenv(config.EnvGeminiKey, "super-secret")

	out, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "[REDACTED]")

	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Contains(t, shown, "loading")

	out, err = execute(t, "--config", path, "config", "get", "assistant.api_key")
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", strings.TrimSpace(out))
}

func TestConfigSetGetRoundTrip(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, home, "http://127.0.0.1:1")
	t.Setenv(config.EnvModel, "from-env")

	_, err := execute(t, "--config", path, "config", "set", "ui.chat_width", "64")
	require.NoError(t, err)

	out, err := execute(t, "--config", path, "config", "get", "ui.chat_width")
	require.NoError(t, err)
	assert.Equal(t, "64", strings.TrimSpace(out))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "chat_width = 64")
	assert.NotContains(t, string(raw), "from-env", "environment values must not be written back")
	assert.Contains(t, string(raw), "total_ms = 60", "existing values survive")
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, home, "http://127.0.0.1:1")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = execute(t, "--config", path, "config", "set", "ui.theme", "neon")
	require.Error(t, err)

	_, err = execute(t, "--config", path, "config", "set", "no.such_key", "1")
	require.ErrorIs(t, err, config.ErrUnknownKey)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestConfigKeys(t *testing.T) {
	out, err := execute(t, "config", "keys")
	require.NoError(t, err)
	keys := strings.Fields(out)
	assert.Contains(t, keys, "analysis.base_url")
	assert.Contains(t, keys, "loading.total_ms")
	assert.Contains(t, keys, "ui.theme")
}

func TestAnalyzeCommand(t *testing.T) {
	home := isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, analysis.AnalyzePath, r.URL.Path)
		assert.Equal(t, "NVDA", r.URL.Query().Get("ticker"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payloadNVDA))
	}))
	defer server.Close()
	path := writeConfig(t, home, server.URL)

	out, err := execute(t, "--config", path, "analyze", " nvda ", "--intent", "buy", "--no-chat")
	require.NoError(t, err)
	assert.Contains(t, out, "NVIDIA Corp")
	assert.Contains(t, out, "NVDA")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "81% confidence")
	assert.Contains(t, out, "Datacenter demand")
	assert.NotContains(t, out, "simulated")
}

func TestAnalyzeCommand_LooselyTypedPayload(t *testing.T) {
	home := isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ticker": "NVDA",
			"price_data": {"price": "131.20", "change_percent": {"oops": 1}, "name": "NVIDIA Corp"},
			"analysis": {"verdict": "BUY", "confidence": "85%", "reasons": "Datacenter demand"},
			"social": ["r/stocks: bullish"],
			"news": 404
		}`))
	}))
	defer server.Close()
	path := writeConfig(t, home, server.URL)

	out, err := execute(t, "--config", path, "analyze", "NVDA", "--intent", "buy", "--no-chat")
	require.NoError(t, err)
	assert.Contains(t, out, "NVIDIA Corp")
	assert.Contains(t, out, "$131.20")
	assert.Contains(t, out, "85% confidence")
	assert.Contains(t, out, "Datacenter demand")
	assert.Contains(t, out, "r/stocks: bullish")
	assert.Contains(t, out, "404")
}

func TestPrintReport_UnreadablePayload(t *testing.T) {
	var buf bytes.Buffer
	err := printReport(&buf, analysis.Ok("NVDA", json.RawMessage(`["not", "an", "object"]`)), 80)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "NVDA")
	assert.Contains(t, buf.String(), "analysis details unavailable")
}

func TestAnalyzeCommand_MockWhenServiceDown(t *testing.T) {
	home := isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()
	path := writeConfig(t, home, server.URL)

	out, err := execute(t, "--config", path, "analyze", "AMD", "--intent", "track", "--no-chat")
	require.NoError(t, err)
	assert.Contains(t, out, "AMD")
	assert.Contains(t, out, "simulated")
}

func TestAnalyzeCommand_BadIntent(t *testing.T) {
	_, err := execute(t, "analyze", "TSLA", "--intent", "hodl")
	require.Error(t, err)
}

func TestAnalyzeCommand_NoTickerWithoutTTY(t *testing.T) {
	if CanPrompt() {
		t.Skip("stdin is a terminal")
	}
	isolate(t)

	_, err := execute(t, "analyze", "--intent", "buy")
	var ttyErr *TTYRequiredError
	require.ErrorAs(t, err, &ttyErr)
	assert.Contains(t, err.Error(), "trackbets analyze TICKER")
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestTTYRequiredError(t *testing.T) {
	tests := []struct {
		err  *TTYRequiredError
		want string
	}{
		{&TTYRequiredError{}, "stdin is not a terminal; interactive input not available"},
		{&TTYRequiredError{Operation: "pick"}, "stdin is not a terminal; cannot pick interactively"},
		{&TTYRequiredError{Operation: "pick", Hint: "use flags"}, "stdin is not a terminal; cannot pick interactively (use flags)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestReportWidthBounds(t *testing.T) {
	w := ReportWidth()
	assert.GreaterOrEqual(t, w, MinTerminalWidth)
	assert.LessOrEqual(t, w, MaxReportWidth)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "fits", text: "short line", width: 20, want: "short line"},
		{name: "breaks on words", text: "one two three four", width: 9, want: "one two\nthree\nfour"},
		{name: "keeps paragraphs", text: "a b\n\nc", width: 10, want: "a b\n\nc"},
		{name: "long word stays whole", text: "supercalifragilistic x", width: 5, want: "supercalifragilistic\nx"},
		{name: "collapses spaces", text: "a    b", width: 10, want: "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.text, tt.width))
		})
	}
}

// =============================================================================
// CHAT REPL
// =============================================================================

type scriptReader struct {
	lines []string
}

func (s *scriptReader) ReadInput(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type fetchFunc func(ctx context.Context, ticker string) analysis.Result

func (f fetchFunc) Fetch(ctx context.Context, ticker string) analysis.Result { return f(ctx, ticker) }

type quickSeq struct{}

func (quickSeq) Start(_ context.Context, h loading.Hooks) error {
	h.OnComplete()
	return nil
}

func (quickSeq) Stop() {}

type parrot struct{}

func (parrot) Reply(_ context.Context, q assistant.Quote, question string) (string, error) {
	return "On " + q.Ticker + ": " + question, nil
}

func (parrot) Insights(context.Context, string) (model.InsightSet, error) {
	return model.InsightSet{{Title: "Trend", Text: "Up"}, {Title: "Risk", Text: "Low"}}, nil
}

func newDetailREPL(t *testing.T, lines ...string) (*chatREPL, *bytes.Buffer, *int) {
	t.Helper()
	l := loop.NewLoop(loop.DefaultBuffer)
	t.Cleanup(l.Close)

	fetches := 0
	orch := flow.New(flow.Options{
		Fetcher: fetchFunc(func(_ context.Context, ticker string) analysis.Result {
			fetches++
			return analysis.Ok(ticker, json.RawMessage(payloadNVDA))
		}),
		Poster:       l,
		NewSequencer: func() flow.Sequencer { return quickSeq{} },
		NewSession: func(q assistant.Quote) *session.Session {
			return session.New(q, parrot{}, l, session.Config{})
		},
	})
	t.Cleanup(orch.Shutdown)

	require.NoError(t, orch.SelectIntent(flow.IntentTrack))
	require.NoError(t, orch.SubmitIntake(flow.IntakeForm{flow.TickerKey: "NVDA"}))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, l.RunUntil(ctx, func() bool {
		return orch.State() == flow.StateDetail && orch.Result().Settled() &&
			orch.Session() != nil && !orch.Session().Regenerating()
	}))

	var out bytes.Buffer
	return &chatREPL{orch: orch, loop: l, in: &scriptReader{lines: lines}, out: &out, width: 80}, &out, &fetches
}

func TestChatREPL_AsksAndExits(t *testing.T) {
	repl, out, _ := newDetailREPL(t, "  ", "why now?", "exit", "never read")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, repl.run(ctx))

	assert.Contains(t, out.String(), "On NVDA: why now?")
	assert.NotContains(t, out.String(), "never read")

	h := repl.orch.Session().History()
	require.NotEmpty(t, h)
	assert.Equal(t, "On NVDA: why now?", h[len(h)-1].Text)
}

func TestChatREPL_Commands(t *testing.T) {
	repl, out, fetches := newDetailREPL(t, "/insights", "/retry", "/bogus")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, repl.run(ctx), "EOF ends the chat cleanly")

	text := out.String()
	assert.Contains(t, text, "Trend")
	assert.Contains(t, text, "Unknown command: ")
	assert.Contains(t, text, "NVIDIA Corp")
	assert.Equal(t, 2, *fetches)
}
