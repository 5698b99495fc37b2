// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithConfig(ClientConfig{
		BaseURL:           server.URL,
		APIKey:            "test-key",
		Timeout:           2 * time.Second,
		RequestsPerMinute: -1,
	})
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GenerateResponse{
		Candidates: []Candidate{{Content: Content{Parts: []Part{{Text: text}}}}},
	})
}

func TestClient_Generate(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if want := "/models/" + DefaultModel + ":generateContent"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}
		if req.GenerationConfig != nil {
			t.Errorf("generationConfig = %+v, want omitted", req.GenerationConfig)
		}
		writeText(w, "world")
	})

	got, err := client.Generate(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "world" {
		t.Errorf("Generate() = %q, want world", got)
	}
}

func TestClient_GenerateJSONOutput(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(string(req["generationConfig"]), `"responseMimeType":"application/json"`) {
			t.Errorf("generationConfig = %s", req["generationConfig"])
		}
		writeText(w, "[]")
	})
	if _, err := client.Generate(context.Background(), "json please", JSONOutput()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("")
	if client.IsConfigured() {
		t.Error("IsConfigured() = true without key")
	}
	_, err := client.Generate(context.Background(), "hi", nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Generate() error = %v, want ErrNotConfigured", err)
	}
	if got := client.APIKeyMasked(); got != "[not set]" {
		t.Errorf("APIKeyMasked() = %q", got)
	}
}

func TestClient_EmptyPrompt(t *testing.T) {
	client := NewClient("k")
	if _, err := client.Generate(context.Background(), "  ", nil); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Generate() error = %v, want ErrEmptyPrompt", err)
	}
}

func TestClient_APIError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	})
	_, err := client.Generate(context.Background(), "hi", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Generate() error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "INVALID_ARGUMENT" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestClient_EmptyCandidates(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})
	if _, err := client.Generate(context.Background(), "hi", nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Generate() error = %v, want ErrEmptyResponse", err)
	}
}

func TestClient_OversizedResponse(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "`))
		_, _ = w.Write([]byte(strings.Repeat("a", MaxResponseSize)))
		_, _ = w.Write([]byte(`"}]}}]}`))
	})
	got, err := client.Generate(context.Background(), "hi", nil)
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("Generate() error = %v, want ErrResponseTooLarge", err)
	}
	if got != "" {
		t.Errorf("Generate() = %d bytes, want none", len(got))
	}
}

func TestClient_TransportErrorRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClientWithConfig(ClientConfig{BaseURL: url, APIKey: "secret-key-123", RequestsPerMinute: -1})
	_, err := client.Generate(context.Background(), "hi", nil)
	if err == nil {
		t.Fatal("Generate() error = nil, want transport error")
	}
	if strings.Contains(err.Error(), "secret-key-123") {
		t.Errorf("error leaks API key: %v", err)
	}
}

func TestClient_APIKeyMasked(t *testing.T) {
	client := NewClient("abcdef")
	masked := client.APIKeyMasked()
	if strings.Contains(masked, "abcdef") || !strings.Contains(masked, "length=6") {
		t.Errorf("APIKeyMasked() = %q", masked)
	}
}

func TestGenerateResponse_Text(t *testing.T) {
	var r GenerateResponse
	if _, ok := r.Text(); ok {
		t.Error("Text() on empty response reported ok")
	}
	r.Candidates = []Candidate{{Content: Content{Parts: []Part{{Text: ""}}}}}
	if _, ok := r.Text(); ok {
		t.Error("Text() with empty part reported ok")
	}
}
