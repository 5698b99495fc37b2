// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.toml")
	if err := AtomicWriteFile(path, []byte("theme = \"dark\"\n"), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "theme = \"dark\"\n" {
		t.Errorf("content = %q", got)
	}
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	for _, content := range []string{"first", "second"} {
		if err := AtomicWriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("AtomicWriteFile(%q) error = %v", content, err)
		}
	}
	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("content = %q, want second", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := AtomicWriteFile(path, []byte("k"), 0o600); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

// =============================================================================
// TEXT TESTS
// =============================================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"TSLA", 10, "TSLA"},
		{"Connecting to market data", 10, "Connect..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tc := range tests {
		got := Truncate(tc.in, tc.width)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
		if StringWidth(got) > tc.width {
			t.Errorf("Truncate(%q, %d) width %d exceeds limit", tc.in, tc.width, StringWidth(got))
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight() = %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("one\ntwo"); got != "one" {
		t.Errorf("FirstLine() = %q", got)
	}
	if got := FirstLine("single"); got != "single" {
		t.Errorf("FirstLine() = %q", got)
	}
}

func TestSignedPercent(t *testing.T) {
	tests := map[string]string{
		"3.45":  "+3.45%",
		"0":     "+0.00%",
		"-1.2":  "-1.20%",
		"2.514": "+2.51%",
	}
	for in, want := range tests {
		if got := SignedPercent(decimal.RequireFromString(in)); got != want {
			t.Errorf("SignedPercent(%s) = %q, want %q", in, got, want)
		}
	}
}
