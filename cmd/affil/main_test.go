package main

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/matsen/affil/internal/affiliation"
	"github.com/matsen/affil/internal/config"
	"github.com/matsen/affil/internal/layout"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARNING ", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractionExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"layout", &layout.LayoutError{Stage: "segments", Reason: "found 3"}, ExitExtractionFailed},
		{"count", fmt.Errorf("paper: %w", &affiliation.AuthorCountError{Resolved: 1, Expected: 2}), ExitExtractionFailed},
		{"symbol", &affiliation.UnresolvedSymbolError{Author: "Alice Smith", Symbol: "3"}, ExitExtractionFailed},
		{"other", errors.New("disk full"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractionExitCode(tt.err); got != tt.want {
				t.Errorf("extractionExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractorOptions(t *testing.T) {
	opts := extractorOptions(&config.GlobalConfig{}, true)
	if opts != affiliation.DefaultOptions() {
		t.Errorf("empty config changed defaults: %+v", opts)
	}

	opts = extractorOptions(&config.GlobalConfig{Scale: 2, SkipLines: 5, StrictSymbols: true}, false)
	if opts.Scale != 2 || opts.SkipLines != 5 || !opts.StrictSymbols || opts.UseRaster {
		t.Errorf("extractorOptions() = %+v", opts)
	}
}

func TestFormatAuthors(t *testing.T) {
	got := formatAuthors([]string{"Bob Lee", "Alice Smith", "Nobody"}, map[string][]string{
		"Alice Smith": {"MIT"},
		"Bob Lee":     {"Stanford", "MIT"},
	})
	want := "Bob Lee\n    Stanford\n    MIT\nAlice Smith\n    MIT\n"
	if got != want {
		t.Errorf("formatAuthors() = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"MIT", 10, "MIT"},
		{"Université de Montréal", 10, "Univers..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
