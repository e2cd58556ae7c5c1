package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultSearchLimit is the default number of search hits.
const DefaultSearchLimit = 50

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is the JSON form of a failed command.
type ErrorResponse struct {
	Error string `json:"error"`
}

// formatAuthors renders author -> affiliations lines in byline order.
func formatAuthors(order []string, authors map[string][]string) string {
	var b strings.Builder
	for _, name := range order {
		affs, ok := authors[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s\n", name)
		for _, a := range affs {
			fmt.Fprintf(&b, "    %s\n", a)
		}
	}
	return b.String()
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
