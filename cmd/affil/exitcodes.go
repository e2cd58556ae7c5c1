package main

import (
	"github.com/matsen/affil/internal/affiliation"
	"github.com/matsen/affil/internal/layout"
)

// Exit codes
const (
	ExitSuccess          = 0 // Success
	ExitError            = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError      = 2 // Configuration error (bad config file, missing API key)
	ExitDataError        = 3 // Data error (missing paper list, unreadable PDF)
	ExitExtractionFailed = 4 // Header layout or author resolution failed
)

// extractionExitCode maps an extraction error to its exit code.
func extractionExitCode(err error) int {
	switch {
	case layout.IsLayoutFailure(err),
		affiliation.IsAuthorCountMismatch(err),
		affiliation.IsUnresolvedSymbol(err):
		return ExitExtractionFailed
	default:
		return ExitError
	}
}
