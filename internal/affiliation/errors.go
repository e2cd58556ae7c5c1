package affiliation

import (
	"errors"
	"fmt"

	"github.com/matsen/affil/internal/symbol"
)

var (
	// ErrAuthorCountMismatch indicates the header did not yield one author
	// element per canonical name.
	ErrAuthorCountMismatch = errors.New("author count mismatch")

	// ErrUnresolvedSymbol indicates an author marker with no matching affiliation.
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
)

// AuthorCountError reports how many authors were resolved against how many
// the reference list names.
type AuthorCountError struct {
	Resolved int
	Expected int
}

func (e *AuthorCountError) Error() string {
	return fmt.Sprintf("%s: resolved %d, expected %d", ErrAuthorCountMismatch, e.Resolved, e.Expected)
}

func (e *AuthorCountError) Unwrap() error {
	return ErrAuthorCountMismatch
}

// UnresolvedSymbolError names the author and marker that found no affiliation.
type UnresolvedSymbolError struct {
	Author string        `json:"author"`
	Symbol symbol.Symbol `json:"symbol"`
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("%s %q for %s", ErrUnresolvedSymbol, string(e.Symbol), e.Author)
}

func (e *UnresolvedSymbolError) Unwrap() error {
	return ErrUnresolvedSymbol
}

// IsAuthorCountMismatch returns true if err reports an author count mismatch.
func IsAuthorCountMismatch(err error) bool {
	return errors.Is(err, ErrAuthorCountMismatch)
}

// IsUnresolvedSymbol returns true if err reports an unresolved marker.
func IsUnresolvedSymbol(err error) bool {
	return errors.Is(err, ErrUnresolvedSymbol)
}
