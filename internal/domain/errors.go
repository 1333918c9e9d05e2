package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrMissingCredential signals an absent provider API key. The stage
	// that needs the credential must stop before producing partial results.
	ErrMissingCredential = errors.New("missing credential")
	// ErrCompleterUnavailable signals that adjudication cannot run at all;
	// callers can still show the raw ranked candidates.
	ErrCompleterUnavailable = errors.New("completer unavailable")
	// ErrDimensionMismatch signals a vector whose length differs from the
	// collection's configured dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrCollectionNotFound signals a query against a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
)

// VerdictParseError reports a completion that could not be decoded into a
// Verdict. Raw preserves the model output untouched so a human can still
// read it. Distinct from a negative verdict, which is a legitimate result.
type VerdictParseError struct {
	Raw string
}

func (e *VerdictParseError) Error() string {
	return fmt.Sprintf("completion is not a parseable verdict: %q", truncateRunes(e.Raw, 120))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
