package automaton

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPattern is returned for a zero-length pattern (or one with no
	// mapped symbols) unless Options.AllowEmpty is set.
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrPatternTooLong is returned when a pattern exceeds Options.MaxPatternLength.
	ErrPatternTooLong = errors.New("pattern too long")

	// ErrEmptyAlphabet is returned when patterns are given but the alphabet has no symbols.
	ErrEmptyAlphabet = errors.New("empty alphabet")

	// ErrInvalidSymbol is returned under the Reject policy for a symbol outside the alphabet.
	ErrInvalidSymbol = errors.New("symbol outside alphabet")
)

// PatternError reports which pattern failed construction.
type PatternError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %d (%q): %v", e.Index, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// SymbolError locates an out-of-alphabet symbol. Offset is relative to the
// pattern during construction and to the text during a scan.
type SymbolError struct {
	Offset int
	Symbol byte
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("offset %d: %v: %q", e.Offset, ErrInvalidSymbol, e.Symbol)
}

func (e *SymbolError) Unwrap() error { return ErrInvalidSymbol }
