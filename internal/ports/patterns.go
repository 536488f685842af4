package ports

import "context"

// Engine finds every occurrence of every pattern in a text. Offsets are
// 0-based start positions, ascending per pattern, with overlapping
// occurrences included. The result is index-aligned with patterns.
//
// Implementations hold no per-call state and must be safe for concurrent use.
type Engine interface {
	// Name identifies the algorithm (e.g. "aho", "kmp").
	Name() string

	// Find searches text for patterns. It returns ctx.Err() if ctx is done
	// before the search completes.
	Find(ctx context.Context, text []byte, patterns []string) ([][]int, error)
}

// MatchOptions configures pattern-set compilation for engines that build an
// automaton. Single-pattern engines search raw bytes and ignore it.
type MatchOptions struct {
	Alphabet         string // alphabet name, e.g. "letters", "bytes-folded"
	Policy           string // "drop" (default), "reject", "collapse"
	MaxPatternLength int    // 0 = unbounded
	AllowEmpty       bool   // empty pattern matches at every offset
}
