// Package ahocorasick provides a reference multi-pattern engine backed by the
// petar-dambovaliev/aho-corasick library. It is used to cross-check the
// in-house automaton and as the "lib" engine.
package ahocorasick

import (
	"context"
	"fmt"
	"sort"

	"github.com/corey/occur/internal/ports"
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Engine implements ports.Engine with the library automaton over raw bytes.
type Engine struct {
	foldCase bool
}

// NewEngine validates opts for the library, which only matches raw bytes
// (optionally ASCII case-insensitive) and has no symbol policies.
func NewEngine(opts ports.MatchOptions) (*Engine, error) {
	e := &Engine{}
	switch opts.Alphabet {
	case "", "bytes":
	case "bytes-folded":
		e.foldCase = true
	default:
		return nil, fmt.Errorf("lib engine: alphabet %q not supported (want bytes or bytes-folded)", opts.Alphabet)
	}
	if opts.AllowEmpty {
		return nil, fmt.Errorf("lib engine: empty patterns not supported")
	}
	return e, nil
}

// Name implements ports.Engine.
func (e *Engine) Name() string { return "lib" }

// Find compiles patterns and collects every overlapping match.
func (e *Engine) Find(ctx context.Context, text []byte, patterns []string) ([][]int, error) {
	out := make([][]int, len(patterns))
	if len(patterns) == 0 {
		return out, nil
	}
	for i, p := range patterns {
		if p == "" {
			return nil, fmt.Errorf("lib engine: pattern %d is empty", i)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		AsciiCaseInsensitive: e.foldCase,
		DFA:                  true,
	})
	automaton := builder.Build(patterns)

	iter := automaton.IterOverlappingByte(text)
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		out[m.Pattern()] = append(out[m.Pattern()], m.Start())
	}
	for _, offs := range out {
		sort.Ints(offs)
	}
	return out, ctx.Err()
}
