package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/corey/occur/internal/adapters/ahocorasick"
	"github.com/corey/occur/internal/domain/automaton"
	"github.com/corey/occur/internal/domain/single"
	"github.com/corey/occur/internal/ports"
)

// DefaultEngine is used when a request names no engine.
const DefaultEngine = "aho"

// AutomatonEngine implements ports.Engine with the in-house automaton.
type AutomatonEngine struct {
	opts automaton.Options
}

// NewAutomatonEngine resolves the named alphabet and policy in mo.
func NewAutomatonEngine(mo ports.MatchOptions) (*AutomatonEngine, error) {
	opts, err := AutomatonOptions(mo)
	if err != nil {
		return nil, err
	}
	return &AutomatonEngine{opts: opts}, nil
}

// AutomatonOptions converts named match options into builder options.
func AutomatonOptions(mo ports.MatchOptions) (automaton.Options, error) {
	alpha, err := automaton.ParseAlphabet(mo.Alphabet)
	if err != nil {
		return automaton.Options{}, err
	}
	policy, err := automaton.ParsePolicy(mo.Policy)
	if err != nil {
		return automaton.Options{}, err
	}
	if mo.MaxPatternLength < 0 {
		return automaton.Options{}, fmt.Errorf("max pattern length must not be negative, got %d", mo.MaxPatternLength)
	}
	return automaton.Options{
		Alphabet:         alpha,
		Policy:           policy,
		MaxPatternLength: mo.MaxPatternLength,
		AllowEmpty:       mo.AllowEmpty,
	}, nil
}

// Name implements ports.Engine.
func (e *AutomatonEngine) Name() string { return "aho" }

// Find builds an automaton for patterns and scans text once.
func (e *AutomatonEngine) Find(ctx context.Context, text []byte, patterns []string) ([][]int, error) {
	a, err := automaton.Build(patterns, e.opts)
	if err != nil {
		return nil, err
	}
	occ := automaton.NewOccurrences(a.Patterns())
	if err := a.ScanContext(ctx, text, occ.Add); err != nil {
		return nil, err
	}
	return occ.Offsets, nil
}

// autoEngine hands a lone pattern over raw bytes to the single-pattern
// selector and everything else to the automaton.
type autoEngine struct {
	multi  *AutomatonEngine
	single *single.Engine
	plain  bool
}

func (e *autoEngine) Name() string { return "auto" }

func (e *autoEngine) Find(ctx context.Context, text []byte, patterns []string) ([][]int, error) {
	if e.plain && len(patterns) == 1 {
		return e.single.Find(ctx, text, patterns)
	}
	return e.multi.Find(ctx, text, patterns)
}

// EngineNames lists every engine NewEngine accepts.
func EngineNames() []string {
	names := append([]string{"aho", "auto", "lib"}, single.Names()...)
	sort.Strings(names)
	return names
}

// NewEngine returns the engine registered under name, configured by mo.
// Single-pattern engines match raw bytes and reject other alphabets.
func NewEngine(name string, mo ports.MatchOptions) (ports.Engine, error) {
	switch name {
	case "", "aho":
		return NewAutomatonEngine(mo)
	case "lib":
		return ahocorasick.NewEngine(mo)
	case "auto":
		multi, err := NewAutomatonEngine(mo)
		if err != nil {
			return nil, err
		}
		s, err := single.NewEngine("auto")
		if err != nil {
			return nil, err
		}
		return &autoEngine{multi: multi, single: s, plain: isPlainBytes(mo)}, nil
	}
	if _, ok := single.Lookup(name); !ok {
		return nil, fmt.Errorf("unknown engine %q (want one of %v)", name, EngineNames())
	}
	if !isPlainBytes(mo) {
		return nil, fmt.Errorf("engine %q matches raw bytes only; alphabet %q needs aho", name, mo.Alphabet)
	}
	return single.NewEngine(name)
}

// isPlainBytes reports whether mo maps every byte to itself, which is the
// only configuration the byte-level engines agree with the automaton on.
func isPlainBytes(mo ports.MatchOptions) bool {
	return mo.Alphabet == "" || mo.Alphabet == "bytes"
}
