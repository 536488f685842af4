// Package single implements single-pattern search algorithms that share the
// multi-pattern contract: every occurrence, overlaps included, as ascending
// 0-based start offsets.
package single

import (
	"context"
	"fmt"
	"sort"
)

// Func returns the ascending start offsets of every occurrence of pattern
// in text. An empty pattern occurs at every offset 0..len(text).
type Func func(text, pattern []byte) []int

var funcs = map[string]Func{
	"naive": Naive,
	"kmp":   KMP,
	"boyer": BoyerMoore,
	"rabin": RabinKarp,
	"z":     Z,
	"dfa":   DFA,
}

// Names lists the registered algorithms in sorted order.
func Names() []string {
	names := make([]string, 0, len(funcs))
	for n := range funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the algorithm registered under name.
func Lookup(name string) (Func, bool) {
	fn, ok := funcs[name]
	return fn, ok
}

// Engine runs one single-pattern algorithm per pattern.
type Engine struct {
	name string
	fn   Func
}

// NewEngine returns the engine for a registered algorithm name, or "auto"
// to pick an algorithm per pattern with Choose.
func NewEngine(name string) (*Engine, error) {
	if name == "auto" {
		return &Engine{name: name}, nil
	}
	fn, ok := funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown single-pattern algorithm %q", name)
	}
	return &Engine{name: name, fn: fn}, nil
}

// Name is the algorithm name.
func (e *Engine) Name() string { return e.name }

// Find searches each pattern independently, checking ctx between patterns.
func (e *Engine) Find(ctx context.Context, text []byte, patterns []string) ([][]int, error) {
	out := make([][]int, len(patterns))
	for i, p := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fn := e.fn
		if fn == nil {
			fn = funcs[Choose([]byte(p), text)]
		}
		out[i] = fn(text, []byte(p))
	}
	return out, nil
}

func everyOffset(n int) []int {
	out := make([]int, n+1)
	for i := range out {
		out[i] = i
	}
	return out
}
