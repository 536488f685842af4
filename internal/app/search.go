package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/corey/occur/internal/domain/automaton"
	"github.com/corey/occur/internal/domain/single"
	"github.com/corey/occur/internal/ports"
)

var (
	// ErrNoPatterns is returned for a request without patterns.
	ErrNoPatterns = errors.New("no patterns given")

	// ErrVerifyMismatch is returned when --verify finds the engine and the
	// naive search disagree.
	ErrVerifyMismatch = errors.New("engine disagrees with naive search")
)

// Search runs one request through the chosen engine and records it.
// The returned run carries the offsets per pattern, in pattern order.
func (a *App) Search(ctx context.Context, req ports.SearchRequest) (*ports.Run, error) {
	if len(req.Patterns) == 0 {
		return nil, ErrNoPatterns
	}
	if err := validatePatterns(req.Patterns, req.Options); err != nil {
		return nil, err
	}
	engine, err := NewEngine(req.Engine, req.Options)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	offsets, err := engine.Find(ctx, req.Text, req.Patterns)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", engine.Name(), err)
	}
	a.Log.Debug("%s: %d patterns over %d bytes in %s", engine.Name(), len(req.Patterns), len(req.Text), elapsed)

	if req.Verify {
		if err := verify(ctx, req, offsets); err != nil {
			a.Log.Warn("verify %s: %v", engine.Name(), err)
			return nil, err
		}
	}
	if req.SuppressAdjacent {
		for i, offs := range offsets {
			offsets[i] = automaton.SuppressAdjacent(offs)
		}
	}

	run := &ports.Run{
		Timestamp: start.Unix(),
		Source:    req.Source,
		TextBytes: len(req.Text),
		TextHash:  xxhash.Sum64(req.Text),
		Engine:    engine.Name(),
		Options:   req.Options,
		Patterns:  req.Patterns,
		Offsets:   offsets,
		ElapsedNs: elapsed.Nanoseconds(),
	}
	if a.Store != nil && !req.NoHistory {
		if err := a.Store.SaveRun(run); err != nil {
			// History is best-effort; the result stands.
			a.Log.Warn("save run: %v", err)
		}
	}
	return run, nil
}

// validatePatterns applies the empty and length rules up front so every
// engine reports them the same way.
func validatePatterns(patterns []string, mo ports.MatchOptions) error {
	for i, p := range patterns {
		if p == "" && !mo.AllowEmpty {
			return &automaton.PatternError{Index: i, Pattern: p, Err: automaton.ErrEmptyPattern}
		}
		if mo.MaxPatternLength > 0 && len(p) > mo.MaxPatternLength {
			return &automaton.PatternError{Index: i, Pattern: p, Err: automaton.ErrPatternTooLong}
		}
	}
	return nil
}

// verify compares offsets against the naive byte search. Only raw-byte
// alphabets can be checked this way.
func verify(ctx context.Context, req ports.SearchRequest, offsets [][]int) error {
	if !isPlainBytes(req.Options) {
		return fmt.Errorf("verify: alphabet %q is not checkable against naive search", req.Options.Alphabet)
	}
	naive, err := single.NewEngine("naive")
	if err != nil {
		return err
	}
	want, err := naive.Find(ctx, req.Text, req.Patterns)
	if err != nil {
		return err
	}
	for i := range req.Patterns {
		if !slices.Equal(offsets[i], want[i]) {
			return fmt.Errorf("%w: pattern %q: got %v, want %v", ErrVerifyMismatch, req.Patterns[i], offsets[i], want[i])
		}
	}
	return nil
}
