package automaton

import "context"

// checkEvery is how many bytes ScanContext scans between context checks.
const checkEvery = 4096

// Scanner drives an Automaton over a text one byte at a time. It owns the
// current state and position only; the Automaton is never written.
type Scanner struct {
	a     *Automaton
	state int32
	pos   int
	begun bool
}

// NewScanner returns a Scanner positioned at offset 0 in the root state.
func (a *Automaton) NewScanner() *Scanner {
	return &Scanner{a: a}
}

// Reset returns the scanner to offset 0 and the root state.
func (s *Scanner) Reset() {
	s.state = Root
	s.pos = 0
	s.begun = false
}

// Pos is the offset of the next byte to be consumed.
func (s *Scanner) Pos() int { return s.pos }

// State is the current automaton state.
func (s *Scanner) State() int { return int(s.state) }

// Begin emits the matches that end before the first byte, which only an
// allowed empty pattern can produce. It runs once; Step calls it implicitly.
func (s *Scanner) Begin(emit func(Match)) {
	if s.begun {
		return
	}
	s.begun = true
	for _, p := range s.a.output[Root] {
		emit(Match{Pattern: p, Offset: s.pos})
	}
}

// Step consumes b and emits every pattern ending at it in ascending pattern
// index order. Under the Reject policy an unmapped byte returns a
// *SymbolError and leaves the scanner unchanged.
func (s *Scanner) Step(b byte, emit func(Match)) error {
	s.Begin(emit)
	a := s.a
	c, ok := a.alphabet.lookup(b, a.policy)
	switch {
	case ok:
		s.state = a.delta[int(s.state)*a.width+c]
	case a.policy == Reject:
		return &SymbolError{Offset: s.pos, Symbol: b}
	default:
		s.state = Root
	}
	for _, p := range a.output[s.state] {
		emit(Match{Pattern: p, Offset: s.pos - a.lengths[p] + 1})
	}
	s.pos++
	return nil
}

// Feed steps through chunk, continuing from the current position.
func (s *Scanner) Feed(chunk []byte, emit func(Match)) error {
	for _, b := range chunk {
		if err := s.Step(b, emit); err != nil {
			return err
		}
	}
	return nil
}

// Scan returns every occurrence of every pattern in text, ordered by end
// position and then by pattern index.
func (a *Automaton) Scan(text []byte) ([]Match, error) {
	var out []Match
	err := a.ScanFunc(text, func(m Match) { out = append(out, m) })
	return out, err
}

// ScanFunc is Scan with matches streamed to emit.
func (a *Automaton) ScanFunc(text []byte, emit func(Match)) error {
	s := a.NewScanner()
	s.Begin(emit)
	return s.Feed(text, emit)
}

// ScanContext is ScanFunc that stops with ctx.Err() once ctx is done,
// checked between blocks of checkEvery bytes.
func (a *Automaton) ScanContext(ctx context.Context, text []byte, emit func(Match)) error {
	s := a.NewScanner()
	s.Begin(emit)
	for start := 0; start < len(text); start += checkEvery {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+checkEvery, len(text))
		if err := s.Feed(text[start:end], emit); err != nil {
			return err
		}
	}
	return nil
}

// FindAll scans text and groups the matches per pattern.
func (a *Automaton) FindAll(text []byte) (*Occurrences, error) {
	occ := NewOccurrences(a.patterns)
	if err := a.ScanFunc(text, occ.Add); err != nil {
		return nil, err
	}
	return occ, nil
}
