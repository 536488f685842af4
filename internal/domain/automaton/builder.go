package automaton

// Options configures construction.
type Options struct {
	// Alphabet defaults to BytesAlphabet when nil.
	Alphabet *Alphabet
	// Policy for pattern and text symbols outside the alphabet.
	Policy Policy
	// MaxPatternLength bounds each pattern's byte length; 0 means unbounded.
	MaxPatternLength int
	// AllowEmpty lets a zero-length pattern match at every offset of the text,
	// including len(text). Off by default: an empty pattern is an error. A
	// non-empty pattern with no mapped symbols is an error either way.
	AllowEmpty bool
}

// Builder constructs automata from pattern sets. A Builder holds only
// options and may be reused.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder for opts.
func NewBuilder(opts Options) *Builder {
	if opts.Alphabet == nil {
		opts.Alphabet = BytesAlphabet()
	}
	return &Builder{opts: opts}
}

// Build is shorthand for NewBuilder(opts).Build(patterns).
func Build(patterns []string, opts Options) (*Automaton, error) {
	return NewBuilder(opts).Build(patterns)
}

// Build inserts every pattern into a trie, then computes failure links and
// merged outputs breadth-first and completes the transition table. An empty
// pattern set yields a root-only automaton that matches nothing.
func (b *Builder) Build(patterns []string) (*Automaton, error) {
	if len(patterns) > 0 && b.opts.Alphabet.Size() == 0 {
		return nil, ErrEmptyAlphabet
	}

	a := &Automaton{
		alphabet: b.opts.Alphabet,
		policy:   b.opts.Policy,
		width:    b.opts.Alphabet.width(b.opts.Policy),
		patterns: append([]string(nil), patterns...),
		lengths:  make([]int, len(patterns)),
	}
	a.addState(-1, -1)

	syms := make([]int, 0, 64)
	for i, p := range patterns {
		var err error
		syms, err = b.symbols(p, syms[:0])
		if err != nil {
			return nil, &PatternError{Index: i, Pattern: p, Err: err}
		}
		// AllowEmpty admits only the zero-length pattern; one whose symbols
		// were all dropped is still an error.
		if len(syms) == 0 && (len(p) > 0 || !b.opts.AllowEmpty) {
			return nil, &PatternError{Index: i, Pattern: p, Err: ErrEmptyPattern}
		}
		a.insert(i, syms)
	}

	a.link()
	return a, nil
}

// symbols maps p to transition indices, applying the unmapped-symbol policy.
func (b *Builder) symbols(p string, dst []int) ([]int, error) {
	if limit := b.opts.MaxPatternLength; limit > 0 && len(p) > limit {
		return nil, ErrPatternTooLong
	}
	for j := 0; j < len(p); j++ {
		c, ok := b.opts.Alphabet.lookup(p[j], b.opts.Policy)
		if !ok {
			if b.opts.Policy == Reject {
				return nil, &SymbolError{Offset: j, Symbol: p[j]}
			}
			continue
		}
		dst = append(dst, c)
	}
	return dst, nil
}

// insert walks the trie along syms, creating states for the unmatched suffix,
// and records pattern i at the terminal state.
func (a *Automaton) insert(i int, syms []int) {
	s := int32(0)
	for _, c := range syms {
		next := a.delta[int(s)*a.width+c]
		if next < 0 {
			next = a.addState(s, c)
			a.delta[int(s)*a.width+c] = next
		}
		s = next
	}
	a.output[s] = append(a.output[s], i)
	a.lengths[i] = len(syms)
}

func (a *Automaton) addState(parent int32, label int) int32 {
	id := int32(len(a.fail))
	depth := int32(0)
	if parent >= 0 {
		depth = a.depth[parent] + 1
	}
	a.fail = append(a.fail, 0)
	a.depth = append(a.depth, depth)
	a.parent = append(a.parent, parent)
	a.label = append(a.label, int16(label))
	a.output = append(a.output, nil)
	for c := 0; c < a.width; c++ {
		a.delta = append(a.delta, -1)
	}
	return id
}

// link computes failure links in BFS order and completes the transition
// table. A state's failure target is always shallower, so its row is already
// complete when the state is dequeued and δ(fail(s), c) needs no chain walk.
func (a *Automaton) link() {
	w := a.width
	queue := make([]int32, 0, len(a.fail))

	for c := 0; c < w; c++ {
		t := a.delta[c]
		if t < 0 {
			a.delta[c] = 0
			continue
		}
		a.fail[t] = 0
		a.mergeOutput(t, 0)
		queue = append(queue, t)
	}

	for head := 0; head < len(queue); head++ {
		s := queue[head]
		row := int(s) * w
		frow := int(a.fail[s]) * w
		for c := 0; c < w; c++ {
			t := a.delta[row+c]
			if t < 0 {
				a.delta[row+c] = a.delta[frow+c]
				continue
			}
			f := a.delta[frow+c]
			a.fail[t] = f
			a.mergeOutput(t, f)
			queue = append(queue, t)
		}
	}
}

// mergeOutput sets output(t) to the ascending union of output(t) and output(f).
// Output slices are never mutated in place once shared.
func (a *Automaton) mergeOutput(t, f int32) {
	inherited := a.output[f]
	if len(inherited) == 0 {
		return
	}
	own := a.output[t]
	if len(own) == 0 {
		a.output[t] = inherited
		return
	}
	merged := make([]int, 0, len(own)+len(inherited))
	i, j := 0, 0
	for i < len(own) && j < len(inherited) {
		if own[i] < inherited[j] {
			merged = append(merged, own[i])
			i++
		} else {
			merged = append(merged, inherited[j])
			j++
		}
	}
	merged = append(merged, own[i:]...)
	merged = append(merged, inherited[j:]...)
	a.output[t] = merged
}
