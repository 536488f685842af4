package automaton

// Match is one occurrence: pattern index and 0-based start offset in the text.
type Match struct {
	Pattern int `json:"pattern"`
	Offset  int `json:"offset"`
}

// Occurrences groups match offsets by pattern, preserving pattern input order.
type Occurrences struct {
	Patterns []string `json:"patterns"`
	Offsets  [][]int  `json:"offsets"`
}

// NewOccurrences returns an empty grouping for patterns.
func NewOccurrences(patterns []string) *Occurrences {
	return &Occurrences{
		Patterns: patterns,
		Offsets:  make([][]int, len(patterns)),
	}
}

// Add records m. Matches arrive in scan order, which keeps each pattern's
// offsets ascending.
func (o *Occurrences) Add(m Match) {
	o.Offsets[m.Pattern] = append(o.Offsets[m.Pattern], m.Offset)
}

// Collect groups matches by pattern.
func Collect(patterns []string, matches []Match) *Occurrences {
	o := NewOccurrences(patterns)
	for _, m := range matches {
		o.Add(m)
	}
	return o
}

// Total counts all occurrences.
func (o *Occurrences) Total() int {
	n := 0
	for _, offs := range o.Offsets {
		n += len(offs)
	}
	return n
}

// Each calls fn per pattern in input order. Patterns without occurrences are
// skipped unless emitEmpty is set.
func (o *Occurrences) Each(emitEmpty bool, fn func(i int, pattern string, offsets []int)) {
	for i, p := range o.Patterns {
		if len(o.Offsets[i]) == 0 && !emitEmpty {
			continue
		}
		fn(i, p, o.Offsets[i])
	}
}

// SuppressAdjacent drops every offset that directly follows the last kept
// one, so "aa" over "aaaa" keeps 0 and 2. It is an opt-in post-filter; scans
// never apply it.
func SuppressAdjacent(offsets []int) []int {
	if len(offsets) == 0 {
		return offsets
	}
	out := make([]int, 0, len(offsets))
	last := offsets[0] - 2
	for _, off := range offsets {
		if off == last+1 {
			continue
		}
		out = append(out, off)
		last = off
	}
	return out
}
