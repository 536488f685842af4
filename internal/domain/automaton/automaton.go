// Package automaton implements Aho-Corasick multi-pattern matching over a
// configurable byte alphabet.
//
// A Builder turns an ordered pattern set into an immutable Automaton whose
// transition table is total, so scanning is one table lookup per text byte.
// An Automaton may be shared by any number of goroutines; each scan keeps its
// own state in a Scanner.
package automaton

// Root is the initial state.
const Root = 0

// Automaton is the converged goto/failure/output machine for a pattern set.
type Automaton struct {
	alphabet *Alphabet
	policy   Policy
	width    int

	delta  []int32 // states × width, total after Build
	fail   []int32
	depth  []int32
	parent []int32
	label  []int16
	output [][]int // ascending pattern indices, closed under fail

	patterns []string
	lengths  []int // mapped symbol count per pattern
}

// States returns the number of states, root included.
func (a *Automaton) States() int { return len(a.fail) }

// Patterns returns the pattern set in index order.
func (a *Automaton) Patterns() []string { return a.patterns }

// PatternLen is the number of alphabet symbols pattern p contributed to the
// trie. It differs from len(pattern) when the Drop policy skipped symbols.
func (a *Automaton) PatternLen(p int) int { return a.lengths[p] }

// Alphabet returns the alphabet the automaton was built over.
func (a *Automaton) Alphabet() *Alphabet { return a.alphabet }

// Policy returns the unmapped-symbol policy.
func (a *Automaton) Policy() Policy { return a.policy }

// Fail returns the failure link of s. Root's link is Root.
func (a *Automaton) Fail(s int) int { return int(a.fail[s]) }

// Output returns the pattern indices recognized at s, ascending. The slice is
// shared and must not be modified.
func (a *Automaton) Output(s int) []int { return a.output[s] }

// Depth is the length of the prefix s represents.
func (a *Automaton) Depth(s int) int { return int(a.depth[s]) }

// Prefix returns the transition indices spelling the prefix of s.
func (a *Automaton) Prefix(s int) []int {
	out := make([]int, a.depth[s])
	for i := len(out) - 1; s != Root; i-- {
		out[i] = int(a.label[s])
		s = int(a.parent[s])
	}
	return out
}

// Next returns the state reached from s on byte b. For a byte outside the
// alphabet it returns Root, or false under the Reject policy.
func (a *Automaton) Next(s int, b byte) (int, bool) {
	c, ok := a.alphabet.lookup(b, a.policy)
	if !ok {
		return Root, a.policy != Reject
	}
	return int(a.delta[s*a.width+c]), true
}

// Child returns the trie child of s on transition index c, if that edge was
// created by a pattern rather than by completion.
func (a *Automaton) Child(s, c int) (int, bool) {
	t := int(a.delta[s*a.width+c])
	if t == Root || a.parent[t] != int32(s) || int(a.label[t]) != c {
		return 0, false
	}
	return t, true
}

// Width is the number of transition columns per state.
func (a *Automaton) Width() int { return a.width }
