package automaton

import (
	"fmt"
	"strings"
)

// Class is a bit set of ASCII character classes an Alphabet recognizes.
type Class uint8

const (
	Lower    Class = 1 << iota // a-z
	Upper                      // A-Z
	Digit                      // 0-9
	Punct                      // printable ASCII that is not alphanumeric or space
	Space                      // ' ', \t, \n, \v, \f, \r
	AllBytes                   // every byte value; overrides the other classes

	Letters   = Lower | Upper
	Alnum     = Letters | Digit
	Printable = Alnum | Punct | Space
)

// Policy decides what happens to symbols outside the alphabet.
type Policy int

const (
	// Drop skips unmapped pattern symbols and resets the scan to the root on
	// unmapped text symbols.
	Drop Policy = iota
	// Reject fails construction or scanning on the first unmapped symbol.
	Reject
	// Collapse maps every unmapped symbol to one extra shared index, so an
	// unmapped symbol in a pattern matches any unmapped symbol in the text.
	Collapse
)

func (p Policy) String() string {
	switch p {
	case Drop:
		return "drop"
	case Reject:
		return "reject"
	case Collapse:
		return "collapse"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy resolves a policy name as accepted on the command line.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "drop":
		return Drop, nil
	case "reject":
		return Reject, nil
	case "collapse", "wildcard":
		return Collapse, nil
	}
	return Drop, fmt.Errorf("unknown symbol policy %q (want drop, reject or collapse)", name)
}

// Alphabet maps bytes to dense transition indices in [0, Size()).
// It is immutable after construction.
type Alphabet struct {
	name  string
	index [256]int16
	size  int
}

// NewAlphabet builds an alphabet from classes. Indices are assigned in class
// order (lower, upper, digit, punct, space), ascending by byte within a class.
// With fold set, upper- and lower-case ASCII letters share an index.
func NewAlphabet(classes Class, fold bool) *Alphabet {
	a := &Alphabet{name: className(classes, fold)}
	for i := range a.index {
		a.index[i] = -1
	}
	for _, b := range candidates(classes) {
		key := b
		if fold {
			key = toLower(b)
		}
		if a.index[key] < 0 {
			a.index[key] = int16(a.size)
			a.size++
		}
		a.index[b] = a.index[key]
	}
	return a
}

// LettersAlphabet is the case-sensitive 52-letter alphabet: a-z then A-Z.
func LettersAlphabet() *Alphabet { return NewAlphabet(Letters, false) }

// FoldedLettersAlphabet is the 26-letter ASCII case-insensitive alphabet.
func FoldedLettersAlphabet() *Alphabet { return NewAlphabet(Letters, true) }

// BytesAlphabet maps every byte value to itself.
func BytesAlphabet() *Alphabet { return NewAlphabet(AllBytes, false) }

var alphabetNames = map[string]func() *Alphabet{
	"letters":          LettersAlphabet,
	"letters-folded":   FoldedLettersAlphabet,
	"alnum":            func() *Alphabet { return NewAlphabet(Alnum, false) },
	"alnum-folded":     func() *Alphabet { return NewAlphabet(Alnum, true) },
	"printable":        func() *Alphabet { return NewAlphabet(Printable, false) },
	"printable-folded": func() *Alphabet { return NewAlphabet(Printable, true) },
	"bytes":            BytesAlphabet,
	"bytes-folded":     func() *Alphabet { return NewAlphabet(AllBytes, true) },
}

// AlphabetNames lists the names ParseAlphabet accepts.
func AlphabetNames() []string {
	return []string{"letters", "letters-folded", "alnum", "alnum-folded",
		"printable", "printable-folded", "bytes", "bytes-folded"}
}

// ParseAlphabet resolves a configured alphabet name.
func ParseAlphabet(name string) (*Alphabet, error) {
	if name == "" {
		return BytesAlphabet(), nil
	}
	if fn, ok := alphabetNames[strings.ToLower(name)]; ok {
		return fn(), nil
	}
	return nil, fmt.Errorf("unknown alphabet %q (want one of %s)", name, strings.Join(AlphabetNames(), ", "))
}

// Index returns the dense index of b, or false if b is outside the alphabet.
func (a *Alphabet) Index(b byte) (int, bool) {
	i := a.index[b]
	return int(i), i >= 0
}

// Size is the number of distinct indices.
func (a *Alphabet) Size() int { return a.size }

// Name describes the alphabet, e.g. "letters-folded".
func (a *Alphabet) Name() string { return a.name }

// width is the number of transition columns needed under p.
func (a *Alphabet) width(p Policy) int {
	if p == Collapse {
		return a.size + 1
	}
	return a.size
}

// lookup resolves b under p. The Collapse bucket is index Size().
func (a *Alphabet) lookup(b byte, p Policy) (int, bool) {
	if i := a.index[b]; i >= 0 {
		return int(i), true
	}
	if p == Collapse {
		return a.size, true
	}
	return -1, false
}

func candidates(classes Class) []byte {
	var out []byte
	if classes&AllBytes != 0 {
		for b := 0; b < 256; b++ {
			out = append(out, byte(b))
		}
		return out
	}
	add := func(keep func(byte) bool) {
		for b := 0; b < 128; b++ {
			if keep(byte(b)) {
				out = append(out, byte(b))
			}
		}
	}
	if classes&Lower != 0 {
		add(func(b byte) bool { return b >= 'a' && b <= 'z' })
	}
	if classes&Upper != 0 {
		add(func(b byte) bool { return b >= 'A' && b <= 'Z' })
	}
	if classes&Digit != 0 {
		add(func(b byte) bool { return b >= '0' && b <= '9' })
	}
	if classes&Punct != 0 {
		add(isPunct)
	}
	if classes&Space != 0 {
		add(func(b byte) bool { return b == ' ' || (b >= '\t' && b <= '\r') })
	}
	return out
}

func isPunct(b byte) bool {
	if b <= ' ' || b > '~' {
		return false
	}
	return !(b >= 'a' && b <= 'z') && !(b >= 'A' && b <= 'Z') && !(b >= '0' && b <= '9')
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func className(classes Class, fold bool) string {
	var name string
	switch {
	case classes&AllBytes != 0:
		name = "bytes"
	case classes == Letters:
		name = "letters"
	case classes == Alnum:
		name = "alnum"
	case classes == Printable:
		name = "printable"
	default:
		var parts []string
		for _, c := range []struct {
			bit  Class
			name string
		}{{Lower, "lower"}, {Upper, "upper"}, {Digit, "digit"}, {Punct, "punct"}, {Space, "space"}} {
			if classes&c.bit != 0 {
				parts = append(parts, c.name)
			}
		}
		name = strings.Join(parts, "+")
	}
	if fold {
		name += "-folded"
	}
	return name
}
