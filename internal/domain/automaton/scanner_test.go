package automaton

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveMatches is the O(n·m) oracle, ordered the way the scanner emits:
// by end position, then by pattern index.
func naiveMatches(patterns []string, text string) []Match {
	type hit struct {
		Match
		end int
	}
	var hits []hit
	for p, pat := range patterns {
		for i := 0; i+len(pat) <= len(text); i++ {
			if text[i:i+len(pat)] == pat {
				hits = append(hits, hit{Match{p, i}, i + len(pat)})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].end != hits[j].end {
			return hits[i].end < hits[j].end
		}
		return hits[i].Pattern < hits[j].Pattern
	})
	out := make([]Match, len(hits))
	for i, h := range hits {
		out[i] = h.Match
	}
	return out
}

func scan(t *testing.T, patterns []string, text string, opts Options) []Match {
	t.Helper()
	a := mustBuild(t, patterns, opts)
	matches, err := a.Scan([]byte(text))
	require.NoError(t, err)
	return matches
}

func TestScan_ClassicExample(t *testing.T) {
	patterns := []string{"he", "she", "his", "hers"}
	got := scan(t, patterns, "ushers", Options{Alphabet: LettersAlphabet()})
	assert.Equal(t, []Match{{0, 2}, {1, 1}, {3, 2}}, got)

	got = scan(t, patterns, "ahishers", Options{Alphabet: LettersAlphabet()})
	assert.Equal(t, []Match{{2, 1}, {0, 4}, {1, 3}, {3, 4}}, got)
}

func TestScan_PatternEqualsText(t *testing.T) {
	got := scan(t, []string{"needle"}, "needle", Options{})
	assert.Equal(t, []Match{{0, 0}}, got)
}

func TestScan_PrefixPatterns(t *testing.T) {
	got := scan(t, []string{"a", "ab"}, "ab", Options{})
	assert.Equal(t, []Match{{0, 0}, {1, 0}}, got)
}

func TestScan_AbsentPattern(t *testing.T) {
	a := mustBuild(t, []string{"zebra", "ze"}, Options{})
	occ, err := a.FindAll([]byte("zero"))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, occ.Offsets[1])
	assert.Empty(t, occ.Offsets[0])

	var shown []string
	occ.Each(false, func(_ int, p string, _ []int) { shown = append(shown, p) })
	assert.Equal(t, []string{"ze"}, shown)

	shown = nil
	occ.Each(true, func(_ int, p string, _ []int) { shown = append(shown, p) })
	assert.Equal(t, []string{"zebra", "ze"}, shown)
}

func TestScan_OverlapsAllReported(t *testing.T) {
	got := scan(t, []string{"aa"}, "aaaa", Options{})
	assert.Equal(t, []Match{{0, 0}, {0, 1}, {0, 2}}, got)
}

func TestScan_EmptyText(t *testing.T) {
	assert.Empty(t, scan(t, []string{"a"}, "", Options{}))
}

func TestScan_UnmappedTextSymbolResetsToRoot(t *testing.T) {
	opts := Options{Alphabet: LettersAlphabet()}
	assert.Empty(t, scan(t, []string{"ab"}, "a b", opts))
	assert.Equal(t, []Match{{0, 2}}, scan(t, []string{"ab"}, "a ab", opts))
}

func TestScan_DropPolicyOffsetsUseMappedLength(t *testing.T) {
	// "a-b" is inserted as "ab"; its match in "xab" starts at 1
	got := scan(t, []string{"a-b"}, "xab", Options{Alphabet: LettersAlphabet()})
	assert.Equal(t, []Match{{0, 1}}, got)
}

func TestScan_RejectPolicy(t *testing.T) {
	a := mustBuild(t, []string{"ab"}, Options{Alphabet: LettersAlphabet(), Policy: Reject})
	matches, err := a.Scan([]byte("ab ab"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	var se *SymbolError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Offset)
	assert.Equal(t, []Match{{0, 0}}, matches, "matches before the bad symbol are kept")
}

func TestScan_CollapsePolicyMatchesAnyUnmapped(t *testing.T) {
	opts := Options{Alphabet: LettersAlphabet(), Policy: Collapse}
	got := scan(t, []string{"a-b"}, "a+b a b ab", opts)
	assert.Equal(t, []Match{{0, 0}, {0, 4}}, got)
}

func TestScan_FoldedAlphabet(t *testing.T) {
	got := scan(t, []string{"she"}, "SHE She she", Options{Alphabet: FoldedLettersAlphabet()})
	assert.Equal(t, []Match{{0, 0}, {0, 4}, {0, 8}}, got)
}

func TestScan_AllowEmptyMatchesEverywhere(t *testing.T) {
	got := scan(t, []string{"", "b"}, "ab", Options{AllowEmpty: true})
	assert.Equal(t, []Match{{0, 0}, {0, 1}, {0, 2}, {1, 1}}, got)

	got = scan(t, []string{""}, "", Options{AllowEmpty: true})
	assert.Equal(t, []Match{{0, 0}}, got)
}

func TestScan_MatchesAreSound(t *testing.T) {
	patterns := []string{"he", "she", "his", "hers", "s"}
	text := "she sells his shells; ushers hear her"
	a := mustBuild(t, patterns, Options{})
	matches, err := a.Scan([]byte(text))
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		p := patterns[m.Pattern]
		assert.Equal(t, p, text[m.Offset:m.Offset+len(p)])
	}
}

func TestScan_AgreesWithNaiveOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 300; round++ {
		patterns := randomWords(rng, "abc", 1+rng.Intn(6), 4)
		text := randomWords(rng, "abc", 1, 80)[0]
		if rng.Intn(10) == 0 {
			text = ""
		}
		got := scan(t, patterns, text, Options{})
		want := naiveMatches(patterns, text)
		if len(want) == 0 {
			assert.Empty(t, got, "patterns=%q text=%q", patterns, text)
			continue
		}
		assert.Equal(t, want, got, "patterns=%q text=%q", patterns, text)
	}
}

func TestScan_Deterministic(t *testing.T) {
	patterns := []string{"ab", "b", "bab", "abab"}
	text := []byte("abababbababab")
	a := mustBuild(t, patterns, Options{})
	first, err := a.Scan(text)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := a.Scan(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScanner_FeedChunksMatchesBulkScan(t *testing.T) {
	patterns := []string{"ab", "bca", "cab"}
	text := []byte("abcabcabcab")
	a := mustBuild(t, patterns, Options{})
	want, err := a.Scan(text)
	require.NoError(t, err)

	s := a.NewScanner()
	var got []Match
	emit := func(m Match) { got = append(got, m) }
	for i := 0; i < len(text); i += 3 {
		require.NoError(t, s.Feed(text[i:min(i+3, len(text))], emit))
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(text), s.Pos())

	s.Reset()
	assert.Equal(t, 0, s.Pos())
	assert.Equal(t, Root, s.State())
}

func TestScanContext_Canceled(t *testing.T) {
	a := mustBuild(t, []string{"a"}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var n int
	err := a.ScanContext(ctx, bytes.Repeat([]byte("a"), 3*checkEvery), func(Match) { n++ })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestScanContext_Completes(t *testing.T) {
	a := mustBuild(t, []string{"a"}, Options{})
	var n int
	err := a.ScanContext(context.Background(), bytes.Repeat([]byte("a"), checkEvery+10), func(Match) { n++ })
	require.NoError(t, err)
	assert.Equal(t, checkEvery+10, n)
}

func TestScan_ConcurrentScansShareAutomaton(t *testing.T) {
	a := mustBuild(t, []string{"he", "she", "his", "hers"}, Options{})
	texts := []string{"ushers", "ahishers", "history", "she said he"}

	var wg sync.WaitGroup
	results := make([][]Match, 40)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := a.Scan([]byte(texts[i%len(texts)]))
			if err == nil {
				results[i] = m
			}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		want := naiveMatches(a.Patterns(), texts[i%len(texts)])
		assert.Equal(t, want, got)
	}
}

func TestCollect_GroupsPerPattern(t *testing.T) {
	occ := Collect([]string{"he", "she"}, []Match{{0, 2}, {1, 1}, {0, 7}})
	assert.Equal(t, [][]int{{2, 7}, {1}}, occ.Offsets)
	assert.Equal(t, 3, occ.Total())
}

func TestSuppressAdjacent(t *testing.T) {
	assert.Equal(t, []int{0, 2}, SuppressAdjacent([]int{0, 1, 2}))
	assert.Equal(t, []int{3, 7, 9}, SuppressAdjacent([]int{3, 4, 7, 9, 10}))
	assert.Empty(t, SuppressAdjacent(nil))
}

func BenchmarkScan(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	patterns := randomWords(rng, "abcdefghijklmnopqrstuvwxyz", 500, 8)
	a, err := Build(patterns, Options{Alphabet: LettersAlphabet()})
	if err != nil {
		b.Fatal(err)
	}
	text := []byte(randomWords(rng, "abcdefghijklmnopqrstuvwxyz ", 1, 1<<16)[0])
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.ScanFunc(text, func(Match) {})
	}
}
