package single

import "bytes"

// Choose picks an algorithm name for pattern over text from their shapes:
// repetitive patterns favor Boyer-Moore's skips, frequent first bytes favor
// KMP, tiny inputs favor the naive loop, and repetitive pattern and text
// favor Rabin-Karp.
func Choose(pattern, text []byte) string {
	m, n := len(pattern), len(text)
	if m == 0 || n == 0 {
		return "naive"
	}
	up := distinct(pattern)
	if up <= m/2 {
		return "boyer"
	}
	if bytes.Count(text, pattern[:1]) > n/m {
		return "kmp"
	}
	if m <= 10 && n <= 200 {
		return "naive"
	}
	if up < m && distinct(text) < n {
		return "rabin"
	}
	return "kmp"
}

func distinct(b []byte) int {
	var seen [256]bool
	n := 0
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			n++
		}
	}
	return n
}
