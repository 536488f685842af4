package single

// KMP is Knuth-Morris-Pratt search driven by the longest-proper-prefix-suffix
// table; it never moves backwards in text.
func KMP(text, pattern []byte) []int {
	m := len(pattern)
	if m == 0 {
		return everyOffset(len(text))
	}
	lps := prefixTable(pattern)
	var out []int
	j := 0
	for i := 0; i < len(text); i++ {
		for j > 0 && text[i] != pattern[j] {
			j = lps[j-1]
		}
		if text[i] == pattern[j] {
			j++
		}
		if j == m {
			out = append(out, i-m+1)
			j = lps[j-1]
		}
	}
	return out
}

// prefixTable returns lps where lps[i] is the length of the longest proper
// prefix of pattern[:i+1] that is also its suffix.
func prefixTable(pattern []byte) []int {
	lps := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = lps[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		lps[i] = k
	}
	return lps
}
