package single

// DFA builds the (m+1)×256 string-matching automaton for pattern by copying
// the transitions of the restart state, then scans text with one lookup per
// byte.
func DFA(text, pattern []byte) []int {
	m := len(pattern)
	if m == 0 {
		return everyOffset(len(text))
	}
	dfa := make([][256]int32, m+1)
	dfa[0][pattern[0]] = 1
	x := 0
	for j := 1; j <= m; j++ {
		dfa[j] = dfa[x]
		if j == m {
			break
		}
		dfa[j][pattern[j]] = int32(j + 1)
		x = int(dfa[x][pattern[j]])
	}

	var out []int
	state := int32(0)
	for i, b := range text {
		state = dfa[state][b]
		if int(state) == m {
			out = append(out, i-m+1)
		}
	}
	return out
}
