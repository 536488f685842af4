package single

// BoyerMoore compares right to left and shifts by the bad-character rule.
func BoyerMoore(text, pattern []byte) []int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return everyOffset(n)
	}
	var last [256]int
	for i := range last {
		last[i] = -1
	}
	for i, b := range pattern {
		last[b] = i
	}

	var out []int
	for s := 0; s+m <= n; {
		j := m - 1
		for j >= 0 && pattern[j] == text[s+j] {
			j--
		}
		if j < 0 {
			out = append(out, s)
			if s+m < n {
				s += m - last[text[s+m]]
			} else {
				s++
			}
			continue
		}
		s += max(1, j-last[text[s+j]])
	}
	return out
}
