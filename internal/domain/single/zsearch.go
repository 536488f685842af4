package single

// Z runs the Z-algorithm over pattern, a separator, and text. The separator
// is virtual, so it cannot collide with any byte value.
func Z(text, pattern []byte) []int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return everyOffset(n)
	}
	total := m + 1 + n
	at := func(i int) int {
		switch {
		case i < m:
			return int(pattern[i])
		case i == m:
			return -1
		default:
			return int(text[i-m-1])
		}
	}

	z := make([]int, total)
	var out []int
	for i, l, r := 1, 0, 0; i < total; i++ {
		if i < r {
			z[i] = min(r-i, z[i-l])
		}
		for i+z[i] < total && at(z[i]) == at(i+z[i]) && at(z[i]) >= 0 {
			z[i]++
		}
		if i+z[i] > r {
			l, r = i, i+z[i]
		}
		if i > m && z[i] == m {
			out = append(out, i-m-1)
		}
	}
	return out
}
