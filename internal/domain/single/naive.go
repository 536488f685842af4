package single

// Naive compares pattern at every alignment. O(n·m) worst case; the
// reference the other algorithms are tested against.
func Naive(text, pattern []byte) []int {
	m := len(pattern)
	if m == 0 {
		return everyOffset(len(text))
	}
	var out []int
	for i := 0; i+m <= len(text); i++ {
		j := 0
		for j < m && text[i+j] == pattern[j] {
			j++
		}
		if j == m {
			out = append(out, i)
		}
	}
	return out
}
