package single

const (
	rkBase    = 256
	rkModulus = 1_000_000_007
)

// RabinKarp compares rolling hashes and verifies every hash hit byte by byte.
func RabinKarp(text, pattern []byte) []int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return everyOffset(n)
	}
	if m > n {
		return nil
	}

	// h = base^(m-1) mod p, the weight of the byte leaving the window
	h := uint64(1)
	for i := 0; i < m-1; i++ {
		h = h * rkBase % rkModulus
	}
	var ph, th uint64
	for i := 0; i < m; i++ {
		ph = (ph*rkBase + uint64(pattern[i])) % rkModulus
		th = (th*rkBase + uint64(text[i])) % rkModulus
	}

	var out []int
	for i := 0; ; i++ {
		if ph == th && string(text[i:i+m]) == string(pattern) {
			out = append(out, i)
		}
		if i+m >= n {
			break
		}
		th = (th + rkModulus - uint64(text[i])*h%rkModulus) % rkModulus
		th = (th*rkBase + uint64(text[i+m])) % rkModulus
	}
	return out
}
