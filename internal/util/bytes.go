package util

// IsWSP reports whether c is SP or HTAB.
func IsWSP(c byte) bool { return c == ' ' || c == '\t' }

// TrimWSP trims leading and trailing SP and HTAB without copying.
func TrimWSP(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && IsWSP(b[i]) {
		i++
	}
	for j > i && IsWSP(b[j-1]) {
		j--
	}
	return b[i:j]
}
