package minify

// shortName returns the i-th name (0-based) in the minimal-length
// identifier sequence a, b, ..., z, aa, ab, ..., used by the name
// shrinking pass to rename variables and labels to their shortest
// possible spelling.
func shortName(i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	// Bijective base-26, the spreadsheet-column scheme: 0->"a", 25->"z",
	// 26->"aa", 27->"ab", so every non-negative i gets a distinct name
	// with no ambiguity between lengths.
	i++
	var buf []byte
	for i > 0 {
		i--
		buf = append([]byte{alphabet[i%26]}, buf...)
		i /= 26
	}
	return string(buf)
}
