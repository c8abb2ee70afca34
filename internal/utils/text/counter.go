// Package text holds small string-processing helpers shared across the
// pipeline's text-cleaning and summarization stages.
package text

// CountRunes returns the number of Unicode code points in s, counting
// multi-byte characters (Japanese, emoji, ...) as one each rather than
// counting bytes.
func CountRunes(s string) int {
	return len([]rune(s))
}
