package reflow

import "sort"

// LineOf returns the index of the line containing the byte offset: the
// greatest index whose Start is <= off. Offsets past the last line map to the
// last line, and a consumed break byte maps to the line it terminated. An
// empty table returns 0.
func LineOf(lines []Span, off int) int {
	n := sort.Search(len(lines), func(i int) bool {
		return lines[i].Start > off
	})
	if n == 0 {
		return 0
	}
	return n - 1
}
