// Package ascii provides ASCII-only helpers used to fold text before it is
// handed to the case-exact search engine.
package ascii

import (
	segascii "github.com/segmentio/asm/ascii"
	"golang.org/x/sys/cpu"
)

var hasAVX2 = cpu.X86.HasAVX2

// Accelerated reports whether the vectorized routines are in use.
func Accelerated() bool { return hasAVX2 }

// ValidString reports whether s contains only 7-bit ASCII bytes.
func ValidString(s string) bool {
	if hasAVX2 {
		return segascii.ValidString(s)
	}
	return isAsciiGo(s)
}

// IndexMask returns the index of the first byte in s with any bit of mask
// set, or -1.
func IndexMask(s string, mask byte) int {
	return indexMaskGo(s, mask)
}

// Lower returns s with ASCII upper-case letters mapped to lower case.
// Other bytes are kept, so byte offsets into the result match offsets into s.
// s is returned unchanged, without allocating, when it has no upper-case letter.
func Lower(s string) string {
	i := indexUpper(s)
	if i < 0 {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s[:i])
	for ; i < len(s); i++ {
		b[i] = toLower(s[i])
	}
	return string(b)
}
