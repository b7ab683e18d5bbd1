// Package utf8 validates UTF-8 text before it is decoded into codepoints for
// rune-level search.
package utf8

import (
	stdlib "unicode/utf8"

	"github.com/mhr3/skipscan/ascii"
)

// ValidString reports whether s is valid UTF-8.
// The ASCII prefix is skipped a word at a time; only the remainder goes
// through the standard decoder.
func ValidString(s string) bool {
	idx := ascii.IndexMask(s, 0x80)
	if idx == -1 {
		return true
	}
	return stdlib.ValidString(s[idx:])
}
