// Package bm implements exact substring search with the Boyer-Moore
// bad-character and good-suffix heuristics.
//
// A Matcher is built once per pattern and reused across any number of texts.
// Its tables are read-only after construction, so a single Matcher may be used
// from many goroutines at once.
package bm

// Matcher performs repeated Boyer-Moore searches for one byte pattern.
// Construct with New or NewBytes. The zero value matches nothing.
type Matcher struct {
	pattern string
	t       *tables
}

// New builds the shift tables for pattern. It never fails; an empty pattern
// yields a Matcher that reports no matches.
func New(pattern string) Matcher {
	return Matcher{pattern: pattern, t: newTables(pattern)}
}

// NewBytes is like New but takes the pattern as a byte slice.
// The pattern is copied; later changes to it do not affect the Matcher.
func NewBytes(pattern []byte) Matcher {
	return New(string(pattern))
}

// Pattern returns the pattern the Matcher was built for.
func (m Matcher) Pattern() string {
	return m.pattern
}

// Len returns the pattern length in bytes.
func (m Matcher) Len() int {
	return len(m.pattern)
}

// Search returns the start offset of every match of the pattern in text,
// in ascending order. Overlapping matches are all reported.
func (m Matcher) Search(text string) []int {
	return searchAll(m, text)
}

// SearchBytes is like Search but scans a byte slice.
func (m Matcher) SearchBytes(text []byte) []int {
	return searchAll(m, text)
}

// Index returns the offset of the first match in text, or -1.
func (m Matcher) Index(text string) int {
	if len(m.pattern) == 0 {
		return -1
	}
	return indexFrom(m.t, m.pattern, text, 0)
}

// IndexBytes is like Index but scans a byte slice.
func (m Matcher) IndexBytes(text []byte) int {
	if len(m.pattern) == 0 {
		return -1
	}
	return indexFrom(m.t, m.pattern, text, 0)
}

// Contains reports whether the pattern occurs in text.
func (m Matcher) Contains(text string) bool {
	return m.Index(text) >= 0
}

// Count returns the number of matches in text, overlapping ones included.
func (m Matcher) Count(text string) int {
	if len(m.pattern) == 0 {
		return 0
	}
	count := 0
	for s := indexFrom(m.t, m.pattern, text, 0); s >= 0; s = indexFrom(m.t, m.pattern, text, s+m.t.goodSuffix[0]) {
		count++
	}
	return count
}

// SearchAll is a one-shot helper equivalent to New(pattern).Search(text).
func SearchAll(text, pattern string) []int {
	return New(pattern).Search(text)
}

func searchAll[T string | []byte](m Matcher, text T) []int {
	matches := []int{}
	if len(m.pattern) == 0 || len(m.pattern) > len(text) {
		return matches
	}
	for s := indexFrom(m.t, m.pattern, text, 0); s >= 0; s = indexFrom(m.t, m.pattern, text, s+m.t.goodSuffix[0]) {
		matches = append(matches, s)
	}
	return matches
}

// indexFrom scans windows starting at s and returns the first full match, or -1.
// pattern must be non-empty.
func indexFrom[T string | []byte](t *tables, pattern string, text T, s int) int {
	m, n := len(pattern), len(text)
	for s <= n-m {
		j := m - 1
		for j >= 0 && pattern[j] == text[s+j] {
			j--
		}
		if j < 0 {
			return s
		}
		bc := j - t.badChar[text[s+j]]
		gs := t.goodSuffix[j+1]
		s += max(1, bc, gs)
	}
	return -1
}
