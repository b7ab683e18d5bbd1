package bm

// RuneMatcher is the codepoint counterpart of Matcher. Its bad-character table
// is a map keyed by rune, so any Unicode symbol is tracked; a missing key
// behaves exactly like an absent byte in Matcher.
type RuneMatcher struct {
	pattern    []rune
	badChar    map[rune]int
	goodSuffix []int
}

// NewRunes builds the shift tables for a codepoint pattern.
// The pattern is copied.
func NewRunes(pattern []rune) RuneMatcher {
	p := make([]rune, len(pattern))
	copy(p, pattern)

	badChar := make(map[rune]int, len(p))
	for i, r := range p {
		badChar[r] = i
	}
	return RuneMatcher{
		pattern:    p,
		badChar:    badChar,
		goodSuffix: buildGoodSuffixTable(p),
	}
}

// NewRunesString decodes pattern as UTF-8 and calls NewRunes.
// Invalid bytes decode to U+FFFD.
func NewRunesString(pattern string) RuneMatcher {
	return NewRunes([]rune(pattern))
}

// Len returns the pattern length in codepoints.
func (m RuneMatcher) Len() int {
	return len(m.pattern)
}

// Search returns the codepoint offset of every match in text, ascending.
func (m RuneMatcher) Search(text []rune) []int {
	matches := []int{}
	if len(m.pattern) == 0 || len(m.pattern) > len(text) {
		return matches
	}
	for s := m.indexFrom(text, 0); s >= 0; s = m.indexFrom(text, s+m.goodSuffix[0]) {
		matches = append(matches, s)
	}
	return matches
}

// SearchString decodes text as UTF-8 and returns codepoint offsets.
func (m RuneMatcher) SearchString(text string) []int {
	return m.Search([]rune(text))
}

func (m RuneMatcher) lastIndex(r rune) int {
	if i, ok := m.badChar[r]; ok {
		return i
	}
	return absent
}

func (m RuneMatcher) indexFrom(text []rune, s int) int {
	p := m.pattern
	for s <= len(text)-len(p) {
		j := len(p) - 1
		for j >= 0 && p[j] == text[s+j] {
			j--
		}
		if j < 0 {
			return s
		}
		bc := j - m.lastIndex(text[s+j])
		gs := m.goodSuffix[j+1]
		s += max(1, bc, gs)
	}
	return -1
}
