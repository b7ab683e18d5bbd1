package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mhr3/skipscan/ascii"
	"github.com/mhr3/skipscan/bm"
	"github.com/mhr3/skipscan/internal/store"
)

// Fold lowercases s for case-insensitive matching. ASCII input keeps its
// byte offsets.
func Fold(s string) string {
	if ascii.ValidString(s) {
		return ascii.Lower(s)
	}
	return strings.ToLower(s)
}

// FoldKeepsOffsets reports whether folding s leaves every rune at the same
// byte offset, so offsets into Fold(s) can be used on s.
func FoldKeepsOffsets(s string) bool {
	if ascii.ValidString(s) {
		return true
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		if utf8.RuneLen(unicode.ToLower(r)) != size {
			return false
		}
		i += size
	}
	return true
}

// Filter is a case-insensitive substring filter over message content.
// The query is preprocessed once; the zero Filter and a Filter built from an
// empty query match everything.
type Filter struct {
	query string
	m     bm.Matcher
}

// NewFilter prepares a filter for query.
func NewFilter(query string) Filter {
	if query == "" {
		return Filter{}
	}
	return Filter{query: query, m: bm.New(Fold(query))}
}

// Query returns the raw query.
func (f Filter) Query() string { return f.query }

// Match reports whether content contains the query, ignoring case.
func (f Filter) Match(content string) bool {
	if f.m.Len() == 0 {
		return true
	}
	return f.m.Contains(Fold(content))
}

// Apply returns the messages that match, in their original order.
func (f Filter) Apply(msgs []store.Message) []store.Message {
	out := make([]store.Message, 0, len(msgs))
	for _, m := range msgs {
		if f.Match(m.Content) {
			out = append(out, m)
		}
	}
	return out
}

// Highlights returns the start of every occurrence of the query in the folded
// content. Occurrences may overlap.
func (f Filter) Highlights(content string) []int {
	if f.m.Len() == 0 {
		return []int{}
	}
	return f.m.Search(Fold(content))
}
