package bm

// AlphabetSize bounds the symbol codes tracked by the byte bad-character table.
const AlphabetSize = 256

// absent marks a symbol that never occurs in the pattern.
const absent = -1

// tables holds the shift tables for one pattern. Built once, never written after.
type tables struct {
	badChar    [AlphabetSize]int
	goodSuffix []int // len(pattern)+1 entries
}

func newTables[T string | []byte](pattern T) *tables {
	t := &tables{}
	buildBadCharTable(pattern, &t.badChar)
	t.goodSuffix = buildGoodSuffixTable([]byte(pattern))
	return t
}

// buildBadCharTable records the rightmost index of every byte in pattern.
// Later indices overwrite earlier ones, so the scan direction matters.
func buildBadCharTable[T string | []byte](pattern T, table *[AlphabetSize]int) {
	for i := range table {
		table[i] = absent
	}
	for i := 0; i < len(pattern); i++ {
		table[pattern[i]] = i
	}
}

// buildGoodSuffixTable computes the strong good-suffix shifts of pattern.
// shift[k] is the window advance when pattern[k:] matched and pattern[k-1]
// did not; shift[0] is the advance after a full match (the pattern period).
//
// border[i] is the start of the widest border of pattern[i:], or m+1 when
// pattern[i:] is empty. Phase 1 walks i from m down to 0 and fills the shifts
// where the matched suffix recurs preceded by a different symbol. Phase 2 walks
// i from 0 up to m and falls back to the widest border of the whole pattern
// that still fits inside the matched suffix.
func buildGoodSuffixTable[E comparable](pattern []E) []int {
	m := len(pattern)
	shift := make([]int, m+1)
	border := make([]int, m+1)

	i, j := m, m+1
	border[i] = j
	for i > 0 {
		for j <= m && pattern[i-1] != pattern[j-1] {
			if shift[j] == 0 {
				shift[j] = j - i
			}
			j = border[j]
		}
		i--
		j--
		border[i] = j
	}

	j = border[0]
	for i := 0; i <= m; i++ {
		if shift[i] == 0 {
			shift[i] = j
		}
		if i == j {
			j = border[j]
		}
	}
	return shift
}
