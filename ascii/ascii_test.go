package ascii

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	segAscii "github.com/segmentio/asm/ascii"
	"github.com/stretchr/testify/assert"
)

func makeASCII(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rand.Uint32() & 0x7f)
	}
	return data
}

type ValidTest struct {
	in  string
	exp bool
}

var validTests = []ValidTest{
	{"", true},
	{"a", true},
	{"abc", true},
	{"Ж", false},
	{"ЖЖ", false},
	{"брэд-ЛГТМ", false},
	{"☺☻☹", false},
	{"aa\xe2", false},
	{string([]byte{66, 250}), false},
	{string([]byte{66, 250, 67}), false},
	{"a�b", false},
	{string("\xF4\x8F\xBF\xBF"), false},     // U+10FFFF
	{string("\xF4\x90\x80\x80"), false},     // U+10FFFF+1; out of range
	{string("\xc0\x80"), false},             // U+0000 encoded in two bytes: incorrect
	{string("\xed\xa0\x80"), false},         // U+D800 high surrogate (sic)
	{"hellowo\xff", false},
	{"hellowor", true},
}

func TestAscii(t *testing.T) {
	for _, vt := range validTests {
		if ValidString(vt.in) != vt.exp {
			t.Errorf("ValidString(%q) = %v; want %v", vt.in, !vt.exp, vt.exp)
		}
		if segAscii.ValidString(vt.in) != vt.exp {
			t.Errorf("segAscii.ValidString(%q) disagrees with table", vt.in)
		}
	}

	for _, vt := range validTests {
		pt := "0123456789ab" + vt.in
		if ValidString(pt) != vt.exp {
			t.Errorf("ValidString(%q) = %v; want %v", pt, !vt.exp, vt.exp)
		}
	}
}

func TestIndexMask(t *testing.T) {
	for i := 4; i < 640; i++ {
		data := makeASCII(i)
		if !ValidString(string(data)) {
			t.Errorf("ValidString(%q) = false; want true", data)
		}
		if res := IndexMask(string(data), 0x80); res != -1 {
			t.Errorf("IndexMask([%d]) = %d; want %d", len(data), res, -1)
		}

		idx := rand.Intn(i)
		data[idx] |= 0x80
		if ValidString(string(data)) {
			t.Errorf("ValidString(%q) = true; want false", data)
		}
		if res := IndexMask(string(data), 0x80); res != idx {
			t.Errorf("IndexMask([%d]) = %d; want %d", len(data), res, idx)
		}
	}
}

func TestLower(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"ABC", "abc"},
		{"Hello, World!", "hello, world!"},
		{"@[`{", "@[`{"},
		{"ÀB", "Àb"},
		{"MiXeD123", "mixed123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lower(tt.in), tt.in)
	}
}

func TestLowerKeepsOffsets(t *testing.T) {
	tests := []string{
		"日本語 ABC 日本語",
		"\xffAB\xfe",
		"ȺȺK",
		"already lower, then UPPER",
	}
	for _, in := range tests {
		got := Lower(in)
		assert.Len(t, got, len(in), in)
		for i := 0; i < len(in); i++ {
			if in[i] >= 0x80 {
				assert.Equal(t, in[i], got[i], "non-ASCII byte %d of %q changed", i, in)
			}
		}
	}
}

func TestLowerNoAllocWhenAlreadyLower(t *testing.T) {
	s := "already lower case text"
	allocs := testing.AllocsPerRun(10, func() {
		_ = Lower(s)
	})
	assert.Zero(t, allocs)
}

func BenchmarkAsciiValid(b *testing.B) {
	for _, n := range []int{1, 7, 15, 44, 100, 1000} {
		asciiBuf := makeASCII(n)
		asciiStr := string(asciiBuf)

		b.Run(fmt.Sprintf("go-%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(asciiStr)))
			for i := 0; i < b.N; i++ {
				isAsciiGo(asciiBuf)
			}
		})

		b.Run(fmt.Sprintf("segment-%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(asciiStr)))
			for i := 0; i < b.N; i++ {
				segAscii.ValidString(asciiStr)
			}
		})

		b.Run(fmt.Sprintf("dispatch-%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(asciiStr)))
			for i := 0; i < b.N; i++ {
				ValidString(asciiStr)
			}
		})
	}
}

func FuzzLower(f *testing.F) {
	f.Add("Hello")
	f.Add("\x80ABC")

	f.Fuzz(func(t *testing.T, s string) {
		if !ValidString(s) {
			t.Skip()
		}
		if got, want := Lower(s), strings.ToLower(s); got != want {
			t.Fatalf("Lower(%q) = %q; want %q", s, got, want)
		}
	})
}
