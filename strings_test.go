package sym_test

import (
	"testing"

	"github.com/symkit/sym"
)

func TestStrings(t *testing.T) {
	b := sym.NewBuilder(nil)

	t.Run("LengthLiteral", func(t *testing.T) {
		if b.StrLength(b.StringLit(sym.Char8, "hello")) != b.IntLit(5) {
			t.Fatal("expected literal length to fold")
		}
	})

	t.Run("LengthUnicode", func(t *testing.T) {
		if b.StrLength(b.StringLit(sym.Unicode, "héllo")) != b.IntLit(5) {
			t.Fatal("expected code point length")
		}
	})

	t.Run("ConcatFold", func(t *testing.T) {
		x := b.StringLit(sym.Char8, "foo")
		y := b.StringLit(sym.Char8, "bar")
		if b.StrConcat(x, y) != b.StringLit(sym.Char8, "foobar") {
			t.Fatal("expected literal concat to fold")
		}
	})

	t.Run("ConcatEmpty", func(t *testing.T) {
		s := b.FreshString("s", sym.Char8)
		if b.StrConcat(s, b.StringLit(sym.Char8, "")) != s {
			t.Fatal("expected empty suffix to vanish")
		} else if b.StrConcat(b.StringLit(sym.Char8, ""), s) != s {
			t.Fatal("expected empty prefix to vanish")
		}
	})

	t.Run("ConcatLength", func(t *testing.T) {
		s := b.FreshString("s", sym.Char8)
		out := b.StrConcat(s, b.StringLit(sym.Char8, "ab"))
		length := b.StrLength(out).AbstractValue().(sym.IntRange)
		if length.Lo() == nil || length.Lo().Int64() != 2 {
			t.Fatalf("unexpected length bound: %s", length)
		}
	})

	t.Run("SubstringFold", func(t *testing.T) {
		s := b.StringLit(sym.Char8, "hello world")
		if b.StrSubstring(s, b.IntLit(6), b.IntLit(5)) != b.StringLit(sym.Char8, "world") {
			t.Fatal("expected literal substring to fold")
		}
	})

	t.Run("SubstringOutOfRange", func(t *testing.T) {
		s := b.StringLit(sym.Char8, "abc")
		if b.StrSubstring(s, b.IntLit(9), b.IntLit(2)) != b.StringLit(sym.Char8, "") {
			t.Fatal("expected out-of-range substring to be empty")
		}
	})

	t.Run("SubstringLength", func(t *testing.T) {
		s := b.FreshString("s", sym.Char8)
		out := b.StrSubstring(s, b.IntLit(0), b.IntLit(4))
		length := out.AbstractValue().(sym.StringValue).Length
		if length.Lo().Sign() != 0 || length.Hi() == nil || length.Hi().Int64() != 4 {
			t.Fatalf("unexpected length bound: %s", length)
		}
	})

	t.Run("Contains", func(t *testing.T) {
		s := b.StringLit(sym.Char8, "hello")
		if b.StrContains(s, b.StringLit(sym.Char8, "ell")) != b.True() {
			t.Fatal("expected literal contains to fold")
		}
		if b.StrContains(b.FreshString("s", sym.Char8), b.StringLit(sym.Char8, "")) != b.True() {
			t.Fatal("expected empty needle to fold true")
		}
	})

	t.Run("ContainsLengthRule", func(t *testing.T) {
		short := b.StringLit(sym.Char8, "ab")
		long := b.FreshString("s", sym.Char8)
		needle := b.StrConcat(long, b.StringLit(sym.Char8, "xyz"))
		// The needle is at least three long, the haystack exactly two.
		if b.StrContains(short, needle) != b.False() {
			t.Fatal("expected length rule to fold false")
		}
	})

	t.Run("IndexOf", func(t *testing.T) {
		s := b.StringLit(sym.Char8, "abcabc")
		if b.StrIndexOf(s, b.StringLit(sym.Char8, "bc"), b.IntLit(2)) != b.IntLit(4) {
			t.Fatal("expected literal index-of to fold")
		}
		if b.StrIndexOf(s, b.StringLit(sym.Char8, "zz"), b.IntLit(0)) != b.IntLit(-1) {
			t.Fatal("expected missing needle to fold to -1")
		}
	})

	t.Run("PrefixSuffix", func(t *testing.T) {
		s := b.StringLit(sym.Char8, "hello")
		if b.StrPrefixOf(b.StringLit(sym.Char8, "he"), s) != b.True() {
			t.Fatal("expected literal prefix to fold")
		}
		if b.StrSuffixOf(b.StringLit(sym.Char8, "lo"), s) != b.True() {
			t.Fatal("expected literal suffix to fold")
		}
		if b.StrPrefixOf(b.StringLit(sym.Char8, "lo"), s) != b.False() {
			t.Fatal("expected non-prefix to fold false")
		}
	})
}
