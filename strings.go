package sym

import (
	"math/big"
	"strings"
)

// strLen returns the length of a literal in the code units of its
// repertoire: bytes for Char8, code points otherwise.
func strLen(info StringInfo, s string) int {
	if info == Char8 {
		return len(s)
	}
	return len([]rune(s))
}

// strConst returns the literal value of a string term, if any.
func strConst(t *Term) (string, bool) {
	if t.op == OpStringLit {
		return t.aux.(string), true
	}
	return "", false
}

func (b *Builder) strSort(t *Term, op string) StringSort {
	srt, ok := t.sort.(StringSort)
	assert(ok, "%s: operand sort mismatch: got %s, want a string", op, t.sort)
	return srt
}

// StringLit returns the string literal s.
func (b *Builder) StringLit(info StringInfo, s string) *Term {
	n := big.NewInt(int64(strLen(info, s)))
	abs := StringValue{Length: IntSingleton(n)}
	return b.newTerm(OpStringLit, StringSort{Info: info}, nil, s, abs)
}

// StrConcat returns the concatenation of two string terms. The length of
// the result is the sum of the operand lengths.
func (b *Builder) StrConcat(x, y *Term) *Term {
	srt := b.strSort(x, "str.concat")
	assert(SortEq(x.sort, y.sort), "str.concat sort mismatch: %s != %s", x.sort, y.sort)
	if xv, ok := strConst(x); ok {
		if yv, ok := strConst(y); ok {
			return b.StringLit(srt.Info, xv+yv)
		}
		if xv == "" {
			return y
		}
	}
	if yv, ok := strConst(y); ok && yv == "" {
		return x
	}
	length := x.abs.(StringValue).Length.Add(y.abs.(StringValue).Length)
	return b.newTerm(OpStrConcat, srt, []*Term{x, y}, nil, StringValue{Length: length})
}

// StrLength returns the length of a string term as an integer.
func (b *Builder) StrLength(x *Term) *Term {
	b.strSort(x, "str.len")
	length := x.abs.(StringValue).Length
	if v, ok := length.Singleton(); ok {
		return b.IntLitBig(v)
	}
	return b.newTerm(OpStrLength, IntSort{}, []*Term{x}, nil, length)
}

// StrContains returns the proposition that x contains y.
func (b *Builder) StrContains(x, y *Term) *Term {
	b.strSort(x, "str.contains")
	assert(SortEq(x.sort, y.sort), "str.contains sort mismatch: %s != %s", x.sort, y.sort)
	if yv, ok := strConst(y); ok {
		if yv == "" {
			return b.trueTerm
		}
		if xv, ok := strConst(x); ok {
			return b.Bool(strings.Contains(xv, yv))
		}
	}
	// A needle longer than the haystack can never occur.
	if x.abs.(StringValue).Length.CheckLeq(y.abs.(StringValue).Length) == True &&
		x.abs.(StringValue).Length.CheckEq(y.abs.(StringValue).Length) == False {
		return b.falseTerm
	}
	return b.newTerm(OpStrContains, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// StrIndexOf returns the first position of y in x at or after from, or
// -1 when absent.
func (b *Builder) StrIndexOf(x, y, from *Term) *Term {
	srt := b.strSort(x, "str.index-of")
	assert(SortEq(x.sort, y.sort), "str.index-of sort mismatch: %s != %s", x.sort, y.sort)
	b.requireSort(from, IntSort{}, "str.index-of")
	if xv, ok := strConst(x); ok {
		if yv, ok := strConst(y); ok {
			if fv, ok := b.asSum(IntRing{}, from).AsConstant(); ok {
				return b.IntLit(int64(strIndexOf(srt.Info, xv, yv, fv.(bigInt))))
			}
		}
	}
	abs := IntRange{lo: big.NewInt(-1), hi: x.abs.(StringValue).Length.hi}
	return b.newTerm(OpStrIndexOf, IntSort{}, []*Term{x, y, from}, nil, abs)
}

// strIndexOf folds index-of over code units; out-of-range offsets yield -1.
func strIndexOf(info StringInfo, s, sub string, from *big.Int) int {
	if !from.IsInt64() {
		return -1
	}
	off := from.Int64()
	n := int64(strLen(info, s))
	if off < 0 || off > n {
		return -1
	}
	if info == Char8 {
		if i := strings.Index(s[off:], sub); i >= 0 {
			return int(off) + i
		}
		return -1
	}
	rs, rsub := []rune(s), []rune(sub)
	for i := off; i+int64(len(rsub)) <= int64(len(rs)); i++ {
		if string(rs[i:i+int64(len(rsub))]) == string(rsub) {
			return int(i)
		}
	}
	return -1
}

// StrPrefixOf returns the proposition that x is a prefix of y.
func (b *Builder) StrPrefixOf(x, y *Term) *Term {
	b.strSort(x, "str.prefix-of")
	assert(SortEq(x.sort, y.sort), "str.prefix-of sort mismatch: %s != %s", x.sort, y.sort)
	if xv, ok := strConst(x); ok {
		if xv == "" {
			return b.trueTerm
		}
		if yv, ok := strConst(y); ok {
			return b.Bool(strings.HasPrefix(yv, xv))
		}
	}
	if y.abs.(StringValue).Length.CheckLeq(x.abs.(StringValue).Length) == True &&
		y.abs.(StringValue).Length.CheckEq(x.abs.(StringValue).Length) == False {
		return b.falseTerm
	}
	return b.newTerm(OpStrPrefixOf, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// StrSuffixOf returns the proposition that x is a suffix of y.
func (b *Builder) StrSuffixOf(x, y *Term) *Term {
	b.strSort(x, "str.suffix-of")
	assert(SortEq(x.sort, y.sort), "str.suffix-of sort mismatch: %s != %s", x.sort, y.sort)
	if xv, ok := strConst(x); ok {
		if xv == "" {
			return b.trueTerm
		}
		if yv, ok := strConst(y); ok {
			return b.Bool(strings.HasSuffix(yv, xv))
		}
	}
	if y.abs.(StringValue).Length.CheckLeq(x.abs.(StringValue).Length) == True &&
		y.abs.(StringValue).Length.CheckEq(x.abs.(StringValue).Length) == False {
		return b.falseTerm
	}
	return b.newTerm(OpStrSuffixOf, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// StrSubstring returns the substring of s starting at off with length at
// most n; out-of-range arguments yield the empty string. The result
// length lies in [0, min(n, len(s)-off)], clamped at zero.
func (b *Builder) StrSubstring(s, off, n *Term) *Term {
	srt := b.strSort(s, "str.substr")
	b.requireSort(off, IntSort{}, "str.substr")
	b.requireSort(n, IntSort{}, "str.substr")
	if sv, ok := strConst(s); ok {
		if ov, ok := b.asSum(IntRing{}, off).AsConstant(); ok {
			if nv, ok := b.asSum(IntRing{}, n).AsConstant(); ok {
				return b.StringLit(srt.Info, strSubstr(srt.Info, sv, ov.(bigInt), nv.(bigInt)))
			}
		}
	}
	// length(substr) lies in [0, n] intersected with [0, len(s) - off].
	length := IntRange{lo: new(big.Int), hi: n.abs.(IntRange).Hi()}
	if rem := s.abs.(StringValue).Length.Add(off.abs.(IntRange).Neg()); rem.Hi() != nil {
		if length.hi == nil || rem.Hi().Cmp(length.hi) < 0 {
			length.hi = rem.Hi()
		}
	}
	return b.newTerm(OpStrSubstring, srt, []*Term{s, off, n}, nil, StringValueLen(length))
}

// strSubstr folds substring extraction over code units.
func strSubstr(info StringInfo, s string, off, n *big.Int) string {
	if !off.IsInt64() || n.Sign() <= 0 {
		return ""
	}
	o := off.Int64()
	total := int64(strLen(info, s))
	if o < 0 || o >= total {
		return ""
	}
	count := total - o
	if n.IsInt64() && n.Int64() < count {
		count = n.Int64()
	}
	if info == Char8 {
		return s[o : o+count]
	}
	rs := []rune(s)
	return string(rs[o : o+count])
}
