package sym_test

import (
	"math/big"
	"testing"

	"github.com/symkit/sym"
)

func TestBV_Xor(t *testing.T) {
	b := sym.NewBuilder(nil)
	v := b.FreshBV("v", 16)

	t.Run("SelfCancel", func(t *testing.T) {
		if b.BVXor(v, v) != b.BVLit(16, 0) {
			t.Fatal("expected x ^ x to fold to zero")
		}
	})

	t.Run("ZeroIdentity", func(t *testing.T) {
		if b.BVXor(v, b.BVLit(16, 0)) != v {
			t.Fatal("expected x ^ 0 to stay x")
		}
	})

	t.Run("ConstantFold", func(t *testing.T) {
		if b.BVXor(b.BVLit(16, 0xff00), b.BVLit(16, 0x0ff0)) != b.BVLit(16, 0xf0f0) {
			t.Fatal("expected constants to fold")
		}
	})

	t.Run("Associative", func(t *testing.T) {
		u := b.FreshBV("u", 16)
		if b.BVXor(b.BVXor(v, u), v) != u {
			t.Fatal("expected nested xor to cancel")
		}
	})
}

func TestBV_NotAndOr(t *testing.T) {
	b := sym.NewBuilder(nil)
	v := b.FreshBV("v", 8)

	t.Run("DoubleNot", func(t *testing.T) {
		if b.BVNot(b.BVNot(v)) != v {
			t.Fatal("expected double complement to cancel")
		}
	})

	t.Run("AndZero", func(t *testing.T) {
		if b.BVAnd(v, b.BVLit(8, 0)) != b.BVLit(8, 0) {
			t.Fatal("expected x & 0 to fold to zero")
		}
	})

	t.Run("AndAllOnes", func(t *testing.T) {
		if b.BVAnd(v, b.BVLit(8, 0xff)) != v {
			t.Fatal("expected x & ones to stay x")
		}
	})

	t.Run("AndSelf", func(t *testing.T) {
		if b.BVAnd(v, v) != v {
			t.Fatal("expected x & x to stay x")
		}
	})

	t.Run("OrZero", func(t *testing.T) {
		if b.BVOr(v, b.BVLit(8, 0)) != v {
			t.Fatal("expected x | 0 to stay x")
		}
	})

	t.Run("OrAllOnes", func(t *testing.T) {
		if b.BVOr(v, b.BVLit(8, 0xff)) != b.BVLit(8, 0xff) {
			t.Fatal("expected x | ones to fold to ones")
		}
	})
}

func TestBV_Arith(t *testing.T) {
	b := sym.NewBuilder(nil)
	v := b.FreshBV("v", 8)

	t.Run("SubSelf", func(t *testing.T) {
		if b.BVSub(v, v) != b.BVLit(8, 0) {
			t.Fatal("expected x - x to fold to zero")
		}
	})

	t.Run("WrapAround", func(t *testing.T) {
		if b.BVAdd(b.BVLit(8, 0xff), b.BVLit(8, 2)) != b.BVLit(8, 1) {
			t.Fatal("expected modular addition")
		}
	})

	t.Run("NegFold", func(t *testing.T) {
		if b.BVNeg(b.BVLit(8, 1)) != b.BVLit(8, 0xff) {
			t.Fatal("expected two's complement negation")
		}
	})
}

func TestBV_ConcatExtract(t *testing.T) {
	b := sym.NewBuilder(nil)
	v := b.FreshBV("v", 16)

	t.Run("ConstantFold", func(t *testing.T) {
		if b.BVConcat(b.BVLit(8, 0xab), b.BVLit(8, 0xcd)) != b.BVLit(16, 0xabcd) {
			t.Fatal("expected constant concat to fold")
		}
		if b.BVExtract(b.BVLit(16, 0xabcd), 8, 8) != b.BVLit(8, 0xab) {
			t.Fatal("expected constant extract to fold")
		}
	})

	t.Run("FullWidth", func(t *testing.T) {
		if b.BVExtract(v, 0, 16) != v {
			t.Fatal("expected full-width extract to vanish")
		}
	})

	t.Run("ExtractConcatRoutesMSB", func(t *testing.T) {
		u := b.FreshBV("u", 8)
		w := b.FreshBV("w", 8)
		c := b.BVConcat(u, w)
		if b.BVExtract(c, 8, 8) != u {
			t.Fatal("expected extract to route to the msb piece")
		} else if b.BVExtract(c, 0, 8) != w {
			t.Fatal("expected extract to route to the lsb piece")
		}
	})

	t.Run("ContiguousExtractsFuse", func(t *testing.T) {
		if b.BVConcat(b.BVExtract(v, 8, 8), b.BVExtract(v, 0, 8)) != v {
			t.Fatal("expected contiguous extracts to fuse back")
		}
	})

	t.Run("NestedExtract", func(t *testing.T) {
		if b.BVExtract(b.BVExtract(v, 4, 8), 2, 4) != b.BVExtract(v, 6, 4) {
			t.Fatal("expected nested extracts to collapse")
		}
	})
}

func TestBV_Shifts(t *testing.T) {
	b := sym.NewBuilder(nil)
	v := b.FreshBV("v", 8)

	t.Run("ShlConstant", func(t *testing.T) {
		out := b.BVShl(v, b.BVLit(8, 3))
		if out != b.BVConcat(b.BVExtract(v, 0, 5), b.BVLit(3, 0)) {
			t.Fatal("expected shift to rewrite to concat")
		}
	})

	t.Run("ShlOverflow", func(t *testing.T) {
		if b.BVShl(v, b.BVLit(8, 9)) != b.BVLit(8, 0) {
			t.Fatal("expected over-shift to fold to zero")
		}
	})

	t.Run("LshrConstant", func(t *testing.T) {
		out := b.BVLshr(v, b.BVLit(8, 3))
		if out != b.BVConcat(b.BVLit(3, 0), b.BVExtract(v, 3, 5)) {
			t.Fatal("expected shift to rewrite to concat")
		}
	})

	t.Run("ShiftZero", func(t *testing.T) {
		if b.BVShl(v, b.BVLit(8, 0)) != v {
			t.Fatal("expected zero shift to vanish")
		}
	})

	t.Run("RotateFold", func(t *testing.T) {
		if b.BVRol(b.BVLit(8, 0x81), 1) != b.BVLit(8, 0x03) {
			t.Fatal("expected rotate of a constant to fold")
		}
		if b.BVRor(b.BVRol(v, 3), 3) != v {
			t.Fatal("expected opposite rotations to cancel")
		}
	})
}

func TestBV_DivRem(t *testing.T) {
	b := sym.NewBuilder(nil)
	v := b.FreshBV("v", 8)

	t.Run("Fold", func(t *testing.T) {
		if b.BVUdiv(b.BVLit(8, 200), b.BVLit(8, 3)) != b.BVLit(8, 66) {
			t.Fatal("expected unsigned quotient to fold")
		}
		if b.BVUrem(b.BVLit(8, 200), b.BVLit(8, 3)) != b.BVLit(8, 2) {
			t.Fatal("expected unsigned remainder to fold")
		}
	})

	t.Run("DivByZeroDoesNotAbort", func(t *testing.T) {
		out := b.BVUdiv(v, b.BVLit(8, 0))
		if !sym.SortEq(out.Sort(), sym.BV(8)) {
			t.Fatalf("unexpected sort: %s", out.Sort())
		}
		rem := b.BVUrem(v, b.BVLit(8, 0))
		if !sym.SortEq(rem.Sort(), sym.BV(8)) {
			t.Fatalf("unexpected sort: %s", rem.Sort())
		}
		// The builder remains usable.
		if b.BVAdd(out, b.BVLit(8, 0)) != out {
			t.Fatal("expected identity addition to return the term")
		}
	})

	t.Run("SignedFold", func(t *testing.T) {
		// -7 sdiv 2 truncates toward zero.
		if b.BVSdiv(b.BVLit(8, 0xf9), b.BVLit(8, 2)) != b.BVLit(8, 0xfd) {
			t.Fatal("expected signed quotient to fold")
		}
	})
}

func TestBV_Compare(t *testing.T) {
	b := sym.NewBuilder(nil)

	t.Run("DomainDecides", func(t *testing.T) {
		lo, err := b.FreshBVInRange("lo", 8, big.NewInt(0), big.NewInt(5))
		if err != nil {
			t.Fatal(err)
		}
		hi, err := b.FreshBVInRange("hi", 8, big.NewInt(6), big.NewInt(9))
		if err != nil {
			t.Fatal(err)
		}
		if b.BVUlt(lo, hi) != b.True() {
			t.Fatal("expected disjoint domains to decide ult")
		} else if b.BVUle(hi, lo) != b.False() {
			t.Fatal("expected reversed comparison to decide")
		}
	})

	t.Run("SignedDecides", func(t *testing.T) {
		// 0xf0..0xff are negative under the signed view.
		neg, err := b.FreshBVInRange("neg", 8, big.NewInt(0xf0), big.NewInt(0xff))
		if err != nil {
			t.Fatal(err)
		}
		pos, err := b.FreshBVInRange("pos", 8, big.NewInt(1), big.NewInt(5))
		if err != nil {
			t.Fatal(err)
		}
		if b.BVSlt(neg, pos) != b.True() {
			t.Fatal("expected signed comparison to decide")
		}
	})

	t.Run("Irreflexive", func(t *testing.T) {
		v := b.FreshBV("v", 8)
		if b.BVUlt(v, v) != b.False() {
			t.Fatal("expected x < x to fold false")
		}
	})
}

func TestBV_Bits(t *testing.T) {
	b := sym.NewBuilder(nil)

	t.Run("TestBit", func(t *testing.T) {
		if b.BVTestBit(b.BVLit(8, 0x08), 3) != b.True() {
			t.Fatal("expected set bit")
		} else if b.BVTestBit(b.BVLit(8, 0x08), 2) != b.False() {
			t.Fatal("expected clear bit")
		}
	})

	t.Run("SetKnownBit", func(t *testing.T) {
		zero := b.BVLit(16, 0)
		if b.BVSet(zero, 3, b.True()) != b.BVLit(16, 8) {
			t.Fatal("expected concrete set to fold")
		}
	})

	t.Run("SetTwiceCollapses", func(t *testing.T) {
		v := b.FreshBV("v", 16)
		p := b.FreshBool("p")
		once := b.BVSet(v, 3, p)
		twice := b.BVSet(once, 3, p)
		if once != twice {
			t.Fatal("expected repeated set of the same bit to collapse")
		}
	})

	t.Run("Popcount", func(t *testing.T) {
		if b.BVPopcount(b.BVLit(8, 0xa5)) != b.BVLit(8, 4) {
			t.Fatal("expected popcount to fold")
		}
	})

	t.Run("ClzCtz", func(t *testing.T) {
		if b.BVClz(b.BVLit(8, 0x10)) != b.BVLit(8, 3) {
			t.Fatal("expected clz to fold")
		}
		if b.BVCtz(b.BVLit(8, 0x10)) != b.BVLit(8, 4) {
			t.Fatal("expected ctz to fold")
		}
	})

	t.Run("Fill", func(t *testing.T) {
		if b.BVFill(8, b.True()) != b.BVLit(8, 0xff) {
			t.Fatal("expected fill of true to fold")
		} else if b.BVFill(8, b.False()) != b.BVLit(8, 0) {
			t.Fatal("expected fill of false to fold")
		}
	})
}

func TestBV_ZextSext(t *testing.T) {
	b := sym.NewBuilder(nil)

	t.Run("Fold", func(t *testing.T) {
		if b.BVZext(b.BVLit(8, 0xff), 16) != b.BVLit(16, 0xff) {
			t.Fatal("expected zext to fold")
		}
		if b.BVSext(b.BVLit(8, 0xff), 16) != b.BVLit(16, 0xffff) {
			t.Fatal("expected sext to fold")
		}
	})

	t.Run("Nop", func(t *testing.T) {
		v := b.FreshBV("v", 8)
		if b.BVZext(v, 8) != v {
			t.Fatal("expected same-width extension to vanish")
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		v := b.FreshBV("v", 16)
		if b.BVZext(v, 8) != b.BVExtract(v, 0, 8) {
			t.Fatal("expected narrowing extension to extract")
		}
	})
}

func TestBV_Conversions(t *testing.T) {
	b := sym.NewBuilder(nil)

	t.Run("BVToInt", func(t *testing.T) {
		if b.BVToInt(b.BVLit(8, 200)) != b.IntLit(200) {
			t.Fatal("expected conversion to fold")
		}
	})

	t.Run("IntToBV", func(t *testing.T) {
		if b.IntToBV(b.IntLit(300), 8) != b.BVLit(8, 44) {
			t.Fatal("expected modular conversion to fold")
		}
	})
}
