package sym_test

import (
	"math/big"
	"testing"

	"github.com/symkit/sym"
)

func TestBVDomain(t *testing.T) {
	single := func(w uint, v int64) sym.BVDomain {
		return sym.BVSingleton(w, big.NewInt(v))
	}

	t.Run("Singleton", func(t *testing.T) {
		d := single(8, 0xa5)
		if v, ok := d.Singleton(); !ok || v.Int64() != 0xa5 {
			t.Fatalf("unexpected singleton: %v, %v", v, ok)
		}
		for i := uint(0); i < 8; i++ {
			want := sym.TristateOf(0xa5&(1<<i) != 0)
			if d.TestBit(i) != want {
				t.Fatalf("bit %d: expected %s", i, want)
			}
		}
	})

	t.Run("TruncateNegative", func(t *testing.T) {
		d := sym.BVSingleton(8, big.NewInt(-1))
		if v, _ := d.Singleton(); v.Int64() != 0xff {
			t.Fatalf("unexpected value: %s", v)
		}
	})

	t.Run("RangeKnownBits", func(t *testing.T) {
		// [0xf0, 0xff] pins the high nibble.
		d := sym.BVDomainRange(8, big.NewInt(0xf0), big.NewInt(0xff))
		for i := uint(4); i < 8; i++ {
			if d.TestBit(i) != sym.True {
				t.Fatalf("bit %d: expected known one", i)
			}
		}
		if d.TestBit(0) != sym.Unknown {
			t.Fatal("expected low bit unknown")
		}
	})

	t.Run("AddNoWrap", func(t *testing.T) {
		d := sym.BVDomainRange(8, big.NewInt(1), big.NewInt(10)).Add(single(8, 5))
		if v, ok := d.Singleton(); ok {
			t.Fatalf("unexpected singleton: %s", v)
		}
		if d.CheckUlt(single(8, 16)) != sym.True {
			t.Fatal("expected bounded sum")
		}
	})

	t.Run("AddWrapsToFull", func(t *testing.T) {
		d := sym.BVDomainRange(8, big.NewInt(0), big.NewInt(200)).Add(sym.BVDomainRange(8, big.NewInt(0), big.NewInt(200)))
		if d.IsSingleton() {
			t.Fatal("unexpected singleton")
		}
		if d.CheckUlt(single(8, 0xff)) == sym.True {
			t.Fatal("expected wrapped sum to lose bounds")
		}
	})

	t.Run("BitwiseMasks", func(t *testing.T) {
		a, c := single(8, 0xf0), single(8, 0x3c)
		if v, _ := a.And(c).Singleton(); v.Int64() != 0x30 {
			t.Fatalf("unexpected and: %s", v)
		}
		if v, _ := a.Or(c).Singleton(); v.Int64() != 0xfc {
			t.Fatalf("unexpected or: %s", v)
		}
		if v, _ := a.Xor(c).Singleton(); v.Int64() != 0xcc {
			t.Fatalf("unexpected xor: %s", v)
		}
		if v, _ := a.Not().Singleton(); v.Int64() != 0x0f {
			t.Fatalf("unexpected not: %s", v)
		}
	})

	t.Run("ConcatExtract", func(t *testing.T) {
		d := single(8, 0xab).Concat(single(8, 0xcd))
		if v, _ := d.Singleton(); v.Int64() != 0xabcd {
			t.Fatalf("unexpected concat: %s", v)
		}
		if v, _ := d.Extract(8, 8).Singleton(); v.Int64() != 0xab {
			t.Fatalf("unexpected extract: %s", v)
		}
	})

	t.Run("Join", func(t *testing.T) {
		d := single(8, 0x01).Join(single(8, 0x03)).(sym.BVDomain)
		if d.IsSingleton() {
			t.Fatal("unexpected singleton")
		}
		// Bit 0 is one in both; bit 1 differs.
		if d.TestBit(0) != sym.True {
			t.Fatal("expected shared bit to stay known")
		}
		if d.TestBit(1) != sym.Unknown {
			t.Fatal("expected differing bit to widen")
		}
	})

	t.Run("CheckEqDisjointBits", func(t *testing.T) {
		// Bit 0 known one vs known zero.
		a := sym.BVDomainRange(8, big.NewInt(1), big.NewInt(1))
		c := sym.BVDomainRange(8, big.NewInt(2), big.NewInt(2))
		if a.CheckEq(c) != sym.False {
			t.Fatal("expected disjoint domains")
		}
	})

	t.Run("SignedBounds", func(t *testing.T) {
		neg := sym.BVDomainRange(8, big.NewInt(0xf0), big.NewInt(0xff))
		pos := sym.BVDomainRange(8, big.NewInt(0), big.NewInt(5))
		if neg.CheckSlt(pos) != sym.True {
			t.Fatal("expected negative range below positive")
		}
		if pos.CheckUlt(neg) != sym.True {
			t.Fatal("expected positive range unsigned-below")
		}
	})

	t.Run("ZextSext", func(t *testing.T) {
		d := single(8, 0x80)
		if v, _ := d.ZExt(16).Singleton(); v.Int64() != 0x80 {
			t.Fatalf("unexpected zext: %s", v)
		}
		if v, _ := d.SExt(16).Singleton(); v.Int64() != 0xff80 {
			t.Fatalf("unexpected sext: %s", v)
		}
	})

	t.Run("Shl", func(t *testing.T) {
		if v, _ := single(8, 0x0f).Shl(4).Singleton(); v.Int64() != 0xf0 {
			t.Fatalf("unexpected shl: %s", v)
		}
		if v, _ := single(8, 0xf0).Lshr(4).Singleton(); v.Int64() != 0x0f {
			t.Fatalf("unexpected lshr: %s", v)
		}
	})
}
