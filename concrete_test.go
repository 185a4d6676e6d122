package sym_test

import (
	"math/big"
	"testing"

	"github.com/symkit/sym"
)

// End-to-end scenarios: literal build sequences and their concrete
// projections.
func TestConcreteScenarios(t *testing.T) {
	t.Run("IteNotNotTrue", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		out := b.Ite(b.Not(b.Not(b.True())), b.IntLit(1), b.IntLit(2))
		v, ok := sym.AsConcrete(out)
		if !ok {
			t.Fatal("expected concrete result")
		} else if !sym.ConcreteEq(v, sym.ConcreteInt{Value: big.NewInt(1)}) {
			t.Fatalf("unexpected value: %s", v)
		}
	})

	t.Run("IteOrBV", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		cond := b.Or(b.False(), b.Not(b.False()))
		out := b.Ite(cond, b.BVLit(16, 12890), b.BVLit(16, 8293))
		v, ok := sym.AsConcrete(out)
		if !ok {
			t.Fatal("expected concrete result")
		} else if !sym.ConcreteEq(v, sym.ConcreteBV{Width: 16, Value: big.NewInt(12890)}) {
			t.Fatalf("unexpected value: %s", v)
		}
	})

	t.Run("IteXorStruct", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		cond := b.Xor(b.True(), b.False())
		out := b.Ite(cond, b.Struct(b.True()), b.Struct(b.False()))
		v, ok := sym.AsConcrete(out)
		if !ok {
			t.Fatal("expected concrete result")
		}
		s, ok := v.(sym.ConcreteStruct)
		if !ok || len(s.Fields) != 1 {
			t.Fatalf("unexpected value: %s", v)
		} else if !sym.ConcreteEq(s.Fields[0], sym.ConcreteBool(true)) {
			t.Fatalf("unexpected field: %s", s.Fields[0])
		}
	})

	t.Run("IteEqConstArray", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		srt := sym.NewArraySort(sym.BoolSort{}, sym.IntSort{})
		cond := b.Eq(b.And(b.True(), b.False()), b.False())
		out := b.Ite(cond, b.ConstArray(srt, b.True()), b.ConstArray(srt, b.False()))
		v, ok := sym.AsConcrete(out)
		if !ok {
			t.Fatal("expected concrete result")
		}
		arr, ok := v.(*sym.ConcreteArray)
		if !ok {
			t.Fatalf("unexpected value: %s", v)
		} else if !sym.ConcreteEq(arr.Default, sym.ConcreteBool(true)) {
			t.Fatalf("unexpected default: %s", arr.Default)
		}
	})

	t.Run("AddSubCancel", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		x := b.FreshInt("x")
		a := b.Add(x, b.IntLit(3))
		out := b.Sub(b.Sub(a, b.IntLit(3)), x)
		v, ok := sym.AsConcrete(out)
		if !ok {
			t.Fatal("expected concrete result")
		} else if !sym.ConcreteEq(v, sym.ConcreteInt{Value: big.NewInt(0)}) {
			t.Fatalf("unexpected value: %s", v)
		}
	})

	t.Run("BVSetXorCancel", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		zero := b.BVLit(16, 0)
		s := b.BVSet(zero, 3, b.True())
		out := b.BVXor(s, s)
		v, ok := sym.AsConcrete(out)
		if !ok {
			t.Fatal("expected concrete result")
		} else if !sym.ConcreteEq(v, sym.ConcreteBV{Width: 16, Value: big.NewInt(0)}) {
			t.Fatalf("unexpected value: %s", v)
		}
	})
}

func TestConcreteRoundTrip(t *testing.T) {
	b := sym.NewBuilder(nil)
	values := []sym.Concrete{
		sym.ConcreteBool(true),
		sym.ConcreteBool(false),
		sym.ConcreteInt{Value: big.NewInt(-42)},
		sym.ConcreteRat{Value: big.NewRat(3, 7)},
		sym.ConcreteBV{Width: 12, Value: big.NewInt(0xabc)},
		sym.ConcreteFloat{Prec: sym.Float64Sort, Value: 1.5},
		sym.ConcreteString{Info: sym.Unicode, Value: "héllo"},
		sym.ConcreteStruct{Fields: []sym.Concrete{
			sym.ConcreteBool(true),
			sym.ConcreteInt{Value: big.NewInt(9)},
		}},
	}
	for _, v := range values {
		got, ok := sym.AsConcrete(b.FromConcrete(v))
		if !ok {
			t.Fatalf("%s: expected concrete", v)
		} else if !sym.ConcreteEq(got, v) {
			t.Fatalf("round trip mismatch: %s != %s", got, v)
		}
	}

	t.Run("Array", func(t *testing.T) {
		srt := sym.NewArraySort(sym.IntSort{}, sym.IntSort{})
		v := &sym.ConcreteArray{
			Sort:    srt,
			Default: sym.ConcreteInt{Value: big.NewInt(0)},
			Updates: []sym.ConcreteArrayUpdate{{
				Index: []sym.Concrete{sym.ConcreteInt{Value: big.NewInt(2)}},
				Value: sym.ConcreteInt{Value: big.NewInt(7)},
			}},
		}
		got, ok := sym.AsConcrete(b.FromConcrete(v))
		if !ok {
			t.Fatal("expected concrete")
		} else if !sym.ConcreteEq(got, v) {
			t.Fatalf("round trip mismatch: %s != %s", got, v)
		}
	})
}

func TestProjections(t *testing.T) {
	b := sym.NewBuilder(nil)
	t.Run("AsConstantPred", func(t *testing.T) {
		if v, ok := sym.AsConstantPred(b.True()); !ok || !v {
			t.Fatalf("unexpected: %v, %v", v, ok)
		}
		if _, ok := sym.AsConstantPred(b.FreshBool("p")); ok {
			t.Fatal("expected not constant")
		}
	})
	t.Run("AsInteger", func(t *testing.T) {
		if v, ok := sym.AsInteger(b.IntLit(12)); !ok || v.Int64() != 12 {
			t.Fatalf("unexpected: %v, %v", v, ok)
		}
	})
	t.Run("AsRational", func(t *testing.T) {
		if v, ok := sym.AsRational(b.RatLit(1, 2)); !ok || v.RatString() != "1/2" {
			t.Fatalf("unexpected: %v, %v", v, ok)
		}
	})
	t.Run("AsBV", func(t *testing.T) {
		v, w, ok := sym.AsBV(b.BVLit(8, 200))
		if !ok || w != 8 || v.Int64() != 200 {
			t.Fatalf("unexpected: %v, %d, %v", v, w, ok)
		}
	})
	t.Run("AsStringLit", func(t *testing.T) {
		if v, ok := sym.AsStringLit(b.StringLit(sym.Char8, "abc")); !ok || v != "abc" {
			t.Fatalf("unexpected: %q, %v", v, ok)
		}
	})
}
