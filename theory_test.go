package sym_test

import (
	"testing"

	"github.com/symkit/sym"
)

func TestClassify(t *testing.T) {
	b := sym.NewBuilder(nil)
	x, y := b.FreshInt("x"), b.FreshInt("y")

	cases := []struct {
		name string
		term *sym.Term
		want sym.Theory
	}{
		{"BoolVar", b.FreshBool("p"), sym.TheoryBool},
		{"And", b.And(b.FreshBool("p"), b.FreshBool("q")), sym.TheoryBool},
		{"IntVar", x, sym.TheoryLinArith},
		{"LinearSum", b.Add(x, b.IntLit(1)), sym.TheoryLinArith},
		{"Monomial", b.Mul(x, y), sym.TheoryNonlinArith},
		{"SumWithMonomial", b.Add(b.Mul(x, y), b.IntLit(1)), sym.TheoryNonlinArith},
		{"DivByLiteral", b.IntDiv(x, b.IntLit(2)), sym.TheoryLinArith},
		{"DivBySymbolic", b.IntDiv(x, y), sym.TheoryNonlinArith},
		{"ModByLiteral", b.IntMod(x, b.IntLit(3)), sym.TheoryLinArith},
		{"Sqrt", b.RealSqrt(b.FreshReal("r")), sym.TheoryComputableArith},
		{"Sin", b.RealSin(b.FreshReal("r")), sym.TheoryComputableArith},
		{"BVSum", b.BVAdd(b.FreshBV("v", 8), b.BVLit(8, 1)), sym.TheoryBV},
		{"BVUlt", b.BVUlt(b.FreshBV("v", 8), b.FreshBV("u", 8)), sym.TheoryBV},
		{"EqOverBV", b.Eq(b.FreshBV("v", 8), b.FreshBV("u", 8)), sym.TheoryBV},
		{"Float", b.FPAdd(sym.RoundNearestEven, b.FreshFloat("f", sym.Float64Sort), b.FreshFloat("g", sym.Float64Sort)), sym.TheoryFloat},
		{"String", b.StrConcat(b.FreshString("s", sym.Char8), b.FreshString("t", sym.Char8)), sym.TheoryString},
		{"Array", b.FreshArray("a", sym.NewArraySort(sym.IntSort{}, sym.IntSort{})), sym.TheoryArray},
		{"StructField", b.StructField(b.FreshVar("s", sym.NewStructSort(sym.IntSort{})), 0), sym.TheoryStruct},
		{"Quantifier", func() *sym.Term {
			v := b.BoundVar("v", sym.IntSort{})
			return b.Forall(v, b.IntLe(v, x))
		}(), sym.TheoryQuant},
		{"Apply", b.Apply(b.UninterpFun("f", sym.IntSort{}, sym.IntSort{}), x), sym.TheoryFn},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := sym.Classify(tt.term); got != tt.want {
				t.Fatalf("unexpected theory: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFeatures(t *testing.T) {
	t.Run("UnionContains", func(t *testing.T) {
		f := sym.FeatBool.Union(sym.FeatBV)
		if !f.Contains(sym.FeatBool) || !f.Contains(sym.FeatBV) {
			t.Fatal("expected both features")
		}
		if f.Contains(sym.FeatString) {
			t.Fatal("unexpected feature")
		}
		if !f.Contains(sym.FeatBool | sym.FeatBV) {
			t.Fatal("expected combined containment")
		}
	})

	t.Run("Scan", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		v := b.FreshBV("v", 8)
		p := b.BVUlt(v, b.BVLit(8, 10))
		x := b.FreshInt("x")
		q := b.IntLe(x, b.IntLit(3))
		got := sym.ScanFeatures(b.And(p, q))
		if !got.Contains(sym.FeatBool | sym.FeatBV | sym.FeatLinArith) {
			t.Fatalf("missing features: %s", got)
		}
		if got.Contains(sym.FeatString) {
			t.Fatalf("unexpected feature: %s", got)
		}
	})

	t.Run("ScanFlagsFunctions", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		f := b.UninterpFun("f", sym.IntSort{}, sym.IntSort{})
		app := b.Apply(f, b.FreshInt("x"))
		got := sym.ScanFeatures(b.Eq(app, b.IntLit(0)))
		if !got.Contains(sym.FeatFn | sym.FeatUninterpFuns) {
			t.Fatalf("missing function features: %s", got)
		}

		v := b.BoundVar("v", sym.IntSort{})
		g := b.DefineFun("g", []*sym.Term{v}, b.Add(v, b.IntLit(1)), sym.UnfoldNever)
		got = sym.ScanFeatures(b.Apply(g, b.FreshInt("y")))
		if !got.Contains(sym.FeatDefinedFuns) {
			t.Fatalf("missing defined-fun flag: %s", got)
		}
	})
}
