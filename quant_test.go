package sym_test

import (
	"testing"

	"github.com/symkit/sym"
)

func TestQuantifiers(t *testing.T) {
	b := sym.NewBuilder(nil)

	t.Run("UnmentionedBinderFolds", func(t *testing.T) {
		v := b.BoundVar("v", sym.IntSort{})
		body := b.IntLe(b.FreshInt("x"), b.IntLit(10))
		if b.Forall(v, body) != body {
			t.Fatal("expected quantifier over an absent binder to fold")
		} else if b.Exists(v, body) != body {
			t.Fatal("expected existential over an absent binder to fold")
		}
	})

	t.Run("Wraps", func(t *testing.T) {
		v := b.BoundVar("v", sym.IntSort{})
		body := b.IntLe(v, b.FreshInt("x"))
		q := b.Forall(v, body)
		if q.Op() != sym.OpForall {
			t.Fatalf("unexpected op: %s", q.Op())
		}
		if !sym.SortEq(q.Sort(), sym.BoolSort{}) {
			t.Fatalf("unexpected sort: %s", q.Sort())
		}
	})

	t.Run("BinderInsideSum", func(t *testing.T) {
		// The mention check must descend through sum payloads.
		v := b.BoundVar("v", sym.IntSort{})
		body := b.IntLe(b.Add(v, b.IntLit(1)), b.IntLit(10))
		if b.Forall(v, body).Op() != sym.OpForall {
			t.Fatal("expected binder inside a sum to be found")
		}
	})
}

func TestFunctions(t *testing.T) {
	t.Run("UnfoldAlways", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		v := b.BoundVar("v", sym.IntSort{})
		square := b.DefineFun("square", []*sym.Term{v}, b.Mul(v, v), sym.UnfoldAlways)
		out := b.Apply(square, b.IntLit(3))
		if got, ok := sym.AsInteger(out); !ok || got.Int64() != 9 {
			t.Fatalf("expected unfolded application, got %s", out)
		}
	})

	t.Run("UnfoldAlwaysSymbolic", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		v := b.BoundVar("v", sym.IntSort{})
		incr := b.DefineFun("incr", []*sym.Term{v}, b.Add(v, b.IntLit(1)), sym.UnfoldAlways)
		x := b.FreshInt("x")
		if b.Apply(incr, x) != b.Add(x, b.IntLit(1)) {
			t.Fatal("expected symbolic unfold")
		}
	})

	t.Run("UnfoldConcrete", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		v := b.BoundVar("v", sym.IntSort{})
		square := b.DefineFun("square", []*sym.Term{v}, b.Mul(v, v), sym.UnfoldConcrete)
		if got, ok := sym.AsInteger(b.Apply(square, b.IntLit(4))); !ok || got.Int64() != 16 {
			t.Fatal("expected ground application to unfold")
		}
		if b.Apply(square, b.FreshInt("x")).Op() != sym.OpApply {
			t.Fatal("expected symbolic application to wrap")
		}
	})

	t.Run("UnfoldNever", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		v := b.BoundVar("v", sym.IntSort{})
		square := b.DefineFun("square", []*sym.Term{v}, b.Mul(v, v), sym.UnfoldNever)
		if b.Apply(square, b.IntLit(4)).Op() != sym.OpApply {
			t.Fatal("expected application to wrap")
		}
	})

	t.Run("Uninterpreted", func(t *testing.T) {
		b := sym.NewBuilder(nil)
		f := b.UninterpFun("f", sym.IntSort{}, sym.IntSort{})
		x := b.FreshInt("x")
		a1 := b.Apply(f, x)
		a2 := b.Apply(f, x)
		if a1 != a2 {
			t.Fatal("expected applications to intern")
		}
		if !sym.SortEq(a1.Sort(), sym.IntSort{}) {
			t.Fatalf("unexpected sort: %s", a1.Sort())
		}
	})
}

func TestSubstitute(t *testing.T) {
	b := sym.NewBuilder(nil)
	x, y := b.FreshInt("x"), b.FreshInt("y")

	t.Run("Renormalizes", func(t *testing.T) {
		le := b.IntLe(b.Add(x, y), b.IntLit(10))
		got := b.Substitute(le, map[*sym.Term]*sym.Term{x: b.IntLit(4)})
		want := b.IntLe(b.Add(y, b.IntLit(4)), b.IntLit(10))
		if got != want {
			t.Fatal("expected substitution to rebuild through constructors")
		}
	})

	t.Run("FoldsToConstant", func(t *testing.T) {
		le := b.IntLe(b.Add(x, y), b.IntLit(10))
		got := b.Substitute(le, map[*sym.Term]*sym.Term{x: b.IntLit(4), y: b.IntLit(6)})
		if got != b.True() {
			t.Fatalf("expected full substitution to fold, got %s", got)
		}
	})

	t.Run("ProductRebuild", func(t *testing.T) {
		p := b.Mul(x, y)
		got := b.Substitute(p, map[*sym.Term]*sym.Term{x: b.IntLit(3), y: b.IntLit(5)})
		if got != b.IntLit(15) {
			t.Fatalf("expected product to fold, got %s", got)
		}
	})

	t.Run("Unmapped", func(t *testing.T) {
		sum := b.Add(x, b.IntLit(2))
		if b.Substitute(sum, map[*sym.Term]*sym.Term{y: b.IntLit(1)}) != sum {
			t.Fatal("expected unmapped term to rebuild to itself")
		}
	})
}
