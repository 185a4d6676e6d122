package sym_test

import (
	"testing"

	"github.com/symkit/sym"
)

func TestProduct(t *testing.T) {
	b := sym.NewBuilder(nil)
	ring := sym.IntRing{}
	x, y := b.FreshInt("x"), b.FreshInt("y")

	t.Run("CountsCompose", func(t *testing.T) {
		p := sym.ProdVar(ring, x).Mul(sym.ProdVar(ring, x)).Mul(sym.ProdVar(ring, y))
		if p.Len() != 2 {
			t.Fatalf("unexpected factor count: %d", p.Len())
		}
		counts := map[uint64]int{}
		p.Range(func(v *sym.Term, n int) { counts[v.ID()] = n })
		if counts[x.ID()] != 2 || counts[y.ID()] != 1 {
			t.Fatalf("unexpected counts: %v", counts)
		}
	})

	t.Run("IdentityProduct", func(t *testing.T) {
		if !sym.NewProduct(ring).IsEmpty() {
			t.Fatal("expected empty product")
		}
		if sym.ProdVar(ring, x).IsEmpty() {
			t.Fatal("expected non-empty product")
		}
	})

	t.Run("AsVar", func(t *testing.T) {
		if v, ok := sym.ProdVar(ring, x).AsVar(); !ok || v != x {
			t.Fatal("expected as-var")
		}
		if _, ok := sym.ProdVar(ring, x).Mul(sym.ProdVar(ring, x)).AsVar(); ok {
			t.Fatal("expected squared factor to block as-var")
		}
	})

	t.Run("XorCountsCollapseToOne", func(t *testing.T) {
		xr := sym.NewBVXorRing(8)
		v := b.FreshBV("v", 8)
		p := sym.ProdVar(xr, v).Mul(sym.ProdVar(xr, v))
		if n, ok := p.AsVar(); !ok || n != v {
			t.Fatal("expected idempotent factor to collapse")
		}
	})

	t.Run("OrderIndependentHash", func(t *testing.T) {
		a := sym.ProdVar(ring, x).Mul(sym.ProdVar(ring, y))
		c := sym.ProdVar(ring, y).Mul(sym.ProdVar(ring, x))
		if a.Hash() != c.Hash() || !a.Equal(c) {
			t.Fatal("expected order-independent identity")
		}
	})

	t.Run("Eval", func(t *testing.T) {
		p := sym.ProdVar(ring, x).Mul(sym.ProdVar(ring, x))
		got := p.Eval(
			func(a, c interface{}) interface{} { return a.(int) * c.(int) },
			func(v *sym.Term, n int) interface{} {
				out := 1
				for i := 0; i < n; i++ {
					out *= 3
				}
				return out
			},
		)
		if got.(int) != 9 {
			t.Fatalf("unexpected eval: %v", got)
		}
	})
}
