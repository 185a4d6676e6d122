package sym_test

import (
	"testing"

	"github.com/symkit/sym"
)

func TestArray(t *testing.T) {
	b := sym.NewBuilder(nil)
	srt := sym.NewArraySort(sym.IntSort{}, sym.IntSort{})

	t.Run("ConstArraySelect", func(t *testing.T) {
		a := b.ConstArray(srt, b.IntLit(7))
		if b.ArraySelect(a, b.FreshInt("i")) != b.IntLit(7) {
			t.Fatal("expected constant array to answer any index")
		}
	})

	t.Run("SelectOwnUpdate", func(t *testing.T) {
		a := b.FreshArray("a", srt)
		i := b.FreshInt("i")
		upd := b.ArrayUpdate(a, b.IntLit(9), i)
		if b.ArraySelect(upd, i) != b.IntLit(9) {
			t.Fatal("expected select at the updated index to see the value")
		}
	})

	t.Run("SelectDisjointUpdate", func(t *testing.T) {
		a := b.ConstArray(srt, b.IntLit(0))
		upd := b.ArrayUpdate(a, b.IntLit(9), b.IntLit(1))
		if b.ArraySelect(upd, b.IntLit(2)) != b.IntLit(0) {
			t.Fatal("expected select to skip a certainly different index")
		}
	})

	t.Run("SelectUnknownWraps", func(t *testing.T) {
		a := b.FreshArray("a", srt)
		upd := b.ArrayUpdate(a, b.IntLit(9), b.FreshInt("i"))
		out := b.ArraySelect(upd, b.FreshInt("j"))
		if out.Op() != sym.OpArraySelect {
			t.Fatalf("unexpected op: %s", out.Op())
		}
	})

	t.Run("NoOpUpdate", func(t *testing.T) {
		a := b.ConstArray(srt, b.IntLit(5))
		if b.ArrayUpdate(a, b.IntLit(5), b.FreshInt("i")) != a {
			t.Fatal("expected storing the default to be a no-op")
		}
	})

	t.Run("LastUpdateWins", func(t *testing.T) {
		a := b.FreshArray("a", srt)
		i := b.FreshInt("i")
		twice := b.ArrayUpdate(b.ArrayUpdate(a, b.IntLit(1), i), b.IntLit(2), i)
		direct := b.ArrayUpdate(a, b.IntLit(2), i)
		if twice != direct {
			t.Fatal("expected stacked updates at one index to collapse")
		}
	})

	t.Run("ElementDomainJoins", func(t *testing.T) {
		a := b.ConstArray(srt, b.IntLit(1))
		upd := b.ArrayUpdate(a, b.IntLit(5), b.FreshInt("i"))
		elem := upd.AbstractValue().(sym.ArrayValue).Elem.(sym.IntRange)
		if elem.Lo().Int64() != 1 || elem.Hi().Int64() != 5 {
			t.Fatalf("unexpected element domain: %s", elem)
		}
	})

	t.Run("RangeEqSame", func(t *testing.T) {
		a := b.FreshArray("a", srt)
		off := b.FreshInt("off")
		n := b.FreshInt("n")
		if b.ArrayRangeEq(a, off, a, off, n) != b.True() {
			t.Fatal("expected identical ranges to fold")
		}
	})

	t.Run("CopySetWrap", func(t *testing.T) {
		a := b.FreshArray("a", srt)
		c := b.FreshArray("c", srt)
		out := b.ArrayCopy(a, b.IntLit(0), c, b.IntLit(0), b.IntLit(4))
		if out.Op() != sym.OpArrayCopy {
			t.Fatalf("unexpected op: %s", out.Op())
		}
		out = b.ArraySet(a, b.IntLit(0), b.IntLit(1), b.IntLit(4))
		if out.Op() != sym.OpArraySet {
			t.Fatalf("unexpected op: %s", out.Op())
		}
	})

	t.Run("MultiIndex", func(t *testing.T) {
		srt2 := sym.NewArraySort(sym.BoolSort{}, sym.IntSort{}, sym.IntSort{})
		a := b.FreshArray("grid", srt2)
		upd := b.ArrayUpdate(a, b.True(), b.IntLit(1), b.IntLit(2))
		if b.ArraySelect(upd, b.IntLit(1), b.IntLit(2)) != b.True() {
			t.Fatal("expected multi-index select to see the update")
		}
		if b.ArraySelect(upd, b.IntLit(1), b.IntLit(3)).Op() != sym.OpArraySelect {
			t.Fatal("expected disjoint second index to skip to the base")
		}
	})

	t.Run("ArrayEqPrimitive", func(t *testing.T) {
		a := b.FreshArray("a", srt)
		c := b.FreshArray("c", srt)
		eq := b.Eq(a, c)
		if eq.Op() != sym.OpEq {
			t.Fatalf("unexpected op: %s", eq.Op())
		}
		if b.Eq(a, a) != b.True() {
			t.Fatal("expected reflexive array equality to fold")
		}
	})
}
