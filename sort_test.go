package sym_test

import (
	"testing"

	"github.com/symkit/sym"
)

func TestSortEq(t *testing.T) {
	t.Run("Base", func(t *testing.T) {
		if !sym.SortEq(sym.BoolSort{}, sym.BoolSort{}) {
			t.Fatal("expected equal")
		} else if sym.SortEq(sym.BoolSort{}, sym.IntSort{}) {
			t.Fatal("expected unequal")
		}
	})

	t.Run("BV", func(t *testing.T) {
		if !sym.SortEq(sym.BV(8), sym.BV(8)) {
			t.Fatal("expected equal")
		} else if sym.SortEq(sym.BV(8), sym.BV(16)) {
			t.Fatal("expected unequal widths")
		}
	})

	t.Run("Float", func(t *testing.T) {
		if !sym.SortEq(sym.Float32Sort, sym.NewFloatSort(8, 24)) {
			t.Fatal("expected equal")
		} else if sym.SortEq(sym.Float32Sort, sym.Float64Sort) {
			t.Fatal("expected unequal precisions")
		}
	})

	t.Run("String", func(t *testing.T) {
		if sym.SortEq(sym.StringSort{Info: sym.Char8}, sym.StringSort{Info: sym.Unicode}) {
			t.Fatal("expected unequal repertoires")
		}
	})

	t.Run("Struct", func(t *testing.T) {
		a := sym.NewStructSort(sym.BoolSort{}, sym.BV(8))
		c := sym.NewStructSort(sym.BoolSort{}, sym.BV(8))
		if !sym.SortEq(a, c) {
			t.Fatal("expected structural equality")
		}
		d := sym.NewStructSort(sym.BoolSort{})
		if sym.SortEq(a, d) {
			t.Fatal("expected unequal arity")
		}
	})

	t.Run("Array", func(t *testing.T) {
		a := sym.NewArraySort(sym.BV(8), sym.IntSort{})
		c := sym.NewArraySort(sym.BV(8), sym.IntSort{})
		if !sym.SortEq(a, c) {
			t.Fatal("expected structural equality")
		}
		d := sym.NewArraySort(sym.BV(8), sym.IntSort{}, sym.IntSort{})
		if sym.SortEq(a, d) {
			t.Fatal("expected unequal index arity")
		}
	})
}

func TestSortString(t *testing.T) {
	if s := sym.BV(16).String(); s != "BV(16)" {
		t.Fatalf("unexpected string: %s", s)
	}
	if s := sym.NewArraySort(sym.BoolSort{}, sym.IntSort{}).String(); s != "Array(Int -> Bool)" {
		t.Fatalf("unexpected string: %s", s)
	}
	if s := sym.NewStructSort(sym.BoolSort{}, sym.RealSort{}).String(); s != "Struct(Bool, Real)" {
		t.Fatalf("unexpected string: %s", s)
	}
}
