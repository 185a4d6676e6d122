package sym

import (
	"bytes"
	"fmt"
)

// Sort describes the type of a term. The family is closed: booleans,
// mathematical integers, rationals, fixed-width bitvectors, IEEE-754
// floats, strings, structs, and arrays from one or more index sorts to an
// element sort. Two sorts are equal only when structurally identical.
type Sort interface {
	fmt.Stringer
	sort()
}

func (BoolSort) sort()    {}
func (IntSort) sort()     {}
func (RealSort) sort()    {}
func (BVSort) sort()      {}
func (FloatSort) sort()   {}
func (StringSort) sort()  {}
func (*StructSort) sort() {}
func (*ArraySort) sort()  {}

// BoolSort is the sort of propositions.
type BoolSort struct{}

func (BoolSort) String() string { return "Bool" }

// IntSort is the sort of unbounded mathematical integers.
type IntSort struct{}

func (IntSort) String() string { return "Int" }

// RealSort is the sort of rationals.
type RealSort struct{}

func (RealSort) String() string { return "Real" }

// BVSort is the sort of fixed-width bitvectors.
type BVSort struct {
	Width uint
}

// BV returns the bitvector sort of the given width.
func BV(width uint) BVSort {
	assert(width >= 1, "bitvector width must be positive: %d", width)
	return BVSort{Width: width}
}

func (s BVSort) String() string { return fmt.Sprintf("BV(%d)", s.Width) }

// FloatSort is the sort of IEEE-754 floats with the given exponent and
// significand widths.
type FloatSort struct {
	EB uint // exponent bits
	SB uint // significand bits, including the hidden bit
}

// Float32Sort and Float64Sort are the two hardware precisions.
var (
	Float32Sort = FloatSort{EB: 8, SB: 24}
	Float64Sort = FloatSort{EB: 11, SB: 53}
)

// NewFloatSort returns the float sort with the given widths.
func NewFloatSort(eb, sb uint) FloatSort {
	assert(eb >= 2 && sb >= 2, "float widths must be at least 2: eb=%d sb=%d", eb, sb)
	return FloatSort{EB: eb, SB: sb}
}

func (s FloatSort) String() string { return fmt.Sprintf("Float(%d,%d)", s.EB, s.SB) }

// StringInfo selects the character repertoire of a string sort.
type StringInfo int

// String encodings.
const (
	Char8 = StringInfo(iota)
	Char16
	Unicode
)

func (si StringInfo) String() string {
	switch si {
	case Char8:
		return "Char8"
	case Char16:
		return "Char16"
	case Unicode:
		return "Unicode"
	default:
		return fmt.Sprintf("StringInfo<%d>", int(si))
	}
}

// StringSort is the sort of strings over a character repertoire.
type StringSort struct {
	Info StringInfo
}

func (s StringSort) String() string { return fmt.Sprintf("String(%s)", s.Info) }

// StructSort is the sort of tuples with the given field sorts.
type StructSort struct {
	Fields []Sort
}

// NewStructSort returns the struct sort over the given field sorts.
func NewStructSort(fields ...Sort) *StructSort {
	return &StructSort{Fields: fields}
}

func (s *StructSort) String() string {
	var buf bytes.Buffer
	buf.WriteString("Struct(")
	for i, f := range s.Fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.String())
	}
	buf.WriteString(")")
	return buf.String()
}

// ArraySort is the sort of arrays from one or more index sorts to an
// element sort.
type ArraySort struct {
	Index []Sort
	Elem  Sort
}

// NewArraySort returns the array sort with the given index and element
// sorts. At least one index sort is required.
func NewArraySort(elem Sort, index ...Sort) *ArraySort {
	assert(len(index) >= 1, "array sort requires at least one index sort")
	return &ArraySort{Index: index, Elem: elem}
}

func (s *ArraySort) String() string {
	var buf bytes.Buffer
	buf.WriteString("Array(")
	for i, ix := range s.Index {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(ix.String())
	}
	buf.WriteString(" -> ")
	buf.WriteString(s.Elem.String())
	buf.WriteString(")")
	return buf.String()
}

// SortEq reports whether two sorts are structurally identical.
func SortEq(a, b Sort) bool {
	switch a := a.(type) {
	case BoolSort:
		_, ok := b.(BoolSort)
		return ok
	case IntSort:
		_, ok := b.(IntSort)
		return ok
	case RealSort:
		_, ok := b.(RealSort)
		return ok
	case BVSort:
		b, ok := b.(BVSort)
		return ok && a.Width == b.Width
	case FloatSort:
		b, ok := b.(FloatSort)
		return ok && a.EB == b.EB && a.SB == b.SB
	case StringSort:
		b, ok := b.(StringSort)
		return ok && a.Info == b.Info
	case *StructSort:
		b, ok := b.(*StructSort)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !SortEq(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case *ArraySort:
		b, ok := b.(*ArraySort)
		if !ok || len(a.Index) != len(b.Index) || !SortEq(a.Elem, b.Elem) {
			return false
		}
		for i := range a.Index {
			if !SortEq(a.Index[i], b.Index[i]) {
				return false
			}
		}
		return true
	default:
		panic("unreachable")
	}
}

// sortKind returns a numeric value for the kind of sort.
// Only used internally for hashing and ordering.
func sortKind(s Sort) int {
	switch s.(type) {
	case BoolSort:
		return 1
	case IntSort:
		return 2
	case RealSort:
		return 3
	case BVSort:
		return 4
	case FloatSort:
		return 5
	case StringSort:
		return 6
	case *StructSort:
		return 7
	case *ArraySort:
		return 8
	default:
		panic("unreachable")
	}
}

// hashSort mixes a sort into a structural hash.
func hashSort(h uint64, s Sort) uint64 {
	h = hashUint64(h, uint64(sortKind(s)))
	switch s := s.(type) {
	case BVSort:
		h = hashUint64(h, uint64(s.Width))
	case FloatSort:
		h = hashUint64(h, uint64(s.EB))
		h = hashUint64(h, uint64(s.SB))
	case StringSort:
		h = hashUint64(h, uint64(s.Info))
	case *StructSort:
		h = hashUint64(h, uint64(len(s.Fields)))
		for _, f := range s.Fields {
			h = hashSort(h, f)
		}
	case *ArraySort:
		h = hashUint64(h, uint64(len(s.Index)))
		for _, ix := range s.Index {
			h = hashSort(h, ix)
		}
		h = hashSort(h, s.Elem)
	}
	return h
}
