package sym

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
)

// Concrete is a ground value of some sort, as produced by projecting a
// term whose every leaf is a constant and as consumed when lifting model
// values back into terms.
type Concrete interface {
	fmt.Stringer
	concrete()
}

func (ConcreteBool) concrete()    {}
func (ConcreteInt) concrete()     {}
func (ConcreteRat) concrete()     {}
func (ConcreteBV) concrete()      {}
func (ConcreteFloat) concrete()   {}
func (ConcreteString) concrete()  {}
func (ConcreteStruct) concrete()  {}
func (*ConcreteArray) concrete()  {}

// ConcreteBool is a ground boolean.
type ConcreteBool bool

func (v ConcreteBool) String() string { return fmt.Sprintf("%v", bool(v)) }

// ConcreteInt is a ground mathematical integer.
type ConcreteInt struct {
	Value *big.Int
}

func (v ConcreteInt) String() string { return v.Value.String() }

// ConcreteRat is a ground rational.
type ConcreteRat struct {
	Value *big.Rat
}

func (v ConcreteRat) String() string { return v.Value.RatString() }

// ConcreteBV is a ground bitvector.
type ConcreteBV struct {
	Width uint
	Value *big.Int
}

func (v ConcreteBV) String() string { return fmt.Sprintf("#x%0*x", (v.Width+3)/4, v.Value) }

// ConcreteFloat is a ground float at a hardware precision.
type ConcreteFloat struct {
	Prec  FloatSort
	Value float64
}

func (v ConcreteFloat) String() string { return fmt.Sprintf("%v", v.Value) }

// ConcreteString is a ground string.
type ConcreteString struct {
	Info  StringInfo
	Value string
}

func (v ConcreteString) String() string { return fmt.Sprintf("%q", v.Value) }

// ConcreteStruct is a ground struct.
type ConcreteStruct struct {
	Fields []Concrete
}

func (v ConcreteStruct) String() string {
	var buf bytes.Buffer
	buf.WriteString("(struct")
	for _, f := range v.Fields {
		buf.WriteString(" ")
		buf.WriteString(f.String())
	}
	buf.WriteString(")")
	return buf.String()
}

// ConcreteArray is a ground array: a default value plus explicit updates,
// outermost first.
type ConcreteArray struct {
	Sort    *ArraySort
	Default Concrete
	Updates []ConcreteArrayUpdate
}

// ConcreteArrayUpdate is one explicit index/value pair of a ground array.
type ConcreteArrayUpdate struct {
	Index []Concrete
	Value Concrete
}

func (v *ConcreteArray) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(array default=%s", v.Default)
	for _, u := range v.Updates {
		buf.WriteString(" [")
		for i, ix := range u.Index {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(ix.String())
		}
		fmt.Fprintf(&buf, "]=%s", u.Value)
	}
	buf.WriteString(")")
	return buf.String()
}

// AsConcrete returns the ground value of a term, when every leaf is a
// constant. Annotations are transparent.
func AsConcrete(t *Term) (Concrete, bool) {
	switch t.op {
	case OpBoolLit:
		return ConcreteBool(t.aux.(bool)), true
	case OpStringLit:
		return ConcreteString{Info: t.sort.(StringSort).Info, Value: t.aux.(string)}, true
	case OpFloatLit:
		return ConcreteFloat{Prec: t.sort.(FloatSort), Value: t.aux.(float64)}, true
	case OpSum:
		s := t.Sum()
		k, ok := s.AsConstant()
		if !ok {
			return nil, false
		}
		switch ring := s.Ring().(type) {
		case IntRing:
			return ConcreteInt{Value: cloneInt(k.(bigInt))}, true
		case RealRing:
			return ConcreteRat{Value: cloneRat(k.(bigRat))}, true
		case BVArithRing:
			return ConcreteBV{Width: ring.Width, Value: cloneInt(k.(bigInt))}, true
		case BVXorRing:
			return ConcreteBV{Width: ring.Width, Value: cloneInt(k.(bigInt))}, true
		}
		return nil, false
	case OpStruct:
		fields := make([]Concrete, len(t.children))
		for i, c := range t.children {
			v, ok := AsConcrete(c)
			if !ok {
				return nil, false
			}
			fields[i] = v
		}
		return ConcreteStruct{Fields: fields}, true
	case OpConstArray:
		def, ok := AsConcrete(t.children[0])
		if !ok {
			return nil, false
		}
		return &ConcreteArray{Sort: t.sort.(*ArraySort), Default: def}, true
	case OpArrayUpdate:
		base, ok := AsConcrete(t.children[0])
		if !ok {
			return nil, false
		}
		arr, ok := base.(*ConcreteArray)
		if !ok {
			return nil, false
		}
		index := make([]Concrete, len(t.children)-2)
		for i := range index {
			v, ok := AsConcrete(t.children[i+1])
			if !ok {
				return nil, false
			}
			index[i] = v
		}
		value, ok := AsConcrete(t.children[len(t.children)-1])
		if !ok {
			return nil, false
		}
		out := &ConcreteArray{Sort: arr.Sort, Default: arr.Default}
		out.Updates = append(out.Updates, ConcreteArrayUpdate{Index: index, Value: value})
		out.Updates = append(out.Updates, arr.Updates...)
		return out, true
	case OpAnnotation:
		return AsConcrete(t.children[0])
	default:
		return nil, false
	}
}

// FromConcrete lifts a ground value back into an interned term, the
// inverse of AsConcrete.
func (b *Builder) FromConcrete(v Concrete) *Term {
	switch v := v.(type) {
	case ConcreteBool:
		return b.Bool(bool(v))
	case ConcreteInt:
		return b.IntLitBig(v.Value)
	case ConcreteRat:
		return b.RatLitBig(v.Value)
	case ConcreteBV:
		return b.BVLitBig(v.Width, v.Value)
	case ConcreteFloat:
		return b.FloatLit(v.Prec, v.Value)
	case ConcreteString:
		return b.StringLit(v.Info, v.Value)
	case ConcreteStruct:
		fields := make([]*Term, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = b.FromConcrete(f)
		}
		return b.Struct(fields...)
	case *ConcreteArray:
		out := b.ConstArray(v.Sort, b.FromConcrete(v.Default))
		for i := len(v.Updates) - 1; i >= 0; i-- {
			u := v.Updates[i]
			indices := make([]*Term, len(u.Index))
			for j, ix := range u.Index {
				indices[j] = b.FromConcrete(ix)
			}
			out = b.ArrayUpdate(out, b.FromConcrete(u.Value), indices...)
		}
		return out
	default:
		panic("unreachable")
	}
}

// ConcreteEq reports whether two ground values are equal.
func ConcreteEq(a, b Concrete) bool {
	switch a := a.(type) {
	case ConcreteBool:
		b, ok := b.(ConcreteBool)
		return ok && a == b
	case ConcreteInt:
		b, ok := b.(ConcreteInt)
		return ok && a.Value.Cmp(b.Value) == 0
	case ConcreteRat:
		b, ok := b.(ConcreteRat)
		return ok && a.Value.Cmp(b.Value) == 0
	case ConcreteBV:
		b, ok := b.(ConcreteBV)
		return ok && a.Width == b.Width && a.Value.Cmp(b.Value) == 0
	case ConcreteFloat:
		b, ok := b.(ConcreteFloat)
		return ok && a.Prec == b.Prec && math.Float64bits(a.Value) == math.Float64bits(b.Value)
	case ConcreteString:
		b, ok := b.(ConcreteString)
		return ok && a == b
	case ConcreteStruct:
		b, ok := b.(ConcreteStruct)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !ConcreteEq(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case *ConcreteArray:
		b, ok := b.(*ConcreteArray)
		if !ok || !SortEq(a.Sort, b.Sort) || !ConcreteEq(a.Default, b.Default) || len(a.Updates) != len(b.Updates) {
			return false
		}
		for i := range a.Updates {
			ua, ub := a.Updates[i], b.Updates[i]
			if len(ua.Index) != len(ub.Index) || !ConcreteEq(ua.Value, ub.Value) {
				return false
			}
			for j := range ua.Index {
				if !ConcreteEq(ua.Index[j], ub.Index[j]) {
					return false
				}
			}
		}
		return true
	default:
		panic("unreachable")
	}
}

// AsConstantPred returns the value of a constant boolean term.
func AsConstantPred(t *Term) (bool, bool) {
	if t.op == OpBoolLit {
		return t.aux.(bool), true
	}
	return false, false
}

// AsInteger returns the value of a constant integer term.
func AsInteger(t *Term) (*big.Int, bool) {
	if t.op == OpSum {
		if _, ok := t.Sum().Ring().(IntRing); ok {
			if k, ok := t.Sum().AsConstant(); ok {
				return cloneInt(k.(bigInt)), true
			}
		}
	}
	return nil, false
}

// AsRational returns the value of a constant real term.
func AsRational(t *Term) (*big.Rat, bool) {
	if t.op == OpSum {
		if _, ok := t.Sum().Ring().(RealRing); ok {
			if k, ok := t.Sum().AsConstant(); ok {
				return cloneRat(k.(bigRat)), true
			}
		}
	}
	return nil, false
}

// AsBV returns the value and width of a constant bitvector term.
func AsBV(t *Term) (*big.Int, uint, bool) {
	if d, ok := t.abs.(BVDomain); ok {
		if v, ok := d.Singleton(); ok {
			if _, ok := AsConcrete(t); ok {
				return v, d.Width(), true
			}
		}
	}
	return nil, 0, false
}

// AsStringLit returns the value of a literal string term.
func AsStringLit(t *Term) (string, bool) {
	return strConst(t)
}
