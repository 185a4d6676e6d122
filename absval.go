package sym

import (
	"fmt"
	"math/big"
)

// AbstractValue is a per-sort lattice element soundly over-approximating the
// concrete values a term may denote. Joining the values of two terms (as in
// an if-then-else) yields the lattice join; operators refine conservatively
// and never exclude a producible value.
type AbstractValue interface {
	fmt.Stringer

	// Join returns the least value containing both receiver and other.
	// The two values must belong to the same sort.
	Join(other AbstractValue) AbstractValue

	// CheckEq compares the denotations of two terms through their
	// domains: True when equality is certain (both are the same
	// singleton), False when the domains are disjoint, Unknown otherwise.
	CheckEq(other AbstractValue) Tristate

	// IsSingleton reports whether the domain contains exactly one value.
	IsSingleton() bool
}

// Tristate is the abstract domain of booleans.
type Tristate int

// Tristate values.
const (
	Unknown = Tristate(iota)
	True
	False
)

// TristateOf lifts a concrete boolean.
func TristateOf(v bool) Tristate {
	if v {
		return True
	}
	return False
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "T"
	case False:
		return "F"
	default:
		return "?"
	}
}

// Not returns the negation, leaving Unknown fixed.
func (t Tristate) Not() Tristate {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// And returns the Kleene conjunction.
func (t Tristate) And(other Tristate) Tristate {
	if t == False || other == False {
		return False
	} else if t == True && other == True {
		return True
	}
	return Unknown
}

// Or returns the Kleene disjunction.
func (t Tristate) Or(other Tristate) Tristate {
	if t == True || other == True {
		return True
	} else if t == False && other == False {
		return False
	}
	return Unknown
}

// Join returns the lattice join of two tristates.
func (t Tristate) Join(other AbstractValue) AbstractValue {
	if o := other.(Tristate); t == o {
		return t
	}
	return Unknown
}

// CheckEq compares two tristates as domains.
func (t Tristate) CheckEq(other AbstractValue) Tristate {
	o := other.(Tristate)
	if t == Unknown || o == Unknown {
		return Unknown
	} else if t == o {
		return True
	}
	return False
}

// IsSingleton reports whether the tristate is decided.
func (t Tristate) IsSingleton() bool { return t != Unknown }

// IntRange is the abstract domain of mathematical integers: a closed
// interval with optionally unbounded endpoints. A nil endpoint denotes the
// corresponding infinity.
type IntRange struct {
	lo *big.Int // nil for -inf
	hi *big.Int // nil for +inf
}

// IntRangeFull is the unbounded integer range.
func IntRangeFull() IntRange { return IntRange{} }

// NewIntRange returns the range [lo, hi]. Nil endpoints are unbounded.
func NewIntRange(lo, hi *big.Int) IntRange {
	assert(lo == nil || hi == nil || lo.Cmp(hi) <= 0, "invalid int range: [%s, %s]", lo, hi)
	return IntRange{lo: cloneInt(lo), hi: cloneInt(hi)}
}

// IntSingleton returns the range {v}.
func IntSingleton(v *big.Int) IntRange {
	v = cloneInt(v)
	return IntRange{lo: v, hi: v}
}

// IntAtLeast returns the range [lo, +inf).
func IntAtLeast(lo *big.Int) IntRange { return IntRange{lo: cloneInt(lo)} }

// IntAtMost returns the range (-inf, hi].
func IntAtMost(hi *big.Int) IntRange { return IntRange{hi: cloneInt(hi)} }

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func (r IntRange) String() string {
	lo, hi := "-inf", "+inf"
	if r.lo != nil {
		lo = r.lo.String()
	}
	if r.hi != nil {
		hi = r.hi.String()
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// Lo returns the lower endpoint, nil when unbounded.
func (r IntRange) Lo() *big.Int { return cloneInt(r.lo) }

// Hi returns the upper endpoint, nil when unbounded.
func (r IntRange) Hi() *big.Int { return cloneInt(r.hi) }

// Contains reports whether v lies in the range.
func (r IntRange) Contains(v *big.Int) bool {
	if r.lo != nil && v.Cmp(r.lo) < 0 {
		return false
	}
	if r.hi != nil && v.Cmp(r.hi) > 0 {
		return false
	}
	return true
}

// Singleton returns the unique value of the range, if any.
func (r IntRange) Singleton() (*big.Int, bool) {
	if r.lo != nil && r.hi != nil && r.lo.Cmp(r.hi) == 0 {
		return cloneInt(r.lo), true
	}
	return nil, false
}

// IsSingleton reports whether the range contains exactly one value.
func (r IntRange) IsSingleton() bool {
	_, ok := r.Singleton()
	return ok
}

// NonNegative reports whether every value in the range is >= 0.
func (r IntRange) NonNegative() bool {
	return r.lo != nil && r.lo.Sign() >= 0
}

// Add returns the sum range.
func (r IntRange) Add(other IntRange) IntRange {
	var out IntRange
	if r.lo != nil && other.lo != nil {
		out.lo = new(big.Int).Add(r.lo, other.lo)
	}
	if r.hi != nil && other.hi != nil {
		out.hi = new(big.Int).Add(r.hi, other.hi)
	}
	return out
}

// Neg returns the negated range.
func (r IntRange) Neg() IntRange {
	var out IntRange
	if r.hi != nil {
		out.lo = new(big.Int).Neg(r.hi)
	}
	if r.lo != nil {
		out.hi = new(big.Int).Neg(r.lo)
	}
	return out
}

// Scale returns the range multiplied by a constant.
func (r IntRange) Scale(c *big.Int) IntRange {
	switch c.Sign() {
	case 0:
		return IntSingleton(new(big.Int))
	case -1:
		return r.Neg().Scale(new(big.Int).Neg(c))
	}
	var out IntRange
	if r.lo != nil {
		out.lo = new(big.Int).Mul(r.lo, c)
	}
	if r.hi != nil {
		out.hi = new(big.Int).Mul(r.hi, c)
	}
	return out
}

// Mul returns the product range.
func (r IntRange) Mul(other IntRange) IntRange {
	if v, ok := r.Singleton(); ok {
		return other.Scale(v)
	} else if v, ok := other.Singleton(); ok {
		return r.Scale(v)
	}
	if r.lo == nil || r.hi == nil || other.lo == nil || other.hi == nil {
		return IntRangeFull()
	}
	corners := []*big.Int{
		new(big.Int).Mul(r.lo, other.lo),
		new(big.Int).Mul(r.lo, other.hi),
		new(big.Int).Mul(r.hi, other.lo),
		new(big.Int).Mul(r.hi, other.hi),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c.Cmp(lo) < 0 {
			lo = c
		}
		if c.Cmp(hi) > 0 {
			hi = c
		}
	}
	return IntRange{lo: lo, hi: hi}
}

// Div returns the quotient range under SMT-LIB euclidean division. A
// divisor range that straddles or touches zero yields the unbounded range.
func (r IntRange) Div(divisor IntRange) IntRange {
	// Reduce a strictly negative divisor to the strictly positive case:
	// x div d = -(x div -d).
	if divisor.hi != nil && divisor.hi.Sign() < 0 {
		return r.Div(divisor.Neg()).Neg()
	}
	if divisor.lo == nil || divisor.lo.Sign() <= 0 {
		return IntRangeFull()
	}
	var out IntRange
	if r.lo != nil {
		out.lo = new(big.Int).Div(r.lo, divisor.lo)
		if divisor.hi != nil {
			if b := new(big.Int).Div(r.lo, divisor.hi); b.Cmp(out.lo) < 0 {
				out.lo = b
			}
		} else if out.lo.Sign() > 0 {
			// A growing divisor drives a positive quotient to zero.
			out.lo = new(big.Int)
		}
	}
	if r.hi != nil {
		out.hi = new(big.Int).Div(r.hi, divisor.lo)
		if divisor.hi != nil {
			if b := new(big.Int).Div(r.hi, divisor.hi); b.Cmp(out.hi) > 0 {
				out.hi = b
			}
		} else if out.hi.Sign() < 0 {
			// A growing divisor drives a negative quotient to -1.
			out.hi = big.NewInt(-1)
		}
	}
	return out
}

// Mod returns the remainder range under SMT-LIB semantics, where the
// result satisfies 0 <= r < |divisor| for a non-zero divisor.
func (r IntRange) Mod(divisor IntRange) IntRange {
	zero := new(big.Int)
	// A divisor of zero yields an unspecified value, so any range
	// admitting zero yields the unbounded range.
	if divisor.Contains(zero) {
		return IntRangeFull()
	}
	// Largest |d|-1 over the divisor range, when bounded.
	var hi *big.Int
	if divisor.lo != nil && divisor.hi != nil {
		a := new(big.Int).Abs(divisor.lo)
		b := new(big.Int).Abs(divisor.hi)
		if a.Cmp(b) > 0 {
			hi = a
		} else {
			hi = b
		}
		hi.Sub(hi, big.NewInt(1))
	}
	return IntRange{lo: zero, hi: hi}
}

// Join returns the smallest range containing both.
func (r IntRange) Join(other AbstractValue) AbstractValue {
	o := other.(IntRange)
	var out IntRange
	if r.lo != nil && o.lo != nil {
		if r.lo.Cmp(o.lo) <= 0 {
			out.lo = cloneInt(r.lo)
		} else {
			out.lo = cloneInt(o.lo)
		}
	}
	if r.hi != nil && o.hi != nil {
		if r.hi.Cmp(o.hi) >= 0 {
			out.hi = cloneInt(r.hi)
		} else {
			out.hi = cloneInt(o.hi)
		}
	}
	return out
}

// Overlaps reports whether the two ranges intersect.
func (r IntRange) Overlaps(other IntRange) bool {
	if r.hi != nil && other.lo != nil && r.hi.Cmp(other.lo) < 0 {
		return false
	}
	if r.lo != nil && other.hi != nil && r.lo.Cmp(other.hi) > 0 {
		return false
	}
	return true
}

// CheckEq compares two ranges as domains.
func (r IntRange) CheckEq(other AbstractValue) Tristate {
	o := other.(IntRange)
	if v, ok := r.Singleton(); ok {
		if w, ok := o.Singleton(); ok {
			return TristateOf(v.Cmp(w) == 0)
		}
	}
	if !r.Overlaps(o) {
		return False
	}
	return Unknown
}

// CheckLeq returns True when every value of r is <= every value of other,
// False when every value is greater, and Unknown otherwise.
func (r IntRange) CheckLeq(other IntRange) Tristate {
	if r.hi != nil && other.lo != nil && r.hi.Cmp(other.lo) <= 0 {
		return True
	}
	if r.lo != nil && other.hi != nil && r.lo.Cmp(other.hi) > 0 {
		return False
	}
	return Unknown
}

// RealRange is the abstract domain of rationals: an interval with
// open/closed endpoints plus an is-integer component.
type RealRange struct {
	lo, hi         *big.Rat // nil for the infinities
	loOpen, hiOpen bool
	isInt          Tristate
}

// RealRangeFull is the unbounded real range.
func RealRangeFull() RealRange { return RealRange{isInt: Unknown} }

// RealSingleton returns the range {v}.
func RealSingleton(v *big.Rat) RealRange {
	v = new(big.Rat).Set(v)
	return RealRange{lo: v, hi: v, isInt: TristateOf(v.IsInt())}
}

// NewRealRange returns the closed range [lo, hi] with unknown integrality.
func NewRealRange(lo, hi *big.Rat) RealRange {
	assert(lo == nil || hi == nil || lo.Cmp(hi) <= 0, "invalid real range: [%s, %s]", lo, hi)
	return RealRange{lo: cloneRat(lo), hi: cloneRat(hi), isInt: Unknown}
}

func cloneRat(v *big.Rat) *big.Rat {
	if v == nil {
		return nil
	}
	return new(big.Rat).Set(v)
}

func (r RealRange) String() string {
	lb, rb := "[", "]"
	if r.loOpen {
		lb = "("
	}
	if r.hiOpen {
		rb = ")"
	}
	lo, hi := "-inf", "+inf"
	if r.lo != nil {
		lo = r.lo.RatString()
	}
	if r.hi != nil {
		hi = r.hi.RatString()
	}
	return fmt.Sprintf("%s%s, %s%s int=%s", lb, lo, hi, rb, r.isInt)
}

// IsInt returns the is-integer component.
func (r RealRange) IsInt() Tristate { return r.isInt }

// Singleton returns the unique value of the range, if any.
func (r RealRange) Singleton() (*big.Rat, bool) {
	if r.lo != nil && r.hi != nil && !r.loOpen && !r.hiOpen && r.lo.Cmp(r.hi) == 0 {
		return cloneRat(r.lo), true
	}
	return nil, false
}

// IsSingleton reports whether the range contains exactly one value.
func (r RealRange) IsSingleton() bool {
	_, ok := r.Singleton()
	return ok
}

// Add returns the sum range.
func (r RealRange) Add(other RealRange) RealRange {
	var out RealRange
	if r.lo != nil && other.lo != nil {
		out.lo = new(big.Rat).Add(r.lo, other.lo)
		out.loOpen = r.loOpen || other.loOpen
	}
	if r.hi != nil && other.hi != nil {
		out.hi = new(big.Rat).Add(r.hi, other.hi)
		out.hiOpen = r.hiOpen || other.hiOpen
	}
	out.isInt = integralAnd(r.isInt, other.isInt)
	return out
}

// integralAnd combines is-integer components under addition and
// multiplication: two integers yield an integer, anything else is unknown.
func integralAnd(a, b Tristate) Tristate {
	if a == True && b == True {
		return True
	}
	return Unknown
}

// Neg returns the negated range.
func (r RealRange) Neg() RealRange {
	var out RealRange
	if r.hi != nil {
		out.lo = new(big.Rat).Neg(r.hi)
		out.loOpen = r.hiOpen
	}
	if r.lo != nil {
		out.hi = new(big.Rat).Neg(r.lo)
		out.hiOpen = r.loOpen
	}
	out.isInt = r.isInt
	return out
}

// Scale returns the range multiplied by a constant.
func (r RealRange) Scale(c *big.Rat) RealRange {
	if c.Sign() == 0 {
		return RealSingleton(new(big.Rat))
	} else if c.Sign() < 0 {
		return r.Neg().Scale(new(big.Rat).Neg(c))
	}
	var out RealRange
	if r.lo != nil {
		out.lo = new(big.Rat).Mul(r.lo, c)
		out.loOpen = r.loOpen
	}
	if r.hi != nil {
		out.hi = new(big.Rat).Mul(r.hi, c)
		out.hiOpen = r.hiOpen
	}
	out.isInt = integralAnd(r.isInt, TristateOf(c.IsInt()))
	return out
}

// Mul returns the product range.
func (r RealRange) Mul(other RealRange) RealRange {
	if v, ok := r.Singleton(); ok {
		return other.Scale(v)
	} else if v, ok := other.Singleton(); ok {
		return r.Scale(v)
	}
	out := RealRangeFull()
	out.isInt = integralAnd(r.isInt, other.isInt)
	return out
}

// Join returns the smallest range containing both.
func (r RealRange) Join(other AbstractValue) AbstractValue {
	o := other.(RealRange)
	var out RealRange
	if r.lo != nil && o.lo != nil {
		switch r.lo.Cmp(o.lo) {
		case -1:
			out.lo, out.loOpen = cloneRat(r.lo), r.loOpen
		case 1:
			out.lo, out.loOpen = cloneRat(o.lo), o.loOpen
		default:
			out.lo, out.loOpen = cloneRat(r.lo), r.loOpen && o.loOpen
		}
	}
	if r.hi != nil && o.hi != nil {
		switch r.hi.Cmp(o.hi) {
		case 1:
			out.hi, out.hiOpen = cloneRat(r.hi), r.hiOpen
		case -1:
			out.hi, out.hiOpen = cloneRat(o.hi), o.hiOpen
		default:
			out.hi, out.hiOpen = cloneRat(r.hi), r.hiOpen && o.hiOpen
		}
	}
	if r.isInt == o.isInt {
		out.isInt = r.isInt
	} else {
		out.isInt = Unknown
	}
	return out
}

// Overlaps reports whether the two ranges intersect.
func (r RealRange) Overlaps(other RealRange) bool {
	if r.hi != nil && other.lo != nil {
		if cmp := r.hi.Cmp(other.lo); cmp < 0 || (cmp == 0 && (r.hiOpen || other.loOpen)) {
			return false
		}
	}
	if r.lo != nil && other.hi != nil {
		if cmp := r.lo.Cmp(other.hi); cmp > 0 || (cmp == 0 && (r.loOpen || other.hiOpen)) {
			return false
		}
	}
	return true
}

// CheckEq compares two ranges as domains.
func (r RealRange) CheckEq(other AbstractValue) Tristate {
	o := other.(RealRange)
	if v, ok := r.Singleton(); ok {
		if w, ok := o.Singleton(); ok {
			return TristateOf(v.Cmp(w) == 0)
		}
	}
	if !r.Overlaps(o) {
		return False
	}
	return Unknown
}

// CheckLeq returns True when every value of r is <= every value of other.
func (r RealRange) CheckLeq(other RealRange) Tristate {
	if r.hi != nil && other.lo != nil && r.hi.Cmp(other.lo) <= 0 {
		return True
	}
	if r.lo != nil && other.hi != nil {
		if cmp := r.lo.Cmp(other.hi); cmp > 0 || (cmp == 0 && (r.loOpen || other.hiOpen)) {
			return False
		}
	}
	return Unknown
}

// FloatValue is the opaque abstract domain of floats.
type FloatValue struct{}

func (FloatValue) String() string { return "float" }

// Join of the one-point float domain is itself.
func (FloatValue) Join(other AbstractValue) AbstractValue { return FloatValue{} }

// CheckEq never decides float equality.
func (FloatValue) CheckEq(other AbstractValue) Tristate { return Unknown }

// IsSingleton always reports false.
func (FloatValue) IsSingleton() bool { return false }

// StringValue is the abstract domain of strings: a length interval over
// the non-negative integers.
type StringValue struct {
	Length IntRange
}

// StringValueFull is the string domain with arbitrary length.
func StringValueFull() StringValue {
	return StringValue{Length: IntAtLeast(new(big.Int))}
}

// StringValueLen returns the domain of strings with length in the given
// range, clamped at zero.
func StringValueLen(length IntRange) StringValue {
	zero := new(big.Int)
	if length.lo == nil || length.lo.Sign() < 0 {
		length.lo = zero
	}
	if length.hi != nil && length.hi.Sign() < 0 {
		length.hi = zero
	}
	return StringValue{Length: length}
}

func (v StringValue) String() string { return fmt.Sprintf("string len=%s", v.Length) }

// Join returns the pointwise join.
func (v StringValue) Join(other AbstractValue) AbstractValue {
	return StringValue{Length: v.Length.Join(other.(StringValue).Length).(IntRange)}
}

// CheckEq compares through the length domains only: distinct lengths imply
// distinct strings, equal lengths decide nothing.
func (v StringValue) CheckEq(other AbstractValue) Tristate {
	if !v.Length.Overlaps(other.(StringValue).Length) {
		return False
	}
	return Unknown
}

// IsSingleton always reports false: length alone cannot pin a string.
func (v StringValue) IsSingleton() bool { return false }

// StructValue is the abstract domain of structs: a tuple of field domains.
type StructValue struct {
	Fields []AbstractValue
}

func (v StructValue) String() string {
	s := "struct("
	for i, f := range v.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s + ")"
}

// Join returns the pointwise join.
func (v StructValue) Join(other AbstractValue) AbstractValue {
	o := other.(StructValue)
	assert(len(v.Fields) == len(o.Fields), "struct join arity mismatch: %d != %d", len(v.Fields), len(o.Fields))
	fields := make([]AbstractValue, len(v.Fields))
	for i := range v.Fields {
		fields[i] = v.Fields[i].Join(o.Fields[i])
	}
	return StructValue{Fields: fields}
}

// CheckEq conjoins the field checks.
func (v StructValue) CheckEq(other AbstractValue) Tristate {
	o := other.(StructValue)
	assert(len(v.Fields) == len(o.Fields), "struct check-eq arity mismatch: %d != %d", len(v.Fields), len(o.Fields))
	out := True
	for i := range v.Fields {
		out = out.And(v.Fields[i].CheckEq(o.Fields[i]))
		if out == False {
			return False
		}
	}
	return out
}

// IsSingleton reports whether every field is a singleton.
func (v StructValue) IsSingleton() bool {
	for _, f := range v.Fields {
		if !f.IsSingleton() {
			return false
		}
	}
	return true
}

// ArrayValue is the abstract domain of arrays: the domain of the element
// sort, covering every element the array may hold.
type ArrayValue struct {
	Elem AbstractValue
}

func (v ArrayValue) String() string { return fmt.Sprintf("array(%s)", v.Elem) }

// Join joins the element domains.
func (v ArrayValue) Join(other AbstractValue) AbstractValue {
	return ArrayValue{Elem: v.Elem.Join(other.(ArrayValue).Elem)}
}

// CheckEq never decides array equality; element domains cannot distinguish
// updates at individual indices.
func (v ArrayValue) CheckEq(other AbstractValue) Tristate { return Unknown }

// IsSingleton always reports false.
func (v ArrayValue) IsSingleton() bool { return false }

// topValue returns the top abstract value for a sort.
func topValue(sort Sort) AbstractValue {
	switch sort := sort.(type) {
	case BoolSort:
		return Unknown
	case IntSort:
		return IntRangeFull()
	case RealSort:
		return RealRangeFull()
	case BVSort:
		return BVDomainFull(sort.Width)
	case FloatSort:
		return FloatValue{}
	case StringSort:
		return StringValueFull()
	case *StructSort:
		fields := make([]AbstractValue, len(sort.Fields))
		for i, f := range sort.Fields {
			fields[i] = topValue(f)
		}
		return StructValue{Fields: fields}
	case *ArraySort:
		return ArrayValue{Elem: topValue(sort.Elem)}
	default:
		panic("unreachable")
	}
}
