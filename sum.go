package sym

import (
	"bytes"
	"fmt"

	"github.com/benbjohnson/immutable"
)

// sumEntry is one term/coefficient pair of a weighted sum.
type sumEntry struct {
	x *Term
	c Coeff
}

// Sum is an affine combination over a semiring:
//
//	c1*x1 + c2*x2 + ... + k
//
// stored as a persistent map from term identity to a non-zero coefficient
// plus a scalar offset. Map equality with an equal offset implies sum
// equality, because zero coefficients are never stored. Sums are immutable;
// every operation returns a new sum sharing structure with its inputs.
type Sum struct {
	ring   Semiring
	terms  *immutable.SortedMap // uint64 term id -> sumEntry
	offset Coeff
	hash   uint64 // commutative over entries, independent of order
}

// NewSum returns the zero sum over the given semiring.
func NewSum(ring Semiring) *Sum {
	s := &Sum{
		ring:   ring,
		terms:  immutable.NewSortedMap(&uint64Comparer{}),
		offset: ring.Zero(),
	}
	s.hash = hashSemiring(fnvOffset, ring) + ring.Hash(s.offset)
	return s
}

// SumConst returns the constant sum k.
func SumConst(ring Semiring, k Coeff) *Sum {
	return NewSum(ring).AddConst(k)
}

// SumVar returns the sum 1*x.
func SumVar(ring Semiring, x *Term) *Sum {
	return SumScaledVar(ring, ring.One(), x)
}

// SumScaledVar returns the sum c*x.
func SumScaledVar(ring Semiring, c Coeff, x *Term) *Sum {
	return NewSum(ring).insert(x, c)
}

// Ring returns the semiring of the sum.
func (s *Sum) Ring() Semiring { return s.ring }

// Len returns the number of term entries.
func (s *Sum) Len() int { return s.terms.Len() }

// Offset returns the scalar offset.
func (s *Sum) Offset() Coeff { return s.offset }

// entryHash returns the order-independent contribution of one entry.
func (s *Sum) entryHash(id uint64, c Coeff) uint64 {
	return hashUint64(hashUint64(1099511628211, id), s.ring.Hash(c))
}

// clone returns a shallow copy sharing the persistent map.
func (s *Sum) clone() *Sum {
	out := *s
	return &out
}

// insert adds c*x, removing the entry if the coefficient cancels.
func (s *Sum) insert(x *Term, c Coeff) *Sum {
	if s.ring.IsZero(c) {
		return s
	}
	out := s.clone()
	if prev, ok := s.terms.Get(x.ID()); ok {
		entry := prev.(sumEntry)
		merged := s.ring.Add(entry.c, c)
		out.hash -= s.entryHash(x.ID(), entry.c)
		if s.ring.IsZero(merged) {
			out.terms = s.terms.Delete(x.ID())
			return out
		}
		out.terms = s.terms.Set(x.ID(), sumEntry{x: x, c: merged})
		out.hash += s.entryHash(x.ID(), merged)
		return out
	}
	out.terms = s.terms.Set(x.ID(), sumEntry{x: x, c: c})
	out.hash += s.entryHash(x.ID(), c)
	return out
}

// Add returns the sum of s and other.
func (s *Sum) Add(other *Sum) *Sum {
	assert(SemiringEq(s.ring, other.ring), "sum add over different semirings: %s != %s", s.ring, other.ring)
	// Merge the smaller map into the larger.
	a, b := s, other
	if a.terms.Len() < b.terms.Len() {
		a, b = b, a
	}
	out := a
	for itr := b.terms.Iterator(); !itr.Done(); {
		_, v := itr.Next()
		entry := v.(sumEntry)
		out = out.insert(entry.x, entry.c)
	}
	return out.AddConst(b.offset)
}

// AddConst returns the sum with k added to the offset.
func (s *Sum) AddConst(k Coeff) *Sum {
	if s.ring.IsZero(k) {
		return s
	}
	out := s.clone()
	out.hash -= s.ring.Hash(s.offset)
	out.offset = s.ring.Add(s.offset, k)
	out.hash += s.ring.Hash(out.offset)
	return out
}

// Scale returns the sum multiplied by a scalar. Scaling by zero yields the
// zero sum; entries whose coefficient cancels are removed.
func (s *Sum) Scale(c Coeff) *Sum {
	if s.ring.IsZero(c) {
		return NewSum(s.ring)
	} else if s.ring.IsOne(c) {
		return s
	}
	out := NewSum(s.ring)
	for itr := s.terms.Iterator(); !itr.Done(); {
		_, v := itr.Next()
		entry := v.(sumEntry)
		out = out.insert(entry.x, s.ring.Mul(c, entry.c))
	}
	return out.AddConst(s.ring.Mul(c, s.offset))
}

// Negate returns the additive inverse of the sum.
func (s *Sum) Negate() *Sum {
	return s.Scale(s.ring.Neg(s.ring.One()))
}

// AsConstant returns the offset iff the sum has no term entries.
func (s *Sum) AsConstant() (Coeff, bool) {
	if s.terms.Len() == 0 {
		return s.offset, true
	}
	return nil, false
}

// AsVar returns x iff the sum is exactly 1*x.
func (s *Sum) AsVar() (*Term, bool) {
	if c, x, ok := s.AsWeightedVar(); ok && s.ring.IsOne(c) {
		return x, true
	}
	return nil, false
}

// AsWeightedVar returns (c, x) iff the sum is exactly c*x.
func (s *Sum) AsWeightedVar() (Coeff, *Term, bool) {
	if c, x, k, ok := s.AsAffineVar(); ok && s.ring.IsZero(k) {
		return c, x, true
	}
	return nil, nil, false
}

// AsAffineVar returns (c, x, k) iff the sum is exactly c*x + k.
func (s *Sum) AsAffineVar() (Coeff, *Term, Coeff, bool) {
	if s.terms.Len() != 1 {
		return nil, nil, nil, false
	}
	itr := s.terms.Iterator()
	_, v := itr.Next()
	entry := v.(sumEntry)
	return entry.c, entry.x, s.offset, true
}

// Range calls fn for every entry in ascending term-identity order.
func (s *Sum) Range(fn func(x *Term, c Coeff)) {
	for itr := s.terms.Iterator(); !itr.Done(); {
		_, v := itr.Next()
		entry := v.(sumEntry)
		fn(entry.x, entry.c)
	}
}

// Eval folds the sum with the supplied operations. The accumulator is
// seeded from the offset when it is non-zero, otherwise from the first
// entry, so no spurious zero is threaded through the fold.
func (s *Sum) Eval(
	add func(a, b interface{}) interface{},
	mul func(c Coeff, x *Term) interface{},
	konst func(k Coeff) interface{},
) interface{} {
	var acc interface{}
	if !s.ring.IsZero(s.offset) || s.terms.Len() == 0 {
		acc = konst(s.offset)
	}
	s.Range(func(x *Term, c Coeff) {
		v := mul(c, x)
		if acc == nil {
			acc = v
		} else {
			acc = add(acc, v)
		}
	})
	return acc
}

// ReduceMod returns the sum with every coefficient and the offset reduced
// modulo k, dropping entries that cancel. Only defined over the integers.
func (s *Sum) ReduceMod(k Coeff) *Sum {
	_, isInt := s.ring.(IntRing)
	assert(isInt, "sum reduce-mod over non-integer semiring: %s", s.ring)
	kk := k.(bigInt)
	assert(kk.Sign() != 0, "sum reduce-mod by zero")
	out := NewSum(s.ring)
	s.Range(func(x *Term, c Coeff) {
		out = out.insert(x, newBigMod(c.(bigInt), kk))
	})
	return out.AddConst(newBigMod(s.offset.(bigInt), kk))
}

// ExtractCommon splits two sums into (z, x', y') with x = z + x' and
// y = z + y', where z holds exactly the entries present in both with an
// equal coefficient, plus the offset when it is shared. Used to preserve
// sharing across if-then-else branches.
func (s *Sum) ExtractCommon(other *Sum) (z, x1, y1 *Sum) {
	assert(SemiringEq(s.ring, other.ring), "sum extract-common over different semirings: %s != %s", s.ring, other.ring)
	z = NewSum(s.ring)
	x1, y1 = s, other
	s.Range(func(x *Term, c Coeff) {
		if v, ok := other.terms.Get(x.ID()); ok && s.ring.Eq(v.(sumEntry).c, c) {
			z = z.insert(x, c)
			x1 = x1.insert(x, s.ring.Neg(c))
			y1 = y1.insert(x, s.ring.Neg(c))
		}
	})
	if s.ring.Eq(s.offset, other.offset) && !s.ring.IsZero(s.offset) {
		z = z.AddConst(s.offset)
		neg := s.ring.Neg(s.offset)
		x1 = x1.AddConst(neg)
		y1 = y1.AddConst(neg)
	}
	return z, x1, y1
}

// Equal reports structural equality of two sums.
func (s *Sum) Equal(other *Sum) bool {
	if s.hash != other.hash || !SemiringEq(s.ring, other.ring) ||
		s.terms.Len() != other.terms.Len() || !s.ring.Eq(s.offset, other.offset) {
		return false
	}
	a, b := s.terms.Iterator(), other.terms.Iterator()
	for !a.Done() {
		ka, va := a.Next()
		kb, vb := b.Next()
		if ka.(uint64) != kb.(uint64) || !s.ring.Eq(va.(sumEntry).c, vb.(sumEntry).c) {
			return false
		}
	}
	return true
}

// Hash returns the commutative structural hash of the sum.
func (s *Sum) Hash() uint64 { return s.hash }

// String renders the sum in ascending term-identity order.
func (s *Sum) String() string {
	var buf bytes.Buffer
	buf.WriteString("(sum")
	s.Range(func(x *Term, c Coeff) {
		fmt.Fprintf(&buf, " %v*%s", c, x)
	})
	if !s.ring.IsZero(s.offset) || s.terms.Len() == 0 {
		fmt.Fprintf(&buf, " %v", s.offset)
	}
	buf.WriteString(")")
	return buf.String()
}

// abstractValue folds the entry domains into a summary abstract value.
func (s *Sum) abstractValue() AbstractValue {
	switch ring := s.ring.(type) {
	case IntRing:
		acc := IntSingleton(s.offset.(bigInt))
		s.Range(func(x *Term, c Coeff) {
			acc = acc.Add(x.AbstractValue().(IntRange).Scale(c.(bigInt)))
		})
		return acc
	case RealRing:
		acc := RealSingleton(s.offset.(bigRat))
		s.Range(func(x *Term, c Coeff) {
			acc = acc.Add(x.AbstractValue().(RealRange).Scale(c.(bigRat)))
		})
		return acc
	case BVArithRing:
		acc := BVSingleton(ring.Width, s.offset.(bigInt))
		s.Range(func(x *Term, c Coeff) {
			acc = acc.Add(x.AbstractValue().(BVDomain).Scale(c.(bigInt)))
		})
		return acc
	case BVXorRing:
		acc := BVSingleton(ring.Width, s.offset.(bigInt))
		s.Range(func(x *Term, c Coeff) {
			mask := BVSingleton(ring.Width, c.(bigInt))
			acc = acc.Xor(x.AbstractValue().(BVDomain).And(mask))
		})
		return acc
	default:
		panic("unreachable")
	}
}

// uint64Comparer compares two 64-bit unsigned integers. Implements
// immutable.Comparer.
type uint64Comparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than
// b, and returns 0 if a is equal to b. Panic if a or b is not a uint64.
func (c *uint64Comparer) Compare(a, b interface{}) int {
	if i, j := a.(uint64), b.(uint64); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
