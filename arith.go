package sym

import (
	"math/big"
)

// numericRing returns the arithmetic semiring of a numeric sort.
func numericRing(sort Sort) Semiring {
	switch sort := sort.(type) {
	case IntSort:
		return IntRing{}
	case RealSort:
		return RealRing{}
	case BVSort:
		return NewBVArithRing(sort.Width)
	default:
		panic("assert: no arithmetic semiring for sort " + sort.String())
	}
}

// ringSort returns the sort of terms valued in a semiring.
func ringSort(ring Semiring) Sort {
	switch ring := ring.(type) {
	case IntRing:
		return IntSort{}
	case RealRing:
		return RealSort{}
	case BVArithRing:
		return BV(ring.Width)
	case BVXorRing:
		return BV(ring.Width)
	default:
		panic("unreachable")
	}
}

// asSum views a term as a weighted sum over the given semiring. Sum nodes
// of the same ring expose their payload; constant sums carry their scalar
// across the two bitvector rings; anything else becomes 1*t.
func (b *Builder) asSum(ring Semiring, t *Term) *Sum {
	if t.op == OpSum {
		s := t.Sum()
		if SemiringEq(s.Ring(), ring) {
			return s
		}
		if k, ok := s.AsConstant(); ok && SortEq(ringSort(s.Ring()), ringSort(ring)) {
			return SumConst(ring, k)
		}
	}
	return SumVar(ring, t)
}

// sumTerm interns a sum as a term, normalizing the trivial shapes: the
// sum 1*x collapses to x itself, and constants over the xor ring take
// their canonical arithmetic-ring form so every bitvector constant has a
// single identity.
func (b *Builder) sumTerm(s *Sum) *Term {
	if x, ok := s.AsVar(); ok {
		return x
	}
	if ring, ok := s.Ring().(BVXorRing); ok {
		if k, ok := s.AsConstant(); ok {
			return b.sumTerm(SumConst(NewBVArithRing(ring.Width), k))
		}
	}
	return b.newTerm(OpSum, ringSort(s.Ring()), nil, s, s.abstractValue())
}

// asProduct views a term as a product over the given semiring.
func (b *Builder) asProduct(ring Semiring, t *Term) *Product {
	if t.op == OpProduct && SemiringEq(t.Product().Ring(), ring) {
		return t.Product()
	}
	return ProdVar(ring, t)
}

// prodTerm interns a product as a term. The identity product is the
// scalar one; the product x^1 collapses to x itself.
func (b *Builder) prodTerm(p *Product) *Term {
	if p.IsEmpty() {
		return b.sumTerm(SumConst(p.Ring(), p.Ring().One()))
	}
	if x, ok := p.AsVar(); ok {
		return x
	}
	return b.newTerm(OpProduct, ringSort(p.Ring()), nil, p, p.abstractValue())
}

// IntLit returns the integer literal v.
func (b *Builder) IntLit(v int64) *Term {
	return b.IntLitBig(big.NewInt(v))
}

// IntLitBig returns the integer literal v.
func (b *Builder) IntLitBig(v *big.Int) *Term {
	return b.sumTerm(SumConst(IntRing{}, cloneInt(v)))
}

// RatLit returns the rational literal num/den.
func (b *Builder) RatLit(num, den int64) *Term {
	return b.RatLitBig(big.NewRat(num, den))
}

// RatLitBig returns the rational literal v.
func (b *Builder) RatLitBig(v *big.Rat) *Term {
	return b.sumTerm(SumConst(RealRing{}, cloneRat(v)))
}

// Add returns the sum of two terms of the same numeric sort. Additions
// over integers, reals, and bitvectors all build weighted sums, so
// x + (-1)*x cancels to zero by construction.
func (b *Builder) Add(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "add sort mismatch: %s != %s", x.sort, y.sort)
	ring := numericRing(x.sort)
	return b.sumTerm(b.asSum(ring, x).Add(b.asSum(ring, y)))
}

// Sub returns the difference of two terms of the same numeric sort.
func (b *Builder) Sub(x, y *Term) *Term {
	return b.Add(x, b.Neg(y))
}

// Neg returns the additive inverse of a numeric term.
func (b *Builder) Neg(x *Term) *Term {
	ring := numericRing(x.sort)
	return b.sumTerm(b.asSum(ring, x).Negate())
}

// Scale returns c*x for a scalar of x's semiring.
func (b *Builder) Scale(c Coeff, x *Term) *Term {
	ring := numericRing(x.sort)
	return b.sumTerm(b.asSum(ring, x).Scale(c))
}

// Mul returns the product of two terms of the same numeric sort. A
// constant side scales the other; two symbolic sides combine into a
// product monomial wrapped as a sum.
func (b *Builder) Mul(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "mul sort mismatch: %s != %s", x.sort, y.sort)
	ring := numericRing(x.sort)
	xs, ys := b.asSum(ring, x), b.asSum(ring, y)
	if c, ok := xs.AsConstant(); ok {
		return b.sumTerm(ys.Scale(c))
	} else if c, ok := ys.AsConstant(); ok {
		return b.sumTerm(xs.Scale(c))
	}

	// Pull scalar weights out of each side so (2x)*(3y) becomes 6*(x*y).
	cx, fx := b.splitScalar(ring, xs, x)
	cy, fy := b.splitScalar(ring, ys, y)
	p := b.asProduct(ring, fx).Mul(b.asProduct(ring, fy))
	return b.sumTerm(SumScaledVar(ring, ring.Mul(cx, cy), b.prodTerm(p)))
}

// splitScalar factors a term into a scalar weight and a residual factor.
func (b *Builder) splitScalar(ring Semiring, s *Sum, t *Term) (Coeff, *Term) {
	if c, x, ok := s.AsWeightedVar(); ok {
		return c, x
	}
	return ring.One(), t
}

// IntDiv returns the euclidean quotient of two integer terms. Division by
// zero produces a well-sorted term with an unspecified value; it never
// fails.
func (b *Builder) IntDiv(x, y *Term) *Term {
	b.requireSort(x, IntSort{}, "int.div")
	b.requireSort(y, IntSort{}, "int.div")
	xs, ys := b.asSum(IntRing{}, x), b.asSum(IntRing{}, y)
	if k, ok := ys.AsConstant(); ok {
		kk := k.(bigInt)
		switch {
		case kk.Sign() == 0:
			// Unspecified but well-sorted; falls through to a wrapped
			// node carrying no extra guarantees.
		case kk.Cmp(big1()) == 0:
			return x
		case kk.Cmp(big.NewInt(-1)) == 0:
			return b.Neg(x)
		default:
			if v, ok := xs.AsConstant(); ok {
				return b.IntLitBig(new(big.Int).Div(v.(bigInt), kk))
			}
			// A numerator already inside [0, k) divides to zero.
			if kk.Sign() > 0 {
				r := x.abs.(IntRange)
				if r.NonNegative() && r.CheckLeq(IntSingleton(new(big.Int).Sub(kk, big1()))) == True {
					return b.IntLit(0)
				}
			}
		}
	}
	abs := x.abs.(IntRange).Div(y.abs.(IntRange))
	return b.newTerm(OpIntDiv, IntSort{}, []*Term{x, y}, nil, abs)
}

// IntMod returns the euclidean remainder of two integer terms, satisfying
// 0 <= x mod y < |y| whenever y is non-zero. Modulus by zero produces an
// unspecified value.
func (b *Builder) IntMod(x, y *Term) *Term {
	b.requireSort(x, IntSort{}, "int.mod")
	b.requireSort(y, IntSort{}, "int.mod")
	xs, ys := b.asSum(IntRing{}, x), b.asSum(IntRing{}, y)
	if k, ok := ys.AsConstant(); ok {
		kk := k.(bigInt)
		if kk.Sign() != 0 {
			if v, ok := xs.AsConstant(); ok {
				return b.IntLitBig(newBigMod(v.(bigInt), kk))
			}
			if cmpBigAbs(kk, big1()) == 0 {
				return b.IntLit(0)
			}
			// Reduce the affine form mod k; for positive k, a numerator
			// whose range lies within [0, k) is its own remainder.
			red := xs.ReduceMod(kk)
			if c, ok := red.AsConstant(); ok {
				return b.IntLitBig(c.(bigInt))
			}
			if kk.Sign() > 0 {
				r := x.abs.(IntRange)
				if r.NonNegative() && r.CheckLeq(IntSingleton(new(big.Int).Sub(kk, big1()))) == True {
					return x
				}
			}
		}
	}
	abs := x.abs.(IntRange).Mod(y.abs.(IntRange))
	return b.newTerm(OpIntMod, IntSort{}, []*Term{x, y}, nil, abs)
}

// cmpBigAbs compares |a| with |b|.
func cmpBigAbs(a, b *big.Int) int {
	return new(big.Int).Abs(a).Cmp(new(big.Int).Abs(b))
}

// IntAbs returns the absolute value of an integer term.
func (b *Builder) IntAbs(x *Term) *Term {
	b.requireSort(x, IntSort{}, "int.abs")
	r := x.abs.(IntRange)
	if r.NonNegative() {
		return x
	}
	if r.hi != nil && r.hi.Sign() <= 0 {
		return b.Neg(x)
	}
	abs := IntAtLeast(new(big.Int))
	if r.lo != nil && r.hi != nil {
		hi := new(big.Int).Abs(r.lo)
		if h := new(big.Int).Abs(r.hi); h.Cmp(hi) > 0 {
			hi = h
		}
		abs = NewIntRange(new(big.Int), hi)
	}
	return b.newTerm(OpIntAbs, IntSort{}, []*Term{x}, nil, abs)
}

// IntDivisible returns the proposition that k divides x.
func (b *Builder) IntDivisible(x *Term, k *big.Int) *Term {
	b.requireSort(x, IntSort{}, "int.divisible")
	assert(k.Sign() != 0, "int.divisible by zero")
	red := b.asSum(IntRing{}, x).ReduceMod(k)
	if c, ok := red.AsConstant(); ok {
		return b.Bool(c.(bigInt).Sign() == 0)
	}
	return b.newTerm(OpIntDivisible, BoolSort{}, []*Term{b.sumTerm(red)}, cloneInt(k), Unknown)
}

// IntLe returns x <= y over the integers.
func (b *Builder) IntLe(x, y *Term) *Term {
	b.requireSort(x, IntSort{}, "int.le")
	b.requireSort(y, IntSort{}, "int.le")
	if x == y {
		return b.trueTerm
	}
	// Compare through the difference so shared affine parts cancel.
	diff := b.asSum(IntRing{}, y).Add(b.asSum(IntRing{}, x).Negate())
	if c, ok := diff.AsConstant(); ok {
		return b.Bool(c.(bigInt).Sign() >= 0)
	}
	if r := diff.abstractValue().(IntRange); r.lo != nil && r.lo.Sign() >= 0 {
		return b.trueTerm
	} else if r.hi != nil && r.hi.Sign() < 0 {
		return b.falseTerm
	}
	switch x.abs.(IntRange).CheckLeq(y.abs.(IntRange)) {
	case True:
		return b.trueTerm
	case False:
		return b.falseTerm
	}
	return b.newTerm(OpIntLe, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// IntLt returns x < y over the integers.
func (b *Builder) IntLt(x, y *Term) *Term { return b.Not(b.IntLe(y, x)) }

// IntGe returns x >= y over the integers.
func (b *Builder) IntGe(x, y *Term) *Term { return b.IntLe(y, x) }

// IntGt returns x > y over the integers.
func (b *Builder) IntGt(x, y *Term) *Term { return b.IntLt(y, x) }

// Min returns the smaller of two integer or real terms.
func (b *Builder) Min(x, y *Term) *Term {
	return b.Ite(b.le(x, y), x, y)
}

// Max returns the larger of two integer or real terms.
func (b *Builder) Max(x, y *Term) *Term {
	return b.Ite(b.le(x, y), y, x)
}

func (b *Builder) le(x, y *Term) *Term {
	switch x.sort.(type) {
	case IntSort:
		return b.IntLe(x, y)
	case RealSort:
		return b.RealLe(x, y)
	default:
		panic("assert: min/max over non-ordered sort " + x.sort.String())
	}
}

// RealLe returns x <= y over the reals.
func (b *Builder) RealLe(x, y *Term) *Term {
	b.requireSort(x, RealSort{}, "real.le")
	b.requireSort(y, RealSort{}, "real.le")
	if x == y {
		return b.trueTerm
	}
	diff := b.asSum(RealRing{}, y).Add(b.asSum(RealRing{}, x).Negate())
	if c, ok := diff.AsConstant(); ok {
		return b.Bool(c.(bigRat).Sign() >= 0)
	}
	switch x.abs.(RealRange).CheckLeq(y.abs.(RealRange)) {
	case True:
		return b.trueTerm
	case False:
		return b.falseTerm
	}
	return b.newTerm(OpRealLe, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// RealLt returns x < y over the reals.
func (b *Builder) RealLt(x, y *Term) *Term { return b.Not(b.RealLe(y, x)) }

// RealIsInt returns the proposition that a real term denotes an integer.
func (b *Builder) RealIsInt(x *Term) *Term {
	b.requireSort(x, RealSort{}, "real.is-int")
	switch x.abs.(RealRange).IsInt() {
	case True:
		return b.trueTerm
	case False:
		return b.falseTerm
	}
	return b.newTerm(OpRealIsInt, BoolSort{}, []*Term{x}, nil, Unknown)
}

// RealDiv returns the quotient of two real terms. Division by zero
// produces an unspecified well-sorted value.
func (b *Builder) RealDiv(x, y *Term) *Term {
	b.requireSort(x, RealSort{}, "real.div")
	b.requireSort(y, RealSort{}, "real.div")
	if k, ok := b.asSum(RealRing{}, y).AsConstant(); ok && k.(bigRat).Sign() != 0 {
		return b.Scale(new(big.Rat).Inv(k.(bigRat)), x)
	}
	return b.newTerm(OpRealDiv, RealSort{}, []*Term{x, y}, nil, RealRangeFull())
}

// RealSqrt returns the square root of a real term. The result for a
// negative argument is unspecified but well-sorted.
func (b *Builder) RealSqrt(x *Term) *Term {
	b.requireSort(x, RealSort{}, "real.sqrt")
	return b.newTerm(OpRealSqrt, RealSort{}, []*Term{x}, nil, RealRangeFull())
}

// RealSin returns the sine of a real term.
func (b *Builder) RealSin(x *Term) *Term {
	b.requireSort(x, RealSort{}, "real.sin")
	abs := NewRealRange(big.NewRat(-1, 1), big.NewRat(1, 1))
	return b.newTerm(OpRealSin, RealSort{}, []*Term{x}, nil, abs)
}

// RealCos returns the cosine of a real term.
func (b *Builder) RealCos(x *Term) *Term {
	b.requireSort(x, RealSort{}, "real.cos")
	abs := NewRealRange(big.NewRat(-1, 1), big.NewRat(1, 1))
	return b.newTerm(OpRealCos, RealSort{}, []*Term{x}, nil, abs)
}

// RealExp returns e raised to a real term.
func (b *Builder) RealExp(x *Term) *Term {
	b.requireSort(x, RealSort{}, "real.exp")
	abs := RealRange{lo: new(big.Rat), loOpen: true, isInt: Unknown}
	return b.newTerm(OpRealExp, RealSort{}, []*Term{x}, nil, abs)
}

// RealLog returns the natural logarithm of a real term. The result for a
// non-positive argument is unspecified.
func (b *Builder) RealLog(x *Term) *Term {
	b.requireSort(x, RealSort{}, "real.log")
	return b.newTerm(OpRealLog, RealSort{}, []*Term{x}, nil, RealRangeFull())
}

// IntToReal converts an integer term to a real term.
func (b *Builder) IntToReal(x *Term) *Term {
	b.requireSort(x, IntSort{}, "int.to-real")
	if v, ok := b.asSum(IntRing{}, x).AsConstant(); ok {
		return b.RatLitBig(new(big.Rat).SetInt(v.(bigInt)))
	}
	r := x.abs.(IntRange)
	abs := RealRange{isInt: True}
	if r.lo != nil {
		abs.lo = new(big.Rat).SetInt(r.lo)
	}
	if r.hi != nil {
		abs.hi = new(big.Rat).SetInt(r.hi)
	}
	return b.newTerm(OpIntToReal, RealSort{}, []*Term{x}, nil, abs)
}

// RealToInt converts a real term to an integer by rounding toward
// negative infinity.
func (b *Builder) RealToInt(x *Term) *Term {
	b.requireSort(x, RealSort{}, "real.to-int")
	if v, ok := b.asSum(RealRing{}, x).AsConstant(); ok {
		return b.IntLitBig(ratFloor(v.(bigRat)))
	}
	if x.op == OpIntToReal {
		return x.children[0]
	}
	r := x.abs.(RealRange)
	var abs IntRange
	if r.lo != nil {
		abs.lo = ratFloor(r.lo)
	}
	if r.hi != nil {
		abs.hi = ratFloor(r.hi)
	}
	return b.newTerm(OpRealToInt, IntSort{}, []*Term{x}, nil, abs)
}

// ratFloor returns the floor of a rational as an integer.
func ratFloor(v *big.Rat) *big.Int {
	out := new(big.Int).Div(v.Num(), v.Denom())
	return out
}
