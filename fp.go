package sym

import (
	"math"
	"math/big"
)

// floatRat returns the exact rational value of a finite float.
func floatRat(v float64) *big.Rat {
	return new(big.Rat).SetFloat64(v)
}

// fpFoldable reports whether a float sort folds through hardware
// arithmetic. Other precisions construct opaque nodes only.
func fpFoldable(sort FloatSort) bool {
	return sort == Float32Sort || sort == Float64Sort
}

// fpRound quantizes v to the precision of sort.
func fpRound(sort FloatSort, v float64) float64 {
	if sort == Float32Sort {
		return float64(float32(v))
	}
	return v
}

// FloatLit returns a float literal at one of the hardware precisions.
func (b *Builder) FloatLit(sort FloatSort, v float64) *Term {
	assert(fpFoldable(sort), "float literal requires a hardware precision, got %s", sort)
	return b.newTerm(OpFloatLit, sort, nil, fpRound(sort, v), FloatValue{})
}

// fpConst returns the literal value of a float term, if any.
func fpConst(t *Term) (float64, bool) {
	if t.op == OpFloatLit {
		return t.aux.(float64), true
	}
	return 0, false
}

func (b *Builder) fpSort(t *Term, op string) FloatSort {
	srt, ok := t.sort.(FloatSort)
	assert(ok, "%s: operand sort mismatch: got %s, want a float", op, t.sort)
	return srt
}

// fpBinary folds a rounded binary operation when both operands are
// literals and the mode is round-nearest-even, the rounding the hardware
// performs.
func (b *Builder) fpBinary(op Op, mode RoundingMode, x, y *Term, fold func(a, c float64) float64) *Term {
	srt := b.fpSort(x, op.String())
	assert(SortEq(x.sort, y.sort), "%s sort mismatch: %s != %s", op, x.sort, y.sort)
	if mode == RoundNearestEven && fpFoldable(srt) {
		if xv, ok := fpConst(x); ok {
			if yv, ok := fpConst(y); ok {
				return b.FloatLit(srt, fold(xv, yv))
			}
		}
	}
	return b.newTerm(op, srt, []*Term{x, y}, fpPayload{mode: mode}, FloatValue{})
}

// FPAdd returns the rounded sum of two float terms.
func (b *Builder) FPAdd(mode RoundingMode, x, y *Term) *Term {
	return b.fpBinary(OpFPAdd, mode, x, y, func(a, c float64) float64 { return a + c })
}

// FPSub returns the rounded difference of two float terms.
func (b *Builder) FPSub(mode RoundingMode, x, y *Term) *Term {
	return b.fpBinary(OpFPSub, mode, x, y, func(a, c float64) float64 { return a - c })
}

// FPMul returns the rounded product of two float terms.
func (b *Builder) FPMul(mode RoundingMode, x, y *Term) *Term {
	return b.fpBinary(OpFPMul, mode, x, y, func(a, c float64) float64 { return a * c })
}

// FPDiv returns the rounded quotient of two float terms. Division by zero
// follows IEEE-754 and yields an infinity or NaN.
func (b *Builder) FPDiv(mode RoundingMode, x, y *Term) *Term {
	return b.fpBinary(OpFPDiv, mode, x, y, func(a, c float64) float64 { return a / c })
}

// FPRem returns the IEEE remainder of two float terms.
func (b *Builder) FPRem(x, y *Term) *Term {
	return b.fpBinary(OpFPRem, RoundNearestEven, x, y, math.Remainder)
}

// FPMin returns the smaller operand, preferring the other side on NaN.
func (b *Builder) FPMin(x, y *Term) *Term {
	return b.fpBinary(OpFPMin, RoundNearestEven, x, y, func(a, c float64) float64 {
		if math.IsNaN(a) {
			return c
		} else if math.IsNaN(c) {
			return a
		}
		return math.Min(a, c)
	})
}

// FPMax returns the larger operand, preferring the other side on NaN.
func (b *Builder) FPMax(x, y *Term) *Term {
	return b.fpBinary(OpFPMax, RoundNearestEven, x, y, func(a, c float64) float64 {
		if math.IsNaN(a) {
			return c
		} else if math.IsNaN(c) {
			return a
		}
		return math.Max(a, c)
	})
}

// FPSqrt returns the rounded square root. A negative operand yields NaN.
func (b *Builder) FPSqrt(mode RoundingMode, x *Term) *Term {
	srt := b.fpSort(x, "fp.sqrt")
	if mode == RoundNearestEven && fpFoldable(srt) {
		if v, ok := fpConst(x); ok {
			return b.FloatLit(srt, math.Sqrt(v))
		}
	}
	return b.newTerm(OpFPSqrt, srt, []*Term{x}, fpPayload{mode: mode}, FloatValue{})
}

// FPFMA returns the fused multiply-add x*y + z with a single rounding.
func (b *Builder) FPFMA(mode RoundingMode, x, y, z *Term) *Term {
	srt := b.fpSort(x, "fp.fma")
	assert(SortEq(x.sort, y.sort) && SortEq(x.sort, z.sort), "fp.fma sort mismatch")
	if mode == RoundNearestEven && fpFoldable(srt) {
		if xv, ok := fpConst(x); ok {
			if yv, ok := fpConst(y); ok {
				if zv, ok := fpConst(z); ok {
					return b.FloatLit(srt, math.FMA(xv, yv, zv))
				}
			}
		}
	}
	return b.newTerm(OpFPFMA, srt, []*Term{x, y, z}, fpPayload{mode: mode}, FloatValue{})
}

// FPNeg returns the negation of a float term. Negation is exact; double
// negation cancels.
func (b *Builder) FPNeg(x *Term) *Term {
	srt := b.fpSort(x, "fp.neg")
	if v, ok := fpConst(x); ok {
		return b.FloatLit(srt, -v)
	}
	if x.op == OpFPNeg {
		return x.children[0]
	}
	return b.newTerm(OpFPNeg, srt, []*Term{x}, nil, FloatValue{})
}

// FPAbs returns the absolute value of a float term.
func (b *Builder) FPAbs(x *Term) *Term {
	srt := b.fpSort(x, "fp.abs")
	if v, ok := fpConst(x); ok {
		return b.FloatLit(srt, math.Abs(v))
	}
	if x.op == OpFPAbs {
		return x
	}
	if x.op == OpFPNeg {
		return b.FPAbs(x.children[0])
	}
	return b.newTerm(OpFPAbs, srt, []*Term{x}, nil, FloatValue{})
}

// FPRound rounds a float term to an integral value in the given mode.
func (b *Builder) FPRound(mode RoundingMode, x *Term) *Term {
	srt := b.fpSort(x, "fp.round")
	if v, ok := fpConst(x); ok && fpFoldable(srt) {
		var out float64
		switch mode {
		case RoundNearestEven:
			out = math.RoundToEven(v)
		case RoundNearestAway:
			out = math.Round(v)
		case RoundTowardPositive:
			out = math.Ceil(v)
		case RoundTowardNegative:
			out = math.Floor(v)
		case RoundTowardZero:
			out = math.Trunc(v)
		}
		return b.FloatLit(srt, out)
	}
	return b.newTerm(OpFPRound, srt, []*Term{x}, fpPayload{mode: mode}, FloatValue{})
}

// fpPredicate folds a unary float predicate over literals.
func (b *Builder) fpPredicate(op Op, x *Term, fold func(v float64) bool) *Term {
	b.fpSort(x, op.String())
	if v, ok := fpConst(x); ok {
		return b.Bool(fold(v))
	}
	return b.newTerm(op, BoolSort{}, []*Term{x}, nil, Unknown)
}

// FPIsNaN returns the proposition that x is a NaN.
func (b *Builder) FPIsNaN(x *Term) *Term {
	return b.fpPredicate(OpFPIsNaN, x, math.IsNaN)
}

// FPIsInf returns the proposition that x is an infinity.
func (b *Builder) FPIsInf(x *Term) *Term {
	return b.fpPredicate(OpFPIsInf, x, func(v float64) bool { return math.IsInf(v, 0) })
}

// FPIsZero returns the proposition that x is a (signed) zero.
func (b *Builder) FPIsZero(x *Term) *Term {
	return b.fpPredicate(OpFPIsZero, x, func(v float64) bool { return v == 0 })
}

// FPIsNeg returns the proposition that x carries a negative sign.
func (b *Builder) FPIsNeg(x *Term) *Term {
	return b.fpPredicate(OpFPIsNeg, x, math.Signbit)
}

// FPLe returns the IEEE ordered x <= y; false when either side is NaN.
func (b *Builder) FPLe(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "fp.le sort mismatch: %s != %s", x.sort, y.sort)
	if xv, ok := fpConst(x); ok {
		if yv, ok := fpConst(y); ok {
			return b.Bool(xv <= yv)
		}
	}
	return b.newTerm(OpFPLe, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// FPLt returns the IEEE ordered x < y; false when either side is NaN.
func (b *Builder) FPLt(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "fp.lt sort mismatch: %s != %s", x.sort, y.sort)
	if xv, ok := fpConst(x); ok {
		if yv, ok := fpConst(y); ok {
			return b.Bool(xv < yv)
		}
	}
	return b.newTerm(OpFPLt, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// FPToFP converts a float term to another float sort.
func (b *Builder) FPToFP(mode RoundingMode, x *Term, sort FloatSort) *Term {
	srt := b.fpSort(x, "fp.to-fp")
	if srt == sort {
		return x
	}
	if v, ok := fpConst(x); ok && fpFoldable(sort) && mode == RoundNearestEven {
		return b.FloatLit(sort, v)
	}
	return b.newTerm(OpFPToFP, sort, []*Term{x}, fpPayload{mode: mode}, FloatValue{})
}

// FPToReal converts a float term to its exact rational value. The result
// for a NaN or infinity is unspecified.
func (b *Builder) FPToReal(x *Term) *Term {
	b.fpSort(x, "fp.to-real")
	if v, ok := fpConst(x); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return b.RatLitBig(floatRat(v))
	}
	return b.newTerm(OpFPToReal, RealSort{}, []*Term{x}, nil, RealRangeFull())
}

// RealToFP converts a real term to a float sort under a rounding mode.
func (b *Builder) RealToFP(mode RoundingMode, x *Term, sort FloatSort) *Term {
	b.requireSort(x, RealSort{}, "real.to-fp")
	if v, ok := b.asSum(RealRing{}, x).AsConstant(); ok && fpFoldable(sort) && mode == RoundNearestEven {
		f, _ := v.(bigRat).Float64()
		return b.FloatLit(sort, f)
	}
	return b.newTerm(OpRealToFP, sort, []*Term{x}, fpPayload{mode: mode}, FloatValue{})
}

// FPToBV returns the IEEE-754 bit encoding of a float term.
func (b *Builder) FPToBV(x *Term) *Term {
	srt := b.fpSort(x, "fp.to-bv")
	width := srt.EB + srt.SB
	if v, ok := fpConst(x); ok {
		if srt == Float32Sort {
			return b.BVLit(width, uint64(math.Float32bits(float32(v))))
		}
		return b.BVLit(width, math.Float64bits(v))
	}
	return b.newTerm(OpFPToBV, BV(width), []*Term{x}, nil, BVDomainFull(width))
}

// BVToFP reinterprets a bitvector term as the float of matching width.
func (b *Builder) BVToFP(x *Term, sort FloatSort) *Term {
	w := b.bvWidth(x, "bv.to-fp")
	assert(w == sort.EB+sort.SB, "bv.to-fp width mismatch: %d != %d", w, sort.EB+sort.SB)
	if v, ok := bvConst(x); ok && fpFoldable(sort) {
		if sort == Float32Sort {
			return b.FloatLit(sort, float64(math.Float32frombits(uint32(v.Uint64()))))
		}
		return b.FloatLit(sort, math.Float64frombits(v.Uint64()))
	}
	return b.newTerm(OpBVToFP, sort, []*Term{x}, nil, FloatValue{})
}
