package sym

import (
	"math/big"
)

// BVLit returns the bitvector literal v of the given width, reduced
// modulo 2^w.
func (b *Builder) BVLit(width uint, v uint64) *Term {
	return b.BVLitBig(width, new(big.Int).SetUint64(v))
}

// BVLitBig returns the bitvector literal v of the given width.
func (b *Builder) BVLitBig(width uint, v *big.Int) *Term {
	return b.sumTerm(SumConst(NewBVArithRing(width), bvTruncate(width, v)))
}

// bvWidth returns the width of a bitvector term.
func (b *Builder) bvWidth(t *Term, op string) uint {
	srt, ok := t.sort.(BVSort)
	assert(ok, "%s: operand sort mismatch: got %s, want a bitvector", op, t.sort)
	return srt.Width
}

// bvConst returns the constant value of a bitvector term, if any.
func bvConst(t *Term) (*big.Int, bool) {
	if d, ok := t.abs.(BVDomain); ok {
		return d.Singleton()
	}
	return nil, false
}

// BVAdd returns the sum of two bitvector terms mod 2^w.
func (b *Builder) BVAdd(x, y *Term) *Term { return b.Add(x, y) }

// BVSub returns the difference of two bitvector terms mod 2^w.
func (b *Builder) BVSub(x, y *Term) *Term { return b.Sub(x, y) }

// BVNeg returns the two's complement negation.
func (b *Builder) BVNeg(x *Term) *Term { return b.Neg(x) }

// BVMul returns the product of two bitvector terms mod 2^w.
func (b *Builder) BVMul(x, y *Term) *Term { return b.Mul(x, y) }

// xorRing returns the xor semiring of a term's width.
func (b *Builder) xorRing(t *Term, op string) BVXorRing {
	return NewBVXorRing(b.bvWidth(t, op))
}

// BVXor returns the bitwise xor of two bitvector terms. Xor builds sums
// over the xor ring, so x ^ x cancels to zero and x ^ 0 stays x by
// construction.
func (b *Builder) BVXor(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "bv.xor sort mismatch: %s != %s", x.sort, y.sort)
	ring := b.xorRing(x, "bv.xor")
	return b.sumTerm(b.asSum(ring, x).Add(b.asSum(ring, y)))
}

// BVNot returns the bitwise complement, expressed as xor with all ones so
// that double complements cancel through the xor ring.
func (b *Builder) BVNot(x *Term) *Term {
	w := b.bvWidth(x, "bv.not")
	return b.BVXor(x, b.BVLitBig(w, bvMask(w)))
}

// BVAnd returns the bitwise and of two bitvector terms. A constant side
// distributes over the other side's xor form, so masking is a scale of
// the xor ring; identity and annihilator masks vanish entirely.
func (b *Builder) BVAnd(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "bv.and sort mismatch: %s != %s", x.sort, y.sort)
	if x == y {
		return x
	}
	ring := b.xorRing(x, "bv.and")
	if c, ok := bvConst(y); ok {
		return b.sumTerm(b.asSum(ring, x).Scale(c))
	} else if c, ok := bvConst(x); ok {
		return b.sumTerm(b.asSum(ring, y).Scale(c))
	}
	abs := x.abs.(BVDomain).And(y.abs.(BVDomain))
	if v, ok := abs.Singleton(); ok {
		return b.BVLitBig(ring.Width, v)
	}
	if x.id > y.id {
		x, y = y, x
	}
	return b.newTerm(OpBVAnd, x.sort, []*Term{x, y}, nil, abs)
}

// BVOr returns the bitwise or of two bitvector terms. A constant side
// reduces through De Morgan to an and against a constant, which
// normalizes in the xor ring.
func (b *Builder) BVOr(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "bv.or sort mismatch: %s != %s", x.sort, y.sort)
	if x == y {
		return x
	}
	if _, ok := bvConst(y); ok {
		return b.BVNot(b.BVAnd(b.BVNot(x), b.BVNot(y)))
	} else if _, ok := bvConst(x); ok {
		return b.BVNot(b.BVAnd(b.BVNot(x), b.BVNot(y)))
	}
	abs := x.abs.(BVDomain).Or(y.abs.(BVDomain))
	if v, ok := abs.Singleton(); ok {
		return b.BVLitBig(b.bvWidth(x, "bv.or"), v)
	}
	if x.id > y.id {
		x, y = y, x
	}
	return b.newTerm(OpBVOr, x.sort, []*Term{x, y}, nil, abs)
}

// BVConcat returns the concatenation of msb above lsb.
func (b *Builder) BVConcat(msb, lsb *Term) *Term {
	mw, lw := b.bvWidth(msb, "bv.concat"), b.bvWidth(lsb, "bv.concat")
	abs := msb.abs.(BVDomain).Concat(lsb.abs.(BVDomain))
	if v, ok := abs.Singleton(); ok {
		return b.BVLitBig(mw+lw, v)
	}
	// Contiguous extracts from the same base fuse back together.
	if msb.op == OpBVExtract && lsb.op == OpBVExtract && msb.children[0] == lsb.children[0] {
		mp, lp := msb.aux.(extractPayload), lsb.aux.(extractPayload)
		if lp.offset+lp.width == mp.offset {
			return b.BVExtract(msb.children[0], lp.offset, mp.width+lp.width)
		}
	}
	return b.newTerm(OpBVConcat, BV(mw+lw), []*Term{msb, lsb}, nil, abs)
}

// BVExtract returns bits [offset, offset+width) of x.
func (b *Builder) BVExtract(x *Term, offset, width uint) *Term {
	xw := b.bvWidth(x, "bv.extract")
	assert(width > 0, "bv.extract width cannot be zero")
	assert(offset+width <= xw, "bv.extract out of bounds: %d+%d > %d", offset, width, xw)
	if width == xw {
		return x
	}
	abs := x.abs.(BVDomain).Extract(offset, width)
	if v, ok := abs.Singleton(); ok {
		return b.BVLitBig(width, v)
	}

	switch x.op {
	case OpBVConcat:
		lw := b.bvWidth(x.children[1], "bv.extract")
		// A range entirely within one piece routes to that piece.
		if offset >= lw {
			return b.BVExtract(x.children[0], offset-lw, width)
		}
		if offset+width <= lw {
			return b.BVExtract(x.children[1], offset, width)
		}
		return b.BVConcat(
			b.BVExtract(x.children[0], 0, offset+width-lw),
			b.BVExtract(x.children[1], offset, lw-offset),
		)
	case OpBVExtract:
		// Consecutive extracts from the same base collapse.
		p := x.aux.(extractPayload)
		return b.BVExtract(x.children[0], p.offset+offset, width)
	}

	return b.newTerm(OpBVExtract, BV(width), []*Term{x}, extractPayload{offset: offset, width: width}, abs)
}

// BVZext returns x zero-extended to the given width.
func (b *Builder) BVZext(x *Term, width uint) *Term {
	xw := b.bvWidth(x, "bv.zext")
	if width == xw {
		return x
	} else if width < xw {
		return b.BVExtract(x, 0, width)
	}
	abs := x.abs.(BVDomain).ZExt(width)
	if v, ok := abs.Singleton(); ok {
		return b.BVLitBig(width, v)
	}
	return b.newTerm(OpBVZext, BV(width), []*Term{x}, nil, abs)
}

// BVSext returns x sign-extended to the given width.
func (b *Builder) BVSext(x *Term, width uint) *Term {
	xw := b.bvWidth(x, "bv.sext")
	if width == xw {
		return x
	} else if width < xw {
		return b.BVExtract(x, 0, width)
	}
	abs := x.abs.(BVDomain).SExt(width)
	if v, ok := abs.Singleton(); ok {
		return b.BVLitBig(width, v)
	}
	return b.newTerm(OpBVSext, BV(width), []*Term{x}, nil, abs)
}

// BVShl returns x shifted left by y bits. A concrete amount rewrites to
// extract and concat; shifting by the width or more yields zero.
func (b *Builder) BVShl(x, y *Term) *Term {
	w := b.bvWidth(x, "bv.shl")
	assert(SortEq(x.sort, y.sort), "bv.shl sort mismatch: %s != %s", x.sort, y.sort)
	if k, ok := bvConst(y); ok {
		if k.Cmp(new(big.Int).SetUint64(uint64(w))) >= 0 {
			return b.BVLit(w, 0)
		}
		n := uint(k.Uint64())
		if n == 0 {
			return x
		}
		return b.BVConcat(b.BVExtract(x, 0, w-n), b.BVLit(n, 0))
	}
	return b.newTerm(OpBVShl, x.sort, []*Term{x, y}, nil, BVDomainFull(w))
}

// BVLshr returns x logically shifted right by y bits.
func (b *Builder) BVLshr(x, y *Term) *Term {
	w := b.bvWidth(x, "bv.lshr")
	assert(SortEq(x.sort, y.sort), "bv.lshr sort mismatch: %s != %s", x.sort, y.sort)
	if k, ok := bvConst(y); ok {
		if k.Cmp(new(big.Int).SetUint64(uint64(w))) >= 0 {
			return b.BVLit(w, 0)
		}
		n := uint(k.Uint64())
		if n == 0 {
			return x
		}
		return b.BVConcat(b.BVLit(n, 0), b.BVExtract(x, n, w-n))
	}
	abs := BVDomainRange(w, new(big.Int), x.abs.(BVDomain).hi)
	return b.newTerm(OpBVLshr, x.sort, []*Term{x, y}, nil, abs)
}

// BVAshr returns x arithmetically shifted right by y bits.
func (b *Builder) BVAshr(x, y *Term) *Term {
	w := b.bvWidth(x, "bv.ashr")
	assert(SortEq(x.sort, y.sort), "bv.ashr sort mismatch: %s != %s", x.sort, y.sort)
	if k, ok := bvConst(y); ok {
		n := uint(0)
		if k.Cmp(new(big.Int).SetUint64(uint64(w))) >= 0 {
			n = w - 1
		} else {
			n = uint(k.Uint64())
		}
		if n == 0 {
			return x
		}
		sign := b.BVTestBit(x, w-1)
		if n == w-1 {
			return b.BVFill(w, sign)
		}
		return b.BVConcat(b.BVFill(n, sign), b.BVExtract(x, n, w-n))
	}
	return b.newTerm(OpBVAshr, x.sort, []*Term{x, y}, nil, BVDomainFull(w))
}

// BVRol returns x rotated left by a concrete amount.
func (b *Builder) BVRol(x *Term, amount uint) *Term {
	w := b.bvWidth(x, "bv.rol")
	amount %= w
	if amount == 0 {
		return x
	}
	return b.BVConcat(b.BVExtract(x, 0, w-amount), b.BVExtract(x, w-amount, amount))
}

// BVRor returns x rotated right by a concrete amount.
func (b *Builder) BVRor(x *Term, amount uint) *Term {
	w := b.bvWidth(x, "bv.ror")
	return b.BVRol(x, w-amount%w)
}

// BVUdiv returns the unsigned quotient. Division by zero yields all ones,
// following SMT-LIB; the engine never aborts.
func (b *Builder) BVUdiv(x, y *Term) *Term {
	w := b.bvWidth(x, "bv.udiv")
	assert(SortEq(x.sort, y.sort), "bv.udiv sort mismatch: %s != %s", x.sort, y.sort)
	if yv, ok := bvConst(y); ok {
		if yv.Sign() == 0 {
			return b.BVLitBig(w, bvMask(w))
		}
		if yv.Cmp(big1()) == 0 {
			return x
		}
		if xv, ok := bvConst(x); ok {
			return b.BVLitBig(w, new(big.Int).Quo(xv, yv))
		}
	}
	abs := BVDomainFull(w)
	if yd := y.abs.(BVDomain); yd.lo.Sign() > 0 {
		abs = BVDomainRange(w, new(big.Int), x.abs.(BVDomain).hi)
	}
	return b.newTerm(OpBVUdiv, x.sort, []*Term{x, y}, nil, abs)
}

// BVUrem returns the unsigned remainder. The remainder by zero is the
// dividend itself, following SMT-LIB.
func (b *Builder) BVUrem(x, y *Term) *Term {
	w := b.bvWidth(x, "bv.urem")
	assert(SortEq(x.sort, y.sort), "bv.urem sort mismatch: %s != %s", x.sort, y.sort)
	if yv, ok := bvConst(y); ok {
		if yv.Sign() == 0 {
			return x
		}
		if xv, ok := bvConst(x); ok {
			return b.BVLitBig(w, new(big.Int).Rem(xv, yv))
		}
	}
	abs := BVDomainFull(w)
	if yd := y.abs.(BVDomain); yd.lo.Sign() > 0 {
		hi := new(big.Int).Sub(yd.hi, big1())
		if x.abs.(BVDomain).hi.Cmp(hi) < 0 {
			hi = x.abs.(BVDomain).hi
		}
		abs = BVDomainRange(w, new(big.Int), hi)
	}
	return b.newTerm(OpBVUrem, x.sort, []*Term{x, y}, nil, abs)
}

// bvToSigned interprets an unsigned residue as a signed value.
func bvToSigned(width uint, v *big.Int) *big.Int {
	half := new(big.Int).Lsh(big.NewInt(1), width-1)
	if v.Cmp(half) >= 0 {
		return new(big.Int).Sub(v, new(big.Int).Lsh(big.NewInt(1), width))
	}
	return new(big.Int).Set(v)
}

// BVSdiv returns the signed quotient, truncating toward zero as SMT-LIB
// does. Division by zero yields 1 or all ones depending on the sign of
// the dividend.
func (b *Builder) BVSdiv(x, y *Term) *Term {
	w := b.bvWidth(x, "bv.sdiv")
	assert(SortEq(x.sort, y.sort), "bv.sdiv sort mismatch: %s != %s", x.sort, y.sort)
	if xv, ok := bvConst(x); ok {
		if yv, ok := bvConst(y); ok {
			sx, sy := bvToSigned(w, xv), bvToSigned(w, yv)
			if sy.Sign() == 0 {
				if sx.Sign() < 0 {
					return b.BVLit(w, 1)
				}
				return b.BVLitBig(w, bvMask(w))
			}
			return b.BVLitBig(w, new(big.Int).Quo(sx, sy))
		}
	}
	return b.newTerm(OpBVSdiv, x.sort, []*Term{x, y}, nil, BVDomainFull(w))
}

// BVSrem returns the signed remainder with the sign of the dividend.
func (b *Builder) BVSrem(x, y *Term) *Term {
	w := b.bvWidth(x, "bv.srem")
	assert(SortEq(x.sort, y.sort), "bv.srem sort mismatch: %s != %s", x.sort, y.sort)
	if xv, ok := bvConst(x); ok {
		if yv, ok := bvConst(y); ok {
			sx, sy := bvToSigned(w, xv), bvToSigned(w, yv)
			if sy.Sign() == 0 {
				return x
			}
			return b.BVLitBig(w, new(big.Int).Rem(sx, sy))
		}
	}
	return b.newTerm(OpBVSrem, x.sort, []*Term{x, y}, nil, BVDomainFull(w))
}

// BVUlt returns the unsigned x < y, deciding through the arithmetic
// domains first.
func (b *Builder) BVUlt(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "bv.ult sort mismatch: %s != %s", x.sort, y.sort)
	if x == y {
		return b.falseTerm
	}
	switch x.abs.(BVDomain).CheckUlt(y.abs.(BVDomain)) {
	case True:
		return b.trueTerm
	case False:
		return b.falseTerm
	}
	return b.newTerm(OpBVUlt, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// BVUle returns the unsigned x <= y.
func (b *Builder) BVUle(x, y *Term) *Term { return b.Not(b.BVUlt(y, x)) }

// BVSlt returns the signed x < y.
func (b *Builder) BVSlt(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "bv.slt sort mismatch: %s != %s", x.sort, y.sort)
	if x == y {
		return b.falseTerm
	}
	switch x.abs.(BVDomain).CheckSlt(y.abs.(BVDomain)) {
	case True:
		return b.trueTerm
	case False:
		return b.falseTerm
	}
	return b.newTerm(OpBVSlt, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// BVSle returns the signed x <= y.
func (b *Builder) BVSle(x, y *Term) *Term { return b.Not(b.BVSlt(y, x)) }

// BVTestBit returns the proposition that bit i of x is set.
func (b *Builder) BVTestBit(x *Term, i uint) *Term {
	w := b.bvWidth(x, "bv.test-bit")
	assert(i < w, "bv.test-bit out of bounds: %d >= %d", i, w)
	switch x.abs.(BVDomain).TestBit(i) {
	case True:
		return b.trueTerm
	case False:
		return b.falseTerm
	}
	return b.newTerm(OpBVTestBit, BoolSort{}, []*Term{x}, i, Unknown)
}

// BVPopcount returns the number of set bits, as a bitvector of the same
// width.
func (b *Builder) BVPopcount(x *Term) *Term {
	w := b.bvWidth(x, "bv.popcount")
	if v, ok := bvConst(x); ok {
		n := 0
		for _, word := range v.Bits() {
			for ; word != 0; word &= word - 1 {
				n++
			}
		}
		return b.BVLit(w, uint64(n))
	}
	abs := BVDomainRange(w, new(big.Int), new(big.Int).SetUint64(uint64(w)))
	return b.newTerm(OpBVPopcount, x.sort, []*Term{x}, nil, abs)
}

// BVClz returns the count of leading zero bits.
func (b *Builder) BVClz(x *Term) *Term {
	w := b.bvWidth(x, "bv.clz")
	if v, ok := bvConst(x); ok {
		return b.BVLit(w, uint64(int(w)-v.BitLen()))
	}
	abs := BVDomainRange(w, new(big.Int), new(big.Int).SetUint64(uint64(w)))
	return b.newTerm(OpBVClz, x.sort, []*Term{x}, nil, abs)
}

// BVCtz returns the count of trailing zero bits.
func (b *Builder) BVCtz(x *Term) *Term {
	w := b.bvWidth(x, "bv.ctz")
	if v, ok := bvConst(x); ok {
		if v.Sign() == 0 {
			return b.BVLit(w, uint64(w))
		}
		n := uint64(0)
		for v.Bit(int(n)) == 0 {
			n++
		}
		return b.BVLit(w, n)
	}
	abs := BVDomainRange(w, new(big.Int), new(big.Int).SetUint64(uint64(w)))
	return b.newTerm(OpBVCtz, x.sort, []*Term{x}, nil, abs)
}

// BVFill returns the bitvector whose every bit is the boolean p.
func (b *Builder) BVFill(width uint, p *Term) *Term {
	b.requireSort(p, BoolSort{}, "bv.fill")
	if b.isTrue(p) {
		return b.BVLitBig(width, bvMask(width))
	} else if b.isFalse(p) {
		return b.BVLit(width, 0)
	}
	return b.newTerm(OpBVFill, BV(width), []*Term{p}, nil, BVDomainFull(width))
}

// BVSet returns x with bit i replaced by the boolean p, expressed as
// (x and not mask) xor (fill(p) and mask) so stacked sets at the same bit
// cancel through the xor ring.
func (b *Builder) BVSet(x *Term, i uint, p *Term) *Term {
	w := b.bvWidth(x, "bv.set")
	assert(i < w, "bv.set out of bounds: %d >= %d", i, w)
	mask := new(big.Int).Lsh(big.NewInt(1), i)
	cleared := b.BVAnd(x, b.BVLitBig(w, new(big.Int).AndNot(bvMask(w), mask)))
	bit := b.BVAnd(b.BVFill(w, p), b.BVLitBig(w, mask))
	return b.BVXor(cleared, bit)
}

// BoolToBV returns the 1-bit vector carrying a proposition.
func (b *Builder) BoolToBV(p *Term) *Term {
	return b.Ite(p, b.BVLit(1, 1), b.BVLit(1, 0))
}

// BVToInt returns the unsigned integer value of a bitvector term.
func (b *Builder) BVToInt(x *Term) *Term {
	d := x.abs.(BVDomain)
	if v, ok := d.Singleton(); ok {
		return b.IntLitBig(v)
	}
	return b.newTerm(OpBVToInt, IntSort{}, []*Term{x}, nil, NewIntRange(d.lo, d.hi))
}

// IntToBV returns the bitvector of the given width holding x mod 2^w.
func (b *Builder) IntToBV(x *Term, width uint) *Term {
	b.requireSort(x, IntSort{}, "int.to-bv")
	if v, ok := b.asSum(IntRing{}, x).AsConstant(); ok {
		return b.BVLitBig(width, v.(bigInt))
	}
	abs := BVDomainFull(width)
	if r := x.abs.(IntRange); r.lo != nil && r.hi != nil &&
		r.lo.Sign() >= 0 && r.hi.Cmp(bvMask(width)) <= 0 {
		abs = BVDomainRange(width, r.lo, r.hi)
	}
	return b.newTerm(OpIntToBV, BV(width), []*Term{x}, nil, abs)
}
