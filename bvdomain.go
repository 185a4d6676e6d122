package sym

import (
	"fmt"
	"math/big"
)

// BVDomain is the abstract domain of a fixed-width bitvector. It carries
// two refinements at once: a bitwise view (masks of bits known to be zero
// or one) and an unsigned arithmetic interval modulo 2^w. Operators use
// whichever view is tighter, and each view is re-derived from the other
// after every operation.
type BVDomain struct {
	width     uint
	knownZero *big.Int // bits known to be 0 in every value
	knownOne  *big.Int // bits known to be 1 in every value
	lo, hi    *big.Int // unsigned interval, 0 <= lo <= hi < 2^w
}

// BVDomainFull returns the domain of all w-bit values.
func BVDomainFull(width uint) BVDomain {
	return BVDomain{
		width:     width,
		knownZero: new(big.Int),
		knownOne:  new(big.Int),
		lo:        new(big.Int),
		hi:        bvMask(width),
	}
}

// BVSingleton returns the domain containing exactly v (reduced mod 2^w).
func BVSingleton(width uint, v *big.Int) BVDomain {
	v = bvTruncate(width, v)
	return BVDomain{
		width:     width,
		knownZero: new(big.Int).AndNot(bvMask(width), v),
		knownOne:  new(big.Int).Set(v),
		lo:        new(big.Int).Set(v),
		hi:        new(big.Int).Set(v),
	}
}

// BVDomainRange returns the domain of the unsigned interval [lo, hi].
func BVDomainRange(width uint, lo, hi *big.Int) BVDomain {
	lo, hi = bvTruncate(width, lo), bvTruncate(width, hi)
	assert(lo.Cmp(hi) <= 0, "invalid bv range: [%s, %s]", lo, hi)
	d := BVDomain{
		width:     width,
		knownZero: new(big.Int),
		knownOne:  new(big.Int),
		lo:        lo,
		hi:        hi,
	}
	d.normalize()
	return d
}

// bvMask returns 2^w - 1.
func bvMask(width uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), width)
	return m.Sub(m, big.NewInt(1))
}

// bvTruncate reduces v modulo 2^w, yielding a non-negative value. A
// negative v masks through big.Int's two's complement bit semantics.
func bvTruncate(width uint, v *big.Int) *big.Int {
	return new(big.Int).And(v, bvMask(width))
}

// Width returns the bit width of the domain.
func (d BVDomain) Width() uint { return d.width }

func (d BVDomain) String() string {
	return fmt.Sprintf("bv%d{[%s, %s] 0s=%x 1s=%x}", d.width, d.lo, d.hi, d.knownZero, d.knownOne)
}

// normalize reconciles the bitwise and interval views, tightening each
// from the other. Must leave the domain sound.
func (d *BVDomain) normalize() {
	// Every value has the known ones set and the known zeros clear, so
	// the mask-derived bounds constrain the interval.
	maskLo := d.knownOne
	maskHi := new(big.Int).AndNot(bvMask(d.width), d.knownZero)
	if d.lo.Cmp(maskLo) < 0 {
		d.lo = new(big.Int).Set(maskLo)
	}
	if d.hi.Cmp(maskHi) > 0 {
		d.hi = new(big.Int).Set(maskHi)
	}
	if d.lo.Cmp(d.hi) > 0 {
		// The two views can only disagree transiently when a caller has
		// over-tightened one of them; fall back to the bitwise bounds.
		d.lo, d.hi = maskLo, maskHi
	}
	// A pinned interval pins every bit. More generally, the bits above
	// the highest differing bit of lo and hi are common to all values.
	diff := new(big.Int).Xor(d.lo, d.hi)
	n := uint(diff.BitLen())
	common := new(big.Int).Rsh(d.lo, n)
	common.Lsh(common, n)
	lowMask := bvMask(n)
	one := new(big.Int).AndNot(common, lowMask)
	zero := new(big.Int).AndNot(bvMask(d.width), new(big.Int).Or(common, lowMask))
	d.knownOne = new(big.Int).Or(d.knownOne, one)
	d.knownZero = new(big.Int).Or(d.knownZero, zero)
}

// Singleton returns the unique value of the domain, if any.
func (d BVDomain) Singleton() (*big.Int, bool) {
	if d.lo.Cmp(d.hi) == 0 {
		return new(big.Int).Set(d.lo), true
	}
	return nil, false
}

// IsSingleton reports whether the domain contains exactly one value.
func (d BVDomain) IsSingleton() bool {
	return d.lo.Cmp(d.hi) == 0
}

// Join returns the component-wise join of the two views.
func (d BVDomain) Join(other AbstractValue) AbstractValue {
	o := other.(BVDomain)
	assert(d.width == o.width, "bv join width mismatch: %d != %d", d.width, o.width)
	out := BVDomain{
		width:     d.width,
		knownZero: new(big.Int).And(d.knownZero, o.knownZero),
		knownOne:  new(big.Int).And(d.knownOne, o.knownOne),
		lo:        minInt(d.lo, o.lo),
		hi:        maxInt(d.hi, o.hi),
	}
	out.normalize()
	return out
}

func minInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func maxInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// Overlaps reports whether the two domains can denote a common value.
func (d BVDomain) Overlaps(other BVDomain) bool {
	if d.hi.Cmp(other.lo) < 0 || d.lo.Cmp(other.hi) > 0 {
		return false
	}
	// A bit known one on one side and known zero on the other rules out
	// any shared value.
	if new(big.Int).And(d.knownOne, other.knownZero).Sign() != 0 {
		return false
	}
	if new(big.Int).And(d.knownZero, other.knownOne).Sign() != 0 {
		return false
	}
	return true
}

// CheckEq compares two domains.
func (d BVDomain) CheckEq(other AbstractValue) Tristate {
	o := other.(BVDomain)
	if v, ok := d.Singleton(); ok {
		if w, ok := o.Singleton(); ok {
			return TristateOf(v.Cmp(w) == 0)
		}
	}
	if !d.Overlaps(o) {
		return False
	}
	return Unknown
}

// CheckUlt returns True when every value of d is unsigned-below every
// value of other, False when none is, and Unknown otherwise.
func (d BVDomain) CheckUlt(other BVDomain) Tristate {
	if d.hi.Cmp(other.lo) < 0 {
		return True
	}
	if d.lo.Cmp(other.hi) >= 0 {
		return False
	}
	return Unknown
}

// signedBounds returns the signed interval of the domain, conservative
// when the unsigned interval straddles the sign boundary.
func (d BVDomain) signedBounds() (*big.Int, *big.Int) {
	half := new(big.Int).Lsh(big.NewInt(1), d.width-1)
	modulus := new(big.Int).Lsh(big.NewInt(1), d.width)
	if d.hi.Cmp(half) < 0 { // entirely non-negative
		return new(big.Int).Set(d.lo), new(big.Int).Set(d.hi)
	}
	if d.lo.Cmp(half) >= 0 { // entirely negative
		return new(big.Int).Sub(d.lo, modulus), new(big.Int).Sub(d.hi, modulus)
	}
	return new(big.Int).Neg(half), new(big.Int).Sub(half, big.NewInt(1))
}

// CheckSlt returns True when every value of d is signed-below every value
// of other.
func (d BVDomain) CheckSlt(other BVDomain) Tristate {
	dlo, dhi := d.signedBounds()
	olo, ohi := other.signedBounds()
	if dhi.Cmp(olo) < 0 {
		return True
	}
	if dlo.Cmp(ohi) >= 0 {
		return False
	}
	return Unknown
}

// TestBit returns the tristate of bit i across the domain.
func (d BVDomain) TestBit(i uint) Tristate {
	if d.knownOne.Bit(int(i)) == 1 {
		return True
	}
	if d.knownZero.Bit(int(i)) == 1 {
		return False
	}
	return Unknown
}

// Add returns the sum domain mod 2^w.
func (d BVDomain) Add(other BVDomain) BVDomain {
	assert(d.width == other.width, "bv add width mismatch: %d != %d", d.width, other.width)
	lo := new(big.Int).Add(d.lo, other.lo)
	hi := new(big.Int).Add(d.hi, other.hi)
	if hi.Cmp(bvMask(d.width)) <= 0 {
		return BVDomainRange(d.width, lo, hi)
	}
	// Wrapped. When both endpoints wrap the interval stays contiguous.
	if lo.Cmp(bvMask(d.width)) > 0 {
		return BVDomainRange(d.width, bvTruncate(d.width, lo), bvTruncate(d.width, hi))
	}
	return BVDomainFull(d.width)
}

// Neg returns the negation domain mod 2^w.
func (d BVDomain) Neg() BVDomain {
	if v, ok := d.Singleton(); ok {
		return BVSingleton(d.width, new(big.Int).Neg(v))
	}
	if d.lo.Sign() > 0 {
		// [-hi, -lo] stays contiguous when zero is excluded.
		m := new(big.Int).Lsh(big.NewInt(1), d.width)
		return BVDomainRange(d.width, new(big.Int).Sub(m, d.hi), new(big.Int).Sub(m, d.lo))
	}
	return BVDomainFull(d.width)
}

// Scale returns the domain multiplied by a constant mod 2^w.
func (d BVDomain) Scale(c *big.Int) BVDomain {
	c = bvTruncate(d.width, c)
	if c.Sign() == 0 {
		return BVSingleton(d.width, new(big.Int))
	}
	if v, ok := d.Singleton(); ok {
		return BVSingleton(d.width, new(big.Int).Mul(v, c))
	}
	hi := new(big.Int).Mul(d.hi, c)
	if hi.Cmp(bvMask(d.width)) <= 0 {
		return BVDomainRange(d.width, new(big.Int).Mul(d.lo, c), hi)
	}
	return BVDomainFull(d.width)
}

// Mul returns the product domain mod 2^w.
func (d BVDomain) Mul(other BVDomain) BVDomain {
	if v, ok := d.Singleton(); ok {
		return other.Scale(v)
	}
	if v, ok := other.Singleton(); ok {
		return d.Scale(v)
	}
	hi := new(big.Int).Mul(d.hi, other.hi)
	if hi.Cmp(bvMask(d.width)) <= 0 {
		return BVDomainRange(d.width, new(big.Int).Mul(d.lo, other.lo), hi)
	}
	return BVDomainFull(d.width)
}

// And returns the bitwise-AND domain.
func (d BVDomain) And(other BVDomain) BVDomain {
	out := BVDomain{
		width:     d.width,
		knownZero: new(big.Int).Or(d.knownZero, other.knownZero),
		knownOne:  new(big.Int).And(d.knownOne, other.knownOne),
	}
	out.lo = new(big.Int).Set(out.knownOne)
	out.hi = minInt(d.hi, other.hi)
	out.normalize()
	return out
}

// Or returns the bitwise-OR domain.
func (d BVDomain) Or(other BVDomain) BVDomain {
	out := BVDomain{
		width:     d.width,
		knownZero: new(big.Int).And(d.knownZero, other.knownZero),
		knownOne:  new(big.Int).Or(d.knownOne, other.knownOne),
	}
	out.lo = maxInt(d.lo, other.lo)
	out.hi = new(big.Int).AndNot(bvMask(d.width), out.knownZero)
	out.normalize()
	return out
}

// Xor returns the bitwise-XOR domain.
func (d BVDomain) Xor(other BVDomain) BVDomain {
	out := BVDomain{
		width:     d.width,
		knownZero: new(big.Int).Or(new(big.Int).And(d.knownZero, other.knownZero), new(big.Int).And(d.knownOne, other.knownOne)),
		knownOne:  new(big.Int).Or(new(big.Int).And(d.knownZero, other.knownOne), new(big.Int).And(d.knownOne, other.knownZero)),
	}
	out.lo = new(big.Int).Set(out.knownOne)
	out.hi = new(big.Int).AndNot(bvMask(d.width), out.knownZero)
	out.normalize()
	return out
}

// Not returns the bitwise complement domain.
func (d BVDomain) Not() BVDomain {
	mask := bvMask(d.width)
	out := BVDomain{
		width:     d.width,
		knownZero: new(big.Int).Set(d.knownOne),
		knownOne:  new(big.Int).Set(d.knownZero),
		lo:        new(big.Int).Sub(mask, d.hi),
		hi:        new(big.Int).Sub(mask, d.lo),
	}
	out.normalize()
	return out
}

// Shl returns the domain shifted left by a constant amount.
func (d BVDomain) Shl(amount uint) BVDomain {
	if amount >= d.width {
		return BVSingleton(d.width, new(big.Int))
	}
	hi := new(big.Int).Lsh(d.hi, amount)
	if hi.Cmp(bvMask(d.width)) <= 0 {
		return BVDomainRange(d.width, new(big.Int).Lsh(d.lo, amount), hi)
	}
	out := BVDomain{
		width:     d.width,
		knownZero: new(big.Int).Or(bvTruncate(d.width, new(big.Int).Lsh(d.knownZero, amount)), bvMask(amount)),
		knownOne:  bvTruncate(d.width, new(big.Int).Lsh(d.knownOne, amount)),
		lo:        new(big.Int),
		hi:        bvMask(d.width),
	}
	out.normalize()
	return out
}

// Lshr returns the domain logically shifted right by a constant amount.
func (d BVDomain) Lshr(amount uint) BVDomain {
	if amount >= d.width {
		return BVSingleton(d.width, new(big.Int))
	}
	return BVDomainRange(d.width, new(big.Int).Rsh(d.lo, amount), new(big.Int).Rsh(d.hi, amount))
}

// Concat returns the domain of d concatenated above other.
func (d BVDomain) Concat(other BVDomain) BVDomain {
	w := d.width + other.width
	out := BVDomain{
		width:     w,
		knownZero: new(big.Int).Or(new(big.Int).Lsh(d.knownZero, other.width), other.knownZero),
		knownOne:  new(big.Int).Or(new(big.Int).Lsh(d.knownOne, other.width), other.knownOne),
		lo:        new(big.Int).Or(new(big.Int).Lsh(d.lo, other.width), other.lo),
		hi:        new(big.Int).Or(new(big.Int).Lsh(d.hi, other.width), other.hi),
	}
	out.normalize()
	return out
}

// Extract returns the domain of bits [offset, offset+width).
func (d BVDomain) Extract(offset, width uint) BVDomain {
	assert(offset+width <= d.width, "bv extract out of bounds: %d+%d > %d", offset, width, d.width)
	mask := bvMask(width)
	out := BVDomain{
		width:     width,
		knownZero: new(big.Int).And(new(big.Int).Rsh(d.knownZero, offset), mask),
		knownOne:  new(big.Int).And(new(big.Int).Rsh(d.knownOne, offset), mask),
		lo:        new(big.Int),
		hi:        new(big.Int).Set(mask),
	}
	if offset == 0 && d.hi.Cmp(mask) <= 0 {
		out.lo, out.hi = new(big.Int).Set(d.lo), new(big.Int).Set(d.hi)
	}
	out.normalize()
	return out
}

// ZExt returns the domain zero-extended to the given width.
func (d BVDomain) ZExt(width uint) BVDomain {
	assert(width >= d.width, "bv zext narrows: %d < %d", width, d.width)
	highZero := new(big.Int).Lsh(bvMask(width-d.width), d.width)
	out := BVDomain{
		width:     width,
		knownZero: new(big.Int).Or(d.knownZero, highZero),
		knownOne:  new(big.Int).Set(d.knownOne),
		lo:        new(big.Int).Set(d.lo),
		hi:        new(big.Int).Set(d.hi),
	}
	out.normalize()
	return out
}

// SExt returns the domain sign-extended to the given width.
func (d BVDomain) SExt(width uint) BVDomain {
	assert(width >= d.width, "bv sext narrows: %d < %d", width, d.width)
	high := new(big.Int).Lsh(bvMask(width-d.width), d.width)
	out := BVDomainFull(width)
	switch d.TestBit(d.width - 1) {
	case False:
		return d.ZExt(width)
	case True:
		out.knownZero = new(big.Int).Set(d.knownZero)
		out.knownOne = new(big.Int).Or(d.knownOne, high)
	default:
		out.knownZero = new(big.Int).And(d.knownZero, bvMask(d.width-1))
		out.knownOne = new(big.Int).And(d.knownOne, bvMask(d.width-1))
	}
	out.normalize()
	return out
}
