package sym

import (
	"fmt"
	"math/big"
)

// Coeff is a scalar of one of the semirings. Integer and bitvector rings
// use *big.Int, the real ring uses *big.Rat.
type Coeff interface{}

// Scalar shorthands used when downcasting coefficients.
type (
	bigInt = *big.Int
	bigRat = *big.Rat
)

// newBigMod returns the SMT-LIB euclidean remainder, 0 <= r < |m|.
func newBigMod(a, m *big.Int) *big.Int {
	return new(big.Int).Mod(a, m)
}

func big1() *big.Int { return big.NewInt(1) }
func rat1() *big.Rat { return big.NewRat(1, 1) }

// Semiring supplies the scalar operations the weighted-sum and product
// representations rely on. Four instances exist: the integers, the
// rationals, bitvector arithmetic mod 2^w, and the bitvector xor ring
// (where addition is xor and multiplication is bitwise and).
type Semiring interface {
	fmt.Stringer

	Zero() Coeff
	One() Coeff
	Add(a, b Coeff) Coeff
	Mul(a, b Coeff) Coeff
	Neg(a Coeff) Coeff
	IsZero(a Coeff) bool
	IsOne(a Coeff) bool
	Eq(a, b Coeff) bool
	Hash(a Coeff) uint64

	// Idempotent reports whether multiplication is idempotent (x·x = x),
	// in which case product occurrence counts collapse to one.
	Idempotent() bool
}

// IntRing is the semiring of mathematical integers.
type IntRing struct{}

func (IntRing) String() string       { return "Int" }
func (IntRing) Zero() Coeff          { return new(big.Int) }
func (IntRing) One() Coeff           { return big.NewInt(1) }
func (IntRing) Add(a, b Coeff) Coeff { return new(big.Int).Add(a.(*big.Int), b.(*big.Int)) }
func (IntRing) Mul(a, b Coeff) Coeff { return new(big.Int).Mul(a.(*big.Int), b.(*big.Int)) }
func (IntRing) Neg(a Coeff) Coeff    { return new(big.Int).Neg(a.(*big.Int)) }
func (IntRing) IsZero(a Coeff) bool  { return a.(*big.Int).Sign() == 0 }
func (IntRing) IsOne(a Coeff) bool   { return a.(*big.Int).Cmp(big.NewInt(1)) == 0 }
func (IntRing) Eq(a, b Coeff) bool   { return a.(*big.Int).Cmp(b.(*big.Int)) == 0 }
func (IntRing) Hash(a Coeff) uint64  { return hashBigInt(a.(*big.Int)) }
func (IntRing) Idempotent() bool     { return false }

// RealRing is the semiring of rationals.
type RealRing struct{}

func (RealRing) String() string       { return "Real" }
func (RealRing) Zero() Coeff          { return new(big.Rat) }
func (RealRing) One() Coeff           { return big.NewRat(1, 1) }
func (RealRing) Add(a, b Coeff) Coeff { return new(big.Rat).Add(a.(*big.Rat), b.(*big.Rat)) }
func (RealRing) Mul(a, b Coeff) Coeff { return new(big.Rat).Mul(a.(*big.Rat), b.(*big.Rat)) }
func (RealRing) Neg(a Coeff) Coeff    { return new(big.Rat).Neg(a.(*big.Rat)) }
func (RealRing) IsZero(a Coeff) bool  { return a.(*big.Rat).Sign() == 0 }
func (RealRing) IsOne(a Coeff) bool   { return a.(*big.Rat).Cmp(big.NewRat(1, 1)) == 0 }
func (RealRing) Eq(a, b Coeff) bool   { return a.(*big.Rat).Cmp(b.(*big.Rat)) == 0 }
func (RealRing) Hash(a Coeff) uint64 {
	r := a.(*big.Rat)
	return hashUint64(hashBigInt(r.Num()), hashBigInt(r.Denom()))
}
func (RealRing) Idempotent() bool { return false }

// BVArithRing is bitvector arithmetic modulo 2^w.
type BVArithRing struct {
	Width uint
}

// NewBVArithRing returns the arithmetic ring of the given width.
func NewBVArithRing(width uint) BVArithRing { return BVArithRing{Width: width} }

func (r BVArithRing) String() string { return fmt.Sprintf("BVArith(%d)", r.Width) }
func (r BVArithRing) Zero() Coeff    { return new(big.Int) }
func (r BVArithRing) One() Coeff     { return big.NewInt(1) }
func (r BVArithRing) Add(a, b Coeff) Coeff {
	return bvTruncate(r.Width, new(big.Int).Add(a.(*big.Int), b.(*big.Int)))
}
func (r BVArithRing) Mul(a, b Coeff) Coeff {
	return bvTruncate(r.Width, new(big.Int).Mul(a.(*big.Int), b.(*big.Int)))
}
func (r BVArithRing) Neg(a Coeff) Coeff {
	return bvTruncate(r.Width, new(big.Int).Neg(a.(*big.Int)))
}
func (r BVArithRing) IsZero(a Coeff) bool { return a.(*big.Int).Sign() == 0 }
func (r BVArithRing) IsOne(a Coeff) bool  { return a.(*big.Int).Cmp(big.NewInt(1)) == 0 }
func (r BVArithRing) Eq(a, b Coeff) bool  { return a.(*big.Int).Cmp(b.(*big.Int)) == 0 }
func (r BVArithRing) Hash(a Coeff) uint64 { return hashBigInt(a.(*big.Int)) }
func (r BVArithRing) Idempotent() bool    { return false }

// BVXorRing is the bitvector ring where addition is xor and
// multiplication is bitwise and. Scalars are bitmasks; a coefficient
// selects the bits of its term that participate in the xor.
type BVXorRing struct {
	Width uint
}

// NewBVXorRing returns the xor ring of the given width.
func NewBVXorRing(width uint) BVXorRing { return BVXorRing{Width: width} }

func (r BVXorRing) String() string { return fmt.Sprintf("BVXor(%d)", r.Width) }
func (r BVXorRing) Zero() Coeff    { return new(big.Int) }
func (r BVXorRing) One() Coeff     { return bvMask(r.Width) }
func (r BVXorRing) Add(a, b Coeff) Coeff {
	return new(big.Int).Xor(a.(*big.Int), b.(*big.Int))
}
func (r BVXorRing) Mul(a, b Coeff) Coeff {
	return new(big.Int).And(a.(*big.Int), b.(*big.Int))
}
func (r BVXorRing) Neg(a Coeff) Coeff   { return new(big.Int).Set(a.(*big.Int)) }
func (r BVXorRing) IsZero(a Coeff) bool { return a.(*big.Int).Sign() == 0 }
func (r BVXorRing) IsOne(a Coeff) bool  { return a.(*big.Int).Cmp(bvMask(r.Width)) == 0 }
func (r BVXorRing) Eq(a, b Coeff) bool  { return a.(*big.Int).Cmp(b.(*big.Int)) == 0 }
func (r BVXorRing) Hash(a Coeff) uint64 { return hashBigInt(a.(*big.Int)) }
func (r BVXorRing) Idempotent() bool    { return true }

// SemiringEq reports whether two semirings are the same instance.
func SemiringEq(a, b Semiring) bool {
	switch a := a.(type) {
	case IntRing:
		_, ok := b.(IntRing)
		return ok
	case RealRing:
		_, ok := b.(RealRing)
		return ok
	case BVArithRing:
		b, ok := b.(BVArithRing)
		return ok && a.Width == b.Width
	case BVXorRing:
		b, ok := b.(BVXorRing)
		return ok && a.Width == b.Width
	default:
		panic("unreachable")
	}
}

// hashSemiring mixes a semiring identity into a hash.
func hashSemiring(h uint64, r Semiring) uint64 {
	switch r := r.(type) {
	case IntRing:
		return hashUint64(h, 1)
	case RealRing:
		return hashUint64(h, 2)
	case BVArithRing:
		return hashUint64(hashUint64(h, 3), uint64(r.Width))
	case BVXorRing:
		return hashUint64(hashUint64(h, 4), uint64(r.Width))
	default:
		panic("unreachable")
	}
}
