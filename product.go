package sym

import (
	"bytes"
	"fmt"

	"github.com/benbjohnson/immutable"
)

// prodEntry is one term/count pair of a product.
type prodEntry struct {
	x *Term
	n int
}

// Product is a monomial over a semiring:
//
//	x1^n1 * x2^n2 * ...
//
// stored as a persistent map from term identity to a positive occurrence
// count. For the xor ring, multiplication is bitwise-and and counts
// collapse to one (x AND x = x), so a term appearing any number of times
// keeps a single occurrence. The empty product is the multiplicative
// identity.
type Product struct {
	ring  Semiring
	terms *immutable.SortedMap // uint64 term id -> prodEntry
	hash  uint64
}

// NewProduct returns the empty (identity) product.
func NewProduct(ring Semiring) *Product {
	p := &Product{
		ring:  ring,
		terms: immutable.NewSortedMap(&uint64Comparer{}),
	}
	p.hash = hashSemiring(fnvOffset^0x9e3779b97f4a7c15, ring)
	return p
}

// ProdVar returns the product x^1.
func ProdVar(ring Semiring, x *Term) *Product {
	return NewProduct(ring).mulVar(x, 1)
}

// Ring returns the semiring of the product.
func (p *Product) Ring() Semiring { return p.ring }

// Len returns the number of distinct factors.
func (p *Product) Len() int { return p.terms.Len() }

// IsEmpty reports whether this is the identity product.
func (p *Product) IsEmpty() bool { return p.terms.Len() == 0 }

func (p *Product) entryHash(id uint64, n int) uint64 {
	return hashUint64(hashUint64(1099511628211, id), uint64(n))
}

// mulVar multiplies in x^n.
func (p *Product) mulVar(x *Term, n int) *Product {
	assert(n >= 1, "product occurrence count must be positive: %d", n)
	count := n
	if prev, ok := p.terms.Get(x.ID()); ok {
		count += prev.(prodEntry).n
	}
	if p.ring.Idempotent() {
		count = 1
	}
	out := *p
	if prev, ok := p.terms.Get(x.ID()); ok {
		if prev.(prodEntry).n == count {
			return p
		}
		out.hash -= p.entryHash(x.ID(), prev.(prodEntry).n)
	}
	out.terms = p.terms.Set(x.ID(), prodEntry{x: x, n: count})
	out.hash += p.entryHash(x.ID(), count)
	return &out
}

// Mul returns the product of p and other, summing occurrence counts.
func (p *Product) Mul(other *Product) *Product {
	assert(SemiringEq(p.ring, other.ring), "product mul over different semirings: %s != %s", p.ring, other.ring)
	a, b := p, other
	if a.terms.Len() < b.terms.Len() {
		a, b = b, a
	}
	out := a
	b.Range(func(x *Term, n int) {
		out = out.mulVar(x, n)
	})
	return out
}

// Range calls fn for every factor in ascending term-identity order.
func (p *Product) Range(fn func(x *Term, n int)) {
	for itr := p.terms.Iterator(); !itr.Done(); {
		_, v := itr.Next()
		entry := v.(prodEntry)
		fn(entry.x, entry.n)
	}
}

// AsVar returns x iff the product is exactly x^1.
func (p *Product) AsVar() (*Term, bool) {
	if p.terms.Len() != 1 {
		return nil, false
	}
	itr := p.terms.Iterator()
	_, v := itr.Next()
	entry := v.(prodEntry)
	if entry.n != 1 {
		return nil, false
	}
	return entry.x, true
}

// Eval folds the product with the supplied operations. The accumulator is
// seeded from the first factor; the identity product folds to nil.
func (p *Product) Eval(
	mul func(a, b interface{}) interface{},
	pow func(x *Term, n int) interface{},
) interface{} {
	var acc interface{}
	p.Range(func(x *Term, n int) {
		v := pow(x, n)
		if acc == nil {
			acc = v
		} else {
			acc = mul(acc, v)
		}
	})
	return acc
}

// Equal reports structural equality of two products.
func (p *Product) Equal(other *Product) bool {
	if p.hash != other.hash || !SemiringEq(p.ring, other.ring) || p.terms.Len() != other.terms.Len() {
		return false
	}
	a, b := p.terms.Iterator(), other.terms.Iterator()
	for !a.Done() {
		ka, va := a.Next()
		kb, vb := b.Next()
		if ka.(uint64) != kb.(uint64) || va.(prodEntry).n != vb.(prodEntry).n {
			return false
		}
	}
	return true
}

// Hash returns the commutative structural hash of the product.
func (p *Product) Hash() uint64 { return p.hash }

// String renders the product in ascending term-identity order.
func (p *Product) String() string {
	var buf bytes.Buffer
	buf.WriteString("(prod")
	p.Range(func(x *Term, n int) {
		if n == 1 {
			fmt.Fprintf(&buf, " %s", x)
		} else {
			fmt.Fprintf(&buf, " %s^%d", x, n)
		}
	})
	buf.WriteString(")")
	return buf.String()
}

// abstractValue folds the factor domains into a summary abstract value.
func (p *Product) abstractValue() AbstractValue {
	switch ring := p.ring.(type) {
	case IntRing:
		acc := IntSingleton(big1())
		p.Range(func(x *Term, n int) {
			r := x.AbstractValue().(IntRange)
			for i := 0; i < n; i++ {
				acc = acc.Mul(r)
			}
		})
		return acc
	case RealRing:
		acc := RealSingleton(rat1())
		p.Range(func(x *Term, n int) {
			r := x.AbstractValue().(RealRange)
			for i := 0; i < n; i++ {
				acc = acc.Mul(r)
			}
		})
		return acc
	case BVArithRing:
		acc := BVSingleton(ring.Width, big1())
		p.Range(func(x *Term, n int) {
			r := x.AbstractValue().(BVDomain)
			for i := 0; i < n; i++ {
				acc = acc.Mul(r)
			}
		})
		return acc
	case BVXorRing:
		acc := BVSingleton(ring.Width, bvMask(ring.Width))
		p.Range(func(x *Term, n int) {
			acc = acc.And(x.AbstractValue().(BVDomain))
		})
		return acc
	default:
		panic("unreachable")
	}
}
