package sym

import (
	"math/big"
	"sort"

	log "github.com/sirupsen/logrus"
)

// Builder constructs and interns terms. It owns the interning table, the
// identifier counter, the configuration, and the solver-event listener.
// A builder is not safe for concurrent use; independent builders share no
// state. Terms live for the lifetime of their builder.
type Builder struct {
	config   *Config
	nextID   uint64
	varSeq   uint64
	buckets  map[uint64][]*Term
	loc      string
	numTerms int
	hits     uint64

	// OnNewLeaf, if set, is invoked synchronously whenever a fresh
	// variable or uninterpreted function application leaf is allocated.
	// The callback must not call back into the builder.
	OnNewLeaf func(*Term)

	nextAnnot uint64
	nextFunc  uint64

	trueTerm  *Term
	falseTerm *Term
}

// NewBuilder returns an empty builder. A nil config uses defaults.
func NewBuilder(config *Config) *Builder {
	b := &Builder{
		config:  config,
		buckets: make(map[uint64][]*Term),
	}
	b.trueTerm = b.newTerm(OpBoolLit, BoolSort{}, nil, true, True)
	b.falseTerm = b.newTerm(OpBoolLit, BoolSort{}, nil, false, False)
	return b
}

// newTerm interns a node, returning the existing term when a structurally
// equal one exists. Every observable constructor routes through here.
func (b *Builder) newTerm(op Op, sort Sort, children []*Term, aux interface{}, abs AbstractValue) *Term {
	h := structuralHash(op, sort, children, aux)
	for _, t := range b.buckets[h] {
		if structEq(t, op, sort, children, aux) {
			b.hits++
			return t
		}
	}
	b.nextID++
	t := &Term{
		op:       op,
		sort:     sort,
		id:       b.nextID,
		children: children,
		aux:      aux,
		abs:      abs,
	}
	if b.loc != "" {
		t.meta = &Metadata{Loc: b.loc}
	}
	b.buckets[h] = append(b.buckets[h], t)
	b.numTerms++
	return t
}

// NumTerms returns the number of distinct interned terms.
func (b *Builder) NumTerms() int { return b.numTerms }

// InternHits returns how many constructions were deduplicated against an
// existing term.
func (b *Builder) InternHits() uint64 { return b.hits }

// Locate sets the program location recorded in the metadata of terms
// constructed from here on. An empty string clears it.
func (b *Builder) Locate(loc string) { b.loc = loc }

// newLeaf allocates a fresh leaf and notifies the listener.
func (b *Builder) newLeaf(op Op, sort Sort, aux varPayload, abs AbstractValue) *Term {
	t := b.newTerm(op, sort, nil, aux, abs)
	log.Debugf("sym: new leaf %s: %s (id=%d)", aux.name, sort, t.id)
	if b.OnNewLeaf != nil {
		b.OnNewLeaf(t)
	}
	return t
}

// FreshVar returns a fresh variable of the given sort. Every call
// allocates a distinct term, even under the same name.
func (b *Builder) FreshVar(name string, sort Sort) *Term {
	b.varSeq++
	return b.newLeaf(OpVar, sort, varPayload{name: name, seq: b.varSeq}, topValue(sort))
}

// FreshBool returns a fresh boolean variable.
func (b *Builder) FreshBool(name string) *Term { return b.FreshVar(name, BoolSort{}) }

// FreshInt returns a fresh integer variable.
func (b *Builder) FreshInt(name string) *Term { return b.FreshVar(name, IntSort{}) }

// FreshNat returns a fresh integer variable carrying a non-negativity
// invariant. Naturals are integers whose domain excludes the negatives.
func (b *Builder) FreshNat(name string) *Term {
	b.varSeq++
	return b.newLeaf(OpVar, IntSort{}, varPayload{name: name, seq: b.varSeq}, IntAtLeast(new(big.Int)))
}

// FreshReal returns a fresh real variable.
func (b *Builder) FreshReal(name string) *Term { return b.FreshVar(name, RealSort{}) }

// FreshBV returns a fresh bitvector variable.
func (b *Builder) FreshBV(name string, width uint) *Term { return b.FreshVar(name, BV(width)) }

// FreshFloat returns a fresh float variable.
func (b *Builder) FreshFloat(name string, sort FloatSort) *Term { return b.FreshVar(name, sort) }

// FreshString returns a fresh string variable.
func (b *Builder) FreshString(name string, info StringInfo) *Term {
	return b.FreshVar(name, StringSort{Info: info})
}

// FreshIntInRange returns a fresh integer variable constrained to
// [lo, hi] in its abstract value. Nil endpoints are unbounded.
func (b *Builder) FreshIntInRange(name string, lo, hi *big.Int) (*Term, error) {
	if lo != nil && hi != nil && lo.Cmp(hi) > 0 {
		return nil, &InvalidRangeError{Sort: IntSort{}, Lo: lo.String(), Hi: hi.String()}
	}
	b.varSeq++
	return b.newLeaf(OpVar, IntSort{}, varPayload{name: name, seq: b.varSeq}, NewIntRange(lo, hi)), nil
}

// FreshBVInRange returns a fresh bitvector variable constrained to the
// unsigned interval [lo, hi].
func (b *Builder) FreshBVInRange(name string, width uint, lo, hi *big.Int) (*Term, error) {
	srt := BV(width)
	if lo.Sign() < 0 || hi.Cmp(bvMask(width)) > 0 || lo.Cmp(hi) > 0 {
		return nil, &InvalidRangeError{Sort: srt, Lo: lo.String(), Hi: hi.String()}
	}
	b.varSeq++
	return b.newLeaf(OpVar, srt, varPayload{name: name, seq: b.varSeq}, BVDomainRange(width, lo, hi)), nil
}

// BoundVar returns a fresh bound variable for use as a quantifier or
// defined-function binder. Its identity is its binding site.
func (b *Builder) BoundVar(name string, sort Sort) *Term {
	b.varSeq++
	return b.newTerm(OpBoundVar, sort, nil, varPayload{name: name, seq: b.varSeq}, topValue(sort))
}

// True returns the interned true constant.
func (b *Builder) True() *Term { return b.trueTerm }

// False returns the interned false constant.
func (b *Builder) False() *Term { return b.falseTerm }

// Bool returns the interned boolean constant for v.
func (b *Builder) Bool(v bool) *Term {
	if v {
		return b.trueTerm
	}
	return b.falseTerm
}

// isTrue reports whether t is the true constant.
func (b *Builder) isTrue(t *Term) bool { return t == b.trueTerm }

// isFalse reports whether t is the false constant.
func (b *Builder) isFalse(t *Term) bool { return t == b.falseTerm }

// Not returns the negation of x.
func (b *Builder) Not(x *Term) *Term {
	b.requireSort(x, BoolSort{}, "not")
	if b.isTrue(x) {
		return b.falseTerm
	} else if b.isFalse(x) {
		return b.trueTerm
	} else if x.op == OpNot {
		return x.children[0]
	}
	return b.newTerm(OpNot, BoolSort{}, []*Term{x}, nil, x.abs.(Tristate).Not())
}

// And returns the n-ary conjunction of xs. Nested conjunctions are
// flattened, duplicates dropped, and a term conjoined with its negation
// short-circuits to false.
func (b *Builder) And(xs ...*Term) *Term {
	seen := make(map[uint64]struct{})
	negSeen := make(map[uint64]struct{})
	var flat []*Term
	var walk func(t *Term) bool
	walk = func(t *Term) bool {
		b.requireSort(t, BoolSort{}, "and")
		if b.isFalse(t) {
			return false
		} else if b.isTrue(t) {
			return true
		} else if t.op == OpAnd {
			for _, c := range t.children {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		if _, ok := seen[t.id]; ok {
			return true
		}
		// A term conjoined with its negation cannot hold.
		if t.op == OpNot {
			if _, ok := seen[t.children[0].id]; ok {
				return false
			}
			negSeen[t.children[0].id] = struct{}{}
		} else if _, ok := negSeen[t.id]; ok {
			return false
		}
		seen[t.id] = struct{}{}
		flat = append(flat, t)
		return true
	}
	for _, x := range xs {
		if !walk(x) {
			return b.falseTerm
		}
	}
	switch len(flat) {
	case 0:
		return b.trueTerm
	case 1:
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].id < flat[j].id })
	abs := True
	for _, t := range flat {
		abs = abs.And(t.abs.(Tristate))
	}
	return b.newTerm(OpAnd, BoolSort{}, flat, nil, abs)
}

// Or returns the n-ary disjunction, defined through And and Not.
func (b *Builder) Or(xs ...*Term) *Term {
	neg := make([]*Term, len(xs))
	for i, x := range xs {
		neg[i] = b.Not(x)
	}
	return b.Not(b.And(neg...))
}

// Implies returns (not x) or y.
func (b *Builder) Implies(x, y *Term) *Term {
	return b.Or(b.Not(x), y)
}

// Xor returns the exclusive or of two propositions.
func (b *Builder) Xor(x, y *Term) *Term {
	return b.Not(b.Iff(x, y))
}

// Iff returns the biconditional of two propositions.
func (b *Builder) Iff(x, y *Term) *Term {
	b.requireSort(x, BoolSort{}, "iff")
	b.requireSort(y, BoolSort{}, "iff")
	if x == y {
		return b.trueTerm
	} else if b.isTrue(x) {
		return y
	} else if b.isFalse(x) {
		return b.Not(y)
	} else if b.isTrue(y) {
		return x
	} else if b.isFalse(y) {
		return b.Not(x)
	}
	// x iff (not x) is false.
	if x.op == OpNot && x.children[0] == y {
		return b.falseTerm
	} else if y.op == OpNot && y.children[0] == x {
		return b.falseTerm
	}
	if xa, ya := x.abs.(Tristate), y.abs.(Tristate); xa != Unknown && ya != Unknown {
		return b.Bool(xa == ya)
	}
	if x.id > y.id {
		x, y = y, x
	}
	return b.newTerm(OpEq, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// Ite returns if-then-else over arms of any sort. The arms must share a
// sort; the result keeps term size bounded by fusing shared structure out
// of sum- and product-valued arms and by pushing into struct fields.
func (b *Builder) Ite(c, t, e *Term) *Term {
	b.requireSort(c, BoolSort{}, "ite")
	assert(SortEq(t.sort, e.sort), "ite arm sort mismatch: %s != %s", t.sort, e.sort)
	if b.isTrue(c) {
		return t
	} else if b.isFalse(c) {
		return e
	} else if t == e {
		return t
	} else if c.op == OpNot {
		return b.Ite(c.children[0], e, t)
	}

	switch srt := t.sort.(type) {
	case BoolSort:
		if b.isTrue(t) {
			return b.Or(c, e)
		} else if b.isFalse(t) {
			return b.And(b.Not(c), e)
		} else if b.isTrue(e) {
			return b.Or(b.Not(c), t)
		} else if b.isFalse(e) {
			return b.And(c, t)
		}
		return b.newTerm(OpIte, t.sort, []*Term{c, t, e}, nil, t.abs.Join(e.abs))

	case IntSort, RealSort, BVSort:
		if out, ok := b.iteFuseSums(c, t, e); ok {
			return out
		}
		if out, ok := b.iteFuseProducts(c, t, e); ok {
			return out
		}

	case *StructSort:
		fields := make([]*Term, len(srt.Fields))
		for i := range srt.Fields {
			fields[i] = b.Ite(c, b.StructField(t, i), b.StructField(e, i))
		}
		return b.Struct(fields...)
	}

	return b.newTerm(OpIte, t.sort, []*Term{c, t, e}, nil, t.abs.Join(e.abs))
}

// iteFuseSums extracts the shared affine part of two sum-valued arms so
// that ite(c, z+t', z+e') becomes z + ite(c, t', e').
func (b *Builder) iteFuseSums(c, t, e *Term) (*Term, bool) {
	if t.op != OpSum && e.op != OpSum {
		return nil, false
	}
	var ring Semiring
	if t.op == OpSum {
		ring = t.Sum().Ring()
	} else {
		ring = e.Sum().Ring()
	}
	ts, es := b.asSum(ring, t), b.asSum(ring, e)
	z, tr, er := ts.ExtractCommon(es)
	if z.Len() == 0 && ring.IsZero(z.Offset()) {
		return nil, false
	}
	ite := b.Ite(c, b.sumTerm(tr), b.sumTerm(er))
	return b.sumTerm(z.Add(b.asSum(ring, ite))), true
}

// iteFuseProducts extracts the shared factors of two product-valued arms
// so that ite(c, z*t', z*e') becomes z * ite(c, t', e').
func (b *Builder) iteFuseProducts(c, t, e *Term) (*Term, bool) {
	if t.op != OpProduct || e.op != OpProduct {
		return nil, false
	}
	tp, ep := t.Product(), e.Product()
	if !SemiringEq(tp.Ring(), ep.Ring()) {
		return nil, false
	}
	ring := tp.Ring()
	common := NewProduct(ring)
	tr, er := NewProduct(ring), NewProduct(ring)
	tp.Range(func(x *Term, tn int) {
		if v, ok := ep.terms.Get(x.ID()); ok {
			if en := v.(prodEntry).n; en > 0 {
				n := tn
				if en < n {
					n = en
				}
				common = common.mulVar(x, n)
			}
		}
	})
	if common.IsEmpty() {
		return nil, false
	}
	tp.Range(func(x *Term, n int) {
		rem := n
		if v, ok := common.terms.Get(x.ID()); ok {
			rem -= v.(prodEntry).n
		}
		if rem > 0 {
			tr = tr.mulVar(x, rem)
		}
	})
	ep.Range(func(x *Term, n int) {
		rem := n
		if v, ok := common.terms.Get(x.ID()); ok {
			rem -= v.(prodEntry).n
		}
		if rem > 0 {
			er = er.mulVar(x, rem)
		}
	})
	ite := b.Ite(c, b.prodTerm(tr), b.prodTerm(er))
	return b.prodTerm(common.Mul(b.asProduct(ring, ite))), true
}

// Eq returns the equality of two terms of the same sort.
func (b *Builder) Eq(x, y *Term) *Term {
	assert(SortEq(x.sort, y.sort), "eq sort mismatch: %s != %s", x.sort, y.sort)
	if x == y {
		return b.trueTerm
	}

	switch srt := x.sort.(type) {
	case BoolSort:
		return b.Iff(x, y)
	case *StructSort:
		conj := make([]*Term, len(srt.Fields))
		for i := range srt.Fields {
			conj[i] = b.Eq(b.StructField(x, i), b.StructField(y, i))
		}
		return b.And(conj...)
	case *ArraySort:
		// Arrays keep equality as a primitive node.
		if x.id > y.id {
			x, y = y, x
		}
		return b.newTerm(OpEq, BoolSort{}, []*Term{x, y}, nil, Unknown)
	}

	switch x.abs.CheckEq(y.abs) {
	case True:
		return b.trueTerm
	case False:
		return b.falseTerm
	}

	// Numeric equality reduces through the difference, so shared affine
	// parts cancel: x+1 = x folds to false.
	switch x.sort.(type) {
	case IntSort, RealSort, BVSort:
		ring := numericRing(x.sort)
		diff := b.asSum(ring, x).Add(b.asSum(ring, y).Negate())
		if k, ok := diff.AsConstant(); ok {
			return b.Bool(ring.IsZero(k))
		}
	}

	// Two ground scalars compare by value. Distinct identities can still
	// agree when one side is an annotation.
	if cx, ok := AsConcrete(x); ok {
		if cy, ok := AsConcrete(y); ok {
			return b.Bool(ConcreteEq(cx, cy))
		}
	}

	if x.id > y.id {
		x, y = y, x
	}
	return b.newTerm(OpEq, BoolSort{}, []*Term{x, y}, nil, Unknown)
}

// NotEq returns the negated equality.
func (b *Builder) NotEq(x, y *Term) *Term {
	return b.Not(b.Eq(x, y))
}

// requireSort panics unless t has the given sort. Residual dynamic sort
// mismatches are programmer errors.
func (b *Builder) requireSort(t *Term, sort Sort, op string) {
	assert(SortEq(t.sort, sort), "%s: operand sort mismatch: got %s, want %s", op, t.sort, sort)
}

// Annotate returns a term semantically equal to x but interned at a new
// identity, plus a fresh annotation id for attaching side data in
// identity-keyed maps. Annotating an annotation returns its existing id.
func (b *Builder) Annotate(x *Term) (*Term, uint64) {
	if x.op == OpAnnotation {
		return x, x.aux.(uint64)
	}
	b.nextAnnot++
	id := b.nextAnnot
	t := b.newTerm(OpAnnotation, x.sort, []*Term{x}, id, x.abs)
	log.Debugf("sym: annotate id=%d term=%d", id, x.id)
	return t, id
}
