package sym

import (
	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"
)

// UnfoldPolicy decides when an application of a defined function is
// replaced by its body.
type UnfoldPolicy int

// Unfold policies.
const (
	// UnfoldDefault defers to the builder configuration, never unfolding
	// when no option is set.
	UnfoldDefault = UnfoldPolicy(iota)
	UnfoldNever
	UnfoldAlways
	// UnfoldConcrete unfolds only when every argument is ground.
	UnfoldConcrete
)

func (p UnfoldPolicy) String() string {
	switch p {
	case UnfoldDefault:
		return "default"
	case UnfoldNever:
		return "never"
	case UnfoldAlways:
		return "always"
	case UnfoldConcrete:
		return "concrete"
	default:
		return "UnfoldPolicy<?>"
	}
}

// FuncDecl declares an uninterpreted or defined function. Defined
// functions carry a body over bound-variable parameters and an unfold
// policy; uninterpreted functions carry parameter sorts only.
type FuncDecl struct {
	id     uint64
	Name   string
	Params []*Term // bound variables; nil for uninterpreted functions
	Sorts  []Sort  // parameter sorts
	Ret    Sort
	Body   *Term // nil for uninterpreted functions
	Policy UnfoldPolicy
}

// UninterpFun declares an uninterpreted function symbol.
func (b *Builder) UninterpFun(name string, ret Sort, params ...Sort) *FuncDecl {
	b.nextFunc++
	log.Debugf("sym: uninterpreted function %s/%d", name, len(params))
	return &FuncDecl{id: b.nextFunc, Name: name, Sorts: params, Ret: ret}
}

// DefineFun declares a function with a body. The parameters must be
// bound variables constructed through BoundVar; the body may mention them
// freely.
func (b *Builder) DefineFun(name string, params []*Term, body *Term, policy UnfoldPolicy) *FuncDecl {
	sorts := make([]Sort, len(params))
	for i, p := range params {
		assert(p.op == OpBoundVar, "define-fun parameter %d is not a bound variable", i)
		sorts[i] = p.sort
	}
	b.nextFunc++
	return &FuncDecl{
		id:     b.nextFunc,
		Name:   name,
		Params: params,
		Sorts:  sorts,
		Ret:    body.sort,
		Body:   body,
		Policy: policy,
	}
}

// unfoldPolicy resolves a declaration's effective policy against the
// builder configuration.
func (b *Builder) unfoldPolicy(f *FuncDecl) UnfoldPolicy {
	if f.Policy != UnfoldDefault {
		return f.Policy
	}
	if v, ok := b.config.option(OptUnfoldPolicy); ok {
		switch v {
		case "always":
			return UnfoldAlways
		case "concrete":
			return UnfoldConcrete
		}
	}
	return UnfoldNever
}

// Apply returns the application of f to args, substituting the body of a
// defined function when its unfold policy is satisfied.
func (b *Builder) Apply(f *FuncDecl, args ...*Term) *Term {
	assert(len(args) == len(f.Sorts), "apply %s: arity mismatch: %d != %d", f.Name, len(args), len(f.Sorts))
	for i, a := range args {
		b.requireSort(a, f.Sorts[i], "apply "+f.Name)
	}

	if f.Body != nil {
		unfold := false
		switch b.unfoldPolicy(f) {
		case UnfoldAlways:
			unfold = true
		case UnfoldConcrete:
			unfold = true
			for _, a := range args {
				if _, ok := AsConcrete(a); !ok {
					unfold = false
					break
				}
			}
		}
		if unfold {
			m := make(map[*Term]*Term, len(args))
			for i, p := range f.Params {
				m[p] = args[i]
			}
			return b.Substitute(f.Body, m)
		}
	}

	before := b.numTerms
	t := b.newTerm(OpApply, f.Ret, args, f, topValue(f.Ret))
	if f.Body == nil && b.numTerms > before && b.OnNewLeaf != nil {
		b.OnNewLeaf(t)
	}
	return t
}

// Mentions reports whether t contains v as a subterm, descending through
// sum and product payloads.
func (b *Builder) Mentions(t, v *Term) bool {
	visited := bitset.New(uint(b.nextID) + 1)
	var walk func(t *Term) bool
	walk = func(t *Term) bool {
		if t == v {
			return true
		}
		if visited.Test(uint(t.id)) {
			return false
		}
		visited.Set(uint(t.id))
		for _, c := range t.Children() {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(t)
}

// Forall returns the universal quantification of body over the bound
// variable v. A body that does not mention v is its own quantification.
func (b *Builder) Forall(v, body *Term) *Term {
	return b.quantifier(OpForall, v, body)
}

// Exists returns the existential quantification of body over v.
func (b *Builder) Exists(v, body *Term) *Term {
	return b.quantifier(OpExists, v, body)
}

func (b *Builder) quantifier(op Op, v, body *Term) *Term {
	assert(v.op == OpBoundVar, "%s binder is not a bound variable", op)
	b.requireSort(body, BoolSort{}, op.String())
	if !b.Mentions(body, v) {
		return body
	}
	return b.newTerm(op, BoolSort{}, []*Term{v, body}, nil, body.abs.(Tristate))
}

// Substitute returns t with every occurrence of a key of m replaced by
// its value, rebuilding and renormalizing every affected node. The
// substitution is capture-free: bound variables are globally unique, so a
// replacement can never be captured by an inner binder.
func (b *Builder) Substitute(t *Term, m map[*Term]*Term) *Term {
	memo := make(map[uint64]*Term)
	return b.substitute(t, m, memo)
}

func (b *Builder) substitute(t *Term, m map[*Term]*Term, memo map[uint64]*Term) *Term {
	if r, ok := m[t]; ok {
		return r
	}
	if r, ok := memo[t.id]; ok {
		return r
	}
	out := b.rebuild(t, func(c *Term) *Term { return b.substitute(c, m, memo) })
	memo[t.id] = out
	return out
}

// rebuild reconstructs a node through the public constructors with each
// operand passed through f, so the result renormalizes against the
// rewritten operands. Leaves rebuild to themselves.
func (b *Builder) rebuild(t *Term, f func(*Term) *Term) *Term {
	c := t.children
	switch t.op {
	case OpVar, OpBoundVar, OpBoolLit, OpStringLit, OpFloatLit:
		return t

	case OpNot:
		return b.Not(f(c[0]))
	case OpAnd:
		kids := make([]*Term, len(c))
		for i := range c {
			kids[i] = f(c[i])
		}
		return b.And(kids...)
	case OpIte:
		return b.Ite(f(c[0]), f(c[1]), f(c[2]))
	case OpEq:
		return b.Eq(f(c[0]), f(c[1]))

	case OpSum:
		s := t.Sum()
		out := SumConst(s.Ring(), s.Offset())
		s.Range(func(x *Term, coeff Coeff) {
			out = out.Add(b.asSum(s.Ring(), f(x)).Scale(coeff))
		})
		return b.sumTerm(out)
	case OpProduct:
		p := t.Product()
		if _, ok := p.Ring().(BVXorRing); ok {
			var acc *Term
			p.Range(func(x *Term, n int) {
				v := f(x)
				if acc == nil {
					acc = v
				} else {
					acc = b.BVAnd(acc, v)
				}
			})
			return acc
		}
		var acc *Term
		p.Range(func(x *Term, n int) {
			v := f(x)
			for i := 0; i < n; i++ {
				if acc == nil {
					acc = v
				} else {
					acc = b.Mul(acc, v)
				}
			}
		})
		return acc

	case OpIntLe:
		return b.IntLe(f(c[0]), f(c[1]))
	case OpRealLe:
		return b.RealLe(f(c[0]), f(c[1]))
	case OpRealIsInt:
		return b.RealIsInt(f(c[0]))
	case OpBVUlt:
		return b.BVUlt(f(c[0]), f(c[1]))
	case OpBVSlt:
		return b.BVSlt(f(c[0]), f(c[1]))
	case OpBVTestBit:
		return b.BVTestBit(f(c[0]), t.aux.(uint))
	case OpIntDivisible:
		return b.IntDivisible(f(c[0]), t.aux.(bigInt))

	case OpIntDiv:
		return b.IntDiv(f(c[0]), f(c[1]))
	case OpIntMod:
		return b.IntMod(f(c[0]), f(c[1]))
	case OpIntAbs:
		return b.IntAbs(f(c[0]))
	case OpRealDiv:
		return b.RealDiv(f(c[0]), f(c[1]))
	case OpRealSqrt:
		return b.RealSqrt(f(c[0]))
	case OpRealSin:
		return b.RealSin(f(c[0]))
	case OpRealCos:
		return b.RealCos(f(c[0]))
	case OpRealExp:
		return b.RealExp(f(c[0]))
	case OpRealLog:
		return b.RealLog(f(c[0]))

	case OpIntToReal:
		return b.IntToReal(f(c[0]))
	case OpRealToInt:
		return b.RealToInt(f(c[0]))
	case OpBVToInt:
		return b.BVToInt(f(c[0]))
	case OpIntToBV:
		return b.IntToBV(f(c[0]), t.sort.(BVSort).Width)

	case OpBVAnd:
		return b.BVAnd(f(c[0]), f(c[1]))
	case OpBVOr:
		return b.BVOr(f(c[0]), f(c[1]))
	case OpBVConcat:
		return b.BVConcat(f(c[0]), f(c[1]))
	case OpBVExtract:
		p := t.aux.(extractPayload)
		return b.BVExtract(f(c[0]), p.offset, p.width)
	case OpBVUdiv:
		return b.BVUdiv(f(c[0]), f(c[1]))
	case OpBVUrem:
		return b.BVUrem(f(c[0]), f(c[1]))
	case OpBVSdiv:
		return b.BVSdiv(f(c[0]), f(c[1]))
	case OpBVSrem:
		return b.BVSrem(f(c[0]), f(c[1]))
	case OpBVShl:
		return b.BVShl(f(c[0]), f(c[1]))
	case OpBVLshr:
		return b.BVLshr(f(c[0]), f(c[1]))
	case OpBVAshr:
		return b.BVAshr(f(c[0]), f(c[1]))
	case OpBVZext:
		return b.BVZext(f(c[0]), t.sort.(BVSort).Width)
	case OpBVSext:
		return b.BVSext(f(c[0]), t.sort.(BVSort).Width)
	case OpBVPopcount:
		return b.BVPopcount(f(c[0]))
	case OpBVClz:
		return b.BVClz(f(c[0]))
	case OpBVCtz:
		return b.BVCtz(f(c[0]))
	case OpBVFill:
		return b.BVFill(t.sort.(BVSort).Width, f(c[0]))

	case OpFPAdd:
		return b.FPAdd(t.aux.(fpPayload).mode, f(c[0]), f(c[1]))
	case OpFPSub:
		return b.FPSub(t.aux.(fpPayload).mode, f(c[0]), f(c[1]))
	case OpFPMul:
		return b.FPMul(t.aux.(fpPayload).mode, f(c[0]), f(c[1]))
	case OpFPDiv:
		return b.FPDiv(t.aux.(fpPayload).mode, f(c[0]), f(c[1]))
	case OpFPSqrt:
		return b.FPSqrt(t.aux.(fpPayload).mode, f(c[0]))
	case OpFPRem:
		return b.FPRem(f(c[0]), f(c[1]))
	case OpFPFMA:
		return b.FPFMA(t.aux.(fpPayload).mode, f(c[0]), f(c[1]), f(c[2]))
	case OpFPNeg:
		return b.FPNeg(f(c[0]))
	case OpFPAbs:
		return b.FPAbs(f(c[0]))
	case OpFPMin:
		return b.FPMin(f(c[0]), f(c[1]))
	case OpFPMax:
		return b.FPMax(f(c[0]), f(c[1]))
	case OpFPRound:
		return b.FPRound(t.aux.(fpPayload).mode, f(c[0]))
	case OpFPIsNaN:
		return b.FPIsNaN(f(c[0]))
	case OpFPIsInf:
		return b.FPIsInf(f(c[0]))
	case OpFPIsZero:
		return b.FPIsZero(f(c[0]))
	case OpFPIsNeg:
		return b.FPIsNeg(f(c[0]))
	case OpFPLe:
		return b.FPLe(f(c[0]), f(c[1]))
	case OpFPLt:
		return b.FPLt(f(c[0]), f(c[1]))
	case OpFPToFP:
		return b.FPToFP(t.aux.(fpPayload).mode, f(c[0]), t.sort.(FloatSort))
	case OpFPToBV:
		return b.FPToBV(f(c[0]))
	case OpBVToFP:
		return b.BVToFP(f(c[0]), t.sort.(FloatSort))
	case OpFPToReal:
		return b.FPToReal(f(c[0]))
	case OpRealToFP:
		return b.RealToFP(t.aux.(fpPayload).mode, f(c[0]), t.sort.(FloatSort))

	case OpStrConcat:
		return b.StrConcat(f(c[0]), f(c[1]))
	case OpStrLength:
		return b.StrLength(f(c[0]))
	case OpStrContains:
		return b.StrContains(f(c[0]), f(c[1]))
	case OpStrIndexOf:
		return b.StrIndexOf(f(c[0]), f(c[1]), f(c[2]))
	case OpStrPrefixOf:
		return b.StrPrefixOf(f(c[0]), f(c[1]))
	case OpStrSuffixOf:
		return b.StrSuffixOf(f(c[0]), f(c[1]))
	case OpStrSubstring:
		return b.StrSubstring(f(c[0]), f(c[1]), f(c[2]))

	case OpConstArray:
		return b.ConstArray(t.sort.(*ArraySort), f(c[0]))
	case OpArraySelect:
		indices := make([]*Term, len(c)-1)
		for i := range indices {
			indices[i] = f(c[i+1])
		}
		return b.ArraySelect(f(c[0]), indices...)
	case OpArrayUpdate:
		indices := make([]*Term, len(c)-2)
		for i := range indices {
			indices[i] = f(c[i+1])
		}
		return b.ArrayUpdate(f(c[0]), f(c[len(c)-1]), indices...)
	case OpArrayMap:
		arrays := make([]*Term, len(c))
		for i := range c {
			arrays[i] = f(c[i])
		}
		return b.ArrayMap(t.FuncDecl(), arrays...)
	case OpArrayCopy:
		return b.ArrayCopy(f(c[0]), f(c[1]), f(c[2]), f(c[3]), f(c[4]))
	case OpArraySet:
		return b.ArraySet(f(c[0]), f(c[1]), f(c[2]), f(c[3]))
	case OpArrayRangeEq:
		return b.ArrayRangeEq(f(c[0]), f(c[1]), f(c[2]), f(c[3]), f(c[4]))

	case OpStruct:
		fields := make([]*Term, len(c))
		for i := range c {
			fields[i] = f(c[i])
		}
		return b.Struct(fields...)
	case OpStructField:
		return b.StructField(f(c[0]), t.aux.(int))

	case OpApply:
		args := make([]*Term, len(c))
		for i := range c {
			args[i] = f(c[i])
		}
		return b.Apply(t.FuncDecl(), args...)

	case OpForall:
		return b.Forall(c[0], f(c[1]))
	case OpExists:
		return b.Exists(c[0], f(c[1]))

	case OpAnnotation:
		child := f(c[0])
		if child == c[0] {
			return t
		}
		return b.newTerm(OpAnnotation, child.sort, []*Term{child}, t.aux, child.abs)

	default:
		panic("unreachable")
	}
}
