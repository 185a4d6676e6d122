package sym

import (
	"bytes"
	"fmt"
	"math/big"
)

// Op identifies the operator kind of a term node.
type Op int

// Operator kinds, organized by theory.
const (
	opInvalid = Op(iota)

	// Leaves.
	OpVar      // fresh variable; payload varPayload
	OpBoundVar // quantifier/function binder; payload varPayload
	OpBoolLit  // payload bool
	OpStringLit
	OpFloatLit // payload float64, hardware precisions only

	// Booleans.
	OpNot
	OpAnd // n-ary conjunction
	OpIte // condition, then, else; any result sort
	OpEq  // any sort; primitive for arrays

	// Semiring forms.
	OpSum     // payload *Sum
	OpProduct // payload *Product

	// Predicates.
	OpIntLe
	OpRealLe
	OpRealIsInt
	OpBVUlt
	OpBVSlt
	OpBVTestBit    // payload uint bit index
	OpIntDivisible // payload *big.Int divisor

	// Integer/real operations that do not reduce to sums.
	OpIntDiv
	OpIntMod
	OpIntAbs
	OpRealDiv
	OpRealSqrt
	OpRealSin
	OpRealCos
	OpRealExp
	OpRealLog

	// Conversions.
	OpIntToReal
	OpRealToInt
	OpBVToInt
	OpIntToBV

	// Bitvectors.
	OpBVAnd
	OpBVOr
	OpBVConcat
	OpBVExtract // payload extractPayload
	OpBVUdiv
	OpBVUrem
	OpBVSdiv
	OpBVSrem
	OpBVShl
	OpBVLshr
	OpBVAshr
	OpBVRol
	OpBVRor
	OpBVZext
	OpBVSext
	OpBVPopcount
	OpBVClz
	OpBVCtz
	OpBVFill // bool child replicated across every bit

	// Floats.
	OpFPAdd // payload RoundingMode on rounded ops
	OpFPSub
	OpFPMul
	OpFPDiv
	OpFPSqrt
	OpFPRem
	OpFPFMA
	OpFPNeg
	OpFPAbs
	OpFPMin
	OpFPMax
	OpFPRound
	OpFPIsNaN
	OpFPIsInf
	OpFPIsZero
	OpFPIsNeg
	OpFPLe
	OpFPLt
	OpFPToFP
	OpFPToBV
	OpBVToFP
	OpFPToReal
	OpRealToFP

	// Strings.
	OpStrConcat
	OpStrLength
	OpStrContains
	OpStrIndexOf
	OpStrPrefixOf
	OpStrSuffixOf
	OpStrSubstring

	// Arrays.
	OpConstArray
	OpArraySelect
	OpArrayUpdate
	OpArrayMap // payload *FuncDecl
	OpArrayCopy
	OpArraySet
	OpArrayRangeEq

	// Structs.
	OpStruct
	OpStructField // payload int field index

	// Functions and quantifiers.
	OpApply // payload *FuncDecl
	OpForall
	OpExists

	// Annotation.
	OpAnnotation // payload uint64 annotation id

	opMax
)

var opNames = [...]string{
	OpVar:          "var",
	OpBoundVar:     "bound",
	OpBoolLit:      "bool",
	OpStringLit:    "str",
	OpFloatLit:     "fp",
	OpNot:          "not",
	OpAnd:          "and",
	OpIte:          "ite",
	OpEq:           "eq",
	OpSum:          "sum",
	OpProduct:      "prod",
	OpIntLe:        "int.le",
	OpRealLe:       "real.le",
	OpRealIsInt:    "real.is-int",
	OpBVUlt:        "bv.ult",
	OpBVSlt:        "bv.slt",
	OpBVTestBit:    "bv.test-bit",
	OpIntDivisible: "int.divisible",
	OpIntDiv:       "int.div",
	OpIntMod:       "int.mod",
	OpIntAbs:       "int.abs",
	OpRealDiv:      "real.div",
	OpRealSqrt:     "real.sqrt",
	OpRealSin:      "real.sin",
	OpRealCos:      "real.cos",
	OpRealExp:      "real.exp",
	OpRealLog:      "real.log",
	OpIntToReal:    "int.to-real",
	OpRealToInt:    "real.to-int",
	OpBVToInt:      "bv.to-int",
	OpIntToBV:      "int.to-bv",
	OpBVAnd:        "bv.and",
	OpBVOr:         "bv.or",
	OpBVConcat:     "bv.concat",
	OpBVExtract:    "bv.extract",
	OpBVUdiv:       "bv.udiv",
	OpBVUrem:       "bv.urem",
	OpBVSdiv:       "bv.sdiv",
	OpBVSrem:       "bv.srem",
	OpBVShl:        "bv.shl",
	OpBVLshr:       "bv.lshr",
	OpBVAshr:       "bv.ashr",
	OpBVRol:        "bv.rol",
	OpBVRor:        "bv.ror",
	OpBVZext:       "bv.zext",
	OpBVSext:       "bv.sext",
	OpBVPopcount:   "bv.popcount",
	OpBVClz:        "bv.clz",
	OpBVCtz:        "bv.ctz",
	OpBVFill:       "bv.fill",
	OpFPAdd:        "fp.add",
	OpFPSub:        "fp.sub",
	OpFPMul:        "fp.mul",
	OpFPDiv:        "fp.div",
	OpFPSqrt:       "fp.sqrt",
	OpFPRem:        "fp.rem",
	OpFPFMA:        "fp.fma",
	OpFPNeg:        "fp.neg",
	OpFPAbs:        "fp.abs",
	OpFPMin:        "fp.min",
	OpFPMax:        "fp.max",
	OpFPRound:      "fp.round",
	OpFPIsNaN:      "fp.is-nan",
	OpFPIsInf:      "fp.is-inf",
	OpFPIsZero:     "fp.is-zero",
	OpFPIsNeg:      "fp.is-neg",
	OpFPLe:         "fp.le",
	OpFPLt:         "fp.lt",
	OpFPToFP:       "fp.to-fp",
	OpFPToBV:       "fp.to-bv",
	OpBVToFP:       "bv.to-fp",
	OpFPToReal:     "fp.to-real",
	OpRealToFP:     "real.to-fp",
	OpStrConcat:    "str.concat",
	OpStrLength:    "str.len",
	OpStrContains:  "str.contains",
	OpStrIndexOf:   "str.index-of",
	OpStrPrefixOf:  "str.prefix-of",
	OpStrSuffixOf:  "str.suffix-of",
	OpStrSubstring: "str.substr",
	OpConstArray:   "arr.const",
	OpArraySelect:  "arr.select",
	OpArrayUpdate:  "arr.update",
	OpArrayMap:     "arr.map",
	OpArrayCopy:    "arr.copy",
	OpArraySet:     "arr.set",
	OpArrayRangeEq: "arr.range-eq",
	OpStruct:       "struct",
	OpStructField:  "field",
	OpApply:        "apply",
	OpForall:       "forall",
	OpExists:       "exists",
	OpAnnotation:   "annot",
}

// String returns the string representation of the operator.
func (op Op) String() string {
	if op > opInvalid && op < opMax && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Op<%d>", int(op))
}

// RoundingMode selects IEEE-754 rounding for float operations.
type RoundingMode int

// Rounding modes.
const (
	RoundNearestEven = RoundingMode(iota)
	RoundNearestAway
	RoundTowardPositive
	RoundTowardNegative
	RoundTowardZero
)

func (m RoundingMode) String() string {
	switch m {
	case RoundNearestEven:
		return "RNE"
	case RoundNearestAway:
		return "RNA"
	case RoundTowardPositive:
		return "RTP"
	case RoundTowardNegative:
		return "RTN"
	case RoundTowardZero:
		return "RTZ"
	default:
		return fmt.Sprintf("RoundingMode<%d>", int(m))
	}
}

// varPayload names a fresh or bound variable.
type varPayload struct {
	name string
	seq  uint64 // allocation sequence; distinguishes same-named variables
}

// extractPayload carries the bit range of a bitvector extract.
type extractPayload struct {
	offset uint
	width  uint
}

// fpPayload carries the rounding mode of a rounded float operation.
type fpPayload struct {
	mode RoundingMode
}

// Metadata carries optional side information attached to a term. It does
// not participate in structural identity.
type Metadata struct {
	Loc string // program location, if any
}

// Term is an immutable, hash-consed expression node. Two syntactically
// equal terms constructed through the same builder are the same pointer,
// so identity implies semantic equality (but not vice versa).
type Term struct {
	op       Op
	sort     Sort
	id       uint64
	children []*Term
	aux      interface{} // operator-specific payload
	abs      AbstractValue
	meta     *Metadata
}

// ID returns the stable identifier of the term, unique and monotone
// within its builder.
func (t *Term) ID() uint64 { return t.id }

// Op returns the operator kind.
func (t *Term) Op() Op { return t.op }

// Sort returns the sort of the term.
func (t *Term) Sort() Sort { return t.sort }

// Children returns the child terms in operator order, sufficient to
// drive any traversal. Sum and product nodes expose their entry terms in
// ascending identity order. Callers must not modify the returned slice.
func (t *Term) Children() []*Term {
	switch t.op {
	case OpSum:
		s := t.aux.(*Sum)
		out := make([]*Term, 0, s.Len())
		s.Range(func(x *Term, c Coeff) { out = append(out, x) })
		return out
	case OpProduct:
		p := t.aux.(*Product)
		out := make([]*Term, 0, p.Len())
		p.Range(func(x *Term, n int) { out = append(out, x) })
		return out
	}
	return t.children
}

// AbstractValue returns the abstract value computed at construction.
func (t *Term) AbstractValue() AbstractValue { return t.abs }

// Meta returns the metadata attached at construction, or nil.
func (t *Term) Meta() *Metadata { return t.meta }

// Sum returns the weighted-sum payload of an OpSum node.
func (t *Term) Sum() *Sum {
	assert(t.op == OpSum, "not a sum node: %s", t.op)
	return t.aux.(*Sum)
}

// Product returns the product payload of an OpProduct node.
func (t *Term) Product() *Product {
	assert(t.op == OpProduct, "not a product node: %s", t.op)
	return t.aux.(*Product)
}

// FuncDecl returns the function payload of an OpApply or OpArrayMap node.
func (t *Term) FuncDecl() *FuncDecl {
	assert(t.op == OpApply || t.op == OpArrayMap, "not an application node: %s", t.op)
	return t.aux.(*FuncDecl)
}

// Name returns the name of an OpVar or OpBoundVar node.
func (t *Term) Name() string {
	assert(t.op == OpVar || t.op == OpBoundVar, "not a variable node: %s", t.op)
	return t.aux.(varPayload).name
}

// String renders the term as an s-expression. Children are rendered
// recursively; shared subterms print in full.
func (t *Term) String() string {
	var buf bytes.Buffer
	t.render(&buf)
	return buf.String()
}

func (t *Term) render(buf *bytes.Buffer) {
	switch t.op {
	case OpVar, OpBoundVar:
		fmt.Fprintf(buf, "%s#%d", t.aux.(varPayload).name, t.id)
		return
	case OpBoolLit:
		fmt.Fprintf(buf, "%v", t.aux.(bool))
		return
	case OpStringLit:
		fmt.Fprintf(buf, "%q", t.aux.(string))
		return
	case OpFloatLit:
		fmt.Fprintf(buf, "%v", t.aux.(float64))
		return
	case OpSum:
		buf.WriteString(t.aux.(*Sum).String())
		return
	case OpProduct:
		buf.WriteString(t.aux.(*Product).String())
		return
	}
	buf.WriteString("(")
	buf.WriteString(t.op.String())
	switch aux := t.aux.(type) {
	case extractPayload:
		fmt.Fprintf(buf, " %d %d", aux.offset, aux.width)
	case fpPayload:
		fmt.Fprintf(buf, " %s", aux.mode)
	case uint:
		fmt.Fprintf(buf, " %d", aux)
	case int:
		fmt.Fprintf(buf, " %d", aux)
	case uint64:
		fmt.Fprintf(buf, " %d", aux)
	case *big.Int:
		fmt.Fprintf(buf, " %s", aux)
	case *FuncDecl:
		fmt.Fprintf(buf, " %s", aux.Name)
	}
	for _, c := range t.children {
		buf.WriteString(" ")
		c.render(buf)
	}
	buf.WriteString(")")
}

// CompareTerms returns an integer comparing two terms in the builder's
// total order. The result will be 0 iff a and b are the same term.
func CompareTerms(a, b *Term) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}
	if a.id < b.id {
		return -1
	} else if a.id > b.id {
		return 1
	}
	return 0
}
