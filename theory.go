package sym

import "fmt"

// Theory classifies a node by which SMT theory a downstream solver must
// support to discharge it.
type Theory int

// Theories.
const (
	TheoryBool = Theory(iota)
	TheoryLinArith
	TheoryNonlinArith
	TheoryComputableArith
	TheoryBV
	TheoryQuant
	TheoryString
	TheoryFloat
	TheoryArray
	TheoryStruct
	TheoryFn
)

var theoryNames = [...]string{
	TheoryBool:            "Bool",
	TheoryLinArith:        "LinArith",
	TheoryNonlinArith:     "NonlinArith",
	TheoryComputableArith: "ComputableArith",
	TheoryBV:              "BV",
	TheoryQuant:           "Quant",
	TheoryString:          "String",
	TheoryFloat:           "Float",
	TheoryArray:           "Array",
	TheoryStruct:          "Struct",
	TheoryFn:              "Fn",
}

func (t Theory) String() string {
	if t >= 0 && int(t) < len(theoryNames) {
		return theoryNames[t]
	}
	return fmt.Sprintf("Theory<%d>", int(t))
}

// sortTheory classifies a leaf by its sort.
func sortTheory(s Sort) Theory {
	switch s.(type) {
	case BoolSort:
		return TheoryBool
	case IntSort, RealSort:
		return TheoryLinArith
	case BVSort:
		return TheoryBV
	case FloatSort:
		return TheoryFloat
	case StringSort:
		return TheoryString
	case *StructSort:
		return TheoryStruct
	case *ArraySort:
		return TheoryArray
	default:
		panic("unreachable")
	}
}

// isLiteral reports whether a term is a scalar constant.
func isLiteral(t *Term) bool {
	switch t.op {
	case OpBoolLit, OpStringLit, OpFloatLit:
		return true
	case OpSum:
		_, ok := t.Sum().AsConstant()
		return ok
	}
	return false
}

// Classify maps a node to the theory required to discharge it. The
// mapping is total over well-formed nodes.
func Classify(t *Term) Theory {
	switch t.op {
	case OpVar, OpBoundVar:
		return sortTheory(t.sort)
	case OpBoolLit, OpNot, OpAnd:
		return TheoryBool
	case OpIte:
		if _, ok := t.sort.(BoolSort); ok {
			return TheoryBool
		}
		return sortTheory(t.sort)
	case OpEq:
		return sortTheory(t.children[0].sort)

	case OpSum:
		s := t.Sum()
		switch s.Ring().(type) {
		case BVArithRing, BVXorRing:
			return TheoryBV
		}
		nonlinear := false
		s.Range(func(x *Term, c Coeff) {
			if x.op == OpProduct {
				nonlinear = true
			}
		})
		if nonlinear {
			return TheoryNonlinArith
		}
		return TheoryLinArith
	case OpProduct:
		switch t.Product().Ring().(type) {
		case BVArithRing, BVXorRing:
			return TheoryBV
		}
		return TheoryNonlinArith

	case OpIntLe, OpRealLe, OpRealIsInt, OpIntDivisible, OpIntAbs,
		OpIntToReal, OpRealToInt:
		return TheoryLinArith
	case OpIntDiv, OpIntMod, OpRealDiv:
		// A literal divisor keeps division linear.
		if isLiteral(t.children[1]) {
			return TheoryLinArith
		}
		return TheoryNonlinArith
	case OpRealSqrt, OpRealSin, OpRealCos, OpRealExp, OpRealLog:
		return TheoryComputableArith

	case OpBVUlt, OpBVSlt, OpBVTestBit, OpBVToInt, OpIntToBV,
		OpBVAnd, OpBVOr, OpBVConcat, OpBVExtract,
		OpBVUdiv, OpBVUrem, OpBVSdiv, OpBVSrem,
		OpBVShl, OpBVLshr, OpBVAshr, OpBVRol, OpBVRor,
		OpBVZext, OpBVSext, OpBVPopcount, OpBVClz, OpBVCtz, OpBVFill:
		return TheoryBV

	case OpFloatLit, OpFPAdd, OpFPSub, OpFPMul, OpFPDiv, OpFPSqrt,
		OpFPRem, OpFPFMA, OpFPNeg, OpFPAbs, OpFPMin, OpFPMax, OpFPRound,
		OpFPIsNaN, OpFPIsInf, OpFPIsZero, OpFPIsNeg, OpFPLe, OpFPLt,
		OpFPToFP, OpFPToBV, OpBVToFP, OpFPToReal, OpRealToFP:
		return TheoryFloat

	case OpStringLit, OpStrConcat, OpStrLength, OpStrContains,
		OpStrIndexOf, OpStrPrefixOf, OpStrSuffixOf, OpStrSubstring:
		return TheoryString

	case OpConstArray, OpArraySelect, OpArrayUpdate, OpArrayMap,
		OpArrayCopy, OpArraySet, OpArrayRangeEq:
		return TheoryArray

	case OpStruct, OpStructField:
		return TheoryStruct

	case OpApply:
		return TheoryFn
	case OpForall, OpExists:
		return TheoryQuant
	case OpAnnotation:
		return Classify(t.children[0])

	default:
		panic("unreachable")
	}
}
