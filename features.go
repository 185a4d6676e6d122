package sym

import (
	"strings"
)

// Features is a bit mask describing which theory features and operational
// capabilities a collection of terms requires of a solver.
type Features uint32

// Feature bits: one per theory, plus operational flags.
const (
	FeatBool = Features(1 << iota)
	FeatLinArith
	FeatNonlinArith
	FeatComputableArith
	FeatBV
	FeatQuant
	FeatString
	FeatFloat
	FeatArray
	FeatStruct
	FeatFn

	FeatUnsatCores
	FeatUnsatAssumptions
	FeatUninterpFuns
	FeatDefinedFuns
)

var featureNames = []struct {
	bit  Features
	name string
}{
	{FeatBool, "bool"},
	{FeatLinArith, "lin-arith"},
	{FeatNonlinArith, "nonlin-arith"},
	{FeatComputableArith, "computable-arith"},
	{FeatBV, "bv"},
	{FeatQuant, "quant"},
	{FeatString, "string"},
	{FeatFloat, "float"},
	{FeatArray, "array"},
	{FeatStruct, "struct"},
	{FeatFn, "fn"},
	{FeatUnsatCores, "unsat-cores"},
	{FeatUnsatAssumptions, "unsat-assumptions"},
	{FeatUninterpFuns, "uninterp-funs"},
	{FeatDefinedFuns, "defined-funs"},
}

// Union returns the combined feature set.
func (f Features) Union(other Features) Features { return f | other }

// Contains reports whether every feature of other is present in f.
func (f Features) Contains(other Features) bool { return f&other == other }

func (f Features) String() string {
	var names []string
	for _, fn := range featureNames {
		if f&fn.bit != 0 {
			names = append(names, fn.name)
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// theoryFeature maps a theory to its feature bit.
func theoryFeature(t Theory) Features {
	switch t {
	case TheoryBool:
		return FeatBool
	case TheoryLinArith:
		return FeatLinArith
	case TheoryNonlinArith:
		return FeatNonlinArith
	case TheoryComputableArith:
		return FeatComputableArith
	case TheoryBV:
		return FeatBV
	case TheoryQuant:
		return FeatQuant
	case TheoryString:
		return FeatString
	case TheoryFloat:
		return FeatFloat
	case TheoryArray:
		return FeatArray
	case TheoryStruct:
		return FeatStruct
	case TheoryFn:
		return FeatFn
	default:
		panic("unreachable")
	}
}

// ScanFeatures folds the theory classifier over every node reachable from
// the given terms, deriving the feature set a solver needs to discharge
// them. Function applications additionally flag whether uninterpreted or
// defined symbols occur.
func ScanFeatures(terms ...*Term) Features {
	var out Features
	visited := newVisitSet()
	for _, t := range terms {
		Walk(t, func(t *Term) bool {
			if visited.seen(t) {
				return false
			}
			out = out.Union(theoryFeature(Classify(t)))
			if t.Op() == OpApply {
				if t.FuncDecl().Body == nil {
					out = out.Union(FeatUninterpFuns)
				} else {
					out = out.Union(FeatDefinedFuns)
				}
			}
			return true
		})
	}
	return out
}
