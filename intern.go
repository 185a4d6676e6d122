package sym

import (
	"math"
	"math/big"
)

// FNV-1a constants; the incremental helpers below mix arbitrary values
// into a running structural hash.
const (
	fnvOffset = uint64(14695981039346656037)
	fnvPrime  = uint64(1099511628211)
)

// hashUint64 mixes v into h one byte at a time.
func hashUint64(h, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h ^= v & 0xff
		h *= fnvPrime
		v >>= 8
	}
	return h
}

// hashBytes mixes a byte slice into h.
func hashBytes(h uint64, b []byte) uint64 {
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime
	}
	return h
}

// hashString mixes a string into h.
func hashString(h uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

// hashBigInt hashes an arbitrary-precision integer including its sign.
func hashBigInt(v *big.Int) uint64 {
	h := hashUint64(fnvOffset, uint64(v.Sign()+1))
	return hashBytes(h, v.Bytes())
}

// structuralHash returns the interning hash of a node: operator, sort,
// child identities, and payload. Sums and products contribute their own
// commutative hashes, so entry order inside them cannot affect identity.
func structuralHash(op Op, sort Sort, children []*Term, aux interface{}) uint64 {
	h := hashUint64(fnvOffset, uint64(op))
	h = hashSort(h, sort)
	h = hashUint64(h, uint64(len(children)))
	for _, c := range children {
		h = hashUint64(h, c.id)
	}
	return hashPayload(h, aux)
}

func hashPayload(h uint64, aux interface{}) uint64 {
	switch aux := aux.(type) {
	case nil:
		return h
	case bool:
		if aux {
			return hashUint64(h, 1)
		}
		return hashUint64(h, 2)
	case string:
		return hashString(h, aux)
	case float64:
		return hashUint64(h, math.Float64bits(aux))
	case uint:
		return hashUint64(h, uint64(aux))
	case int:
		return hashUint64(h, uint64(aux))
	case uint64:
		return hashUint64(h, aux)
	case *big.Int:
		return hashUint64(h, hashBigInt(aux))
	case extractPayload:
		return hashUint64(hashUint64(h, uint64(aux.offset)), uint64(aux.width))
	case fpPayload:
		return hashUint64(h, uint64(aux.mode))
	case varPayload:
		return hashUint64(hashString(h, aux.name), aux.seq)
	case *Sum:
		return hashUint64(h, aux.Hash())
	case *Product:
		return hashUint64(h, aux.Hash())
	case *FuncDecl:
		return hashUint64(h, aux.id)
	default:
		panic("unreachable")
	}
}

// payloadEq compares two operator payloads structurally.
func payloadEq(a, b interface{}) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case bool:
		b, ok := b.(bool)
		return ok && a == b
	case string:
		b, ok := b.(string)
		return ok && a == b
	case float64:
		b, ok := b.(float64)
		return ok && math.Float64bits(a) == math.Float64bits(b)
	case uint:
		b, ok := b.(uint)
		return ok && a == b
	case int:
		b, ok := b.(int)
		return ok && a == b
	case uint64:
		b, ok := b.(uint64)
		return ok && a == b
	case *big.Int:
		b, ok := b.(*big.Int)
		return ok && a.Cmp(b) == 0
	case extractPayload:
		b, ok := b.(extractPayload)
		return ok && a == b
	case fpPayload:
		b, ok := b.(fpPayload)
		return ok && a == b
	case varPayload:
		b, ok := b.(varPayload)
		return ok && a == b
	case *Sum:
		b, ok := b.(*Sum)
		return ok && a.Equal(b)
	case *Product:
		b, ok := b.(*Product)
		return ok && a.Equal(b)
	case *FuncDecl:
		b, ok := b.(*FuncDecl)
		return ok && a == b
	default:
		panic("unreachable")
	}
}

// structEq reports whether a candidate node is structurally equal to an
// interned term: same operator, identical sort, identity-equal children,
// equal payload.
func structEq(t *Term, op Op, sort Sort, children []*Term, aux interface{}) bool {
	if t.op != op || !SortEq(t.sort, sort) || len(t.children) != len(children) {
		return false
	}
	for i := range children {
		if t.children[i] != children[i] {
			return false
		}
	}
	return payloadEq(t.aux, aux)
}
