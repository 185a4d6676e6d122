package sym

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/davecgh/go-spew/spew"
)

// visitSet tracks visited term identities during a DAG traversal. Term
// identifiers are dense and monotone, so a bitset suffices.
type visitSet struct {
	bits *bitset.BitSet
}

func newVisitSet() *visitSet {
	return &visitSet{bits: bitset.New(256)}
}

// seen marks t and reports whether it was already present.
func (v *visitSet) seen(t *Term) bool {
	if v.bits.Test(uint(t.id)) {
		return true
	}
	v.bits.Set(uint(t.id))
	return false
}

// Walk visits every node reachable from t in pre-order, descending
// through sum and product entries. The visit function returns false to
// prune the subtree below a node. Walk does not deduplicate shared
// subterms; use WalkOnce for a once-per-node traversal.
func Walk(t *Term, visit func(*Term) bool) {
	if !visit(t) {
		return
	}
	for _, c := range t.Children() {
		Walk(c, visit)
	}
}

// WalkPost visits every node reachable from t exactly once in
// post-order: children before their parents.
func WalkPost(t *Term, visit func(*Term)) {
	seen := newVisitSet()
	var walk func(t *Term)
	walk = func(t *Term) {
		if seen.seen(t) {
			return
		}
		for _, c := range t.Children() {
			walk(c)
		}
		visit(t)
	}
	walk(t)
}

// WalkOnce visits every node reachable from t exactly once in pre-order.
func WalkOnce(t *Term, visit func(*Term)) {
	seen := newVisitSet()
	Walk(t, func(t *Term) bool {
		if seen.seen(t) {
			return false
		}
		visit(t)
		return true
	})
}

// Vars returns every fresh variable reachable from the given terms,
// ordered by identity.
func Vars(terms ...*Term) []*Term {
	var out []*Term
	seen := newVisitSet()
	for _, t := range terms {
		Walk(t, func(t *Term) bool {
			if seen.seen(t) {
				return false
			}
			if t.op == OpVar {
				out = append(out, t)
			}
			return true
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// DumpTerm returns a verbose dump of a term's node structure for
// diagnostics.
func DumpTerm(t *Term) string {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, MaxDepth: 8}
	return cfg.Sdump(t)
}
