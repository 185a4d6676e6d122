package sym

// arraySort returns the array sort of a term.
func (b *Builder) arraySort(t *Term, op string) *ArraySort {
	srt, ok := t.sort.(*ArraySort)
	assert(ok, "%s: operand sort mismatch: got %s, want an array", op, t.sort)
	return srt
}

// checkIndices panics unless the index terms match the array's index
// sorts.
func (b *Builder) checkIndices(srt *ArraySort, indices []*Term, op string) {
	assert(len(indices) == len(srt.Index), "%s: index arity mismatch: %d != %d", op, len(indices), len(srt.Index))
	for i, ix := range indices {
		b.requireSort(ix, srt.Index[i], op)
	}
}

// ConstArray returns the array mapping every index to v.
func (b *Builder) ConstArray(sort *ArraySort, v *Term) *Term {
	b.requireSort(v, sort.Elem, "arr.const")
	return b.newTerm(OpConstArray, sort, []*Term{v}, nil, ArrayValue{Elem: v.abs})
}

// FreshArray returns a fresh array variable.
func (b *Builder) FreshArray(name string, sort *ArraySort) *Term {
	return b.FreshVar(name, sort)
}

// sameIndices reports whether two index tuples are identity-equal.
func sameIndices(a, bx []*Term) bool {
	for i := range a {
		if a[i] != bx[i] {
			return false
		}
	}
	return true
}

// disjointIndices reports whether two index tuples certainly differ: some
// position's domains share no value.
func disjointIndices(a, bx []*Term) bool {
	for i := range a {
		if a[i].abs.CheckEq(bx[i].abs) == False {
			return true
		}
	}
	return false
}

// ArraySelect returns the element of a at the given indices. Selection
// looks through constant arrays and through updates whose indices are
// identical or certainly disjoint.
func (b *Builder) ArraySelect(a *Term, indices ...*Term) *Term {
	srt := b.arraySort(a, "arr.select")
	b.checkIndices(srt, indices, "arr.select")

	for {
		switch a.op {
		case OpConstArray:
			return a.children[0]
		case OpArrayUpdate:
			updIndices := a.children[1 : len(a.children)-1]
			if sameIndices(indices, updIndices) {
				return a.children[len(a.children)-1]
			}
			if disjointIndices(indices, updIndices) {
				a = a.children[0]
				continue
			}
		}
		children := append([]*Term{a}, indices...)
		return b.newTerm(OpArraySelect, srt.Elem, children, nil, a.abs.(ArrayValue).Elem)
	}
}

// ArrayUpdate returns a with the element at the given indices replaced by
// v. An update that stores a constant array's own default is a no-op, and
// stacked updates at an identical index collapse to the newest.
func (b *Builder) ArrayUpdate(a *Term, v *Term, indices ...*Term) *Term {
	srt := b.arraySort(a, "arr.update")
	b.checkIndices(srt, indices, "arr.update")
	b.requireSort(v, srt.Elem, "arr.update")

	if a.op == OpConstArray && v.abs.CheckEq(a.children[0].abs) == True {
		return a
	}
	if a.op == OpArrayUpdate && sameIndices(indices, a.children[1:len(a.children)-1]) {
		return b.ArrayUpdate(a.children[0], v, indices...)
	}
	children := append([]*Term{a}, indices...)
	children = append(children, v)
	abs := ArrayValue{Elem: a.abs.(ArrayValue).Elem.Join(v.abs)}
	return b.newTerm(OpArrayUpdate, srt, children, nil, abs)
}

// ArrayMap returns the array applying f pointwise over the given arrays,
// which must agree on index sorts.
func (b *Builder) ArrayMap(f *FuncDecl, arrays ...*Term) *Term {
	assert(len(arrays) >= 1, "arr.map requires at least one array")
	assert(len(f.Params) == len(arrays), "arr.map arity mismatch: %d != %d", len(f.Params), len(arrays))
	first := b.arraySort(arrays[0], "arr.map")
	for _, a := range arrays[1:] {
		srt := b.arraySort(a, "arr.map")
		assert(len(srt.Index) == len(first.Index), "arr.map index arity mismatch")
		for i := range srt.Index {
			assert(SortEq(srt.Index[i], first.Index[i]), "arr.map index sort mismatch")
		}
	}
	out := NewArraySort(f.Ret, first.Index...)
	return b.newTerm(OpArrayMap, out, arrays, f, ArrayValue{Elem: topValue(f.Ret)})
}

// ArrayCopy returns dst with n elements starting at srcOff of src written
// at dstOff. The arrays must share a sort with a single index.
func (b *Builder) ArrayCopy(dst, dstOff, src, srcOff, n *Term) *Term {
	srt := b.arraySort(dst, "arr.copy")
	assert(SortEq(dst.sort, src.sort), "arr.copy sort mismatch: %s != %s", dst.sort, src.sort)
	assert(len(srt.Index) == 1, "arr.copy requires a single index sort")
	b.requireSort(dstOff, srt.Index[0], "arr.copy")
	b.requireSort(srcOff, srt.Index[0], "arr.copy")
	b.requireSort(n, srt.Index[0], "arr.copy")
	abs := ArrayValue{Elem: dst.abs.(ArrayValue).Elem.Join(src.abs.(ArrayValue).Elem)}
	return b.newTerm(OpArrayCopy, srt, []*Term{dst, dstOff, src, srcOff, n}, nil, abs)
}

// ArraySet returns a with n elements starting at off replaced by v.
func (b *Builder) ArraySet(a, off, v, n *Term) *Term {
	srt := b.arraySort(a, "arr.set")
	assert(len(srt.Index) == 1, "arr.set requires a single index sort")
	b.requireSort(off, srt.Index[0], "arr.set")
	b.requireSort(n, srt.Index[0], "arr.set")
	b.requireSort(v, srt.Elem, "arr.set")
	abs := ArrayValue{Elem: a.abs.(ArrayValue).Elem.Join(v.abs)}
	return b.newTerm(OpArraySet, srt, []*Term{a, off, v, n}, nil, abs)
}

// ArrayRangeEq returns the proposition that n elements of a starting at
// aOff equal the n elements of c starting at cOff.
func (b *Builder) ArrayRangeEq(a, aOff, c, cOff, n *Term) *Term {
	srt := b.arraySort(a, "arr.range-eq")
	assert(SortEq(a.sort, c.sort), "arr.range-eq sort mismatch: %s != %s", a.sort, c.sort)
	assert(len(srt.Index) == 1, "arr.range-eq requires a single index sort")
	b.requireSort(aOff, srt.Index[0], "arr.range-eq")
	b.requireSort(cOff, srt.Index[0], "arr.range-eq")
	b.requireSort(n, srt.Index[0], "arr.range-eq")
	if a == c && aOff == cOff {
		return b.trueTerm
	}
	return b.newTerm(OpArrayRangeEq, BoolSort{}, []*Term{a, aOff, c, cOff, n}, nil, Unknown)
}
