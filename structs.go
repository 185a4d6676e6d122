package sym

// Struct returns the struct constructed from the given field values.
func (b *Builder) Struct(fields ...*Term) *Term {
	sorts := make([]Sort, len(fields))
	abs := make([]AbstractValue, len(fields))
	for i, f := range fields {
		sorts[i] = f.sort
		abs[i] = f.abs
	}
	return b.newTerm(OpStruct, NewStructSort(sorts...), fields, nil, StructValue{Fields: abs})
}

// StructField returns field i of a struct term, projecting through the
// constructor when possible.
func (b *Builder) StructField(s *Term, i int) *Term {
	srt, ok := s.sort.(*StructSort)
	assert(ok, "field: operand sort mismatch: got %s, want a struct", s.sort)
	assert(i >= 0 && i < len(srt.Fields), "field index out of bounds: %d >= %d", i, len(srt.Fields))
	if s.op == OpStruct {
		return s.children[i]
	}
	return b.newTerm(OpStructField, srt.Fields[i], []*Term{s}, i, s.abs.(StructValue).Fields[i])
}
