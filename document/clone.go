package document

// Clone returns a deep copy of n. Scalars are copied by value.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Mapping:
		out := &Mapping{Entries: make([]Entry, len(v.Entries)), Flow: v.Flow}
		for i, e := range v.Entries {
			out.Entries[i] = Entry{Key: e.Key, Value: Clone(e.Value), KeyRaw: e.KeyRaw}
		}

		return out
	case *Sequence:
		out := &Sequence{Items: make([]Node, len(v.Items)), Flow: v.Flow}
		for i, item := range v.Items {
			out.Items[i] = Clone(item)
		}

		return out
	case *Scalar:
		if b, ok := v.Value.([]byte); ok {
			return &Scalar{Value: append([]byte(nil), b...), Raw: v.Raw}
		}

		return &Scalar{Value: v.Value, Raw: v.Raw}
	default:
		return nil
	}
}

// Equal reports whether a and b are structurally identical, including mapping key order.
// Source styling (Raw, KeyRaw, Flow) is ignored.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case *Mapping:
		bv, ok := b.(*Mapping)
		if !ok || len(av.Entries) != len(bv.Entries) {
			return false
		}

		for i := range av.Entries {
			if av.Entries[i].Key != bv.Entries[i].Key || !Equal(av.Entries[i].Value, bv.Entries[i].Value) {
				return false
			}
		}

		return true
	case *Sequence:
		bv, ok := b.(*Sequence)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}

		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}

		return true
	case *Scalar:
		bv, ok := b.(*Scalar)
		if !ok {
			return false
		}

		return scalarEqual(av.Value, bv.Value)
	default:
		return a == nil && b == nil
	}
}

func scalarEqual(a, b any) bool {
	ab, aIsBytes := a.([]byte)
	bb, bIsBytes := b.([]byte)

	if aIsBytes || bIsBytes {
		return aIsBytes && bIsBytes && string(ab) == string(bb)
	}

	return a == b
}
