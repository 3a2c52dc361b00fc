package keypath

// Merge folds fragments into a single Document, starting from an empty one.
// nil fragments are skipped. For each key of an incoming fragment: a key the
// accumulator lacks is adopted, two objects under the same key are merged
// recursively, and anything else is overwritten by the incoming value.
// The result is never nil.
func Merge(fragments ...*Document) *Document {
	acc := NewDocument()
	for _, f := range fragments {
		acc = MergeInto(acc, f)
	}
	return acc
}

// MergeInto merges a single fragment into acc and returns the result. Neither
// argument is modified.
func MergeInto(acc, frag *Document) *Document {
	if frag.Len() == 0 {
		if acc == nil {
			return NewDocument()
		}
		return acc
	}
	out := acc.clone()
	frag.Range(func(k string, in Value) bool {
		cur, ok := out.vals[k]
		if !ok {
			out.keys = append(out.keys, k)
			out.vals[k] = in
			return true
		}
		curObj, curIsObj := cur.AsObject()
		inObj, inIsObj := in.AsObject()
		if curIsObj && inIsObj {
			out.vals[k] = ObjectValue(MergeInto(curObj, inObj))
			return true
		}
		out.vals[k] = in
		return true
	})
	return out
}
