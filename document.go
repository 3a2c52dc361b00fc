package keypath

import (
	"slices"
	"sort"
)

// Entry is a single key/value pair of a Document.
type Entry struct {
	Key   string
	Value Value
}

// Document is an ordered mapping from unique string keys to Values.
//
// Documents are immutable: With and the encode/merge helpers always return a
// new Document and leave the receiver untouched. A nil *Document reads as empty.
type Document struct {
	keys []string
	vals map[string]Value
}

// NewDocument builds a Document from entries. A repeated key keeps its first
// position and its last value.
func NewDocument(entries ...Entry) *Document {
	d := &Document{vals: make(map[string]Value, len(entries))}
	for _, e := range entries {
		if _, ok := d.vals[e.Key]; !ok {
			d.keys = append(d.keys, e.Key)
		}
		d.vals[e.Key] = e.Value
	}
	return d
}

// Len returns the number of entries; a nil document has none.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	v, ok := d.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Range calls fn for each entry in order until fn returns false.
func (d *Document) Range(fn func(key string, v Value) bool) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		if !fn(k, d.vals[k]) {
			return
		}
	}
}

// Entries returns the entries in order.
func (d *Document) Entries() []Entry {
	out := make([]Entry, 0, d.Len())
	d.Range(func(k string, v Value) bool {
		out = append(out, Entry{Key: k, Value: v})
		return true
	})
	return out
}

// With returns a copy of d with key set to v. An existing key keeps its
// position.
func (d *Document) With(key string, v Value) *Document {
	n := d.Len()
	out := &Document{keys: make([]string, 0, n+1), vals: make(map[string]Value, n+1)}
	if d != nil {
		out.keys = append(out.keys, d.keys...)
		for k, val := range d.vals {
			out.vals[k] = val
		}
	}
	if _, ok := out.vals[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.vals[key] = v
	return out
}

// Without returns a copy of d with key removed.
func (d *Document) Without(key string) *Document {
	if !d.Has(key) {
		return d.clone()
	}
	out := &Document{keys: make([]string, 0, d.Len()), vals: make(map[string]Value, d.Len())}
	for _, k := range d.keys {
		if k == key {
			continue
		}
		out.keys = append(out.keys, k)
		out.vals[k] = d.vals[k]
	}
	return out
}

func (d *Document) clone() *Document {
	out := &Document{vals: make(map[string]Value, d.Len())}
	if d == nil {
		return out
	}
	out.keys = slices.Clone(d.keys)
	for k, v := range d.vals {
		out.vals[k] = v
	}
	return out
}

// Equal reports whether both documents hold equal values under the same keys.
// Key order is ignored.
func (d *Document) Equal(o *Document) bool {
	if d.Len() != o.Len() {
		return false
	}
	eq := true
	d.Range(func(k string, v Value) bool {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			eq = false
		}
		return eq
	})
	return eq
}

// Any converts d into a map[string]any tree.
func (d *Document) Any() map[string]any {
	out := make(map[string]any, d.Len())
	d.Range(func(k string, v Value) bool {
		out[k] = v.Any()
		return true
	})
	return out
}

// DocumentFromMap converts a generic map (for example the result of
// json.Unmarshal into map[string]any) into a Document with sorted keys.
func DocumentFromMap(m map[string]any) (*Document, error) { return documentFromMap(m) }

func documentFromMap(m map[string]any) (*Document, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := &Document{keys: keys, vals: make(map[string]Value, len(m))}
	for _, k := range keys {
		v, err := FromAny(m[k])
		if err != nil {
			return nil, err
		}
		d.vals[k] = v
	}
	return d, nil
}
