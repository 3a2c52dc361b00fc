package keypath

import (
	"strings"
)

// DefaultDelimiter separates segments of a key path unless overridden.
const DefaultDelimiter = "."

// KeyPath is a parsed, non-empty sequence of document keys.
type KeyPath struct {
	parts []string
}

// Split tokenizes path on delim. It reports false when the delimiter or the
// path is empty, or when any segment is empty ("a..b", ".a", "a.").
// Segments are used verbatim: no trimming, case folding or escaping.
func Split(path, delim string) (KeyPath, bool) {
	if path == "" || delim == "" {
		return KeyPath{}, false
	}
	parts := strings.Split(path, delim)
	for _, p := range parts {
		if p == "" {
			return KeyPath{}, false
		}
	}
	return KeyPath{parts: parts}, true
}

// Segments returns a copy of the path segments.
func (p KeyPath) Segments() []string { return append([]string(nil), p.parts...) }

// Len returns the number of segments.
func (p KeyPath) Len() int { return len(p.parts) }

// Head returns the first segment.
func (p KeyPath) Head() string {
	if len(p.parts) == 0 {
		return ""
	}
	return p.parts[0]
}

// Tail returns the path without its first segment. ok is false when nothing
// remains.
func (p KeyPath) Tail() (KeyPath, bool) {
	if len(p.parts) < 2 {
		return KeyPath{}, false
	}
	return KeyPath{parts: p.parts[1:]}, true
}

// Child appends a segment. Empty names are ignored.
func (p KeyPath) Child(name string) KeyPath {
	if name == "" {
		return p
	}
	return KeyPath{parts: append(append([]string{}, p.parts...), name)}
}

// Join renders the path with delim.
func (p KeyPath) Join(delim string) string { return strings.Join(p.parts, delim) }

func (p KeyPath) String() string { return p.Join(DefaultDelimiter) }

// Pointer renders the path as an RFC 6901 JSON Pointer, the form used in
// Issue paths.
func (p KeyPath) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p.parts {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(s))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Resolve looks up path in d. A single segment returns the entry as is; more
// segments require every intermediate entry to be an object. Any miss, type
// clash or invalid path reports false.
func Resolve(d *Document, path, delim string) (Value, bool) {
	p, ok := Split(path, delim)
	if !ok {
		return Value{}, false
	}
	return ResolvePath(d, p)
}

// ResolvePath is Resolve over an already split path.
func ResolvePath(d *Document, p KeyPath) (Value, bool) {
	if len(p.parts) == 0 {
		return Value{}, false
	}
	cur := d
	for i, seg := range p.parts {
		v, ok := cur.Get(seg)
		if !ok {
			return Value{}, false
		}
		if i == len(p.parts)-1 {
			return v, true
		}
		next, ok := v.AsObject()
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return Value{}, false
}

// Assign returns a copy of d with v stored at path, creating intermediate
// objects as needed. When an intermediate entry already holds a non-object
// value, or the path is invalid, d is returned unchanged with false.
func Assign(d *Document, path, delim string, v Value) (*Document, bool) {
	p, ok := Split(path, delim)
	if !ok {
		return d, false
	}
	return AssignPath(d, p, v)
}

// AssignPath is Assign over an already split path.
func AssignPath(d *Document, p KeyPath, v Value) (*Document, bool) {
	if len(p.parts) == 0 {
		return d, false
	}
	out, ok := assign(d, p.parts, v)
	if !ok {
		return d, false
	}
	return out, true
}

func assign(d *Document, parts []string, v Value) (*Document, bool) {
	head := parts[0]
	if len(parts) == 1 {
		return d.With(head, v), true
	}
	var child *Document
	if existing, ok := d.Get(head); ok {
		c, isObj := existing.AsObject()
		if !isObj {
			return nil, false
		}
		child = c
	}
	sub, ok := assign(child, parts[1:], v)
	if !ok {
		return nil, false
	}
	return d.With(head, ObjectValue(sub)), true
}

// nest wraps v into single-entry documents following p, innermost last.
func nest(p KeyPath, v Value) *Document {
	out := v
	for i := len(p.parts) - 1; i > 0; i-- {
		out = ObjectValue(NewDocument(Entry{Key: p.parts[i], Value: out}))
	}
	return NewDocument(Entry{Key: p.parts[0], Value: out})
}
