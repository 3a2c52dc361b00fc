package keypath

import (
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Encoding mirrors decoding. Each helper returns a fragment: a Document whose
// single root key is the first segment of path, nested down to the leaf. A nil
// fragment means "nothing to contribute" (absent input, a value the codec
// rejects, or an invalid path) and is skipped by Merge. Absent fields never
// turn into null.

// fragment wraps v at path, or returns nil when the path is invalid.
func fragment(path string, v Value, c config) *Document {
	p, ok := Split(path, c.delim)
	if !ok {
		return nil
	}
	return nest(p, v)
}

// EncodeValue encodes v at path.
func EncodeValue[T any](path string, v T, c Codec[T], opts ...Opt) *Document {
	val, ok := c.ToValue(v)
	if !ok {
		return nil
	}
	return fragment(path, val, resolve(opts))
}

// Encode encodes *v at path; a nil pointer yields a nil fragment.
func Encode[T any](path string, v *T, c Codec[T], opts ...Opt) *Document {
	if v == nil {
		return nil
	}
	return EncodeValue(path, *v, c, opts...)
}

// EncodeSlice encodes vs as an array. A nil slice yields a nil fragment and
// any element c rejects fails the whole fragment.
func EncodeSlice[T any](path string, vs []T, c Codec[T], opts ...Opt) *Document {
	if vs == nil {
		return nil
	}
	out := make([]Value, 0, len(vs))
	for _, t := range vs {
		v, ok := c.ToValue(t)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return fragment(path, Value{kind: KindArray, arr: out}, resolve(opts))
}

// EncodeFiltered encodes vs as an array, dropping elements c rejects.
func EncodeFiltered[T any](path string, vs []T, c Codec[T], opts ...Opt) *Document {
	if vs == nil {
		return nil
	}
	return fragment(path, filteredArray(vs, c), resolve(opts))
}

// EncodeMap encodes m as an object with sorted keys, dropping entries c
// rejects.
func EncodeMap[T any](path string, m map[string]T, c Codec[T], opts ...Opt) *Document {
	if m == nil {
		return nil
	}
	obj := &Document{vals: make(map[string]Value, len(m))}
	for _, k := range sortedKeys(m) {
		if v, ok := c.ToValue(m[k]); ok {
			obj.keys = append(obj.keys, k)
			obj.vals[k] = v
		}
	}
	return fragment(path, ObjectValue(obj), resolve(opts))
}

// EncodeMapOfSlices encodes m as an object of arrays. Entries with a nil
// slice are dropped; elements c rejects are dropped from their array.
func EncodeMapOfSlices[T any](path string, m map[string][]T, c Codec[T], opts ...Opt) *Document {
	if m == nil {
		return nil
	}
	obj := &Document{vals: make(map[string]Value, len(m))}
	for _, k := range sortedKeys(m) {
		if m[k] == nil {
			continue
		}
		obj.keys = append(obj.keys, k)
		obj.vals[k] = filteredArray(m[k], c)
	}
	return fragment(path, ObjectValue(obj), resolve(opts))
}

// EncodeEnum encodes the raw value of *v.
func EncodeEnum[E any, R any](path string, v *E, e *EnumCodec[E, R], opts ...Opt) *Document {
	return Encode(path, v, Codec[E](e), opts...)
}

// EncodeEnumSlice encodes the raw values of vs.
func EncodeEnumSlice[E any, R any](path string, vs []E, e *EnumCodec[E, R], opts ...Opt) *Document {
	return EncodeSlice(path, vs, Codec[E](e), opts...)
}

func filteredArray[T any](vs []T, c Codec[T]) Value {
	out := make([]Value, 0, len(vs))
	for _, t := range vs {
		if v, ok := c.ToValue(t); ok {
			out = append(out, v)
		}
	}
	return Value{kind: KindArray, arr: out}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ---- records ----

// EncodeObject encodes a record at path; nil v gives nil.
func EncodeObject[T any, P Model[T]](path string, v *T, opts ...Opt) *Document {
	return Encode(path, v, Object[T, P](), opts...)
}

// EncodeObjectSlice encodes an array of records, skipping those that fail.
func EncodeObjectSlice[T any, P Model[T]](path string, vs []T, opts ...Opt) *Document {
	return EncodeFiltered(path, vs, Object[T, P](), opts...)
}

// EncodeObjectMap encodes an object of records, skipping entries that fail.
func EncodeObjectMap[T any, P Model[T]](path string, m map[string]T, opts ...Opt) *Document {
	return EncodeMap(path, m, Object[T, P](), opts...)
}

// EncodeObjectSliceMap encodes an object of record arrays.
func EncodeObjectSliceMap[T any, P Model[T]](path string, m map[string][]T, opts ...Opt) *Document {
	return EncodeMapOfSlices(path, m, Object[T, P](), opts...)
}

// ---- semantic scalars ----

// EncodeDate writes v at path formatted with f.
func EncodeDate(path string, v *time.Time, f DateFormatter, opts ...Opt) *Document {
	return Encode(path, v, Date(f), opts...)
}

// EncodeDateSlice writes vs at path formatted with f.
func EncodeDateSlice(path string, vs []time.Time, f DateFormatter, opts ...Opt) *Document {
	return EncodeFiltered(path, vs, Date(f), opts...)
}

// EncodeISO8601Date writes v at path with the configured ISO 8601 formatter.
func EncodeISO8601Date(path string, v *time.Time, opts ...Opt) *Document {
	return Encode(path, v, ISO8601Date(opts...), opts...)
}

// EncodeISO8601DateSlice is EncodeISO8601Date for slices.
func EncodeISO8601DateSlice(path string, vs []time.Time, opts ...Opt) *Document {
	return EncodeFiltered(path, vs, ISO8601Date(opts...), opts...)
}

// EncodeURL writes the string form of v at path.
func EncodeURL(path string, v *url.URL, opts ...Opt) *Document {
	if v == nil {
		return nil
	}
	return EncodeValue(path, v, URL, opts...)
}

// EncodeURLSlice writes vs as an array of strings, skipping nil entries.
func EncodeURLSlice(path string, vs []*url.URL, opts ...Opt) *Document {
	return EncodeFiltered(path, vs, URL, opts...)
}

// EncodeUUID writes v in canonical form at path.
func EncodeUUID(path string, v *uuid.UUID, opts ...Opt) *Document {
	return Encode(path, v, UUID, opts...)
}

// EncodeUUIDSlice writes vs as an array of canonical UUID strings.
func EncodeUUIDSlice(path string, vs []uuid.UUID, opts ...Opt) *Document {
	return EncodeFiltered(path, vs, UUID, opts...)
}

// EncodeDecimal writes v as a JSON number at path.
func EncodeDecimal(path string, v *decimal.Decimal, opts ...Opt) *Document {
	return Encode(path, v, Decimal, opts...)
}

// EncodeDecimalSlice writes vs as an array of JSON numbers.
func EncodeDecimalSlice(path string, vs []decimal.Decimal, opts ...Opt) *Document {
	return EncodeFiltered(path, vs, Decimal, opts...)
}

// Put encodes *v with the built-in codec for T (see CodecFor). When T has no
// built-in codec the call logs an unsupported_type diagnostic and returns nil.
func Put[T any](path string, v *T, opts ...Opt) *Document {
	c, ok := CodecFor[T](opts...)
	if !ok {
		logUnsupported[T](resolve(opts), "encode", path)
		return nil
	}
	return Encode(path, v, c, opts...)
}

// PutSlice is Put for arrays with the same per-kind policy as GetSlice.
func PutSlice[T any](path string, vs []T, opts ...Opt) *Document {
	c, ok := CodecFor[T](opts...)
	if !ok {
		logUnsupported[T](resolve(opts), "encode", path)
		return nil
	}
	if isPrimitive[T]() {
		return EncodeSlice(path, vs, c, opts...)
	}
	return EncodeFiltered(path, vs, c, opts...)
}
