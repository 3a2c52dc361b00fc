package keypath

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Decoding is total: every helper reports (zero, false) for a missing key, a
// non-object intermediate, a shape mismatch or a value its codec rejects, and
// none of them can panic on input data. Callers that need a field to be
// present check the bool and give up themselves.
//
// Collections follow two policies:
//   - fail-fast (DecodeSlice): one bad element fails the whole array. Used for
//     primitive arrays.
//   - partial recovery (DecodeFiltered, DecodeMap, DecodeMapOfSlices): bad
//     elements or entries are dropped and the rest is returned. Used for
//     records and semantic scalars.

// Lookup resolves path in d using the configured delimiter.
func Lookup(d *Document, path string, opts ...Opt) (Value, bool) {
	return Resolve(d, path, resolve(opts).delim)
}

// Decode resolves path and converts the value with c.
func Decode[T any](d *Document, path string, c Codec[T], opts ...Opt) (T, bool) {
	var zero T
	v, ok := Lookup(d, path, opts...)
	if !ok {
		return zero, false
	}
	return c.FromValue(v)
}

// DecodeSlice resolves path to an array and converts every element with c.
// A single element c rejects fails the whole array.
func DecodeSlice[T any](d *Document, path string, c Codec[T], opts ...Opt) ([]T, bool) {
	v, ok := Lookup(d, path, opts...)
	if !ok {
		return nil, false
	}
	return sliceStrict(v, c)
}

// DecodeFiltered resolves path to an array and converts its elements with c,
// dropping those c rejects. It reports true whenever path holds an array.
func DecodeFiltered[T any](d *Document, path string, c Codec[T], opts ...Opt) ([]T, bool) {
	v, ok := Lookup(d, path, opts...)
	if !ok {
		return nil, false
	}
	return sliceFiltered(v, c)
}

// DecodeMap resolves path to an object and converts each entry with c,
// dropping entries c rejects.
func DecodeMap[T any](d *Document, path string, c Codec[T], opts ...Opt) (map[string]T, bool) {
	v, ok := Lookup(d, path, opts...)
	if !ok {
		return nil, false
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, false
	}
	out := make(map[string]T, obj.Len())
	obj.Range(func(k string, ev Value) bool {
		if t, ok := c.FromValue(ev); ok {
			out[k] = t
		}
		return true
	})
	return out, true
}

// DecodeMapOfSlices resolves path to an object of arrays. Entries that are
// not arrays are dropped; each array keeps the elements c accepts.
func DecodeMapOfSlices[T any](d *Document, path string, c Codec[T], opts ...Opt) (map[string][]T, bool) {
	v, ok := Lookup(d, path, opts...)
	if !ok {
		return nil, false
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, false
	}
	out := make(map[string][]T, obj.Len())
	obj.Range(func(k string, ev Value) bool {
		if ts, ok := sliceFiltered(ev, c); ok {
			out[k] = ts
		}
		return true
	})
	return out, true
}

// DecodeEnum decodes a single enum case at path.
func DecodeEnum[E any, R any](d *Document, path string, e *EnumCodec[E, R], opts ...Opt) (E, bool) {
	return Decode(d, path, Codec[E](e), opts...)
}

// DecodeEnumSlice resolves path to an array of raw values. Every element must
// have the raw representation or the whole array fails; raw values without a
// matching case are dropped.
func DecodeEnumSlice[E any, R any](d *Document, path string, e *EnumCodec[E, R], opts ...Opt) ([]E, bool) {
	raws, ok := DecodeSlice(d, path, e.raw, opts...)
	if !ok {
		return nil, false
	}
	out := make([]E, 0, len(raws))
	for _, r := range raws {
		if c, ok := e.ctor(r); ok {
			out = append(out, c)
		}
	}
	return out, true
}

func sliceStrict[T any](v Value, c Codec[T]) ([]T, bool) {
	if v.Kind() != KindArray {
		return nil, false
	}
	out := make([]T, 0, len(v.arr))
	for _, ev := range v.arr {
		t, ok := c.FromValue(ev)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

func sliceFiltered[T any](v Value, c Codec[T]) ([]T, bool) {
	if v.Kind() != KindArray {
		return nil, false
	}
	out := make([]T, 0, len(v.arr))
	for _, ev := range v.arr {
		if t, ok := c.FromValue(ev); ok {
			out = append(out, t)
		}
	}
	return out, true
}

// ---- records ----

// DecodeObject decodes the object at path into a record.
func DecodeObject[T any, P Model[T]](d *Document, path string, opts ...Opt) (T, bool) {
	return Decode(d, path, Object[T, P](), opts...)
}

// DecodeObjectSlice decodes an array of records, dropping elements that fail.
func DecodeObjectSlice[T any, P Model[T]](d *Document, path string, opts ...Opt) ([]T, bool) {
	return DecodeFiltered(d, path, Object[T, P](), opts...)
}

// DecodeObjectMap decodes an object of records, dropping entries that fail.
func DecodeObjectMap[T any, P Model[T]](d *Document, path string, opts ...Opt) (map[string]T, bool) {
	return DecodeMap(d, path, Object[T, P](), opts...)
}

// DecodeObjectSliceMap decodes an object of record arrays.
func DecodeObjectSliceMap[T any, P Model[T]](d *Document, path string, opts ...Opt) (map[string][]T, bool) {
	return DecodeMapOfSlices(d, path, Object[T, P](), opts...)
}

// ---- semantic scalars ----

// DecodeDate decodes a date string at path using f.
func DecodeDate(d *Document, path string, f DateFormatter, opts ...Opt) (time.Time, bool) {
	return Decode(d, path, Date(f), opts...)
}

// DecodeDateSlice decodes an array of date strings, dropping those f cannot parse.
func DecodeDateSlice(d *Document, path string, f DateFormatter, opts ...Opt) ([]time.Time, bool) {
	return DecodeFiltered(d, path, Date(f), opts...)
}

// DecodeISO8601Date decodes an ISO 8601 timestamp at path with the configured
// formatter.
func DecodeISO8601Date(d *Document, path string, opts ...Opt) (time.Time, bool) {
	return Decode(d, path, ISO8601Date(opts...), opts...)
}

// DecodeISO8601DateSlice is DecodeISO8601Date for arrays; unparsable
// elements are dropped.
func DecodeISO8601DateSlice(d *Document, path string, opts ...Opt) ([]time.Time, bool) {
	return DecodeFiltered(d, path, ISO8601Date(opts...), opts...)
}

// DecodeURL decodes a URL string at path.
func DecodeURL(d *Document, path string, opts ...Opt) (*url.URL, bool) {
	return Decode(d, path, URL, opts...)
}

// DecodeURLSlice decodes an array of URLs, dropping invalid ones.
func DecodeURLSlice(d *Document, path string, opts ...Opt) ([]*url.URL, bool) {
	return DecodeFiltered(d, path, URL, opts...)
}

// DecodeUUID decodes a UUID string at path.
func DecodeUUID(d *Document, path string, opts ...Opt) (uuid.UUID, bool) {
	return Decode(d, path, UUID, opts...)
}

// DecodeUUIDSlice decodes an array of UUIDs, dropping invalid ones.
func DecodeUUIDSlice(d *Document, path string, opts ...Opt) ([]uuid.UUID, bool) {
	return DecodeFiltered(d, path, UUID, opts...)
}

// DecodeDecimal decodes a number or numeric string at path as a decimal.
func DecodeDecimal(d *Document, path string, opts ...Opt) (decimal.Decimal, bool) {
	return Decode(d, path, Decimal, opts...)
}

// DecodeDecimalSlice decodes an array of decimals, dropping invalid ones.
func DecodeDecimalSlice(d *Document, path string, opts ...Opt) ([]decimal.Decimal, bool) {
	return DecodeFiltered(d, path, Decimal, opts...)
}

// Get decodes path using the built-in codec for T (see CodecFor). When T has
// no built-in codec the call logs an unsupported_type diagnostic and reports
// false.
func Get[T any](d *Document, path string, opts ...Opt) (T, bool) {
	var zero T
	c, ok := CodecFor[T](opts...)
	if !ok {
		logUnsupported[T](resolve(opts), "decode", path)
		return zero, false
	}
	return Decode(d, path, c, opts...)
}

// GetSlice is Get for arrays. Primitive element types fail fast; records and
// semantic scalars drop the elements they cannot decode.
func GetSlice[T any](d *Document, path string, opts ...Opt) ([]T, bool) {
	c, ok := CodecFor[T](opts...)
	if !ok {
		logUnsupported[T](resolve(opts), "decode", path)
		return nil, false
	}
	if isPrimitive[T]() {
		return DecodeSlice(d, path, c, opts...)
	}
	return DecodeFiltered(d, path, c, opts...)
}
