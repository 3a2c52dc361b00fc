package keypath

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Codec converts between a Value and a typed T. Both directions report false
// instead of failing loudly; the decode and encode helpers turn that into an
// absent result.
type Codec[T any] interface {
	FromValue(v Value) (T, bool)
	ToValue(t T) (Value, bool)
}

// Primitive codecs. Each one accepts exactly its own JSON shape: strings are
// never read as numbers, numbers never as bools, and integer codecs only take
// integral numbers within range.
var (
	String  Codec[string]      = stringCodec{}
	Bool    Codec[bool]        = boolCodec{}
	Int     Codec[int]         = intCodec[int]{bits: strconv.IntSize}
	Int32   Codec[int32]       = intCodec[int32]{bits: 32}
	Int64   Codec[int64]       = intCodec[int64]{bits: 64}
	Uint    Codec[uint]        = uintCodec[uint]{bits: strconv.IntSize}
	Uint32  Codec[uint32]      = uintCodec[uint32]{bits: 32}
	Uint64  Codec[uint64]      = uintCodec[uint64]{bits: 64}
	Float32 Codec[float32]     = floatCodec[float32]{bits: 32}
	Float64 Codec[float64]     = floatCodec[float64]{bits: 64}
	Number  Codec[json.Number] = numberCodec{}
	Raw     Codec[Value]       = rawCodec{}
	Doc     Codec[*Document]   = documentCodec{}
)

type stringCodec struct{}

func (stringCodec) FromValue(v Value) (string, bool) { return v.AsString() }
func (stringCodec) ToValue(s string) (Value, bool)   { return StringValue(s), true }

type boolCodec struct{}

func (boolCodec) FromValue(v Value) (bool, bool) { return v.AsBool() }
func (boolCodec) ToValue(b bool) (Value, bool)   { return BoolValue(b), true }

type intCodec[T ~int | ~int32 | ~int64] struct{ bits int }

func (c intCodec[T]) FromValue(v Value) (T, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	i, ok := parseInt(string(n), c.bits)
	return T(i), ok
}

func (intCodec[T]) ToValue(t T) (Value, bool) { return IntValue(int64(t)), true }

type uintCodec[T ~uint | ~uint32 | ~uint64] struct{ bits int }

func (c uintCodec[T]) FromValue(v Value) (T, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	u, ok := parseUint(string(n), c.bits)
	return T(u), ok
}

func (uintCodec[T]) ToValue(t T) (Value, bool) { return UintValue(uint64(t)), true }

type floatCodec[T ~float32 | ~float64] struct{ bits int }

func (c floatCodec[T]) FromValue(v Value) (T, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(n), c.bits)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return T(f), true
}

func (c floatCodec[T]) ToValue(t T) (Value, bool) {
	f := float64(t)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, false
	}
	return NumberValue(json.Number(strconv.FormatFloat(f, 'g', -1, c.bits))), true
}

type numberCodec struct{}

func (numberCodec) FromValue(v Value) (json.Number, bool) { return v.AsNumber() }

func (numberCodec) ToValue(n json.Number) (Value, bool) {
	if _, err := strconv.ParseFloat(string(n), 64); err != nil {
		return Value{}, false
	}
	return NumberValue(n), true
}

type rawCodec struct{}

func (rawCodec) FromValue(v Value) (Value, bool) { return v, true }
func (rawCodec) ToValue(v Value) (Value, bool)   { return v, true }

type documentCodec struct{}

func (documentCodec) FromValue(v Value) (*Document, bool) { return v.AsObject() }

func (documentCodec) ToValue(d *Document) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	return ObjectValue(d), true
}

// parseInt accepts integral JSON numbers, including exponent or fraction
// forms whose value is integral ("1e3", "2.0"), and rejects anything that
// would truncate or overflow. Non-plain forms are evaluated exactly.
func parseInt(s string, bits int) (int64, bool) {
	if i, err := strconv.ParseInt(s, 10, bits); err == nil {
		return i, true
	}
	n, ok := exactInteger(s)
	if !ok || !n.IsInt64() {
		return 0, false
	}
	i := n.Int64()
	if bits < 64 && (i < -1<<(bits-1) || i > 1<<(bits-1)-1) {
		return 0, false
	}
	return i, true
}

func parseUint(s string, bits int) (uint64, bool) {
	if u, err := strconv.ParseUint(s, 10, bits); err == nil {
		return u, true
	}
	n, ok := exactInteger(s)
	if !ok || !n.IsUint64() {
		return 0, false
	}
	u := n.Uint64()
	if bits < 64 && u > 1<<bits-1 {
		return 0, false
	}
	return u, true
}

// exactInteger evaluates a decimal number with a fraction or exponent and
// reports whether it is an integer. A nonzero value whose exponent exceeds
// the text length by more than 20 cannot be an in-range integer, so it is
// rejected before big.Rat expands it.
func exactInteger(s string) (*big.Int, bool) {
	if !strings.ContainsAny(s, ".eE") || strings.Trim(s, "+-.eE0123456789") != "" {
		return nil, false
	}
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		if strings.ContainsRune(s[:i], '0') && strings.Trim(s[:i], "+-.0") == "" {
			return new(big.Int), true
		}
		exp, err := strconv.Atoi(s[i+1:])
		bound := len(s) + 20
		if err != nil || exp > bound || exp < -bound {
			return nil, false
		}
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || !r.IsInt() {
		return nil, false
	}
	return r.Num(), true
}
