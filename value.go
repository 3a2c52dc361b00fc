package keypath

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind enumerates the shapes a Value can take.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON-shaped datum: null, bool, number, string, array or object.
// The zero Value is null. Values are immutable; accessors never expose
// backing storage that callers could mutate in place.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  *Document
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberValue wraps the JSON text of a number. The text is not validated here;
// FromAny and the parsers only ever produce well-formed numbers.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// IntValue wraps a signed integer.
func IntValue(i int64) Value { return NumberValue(json.Number(strconv.FormatInt(i, 10))) }

// UintValue wraps an unsigned integer.
func UintValue(u uint64) Value { return NumberValue(json.Number(strconv.FormatUint(u, 10))) }

// FloatValue wraps a float using the shortest representation that round-trips.
// NaN and infinities have no JSON form and become null.
func FloatValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NullValue()
	}
	return NumberValue(json.Number(strconv.FormatFloat(f, 'g', -1, 64)))
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// ArrayValue wraps the given elements. The slice is copied.
func ArrayValue(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindArray, arr: cp}
}

// ObjectValue wraps d. A nil document is an empty object.
func ObjectValue(d *Document) Value {
	if d == nil {
		d = NewDocument()
	}
	return Value{kind: KindObject, obj: d}
}

// Kind returns the JSON type of v. The zero Value is null.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the number text held by v.
func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.num, true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsArray returns a copy of the elements.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	cp := make([]Value, len(v.arr))
	copy(cp, v.arr)
	return cp, true
}

// Len reports the element count of an array, the entry count of an object,
// and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Index returns the i-th array element.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// AsObject returns the document held by v.
func (v Value) AsObject() (*Document, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Equal reports deep equality. Numbers compare by their JSON text, so 1 and
// 1.0 are different values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(o.obj)
	}
	return false
}

// Any converts v into the map[string]any / []any tree used by encoding/json,
// with numbers as json.Number.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Any()
		}
		return out
	case KindObject:
		return v.obj.Any()
	default:
		return nil
	}
}

// FromAny converts a generic decoded tree into a Value. Maps are read in
// sorted key order since Go maps carry none.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case *Document:
		return ObjectValue(t), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case float64:
		return FloatValue(t), nil
	case float32:
		return FloatValue(float64(t)), nil
	case int:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case uint:
		return UintValue(uint64(t)), nil
	case uint32:
		return UintValue(uint64(t)), nil
	case uint64:
		return UintValue(t), nil
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			out[i] = ev
		}
		return Value{kind: KindArray, arr: out}, nil
	case map[string]any:
		d, err := documentFromMap(t)
		if err != nil {
			return Value{}, err
		}
		return ObjectValue(d), nil
	default:
		return Value{}, fmt.Errorf("keypath: unsupported value of type %T", x)
	}
}

func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}
