package keypath

// Decodable is implemented by record types that populate themselves from a
// Document. DecodeDocument reports false when a field the record cannot do
// without is missing or malformed; optional fields simply stay unset.
type Decodable interface {
	DecodeDocument(d *Document) bool
}

// Encodable is implemented by record types that render themselves as a
// Document, usually by merging one fragment per field.
type Encodable interface {
	EncodeDocument() (*Document, bool)
}

// Model constrains *T to implement both halves of the record protocol.
type Model[T any] interface {
	*T
	Decodable
	Encodable
}

// Object returns a Codec for a record type T whose pointer implements Model.
func Object[T any, P Model[T]]() Codec[T] { return objectCodec[T, P]{} }

type objectCodec[T any, P Model[T]] struct{}

func (objectCodec[T, P]) FromValue(v Value) (T, bool) {
	var out T
	d, ok := v.AsObject()
	if !ok {
		return out, false
	}
	if !P(&out).DecodeDocument(d) {
		var zero T
		return zero, false
	}
	return out, true
}

func (objectCodec[T, P]) ToValue(t T) (Value, bool) {
	d, ok := P(&t).EncodeDocument()
	if !ok || d == nil {
		return Value{}, false
	}
	return ObjectValue(d), true
}

// DecodeInto decodes d into a record. It is the entry point for a top-level
// document.
func DecodeInto[T any, P Model[T]](d *Document) (T, bool) {
	return objectCodec[T, P]{}.FromValue(ObjectValue(d))
}

// EncodeFrom renders a record as a top-level document.
func EncodeFrom[T any, P Model[T]](t T) (*Document, bool) {
	v, ok := objectCodec[T, P]{}.ToValue(t)
	if !ok {
		return nil, false
	}
	return v.AsObject()
}
