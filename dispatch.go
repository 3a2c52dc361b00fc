package keypath

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reoring/keypath/i18n"
)

// CodecFor returns the built-in Codec for T: the primitive codecs, the
// semantic scalars (time.Time uses the ISO 8601 formatter), Value, *Document,
// and any record type whose pointer implements Decodable and Encodable.
// Enums and custom date layouts need an explicit codec.
func CodecFor[T any](opts ...Opt) (Codec[T], bool) {
	var zero T
	var c any
	switch any(zero).(type) {
	case string:
		c = String
	case bool:
		c = Bool
	case int:
		c = Int
	case int32:
		c = Int32
	case int64:
		c = Int64
	case uint:
		c = Uint
	case uint32:
		c = Uint32
	case uint64:
		c = Uint64
	case float32:
		c = Float32
	case float64:
		c = Float64
	case json.Number:
		c = Number
	case Value:
		c = Raw
	case *Document:
		c = Doc
	case time.Time:
		c = ISO8601Date(opts...)
	case *url.URL:
		c = URL
	case uuid.UUID:
		c = UUID
	case decimal.Decimal:
		c = Decimal
	default:
		if _, ok := any(&zero).(Decodable); !ok {
			return nil, false
		}
		if _, ok := any(&zero).(Encodable); !ok {
			return nil, false
		}
		return recordCodec[T]{}, true
	}
	tc, ok := c.(Codec[T])
	return tc, ok
}

func isPrimitive[T any]() bool {
	var zero T
	switch any(zero).(type) {
	case string, bool, int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return true
	}
	return false
}

// recordCodec is Object for record types found through CodecFor, where the
// Model constraint cannot be spelled out statically.
type recordCodec[T any] struct{}

func (recordCodec[T]) FromValue(v Value) (T, bool) {
	var out T
	d, ok := v.AsObject()
	if !ok {
		return out, false
	}
	if !any(&out).(Decodable).DecodeDocument(d) {
		var zero T
		return zero, false
	}
	return out, true
}

func (recordCodec[T]) ToValue(t T) (Value, bool) {
	d, ok := any(&t).(Encodable).EncodeDocument()
	if !ok || d == nil {
		return Value{}, false
	}
	return ObjectValue(d), true
}

func logUnsupported[T any](c config, op, path string) {
	var zero T
	c.logger.Warn(i18n.T(CodeUnsupportedType, map[string]string{"type": fmt.Sprintf("%T", zero)}),
		"component", "keypath",
		"code", CodeUnsupportedType,
		"op", op,
		"type", fmt.Sprintf("%T", zero),
		"path", path,
	)
}
