package keypath

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reoring/keypath/codec"
)

// Date returns a Codec that reads and writes strings through f.
func Date(f DateFormatter) Codec[time.Time] { return dateCodec{f: f} }

// ISO8601Date returns a Codec using the formatter from opts, or the
// process-wide ISO 8601 formatter.
func ISO8601Date(opts ...Opt) Codec[time.Time] { return dateCodec{f: resolve(opts).iso8601} }

type dateCodec struct{ f DateFormatter }

func (c dateCodec) FromValue(v Value) (time.Time, bool) {
	s, ok := v.AsString()
	if !ok || c.f == nil {
		return time.Time{}, false
	}
	t, err := c.f.Parse(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (c dateCodec) ToValue(t time.Time) (Value, bool) {
	if c.f == nil {
		return Value{}, false
	}
	return StringValue(c.f.Format(t)), true
}

// URL reads strings into *url.URL after percent-encoding characters that
// are not allowed in URLs, and writes the absolute string form.
var URL Codec[*url.URL] = urlCodec{}

type urlCodec struct{}

func (urlCodec) FromValue(v Value) (*url.URL, bool) {
	s, ok := v.AsString()
	if !ok {
		return nil, false
	}
	u, err := codec.ParseURL(s)
	if err != nil {
		return nil, false
	}
	return u, true
}

func (urlCodec) ToValue(u *url.URL) (Value, bool) {
	if u == nil {
		return Value{}, false
	}
	return StringValue(codec.FormatURL(u)), true
}

// UUID reads canonical UUID strings and writes the lower-case canonical form.
var UUID Codec[uuid.UUID] = uuidCodec{}

type uuidCodec struct{}

func (uuidCodec) FromValue(v Value) (uuid.UUID, bool) {
	s, ok := v.AsString()
	if !ok {
		return uuid.Nil, false
	}
	u, err := codec.ParseUUID(s)
	if err != nil {
		return uuid.Nil, false
	}
	return u, true
}

func (uuidCodec) ToValue(u uuid.UUID) (Value, bool) { return StringValue(codec.FormatUUID(u)), true }

// Decimal reads numbers, or strings holding a number, into an
// arbitrary-precision decimal and writes a number.
var Decimal Codec[decimal.Decimal] = decimalCodec{}

type decimalCodec struct{}

func (decimalCodec) FromValue(v Value) (decimal.Decimal, bool) {
	var s string
	switch v.Kind() {
	case KindNumber:
		n, _ := v.AsNumber()
		s = string(n)
	case KindString:
		s, _ = v.AsString()
	default:
		return decimal.Decimal{}, false
	}
	d, err := codec.ParseDecimal(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func (decimalCodec) ToValue(d decimal.Decimal) (Value, bool) {
	return NumberValue(codec.FormatDecimal(d)), true
}
