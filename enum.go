package keypath

// EnumCodec maps an enum type E to and from its raw representation R.
type EnumCodec[E any, R any] struct {
	raw   Codec[R]
	ctor  func(R) (E, bool)
	rawOf func(E) R
}

// Enum builds a Codec for E. raw reads and writes the underlying scalar, ctor
// maps a raw value to a case (false when there is no such case) and rawOf
// returns the raw value of a case.
//
//	type Color string
//	var colorCodec = keypath.Enum(keypath.String, parseColor, func(c Color) string { return string(c) })
func Enum[E any, R any](raw Codec[R], ctor func(R) (E, bool), rawOf func(E) R) *EnumCodec[E, R] {
	return &EnumCodec[E, R]{raw: raw, ctor: ctor, rawOf: rawOf}
}

// FromValue decodes the raw value and maps it to a case.
func (c *EnumCodec[E, R]) FromValue(v Value) (E, bool) {
	var zero E
	r, ok := c.raw.FromValue(v)
	if !ok {
		return zero, false
	}
	return c.ctor(r)
}

// ToValue encodes the raw value of e.
func (c *EnumCodec[E, R]) ToValue(e E) (Value, bool) {
	return c.raw.ToValue(c.rawOf(e))
}

// Raw returns the codec of the underlying representation.
func (c *EnumCodec[E, R]) Raw() Codec[R] { return c.raw }

// Case maps a raw value to its case.
func (c *EnumCodec[E, R]) Case(r R) (E, bool) { return c.ctor(r) }
