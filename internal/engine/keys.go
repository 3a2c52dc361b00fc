package engine

// KeyTracker tells object keys apart from string values for decoders whose
// token stream does not (encoding/json and go-json both report keys as plain
// strings).
type KeyTracker struct {
	stack []keyFrame
}

type keyFrame struct {
	object       bool
	expectingKey bool
}

// Open records the start of an object or array.
func (k *KeyTracker) Open(object bool) {
	k.stack = append(k.stack, keyFrame{object: object, expectingKey: object})
}

// Close records the end of the innermost container, which counts as a value
// of its parent.
func (k *KeyTracker) Close() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.Value()
}

// ClassifyString classifies a string token, returning true when it is an object key.
func (k *KeyTracker) ClassifyString() bool {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	k.Value()
	return false
}

// Value records a scalar value.
func (k *KeyTracker) Value() {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
