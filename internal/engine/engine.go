// Package engine holds the token stream shared by the JSON and YAML drivers
// and the enforcement wrapper applied while documents are built.
package engine

import "io"

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SliceSource replays a fixed token sequence. Drivers that materialize their
// input first (YAML) use it to feed the same build path as streaming JSON.
type SliceSource struct {
	toks []Token
	pos  int
}

// NewSliceSource returns a source that replays toks.
func NewSliceSource(toks []Token) *SliceSource { return &SliceSource{toks: toks} }

func (s *SliceSource) NextToken() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *SliceSource) Location() int64 {
	if s.pos == 0 || s.pos > len(s.toks) {
		return -1
	}
	return s.toks[s.pos-1].Offset
}
