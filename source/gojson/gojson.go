// Package gojson is the goccy/go-json token driver, the default for parsing
// documents.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/keypath/internal/engine"
)

// go-json's decoder does not report reliable input offsets, so tokens carry
// Offset -1 and MaxBytes is enforced by the caller before decoding.
type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.keys.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case '[':
			s.keys.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		case '}':
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
		case ']':
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
	case string:
		if s.keys.ClassifyString() {
			return eng.Token{Kind: eng.KindKey, String: v, Offset: -1}, nil
		}
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		s.keys.Value()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.keys.Value()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.keys.Value()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.keys.Value()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

func (s *source) Location() int64 { return -1 }
