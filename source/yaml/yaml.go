// Package yaml turns YAML input into the token stream documents are built
// from, so YAML files can be read with the same key paths as JSON.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/keypath"
	eng "github.com/reoring/keypath/internal/engine"
)

// ErrUnsupportedKey is returned for mapping keys that are not scalars.
var ErrUnsupportedKey = errors.New("yaml: mapping key is not a scalar")

// ErrAliasExpansion is returned when aliases expand into far more values than
// the document spells out.
var ErrAliasExpansion = errors.New("yaml: document contains excessive aliasing")

// NewReader decodes the first YAML document in r into a token source. Mapping
// order is preserved and repeated keys are emitted as they appear so the
// duplicate key policy applies to them.
func NewReader(r io.Reader) eng.TokenSource {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return errSource{err: err}
	}
	var e emitter
	if err := e.emit(&root, 0); err != nil {
		return errSource{err: err}
	}
	return eng.NewSliceSource(e.toks)
}

// NewBytes is NewReader over a byte slice.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

// Parse reads a YAML mapping into a Document. MaxBytes applies to data.
func Parse(data []byte, opts ...keypath.ParseOpt) (*keypath.Document, error) {
	if err := keypath.CheckSize(int64(len(data)), opts...); err != nil {
		return nil, err
	}
	return keypath.ParseDocumentSource(NewBytes(data), opts...)
}

// ReadDocument is Parse over an io.Reader. With MaxBytes set, at most
// MaxBytes+1 bytes are read.
func ReadDocument(r io.Reader, opts ...keypath.ParseOpt) (*keypath.Document, error) {
	data, err := keypath.ReadLimited(r, opts...)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

// maxAliasDepth bounds how deeply aliases may refer to other aliases.
const maxAliasDepth = 64

// Alias expansion budget, following the ratio yaml.v3 applies when decoding
// into Go values: up to 400k nodes almost anything goes, from 4M nodes on at
// most 10% of them may come from aliases.
const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
	aliasRatioRange     = float64(aliasRatioRangeHigh - aliasRatioRangeLow)
)

func allowedAliasRatio(nodes int) float64 {
	switch {
	case nodes <= aliasRatioRangeLow:
		return 0.99
	case nodes >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(nodes-aliasRatioRangeLow)/aliasRatioRange)
	}
}

type emitter struct {
	toks    []eng.Token
	nodes   int
	aliased int // nodes emitted through an alias
}

func (e *emitter) emit(n *yaml.Node, aliases int) error {
	e.nodes++
	if aliases > 0 {
		e.aliased++
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return e.emit(n.Content[0], aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth || n.Alias == nil {
			return fmt.Errorf("yaml: alias %q nested too deeply", n.Value)
		}
		if e.aliased > 100 && e.nodes > 1000 && float64(e.aliased)/float64(e.nodes) > allowedAliasRatio(e.nodes) {
			return ErrAliasExpansion
		}
		return e.emit(n.Alias, aliases+1)
	case yaml.MappingNode:
		e.toks = append(e.toks, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w (line %d)", ErrUnsupportedKey, k.Line)
			}
			e.toks = append(e.toks, eng.Token{Kind: eng.KindKey, String: k.Value, Offset: -1})
			if err := e.emit(n.Content[i+1], aliases); err != nil {
				return err
			}
		}
		e.toks = append(e.toks, eng.Token{Kind: eng.KindEndObject, Offset: -1})
	case yaml.SequenceNode:
		e.toks = append(e.toks, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			if err := e.emit(c, aliases); err != nil {
				return err
			}
		}
		e.toks = append(e.toks, eng.Token{Kind: eng.KindEndArray, Offset: -1})
	case yaml.ScalarNode:
		e.toks = append(e.toks, scalar(n))
	}
	return nil
}

// scalar maps a resolved YAML scalar to a JSON token. Values that have no
// JSON counterpart (.inf, .nan, timestamps) stay strings.
func scalar(n *yaml.Node) eng.Token {
	str := eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: -1}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return str
		}
		return eng.Token{Kind: eng.KindBool, Bool: b, Offset: -1}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10), Offset: -1}
		}
		if u, err := strconv.ParseUint(n.Value, 0, 64); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatUint(u, 10), Offset: -1}
		}
		return str
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return str
		}
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64), Offset: -1}
	default:
		return str
	}
}

type errSource struct{ err error }

func (s errSource) NextToken() (eng.Token, error) { return eng.Token{}, s.err }
func (s errSource) Location() int64               { return -1 }
