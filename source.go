package keypath

import (
	"io"
	"sync"

	eng "github.com/reoring/keypath/internal/engine"
	drvgojson "github.com/reoring/keypath/source/gojson"
	jsonsrc "github.com/reoring/keypath/source/json"
)

// Token kinds, re-exported so drivers outside this module can produce tokens.
type TokenKind = eng.Kind

const (
	TokenBeginObject = eng.KindBeginObject
	TokenEndObject   = eng.KindEndObject
	TokenBeginArray  = eng.KindBeginArray
	TokenEndArray    = eng.KindEndArray
	TokenKey         = eng.KindKey
	TokenString      = eng.KindString
	TokenNumber      = eng.KindNumber
	TokenBool        = eng.KindBool
	TokenNull        = eng.KindNull
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token = eng.Token

// Source is a stream of tokens that ParseSource turns into a Document. It
// ends with io.EOF.
type Source = eng.TokenSource

// TokenSlice replays a fixed token sequence as a Source.
func TokenSlice(toks []Token) Source { return eng.NewSliceSource(toks) }

// JSONDriver converts JSON input into a Source. The default implementation
// is backed by goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json backed driver.
func UseDefaultJSONDriver() { SetJSONDriver(goJSONDriver{}) }

// StdlibJSONDriver returns a driver backed by encoding/json. Unlike the
// default one it reports byte offsets for tokens.
func StdlibJSONDriver() JSONDriver { return stdJSONDriver{} }

// CurrentJSONDriver returns the driver used by JSONBytes and JSONReader.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) Source { return drvgojson.NewReader(r) }
func (goJSONDriver) NewBytes(b []byte) Source     { return drvgojson.NewBytes(b) }
func (goJSONDriver) Name() string                 { return "go-json" }

type stdJSONDriver struct{}

func (stdJSONDriver) NewReader(r io.Reader) Source { return jsonsrc.NewReader(r) }
func (stdJSONDriver) NewBytes(b []byte) Source     { return jsonsrc.NewBytes(b) }
func (stdJSONDriver) Name() string                 { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }
