package keypath

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/keypath/i18n"
	eng "github.com/reoring/keypath/internal/engine"
)

// ParseSource consumes src and builds a Value. Duplicate keys, depth and size
// are enforced according to opts (the last one wins).
func ParseSource(src Source, opts ...ParseOpt) (Value, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	var sink func(eng.SimpleIssue)
	if opt.Warn != nil {
		sink = func(si eng.SimpleIssue) { opt.Warn(fromEngineIssue(si)) }
	}
	enforced := eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
	})
	tok, err := enforced.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, singleIssue(CodeParseError, i18n.T("empty_input", nil), io.ErrUnexpectedEOF)
		}
		return Value{}, toIssues(err)
	}
	v, err := buildValue(enforced, tok)
	if err != nil {
		return Value{}, toIssues(err)
	}
	if extra, err := enforced.NextToken(); err == nil {
		msg := i18n.T("trailing_data", map[string]string{"token": extra.Kind.String()})
		return Value{}, AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: msg, Offset: extra.Offset})
	} else if !errors.Is(err, io.EOF) {
		return Value{}, toIssues(err)
	}
	return v, nil
}

// ParseDocumentSource is ParseSource for inputs whose root must be an object.
func ParseDocumentSource(src Source, opts ...ParseOpt) (*Document, error) {
	v, err := ParseSource(src, opts...)
	if err != nil {
		return nil, err
	}
	d, ok := v.AsObject()
	if !ok {
		return nil, AppendIssues(nil, Issue{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Offset: -1})
	}
	return d, nil
}

// ParseJSON parses a JSON object into a Document using the current driver.
func ParseJSON(data []byte, opts ...ParseOpt) (*Document, error) {
	if err := CheckSize(int64(len(data)), opts...); err != nil {
		return nil, err
	}
	return ParseDocumentSource(JSONBytes(data), opts...)
}

// ReadJSON parses a JSON object from r. When MaxBytes is set the input is
// read up front so the cap holds for drivers without byte offsets.
func ReadJSON(r io.Reader, opts ...ParseOpt) (*Document, error) {
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 {
		data, err := ReadLimited(r, opts...)
		if err != nil {
			return nil, err
		}
		return ParseJSON(data, opts...)
	}
	return ParseDocumentSource(JSONReader(r), opts...)
}

// ReadLimited reads r through an io.LimitReader one byte past MaxBytes, so
// an oversized input fails CheckSize without being read in full.
func ReadLimited(r io.Reader, opts ...ParseOpt) ([]byte, error) {
	var limit int64
	if len(opts) > 0 {
		limit = opts[len(opts)-1].MaxBytes
	}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, singleIssue(CodeParseError, i18n.T(CodeParseError, map[string]string{"detail": err.Error()}), err)
	}
	return data, nil
}

// CheckSize reports a truncated issue when an input of n bytes exceeds the
// MaxBytes of opts. Drivers that read their whole input first call it before
// tokenizing.
func CheckSize(n int64, opts ...ParseOpt) error {
	if len(opts) == 0 {
		return nil
	}
	if limit := opts[len(opts)-1].MaxBytes; limit > 0 && n > limit {
		return AppendIssues(nil, Issue{Path: "/", Code: CodeTruncated, Message: i18n.T("max_bytes", nil), Offset: limit})
	}
	return nil
}

func buildValue(src Source, tok Token) (Value, error) {
	switch tok.Kind {
	case TokenBeginObject:
		return buildObject(src)
	case TokenBeginArray:
		return buildArray(src)
	case TokenString:
		return StringValue(tok.String), nil
	case TokenNumber:
		return NumberValue(json.Number(tok.Number)), nil
	case TokenBool:
		return BoolValue(tok.Bool), nil
	case TokenNull:
		return NullValue(), nil
	default:
		return Value{}, io.ErrUnexpectedEOF
	}
}

// buildObject reads entries until EndObject. A repeated key keeps its first
// position and its last value.
func buildObject(src Source) (Value, error) {
	d := &Document{vals: make(map[string]Value)}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return Value{}, eofAsUnexpected(err)
		}
		if tok.Kind == TokenEndObject {
			return ObjectValue(d), nil
		}
		if tok.Kind != TokenKey {
			return Value{}, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return Value{}, eofAsUnexpected(err)
		}
		v, err := buildValue(src, vt)
		if err != nil {
			return Value{}, err
		}
		if _, seen := d.vals[tok.String]; !seen {
			d.keys = append(d.keys, tok.String)
		}
		d.vals[tok.String] = v
	}
}

func buildArray(src Source) (Value, error) {
	arr := []Value{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return Value{}, eofAsUnexpected(err)
		}
		if tok.Kind == TokenEndArray {
			return Value{kind: KindArray, arr: arr}, nil
		}
		v, err := buildValue(src, tok)
		if err != nil {
			return Value{}, err
		}
		arr = append(arr, v)
	}
}

func eofAsUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, fromEngineIssue(ie.SimpleIssue))
	}
	return singleIssue(CodeParseError, i18n.T(CodeParseError, map[string]string{"detail": err.Error()}), err)
}

func singleIssue(code, msg string, cause error) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg, Cause: cause, Offset: -1})
}

// fromEngineIssue converts an engine finding, localizing its message.
func fromEngineIssue(si eng.SimpleIssue) Issue {
	key := si.Code
	if si.Reason != "" {
		key = si.Reason
	}
	var data map[string]string
	if si.Key != "" {
		data = map[string]string{"key": si.Key}
	}
	return Issue{Path: si.Path, Code: si.Code, Message: i18n.T(key, data), Offset: si.Offset}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// ---- serialization ----

// MarshalJSON renders d with keys in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocument(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return "<document>"
	}
	return string(b)
}

// UnmarshalJSON parses an object with the current driver, preserving key
// order.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// MarshalJSON renders v, keeping object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON parses any JSON value with the current driver.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSource(JSONBytes(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func writeDocument(buf *bytes.Buffer, d *Document) error {
	buf.WriteByte('{')
	var err error
	i := 0
	d.Range(func(k string, v Value) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		if err = writeString(buf, k); err != nil {
			return false
		}
		buf.WriteByte(':')
		err = writeValue(buf, v)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if v.num == "" {
			buf.WriteByte('0')
		} else {
			buf.WriteString(string(v.num))
		}
	case KindString:
		return writeString(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		return writeDocument(buf, v.obj)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
