package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
// Reason names the message to show when it differs from Code, and Key holds
// the offending object key if any.
type SimpleIssue struct {
	Code    string
	Reason  string
	Key     string
	Path    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal findings (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
}

// Enabled reports whether any check is switched on.
func (o EnforceOptions) Enabled() bool {
	return o.OnDuplicate != DupIgnore || o.MaxDepth > 0 || o.MaxBytes > 0
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind      containerKind
	keys      map[string]struct{}
	path      string
	nextIndex int
	key       string // last key read in an object frame
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy, the maximum nesting depth and the maximum consumed bytes. Issues
// carry the JSON Pointer of the offending token.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if !opt.Enabled() {
		return inner
	}
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
	width int64 // estimated input size for sources without offsets
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), path: path}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fail("parse_error", "max_depth", rootIfEmpty(path), "max depth exceeded", tok.Offset)
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 && e.stack[n-1].kind == kindObject {
			top := &e.stack[n-1]
			top.key = tok.String
			if e.opt.OnDuplicate != DupIgnore {
				if _, dup := top.keys[tok.String]; dup {
					si := SimpleIssue{
						Code:    "duplicate_key",
						Key:     tok.String,
						Path:    joinPointer(top.path, tok.String),
						Message: "key '" + tok.String + "' duplicated",
						Offset:  tok.Offset,
					}
					if e.opt.OnDuplicate == DupError {
						return Token{}, IssueError{si}
					}
					if e.opt.IssueSink != nil {
						e.opt.IssueSink(si)
					}
				}
				top.keys[tok.String] = struct{}{}
			}
		}
	default:
		e.valuePath()
	}

	if e.opt.MaxBytes > 0 {
		off := e.Location()
		if off < 0 {
			e.width += tokenWidth(tok)
			if e.width > e.opt.MaxBytes {
				return Token{}, e.fail("truncated", "max_bytes", "/", "max bytes exceeded", -1)
			}
		} else if off > e.opt.MaxBytes {
			return Token{}, e.fail("truncated", "max_bytes", "/", "max bytes exceeded", off)
		}
	}
	return tok, nil
}

// valuePath returns the pointer of the value token being read and advances
// the array index of the enclosing frame.
func (e *enforcingTokenSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		p := joinPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	return joinPointer(top.path, top.key)
}

func (e *enforcingTokenSource) fail(code, reason, path, msg string, off int64) error {
	return IssueError{SimpleIssue{Code: code, Reason: reason, Path: path, Message: msg, Offset: off}}
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

// tokenWidth is the least JSON text tok can occupy, separators excluded.
func tokenWidth(tok Token) int64 {
	switch tok.Kind {
	case KindKey:
		return int64(len(tok.String)) + 3
	case KindString:
		return int64(len(tok.String)) + 2
	case KindNumber:
		return int64(len(tok.Number))
	case KindBool:
		if tok.Bool {
			return 4
		}
		return 5
	case KindNull:
		return 4
	default:
		return 1
	}
}

func rootIfEmpty(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
