package keypath

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes. Decode and encode never produce Issues; they come from
// parsing documents and from the diagnostics logged for unsupported types.
const (
	CodeParseError      = "parse_error"
	CodeDuplicateKey    = "duplicate_key"
	CodeTruncated       = "truncated"
	CodeInvalidPath     = "invalid_path"
	CodeInvalidType     = "invalid_type"
	CodeUnsupportedType = "unsupported_type"
)

// Issue describes a single problem found while parsing input.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the input (-1 when unknown).
}

// Issues is a collection of parse problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. duplicate_key at /a
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is sees through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
