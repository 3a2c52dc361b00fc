package codec

import (
	"errors"
	"net/url"
	"strings"
)

// ErrEmptyURL is returned for empty URL strings.
var ErrEmptyURL = errors.New("codec: empty url")

// ParseURL percent-encodes every byte outside the characters allowed in a URL
// and parses the result. Existing %XX escapes are kept as they are.
func ParseURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, ErrEmptyURL
	}
	return url.Parse(EscapeURL(s))
}

// FormatURL returns the absolute string form of u.
func FormatURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

const upperhex = "0123456789ABCDEF"

// EscapeURL applies the percent-encoding step of ParseURL.
func EscapeURL(s string) string {
	var b *strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if urlAllowed(c) || (c == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2])) {
			if b != nil {
				b.WriteByte(c)
			}
			continue
		}
		if b == nil {
			b = &strings.Builder{}
			b.Grow(len(s) + 8)
			b.WriteString(s[:i])
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	if b == nil {
		return s
	}
	return b.String()
}

func urlAllowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', // unreserved
		'!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', // sub-delims
		':', '@', '/', '?', '#', '[', ']':
		return true
	}
	return false
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}
