package codec

import (
	"errors"
	"time"
)

// ErrInvalidTime is returned when a string matches none of the accepted layouts.
var ErrInvalidTime = errors.New("codec: invalid time")

// ISO8601Formatter formats times as RFC 3339 in UTC and parses the common
// ISO 8601 profiles (RFC 3339 with or without fractional seconds, and offsets
// written without a colon).
type ISO8601Formatter struct{}

// ISO8601 returns the default ISO 8601 formatter.
func ISO8601() ISO8601Formatter { return ISO8601Formatter{} }

var iso8601Layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
}

func (ISO8601Formatter) Parse(s string) (time.Time, error) {
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// Format normalizes to UTC; trailing zero fractions are trimmed.
func (ISO8601Formatter) Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// LayoutFormatter formats and parses with a fixed time layout in a fixed
// location.
type LayoutFormatter struct {
	layout string
	loc    *time.Location
}

// Layout returns a formatter for the given Go time layout. A nil location
// means UTC.
func Layout(layout string, loc *time.Location) LayoutFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return LayoutFormatter{layout: layout, loc: loc}
}

func (f LayoutFormatter) Parse(s string) (time.Time, error) {
	if f.layout == "" {
		return time.Time{}, ErrInvalidTime
	}
	return time.ParseInLocation(f.layout, s, f.loc)
}

func (f LayoutFormatter) Format(t time.Time) string {
	return t.In(f.loc).Format(f.layout)
}

// LayoutString returns the configured layout.
func (f LayoutFormatter) LayoutString() string { return f.layout }
