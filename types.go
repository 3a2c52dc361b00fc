package keypath

import (
	"log/slog"
	"sync"
	"time"

	"github.com/reoring/keypath/codec"
)

// DateFormatter converts between time.Time and its string form. Both
// codec.Layout and codec.ISO8601 satisfy it.
type DateFormatter interface {
	Format(t time.Time) string
	Parse(s string) (time.Time, error)
}

// Opt configures a decode or encode call. Zero fields fall back to the
// process-wide defaults; when several Opts are passed the last one wins.
type Opt struct {
	Delimiter string        // Key path delimiter; "" uses the default.
	Logger    *slog.Logger  // Diagnostics sink; nil uses the default.
	ISO8601   DateFormatter // Formatter for the ISO 8601 date helpers; nil uses the default.
}

// config is the resolved form of Opt for a single call.
type config struct {
	delim   string
	logger  *slog.Logger
	iso8601 DateFormatter
}

var (
	defaultsMu     sync.RWMutex
	defaultDelim   = DefaultDelimiter
	defaultLogger  *slog.Logger
	defaultISO8601 DateFormatter = codec.ISO8601()
)

// SetDefaultDelimiter replaces the process-wide delimiter; "" is ignored.
func SetDefaultDelimiter(delim string) {
	if delim == "" {
		return
	}
	defaultsMu.Lock()
	defaultDelim = delim
	defaultsMu.Unlock()
}

// SetDefaultLogger replaces the process-wide diagnostics logger. nil restores
// slog.Default().
func SetDefaultLogger(l *slog.Logger) {
	defaultsMu.Lock()
	defaultLogger = l
	defaultsMu.Unlock()
}

// SetDefaultISO8601 replaces the process-wide ISO 8601 formatter. nil restores
// codec.ISO8601().
func SetDefaultISO8601(f DateFormatter) {
	if f == nil {
		f = codec.ISO8601()
	}
	defaultsMu.Lock()
	defaultISO8601 = f
	defaultsMu.Unlock()
}

// Defaults returns the current process-wide defaults as an Opt.
func Defaults() Opt {
	c := resolve(nil)
	return Opt{Delimiter: c.delim, Logger: c.logger, ISO8601: c.iso8601}
}

func resolve(opts []Opt) config {
	defaultsMu.RLock()
	c := config{delim: defaultDelim, logger: defaultLogger, iso8601: defaultISO8601}
	defaultsMu.RUnlock()
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if len(opts) > 0 {
		o := opts[len(opts)-1]
		if o.Delimiter != "" {
			c.delim = o.Delimiter
		}
		if o.Logger != nil {
			c.logger = o.Logger
		}
		if o.ISO8601 != nil {
			c.iso8601 = o.ISO8601
		}
	}
	return c
}

// Severity expresses how an enforcement finding is treated while parsing.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures duplicate key handling while parsing documents.
type Strictness struct {
	OnDuplicateKey Severity // Ignore keeps the last value; Warn reports and keeps the last value; Error fails.
}

// ParseOpt bundles options for turning JSON or YAML input into a Document.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	// Warn receives non-fatal findings (duplicate keys under Warn).
	Warn func(Issue)
}
