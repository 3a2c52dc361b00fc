package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/reoring/keypath"
	"github.com/reoring/keypath/i18n"
	yamlsrc "github.com/reoring/keypath/source/yaml"
)

// exitError carries a process exit code through run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", ee.err)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		usage(stderr)
		return &exitError{code: 2}
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "get":
		return getCmd(rest, stdin, stdout, stderr)
	case "set":
		return setCmd(rest, stdin, stdout, stderr)
	case "merge":
		return mergeCmd(rest, stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return &exitError{code: 2, err: fmt.Errorf("unknown command %q", sub)}
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `keypath: read and write JSON documents by key path

Usage:
  keypath get   [flags] PATH          print the value at PATH
  keypath set   [flags] PATH VALUE    set PATH to VALUE (a JSON literal) and print the document;
                                      exits 1 when PATH crosses a value that is not an object
  keypath merge [flags] FILE...       deep merge documents left to right

Input is read from --file (or the FILE arguments of merge), "-" meaning stdin.
Files ending in .yaml or .yml are read as YAML and .jsonc as JSON with
comments, unless --format says otherwise.`)
}

// common holds the flags shared by every subcommand.
type common struct {
	file      string
	format    string
	delimiter string
	dupKeys   string
	maxDepth  int
	maxBytes  int64
	stdlib    bool
	lang      string
	logLevel  string
	logger    *slog.Logger
}

func (c *common) register(fs *pflag.FlagSet, withFile bool) {
	if withFile {
		fs.StringVarP(&c.file, "file", "f", "-", "input document")
	}
	fs.StringVar(&c.format, "format", "", "input format: json, jsonc or yaml (default: from file extension)")
	fs.StringVarP(&c.delimiter, "delimiter", "d", keypath.DefaultDelimiter, "key path separator")
	fs.StringVar(&c.dupKeys, "duplicate-keys", "ignore", "duplicate key policy: ignore, warn or error")
	fs.IntVar(&c.maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fs.Int64Var(&c.maxBytes, "max-bytes", 0, "maximum input size in bytes (0 = unlimited)")
	fs.BoolVar(&c.stdlib, "stdlib-json", false, "parse JSON with encoding/json instead of go-json")
	fs.StringVar(&c.lang, "lang", "en", "message language: en or ja")
	fs.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func (c *common) setup(stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return &exitError{code: 2, err: fmt.Errorf("invalid --log-level %q", c.logLevel)}
	}
	c.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	i18n.SetLanguage(c.lang)
	if c.stdlib {
		keypath.SetJSONDriver(keypath.StdlibJSONDriver())
	} else {
		keypath.UseDefaultJSONDriver()
	}
	return nil
}

func (c *common) opt() keypath.Opt {
	return keypath.Opt{Delimiter: c.delimiter, Logger: c.logger}
}

func (c *common) parseOpt() (keypath.ParseOpt, error) {
	po := keypath.ParseOpt{MaxDepth: c.maxDepth, MaxBytes: c.maxBytes}
	switch strings.ToLower(c.dupKeys) {
	case "ignore", "":
		po.Strictness.OnDuplicateKey = keypath.Ignore
	case "warn":
		po.Strictness.OnDuplicateKey = keypath.Warn
	case "error":
		po.Strictness.OnDuplicateKey = keypath.Error
	default:
		return po, &exitError{code: 2, err: fmt.Errorf("invalid --duplicate-keys %q", c.dupKeys)}
	}
	po.Warn = func(is keypath.Issue) {
		c.logger.Warn(is.Message, "code", is.Code, "path", is.Path)
	}
	return po, nil
}

func (c *common) load(name string, stdin io.Reader) (*keypath.Document, error) {
	po, err := c.parseOpt()
	if err != nil {
		return nil, err
	}
	r := stdin
	if name != "-" && name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	data, err := keypath.ReadLimited(r, po)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(name), err)
	}
	format := strings.ToLower(c.format)
	if format == "" {
		switch {
		case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
			format = "yaml"
		case strings.HasSuffix(name, ".jsonc"):
			format = "jsonc"
		default:
			format = "json"
		}
	}
	c.logger.Debug("loading document", "file", name, "format", format, "bytes", len(data))
	var d *keypath.Document
	switch format {
	case "json":
		d, err = keypath.ParseJSON(data, po)
	case "jsonc":
		// Comments and trailing commas become whitespace, so offsets still
		// line up with the original file.
		d, err = keypath.ParseJSON(jsonc.ToJSON(data), po)
	case "yaml":
		d, err = yamlsrc.Parse(data, po)
	default:
		return nil, &exitError{code: 2, err: fmt.Errorf("invalid --format %q", c.format)}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(name), err)
	}
	return d, nil
}

func displayName(name string) string {
	if name == "-" || name == "" {
		return "<stdin>"
	}
	return name
}

func newFlagSet(name string, c *common, withFile bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.register(fs, withFile)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string, stdout io.Writer) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(stdout, "Usage of %s:\n%s", fs.Name(), fs.FlagUsages())
			return true, nil
		}
		return false, &exitError{code: 2, err: err}
	}
	return false, nil
}

func getCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("get", &c, true)
	if help, err := parseFlags(fs, args, stdout); help || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return &exitError{code: 2, err: errors.New("get: expected exactly one PATH")}
	}
	if err := c.setup(stderr); err != nil {
		return err
	}
	d, err := c.load(c.file, stdin)
	if err != nil {
		return err
	}
	v, ok := keypath.Lookup(d, fs.Arg(0), c.opt())
	if !ok {
		c.logger.Info("path not found", "path", fs.Arg(0))
		return &exitError{code: 1}
	}
	return writeJSON(stdout, v)
}

func setCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c common
	var asString bool
	fs := newFlagSet("set", &c, true)
	fs.BoolVarP(&asString, "string", "s", false, "treat VALUE as a plain string")
	if help, err := parseFlags(fs, args, stdout); help || err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return &exitError{code: 2, err: errors.New("set: expected PATH and VALUE")}
	}
	if err := c.setup(stderr); err != nil {
		return err
	}
	d, err := c.load(c.file, stdin)
	if err != nil {
		return err
	}
	path, raw := fs.Arg(0), fs.Arg(1)
	v := keypath.StringValue(raw)
	if !asString {
		parsed, err := keypath.ParseSource(keypath.JSONBytes([]byte(raw)))
		if err != nil {
			return &exitError{code: 2, err: fmt.Errorf("set: VALUE is not JSON (use --string): %w", err)}
		}
		v = parsed
	}
	delim := c.delimiter
	if delim == "" {
		delim = keypath.Defaults().Delimiter
	}
	p, ok := keypath.Split(path, delim)
	if !ok {
		return &exitError{code: 2, err: fmt.Errorf("set: %s", i18n.T(keypath.CodeInvalidPath, map[string]string{"path": path}))}
	}
	out, ok := keypath.AssignPath(d, p, v)
	if !ok {
		return &exitError{code: 1, err: fmt.Errorf("set: %s", i18n.T(keypath.CodeInvalidType, map[string]string{"path": path}))}
	}
	return writeJSON(stdout, out)
}

func mergeCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c common
	fs := newFlagSet("merge", &c, false)
	if help, err := parseFlags(fs, args, stdout); help || err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return &exitError{code: 2, err: errors.New("merge: expected at least one FILE")}
	}
	if err := c.setup(stderr); err != nil {
		return err
	}
	docs := make([]*keypath.Document, 0, fs.NArg())
	for _, name := range fs.Args() {
		d, err := c.load(name, stdin)
		if err != nil {
			return err
		}
		docs = append(docs, d)
	}
	return writeJSON(stdout, keypath.Merge(docs...))
}

func writeJSON(w io.Writer, v interface{ MarshalJSON() ([]byte, error) }) error {
	b, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	out.Write(b)
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}
