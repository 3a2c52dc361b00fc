package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/keypath"
)

const sample = `
service:
  name: api
  port: 8080
  ratio: 0.75
  enabled: yes_not_a_bool
  debug: true
  hex: 0x1F
  nothing: ~
  tags: [a, b]
  when: 2024-01-02
defaults: &defaults
  retries: 3
primary: *defaults
`

func TestParse_ScalarsAndOrder(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"service", "defaults", "primary"}, d.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if port, ok := keypath.Decode(d, "service.port", keypath.Int); !ok || port != 8080 {
		t.Fatalf("port: %d %v", port, ok)
	}
	if r, ok := keypath.Decode(d, "service.ratio", keypath.Float64); !ok || r != 0.75 {
		t.Fatalf("ratio: %v %v", r, ok)
	}
	if s, ok := keypath.Decode(d, "service.enabled", keypath.String); !ok || s != "yes_not_a_bool" {
		t.Fatalf("enabled: %q %v", s, ok)
	}
	if b, ok := keypath.Decode(d, "service.debug", keypath.Bool); !ok || !b {
		t.Fatalf("debug: %v %v", b, ok)
	}
	if h, ok := keypath.Decode(d, "service.hex", keypath.Int); !ok || h != 31 {
		t.Fatalf("hex: %d %v", h, ok)
	}
	if v, ok := keypath.Lookup(d, "service.nothing"); !ok || !v.IsNull() {
		t.Fatalf("nothing: %v %v", v, ok)
	}
	tags, ok := keypath.DecodeSlice(d, "service.tags", keypath.String)
	if !ok || len(tags) != 2 {
		t.Fatalf("tags: %v %v", tags, ok)
	}
	// timestamps have no JSON form and stay strings
	if s, ok := keypath.Decode(d, "service.when", keypath.String); !ok || s != "2024-01-02" {
		t.Fatalf("when: %q %v", s, ok)
	}
	if n, ok := keypath.Decode(d, "primary.retries", keypath.Int); !ok || n != 3 {
		t.Fatalf("alias: %d %v", n, ok)
	}
}

func TestParse_DuplicateKeyPolicy(t *testing.T) {
	in := []byte("a: 1\nb:\n  c: 1\n  c: 2\n")
	d, err := Parse(in)
	if err != nil {
		t.Fatalf("ignore policy must not fail: %v", err)
	}
	if c, _ := keypath.Decode(d, "b.c", keypath.Int); c != 2 {
		t.Fatalf("expected last value, got %d", c)
	}
	_, err = Parse(in, keypath.ParseOpt{Strictness: keypath.Strictness{OnDuplicateKey: keypath.Error}})
	iss, ok := keypath.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Path != "/b/c" {
		t.Fatalf("expected duplicate_key at /b/c, got %v", err)
	}
}

func TestParse_RootMustBeMapping(t *testing.T) {
	if _, err := Parse([]byte("- a\n- b\n")); err == nil {
		t.Fatalf("expected error for sequence root")
	}
	if _, err := Parse(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := Parse([]byte("a: [1, 2\n")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestParse_NonScalarKey(t *testing.T) {
	_, err := Parse([]byte("? [a, b]\n: 1\n"))
	if err == nil {
		t.Fatalf("expected error for sequence key")
	}
}

func TestParse_MaxBytes(t *testing.T) {
	data := []byte("a: " + strings.Repeat("x", 4096) + "\n")
	opt := keypath.ParseOpt{MaxBytes: 16}
	for name, parse := range map[string]func() (*keypath.Document, error){
		"bytes":  func() (*keypath.Document, error) { return Parse(data, opt) },
		"reader": func() (*keypath.Document, error) { return ReadDocument(bytes.NewReader(data), opt) },
		"source": func() (*keypath.Document, error) { return keypath.ParseDocumentSource(NewBytes(data), opt) },
	} {
		_, err := parse()
		iss, ok := keypath.AsIssues(err)
		if !ok || len(iss) == 0 || iss[0].Code != keypath.CodeTruncated {
			t.Fatalf("%s: expected truncated, got %v", name, err)
		}
	}
	if _, err := ReadDocument(bytes.NewReader(data), keypath.ParseOpt{MaxBytes: int64(len(data))}); err != nil {
		t.Fatalf("exact size must pass: %v", err)
	}
}

// laughs builds levels of anchors where each one lists its predecessor ten
// times.
func laughs(levels int) []byte {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < levels; i++ {
		ref := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(ref+", ", 10), ", "))
	}
	return []byte(b.String())
}

func TestParse_AliasExpansionBudget(t *testing.T) {
	_, err := Parse(laughs(7))
	if !errors.Is(err, ErrAliasExpansion) {
		t.Fatalf("expected ErrAliasExpansion, got %v", err)
	}
	d, err := Parse(laughs(3))
	if err != nil {
		t.Fatalf("modest aliasing must pass: %v", err)
	}
	if v, ok := keypath.Lookup(d, "l2"); !ok || v.Len() != 10 {
		t.Fatalf("l2: %v %v", v, ok)
	}
}
