package codec

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseURL_EscapesDisallowedBytes(t *testing.T) {
	u, err := ParseURL("https://example.com/a path?q=ü")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := FormatURL(u); got != "https://example.com/a%20path?q=%C3%BC" {
		t.Fatalf("unexpected url: %q", got)
	}
}

func TestParseURL_KeepsExistingEscapes(t *testing.T) {
	u, err := ParseURL("https://example.com/a%20b#frag")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := FormatURL(u); got != "https://example.com/a%20b#frag" {
		t.Fatalf("unexpected url: %q", got)
	}
	if u.Fragment != "frag" {
		t.Fatalf("unexpected fragment: %q", u.Fragment)
	}
}

func TestEscapeURL_LonePercent(t *testing.T) {
	if got := EscapeURL("100%"); got != "100%25" {
		t.Fatalf("unexpected escape: %q", got)
	}
	if got := EscapeURL("plain"); got != "plain" {
		t.Fatalf("unexpected escape: %q", got)
	}
}

func TestParseURL_Empty(t *testing.T) {
	if _, err := ParseURL(""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestParseUUID(t *testing.T) {
	u, err := ParseUUID("7F6E2A4C-7D3B-4E0B-9A3E-6E1C2B4D5F60")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := FormatUUID(u); got != "7f6e2a4c-7d3b-4e0b-9a3e-6e1c2b4d5f60" {
		t.Fatalf("unexpected uuid: %q", got)
	}
	for _, s := range []string{
		"",
		"not-a-uuid",
		"{7f6e2a4c-7d3b-4e0b-9a3e-6e1c2b4d5f60}",
		"urn:uuid:7f6e2a4c-7d3b-4e0b-9a3e-6e1c2b4d5f60",
		"7f6e2a4c7d3b4e0b9a3e6e1c2b4d5f60",
	} {
		if _, err := ParseUUID(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestParseDecimal_KeepsPrecision(t *testing.T) {
	d, err := ParseDecimal("12345678901234567890.123456789")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got := FormatDecimal(d); got != "12345678901234567890.123456789" {
		t.Fatalf("unexpected decimal: %q", got)
	}
	if !d.Equal(decimal.RequireFromString("12345678901234567890.123456789")) {
		t.Fatalf("value changed: %v", d)
	}
	if _, err := ParseDecimal("abc"); err == nil {
		t.Fatalf("expected error for non-numeric input")
	}
}
