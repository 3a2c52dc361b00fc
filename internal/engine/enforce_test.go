package engine

import (
	"errors"
	"io"
	"testing"
)

func drain(t *testing.T, src TokenSource) error {
	t.Helper()
	for {
		if _, err := src.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// {"a":{"b":[1,{"a":2,"a":3}]}}
func nestedDupTokens() []Token {
	return []Token{
		{Kind: KindBeginObject, Offset: 0},
		{Kind: KindKey, String: "a", Offset: 4},
		{Kind: KindBeginObject, Offset: 5},
		{Kind: KindKey, String: "b", Offset: 9},
		{Kind: KindBeginArray, Offset: 10},
		{Kind: KindNumber, Number: "1", Offset: 12},
		{Kind: KindBeginObject, Offset: 13},
		{Kind: KindKey, String: "a", Offset: 17},
		{Kind: KindNumber, Number: "2", Offset: 19},
		{Kind: KindKey, String: "a", Offset: 23},
		{Kind: KindNumber, Number: "3", Offset: 25},
		{Kind: KindEndObject, Offset: 26},
		{Kind: KindEndArray, Offset: 27},
		{Kind: KindEndObject, Offset: 28},
		{Kind: KindEndObject, Offset: 29},
	}
}

func TestWrapWithEnforcement_DisabledReturnsInner(t *testing.T) {
	inner := NewSliceSource(nil)
	if got := WrapWithEnforcement(inner, EnforceOptions{}); got != TokenSource(inner) {
		t.Fatalf("expected the inner source when nothing is enforced")
	}
}

func TestEnforce_DuplicateError_NestedPointer(t *testing.T) {
	src := WrapWithEnforcement(NewSliceSource(nestedDupTokens()), EnforceOptions{OnDuplicate: DupError})
	err := drain(t, src)
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "duplicate_key" || ie.Path != "/a/b/1/a" || ie.Offset != 23 {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}
}

func TestEnforce_DuplicateWarn_UsesSink(t *testing.T) {
	var got []SimpleIssue
	src := WrapWithEnforcement(NewSliceSource(nestedDupTokens()), EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { got = append(got, si) },
	})
	if err := drain(t, src); err != nil {
		t.Fatalf("warn must not fail: %v", err)
	}
	if len(got) != 1 || got[0].Path != "/a/b/1/a" {
		t.Fatalf("unexpected sink issues: %+v", got)
	}
}

func TestEnforce_SameKeyInSiblingObjectsIsNotDuplicate(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginArray},
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "a"},
		{Kind: KindNull},
		{Kind: KindEndObject},
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "a"},
		{Kind: KindNull},
		{Kind: KindEndObject},
		{Kind: KindEndArray},
	}
	src := WrapWithEnforcement(NewSliceSource(toks), EnforceOptions{OnDuplicate: DupError})
	if err := drain(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnforce_MaxDepth(t *testing.T) {
	src := WrapWithEnforcement(NewSliceSource(nestedDupTokens()), EnforceOptions{MaxDepth: 2})
	err := drain(t, src)
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "parse_error" || ie.Path != "/a/b" {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}

	src = WrapWithEnforcement(NewSliceSource(nestedDupTokens()), EnforceOptions{MaxDepth: 4})
	if err := drain(t, src); err != nil {
		t.Fatalf("depth 4 must pass: %v", err)
	}
}

func TestEnforce_MaxBytes(t *testing.T) {
	src := WrapWithEnforcement(NewSliceSource(nestedDupTokens()), EnforceOptions{MaxBytes: 10})
	err := drain(t, src)
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "truncated" || ie.Path != "/" {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}
}

func withoutOffsets(toks []Token) []Token {
	out := make([]Token, len(toks))
	for i, tok := range toks {
		tok.Offset = -1
		out[i] = tok
	}
	return out
}

func TestEnforce_MaxBytes_WithoutOffsets(t *testing.T) {
	// the tokens need at least 27 bytes of JSON
	src := WrapWithEnforcement(NewSliceSource(withoutOffsets(nestedDupTokens())), EnforceOptions{MaxBytes: 27})
	if err := drain(t, src); err != nil {
		t.Fatalf("27 bytes must pass: %v", err)
	}

	src = WrapWithEnforcement(NewSliceSource(withoutOffsets(nestedDupTokens())), EnforceOptions{MaxBytes: 26})
	err := drain(t, src)
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "truncated" || ie.Path != "/" || ie.Offset != -1 {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}
}

func TestJoinPointer_Escapes(t *testing.T) {
	if got := joinPointer("/a", "b/c~d"); got != "/a/b~1c~0d" {
		t.Fatalf("got %q", got)
	}
}

func TestKeyTracker(t *testing.T) {
	var k KeyTracker
	k.Open(true)
	if !k.ClassifyString() {
		t.Fatalf("first string in object is a key")
	}
	if k.ClassifyString() {
		t.Fatalf("second string in object is a value")
	}
	if !k.ClassifyString() {
		t.Fatalf("third string in object is a key")
	}
	k.Open(false)
	if k.ClassifyString() {
		t.Fatalf("strings in arrays are values")
	}
	k.Close()
	if !k.ClassifyString() {
		t.Fatalf("after a nested array value the object expects a key")
	}
}
