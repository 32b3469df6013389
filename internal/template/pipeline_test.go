package template

import (
	"errors"
	"testing"
)

func staticClipboard(content string) ClipboardReader {
	return func() (string, error) { return content, nil }
}

func failingClipboard() ClipboardReader {
	return func() (string, error) { return "", errors.New("clipboard unavailable") }
}

func TestExecutePlainText(t *testing.T) {
	res := Execute("nothing to expand", nil, staticClipboard("clip"))
	if res.Result != "nothing to expand" {
		t.Errorf("result = %q", res.Result)
	}
	if res.CursorIndex != nil {
		t.Errorf("cursor index should be absent, got %d", *res.CursorIndex)
	}
}

func TestExecuteArgumentReplaceAll(t *testing.T) {
	text := `{argument name="x"}-{argument name="x"}-{argument name="x"}`
	res := Execute(text, map[string]string{"x": "V"}, nil)
	if res.Result != "V-V-V" {
		t.Errorf("result = %q, want %q", res.Result, "V-V-V")
	}
}

func TestExecuteArgumentDefault(t *testing.T) {
	res := Execute(`Hi {argument name="x" default="Bob"}`, nil, nil)
	if res.Result != "Hi Bob" {
		t.Errorf("result = %q, want %q", res.Result, "Hi Bob")
	}
}

func TestExecuteUnresolvedArgumentIsEmpty(t *testing.T) {
	res := Execute(`a{argument name="missing"}b`, nil, nil)
	if res.Result != "ab" {
		t.Errorf("result = %q, want %q", res.Result, "ab")
	}
}

func TestExecuteMalformedPlaceholderStaysLiteral(t *testing.T) {
	text := `{argument} and {argument options="A"} stay`
	res := Execute(text, nil, nil)
	if res.Result != text {
		t.Errorf("result = %q, want unchanged %q", res.Result, text)
	}
}

func TestExecuteClipboard(t *testing.T) {
	res := Execute("a {clipboard} b {clipboard} c", nil, staticClipboard("X"))
	if res.Result != "a X b X c" {
		t.Errorf("result = %q, want %q", res.Result, "a X b X c")
	}
}

func TestExecuteClipboardSnapshotReadOnce(t *testing.T) {
	calls := 0
	reader := func() (string, error) {
		calls++
		return "snap", nil
	}
	res := Execute("{clipboard}{clipboard}{clipboard}", nil, reader)
	if res.Result != "snapsnapsnap" {
		t.Errorf("result = %q", res.Result)
	}
	if calls != 1 {
		t.Errorf("clipboard read %d times, want a single snapshot", calls)
	}
}

func TestExecuteClipboardNotReadWithoutToken(t *testing.T) {
	calls := 0
	reader := func() (string, error) {
		calls++
		return "snap", nil
	}
	Execute("no tokens here", nil, reader)
	if calls != 0 {
		t.Errorf("clipboard read %d times for a token-free template", calls)
	}
}

func TestExecuteClipboardFailureIsEmpty(t *testing.T) {
	res := Execute("a{clipboard}b", nil, failingClipboard())
	if res.Result != "ab" {
		t.Errorf("result = %q, want %q (failure treated as empty)", res.Result, "ab")
	}
}

func TestExecuteNilClipboardReader(t *testing.T) {
	res := Execute("a{clipboard}b", nil, nil)
	if res.Result != "ab" {
		t.Errorf("result = %q, want %q", res.Result, "ab")
	}
}

func TestExecuteArgumentValueNotReinterpreted(t *testing.T) {
	// An argument value that looks like a placeholder must stay literal.
	res := Execute(`{argument name="x"}`, map[string]string{"x": "{clipboard}"}, staticClipboard("SECRET"))
	if res.Result != "{clipboard}" {
		t.Errorf("result = %q, want literal %q", res.Result, "{clipboard}")
	}
}

func TestExecuteDefaultValueNotReinterpreted(t *testing.T) {
	res := Execute(`{argument name="x" default="{cursor}"}`, nil, nil)
	if res.Result != "{cursor}" {
		t.Errorf("result = %q, want literal %q", res.Result, "{cursor}")
	}
	if res.CursorIndex != nil {
		t.Errorf("inserted {cursor} text must not report an index, got %d", *res.CursorIndex)
	}
}

func TestExecuteClipboardContentNotReinterpreted(t *testing.T) {
	res := Execute("{clipboard}", nil, staticClipboard("{cursor} {clipboard}"))
	if res.Result != "{cursor} {clipboard}" {
		t.Errorf("result = %q, want clipboard content verbatim", res.Result)
	}
	if res.CursorIndex != nil {
		t.Errorf("clipboard-introduced {cursor} must not report an index, got %d", *res.CursorIndex)
	}
}

func TestExecuteCursorOffset(t *testing.T) {
	res := Execute("ab{cursor}cd", nil, nil)
	if res.Result != "abcd" {
		t.Errorf("result = %q, want %q", res.Result, "abcd")
	}
	if res.CursorIndex == nil || *res.CursorIndex != 2 {
		t.Errorf("cursor index = %v, want 2", res.CursorIndex)
	}
}

func TestExecuteMultipleCursorsFirstWins(t *testing.T) {
	res := Execute("{cursor}x{cursor}", nil, nil)
	if res.Result != "x" {
		t.Errorf("result = %q, want %q", res.Result, "x")
	}
	if res.CursorIndex == nil || *res.CursorIndex != 0 {
		t.Errorf("cursor index = %v, want 0", res.CursorIndex)
	}
}

func TestExecuteCursorAfterSubstitutions(t *testing.T) {
	// The reported offset is into the final string, after arguments and
	// clipboard content have been inserted.
	res := Execute(`{argument name="x"}{clipboard}{cursor}end`, map[string]string{"x": "abc"}, staticClipboard("12"))
	if res.Result != "abc12end" {
		t.Errorf("result = %q, want %q", res.Result, "abc12end")
	}
	if res.CursorIndex == nil || *res.CursorIndex != 5 {
		t.Errorf("cursor index = %v, want 5", res.CursorIndex)
	}
}

func TestExecuteCursorOffsetInRunes(t *testing.T) {
	res := Execute("héllo{cursor}!", nil, nil)
	if res.Result != "héllo!" {
		t.Errorf("result = %q", res.Result)
	}
	if res.CursorIndex == nil || *res.CursorIndex != 5 {
		t.Errorf("cursor index = %v, want 5 (rune offset, not bytes)", res.CursorIndex)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	text := `{argument name="x" default="d"} {clipboard} {cursor}`
	a := Execute(text, map[string]string{"x": "v"}, staticClipboard("c"))
	b := Execute(text, map[string]string{"x": "v"}, staticClipboard("c"))
	if a.Result != b.Result {
		t.Errorf("results differ: %q vs %q", a.Result, b.Result)
	}
	if (a.CursorIndex == nil) != (b.CursorIndex == nil) ||
		(a.CursorIndex != nil && *a.CursorIndex != *b.CursorIndex) {
		t.Errorf("cursor indexes differ: %v vs %v", a.CursorIndex, b.CursorIndex)
	}
}
