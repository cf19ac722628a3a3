package pith

import (
	"strings"
	"testing"
)

func TestErrorFormats(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&LexError{Line: 3, Msg: "Unterminated string."}, "[line 3] Error: Unterminated string."},
		{&ParseError{Line: 7, Msg: "Expected 'while' after 'do' block."}, "[line 7] Error: Expected 'while' after 'do' block."},
		{&RuntimeError{Line: 12, Msg: "Undefined variable 'x'."}, "[line 12] Error: Undefined variable 'x'."},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q want %q", got, tc.want)
		}
	}
}

func TestWrapErrorWithSourceSnippet(t *testing.T) {
	src := "int y = 1\nprint(x)\ny = 2\n"
	err := &RuntimeError{Line: 2, Msg: "Undefined variable 'x'."}
	wrapped := WrapErrorWithSource(err, src)
	msg := wrapped.Error()

	for _, fragment := range []string{
		"[line 2] Error: Undefined variable 'x'.",
		"   1 | int y = 1",
		"   2 | print(x)",
		"     | ^",
		"   3 | y = 2",
	} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("snippet missing %q:\n%s", fragment, msg)
		}
	}
}

func TestWrapErrorPassesLineZeroThrough(t *testing.T) {
	plain := &RuntimeError{Line: 0, Msg: "from a native"}
	if got := WrapErrorWithSource(plain, "src"); got != error(plain) {
		t.Fatalf("line-0 error should pass through, got %v", got)
	}
}

func TestRunReturnsTypedErrors(t *testing.T) {
	ip, _ := testInterp()
	if err := ip.Run("x = \"oops\n"); err == nil {
		t.Fatal("expected lex error")
	} else if _, ok := err.(*LexError); !ok {
		t.Fatalf("want *LexError, got %T", err)
	}

	ip2, _ := testInterp()
	if err := ip2.Run("do:\n    x()\n"); err == nil {
		t.Fatal("expected parse error")
	} else if _, ok := err.(*ParseError); !ok {
		t.Fatalf("want *ParseError, got %T", err)
	}

	ip3, _ := testInterp()
	if err := ip3.Run("print(nope)\n"); err == nil {
		t.Fatal("expected runtime error")
	} else if rt, ok := err.(*RuntimeError); !ok || rt.Line != 1 {
		t.Fatalf("want *RuntimeError at line 1, got %#v", err)
	}
}
