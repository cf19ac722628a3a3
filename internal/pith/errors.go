// errors.go: user-facing error wrapping and snippet rendering.
//
// The three error kinds the core distinguishes at its boundaries are
// *LexError, *ParseError, and *RuntimeError, each carrying a 1-based source
// line. WrapErrorWithSource recognizes them and returns an error whose
// message is a readable snippet:
//
//	[line 3] Error: Undefined variable 'x'.
//
//	   2 | int y = 1
//	   3 | print(x)
//	     | ^
//	   4 | y = 2
//
// Any other error is returned unchanged. The renderer is independent of the
// evaluator and is shared by the batch driver and the REPL.
package pith

import (
	"fmt"
	"strings"
)

// LexError is a lexical failure (malformed literal, unterminated string,
// dedent to an unknown indentation level).
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Msg)
}

// ParseError is a syntactic failure.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Msg)
}

// RuntimeError is an execution-time failure: name, type, bounds, or
// arithmetic errors. Natives without source context report line 0.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Msg)
}

// WrapErrorWithSource augments a core error with a pointer to the offending
// line of src. Errors of other types pass through untouched.
func WrapErrorWithSource(err error, src string) error {
	var line int
	switch e := err.(type) {
	case *LexError:
		line = e.Line
	case *ParseError:
		line = e.Line
	case *RuntimeError:
		line = e.Line
	default:
		return err
	}
	if line < 1 || src == "" {
		return err
	}
	return fmt.Errorf("%s\n\n%s", err.Error(), snippet(src, line))
}

// snippet renders the offending line with one line of context each way and a
// caret column under the first non-blank character.
func snippet(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	pad := len(lineTxt) - len(strings.TrimLeft(lineTxt, " \t"))
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", pad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s", line+1, lines[line])
	}
	return b.String()
}
