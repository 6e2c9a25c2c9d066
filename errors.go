// errors.go — unified diagnostics and caret-snippet rendering.
//
// Every stage (lexer, parser, evaluator, builtins) reports failures through
// a single *Error carrying a kind, a message and a 1-based source position.
// FormatErrorWithSource renders the error as a readable snippet with a caret
// pointing at the offending column:
//
//	VALUE ERROR at 1:14: cannot reassign constant 'P'
//
//	   1 | catst P = 1; P = 2;
//	     |              ^
//
// The snippet includes up to one line of context before and after the error
// line. Errors without a position render as "KIND: message" only.
package mew

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	DiagLex Kind = iota
	DiagParse
	DiagName
	DiagType
	DiagRange
	DiagValue
	DiagInternal

	// DiagIncomplete marks a parse that ran out of input at EOF; the REPL
	// uses it to keep reading continuation lines. It is never surfaced to
	// programs.
	DiagIncomplete
)

func (k Kind) String() string {
	switch k {
	case DiagLex:
		return "LEXICAL ERROR"
	case DiagParse, DiagIncomplete:
		return "PARSE ERROR"
	case DiagName:
		return "NAME ERROR"
	case DiagType:
		return "TYPE ERROR"
	case DiagRange:
		return "RANGE ERROR"
	case DiagValue:
		return "VALUE ERROR"
	default:
		return "INTERNAL ERROR"
	}
}

// Error is the single diagnostic type used by all stages. Line and Col are
// 1-based; zero means "no position available".
type Error struct {
	Kind Kind
	Msg  string
	Line int
	Col  int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// IsIncomplete reports whether err is an incomplete-input parse error,
// i.e. the source may become valid once more lines arrive.
func IsIncomplete(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == DiagIncomplete
}

// FormatErrorWithSource renders err as a caret-annotated snippet of src.
// Errors that are not *Error, or that carry no position, fall back to
// err.Error().
func FormatErrorWithSource(err error, src string) string {
	e, ok := err.(*Error)
	if !ok {
		return err.Error()
	}
	if e.Line <= 0 {
		return e.Error()
	}
	return prettyErrorString(src, e.Kind.String(), e.Line, e.Col, e.Msg)
}

// prettyErrorString builds the snippet: header, numbered context lines and a
// caret under the 1-based column. Coordinates are clamped to the source.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return strings.TrimRight(b.String(), "\n")
}
