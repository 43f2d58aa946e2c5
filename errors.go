// errors.go: error taxonomy and caret-snippet rendering
//
// What this file does
// -------------------
// Defines the errors the pipeline reports and turns them into readable,
// one-line snippets with a caret under the offending column:
//
//	PARSE ERROR at 1:7: expected ')' to close '(' at column 1
//
//	   1 | (1 + 2
//	     |       ^
//
// Error kinds
// -----------
//   - *LexError (lexer.go): strict mode only, unrecognized character.
//   - *ParseError: the line is not exactly one well-formed statement.
//   - *EvalError: UndefinedVariable, DivisionByZero or ModuloByZero.
//     errors.Is matches the sentinels ErrUndefinedVariable,
//     ErrDivisionByZero and ErrModuloByZero.
//
// All columns stored in errors are 0-based byte offsets; rendering is 1-based.
package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports a syntactically invalid line.
type ParseError struct {
	Col int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at 1:%d: %s", e.Col+1, e.Msg)
}

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int

const (
	UndefinedVariable EvalErrorKind = iota
	DivisionByZero
	ModuloByZero
)

func (k EvalErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case DivisionByZero:
		return "division by zero"
	case ModuloByZero:
		return "modulo by zero"
	}
	return fmt.Sprintf("EvalErrorKind(%d)", int(k))
}

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrModuloByZero      = errors.New("modulo by zero")
)

// EvalError reports a failure while evaluating a parsed statement.
// Name is set for UndefinedVariable. Col is -1 when no source position
// is known (e.g. Evaluator.Get).
type EvalError struct {
	Kind EvalErrorKind
	Name string
	Col  int
}

func (e *EvalError) msg() string {
	if e.Kind == UndefinedVariable {
		return fmt.Sprintf("undefined variable: %s", e.Name)
	}
	return e.Kind.String()
}

func (e *EvalError) Error() string {
	if e.Col < 0 {
		return "RUNTIME ERROR: " + e.msg()
	}
	return fmt.Sprintf("RUNTIME ERROR at 1:%d: %s", e.Col+1, e.msg())
}

// Is lets errors.Is match an *EvalError against the kind sentinels.
func (e *EvalError) Is(target error) bool {
	switch target {
	case ErrUndefinedVariable:
		return e.Kind == UndefinedVariable
	case ErrDivisionByZero:
		return e.Kind == DivisionByZero
	case ErrModuloByZero:
		return e.Kind == ModuloByZero
	}
	return false
}

// IsSyntaxError reports whether err came from lexing or parsing, as opposed
// to evaluation.
func IsSyntaxError(err error) bool {
	var lexErr *LexError
	var parseErr *ParseError
	return errors.As(err, &lexErr) || errors.As(err, &parseErr)
}

// WrapErrorWithSource returns an error whose message is a caret-annotated
// snippet of src. Lexer, parser and positioned evaluation errors are
// rendered; anything else is returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	var (
		lexErr   *LexError
		parseErr *ParseError
		evalErr  *EvalError
	)
	switch {
	case errors.As(err, &lexErr):
		return &snippetError{err: err, text: prettyErrorString(src, "LEXICAL ERROR", lexErr.Col+1, lexErr.Msg)}
	case errors.As(err, &parseErr):
		return &snippetError{err: err, text: prettyErrorString(src, "PARSE ERROR", parseErr.Col+1, parseErr.Msg)}
	case errors.As(err, &evalErr) && evalErr.Col >= 0:
		return &snippetError{err: err, text: prettyErrorString(src, "RUNTIME ERROR", evalErr.Col+1, evalErr.msg())}
	default:
		return err
	}
}

// snippetError keeps the original error reachable through errors.As/Is.
type snippetError struct {
	err  error
	text string
}

func (e *snippetError) Error() string { return e.text }
func (e *snippetError) Unwrap() error { return e.err }

// prettyErrorString builds the header line, the source line and a caret.
// col is 1-based and clamped to the line.
func prettyErrorString(src, header string, col int, msg string) string {
	line := src
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at 1:%d: %s\n\n", header, col, msg)
	fmt.Fprintf(&b, "%4d | %s\n", 1, line)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	return b.String()
}
