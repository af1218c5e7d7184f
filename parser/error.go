package parser

import (
	"fmt"
	"runtime"
	"strings"
)

type stack *[]uintptr

// getCurrentStack creates a new stack without the last three frames, because they are from the internal calls (e.g. to
// this function) and therefore irrelevant to the function creating the error.
func getCurrentStack() stack {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	var st = pcs[0:n]
	return &st
}

func getPrintableStackTrace(stack stack) string {
	var sb strings.Builder

	if stack == nil {
		return ""
	}

	for _, pc := range *stack {
		f := runtime.FuncForPC(pc)
		if f == nil {
			continue
		}
		file, line := f.FileLine(pc)
		sb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", f.Name(), file, line))
	}

	return sb.String()
}

func formatWithStack(s fmt.State, verb rune, err error, stack stack) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s\n%s", err.Error(), getPrintableStackTrace(stack))
			return
		}
		fmt.Fprintf(s, "%s", err.Error())
	case 's':
		fmt.Fprintf(s, "%s", err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

type LexErrorKind int

const (
	LexErrorUnterminatedString LexErrorKind = iota
	LexErrorUnterminatedComment
	LexErrorUnterminatedRegex
	LexErrorInvalidCharacter
)

func (k LexErrorKind) String() string {
	switch k {
	case LexErrorUnterminatedString:
		return "UnterminatedString"
	case LexErrorUnterminatedComment:
		return "UnterminatedComment"
	case LexErrorUnterminatedRegex:
		return "UnterminatedRegex"
	case LexErrorInvalidCharacter:
		return "InvalidCharacter"
	}
	return fmt.Sprintf("!! INVALID LEX ERROR KIND %d !!", k)
}

// LexError is returned when the lexer cannot produce a token at some position.
type LexError struct {
	Message   string       `json:"message"`
	Kind      LexErrorKind `json:"kind"`
	Position  Position     `json:"position"`
	Character string       `json:"character"`
	stack     stack
}

func newLexError(kind LexErrorKind, position Position, char rune) *LexError {
	var message string
	character := ""
	if char >= 0 {
		character = string(char)
	}

	switch kind {
	case LexErrorUnterminatedString:
		message = fmt.Sprintf("Lexing error: Unterminated quoted literal starting at %s.", position)
	case LexErrorUnterminatedComment:
		message = fmt.Sprintf("Lexing error: Unterminated block comment starting at %s.", position)
	case LexErrorUnterminatedRegex:
		message = fmt.Sprintf("Lexing error: Unterminated regex literal starting at %s.", position)
	default:
		if char < 0 {
			message = fmt.Sprintf("Lexing error: Unexpected end of input at %s.", position)
		} else {
			message = fmt.Sprintf("Lexing error: Invalid character %q at %s.", char, position)
		}
	}

	return &LexError{
		Message:   message,
		Kind:      kind,
		Position:  position,
		Character: character,
		stack:     getCurrentStack(),
	}
}

func (e *LexError) Format(s fmt.State, verb rune) {
	formatWithStack(s, verb, e, e.stack)
}

func (e *LexError) Error() string {
	return e.Message
}

// SyntaxError models a typical "Expected foo but found bar" kind of error.
type SyntaxError struct {
	Message   string    `json:"message"`
	Expected  string    `json:"expected"`
	Found     string    `json:"found"`
	FoundKind TokenKind `json:"found-kind"`
	Position  Position  `json:"position"`
	stack     stack
}

func newSyntaxError(expected string, found *Token) *SyntaxError {
	foundText := found.lexeme
	if found.kind == TokenKindEOF {
		foundText = found.kind.Lexeme()
	}

	return &SyntaxError{
		Message:   fmt.Sprintf("Parsing error: Expected %s at %s but found '%s' of kind %s.", expected, found.span.Start, foundText, found.kind.String()),
		Expected:  expected,
		Found:     foundText,
		FoundKind: found.kind,
		Position:  found.span.Start,
		stack:     getCurrentStack(),
	}
}

func (e *SyntaxError) Format(s fmt.State, verb rune) {
	formatWithStack(s, verb, e, e.stack)
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// DepthExceededError is returned when documents, arrays, function calls or expressions are nested deeper than the
// configured limit.
type DepthExceededError struct {
	Message  string   `json:"message"`
	Limit    int      `json:"limit"`
	Position Position `json:"position"`
	stack    stack
}

func newDepthExceededError(limit int, position Position) *DepthExceededError {
	return &DepthExceededError{
		Message:  fmt.Sprintf("Parsing error: Maximum nesting depth of %d exceeded at %s.", limit, position),
		Limit:    limit,
		Position: position,
		stack:    getCurrentStack(),
	}
}

func (e *DepthExceededError) Format(s fmt.State, verb rune) {
	formatWithStack(s, verb, e, e.stack)
}

func (e *DepthExceededError) Error() string {
	return e.Message
}

// ErrorList collects the errors of all failed statements when parsing with recovery enabled.
type ErrorList []error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(l)))
	for _, err := range l {
		sb.WriteString("\n\t* ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap makes the contained errors visible to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	return l
}

// ErrorPosition returns the source position of one of the parser's error types.
func ErrorPosition(err error) (Position, bool) {
	switch e := err.(type) {
	case *LexError:
		return e.Position, true
	case *SyntaxError:
		return e.Position, true
	case *DepthExceededError:
		return e.Position, true
	case ErrorList:
		if len(e) > 0 {
			return ErrorPosition(e[0])
		}
	}
	return Position{}, false
}
