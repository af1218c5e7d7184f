package repl

import (
	"dql/config"
	"dql/parser"
	"dql/render"
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"io"
	"strings"
)

// Session collects input lines until they form complete ";" terminated statements and writes the parse result.
type Session struct {
	out      io.Writer
	options  parser.Options
	format   string
	renderer *render.Renderer

	buffer strings.Builder
}

func NewSession(out io.Writer, options parser.Options, format string, renderer *render.Renderer) *Session {
	return &Session{
		out:      out,
		options:  options,
		format:   format,
		renderer: renderer,
	}
}

// Pending returns true if incomplete input is buffered.
func (s *Session) Pending() bool {
	return s.buffer.Len() > 0
}

// Reset discards the buffered input and returns whether there was any.
func (s *Session) Reset() bool {
	pending := s.Pending()
	s.buffer.Reset()
	return pending
}

// Feed processes one line of input. As soon as the buffered input is complete, it is parsed and returned. The second
// return value is true when the user wants to quit.
func (s *Session) Feed(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)

	if !s.Pending() {
		switch {
		case trimmed == "":
			return "", false
		case trimmed == "exit" || trimmed == "quit":
			return "", true
		case strings.HasPrefix(trimmed, ":"):
			s.command(trimmed)
			return "", false
		}
	}

	if s.Pending() {
		s.buffer.WriteString("\n")
	}
	s.buffer.WriteString(input)

	fullInput := s.buffer.String()
	switch scanInput(fullInput, s.options) {
	case inputIncomplete:
		return "", false
	case inputEmpty:
		s.buffer.Reset()
		return "", false
	}
	s.buffer.Reset()

	s.evaluate(fullInput)
	return fullInput, false
}

func (s *Session) evaluate(input string) {
	sigolo.Debugf("Parse input:\n%s", input)

	statements, err := parser.ParseStringWithOptions(input, s.options)
	if len(statements) > 0 {
		output, formatErr := render.Statements(statements, s.format)
		if formatErr != nil {
			fmt.Fprintln(s.out, s.renderer.Error(input, formatErr))
		} else {
			fmt.Fprint(s.out, output)
		}
	}

	if err != nil {
		fmt.Fprintln(s.out, s.renderer.Error(input, err))
	}
}

func (s *Session) command(command string) {
	fields := strings.Fields(command)

	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?          Show this help")
		fmt.Fprintln(s.out, "  :format tree|json|yaml Set the output format")
		fmt.Fprintln(s.out, "  :tokens <input>        Show the tokens of the input")
		fmt.Fprintln(s.out, "  :options               Show the parser options")
		fmt.Fprintln(s.out, "  exit, quit             Quit")
	case ":format":
		if len(fields) != 2 {
			fmt.Fprintf(s.out, "Current format: %s\n", s.format)
			return
		}
		cfg := config.Defaults()
		cfg.Output.Format = fields[1]
		err := cfg.Validate()
		if err != nil {
			fmt.Fprintln(s.out, s.renderer.Error("", err))
			return
		}
		s.format = fields[1]
		fmt.Fprintf(s.out, "Output format set to %s\n", s.format)
	case ":tokens":
		input := strings.TrimSpace(strings.TrimPrefix(command, ":tokens"))
		tokens, err := parser.TokenizeWithOptions(input, s.options)
		if err != nil {
			fmt.Fprintln(s.out, s.renderer.Error(input, err))
			return
		}
		output, err := render.Tokens(tokens, s.format)
		if err != nil {
			fmt.Fprintln(s.out, s.renderer.Error(input, err))
			return
		}
		fmt.Fprintln(s.out, s.renderer.Highlight(input, s.options))
		fmt.Fprint(s.out, output)
	case ":options":
		fmt.Fprintf(s.out, "max depth: %d\ncase insensitive keywords: %t\nrecover: %t\n", s.options.MaxDepth,
			s.options.CaseInsensitiveKeywords, s.options.Recover)
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", fields[0])
	}
}

type inputState int

const (
	inputIncomplete inputState = iota
	inputComplete
	// inputEmpty is input consisting of whitespace and comments only.
	inputEmpty
)

// scanInput decides whether the input is complete. Input is incomplete until its last token is a ";". Open block
// comments are incomplete as well, every other lexing error completes the input so that it gets reported.
func scanInput(input string, options parser.Options) inputState {
	tokens, err := parser.TokenizeWithOptions(input, options)
	if err != nil {
		var lexErr *parser.LexError
		if errors.As(err, &lexErr) && lexErr.Kind == parser.LexErrorUnterminatedComment {
			return inputIncomplete
		}
		return inputComplete
	}
	if len(tokens) == 0 {
		return inputEmpty
	}

	last := tokens[len(tokens)-1]
	if last.Kind() != parser.TokenKindPunctuation || last.Lexeme() != ";" {
		return inputIncomplete
	}
	return inputComplete
}
