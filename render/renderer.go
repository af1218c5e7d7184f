package render

import (
	"dql/parser"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

// Renderer turns parse errors and source text into terminal output. A plain renderer produces the same layout
// without any styling.
type Renderer struct {
	plain bool

	errorStyle      lipgloss.Style
	gutterStyle     lipgloss.Style
	caretStyle      lipgloss.Style
	keywordStyle    lipgloss.Style
	identifierStyle lipgloss.Style
	stringStyle     lipgloss.Style
	numberStyle     lipgloss.Style
	operatorStyle   lipgloss.Style
	paramStyle      lipgloss.Style
	commentStyle    lipgloss.Style
}

func NewRenderer(plain bool) *Renderer {
	return &Renderer{
		plain: plain,

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true),
		gutterStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")),
		caretStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true),

		keywordStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true),
		identifierStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8FAFC")),
		stringStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C")),
		numberStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9")),
		operatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")),
		paramStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD")),
		commentStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true),
	}
}

func (r *Renderer) style(style lipgloss.Style, s string) string {
	if r.plain || s == "" {
		return s
	}
	return style.Render(s)
}

// Error renders the message of the error followed by the affected source line and a caret below the error
// position. Errors collected during recovery are rendered one after another. Errors without position only consist
// of the message.
func (r *Renderer) Error(source string, err error) string {
	if err == nil {
		return ""
	}

	var errs parser.ErrorList
	if errors.As(err, &errs) {
		rendered := make([]string, len(errs))
		for i, e := range errs {
			rendered[i] = r.Error(source, e)
		}
		return strings.Join(rendered, "\n")
	}

	message := r.style(r.errorStyle, err.Error())

	position, ok := Position(err)
	if !ok {
		return message
	}

	lines := strings.Split(source, "\n")
	if position.Line < 1 || position.Line > len(lines) {
		return message
	}
	line := []rune(strings.TrimRight(lines[position.Line-1], "\r"))

	// Keep tabs so that the caret lines up with the source line.
	var caretPrefix strings.Builder
	for i := 0; i < position.Column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			caretPrefix.WriteRune('\t')
		} else {
			caretPrefix.WriteRune(' ')
		}
	}
	for i := len(line); i < position.Column-1; i++ {
		caretPrefix.WriteRune(' ')
	}

	lineNumber := strconv.Itoa(position.Line)
	sourceGutter := r.style(r.gutterStyle, " "+lineNumber+" | ")
	caretGutter := r.style(r.gutterStyle, " "+strings.Repeat(" ", len(lineNumber))+" | ")

	return message + "\n" +
		sourceGutter + string(line) + "\n" +
		caretGutter + caretPrefix.String() + r.style(r.caretStyle, "^")
}

// Position returns the source position of a (possibly wrapped) parser error.
func Position(err error) (parser.Position, bool) {
	var lexErr *parser.LexError
	var syntaxErr *parser.SyntaxError
	var depthErr *parser.DepthExceededError

	switch {
	case errors.As(err, &lexErr):
		return lexErr.Position, true
	case errors.As(err, &syntaxErr):
		return syntaxErr.Position, true
	case errors.As(err, &depthErr):
		return depthErr.Position, true
	}
	return parser.Position{}, false
}
