package parser

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"sort"
	"strings"
	"unicode"
)

type Lexer struct {
	input      []rune
	index      int   // Position in input.
	lineStarts []int // Offsets of the first rune of every line.

	caseInsensitiveKeywords bool

	// previous is the last emitted token. It decides whether "/" and "-" start an operand (regex, signed number)
	// or are binary operators.
	previous *Token
}

func newLexer(input string, caseInsensitiveKeywords bool) *Lexer {
	runes := []rune(input)
	lineStarts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	return &Lexer{
		input:                   runes,
		index:                   0,
		lineStarts:              lineStarts,
		caseInsensitiveKeywords: caseInsensitiveKeywords,
	}
}

// Tokenize reads the whole input and returns all tokens. Whitespace and comments are not part of the result.
func Tokenize(input string) ([]*Token, error) {
	return TokenizeWithOptions(input, DefaultOptions())
}

// TokenizeWithOptions is Tokenize honouring Options.CaseInsensitiveKeywords. The other options only affect parsing.
func TokenizeWithOptions(input string, options Options) ([]*Token, error) {
	return newLexer(input, options.CaseInsensitiveKeywords).read()
}

// char returns the rune at the current location or the rune '-1' if there is no next char.
func (l *Lexer) char() rune {
	return l.charAt(l.index)
}

// nextChar returns the next rune, so the one after the rune char() returns, or the rune '-1' if there is no next char.
func (l *Lexer) nextChar() rune {
	return l.charAt(l.index + 1)
}

func (l *Lexer) charAt(index int) rune {
	if index < 0 || index >= len(l.input) {
		return -1
	}
	return l.input[index]
}

// position converts a rune offset into a line/column position.
func (l *Lexer) position(offset int) Position {
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}

	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - l.lineStarts[line] + 1,
	}
}

func (l *Lexer) read() ([]*Token, error) {
	var tokens []*Token
	for {
		token, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if token.kind == TokenKindEOF {
			break
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// nextToken returns the next token, skipping whitespace and comments. At the end of the input, a token of kind
// TokenKindEOF is returned on every call.
func (l *Lexer) nextToken() (*Token, error) {
	/*
		Approach:

		Look at the current character l.char() and create a token where possible. Each token creation has to take care
		of the index, so that we don't end up in an endless loop because the index wasn't incremented.
	*/

	for l.index < len(l.input) {
		char := l.char()
		l.tracef("Process next char")

		if unicode.IsSpace(char) {
			l.index++
			continue
		}

		if char == '-' && l.nextChar() == '-' {
			l.skipLineComment()
			continue
		}
		if char == '/' && l.nextChar() == '*' {
			err := l.skipBlockComment()
			if err != nil {
				return nil, err
			}
			continue
		}

		token, err := l.currentToken(char)
		if err != nil {
			return nil, err
		}

		l.tracef("Found token kind=%s, lexeme=%q", token.kind.String(), token.lexeme)
		l.previous = token
		return token, nil
	}

	end := l.position(len(l.input))
	return &Token{
		kind: TokenKindEOF,
		span: Span{Start: end, End: end},
	}, nil
}

func (l *Lexer) currentToken(char rune) (*Token, error) {
	switch char {
	case '(', ')', '[', ']', '{', '}', ',', ';', ':':
		return l.currentSingleCharToken(TokenKindPunctuation), nil
	case '.':
		if isDigit(l.nextChar()) {
			return l.currentNumber(), nil
		}
		return l.currentSingleCharToken(TokenKindPunctuation), nil
	case '?':
		return l.currentSingleCharToken(TokenKindPositionalParam), nil
	case '$':
		return l.currentNamedParam()
	case '`':
		return l.currentQuotedIdentifier()
	case '"', '\'':
		return l.currentString(char)
	}

	if isLetter(char) {
		return l.currentKeyword(), nil
	}

	if isDigit(char) {
		return l.currentNumber(), nil
	}

	// Operators
	switch char {
	case '-':
		if !l.previous.endsOperand() && l.isSignedNumberAhead() {
			return l.currentNumber(), nil
		}
		return l.currentSingleCharToken(TokenKindOperator), nil
	case '/':
		if !l.previous.endsOperand() {
			return l.currentRegex()
		}
		return l.currentSingleCharToken(TokenKindOperator), nil
	case '&', '|':
		if l.nextChar() == char {
			return l.currentMultiCharToken(TokenKindOperator, 2), nil
		}
		return l.currentSingleCharToken(TokenKindOperator), nil
	case '<', '>':
		if l.nextChar() == '=' {
			return l.currentMultiCharToken(TokenKindOperator, 2), nil
		}
		return l.currentSingleCharToken(TokenKindOperator), nil
	case '!':
		if l.nextChar() == '=' {
			return l.currentMultiCharToken(TokenKindOperator, 2), nil
		}
	case '=', '+', '*', '%', '^':
		return l.currentSingleCharToken(TokenKindOperator), nil
	}

	return nil, newLexError(LexErrorInvalidCharacter, l.position(l.index), char)
}

// skipLineComment skips a "-- ..." comment up to (but excluding) the next line break.
func (l *Lexer) skipLineComment() {
	l.tracef("Found line comment start")
	for ; l.index < len(l.input); l.index++ {
		if l.char() == '\n' || l.char() == '\r' {
			return
		}
	}
	l.tracef("Done parsing comment")
}

// skipBlockComment skips a non-nested "/* ... */" comment.
func (l *Lexer) skipBlockComment() error {
	l.tracef("Found block comment start")
	startIndex := l.index
	l.index += 2

	for ; l.index < len(l.input); l.index++ {
		if l.char() == '*' && l.nextChar() == '/' {
			l.index += 2
			l.tracef("Done parsing comment")
			return nil
		}
	}

	return newLexError(LexErrorUnterminatedComment, l.position(startIndex), '/')
}

func (l *Lexer) newToken(kind TokenKind, startIndex int, value string) *Token {
	return &Token{
		kind:   kind,
		lexeme: string(l.input[startIndex:l.index]),
		value:  value,
		span: Span{
			Start: l.position(startIndex),
			End:   l.position(l.index),
		},
	}
}

func (l *Lexer) currentSingleCharToken(tokenKind TokenKind) *Token {
	return l.currentMultiCharToken(tokenKind, 1)
}

func (l *Lexer) currentMultiCharToken(tokenKind TokenKind, chars int) *Token {
	startIndex := l.index
	l.index += chars
	lexeme := string(l.input[startIndex:l.index])
	return l.newToken(tokenKind, startIndex, lexeme)
}

// currentKeyword returns the keyword or identifier starting at the current index.
func (l *Lexer) currentKeyword() *Token {
	startIndex := l.index
	for ; l.index < len(l.input) && isLetter(l.char()); l.index++ {
	}
	word := string(l.input[startIndex:l.index])

	upperWord, lowerWord := word, word
	if l.caseInsensitiveKeywords {
		upperWord = strings.ToUpper(word)
		lowerWord = strings.ToLower(word)
	}

	if keywords[upperWord] {
		return l.newToken(TokenKindKeyword, startIndex, upperWord)
	}
	if boolKeyword, ok := boolKeywords[lowerWord]; ok {
		return l.newToken(TokenKindKeyword, startIndex, boolKeyword)
	}

	return l.newToken(TokenKindIdentifier, startIndex, word)
}

// currentQuotedIdentifier reads a backtick quoted identifier. Everything except line breaks is allowed between the
// backticks.
func (l *Lexer) currentQuotedIdentifier() (*Token, error) {
	startIndex := l.index
	l.index++

	for ; l.index < len(l.input); l.index++ {
		switch l.char() {
		case '\n':
			return nil, newLexError(LexErrorUnterminatedString, l.position(startIndex), '`')
		case '`':
			l.index++
			return l.newToken(TokenKindQuotedIdentifier, startIndex, string(l.input[startIndex+1:l.index-1])), nil
		}
	}

	return nil, newLexError(LexErrorUnterminatedString, l.position(startIndex), '`')
}

// currentString reads a single or double quoted string. The escape sequences \n, \\, \' and \" are decoded, any
// other backslash is kept as it is.
func (l *Lexer) currentString(quote rune) (*Token, error) {
	startIndex := l.index
	l.index++

	var value strings.Builder
	for ; l.index < len(l.input); l.index++ {
		char := l.char()
		switch char {
		case '\n':
			return nil, newLexError(LexErrorUnterminatedString, l.position(startIndex), quote)
		case quote:
			l.index++
			return l.newToken(TokenKindString, startIndex, value.String()), nil
		case '\\':
			switch l.nextChar() {
			case 'n':
				value.WriteRune('\n')
				l.index++
				continue
			case '\\', '\'', '"':
				value.WriteRune(l.nextChar())
				l.index++
				continue
			}
		}
		value.WriteRune(char)
	}

	return nil, newLexError(LexErrorUnterminatedString, l.position(startIndex), quote)
}

// isSignedNumberAhead returns true if the "-" at the current index starts a number of the form -123.456. A sign is
// not allowed on the ".456" form and integers never carry a sign.
func (l *Lexer) isSignedNumberAhead() bool {
	i := l.index + 1
	if !isDigit(l.charAt(i)) {
		return false
	}
	for isDigit(l.charAt(i)) {
		i++
	}
	return l.charAt(i) == '.' && isDigit(l.charAt(i+1))
}

// currentNumber reads one of the forms 123, 123.456, -123.456 or .456. The caller makes sure the current index
// really starts a number.
func (l *Lexer) currentNumber() *Token {
	startIndex := l.index

	if l.char() == '-' {
		l.index++
	}
	for ; l.index < len(l.input) && isDigit(l.char()); l.index++ {
	}
	if l.char() == '.' && isDigit(l.nextChar()) {
		l.index++
		for ; l.index < len(l.input) && isDigit(l.char()); l.index++ {
		}
	}

	return l.newToken(TokenKindNumber, startIndex, string(l.input[startIndex:l.index]))
}

// currentNamedParam reads a "$name" parameter. No whitespace is allowed between "$" and the name.
func (l *Lexer) currentNamedParam() (*Token, error) {
	startIndex := l.index
	l.index++

	var name string
	switch {
	case isLetter(l.char()):
		identifier := l.currentKeyword()
		name = identifier.lexeme
	case l.char() == '`':
		identifier, err := l.currentQuotedIdentifier()
		if err != nil {
			return nil, err
		}
		name = identifier.value
	default:
		l.index = startIndex
		return nil, newLexError(LexErrorInvalidCharacter, l.position(startIndex), '$')
	}

	return l.newToken(TokenKindNamedParam, startIndex, name), nil
}

// currentRegex reads a "/pattern/" literal. Inside a bracket expression like [a/b] the "/" does not end the literal.
func (l *Lexer) currentRegex() (*Token, error) {
	startIndex := l.index
	l.index++

	if l.char() == '/' {
		return nil, newLexError(LexErrorInvalidCharacter, l.position(l.index), '/')
	}

	var pattern strings.Builder
	for {
		char := l.char()
		switch char {
		case -1, '\n':
			return nil, newLexError(LexErrorUnterminatedRegex, l.position(startIndex), '/')
		case '\\':
			if !l.readEscapedRegexChar(&pattern) {
				return nil, newLexError(LexErrorUnterminatedRegex, l.position(startIndex), '/')
			}
		case '[':
			if !l.readRegexBracketExpression(&pattern) {
				return nil, newLexError(LexErrorUnterminatedRegex, l.position(startIndex), '/')
			}
		case '/':
			l.index++
			return l.newToken(TokenKindRegex, startIndex, pattern.String()), nil
		default:
			pattern.WriteRune(char)
			l.index++
		}
	}
}

func (l *Lexer) readEscapedRegexChar(pattern *strings.Builder) bool {
	escaped := l.nextChar()
	if escaped == -1 || escaped == '\n' {
		return false
	}
	pattern.WriteRune('\\')
	pattern.WriteRune(escaped)
	l.index += 2
	return true
}

func (l *Lexer) readRegexBracketExpression(pattern *strings.Builder) bool {
	pattern.WriteRune('[')
	l.index++

	for {
		char := l.char()
		switch char {
		case -1, '\n':
			return false
		case '\\':
			if !l.readEscapedRegexChar(pattern) {
				return false
			}
		case ']':
			pattern.WriteRune(']')
			l.index++
			return true
		default:
			pattern.WriteRune(char)
			l.index++
		}
	}
}

func isLetter(char rune) bool {
	return char >= 'a' && char <= 'z' || char >= 'A' && char <= 'Z'
}

func isDigit(char rune) bool {
	return char >= '0' && char <= '9'
}

func (l *Lexer) tracef(format string, args ...any) {
	formattedMessage := format
	if len(args) > 0 {
		formattedMessage = fmt.Sprintf(format, args...)
	}
	sigolo.Traceb(1, "[%d, %q] %s", l.index, l.char(), formattedMessage)
}
