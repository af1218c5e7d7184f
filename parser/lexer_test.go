package parser

import (
	"dql/util"
	"github.com/hauke96/sigolo/v2"
	"testing"
)

func lexemesOf(tokens []*Token) []string {
	lexemes := make([]string, len(tokens))
	for i, token := range tokens {
		lexemes[i] = token.lexeme
	}
	return lexemes
}

func kindsOf(tokens []*Token) []TokenKind {
	kinds := make([]TokenKind, len(tokens))
	for i, token := range tokens {
		kinds[i] = token.kind
	}
	return kinds
}

func TestLexer_currentAndNextChar(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	l := newLexer("012345", false)

	// Act & Assert
	util.AssertEqual(t, '0', l.char())
	util.AssertEqual(t, '1', l.nextChar())

	l.index = 3
	util.AssertEqual(t, '3', l.char())
	util.AssertEqual(t, '4', l.nextChar())

	l.index = 5
	util.AssertEqual(t, '5', l.char())
	util.AssertEqual(t, rune(-1), l.nextChar())

	l.index = 6
	util.AssertEqual(t, rune(-1), l.char())
	util.AssertEqual(t, rune(-1), l.nextChar())
}

func TestLexer_position(t *testing.T) {
	// Arrange
	l := newLexer("ab\ncd\n\nef", false)

	// Act & Assert
	util.AssertEqual(t, Position{Offset: 0, Line: 1, Column: 1}, l.position(0))
	util.AssertEqual(t, Position{Offset: 2, Line: 1, Column: 3}, l.position(2))
	util.AssertEqual(t, Position{Offset: 3, Line: 2, Column: 1}, l.position(3))
	util.AssertEqual(t, Position{Offset: 6, Line: 3, Column: 1}, l.position(6))
	util.AssertEqual(t, Position{Offset: 8, Line: 4, Column: 2}, l.position(8))
}

func TestLexer_skipLineComment(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	l := newLexer("-- ignore this\nSELECT", false)

	// Act
	l.skipLineComment()

	// Assert
	util.AssertEqual(t, 14, l.index)
}

func TestLexer_skipBlockComment(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	l := newLexer("/* a\n * b */SELECT", false)

	// Act
	err := l.skipBlockComment()

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 12, l.index)
}

func TestLexer_skipBlockComment_unterminated(t *testing.T) {
	// Arrange
	l := newLexer("/* a * / b", false)

	// Act
	err := l.skipBlockComment()

	// Assert
	lexErr := util.AssertErrorType[*LexError](t, err)
	util.AssertEqual(t, LexErrorUnterminatedComment, lexErr.Kind)
	util.AssertEqual(t, Position{Offset: 0, Line: 1, Column: 1}, lexErr.Position)
}

func TestLexer_currentKeyword(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	l := newLexer("SELECT(1)", false)

	// Act
	token := l.currentKeyword()

	// Assert
	util.AssertNotNil(t, token)
	util.AssertEqual(t, TokenKindKeyword, token.kind)
	util.AssertEqual(t, "SELECT", token.lexeme)
	util.AssertEqual(t, "SELECT", token.value)
	util.AssertEqual(t, 0, token.span.Start.Offset)
	util.AssertEqual(t, 6, token.span.End.Offset)
	util.AssertEqual(t, 6, l.index)
}

func TestLexer_currentKeyword_identifier(t *testing.T) {
	// Arrange
	l := newLexer("users1", false)

	// Act
	token := l.currentKeyword()

	// Assert
	util.AssertEqual(t, TokenKindIdentifier, token.kind)
	util.AssertEqual(t, "users", token.value)
	util.AssertEqual(t, 5, l.index)
}

func TestLexer_currentKeyword_caseSensitivity(t *testing.T) {
	// Arrange
	caseSensitive := newLexer("select", false)
	caseInsensitive := newLexer("select", true)

	// Act
	caseSensitiveToken := caseSensitive.currentKeyword()
	caseInsensitiveToken := caseInsensitive.currentKeyword()

	// Assert
	util.AssertEqual(t, TokenKindIdentifier, caseSensitiveToken.kind)
	util.AssertEqual(t, TokenKindKeyword, caseInsensitiveToken.kind)
	util.AssertEqual(t, "SELECT", caseInsensitiveToken.value)
	util.AssertEqual(t, "select", caseInsensitiveToken.lexeme)
}

func TestLexer_currentKeyword_bool(t *testing.T) {
	// Act
	trueToken := newLexer("true", false).currentKeyword()
	upperTrueToken := newLexer("TRUE", false).currentKeyword()
	falseToken := newLexer("FALSE", true).currentKeyword()

	// Assert
	util.AssertEqual(t, TokenKindKeyword, trueToken.kind)
	util.AssertEqual(t, "TRUE", trueToken.value)
	util.AssertEqual(t, TokenKindIdentifier, upperTrueToken.kind)
	util.AssertEqual(t, TokenKindKeyword, falseToken.kind)
	util.AssertEqual(t, "FALSE", falseToken.value)
}

func TestLexer_currentNumber(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	l := newLexer("123 abc", false)

	// Act
	token := l.currentNumber()

	// Assert
	util.AssertNotNil(t, token)
	util.AssertEqual(t, TokenKindNumber, token.kind)
	util.AssertEqual(t, "123", token.lexeme)
	util.AssertEqual(t, 0, token.span.Start.Offset)
	util.AssertEqual(t, 3, l.index)
}

func TestTokenize_numbers(t *testing.T) {
	// Act
	tokens, err := Tokenize("-5.0 1.5 .5 7 5.")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []string{"-5.0", "1.5", ".5", "7", "5", "."}, lexemesOf(tokens))
	util.AssertEqual(t, []TokenKind{TokenKindNumber, TokenKindNumber, TokenKindNumber, TokenKindNumber, TokenKindNumber, TokenKindPunctuation}, kindsOf(tokens))
}

func TestTokenizeWithOptions_caseInsensitiveKeywords(t *testing.T) {
	// Arrange
	options := DefaultOptions()
	options.CaseInsensitiveKeywords = true

	// Act
	tokens, err := TokenizeWithOptions("select a From t", options)
	defaultTokens, defaultErr := Tokenize("select a From t")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []TokenKind{TokenKindKeyword, TokenKindIdentifier, TokenKindKeyword, TokenKindIdentifier}, kindsOf(tokens))
	util.AssertEqual(t, "SELECT", tokens[0].Value())
	util.AssertEqual(t, "select", tokens[0].Lexeme())

	util.AssertNil(t, defaultErr)
	util.AssertEqual(t, []TokenKind{TokenKindIdentifier, TokenKindIdentifier, TokenKindIdentifier, TokenKindIdentifier}, kindsOf(defaultTokens))
}

func TestTokenize_signIsNotPartOfBareDotNumberOrInteger(t *testing.T) {
	// Act
	dotTokens, dotErr := Tokenize("-.5")
	integerTokens, integerErr := Tokenize("-5")

	// Assert
	util.AssertNil(t, dotErr)
	util.AssertEqual(t, []string{"-", ".5"}, lexemesOf(dotTokens))
	util.AssertEqual(t, []TokenKind{TokenKindOperator, TokenKindNumber}, kindsOf(dotTokens))

	util.AssertNil(t, integerErr)
	util.AssertEqual(t, []string{"-", "5"}, lexemesOf(integerTokens))
}

func TestTokenize_minusAfterOperandIsOperator(t *testing.T) {
	// Act
	tokens, err := Tokenize("a -5.0 = -1.5")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []string{"a", "-", "5.0", "=", "-1.5"}, lexemesOf(tokens))
}

func TestTokenize_strings(t *testing.T) {
	// Act
	tokens, err := Tokenize(`'it\'s' "a\nb" 'c\d' ""`)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 4, len(tokens))
	util.AssertEqual(t, TokenKindString, tokens[0].kind)
	util.AssertEqual(t, "it's", tokens[0].value)
	util.AssertEqual(t, `'it\'s'`, tokens[0].lexeme)
	util.AssertEqual(t, "a\nb", tokens[1].value)
	util.AssertEqual(t, `c\d`, tokens[2].value)
	util.AssertEqual(t, "", tokens[3].value)
}

func TestTokenize_unterminatedString(t *testing.T) {
	// Act
	_, errEnd := Tokenize("SELECT 'abc")
	_, errNewline := Tokenize("SELECT \"ab\nc\"")

	// Assert
	lexErr := util.AssertErrorType[*LexError](t, errEnd)
	util.AssertEqual(t, LexErrorUnterminatedString, lexErr.Kind)
	util.AssertEqual(t, 7, lexErr.Position.Offset)

	lexErr = util.AssertErrorType[*LexError](t, errNewline)
	util.AssertEqual(t, LexErrorUnterminatedString, lexErr.Kind)
}

func TestTokenize_quotedIdentifier(t *testing.T) {
	// Act
	tokens, err := Tokenize("`my table` `SELECT`")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []TokenKind{TokenKindQuotedIdentifier, TokenKindQuotedIdentifier}, kindsOf(tokens))
	util.AssertEqual(t, "my table", tokens[0].value)
	util.AssertEqual(t, "SELECT", tokens[1].value)
}

func TestTokenize_unterminatedQuotedIdentifier(t *testing.T) {
	// Act
	_, err := Tokenize("`abc\n`")

	// Assert
	lexErr := util.AssertErrorType[*LexError](t, err)
	util.AssertEqual(t, LexErrorUnterminatedString, lexErr.Kind)
}

func TestTokenize_commentsAreTrivia(t *testing.T) {
	// Act
	tokens, err := Tokenize("SELECT -- comment\n a /* block\n comment */ FROM t; --")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []string{"SELECT", "a", "FROM", "t", ";"}, lexemesOf(tokens))
}

func TestTokenize_operators(t *testing.T) {
	// Act
	tokens, err := Tokenize("a&&b||c<=d>=e!=f<g>h=i&j|k^l+m*n%o")

	// Assert
	util.AssertNil(t, err)
	operators := []string{}
	for _, token := range tokens {
		if token.kind == TokenKindOperator {
			operators = append(operators, token.lexeme)
		}
	}
	util.AssertEqual(t, []string{"&&", "||", "<=", ">=", "!=", "<", ">", "=", "&", "|", "^", "+", "*", "%"}, operators)
}

func TestTokenize_invalidCharacter(t *testing.T) {
	// Act
	_, errBang := Tokenize("a ! b")
	_, errHash := Tokenize("a\n #")

	// Assert
	lexErr := util.AssertErrorType[*LexError](t, errBang)
	util.AssertEqual(t, LexErrorInvalidCharacter, lexErr.Kind)
	util.AssertEqual(t, "!", lexErr.Character)
	util.AssertEqual(t, Position{Offset: 2, Line: 1, Column: 3}, lexErr.Position)

	lexErr = util.AssertErrorType[*LexError](t, errHash)
	util.AssertEqual(t, Position{Offset: 3, Line: 2, Column: 2}, lexErr.Position)
}

func TestTokenize_parameters(t *testing.T) {
	// Act
	tokens, err := Tokenize("$name ? $`odd name`")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []TokenKind{TokenKindNamedParam, TokenKindPositionalParam, TokenKindNamedParam}, kindsOf(tokens))
	util.AssertEqual(t, "name", tokens[0].value)
	util.AssertEqual(t, "odd name", tokens[2].value)
}

func TestTokenize_namedParamNeedsImmediateName(t *testing.T) {
	// Act
	_, err := Tokenize("$ name")

	// Assert
	lexErr := util.AssertErrorType[*LexError](t, err)
	util.AssertEqual(t, LexErrorInvalidCharacter, lexErr.Kind)
	util.AssertEqual(t, 0, lexErr.Position.Offset)
}

func TestTokenize_regex(t *testing.T) {
	// Act
	tokens, err := Tokenize(`a LIKE /^a[/\]]b\/c$/`)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []TokenKind{TokenKindIdentifier, TokenKindKeyword, TokenKindRegex}, kindsOf(tokens))
	util.AssertEqual(t, `^a[/\]]b\/c$`, tokens[2].value)
}

func TestTokenize_slashAfterOperandIsDivision(t *testing.T) {
	// Act
	tokens, err := Tokenize("a / b / 2")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []TokenKind{TokenKindIdentifier, TokenKindOperator, TokenKindIdentifier, TokenKindOperator, TokenKindNumber}, kindsOf(tokens))
}

func TestTokenize_unterminatedRegex(t *testing.T) {
	// Act
	_, errEnd := Tokenize("/abc")
	_, errNewline := Tokenize("/ab\nc/")
	_, errBracket := Tokenize("/a[bc/")

	// Assert
	for _, err := range []error{errEnd, errNewline, errBracket} {
		lexErr := util.AssertErrorType[*LexError](t, err)
		util.AssertEqual(t, LexErrorUnterminatedRegex, lexErr.Kind)
		util.AssertEqual(t, 0, lexErr.Position.Offset)
	}
}

func TestTokenize_emptyRegex(t *testing.T) {
	// Act
	_, err := Tokenize("//")

	// Assert
	lexErr := util.AssertErrorType[*LexError](t, err)
	util.AssertEqual(t, LexErrorInvalidCharacter, lexErr.Kind)
	util.AssertEqual(t, 1, lexErr.Position.Offset)
}

func TestTokenize_positions(t *testing.T) {
	// Act
	tokens, err := Tokenize("SELECT\n  abc;")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, Span{
		Start: Position{Offset: 9, Line: 2, Column: 3},
		End:   Position{Offset: 12, Line: 2, Column: 6},
	}, tokens[1].span)
}

func TestLexer_nextToken_endOfInput(t *testing.T) {
	// Arrange
	l := newLexer("a  ", false)

	// Act
	first, firstErr := l.nextToken()
	second, secondErr := l.nextToken()
	third, thirdErr := l.nextToken()

	// Assert
	util.AssertNil(t, firstErr)
	util.AssertNil(t, secondErr)
	util.AssertNil(t, thirdErr)
	util.AssertEqual(t, TokenKindIdentifier, first.kind)
	util.AssertEqual(t, TokenKindEOF, second.kind)
	util.AssertEqual(t, TokenKindEOF, third.kind)
	util.AssertEqual(t, 3, second.span.Start.Offset)
}
