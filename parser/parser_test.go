package parser

import (
	"dql/query"
	"dql/util"
	"github.com/hauke96/sigolo/v2"
	"strings"
	"testing"
)

func TestParser_tokenNavigation(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	p := newParser("SELECT a;", DefaultOptions())

	// Act & Assert
	util.AssertEqual(t, "SELECT", p.currentToken().lexeme)
	util.AssertEqual(t, "a", p.peekNextToken().lexeme)
	util.AssertEqual(t, 0, p.index)

	util.AssertEqual(t, "a", p.moveToNextToken().lexeme)
	util.AssertEqual(t, ";", p.moveToNextToken().lexeme)
	util.AssertEqual(t, TokenKindEOF, p.moveToNextToken().kind)
	util.AssertEqual(t, TokenKindEOF, p.moveToNextToken().kind)
	util.AssertEqual(t, TokenKindEOF, p.peekNextToken().kind)
}

func TestParser_tokensAreReadLazily(t *testing.T) {
	// Arrange
	p := newParser("SELECT a FROM t;", DefaultOptions())

	// Act
	p.peekNextToken()

	// Assert
	util.AssertEqual(t, 2, len(p.token))
}

func TestParser_lexErrorBecomesInvalidToken(t *testing.T) {
	// Arrange
	p := newParser("a # b", DefaultOptions())

	// Act
	token := p.tokenAt(5)

	// Assert
	util.AssertEqual(t, TokenKindInvalid, token.kind)
	util.AssertEqual(t, 2, len(p.token))
	util.AssertEqual(t, 2, token.span.Start.Offset)
	lexErr := util.AssertErrorType[*LexError](t, p.errorExpected("anything", token))
	util.AssertEqual(t, LexErrorInvalidCharacter, lexErr.Kind)
}

func TestParser_consumeAndExpect(t *testing.T) {
	// Arrange
	p := newParser("SELECT DISTINCT ( x", DefaultOptions())

	// Act & Assert
	util.AssertFalse(t, p.consumeNextKeyword("FROM"))
	util.AssertTrue(t, p.consumeNextKeyword("DISTINCT"))
	util.AssertTrue(t, p.consumeNextPunctuation("("))

	err := p.expectNextPunctuation(")")
	syntaxErr := util.AssertErrorType[*SyntaxError](t, err)
	util.AssertEqual(t, "')'", syntaxErr.Expected)
	util.AssertEqual(t, "x", syntaxErr.Found)
	util.AssertEqual(t, TokenKindIdentifier, syntaxErr.FoundKind)
}

func TestParser_isWord(t *testing.T) {
	// Arrange
	caseSensitive := newParser("count", DefaultOptions())
	caseInsensitive := newParser("count", Options{CaseInsensitiveKeywords: true})

	// Act & Assert
	util.AssertFalse(t, caseSensitive.isWord(caseSensitive.currentToken(), "COUNT"))
	util.AssertTrue(t, caseSensitive.isWord(caseSensitive.currentToken(), "count"))
	util.AssertTrue(t, caseInsensitive.isWord(caseInsensitive.currentToken(), "COUNT"))
}

func TestParser_enterAndLeave(t *testing.T) {
	// Arrange
	p := newParser("a", Options{MaxDepth: 2})

	// Act & Assert
	util.AssertNil(t, p.enter())
	util.AssertNil(t, p.enter())

	err := p.enter()
	depthErr := util.AssertErrorType[*DepthExceededError](t, err)
	util.AssertEqual(t, 2, depthErr.Limit)
	util.AssertEqual(t, 2, p.depth)

	p.leave()
	util.AssertNil(t, p.enter())
}

func TestParser_defaultMaxDepth(t *testing.T) {
	// Act
	p := newParser("a", Options{})

	// Assert
	util.AssertEqual(t, DefaultMaxDepth, p.options.MaxDepth)
}

func TestParseString_emptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "-- only a comment\n/* and another */"} {
		// Act
		statements, err := ParseString(input)

		// Assert
		util.AssertEqual(t, 0, len(statements))
		syntaxErr := util.AssertErrorType[*SyntaxError](t, err)
		util.AssertEqual(t, "statement", syntaxErr.Expected)
		util.AssertEqual(t, "end of input", syntaxErr.Found)
	}
}

func TestParseString_multipleStatements(t *testing.T) {
	// Act
	statements, err := ParseString("BEGIN; DELETE FROM t; COMMIT;")

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []query.Statement{
		&query.BeginStatement{},
		&query.DeleteStatement{Table: &query.Identifier{Name: "t"}},
		&query.CommitStatement{},
	}, statements)
}

func TestParseString_missingSemicolon(t *testing.T) {
	// Act
	statements, err := ParseString("SELECT 1")

	// Assert
	util.AssertEqual(t, 0, len(statements))
	syntaxErr := util.AssertErrorType[*SyntaxError](t, err)
	util.AssertEqual(t, "';'", syntaxErr.Expected)
	util.AssertEqual(t, "end of input", syntaxErr.Found)
	util.AssertEqual(t, TokenKindEOF, syntaxErr.FoundKind)
	util.AssertEqual(t, Position{Offset: 8, Line: 1, Column: 9}, syntaxErr.Position)
}

func TestParseString_noStatementKeyword(t *testing.T) {
	// Act
	_, err := ParseString("users;")

	// Assert
	syntaxErr := util.AssertErrorType[*SyntaxError](t, err)
	util.AssertTrue(t, strings.HasPrefix(syntaxErr.Expected, "statement (one of: SELECT, INSERT"))
	util.AssertEqual(t, "users", syntaxErr.Found)
}

func TestParseString_returnsStatementsBeforeError(t *testing.T) {
	// Act
	statements, err := ParseString("COMMIT; SELECT FROM t; ROLLBACK;")

	// Assert
	util.AssertEqual(t, []query.Statement{&query.CommitStatement{}}, statements)
	syntaxErr := util.AssertErrorType[*SyntaxError](t, err)
	util.AssertEqual(t, "FROM", syntaxErr.Found)
}

func TestParseString_returnsStatementsBeforeLexError(t *testing.T) {
	// Act
	statements, err := ParseString("COMMIT; SELECT 'abc;")

	// Assert
	util.AssertEqual(t, []query.Statement{&query.CommitStatement{}}, statements)
	lexErr := util.AssertErrorType[*LexError](t, err)
	util.AssertEqual(t, LexErrorUnterminatedString, lexErr.Kind)
	util.AssertEqual(t, Position{Offset: 15, Line: 1, Column: 16}, lexErr.Position)
}

func TestParseString_lexErrorInLaterStatementDoesNotHideEarlierOnes(t *testing.T) {
	// Act
	statements, err := ParseString("COMMIT;\nSELECT a ! b;")

	// Assert
	util.AssertEqual(t, 1, len(statements))
	lexErr := util.AssertErrorType[*LexError](t, err)
	util.AssertEqual(t, LexErrorInvalidCharacter, lexErr.Kind)
	util.AssertEqual(t, Position{Offset: 17, Line: 2, Column: 10}, lexErr.Position)
}

func TestParseStringWithOptions_recover(t *testing.T) {
	// Act
	statements, err := ParseStringWithOptions("SELECT FROM t; SELECT 1; DROP x; COMMIT;", Options{Recover: true})

	// Assert
	util.AssertEqual(t, []query.Statement{
		&query.SelectStatement{Projection: &query.Projection{Expression: query.NewNumberLiteral("1")}},
		&query.CommitStatement{},
	}, statements)

	errs, ok := err.(ErrorList)
	util.AssertTrue(t, ok)
	util.AssertEqual(t, 2, len(errs))
	util.AssertEqual(t, "FROM", util.AssertErrorType[*SyntaxError](t, errs[0]).Found)
	util.AssertEqual(t, "x", util.AssertErrorType[*SyntaxError](t, errs[1]).Found)
	util.AssertTrue(t, strings.HasPrefix(err.Error(), "2 errors occurred:"))
}

func TestParseStringWithOptions_recoverStopsAtLexError(t *testing.T) {
	// Act
	statements, err := ParseStringWithOptions("SELECT FROM t; SELECT 'abc; COMMIT;", Options{Recover: true})

	// Assert
	util.AssertEqual(t, 0, len(statements))
	errs, ok := err.(ErrorList)
	util.AssertTrue(t, ok)
	util.AssertEqual(t, 2, len(errs))
	util.AssertErrorType[*LexError](t, errs[1])
}

func TestParseStringWithOptions_recoverWithoutErrors(t *testing.T) {
	// Act
	statements, err := ParseStringWithOptions("COMMIT;", Options{Recover: true})

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 1, len(statements))
}

func TestParseStringWithOptions_caseInsensitiveKeywords(t *testing.T) {
	// Arrange
	input := "select * from users where active = TRUE;"

	// Act
	_, strictErr := ParseString(input)
	statements, err := ParseStringWithOptions(input, Options{CaseInsensitiveKeywords: true})

	// Assert
	util.AssertErrorType[*SyntaxError](t, strictErr)
	util.AssertNil(t, err)
	util.AssertEqual(t, []query.Statement{
		&query.SelectStatement{
			Projection: &query.Projection{Star: true},
			From:       &query.Identifier{Name: "users"},
			Where:      query.NewBinaryExpression(query.BinOpEqual, &query.Identifier{Name: "active"}, &query.BoolLiteral{Value: true}),
		},
	}, statements)
}

func TestParseString_deterministic(t *testing.T) {
	// Arrange
	input := "SELECT DISTINCT CAST(a.b[1] AS TEXT) AS x FROM t WHERE c NOT IN [1, {d: $e}] AND f LIKE /^g/ ORDER BY DESC;" +
		"INSERT INTO (a) VALUES (?), (?) RETURNING *;"

	// Act
	first, firstErr := ParseString(input)
	second, secondErr := ParseString(input)

	// Assert
	util.AssertNil(t, firstErr)
	util.AssertNil(t, secondErr)
	util.AssertEqual(t, first, second)
	util.AssertEqual(t, query.Dump(first[0]), query.Dump(second[0]))
}

func TestParseString_depthExceeded(t *testing.T) {
	// Arrange
	input := "SELECT " + strings.Repeat("[", 20) + "1" + strings.Repeat("]", 20) + ";"

	// Act
	_, err := ParseStringWithOptions(input, Options{MaxDepth: 10})

	// Assert
	depthErr := util.AssertErrorType[*DepthExceededError](t, err)
	util.AssertEqual(t, 10, depthErr.Limit)
	util.AssertEqual(t, 1, depthErr.Position.Line)
}

func TestParseString_defaultDepthAllowsReasonableNesting(t *testing.T) {
	// Arrange
	nested := "SELECT " + strings.Repeat("[", 100) + "1" + strings.Repeat("]", 100) + ";"
	tooDeep := "SELECT " + strings.Repeat("[", 1000) + "1" + strings.Repeat("]", 1000) + ";"

	// Act
	_, nestedErr := ParseString(nested)
	_, tooDeepErr := ParseString(tooDeep)

	// Assert
	util.AssertNil(t, nestedErr)
	depthErr := util.AssertErrorType[*DepthExceededError](t, tooDeepErr)
	util.AssertEqual(t, DefaultMaxDepth, depthErr.Limit)
}

func TestErrorPosition(t *testing.T) {
	// Arrange
	_, syntaxErr := ParseString("SELECT\n FROM t;")
	_, lexErr := ParseString("SELECT 'a")

	// Act
	syntaxPosition, syntaxOk := ErrorPosition(syntaxErr)
	lexPosition, lexOk := ErrorPosition(lexErr)
	listPosition, listOk := ErrorPosition(ErrorList{syntaxErr, lexErr})
	_, unknownOk := ErrorPosition(nil)

	// Assert
	util.AssertTrue(t, syntaxOk)
	util.AssertEqual(t, Position{Offset: 8, Line: 2, Column: 2}, syntaxPosition)
	util.AssertTrue(t, lexOk)
	util.AssertEqual(t, Position{Offset: 7, Line: 1, Column: 8}, lexPosition)
	util.AssertTrue(t, listOk)
	util.AssertEqual(t, syntaxPosition, listPosition)
	util.AssertFalse(t, unknownOk)
}

func TestSyntaxError_message(t *testing.T) {
	// Act
	_, err := ParseString("SELECT FROM t;")

	// Assert
	util.AssertError(t, "Parsing error: Expected expression at line 1, column 8 (offset 7) but found 'FROM' of kind TokenKindKeyword.", err)
}
