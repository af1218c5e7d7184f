package parser

import (
	"dql/query"
	"github.com/hauke96/sigolo/v2"
	"strings"
)

// DefaultMaxDepth limits how deep expressions, documents, arrays and nested statements may be nested.
const DefaultMaxDepth = 256

type Options struct {
	// MaxDepth is the maximum nesting depth. Values <= 0 fall back to DefaultMaxDepth.
	MaxDepth int
	// CaseInsensitiveKeywords allows keywords, type names and COUNT in any letter case. By default they have to be
	// written exactly as in the language definition (upper case, "true" and "false" lower case).
	CaseInsensitiveKeywords bool
	// Recover continues after a failed statement with the statement following the next ";". All errors are then
	// returned as ErrorList. Lexing errors always stop the parsing.
	Recover bool
}

func DefaultOptions() Options {
	return Options{
		MaxDepth: DefaultMaxDepth,
	}
}

type Parser struct {
	lexer *Lexer
	token []*Token
	index int

	// lexErr is the error of the lexer. Once set, the last token in the token list is of kind TokenKindInvalid.
	lexErr error

	options          Options
	depth            int
	positionalParams int
}

func newParser(input string, options Options) *Parser {
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultMaxDepth
	}

	return &Parser{
		lexer:   newLexer(input, options.CaseInsensitiveKeywords),
		index:   0,
		options: options,
	}
}

// ParseString parses all ";" terminated statements of the input using the default options. On error, the statements
// parsed before the failing one are returned together with the error.
func ParseString(input string) ([]query.Statement, error) {
	return ParseStringWithOptions(input, DefaultOptions())
}

func ParseStringWithOptions(input string, options Options) ([]query.Statement, error) {
	sigolo.Tracef("Parse input of %d bytes with options %+v", len(input), options)

	parser := newParser(input, options)
	statements, err := parser.parse()

	sigolo.Debugf("Parsed %d statements", len(statements))
	return statements, err
}

// ParseExpression parses a single expression. The whole input has to be consumed, only a trailing ";" is allowed.
func ParseExpression(input string) (query.Expression, error) {
	return ParseExpressionWithOptions(input, DefaultOptions())
}

func ParseExpressionWithOptions(input string, options Options) (query.Expression, error) {
	parser := newParser(input, options)

	expression, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}

	if parser.nextIsPunctuation(";") {
		parser.moveToNextToken()
	}
	token := parser.moveToNextToken()
	if token.kind != TokenKindEOF {
		return nil, parser.errorExpected("end of input", token)
	}

	return expression, nil
}

// tokenAt returns the token with the given index and reads tokens from the lexer as needed. After the end of the
// input (or a lexing error) the last token is returned for every larger index.
func (p *Parser) tokenAt(index int) *Token {
	for len(p.token) <= index {
		if len(p.token) > 0 {
			last := p.token[len(p.token)-1]
			if last.kind == TokenKindEOF || last.kind == TokenKindInvalid {
				return last
			}
		}

		token, err := p.lexer.nextToken()
		if err != nil {
			p.lexErr = err
			position, _ := ErrorPosition(err)
			token = &Token{
				kind: TokenKindInvalid,
				span: Span{Start: position, End: position},
			}
		}
		p.token = append(p.token, token)
	}
	return p.token[index]
}

func (p *Parser) moveToNextToken() *Token {
	p.index++
	sigolo.Debugb(1, "Moved to next token: %s", p.currentToken())
	return p.currentToken()
}

func (p *Parser) peekNextToken() *Token {
	return p.tokenAt(p.index + 1)
}

func (p *Parser) currentToken() *Token {
	return p.tokenAt(p.index)
}

func (p *Parser) nextIsKeyword(keyword string) bool {
	return p.peekNextToken().isKeyword(keyword)
}

func (p *Parser) nextIsPunctuation(punctuation string) bool {
	return p.peekNextToken().isPunctuation(punctuation)
}

// consumeNextKeyword moves to the next token if it is the given keyword.
func (p *Parser) consumeNextKeyword(keyword string) bool {
	if p.nextIsKeyword(keyword) {
		p.moveToNextToken()
		return true
	}
	return false
}

func (p *Parser) consumeNextPunctuation(punctuation string) bool {
	if p.nextIsPunctuation(punctuation) {
		p.moveToNextToken()
		return true
	}
	return false
}

func (p *Parser) expectNextKeyword(keyword string) error {
	token := p.moveToNextToken()
	if !token.isKeyword(keyword) {
		return p.errorExpected("'"+keyword+"'", token)
	}
	return nil
}

func (p *Parser) expectNextPunctuation(punctuation string) error {
	token := p.moveToNextToken()
	if !token.isPunctuation(punctuation) {
		return p.errorExpected("'"+punctuation+"'", token)
	}
	return nil
}

func (p *Parser) expectNextIdentifier(description string) (*query.Identifier, error) {
	token := p.moveToNextToken()
	return p.identifier(token, description)
}

// identifier converts the given token into an identifier or returns an error if the token is none.
func (p *Parser) identifier(token *Token, description string) (*query.Identifier, error) {
	if !token.isIdentifier() {
		return nil, p.errorExpected(description, token)
	}
	return &query.Identifier{
		Name:   token.value,
		Quoted: token.kind == TokenKindQuotedIdentifier,
	}, nil
}

// isWord returns true if the token is the given unquoted, non-reserved word like "COUNT" or a type name.
func (p *Parser) isWord(token *Token, word string) bool {
	if token.kind != TokenKindIdentifier {
		return false
	}
	if p.options.CaseInsensitiveKeywords {
		return strings.EqualFold(token.value, word)
	}
	return token.value == word
}

// errorExpected creates the error for an unexpected token. A token of kind TokenKindInvalid stands for a lexing error
// which is returned instead.
func (p *Parser) errorExpected(expected string, token *Token) error {
	if token.kind == TokenKindInvalid && p.lexErr != nil {
		return p.lexErr
	}
	return newSyntaxError(expected, token)
}

// enter increases the nesting depth and fails when the configured maximum is exceeded. Each successful call must be
// followed by a call to leave.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.options.MaxDepth {
		p.depth--
		return newDepthExceededError(p.options.MaxDepth, p.currentToken().span.Start)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) parse() ([]query.Statement, error) {
	var statements []query.Statement
	var errs ErrorList

	for {
		token := p.currentToken()
		if token.kind == TokenKindEOF {
			if len(statements) == 0 && len(errs) == 0 {
				return nil, p.errorExpected("statement", token)
			}
			break
		}

		statement, err := p.parseTerminatedStatement()
		if err != nil {
			if !p.options.Recover {
				return statements, err
			}

			sigolo.Debugf("Recover from error: %s", err.Error())
			errs = append(errs, err)
			if p.lexErr != nil {
				break
			}
			p.skipToNextStatement()
			continue
		}

		statements = append(statements, statement)
		p.moveToNextToken()
	}

	if len(errs) > 0 {
		return statements, errs
	}
	return statements, nil
}

// parseTerminatedStatement parses one statement and its ";". Afterward, the current token is the ";".
func (p *Parser) parseTerminatedStatement() (query.Statement, error) {
	p.positionalParams = 0
	p.depth = 0

	statement, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	err = p.expectNextPunctuation(";")
	if err != nil {
		return nil, err
	}

	return statement, nil
}

// skipToNextStatement moves to the first token after the next ";".
func (p *Parser) skipToNextStatement() {
	for token := p.currentToken(); token.kind != TokenKindEOF && token.kind != TokenKindInvalid; token = p.moveToNextToken() {
		if token.isPunctuation(";") {
			p.moveToNextToken()
			return
		}
	}
}
