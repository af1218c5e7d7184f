package parser

import (
	"fmt"
	"sort"
)

type TokenKind int

const (
	TokenKindUnknown TokenKind = iota

	TokenKindIdentifier
	TokenKindQuotedIdentifier
	TokenKindKeyword
	TokenKindString
	TokenKindNumber
	TokenKindRegex

	TokenKindNamedParam
	TokenKindPositionalParam

	TokenKindOperator
	TokenKindPunctuation

	TokenKindEOF

	// TokenKindInvalid marks the position where the lexer failed. The parser turns it into the lexer error.
	TokenKindInvalid
)

func (k TokenKind) String() string {
	switch k {
	case TokenKindUnknown:
		return "TokenKindUnknown"
	case TokenKindIdentifier:
		return "TokenKindIdentifier"
	case TokenKindQuotedIdentifier:
		return "TokenKindQuotedIdentifier"
	case TokenKindKeyword:
		return "TokenKindKeyword"
	case TokenKindString:
		return "TokenKindString"
	case TokenKindNumber:
		return "TokenKindNumber"
	case TokenKindRegex:
		return "TokenKindRegex"
	case TokenKindNamedParam:
		return "TokenKindNamedParam"
	case TokenKindPositionalParam:
		return "TokenKindPositionalParam"
	case TokenKindOperator:
		return "TokenKindOperator"
	case TokenKindPunctuation:
		return "TokenKindPunctuation"
	case TokenKindEOF:
		return "TokenKindEOF"
	case TokenKindInvalid:
		return "TokenKindInvalid"
	}
	return fmt.Sprintf("!! INVALID TOKEN KIND %d !!", k)
}

// Lexeme returns a human readable description of the kind, used in error messages.
func (k TokenKind) Lexeme() string {
	switch k {
	case TokenKindUnknown:
		return "UNKNOWN"
	case TokenKindIdentifier, TokenKindQuotedIdentifier:
		return "identifier"
	case TokenKindKeyword:
		return "keyword"
	case TokenKindString:
		return "string"
	case TokenKindNumber:
		return "number"
	case TokenKindRegex:
		return "regex"
	case TokenKindNamedParam:
		return "named parameter"
	case TokenKindPositionalParam:
		return "?"
	case TokenKindOperator:
		return "operator"
	case TokenKindPunctuation:
		return "punctuation"
	case TokenKindEOF:
		return "end of input"
	case TokenKindInvalid:
		return "invalid input"
	}
	return fmt.Sprintf("!! INVALID TOKEN KIND %d !!", k)
}

// Position is a location in the source text. Offset counts runes from the start of the input, Line and Column start
// at 1.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", p.Line, p.Column, p.Offset)
}

// Span covers the runes [Start, End) of a token.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

type Token struct {
	kind   TokenKind
	lexeme string
	// value is the decoded payload: identifier without backticks, unescaped string body, upper case keyword, regex
	// pattern or parameter name. For all other kinds it equals the lexeme.
	value string
	span  Span
}

func (t *Token) Kind() TokenKind {
	return t.kind
}

func (t *Token) Lexeme() string {
	return t.lexeme
}

func (t *Token) Value() string {
	return t.value
}

func (t *Token) Span() Span {
	return t.span
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.kind.String(), t.lexeme, t.span.Start.Line, t.span.Start.Column)
}

// isKeyword returns true when the token is the given (upper case) keyword.
func (t *Token) isKeyword(keyword string) bool {
	return t != nil && t.kind == TokenKindKeyword && t.value == keyword
}

func (t *Token) isOperator(operator string) bool {
	return t != nil && t.kind == TokenKindOperator && t.lexeme == operator
}

func (t *Token) isPunctuation(punctuation string) bool {
	return t != nil && t.kind == TokenKindPunctuation && t.lexeme == punctuation
}

func (t *Token) isIdentifier() bool {
	return t != nil && (t.kind == TokenKindIdentifier || t.kind == TokenKindQuotedIdentifier)
}

// endsOperand returns true when an expression operand may end with this token. The lexer uses it to tell a
// division "/" from a regex literal and a minus sign from a signed number.
func (t *Token) endsOperand() bool {
	if t == nil {
		return false
	}
	switch t.kind {
	case TokenKindIdentifier, TokenKindQuotedIdentifier, TokenKindString, TokenKindNumber, TokenKindRegex,
		TokenKindNamedParam, TokenKindPositionalParam:
		return true
	case TokenKindKeyword:
		return t.value == "NULL" || t.value == "TRUE" || t.value == "FALSE"
	case TokenKindPunctuation:
		return t.lexeme == ")" || t.lexeme == "]" || t.lexeme == "}"
	case TokenKindOperator:
		// "*" is both multiplication and the projection star, "SELECT * / 2" is not valid anyway.
		return false
	}
	return false
}

// Reserved words of the language. Type names and COUNT are contextual and stay identifiers.
var keywords = map[string]bool{
	"ADD": true, "ALL": true, "ALTER": true, "AND": true, "AS": true, "ASC": true,
	"BEGIN": true, "BY": true,
	"CAST": true, "COMMIT": true, "CONCAT": true, "CREATE": true,
	"DELETE": true, "DESC": true, "DISTINCT": true, "DROP": true,
	"EXISTS": true, "EXPLAIN": true,
	"FROM": true,
	"GROUP": true,
	"IF": true, "IN": true, "INDEX": true, "INSERT": true, "INTO": true, "IS": true,
	"LIKE": true, "LIMIT": true,
	"NOT": true, "NULL": true,
	"OFFSET": true, "ONLY": true, "OR": true, "ORDER": true,
	"READ": true, "REINDEX": true, "RENAME": true, "RETURNING": true, "ROLLBACK": true,
	"SELECT": true, "SET": true,
	"TABLE": true, "TRANSACTION": true,
	"UNION": true, "UNIQUE": true, "UNSET": true, "UPDATE": true,
	"VALUES": true,
	"WHERE": true, "WRITE": true,
}

// boolKeywords are written in lower case in the language.
var boolKeywords = map[string]string{
	"true":  "TRUE",
	"false": "FALSE",
}

// Keywords returns all reserved words in alphabetical order.
func Keywords() []string {
	result := make([]string, 0, len(keywords)+len(boolKeywords))
	for keyword := range keywords {
		result = append(result, keyword)
	}
	for keyword := range boolKeywords {
		result = append(result, keyword)
	}
	sort.Strings(result)
	return result
}
