package parser

import "dql/query"

// Binding power of the operators, from loosest to tightest. Note that the unary NOT binds tighter than every binary
// operator, so "NOT a = b" is "(NOT a) = b".
const (
	precedenceNone = iota
	precedenceOr
	precedenceAnd
	precedenceRelation
	precedenceAdditive
	precedenceMultiplicative
	precedenceUnaryNot
)

var binaryOperatorPrecedence = map[query.BinaryOperator]int{
	query.BinOpOr:        precedenceOr,
	query.BinOpLogicalOr: precedenceOr,
	query.BinOpBitOr:     precedenceOr,
	query.BinOpBitXor:    precedenceOr,

	query.BinOpAnd:        precedenceAnd,
	query.BinOpLogicalAnd: precedenceAnd,
	query.BinOpBitAnd:     precedenceAnd,

	query.BinOpEqual:        precedenceRelation,
	query.BinOpNotEqual:     precedenceRelation,
	query.BinOpGreater:      precedenceRelation,
	query.BinOpGreaterEqual: precedenceRelation,
	query.BinOpLower:        precedenceRelation,
	query.BinOpLowerEqual:   precedenceRelation,
	query.BinOpConcat:       precedenceRelation,
	query.BinOpLike:         precedenceRelation,
	query.BinOpNotLike:      precedenceRelation,
	query.BinOpIs:           precedenceRelation,
	query.BinOpIsNot:        precedenceRelation,
	query.BinOpIn:           precedenceRelation,
	query.BinOpNotIn:        precedenceRelation,

	query.BinOpAdd:      precedenceAdditive,
	query.BinOpSubtract: precedenceAdditive,

	query.BinOpMultiply: precedenceMultiplicative,
	query.BinOpDivide:   precedenceMultiplicative,
	query.BinOpModulo:   precedenceMultiplicative,
}

var symbolOperators = map[string]query.BinaryOperator{
	"||": query.BinOpLogicalOr,
	"|":  query.BinOpBitOr,
	"^":  query.BinOpBitXor,
	"&&": query.BinOpLogicalAnd,
	"&":  query.BinOpBitAnd,
	"=":  query.BinOpEqual,
	"!=": query.BinOpNotEqual,
	">":  query.BinOpGreater,
	">=": query.BinOpGreaterEqual,
	"<":  query.BinOpLower,
	"<=": query.BinOpLowerEqual,
	"+":  query.BinOpAdd,
	"-":  query.BinOpSubtract,
	"*":  query.BinOpMultiply,
	"/":  query.BinOpDivide,
	"%":  query.BinOpModulo,
}

// Single keyword operators. NOT LIKE, NOT IN and IS NOT consist of two keyword tokens and are combined in
// peekBinaryOperator.
var keywordOperators = map[string]query.BinaryOperator{
	"OR":     query.BinOpOr,
	"AND":    query.BinOpAnd,
	"CONCAT": query.BinOpConcat,
	"LIKE":   query.BinOpLike,
	"IS":     query.BinOpIs,
	"IN":     query.BinOpIn,
}

// peekBinaryOperator looks at the tokens after the current one and returns the binary operator starting there
// together with the number of tokens it consists of. BinOpInvalid is returned if no operator follows.
func (p *Parser) peekBinaryOperator() (query.BinaryOperator, int) {
	token := p.peekNextToken()

	switch token.kind {
	case TokenKindOperator:
		operator, ok := symbolOperators[token.lexeme]
		if ok {
			return operator, 1
		}
	case TokenKindKeyword:
		second := p.tokenAt(p.index + 2)
		switch token.value {
		case "IS":
			if second.isKeyword("NOT") {
				return query.BinOpIsNot, 2
			}
			return query.BinOpIs, 1
		case "NOT":
			if second.isKeyword("LIKE") {
				return query.BinOpNotLike, 2
			}
			if second.isKeyword("IN") {
				return query.BinOpNotIn, 2
			}
			return query.BinOpInvalid, 0
		}

		operator, ok := keywordOperators[token.value]
		if ok {
			return operator, 1
		}
	}

	return query.BinOpInvalid, 0
}
