package query

import "fmt"

type BinaryOperator int

const (
	BinOpInvalid BinaryOperator = iota

	BinOpOr        // OR
	BinOpLogicalOr // ||
	BinOpBitOr     // |
	BinOpBitXor    // ^

	BinOpAnd        // AND
	BinOpLogicalAnd // &&
	BinOpBitAnd     // &

	BinOpEqual
	BinOpNotEqual
	BinOpGreater
	BinOpGreaterEqual
	BinOpLower
	BinOpLowerEqual
	BinOpConcat
	BinOpLike
	BinOpNotLike
	BinOpIs
	BinOpIsNot
	BinOpIn
	BinOpNotIn

	BinOpAdd
	BinOpSubtract

	BinOpMultiply
	BinOpDivide
	BinOpModulo
)

func (o BinaryOperator) String() string {
	switch o {
	case BinOpOr:
		return "OR"
	case BinOpLogicalOr:
		return "||"
	case BinOpBitOr:
		return "|"
	case BinOpBitXor:
		return "^"
	case BinOpAnd:
		return "AND"
	case BinOpLogicalAnd:
		return "&&"
	case BinOpBitAnd:
		return "&"
	case BinOpEqual:
		return "="
	case BinOpNotEqual:
		return "!="
	case BinOpGreater:
		return ">"
	case BinOpGreaterEqual:
		return ">="
	case BinOpLower:
		return "<"
	case BinOpLowerEqual:
		return "<="
	case BinOpConcat:
		return "CONCAT"
	case BinOpLike:
		return "LIKE"
	case BinOpNotLike:
		return "NOT LIKE"
	case BinOpIs:
		return "IS"
	case BinOpIsNot:
		return "IS NOT"
	case BinOpIn:
		return "IN"
	case BinOpNotIn:
		return "NOT IN"
	case BinOpAdd:
		return "+"
	case BinOpSubtract:
		return "-"
	case BinOpMultiply:
		return "*"
	case BinOpDivide:
		return "/"
	case BinOpModulo:
		return "%"
	}
	return fmt.Sprintf("[!UNKNOWN BinaryOperator %d]", o)
}

type UnaryOperator int

const (
	UnaryOpInvalid UnaryOperator = iota
	UnaryOpNot
)

func (o UnaryOperator) String() string {
	switch o {
	case UnaryOpNot:
		return "NOT"
	}
	return fmt.Sprintf("[!UNKNOWN UnaryOperator %d]", o)
}

type OrderDirection int

const (
	OrderNone OrderDirection = iota
	OrderAsc
	OrderDesc
)

func (d OrderDirection) String() string {
	switch d {
	case OrderNone:
		return ""
	case OrderAsc:
		return "ASC"
	case OrderDesc:
		return "DESC"
	}
	return fmt.Sprintf("[!UNKNOWN OrderDirection %d]", d)
}
