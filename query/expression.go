package query

import (
	"strconv"
	"strings"
)

// Expression is one of the expression nodes of this package. Consumers switch over the concrete type.
type Expression interface {
	expressionNode()
	String() string
}

type NumberLiteral struct {
	Raw       string
	Value     float64
	IsInteger bool
}

type StringLiteral struct {
	Value string
}

type BoolLiteral struct {
	Value bool
}

type NullLiteral struct{}

// Identifier is a bare word or a backtick quoted name. Name never contains the backticks.
type Identifier struct {
	Name   string
	Quoted bool
}

type UnaryExpression struct {
	Operator UnaryOperator
	Operand  Expression
}

type BinaryExpression struct {
	Operator BinaryOperator
	Left     Expression
	Right    Expression
}

// DocumentField is one "key: value" pair. The key is either an identifier or a string literal.
type DocumentField struct {
	Key       string
	StringKey bool
	Value     Expression
}

type Document struct {
	Fields []*DocumentField
}

type Array struct {
	Elements []Expression
}

// PathStep is either an *IndexStep or a *FieldStep.
type PathStep interface {
	pathStepNode()
	String() string
}

type IndexStep struct {
	Index int
}

type FieldStep struct {
	Field *Identifier
}

type Path struct {
	Root  *Identifier
	Steps []PathStep
}

// FunctionCall is a call like "foo(a, b)". The special form COUNT(*) has Star set and no arguments.
type FunctionCall struct {
	Name *Identifier
	Args []Expression
	Star bool
}

// TypeName is the target of a CAST. Name is the canonical upper case spelling, e.g. "DOUBLE PRECISION". Length is
// only set for VARCHAR(n).
type TypeName struct {
	Name   string
	Length int
}

type Cast struct {
	Value Expression
	Type  *TypeName
}

type NamedParam struct {
	Name string
}

// PositionalParam is a "?". Index counts the positional parameters of a statement, starting at 1.
type PositionalParam struct {
	Index int
}

type Regex struct {
	Pattern string
}

func (*NumberLiteral) expressionNode()    {}
func (*StringLiteral) expressionNode()    {}
func (*BoolLiteral) expressionNode()      {}
func (*NullLiteral) expressionNode()      {}
func (*Identifier) expressionNode()       {}
func (*UnaryExpression) expressionNode()  {}
func (*BinaryExpression) expressionNode() {}
func (*Document) expressionNode()         {}
func (*Array) expressionNode()            {}
func (*Path) expressionNode()             {}
func (*FunctionCall) expressionNode()     {}
func (*Cast) expressionNode()             {}
func (*NamedParam) expressionNode()       {}
func (*PositionalParam) expressionNode()  {}
func (*Regex) expressionNode()            {}

func (*IndexStep) pathStepNode() {}
func (*FieldStep) pathStepNode() {}

func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

// NewNumberLiteral creates a number from its source text. The text has already been validated by the lexer, so a
// failing conversion only happens for out of range values, which are kept as +/-Inf.
func NewNumberLiteral(raw string) *NumberLiteral {
	value, _ := strconv.ParseFloat(raw, 64)
	return &NumberLiteral{
		Raw:       raw,
		Value:     value,
		IsInteger: !strings.Contains(raw, "."),
	}
}

func NewBinaryExpression(operator BinaryOperator, left Expression, right Expression) *BinaryExpression {
	return &BinaryExpression{
		Operator: operator,
		Left:     left,
		Right:    right,
	}
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{
		Operator: operator,
		Operand:  operand,
	}
}

func (e *NumberLiteral) String() string {
	return e.Raw
}

func (e *StringLiteral) String() string {
	return quote(e.Value, '\'')
}

func (e *BoolLiteral) String() string {
	return strconv.FormatBool(e.Value)
}

func (e *NullLiteral) String() string {
	return "NULL"
}

func (e *Identifier) String() string {
	if e.Quoted {
		return "`" + e.Name + "`"
	}
	return e.Name
}

func (e *UnaryExpression) String() string {
	return "(" + e.Operator.String() + " " + e.Operand.String() + ")"
}

func (e *BinaryExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator.String() + " " + e.Right.String() + ")"
}

func (e *Document) String() string {
	fields := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		key := field.Key
		if field.StringKey {
			key = quote(field.Key, '"')
		}
		fields[i] = key + ": " + field.Value.String()
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func (e *Array) String() string {
	return "[" + joinExpressions(e.Elements) + "]"
}

func (s *IndexStep) String() string {
	return "[" + strconv.Itoa(s.Index) + "]"
}

func (s *FieldStep) String() string {
	return "." + s.Field.String()
}

func (e *Path) String() string {
	var sb strings.Builder
	sb.WriteString(e.Root.String())
	for _, step := range e.Steps {
		sb.WriteString(step.String())
	}
	return sb.String()
}

func (e *FunctionCall) String() string {
	if e.Star {
		return e.Name.String() + "(*)"
	}
	return e.Name.String() + "(" + joinExpressions(e.Args) + ")"
}

func (t *TypeName) String() string {
	if t.Length > 0 {
		return t.Name + "(" + strconv.Itoa(t.Length) + ")"
	}
	return t.Name
}

func (e *Cast) String() string {
	return "CAST(" + e.Value.String() + " AS " + e.Type.String() + ")"
}

func (e *NamedParam) String() string {
	return "$" + e.Name
}

func (e *PositionalParam) String() string {
	return "?"
}

func (e *Regex) String() string {
	return "/" + e.Pattern + "/"
}

func joinExpressions(expressions []Expression) string {
	parts := make([]string, len(expressions))
	for i, expression := range expressions {
		parts[i] = expression.String()
	}
	return strings.Join(parts, ", ")
}

func quote(s string, quoteChar rune) string {
	var sb strings.Builder
	sb.WriteRune(quoteChar)
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\\':
			sb.WriteString(`\\`)
		case quoteChar:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(quoteChar)
	return sb.String()
}
