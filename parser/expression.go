package parser

import (
	"dql/query"
	"strconv"
)

// parseExpression parses a complete expression starting at the current token. Afterward, the current token is the
// last token of the expression.
func (p *Parser) parseExpression() (query.Expression, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	return p.parseBinaryExpression(precedenceOr)
}

// parseBinaryExpression implements the precedence climbing: operands are parsed as long as the following operator
// binds at least as tight as minPrecedence. Right operands only take operators binding tighter than the current one,
// which makes all binary operators left-associative.
func (p *Parser) parseBinaryExpression(minPrecedence int) (query.Expression, error) {
	left, err := p.parseUnaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		operator, width := p.peekBinaryOperator()
		if operator == query.BinOpInvalid {
			break
		}

		precedence := binaryOperatorPrecedence[operator]
		if precedence < minPrecedence {
			break
		}

		for i := 0; i < width; i++ {
			p.moveToNextToken()
		}
		p.moveToNextToken()

		right, err := p.parseBinaryExpression(precedence + 1)
		if err != nil {
			return nil, err
		}

		left = query.NewBinaryExpression(operator, left, right)
	}

	return left, nil
}

func (p *Parser) parseUnaryExpression() (query.Expression, error) {
	token := p.currentToken()
	if !token.isKeyword("NOT") {
		return p.parsePrimaryExpression()
	}

	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	p.moveToNextToken()
	operand, err := p.parseUnaryExpression()
	if err != nil {
		return nil, err
	}

	return query.NewUnaryExpression(query.UnaryOpNot, operand), nil
}

func (p *Parser) parsePrimaryExpression() (query.Expression, error) {
	token := p.currentToken()

	switch token.kind {
	case TokenKindNumber:
		return query.NewNumberLiteral(token.lexeme), nil
	case TokenKindString:
		return &query.StringLiteral{Value: token.value}, nil
	case TokenKindRegex:
		return &query.Regex{Pattern: token.value}, nil
	case TokenKindNamedParam:
		return &query.NamedParam{Name: token.value}, nil
	case TokenKindPositionalParam:
		p.positionalParams++
		return &query.PositionalParam{Index: p.positionalParams}, nil
	case TokenKindKeyword:
		switch token.value {
		case "TRUE":
			return &query.BoolLiteral{Value: true}, nil
		case "FALSE":
			return &query.BoolLiteral{Value: false}, nil
		case "NULL":
			return &query.NullLiteral{}, nil
		case "CAST":
			return p.parseCast()
		}
	case TokenKindIdentifier, TokenKindQuotedIdentifier:
		if p.isWord(token, "COUNT") && p.nextIsPunctuation("(") && p.tokenAt(p.index+2).isOperator("*") {
			return p.parseCountStar()
		}
		if p.nextIsPunctuation("(") {
			return p.parseFunctionCall()
		}
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		if len(path.Steps) == 0 {
			return path.Root, nil
		}
		return path, nil
	case TokenKindPunctuation:
		switch token.lexeme {
		case "{":
			return p.parseDocument()
		case "[":
			return p.parseArray()
		}
	}

	return nil, p.errorExpected("expression", token)
}

// parseCountStar parses the special form COUNT(*).
func (p *Parser) parseCountStar() (*query.FunctionCall, error) {
	name := p.currentToken()

	p.moveToNextToken() // (
	p.moveToNextToken() // *
	err := p.expectNextPunctuation(")")
	if err != nil {
		return nil, err
	}

	return &query.FunctionCall{
		Name: query.NewIdentifier(name.value),
		Star: true,
	}, nil
}

func (p *Parser) parseFunctionCall() (*query.FunctionCall, error) {
	name, err := p.identifier(p.currentToken(), "function name")
	if err != nil {
		return nil, err
	}

	err = p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	err = p.expectNextPunctuation("(")
	if err != nil {
		return nil, err
	}

	call := &query.FunctionCall{Name: name, Args: []query.Expression{}}
	if p.consumeNextPunctuation(")") {
		return call, nil
	}

	call.Args, err = p.parseExpressionList(")")
	if err != nil {
		return nil, err
	}

	return call, nil
}

// parseExpressionList parses "expr, expr, ..., expr" followed by the given closing punctuation. The current token is
// the one before the first expression and will be the closing punctuation afterward. A trailing comma is not allowed.
func (p *Parser) parseExpressionList(closing string) ([]query.Expression, error) {
	var expressions []query.Expression

	for {
		p.moveToNextToken()
		expression, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expression)

		token := p.moveToNextToken()
		if token.isPunctuation(closing) {
			return expressions, nil
		}
		if !token.isPunctuation(",") {
			return nil, p.errorExpected("',' or '"+closing+"'", token)
		}
	}
}

func (p *Parser) parseCast() (*query.Cast, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	err = p.expectNextPunctuation("(")
	if err != nil {
		return nil, err
	}

	p.moveToNextToken()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	err = p.expectNextKeyword("AS")
	if err != nil {
		return nil, err
	}

	p.moveToNextToken()
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}

	err = p.expectNextPunctuation(")")
	if err != nil {
		return nil, err
	}

	return &query.Cast{Value: value, Type: typeName}, nil
}

var simpleTypeNames = []string{
	"ARRAY", "BIGINT", "BLOB", "BOOL", "BYTES", "CHARACTER", "DOCUMENT", "INTEGER", "MEDIUMINT", "SMALLINT", "TEXT",
	"TINYINT", "REAL",
}

// TypeNames returns the words that may appear in the type of a CAST.
func TypeNames() []string {
	names := append([]string{}, simpleTypeNames...)
	return append(names, "DOUBLE", "PRECISION", "INT", "INT2", "INT8", "VARCHAR")
}

const typeNameDescription = "type name (e.g. INTEGER, DOUBLE, TEXT or VARCHAR)"

func (p *Parser) parseTypeName() (*query.TypeName, error) {
	token := p.currentToken()

	for _, name := range simpleTypeNames {
		if p.isWord(token, name) {
			return &query.TypeName{Name: name}, nil
		}
	}

	switch {
	case p.isWord(token, "DOUBLE"):
		if p.isWord(p.peekNextToken(), "PRECISION") {
			p.moveToNextToken()
			return &query.TypeName{Name: "DOUBLE PRECISION"}, nil
		}
		return &query.TypeName{Name: "DOUBLE"}, nil
	case p.isWord(token, "INT"):
		// INT2 and INT8 are lexed as "INT" followed by a number without any space in between.
		next := p.peekNextToken()
		if next.kind == TokenKindNumber && next.span.Start.Offset == token.span.End.Offset {
			if next.lexeme == "2" || next.lexeme == "8" {
				p.moveToNextToken()
				return &query.TypeName{Name: "INT" + next.lexeme}, nil
			}
			return nil, p.errorExpected(typeNameDescription, next)
		}
		return &query.TypeName{Name: "INT"}, nil
	case p.isWord(token, "VARCHAR"):
		typeName := &query.TypeName{Name: "VARCHAR"}
		if !p.consumeNextPunctuation("(") {
			return typeName, nil
		}

		lengthToken := p.moveToNextToken()
		length, ok := parseInteger(lengthToken)
		if !ok {
			return nil, p.errorExpected("length of VARCHAR", lengthToken)
		}
		typeName.Length = length

		err := p.expectNextPunctuation(")")
		if err != nil {
			return nil, err
		}
		return typeName, nil
	}

	return nil, p.errorExpected(typeNameDescription, token)
}

// parsePath parses an identifier followed by any number of "[index]" and ".field" steps.
func (p *Parser) parsePath() (*query.Path, error) {
	root, err := p.identifier(p.currentToken(), "path")
	if err != nil {
		return nil, err
	}

	path := &query.Path{Root: root}
	for {
		switch {
		case p.consumeNextPunctuation("["):
			indexToken := p.moveToNextToken()
			index, ok := parseInteger(indexToken)
			if !ok {
				return nil, p.errorExpected("array index", indexToken)
			}

			err = p.expectNextPunctuation("]")
			if err != nil {
				return nil, err
			}

			path.Steps = append(path.Steps, &query.IndexStep{Index: index})
		case p.consumeNextPunctuation("."):
			field, err := p.expectNextIdentifier("field name")
			if err != nil {
				return nil, err
			}

			path.Steps = append(path.Steps, &query.FieldStep{Field: field})
		default:
			return path, nil
		}
	}
}

func (p *Parser) parseDocument() (*query.Document, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	document := &query.Document{Fields: []*query.DocumentField{}}
	if p.consumeNextPunctuation("}") {
		return document, nil
	}

	for {
		field, err := p.parseDocumentField()
		if err != nil {
			return nil, err
		}
		document.Fields = append(document.Fields, field)

		token := p.moveToNextToken()
		if token.isPunctuation("}") {
			return document, nil
		}
		if !token.isPunctuation(",") {
			return nil, p.errorExpected("',' or '}'", token)
		}
	}
}

// parseDocumentField parses "key: value" starting at the token before the key.
func (p *Parser) parseDocumentField() (*query.DocumentField, error) {
	keyToken := p.moveToNextToken()

	field := &query.DocumentField{}
	switch {
	case keyToken.kind == TokenKindString:
		field.Key = keyToken.value
		field.StringKey = true
	case keyToken.isIdentifier():
		field.Key = keyToken.value
	default:
		return nil, p.errorExpected("document key (identifier or string)", keyToken)
	}

	err := p.expectNextPunctuation(":")
	if err != nil {
		return nil, err
	}

	p.moveToNextToken()
	field.Value, err = p.parseExpression()
	if err != nil {
		return nil, err
	}

	return field, nil
}

func (p *Parser) parseArray() (*query.Array, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	array := &query.Array{Elements: []query.Expression{}}
	if p.consumeNextPunctuation("]") {
		return array, nil
	}

	array.Elements, err = p.parseExpressionList("]")
	if err != nil {
		return nil, err
	}

	return array, nil
}

// parseInteger returns the value of a number token without fractional part and sign.
func parseInteger(token *Token) (int, bool) {
	if token.kind != TokenKindNumber {
		return 0, false
	}
	for _, char := range token.lexeme {
		if !isDigit(char) {
			return 0, false
		}
	}

	value, err := strconv.Atoi(token.lexeme)
	if err != nil {
		return 0, false
	}
	return value, true
}
