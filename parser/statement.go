package parser

import (
	"dql/query"
	"strings"
)

var statementKeywords = []string{
	"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "BEGIN", "COMMIT", "ROLLBACK", "REINDEX",
	"EXPLAIN",
}

// parseStatement dispatches on the leading keyword. The current token is the first token of the statement and will be
// the last token of the statement afterward (the ";" is not part of the statement).
func (p *Parser) parseStatement() (query.Statement, error) {
	token := p.currentToken()
	if token.kind != TokenKindKeyword {
		return nil, p.errorExpected("statement (one of: "+strings.Join(statementKeywords, ", ")+")", token)
	}

	switch token.value {
	case "SELECT":
		return p.parseSelect()
	case "INSERT":
		return p.parseInsert()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	case "CREATE":
		return p.parseCreate()
	case "DROP":
		return p.parseDrop()
	case "ALTER":
		return p.parseAlter()
	case "BEGIN":
		return p.parseBegin()
	case "COMMIT":
		return &query.CommitStatement{Transaction: p.consumeNextKeyword("TRANSACTION")}, nil
	case "ROLLBACK":
		return &query.RollbackStatement{Transaction: p.consumeNextKeyword("TRANSACTION")}, nil
	case "REINDEX":
		name, err := p.expectNextIdentifier("table or index name")
		if err != nil {
			return nil, err
		}
		return &query.ReindexStatement{Name: name}, nil
	case "EXPLAIN":
		return p.parseExplain()
	}

	return nil, p.errorExpected("statement (one of: "+strings.Join(statementKeywords, ", ")+")", token)
}

func (p *Parser) parseSelect() (*query.SelectStatement, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	statement := &query.SelectStatement{}
	statement.Distinct = p.consumeNextKeyword("DISTINCT")

	p.moveToNextToken()
	statement.Projection, err = p.parseProjection()
	if err != nil {
		return nil, err
	}

	// All further clauses are only allowed after a FROM clause.
	if !p.consumeNextKeyword("FROM") {
		return statement, nil
	}

	statement.From, err = p.expectNextIdentifier("table name")
	if err != nil {
		return nil, err
	}

	statement.Where, err = p.parseOptionalExpressionClause("WHERE")
	if err != nil {
		return nil, err
	}

	if p.consumeNextKeyword("GROUP") {
		err = p.expectNextKeyword("BY")
		if err != nil {
			return nil, err
		}
		p.moveToNextToken()
		statement.GroupBy, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	statement.OrderBy, err = p.parseOptionalOrderBy()
	if err != nil {
		return nil, err
	}

	statement.Limit, err = p.parseOptionalExpressionClause("LIMIT")
	if err != nil {
		return nil, err
	}

	statement.Offset, err = p.parseOptionalExpressionClause("OFFSET")
	if err != nil {
		return nil, err
	}

	if p.consumeNextKeyword("UNION") {
		union := &query.Union{All: p.consumeNextKeyword("ALL")}

		err = p.expectNextKeyword("SELECT")
		if err != nil {
			return nil, err
		}

		union.Select, err = p.parseSelect()
		if err != nil {
			return nil, err
		}
		statement.Union = union
	}

	return statement, nil
}

// parseProjection parses "*" or an expression with an optional "AS alias".
func (p *Parser) parseProjection() (*query.Projection, error) {
	token := p.currentToken()
	if token.isOperator("*") {
		return &query.Projection{Star: true}, nil
	}

	expression, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	projection := &query.Projection{Expression: expression}

	if p.consumeNextKeyword("AS") {
		projection.Alias, err = p.expectNextIdentifier("alias")
		if err != nil {
			return nil, err
		}
	}

	return projection, nil
}

// parseOptionalExpressionClause parses "<keyword> expr" if the next token is the keyword. Otherwise, nil is returned.
func (p *Parser) parseOptionalExpressionClause(keyword string) (query.Expression, error) {
	if !p.consumeNextKeyword(keyword) {
		return nil, nil
	}

	p.moveToNextToken()
	return p.parseExpression()
}

// parseOptionalOrderBy parses "ORDER BY ASC|DESC". The language only has a direction and no ordering expression.
func (p *Parser) parseOptionalOrderBy() (query.OrderDirection, error) {
	if !p.consumeNextKeyword("ORDER") {
		return query.OrderNone, nil
	}

	err := p.expectNextKeyword("BY")
	if err != nil {
		return query.OrderNone, err
	}

	token := p.moveToNextToken()
	switch {
	case token.isKeyword("ASC"):
		return query.OrderAsc, nil
	case token.isKeyword("DESC"):
		return query.OrderDesc, nil
	}

	return query.OrderNone, p.errorExpected("'ASC' or 'DESC'", token)
}

func (p *Parser) parseDelete() (*query.DeleteStatement, error) {
	err := p.expectNextKeyword("FROM")
	if err != nil {
		return nil, err
	}

	statement := &query.DeleteStatement{}
	statement.Table, err = p.expectNextIdentifier("table name")
	if err != nil {
		return nil, err
	}

	statement.Where, err = p.parseOptionalExpressionClause("WHERE")
	if err != nil {
		return nil, err
	}

	statement.OrderBy, err = p.parseOptionalOrderBy()
	if err != nil {
		return nil, err
	}

	statement.Limit, err = p.parseOptionalExpressionClause("LIMIT")
	if err != nil {
		return nil, err
	}

	statement.Offset, err = p.parseOptionalExpressionClause("OFFSET")
	if err != nil {
		return nil, err
	}

	return statement, nil
}

func (p *Parser) parseUpdate() (*query.UpdateStatement, error) {
	var err error
	statement := &query.UpdateStatement{}

	statement.Table, err = p.expectNextIdentifier("table name")
	if err != nil {
		return nil, err
	}

	token := p.moveToNextToken()
	switch {
	case token.isKeyword("SET"):
		statement.Mode = query.UpdateSet
		statement.Assignments, err = p.parseAssignments()
	case token.isKeyword("UNSET"):
		statement.Mode = query.UpdateUnset
		statement.Unset, err = p.parseUnsetPaths()
	default:
		return nil, p.errorExpected("'SET' or 'UNSET'", token)
	}
	if err != nil {
		return nil, err
	}

	statement.Where, err = p.parseOptionalExpressionClause("WHERE")
	if err != nil {
		return nil, err
	}

	return statement, nil
}

// parseAssignments parses "path = expr, ..., path = expr" starting at the SET keyword.
func (p *Parser) parseAssignments() ([]*query.Assignment, error) {
	var assignments []*query.Assignment

	for {
		p.moveToNextToken()
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}

		token := p.moveToNextToken()
		if !token.isOperator("=") {
			return nil, p.errorExpected("'='", token)
		}

		p.moveToNextToken()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		assignments = append(assignments, &query.Assignment{Path: path, Value: value})

		if !p.consumeNextPunctuation(",") {
			return assignments, nil
		}
	}
}

// parseUnsetPaths parses "path, ..., path" starting at the UNSET keyword.
func (p *Parser) parseUnsetPaths() ([]*query.Path, error) {
	var paths []*query.Path

	for {
		p.moveToNextToken()
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}

		paths = append(paths, path)

		if !p.consumeNextPunctuation(",") {
			return paths, nil
		}
	}
}

func (p *Parser) parseInsert() (*query.InsertStatement, error) {
	err := p.expectNextKeyword("INTO")
	if err != nil {
		return nil, err
	}

	statement := &query.InsertStatement{}
	statement.Fields, err = p.parseFieldList()
	if err != nil {
		return nil, err
	}

	token := p.moveToNextToken()
	switch {
	case token.isKeyword("VALUES"):
		statement.Source, err = p.parseValuesList()
	case token.isKeyword("SELECT"):
		statement.Source, err = p.parseSelect()
	default:
		return nil, p.errorExpected("'VALUES' or 'SELECT'", token)
	}
	if err != nil {
		return nil, err
	}

	if p.consumeNextKeyword("RETURNING") {
		p.moveToNextToken()
		statement.Returning, err = p.parseProjection()
		if err != nil {
			return nil, err
		}
	}

	return statement, nil
}

// parseFieldList parses "(ident, ..., ident)" starting at the token before the "(".
func (p *Parser) parseFieldList() ([]*query.Identifier, error) {
	err := p.expectNextPunctuation("(")
	if err != nil {
		return nil, err
	}

	var fields []*query.Identifier
	for {
		field, err := p.expectNextIdentifier("field name")
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)

		token := p.moveToNextToken()
		if token.isPunctuation(")") {
			return fields, nil
		}
		if !token.isPunctuation(",") {
			return nil, p.errorExpected("',' or ')'", token)
		}
	}
}

// parseValuesList parses one or more comma separated rows starting at the VALUES keyword. A row is a tuple
// "(expr, ...)", a document or a parameter.
func (p *Parser) parseValuesList() (*query.ValuesList, error) {
	values := &query.ValuesList{}

	for {
		token := p.moveToNextToken()

		var row query.ValuesRow
		var err error
		switch {
		case token.isPunctuation("("):
			var elements []query.Expression
			elements, err = p.parseExpressionList(")")
			row = &query.Tuple{Elements: elements}
		case token.isPunctuation("{"):
			row, err = p.parseDocument()
		case token.kind == TokenKindNamedParam:
			row = &query.NamedParam{Name: token.value}
		case token.kind == TokenKindPositionalParam:
			p.positionalParams++
			row = &query.PositionalParam{Index: p.positionalParams}
		default:
			return nil, p.errorExpected("values (tuple, document or parameter)", token)
		}
		if err != nil {
			return nil, err
		}

		values.Rows = append(values.Rows, row)

		if !p.consumeNextPunctuation(",") {
			return values, nil
		}
	}
}

func (p *Parser) parseCreate() (*query.CreateStatement, error) {
	token := p.moveToNextToken()
	switch {
	case token.isKeyword("TABLE"):
		return &query.CreateStatement{Target: query.CreateTable}, nil
	case token.isKeyword("UNIQUE"):
		return &query.CreateStatement{Target: query.CreateUnique}, nil
	case token.isKeyword("INDEX"):
		return &query.CreateStatement{Target: query.CreateIndex}, nil
	}

	return nil, p.errorExpected("'TABLE', 'UNIQUE' or 'INDEX'", token)
}

func (p *Parser) parseDrop() (*query.DropStatement, error) {
	statement := &query.DropStatement{}

	token := p.moveToNextToken()
	switch {
	case token.isKeyword("TABLE"):
		statement.Target = query.DropTable
	case token.isKeyword("INDEX"):
		statement.Target = query.DropIndex
	default:
		return nil, p.errorExpected("'TABLE' or 'INDEX'", token)
	}

	if p.consumeNextKeyword("IF") {
		err := p.expectNextKeyword("EXISTS")
		if err != nil {
			return nil, err
		}
		statement.IfExists = true
	}

	var err error
	statement.Name, err = p.expectNextIdentifier(strings.ToLower(statement.Target.String()) + " name")
	if err != nil {
		return nil, err
	}

	return statement, nil
}

func (p *Parser) parseAlter() (*query.AlterStatement, error) {
	err := p.expectNextKeyword("TABLE")
	if err != nil {
		return nil, err
	}

	statement := &query.AlterStatement{}
	statement.Table, err = p.expectNextIdentifier("table name")
	if err != nil {
		return nil, err
	}

	token := p.moveToNextToken()
	switch {
	case token.isKeyword("RENAME"):
		statement.Action = query.AlterRename
	case token.isKeyword("ADD"):
		statement.Action = query.AlterAdd
	default:
		return nil, p.errorExpected("'RENAME' or 'ADD'", token)
	}

	return statement, nil
}

func (p *Parser) parseBegin() (*query.BeginStatement, error) {
	statement := &query.BeginStatement{
		Transaction: p.consumeNextKeyword("TRANSACTION"),
	}

	if !p.consumeNextKeyword("READ") {
		return statement, nil
	}

	token := p.moveToNextToken()
	switch {
	case token.isKeyword("ONLY"):
		statement.Mode = query.TransactionReadOnly
	case token.isKeyword("WRITE"):
		statement.Mode = query.TransactionReadWrite
	default:
		return nil, p.errorExpected("'ONLY' or 'WRITE'", token)
	}

	return statement, nil
}

func (p *Parser) parseExplain() (*query.ExplainStatement, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	p.moveToNextToken()
	statement, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &query.ExplainStatement{Statement: statement}, nil
}
