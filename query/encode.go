package query

// Node is the plain representation of a tree node. It only consists of maps, slices, strings, numbers, bools and nil
// so it can be handed to any JSON or YAML encoder. Every node map carries its kind in the "type" entry.
type Node = map[string]any

// EncodeStatements converts all statements into their plain representation.
func EncodeStatements(statements []Statement) []Node {
	nodes := make([]Node, len(statements))
	for i, statement := range statements {
		nodes[i] = EncodeStatement(statement)
	}
	return nodes
}

func EncodeStatement(statement Statement) Node {
	switch s := statement.(type) {
	case *SelectStatement:
		node := Node{
			"type":       "Select",
			"distinct":   s.Distinct,
			"projection": encodeProjection(s.Projection),
			"from":       encodeIdentifierName(s.From),
			"where":      EncodeExpression(s.Where),
			"groupBy":    EncodeExpression(s.GroupBy),
			"orderBy":    encodeDirection(s.OrderBy),
			"limit":      EncodeExpression(s.Limit),
			"offset":     EncodeExpression(s.Offset),
			"union":      nil,
		}
		if s.Union != nil {
			node["union"] = Node{
				"all":    s.Union.All,
				"select": EncodeStatement(s.Union.Select),
			}
		}
		return node
	case *DeleteStatement:
		return Node{
			"type":    "Delete",
			"table":   encodeIdentifierName(s.Table),
			"where":   EncodeExpression(s.Where),
			"orderBy": encodeDirection(s.OrderBy),
			"limit":   EncodeExpression(s.Limit),
			"offset":  EncodeExpression(s.Offset),
		}
	case *UpdateStatement:
		node := Node{
			"type":  "Update",
			"table": encodeIdentifierName(s.Table),
			"mode":  s.Mode.String(),
			"where": EncodeExpression(s.Where),
		}
		switch s.Mode {
		case UpdateSet:
			assignments := make([]any, len(s.Assignments))
			for i, assignment := range s.Assignments {
				assignments[i] = Node{
					"path":  EncodeExpression(assignment.Path),
					"value": EncodeExpression(assignment.Value),
				}
			}
			node["assignments"] = assignments
		case UpdateUnset:
			paths := make([]any, len(s.Unset))
			for i, path := range s.Unset {
				paths[i] = EncodeExpression(path)
			}
			node["unset"] = paths
		}
		return node
	case *InsertStatement:
		fields := make([]any, len(s.Fields))
		for i, field := range s.Fields {
			fields[i] = field.Name
		}
		return Node{
			"type":      "Insert",
			"fields":    fields,
			"source":    encodeInsertSource(s.Source),
			"returning": encodeProjection(s.Returning),
		}
	case *CreateStatement:
		return Node{
			"type":   "Create",
			"target": s.Target.String(),
		}
	case *DropStatement:
		return Node{
			"type":     "Drop",
			"target":   s.Target.String(),
			"ifExists": s.IfExists,
			"name":     encodeIdentifierName(s.Name),
		}
	case *AlterStatement:
		return Node{
			"type":   "Alter",
			"table":  encodeIdentifierName(s.Table),
			"action": s.Action.String(),
		}
	case *BeginStatement:
		return Node{
			"type":        "Begin",
			"transaction": s.Transaction,
			"mode":        s.Mode.String(),
		}
	case *CommitStatement:
		return Node{
			"type":        "Commit",
			"transaction": s.Transaction,
		}
	case *RollbackStatement:
		return Node{
			"type":        "Rollback",
			"transaction": s.Transaction,
		}
	case *ReindexStatement:
		return Node{
			"type": "Reindex",
			"name": encodeIdentifierName(s.Name),
		}
	case *ExplainStatement:
		return Node{
			"type":      "Explain",
			"statement": EncodeStatement(s.Statement),
		}
	}
	return nil
}

// EncodeExpression converts the expression into its plain representation. A nil expression results in nil.
func EncodeExpression(expression Expression) any {
	switch e := expression.(type) {
	case nil:
		return nil
	case *NumberLiteral:
		return Node{"type": "Number", "raw": e.Raw, "value": e.Value, "integer": e.IsInteger}
	case *StringLiteral:
		return Node{"type": "String", "value": e.Value}
	case *BoolLiteral:
		return Node{"type": "Bool", "value": e.Value}
	case *NullLiteral:
		return Node{"type": "Null"}
	case *Identifier:
		return Node{"type": "Identifier", "name": e.Name, "quoted": e.Quoted}
	case *UnaryExpression:
		return Node{"type": "Unary", "operator": e.Operator.String(), "operand": EncodeExpression(e.Operand)}
	case *BinaryExpression:
		return Node{
			"type":     "Binary",
			"operator": e.Operator.String(),
			"left":     EncodeExpression(e.Left),
			"right":    EncodeExpression(e.Right),
		}
	case *Document:
		fields := make([]any, len(e.Fields))
		for i, field := range e.Fields {
			fields[i] = Node{"key": field.Key, "stringKey": field.StringKey, "value": EncodeExpression(field.Value)}
		}
		return Node{"type": "Document", "fields": fields}
	case *Array:
		return Node{"type": "Array", "elements": encodeExpressions(e.Elements)}
	case *Path:
		steps := make([]any, len(e.Steps))
		for i, step := range e.Steps {
			switch s := step.(type) {
			case *IndexStep:
				steps[i] = Node{"type": "Index", "index": s.Index}
			case *FieldStep:
				steps[i] = Node{"type": "Field", "name": s.Field.Name}
			}
		}
		return Node{"type": "Path", "root": e.Root.Name, "steps": steps}
	case *FunctionCall:
		return Node{"type": "FunctionCall", "name": e.Name.Name, "star": e.Star, "args": encodeExpressions(e.Args)}
	case *Cast:
		return Node{"type": "Cast", "value": EncodeExpression(e.Value), "targetType": e.Type.String()}
	case *NamedParam:
		return Node{"type": "NamedParam", "name": e.Name}
	case *PositionalParam:
		return Node{"type": "PositionalParam", "index": e.Index}
	case *Regex:
		return Node{"type": "Regex", "pattern": e.Pattern}
	}
	return nil
}

func encodeExpressions(expressions []Expression) []any {
	result := make([]any, len(expressions))
	for i, expression := range expressions {
		result[i] = EncodeExpression(expression)
	}
	return result
}

func encodeInsertSource(source InsertSource) any {
	switch s := source.(type) {
	case *ValuesList:
		rows := make([]any, len(s.Rows))
		for i, row := range s.Rows {
			switch r := row.(type) {
			case *Tuple:
				rows[i] = Node{"type": "Tuple", "elements": encodeExpressions(r.Elements)}
			case Expression:
				rows[i] = EncodeExpression(r)
			}
		}
		return Node{"type": "Values", "rows": rows}
	case *SelectStatement:
		return EncodeStatement(s)
	}
	return nil
}

func encodeProjection(projection *Projection) any {
	if projection == nil {
		return nil
	}
	if projection.Star {
		return Node{"star": true}
	}
	return Node{
		"star":       false,
		"expression": EncodeExpression(projection.Expression),
		"alias":      encodeIdentifierName(projection.Alias),
	}
}

func encodeIdentifierName(identifier *Identifier) any {
	if identifier == nil {
		return nil
	}
	return identifier.Name
}

func encodeDirection(direction OrderDirection) any {
	if direction == OrderNone {
		return nil
	}
	return direction.String()
}
