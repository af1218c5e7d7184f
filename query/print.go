package query

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"strings"
)

// Print logs the tree of the given statement on debug level.
func Print(statement Statement) {
	for _, line := range strings.Split(strings.TrimRight(Dump(statement), "\n"), "\n") {
		sigolo.Debugf("%s", line)
	}
}

// Dump returns an indented, human readable tree of the given statement.
func Dump(statement Statement) string {
	p := &treePrinter{}
	p.statement(0, statement)
	return p.sb.String()
}

// DumpExpression returns an indented, human readable tree of the given expression.
func DumpExpression(expression Expression) string {
	p := &treePrinter{}
	p.expression(0, expression)
	return p.sb.String()
}

type treePrinter struct {
	sb strings.Builder
}

func (p *treePrinter) line(indent int, format string, args ...any) {
	p.sb.WriteString(spacing(indent))
	p.sb.WriteString(fmt.Sprintf(format, args...))
	p.sb.WriteString("\n")
}

func (p *treePrinter) optionalExpression(indent int, label string, expression Expression) {
	if expression == nil {
		return
	}
	p.line(indent, "%s:", label)
	p.expression(indent+2, expression)
}

func (p *treePrinter) projection(indent int, label string, projection *Projection) {
	if projection == nil {
		return
	}
	if projection.Star {
		p.line(indent, "%s: *", label)
		return
	}
	if projection.Alias != nil {
		p.line(indent, "%s (AS %s):", label, projection.Alias.String())
	} else {
		p.line(indent, "%s:", label)
	}
	p.expression(indent+2, projection.Expression)
}

func (p *treePrinter) statement(indent int, statement Statement) {
	switch s := statement.(type) {
	case *SelectStatement:
		if s.Distinct {
			p.line(indent, "Select DISTINCT")
		} else {
			p.line(indent, "Select")
		}
		p.projection(indent+2, "projection", s.Projection)
		if s.From != nil {
			p.line(indent+2, "from: %s", s.From.String())
		}
		p.optionalExpression(indent+2, "where", s.Where)
		p.optionalExpression(indent+2, "group by", s.GroupBy)
		if s.OrderBy != OrderNone {
			p.line(indent+2, "order by: %s", s.OrderBy.String())
		}
		p.optionalExpression(indent+2, "limit", s.Limit)
		p.optionalExpression(indent+2, "offset", s.Offset)
		if s.Union != nil {
			if s.Union.All {
				p.line(indent+2, "union all:")
			} else {
				p.line(indent+2, "union:")
			}
			p.statement(indent+4, s.Union.Select)
		}
	case *DeleteStatement:
		p.line(indent, "Delete")
		p.line(indent+2, "from: %s", s.Table.String())
		p.optionalExpression(indent+2, "where", s.Where)
		if s.OrderBy != OrderNone {
			p.line(indent+2, "order by: %s", s.OrderBy.String())
		}
		p.optionalExpression(indent+2, "limit", s.Limit)
		p.optionalExpression(indent+2, "offset", s.Offset)
	case *UpdateStatement:
		p.line(indent, "Update")
		p.line(indent+2, "table: %s", s.Table.String())
		p.line(indent+2, "%s:", s.Mode.String())
		switch s.Mode {
		case UpdateSet:
			for _, assignment := range s.Assignments {
				p.line(indent+4, "%s =", assignment.Path.String())
				p.expression(indent+6, assignment.Value)
			}
		case UpdateUnset:
			for _, path := range s.Unset {
				p.line(indent+4, "%s", path.String())
			}
		}
		p.optionalExpression(indent+2, "where", s.Where)
	case *InsertStatement:
		p.line(indent, "Insert")
		fields := make([]string, len(s.Fields))
		for i, field := range s.Fields {
			fields[i] = field.String()
		}
		p.line(indent+2, "fields: (%s)", strings.Join(fields, ", "))
		switch source := s.Source.(type) {
		case *ValuesList:
			p.line(indent+2, "values:")
			for _, row := range source.Rows {
				p.line(indent+4, "%s", row.String())
			}
		case *SelectStatement:
			p.line(indent+2, "source:")
			p.statement(indent+4, source)
		}
		p.projection(indent+2, "returning", s.Returning)
	case *CreateStatement:
		p.line(indent, "Create %s", s.Target.String())
	case *DropStatement:
		if s.IfExists {
			p.line(indent, "Drop %s IF EXISTS %s", s.Target.String(), s.Name.String())
		} else {
			p.line(indent, "Drop %s %s", s.Target.String(), s.Name.String())
		}
	case *AlterStatement:
		p.line(indent, "Alter TABLE %s %s", s.Table.String(), s.Action.String())
	case *BeginStatement:
		p.line(indent, "Begin%s%s", transactionMarker(s.Transaction), prefixed(s.Mode.String()))
	case *CommitStatement:
		p.line(indent, "Commit%s", transactionMarker(s.Transaction))
	case *RollbackStatement:
		p.line(indent, "Rollback%s", transactionMarker(s.Transaction))
	case *ReindexStatement:
		p.line(indent, "Reindex %s", s.Name.String())
	case *ExplainStatement:
		p.line(indent, "Explain")
		p.statement(indent+2, s.Statement)
	default:
		p.line(indent, "[!UNKNOWN Statement %T]", statement)
	}
}

func (p *treePrinter) expression(indent int, expression Expression) {
	switch e := expression.(type) {
	case *NumberLiteral:
		p.line(indent, "Number %s", e.Raw)
	case *StringLiteral:
		p.line(indent, "String %s", e.String())
	case *BoolLiteral:
		p.line(indent, "Bool %s", e.String())
	case *NullLiteral:
		p.line(indent, "Null")
	case *Identifier:
		p.line(indent, "Identifier %s", e.String())
	case *UnaryExpression:
		p.line(indent, "Unary %s", e.Operator.String())
		p.expression(indent+2, e.Operand)
	case *BinaryExpression:
		p.line(indent, "Binary %s", e.Operator.String())
		p.expression(indent+2, e.Left)
		p.expression(indent+2, e.Right)
	case *Document:
		p.line(indent, "Document")
		for _, field := range e.Fields {
			p.line(indent+2, "%s:", field.Key)
			p.expression(indent+4, field.Value)
		}
	case *Array:
		p.line(indent, "Array")
		for _, element := range e.Elements {
			p.expression(indent+2, element)
		}
	case *Path:
		p.line(indent, "Path %s", e.String())
	case *FunctionCall:
		if e.Star {
			p.line(indent, "Call %s(*)", e.Name.String())
			return
		}
		p.line(indent, "Call %s", e.Name.String())
		for _, arg := range e.Args {
			p.expression(indent+2, arg)
		}
	case *Cast:
		p.line(indent, "Cast AS %s", e.Type.String())
		p.expression(indent+2, e.Value)
	case *NamedParam:
		p.line(indent, "NamedParam %s", e.Name)
	case *PositionalParam:
		p.line(indent, "PositionalParam %d", e.Index)
	case *Regex:
		p.line(indent, "Regex %s", e.String())
	default:
		p.line(indent, "[!UNKNOWN Expression %T]", expression)
	}
}

func transactionMarker(transaction bool) string {
	if transaction {
		return " TRANSACTION"
	}
	return ""
}

func prefixed(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

func spacing(indent int) string {
	return strings.Repeat(" ", indent)
}
