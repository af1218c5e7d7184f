package query

import (
	"dql/util"
	"github.com/hauke96/sigolo/v2"
	"testing"
)

func TestDump_select(t *testing.T) {
	// Arrange
	statement := &SelectStatement{
		Distinct: true,
		Projection: &Projection{
			Expression: NewBinaryExpression(BinOpAdd, NewIdentifier("a"), NewNumberLiteral("1")),
			Alias:      NewIdentifier("x"),
		},
		From:    NewIdentifier("t"),
		Where:   NewUnaryExpression(UnaryOpNot, NewIdentifier("b")),
		OrderBy: OrderDesc,
		Limit:   NewNumberLiteral("10"),
		Union: &Union{
			Select: &SelectStatement{Projection: &Projection{Star: true}, From: NewIdentifier("u")},
		},
	}

	// Act
	dump := Dump(statement)

	// Assert
	util.AssertEqual(t, `Select DISTINCT
  projection (AS x):
    Binary +
      Identifier a
      Number 1
  from: t
  where:
    Unary NOT
      Identifier b
  order by: DESC
  limit:
    Number 10
  union:
    Select
      projection: *
      from: u
`, dump)
}

func TestDump_insert(t *testing.T) {
	// Arrange
	statement := &InsertStatement{
		Fields: []*Identifier{NewIdentifier("a"), {Name: "b c", Quoted: true}},
		Source: &ValuesList{Rows: []ValuesRow{
			&Tuple{Elements: []Expression{NewNumberLiteral("1"), &StringLiteral{Value: "it's"}}},
			&Document{Fields: []*DocumentField{{Key: "a", Value: &Array{Elements: []Expression{&NullLiteral{}}}}}},
			&PositionalParam{Index: 1},
			&NamedParam{Name: "p"},
		}},
		Returning: &Projection{Star: true},
	}

	// Act
	dump := Dump(statement)

	// Assert
	util.AssertEqual(t, "Insert\n"+
		"  fields: (a, `b c`)\n"+
		"  values:\n"+
		"    (1, 'it\\'s')\n"+
		"    {a: [NULL]}\n"+
		"    ?\n"+
		"    $p\n"+
		"  returning: *\n", dump)
}

func TestDump_otherStatements(t *testing.T) {
	util.AssertEqual(t, "Update\n  table: t\n  UNSET:\n    a.b\n    c[1]\n", Dump(&UpdateStatement{
		Table: NewIdentifier("t"),
		Mode:  UpdateUnset,
		Unset: []*Path{
			{Root: NewIdentifier("a"), Steps: []PathStep{&FieldStep{Field: NewIdentifier("b")}}},
			{Root: NewIdentifier("c"), Steps: []PathStep{&IndexStep{Index: 1}}},
		},
	}))
	util.AssertEqual(t, "Drop INDEX IF EXISTS idx\n", Dump(&DropStatement{Target: DropIndex, IfExists: true, Name: NewIdentifier("idx")}))
	util.AssertEqual(t, "Begin TRANSACTION READ ONLY\n", Dump(&BeginStatement{Transaction: true, Mode: TransactionReadOnly}))
	util.AssertEqual(t, "Begin\n", Dump(&BeginStatement{}))
	util.AssertEqual(t, "Explain\n  Rollback TRANSACTION\n", Dump(&ExplainStatement{Statement: &RollbackStatement{Transaction: true}}))
	util.AssertEqual(t, "Create UNIQUE\n", Dump(&CreateStatement{Target: CreateUnique}))
	util.AssertEqual(t, "Alter TABLE t ADD\n", Dump(&AlterStatement{Table: NewIdentifier("t"), Action: AlterAdd}))
}

func TestDumpExpression(t *testing.T) {
	// Arrange
	expression := NewBinaryExpression(
		BinOpNotIn,
		&FunctionCall{Name: NewIdentifier("f"), Args: []Expression{&Cast{Value: NewIdentifier("a"), Type: &TypeName{Name: "VARCHAR", Length: 3}}}},
		&Regex{Pattern: "^a"},
	)

	// Act
	dump := DumpExpression(expression)

	// Assert
	util.AssertEqual(t, `Binary NOT IN
  Call f
    Cast AS VARCHAR(3)
      Identifier a
  Regex /^a/
`, dump)
}

func TestPrint(t *testing.T) {
	// Arrange
	sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)

	// Act & Assert (must not panic)
	Print(&CommitStatement{})
	Print(&SelectStatement{Projection: &Projection{Star: true}})
}
