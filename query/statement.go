package query

import "fmt"

// Statement is one of the statement nodes of this package. Consumers switch over the concrete type.
type Statement interface {
	statementNode()
}

// Projection is either "*" or a single expression with an optional alias.
type Projection struct {
	Star       bool
	Expression Expression
	Alias      *Identifier
}

type Union struct {
	All    bool
	Select *SelectStatement
}

type SelectStatement struct {
	Distinct   bool
	Projection *Projection
	From       *Identifier
	Where      Expression
	GroupBy    Expression
	OrderBy    OrderDirection
	Limit      Expression
	Offset     Expression
	Union      *Union
}

type DeleteStatement struct {
	Table   *Identifier
	Where   Expression
	OrderBy OrderDirection
	Limit   Expression
	Offset  Expression
}

type UpdateMode int

const (
	UpdateSet UpdateMode = iota
	UpdateUnset
)

func (m UpdateMode) String() string {
	switch m {
	case UpdateSet:
		return "SET"
	case UpdateUnset:
		return "UNSET"
	}
	return fmt.Sprintf("[!UNKNOWN UpdateMode %d]", m)
}

type Assignment struct {
	Path  *Path
	Value Expression
}

// UpdateStatement holds either Assignments (SET) or Unset paths (UNSET), depending on Mode.
type UpdateStatement struct {
	Table       *Identifier
	Mode        UpdateMode
	Assignments []*Assignment
	Unset       []*Path
	Where       Expression
}

// InsertSource is either a *ValuesList or a *SelectStatement.
type InsertSource interface {
	insertSourceNode()
}

// ValuesRow is one row of a VALUES clause: a *Tuple, a *Document, a *NamedParam or a *PositionalParam.
type ValuesRow interface {
	valuesRowNode()
	String() string
}

type Tuple struct {
	Elements []Expression
}

func (t *Tuple) String() string {
	return "(" + joinExpressions(t.Elements) + ")"
}

type ValuesList struct {
	Rows []ValuesRow
}

type InsertStatement struct {
	Fields    []*Identifier
	Source    InsertSource
	Returning *Projection
}

type CreateTarget int

const (
	CreateTable CreateTarget = iota
	CreateUnique
	CreateIndex
)

func (t CreateTarget) String() string {
	switch t {
	case CreateTable:
		return "TABLE"
	case CreateUnique:
		return "UNIQUE"
	case CreateIndex:
		return "INDEX"
	}
	return fmt.Sprintf("[!UNKNOWN CreateTarget %d]", t)
}

// CreateStatement only records what kind of object is created, the language has no further structure here.
type CreateStatement struct {
	Target CreateTarget
}

type DropTarget int

const (
	DropTable DropTarget = iota
	DropIndex
)

func (t DropTarget) String() string {
	switch t {
	case DropTable:
		return "TABLE"
	case DropIndex:
		return "INDEX"
	}
	return fmt.Sprintf("[!UNKNOWN DropTarget %d]", t)
}

type DropStatement struct {
	Target   DropTarget
	IfExists bool
	Name     *Identifier
}

type AlterAction int

const (
	AlterRename AlterAction = iota
	AlterAdd
)

func (a AlterAction) String() string {
	switch a {
	case AlterRename:
		return "RENAME"
	case AlterAdd:
		return "ADD"
	}
	return fmt.Sprintf("[!UNKNOWN AlterAction %d]", a)
}

// AlterStatement only records the table and the action keyword, the language has no further structure here.
type AlterStatement struct {
	Table  *Identifier
	Action AlterAction
}

type TransactionMode int

const (
	TransactionDefault TransactionMode = iota
	TransactionReadOnly
	TransactionReadWrite
)

func (m TransactionMode) String() string {
	switch m {
	case TransactionDefault:
		return ""
	case TransactionReadOnly:
		return "READ ONLY"
	case TransactionReadWrite:
		return "READ WRITE"
	}
	return fmt.Sprintf("[!UNKNOWN TransactionMode %d]", m)
}

// BeginStatement is "BEGIN [TRANSACTION] [READ ONLY|READ WRITE]". Transaction is set when the optional keyword was
// written.
type BeginStatement struct {
	Transaction bool
	Mode        TransactionMode
}

type CommitStatement struct {
	Transaction bool
}

type RollbackStatement struct {
	Transaction bool
}

type ReindexStatement struct {
	Name *Identifier
}

type ExplainStatement struct {
	Statement Statement
}

func (*SelectStatement) statementNode()   {}
func (*DeleteStatement) statementNode()   {}
func (*UpdateStatement) statementNode()   {}
func (*InsertStatement) statementNode()   {}
func (*CreateStatement) statementNode()   {}
func (*DropStatement) statementNode()     {}
func (*AlterStatement) statementNode()    {}
func (*BeginStatement) statementNode()    {}
func (*CommitStatement) statementNode()   {}
func (*RollbackStatement) statementNode() {}
func (*ReindexStatement) statementNode()  {}
func (*ExplainStatement) statementNode()  {}

func (*ValuesList) insertSourceNode()      {}
func (*SelectStatement) insertSourceNode() {}

func (*Tuple) valuesRowNode()           {}
func (*Document) valuesRowNode()        {}
func (*NamedParam) valuesRowNode()      {}
func (*PositionalParam) valuesRowNode() {}
