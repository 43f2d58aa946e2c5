package calculator

import "fmt"

// Node is an expression tree node: *Literal, *Identifier, *Negative or *Binary.
//
// Trees are built only by the parser and never mutated afterwards. Every
// interior node owns its children; no node appears under two parents.
type Node interface {
	node()
	// Position returns the 0-based source column used in diagnostics.
	Position() int
}

// BinaryOp is one of the five arithmetic operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
)

var binaryOpSymbols = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%"}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// Literal is a non-negative integer constant.
type Literal struct {
	Value int64
	Pos   int
}

// Identifier is a variable reference, resolved at evaluation time.
type Identifier struct {
	Name string
	Pos  int
}

// Negative is unary minus applied to Child.
type Negative struct {
	Child Node
	Pos   int
}

// Binary applies Op to Left and Right. Pos is the operator column.
type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
	Pos   int
}

func (*Literal) node()    {}
func (*Identifier) node() {}
func (*Negative) node()   {}
func (*Binary) node()     {}

func (n *Literal) Position() int    { return n.Pos }
func (n *Identifier) Position() int { return n.Pos }
func (n *Negative) Position() int   { return n.Pos }
func (n *Binary) Position() int     { return n.Pos }

// Statement is the result of parsing one line: *ExprStmt or *AssignStmt.
type Statement interface {
	stmt()
}

// ExprStmt evaluates Expr and yields its value.
type ExprStmt struct {
	Expr Node
}

// AssignStmt stores the value of Value under Name and yields it.
type AssignStmt struct {
	Name  string
	Value Node
	Pos   int // column of the target identifier
}

func (*ExprStmt) stmt()   {}
func (*AssignStmt) stmt() {}
