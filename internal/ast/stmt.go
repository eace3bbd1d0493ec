package ast

import (
	"fmt"

	"github.com/HicaroD/spi/internal/lexer/token"
)

type Compound struct {
	Begin    *token.Token
	Children []Stmt
}

func (compound *Compound) String() string {
	return fmt.Sprintf("BEGIN %v END", compound.Children)
}
func (compound *Compound) astNode()  {}
func (compound *Compound) stmtNode() {}

type Assign struct {
	Left  *VarRef
	Op    *token.Token
	Right Expr
}

func (assign *Assign) String() string {
	return fmt.Sprintf("%s := %v", assign.Left.Name(), assign.Right)
}
func (assign *Assign) astNode()  {}
func (assign *Assign) stmtNode() {}

type ProcedureCall struct {
	Name *token.Token
	Args []Expr
}

func (call *ProcedureCall) String() string {
	return fmt.Sprintf("CALL: %s - ARGS: %v", call.Name.Name(), call.Args)
}
func (call *ProcedureCall) astNode()  {}
func (call *ProcedureCall) stmtNode() {}

// NoOp is the empty statement, e.g. the one before END in "x := 1; end".
type NoOp struct{}

func (noop *NoOp) String() string { return "NOOP" }
func (noop *NoOp) astNode()       {}
func (noop *NoOp) stmtNode()      {}
