package ast

import (
	"fmt"

	"github.com/HicaroD/spi/internal/lexer/token"
)

var TERM map[token.Kind]bool = map[token.Kind]bool{
	token.PLUS:  true,
	token.MINUS: true,
}

var FACTOR map[token.Kind]bool = map[token.Kind]bool{
	token.STAR:        true,
	token.INTEGER_DIV: true,
	token.SLASH:       true,
}

var UNARY map[token.Kind]bool = map[token.Kind]bool{
	token.PLUS:  true,
	token.MINUS: true,
}

type BinaryOp struct {
	Left  Expr
	Op    *token.Token
	Right Expr
}

func (binOp *BinaryOp) String() string {
	return fmt.Sprintf("(%v) %v (%v)", binOp.Left, binOp.Op.Kind, binOp.Right)
}
func (binOp *BinaryOp) astNode()  {}
func (binOp *BinaryOp) exprNode() {}

type UnaryOp struct {
	Op      *token.Token
	Operand Expr
}

func (unary *UnaryOp) String() string {
	return fmt.Sprintf("%v(%v)", unary.Op.Kind, unary.Operand)
}
func (unary *UnaryOp) astNode()  {}
func (unary *UnaryOp) exprNode() {}

// NumberLiteral holds the value already converted by the parser. Exactly one
// of Int and Real is meaningful, selected by IsReal.
type NumberLiteral struct {
	Tok    *token.Token
	IsReal bool
	Int    int64
	Real   float64
}

func (literal *NumberLiteral) String() string {
	return literal.Tok.Text()
}
func (literal *NumberLiteral) astNode()  {}
func (literal *NumberLiteral) exprNode() {}

type VarRef struct {
	Tok *token.Token
}

func (ref *VarRef) Name() string { return ref.Tok.Name() }

func (ref *VarRef) String() string {
	return ref.Name()
}
func (ref *VarRef) astNode()  {}
func (ref *VarRef) exprNode() {}
