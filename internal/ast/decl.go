package ast

import (
	"fmt"

	"github.com/HicaroD/spi/internal/lexer/token"
)

type Program struct {
	Name  *token.Token
	Block *Block
}

func (program *Program) String() string {
	return fmt.Sprintf("PROGRAM %s", program.Name.Name())
}
func (program *Program) astNode() {}

type Block struct {
	Decls []Decl
	Body  *Compound
}

func (block *Block) astNode() {}

type VarDecl struct {
	Var  *VarRef
	Type *TypeRef
}

func (decl *VarDecl) String() string {
	return fmt.Sprintf("VAR %s : %s", decl.Var.Name(), decl.Type.Name())
}
func (decl *VarDecl) astNode()  {}
func (decl *VarDecl) declNode() {}

type TypeRef struct {
	Tok *token.Token
}

// Name is the canonical spelling of the type, INTEGER or REAL.
func (ty *TypeRef) Name() string {
	return ty.Tok.Kind.String()
}
func (ty *TypeRef) astNode() {}

type ProcedureDecl struct {
	Name   *token.Token
	Params []*Param
	Block  *Block
}

func (proc *ProcedureDecl) String() string {
	return fmt.Sprintf("PROCEDURE %s %v", proc.Name.Name(), proc.Params)
}
func (proc *ProcedureDecl) astNode()  {}
func (proc *ProcedureDecl) declNode() {}

type Param struct {
	Var  *VarRef
	Type *TypeRef
}

func (param *Param) String() string {
	return fmt.Sprintf("%s : %s", param.Var.Name(), param.Type.Name())
}
func (param *Param) astNode() {}
