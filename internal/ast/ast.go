// Package ast defines the abstract syntax tree (AST) for Pascal programs.
//
// The node set is closed: every node type implements the unexported marker
// methods below, so only this package can add variants and passes can switch
// over all of them.
package ast

type Node interface {
	astNode()
}

type Decl interface {
	Node
	declNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}
