package ast

import (
	"fmt"
	"strings"
)

// Dump renders node as an s-expression. Source positions are left out, so two
// trees parsed from differently formatted text dump equally when they have
// the same structure.
func Dump(node Node) string {
	var b strings.Builder
	dump(&b, node)
	return b.String()
}

func dump(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Program:
		fmt.Fprintf(b, "(program %s ", n.Name.Name())
		dump(b, n.Block)
		b.WriteString(")")
	case *Block:
		b.WriteString("(block")
		for _, decl := range n.Decls {
			b.WriteString(" ")
			dump(b, decl)
		}
		b.WriteString(" ")
		dump(b, n.Body)
		b.WriteString(")")
	case *VarDecl:
		fmt.Fprintf(b, "(var %s ", n.Var.Name())
		dump(b, n.Type)
		b.WriteString(")")
	case *TypeRef:
		b.WriteString(n.Name())
	case *ProcedureDecl:
		fmt.Fprintf(b, "(procedure %s (", n.Name.Name())
		for i, param := range n.Params {
			if i > 0 {
				b.WriteString(" ")
			}
			dump(b, param)
		}
		b.WriteString(") ")
		dump(b, n.Block)
		b.WriteString(")")
	case *Param:
		fmt.Fprintf(b, "(param %s ", n.Var.Name())
		dump(b, n.Type)
		b.WriteString(")")
	case *Compound:
		b.WriteString("(compound")
		for _, child := range n.Children {
			b.WriteString(" ")
			dump(b, child)
		}
		b.WriteString(")")
	case *Assign:
		fmt.Fprintf(b, "(assign %s ", n.Left.Name())
		dump(b, n.Right)
		b.WriteString(")")
	case *ProcedureCall:
		fmt.Fprintf(b, "(call %s", n.Name.Name())
		for _, arg := range n.Args {
			b.WriteString(" ")
			dump(b, arg)
		}
		b.WriteString(")")
	case *NoOp:
		b.WriteString("(noop)")
	case *BinaryOp:
		fmt.Fprintf(b, "(%s ", n.Op.Kind)
		dump(b, n.Left)
		b.WriteString(" ")
		dump(b, n.Right)
		b.WriteString(")")
	case *UnaryOp:
		fmt.Fprintf(b, "(%s ", n.Op.Kind)
		dump(b, n.Operand)
		b.WriteString(")")
	case *NumberLiteral:
		b.WriteString(n.Tok.Text())
	case *VarRef:
		b.WriteString(n.Name())
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<unknown %T>", n)
	}
}
