package parser

import (
	"github.com/HicaroD/spi/internal/ast"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/lexer"
	"github.com/HicaroD/spi/internal/lexer/token"
)

const defaultFilename = "test.pas"

func newForTest(input, filename string) (*Parser, error) {
	if filename == "" {
		filename = defaultFilename
	}
	collector := diagnostics.New()
	p := New(lexer.New(filename, []byte(input), collector), collector)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseExprFrom parses a lone expression. Useful for testing.
func ParseExprFrom(input, filename string) (ast.Expr, error) {
	p, err := newForTest(input, filename)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.EOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseStmtFrom parses a lone statement. Useful for testing.
func ParseStmtFrom(input, filename string) (ast.Stmt, error) {
	p, err := newForTest(input, filename)
	if err != nil {
		return nil, err
	}
	stmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.EOF); err != nil {
		return nil, err
	}
	return stmt, nil
}
