package parser

import (
	"errors"
	"strconv"

	"github.com/HicaroD/spi/internal/ast"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/lexer"
	"github.com/HicaroD/spi/internal/lexer/token"
)

// Parser is a one-token lookahead recursive descent parser. It never recovers
// from an error, the first one is reported and returned.
type Parser struct {
	lex       *lexer.Lexer
	collector *diagnostics.Collector

	curr *token.Token
}

func New(lex *lexer.Lexer, collector *diagnostics.Collector) *Parser {
	if collector == nil {
		collector = lex.Collector
	}
	return &Parser{lex: lex, collector: collector}
}

// Parse lexes and parses src as a whole program.
func Parse(filename string, src []byte) (*ast.Program, error) {
	collector := diagnostics.New()
	lex := lexer.New(filename, src, collector)
	return New(lex, collector).Parse()
}

func ParseFile(path string, collector *diagnostics.Collector) (*ast.Program, error) {
	lex, err := lexer.NewFromFilePath(path, collector)
	if err != nil {
		return nil, err
	}
	return New(lex, collector).Parse()
}

// IsIncomplete reports whether err only says the input ended too early, so
// more text could still make it a valid program.
func IsIncomplete(err error) bool {
	var diag *diagnostics.Diag
	if !errors.As(err, &diag) {
		return false
	}
	switch diag.Code {
	case diagnostics.PARSE_ERROR:
		return diag.Tok != nil && diag.Tok.Kind == token.EOF
	case diagnostics.LEXICAL_ERROR:
		return diag.Message == lexer.UNTERMINATED_COMMENT
	}
	return false
}

func (p *Parser) Parse() (*ast.Program, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	if p.curr.Kind != token.EOF {
		trailing := diagnostics.AtToken(
			diagnostics.PARSE_ERROR,
			p.curr,
			"expected end of file after program, not %s",
			describe(p.curr),
		)
		return nil, p.collector.ReportAndSave(trailing)
	}
	return program, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.curr = tok
	return nil
}

func (p *Parser) eat(expectedKind token.Kind) (*token.Token, error) {
	tok := p.curr
	if tok.Kind != expectedKind {
		unexpected := diagnostics.AtToken(
			diagnostics.PARSE_ERROR,
			tok,
			"unexpected %s, expected %s",
			describe(tok),
			expectedKind,
		)
		return nil, p.collector.ReportAndSave(unexpected)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return tok, nil
}

func (p *Parser) nextIs(kind token.Kind) bool {
	return p.curr.Kind == kind
}

// program := "program" IDENT ";" block "."
func (p *Parser) parseProgram() (*ast.Program, error) {
	if _, err := p.eat(token.PROGRAM); err != nil {
		return nil, err
	}
	name, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMICOLON); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.DOT); err != nil {
		return nil, err
	}
	return &ast.Program{Name: name, Block: block}, nil
}

// block := declarations compound_statement
func (p *Parser) parseBlock() (*ast.Block, error) {
	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	body, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Decls: decls, Body: body}, nil
}

// declarations := ( "var" (var_decl ";")+ | procedure_decl )*
func (p *Parser) parseDeclarations() ([]ast.Decl, error) {
	var decls []ast.Decl

	for {
		switch p.curr.Kind {
		case token.VAR:
			if _, err := p.eat(token.VAR); err != nil {
				return nil, err
			}
			for {
				varDecls, err := p.parseVarDecl()
				if err != nil {
					return nil, err
				}
				decls = append(decls, varDecls...)
				if _, err := p.eat(token.SEMICOLON); err != nil {
					return nil, err
				}
				if !p.nextIs(token.ID) {
					break
				}
			}
		case token.PROCEDURE:
			proc, err := p.parseProcedureDecl()
			if err != nil {
				return nil, err
			}
			decls = append(decls, proc)
		default:
			return decls, nil
		}
	}
}

// var_decl := IDENT ("," IDENT)* ":" type_spec
func (p *Parser) parseVarDecl() ([]ast.Decl, error) {
	names, err := p.parseIdList()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.COLON); err != nil {
		return nil, err
	}
	ty, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}

	decls := make([]ast.Decl, len(names))
	for i, name := range names {
		decls[i] = &ast.VarDecl{Var: &ast.VarRef{Tok: name}, Type: ty}
	}
	return decls, nil
}

func (p *Parser) parseIdList() ([]*token.Token, error) {
	first, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	names := []*token.Token{first}
	for p.nextIs(token.COMMA) {
		if _, err := p.eat(token.COMMA); err != nil {
			return nil, err
		}
		name, err := p.eat(token.ID)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// procedure_decl := "procedure" IDENT ("(" formal_params ")")? ";" block ";"
func (p *Parser) parseProcedureDecl() (*ast.ProcedureDecl, error) {
	if _, err := p.eat(token.PROCEDURE); err != nil {
		return nil, err
	}
	name, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}

	var params []*ast.Param
	if p.nextIs(token.OPEN_PAREN) {
		if _, err := p.eat(token.OPEN_PAREN); err != nil {
			return nil, err
		}
		params, err = p.parseFormalParams()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.CLOSE_PAREN); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.SEMICOLON); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.ProcedureDecl{Name: name, Params: params, Block: block}, nil
}

// formal_params := formal_group (";" formal_group)*
// formal_group  := IDENT ("," IDENT)* ":" type_spec
func (p *Parser) parseFormalParams() ([]*ast.Param, error) {
	var params []*ast.Param
	for {
		names, err := p.parseIdList()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			params = append(params, &ast.Param{Var: &ast.VarRef{Tok: name}, Type: ty})
		}

		if !p.nextIs(token.SEMICOLON) {
			return params, nil
		}
		if _, err := p.eat(token.SEMICOLON); err != nil {
			return nil, err
		}
	}
}

// type_spec := "INTEGER" | "REAL"
func (p *Parser) parseTypeSpec() (*ast.TypeRef, error) {
	tok := p.curr
	if !tok.Kind.IsBasicType() {
		expectedType := diagnostics.AtToken(
			diagnostics.PARSE_ERROR,
			tok,
			"unexpected %s, expected type INTEGER or REAL",
			describe(tok),
		)
		return nil, p.collector.ReportAndSave(expectedType)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.TypeRef{Tok: tok}, nil
}

// compound := "begin" statement (";" statement)* "end"
func (p *Parser) parseCompound() (*ast.Compound, error) {
	begin, err := p.eat(token.BEGIN)
	if err != nil {
		return nil, err
	}

	var children []ast.Stmt
	for {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		children = append(children, stmt)

		if !p.nextIs(token.SEMICOLON) {
			break
		}
		if _, err := p.eat(token.SEMICOLON); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.END); err != nil {
		return nil, err
	}
	return &ast.Compound{Begin: begin, Children: children}, nil
}

// statement  := compound | assignment | proc_call | ε
// assignment := IDENT ":=" expr
// proc_call  := IDENT "(" (expr ("," expr)*)? ")"
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.curr.Kind {
	case token.BEGIN:
		return p.parseCompound()
	case token.ID:
		name, err := p.eat(token.ID)
		if err != nil {
			return nil, err
		}
		if p.nextIs(token.OPEN_PAREN) {
			return p.parseProcedureCall(name)
		}
		return p.parseAssign(name)
	default:
		return &ast.NoOp{}, nil
	}
}

func (p *Parser) parseAssign(name *token.Token) (*ast.Assign, error) {
	op, err := p.eat(token.ASSIGN)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Left: &ast.VarRef{Tok: name}, Op: op, Right: value}, nil
}

func (p *Parser) parseProcedureCall(name *token.Token) (*ast.ProcedureCall, error) {
	if _, err := p.eat(token.OPEN_PAREN); err != nil {
		return nil, err
	}

	var args []ast.Expr
	if !p.nextIs(token.CLOSE_PAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.nextIs(token.COMMA) {
				break
			}
			if _, err := p.eat(token.COMMA); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.eat(token.CLOSE_PAREN); err != nil {
		return nil, err
	}
	return &ast.ProcedureCall{Name: name, Args: args}, nil
}

// expr := term (("+"|"-") term)*
func (p *Parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		next := p.curr
		if _, ok := ast.TERM[next.Kind]; !ok {
			return lhs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryOp{Left: lhs, Op: next, Right: rhs}
	}
}

// term := factor (("*"|"DIV"|"/") factor)*
func (p *Parser) parseTerm() (ast.Expr, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		next := p.curr
		if _, ok := ast.FACTOR[next.Kind]; !ok {
			return lhs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryOp{Left: lhs, Op: next, Right: rhs}
	}
}

// factor := ("+"|"-") factor | INTEGER_CONST | REAL_CONST | "(" expr ")" | IDENT
//
// A leading sign binds to the factor only, so -2 * 3 is (-2) * 3.
func (p *Parser) parseFactor() (ast.Expr, error) {
	tok := p.curr

	if _, ok := ast.UNARY[tok.Kind]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: tok, Operand: operand}, nil
	}

	switch tok.Kind {
	case token.INTEGER_CONST, token.REAL_CONST:
		literal, err := p.parseNumber(tok)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return literal, nil
	case token.OPEN_PAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.CLOSE_PAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.ID:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.VarRef{Tok: tok}, nil
	default:
		invalidExpr := diagnostics.AtToken(
			diagnostics.PARSE_ERROR,
			tok,
			"unexpected %s, expected expression",
			describe(tok),
		)
		return nil, p.collector.ReportAndSave(invalidExpr)
	}
}

func (p *Parser) parseNumber(tok *token.Token) (*ast.NumberLiteral, error) {
	literal := &ast.NumberLiteral{Tok: tok, IsReal: tok.Kind == token.REAL_CONST}

	var err error
	if literal.IsReal {
		literal.Real, err = strconv.ParseFloat(string(tok.Lexeme), 64)
	} else {
		literal.Int, err = strconv.ParseInt(string(tok.Lexeme), 10, 64)
	}
	if err != nil {
		outOfRange := diagnostics.AtToken(
			diagnostics.PARSE_ERROR,
			tok,
			"numeric constant %s out of range",
			tok.Lexeme,
		)
		return nil, p.collector.ReportAndSave(outOfRange)
	}
	return literal, nil
}

func describe(tok *token.Token) string {
	switch tok.Kind {
	case token.ID, token.INTEGER_CONST, token.REAL_CONST:
		return tok.Kind.String() + " '" + string(tok.Lexeme) + "'"
	case token.EOF:
		return tok.Kind.String()
	}
	return "'" + tok.Kind.String() + "'"
}
