package sema

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/HicaroD/spi/internal/ast"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/lexer/token"
)

const indentUnit = "   "

// Result is everything the resolver learned about a program. The side tables
// are keyed by node identity, the tree itself is left untouched.
type Result struct {
	// Output is the program rendered with every declaration and reference
	// tagged with its nesting level and type.
	Output string
	Global *ast.Scope
	Vars   map[*ast.VarRef]*ast.Symbol
	Calls  map[*ast.ProcedureCall]*ast.Symbol
}

type sema struct {
	collector *diagnostics.Collector
	logger    *log.Logger

	current *ast.Scope
	result  *Result
	out     strings.Builder
}

// New returns a resolver. A nil logger keeps it silent.
func New(collector *diagnostics.Collector, logger *log.Logger) *sema {
	if collector == nil {
		collector = diagnostics.New()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &sema{collector: collector, logger: logger}
}

func Resolve(program *ast.Program) (*Result, error) {
	return New(nil, nil).Resolve(program)
}

func (s *sema) Resolve(program *ast.Program) (*Result, error) {
	s.current = nil
	s.out.Reset()
	s.result = &Result{
		Vars:  make(map[*ast.VarRef]*ast.Symbol),
		Calls: make(map[*ast.ProcedureCall]*ast.Symbol),
	}

	if err := s.resolveProgram(program); err != nil {
		return nil, err
	}

	s.result.Output = s.out.String()
	return s.result, nil
}

func (s *sema) resolveProgram(program *ast.Program) error {
	global := s.enterScope("global")
	s.result.Global = global

	for _, builtin := range []string{token.INTEGER.String(), token.REAL.String()} {
		s.insert(ast.NewBuiltinType(builtin))
	}

	name := program.Name.Name()
	s.line(0, "program %s%d;", name, 0)
	if err := s.resolveBlock(program.Block, 1, 0); err != nil {
		return err
	}
	s.line(0, "end. {END OF %s}", name)

	s.leaveScope()
	return nil
}

// resolveBlock renders declarations at declIndent and the BEGIN/END pair at
// bodyIndent, the closing line is left to the caller.
func (s *sema) resolveBlock(block *ast.Block, declIndent, bodyIndent int) error {
	if err := s.checkDuplicates(block); err != nil {
		return err
	}

	// Sibling procedures are declared up front so they can call each other.
	procs := make(map[*ast.ProcedureDecl]*ast.Symbol)
	for _, decl := range block.Decls {
		proc, ok := decl.(*ast.ProcedureDecl)
		if !ok {
			continue
		}
		symbol, err := s.declareProcedure(proc)
		if err != nil {
			return err
		}
		procs[proc] = symbol
	}

	for _, decl := range block.Decls {
		switch d := decl.(type) {
		case *ast.VarDecl:
			if err := s.resolveVarDecl(d, declIndent); err != nil {
				return err
			}
		case *ast.ProcedureDecl:
			if err := s.resolveProcedureDecl(d, procs[d], declIndent); err != nil {
				return err
			}
		default:
			return fmt.Errorf("sema: unexpected declaration %T", d)
		}
	}

	s.line(bodyIndent, "begin")
	for _, stmt := range block.Body.Children {
		if err := s.resolveStmt(stmt, bodyIndent+1); err != nil {
			return err
		}
	}
	return nil
}

// checkDuplicates reports the first name in block, in source order, that is
// already declared in the current scope or earlier in the same block.
func (s *sema) checkDuplicates(block *ast.Block) error {
	seen := make(map[string]bool, len(block.Decls))
	for _, decl := range block.Decls {
		var name *token.Token
		switch d := decl.(type) {
		case *ast.VarDecl:
			name = d.Var.Tok
		case *ast.ProcedureDecl:
			name = d.Name
		default:
			continue
		}
		if _, err := s.current.LookupCurrentScope(name.Name()); err == nil || seen[name.Name()] {
			return s.duplicate(name)
		}
		seen[name.Name()] = true
	}
	return nil
}

func (s *sema) resolveVarDecl(decl *ast.VarDecl, indent int) error {
	ty, err := s.lookupType(decl.Type)
	if err != nil {
		return err
	}

	name := decl.Var.Tok
	if _, err := s.current.LookupCurrentScope(name.Name()); err == nil {
		return s.duplicate(name)
	}
	symbol := ast.NewVariable(name, ty)
	s.insert(symbol)

	s.line(indent, "var %s%d : %s;", symbol.Name, symbol.Level, ty.Name)
	return nil
}

// declareProcedure inserts the procedure symbol, with its parameter list, into
// the enclosing scope.
func (s *sema) declareProcedure(proc *ast.ProcedureDecl) (*ast.Symbol, error) {
	if _, err := s.current.LookupCurrentScope(proc.Name.Name()); err == nil {
		return nil, s.duplicate(proc.Name)
	}

	symbol := ast.NewProcedure(proc)
	for _, param := range proc.Params {
		ty, err := s.lookupType(param.Type)
		if err != nil {
			return nil, err
		}
		symbol.Params = append(symbol.Params, ast.NewVariable(param.Var.Tok, ty))
	}
	s.insert(symbol)
	return symbol, nil
}

func (s *sema) resolveProcedureDecl(proc *ast.ProcedureDecl, symbol *ast.Symbol, indent int) error {
	name := symbol.Name
	s.enterScope(name)

	params := make([]string, 0, len(symbol.Params))
	for _, param := range symbol.Params {
		if _, err := s.current.LookupCurrentScope(param.Name); err == nil {
			return s.duplicate(param.Tok)
		}
		s.insert(param)
		params = append(params, fmt.Sprintf("%s%d : %s", param.Name, param.Level, param.TypeName()))
	}

	if len(params) > 0 {
		s.line(indent, "procedure %s%d(%s);", name, symbol.Level, strings.Join(params, "; "))
	} else {
		s.line(indent, "procedure %s%d;", name, symbol.Level)
	}

	if err := s.resolveBlock(proc.Block, indent+1, indent+1); err != nil {
		return err
	}
	s.line(indent+1, "end; {END OF %s}", name)

	s.leaveScope()
	return nil
}

func (s *sema) resolveStmt(stmt ast.Stmt, indent int) error {
	switch n := stmt.(type) {
	case *ast.Compound:
		s.line(indent, "begin")
		for _, child := range n.Children {
			if err := s.resolveStmt(child, indent+1); err != nil {
				return err
			}
		}
		s.line(indent, "end;")
	case *ast.Assign:
		right, err := s.resolveExpr(n.Right)
		if err != nil {
			return err
		}
		left, err := s.resolveVarRef(n.Left)
		if err != nil {
			return err
		}
		s.line(indent, "%s := %s;", left, right)
	case *ast.ProcedureCall:
		call, err := s.resolveProcedureCall(n)
		if err != nil {
			return err
		}
		s.line(indent, "%s;", call)
	case *ast.NoOp:
	default:
		return fmt.Errorf("sema: unexpected statement %T", n)
	}
	return nil
}

func (s *sema) resolveProcedureCall(call *ast.ProcedureCall) (string, error) {
	name := call.Name.Name()
	s.logger.Printf("Lookup: %s. (Scope name: %s)", name, s.current.Name)

	symbol, err := s.current.LookupAcrossScopes(name)
	if err != nil || symbol.Kind != ast.SYMBOL_PROCEDURE {
		notFound := diagnostics.AtToken(
			diagnostics.ID_NOT_FOUND,
			call.Name,
			"procedure '%s' not found",
			name,
		)
		return "", s.collector.ReportAndSave(notFound)
	}

	if len(call.Args) != len(symbol.Params) {
		arityMismatch := diagnostics.AtToken(
			diagnostics.ARITY_MISMATCH,
			call.Name,
			"procedure '%s' expects %d argument(s), got %d",
			name,
			len(symbol.Params),
			len(call.Args),
		)
		return "", s.collector.ReportAndSave(arityMismatch)
	}

	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		rendered, err := s.resolveExpr(arg)
		if err != nil {
			return "", err
		}
		args[i] = rendered
	}

	s.result.Calls[call] = symbol
	return fmt.Sprintf("%s%d(%s)", name, symbol.Level, strings.Join(args, ", ")), nil
}

func (s *sema) resolveExpr(expr ast.Expr) (string, error) {
	switch n := expr.(type) {
	case *ast.BinaryOp:
		left, err := s.resolveExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := s.resolveExpr(n.Right)
		if err != nil {
			return "", err
		}
		prec := precedence(n)
		if precedence(n.Left) < prec {
			left = "(" + left + ")"
		}
		if precedence(n.Right) <= prec {
			right = "(" + right + ")"
		}
		return fmt.Sprintf("%s %s %s", left, n.Op.Kind, right), nil
	case *ast.UnaryOp:
		operand, err := s.resolveExpr(n.Operand)
		if err != nil {
			return "", err
		}
		if _, ok := n.Operand.(*ast.BinaryOp); ok {
			operand = "(" + operand + ")"
		}
		return n.Op.Kind.String() + operand, nil
	case *ast.NumberLiteral:
		return n.Tok.Text(), nil
	case *ast.VarRef:
		return s.resolveVarRef(n)
	default:
		return "", fmt.Errorf("sema: unexpected expression %T", n)
	}
}

func (s *sema) resolveVarRef(ref *ast.VarRef) (string, error) {
	name := ref.Name()
	s.logger.Printf("Lookup: %s. (Scope name: %s)", name, s.current.Name)

	symbol, err := s.current.LookupAcrossScopes(name)
	if err != nil || symbol.Kind != ast.SYMBOL_VARIABLE {
		notFound := diagnostics.AtToken(
			diagnostics.ID_NOT_FOUND,
			ref.Tok,
			"identifier '%s' not found",
			name,
		)
		return "", s.collector.ReportAndSave(notFound)
	}

	s.result.Vars[ref] = symbol
	return fmt.Sprintf("<%s%d:%s>", name, symbol.Level, symbol.TypeName()), nil
}

func (s *sema) lookupType(ty *ast.TypeRef) (*ast.Symbol, error) {
	symbol, err := s.current.LookupAcrossScopes(ty.Name())
	if err != nil || symbol.Kind != ast.SYMBOL_BUILTIN_TYPE {
		notFound := diagnostics.AtToken(
			diagnostics.ID_NOT_FOUND,
			ty.Tok,
			"type '%s' not found",
			ty.Name(),
		)
		return nil, s.collector.ReportAndSave(notFound)
	}
	return symbol, nil
}

func (s *sema) duplicate(name *token.Token) error {
	duplicateId := diagnostics.AtToken(
		diagnostics.DUPLICATE_ID,
		name,
		"'%s' already declared in this scope",
		name.Name(),
	)
	return s.collector.ReportAndSave(duplicateId)
}

func (s *sema) insert(symbol *ast.Symbol) {
	s.logger.Printf("Insert: %s", symbol.Name)
	// Callers check LookupCurrentScope first, so Insert cannot collide here.
	_ = s.current.Insert(symbol)
}

func (s *sema) enterScope(name string) *ast.Scope {
	s.logger.Printf("ENTER scope: %s", name)
	s.current = ast.NewScope(name, s.current)
	return s.current
}

func (s *sema) leaveScope() {
	s.logger.Print(s.current)
	s.logger.Printf("LEAVE scope: %s", s.current.Name)
	s.current = s.current.Parent
}

func (s *sema) line(indent int, format string, args ...any) {
	s.out.WriteString(strings.Repeat(indentUnit, indent))
	fmt.Fprintf(&s.out, format, args...)
	s.out.WriteByte('\n')
}

func precedence(expr ast.Expr) int {
	binOp, ok := expr.(*ast.BinaryOp)
	if !ok {
		return 3
	}
	if _, ok := ast.TERM[binOp.Op.Kind]; ok {
		return 1
	}
	return 2
}
