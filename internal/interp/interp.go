package interp

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/HicaroD/spi/internal/ast"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/lexer/token"
	"github.com/HicaroD/spi/internal/sema"
)

// DEFAULT_MAX_DEPTH bounds the number of live activation records.
const DEFAULT_MAX_DEPTH = 1000

type Interpreter struct {
	collector *diagnostics.Collector
	logger    *log.Logger

	// MaxDepth is the deepest the call stack may grow, the program record
	// included.
	MaxDepth int

	stack  *CallStack
	result *sema.Result

	// OnReturn, if set, receives every activation record right before it is
	// popped.
	OnReturn func(*ActivationRecord)
}

// New returns an interpreter. A nil logger keeps the call stack log silent.
func New(collector *diagnostics.Collector, logger *log.Logger) *Interpreter {
	if collector == nil {
		collector = diagnostics.New()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Interpreter{collector: collector, logger: logger, MaxDepth: DEFAULT_MAX_DEPTH}
}

// Evaluate resolves and runs program, returning the final bindings of the
// program frame.
func Evaluate(program *ast.Program) (Bindings, error) {
	return New(nil, nil).Run(program, nil)
}

// Run executes program using the side tables in result. A nil result means
// the program is resolved first, nothing runs if that fails.
func (i *Interpreter) Run(program *ast.Program, result *sema.Result) (Bindings, error) {
	if result == nil {
		var err error
		result, err = sema.New(i.collector, nil).Resolve(program)
		if err != nil {
			return nil, err
		}
	}
	i.result = result
	i.stack = NewCallStack()

	name := program.Name.Name()
	record := NewActivationRecord(name, RECORD_PROGRAM, 1, nil)
	i.push(record)
	defer i.pop()

	if err := i.visitBlock(program.Block); err != nil {
		return nil, err
	}

	bindings := record.Bindings()
	i.leave(record)
	return bindings, nil
}

func (i *Interpreter) visitBlock(block *ast.Block) error {
	return i.visitStmt(block.Body)
}

func (i *Interpreter) visitStmt(stmt ast.Stmt) error {
	switch n := stmt.(type) {
	case *ast.Compound:
		for _, child := range n.Children {
			if err := i.visitStmt(child); err != nil {
				return err
			}
		}
		return nil
	case *ast.Assign:
		value, err := i.visitExpr(n.Right)
		if err != nil {
			return err
		}
		record, symbol, err := i.owner(n.Left)
		if err != nil {
			return err
		}
		record.Set(symbol.Name, value)
		return nil
	case *ast.ProcedureCall:
		return i.visitProcedureCall(n)
	case *ast.NoOp:
		return nil
	default:
		return fmt.Errorf("interp: unexpected statement %T", n)
	}
}

func (i *Interpreter) visitProcedureCall(call *ast.ProcedureCall) error {
	symbol, ok := i.result.Calls[call]
	if !ok {
		return fmt.Errorf("interp: call to '%s' at %s was not resolved", call.Name.Name(), call.Name.Pos)
	}

	if len(call.Args) != len(symbol.Params) {
		arityMismatch := diagnostics.AtToken(
			diagnostics.ARITY_MISMATCH,
			call.Name,
			"procedure '%s' expects %d argument(s), got %d",
			symbol.Name,
			len(symbol.Params),
			len(call.Args),
		)
		return i.collector.ReportAndSave(arityMismatch)
	}

	args := make([]Value, len(call.Args))
	for idx, arg := range call.Args {
		value, err := i.visitExpr(arg)
		if err != nil {
			return err
		}
		args[idx] = value
	}

	if i.stack.Len() >= i.MaxDepth {
		stackOverflow := diagnostics.AtToken(
			diagnostics.STACK_OVERFLOW,
			call.Name,
			"call to '%s' exceeds the maximum call depth of %d",
			symbol.Name,
			i.MaxDepth,
		)
		return i.collector.ReportAndSave(stackOverflow)
	}

	// The callee's enclosing routine is the one that declared it.
	staticLink := i.stack.Peek().Enclosing(symbol.Level)
	record := NewActivationRecord(symbol.Name, RECORD_PROCEDURE, symbol.Level+1, staticLink)
	for idx, param := range symbol.Params {
		record.Set(param.Name, args[idx])
	}

	i.push(record)
	defer i.pop()

	if err := i.visitBlock(symbol.Decl.Block); err != nil {
		return err
	}
	i.leave(record)
	return nil
}

func (i *Interpreter) visitExpr(expr ast.Expr) (Value, error) {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		if n.IsReal {
			return RealValue(n.Real), nil
		}
		return IntValue(n.Int), nil
	case *ast.VarRef:
		record, symbol, err := i.owner(n)
		if err != nil {
			return Value{}, err
		}
		value, ok := record.Get(symbol.Name)
		if !ok {
			unbound := diagnostics.AtToken(
				diagnostics.UNBOUND_VARIABLE,
				n.Tok,
				"variable '%s' used before assignment",
				symbol.Name,
			)
			return Value{}, i.collector.ReportAndSave(unbound)
		}
		return value, nil
	case *ast.UnaryOp:
		operand, err := i.visitExpr(n.Operand)
		if err != nil {
			return Value{}, err
		}
		if n.Op.Kind == token.MINUS {
			return i.negate(n.Op, operand)
		}
		return operand, nil
	case *ast.BinaryOp:
		left, err := i.visitExpr(n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := i.visitExpr(n.Right)
		if err != nil {
			return Value{}, err
		}
		return i.binary(n.Op, left, right)
	default:
		return Value{}, fmt.Errorf("interp: unexpected expression %T", n)
	}
}

func (i *Interpreter) binary(op *token.Token, left, right Value) (Value, error) {
	bothInt := !left.IsReal && !right.IsReal

	switch op.Kind {
	case token.PLUS:
		if bothInt {
			sum := left.Int + right.Int
			if (left.Int > 0 && right.Int > 0 && sum < 0) || (left.Int < 0 && right.Int < 0 && sum >= 0) {
				return Value{}, i.overflow(op, left, right)
			}
			return IntValue(sum), nil
		}
		return RealValue(left.Float() + right.Float()), nil
	case token.MINUS:
		if bothInt {
			diff := left.Int - right.Int
			if (left.Int >= 0 && right.Int < 0 && diff < 0) || (left.Int < 0 && right.Int > 0 && diff >= 0) {
				return Value{}, i.overflow(op, left, right)
			}
			return IntValue(diff), nil
		}
		return RealValue(left.Float() - right.Float()), nil
	case token.STAR:
		if bothInt {
			product := left.Int * right.Int
			if left.Int != 0 && right.Int != 0 &&
				(product/right.Int != left.Int ||
					(left.Int == -1 && right.Int == math.MinInt64) ||
					(right.Int == -1 && left.Int == math.MinInt64)) {
				return Value{}, i.overflow(op, left, right)
			}
			return IntValue(product), nil
		}
		return RealValue(left.Float() * right.Float()), nil
	case token.INTEGER_DIV:
		if !bothInt {
			typeMismatch := diagnostics.AtToken(
				diagnostics.TYPE_MISMATCH,
				op,
				"DIV expects two integers, got %s and %s",
				typeName(left),
				typeName(right),
			)
			return Value{}, i.collector.ReportAndSave(typeMismatch)
		}
		if right.Int == 0 {
			return Value{}, i.divisionByZero(op)
		}
		if left.Int == math.MinInt64 && right.Int == -1 {
			return Value{}, i.overflow(op, left, right)
		}
		return IntValue(left.Int / right.Int), nil
	case token.SLASH:
		if right.IsZero() {
			return Value{}, i.divisionByZero(op)
		}
		return RealValue(left.Float() / right.Float()), nil
	}
	return Value{}, fmt.Errorf("interp: unexpected operator %s", op.Kind)
}

func (i *Interpreter) overflow(op *token.Token, left, right Value) error {
	overflow := diagnostics.AtToken(
		diagnostics.INTEGER_OVERFLOW,
		op,
		"%s %s %s does not fit in an integer",
		left,
		op.Kind,
		right,
	)
	return i.collector.ReportAndSave(overflow)
}

func (i *Interpreter) divisionByZero(op *token.Token) error {
	divByZero := diagnostics.AtToken(diagnostics.DIVISION_BY_ZERO, op, "division by zero")
	return i.collector.ReportAndSave(divByZero)
}

// owner returns the record that holds ref along with its symbol.
func (i *Interpreter) owner(ref *ast.VarRef) (*ActivationRecord, *ast.Symbol, error) {
	symbol, ok := i.result.Vars[ref]
	if !ok {
		return nil, nil, fmt.Errorf("interp: '%s' at %s was not resolved", ref.Name(), ref.Tok.Pos)
	}
	record := i.stack.Peek().Enclosing(symbol.Level)
	if record == nil {
		return nil, nil, fmt.Errorf("interp: no frame at level %d for '%s'", symbol.Level, symbol.Name)
	}
	return record, symbol, nil
}

func (i *Interpreter) push(record *ActivationRecord) {
	i.logger.Printf("ENTER: %s %s", record.Kind, record.Name)
	i.stack.Push(record)
	i.logger.Print(i.stack)
}

// leave runs before a record is popped on normal completion.
func (i *Interpreter) leave(record *ActivationRecord) {
	i.logger.Printf("LEAVE: %s %s", record.Kind, record.Name)
	i.logger.Print(i.stack)
	if i.OnReturn != nil {
		i.OnReturn(record)
	}
}

func (i *Interpreter) pop() {
	i.stack.Pop()
}

func (i *Interpreter) negate(op *token.Token, v Value) (Value, error) {
	if v.IsReal {
		return RealValue(-v.Real), nil
	}
	if v.Int == math.MinInt64 {
		overflow := diagnostics.AtToken(
			diagnostics.INTEGER_OVERFLOW,
			op,
			"-(%s) does not fit in an integer",
			v,
		)
		return Value{}, i.collector.ReportAndSave(overflow)
	}
	return IntValue(-v.Int), nil
}

func typeName(v Value) string {
	if v.IsReal {
		return token.REAL.String()
	}
	return token.INTEGER.String()
}
