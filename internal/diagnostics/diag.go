package diagnostics

import (
	"errors"
	"fmt"

	"github.com/HicaroD/spi/internal/lexer/token"
)

type Code int

const (
	LEXICAL_ERROR Code = iota
	PARSE_ERROR
	DUPLICATE_ID
	ID_NOT_FOUND
	UNBOUND_VARIABLE
	ARITY_MISMATCH
	TYPE_MISMATCH
	DIVISION_BY_ZERO
	INTEGER_OVERFLOW
	STACK_OVERFLOW
)

var (
	ErrLexical             = errors.New("lexical error")
	ErrParse               = errors.New("parse error")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrUndefinedIdentifier = errors.New("undefined identifier")
	ErrUnboundVariable     = errors.New("unbound variable")
	ErrArityMismatch       = errors.New("arity mismatch")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrIntegerOverflow     = errors.New("integer overflow")
	ErrStackOverflow       = errors.New("stack overflow")
)

func (code Code) Sentinel() error {
	switch code {
	case LEXICAL_ERROR:
		return ErrLexical
	case PARSE_ERROR:
		return ErrParse
	case DUPLICATE_ID:
		return ErrDuplicateIdentifier
	case ID_NOT_FOUND:
		return ErrUndefinedIdentifier
	case UNBOUND_VARIABLE:
		return ErrUnboundVariable
	case ARITY_MISMATCH:
		return ErrArityMismatch
	case TYPE_MISMATCH:
		return ErrTypeMismatch
	case DIVISION_BY_ZERO:
		return ErrDivisionByZero
	case INTEGER_OVERFLOW:
		return ErrIntegerOverflow
	case STACK_OVERFLOW:
		return ErrStackOverflow
	}
	return nil
}

func (code Code) String() string {
	if err := code.Sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Code(%d)", int(code))
}

// Diag is a single reported problem. Tok is nil when the problem has no
// originating token (end of input, runtime errors on literals).
type Diag struct {
	Code    Code
	Pos     token.Pos
	Tok     *token.Token
	Message string
}

func NewDiag(code Code, pos token.Pos, format string, args ...any) *Diag {
	return &Diag{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func AtToken(code Code, tok *token.Token, format string, args ...any) *Diag {
	diag := NewDiag(code, tok.Pos, format, args...)
	diag.Tok = tok
	return diag
}

func (diag *Diag) Error() string {
	return fmt.Sprintf(
		"%s:%d:%d: %s: %s",
		diag.Pos.Filename,
		diag.Pos.Line,
		diag.Pos.Column,
		diag.Code,
		diag.Message,
	)
}

func (diag *Diag) Unwrap() error {
	return diag.Code.Sentinel()
}
