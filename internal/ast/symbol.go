package ast

import (
	"fmt"
	"strings"

	"github.com/HicaroD/spi/internal/lexer/token"
)

type SymbolKind int

const (
	SYMBOL_BUILTIN_TYPE SymbolKind = iota
	SYMBOL_VARIABLE
	SYMBOL_PROCEDURE
)

func (kind SymbolKind) String() string {
	switch kind {
	case SYMBOL_BUILTIN_TYPE:
		return "BuiltinTypeSymbol"
	case SYMBOL_VARIABLE:
		return "VarSymbol"
	case SYMBOL_PROCEDURE:
		return "ProcedureSymbol"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(kind))
}

type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is the declared type of a variable, nil otherwise.
	Type *Symbol
	// Level is set by Scope.Insert to the level of the declaring scope.
	Level int
	// Tok is the declaring token, nil for builtin types.
	Tok *token.Token

	// Procedures only
	Params []*Symbol
	Decl   *ProcedureDecl
}

func NewBuiltinType(name string) *Symbol {
	return &Symbol{Name: name, Kind: SYMBOL_BUILTIN_TYPE}
}

func NewVariable(tok *token.Token, ty *Symbol) *Symbol {
	return &Symbol{Name: tok.Name(), Kind: SYMBOL_VARIABLE, Type: ty, Tok: tok}
}

func NewProcedure(decl *ProcedureDecl) *Symbol {
	return &Symbol{Name: decl.Name.Name(), Kind: SYMBOL_PROCEDURE, Tok: decl.Name, Decl: decl}
}

func (symbol *Symbol) TypeName() string {
	if symbol.Type == nil {
		return ""
	}
	return symbol.Type.Name
}

func (symbol *Symbol) String() string {
	switch symbol.Kind {
	case SYMBOL_BUILTIN_TYPE:
		return fmt.Sprintf("<%s(name='%s')>", symbol.Kind, symbol.Name)
	case SYMBOL_VARIABLE:
		return fmt.Sprintf("<%s(name='%s', type='%s')>", symbol.Kind, symbol.Name, symbol.TypeName())
	case SYMBOL_PROCEDURE:
		params := make([]string, len(symbol.Params))
		for i, param := range symbol.Params {
			params[i] = param.String()
		}
		return fmt.Sprintf("<%s(name='%s', parameters=[%s])>", symbol.Kind, symbol.Name, strings.Join(params, ", "))
	}
	return symbol.Name
}
