package ast

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE = errors.New("symbol already defined on scope")
	ERR_SYMBOL_NOT_FOUND_ON_SCOPE       = errors.New("symbol not found on scope")
)

// Scope is one level of the lexical scope tree. Level 1 is the program scope.
type Scope struct {
	Name   string
	Level  int
	Parent *Scope

	symbols map[string]*Symbol
	order   []string
}

func NewScope(name string, parent *Scope) *Scope {
	level := 1
	if parent != nil {
		level = parent.Level + 1
	}
	return &Scope{Name: name, Level: level, Parent: parent, symbols: make(map[string]*Symbol)}
}

func (scope *Scope) Insert(symbol *Symbol) error {
	if _, ok := scope.symbols[symbol.Name]; ok {
		return ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE
	}
	symbol.Level = scope.Level
	scope.symbols[symbol.Name] = symbol
	scope.order = append(scope.order, symbol.Name)
	return nil
}

func (scope *Scope) LookupCurrentScope(name string) (*Symbol, error) {
	if symbol, ok := scope.symbols[name]; ok {
		return symbol, nil
	}
	return nil, ERR_SYMBOL_NOT_FOUND_ON_SCOPE
}

func (scope *Scope) LookupAcrossScopes(name string) (*Symbol, error) {
	for current := scope; current != nil; current = current.Parent {
		if symbol, ok := current.symbols[name]; ok {
			return symbol, nil
		}
	}
	return nil, ERR_SYMBOL_NOT_FOUND_ON_SCOPE
}

// Symbols returns the symbols of this scope only, in insertion order.
func (scope *Scope) Symbols() []*Symbol {
	symbols := make([]*Symbol, 0, len(scope.order))
	for _, name := range scope.order {
		symbols = append(symbols, scope.symbols[name])
	}
	return symbols
}

func (scope *Scope) String() string {
	var b strings.Builder

	header := "SCOPE (SCOPED SYMBOL TABLE)"
	fmt.Fprintf(&b, "%s\n%s\n", header, strings.Repeat("=", len(header)))
	fmt.Fprintf(&b, "%-15s: %s\n", "Scope name", scope.Name)
	fmt.Fprintf(&b, "%-15s: %d\n", "Scope level", scope.Level)
	enclosing := "None"
	if scope.Parent != nil {
		enclosing = scope.Parent.Name
	}
	fmt.Fprintf(&b, "%-15s: %s\n", "Enclosing scope", enclosing)

	contents := "Scope (Scoped symbol table) contents"
	fmt.Fprintf(&b, "%s\n%s\n", contents, strings.Repeat("-", len(contents)))
	for _, symbol := range scope.Symbols() {
		fmt.Fprintf(&b, "%8s: %s\n", symbol.Name, symbol)
	}
	return b.String()
}
