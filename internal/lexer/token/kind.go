package token

import (
	"fmt"
	"strings"
)

type Kind int

const (
	// EOF
	EOF Kind = iota
	INVALID

	// Identifier
	ID

	// Literals
	INTEGER_CONST
	REAL_CONST

	// Keywords
	PROGRAM
	VAR
	PROCEDURE
	BEGIN
	END
	INTEGER_DIV // div

	// Types
	INTEGER // integer
	REAL    // real

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN

	// ;
	SEMICOLON
	// .
	DOT
	// :
	COLON
	// ,
	COMMA
	// :=
	ASSIGN

	// +
	PLUS
	// -
	MINUS
	// *
	STAR
	// /
	SLASH
)

// KEYWORDS is keyed by the upper-case spelling, lookups must fold case first.
var KEYWORDS map[string]Kind = map[string]Kind{
	"PROGRAM":   PROGRAM,
	"VAR":       VAR,
	"PROCEDURE": PROCEDURE,
	"BEGIN":     BEGIN,
	"END":       END,
	"DIV":       INTEGER_DIV,
	"INTEGER":   INTEGER,
	"REAL":      REAL,
}

var BASIC_TYPES map[Kind]bool = map[Kind]bool{
	INTEGER: true,
	REAL:    true,
}

var LITERAL_KIND map[Kind]bool = map[Kind]bool{
	INTEGER_CONST: true,
	REAL_CONST:    true,
}

func LookupKeyword(ident string) (Kind, bool) {
	kind, ok := KEYWORDS[strings.ToUpper(ident)]
	return kind, ok
}

func (kind Kind) IsBasicType() bool {
	_, ok := BASIC_TYPES[kind]
	return ok
}

func (kind Kind) IsLiteral() bool {
	_, ok := LITERAL_KIND[kind]
	return ok
}

func (kind Kind) IsKeyword() bool {
	return kind >= PROGRAM && kind <= REAL
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "end of file"
	case INVALID:
		return "INVALID"
	case ID:
		return "identifier"
	case INTEGER_CONST:
		return "integer constant"
	case REAL_CONST:
		return "real constant"
	case PROGRAM:
		return "PROGRAM"
	case VAR:
		return "VAR"
	case PROCEDURE:
		return "PROCEDURE"
	case BEGIN:
		return "BEGIN"
	case END:
		return "END"
	case INTEGER_DIV:
		return "DIV"
	case INTEGER:
		return "INTEGER"
	case REAL:
		return "REAL"
	case OPEN_PAREN:
		return "("
	case CLOSE_PAREN:
		return ")"
	case SEMICOLON:
		return ";"
	case DOT:
		return "."
	case COLON:
		return ":"
	case COMMA:
		return ","
	case ASSIGN:
		return ":="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}
