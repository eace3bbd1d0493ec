package token

import "fmt"

type Token struct {
	Lexeme []byte
	Kind   Kind
	Pos    Pos
}

func New(lexeme []byte, kind Kind, position Pos) *Token {
	return &Token{Lexeme: lexeme, Kind: kind, Pos: position}
}

func (token *Token) Name() string {
	if token.Kind == ID {
		return string(token.Lexeme)
	}
	return token.Kind.String()
}

// Text returns the source spelling of the token. Keywords come back in their
// canonical upper-case form, EOF has no spelling.
func (token *Token) Text() string {
	switch token.Kind {
	case ID, INTEGER_CONST, REAL_CONST:
		return string(token.Lexeme)
	case EOF, INVALID:
		return ""
	}
	return token.Kind.String()
}

func (token *Token) String() string {
	return fmt.Sprintf("%s | %s | %s", string(token.Lexeme), token.Kind, token.Pos)
}
