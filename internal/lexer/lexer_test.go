package lexer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/lexer/token"
)

type tokenKindTest struct {
	lexeme string
	kind   token.Kind
}

func TestTokenKinds(t *testing.T) {
	filename := "test.pas"

	tests := []*tokenKindTest{
		{"program", token.PROGRAM},
		{"PROGRAM", token.PROGRAM},
		{"Program", token.PROGRAM},
		{"var", token.VAR},
		{"procedure", token.PROCEDURE},
		{"begin", token.BEGIN},
		{"BEGIN", token.BEGIN},
		{"end", token.END},
		{"div", token.INTEGER_DIV},
		{"DIV", token.INTEGER_DIV},
		{"integer", token.INTEGER},
		{"real", token.REAL},
		{"Real", token.REAL},

		{"counter", token.ID},
		{"_tmp1", token.ID},
		{"x2y", token.ID},

		{"42", token.INTEGER_CONST},
		{"3.14", token.REAL_CONST},

		{"(", token.OPEN_PAREN},
		{")", token.CLOSE_PAREN},
		{";", token.SEMICOLON},
		{".", token.DOT},
		{":", token.COLON},
		{",", token.COMMA},
		{":=", token.ASSIGN},
		{"+", token.PLUS},
		{"-", token.MINUS},
		{"*", token.STAR},
		{"/", token.SLASH},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenKind(%q)", test.lexeme), func(t *testing.T) {
			lex := New(filename, []byte(test.lexeme), diagnostics.New())

			tokenResult, err := lex.Tokenize()
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}

			if len(tokenResult) != 2 {
				t.Fatalf("expected len(tokenResult) == 2, but got %d", len(tokenResult))
			}
			if tokenResult[1].Kind != token.EOF {
				t.Errorf("expected last token to be EOF, but got %q", tokenResult[1].Kind)
			}
			if tokenResult[0].Kind != test.kind {
				t.Errorf("expected token to be %q, but got %q", test.kind, tokenResult[0].Kind)
			}
		})
	}
}

func TestIdentifierKeepsCase(t *testing.T) {
	lex := New("test.pas", []byte("MyVar myvar"), nil)

	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Name() != "MyVar" || tokens[1].Name() != "myvar" {
		t.Errorf("expected identifiers to keep their case, got %q and %q", tokens[0].Name(), tokens[1].Name())
	}
}

func TestNumberLexemes(t *testing.T) {
	tests := []struct {
		input  string
		kinds  []token.Kind
		lexeme []string
	}{
		{"123", []token.Kind{token.INTEGER_CONST}, []string{"123"}},
		{"12.3", []token.Kind{token.REAL_CONST}, []string{"12.3"}},
		{"0.5", []token.Kind{token.REAL_CONST}, []string{"0.5"}},
		{"12.", []token.Kind{token.INTEGER_CONST, token.DOT}, []string{"12", "."}},
		{"1.2.3", []token.Kind{token.REAL_CONST, token.DOT, token.INTEGER_CONST}, []string{"1.2", ".", "3"}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestNumberLexemes(%q)", test.input), func(t *testing.T) {
			tokens, err := New("test.pas", []byte(test.input), nil).Tokenize()
			if err != nil {
				t.Fatal(err)
			}
			tokens = tokens[:len(tokens)-1] // eof
			if len(tokens) != len(test.kinds) {
				t.Fatalf("expected %d tokens, got %d: %v", len(test.kinds), len(tokens), tokens)
			}
			for i, tok := range tokens {
				if tok.Kind != test.kinds[i] {
					t.Errorf("token %d: expected %s, got %s", i, test.kinds[i], tok.Kind)
				}
				if tok.Text() != test.lexeme[i] {
					t.Errorf("token %d: expected %q, got %q", i, test.lexeme[i], tok.Text())
				}
			}
		})
	}
}

type tokenPosTest struct {
	input     string
	positions []token.Pos
}

func TestTokenPos(t *testing.T) {
	filename := "test.pas"

	tests := []*tokenPosTest{
		{";", []token.Pos{
			{Filename: "test.pas", Line: 1, Column: 1},  // ;
			{Filename: "test.pas", Line: 1, Column: 2}}, // eof
		},
		{";\n;", []token.Pos{
			{Filename: "test.pas", Line: 1, Column: 1},  // ;
			{Filename: "test.pas", Line: 2, Column: 1},  // ;
			{Filename: "test.pas", Line: 2, Column: 2}}, // eof
		},
		{"program Main;\n  x := 10", []token.Pos{
			{Filename: "test.pas", Line: 1, Column: 1},   // program
			{Filename: "test.pas", Line: 1, Column: 9},   // Main
			{Filename: "test.pas", Line: 1, Column: 13},  // ;
			{Filename: "test.pas", Line: 2, Column: 3},   // x
			{Filename: "test.pas", Line: 2, Column: 5},   // :=
			{Filename: "test.pas", Line: 2, Column: 8},   // 10
			{Filename: "test.pas", Line: 2, Column: 10}}, // eof
		},
		{"{ a comment }\nbegin", []token.Pos{
			{Filename: "test.pas", Line: 2, Column: 1},  // begin
			{Filename: "test.pas", Line: 2, Column: 6}}, // eof
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenPos(%q)", test.input), func(t *testing.T) {
			lex := New(filename, []byte(test.input), diagnostics.New())

			tokenResult, err := lex.Tokenize()
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}

			if len(tokenResult) != len(test.positions) {
				t.Fatalf("expected %d tokens, got %d", len(test.positions), len(tokenResult))
			}

			for i, tok := range tokenResult {
				if tok.Pos != test.positions[i] {
					t.Errorf("token %d (%s): expected position %s, got %s", i, tok.Kind, test.positions[i], tok.Pos)
				}
			}
		})
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	src := "begin { Main } x := 1 {another\nmultiline comment} end"

	tokens, err := New("test.pas", []byte(src), nil).Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	expected := []token.Kind{token.BEGIN, token.ID, token.ASSIGN, token.INTEGER_CONST, token.END, token.EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %s, got %s", i, expected[i], tok.Kind)
		}
	}
}

func TestEOFIsIdempotent(t *testing.T) {
	lex := New("test.pas", []byte("x"), nil)

	if _, err := lex.Next(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		tok, err := lex.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Kind != token.EOF {
			t.Fatalf("call %d: expected EOF, got %s", i, tok.Kind)
		}
		if tok.Pos.Column != 2 {
			t.Errorf("call %d: expected EOF at column 2, got %d", i, tok.Pos.Column)
		}
	}
}

func TestInvalidCharacter(t *testing.T) {
	tests := []struct {
		input  string
		line   int
		column int
		char   string
	}{
		{"&", 1, 1, "'&'"},
		{"x := 1 & 2", 1, 8, "'&'"},
		{"begin\n   x := y &\nend", 2, 11, "'&'"},
		{"a := 'b'", 1, 6, `'\''`},
		{"x := é", 1, 6, "'é'"},
		{"café := 1", 1, 4, "'é'"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestInvalidCharacter(%q)", test.input), func(t *testing.T) {
			collector := diagnostics.New()
			lex := New("test.pas", []byte(test.input), collector)

			_, err := lex.Tokenize()
			if err == nil {
				t.Fatal("expected lexical error, got nil")
			}
			if !errors.Is(err, diagnostics.ErrLexical) {
				t.Fatalf("expected lexical error, got %v", err)
			}

			var diag *diagnostics.Diag
			if !errors.As(err, &diag) {
				t.Fatalf("expected *diagnostics.Diag, got %T", err)
			}
			if diag.Pos.Line != test.line || diag.Pos.Column != test.column {
				t.Errorf("expected error at %d:%d, got %d:%d", test.line, test.column, diag.Pos.Line, diag.Pos.Column)
			}
			if want := "invalid character " + test.char; diag.Message != want {
				t.Errorf("expected message %q, got %q", want, diag.Message)
			}
			if len(collector.Diags) != 1 {
				t.Errorf("expected 1 saved diagnostic, got %d", len(collector.Diags))
			}
		})
	}
}

func TestUnterminatedComment(t *testing.T) {
	_, err := New("test.pas", []byte("begin { never closed"), nil).Tokenize()
	if !errors.Is(err, diagnostics.ErrLexical) {
		t.Fatalf("expected lexical error, got %v", err)
	}

	var diag *diagnostics.Diag
	errors.As(err, &diag)
	if diag.Pos.Column != 7 {
		t.Errorf("expected error at the opening brace (column 7), got column %d", diag.Pos.Column)
	}
}
