package lexer

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"
	"unicode/utf8"

	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/lexer/token"
)

const eof = '\000'

const UNTERMINATED_COMMENT = "unterminated comment"

type Lexer struct {
	Collector *diagnostics.Collector

	src    []byte
	offset int
	pos    token.Pos
}

func New(filename string, src []byte, collector *diagnostics.Collector) *Lexer {
	lexer := new(Lexer)

	if collector == nil {
		collector = diagnostics.New()
	}
	lexer.Collector = collector
	lexer.pos = token.NewPosition(filename, 1, 1)
	lexer.src = src
	lexer.offset = 0

	return lexer
}

func NewFromFilePath(path string, collector *diagnostics.Collector) (*Lexer, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return New(filepath.Base(path), src, collector), nil
}

func (lex *Lexer) Filename() string { return lex.pos.Filename }

// Next returns the next token. Once the input is exhausted every call returns
// an EOF token positioned right after the last character.
func (lex *Lexer) Next() (*token.Token, error) {
	if err := lex.skipWhitespaceAndComments(); err != nil {
		return nil, err
	}

	tok := &token.Token{Kind: token.INVALID}

	if lex.offset >= len(lex.src) {
		lex.consumeTokenNoLex(tok, token.EOF)
		return tok, nil
	}

	return lex.getToken(tok, lex.peekChar())
}

// Useful for testing
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	var tokens []*token.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, nil
}

func (lex *Lexer) getToken(tok *token.Token, ch byte) (*token.Token, error) {
	switch ch {
	case '(':
		lex.consumeTokenNoLex(tok, token.OPEN_PAREN)
		lex.nextChar()
	case ')':
		lex.consumeTokenNoLex(tok, token.CLOSE_PAREN)
		lex.nextChar()
	case ';':
		lex.consumeTokenNoLex(tok, token.SEMICOLON)
		lex.nextChar()
	case '.':
		lex.consumeTokenNoLex(tok, token.DOT)
		lex.nextChar()
	case ',':
		lex.consumeTokenNoLex(tok, token.COMMA)
		lex.nextChar()
	case '+':
		lex.consumeTokenNoLex(tok, token.PLUS)
		lex.nextChar()
	case '-':
		lex.consumeTokenNoLex(tok, token.MINUS)
		lex.nextChar()
	case '*':
		lex.consumeTokenNoLex(tok, token.STAR)
		lex.nextChar()
	case '/':
		lex.consumeTokenNoLex(tok, token.SLASH)
		lex.nextChar()
	case ':':
		lex.consumeTokenNoLex(tok, token.COLON)
		lex.nextChar() // :

		if lex.peekChar() == '=' {
			lex.nextChar() // =
			tok.Kind = token.ASSIGN
		}
	default:
		if isLetter(ch) || ch == '_' {
			lex.getIdOrKeyword(tok)
		} else if isDigit(ch) {
			lex.getNumberLit(tok)
		} else {
			r, _ := utf8.DecodeRune(lex.src[lex.offset:])
			invalidCharacter := diagnostics.NewDiag(
				diagnostics.LEXICAL_ERROR,
				lex.pos,
				"invalid character %q",
				r,
			)
			return nil, lex.Collector.ReportAndSave(invalidCharacter)
		}
	}
	return tok, nil
}

func (lex *Lexer) getNumberLit(tok *token.Token) {
	tok.Pos = lex.pos
	start := lex.offset

	lex.readWhile(isDigit)
	tok.Kind = token.INTEGER_CONST

	// "12." is the integer 12 followed by a dot, a fraction needs a digit
	if lex.peekChar() == '.' && isDigit(lex.peekCharAt(1)) {
		lex.nextChar() // .
		lex.readWhile(isDigit)
		tok.Kind = token.REAL_CONST
	}

	tok.Lexeme = lex.src[start:lex.offset]
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	tok.Pos = lex.pos
	identifier := lex.readWhile(
		func(chr byte) bool { return isLetter(chr) || isDigit(chr) || chr == '_' },
	)
	tok.Kind = token.ID
	tok.Lexeme = identifier
	keyword, ok := token.LookupKeyword(string(identifier))
	if ok {
		tok.Kind = keyword
	}
}

func (lex *Lexer) consumeTokenNoLex(tok *token.Token, kind token.Kind) {
	tok.Lexeme = nil
	tok.Kind = kind
	tok.Pos = lex.pos
}

func (lex *Lexer) skipWhitespaceAndComments() error {
	for {
		lex.readWhile(func(ch byte) bool {
			return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
		})
		if lex.peekChar() != '{' {
			return nil
		}

		open := lex.pos
		lex.nextChar() // {
		lex.readWhile(func(ch byte) bool { return ch != '}' })
		if lex.peekChar() != '}' {
			unterminatedComment := diagnostics.NewDiag(
				diagnostics.LEXICAL_ERROR,
				open,
				UNTERMINATED_COMMENT,
			)
			return lex.Collector.ReportAndSave(unterminatedComment)
		}
		lex.nextChar() // }
	}
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	var start, end int
	start = lex.offset

	for {
		character := lex.peekChar()
		if character == eof {
			break
		}

		if isValid(character) {
			lex.nextChar()
		} else {
			break
		}
	}

	end = lex.offset

	return lex.src[start:end]
}

func (lex *Lexer) nextChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	lex.pos.Move(character)
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	return lex.peekCharAt(0)
}

func (lex *Lexer) peekCharAt(n int) byte {
	if lex.offset+n >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset+n]
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isLetter(ch byte) bool { return ch < unicode.MaxASCII && unicode.IsLetter(rune(ch)) }
