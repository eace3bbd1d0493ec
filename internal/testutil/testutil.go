package testutil

import (
	"os"

	"github.com/HicaroD/spi/internal/ast"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/interp"
	"github.com/HicaroD/spi/internal/lexer"
	"github.com/HicaroD/spi/internal/parser"
	"github.com/HicaroD/spi/internal/sema"
)

const DefaultFilename = "test.pas"

func NewLexerWithCollector(src []byte, filename string) (*lexer.Lexer, *diagnostics.Collector) {
	if filename == "" {
		filename = DefaultFilename
	}
	collector := diagnostics.New()
	return lexer.New(filename, src, collector), collector
}

// Run is the outcome of pushing one source file through the whole pipeline.
// Fields after the failing stage are left nil.
type Run struct {
	Program   *ast.Program
	Result    *sema.Result
	Bindings  interp.Bindings
	Collector *diagnostics.Collector
}

// RunFile parses, resolves and evaluates the program at path.
func RunFile(path string) (*Run, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return RunSource(path, src)
}

func RunSource(filename string, src []byte) (*Run, error) {
	lex, collector := NewLexerWithCollector(src, filename)
	run := &Run{Collector: collector}

	program, err := parser.New(lex, collector).Parse()
	if err != nil {
		return run, err
	}
	run.Program = program

	result, err := sema.New(collector, nil).Resolve(program)
	if err != nil {
		return run, err
	}
	run.Result = result

	bindings, err := interp.New(collector, nil).Run(program, result)
	if err != nil {
		return run, err
	}
	run.Bindings = bindings
	return run, nil
}
