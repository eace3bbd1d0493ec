package sema

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/HicaroD/spi/internal/ast"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/parser"
)

func parseAndResolve(t *testing.T, src string) (*Result, *diagnostics.Collector, error) {
	t.Helper()

	program, err := parser.Parse("test.pas", []byte(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	collector := diagnostics.New()
	result, err := New(collector, nil).Resolve(program)
	return result, collector, err
}

func TestAnnotatedOutput(t *testing.T) {
	src := `program Main;
   var x : integer;

   procedure Alpha(a : integer; b : integer);
      var x : integer;
   begin
      x := (a + b ) * 2;
   end;

begin { Main }
   Alpha(3 + 5, 7);  { procedure call }
end.  { Main }`

	expected := `program Main0;
   var x1 : INTEGER;
   procedure Alpha1(a2 : INTEGER; b2 : INTEGER);
      var x2 : INTEGER;
      begin
         <x2:INTEGER> := (<a2:INTEGER> + <b2:INTEGER>) * 2;
      end; {END OF Alpha}
begin
   Alpha1(3 + 5, 7);
end. {END OF Main}
`

	result, _, err := parseAndResolve(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if result.Output != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, result.Output)
	}
}

func TestAnnotatedExpressions(t *testing.T) {
	tests := []struct {
		expr     string
		rendered string
	}{
		{"1 + 2 * 3", "1 + 2 * 3"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"1 - 2 - 3", "1 - 2 - 3"},
		{"y DIV 2", "<y1:REAL> DIV 2"},
		{"-(y + 1)", "-(<y1:REAL> + 1)"},
		{"-y / 2.50", "-<y1:REAL> / 2.50"},
	}

	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			result, _, err := parseAndResolve(t, "program P; var y : real; begin y := "+test.expr+" end.")
			if err != nil {
				t.Fatal(err)
			}
			want := "<y1:REAL> := " + test.rendered + ";"
			if !strings.Contains(result.Output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, result.Output)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    error
		line    int
		column  int
		message string
	}{
		{
			name:    "duplicate variable",
			src:     "program P;\nvar x : integer;\n    x : real;\nbegin end.",
			kind:    diagnostics.ErrDuplicateIdentifier,
			line:    3,
			column:  5,
			message: "'x' already declared",
		},
		{
			name:    "duplicate parameter",
			src:     "program P;\nprocedure A(a : integer; a : real);\nbegin end;\nbegin end.",
			kind:    diagnostics.ErrDuplicateIdentifier,
			line:    2,
			column:  26,
			message: "'a' already declared",
		},
		{
			name:    "variable clashes with procedure",
			src:     "program P;\nvar A : integer;\nprocedure A;\nbegin end;\nbegin end.",
			kind:    diagnostics.ErrDuplicateIdentifier,
			line:    3,
			column:  11,
			message: "'A' already declared",
		},
		{
			name:    "procedure clashes with later variable",
			src:     "program P;\nprocedure Alpha;\nbegin end;\nvar Alpha : integer;\nbegin end.",
			kind:    diagnostics.ErrDuplicateIdentifier,
			line:    4,
			column:  5,
			message: "'Alpha' already declared",
		},
		{
			name:    "local variable clashes with parameter",
			src:     "program P;\nprocedure A(n : integer);\nvar n : real;\nbegin end;\nbegin end.",
			kind:    diagnostics.ErrDuplicateIdentifier,
			line:    3,
			column:  5,
			message: "'n' already declared",
		},
		{
			name:    "undefined variable",
			src:     "program P;\nvar x : integer;\nbegin\n   x := y + 1\nend.",
			kind:    diagnostics.ErrUndefinedIdentifier,
			line:    4,
			column:  9,
			message: "'y' not found",
		},
		{
			name:    "undefined assignment target",
			src:     "program P;\nbegin\n   z := 1\nend.",
			kind:    diagnostics.ErrUndefinedIdentifier,
			line:    3,
			column:  4,
			message: "'z' not found",
		},
		{
			name:    "names are case sensitive",
			src:     "program P;\nvar x : integer;\nbegin\n   X := 1\nend.",
			kind:    diagnostics.ErrUndefinedIdentifier,
			line:    4,
			column:  4,
			message: "'X' not found",
		},
		{
			name:    "local is not visible outside its procedure",
			src:     "program P;\nprocedure A;\n   var local : integer;\nbegin end;\nbegin\n   local := 1\nend.",
			kind:    diagnostics.ErrUndefinedIdentifier,
			line:    6,
			column:  4,
			message: "'local' not found",
		},
		{
			name:    "undefined procedure",
			src:     "program P;\nbegin\n   Beta(1)\nend.",
			kind:    diagnostics.ErrUndefinedIdentifier,
			line:    3,
			column:  4,
			message: "procedure 'Beta' not found",
		},
		{
			name:    "variable called as procedure",
			src:     "program P;\nvar x : integer;\nbegin\n   x()\nend.",
			kind:    diagnostics.ErrUndefinedIdentifier,
			line:    4,
			column:  4,
			message: "procedure 'x' not found",
		},
		{
			name:    "procedure used as variable",
			src:     "program P;\nvar x : integer;\nprocedure A;\nbegin end;\nbegin\n   x := A\nend.",
			kind:    diagnostics.ErrUndefinedIdentifier,
			line:    6,
			column:  9,
			message: "identifier 'A' not found",
		},
		{
			name:    "too few arguments",
			src:     "program P;\nprocedure A(a, b : integer);\nbegin end;\nbegin\n   A(1)\nend.",
			kind:    diagnostics.ErrArityMismatch,
			line:    5,
			column:  4,
			message: "expects 2 argument(s), got 1",
		},
		{
			name:    "too many arguments",
			src:     "program P;\nprocedure A;\nbegin end;\nbegin\n   A(1, 2)\nend.",
			kind:    diagnostics.ErrArityMismatch,
			line:    5,
			column:  4,
			message: "expects 0 argument(s), got 2",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, collector, err := parseAndResolve(t, test.src)
			if err == nil {
				t.Fatalf("expected error, got output:\n%s", result.Output)
			}
			if result != nil {
				t.Errorf("expected no result on failure")
			}
			if !errors.Is(err, test.kind) {
				t.Fatalf("expected %v, got %v", test.kind, err)
			}

			var diag *diagnostics.Diag
			if !errors.As(err, &diag) {
				t.Fatalf("expected *diagnostics.Diag, got %T", err)
			}
			if diag.Pos.Line != test.line || diag.Pos.Column != test.column {
				t.Errorf("expected error at %d:%d, got %d:%d (%v)", test.line, test.column, diag.Pos.Line, diag.Pos.Column, err)
			}
			if !strings.Contains(diag.Message, test.message) {
				t.Errorf("expected message to contain %q, got %q", test.message, diag.Message)
			}
			if len(collector.Diags) != 1 {
				t.Errorf("expected resolution to stop at the first error, got %d diagnostics", len(collector.Diags))
			}
		})
	}
}

func TestShadowingAndOuterAccess(t *testing.T) {
	src := `program P;
var x, y : integer;
procedure A(x : real);
begin
   y := x
end;
begin
   x := 1
end.`

	result, _, err := parseAndResolve(t, src)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"procedure A1(x2 : REAL);",
		"<y1:INTEGER> := <x2:REAL>;",
		"<x1:INTEGER> := 1;",
	} {
		if !strings.Contains(result.Output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, result.Output)
		}
	}
}

func TestMutualRecursion(t *testing.T) {
	src := `program P;
var n : integer;
procedure Even(k : integer);
begin
   Odd(k - 1)
end;
procedure Odd(k : integer);
begin
   Even(k - 1)
end;
begin
   Even(4);
   Even(n)
end.`

	result, _, err := parseAndResolve(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Output, "Odd1(<k2:INTEGER> - 1);") {
		t.Errorf("expected Even to see Odd, got:\n%s", result.Output)
	}
	if len(result.Calls) != 4 {
		t.Errorf("expected 4 resolved calls, got %d", len(result.Calls))
	}
}

func TestSideTables(t *testing.T) {
	program, err := parser.Parse("test.pas", []byte(`program P;
var x : integer;
procedure A(a : integer);
   var x : real;
begin
   x := a
end;
begin
   A(x)
end.`))
	if err != nil {
		t.Fatal(err)
	}

	result, err := Resolve(program)
	if err != nil {
		t.Fatal(err)
	}

	proc := program.Block.Decls[1].(*ast.ProcedureDecl)
	inner := proc.Block.Body.Children[0].(*ast.Assign)
	if sym := result.Vars[inner.Left]; sym == nil || sym.Level != 2 || sym.TypeName() != "REAL" {
		t.Errorf("expected inner x to resolve to the level 2 REAL, got %v", sym)
	}
	if sym := result.Vars[inner.Right.(*ast.VarRef)]; sym == nil || sym.Level != 2 {
		t.Errorf("expected a to resolve to the level 2 parameter, got %v", sym)
	}

	call := program.Block.Body.Children[0].(*ast.ProcedureCall)
	procSym := result.Calls[call]
	if procSym == nil || procSym.Decl != proc || len(procSym.Params) != 1 {
		t.Fatalf("expected call to resolve to A with one parameter, got %v", procSym)
	}
	if sym := result.Vars[call.Args[0].(*ast.VarRef)]; sym == nil || sym.Level != 1 {
		t.Errorf("expected argument x to resolve to the level 1 variable, got %v", sym)
	}

	for _, name := range []string{"INTEGER", "REAL", "x", "A"} {
		if _, err := result.Global.LookupCurrentScope(name); err != nil {
			t.Errorf("expected %s in the global scope", name)
		}
	}
}

func TestScopeLogging(t *testing.T) {
	program, err := parser.Parse("test.pas", []byte("program P; var x : integer; procedure A; begin end; begin x := 1 end."))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := New(nil, log.New(&buf, "", 0)).Resolve(program); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"ENTER scope: global",
		"Insert: INTEGER",
		"Insert: x",
		"ENTER scope: A",
		"LEAVE scope: A",
		"Lookup: x. (Scope name: global)",
		"SCOPE (SCOPED SYMBOL TABLE)",
		"LEAVE scope: global",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "LEAVE scope: A") > strings.Index(out, "LEAVE scope: global") {
		t.Errorf("expected A to be left before global")
	}
}
