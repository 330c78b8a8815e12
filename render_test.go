package pipes

import (
	"reflect"
	"strings"
	"testing"
)

func format(t *testing.T, prog *Program) string {
	t.Helper()
	out, err := Format(prog, nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	return string(out)
}

// TestRenderReparse checks that rendering a parsed program and parsing the
// rendering again produces a structurally identical tree. The text itself is
// normalized (sugar expanded, suites indented), so only the tree is stable.
func TestRenderReparse(t *testing.T) {
	sources := []string{
		"x = 1\n",
		"x: int = 5\n",
		"a = b = 5\n",
		"x += 1\n",
		"a[0] = a[1]\n",
		"x = 1 + 2 * 3\n",
		"x = 2 ** 3 ** 2\n",
		"x = -y\n",
		"x = not a and b or c\n",
		"x = a < b == c\n",
		"f x\n",
		"x | f | g\n",
		"f(1, 2.5, \"s\", true)\n",
		"a.b\n",
		"a.b(c)\n",
		"a.b.c(d).e\n",
		"xs = [1, [2, 3], []]\n",
		"x = xs[0]\n",
		"x = xs[1:2]\n",
		"x = xs[:2]\n",
		"x = xs[1:]\n",
		"x = int(\"5\") + float(n)\n",
		"g = lambda x y : x + y\n",
		"h = lambda : 1\n",
		"x = none\n",
		"print x\n",
		"type x\n",
		"import os\n",
		"if a: pass\n",
		"if a:\n\tx = 1\nelse:\n\ty = 2\n",
		"if a: if b: pass else: pass\n",
		"while a < 10:\n\ta += 1\n",
		"for x in items:\n\tprint x\n",
		"for i in range(10):\n\tcontinue\n",
		"def add(a: int, b: float):\n\treturn a + b\n",
		"def f(g: func):\n\treturn g(1)\n",
		"class Point:\n\tx = 0\n\tdef get(self):\n\t\treturn self.x\n",
		"while true:\n\tbreak\n",
		"return\n",
	}

	for _, src := range sources {
		first := mustParse(t, src)
		text := format(t, first)
		second, err := Parse([]byte(text), nil)
		if err != nil {
			t.Fatalf("reparse of %q failed: %v\nrendered:\n%s", src, err, text)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("round trip of %q not stable\nrendered:\n%s\nfirst:  %#v\nsecond: %#v",
				src, text, first, second)
		}
	}
}

// TestRenderStable checks that canonical text renders to itself.
func TestRenderStable(t *testing.T) {
	sources := []string{
		"x = 1\n",
		"if a:\n\tx = 1\nelse:\n\ty = 2\n",
		"def f(a: int):\n\treturn a\n",
	}
	for _, src := range sources {
		once := format(t, mustParse(t, src))
		twice := format(t, mustParse(t, once))
		if once != twice {
			t.Fatalf("rendering of %q not stable:\n%s\nvs\n%s", src, once, twice)
		}
	}
}

func TestRenderLiterals(t *testing.T) {
	tests := []struct {
		e    Expr
		want string
	}{
		{&Lit{Value: Literal{Kind: LitInt, Int: 42}}, "42"},
		{&Lit{Value: Literal{Kind: LitInt, Int: -7}}, "-7"},
		{&Lit{Value: Literal{Kind: LitFloat, Float: 3.14}}, "3.14"},
		{&Lit{Value: Literal{Kind: LitFloat, Float: 1}}, "1.0"},
		{&Lit{Value: Literal{Kind: LitFloat, Float: 1e6}}, "1e+06"},
		{&Lit{Value: Literal{Kind: LitBool, Bool: true}}, "true"},
		{&Lit{Value: Literal{Kind: LitBool, Bool: false}}, "false"},
		{&Lit{Value: Literal{Kind: LitString, Str: "plain"}}, `"plain"`},
		{&Lit{Value: Literal{Kind: LitString, Str: `say "hi"`}}, `"say \"hi\""`},
		{&Lit{Value: Literal{Kind: LitString, Str: `a\b`}}, `"a\\b"`},
		{&Empty{}, "none"},
	}
	for _, tt := range tests {
		if got := RenderExpr(tt.e); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestFloatAlwaysRelexesAsFloat(t *testing.T) {
	for _, f := range []float64{0, 1, 2.5, 1e6, 0.25, -3} {
		src := "x = " + formatFloat(f) + "\n"
		s := stmtOf(t, src).(*Assign)

		val := s.Value
		if u, ok := val.(*Unary); ok {
			val = u.Operand
		}
		lit, ok := val.(*Lit)
		if !ok || lit.Value.Kind != LitFloat {
			t.Fatalf("%g rendered as %q, which did not relex as a float", f, formatFloat(f))
		}
	}
}

func TestRenderExprForms(t *testing.T) {
	tests := []struct {
		e    Expr
		want string
	}{
		{&BinaryOp{Left: ref("a"), Op: OpAdd, Right: ref("b")}, "(a + b)"},
		{&Unary{Op: UnaryNot, Operand: ref("a")}, "(not a)"},
		{&Unary{Op: UnaryNeg, Operand: ref("a")}, "(- a)"},
		{&Call{Fn: ref("f"), Args: []Expr{ref("x")}}, "f(x)"},
		{&Call{Fn: &Lambda{Body: intLit(1)}, Args: []Expr{}}, "(lambda : 1)()"},
		{&MethodCall{Recv: ref("a"), Name: "b", Args: []Expr{}}, "a.b()"},
		{&FieldAccess{Recv: ref("a"), Name: "b"}, "a.b"},
		{&ListLit{Elems: []Expr{intLit(1), intLit(2)}}, "[1, 2]"},
		{&ListAccess{List: ref("a"), Index: intLit(0)}, "a[0]"},
		{&ListSlice{List: ref("a"), Low: &Empty{}, High: intLit(2)}, "a[:2]"},
		{&Cast{To: TypeString, Operand: ref("x")}, "str(x)"},
		{&Lambda{Params: []Binding{{Name: "x"}, {Name: "y"}}, Body: &BinaryOp{Left: ref("x"), Op: OpAdd, Right: ref("y")}}, "lambda x y : (x + y)"},
	}
	for _, tt := range tests {
		if got := RenderExpr(tt.e); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestRenderStmtDepth(t *testing.T) {
	if got := RenderStmt(&Pass{}, 0); got != "pass\n" {
		t.Fatalf("unexpected rendering %q", got)
	}
	if got := RenderStmt(&Pass{}, 2); got != "\t\tpass\n" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestRenderEmptyBlockEmitsPass(t *testing.T) {
	s := &If{Cond: ref("a"), Then: &Block{}, Else: &Block{}}
	want := "if a :\n\tpass\n"
	if got := RenderStmt(s, 0); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderElseBranch(t *testing.T) {
	s := &If{
		Cond: ref("a"),
		Then: &Block{Stmts: []Stmt{&Pass{}}},
		Else: &Block{Stmts: []Stmt{&Break{}}},
	}
	want := "if a :\n\tpass\nelse :\n\tbreak\n"
	if got := RenderStmt(s, 0); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderAnnotatedBinding(t *testing.T) {
	s := &Assign{
		Targets: []Expr{&Var{Binding: Binding{Name: "x", Type: TypeInt}}},
		Value:   intLit(5),
	}
	if got := RenderStmt(s, 0); got != "x: int = 5\n" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestRenderCustomIndent(t *testing.T) {
	prog := mustParse(t, "if a:\n\tpass\n")
	out, err := Format(prog, &FormatOptions{Indent: "    "})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(string(out), "\n    pass\n") {
		t.Fatalf("expected four-space indentation, got %q", out)
	}
}

func TestProgramEndsWithBlankLine(t *testing.T) {
	out := format(t, mustParse(t, "x = 1\n"))
	if !strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected trailing blank line, got %q", out)
	}
}

func TestListAccessOperatorName(t *testing.T) {
	if OpListAccess.String() != "list access" {
		t.Fatalf("unexpected spelling %q", OpListAccess.String())
	}
}
