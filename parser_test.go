package pipes

import (
	"errors"
	"reflect"
	"testing"
)

// mustParse parses source or fails the test.
func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return prog
}

// stmtOf parses source expected to hold exactly one top-level statement.
func stmtOf(t *testing.T, src string) Stmt {
	t.Helper()
	prog := mustParse(t, src)
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement in %q, got %d", src, len(prog.Stmts))
	}

	return prog.Stmts[0]
}

// exprOf parses source expected to hold one expression statement.
func exprOf(t *testing.T, src string) Expr {
	t.Helper()
	s, ok := stmtOf(t, src).(*ExprStmt)
	if !ok {
		t.Fatalf("expected expression statement in %q", src)
	}

	return s.X
}

func intLit(n int64) Expr {
	return &Lit{Value: Literal{Kind: LitInt, Int: n}}
}

func ref(name string) Expr {
	return &Var{Binding: Binding{Name: name, Type: TypeDyn}}
}

func TestPrecedenceMulBindsTighter(t *testing.T) {
	got := exprOf(t, "1 + 2 * 3\n")
	want := &BinaryOp{
		Left: intLit(1),
		Op:   OpAdd,
		Right: &BinaryOp{
			Left:  intLit(2),
			Op:    OpMul,
			Right: intLit(3),
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestExponentRightAssociative(t *testing.T) {
	got := exprOf(t, "2 ** 3 ** 2\n")
	want := &BinaryOp{
		Left: intLit(2),
		Op:   OpExp,
		Right: &BinaryOp{
			Left:  intLit(3),
			Op:    OpExp,
			Right: intLit(2),
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestJuxtapositionIsCall(t *testing.T) {
	got := exprOf(t, "f x\n")
	want := &Call{Fn: ref("f"), Args: []Expr{ref("x")}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestPipeIsReversedCall(t *testing.T) {
	got := exprOf(t, "x | f\n")
	want := &Call{Fn: ref("f"), Args: []Expr{ref("x")}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestPipeBindsLooserThanArithmetic(t *testing.T) {
	got := exprOf(t, "a + b | f\n")
	want := &Call{
		Fn:   ref("f"),
		Args: []Expr{&BinaryOp{Left: ref("a"), Op: OpAdd, Right: ref("b")}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestJuxtapositionBindsTighterThanOperators(t *testing.T) {
	// f x + 1 applies f to x first, then adds.
	got := exprOf(t, "f x + 1\n")
	want := &BinaryOp{
		Left:  &Call{Fn: ref("f"), Args: []Expr{ref("x")}},
		Op:    OpAdd,
		Right: intLit(1),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestUnaryMinusNotJuxtaposed(t *testing.T) {
	got := exprOf(t, "a - b\n")
	want := &BinaryOp{Left: ref("a"), Op: OpSub, Right: ref("b")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestDanglingElseAttachesToInnerIf(t *testing.T) {
	got := stmtOf(t, "if a: if b: pass else: pass\n")
	want := &If{
		Cond: ref("a"),
		Then: &Block{Stmts: []Stmt{
			&If{
				Cond: ref("b"),
				Then: &Block{Stmts: []Stmt{&Pass{}}},
				Else: &Block{Stmts: []Stmt{&Pass{}}},
			},
		}},
		Else: &Block{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestFieldVsMethodAccess(t *testing.T) {
	field := exprOf(t, "a.b\n")
	wantField := &FieldAccess{Recv: ref("a"), Name: "b"}
	if !reflect.DeepEqual(field, wantField) {
		t.Fatalf("unexpected field tree: %#v", field)
	}

	method := exprOf(t, "a.b()\n")
	wantMethod := &MethodCall{Recv: ref("a"), Name: "b", Args: []Expr{}}
	if !reflect.DeepEqual(method, wantMethod) {
		t.Fatalf("unexpected method tree: %#v", method)
	}
}

func TestChainedAssignment(t *testing.T) {
	got := stmtOf(t, "a = b = 5\n")
	want := &Assign{
		Targets: []Expr{ref("a"), ref("b")},
		Value:   intLit(5),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestCompoundAssignmentDesugars(t *testing.T) {
	got := stmtOf(t, "x += 1\n")
	want := &Assign{
		Targets: []Expr{ref("x")},
		Value:   &BinaryOp{Left: ref("x"), Op: OpAdd, Right: intLit(1)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestAnnotatedAssignment(t *testing.T) {
	got := stmtOf(t, "x: int = 5\n")
	want := &Assign{
		Targets: []Expr{&Var{Binding: Binding{Name: "x", Type: TypeInt}}},
		Value:   intLit(5),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestListIndexIsAssignable(t *testing.T) {
	got := stmtOf(t, "a[0] = 1\n")
	want := &Assign{
		Targets: []Expr{&ListAccess{List: ref("a"), Index: intLit(0)}},
		Value:   intLit(1),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestLvalueRestriction(t *testing.T) {
	bad := []string{
		"a.b = 1\n",
		"a.b() = 1\n",
		"a[1:2] = 1\n",
		"a + 1 = 2\n",
		"5 = x\n",
	}
	for _, src := range bad {
		if _, err := Parse([]byte(src), nil); !errors.Is(err, ErrParse) {
			t.Fatalf("expected parse error for %q, got %v", src, err)
		}
	}
}

func TestTypeCastIsNotCall(t *testing.T) {
	got := exprOf(t, "int(x)\n")
	want := &Cast{To: TypeInt, Operand: ref("x")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestListLiteralAndSlice(t *testing.T) {
	list := exprOf(t, "[1, 2, 3]\n")
	wantList := &ListLit{Elems: []Expr{intLit(1), intLit(2), intLit(3)}}
	if !reflect.DeepEqual(list, wantList) {
		t.Fatalf("unexpected list tree: %#v", list)
	}

	slice := exprOf(t, "a[1:2]\n")
	wantSlice := &ListSlice{List: ref("a"), Low: intLit(1), High: intLit(2)}
	if !reflect.DeepEqual(slice, wantSlice) {
		t.Fatalf("unexpected slice tree: %#v", slice)
	}

	open := exprOf(t, "a[:2]\n")
	wantOpen := &ListSlice{List: ref("a"), Low: &Empty{}, High: intLit(2)}
	if !reflect.DeepEqual(open, wantOpen) {
		t.Fatalf("unexpected open slice tree: %#v", open)
	}
}

func TestLambda(t *testing.T) {
	got := exprOf(t, "lambda x y : x + y\n")
	want := &Lambda{
		Params: []Binding{{Name: "x"}, {Name: "y"}},
		Body:   &BinaryOp{Left: ref("x"), Op: OpAdd, Right: ref("y")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestForLoops(t *testing.T) {
	each := stmtOf(t, "for x in items: pass\n")
	wantEach := &ForEach{
		Loop: Binding{Name: "x"},
		Iter: ref("items"),
		Body: &Block{Stmts: []Stmt{&Pass{}}},
	}
	if !reflect.DeepEqual(each, wantEach) {
		t.Fatalf("unexpected for-each tree: %#v", each)
	}

	rng := stmtOf(t, "for i in range(10): pass\n")
	wantRange := &ForRange{
		Loop:  Binding{Name: "i"},
		Bound: intLit(10),
		Body:  &Block{Stmts: []Stmt{&Pass{}}},
	}
	if !reflect.DeepEqual(rng, wantRange) {
		t.Fatalf("unexpected for-range tree: %#v", rng)
	}
}

func TestFunctionDefinition(t *testing.T) {
	got := stmtOf(t, "def add(a: int, b):\n\treturn a + b\n")
	want := &FuncDef{
		Name:   &Binding{Name: "add"},
		Params: []Binding{{Name: "a", Type: TypeInt}, {Name: "b"}},
		Body: &Block{Stmts: []Stmt{
			&Return{Value: &BinaryOp{Left: ref("a"), Op: OpAdd, Right: ref("b")}},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestFunctionBodyRequiresIndentedBlock(t *testing.T) {
	if _, err := Parse([]byte("def f(): pass\n"), nil); !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse error for inline def body, got %v", err)
	}
	if _, err := Parse([]byte("class C: pass\n"), nil); !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse error for inline class body, got %v", err)
	}
}

func TestFuncAnnotationOnlyOnFormals(t *testing.T) {
	if _, err := Parse([]byte("def f(g: func):\n\tpass\n"), nil); err != nil {
		t.Fatalf("func formal annotation: %v", err)
	}
	if _, err := Parse([]byte("x: func = 1\n"), nil); !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse error for func annotation outside formals")
	}
}

func TestClassDefinition(t *testing.T) {
	got := stmtOf(t, "class Point:\n\tx = 0\n\ty = 0\n")
	want := &ClassDef{
		Name: "Point",
		Body: &Block{Stmts: []Stmt{
			&Assign{Targets: []Expr{ref("x")}, Value: intLit(0)},
			&Assign{Targets: []Expr{ref("y")}, Value: intLit(0)},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree: %#v", got)
	}
}

func TestKeywordStatements(t *testing.T) {
	tests := []struct {
		src  string
		want Stmt
	}{
		{"print x\n", &Print{X: ref("x")}},
		{"type x\n", &TypeQuery{X: ref("x")}},
		{"import os\n", &Import{Module: "os"}},
		{"pass\n", &Pass{}},
		{"continue\n", &Continue{}},
		{"break\n", &Break{}},
		{"return\n", &Return{Value: &Empty{}}},
		{"return none\n", &Return{Value: &Empty{}}},
	}
	for _, tt := range tests {
		got := stmtOf(t, tt.src)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("unexpected tree for %q: %#v", tt.src, got)
		}
	}
}

func TestSyntaxErrorAbortsUnit(t *testing.T) {
	bad := []string{
		"if : pass\n",
		"1 +\n",
		"f(1,\n",
		"x = = 1\n",
		"} \n",
	}
	for _, src := range bad {
		prog, err := Parse([]byte(src), nil)
		if !errors.Is(err, ErrParse) {
			t.Fatalf("expected parse error for %q, got %v", src, err)
		}
		if prog != nil {
			t.Fatalf("expected no partial tree for %q", src)
		}
	}
}

func TestStatementsSeparatedBySemicolon(t *testing.T) {
	prog := mustParse(t, "x = 1; y = 2\n")
	if len(prog.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Stmts))
	}
}
