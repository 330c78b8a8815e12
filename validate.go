package pipes

import "fmt"

// IssueLevel represents severity of a validation issue.
type IssueLevel string

const (
	// IssueError indicates a modeling error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Context of the affected node
}

// Validate checks an AST against the modeling invariants the grammar is
// supposed to uphold and returns issues for anything a hand-built or future
// producer got wrong: a binary expression carrying the list-access operator,
// assignment targets that are not variables or list indexes, non-block
// function or class bodies, empty binding names, and a populated
// partial-application list (reserved, always empty).
func Validate(prog *Program, opt *ValidateOptions) []Issue {
	vopt := opt.normalize()
	v := &validator{opt: vopt}
	if prog == nil {
		return nil
	}

	for i, s := range prog.Stmts {
		v.stmt(s, fmt.Sprintf("stmt[%d]", i))
	}

	return v.issues
}

// validator accumulates issues while walking the tree.
type validator struct {
	issues []Issue
	opt    ValidateOptions
}

// report appends an issue.
func (v *validator) report(level IssueLevel, code, msg, path string) {
	v.issues = append(v.issues, Issue{Level: level, Code: code, Message: msg, Path: path})
}

// binding checks a binding's name.
func (v *validator) binding(b Binding, path string) {
	if v.opt.DisableShapeCheck {
		return
	}
	if b.Name == "" {
		v.report(IssueError, "empty_binding", "binding has an empty name", path)
	}
}

// stmt walks a statement.
func (v *validator) stmt(s Stmt, path string) {
	switch t := s.(type) {
	case nil:
		v.report(IssueError, "nil_stmt", "nil statement", path)

	case *FuncDef:
		name := path
		if t.Name != nil {
			name = path + ": def " + t.Name.Name
			v.binding(*t.Name, name)
		}
		for _, param := range t.Params {
			v.binding(param, name)
		}
		if !v.opt.DisableReservedCheck && len(t.Partials) > 0 {
			v.report(IssueWarning, "reserved_partials", "partial-application list is reserved and must stay empty", name)
		}
		if !v.opt.DisableShapeCheck {
			if _, ok := t.Body.(*Block); !ok {
				v.report(IssueError, "non_block_body", "function body must be a block", name)
			}
		}
		v.stmt(t.Body, name)

	case *ClassDef:
		name := path + ": class " + t.Name
		if !v.opt.DisableShapeCheck {
			if t.Name == "" {
				v.report(IssueError, "empty_binding", "class has an empty name", path)
			}
			if _, ok := t.Body.(*Block); !ok {
				v.report(IssueError, "non_block_body", "class body must be a block", name)
			}
		}
		v.stmt(t.Body, name)

	case *Block:
		for i, st := range t.Stmts {
			v.stmt(st, fmt.Sprintf("%s: block[%d]", path, i))
		}

	case *If:
		v.expr(t.Cond, path+": if")
		if !v.opt.DisableShapeCheck && t.Else == nil {
			v.report(IssueError, "nil_stmt", "else-branch must be a block, not nil", path)
		}
		v.stmt(t.Then, path+": then")
		if t.Else != nil {
			v.stmt(t.Else, path+": else")
		}

	case *While:
		v.expr(t.Cond, path+": while")
		v.stmt(t.Body, path+": while")

	case *ForEach:
		v.binding(t.Loop, path+": for")
		v.expr(t.Iter, path+": for")
		v.stmt(t.Body, path+": for")

	case *ForRange:
		v.binding(t.Loop, path+": for")
		v.expr(t.Bound, path+": for")
		v.stmt(t.Body, path+": for")

	case *Assign:
		if !v.opt.DisableShapeCheck {
			if len(t.Targets) == 0 {
				v.report(IssueError, "no_targets", "assignment without targets", path)
			}
			for _, target := range t.Targets {
				if !isLValue(target) {
					v.report(IssueError, "bad_lvalue", "assignment target must be a variable or list index", path)
				}
			}
		}
		for _, target := range t.Targets {
			v.expr(target, path+": target")
		}
		v.expr(t.Value, path+": value")

	case *Return:
		v.expr(t.Value, path+": return")
	case *ExprStmt:
		v.expr(t.X, path)
	case *TypeQuery:
		v.expr(t.X, path+": type")
	case *Print:
		v.expr(t.X, path+": print")

	case *Import:
		if !v.opt.DisableShapeCheck && t.Module == "" {
			v.report(IssueError, "empty_binding", "import without a module name", path)
		}

	case *Continue, *Break, *NoOp, *Pass:
		// Nothing to check.
	}
}

// expr walks an expression.
func (v *validator) expr(e Expr, path string) {
	switch t := e.(type) {
	case nil:
		v.report(IssueError, "nil_expr", "nil expression", path)

	case *BinaryOp:
		if !v.opt.DisableShapeCheck && t.Op == OpListAccess {
			v.report(IssueError, "listaccess_binop", "list-access operator must not appear in a binary expression", path)
		}
		v.expr(t.Left, path)
		v.expr(t.Right, path)

	case *Unary:
		v.expr(t.Operand, path)

	case *Var:
		v.binding(t.Binding, path)

	case *Call:
		v.expr(t.Fn, path)
		for _, arg := range t.Args {
			v.expr(arg, path)
		}

	case *MethodCall:
		v.expr(t.Recv, path)
		for _, arg := range t.Args {
			v.expr(arg, path)
		}
		if !v.opt.DisableShapeCheck && t.Name == "" {
			v.report(IssueError, "empty_binding", "method call without a name", path)
		}

	case *FieldAccess:
		v.expr(t.Recv, path)
		if !v.opt.DisableShapeCheck && t.Name == "" {
			v.report(IssueError, "empty_binding", "field access without a name", path)
		}

	case *ListLit:
		for _, el := range t.Elems {
			v.expr(el, path)
		}

	case *ListAccess:
		v.expr(t.List, path)
		v.expr(t.Index, path)

	case *ListSlice:
		v.expr(t.List, path)
		v.expr(t.Low, path)
		v.expr(t.High, path)

	case *Cast:
		v.expr(t.Operand, path)

	case *Lambda:
		for _, param := range t.Params {
			v.binding(param, path+": lambda")
		}
		v.expr(t.Body, path+": lambda")

	case *Lit, *Empty:
		// Nothing to check.
	}
}
