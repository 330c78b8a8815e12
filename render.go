package pipes

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
)

// Encode renders a program to a writer in canonical form.
func Encode(w io.Writer, prog *Program, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	r := &renderer{w: bw, indent: fopt.Indent}
	if err := r.writeProgram(prog); err != nil {
		return err
	}

	return bw.Flush()
}

// EncodeFile renders a program to a file.
func EncodeFile(path string, prog *Program, opt *FormatOptions) error {
	b, err := Format(prog, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// Format renders a program to bytes.
func Format(prog *Program, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, prog, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// RenderStmt renders a single statement at the given indentation depth.
func RenderStmt(s Stmt, depth int) string {
	var buf bytes.Buffer
	r := &renderer{w: &buf, indent: "\t"}
	_ = r.writeStmt(s, depth)

	return buf.String()
}

// RenderExpr renders a single expression.
func RenderExpr(e Expr) string {
	var buf bytes.Buffer
	r := &renderer{w: &buf, indent: "\t"}
	_ = r.writeExpr(e)

	return buf.String()
}

// renderer writes AST nodes as indented source text. The indentation depth
// is threaded through the calls; the renderer holds no tree state and has a
// rendering rule for every variant, so it never fails on a well-formed node.
type renderer struct {
	w      io.Writer // Writer to write to
	indent string    // Indentation string
	cache  []string  // Cache of indentation strings per level
}

// writeProgram writes each top-level statement followed by a trailing blank
// line.
func (r *renderer) writeProgram(prog *Program) error {
	for _, s := range prog.Stmts {
		if err := r.writeStmt(s, 0); err != nil {
			return err
		}
	}

	return r.writeString("\n")
}

// writeStmt writes one statement, terminated by a newline.
func (r *renderer) writeStmt(s Stmt, level int) error {
	switch t := s.(type) {
	case *Block:
		// A bare block renders its statements at the current depth.
		for _, st := range t.Stmts {
			if err := r.writeStmt(st, level); err != nil {
				return err
			}
		}
		return nil

	case *If:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("if "); err != nil {
			return err
		}
		if err := r.writeExpr(t.Cond); err != nil {
			return err
		}
		if err := r.writeString(" :\n"); err != nil {
			return err
		}
		if err := r.writeSuite(t.Then, level); err != nil {
			return err
		}
		if isEmptyBranch(t.Else) {
			return nil
		}
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("else :\n"); err != nil {
			return err
		}
		return r.writeSuite(t.Else, level)

	case *While:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("while "); err != nil {
			return err
		}
		if err := r.writeExpr(t.Cond); err != nil {
			return err
		}
		if err := r.writeString(" :\n"); err != nil {
			return err
		}
		return r.writeSuite(t.Body, level)

	case *ForEach:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("for "); err != nil {
			return err
		}
		if err := r.writeBinding(t.Loop); err != nil {
			return err
		}
		if err := r.writeString(" in "); err != nil {
			return err
		}
		if err := r.writeExpr(t.Iter); err != nil {
			return err
		}
		if err := r.writeString(" :\n"); err != nil {
			return err
		}
		return r.writeSuite(t.Body, level)

	case *ForRange:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("for "); err != nil {
			return err
		}
		if err := r.writeBinding(t.Loop); err != nil {
			return err
		}
		if err := r.writeString(" in range("); err != nil {
			return err
		}
		if err := r.writeExpr(t.Bound); err != nil {
			return err
		}
		if err := r.writeString(") :\n"); err != nil {
			return err
		}
		return r.writeSuite(t.Body, level)

	case *FuncDef:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("def "); err != nil {
			return err
		}
		if t.Name != nil {
			if err := r.writeString(t.Name.Name); err != nil {
				return err
			}
		}
		if err := r.writeString("("); err != nil {
			return err
		}
		for i, param := range t.Params {
			if i > 0 {
				if err := r.writeString(", "); err != nil {
					return err
				}
			}
			if err := r.writeBinding(param); err != nil {
				return err
			}
		}
		if err := r.writeString(") :\n"); err != nil {
			return err
		}
		return r.writeSuite(t.Body, level)

	case *ClassDef:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("class "); err != nil {
			return err
		}
		if err := r.writeString(t.Name); err != nil {
			return err
		}
		if err := r.writeString(" :\n"); err != nil {
			return err
		}
		return r.writeSuite(t.Body, level)

	case *Assign:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		for _, target := range t.Targets {
			if v, ok := target.(*Var); ok {
				if err := r.writeBinding(v.Binding); err != nil {
					return err
				}
			} else if err := r.writeExpr(target); err != nil {
				return err
			}
			if err := r.writeString(" = "); err != nil {
				return err
			}
		}
		if err := r.writeExpr(t.Value); err != nil {
			return err
		}
		return r.writeString("\n")

	case *Return:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("return"); err != nil {
			return err
		}
		if _, ok := t.Value.(*Empty); !ok && t.Value != nil {
			if err := r.writeString(" "); err != nil {
				return err
			}
			if err := r.writeExpr(t.Value); err != nil {
				return err
			}
		}
		return r.writeString("\n")

	case *ExprStmt:
		return r.writeKeywordStmt("", t.X, level)
	case *TypeQuery:
		return r.writeKeywordStmt("type ", t.X, level)
	case *Print:
		return r.writeKeywordStmt("print ", t.X, level)

	case *Import:
		if err := r.writeIndent(level); err != nil {
			return err
		}
		if err := r.writeString("import "); err != nil {
			return err
		}
		if err := r.writeString(t.Module); err != nil {
			return err
		}
		return r.writeString("\n")

	case *Pass:
		return r.writeKeywordLine("pass", level)
	case *Continue:
		return r.writeKeywordLine("continue", level)
	case *Break:
		return r.writeKeywordLine("break", level)
	case *NoOp:
		// Blank lines render to empty text.
		return r.writeString("\n")

	default:
		return nil
	}
}

// writeKeywordStmt writes an optional keyword prefix and an expression as a
// full line.
func (r *renderer) writeKeywordStmt(prefix string, x Expr, level int) error {
	if err := r.writeIndent(level); err != nil {
		return err
	}
	if prefix != "" {
		if err := r.writeString(prefix); err != nil {
			return err
		}
	}
	if err := r.writeExpr(x); err != nil {
		return err
	}

	return r.writeString("\n")
}

// writeKeywordLine writes a bare keyword as a full line.
func (r *renderer) writeKeywordLine(kw string, level int) error {
	if err := r.writeIndent(level); err != nil {
		return err
	}
	if err := r.writeString(kw); err != nil {
		return err
	}

	return r.writeString("\n")
}

// writeSuite writes a compound statement's body one level deeper. An empty
// block body renders a pass line so the output always reparses.
func (r *renderer) writeSuite(body Stmt, level int) error {
	if blk, ok := body.(*Block); ok {
		if len(blk.Stmts) == 0 {
			return r.writeKeywordLine("pass", level+1)
		}
		for _, st := range blk.Stmts {
			if err := r.writeStmt(st, level+1); err != nil {
				return err
			}
		}
		return nil
	}

	return r.writeStmt(body, level+1)
}

// isEmptyBranch checks if an else-branch is the canonical no-op block.
func isEmptyBranch(s Stmt) bool {
	if s == nil {
		return true
	}
	blk, ok := s.(*Block)

	return ok && len(blk.Stmts) == 0
}

// writeExpr writes one expression. Binary and unary compositions are
// parenthesized, so the rendered text reparses to the same tree without
// precedence-aware printing.
func (r *renderer) writeExpr(e Expr) error {
	switch t := e.(type) {
	case *BinaryOp:
		if err := r.writeString("("); err != nil {
			return err
		}
		if err := r.writeExpr(t.Left); err != nil {
			return err
		}
		if err := r.writeString(" " + t.Op.String() + " "); err != nil {
			return err
		}
		if err := r.writeExpr(t.Right); err != nil {
			return err
		}
		return r.writeString(")")

	case *Unary:
		if err := r.writeString("(" + t.Op.String() + " "); err != nil {
			return err
		}
		if err := r.writeExpr(t.Operand); err != nil {
			return err
		}
		return r.writeString(")")

	case *Lit:
		return r.writeLiteral(t.Value)

	case *Var:
		return r.writeString(t.Binding.Name)

	case *Call:
		if err := r.writeCallee(t.Fn); err != nil {
			return err
		}
		return r.writeArgs(t.Args)

	case *MethodCall:
		if err := r.writeCallee(t.Recv); err != nil {
			return err
		}
		if err := r.writeString("." + t.Name); err != nil {
			return err
		}
		return r.writeArgs(t.Args)

	case *FieldAccess:
		if err := r.writeCallee(t.Recv); err != nil {
			return err
		}
		return r.writeString("." + t.Name)

	case *ListLit:
		if err := r.writeString("["); err != nil {
			return err
		}
		for i, el := range t.Elems {
			if i > 0 {
				if err := r.writeString(", "); err != nil {
					return err
				}
			}
			if err := r.writeExpr(el); err != nil {
				return err
			}
		}
		return r.writeString("]")

	case *ListAccess:
		if err := r.writeCallee(t.List); err != nil {
			return err
		}
		if err := r.writeString("["); err != nil {
			return err
		}
		if err := r.writeExpr(t.Index); err != nil {
			return err
		}
		return r.writeString("]")

	case *ListSlice:
		if err := r.writeCallee(t.List); err != nil {
			return err
		}
		if err := r.writeString("["); err != nil {
			return err
		}
		// An omitted bound renders as omitted, not as none.
		if err := r.writeBound(t.Low); err != nil {
			return err
		}
		if err := r.writeString(":"); err != nil {
			return err
		}
		if err := r.writeBound(t.High); err != nil {
			return err
		}
		return r.writeString("]")

	case *Cast:
		if err := r.writeString(t.To.String() + "("); err != nil {
			return err
		}
		if err := r.writeExpr(t.Operand); err != nil {
			return err
		}
		return r.writeString(")")

	case *Lambda:
		if err := r.writeString("lambda"); err != nil {
			return err
		}
		for _, param := range t.Params {
			if err := r.writeString(" " + param.Name); err != nil {
				return err
			}
		}
		if err := r.writeString(" : "); err != nil {
			return err
		}
		return r.writeExpr(t.Body)

	case *Empty:
		return r.writeString("none")

	default:
		return nil
	}
}

// writeBound writes a slice bound, omitting the empty value.
func (r *renderer) writeBound(e Expr) error {
	if _, ok := e.(*Empty); ok || e == nil {
		return nil
	}

	return r.writeExpr(e)
}

// writeCallee writes a callee or receiver, parenthesized unless it is a
// form the postfix grammar can chain from directly.
func (r *renderer) writeCallee(e Expr) error {
	switch e.(type) {
	case *Var, *Call, *MethodCall, *FieldAccess, *ListAccess, *ListSlice, *Cast:
		return r.writeExpr(e)
	default:
		if err := r.writeString("("); err != nil {
			return err
		}
		if err := r.writeExpr(e); err != nil {
			return err
		}
		return r.writeString(")")
	}
}

// writeArgs writes a parenthesized argument list.
func (r *renderer) writeArgs(args []Expr) error {
	if err := r.writeString("("); err != nil {
		return err
	}
	for i, arg := range args {
		if i > 0 {
			if err := r.writeString(", "); err != nil {
				return err
			}
		}
		if err := r.writeExpr(arg); err != nil {
			return err
		}
	}

	return r.writeString(")")
}

// writeBinding writes a binding, annotated unless the type is dyn.
func (r *renderer) writeBinding(b Binding) error {
	if err := r.writeString(b.Name); err != nil {
		return err
	}
	if b.Type == TypeDyn {
		return nil
	}

	return r.writeString(": " + b.Type.String())
}

// writeLiteral writes a literal in its canonical decimal or quoted form.
func (r *renderer) writeLiteral(lit Literal) error {
	switch lit.Kind {
	case LitBool:
		if lit.Bool {
			return r.writeString("true")
		}
		return r.writeString("false")

	case LitFloat:
		return r.writeString(formatFloat(lit.Float))

	case LitString:
		return r.writeQuoted(lit.Str)

	default:
		return r.writeString(strconv.FormatInt(lit.Int, 10))
	}
}

// formatFloat renders a float so it always relexes as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// writeQuoted writes a double-quoted string, escaping only what the lexer
// recognizes.
func (r *renderer) writeQuoted(s string) error {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)

	return r.writeString(`"` + s + `"`)
}

// writeIndent writes the indentation for a nesting level.
func (r *renderer) writeIndent(level int) error {
	if level <= 0 {
		return nil
	}

	// Cache repeated indentation strings per nesting level.
	return r.writeString(r.indentFor(level))
}

// writeString writes a string to the writer.
func (r *renderer) writeString(s string) error {
	_, err := io.WriteString(r.w, s)
	return err
}

// indentFor returns the cached indentation string for a level.
func (r *renderer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(r.cache) <= level {
		r.cache = append(r.cache, make([]string, level-len(r.cache)+1)...)
	}
	if r.cache[level] == "" {
		r.cache[level] = strings.Repeat(r.indent, level)
	}

	return r.cache[level]
}
