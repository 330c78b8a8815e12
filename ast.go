package pipes

// Operator is a binary operator.
//
// OpListAccess exists so indexing can be described uniformly with the other
// binary operators when rendering; no production ever builds a BinaryOp
// carrying it (the grammar always produces the dedicated ListAccess node),
// and Validate reports one as a modeling error.
type Operator int

// Binary operators.
const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpExp
	OpEq
	OpNeq
	OpLess
	OpLeq
	OpGreater
	OpGeq
	OpAnd
	OpOr
	OpListAccess
)

// operatorNames is indexed by Operator.
var operatorNames = [...]string{
	OpAdd:        "+",
	OpSub:        "-",
	OpMul:        "*",
	OpDiv:        "/",
	OpExp:        "**",
	OpEq:         "==",
	OpNeq:        "!=",
	OpLess:       "<",
	OpLeq:        "<=",
	OpGreater:    ">",
	OpGeq:        ">=",
	OpAnd:        "and",
	OpOr:         "or",
	OpListAccess: "list access",
}

// String returns the rendered symbol or keyword for the operator.
func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorNames) {
		return "operator"
	}

	return operatorNames[op]
}

// MarshalYAML renders the operator by name in tree dumps.
func (op Operator) MarshalYAML() (any, error) { return op.String(), nil }

// UnaryOperator is a prefix operator.
type UnaryOperator int

// Unary operators.
const (
	UnaryNeg UnaryOperator = iota // -
	UnaryNot                      // not
)

// String returns the rendered symbol or keyword for the operator.
func (op UnaryOperator) String() string {
	if op == UnaryNot {
		return "not"
	}

	return "-"
}

// MarshalYAML renders the operator by name in tree dumps.
func (op UnaryOperator) MarshalYAML() (any, error) { return op.String(), nil }

// Type is a type annotation.
//
// TypeDyn is the default for any binding without an explicit annotation and
// defers typing to later analysis. TypeObject and TypeNull are descriptive
// types surfaced by later stages; no syntax reaches them. TypeFunc is only
// reachable as a formal parameter's declared type.
type Type int

// Type annotations.
const (
	TypeDyn Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeString
	TypeArr
	TypeObject
	TypeFunc
	TypeNull
)

// typeNames is indexed by Type.
var typeNames = [...]string{
	TypeDyn:    "dyn",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeString: "str",
	TypeArr:    "arr",
	TypeObject: "object",
	TypeFunc:   "func",
	TypeNull:   "null",
}

// String returns the keyword spelling of the type annotation.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "dyn"
	}

	return typeNames[t]
}

// MarshalYAML renders the type by name in tree dumps.
func (t Type) MarshalYAML() (any, error) { return t.String(), nil }

// Binding pairs a name with a type annotation. Two bindings are equal iff
// name and annotation are both equal; a binding's name must be non-empty.
type Binding struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// LiteralKind is the tag of a Literal.
type LiteralKind int

// Literal kinds.
const (
	LitInt LiteralKind = iota
	LitBool
	LitFloat
	LitString
)

// String returns the display name of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LitBool:
		return "bool"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	default:
		return "int"
	}
}

// MarshalYAML renders the kind by name in tree dumps.
func (k LiteralKind) MarshalYAML() (any, error) { return k.String(), nil }

// Literal is a tagged literal value. Numeric literals keep 64-bit integer and
// double-precision float semantics; no overflow checking happens here.
type Literal struct {
	Str   string      `json:"str,omitempty" yaml:"str,omitempty"`
	Kind  LiteralKind `json:"kind" yaml:"kind"`
	Int   int64       `json:"int,omitempty" yaml:"int,omitempty"`
	Float float64     `json:"float,omitempty" yaml:"float,omitempty"`
	Bool  bool        `json:"bool,omitempty" yaml:"bool,omitempty"`
}

// Expr is implemented by every expression node. The set of implementations
// is closed; consumers dispatch exhaustively over it.
type Expr interface {
	exprNode()
}

// Stmt is implemented by every statement node. The set of implementations
// is closed; consumers dispatch exhaustively over it.
type Stmt interface {
	stmtNode()
}

// Program is the ordered sequence of top-level statements of one unit.
type Program struct {
	Stmts []Stmt `json:"stmts" yaml:"stmts"`
}

// BinaryOp is Left Op Right.
type BinaryOp struct {
	Left  Expr     `json:"left" yaml:"left"`
	Op    Operator `json:"op" yaml:"op"`
	Right Expr     `json:"right" yaml:"right"`
}

// Lit is a literal expression.
type Lit struct {
	Value Literal `json:"value" yaml:"value"`
}

// Var is a reference to a bound name.
type Var struct {
	Binding Binding `json:"binding" yaml:"binding"`
}

// Unary is Op Operand.
type Unary struct {
	Op      UnaryOperator `json:"op" yaml:"op"`
	Operand Expr          `json:"operand" yaml:"operand"`
}

// Call applies a callee to arguments. Juxtaposition (`f x`) and the pipe
// operator (`x | f`) both reduce to this node.
type Call struct {
	Fn   Expr   `json:"fn" yaml:"fn"`
	Args []Expr `json:"args" yaml:"args"`
}

// MethodCall is receiver.name(args).
type MethodCall struct {
	Recv Expr   `json:"recv" yaml:"recv"`
	Name string `json:"name" yaml:"name"`
	Args []Expr `json:"args" yaml:"args"`
}

// FieldAccess is receiver.name without a trailing argument list.
type FieldAccess struct {
	Recv Expr   `json:"recv" yaml:"recv"`
	Name string `json:"name" yaml:"name"`
}

// ListLit is [elem, elem, ...].
type ListLit struct {
	Elems []Expr `json:"elems" yaml:"elems"`
}

// ListAccess is collection[index].
type ListAccess struct {
	List  Expr `json:"list" yaml:"list"`
	Index Expr `json:"index" yaml:"index"`
}

// ListSlice is collection[low:high]; an omitted bound is Empty.
type ListSlice struct {
	List Expr `json:"list" yaml:"list"`
	Low  Expr `json:"low" yaml:"low"`
	High Expr `json:"high" yaml:"high"`
}

// Cast is TypeName(operand), e.g. int(x).
type Cast struct {
	To      Type `json:"to" yaml:"to"`
	Operand Expr `json:"operand" yaml:"operand"`
}

// Lambda is an anonymous function with an expression body.
type Lambda struct {
	Params []Binding `json:"params" yaml:"params"`
	Body   Expr      `json:"body" yaml:"body"`
}

// Empty is the "no expression" placeholder: an omitted else-branch test, an
// omitted return value, an omitted slice bound, or a literal `none`.
type Empty struct{}

func (*BinaryOp) exprNode()    {}
func (*Lit) exprNode()         {}
func (*Var) exprNode()         {}
func (*Unary) exprNode()       {}
func (*Call) exprNode()        {}
func (*MethodCall) exprNode()  {}
func (*FieldAccess) exprNode() {}
func (*ListLit) exprNode()     {}
func (*ListAccess) exprNode()  {}
func (*ListSlice) exprNode()   {}
func (*Cast) exprNode()        {}
func (*Lambda) exprNode()      {}
func (*Empty) exprNode()       {}

// FuncDef is a named function definition. Name is nil only in anonymous
// contexts; Body is always a *Block. Partials is reserved for a future
// partial-application producer and is never populated by the grammar.
type FuncDef struct {
	Name     *Binding  `json:"name,omitempty" yaml:"name,omitempty"`
	Params   []Binding `json:"params" yaml:"params"`
	Partials []Expr    `json:"partials,omitempty" yaml:"partials,omitempty"`
	Body     Stmt      `json:"body" yaml:"body"`
}

// Block is an ordered statement sequence. Block{} is the canonical "no-op
// branch" used for an omitted else clause.
type Block struct {
	Stmts []Stmt `json:"stmts" yaml:"stmts"`
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	X Expr `json:"x" yaml:"x"`
}

// If is a conditional; Else is an empty Block when no else clause is written.
type If struct {
	Cond Expr `json:"cond" yaml:"cond"`
	Then Stmt `json:"then" yaml:"then"`
	Else Stmt `json:"else" yaml:"else"`
}

// ForEach iterates a collection: for x in expr.
type ForEach struct {
	Loop Binding `json:"loop" yaml:"loop"`
	Iter Expr    `json:"iter" yaml:"iter"`
	Body Stmt    `json:"body" yaml:"body"`
}

// ForRange counts up to a bound: for x in range(expr).
type ForRange struct {
	Loop  Binding `json:"loop" yaml:"loop"`
	Bound Expr    `json:"bound" yaml:"bound"`
	Body  Stmt    `json:"body" yaml:"body"`
}

// While loops on a condition.
type While struct {
	Cond Expr `json:"cond" yaml:"cond"`
	Body Stmt `json:"body" yaml:"body"`
}

// Return exits a function; Value is Empty when omitted.
type Return struct {
	Value Expr `json:"value" yaml:"value"`
}

// ClassDef is a class definition; Body is always a *Block.
type ClassDef struct {
	Name string `json:"name" yaml:"name"`
	Body Stmt   `json:"body" yaml:"body"`
}

// Assign binds a value to one or more targets. More than one target denotes
// chained assignment (a = b = value); every target is structurally a *Var or
// *ListAccess, enforced by the grammar.
type Assign struct {
	Targets []Expr `json:"targets" yaml:"targets"`
	Value   Expr   `json:"value" yaml:"value"`
}

// TypeQuery is the introspective `type expr` statement.
type TypeQuery struct {
	X Expr `json:"x" yaml:"x"`
}

// Print is the `print expr` statement.
type Print struct {
	X Expr `json:"x" yaml:"x"`
}

// Import is a flat module import.
type Import struct {
	Module string `json:"module" yaml:"module"`
}

// Continue is the loop-continue statement.
type Continue struct{}

// Break is the loop-break statement.
type Break struct{}

// NoOp is the blank-line statement.
type NoOp struct{}

// Pass is the explicit empty-suite statement.
type Pass struct{}

func (*FuncDef) stmtNode()   {}
func (*Block) stmtNode()     {}
func (*ExprStmt) stmtNode()  {}
func (*If) stmtNode()        {}
func (*ForEach) stmtNode()   {}
func (*ForRange) stmtNode()  {}
func (*While) stmtNode()     {}
func (*Return) stmtNode()    {}
func (*ClassDef) stmtNode()  {}
func (*Assign) stmtNode()    {}
func (*TypeQuery) stmtNode() {}
func (*Print) stmtNode()     {}
func (*Import) stmtNode()    {}
func (*Continue) stmtNode()  {}
func (*Break) stmtNode()     {}
func (*NoOp) stmtNode()      {}
func (*Pass) stmtNode()      {}
