package pipes

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Parse parses a program from bytes.
func Parse(data []byte, opt *ParseOptions) (*Program, error) {
	return Decode(bytes.NewReader(data), opt)
}

// Decode parses a program from a reader.
func Decode(r io.Reader, opt *ParseOptions) (*Program, error) {
	popt := opt.normalize()
	toks, err := tokenizeReader(r, popt)
	if err != nil {
		return nil, err
	}

	stream, err := Reconcile(SplitLines(toks))
	if err != nil {
		return nil, err
	}

	p := &parser{toks: stream, opt: popt}
	return p.parseProgram()
}

// DecodeFile parses a program from a file.
func DecodeFile(path string, opt *ParseOptions) (*Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, opt)
}

// parser consumes the reconciled token stream and builds the AST. Any token
// sequence with no matching production is a hard error; no recovery, no
// partial tree.
type parser struct {
	toks []Token      // Reconciled token stream
	pos  int          // Index of the next token
	opt  ParseOptions // Options for the parser
}

// next consumes and returns the next token.
func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}

	return tok
}

// peek returns the next token without consuming it.
func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: TokEOF}
	}

	return p.toks[p.pos]
}

// expect consumes a token of the given kind.
func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", kind, tok.Kind)
	}

	return tok, nil
}

// errorf formats a parse error at a token's position.
func (p *parser) errorf(tok Token, format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrParse, tok.Line, tok.Col, fmt.Sprintf(format, args...))
}

// parseProgram parses the ordered sequence of top-level statements.
func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for {
		p.skipSeparators()
		if p.peek().Kind == TokEOF {
			break
		}

		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		prog.Stmts = append(prog.Stmts, s)
	}

	return prog, nil
}

// skipSeparators consumes statement separators between statements.
func (p *parser) skipSeparators() {
	for {
		switch p.peek().Kind {
		case TokEOL, TokSemicolon:
			p.next()
		default:
			return
		}
	}
}

// parseStmt parses a single statement.
func (p *parser) parseStmt() (Stmt, error) {
	switch p.peek().Kind {
	case TokIf:
		return p.parseIf()
	case TokWhile:
		return p.parseWhile()
	case TokFor:
		return p.parseFor()
	case TokDef:
		return p.parseDef()
	case TokClass:
		return p.parseClass()
	case TokReturn:
		return p.parseReturn()
	case TokImport:
		return p.parseImport()

	case TokType:
		p.next()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &TypeQuery{X: x}, nil

	case TokPrint:
		p.next()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &Print{X: x}, nil

	case TokPass:
		p.next()
		return &Pass{}, nil
	case TokContinue:
		p.next()
		return &Continue{}, nil
	case TokBreak:
		p.next()
		return &Break{}, nil
	case TokNoOp:
		p.next()
		return &NoOp{}, nil

	default:
		return p.parseSimple()
	}
}

// parseSimple parses an expression statement or an assignment. The left side
// of '=' is restricted to variable references (optionally annotated on first
// binding) and list-index expressions; nothing else has a production here.
func (p *parser) parseSimple() (Stmt, error) {
	lhs, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	// First-binding type annotation: name ':' type '=' value.
	if p.peek().Kind == TokColon {
		v, ok := lhs.(*Var)
		if !ok {
			return nil, p.errorf(p.peek(), "type annotation requires a variable target")
		}
		p.next()
		t, err := p.parseAnnotation(false)
		if err != nil {
			return nil, err
		}
		lhs = &Var{Binding: Binding{Name: v.Binding.Name, Type: t}}
		if p.peek().Kind != TokAssign {
			return nil, p.errorf(p.peek(), "expected = after annotated binding")
		}
	}

	switch p.peek().Kind {
	case TokAssign:
		targets := []Expr{}
		cur := lhs
		for p.peek().Kind == TokAssign {
			tok := p.next()
			if !isLValue(cur) {
				return nil, p.errorf(tok, "invalid assignment target")
			}
			targets = append(targets, cur)
			cur, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		return &Assign{Targets: targets, Value: cur}, nil

	case TokPlusEq, TokMinusEq, TokStarEq, TokSlashEq, TokPowEq:
		tok := p.next()
		if !isLValue(lhs) {
			return nil, p.errorf(tok, "invalid assignment target")
		}
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		// Compound assignment is pure sugar: desugar into the plain shape.
		op := compoundOp(tok.Kind)
		return &Assign{
			Targets: []Expr{lhs},
			Value:   &BinaryOp{Left: lhs, Op: op, Right: rhs},
		}, nil

	default:
		return &ExprStmt{X: lhs}, nil
	}
}

// compoundOp maps a compound assignment token to its binary operator.
func compoundOp(kind TokenKind) Operator {
	switch kind {
	case TokMinusEq:
		return OpSub
	case TokStarEq:
		return OpMul
	case TokSlashEq:
		return OpDiv
	case TokPowEq:
		return OpExp
	default:
		return OpAdd
	}
}

// isLValue checks if an expression is admissible as an assignment target.
func isLValue(e Expr) bool {
	switch e.(type) {
	case *Var, *ListAccess:
		return true
	default:
		return false
	}
}

// parseIf parses a conditional. A trailing else always attaches to the
// nearest open if; without one the else-branch defaults to an empty block.
func (p *parser) parseIf() (Stmt, error) {
	p.next()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}

	then, err := p.parseSuite(false)
	if err != nil {
		return nil, err
	}

	var els Stmt = &Block{}
	if p.peek().Kind == TokElse {
		p.next()
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		els, err = p.parseSuite(false)
		if err != nil {
			return nil, err
		}
	}

	return &If{Cond: cond, Then: then, Else: els}, nil
}

// parseWhile parses a while loop.
func (p *parser) parseWhile() (Stmt, error) {
	p.next()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}

	body, err := p.parseSuite(false)
	if err != nil {
		return nil, err
	}

	return &While{Cond: cond, Body: body}, nil
}

// parseFor parses a for loop: over a collection, or over a range bound.
func (p *parser) parseFor() (Stmt, error) {
	p.next()
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokIn); err != nil {
		return nil, err
	}

	loop := Binding{Name: nameTok.Lit, Type: TypeDyn}

	if p.peek().Kind == TokRange {
		p.next()
		bound, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		body, err := p.parseSuite(false)
		if err != nil {
			return nil, err
		}
		return &ForRange{Loop: loop, Bound: bound, Body: body}, nil
	}

	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	body, err := p.parseSuite(false)
	if err != nil {
		return nil, err
	}

	return &ForEach{Loop: loop, Iter: iter, Body: body}, nil
}

// parseDef parses a function definition. The body must be an indented block.
func (p *parser) parseDef() (Stmt, error) {
	p.next()
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}

	var params []Binding
	if p.peek().Kind != TokRParen {
		for {
			pname, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}

			t := TypeDyn
			if p.peek().Kind == TokColon {
				p.next()
				t, err = p.parseAnnotation(true)
				if err != nil {
					return nil, err
				}
			}
			params = append(params, Binding{Name: pname.Lit, Type: t})

			if p.peek().Kind != TokComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}

	body, err := p.parseSuite(true)
	if err != nil {
		return nil, err
	}

	return &FuncDef{
		Name:   &Binding{Name: nameTok.Lit, Type: TypeDyn},
		Params: params,
		Body:   body,
	}, nil
}

// parseClass parses a class definition. The body must be an indented block.
func (p *parser) parseClass() (Stmt, error) {
	p.next()
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}

	body, err := p.parseSuite(true)
	if err != nil {
		return nil, err
	}

	return &ClassDef{Name: nameTok.Lit, Body: body}, nil
}

// parseReturn parses a return statement; the value defaults to Empty.
func (p *parser) parseReturn() (Stmt, error) {
	p.next()
	switch p.peek().Kind {
	case TokEOL, TokSemicolon, TokEOF, TokDedent, TokElse:
		return &Return{Value: &Empty{}}, nil
	}

	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Return{Value: x}, nil
}

// parseImport parses a flat module import.
func (p *parser) parseImport() (Stmt, error) {
	p.next()
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}

	return &Import{Module: nameTok.Lit}, nil
}

// parseAnnotation parses a type annotation keyword. The func type is only
// admissible on formal parameters.
func (p *parser) parseAnnotation(allowFunc bool) (Type, error) {
	tok := p.next()
	switch tok.Kind {
	case TokKwInt:
		return TypeInt, nil
	case TokKwFloat:
		return TypeFloat, nil
	case TokKwBool:
		return TypeBool, nil
	case TokKwStr:
		return TypeString, nil
	case TokKwArr:
		return TypeArr, nil
	case TokKwDyn:
		return TypeDyn, nil
	case TokKwFunc:
		if !allowFunc {
			return TypeDyn, p.errorf(tok, "func annotation is only allowed on formal parameters")
		}
		return TypeFunc, nil
	default:
		return TypeDyn, p.errorf(tok, "expected type annotation, found %s", tok.Kind)
	}
}

// parseSuite parses the body of a compound statement: either an indented
// block, or (when requireBlock is false) one or more inline statements on
// the same line. The result is always a Block.
func (p *parser) parseSuite(requireBlock bool) (Stmt, error) {
	if p.peek().Kind == TokEOL {
		p.next()
		if _, err := p.expect(TokIndent); err != nil {
			return nil, err
		}

		var stmts []Stmt
		for {
			p.skipSeparators()
			switch p.peek().Kind {
			case TokDedent:
				p.next()
				return &Block{Stmts: stmts}, nil
			case TokEOF:
				return nil, p.errorf(p.peek(), "unexpected end of input in indented block")
			}

			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
		}
	}

	if requireBlock {
		return nil, p.errorf(p.peek(), "expected an indented block")
	}

	// Inline suite on the header line.
	s, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	stmts := []Stmt{s}
	for p.peek().Kind == TokSemicolon {
		p.next()
		switch p.peek().Kind {
		case TokEOL, TokEOF, TokElse, TokDedent:
		default:
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
			continue
		}
		break
	}

	return &Block{Stmts: stmts}, nil
}

// Expression precedence tiers, loosest to tightest. Pipe is the loosest
// binary operator; juxtaposition and the other postfix forms bind tightest
// and are handled in parsePostfix.
const (
	precPipe = iota + 1
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precExponent
)

// binaryPrec returns the precedence tier and operator for a binary token.
func binaryPrec(kind TokenKind) (int, Operator, bool) {
	switch kind {
	case TokOr:
		return precOr, OpOr, true
	case TokAnd:
		return precAnd, OpAnd, true
	case TokEq:
		return precEquality, OpEq, true
	case TokNeq:
		return precEquality, OpNeq, true
	case TokLess:
		return precRelational, OpLess, true
	case TokLeq:
		return precRelational, OpLeq, true
	case TokGreater:
		return precRelational, OpGreater, true
	case TokGeq:
		return precRelational, OpGeq, true
	case TokPlus:
		return precAdditive, OpAdd, true
	case TokMinus:
		return precAdditive, OpSub, true
	case TokStar:
		return precMultiplicative, OpMul, true
	case TokSlash:
		return precMultiplicative, OpDiv, true
	case TokPow:
		return precExponent, OpExp, true
	default:
		return 0, 0, false
	}
}

// parseExpression parses a full expression.
func (p *parser) parseExpression() (Expr, error) {
	return p.parseBinary(precPipe)
}

// parseBinary climbs the precedence ladder. Exponentiation is
// right-associative; everything else associates left. x | f is sugar for
// a one-argument call of f with x.
func (p *parser) parseBinary(min int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		kind := p.peek().Kind

		if kind == TokPipe && precPipe >= min {
			p.next()
			right, err := p.parseBinary(precPipe + 1)
			if err != nil {
				return nil, err
			}
			left = &Call{Fn: right, Args: []Expr{left}}
			continue
		}

		prec, op, ok := binaryPrec(kind)
		if !ok || prec < min {
			return left, nil
		}
		p.next()

		next := prec + 1
		if op == OpExp {
			next = prec
		}
		right, err := p.parseBinary(next)
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

// parseUnary parses right-associative prefix operators.
func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().Kind {
	case TokMinus:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: UnaryNeg, Operand: operand}, nil

	case TokNot:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: UnaryNot, Operand: operand}, nil

	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses the tightest-binding forms: argument lists, dot
// access, indexing and slicing, and juxtaposition. A dot is a field access
// unless an argument list follows immediately, which makes it a method call.
func (p *parser) parsePostfix() (Expr, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Kind {
		case TokLParen:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			x = &Call{Fn: x, Args: args}

		case TokDot:
			p.next()
			nameTok, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			if p.peek().Kind == TokLParen {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				x = &MethodCall{Recv: x, Name: nameTok.Lit, Args: args}
				continue
			}
			x = &FieldAccess{Recv: x, Name: nameTok.Lit}

		case TokLBracket:
			x, err = p.parseIndex(x)
			if err != nil {
				return nil, err
			}

		default:
			// Juxtaposition: an adjacent atom is a one-argument call.
			if !isAtomStart(p.peek().Kind) {
				return x, nil
			}
			arg, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			x = &Call{Fn: x, Args: []Expr{arg}}
		}
	}
}

// isAtomStart reports whether a token can begin a juxtaposed argument.
// The set is restricted to unambiguous atom starts so `a - b` stays a
// subtraction and `f -x` is never a call.
func isAtomStart(kind TokenKind) bool {
	switch kind {
	case TokIdent, TokInt, TokFloat, TokString, TokBool:
		return true
	default:
		return false
	}
}

// parseArgs parses a parenthesized, comma-separated argument list. The
// returned slice is non-nil even for an empty list.
func (p *parser) parseArgs() ([]Expr, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}

	args := []Expr{}
	if p.peek().Kind == TokRParen {
		p.next()
		return args, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.next()
		switch tok.Kind {
		case TokComma:
			continue
		case TokRParen:
			return args, nil
		default:
			return nil, p.errorf(tok, "expected , or ) in argument list")
		}
	}
}

// parseIndex parses collection[index] or collection[low:high]; an omitted
// slice bound is Empty.
func (p *parser) parseIndex(x Expr) (Expr, error) {
	if _, err := p.expect(TokLBracket); err != nil {
		return nil, err
	}

	var low Expr = &Empty{}
	if p.peek().Kind != TokColon {
		var err error
		low, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if p.peek().Kind == TokColon {
		p.next()
		var high Expr = &Empty{}
		if p.peek().Kind != TokRBracket {
			var err error
			high, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		return &ListSlice{List: x, Low: low, High: high}, nil
	}

	if _, err := p.expect(TokRBracket); err != nil {
		return nil, err
	}

	return &ListAccess{List: x, Index: low}, nil
}

// parseAtom parses the smallest expression forms. A type keyword applied to
// a parenthesized operand is a cast, never a call: type keywords are not
// reducible to variable references.
func (p *parser) parseAtom() (Expr, error) {
	tok := p.next()
	switch tok.Kind {
	case TokInt:
		return &Lit{Value: Literal{Kind: LitInt, Int: tok.Int}}, nil
	case TokFloat:
		return &Lit{Value: Literal{Kind: LitFloat, Float: tok.Float}}, nil
	case TokString:
		return &Lit{Value: Literal{Kind: LitString, Str: tok.Lit}}, nil
	case TokBool:
		return &Lit{Value: Literal{Kind: LitBool, Bool: tok.Bool}}, nil
	case TokNone:
		return &Empty{}, nil

	case TokIdent:
		return &Var{Binding: Binding{Name: tok.Lit, Type: TypeDyn}}, nil

	case TokLParen:
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return x, nil

	case TokLBracket:
		return p.parseListLit()

	case TokLambda:
		var params []Binding
		for p.peek().Kind == TokIdent {
			params = append(params, Binding{Name: p.next().Lit, Type: TypeDyn})
		}
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &Lambda{Params: params, Body: body}, nil

	case TokKwInt:
		return p.parseCast(TypeInt)
	case TokKwFloat:
		return p.parseCast(TypeFloat)
	case TokKwBool:
		return p.parseCast(TypeBool)
	case TokKwStr:
		return p.parseCast(TypeString)

	default:
		return nil, p.errorf(tok, "unexpected %s in expression", tok.Kind)
	}
}

// parseListLit parses the remainder of a list literal after '['.
func (p *parser) parseListLit() (Expr, error) {
	elems := []Expr{}
	if p.peek().Kind == TokRBracket {
		p.next()
		return &ListLit{Elems: elems}, nil
	}

	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)

		tok := p.next()
		switch tok.Kind {
		case TokComma:
			continue
		case TokRBracket:
			return &ListLit{Elems: elems}, nil
		default:
			return nil, p.errorf(tok, "expected , or ] in list literal")
		}
	}
}

// parseCast parses the parenthesized operand of a type cast.
func (p *parser) parseCast(to Type) (Expr, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}

	return &Cast{To: to, Operand: x}, nil
}
