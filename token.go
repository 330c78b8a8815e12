package pipes

// TokenKind identifies the lexical category of a token.
//
// The vocabulary is closed: a new kind must be added here, to the line
// tokenizer's pass-through in line.go, and to tokenNames below at the same
// time, or the token silently vanishes from diagnostics.
type TokenKind int

// Token kinds.
const (
	TokEOF       TokenKind = iota // End of input
	TokEOL                        // Physical line terminator
	TokSemicolon                  // Statement separator within a line
	TokNoOp                       // Blank-line sentinel

	// Indentation markers
	TokTab    // Leading tab
	TokSpace  // Leading space
	TokIndent // Depth increase (inserted by reconciliation)
	TokDedent // Depth decrease (inserted by reconciliation)

	// Payload-carrying kinds
	TokIdent  // Identifier
	TokInt    // Integer literal
	TokFloat  // Float literal
	TokString // String literal
	TokBool   // Boolean literal (true/false)

	// Keywords
	TokIf       // if
	TokElse     // else
	TokFor      // for
	TokWhile    // while
	TokDef      // def
	TokReturn   // return
	TokClass    // class
	TokImport   // import
	TokRange    // range
	TokLambda   // lambda
	TokType     // type
	TokPass     // pass
	TokContinue // continue
	TokBreak    // break
	TokIn       // in
	TokIs       // is
	TokPrint    // print
	TokNone     // none

	// Type keywords
	TokKwInt   // int
	TokKwFloat // float
	TokKwBool  // bool
	TokKwStr   // str
	TokKwArr   // arr
	TokKwFunc  // func
	TokKwDyn   // dyn

	// Operators
	TokPlus      // +
	TokMinus     // -
	TokStar      // *
	TokSlash     // /
	TokPow       // **
	TokEq        // ==
	TokNeq       // !=
	TokLess      // <
	TokLeq       // <=
	TokGreater   // >
	TokGeq       // >=
	TokAnd       // and
	TokOr        // or
	TokNot       // not
	TokPipe      // |
	TokDot       // .
	TokComma     // ,
	TokColon     // :
	TokAssign    // =
	TokPlusEq    // +=
	TokMinusEq   // -=
	TokStarEq    // *=
	TokSlashEq   // /=
	TokPowEq     // **=

	// Bracket pairs
	TokLParen   // (
	TokRParen   // )
	TokLBracket // [
	TokRBracket // ]
	TokLBrace   // {
	TokRBrace   // }
)

// Token represents a lexical unit with its source position. Literal kinds
// carry their decoded payload alongside the raw literal text.
type Token struct {
	Lit   string    // Raw literal text of the token
	Kind  TokenKind // Kind of the token
	Int   int64     // Decoded value for TokInt
	Float float64   // Decoded value for TokFloat
	Bool  bool      // Decoded value for TokBool
	Line  int       // Line number of the token
	Col   int       // Column number of the token
}

// tokenNames is indexed by TokenKind; every kind in the vocabulary has an
// entry so diagnostics can always name the offending token.
var tokenNames = [...]string{
	TokEOF:       "EOF",
	TokEOL:       "end of line",
	TokSemicolon: ";",
	TokNoOp:      "blank line",
	TokTab:       "tab",
	TokSpace:     "space",
	TokIndent:    "indent",
	TokDedent:    "dedent",
	TokIdent:     "identifier",
	TokInt:       "integer",
	TokFloat:     "float literal",
	TokString:    "string",
	TokBool:      "boolean",
	TokIf:        "if",
	TokElse:      "else",
	TokFor:       "for",
	TokWhile:     "while",
	TokDef:       "def",
	TokReturn:    "return",
	TokClass:     "class",
	TokImport:    "import",
	TokRange:     "range",
	TokLambda:    "lambda",
	TokType:      "type",
	TokPass:      "pass",
	TokContinue:  "continue",
	TokBreak:     "break",
	TokIn:        "in",
	TokIs:        "is",
	TokPrint:     "print",
	TokNone:      "none",
	TokKwInt:     "int",
	TokKwFloat:   "float",
	TokKwBool:    "bool",
	TokKwStr:     "str",
	TokKwArr:     "arr",
	TokKwFunc:    "func",
	TokKwDyn:     "dyn",
	TokPlus:      "+",
	TokMinus:     "-",
	TokStar:      "*",
	TokSlash:     "/",
	TokPow:       "**",
	TokEq:        "==",
	TokNeq:       "!=",
	TokLess:      "<",
	TokLeq:       "<=",
	TokGreater:   ">",
	TokGeq:       ">=",
	TokAnd:       "and",
	TokOr:        "or",
	TokNot:       "not",
	TokPipe:      "|",
	TokDot:       ".",
	TokComma:     ",",
	TokColon:     ":",
	TokAssign:    "=",
	TokPlusEq:    "+=",
	TokMinusEq:   "-=",
	TokStarEq:    "*=",
	TokSlashEq:   "/=",
	TokPowEq:     "**=",
	TokLParen:    "(",
	TokRParen:    ")",
	TokLBracket:  "[",
	TokRBracket:  "]",
	TokLBrace:    "{",
	TokRBrace:    "}",
}

// String returns the display name of a token kind.
func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) || tokenNames[k] == "" {
		return "token"
	}

	return tokenNames[k]
}

// keywords maps identifier spellings to their keyword token kinds.
var keywords = map[string]TokenKind{
	"if":       TokIf,
	"else":     TokElse,
	"for":      TokFor,
	"while":    TokWhile,
	"def":      TokDef,
	"return":   TokReturn,
	"class":    TokClass,
	"import":   TokImport,
	"range":    TokRange,
	"lambda":   TokLambda,
	"type":     TokType,
	"pass":     TokPass,
	"continue": TokContinue,
	"break":    TokBreak,
	"in":       TokIn,
	"is":       TokIs,
	"print":    TokPrint,
	"none":     TokNone,
	"and":      TokAnd,
	"or":       TokOr,
	"not":      TokNot,
	"true":     TokBool,
	"false":    TokBool,
	"int":      TokKwInt,
	"float":    TokKwFloat,
	"bool":     TokKwBool,
	"str":      TokKwStr,
	"arr":      TokKwArr,
	"func":     TokKwFunc,
	"dyn":      TokKwDyn,
}
