package pipes

import "errors"

var (
	// ErrLex indicates a lexer failure.
	ErrLex = errors.New("lex error")

	// ErrIndent indicates inconsistent indentation during reconciliation.
	ErrIndent = errors.New("indentation error")

	// ErrParse indicates a parser failure.
	ErrParse = errors.New("parse error")
)
