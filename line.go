package pipes

import (
	"bytes"
	"io"
)

// Tokenize scans source bytes into the raw token stream, leading TAB/SPACE
// and EOL tokens included, ending with EOF.
func Tokenize(data []byte, opt *ParseOptions) ([]Token, error) {
	return tokenizeReader(bytes.NewReader(data), opt.normalize())
}

// tokenizeReader scans a reader into the raw token stream.
func tokenizeReader(r io.Reader, opt ParseOptions) ([]Token, error) {
	l := newLexer(r, opt)
	var out []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		out = append(out, tok)
		if tok.Kind == TokEOF {
			return out, nil
		}
	}
}

// TokenizeLines scans source bytes and groups the tokens per physical line.
// Every line ends with its terminator (EOL, or EOF on the final line); an
// empty line yields a NoOp sentinel followed by the terminator, so callers
// can tell a blank line from a failed one.
func TokenizeLines(data []byte, opt *ParseOptions) ([][]Token, error) {
	toks, err := Tokenize(data, opt)
	if err != nil {
		return nil, err
	}

	return SplitLines(toks), nil
}

// SplitLines groups an already-lexed token stream per physical line. Tokens
// keep their original order, leading TAB/SPACE included; the terminator of
// each line is kept as its last element.
func SplitLines(toks []Token) [][]Token {
	var lines [][]Token
	var cur []Token
	for _, tok := range toks {
		switch tok.Kind {
		case TokEOL, TokEOF:
			if len(cur) == 0 {
				cur = append(cur, Token{Kind: TokNoOp, Line: tok.Line, Col: tok.Col})
			}
			cur = append(cur, tok)
			lines = append(lines, cur)
			cur = nil

		default:
			cur = append(cur, tok)
		}
	}

	return lines
}
