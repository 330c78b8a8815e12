package pipes

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// lexer scans source text into raw tokens, including the leading TAB/SPACE
// tokens indentation reconciliation measures.
type lexer struct {
	r   *bufio.Reader // Reader for the input
	pos position      // Position of the current character
	ch  rune          // Current character
	opt ParseOptions  // Options for the lexer
	eof bool          // End of input
	bol bool          // At the beginning of a physical line
}

// position represents a position in the input.
type position struct {
	line int // Line number
	col  int // Column number
}

// newLexer creates a new lexer for the source text.
func newLexer(r io.Reader, opt ParseOptions) *lexer {
	l := &lexer{r: bufio.NewReader(r), opt: opt, pos: position{line: 1, col: 0}, bol: true}
	l.read()
	if l.ch == 0xFEFF {
		// Skip UTF-8 BOM if present.
		l.read()
	}

	return l
}

// next returns the next token from the source text.
func (l *lexer) next() (Token, error) {
	if l.eof {
		return Token{Kind: TokEOF, Line: l.pos.line, Col: l.pos.col}, nil
	}

	// Leading whitespace is significant: one TAB or SPACE token per character
	// so the reconciler can count depth.
	if l.bol {
		switch l.ch {
		case '\t':
			tok := Token{Kind: TokTab, Lit: "\t", Line: l.pos.line, Col: l.pos.col}
			l.read()
			return tok, nil
		case ' ':
			tok := Token{Kind: TokSpace, Lit: " ", Line: l.pos.line, Col: l.pos.col}
			l.read()
			return tok, nil
		}
		l.bol = false
	}

	l.skipSpace()
	if l.eof {
		return Token{Kind: TokEOF, Line: l.pos.line, Col: l.pos.col}, nil
	}

	startLine, startCol := l.pos.line, l.pos.col

	if l.ch == '\n' {
		l.read()
		l.bol = true
		return Token{Kind: TokEOL, Line: startLine, Col: startCol}, nil
	}

	// Tokenize the current character.
	switch l.ch {
	case '(':
		l.read()
		return Token{Kind: TokLParen, Lit: "(", Line: startLine, Col: startCol}, nil
	case ')':
		l.read()
		return Token{Kind: TokRParen, Lit: ")", Line: startLine, Col: startCol}, nil
	case '[':
		l.read()
		return Token{Kind: TokLBracket, Lit: "[", Line: startLine, Col: startCol}, nil
	case ']':
		l.read()
		return Token{Kind: TokRBracket, Lit: "]", Line: startLine, Col: startCol}, nil
	case '{':
		l.read()
		return Token{Kind: TokLBrace, Lit: "{", Line: startLine, Col: startCol}, nil
	case '}':
		l.read()
		return Token{Kind: TokRBrace, Lit: "}", Line: startLine, Col: startCol}, nil
	case ',':
		l.read()
		return Token{Kind: TokComma, Lit: ",", Line: startLine, Col: startCol}, nil
	case ':':
		l.read()
		return Token{Kind: TokColon, Lit: ":", Line: startLine, Col: startCol}, nil
	case ';':
		l.read()
		return Token{Kind: TokSemicolon, Lit: ";", Line: startLine, Col: startCol}, nil
	case '.':
		l.read()
		return Token{Kind: TokDot, Lit: ".", Line: startLine, Col: startCol}, nil
	case '|':
		l.read()
		return Token{Kind: TokPipe, Lit: "|", Line: startLine, Col: startCol}, nil

	case '+':
		l.read()
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokPlusEq, Lit: "+=", Line: startLine, Col: startCol}, nil
		}
		return Token{Kind: TokPlus, Lit: "+", Line: startLine, Col: startCol}, nil

	case '-':
		l.read()
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokMinusEq, Lit: "-=", Line: startLine, Col: startCol}, nil
		}
		return Token{Kind: TokMinus, Lit: "-", Line: startLine, Col: startCol}, nil

	case '*':
		l.read()
		if l.ch == '*' && !l.eof {
			l.read()
			if l.ch == '=' && !l.eof {
				l.read()
				return Token{Kind: TokPowEq, Lit: "**=", Line: startLine, Col: startCol}, nil
			}
			return Token{Kind: TokPow, Lit: "**", Line: startLine, Col: startCol}, nil
		}
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokStarEq, Lit: "*=", Line: startLine, Col: startCol}, nil
		}
		return Token{Kind: TokStar, Lit: "*", Line: startLine, Col: startCol}, nil

	case '/':
		l.read()
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokSlashEq, Lit: "/=", Line: startLine, Col: startCol}, nil
		}
		return Token{Kind: TokSlash, Lit: "/", Line: startLine, Col: startCol}, nil

	case '=':
		l.read()
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokEq, Lit: "==", Line: startLine, Col: startCol}, nil
		}
		return Token{Kind: TokAssign, Lit: "=", Line: startLine, Col: startCol}, nil

	case '!':
		l.read()
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokNeq, Lit: "!=", Line: startLine, Col: startCol}, nil
		}
		return Token{}, l.errorf("unexpected character '!'")

	case '<':
		l.read()
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokLeq, Lit: "<=", Line: startLine, Col: startCol}, nil
		}
		return Token{Kind: TokLess, Lit: "<", Line: startLine, Col: startCol}, nil

	case '>':
		l.read()
		if l.ch == '=' && !l.eof {
			l.read()
			return Token{Kind: TokGeq, Lit: ">=", Line: startLine, Col: startCol}, nil
		}
		return Token{Kind: TokGreater, Lit: ">", Line: startLine, Col: startCol}, nil

	case '"':
		lit, err := l.readString()
		return Token{Kind: TokString, Lit: lit, Line: startLine, Col: startCol}, err

	default:
		if isIdentStart(l.ch) {
			lit := l.readIdent()
			if kind, ok := keywords[lit]; ok {
				tok := Token{Kind: kind, Lit: lit, Line: startLine, Col: startCol}
				if kind == TokBool {
					tok.Bool = lit == "true"
				}
				return tok, nil
			}

			return Token{Kind: TokIdent, Lit: lit, Line: startLine, Col: startCol}, nil
		}

		if unicode.IsDigit(l.ch) {
			return l.readNumber(startLine, startCol)
		}

		return Token{}, l.errorf("unexpected character '%c'", l.ch)
	}
}

// read reads the next character from the source text.
func (l *lexer) read() {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		l.eof = true
		l.ch = 0
		return
	}

	if ch == '\n' {
		l.pos.line++
		l.pos.col = 0
	} else {
		l.pos.col++
	}

	l.ch = ch
}

// peek returns the next character from the source text without consuming it.
func (l *lexer) peek() rune {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0
	}

	_ = l.r.UnreadRune()
	return ch
}

// skipSpace skips interior (non-leading) whitespace and comments. Newlines
// are never skipped; they terminate lines.
func (l *lexer) skipSpace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.read()
			if l.eof {
				return
			}
		}

		if !l.opt.DisableComments && l.ch == '#' {
			for l.ch != '\n' && !l.eof {
				l.read()
			}
			continue
		}
		break
	}
}

// readIdent reads an identifier from the source text.
func (l *lexer) readIdent() string {
	var b strings.Builder
	for isIdentPart(l.ch) {
		b.WriteRune(l.ch)
		l.read()
		if l.eof {
			break
		}
	}

	return b.String()
}

// readNumber reads an integer or float literal.
func (l *lexer) readNumber(line, col int) (Token, error) {
	var b strings.Builder
	isFloat := false

	for unicode.IsDigit(l.ch) && !l.eof {
		b.WriteRune(l.ch)
		l.read()
	}

	// Fraction.
	if l.ch == '.' && unicode.IsDigit(l.peek()) && !l.eof {
		isFloat = true
		b.WriteRune('.')
		l.read()
		for unicode.IsDigit(l.ch) && !l.eof {
			b.WriteRune(l.ch)
			l.read()
		}
	}

	// Exponent.
	if (l.ch == 'e' || l.ch == 'E') && !l.eof {
		next := l.peek()
		if unicode.IsDigit(next) || next == '+' || next == '-' {
			isFloat = true
			b.WriteRune(l.ch)
			l.read()
			if l.ch == '+' || l.ch == '-' {
				b.WriteRune(l.ch)
				l.read()
			}
			if !unicode.IsDigit(l.ch) || l.eof {
				return Token{}, l.errorf("malformed number %q", b.String())
			}
			for unicode.IsDigit(l.ch) && !l.eof {
				b.WriteRune(l.ch)
				l.read()
			}
		}
	}

	lit := b.String()
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return Token{}, l.errorf("malformed number %q", lit)
		}
		return Token{Kind: TokFloat, Lit: lit, Float: f, Line: line, Col: col}, nil
	}

	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return Token{}, l.errorf("malformed number %q", lit)
	}

	return Token{Kind: TokInt, Lit: lit, Int: n, Line: line, Col: col}, nil
}

// readString reads a double-quoted string literal. Strings never span lines;
// \\ and \" are the only recognized escapes.
func (l *lexer) readString() (string, error) {
	l.read() // consume opening quote
	var b strings.Builder
	for {
		if l.eof || l.ch == '\n' {
			return "", l.errorf("unterminated string")
		}

		if l.ch == '"' {
			l.read()
			break
		}

		if l.ch == '\\' {
			next := l.peek()
			if next == '\\' || next == '"' {
				l.read()
				b.WriteRune(l.ch)
				l.read()
				continue
			}
		}
		b.WriteRune(l.ch)
		l.read()
	}

	return b.String(), nil
}

// errorf formats an error message and returns an error.
func (l *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrLex, l.pos.line, l.pos.col, fmt.Sprintf(format, args...))
}

// isIdentStart checks if a character is a valid start of an identifier.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isIdentPart checks if a character is a valid part of an identifier.
func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
