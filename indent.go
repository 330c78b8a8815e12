package pipes

import "fmt"

// Reconcile converts per-line token lists into the single statement stream
// the grammar consumes. For each line the leading TAB/SPACE tokens are
// counted as the line's depth; a depth increase pushes onto the stack and
// emits one INDENT, a decrease pops and emits one DEDENT per exceeded depth,
// and a depth matching no stack entry is an ErrIndent. Blank lines carry no
// indentation signal and are dropped. The returned stream ends with EOF,
// preceded by the DEDENTs closing any still-open blocks.
func Reconcile(lines [][]Token) ([]Token, error) {
	stack := []int{0}
	var out []Token
	last := Token{Kind: TokEOF, Line: 1, Col: 0}

	for _, line := range lines {
		depth := 0
		for depth < len(line) && (line[depth].Kind == TokTab || line[depth].Kind == TokSpace) {
			depth++
		}
		rest := line[depth:]
		if len(rest) == 0 {
			continue
		}
		last = rest[len(rest)-1]

		// Blank and comment-only lines.
		if rest[0].Kind == TokNoOp || rest[0].Kind == TokEOL || rest[0].Kind == TokEOF {
			continue
		}

		top := stack[len(stack)-1]
		switch {
		case depth > top:
			stack = append(stack, depth)
			out = append(out, Token{Kind: TokIndent, Line: rest[0].Line, Col: 0})

		case depth < top:
			for len(stack) > 1 && stack[len(stack)-1] > depth {
				stack = stack[:len(stack)-1]
				out = append(out, Token{Kind: TokDedent, Line: rest[0].Line, Col: 0})
			}
			if stack[len(stack)-1] != depth {
				return nil, fmt.Errorf("%w at line %d: dedent to unknown depth %d", ErrIndent, rest[0].Line, depth)
			}
		}

		// The grammar sees a uniform line separator regardless of whether the
		// source line ended in a newline or at end of input.
		if rest[len(rest)-1].Kind == TokEOF {
			rest = rest[:len(rest)-1]
			rest = append(rest, Token{Kind: TokEOL, Line: last.Line, Col: last.Col})
		}
		out = append(out, rest...)
	}

	for len(stack) > 1 {
		stack = stack[:len(stack)-1]
		out = append(out, Token{Kind: TokDedent, Line: last.Line, Col: last.Col})
	}
	out = append(out, Token{Kind: TokEOF, Line: last.Line, Col: last.Col})

	return out, nil
}
