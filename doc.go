/*
Package pipes provides the syntactic front end of the Pipes language: a
line/indentation tokenizer, the statement and expression grammar, the AST
model, and the canonical renderer.

Parsing is a pure, deterministic transformation: a unit either parses to a
tree or fails outright, and nothing is retained between invocations, so
independent units may be parsed in parallel without synchronization.

Reader example:

	prog, err := pipes.DecodeFile("main.pipes", nil)
	if err != nil {
		// handle error
	}

Writer example:

	out, err := pipes.Format(prog, nil)
	if err != nil {
		// handle error
	}

Validator example:

	issues := pipes.Validate(prog, nil)
	if len(issues) != 0 {
		// handle modeling issues
	}

Pipeline stages are also exposed individually:

	lines, err := pipes.TokenizeLines(src, nil) // per-line token groups
	stream, err := pipes.Reconcile(lines)       // INDENT/DEDENT insertion
*/
package pipes
