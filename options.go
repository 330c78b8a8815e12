package pipes

// ParseOptions controls lexing and parsing behavior.
type ParseOptions struct {
	// DisableComments disables # line comments.
	DisableComments bool
}

// FormatOptions controls renderer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is one tab).
	// Reconciliation counts one depth unit per leading TAB or SPACE token, so
	// the default keeps rendered output reparseable at the same depths.
	Indent string
}

// ValidateOptions controls AST validation rules.
type ValidateOptions struct {
	// DisableShapeCheck disables structural checks (lvalue shapes, block-shaped
	// bodies, non-empty binding names, list-access operator misuse).
	DisableShapeCheck bool
	// DisableReservedCheck disables warnings for reserved, always-empty fields
	// such as a function's partial-application list.
	DisableReservedCheck bool
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{}
	}

	return *o
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "\t"}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "\t"
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{}
	}

	return *o
}
