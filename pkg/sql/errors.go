package sql

import "fmt"

// CompileErrorKind distinguishes a grammar failure (the input is not a
// syntactically valid query in the supported subset) from a resolution
// failure (the query is syntactically valid but refers to something that
// does not exist or is not supported), per SPEC_FULL.md §7.
type CompileErrorKind int

const (
	// KindGrammar: the lexer/parser could not parse the input.
	KindGrammar CompileErrorKind = iota
	// KindResolution: parsed successfully but a name, type, or
	// combination (unsupported OR, non-inner join, ...) could not be
	// resolved against the catalog or the gate family.
	KindResolution
)

func (k CompileErrorKind) String() string {
	if k == KindGrammar {
		return "grammar"
	}
	return "resolution"
}

// CompileError is returned by Parse and Compile. It is non-fatal: callers
// are expected to report it to the query author and stop, not to treat it
// as an internal error.
type CompileError struct {
	Kind    CompileErrorKind
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("sql: %s error: %s", e.Kind, e.Message)
}

func grammarErrorf(format string, args ...any) error {
	return &CompileError{Kind: KindGrammar, Message: fmt.Sprintf(format, args...)}
}

func resolutionErrorf(format string, args ...any) error {
	return &CompileError{Kind: KindResolution, Message: fmt.Sprintf(format, args...)}
}
