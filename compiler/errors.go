package compiler

import (
	"fmt"
	"strings"

	"lumen/token"
)

// CompileError is the closed set of semantic failures the compiler can
// raise (spec.md §7). Each hard case is panicked with one of these and
// caught once per top-level statement; Multiple aggregates the
// independent per-statement failures compile_ast collects.
type CompileError interface {
	error
	isCompileError()
}

// UnpatchableInstructionError means a jump placeholder survived to the
// end of a chunk without being patched — an internal invariant violation,
// never expected to surface for a correct compiler.
type UnpatchableInstructionError struct {
	Detail string
}

func (e UnpatchableInstructionError) Error() string {
	return fmt.Sprintf("unpatchable instruction: %s", e.Detail)
}
func (UnpatchableInstructionError) isCompileError() {}

// NoContextError is raised by a `return` statement outside any function
// context (spec.md §4.5: Return at top level is an error).
type NoContextError struct {
	Span token.Span
}

func (e NoContextError) Error() string {
	return fmt.Sprintf("return outside function at %s", e.Span.Start)
}
func (NoContextError) isCompileError() {}

// LocalAlreadyDefinedError is raised when a local of the same name already
// exists at the current scope depth. Kept as a hard error rather than
// accumulated (spec.md §9 open question: the source TODO to convert it to
// add_error is a legitimate but non-mandatory alternative; a redeclared
// local would otherwise corrupt slot indices for every local declared
// after it in the same scope, so this compiler stops immediately instead
// of continuing to compile against a local table it no longer trusts).
type LocalAlreadyDefinedError struct {
	Name string
	Span token.Span
}

func (e LocalAlreadyDefinedError) Error() string {
	return fmt.Sprintf("local already defined: %q at %s", e.Name, e.Span.Start)
}
func (LocalAlreadyDefinedError) isCompileError() {}

// LocalNotInitializedError is raised when a variable's own initializer
// expression reads that same variable, e.g. `var x = x;` (spec.md §4.4).
type LocalNotInitializedError struct {
	Name string
	Span token.Span
}

func (e LocalNotInitializedError) Error() string {
	return fmt.Sprintf("cannot read local %q in its own initializer (declared at %s)", e.Name, e.Span.Start)
}
func (LocalNotInitializedError) isCompileError() {}

// Multiple aggregates the independent compile errors collected across a
// program's top-level statements (spec.md §4.5 / §7): one bad statement
// never masks diagnostics from the rest.
type Multiple struct {
	Errors []error
}

func (e Multiple) Error() string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("%d compile errors:\n%s", len(e.Errors), strings.Join(messages, "\n"))
}
func (Multiple) isCompileError() {}
