package compiler

import (
	"lumen/ast"
	"lumen/bytecode"
	"lumen/token"
)

// ContextType distinguishes the implicit top-level chunk from a chunk
// compiled for a `fun` declaration.
type ContextType int

const (
	TopLevel ContextType = iota
	FunctionContext
)

// Local is one entry in a context's local-variable stack, ordered by
// declaration. Depth is nil while the variable is declared but not yet
// initialized — the window in which `var x = x;` must fail (spec.md §4.4).
type Local struct {
	Name       string
	Span       token.Span
	Depth      *uint32
	IsCaptured bool
}

// Context is one function chunk under construction: its own instruction
// stream (via the Module's Chunk), its own local stack, scope depth, and
// upvalue table. The compiler keeps a stack of these, one per nested
// function currently being compiled (spec.md §4.4).
type Context struct {
	Type       ContextType
	ChunkIndex bytecode.ChunkIndex
	Locals     []Local
	ScopeDepth uint32
	Upvalues   []bytecode.Upvalue

	// maxLocalsSeen is the high-water mark of len(Locals), written to the
	// chunk's MaxLocals once this context finishes compiling.
	maxLocalsSeen int
}

func newContext(kind ContextType, chunkIndex bytecode.ChunkIndex) *Context {
	ctx := &Context{Type: kind, ChunkIndex: chunkIndex}
	if kind == FunctionContext {
		// Slot 0 is reserved for the called function/receiver at runtime;
		// it is never resolvable by name.
		depth := uint32(0)
		ctx.Locals = append(ctx.Locals, Local{Name: "", Depth: &depth})
	}
	return ctx
}

func (ctx *Context) pushScope() {
	ctx.ScopeDepth++
}

// popScope discards locals declared at or past the scope being exited,
// returning how many were discarded so the caller can emit one Pop per
// local (spec.md §4.4's "pop_scope ... emitting a Pop for each").
func (ctx *Context) popScope() int {
	ctx.ScopeDepth--
	discarded := 0
	for len(ctx.Locals) > 0 {
		last := ctx.Locals[len(ctx.Locals)-1]
		if last.Depth == nil || *last.Depth <= ctx.ScopeDepth {
			break
		}
		ctx.Locals = ctx.Locals[:len(ctx.Locals)-1]
		discarded++
	}
	return discarded
}

// isGlobalScope reports whether a bare identifier declared right now
// would be a global: only true at TopLevel while no block has pushed a
// deeper scope. A nested `{ }` at the top level still creates real
// locals in the top-level chunk, the same as inside a function body.
func (ctx *Context) isGlobalScope() bool {
	return ctx.Type == TopLevel && ctx.ScopeDepth == 0
}

// declareVariable adds a new, not-yet-initialized local at the current
// scope depth in a scoped context; it is a no-op at global scope.
// Colliding with an existing local at the SAME depth is a hard
// LocalAlreadyDefinedError.
func (ctx *Context) declareVariable(name ast.IdentSpan) error {
	if ctx.isGlobalScope() {
		return nil
	}
	for i := len(ctx.Locals) - 1; i >= 0; i-- {
		local := ctx.Locals[i]
		if local.Depth != nil && *local.Depth < ctx.ScopeDepth {
			break
		}
		if local.Name == name.Name {
			return LocalAlreadyDefinedError{Name: name.Name, Span: name.Span}
		}
	}
	ctx.Locals = append(ctx.Locals, Local{Name: name.Name, Span: name.Span})
	return nil
}

// defineVariable marks the most recently declared local as initialized by
// setting its depth to the current scope depth.
func (ctx *Context) defineVariable() {
	if len(ctx.Locals) == 0 {
		return
	}
	depth := ctx.ScopeDepth
	ctx.Locals[len(ctx.Locals)-1].Depth = &depth
}

// resolveLocal scans this context's locals from most to least recent.
// A name match whose Depth is still nil means the variable's own
// initializer is reading it — a hard error. A miss returns (-1, nil).
func (ctx *Context) resolveLocal(name string) (int, error) {
	for i := len(ctx.Locals) - 1; i >= 0; i-- {
		local := ctx.Locals[i]
		if local.Name != name {
			continue
		}
		if local.Depth == nil {
			return -1, LocalNotInitializedError{Name: name, Span: local.Span}
		}
		return i, nil
	}
	return -1, nil
}

// addUpvalue deduplicates by (index, isLocal) and returns the existing
// slot on a repeat capture (spec.md §4.4).
func (ctx *Context) addUpvalue(index int, isLocal bool) int {
	for i, up := range ctx.Upvalues {
		if up.Index == index && up.IsLocal == isLocal {
			return i
		}
	}
	ctx.Upvalues = append(ctx.Upvalues, bytecode.Upvalue{Index: index, IsLocal: isLocal})
	return len(ctx.Upvalues) - 1
}
