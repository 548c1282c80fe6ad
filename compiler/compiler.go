// Package compiler walks an AST and emits a bytecode Module: a single-pass,
// stack-discipline-aware compiler that resolves identifiers as local,
// upvalue, or global, manages lexical scopes, and patches forward jumps
// for control flow.
//
// Grounded on informatter-nilan/compiler/ast_compiler.go's ASTCompiler
// (a visitor over ast.Expr/ast.Stmt emitting directly into a flat
// instruction stream, with declare/define-local split and panic-driven
// semantic errors), generalized from Nilan's single always-current
// compiler into an explicit context stack so nested `fun` declarations
// each get their own chunk and can capture enclosing locals as upvalues
// (spec.md §4.4) — a case Nilan's flat compiler never has to handle.
package compiler

import (
	"fmt"

	"lumen/ast"
	"lumen/bytecode"
)

// Compiler holds the context stack and the module being built. Each
// CompileAST call starts a fresh Compiler; there is no shared state across
// runs (spec.md §5).
type Compiler struct {
	module   *bytecode.Module
	contexts []*Context
}

func newCompiler() *Compiler {
	module := bytecode.NewModule()
	top := newContext(TopLevel, 0)
	return &Compiler{module: module, contexts: []*Context{top}}
}

func (c *Compiler) current() *Context {
	return c.contexts[len(c.contexts)-1]
}

func (c *Compiler) chunk() *bytecode.Chunk {
	return c.module.Chunk(c.current().ChunkIndex)
}

func (c *Compiler) emit(op bytecode.Opcode, operands ...int) int {
	pos := c.chunk().Emit(op, operands...)
	local := c.current()
	live := len(local.Locals)
	if live > local.maxLocalsSeen {
		local.maxLocalsSeen = live
	}
	return pos
}

func (c *Compiler) emitJump(op bytecode.Opcode) int {
	return c.chunk().EmitJump(op)
}

func (c *Compiler) patchJump(offset int) {
	c.chunk().PatchJump(offset)
}

func (c *Compiler) patchJumpTo(offset, target int) {
	c.chunk().PatchJumpTo(offset, target)
}

// declareVariable panics with LocalAlreadyDefinedError on a same-scope
// collision; it is a no-op at global scope.
func (c *Compiler) declareVariable(name ast.IdentSpan) {
	if err := c.current().declareVariable(name); err != nil {
		panic(err)
	}
}

// defineVariable completes a declaration: at global scope it interns the
// name and emits DefineGlobal; in a scoped context it marks the most
// recently declared local initialized (spec.md §4.4).
func (c *Compiler) defineVariable(name string) {
	if c.current().isGlobalScope() {
		idx := c.internConstant(bytecode.StringConstant{Value: name})
		c.emit(bytecode.DefineGlobal, idx)
		return
	}
	c.current().defineVariable()
}

// internConstant adds a constant to the current chunk's pool and returns
// its index. No deduplication: spec.md §3 sets no interning contract.
func (c *Compiler) internConstant(v bytecode.ConstantValue) int {
	return c.chunk().AddConstant(v)
}

// pushFunctionContext enters a freshly-allocated chunk for a `fun` body.
func (c *Compiler) pushFunctionContext() bytecode.ChunkIndex {
	idx := c.module.AddChunk()
	c.contexts = append(c.contexts, newContext(FunctionContext, idx))
	return idx
}

// popFunctionContext exits the current function context, returning its
// upvalue table for the enclosing Closure constant.
func (c *Compiler) popFunctionContext() []bytecode.Upvalue {
	ctx := c.current()
	c.module.Chunk(ctx.ChunkIndex).MaxLocals = ctx.maxLocalsSeen
	c.contexts = c.contexts[:len(c.contexts)-1]
	return ctx.Upvalues
}

// resolveUpvalue walks outward from context index i, registering an
// upvalue chain through every intervening context, per spec.md §4.4's
// resolve_upvalue. It mutates IsCaptured on the ancestor local the chain
// ultimately bottoms out on.
func (c *Compiler) resolveUpvalue(i int, name string) (int, bool, error) {
	if i == 0 {
		return -1, false, nil
	}
	enclosing := c.contexts[i-1]
	slot, err := enclosing.resolveLocal(name)
	if err != nil {
		return -1, false, err
	}
	if slot != -1 {
		enclosing.Locals[slot].IsCaptured = true
		return c.contexts[i].addUpvalue(slot, true), true, nil
	}

	outerIdx, found, err := c.resolveUpvalue(i-1, name)
	if err != nil {
		return -1, false, err
	}
	if !found {
		return -1, false, nil
	}
	return c.contexts[i].addUpvalue(outerIdx, false), true, nil
}

// variableKind classifies how a named reference resolves: as a local
// slot, an upvalue index, or (by elimination) a global name.
type variableKind int

const (
	asLocal variableKind = iota
	asUpvalue
	asGlobal
)

func (c *Compiler) resolveVariable(name string) (variableKind, int, error) {
	slot, err := c.current().resolveLocal(name)
	if err != nil {
		return 0, 0, err
	}
	if slot != -1 {
		return asLocal, slot, nil
	}

	idx, found, err := c.resolveUpvalue(len(c.contexts)-1, name)
	if err != nil {
		return 0, 0, err
	}
	if found {
		return asUpvalue, idx, nil
	}

	return asGlobal, 0, nil
}

// CompileAST compiles a full program into a Module, collecting each
// top-level statement's compile error independently rather than stopping
// at the first one (spec.md §4.5 / §7).
func CompileAST(program ast.Ast) (*bytecode.Module, error) {
	c := newCompiler()
	var errs []error

	for _, stmt := range program {
		if err := c.compileTopLevelStmt(stmt); err != nil {
			errs = append(errs, err)
		}
	}

	top := c.module.Chunk(0)
	top.Emit(bytecode.OpNil)
	top.Emit(bytecode.Return)
	top.MaxLocals = c.contexts[0].maxLocalsSeen

	switch len(errs) {
	case 0:
		// fall through to validation
	case 1:
		return nil, errs[0]
	default:
		return nil, Multiple{Errors: errs}
	}

	for i := range c.module.Chunks {
		if offsets := c.module.Chunks[i].UnpatchedJumps(); len(offsets) > 0 {
			return nil, UnpatchableInstructionError{Detail: fmt.Sprintf("chunk %d has unpatched jump(s) at %v", i, offsets)}
		}
	}
	if err := c.module.Validate(); err != nil {
		return nil, err
	}
	return c.module, nil
}

// compileTopLevelStmt isolates one top-level statement's panic so a hard
// semantic error (e.g. LocalAlreadyDefinedError) does not abort the
// remaining statements' compilation. A panic raised while compiling a
// nested function body can unwind past popFunctionContext, leaving that
// context stacked above TopLevel; the depth is snapshotted up front and
// restored on recovery so the next top-level statement always compiles
// against TopLevel again. TopLevel's own scope depth and local count are
// snapshotted and restored the same way, so a failure inside a top-level
// block leaves no scope or local behind, keeping each top-level statement
// an independent compilation unit (spec.md §9).
func (c *Compiler) compileTopLevelStmt(stmt ast.Stmt) (err error) {
	depth := len(c.contexts)
	top := c.current()
	scopeDepth, localCount := top.ScopeDepth, len(top.Locals)
	defer func() {
		if r := recover(); r != nil {
			c.contexts = c.contexts[:depth]
			top.ScopeDepth = scopeDepth
			top.Locals = top.Locals[:localCount]
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	c.compileStmt(stmt)
	return nil
}
