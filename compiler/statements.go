package compiler

import (
	"lumen/ast"
	"lumen/bytecode"
	"lumen/token"
)

func (c *Compiler) compileStmt(s ast.Stmt) {
	s.Accept(c)
}

func (c *Compiler) VisitExpressionStmt(s ast.ExpressionStmt) any {
	c.compileExpr(s.Expression)
	c.emit(bytecode.Pop)
	return nil
}

func (c *Compiler) VisitPrintStmt(s ast.PrintStmt) any {
	c.compileExpr(s.Expression)
	c.emit(bytecode.Print)
	return nil
}

// VisitVarStmt declares the name, emits its initializer (or Nil when
// absent), and defines it — completing the declare/define split that lets
// `var x = x;` be caught as a read of an uninitialized local (spec.md
// §4.4/§4.5).
func (c *Compiler) VisitVarStmt(s ast.VarStmt) any {
	c.declareVariable(s.Name)

	if s.Initializer != nil {
		c.compileExpr(s.Initializer)
	} else {
		c.emit(bytecode.OpNil)
	}

	c.defineVariable(s.Name.Name)
	return nil
}

// VisitBlockStmt pushes a scope, compiles its statements, then pops the
// scope — emitting one Pop per discarded local (spec.md §4.5).
func (c *Compiler) VisitBlockStmt(s ast.BlockStmt) any {
	c.current().pushScope()
	for _, stmt := range s.Statements {
		c.compileStmt(stmt)
	}
	discarded := c.current().popScope()
	for i := 0; i < discarded; i++ {
		c.emit(bytecode.Pop)
	}
	return nil
}

// VisitIfStmt. This compiler's chosen stack discipline (spec.md §9 open
// question) is symmetric: both the with-else and without-else paths pop
// the condition value on every path, so JumpIfFalse always leaves the
// stack in the same shape regardless of which branch executes.
func (c *Compiler) VisitIfStmt(s ast.IfStmt) any {
	c.compileExpr(s.Condition)

	thenJump := c.emitJump(bytecode.JumpIfFalse)
	c.emit(bytecode.Pop)
	c.compileStmt(s.Then)

	if s.Else != nil {
		elseJump := c.emitJump(bytecode.Jump)
		c.patchJump(thenJump)
		c.emit(bytecode.Pop)
		c.compileStmt(s.Else)
		c.patchJump(elseJump)
	} else {
		endJump := c.emitJump(bytecode.Jump)
		c.patchJump(thenJump)
		c.emit(bytecode.Pop)
		c.patchJump(endJump)
	}
	return nil
}

func (c *Compiler) VisitWhileStmt(s ast.WhileStmt) any {
	loopStart := len(c.chunk().Code)

	c.compileExpr(s.Condition)
	exitJump := c.emitJump(bytecode.JumpIfFalse)
	c.emit(bytecode.Pop)

	c.compileStmt(s.Body)

	backJump := c.emitJump(bytecode.Jump)
	c.patchJumpTo(backJump, loopStart)

	c.patchJump(exitJump)
	c.emit(bytecode.Pop)
	return nil
}

// VisitFunctionStmt declares the name early (and, in a scoped context,
// defines it immediately) so the function body can call itself
// recursively, then compiles the body in a fresh context and emits a
// Closure constant capturing whatever upvalues the body resolved
// (spec.md §4.5).
func (c *Compiler) VisitFunctionStmt(s ast.FunctionStmt) any {
	name := ast.IdentSpan{Name: s.Name}
	c.declareVariable(name)
	if !c.current().isGlobalScope() {
		c.current().defineVariable()
	}

	chunkIndex := c.pushFunctionContext()
	for _, param := range s.Params {
		c.declareVariable(ast.IdentSpan{Name: param})
		c.current().defineVariable()
	}
	for _, bodyStmt := range s.Body {
		c.compileStmt(bodyStmt)
	}
	c.emit(bytecode.OpNil)
	c.emit(bytecode.Return)
	upvalues := c.popFunctionContext()

	idx := c.internConstant(bytecode.ClosureConstant{Closure: bytecode.Closure{
		Function: bytecode.Function{Name: s.Name, ChunkIndex: chunkIndex, Arity: len(s.Params)},
		Upvalues: upvalues,
	}})
	c.emit(bytecode.MakeClosure, idx)
	c.defineVariable(s.Name)
	return nil
}

// VisitReturnStmt errors outside any function context (spec.md §4.5).
func (c *Compiler) VisitReturnStmt(s ast.ReturnStmt) any {
	if c.current().Type == TopLevel {
		panic(NoContextError{Span: token.Span{}})
	}
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.emit(bytecode.OpNil)
	}
	c.emit(bytecode.Return)
	return nil
}

// VisitClassStmt only materializes the class's name; method bodies and
// inheritance are parsed but not compiled (spec.md §4.5/§9).
func (c *Compiler) VisitClassStmt(s ast.ClassStmt) any {
	name := ast.IdentSpan{Name: s.Name}
	c.declareVariable(name)
	idx := c.internConstant(bytecode.ClassConstant{Class: bytecode.Class{Name: s.Name}})
	c.emit(bytecode.MakeClass, idx)
	c.defineVariable(s.Name)
	return nil
}
