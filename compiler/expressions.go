package compiler

import (
	"lumen/ast"
	"lumen/bytecode"
)

func (c *Compiler) compileExpr(e ast.Expr) {
	e.Accept(c)
}

func (c *Compiler) VisitNumber(e ast.Number) any {
	idx := c.internConstant(bytecode.NumberConstant{Value: e.Value})
	c.emit(bytecode.Constant, idx)
	return nil
}

func (c *Compiler) VisitString(e ast.String) any {
	idx := c.internConstant(bytecode.StringConstant{Value: e.Value})
	c.emit(bytecode.Constant, idx)
	return nil
}

func (c *Compiler) VisitBoolean(e ast.Boolean) any {
	if e.Value {
		c.emit(bytecode.OpTrue)
	} else {
		c.emit(bytecode.OpFalse)
	}
	return nil
}

func (c *Compiler) VisitNil(ast.Nil) any {
	c.emit(bytecode.OpNil)
	return nil
}

// VisitVariable resolves a name as local, then upvalue, then falls back to
// a global lookup (spec.md §4.5).
func (c *Compiler) VisitVariable(e ast.Variable) any {
	kind, slot, err := c.resolveVariable(e.Name)
	if err != nil {
		panic(err)
	}
	switch kind {
	case asLocal:
		c.emit(bytecode.GetLocal, slot)
	case asUpvalue:
		c.emit(bytecode.GetUpvalue, slot)
	default:
		idx := c.internConstant(bytecode.StringConstant{Value: e.Name})
		c.emit(bytecode.GetGlobal, idx)
	}
	return nil
}

// VisitAssign emits the RHS, then the mirror of Variable resolution using
// the Set* family. The assigned value is left on the stack: assignment is
// an expression (spec.md §4.5).
func (c *Compiler) VisitAssign(e ast.Assign) any {
	c.compileExpr(e.Value)

	kind, slot, err := c.resolveVariable(e.Name)
	if err != nil {
		panic(err)
	}
	switch kind {
	case asLocal:
		c.emit(bytecode.SetLocal, slot)
	case asUpvalue:
		c.emit(bytecode.SetUpvalue, slot)
	default:
		// SetGlobal is emitted unconditionally even for names never
		// defined; the runtime is the one that errors on an undefined
		// global (spec.md §9 open question: this is a runtime contract,
		// not a compile-time check).
		idx := c.internConstant(bytecode.StringConstant{Value: e.Name})
		c.emit(bytecode.SetGlobal, idx)
	}
	return nil
}

func (c *Compiler) VisitUnary(e ast.Unary) any {
	c.compileExpr(e.Right)
	switch e.Operator {
	case ast.UnaryMinus:
		c.emit(bytecode.Negate)
	case ast.UnaryBang:
		c.emit(bytecode.Not)
	}
	return nil
}

// VisitBinary emits the derived comparison forms spec.md §4.5 specifies:
// <= as Greater,Not; != as Equal,Not; >= as Less,Not.
func (c *Compiler) VisitBinary(e ast.Binary) any {
	c.compileExpr(e.Left)
	c.compileExpr(e.Right)
	switch e.Operator {
	case ast.BinaryPlus:
		c.emit(bytecode.Add)
	case ast.BinaryMinus:
		c.emit(bytecode.Subtract)
	case ast.BinaryStar:
		c.emit(bytecode.Multiply)
	case ast.BinarySlash:
		c.emit(bytecode.Divide)
	case ast.BinaryEqualEqual:
		c.emit(bytecode.Equal)
	case ast.BinaryBangEqual:
		c.emit(bytecode.Equal)
		c.emit(bytecode.Not)
	case ast.BinaryLess:
		c.emit(bytecode.Less)
	case ast.BinaryLessEqual:
		c.emit(bytecode.Greater)
		c.emit(bytecode.Not)
	case ast.BinaryGreater:
		c.emit(bytecode.Greater)
	case ast.BinaryGreaterEqual:
		c.emit(bytecode.Less)
		c.emit(bytecode.Not)
	}
	return nil
}

// VisitLogical implements short-circuiting and/or via forward jumps
// (spec.md §4.5).
func (c *Compiler) VisitLogical(e ast.Logical) any {
	c.compileExpr(e.Left)

	switch e.Operator {
	case ast.LogicalAnd:
		jumpIfFalse := c.emitJump(bytecode.JumpIfFalse)
		c.emit(bytecode.Pop)
		c.compileExpr(e.Right)
		c.patchJump(jumpIfFalse)
	case ast.LogicalOr:
		jumpIfFalse := c.emitJump(bytecode.JumpIfFalse)
		jumpEnd := c.emitJump(bytecode.Jump)
		c.patchJump(jumpIfFalse)
		c.emit(bytecode.Pop)
		c.compileExpr(e.Right)
		c.patchJump(jumpEnd)
	}
	return nil
}

func (c *Compiler) VisitGrouping(e ast.Grouping) any {
	c.compileExpr(e.Expression)
	return nil
}

func (c *Compiler) VisitCall(e ast.Call) any {
	c.compileExpr(e.Callee)
	for _, arg := range e.Arguments {
		c.compileExpr(arg)
	}
	c.emit(bytecode.Call, len(e.Arguments))
	return nil
}

func (c *Compiler) VisitGet(e ast.Get) any {
	c.compileExpr(e.Object)
	idx := c.internConstant(bytecode.StringConstant{Value: e.Name})
	c.emit(bytecode.GetProperty, idx)
	return nil
}

func (c *Compiler) VisitSet(e ast.Set) any {
	c.compileExpr(e.Object)
	c.compileExpr(e.Value)
	idx := c.internConstant(bytecode.StringConstant{Value: e.Name})
	c.emit(bytecode.SetProperty, idx)
	return nil
}

// VisitThis and VisitSuper: method/receiver binding is not compiled
// (spec.md §9 — "the compiler currently ignores it"). Nil is emitted as
// an inert placeholder so an expression statement containing one still
// balances the stack the way every other expression does.
func (c *Compiler) VisitThis(ast.This) any {
	c.emit(bytecode.OpNil)
	return nil
}

func (c *Compiler) VisitSuper(ast.Super) any {
	c.emit(bytecode.OpNil)
	return nil
}
