// Package ast defines the abstract syntax tree produced by the parser:
// tagged Expr/Stmt variants with exclusive child ownership, dispatched
// through the visitor pattern.
//
// Grounded on informatter-nilan/ast/interfaces.go's ExpressionVisitor/
// StmtVisitor shape, completed to the full vocabulary spec.md §3 requires
// (the teacher's own parser and compiler already reference Logical, IfStmt
// and WhileStmt that its ast package never defined).
package ast

import "lumen/token"

// Identifier is a bare variable/property/parameter name. Per spec.md §3,
// identifiers only carry a span where the declaration itself can be
// reported as an error (see IdentSpan); ordinary references are plain text.
type Identifier = string

// IdentSpan pairs a declared identifier with the span of its declaration,
// spec.md §3's WithSpan<Identifier> — used for names a compile error needs
// to point back at (e.g. a redeclared local).
type IdentSpan struct {
	Name Identifier
	Span token.Span
}

// ExpressionVisitor operates on every Expr variant. One Visit method per
// variant, in the teacher's visitor-pattern idiom.
type ExpressionVisitor interface {
	VisitNumber(expr Number) any
	VisitString(expr String) any
	VisitBoolean(expr Boolean) any
	VisitNil(expr Nil) any
	VisitVariable(expr Variable) any
	VisitAssign(expr Assign) any
	VisitUnary(expr Unary) any
	VisitBinary(expr Binary) any
	VisitLogical(expr Logical) any
	VisitGrouping(expr Grouping) any
	VisitCall(expr Call) any
	VisitGet(expr Get) any
	VisitSet(expr Set) any
	VisitThis(expr This) any
	VisitSuper(expr Super) any
}

// StmtVisitor operates on every Stmt variant.
type StmtVisitor interface {
	VisitExpressionStmt(stmt ExpressionStmt) any
	VisitPrintStmt(stmt PrintStmt) any
	VisitVarStmt(stmt VarStmt) any
	VisitBlockStmt(stmt BlockStmt) any
	VisitIfStmt(stmt IfStmt) any
	VisitWhileStmt(stmt WhileStmt) any
	VisitFunctionStmt(stmt FunctionStmt) any
	VisitReturnStmt(stmt ReturnStmt) any
	VisitClassStmt(stmt ClassStmt) any
}

// Expr is the base interface for every expression node.
type Expr interface {
	Accept(v ExpressionVisitor) any
}

// Stmt is the base interface for every statement node.
type Stmt interface {
	Accept(v StmtVisitor) any
}

// Ast is a complete parsed program: an ordered list of top-level statements.
type Ast []Stmt
