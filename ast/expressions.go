// expressions.go contains every Expr variant. An expression node always
// evaluates to a value. Grounded on informatter-nilan/ast/expressions.go's
// Binary/Unary/Grouping/Variable/Assign shape, split Literal into the
// distinct Number/String/Boolean/Nil variants spec.md §3 specifies, and
// added Logical/Call/Get/Set/This/Super.
package ast

// Number is a floating-point literal.
type Number struct {
	Value float64
}

func (e Number) Accept(v ExpressionVisitor) any { return v.VisitNumber(e) }

// String is a string literal.
type String struct {
	Value string
}

func (e String) Accept(v ExpressionVisitor) any { return v.VisitString(e) }

// Boolean is a `true`/`false` literal.
type Boolean struct {
	Value bool
}

func (e Boolean) Accept(v ExpressionVisitor) any { return v.VisitBoolean(e) }

// Nil is the `nil` literal.
type Nil struct{}

func (e Nil) Accept(v ExpressionVisitor) any { return v.VisitNil(e) }

// Variable reads the value currently bound to an identifier.
type Variable struct {
	Name Identifier
}

func (e Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(e) }

// Assign stores a new value into an existing variable. Assignment is an
// expression: it evaluates to the assigned value.
type Assign struct {
	Name  Identifier
	Value Expr
}

func (e Assign) Accept(v ExpressionVisitor) any { return v.VisitAssign(e) }

// Unary applies a prefix operator to a single operand.
type Unary struct {
	Operator UnaryOperator
	Right    Expr
}

func (e Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(e) }

// Binary applies an infix operator to two operands.
type Binary struct {
	Left     Expr
	Operator BinaryOperator
	Right    Expr
}

func (e Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(e) }

// Logical is `and`/`or`; unlike Binary its right operand may not be
// evaluated (short-circuiting).
type Logical struct {
	Left     Expr
	Operator LogicalOperator
	Right    Expr
}

func (e Logical) Accept(v ExpressionVisitor) any { return v.VisitLogical(e) }

// Grouping is a parenthesized expression, kept only to preserve source
// shape; it carries no independent meaning during compilation.
type Grouping struct {
	Expression Expr
}

func (e Grouping) Accept(v ExpressionVisitor) any { return v.VisitGrouping(e) }

// Call invokes a callee with a list of argument expressions.
type Call struct {
	Callee    Expr
	Arguments []Expr
}

func (e Call) Accept(v ExpressionVisitor) any { return v.VisitCall(e) }

// Get reads a property off an object.
type Get struct {
	Object Expr
	Name   Identifier
}

func (e Get) Accept(v ExpressionVisitor) any { return v.VisitGet(e) }

// Set stores a value into a property on an object. Like Assign, it
// evaluates to the assigned value.
type Set struct {
	Object Expr
	Name   Identifier
	Value  Expr
}

func (e Set) Accept(v ExpressionVisitor) any { return v.VisitSet(e) }

// This references the receiver inside a method body. Parsed but not
// compiled: class method codegen is out of scope (spec.md §1).
type This struct{}

func (e This) Accept(v ExpressionVisitor) any { return v.VisitThis(e) }

// Super references a superclass method. Parsed but not compiled, same as
// This.
type Super struct {
	Method Identifier
}

func (e Super) Accept(v ExpressionVisitor) any { return v.VisitSuper(e) }
