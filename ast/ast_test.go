package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "lumen/ast"
)

// dispatchRecorder implements both visitor interfaces and records which
// Visit method fired, so Accept's dispatch can be checked without a
// full pretty-printer.
type dispatchRecorder struct{ saw string }

func (d *dispatchRecorder) VisitNumber(Number) any     { d.saw = "Number"; return nil }
func (d *dispatchRecorder) VisitString(String) any     { d.saw = "String"; return nil }
func (d *dispatchRecorder) VisitBoolean(Boolean) any   { d.saw = "Boolean"; return nil }
func (d *dispatchRecorder) VisitNil(Nil) any           { d.saw = "Nil"; return nil }
func (d *dispatchRecorder) VisitVariable(Variable) any { d.saw = "Variable"; return nil }
func (d *dispatchRecorder) VisitAssign(Assign) any     { d.saw = "Assign"; return nil }
func (d *dispatchRecorder) VisitUnary(Unary) any       { d.saw = "Unary"; return nil }
func (d *dispatchRecorder) VisitBinary(Binary) any     { d.saw = "Binary"; return nil }
func (d *dispatchRecorder) VisitLogical(Logical) any   { d.saw = "Logical"; return nil }
func (d *dispatchRecorder) VisitGrouping(Grouping) any { d.saw = "Grouping"; return nil }
func (d *dispatchRecorder) VisitCall(Call) any         { d.saw = "Call"; return nil }
func (d *dispatchRecorder) VisitGet(Get) any           { d.saw = "Get"; return nil }
func (d *dispatchRecorder) VisitSet(Set) any           { d.saw = "Set"; return nil }
func (d *dispatchRecorder) VisitThis(This) any         { d.saw = "This"; return nil }
func (d *dispatchRecorder) VisitSuper(Super) any       { d.saw = "Super"; return nil }

func (d *dispatchRecorder) VisitExpressionStmt(ExpressionStmt) any { d.saw = "ExpressionStmt"; return nil }
func (d *dispatchRecorder) VisitPrintStmt(PrintStmt) any           { d.saw = "PrintStmt"; return nil }
func (d *dispatchRecorder) VisitVarStmt(VarStmt) any               { d.saw = "VarStmt"; return nil }
func (d *dispatchRecorder) VisitBlockStmt(BlockStmt) any           { d.saw = "BlockStmt"; return nil }
func (d *dispatchRecorder) VisitIfStmt(IfStmt) any                 { d.saw = "IfStmt"; return nil }
func (d *dispatchRecorder) VisitWhileStmt(WhileStmt) any           { d.saw = "WhileStmt"; return nil }
func (d *dispatchRecorder) VisitFunctionStmt(FunctionStmt) any     { d.saw = "FunctionStmt"; return nil }
func (d *dispatchRecorder) VisitReturnStmt(ReturnStmt) any         { d.saw = "ReturnStmt"; return nil }
func (d *dispatchRecorder) VisitClassStmt(ClassStmt) any           { d.saw = "ClassStmt"; return nil }

func TestExprAcceptDispatchesToMatchingVisitMethod(t *testing.T) {
	name := "x"
	cases := []struct {
		node Expr
		want string
	}{
		{Number{Value: 1}, "Number"},
		{String{Value: "s"}, "String"},
		{Boolean{Value: true}, "Boolean"},
		{Nil{}, "Nil"},
		{Variable{Name: name}, "Variable"},
		{Assign{Name: name, Value: Number{Value: 1}}, "Assign"},
		{Unary{Operator: UnaryMinus, Right: Number{Value: 1}}, "Unary"},
		{Binary{Left: Number{Value: 1}, Operator: BinaryPlus, Right: Number{Value: 2}}, "Binary"},
		{Logical{Left: Boolean{Value: true}, Operator: LogicalAnd, Right: Boolean{Value: false}}, "Logical"},
		{Grouping{Expression: Number{Value: 1}}, "Grouping"},
		{Call{Callee: Variable{Name: name}, Arguments: nil}, "Call"},
		{Get{Object: Variable{Name: name}, Name: "field"}, "Get"},
		{Set{Object: Variable{Name: name}, Name: "field", Value: Nil{}}, "Set"},
		{This{}, "This"},
		{Super{Method: "init"}, "Super"},
	}
	for _, c := range cases {
		rec := &dispatchRecorder{}
		c.node.Accept(rec)
		assert.Equal(t, c.want, rec.saw)
	}
}

func TestStmtAcceptDispatchesToMatchingVisitMethod(t *testing.T) {
	name := "x"
	cases := []struct {
		node Stmt
		want string
	}{
		{ExpressionStmt{Expression: Number{Value: 1}}, "ExpressionStmt"},
		{PrintStmt{Expression: Number{Value: 1}}, "PrintStmt"},
		{VarStmt{Name: IdentSpan{Name: name}}, "VarStmt"},
		{BlockStmt{Statements: nil}, "BlockStmt"},
		{IfStmt{Condition: Boolean{Value: true}, Then: PrintStmt{}}, "IfStmt"},
		{WhileStmt{Condition: Boolean{Value: true}, Body: PrintStmt{}}, "WhileStmt"},
		{FunctionStmt{Name: name}, "FunctionStmt"},
		{ReturnStmt{}, "ReturnStmt"},
		{ClassStmt{Name: name}, "ClassStmt"},
	}
	for _, c := range cases {
		rec := &dispatchRecorder{}
		c.node.Accept(rec)
		assert.Equal(t, c.want, rec.saw)
	}
}
