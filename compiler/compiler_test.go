package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/bytecode"
	. "lumen/compiler"
	"lumen/lexer"
	"lumen/parser"
)

func compileSource(t *testing.T, source string) (*bytecode.Module, error) {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)
	program, errs := parser.Make(tokens).Parse()
	require.Empty(t, errs)
	return CompileAST(program)
}

func opcodesOf(t *testing.T, chunk *bytecode.Chunk) []bytecode.Opcode {
	t.Helper()
	var ops []bytecode.Opcode
	for offset := 0; offset < len(chunk.Code); {
		op := bytecode.Opcode(chunk.Code[offset])
		ops = append(ops, op)
		def, err := bytecode.Lookup(op)
		require.NoError(t, err)
		width := 1
		for _, w := range def.OperandWidths {
			width += w
		}
		offset += width
	}
	return ops
}

func TestVarDeclAndPrintEmitExactSequence(t *testing.T) {
	module, err := compileSource(t, "var a = 1; print a;")
	require.NoError(t, err)

	top := module.Chunk(0)
	ops := opcodesOf(t, top)
	assert.Equal(t, []bytecode.Opcode{
		bytecode.Constant,
		bytecode.DefineGlobal,
		bytecode.GetGlobal,
		bytecode.Print,
		bytecode.OpNil,
		bytecode.Return,
	}, ops)
}

func TestEveryChunkEndsWithReturn(t *testing.T) {
	module, err := compileSource(t, "fun f() { print 1; } f();")
	require.NoError(t, err)
	for i := range module.Chunks {
		code := module.Chunks[i].Code
		require.NotEmpty(t, code)
		assert.Equal(t, bytecode.Return, bytecode.Opcode(code[len(code)-1]))
	}
}

func TestSelfReferenceInInitializerIsAnError(t *testing.T) {
	_, err := compileSource(t, "{ var a = a; }")
	require.Error(t, err)
	var localErr LocalNotInitializedError
	require.ErrorAs(t, err, &localErr)
	assert.Equal(t, "a", localErr.Name)
}

func TestRedeclaredLocalInSameScopeIsAnError(t *testing.T) {
	_, err := compileSource(t, "{ var a = 1; var a = 2; }")
	require.Error(t, err)
	var localErr LocalAlreadyDefinedError
	require.ErrorAs(t, err, &localErr)
}

func TestShadowingInNestedScopeIsAllowed(t *testing.T) {
	_, err := compileSource(t, "{ var a = 1; { var a = 2; } }")
	require.NoError(t, err)
}

func TestReturnOutsideFunctionIsAnError(t *testing.T) {
	_, err := compileSource(t, "return 1;")
	require.Error(t, err)
	var noCtx NoContextError
	require.ErrorAs(t, err, &noCtx)
}

func TestMultipleTopLevelErrorsAreAggregated(t *testing.T) {
	_, err := compileSource(t, "return 1; return 2;")
	require.Error(t, err)
	var multi Multiple
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 2)
}

// A panic raised while compiling a function body must not leave its
// context stacked: the next top-level statement should compile as if the
// failed function was never entered.
func TestPanicInsideFunctionBodyDoesNotLeakItsContext(t *testing.T) {
	_, err := compileSource(t, "fun f() { var a = 1; var a = 2; } return 1;")
	require.Error(t, err)
	var multi Multiple
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi.Errors, 2)

	var localErr LocalAlreadyDefinedError
	require.ErrorAs(t, multi.Errors[0], &localErr)

	var noCtx NoContextError
	require.ErrorAs(t, multi.Errors[1], &noCtx)
}

func TestDerivedComparisonOperatorsEmitExactly(t *testing.T) {
	module, err := compileSource(t, "1 != 2;")
	require.NoError(t, err)
	ops := opcodesOf(t, module.Chunk(0))
	assert.Equal(t, []bytecode.Opcode{
		bytecode.Constant, bytecode.Constant, bytecode.Equal, bytecode.Not, bytecode.Pop,
		bytecode.OpNil, bytecode.Return,
	}, ops)
}

func TestLogicalAndShortCircuitsViaJumpIfFalse(t *testing.T) {
	module, err := compileSource(t, "true and false;")
	require.NoError(t, err)
	ops := opcodesOf(t, module.Chunk(0))
	assert.Contains(t, ops, bytecode.JumpIfFalse)
	assert.NotContains(t, ops, bytecode.Jump)
}

func TestClosureCapturesEnclosingLocalAsUpvalue(t *testing.T) {
	module, err := compileSource(t, `
		fun outer() {
			var x = 1;
			fun inner() {
				return x;
			}
			return inner;
		}
	`)
	require.NoError(t, err)

	var innerClosure *bytecode.Closure
	for _, c := range module.Chunks[1].Constants {
		if cc, ok := c.(bytecode.ClosureConstant); ok && cc.Closure.Function.Name == "inner" {
			closure := cc.Closure
			innerClosure = &closure
		}
	}
	require.NotNil(t, innerClosure)
	require.Len(t, innerClosure.Upvalues, 1)
	assert.True(t, innerClosure.Upvalues[0].IsLocal)
}

func TestWellFormedModuleValidates(t *testing.T) {
	module, err := compileSource(t, `
		var a = 1;
		{
			var b = 2;
			if (a) { print b; } else { print a; }
			while (a) { a = nil; }
			for (var i = 0; i; i = nil) { print i; }
		}
		fun f(x) { return x; }
		class C < Object {}
	`)
	require.NoError(t, err)
	assert.NoError(t, module.Validate())
}
