package bytecode

import (
	"encoding/binary"
	"fmt"
)

// ConstantValue is one entry in a chunk's constant pool: a number, a
// string, an embedded closure, or an embedded class. Identity of duplicate
// constants is not required (spec.md §3: no interning contract across
// entries).
type ConstantValue interface {
	isConstant()
}

type NumberConstant struct{ Value float64 }

func (NumberConstant) isConstant() {}

type StringConstant struct{ Value string }

func (StringConstant) isConstant() {}

type ClosureConstant struct{ Closure Closure }

func (ClosureConstant) isConstant() {}

type ClassConstant struct{ Class Class }

func (ClassConstant) isConstant() {}

// ChunkIndex addresses a chunk in a Module's chunk table.
type ChunkIndex int

// Function describes a callable compiled into its own chunk.
type Function struct {
	Name       string
	ChunkIndex ChunkIndex
	Arity      int
}

// Upvalue records how a closure captures one variable from an enclosing
// function: either directly off that function's local stack (IsLocal),
// or by chaining through that function's own upvalue table.
type Upvalue struct {
	Index   int
	IsLocal bool
}

// Closure pairs a compiled Function with the upvalue capture list its
// instantiation site resolved.
type Closure struct {
	Function Function
	Upvalues []Upvalue
}

// Class is a materialized class descriptor. Method/inheritance codegen is
// out of scope (spec.md §9); only the name survives into bytecode.
type Class struct {
	Name string
}

// Chunk is one function's (or the top level's) linear instruction stream,
// plus the constant pool addressed by that stream's Constant/DefineGlobal/
// etc. operands. Constants are per-chunk: no indices are shared between
// chunks (spec.md §3).
type Chunk struct {
	Code      []byte
	Constants []ConstantValue

	// MaxLocals is the high-water mark of live local slots reached while
	// compiling this chunk, used to validate GetLocal/SetLocal operands.
	MaxLocals int

	// pendingJumps tracks byte offsets of jump operands emitted via
	// EmitJump that have not yet been patched; Module.Validate fails if
	// any survive to the end of compilation.
	pendingJumps map[int]bool
}

// AddConstant appends a constant and returns its pool index.
func (c *Chunk) AddConstant(v ConstantValue) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Emit appends an instruction and returns the byte offset it starts at.
func (c *Chunk) Emit(op Opcode, operands ...int) int {
	start := len(c.Code)
	c.Code = append(c.Code, MakeInstruction(op, operands...)...)
	return start
}

// EmitJump appends a jump-family instruction with a placeholder operand,
// returning the byte offset of the instruction so it can be patched once
// the real target is known.
func (c *Chunk) EmitJump(op Opcode) int {
	start := c.Emit(op, 0xFFFF)
	if c.pendingJumps == nil {
		c.pendingJumps = make(map[int]bool)
	}
	c.pendingJumps[start] = true
	return start
}

// PatchJump rewrites the jump instruction at offset to target the current
// end of the chunk (spec.md §4.5's "patch to here").
func (c *Chunk) PatchJump(offset int) {
	c.PatchJumpTo(offset, len(c.Code))
}

// PatchJumpTo rewrites the jump instruction at offset to target a
// specific absolute byte index (spec.md §4.5's "patch to S", used for
// loop back-edges).
func (c *Chunk) PatchJumpTo(offset int, target int) {
	binary.BigEndian.PutUint16(c.Code[offset+1:], uint16(target))
	delete(c.pendingJumps, offset)
}

// UnpatchedJumps reports the byte offsets of any jump instructions that
// were emitted via EmitJump but never patched — a fatal compiler error if
// non-empty once a chunk is finished (spec.md §4.5).
func (c *Chunk) UnpatchedJumps() []int {
	var offsets []int
	for offset := range c.pendingJumps {
		offsets = append(offsets, offset)
	}
	return offsets
}

// Disassemble renders a chunk's instructions in human-readable form, one
// per line, resolving constant-pool operands to their value and jump
// operands to their absolute target.
func (c *Chunk) Disassemble(name string) string {
	out := fmt.Sprintf("== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.disassembleInstruction(&out, offset)
	}
	return out
}

func (c *Chunk) disassembleInstruction(out *string, offset int) int {
	op := Opcode(c.Code[offset])
	def, err := Lookup(op)
	if err != nil {
		*out += fmt.Sprintf("%04d UNKNOWN %d\n", offset, op)
		return offset + 1
	}

	width := instructionWidth(c.Code, offset)
	switch {
	case len(def.OperandWidths) == 0:
		*out += fmt.Sprintf("%04d %s\n", offset, def.Name)
	case def.OperandWidths[0] == 1:
		operand := readUint8(c.Code, offset+1)
		*out += fmt.Sprintf("%04d %-16s %d\n", offset, def.Name, operand)
	default:
		operand := readUint16(c.Code, offset+1)
		switch op {
		case Constant, GetGlobal, SetGlobal, DefineGlobal, GetProperty, SetProperty, MakeClosure, MakeClass:
			*out += fmt.Sprintf("%04d %-16s %d (%v)\n", offset, def.Name, operand, c.constantPreview(operand))
		case Jump, JumpIfFalse:
			*out += fmt.Sprintf("%04d %-16s -> %d\n", offset, def.Name, operand)
		default:
			*out += fmt.Sprintf("%04d %-16s %d\n", offset, def.Name, operand)
		}
	}
	return offset + width
}

func (c *Chunk) constantPreview(index int) any {
	if index < 0 || index >= len(c.Constants) {
		return "?"
	}
	switch k := c.Constants[index].(type) {
	case NumberConstant:
		return k.Value
	case StringConstant:
		return k.Value
	case ClosureConstant:
		return fmt.Sprintf("<fn %s>", k.Closure.Function.Name)
	case ClassConstant:
		return fmt.Sprintf("<class %s>", k.Class.Name)
	default:
		return "?"
	}
}
