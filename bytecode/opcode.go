// Package bytecode defines the stack-machine instruction set, chunks,
// constant pools and the Module the compiler produces.
//
// Grounded on informatter-nilan/compiler/code.go's big-endian byte-packed
// instruction encoding (Opcode byte, OperandWidths, MakeInstruction) and
// its disassembler switch in ast_compiler.go, split into a standalone
// package because spec.md §3 gives every function its own chunk with its
// own constant pool (Nilan's Bytecode is a single flat instruction/constant
// pair), which this package's Module/Chunk split is built to hold.
package bytecode

import (
	"encoding/binary"
	"fmt"
)

type Opcode byte

const (
	Constant Opcode = iota
	OpNil
	OpTrue
	OpFalse
	Pop
	GetLocal
	SetLocal
	GetGlobal
	SetGlobal
	DefineGlobal
	GetUpvalue
	SetUpvalue
	GetProperty
	SetProperty
	Equal
	Greater
	Less
	Add
	Subtract
	Multiply
	Divide
	Not
	Negate
	Print
	Jump
	JumpIfFalse
	Call
	MakeClosure
	MakeClass
	Return
)

// OpCodeDefinition names an opcode and the byte width of each of its
// operands, in order.
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*OpCodeDefinition{
	Constant:     {"CONSTANT", []int{2}},
	OpNil:        {"NIL", nil},
	OpTrue:       {"TRUE", nil},
	OpFalse:      {"FALSE", nil},
	Pop:          {"POP", nil},
	GetLocal:     {"GET_LOCAL", []int{2}},
	SetLocal:     {"SET_LOCAL", []int{2}},
	GetGlobal:    {"GET_GLOBAL", []int{2}},
	SetGlobal:    {"SET_GLOBAL", []int{2}},
	DefineGlobal: {"DEFINE_GLOBAL", []int{2}},
	GetUpvalue:   {"GET_UPVALUE", []int{2}},
	SetUpvalue:   {"SET_UPVALUE", []int{2}},
	GetProperty:  {"GET_PROPERTY", []int{2}},
	SetProperty:  {"SET_PROPERTY", []int{2}},
	Equal:        {"EQUAL", nil},
	Greater:      {"GREATER", nil},
	Less:         {"LESS", nil},
	Add:          {"ADD", nil},
	Subtract:     {"SUBTRACT", nil},
	Multiply:     {"MULTIPLY", nil},
	Divide:       {"DIVIDE", nil},
	Not:          {"NOT", nil},
	Negate:       {"NEGATE", nil},
	Print:        {"PRINT", nil},
	Jump:         {"JUMP", []int{2}},
	JumpIfFalse:  {"JUMP_IF_FALSE", []int{2}},
	Call:         {"CALL", []int{1}},
	MakeClosure:  {"CLOSURE", []int{2}},
	MakeClass:    {"CLASS", []int{2}},
	Return:       {"RETURN", nil},
}

// Lookup returns the definition for an opcode.
func Lookup(op Opcode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// MakeInstruction encodes an opcode and its operands into bytes, operands
// packed big-endian according to the opcode's OperandWidths.
func MakeInstruction(op Opcode, operands ...int) []byte {
	def, err := Lookup(op)
	if err != nil {
		return []byte{}
	}

	length := 1
	for _, w := range def.OperandWidths {
		length += w
	}

	instruction := make([]byte, length)
	instruction[0] = byte(op)

	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 1:
			instruction[offset] = byte(operand)
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(operand))
		}
		offset += width
	}
	return instruction
}

func readUint16(code []byte, offset int) int {
	return int(binary.BigEndian.Uint16(code[offset:]))
}

func readUint8(code []byte, offset int) int {
	return int(code[offset])
}

// instructionWidth returns the total byte width (opcode + operands) of the
// instruction starting at offset.
func instructionWidth(code []byte, offset int) int {
	def, err := Lookup(Opcode(code[offset]))
	if err != nil {
		return 1
	}
	width := 1
	for _, w := range def.OperandWidths {
		width += w
	}
	return width
}
