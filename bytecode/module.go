package bytecode

import "fmt"

// Module is the only artifact that survives compilation: an indexed table
// of chunks, one per function plus the top level, each with its own
// instruction stream and constant pool (spec.md §3).
type Module struct {
	Chunks []Chunk
}

// NewModule creates an empty module with a single chunk reserved for the
// top level, at ChunkIndex 0.
func NewModule() *Module {
	return &Module{Chunks: []Chunk{{}}}
}

// AddChunk appends a new, empty chunk (for a freshly entered function
// context) and returns its index.
func (m *Module) AddChunk() ChunkIndex {
	m.Chunks = append(m.Chunks, Chunk{})
	return ChunkIndex(len(m.Chunks) - 1)
}

// Chunk returns a pointer to the chunk at the given index so callers can
// keep emitting into it.
func (m *Module) Chunk(i ChunkIndex) *Chunk {
	return &m.Chunks[i]
}

// ValidationError reports a Module that violates one of spec.md §3's
// bytecode invariants — this should never happen for a compiler that
// patches every jump it emits and always finishes a chunk with Return.
type ValidationError struct {
	Detail string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid module: %s", e.Detail)
}

// Validate checks these bytecode invariants: every chunk ends with Return,
// no jump placeholder survives unpatched, every jump target lies within
// its own chunk, and every GetLocal/SetLocal slot is below the chunk's
// MaxLocals. Constant-pool and upvalue operands are not range-checked.
func (m *Module) Validate() error {
	for i := range m.Chunks {
		chunk := &m.Chunks[i]

		if offsets := chunk.UnpatchedJumps(); len(offsets) > 0 {
			return ValidationError{Detail: fmt.Sprintf("chunk %d has unpatched jump(s) at %v", i, offsets)}
		}

		if len(chunk.Code) == 0 || Opcode(chunk.Code[len(chunk.Code)-1]) != Return {
			return ValidationError{Detail: fmt.Sprintf("chunk %d does not end with Return", i)}
		}

		for offset := 0; offset < len(chunk.Code); {
			op := Opcode(chunk.Code[offset])
			width := instructionWidth(chunk.Code, offset)
			if op == Jump || op == JumpIfFalse {
				target := readUint16(chunk.Code, offset+1)
				if target < 0 || target > len(chunk.Code) {
					return ValidationError{Detail: fmt.Sprintf("chunk %d has out-of-range jump target %d", i, target)}
				}
			}
			if op == GetLocal || op == SetLocal {
				slot := readUint16(chunk.Code, offset+1)
				if slot >= chunk.MaxLocals {
					return ValidationError{Detail: fmt.Sprintf("chunk %d has local slot %d beyond MaxLocals %d", i, slot, chunk.MaxLocals)}
				}
			}
			offset += width
		}
	}
	return nil
}

// Disassemble renders every chunk in the module, top level first.
func (m *Module) Disassemble() string {
	out := ""
	for i := range m.Chunks {
		name := fmt.Sprintf("chunk %d", i)
		if i == 0 {
			name = "top level"
		}
		out += m.Chunks[i].Disassemble(name)
	}
	return out
}
