package vm

import (
	"encoding/binary"

	"github.com/redchew/horse64/values"
)

// instructionSize is the fixed record size every Instruction encodes to,
// so decoding the next instruction's size needs only the opcode byte
// (spec.md §4.7: "decoding knows the size from the opcode alone" -- true
// here trivially, since every opcode shares one fixed-size record).
const instructionSize = 17

// Instruction is one fixed-size bytecode record (spec.md §4.7). Operand
// meaning is opcode-dependent; see the case comments in interpreter.go's
// dispatch switch. Slot operands (A, B, C, D where used as slots) are
// frame-relative: add the current frame's floor to get an absolute stack
// index.
type Instruction struct {
	Op      Opcode
	A, B, C, D int32
}

// Encode appends inst's fixed-size wire form to buf.
func (inst Instruction) Encode(buf []byte) []byte {
	var rec [instructionSize]byte
	rec[0] = byte(inst.Op)
	binary.LittleEndian.PutUint32(rec[1:5], uint32(inst.A))
	binary.LittleEndian.PutUint32(rec[5:9], uint32(inst.B))
	binary.LittleEndian.PutUint32(rec[9:13], uint32(inst.C))
	binary.LittleEndian.PutUint32(rec[13:17], uint32(inst.D))
	return append(buf, rec[:]...)
}

// DecodeInstruction reads one fixed-size record starting at offset ip in
// buf, returning the zero Instruction and ok=false if buf is too short.
func DecodeInstruction(buf []byte, ip int) (Instruction, bool) {
	if ip < 0 || ip+instructionSize > len(buf) {
		return Instruction{}, false
	}
	rec := buf[ip : ip+instructionSize]
	return Instruction{
		Op: Opcode(rec[0]),
		A:  int32(binary.LittleEndian.Uint32(rec[1:5])),
		B:  int32(binary.LittleEndian.Uint32(rec[5:9])),
		C:  int32(binary.LittleEndian.Uint32(rec[9:13])),
		D:  int32(binary.LittleEndian.Uint32(rec[13:17])),
	}, true
}

// InstructionSize reports the fixed encoded length of one instruction;
// exported so callers outside the package (tests, a future emitter) can
// compute byte offsets from instruction indices without depending on the
// unexported constant.
func InstructionSize() int { return instructionSize }

// Builder assembles a function body's instruction stream and constant
// pool programmatically -- this repo has no external bytecode emitter
// (spec.md §6 names one only as an interface), so tests and the
// hand-written VM entry points construct instruction streams directly
// through this type, the same role ast.Builder plays for hand-built
// trees.
type Builder struct {
	buf    []byte
	consts []values.Value
	labels map[int]int // label id -> instruction index, filled in by Label
}

func NewBuilder() *Builder {
	return &Builder{labels: make(map[int]int)}
}

// Emit appends inst as-is and returns the instruction's index (not byte
// offset) within the stream so far -- jump targets in this repo's test
// programs are expressed as instruction indices, matching how CONDJUMP/
// JUMP operands are interpreted by the interpreter (see the OP_JUMP and
// OP_CONDJUMP cases in interpreter.go).
func (b *Builder) Emit(inst Instruction) int {
	idx := len(b.buf) / instructionSize
	b.buf = inst.Encode(b.buf)
	return idx
}

// Label marks the instruction index that follows as the jump target
// identified by id, so a jump emitted before the target is known can be
// back-patched with PatchOperand once Label is called.
func (b *Builder) Label(id int) {
	b.labels[id] = len(b.buf) / instructionSize
}

// ResolveLabel returns the instruction index previously recorded for id
// by Label, or -1 if none was recorded yet.
func (b *Builder) ResolveLabel(id int) int {
	if idx, ok := b.labels[id]; ok {
		return idx
	}
	return -1
}

// AddConst appends v to the function's constant pool and returns its
// index, the value SETCONST's operand addresses.
func (b *Builder) AddConst(v values.Value) int {
	idx := len(b.consts)
	b.consts = append(b.consts, v)
	return idx
}

// Instructions returns the encoded instruction-stream bytes built so far,
// suitable for program.FuncEntry.Instructions.
func (b *Builder) Instructions() []byte { return b.buf }

// Consts returns the constant pool built so far, suitable for
// program.FuncEntry.Consts.
func (b *Builder) Consts() []values.Value { return b.consts }

// Len reports the number of instructions emitted so far.
func (b *Builder) Len() int { return len(b.buf) / instructionSize }

// operandOffset identifies which fixed-size field of operand within an
// Instruction's encoding PatchOperand overwrites: 0=A, 1=B, 2=C, 3=D.
func operandOffset(instIdx, operand int) int {
	return instIdx*instructionSize + 1 + operand*4
}

// PatchOperand overwrites one operand field (0=A, 1=B, 2=C, 3=D) of an
// already-emitted instruction, used to back-patch a forward jump once its
// target label is known: emit the jump with a placeholder target, call
// Label for the destination, then PatchOperand with the operand index the
// jump opcode reads its target from (A for JUMP/JUMPTOFINALLY, B for
// CONDJUMP, A and B for PUSHCATCHFRAME's handler/finally addresses).
func (b *Builder) PatchOperand(instIdx, operand, value int) {
	off := operandOffset(instIdx, operand)
	binary.LittleEndian.PutUint32(b.buf[off:off+4], uint32(value))
}
