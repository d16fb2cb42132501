package vm_test

import (
	"testing"

	"github.com/redchew/horse64/values"
	"github.com/redchew/horse64/vm"
	"github.com/stretchr/testify/require"
)

func TestInstructionRoundTripsThroughEncodeDecode(t *testing.T) {
	inst := vm.Instruction{Op: vm.OP_BINOP, A: 1, B: int32(vm.BinAdd), C: 2, D: 3}
	buf := inst.Encode(nil)
	require.Len(t, buf, vm.InstructionSize())

	decoded, ok := vm.DecodeInstruction(buf, 0)
	require.True(t, ok)
	require.Equal(t, inst, decoded)
}

func TestDecodeInstructionRejectsShortBuffer(t *testing.T) {
	_, ok := vm.DecodeInstruction([]byte{1, 2, 3}, 0)
	require.False(t, ok)
}

func TestBuilderAssignsSequentialInstructionIndices(t *testing.T) {
	b := vm.NewBuilder()
	i0 := b.Emit(vm.Instruction{Op: vm.OP_JUMP, A: 0})
	i1 := b.Emit(vm.Instruction{Op: vm.OP_JUMP, A: 0})
	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, 2, b.Len())
}

func TestBuilderPatchOperandBackpatchesAForwardJump(t *testing.T) {
	b := vm.NewBuilder()
	jumpIdx := b.Emit(vm.Instruction{Op: vm.OP_JUMP, A: -1})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: 0})
	b.Label(1)
	target := b.ResolveLabel(1)
	require.Equal(t, 2, target)

	b.PatchOperand(jumpIdx, 0, target)
	decoded, ok := vm.DecodeInstruction(b.Instructions(), jumpIdx*vm.InstructionSize())
	require.True(t, ok)
	require.Equal(t, int32(target), decoded.A)
}

func TestBuilderAddConstReturnsStablePoolIndices(t *testing.T) {
	b := vm.NewBuilder()
	i0 := b.AddConst(values.Int64(42))
	i1 := b.AddConst(values.Bool(true))
	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Len(t, b.Consts(), 2)
}
