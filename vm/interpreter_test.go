package vm_test

import (
	"bytes"
	"testing"

	"github.com/redchew/horse64/config"
	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/resolver"
	"github.com/redchew/horse64/values"
	"github.com/redchew/horse64/vm"
	"github.com/stretchr/testify/require"
)

func newTestProgram(t *testing.T) (*program.Program, *vm.Thread, map[string]int, *resolver.BuiltinSet) {
	t.Helper()
	prog := program.New()
	builtins, runtimeClassIDs := vm.RegisterBuiltins(prog)
	env := config.Default()
	thread := vm.NewThread(env, prog)
	thread.RuntimeClassIDs = runtimeClassIDs
	return prog, thread, runtimeClassIDs, builtins
}

func TestCallPrintsHelloToOutput(t *testing.T) {
	prog, thread, _, builtins := newTestProgram(t)
	printID := builtins.Funcs["print"]

	b := vm.NewBuilder()
	greeting := b.AddConst(values.ShortStrConst([]byte("hello")))
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: int32(greeting)})
	b.Emit(vm.Instruction{Op: vm.OP_CALL, A: 1, B: int32(printID), C: 0, D: 1 << 1})
	b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 1})

	mainID, err := prog.RegisterFunction("main", "test://main", 0, nil, false, "main", "", program.NoID, nil)
	require.NoError(t, err)
	prog.Funcs[mainID].Instructions = b.Instructions()
	prog.Funcs[mainID].Consts = b.Consts()
	prog.Funcs[mainID].InputStackSize = 2

	var out bytes.Buffer
	thread.SetOutput(&out)

	result, err := thread.Call(mainID, nil)
	require.NoError(t, err)
	require.True(t, result.IsNone())
	require.Equal(t, "hello\n", out.String())
}

func TestArithmeticComputesAddThenMul(t *testing.T) {
	prog, thread, _, _ := newTestProgram(t)

	b := vm.NewBuilder()
	c2 := b.AddConst(values.Int64(2))
	c3 := b.AddConst(values.Int64(3))
	c4 := b.AddConst(values.Int64(4))
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: int32(c2)})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 1, B: int32(c3)})
	b.Emit(vm.Instruction{Op: vm.OP_BINOP, A: 2, B: int32(vm.BinAdd), C: 0, D: 1})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 3, B: int32(c4)})
	b.Emit(vm.Instruction{Op: vm.OP_BINOP, A: 4, B: int32(vm.BinMul), C: 2, D: 3})
	b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 4})

	fnID, err := prog.RegisterFunction("compute", "test://compute", 0, nil, false, "main", "", program.NoID, nil)
	require.NoError(t, err)
	prog.Funcs[fnID].Instructions = b.Instructions()
	prog.Funcs[fnID].Consts = b.Consts()
	prog.Funcs[fnID].InputStackSize = 5

	result, err := thread.Call(fnID, nil)
	require.NoError(t, err)
	i, ok := result.AsInt64()
	require.True(t, ok)
	require.Equal(t, int64(20), i)
}

func TestDivisionByZeroIsCaughtByRegisteredCatchFrame(t *testing.T) {
	prog, thread, runtimeClassIDs, _ := newTestProgram(t)
	divZeroClass := runtimeClassIDs["DivisionByZero"]
	require.NotEqual(t, program.NoID, divZeroClass)

	b := vm.NewBuilder()
	// Input slots: 0, 1 operands, 2 result -- InputStackSize 3, so the
	// exception lands at frame-relative slot 3 (see raiseClass's SavedFloor
	// convention; PUSHCATCHFRAME runs before any SETTOP widens the frame).
	c10 := b.AddConst(values.Int64(10))
	c0 := b.AddConst(values.Int64(0))
	pushCatch := b.Emit(vm.Instruction{Op: vm.OP_PUSHCATCHFRAME, A: -1, B: -1})
	b.Emit(vm.Instruction{Op: vm.OP_ADDCATCHTYPE, A: int32(divZeroClass)})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: int32(c10)})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 1, B: int32(c0)})
	b.Emit(vm.Instruction{Op: vm.OP_BINOP, A: 2, B: int32(vm.BinDiv), C: 0, D: 1})
	handlerIdx := b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 3})
	b.PatchOperand(pushCatch, 0, handlerIdx)

	fnID, err := prog.RegisterFunction("divide", "test://divide", 0, nil, false, "main", "", program.NoID, nil)
	require.NoError(t, err)
	prog.Funcs[fnID].Instructions = b.Instructions()
	prog.Funcs[fnID].Consts = b.Consts()
	prog.Funcs[fnID].InputStackSize = 3

	result, err := thread.Call(fnID, nil)
	require.NoError(t, err)

	classID, message, ok := vm.ExceptionMembers(result)
	require.True(t, ok)
	require.Equal(t, divZeroClass, classID)
	require.Contains(t, message, "division by zero")
}

func TestUncaughtDivisionByZeroPropagatesAsVMError(t *testing.T) {
	prog, thread, _, _ := newTestProgram(t)

	b := vm.NewBuilder()
	c10 := b.AddConst(values.Int64(10))
	c0 := b.AddConst(values.Int64(0))
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: int32(c10)})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 1, B: int32(c0)})
	b.Emit(vm.Instruction{Op: vm.OP_BINOP, A: 2, B: int32(vm.BinDiv), C: 0, D: 1})
	b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 2})

	fnID, err := prog.RegisterFunction("divideUnguarded", "test://divide2", 0, nil, false, "main", "", program.NoID, nil)
	require.NoError(t, err)
	prog.Funcs[fnID].Instructions = b.Instructions()
	prog.Funcs[fnID].Consts = b.Consts()
	prog.Funcs[fnID].InputStackSize = 3

	// No RuntimeClassIDs wired on this thread: the failure must surface as
	// a plain Go error, not a catchable exception.
	thread.RuntimeClassIDs = nil

	_, err = thread.Call(fnID, nil)
	require.Error(t, err)
	var verr *vm.Error
	require.ErrorAs(t, err, &verr)
}

func TestRaiseBuiltinProducesUncaughtExceptionAtTopLevel(t *testing.T) {
	prog, thread, runtimeClassIDs, builtins := newTestProgram(t)
	raiseID := builtins.Funcs["raise"]
	oomClass := runtimeClassIDs["OutOfMemory"]

	b := vm.NewBuilder()
	classConst := b.AddConst(values.Int64(int64(oomClass)))
	msgConst := b.AddConst(values.ShortStrConst([]byte("boom")))
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: int32(classConst)})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 1, B: int32(msgConst)})
	b.Emit(vm.Instruction{Op: vm.OP_CALL, A: 2, B: int32(raiseID), C: 0, D: 2 << 1})
	b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 2})

	fnID, err := prog.RegisterFunction("boom", "test://boom", 0, nil, false, "main", "", program.NoID, nil)
	require.NoError(t, err)
	prog.Funcs[fnID].Instructions = b.Instructions()
	prog.Funcs[fnID].Consts = b.Consts()
	prog.Funcs[fnID].InputStackSize = 3

	_, err = thread.Call(fnID, nil)
	require.Error(t, err)
	var uncaught *vm.UncaughtException
	require.ErrorAs(t, err, &uncaught)
	require.Equal(t, oomClass, uncaught.ClassID)
	require.Equal(t, "boom", uncaught.Message)
}

func TestListBuildAndIterateSumsElements(t *testing.T) {
	prog, thread, _, _ := newTestProgram(t)

	b := vm.NewBuilder()
	c1 := b.AddConst(values.Int64(1))
	c2 := b.AddConst(values.Int64(2))
	c3 := b.AddConst(values.Int64(3))
	czero := b.AddConst(values.Int64(0))

	// slot0: list, slot1: sum accumulator, slot2: iterator, slot3: element,
	// slot4: scratch for the loop-exit comparison.
	b.Emit(vm.Instruction{Op: vm.OP_NEWLIST, A: 0})
	for _, c := range []int{c1, c2, c3} {
		b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 4, B: int32(c)})
		b.Emit(vm.Instruction{Op: vm.OP_ADDTOLIST, A: 0, B: 4})
	}
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 1, B: int32(czero)})
	b.Emit(vm.Instruction{Op: vm.OP_NEWITERATOR, A: 2, B: 0})

	loopStart := b.Emit(vm.Instruction{Op: vm.OP_ITERATE, A: 3, B: 2, C: -1})
	b.Emit(vm.Instruction{Op: vm.OP_BINOP, A: 1, B: int32(vm.BinAdd), C: 1, D: 3})
	b.Emit(vm.Instruction{Op: vm.OP_JUMP, A: int32(loopStart)})
	doneIdx := b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 1})
	b.PatchOperand(loopStart, 2, doneIdx)

	fnID, err := prog.RegisterFunction("sumList", "test://sumlist", 0, nil, false, "main", "", program.NoID, nil)
	require.NoError(t, err)
	prog.Funcs[fnID].Instructions = b.Instructions()
	prog.Funcs[fnID].Consts = b.Consts()
	prog.Funcs[fnID].InputStackSize = 5

	result, err := thread.Call(fnID, nil)
	require.NoError(t, err)
	sum, ok := result.AsInt64()
	require.True(t, ok)
	require.Equal(t, int64(6), sum)
}
