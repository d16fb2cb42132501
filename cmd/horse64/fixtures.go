package main

import (
	"fmt"

	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/values"
	"github.com/redchew/horse64/vm"
)

// A fixture builds a runnable program table directly against the
// instruction-builder API, the same way the vm package's own tests do --
// there being no lexer/parser in this core to drive a real .h64 source
// file from (spec.md §1 names the front end's source text as out of
// scope). "run" picks one of these by name; they stand in for what would
// otherwise be a compiled module loaded from disk.
type fixture struct {
	name        string
	description string
	build       func(prog *program.Program) error
}

var fixtures = []fixture{
	{
		name:        "hello",
		description: `calls the print builtin with a constant string`,
		build:       buildHelloFixture,
	},
	{
		name:        "arithmetic",
		description: `computes (2 + 3) * 4 and returns it from main`,
		build:       buildArithmeticFixture,
	},
	{
		name:        "uncaught",
		description: `raises OutOfMemory with no catch frame, to exercise the exit-1 path`,
		build:       buildUncaughtFixture,
	},
}

func findFixture(name string) (fixture, bool) {
	for _, f := range fixtures {
		if f.name == name {
			return f, true
		}
	}
	return fixture{}, false
}

func buildHelloFixture(prog *program.Program) error {
	builtins, _ := vm.RegisterBuiltins(prog)
	printID := builtins.Funcs["print"]

	b := vm.NewBuilder()
	greeting := b.AddConst(values.ShortStrConst([]byte("hello from horse64")))
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: int32(greeting)})
	b.Emit(vm.Instruction{Op: vm.OP_CALL, A: 1, B: int32(printID), C: 0, D: 1 << 1})
	b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 1})

	mainID, err := prog.RegisterFunction("main", "fixture://hello", 0, nil, false, "main", "", program.NoID, nil)
	if err != nil {
		return err
	}
	prog.Funcs[mainID].Instructions = b.Instructions()
	prog.Funcs[mainID].Consts = b.Consts()
	prog.Funcs[mainID].InputStackSize = 2
	prog.MainFuncIndex = mainID
	return nil
}

func buildArithmeticFixture(prog *program.Program) error {
	vm.RegisterBuiltins(prog)

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

	mainID, err := prog.RegisterFunction("main", "fixture://arithmetic", 0, nil, false, "main", "", program.NoID, nil)
	if err != nil {
		return err
	}
	prog.Funcs[mainID].Instructions = b.Instructions()
	prog.Funcs[mainID].Consts = b.Consts()
	prog.Funcs[mainID].InputStackSize = 5
	prog.MainFuncIndex = mainID
	return nil
}

func buildUncaughtFixture(prog *program.Program) error {
	builtins, runtimeClassIDs := vm.RegisterBuiltins(prog)
	raiseID := builtins.Funcs["raise"]
	oomClass := runtimeClassIDs["OutOfMemory"]

	b := vm.NewBuilder()
	classConst := b.AddConst(values.Int64(int64(oomClass)))
	msgConst := b.AddConst(values.ShortStrConst([]byte("disk on fire")))
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 0, B: int32(classConst)})
	b.Emit(vm.Instruction{Op: vm.OP_SETCONST, A: 1, B: int32(msgConst)})
	b.Emit(vm.Instruction{Op: vm.OP_CALL, A: 2, B: int32(raiseID), C: 0, D: 2 << 1})
	b.Emit(vm.Instruction{Op: vm.OP_RETURNVALUE, A: 2})

	mainID, err := prog.RegisterFunction("main", "fixture://uncaught", 0, nil, false, "main", "", program.NoID, nil)
	if err != nil {
		return err
	}
	prog.Funcs[mainID].Instructions = b.Instructions()
	prog.Funcs[mainID].Consts = b.Consts()
	prog.Funcs[mainID].InputStackSize = 3
	prog.MainFuncIndex = mainID
	return nil
}

func fixtureNames() string {
	s := ""
	for i, f := range fixtures {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s (%s)", f.name, f.description)
	}
	return s
}
