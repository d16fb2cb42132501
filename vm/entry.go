package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/redchew/horse64/config"
	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/values"
)

// Execute implements execute_program (spec.md §4.8): start a fresh VM
// thread, run `$$globalinit` if the program registered one, then run
// `main`. An uncaught exception in either phase is printed by class name
// (looked up via prog.Debug.ClassNames) to stderr; the return is a
// process exit status, non-zero on any failure.
func Execute(env *config.Environment, prog *program.Program, runtimeClassIDs map[string]int, stderr io.Writer) int {
	prog.MemberNames.Freeze()
	thread := NewThread(env, prog)
	thread.RuntimeClassIDs = runtimeClassIDs

	if prog.GlobalInitFuncIndex != program.NoID {
		if _, err := thread.Call(prog.GlobalInitFuncIndex, nil); err != nil {
			reportFailure(prog, stderr, err)
			return 1
		}
	}

	if prog.MainFuncIndex == program.NoID {
		fmt.Fprintln(stderr, "horse64: no main function registered")
		return 1
	}
	if _, err := thread.Call(prog.MainFuncIndex, nil); err != nil {
		reportFailure(prog, stderr, err)
		return 1
	}
	return 0
}

func reportFailure(prog *program.Program, stderr io.Writer, err error) {
	var uncaught *UncaughtException
	if errors.As(err, &uncaught) {
		name := prog.Debug.ClassNames[uncaught.ClassID]
		if name == "" {
			name = fmt.Sprintf("class#%d", uncaught.ClassID)
		}
		fmt.Fprintf(stderr, "uncaught exception: %s: %s\n", name, uncaught.Message)
		return
	}
	fmt.Fprintf(stderr, "horse64: %v\n", err)
}

// ExceptionMembers reads the fields a caught exception value exposes to
// handler bytecode (see raiseClass's slot convention): class id and
// message, the two ExceptionPayload fields every builtin-raised
// exception populates.
func ExceptionMembers(v values.Value) (classID int, message string, ok bool) {
	obj, isRef := v.AsHeapRef()
	if !isRef || obj == nil || obj.Type != values.TypeException {
		return 0, "", false
	}
	p := obj.Payload.(*values.ExceptionPayload)
	return p.ClassID, p.Message, true
}
