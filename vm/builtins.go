package vm

import (
	"fmt"

	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/resolver"
	"github.com/redchew/horse64/values"
)

// runtimeExceptionClasses are the builtin exception classes every
// program gets for free, named after spec.md §4.7 invariant (iii)'s
// "typically ... the OutOfMemory exception class" and the closed
// diag.Kind VM entries (DivisionByZero, TypeMismatch, InvalidInstruction,
// OutOfMemory) that already name these failure kinds at the diagnostics
// layer, plus StackOverflow for the VM's ErrStackOverflow.
var runtimeExceptionClasses = []string{
	"OutOfMemory", "DivisionByZero", "TypeMismatch", "InvalidInstruction", "StackOverflow",
}

// RegisterBuiltins registers the runtime's native functions and builtin
// exception classes into prog, and returns a BuiltinSet the resolver can
// consult plus the RuntimeClassIDs map a Thread needs to make internal
// VM failures catchable bytecode exceptions (spec.md §4.5 step 5's
// builtin-module fallback and §4.7 invariant (iii) respectively).
func RegisterBuiltins(prog *program.Program) (*resolver.BuiltinSet, map[string]int) {
	builtins := resolver.NewBuiltinSet()
	runtimeClassIDs := make(map[string]int)

	for _, name := range runtimeExceptionClasses {
		id, err := prog.AddClass(name, "builtin://runtime", "builtin", "")
		if err == nil {
			runtimeClassIDs[name] = id
			builtins.Classes[name] = id
		}
	}

	registerNative := func(name string, argCount int, fn func(program.ThreadLike, []*values.Value) (*values.Value, error)) {
		id, err := prog.RegisterFunction(name, "builtin://runtime", argCount, nil, false, "builtin", "", program.NoID, fn)
		if err == nil {
			builtins.Funcs[name] = id
		}
	}

	registerNative("print", 1, builtinPrint)
	registerNative("raise", 2, builtinRaise)
	registerNative("length", 1, builtinLength)

	return builtins, runtimeClassIDs
}

func builtinPrint(thread program.ThreadLike, args []*values.Value) (*values.Value, error) {
	if len(args) == 0 {
		return nil, nil
	}
	thread.WriteOutput(formatValue(*args[0]) + "\n")
	none := values.None()
	return &none, nil
}

func builtinRaise(thread program.ThreadLike, args []*values.Value) (*values.Value, error) {
	if len(args) < 1 {
		return nil, &RaiseSignal{ClassID: -1, Message: "raise: missing class argument"}
	}
	classID, ok := args[0].AsInt64()
	if !ok {
		return nil, &RaiseSignal{ClassID: -1, Message: "raise: class argument is not a class reference"}
	}
	message := ""
	if len(args) > 1 {
		message = formatValue(*args[1])
	}
	return nil, &RaiseSignal{ClassID: int(classID), Message: message}
}

func builtinLength(thread program.ThreadLike, args []*values.Value) (*values.Value, error) {
	if len(args) < 1 {
		return nil, &RaiseSignal{ClassID: -1, Message: "length: missing argument"}
	}
	obj, ok := args[0].AsHeapRef()
	if !ok || obj == nil {
		return nil, &RaiseSignal{ClassID: -1, Message: "length: argument is not a container"}
	}
	var n int
	switch p := obj.Payload.(type) {
	case *values.StringPayload:
		n = len(p.Runes)
	case *values.ListPayload:
		n = len(p.Elements)
	case *values.VectorPayload:
		n = len(p.Elements)
	case *values.SetPayload:
		n = len(p.Order)
	case *values.MapPayload:
		n = len(p.Order)
	default:
		return nil, &RaiseSignal{ClassID: -1, Message: "length: argument has no length"}
	}
	v := values.Int64(int64(n))
	return &v, nil
}

func formatValue(v values.Value) string {
	switch v.Tag() {
	case values.TagNone:
		return "none"
	case values.TagBool:
		b, _ := v.AsBool()
		return fmt.Sprintf("%v", b)
	case values.TagInt64:
		i, _ := v.AsInt64()
		return fmt.Sprintf("%d", i)
	case values.TagFloat64:
		f, _ := v.AsFloat64()
		return fmt.Sprintf("%g", f)
	case values.TagShortStrConst:
		s, _ := v.AsShortStr()
		return string(s)
	case values.TagHeapRef:
		obj, _ := v.AsHeapRef()
		if obj != nil && obj.Type == values.TypeString {
			if sp, ok := obj.Payload.(*values.StringPayload); ok {
				return string(sp.Runes)
			}
		}
		if obj != nil {
			return fmt.Sprintf("<%s>", obj.Type)
		}
		return "none"
	default:
		return ""
	}
}
