package vm

import (
	"fmt"

	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/values"
)

// resultSentinel marks a CallFrame.DestSlot that should write its return
// value to the Thread's top-level result field rather than a caller
// stack slot -- the frame a Call invocation started with has no real
// caller frame to write into.
const resultSentinel = -1

// Call invokes funcID with args as a fresh top-level activation and runs
// the interpreter loop until that activation (and anything it
// transitively calls) returns, per spec.md §4.7's CALL/RETURNVALUE
// description. Used directly by execute_program for `$$globalinit` and
// `main`, and indirectly by every bytecode CALL instruction, which
// shares this same dispatch loop rather than recursing through Go calls
// (spec.md §4.7: threaded dispatch, one loop).
func (t *Thread) Call(funcID int, args []values.Value) (values.Value, error) {
	if funcID < 0 || funcID >= len(t.Program.Funcs) {
		return values.None(), newError(ErrInvalidInstruction, funcID, 0, 0, "call to unknown func id %d", funcID)
	}
	entry := t.Program.Funcs[funcID]

	if entry.IsCFunc {
		return t.callNative(entry, args)
	}

	floor := t.Stack.Len()
	if err := t.Stack.ToSize(floor+entry.InputStackSize, false); err != nil {
		return values.None(), newError(ErrOutOfMemory, funcID, 0, 0, "growing stack for call to %q", entry.Name)
	}
	for i, a := range args {
		if i >= entry.InputStackSize {
			break
		}
		t.assignSlot(t.Stack.Slot(floor+i), a)
	}

	baseDepth := t.Calls.Depth()
	t.Calls.Push(&CallFrame{
		FuncID:    funcID,
		Floor:     floor,
		ReturnIP:  -1,
		DestSlot:  resultSentinel,
		CatchBase: t.Catches.Depth(),
	})

	result, err := t.run(baseDepth)
	return result, err
}

func (t *Thread) callNative(entry *program.FuncEntry, args []values.Value) (values.Value, error) {
	argPtrs := make([]*values.Value, len(args))
	for i := range args {
		argPtrs[i] = &args[i]
	}
	result, err := entry.Native(t, argPtrs)
	if err != nil {
		if sig, ok := err.(*RaiseSignal); ok {
			// Thread.Call's own activation has no catch frames of its
			// own (none can have been pushed before any bytecode ran),
			// so a raise reaching here is always uncaught.
			return values.None(), &UncaughtException{ClassID: sig.ClassID, Message: sig.Message}
		}
		return values.None(), err
	}
	if result == nil {
		return values.None(), nil
	}
	return *result, nil
}

// assignSlot installs v into *dst, freeing whatever dst previously held
// and bumping v's heap object's external reference count if v is a heap
// ref -- the copy-assignment contract every VALUECOPY-like write goes
// through (spec.md §4.2's Heap.Store performs the analogous bookkeeping
// for a freshly allocated object; this is its counterpart for copying an
// already-live value between slots).
func (t *Thread) assignSlot(dst *values.Value, v values.Value) {
	t.Heap.FreeValue(dst)
	if obj, ok := v.AsHeapRef(); ok && obj != nil {
		obj.ExternalRefCount++
	}
	*dst = v
}

// takeSlot moves the value out of *slot without adjusting its reference
// count, leaving *slot as None. Used by RETURNVALUE to relocate a value
// out of a frame that's about to be truncated, without a spurious
// free-then-retake.
func takeSlot(slot *values.Value) values.Value {
	v := *slot
	*slot = values.None()
	return v
}

// run executes instructions until the call stack depth drops back to
// baseDepth (the activation Call pushed has returned), implementing the
// CALL/RETURNVALUE frame semantics and exception unwinding of spec.md
// §4.6/§4.7. A central switch stands in for the original's
// label-as-value threaded dispatch, which spec.md §9 calls an accepted
// equivalent.
func (t *Thread) run(baseDepth int) (values.Value, error) {
	frame := t.Calls.Current()
	ip := 0
	var result values.Value

	for {
		entry := t.Program.Funcs[frame.FuncID]
		inst, ok := DecodeInstruction(entry.Instructions, ip*instructionSize)
		if !ok {
			return values.None(), newError(ErrInvalidInstruction, frame.FuncID, 0, ip, "instruction pointer out of range")
		}

		advance := true

		switch inst.Op {
		case OP_SETCONST:
			if int(inst.B) < 0 || int(inst.B) >= len(entry.Consts) {
				return values.None(), newError(ErrInvalidInstruction, frame.FuncID, inst.Op, ip, "const index %d out of range", inst.B)
			}
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), entry.Consts[inst.B])

		case OP_SETGLOBAL:
			if err := t.checkGlobal(frame, inst, ip, int(inst.A)); err != nil {
				return values.None(), err
			}
			v := *t.Stack.Slot(frame.Floor + int(inst.B))
			t.assignSlot(&t.Program.Globals[inst.A].Value, v)

		case OP_GETGLOBAL:
			if err := t.checkGlobal(frame, inst, ip, int(inst.B)); err != nil {
				return values.None(), err
			}
			v := t.Program.Globals[inst.B].Value
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), v)

		case OP_GETFUNC:
			// Function references are modeled as a plain Int64(func_id):
			// spec.md §3's Value tag set is closed with no dedicated
			// function-reference variant, and an id is all GETFUNC's
			// downstream consumer (an indirect CALL) needs.
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), values.Int64(int64(inst.B)))

		case OP_GETCLASS:
			// Same reasoning as GETFUNC: a class reference is its id.
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), values.Int64(int64(inst.B)))

		case OP_VALUECOPY:
			v := *t.Stack.Slot(frame.Floor + int(inst.B))
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), v)

		case OP_BINOP:
			l := *t.Stack.Slot(frame.Floor + int(inst.C))
			r := *t.Stack.Slot(frame.Floor + int(inst.D))
			v, err := t.doBinOp(BinOp(inst.B), l, r)
			if err != nil {
				verr := asVMError(err, frame.FuncID, inst.Op, ip)
				newFrame, newIP, handled := t.raiseVMError(verr)
				if !handled {
					return values.None(), verr
				}
				frame, ip, advance = newFrame, newIP, false
				break
			}
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), v)

		case OP_UNOP:
			v := *t.Stack.Slot(frame.Floor + int(inst.C))
			res, err := t.doUnOp(UnOp(inst.B), v)
			if err != nil {
				verr := asVMError(err, frame.FuncID, inst.Op, ip)
				newFrame, newIP, handled := t.raiseVMError(verr)
				if !handled {
					return values.None(), verr
				}
				frame, ip, advance = newFrame, newIP, false
				break
			}
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), res)

		case OP_CALL:
			// A: dest slot. C: arg base slot. D: argCount<<1 | indirectFlag.
			// B: func id when indirect==0, or the frame-relative slot
			// holding an Int64 function reference (see GETFUNC) when
			// indirect==1 -- CALL is the only opcode in this set, so it
			// must carry both the direct and indirect addressing modes
			// spec.md's surrounding prose implies (GETFUNC exists purely
			// to feed an indirect CALL).
			destAbs := frame.Floor + int(inst.A)
			argBase := frame.Floor + int(inst.C)
			argCount := int(inst.D) >> 1
			indirect := inst.D&1 != 0

			funcID := int(inst.B)
			if indirect {
				ref := *t.Stack.Slot(frame.Floor + int(inst.B))
				id, ok := ref.AsInt64()
				if !ok {
					return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "indirect call target is not a function reference")
				}
				funcID = int(id)
			}
			if funcID < 0 || funcID >= len(t.Program.Funcs) {
				return values.None(), newError(ErrInvalidInstruction, frame.FuncID, inst.Op, ip, "call to unknown func id %d", funcID)
			}
			callee := t.Program.Funcs[funcID]

			if callee.IsCFunc {
				args := make([]*values.Value, argCount)
				for i := 0; i < argCount; i++ {
					args[i] = t.Stack.Slot(argBase + i)
				}
				rv, err := callee.Native(t, args)
				if err != nil {
					if sig, ok := err.(*RaiseSignal); ok {
						newFrame, newIP, handled := t.raiseClass(sig.ClassID, sig.Message)
						if !handled {
							return values.None(), &UncaughtException{ClassID: sig.ClassID, Message: sig.Message}
						}
						frame, ip, advance = newFrame, newIP, false
						break
					}
					return values.None(), err
				}
				var v values.Value
				if rv != nil {
					v = *rv
				}
				t.assignSlot(t.Stack.Slot(destAbs), v)
				break
			}

			if err := t.Stack.ToSize(argBase+callee.InputStackSize, false); err != nil {
				verr := newError(ErrOutOfMemory, frame.FuncID, inst.Op, ip, "growing stack for call to %q", callee.Name)
				newFrame, newIP, handled := t.raiseVMError(verr)
				if !handled {
					return values.None(), verr
				}
				frame, ip, advance = newFrame, newIP, false
				break
			}

			t.Calls.Push(&CallFrame{
				FuncID:    funcID,
				Floor:     argBase,
				ReturnIP:  ip + 1,
				DestSlot:  destAbs,
				CatchBase: t.Catches.Depth(),
			})
			frame = t.Calls.Current()
			ip = 0
			advance = false

		case OP_SETTOP:
			target := frame.Floor + int(inst.A)
			if err := t.Stack.ToSize(target, false); err != nil {
				verr := newError(ErrOutOfMemory, frame.FuncID, inst.Op, ip, "growing frame to %d slots", inst.A)
				newFrame, newIP, handled := t.raiseVMError(verr)
				if !handled {
					return values.None(), verr
				}
				frame, ip, advance = newFrame, newIP, false
				break
			}

		case OP_RETURNVALUE:
			v := takeSlot(t.Stack.Slot(frame.Floor + int(inst.A)))
			popped := t.Calls.Pop()
			t.Stack.ToSize(popped.Floor, false)
			t.Catches.TruncateTo(popped.CatchBase)

			if popped.DestSlot == resultSentinel {
				result = v
				return result, nil
			}
			t.assignSlot(t.Stack.Slot(popped.DestSlot), v)
			frame = t.Calls.Current()
			ip = popped.ReturnIP
			advance = false

			if t.Calls.Depth() < baseDepth {
				// Unreachable under well-formed bytecode (a frame below
				// baseDepth returning would mean Call's own activation
				// already popped), kept as a defensive bound on the loop.
				return result, nil
			}

		case OP_JUMPTARGET:
			// Pure label; no runtime effect.

		case OP_CONDJUMP:
			cond := *t.Stack.Slot(frame.Floor + int(inst.A))
			if cond.Truthy() {
				ip = int(inst.B)
				advance = false
			}

		case OP_JUMP:
			ip = int(inst.A)
			advance = false

		case OP_NEWITERATOR:
			src := *t.Stack.Slot(frame.Floor + int(inst.B))
			obj, ok := src.AsHeapRef()
			if !ok || obj == nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "NEWITERATOR source is not a container")
			}
			iter := t.Heap.Alloc(values.TypeIterator, &values.IteratorPayload{Source: obj, Index: 0, Kind: obj.Type})
			t.Heap.RetainHeap(obj)
			t.Heap.Store(t.Stack.Slot(frame.Floor+int(inst.A)), iter)

		case OP_ITERATE:
			iterVal := *t.Stack.Slot(frame.Floor + int(inst.B))
			iterObj, ok := iterVal.AsHeapRef()
			if !ok || iterObj == nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "ITERATE slot is not an iterator")
			}
			payload := iterObj.Payload.(*values.IteratorPayload)
			next, hasNext := iterateNext(payload)
			if !hasNext {
				ip = int(inst.C)
				advance = false
				break
			}
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), next)

		case OP_PUSHCATCHFRAME:
			t.Catches.Push(&CatchFrame{
				HandlerAddr: int(inst.A),
				FinallyAddr: int(inst.B),
				SavedFloor:  t.Stack.Len(),
				FrameDepth:  t.Calls.Depth(),
			})

		case OP_ADDCATCHTYPE:
			cf := t.Catches.Current()
			if cf == nil {
				return values.None(), newError(ErrInvalidInstruction, frame.FuncID, inst.Op, ip, "ADDCATCHTYPE with no open catch frame")
			}
			cf.ClassIDs = append(cf.ClassIDs, int(inst.A))

		case OP_ADDCATCHTYPEBYREF:
			cf := t.Catches.Current()
			if cf == nil {
				return values.None(), newError(ErrInvalidInstruction, frame.FuncID, inst.Op, ip, "ADDCATCHTYPEBYREF with no open catch frame")
			}
			ref := *t.Stack.Slot(frame.Floor + int(inst.A))
			id, ok := ref.AsInt64()
			if !ok {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "ADDCATCHTYPEBYREF slot is not a class reference")
			}
			cf.ClassIDs = append(cf.ClassIDs, int(id))

		case OP_POPCATCHFRAME:
			t.Catches.Pop()

		case OP_GETMEMBER:
			objVal := *t.Stack.Slot(frame.Floor + int(inst.B))
			obj, ok := objVal.AsHeapRef()
			if !ok || obj == nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "GETMEMBER on a non-object value")
			}
			v, err := t.getMember(obj, int(inst.C))
			if err != nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "%v", err)
			}
			t.assignSlot(t.Stack.Slot(frame.Floor+int(inst.A)), v)

		case OP_JUMPTOFINALLY:
			// Transfers control without consuming any pending exception
			// (spec.md §4.6); at the bytecode level this is an
			// unconditional jump, the same as JUMP -- the "doesn't
			// consume" distinction only matters to whatever raise-state
			// the surrounding compiler-generated code tracks.
			ip = int(inst.A)
			advance = false

		case OP_NEWLIST:
			obj := t.Heap.Alloc(values.TypeList, &values.ListPayload{})
			t.Heap.Store(t.Stack.Slot(frame.Floor+int(inst.A)), obj)

		case OP_ADDTOLIST:
			listVal := *t.Stack.Slot(frame.Floor + int(inst.A))
			obj, ok := listVal.AsHeapRef()
			if !ok || obj == nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "ADDTOLIST on a non-list value")
			}
			elem := *t.Stack.Slot(frame.Floor + int(inst.B))
			payload := obj.Payload.(*values.ListPayload)
			payload.Elements = append(payload.Elements, elem)
			t.Heap.LinkChild(elem)

		case OP_NEWSET:
			obj := t.Heap.Alloc(values.TypeSet, &values.SetPayload{Elements: make(map[string]values.Value)})
			t.Heap.Store(t.Stack.Slot(frame.Floor+int(inst.A)), obj)

		case OP_ADDTOSET:
			setVal := *t.Stack.Slot(frame.Floor + int(inst.A))
			obj, ok := setVal.AsHeapRef()
			if !ok || obj == nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "ADDTOSET on a non-set value")
			}
			elem := *t.Stack.Slot(frame.Floor + int(inst.B))
			payload := obj.Payload.(*values.SetPayload)
			key := valueKey(elem)
			if _, exists := payload.Elements[key]; !exists {
				payload.Elements[key] = elem
				payload.Order = append(payload.Order, key)
				t.Heap.LinkChild(elem)
			}

		case OP_NEWVECTOR:
			size := int(inst.B)
			obj := t.Heap.Alloc(values.TypeVector, &values.VectorPayload{Elements: make([]values.Value, size)})
			t.Heap.Store(t.Stack.Slot(frame.Floor+int(inst.A)), obj)

		case OP_PUTVECTOR:
			vecVal := *t.Stack.Slot(frame.Floor + int(inst.A))
			obj, ok := vecVal.AsHeapRef()
			if !ok || obj == nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "PUTVECTOR on a non-vector value")
			}
			payload := obj.Payload.(*values.VectorPayload)
			idx := int(inst.B)
			if idx < 0 || idx >= len(payload.Elements) {
				return values.None(), newError(ErrInvalidInstruction, frame.FuncID, inst.Op, ip, "PUTVECTOR index %d out of range", idx)
			}
			elem := *t.Stack.Slot(frame.Floor + int(inst.C))
			t.Heap.UnlinkChild(payload.Elements[idx])
			payload.Elements[idx] = elem
			t.Heap.LinkChild(elem)

		case OP_NEWMAP:
			obj := t.Heap.Alloc(values.TypeMap, &values.MapPayload{Entries: make(map[string]values.Value)})
			t.Heap.Store(t.Stack.Slot(frame.Floor+int(inst.A)), obj)

		case OP_PUTMAP:
			mapVal := *t.Stack.Slot(frame.Floor + int(inst.A))
			obj, ok := mapVal.AsHeapRef()
			if !ok || obj == nil {
				return values.None(), newError(ErrTypeMismatch, frame.FuncID, inst.Op, ip, "PUTMAP on a non-map value")
			}
			keyVal := *t.Stack.Slot(frame.Floor + int(inst.B))
			valVal := *t.Stack.Slot(frame.Floor + int(inst.C))
			payload := obj.Payload.(*values.MapPayload)
			key := valueKey(keyVal)
			if old, exists := payload.Entries[key]; exists {
				t.Heap.UnlinkChild(old)
			} else {
				payload.Order = append(payload.Order, key)
			}
			payload.Entries[key] = valVal
			t.Heap.LinkChild(valVal)

		default:
			return values.None(), newError(ErrInvalidInstruction, frame.FuncID, inst.Op, ip, "unhandled opcode")
		}

		if advance {
			ip++
		}
	}
}

// checkGlobal bounds-checks a global var id, reporting ErrInvalidInstruction
// (rather than panicking) so malformed bytecode surfaces as a regular VM
// error.
func (t *Thread) checkGlobal(frame *CallFrame, inst Instruction, ip, id int) error {
	if id < 0 || id >= len(t.Program.Globals) {
		return newError(ErrInvalidInstruction, frame.FuncID, inst.Op, ip, "global id %d out of range", id)
	}
	return nil
}

// asVMError normalizes err to *Error, decorating it with frame context
// if it isn't one already (doBinOp/doUnOp return plain sentinel errors;
// everything else already constructs *Error via newError).
func asVMError(err error, funcID int, op Opcode, ip int) *Error {
	if verr, ok := err.(*Error); ok {
		return verr
	}
	return newError(err, funcID, op, ip, "%v", err)
}

// raiseVMError looks up the language-level exception class registered
// for verr.Kind (via Thread.RuntimeClassIDs) and, if one exists, raises
// it through raiseClass. A VM error kind with no registered class (the
// hosting program never wired one) cannot be caught by bytecode and is
// reported as handled=false so the caller propagates the Go error
// directly -- spec.md §4.7 invariant (iii) says a VM error "typically"
// becomes an OutOfMemory-class exception, not that it must.
func (t *Thread) raiseVMError(verr *Error) (*CallFrame, int, bool) {
	name := vmErrorClassName(verr.Kind)
	if name == "" {
		return nil, 0, false
	}
	classID, ok := t.RuntimeClassIDs[name]
	if !ok {
		return nil, 0, false
	}
	return t.raiseClass(classID, verr.Message)
}

// raiseClass performs the catch-frame search and unwind spec.md §4.6
// describes: the innermost matching frame wins, the call stack and value
// stack truncate to that frame's saved depth/floor, and the exception
// value is installed at the saved floor slot so handler bytecode can
// address it the same way any other frame-relative value is addressed
// (spec.md names no opcode for binding a caught exception to a
// variable, so this slot convention is this VM's answer to that gap).
func (t *Thread) raiseClass(classID int, message string) (*CallFrame, int, bool) {
	idx := t.Catches.findMatch(t.Program, classID)
	if idx == -1 {
		return nil, 0, false
	}
	matched := t.Catches.frames[idx]
	t.Catches.TruncateTo(idx)
	t.Calls.frames = t.Calls.frames[:matched.FrameDepth]

	// Everything above SavedFloor belongs to frames or protected-block
	// locals this raise is unwinding past; free them before reusing the
	// space, the same ref-count bookkeeping a normal RETURNVALUE unwind
	// gets via Stack.ToSize's shrink path.
	t.Stack.ToSize(matched.SavedFloor, false)

	obj := t.Heap.Alloc(values.TypeException, &values.ExceptionPayload{ClassID: classID, Message: message})
	t.Stack.ToSize(matched.SavedFloor+1, true)
	t.Heap.Store(t.Stack.Slot(matched.SavedFloor), obj)

	return t.Calls.Current(), matched.HandlerAddr, true
}

// vmErrorClassName maps an internal VM failure sentinel to the runtime
// class name a hosting program may have registered a catchable exception
// class under (see Thread.RuntimeClassIDs). Unrecognized kinds return "".
func vmErrorClassName(kind error) string {
	switch kind {
	case ErrOutOfMemory:
		return "OutOfMemory"
	case ErrDivisionByZero:
		return "DivisionByZero"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrInvalidInstruction:
		return "InvalidInstruction"
	case ErrStackOverflow:
		return "StackOverflow"
	default:
		return ""
	}
}

// Raise is the native-function-facing entry point for raising a
// language-level exception by class id (e.g. a builtin function
// rejecting a bad argument) -- it runs the same catch-frame search as an
// internal VM error, but native code supplies the class id directly
// instead of going through RuntimeClassIDs.
func (t *Thread) Raise(classID int, message string) (*CallFrame, int, bool) {
	return t.raiseClass(classID, message)
}

func (t *Thread) getMember(obj *values.HeapObject, nameID int) (values.Value, error) {
	var classID int
	var members []values.Value
	switch p := obj.Payload.(type) {
	case *values.InstancePayload:
		classID, members = p.ClassID, p.Members
	case *values.ExceptionPayload:
		classID, members = p.ClassID, p.Members
	default:
		return values.None(), fmt.Errorf("GETMEMBER on a %s value", obj.Type)
	}
	varID, _ := t.Program.LookupClassMember(classID, nameID)
	if varID < 0 || varID >= len(members) {
		return values.None(), fmt.Errorf("no such member (name id %d) on class %d", nameID, classID)
	}
	return members[varID], nil
}

func iterateNext(p *values.IteratorPayload) (values.Value, bool) {
	switch payload := p.Source.Payload.(type) {
	case *values.ListPayload:
		if p.Index >= len(payload.Elements) {
			return values.None(), false
		}
		v := payload.Elements[p.Index]
		p.Index++
		return v, true
	case *values.VectorPayload:
		if p.Index >= len(payload.Elements) {
			return values.None(), false
		}
		v := payload.Elements[p.Index]
		p.Index++
		return v, true
	case *values.SetPayload:
		if p.Index >= len(payload.Order) {
			return values.None(), false
		}
		v := payload.Elements[payload.Order[p.Index]]
		p.Index++
		return v, true
	case *values.MapPayload:
		if p.Index >= len(payload.Order) {
			return values.None(), false
		}
		v := payload.Entries[payload.Order[p.Index]]
		p.Index++
		return v, true
	default:
		return values.None(), false
	}
}

// valueKey derives the hash-equal membership key SetPayload/MapPayload
// use, grounded on spec.md §4.2's Set payload doc ("elements keyed by
// their hash-equal class"). Heap containers/instances fall back to
// pointer identity, since only the scalar variants have a spec-defined
// equality notion at this layer.
func valueKey(v values.Value) string {
	switch v.Tag() {
	case values.TagNone:
		return "n"
	case values.TagBool:
		b, _ := v.AsBool()
		return fmt.Sprintf("b%v", b)
	case values.TagInt64:
		i, _ := v.AsInt64()
		return fmt.Sprintf("i%d", i)
	case values.TagFloat64:
		f, _ := v.AsFloat64()
		return fmt.Sprintf("f%v", f)
	case values.TagShortStrConst:
		s, _ := v.AsShortStr()
		return "s" + string(s)
	case values.TagHeapRef:
		obj, _ := v.AsHeapRef()
		if obj != nil && obj.Type == values.TypeString {
			if sp, ok := obj.Payload.(*values.StringPayload); ok {
				return "s" + string(sp.Runes)
			}
		}
		return fmt.Sprintf("p%p", obj)
	default:
		return "?"
	}
}
