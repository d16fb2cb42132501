package vm

import (
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/redchew/horse64/config"
	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/values"
)

// Thread is one VM instance (spec.md §5: "single-threaded cooperative
// within one VM... multiple VM instances may run in parallel operating
// system threads as long as they share only immutable Program tables").
// Every field below is per-thread state; the only thing shared across
// Threads is *program.Program, which is read-only once execution starts.
type Thread struct {
	ID uuid.UUID

	Program *program.Program
	Heap    *values.Heap
	Stack   *Stack
	Calls   *CallStack
	Catches *CatchFrameStack

	out io.Writer
	log *slog.Logger

	// RuntimeClassIDs maps a VM-internal failure name ("OutOfMemory",
	// "DivisionByZero", "TypeMismatch", "InvalidInstruction",
	// "StackOverflow") to the class id the hosting program registered
	// for it, if any (see vm.RegisterBuiltins). An internal failure with
	// no entry here propagates as a plain Go error instead of a
	// catchable exception.
	RuntimeClassIDs map[string]int
}

// NewThread creates a fresh VM thread over prog, sized per env, grounded
// on the teacher's Execute defaulting OutputWriter to os.Stdout
// (_examples/wudi-hey/vm/vm.go).
func NewThread(env *config.Environment, prog *program.Program) *Thread {
	id := uuid.New()
	t := &Thread{
		ID:      id,
		Program: prog,
		Heap:    values.NewHeap(env.HeapPoolCellSize, env.HeapPoolGrowBy),
		Calls:   newCallStack(),
		Catches: newCatchFrameStack(),
		out:     os.Stdout,
		log:     slog.Default().With("thread", id.String()),
	}
	t.Stack = newStack(env, t.Heap)
	if err := t.Stack.ToSize(env.InitialStackSize, false); err != nil {
		// InitialStackSize growing from an empty stack can only fail if
		// the configured initial size already exceeds the max, which is
		// a misconfiguration caught here rather than deep in a CALL.
		panic(err)
	}
	t.log.Info("thread started", "initial_stack_slots", env.InitialStackSize)
	return t
}

// SetOutput redirects WriteOutput's destination; tests use this to
// capture ECHO-equivalent output instead of the real stdout.
func (t *Thread) SetOutput(w io.Writer) { t.out = w }

// WriteOutput implements program.ThreadLike, the surface a native
// function's callback receives.
func (t *Thread) WriteOutput(s string) {
	io.WriteString(t.out, s)
}

func (t *Thread) logGrowth(kind string, fromSlots, toSlots int) {
	t.log.Debug("stack resized", "kind", kind,
		"from", humanize.Comma(int64(fromSlots)),
		"to", humanize.Comma(int64(toSlots)),
		"bytes", humanize.Bytes(uint64(toSlots)*uint64(valueSize)))
}

func (t *Thread) logHeapStats() {
	allocated, freed := t.Heap.Stats()
	t.log.Debug("heap stats", "allocated", allocated, "freed", freed, "live", t.Heap.LiveCount())
}

// valueSize is an approximate per-slot byte cost used only for the
// humanized log lines above; it has no bearing on actual allocation,
// which Go's runtime owns.
const valueSize = 40
