package vm

import (
	"testing"

	"github.com/redchew/horse64/config"
	"github.com/redchew/horse64/program"
	"github.com/stretchr/testify/require"
)

func TestClassExtendsWalksBaseClassChain(t *testing.T) {
	prog := program.New()
	a, err := prog.AddClass("A", "test://a", "main", "")
	require.NoError(t, err)
	b, err := prog.AddClass("B", "test://b", "main", "")
	require.NoError(t, err)
	prog.Classes[b].BaseClassID = a
	c, err := prog.AddClass("C", "test://c", "main", "")
	require.NoError(t, err)
	prog.Classes[c].BaseClassID = b

	require.True(t, classExtends(prog, c, a))
	require.True(t, classExtends(prog, c, b))
	require.True(t, classExtends(prog, c, c))
	require.False(t, classExtends(prog, a, c))
}

func TestFindMatchPrefersInnermostFrame(t *testing.T) {
	prog := program.New()
	outerClass, _ := prog.AddClass("Outer", "test://o", "main", "")
	innerClass, _ := prog.AddClass("Inner", "test://i", "main", "")

	cfs := newCatchFrameStack()
	cfs.Push(&CatchFrame{ClassIDs: []int{outerClass}, HandlerAddr: 1})
	cfs.Push(&CatchFrame{ClassIDs: []int{innerClass}, HandlerAddr: 2})

	require.Equal(t, 1, cfs.findMatch(prog, innerClass))
	require.Equal(t, 0, cfs.findMatch(prog, outerClass))
	require.Equal(t, -1, cfs.findMatch(prog, 999))
}

func TestRaiseClassTruncatesStacksAndInstallsExceptionAtSavedFloor(t *testing.T) {
	prog := program.New()
	errClass, _ := prog.AddClass("SomeError", "test://e", "main", "")

	env := config.Default()
	thread := NewThread(env, prog)

	outerFloor := thread.Stack.Len()
	thread.Calls.Push(&CallFrame{FuncID: 0, Floor: outerFloor, ReturnIP: -1, DestSlot: resultSentinel, CatchBase: 0})
	thread.Catches.Push(&CatchFrame{
		ClassIDs:    []int{errClass},
		HandlerAddr: 7,
		FinallyAddr: -1,
		SavedFloor:  outerFloor,
		FrameDepth:  thread.Calls.Depth(),
	})

	// Simulate a nested call that pushed its own (now-stale) frame and
	// catch frame, both of which raiseClass's unwind must discard.
	thread.Calls.Push(&CallFrame{FuncID: 0, Floor: outerFloor + 5, ReturnIP: 3, DestSlot: outerFloor, CatchBase: 1})
	thread.Catches.Push(&CatchFrame{ClassIDs: []int{}, HandlerAddr: 99, SavedFloor: outerFloor + 5, FrameDepth: 2})

	frame, handlerAddr, handled := thread.raiseClass(errClass, "boom")
	require.True(t, handled)
	require.Equal(t, 7, handlerAddr)
	require.NotNil(t, frame)

	require.Equal(t, 0, thread.Catches.Depth())
	require.Equal(t, 1, thread.Calls.Depth())

	classID, message, ok := ExceptionMembers(*thread.Stack.Slot(outerFloor))
	require.True(t, ok)
	require.Equal(t, errClass, classID)
	require.Equal(t, "boom", message)
}

func TestRaiseClassReportsUnhandledWithNoMatchingFrame(t *testing.T) {
	prog := program.New()
	errClass, _ := prog.AddClass("SomeError", "test://e", "main", "")
	env := config.Default()
	thread := NewThread(env, prog)

	_, _, handled := thread.raiseClass(errClass, "boom")
	require.False(t, handled)
}
