package vm

import "github.com/redchew/horse64/program"

// CatchFrame is one protected-block record (spec.md §3, §4.6): the class
// ids it catches, its handler/finally addresses, and the stack floor to
// truncate to when it wins a match.
type CatchFrame struct {
	ClassIDs    []int
	HandlerAddr int
	FinallyAddr int // -1 if this frame has no finally block
	SavedFloor  int
	FrameDepth  int // CallStack.Depth() at PUSHCATCHFRAME time
}

// CatchFrameStack is the separate catch-frame stack spec.md §4.6
// describes, walked top-down on a raised exception.
type CatchFrameStack struct {
	frames []*CatchFrame
}

func newCatchFrameStack() *CatchFrameStack { return &CatchFrameStack{} }

func (c *CatchFrameStack) Push(f *CatchFrame) { c.frames = append(c.frames, f) }

func (c *CatchFrameStack) Pop() *CatchFrame {
	if len(c.frames) == 0 {
		return nil
	}
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	return f
}

func (c *CatchFrameStack) Current() *CatchFrame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

func (c *CatchFrameStack) Depth() int { return len(c.frames) }

// TruncateTo discards every catch frame above depth, used when a normal
// RETURNVALUE unwind pops a call frame that pushed catch frames it never
// explicitly popped.
func (c *CatchFrameStack) TruncateTo(depth int) { c.frames = c.frames[:depth] }

// classExtends reports whether classID is targetID or descends from it
// through the base-class chain (spec.md §4.6: "the exception's class (or
// any superclass via the class's base_class_global_id chain)").
func classExtends(prog *program.Program, classID, targetID int) bool {
	for classID != program.NoID {
		if classID == targetID {
			return true
		}
		if classID < 0 || classID >= len(prog.Classes) {
			return false
		}
		classID = prog.Classes[classID].BaseClassID
	}
	return false
}

// findMatch walks the catch-frame stack top-down (innermost first) and
// returns the index of the first frame whose ClassIDs set contains
// exceptionClassID or one of its superclasses, or -1 if none matches.
func (c *CatchFrameStack) findMatch(prog *program.Program, exceptionClassID int) int {
	for i := len(c.frames) - 1; i >= 0; i-- {
		for _, target := range c.frames[i].ClassIDs {
			if classExtends(prog, exceptionClassID, target) {
				return i
			}
		}
	}
	return -1
}
