package values

// ObjectType is the dynamic type tag every heap object carries
// (spec.md §3).
type ObjectType byte

const (
	TypeString ObjectType = iota
	TypeList
	TypeSet
	TypeMap
	TypeVector
	TypeInstance
	TypeIterator
	TypeException
)

func (t ObjectType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeMap:
		return "map"
	case TypeVector:
		return "vector"
	case TypeInstance:
		return "instance"
	case TypeIterator:
		return "iterator"
	case TypeException:
		return "exception"
	default:
		return "unknown"
	}
}

// HeapObject carries a dynamic type tag, the two reference counters
// spec.md §3/§9 call load-bearing, and a type-specific payload.
type HeapObject struct {
	Type ObjectType

	// ExternalRefCount counts references from stack slots, globals, or
	// instruction-embedded constants. HeapRefCount counts references from
	// other heap objects. Invariant (spec.md §8): both stay >= 0 at all
	// times, and reaching zero together is a one-way transition.
	ExternalRefCount int
	HeapRefCount     int

	Payload interface{}
}

func (o *HeapObject) live() bool {
	return o.ExternalRefCount > 0 || o.HeapRefCount > 0
}

// Heap is a pool allocator for heap-object cells plus the mark-sweep
// cycle collector spec.md §3/§9 describes: the external counter tells the
// sweeper when stack/global roots exist, so cycle collection never has to
// walk the stack or global table directly.
type Heap struct {
	free []*HeapObject
	live map[*HeapObject]struct{}

	cellSize int
	growBy   int

	allocated int
	freed     int
}

// NewHeap creates a pool sized by cellSize/growBy (spec.md §4.2); both are
// advisory batching hints here (Go's allocator backs the actual memory),
// kept because the pool's *shape* -- a free list reused across
// allocations rather than a fresh allocation per object -- is what the
// spec's pooled-allocator invariant is about, not the byte layout.
func NewHeap(cellSize, growBy int) *Heap {
	if cellSize <= 0 {
		cellSize = 64
	}
	if growBy <= 0 {
		growBy = 256
	}
	return &Heap{
		cellSize: cellSize,
		growBy:   growBy,
		live:     make(map[*HeapObject]struct{}),
	}
}

// Alloc returns a fresh cell, reused from the free list when available.
// The returned object starts with both ref counts at zero; callers
// install it into a root via Store, which brings ExternalRefCount to 1 --
// satisfying the interpreter-loop invariant that "any heap object freshly
// allocated and installed into a slot has external_ref_count = 1"
// (spec.md §4.7).
func (h *Heap) Alloc(t ObjectType, payload interface{}) *HeapObject {
	var obj *HeapObject
	if n := len(h.free); n > 0 {
		obj = h.free[n-1]
		h.free = h.free[:n-1]
		*obj = HeapObject{}
	} else {
		obj = &HeapObject{}
		if cap(h.free) == 0 {
			h.free = make([]*HeapObject, 0, h.growBy)
		}
	}
	obj.Type = t
	obj.Payload = payload
	h.live[obj] = struct{}{}
	h.allocated++
	return obj
}

// Store overwrites *slot with HeapRefValue(obj), freeing whatever was
// previously there and retaining obj's external count -- the single
// choke point every instruction handler that writes a heap value into a
// stack/global/constant slot should go through.
func (h *Heap) Store(slot *Value, obj *HeapObject) {
	h.FreeValue(slot)
	obj.ExternalRefCount++
	*slot = HeapRefValue(obj)
}

// RetainHeap/ReleaseHeap adjust the heap-to-heap edge count when a
// container payload gains or loses a reference to obj.
func (h *Heap) RetainHeap(obj *HeapObject) {
	obj.HeapRefCount++
}

func (h *Heap) ReleaseHeap(obj *HeapObject) {
	obj.HeapRefCount--
	h.reclaimIfDead(obj)
}

func (h *Heap) releaseExternal(obj *HeapObject) {
	obj.ExternalRefCount--
	h.reclaimIfDead(obj)
}

func (h *Heap) reclaimIfDead(obj *HeapObject) {
	if _, tracked := h.live[obj]; !tracked {
		return
	}
	if obj.live() {
		return
	}
	h.reclaim(obj)
}

// poolGrowthFactor is the free-list's own geometric increment, distinct
// from (and typically coarser than) the VM stack's StackGrowthFactor
// since the free list is resized far less often.
const poolGrowthFactor = 2.0

func (h *Heap) reclaim(obj *HeapObject) {
	for _, child := range containerRefs(obj) {
		h.ReleaseHeap(child)
	}
	delete(h.live, obj)
	obj.Payload = nil
	h.freed++
	if len(h.free) == cap(h.free) {
		newCap := GrowTo(cap(h.free), len(h.free)+1, poolGrowthFactor)
		grown := make([]*HeapObject, len(h.free), newCap)
		copy(grown, h.free)
		h.free = grown
	}
	h.free = append(h.free, obj)
}

// Release handles the variants that need no heap bookkeeping: it frees a
// ShortStrConst's owned buffer and is a no-op on every trivially
// destructible variant. It must not be called on a value currently
// holding TagHeapRef -- use (*Heap).FreeValue for that, since releasing a
// heap ref requires the owning pool.
func Release(v *Value) {
	switch v.tag {
	case TagShortStrConst:
		v.str = nil
		*v = None()
	case TagHeapRef:
		panic("values: Release called on a heap ref; use (*Heap).FreeValue")
	default:
		// Trivially destructible variants: nothing to release.
	}
}

// FreeValue is the free-of-value contract of spec.md §4.2: idempotent,
// must run before any overwrite of a slot holding a heap ref or an
// owned-buffer constant, and must never be called on a stack slot
// currently used as a function argument by a native-call frame (that
// invariant is upheld by the VM's calling convention, not by this
// function). Unlike Release, it handles every variant, since a slot's
// tag is only known at the call site.
func (h *Heap) FreeValue(v *Value) {
	if v.tag != TagHeapRef {
		if v.tag == TagShortStrConst {
			v.str = nil
		}
		*v = None()
		return
	}
	obj := v.heap
	*v = None()
	if obj == nil {
		return
	}
	h.releaseExternal(obj)
}

// CollectCycles runs one mark-sweep pass over every live object, treating
// ExternalRefCount > 0 objects as roots. Anything unreached afterwards is
// part of a reference cycle with no external root and is reclaimed
// (spec.md §3: "Cycles are broken by a tracing sweep over heap-rooted
// references").
func (h *Heap) CollectCycles() int {
	marked := make(map[*HeapObject]struct{}, len(h.live))
	var stack []*HeapObject
	for obj := range h.live {
		if obj.ExternalRefCount > 0 {
			stack = append(stack, obj)
		}
	}
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := marked[obj]; ok {
			continue
		}
		marked[obj] = struct{}{}
		stack = append(stack, containerRefs(obj)...)
	}

	var garbage []*HeapObject
	for obj := range h.live {
		if _, ok := marked[obj]; !ok {
			garbage = append(garbage, obj)
		}
	}
	for _, obj := range garbage {
		delete(h.live, obj)
		obj.Payload = nil
		h.freed++
		h.free = append(h.free, obj)
	}
	return len(garbage)
}

// LinkChild records that some container payload now holds v as an
// element, bumping v's heap object's HeapRefCount if v is a heap ref.
// Container instruction handlers (ADDTOLIST, PUTMAP, ...) call this after
// appending v into a payload.
func (h *Heap) LinkChild(v Value) {
	if obj, ok := v.AsHeapRef(); ok && obj != nil {
		h.RetainHeap(obj)
	}
}

// UnlinkChild is LinkChild's inverse, called when a container element is
// overwritten or removed.
func (h *Heap) UnlinkChild(v Value) {
	if obj, ok := v.AsHeapRef(); ok && obj != nil {
		h.ReleaseHeap(obj)
	}
}

func (h *Heap) LiveCount() int { return len(h.live) }
func (h *Heap) Stats() (allocated, freed int) { return h.allocated, h.freed }
