// Package values implements the tagged Value union and the pooled,
// reference-counted heap (spec.md §3 DATA MODEL, §4.2 component C2).
package values

// Tag selects which payload field of a Value is live. Invariant
// (spec.md §3): "a value's tag fully determines which payload field is
// live."
type Tag byte

const (
	TagNone Tag = iota
	TagBool
	TagInt64
	TagFloat64
	TagShortStrConst
	TagHeapRef
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagBool:
		return "bool"
	case TagInt64:
		return "int64"
	case TagFloat64:
		return "float64"
	case TagShortStrConst:
		return "short_str_const"
	case TagHeapRef:
		return "heap_ref"
	default:
		return "unknown"
	}
}

// Value is a tagged union. Every variant except HeapRef and
// ShortStrConst is trivially destructible (spec.md §3): a HeapRef must
// release its external reference count, and a ShortStrConst owns a
// buffer that must be freed -- both happen in FreeValue.
type Value struct {
	tag Tag

	b    bool
	i    int64
	f    float64
	str  []byte // owning buffer for TagShortStrConst
	heap *HeapObject
}

func None() Value              { return Value{tag: TagNone} }
func Bool(b bool) Value        { return Value{tag: TagBool, b: b} }
func Int64(i int64) Value      { return Value{tag: TagInt64, i: i} }
func Float64(f float64) Value  { return Value{tag: TagFloat64, f: f} }

// ShortStrConst wraps buf as a constant string payload embedded directly
// in an instruction; only instruction constants use this variant
// (spec.md §3).
func ShortStrConst(buf []byte) Value {
	owned := make([]byte, len(buf))
	copy(owned, buf)
	return Value{tag: TagShortStrConst, str: owned}
}

// HeapRefValue wraps obj without touching its reference counts; callers
// install it into a root slot via Heap.Store, which performs the
// bookkeeping spec.md §4.2 requires.
func HeapRefValue(obj *HeapObject) Value {
	return Value{tag: TagHeapRef, heap: obj}
}

func (v Value) Tag() Tag { return v.tag }
func (v Value) IsNone() bool { return v.tag == TagNone }

func (v Value) AsBool() (bool, bool)       { return v.b, v.tag == TagBool }
func (v Value) AsInt64() (int64, bool)     { return v.i, v.tag == TagInt64 }
func (v Value) AsFloat64() (float64, bool) { return v.f, v.tag == TagFloat64 }
func (v Value) AsShortStr() ([]byte, bool) { return v.str, v.tag == TagShortStrConst }
func (v Value) AsHeapRef() (*HeapObject, bool) {
	return v.heap, v.tag == TagHeapRef
}

// Truthy implements the language's boolean-coercion rule: none and
// false-bool are falsy, everything else (including zero numbers) is
// truthy. CONDJUMP, the BinAnd/BinOr operators and UnNot all apply it to
// any value tag.
func (v Value) Truthy() bool {
	switch v.tag {
	case TagNone:
		return false
	case TagBool:
		return v.b
	default:
		return true
	}
}
