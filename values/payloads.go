package values

// StringPayload stores the string's content as length-prefixed UTF-32
// code units (spec.md §4.2), i.e. a plain []rune -- Go's slice header
// already carries the length.
type StringPayload struct {
	Runes []rune
}

type ListPayload struct {
	Elements []Value
}

// SetPayload keeps elements keyed by their hash-equal class so membership
// and equals() both run in O(1) rather than a linear equals() scan; Order
// records insertion order for deterministic iteration.
type SetPayload struct {
	Elements map[string]Value
	Order    []string
}

type MapPayload struct {
	Entries map[string]Value
	Order   []string
}

type VectorPayload struct {
	Elements []Value
}

type InstancePayload struct {
	ClassID int
	Members []Value
}

type IteratorPayload struct {
	Source  *HeapObject
	Index   int
	Kind    ObjectType
}

type ExceptionPayload struct {
	ClassID int
	Message string
	Members []Value
}

// containerRefs extracts the heap objects obj's payload holds a
// heap-to-heap reference to, used by both the reclaim-on-release path and
// the cycle collector's mark phase.
func containerRefs(obj *HeapObject) []*HeapObject {
	var out []*HeapObject
	add := func(v Value) {
		if ref, ok := v.AsHeapRef(); ok && ref != nil {
			out = append(out, ref)
		}
	}
	switch p := obj.Payload.(type) {
	case *ListPayload:
		for _, v := range p.Elements {
			add(v)
		}
	case *SetPayload:
		for _, v := range p.Elements {
			add(v)
		}
	case *MapPayload:
		for _, v := range p.Entries {
			add(v)
		}
	case *VectorPayload:
		for _, v := range p.Elements {
			add(v)
		}
	case *InstancePayload:
		for _, v := range p.Members {
			add(v)
		}
	case *ExceptionPayload:
		for _, v := range p.Members {
			add(v)
		}
	case *IteratorPayload:
		if p.Source != nil {
			out = append(out, p.Source)
		}
	case *StringPayload:
		// No nested heap references.
	}
	return out
}
