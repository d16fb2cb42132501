package ast

// StorageKind selects which program-table (or local/builtin) space a
// reference resolves into. Spec.md §3: "a `storage` annotation:
// {set: bool, ref: {kind: GLOBAL_FUNC|GLOBAL_CLASS|GLOBAL_VAR|LOCAL|BUILTIN, id: int}}".
type StorageKind int

const (
	StorageNone StorageKind = iota
	StorageGlobalFunc
	StorageGlobalClass
	StorageGlobalVar
	StorageLocal
	StorageBuiltin
)

func (k StorageKind) String() string {
	switch k {
	case StorageGlobalFunc:
		return "GLOBAL_FUNC"
	case StorageGlobalClass:
		return "GLOBAL_CLASS"
	case StorageGlobalVar:
		return "GLOBAL_VAR"
	case StorageLocal:
		return "LOCAL"
	case StorageBuiltin:
		return "BUILTIN"
	default:
		return "NONE"
	}
}

// Storage is the annotation the resolver writes onto an expression once it
// knows where the value referenced by that expression lives.
type Storage struct {
	Set bool
	Kind StorageKind
	ID   int

	// LocalSlot is filled in by the local-storage-assignment pass
	// (spec.md §4.5 step 6), after identifier resolution has already
	// picked StorageLocal.
	LocalSlot int
}
