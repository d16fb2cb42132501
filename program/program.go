// Package program implements the append-only program table (spec.md §4.1,
// component C1): functions, classes, globals, interned member names and
// their debug symbols, keyed by stable integer ids assigned in insertion
// order.
package program

import (
	"fmt"

	"github.com/redchew/horse64/pathutil"
	"github.com/redchew/horse64/values"
)

// HashSize is the fixed power-of-two bucket count every class's
// member-lookup table is sized to (spec.md §4.1).
const HashSize = 64

// MaxMethods bounds how many methods a single class may register before
// member-name payload encoding (methods in [0, MaxMethods), variables
// offset by MaxMethods) would collide. Chosen generously above any
// realistic class; exceeding it is TooManyMethods.
const MaxMethods = 1 << 16

const (
	NoID = -1
)

// FuncEntry is one append-only function-table row.
type FuncEntry struct {
	Name              string
	IsCFunc           bool
	Instructions      []byte // opaque bytecode buffer; emitted by the (external) emitter
	// Consts holds this function's instruction-embedded literal constants,
	// addressed by SETCONST's operand index. Not named among FuncEntry's
	// fields in spec.md §3, but SETCONST has no other source to read
	// from -- embedding the value directly in the instruction stream
	// would break the fixed-size-record invariant spec.md §4.7 states,
	// so a per-function side table is the natural fit.
	Consts            []values.Value
	Native            func(thread ThreadLike, args []*values.Value) (*values.Value, error)
	ArgCount          int
	KwargNames        []string
	LastIsMulti       bool
	InputStackSize    int
	AssociatedClassID int // NoID if this is a free function

	FileURI    string
	ModulePath string
	Library    string
}

// ThreadLike is the minimal surface program.FuncEntry.Native needs from a
// VM thread; kept here (rather than importing the vm package) to avoid a
// program<->vm import cycle, since vm.Thread embeds *program.Program.
type ThreadLike interface {
	WriteOutput(string)
}

// MethodRef and MemberVarRef are the ordered lists a ClassEntry keeps,
// distinct from the hash-bucket index used for fast lookup.
type MethodRef struct {
	NameID int
	FuncID int
}

type MemberVarRef struct {
	NameID int
}

// bucketEntry is one slot of a class's member-lookup hash table. Payload
// encodes "method" vs "variable" the way spec.md §4.1 describes:
// "entries in [0, MAX_METHODS) are methods and [MAX_METHODS, …) are
// variables offset by MAX_METHODS".
type bucketEntry struct {
	nameID  int
	payload int
}

// ClassEntry is one append-only class-table row.
type ClassEntry struct {
	Name        string
	BaseClassID int // NoID if no base class
	Methods     []MethodRef
	Members     []MemberVarRef
	buckets     [HashSize][]bucketEntry

	FileURI    string
	ModulePath string
	Library    string
}

// GlobalEntry is one append-only global-variable-table row.
type GlobalEntry struct {
	Name    string
	Value   values.Value
	IsConst bool

	FileURI    string
	ModulePath string
	Library    string
}

// DebugSymbols maps stable ids back to human-readable identifying
// information, the minimal surface the VM core needs for the
// uncaught-exception class-name print required by spec.md §4.8 and the
// humanized growth log lines in the ambient logging layer.
type DebugSymbols struct {
	FuncNames  map[int]string
	ClassNames map[int]string
	VarNames   map[int]string
}

func newDebugSymbols() *DebugSymbols {
	return &DebugSymbols{
		FuncNames:  make(map[int]string),
		ClassNames: make(map[int]string),
		VarNames:   make(map[int]string),
	}
}

// moduleSymbols is the per-module "name -> table entry" map every
// registration operation consults to detect intra-module name collisions
// (spec.md §4.1: "Fails if name collides within the same module").
type moduleSymbols struct {
	names map[string]struct{}
}

// Program is the monotonically growing set of tables described in
// spec.md §3 DATA MODEL.
type Program struct {
	Funcs   []*FuncEntry
	Classes []*ClassEntry
	Globals []*GlobalEntry

	MemberNames *NameInterner
	Debug       *DebugSymbols

	fileURIs     []string
	fileURIIndex map[string]int

	modules map[string]*moduleSymbols

	// Distinguished slots (spec.md §3).
	MainFuncIndex       int
	GlobalInitFuncIndex int

	// Pre-interned name ids for special methods (spec.md §3).
	NameToStr  int
	NameLength int
	NameInit   int
	NameDestroy int
	NameClone  int
	NameEquals int
	NameHash   int
}

// New creates an empty program table with the special-method names
// already interned, as spec.md §3 requires.
func New() *Program {
	p := &Program{
		MemberNames:         NewNameInterner(),
		Debug:               newDebugSymbols(),
		fileURIIndex:        make(map[string]int),
		modules:             make(map[string]*moduleSymbols),
		MainFuncIndex:       NoID,
		GlobalInitFuncIndex: NoID,
	}
	p.NameToStr = p.MemberNames.Intern("to_str")
	p.NameLength = p.MemberNames.Intern("length")
	p.NameInit = p.MemberNames.Intern("init")
	p.NameDestroy = p.MemberNames.Intern("destroy")
	p.NameClone = p.MemberNames.Intern("clone")
	p.NameEquals = p.MemberNames.Intern("equals")
	p.NameHash = p.MemberNames.Intern("hash")
	return p
}

func (p *Program) moduleFor(modulePath string) *moduleSymbols {
	m, ok := p.modules[modulePath]
	if !ok {
		m = &moduleSymbols{names: make(map[string]struct{})}
		p.modules[modulePath] = m
	}
	return m
}

func (p *Program) nameTaken(modulePath, name string) bool {
	m, ok := p.modules[modulePath]
	if !ok {
		return false
	}
	_, taken := m.names[name]
	return taken
}

// AddGlobalVar appends a global slot, per spec.md §4.1. Fails (leaving
// the tables untouched) if name collides within the same module.
func (p *Program) AddGlobalVar(name string, isConst bool, fileURI, modulePath, library string) (int, error) {
	if p.nameTaken(modulePath, name) {
		return NoID, fmt.Errorf("program: AddGlobalVar: %q already declared in module %q", name, modulePath)
	}
	id := len(p.Globals)
	p.Globals = append(p.Globals, &GlobalEntry{
		Name: name, IsConst: isConst, FileURI: fileURI, ModulePath: modulePath, Library: library,
		Value: values.None(),
	})
	p.moduleFor(modulePath).names[name] = struct{}{}
	p.Debug.VarNames[id] = name
	return id, nil
}

// AddClass appends a class entry with an empty member hash table
// (spec.md §4.1).
func (p *Program) AddClass(name string, fileURI, modulePath, library string) (int, error) {
	if p.nameTaken(modulePath, name) {
		return NoID, fmt.Errorf("program: AddClass: %q already declared in module %q", name, modulePath)
	}
	id := len(p.Classes)
	p.Classes = append(p.Classes, &ClassEntry{
		Name: name, BaseClassID: NoID, FileURI: fileURI, ModulePath: modulePath, Library: library,
	})
	p.moduleFor(modulePath).names[name] = struct{}{}
	p.Debug.ClassNames[id] = name
	return id, nil
}

// RegisterClassMember interns name to a name_id, rejects a duplicate
// member name on the same class, then appends to the method list (funcID
// present) or the member-variable list, and records the membership into
// the corresponding hash bucket (spec.md §4.1). Registration is
// transactional: on failure, nothing about the class or the interner is
// left half-updated (interning itself is idempotent and side-effect-free
// to roll back).
func (p *Program) RegisterClassMember(classID int, name string, funcID int) error {
	if classID < 0 || classID >= len(p.Classes) {
		return fmt.Errorf("program: RegisterClassMember: invalid class id %d", classID)
	}
	class := p.Classes[classID]
	nameID := p.MemberNames.Intern(name)
	bucket := nameID % HashSize
	for _, entry := range class.buckets[bucket] {
		if entry.nameID == nameID {
			return fmt.Errorf("program: RegisterClassMember: %w: %q on class %q", ErrDuplicateClassMember, name, class.Name)
		}
	}

	var payload int
	if funcID >= 0 {
		if len(class.Methods) >= MaxMethods {
			return fmt.Errorf("program: RegisterClassMember: %w: class %q", ErrTooManyMethods, class.Name)
		}
		payload = len(class.Methods)
		class.Methods = append(class.Methods, MethodRef{NameID: nameID, FuncID: funcID})
	} else {
		payload = MaxMethods + len(class.Members)
		class.Members = append(class.Members, MemberVarRef{NameID: nameID})
	}
	class.buckets[bucket] = append(class.buckets[bucket], bucketEntry{nameID: nameID, payload: payload})
	return nil
}

// RegisterFunction appends a function entry, adds symbol and module name
// mapping, and -- if associatedClassID >= 0 -- also registers it as a
// class method (spec.md §4.1).
func (p *Program) RegisterFunction(name, fileURI string, argCount int, kwargNames []string, lastIsMulti bool, modulePath, library string, associatedClassID int, native func(ThreadLike, []*values.Value) (*values.Value, error)) (int, error) {
	// Methods are named within their class's namespace, not the module's;
	// only free functions participate in the module-level collision check.
	if associatedClassID < 0 && p.nameTaken(modulePath, name) {
		return NoID, fmt.Errorf("program: RegisterFunction: %q already declared in module %q", name, modulePath)
	}
	id := len(p.Funcs)
	p.Funcs = append(p.Funcs, &FuncEntry{
		Name: name, FileURI: fileURI, ArgCount: argCount, KwargNames: kwargNames,
		LastIsMulti: lastIsMulti, ModulePath: modulePath, Library: library,
		AssociatedClassID: associatedClassID, Native: native, IsCFunc: native != nil,
	})
	p.Debug.FuncNames[id] = name

	if associatedClassID >= 0 {
		if err := p.RegisterClassMember(associatedClassID, name, id); err != nil {
			// Roll back the just-appended function row so the tables stay
			// consistent on failure (spec.md §4.1 transactional invariant).
			p.Funcs = p.Funcs[:id]
			delete(p.Debug.FuncNames, id)
			return NoID, err
		}
		return id, nil
	}

	p.moduleFor(modulePath).names[name] = struct{}{}
	return id, nil
}

// LookupClassMember probes classID's bucket for nameID linearly, the same
// walk RegisterClassMember's dedup check performs (spec.md §8: "The class
// member-lookup bucket probe returns the same result as a linear scan
// over all registered members").
func (p *Program) LookupClassMember(classID, nameID int) (varID, funcID int) {
	varID, funcID = NoID, NoID
	if classID < 0 || classID >= len(p.Classes) {
		return
	}
	class := p.Classes[classID]
	bucket := nameID % HashSize
	for _, entry := range class.buckets[bucket] {
		if entry.nameID != nameID {
			continue
		}
		if entry.payload < MaxMethods {
			funcID = class.Methods[entry.payload].FuncID
		} else {
			varID = entry.payload - MaxMethods
		}
		return
	}
	return
}

// InternFileURI normalizes uri and returns a stable index into the
// file-URI table (spec.md §4.1).
func (p *Program) InternFileURI(uri string) int {
	uri = pathutil.Normalize(uri)
	if idx, ok := p.fileURIIndex[uri]; ok {
		return idx
	}
	idx := len(p.fileURIs)
	p.fileURIs = append(p.fileURIs, uri)
	p.fileURIIndex[uri] = idx
	return idx
}

func (p *Program) FileURI(index int) string {
	if index < 0 || index >= len(p.fileURIs) {
		return ""
	}
	return p.fileURIs[index]
}
