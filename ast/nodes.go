package ast

// LiteralKind distinguishes the handful of literal shapes a constant can
// take (spec.md §3 Value variants, mirrored on the AST side for
// SETCONST-style emission).
type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralBool
	LiteralInt64
	LiteralFloat64
	LiteralString
)

// Literal is a constant value embedded directly in the tree.
type Literal struct {
	Base
	LitKind LiteralKind
	Bool    bool
	Int64   int64
	Float64 float64
	Str     string
}

func (l *Literal) Children() []Node { return nil }

// IdentifierRef is a bare name reference. The resolver fills in Storage,
// ResolvedToDef and ResolvedToBuiltin (spec.md §4.5 step 5).
type IdentifierRef struct {
	Base
	Name              string
	Storage           Storage
	ResolvedToDef     bool
	ResolvedToBuiltin bool
	// MemberNameID is not set by the resolver: the right-hand side of an
	// `a.b` access is MemberByIdentifier.Name, not an IdentifierRef, so the
	// interned member-name id is recorded on MemberByIdentifier.MemberNameID.
	MemberNameID int
}

func (i *IdentifierRef) Children() []Node { return nil }

// SelfExpr / BaseExpr are the special names that must appear inside a
// class method (spec.md §4.5 step 5).
type SelfExpr struct{ Base }
type BaseExpr struct{ Base }

func (s *SelfExpr) Children() []Node { return nil }
func (b *BaseExpr) Children() []Node { return nil }

// BinaryOp and UnaryOp are evaluated by the emitted BINOP/UNOP
// instructions (spec.md §4.7); the AST only needs the operator and
// operands.
type BinaryOp struct {
	Base
	Op          string
	Left, Right Node
}

func (b *BinaryOp) Children() []Node { return []Node{b.Left, b.Right} }

type UnaryOp struct {
	Base
	Op      string
	Operand Node
}

func (u *UnaryOp) Children() []Node { return []Node{u.Operand} }

// KwArg is a call-site keyword argument (`foo(x: 1)`); its Name is
// pre-interned into the member-name table so bytecode can reference it by
// id (spec.md §4.5 step 3).
type KwArg struct {
	Name       string
	NameID     int
	Value      Node
}

// Call covers both free-function and member calls; Callee is a
// *MemberByIdentifier when this call is of the form `a.b(...)`.
type Call struct {
	Base
	Callee Node
	Args   []Node
	KwArgs []KwArg
}

func (c *Call) Children() []Node {
	children := make([]Node, 0, len(c.Args)+len(c.KwArgs)+1)
	children = append(children, c.Callee)
	children = append(children, c.Args...)
	for _, kw := range c.KwArgs {
		children = append(children, kw.Value)
	}
	return children
}

// MemberByIdentifier is `target.Name`; Target is typically an
// IdentifierRef or another MemberByIdentifier chain (spec.md §4.5 step 5
// describes walking the "longest consecutive chain of
// member_by_identifier parents").
type MemberByIdentifier struct {
	Base
	Target       Node
	Name         string
	MemberNameID int

	// Storage and ResolvedCrossModule are filled in only when this member
	// access is the terminal step of a cross-module access chain (spec.md
	// §4.5 step 5: "...Look up the accessed name in the target AST's
	// global scope... Otherwise copy the target's storage"). A member
	// access into an instance (not a module) leaves these zero; the
	// emitter (external) uses GETMEMBER for that case instead.
	Storage             Storage
	ResolvedCrossModule bool
}

func (m *MemberByIdentifier) Children() []Node { return []Node{m.Target} }

// VarDef declares a variable: at global scope it becomes a global slot, in
// a class body (with no intervening function) a class member, and
// anywhere else a local (spec.md §4.5 step 3).
type VarDef struct {
	Base
	Name    string
	Init    Node
	IsConst bool
	Storage Storage
}

func (v *VarDef) Children() []Node {
	if v.Init == nil {
		return nil
	}
	return []Node{v.Init}
}

// Param is a function parameter; it is always a local definition within
// its owning function.
type Param struct {
	Name string
}

// FuncDef covers both named functions and inline (anonymous) functions.
// It owns a Scope for its parameters and locals, and accumulates
// ClosureCaptures -- the definitions from enclosing functions that this
// function's body references (spec.md §4.5 step 5, closure capture).
type FuncDef struct {
	Base
	Name            string
	Params          []Param
	KwParamNames    []string
	LastIsMulti     bool
	Body            []Node
	IsInline        bool
	Storage         Storage
	scope           *Scope
	ClosureCaptures []*Definition
	// AssociatedClass is non-nil when this function is a method.
	AssociatedClass *ClassDef
}

func NewFuncDef(pos Position, parent *Scope) *FuncDef {
	f := &FuncDef{Base: Base{K: KindFuncDef, P: pos}}
	f.scope = NewScope(parent, false)
	f.scope.Owner = f
	return f
}

func (f *FuncDef) OwnScope() *Scope  { return f.scope }
func (f *FuncDef) Children() []Node  { return f.Body }

// AddCapture records an outer-function definition as captured by this
// function, skipping duplicates so "each inner function must reference
// exactly one entry per captured definition" (spec.md §4.5 step 5
// invariant).
func (f *FuncDef) AddCapture(def *Definition) {
	for _, existing := range f.ClosureCaptures {
		if existing == def {
			return
		}
	}
	f.ClosureCaptures = append(f.ClosureCaptures, def)
}

// ClassDef declares a class. Members is the raw declaration list in
// source order (a mix of *VarDef and *FuncDef); the global-storage pass
// classifies each into program.Classes[id]'s method/member lists.
type ClassDef struct {
	Base
	Name     string
	BaseName string
	Members  []Node
	Storage  Storage
}

func (c *ClassDef) Children() []Node { return c.Members }

// ImportStmt binds the leading path component as an identifier in the
// enclosing (global) scope.
type ImportStmt struct {
	Base
	PathComponents []string
	Library        string
}

func (i *ImportStmt) Children() []Node { return nil }

// ForStmt iterates IterExpr, binding IteratorName as a for-iterator local
// for the duration of Body (spec.md §4.5 step 5 lists "for-iterator" among
// the local declaration kinds).
type ForStmt struct {
	Base
	IteratorName string
	IterExpr     Node
	Body         []Node
}

func (f *ForStmt) Children() []Node {
	children := make([]Node, 0, len(f.Body)+1)
	children = append(children, f.IterExpr)
	children = append(children, f.Body...)
	return children
}

// ReturnStmt returns Value (nil means return none).
type ReturnStmt struct {
	Base
	Value Node
}

func (r *ReturnStmt) Children() []Node {
	if r.Value == nil {
		return nil
	}
	return []Node{r.Value}
}

// RaiseStmt raises an exception value.
type RaiseStmt struct {
	Base
	Value Node
}

func (r *RaiseStmt) Children() []Node { return []Node{r.Value} }

// RescueClause is one `rescue <ClassNames> { Body }` arm of a DoRescueStmt.
type RescueClause struct {
	ClassNames []Node // IdentifierRef / MemberByIdentifier expressions naming exception classes
	Body       []Node
}

// DoRescueStmt models `do { ... } rescue X { ... } finally { ... }`,
// compiled into PUSHCATCHFRAME / ADDCATCHTYPE[BYREF] / POPCATCHFRAME
// (spec.md §4.6).
type DoRescueStmt struct {
	Base
	Do       []Node
	Rescues  []RescueClause
	Finally  []Node
}

func (d *DoRescueStmt) Children() []Node {
	children := append([]Node{}, d.Do...)
	for _, r := range d.Rescues {
		children = append(children, r.ClassNames...)
		children = append(children, r.Body...)
	}
	children = append(children, d.Finally...)
	return children
}
