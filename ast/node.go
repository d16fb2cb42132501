package ast

// Node is the minimal shape the resolver needs from every tree node:
// a kind, a source location, a parent link, and child enumeration for
// generic traversal. Concrete kinds carry kind-specific fields beyond
// this interface (spec.md §3: "a parent pointer, a source location, and
// kind-specific children").
type Node interface {
	Kind() Kind
	Pos() Position
	Parent() Node
	SetParent(Node)
	Children() []Node
}

// Base is embedded by every concrete node type and supplies the common
// fields, mirroring the teacher's BaseNode-plus-interface-methods shape
// (ast/node.go in the retrieval pack).
type Base struct {
	K      Kind
	P      Position
	parent Node
}

func (b *Base) Kind() Kind        { return b.K }
func (b *Base) Pos() Position     { return b.P }
func (b *Base) Parent() Node      { return b.parent }
func (b *Base) SetParent(n Node)  { b.parent = n }

// ScopeOwner is implemented by the node kinds that carry their own Scope:
// the file root, function bodies, and class bodies (spec.md §4.3:
// "get_scope(expr) -> scope: walks up expr.parent until it reaches the
// nearest node that owns a scope").
type ScopeOwner interface {
	Node
	OwnScope() *Scope
}

// GetScope walks parent links starting at expr (inclusive) until it finds
// a ScopeOwner. A malformed tree with no scope-owning ancestor is an
// internal error the caller must surface as diagnostics, not panic on
// (spec.md §4.3: "Failure is an internal error").
func GetScope(expr Node) (*Scope, error) {
	for n := expr; n != nil; n = n.Parent() {
		if owner, ok := n.(ScopeOwner); ok {
			return owner.OwnScope(), nil
		}
	}
	return nil, errMalformed(expr)
}

func errMalformed(n Node) error {
	return &ScopeLookupError{Node: n}
}

// ScopeLookupError reports that GetScope walked off the top of the tree
// without finding a scope owner.
type ScopeLookupError struct {
	Node Node
}

func (e *ScopeLookupError) Error() string {
	if e.Node == nil {
		return "ast: GetScope: nil node has no enclosing scope"
	}
	return "ast: GetScope: " + e.Node.Kind().String() + " at " + e.Node.Pos().String() + " has no enclosing scope"
}
