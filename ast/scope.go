package ast

// Definition links a name to the expression that declared it, plus any
// further declarations sharing the identifier -- spec.md §3: "a
// `definitions[]` of {identifier, declaration_expr, additional_decls[],
// ever_used, closure_bound}". The classic case for AdditionalDecls is two
// `import foo.bar` / `import foo.baz` statements that both bind the
// prefix `foo`.
type Definition struct {
	Identifier      string
	DeclarationExpr Node
	AdditionalDecls []Node
	EverUsed        bool
	ClosureBound    bool
}

// Scope is a name -> Definition environment with a parent link; lookup
// walks outward through Parent (spec.md §3 and §4.3).
type Scope struct {
	Definitions []*Definition
	byName      map[string]*Definition
	Parent      *Scope
	IsGlobal    bool

	// Owner is the node that created this scope (a *File or *FuncDef),
	// set once by that constructor. It lets a caller that resolved an
	// identifier via Query map the result back to the scope level (and
	// therefore the function) that declared it -- e.g. to distinguish a
	// same-function local from a closure-captured outer one.
	Owner Node
}

func NewScope(parent *Scope, isGlobal bool) *Scope {
	return &Scope{
		byName:   make(map[string]*Definition),
		Parent:   parent,
		IsGlobal: isGlobal,
	}
}

// Define registers a new identifier in this scope, or -- if the name is
// already bound here -- appends declExpr as an additional declaration on
// the existing Definition (the multi-import binding case).
func (s *Scope) Define(identifier string, declExpr Node) *Definition {
	if existing, ok := s.byName[identifier]; ok {
		existing.AdditionalDecls = append(existing.AdditionalDecls, declExpr)
		return existing
	}
	def := &Definition{Identifier: identifier, DeclarationExpr: declExpr}
	s.byName[identifier] = def
	s.Definitions = append(s.Definitions, def)
	return def
}

// Query searches the local name map first; if not found and walkParents
// is set, it recurses into the parent scope (spec.md §4.3).
func (s *Scope) Query(name string, walkParents bool) *Definition {
	if s == nil {
		return nil
	}
	if def, ok := s.byName[name]; ok {
		return def
	}
	if walkParents {
		return s.Parent.Query(name, true)
	}
	return nil
}

// QueryScope is Query, but also returns the Scope in which the
// definition was actually found, letting a caller map a resolved
// identifier back to the declaring scope's Owner (e.g. to tell a
// same-function local apart from a closure-captured outer one).
func (s *Scope) QueryScope(name string) (*Definition, *Scope) {
	if s == nil {
		return nil, nil
	}
	if def, ok := s.byName[name]; ok {
		return def, s
	}
	return s.Parent.QueryScope(name)
}
