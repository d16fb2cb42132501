package resolver

import (
	"github.com/redchew/horse64/ast"
	"github.com/redchew/horse64/diag"
)

// resolveIdentifiers runs the identifier-resolution pass (spec.md §4.5
// step 5) over every identifier_ref, self/base reference, and
// member-by-identifier node in f, latching f.State forward exactly once.
func (r *Resolver) resolveIdentifiers(f *ast.File) {
	if f.State >= ast.IdentifiersResolved {
		return
	}
	defer func() {
		if f.State < ast.IdentifiersResolved {
			f.State = ast.IdentifiersResolved
		}
	}()

	bindLocals(f)

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		switch v := n.(type) {
		case *ast.MemberByIdentifier:
			// The right-hand side of a member access never resolves to a
			// slot on its own; only its member-name id is interned
			// (spec.md §4.5 step 5, first bullet).
			v.MemberNameID = r.Program.MemberNames.Intern(v.Name)
		case *ast.SelfExpr:
			r.checkSelfOrBase(f, v, "self")
		case *ast.BaseExpr:
			r.checkSelfOrBase(f, v, "base")
		case *ast.IdentifierRef:
			r.resolveIdentifierRef(f, v)
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	for _, stmt := range f.Stmts {
		walk(stmt)
	}
}

func (r *Resolver) checkSelfOrBase(f *ast.File, n ast.Node, which string) {
	if fd := enclosingFuncDef(n); fd != nil && fd.AssociatedClass != nil {
		return
	}
	f.Messages.Addf(diag.SelfOutsideMethod, f.FileURI, n.Pos().Line, n.Pos().Column, "%s used outside a method", which)
}

func (r *Resolver) resolveIdentifierRef(f *ast.File, ref *ast.IdentifierRef) {
	scope, err := ast.GetScope(ref)
	if err != nil {
		f.Messages.Addf(diag.MalformedAST, f.FileURI, ref.Pos().Line, ref.Pos().Column, "%v", err)
		return
	}

	def, declScope := scope.QueryScope(ref.Name)
	if def == nil {
		if r.resolveBuiltin(ref) {
			return
		}
		f.Messages.Addf(diag.UnknownIdentifier, f.FileURI, ref.Pos().Line, ref.Pos().Column, "unknown identifier %q", ref.Name)
		return
	}
	def.EverUsed = true

	if imp, ok := def.DeclarationExpr.(*ast.ImportStmt); ok {
		r.resolveCrossModule(f, ref, def, imp)
		return
	}

	if _, ok := declScope.Owner.(*ast.File); ok {
		switch decl := def.DeclarationExpr.(type) {
		case *ast.VarDef:
			ref.Storage = decl.Storage
		case *ast.ClassDef:
			ref.Storage = decl.Storage
		case *ast.FuncDef:
			ref.Storage = decl.Storage
		default:
			f.Messages.Addf(diag.MalformedAST, f.FileURI, ref.Pos().Line, ref.Pos().Column,
				"identifier %q resolved to an unsupported global declaration", ref.Name)
			return
		}
		ref.ResolvedToDef = true
		return
	}

	declOwner, _ := declScope.Owner.(*ast.FuncDef)
	if declOwner == nil {
		f.Messages.Addf(diag.MalformedAST, f.FileURI, ref.Pos().Line, ref.Pos().Column,
			"identifier %q has no enclosing function or file scope", ref.Name)
		return
	}
	r.resolveLocal(f, ref, def, declOwner)
}

func (r *Resolver) resolveBuiltin(ref *ast.IdentifierRef) bool {
	if r.Builtins == nil {
		return false
	}
	if id, ok := r.Builtins.Funcs[ref.Name]; ok {
		ref.Storage = ast.Storage{Set: true, Kind: ast.StorageBuiltin, ID: id}
		ref.ResolvedToBuiltin = true
		return true
	}
	if id, ok := r.Builtins.Classes[ref.Name]; ok {
		ref.Storage = ast.Storage{Set: true, Kind: ast.StorageBuiltin, ID: id}
		ref.ResolvedToBuiltin = true
		return true
	}
	if id, ok := r.Builtins.Globals[ref.Name]; ok {
		ref.Storage = ast.Storage{Set: true, Kind: ast.StorageBuiltin, ID: id}
		ref.ResolvedToBuiltin = true
		return true
	}
	return false
}

// resolveLocal handles a reference to a param, local var, for-iterator,
// or local func def. If the reference sits in a function nested inside
// declOwner, it is a closure capture (spec.md §4.5 step 5): the
// definition is marked closure_bound and appended to the
// closure-capture list of every function from the reference's enclosing
// function up to (but not including) declOwner.
func (r *Resolver) resolveLocal(f *ast.File, ref *ast.IdentifierRef, def *ast.Definition, declOwner *ast.FuncDef) {
	refFunc := enclosingFuncDef(ref)
	if refFunc == nil {
		f.Messages.Addf(diag.MalformedAST, f.FileURI, ref.Pos().Line, ref.Pos().Column,
			"identifier %q referenced outside any function", ref.Name)
		return
	}
	if refFunc != declOwner {
		def.ClosureBound = true
		for fn := refFunc; fn != nil && fn != declOwner; fn = enclosingFuncDef(fn) {
			fn.AddCapture(def)
		}
	}
	ref.Storage = ast.Storage{Set: true, Kind: ast.StorageLocal}
	ref.ResolvedToDef = true
}

// resolveCrossModule's chain-limit check and dotted-access reconstruction implement
// spec.md §4.5 step 5's last bullet and §9's Open Question (the
// configured H64LIMIT_IMPORTCHAINLEN, here Environment.ImportChainLimit).
func (r *Resolver) resolveCrossModule(f *ast.File, ref *ast.IdentifierRef, def *ast.Definition, _ *ast.ImportStmt) {
	names := []string{ref.Name}
	var steps []*ast.MemberByIdentifier
	cur := ast.Node(ref)
	for {
		member, ok := cur.Parent().(*ast.MemberByIdentifier)
		if !ok || member.Target != cur {
			break
		}
		if len(steps) >= r.Env.ImportChainLimit {
			f.Messages.Addf(diag.ImportChainTooDeep, f.FileURI, ref.Pos().Line, ref.Pos().Column,
				"import access chain starting at %q exceeds the configured limit of %d", ref.Name, r.Env.ImportChainLimit)
			return
		}
		names = append(names, member.Name)
		steps = append(steps, member)
		cur = member
	}

	decls := append([]ast.Node{def.DeclarationExpr}, def.AdditionalDecls...)
	var matched *ast.ImportStmt
	var matchLen int
	for _, d := range decls {
		imp, ok := d.(*ast.ImportStmt)
		if !ok {
			continue
		}
		n := len(imp.PathComponents)
		if n == 0 || n > len(names) {
			continue
		}
		if equalComponents(names[:n], imp.PathComponents) {
			matched, matchLen = imp, n
			break
		}
	}
	if matched == nil {
		f.Messages.Addf(diag.UnknownModulePath, f.FileURI, ref.Pos().Line, ref.Pos().Column,
			"%q does not match any import of %q", joinDots(names), ref.Name)
		return
	}

	remaining := names[matchLen:]
	if len(remaining) != 1 {
		f.Messages.Addf(diag.BareModuleReference, f.FileURI, ref.Pos().Line, ref.Pos().Column,
			"reference to module %q must access exactly one member", joinDots(names[:matchLen]))
		return
	}

	target := r.importTargets[matched]
	if target == nil {
		f.Messages.Addf(diag.UnknownModulePath, f.FileURI, ref.Pos().Line, ref.Pos().Column,
			"import target for %q was not loaded", joinDots(matched.PathComponents))
		return
	}

	accessedName := remaining[0]
	terminalMember := steps[matchLen-1]
	targetDef := target.OwnScope().Query(accessedName, false)
	if targetDef == nil {
		f.Messages.Addf(diag.UnknownIdentifier, f.FileURI, terminalMember.Pos().Line, terminalMember.Pos().Column,
			"%q has no member %q", joinDots(names[:matchLen]), accessedName)
		return
	}

	switch decl := targetDef.DeclarationExpr.(type) {
	case *ast.VarDef:
		terminalMember.Storage = decl.Storage
	case *ast.ClassDef:
		terminalMember.Storage = decl.Storage
	case *ast.FuncDef:
		terminalMember.Storage = decl.Storage
	default:
		f.Messages.Addf(diag.UnknownIdentifier, f.FileURI, terminalMember.Pos().Line, terminalMember.Pos().Column,
			"%q.%q does not name a global declaration", joinDots(names[:matchLen]), accessedName)
		return
	}
	terminalMember.ResolvedCrossModule = true
	ref.ResolvedToDef = true
}

func equalComponents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinDots(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// enclosingFuncDef returns the nearest *ast.FuncDef strictly above n in
// the parent chain, or nil if the walk reaches the file root first.
func enclosingFuncDef(n ast.Node) *ast.FuncDef {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if fd, ok := cur.(*ast.FuncDef); ok {
			return fd
		}
		if _, ok := cur.(*ast.File); ok {
			return nil
		}
	}
	return nil
}
