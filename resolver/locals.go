package resolver

import "github.com/redchew/horse64/ast"

// bindLocals binds every function-body-local declaration (var defs,
// for-iterators, and nested local func defs) into its owning function's
// scope, ahead of the identifier-resolution pass. Parameters are already
// bound by the Builder when a FuncDef is constructed.
//
// spec.md's C3/C5 split names scope binding as a C3 concern and storage
// assignment as a separate C5 step, but leaves the moment function-body
// locals actually enter their scope unspecified (only top-level/class
// declarations are covered by the global-storage pass). Binding them
// here, directly ahead of the pass that queries them, is the natural
// place given this repo's Scope.Define API.
func bindLocals(f *ast.File) {
	for _, stmt := range f.Stmts {
		switch n := stmt.(type) {
		case *ast.FuncDef:
			bindFuncLocals(n, n.Body)
		case *ast.ClassDef:
			for _, m := range n.Members {
				if fd, ok := m.(*ast.FuncDef); ok {
					bindFuncLocals(fd, fd.Body)
				}
			}
		}
	}
}

func bindFuncLocals(owner *ast.FuncDef, nodes []ast.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.VarDef:
			owner.OwnScope().Define(v.Name, v)
		case *ast.ForStmt:
			owner.OwnScope().Define(v.IteratorName, v)
			bindFuncLocals(owner, v.Body)
		case *ast.FuncDef:
			if v.Name != "" {
				owner.OwnScope().Define(v.Name, v)
			}
			bindFuncLocals(v, v.Body)
		case *ast.DoRescueStmt:
			bindFuncLocals(owner, v.Do)
			for _, rc := range v.Rescues {
				bindFuncLocals(owner, rc.Body)
			}
			bindFuncLocals(owner, v.Finally)
		}
	}
}

// assignLocalStorage is the local-storage-assignment pass (spec.md §4.5
// step 6): it hands out concrete slot indices to every function's
// parameters, then to its locals and referenced closure captures in
// first-reference order, then to any remaining closure captures, and
// stamps every IdentifierRef.Storage.LocalSlot that resolved to one of
// those definitions.
func assignLocalStorage(f *ast.File) {
	for _, stmt := range f.Stmts {
		switch n := stmt.(type) {
		case *ast.FuncDef:
			assignFuncLocalStorage(n)
		case *ast.ClassDef:
			for _, m := range n.Members {
				if fd, ok := m.(*ast.FuncDef); ok {
					assignFuncLocalStorage(fd)
				}
			}
		}
	}
}

func assignFuncLocalStorage(fn *ast.FuncDef) {
	slots := make(map[*ast.Definition]int)
	next := 0

	for i := range fn.Params {
		def := fn.OwnScope().Query(fn.Params[i].Name, false)
		if def == nil {
			continue
		}
		if _, ok := slots[def]; ok {
			continue
		}
		slots[def] = next
		next++
	}

	assign := func(def *ast.Definition) int {
		if slot, ok := slots[def]; ok {
			return slot
		}
		slot := next
		slots[def] = slot
		next++
		return slot
	}

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		switch v := n.(type) {
		case *ast.VarDef:
			if def := fn.OwnScope().Query(v.Name, false); def != nil {
				v.Storage = ast.Storage{Set: true, Kind: ast.StorageLocal, LocalSlot: assign(def)}
			}
		case *ast.ForStmt:
			if def := fn.OwnScope().Query(v.IteratorName, false); def != nil {
				assign(def)
			}
		case *ast.IdentifierRef:
			if v.Storage.Set && v.Storage.Kind == ast.StorageLocal {
				if def := fn.OwnScope().Query(v.Name, true); def != nil {
					v.Storage.LocalSlot = assign(def)
				}
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	for _, stmt := range fn.Body {
		walk(stmt)
	}

	for _, def := range fn.ClosureCaptures {
		if _, ok := slots[def]; !ok {
			slots[def] = next
			next++
		}
	}

	for _, m := range fn.Body {
		if nested, ok := m.(*ast.FuncDef); ok {
			assignFuncLocalStorage(nested)
		}
	}
}
