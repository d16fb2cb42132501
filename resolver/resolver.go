// Package resolver implements the scope resolver (spec.md §4.5,
// component C5): module path derivation, import preloading, the
// global-storage pass, the identifier-resolution pass (including
// cross-module dotted access and closure capture), and local-storage
// assignment.
package resolver

import (
	"errors"

	"github.com/redchew/horse64/ast"
	"github.com/redchew/horse64/config"
	"github.com/redchew/horse64/diag"
	"github.com/redchew/horse64/importer"
	"github.com/redchew/horse64/program"
)

// ErrOutOfMemory is returned (never appended to a diagnostics list) when
// a registration call fails in a way the program table attributes to
// resource exhaustion. Our program table only fails on name collisions,
// which are themselves diagnostics (DuplicateClassMember etc.); this
// sentinel exists so a future allocator-backed Program has somewhere to
// plug in without changing Resolver's signature (spec.md §4.5: "Out of
// memory aborts the pass and propagates as a distinct failure return").
var ErrOutOfMemory = errors.New("resolver: out of memory")

// Resolver runs the per-AST passes against one shared Program table and
// Importer, using env instead of reading ambient global state (spec.md
// §9 design note).
type Resolver struct {
	Env      *config.Environment
	Program  *program.Program
	Importer *importer.Importer
	// Builtins is consulted when a scope walk finds no definition for a
	// name (spec.md §4.5 step 5). Nil means no builtin module is wired.
	Builtins *BuiltinSet

	// importTargets maps each processed ImportStmt to the *ast.File it
	// resolved to, consulted by the identifier-resolution pass when it
	// reconstructs a cross-module dotted-access chain.
	importTargets map[*ast.ImportStmt]*ast.File

	// classVarinit tracks, per ClassDef, the func_id of its already
	// registered $$varinit function, if any (spec.md §4.5 step 3).
	classVarinit map[*ast.ClassDef]int
}

func New(env *config.Environment, prog *program.Program, imp *importer.Importer) *Resolver {
	return &Resolver{
		Env:           env,
		Program:       prog,
		Importer:      imp,
		importTargets: make(map[*ast.ImportStmt]*ast.File),
		classVarinit:  make(map[*ast.ClassDef]int),
	}
}

// Resolve runs every pass over f in order, per spec.md §4.5. It returns
// an error only for the out-of-memory case; every other failure is
// appended to f.Messages and the pass continues so later problems can
// still surface (spec.md §7: "Resolver continues after a recoverable
// error to surface more").
func (r *Resolver) Resolve(f *ast.File) error {
	if f.ModulePath == "" {
		path, hasDots, notInProject := deriveModulePath(f.FileURI, r.Env.ProjectRoot)
		switch {
		case notInProject:
			f.Messages.Addf(diag.FileNotInProject, f.FileURI, 0, 0, "file %q is not under project root %q", f.FileURI, r.Env.ProjectRoot)
		case hasDots:
			f.Messages.Addf(diag.ModulePathHasDots, f.FileURI, 0, 0, "derived module path for %q contains additional dots", f.FileURI)
		default:
			f.ModulePath = path
		}
	}

	r.preloadImports(f)

	if err := r.buildGlobalStorage(f, f.IsEntry); err != nil {
		return err
	}
	for _, imported := range r.Importer.Loaded() {
		if imported == f {
			continue
		}
		if err := r.buildGlobalStorage(imported, false); err != nil {
			return err
		}
	}

	r.resolveIdentifiers(f)
	for _, imported := range r.Importer.Loaded() {
		if imported == f {
			continue
		}
		r.resolveIdentifiers(imported)
	}

	assignLocalStorage(f)
	for _, imported := range r.Importer.Loaded() {
		if imported == f {
			continue
		}
		assignLocalStorage(imported)
	}

	return nil
}

// preloadImports materializes the target AST of every top-level import
// (spec.md §4.5 step 2) and binds the leading path component as an
// identifier in f's global scope (ast/nodes.go ImportStmt doc comment).
func (r *Resolver) preloadImports(f *ast.File) {
	for _, imp := range f.Imports {
		if len(imp.PathComponents) == 0 {
			continue
		}
		target, err := r.Importer.Load(f.FileURI, imp.PathComponents, imp.Library)
		if err != nil {
			f.Messages.Addf(diag.UnknownModulePath, f.FileURI, imp.Pos().Line, imp.Pos().Column,
				"import %v: %v", imp.PathComponents, err)
			continue
		}
		r.importTargets[imp] = target
		f.OwnScope().Define(imp.PathComponents[0], imp)
	}
}
