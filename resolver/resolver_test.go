package resolver_test

import (
	"fmt"
	"testing"

	"github.com/redchew/horse64/ast"
	"github.com/redchew/horse64/config"
	"github.com/redchew/horse64/diag"
	"github.com/redchew/horse64/importer"
	"github.com/redchew/horse64/program"
	"github.com/redchew/horse64/resolver"
	"github.com/stretchr/testify/require"
)

func noImports(t *testing.T) *importer.Importer {
	return importer.New(
		func(fromURI string, path []string, library string) (string, error) {
			t.Fatalf("unexpected import resolve from %s for %v", fromURI, path)
			return "", nil
		},
		func(uri string) (*ast.File, error) {
			t.Fatalf("unexpected import load of %s", uri)
			return nil, nil
		},
	)
}

func newResolver(t *testing.T, imp *importer.Importer) (*resolver.Resolver, *program.Program) {
	prog := program.New()
	return resolver.New(config.Default(), prog, imp), prog
}

func TestResolveBindsGlobalVarClassAndFunc(t *testing.T) {
	b := ast.NewBuilder()
	r, prog := newResolver(t, noImports(t))

	f := ast.NewFile("file:///p.h64")
	f.IsEntry = true

	g := b.VarDef(ast.Position{Line: 1}, "counter", b.Int(ast.Position{Line: 1}, 0), false)
	f.AddStmt(g)

	cls := b.Class(ast.Position{Line: 2}, "Widget", "")
	f.AddStmt(cls)

	main := b.Func(ast.Position{Line: 3}, f.OwnScope(), "main", nil)
	f.AddStmt(main)

	require.NoError(t, r.Resolve(f))
	require.False(t, f.Messages.HasErrors(), f.Messages.String())

	require.True(t, g.Storage.Set)
	require.Equal(t, ast.StorageGlobalVar, g.Storage.Kind)
	require.True(t, cls.Storage.Set)
	require.Equal(t, ast.StorageGlobalClass, cls.Storage.Kind)
	require.True(t, main.Storage.Set)
	require.Equal(t, ast.StorageGlobalFunc, main.Storage.Kind)
	require.Equal(t, main.Storage.ID, prog.MainFuncIndex)
}

func TestResolveDerivesModulePathFromFileURI(t *testing.T) {
	b := ast.NewBuilder()
	r, _ := newResolver(t, noImports(t))

	f := ast.NewFile("file:///proj/sub/thing.h64")
	f.IsEntry = true
	f.AddStmt(b.Func(ast.Position{Line: 1}, f.OwnScope(), "main", nil))

	require.NoError(t, r.Resolve(f))
	require.False(t, f.Messages.HasErrors())
	require.NotEmpty(t, f.ModulePath)

	// Deriving twice from the same URI must be stable.
	f2 := ast.NewFile("file:///proj/sub/thing.h64")
	f2.AddStmt(b.Func(ast.Position{Line: 1}, f2.OwnScope(), "helper", nil))
	r2, _ := newResolver(t, noImports(t))
	require.NoError(t, r2.Resolve(f2))
	require.Equal(t, f.ModulePath, f2.ModulePath)
}

// TestDuplicateMainAcrossEntryFiles exercises spec.md §8 scenario 2: a
// second top-level `func main` claiming entry status is rejected even
// though it lives in a different module (so the program-table's
// same-module name check never gets the chance to fire first).
func TestDuplicateMainAcrossEntryFiles(t *testing.T) {
	b := ast.NewBuilder()
	prog := program.New()
	r := resolver.New(config.Default(), prog, noImports(t))

	fileA := ast.NewFile("file:///a.h64")
	fileA.IsEntry = true
	mainA := b.Func(ast.Position{Line: 1}, fileA.OwnScope(), "main", nil)
	fileA.AddStmt(mainA)
	require.NoError(t, r.Resolve(fileA))
	require.False(t, fileA.Messages.HasErrors(), fileA.Messages.String())
	require.Equal(t, mainA.Storage.ID, prog.MainFuncIndex)

	fileC := ast.NewFile("file:///c.h64")
	fileC.IsEntry = true
	mainC := b.Func(ast.Position{Line: 1}, fileC.OwnScope(), "main", nil)
	fileC.AddStmt(mainC)
	require.NoError(t, r.Resolve(fileC))

	require.True(t, fileC.Messages.HasErrors())
	require.Len(t, fileC.Messages.OfKind(diag.DuplicateMain), 1)
	// The first main is left standing.
	require.Equal(t, mainA.Storage.ID, prog.MainFuncIndex)
}

// TestResolveClosureCapture builds:
//
//	func outer {
//	    var x = 1
//	    func inner { return x }
//	    return inner
//	}
//
// and checks that the reference to x inside inner is recorded as a
// closure capture on inner, per spec.md §8 scenario 3.
func TestResolveClosureCapture(t *testing.T) {
	b := ast.NewBuilder()
	r, _ := newResolver(t, noImports(t))

	f := ast.NewFile("file:///closure.h64")
	f.IsEntry = true

	outer := b.Func(ast.Position{Line: 1}, f.OwnScope(), "outer", nil)
	f.AddStmt(outer)

	xDef := b.VarDef(ast.Position{Line: 2}, "x", b.Int(ast.Position{Line: 2}, 1), false)
	outer.AddBodyStmt(xDef)

	inner := b.Func(ast.Position{Line: 3}, outer.OwnScope(), "inner", nil)
	outer.AddBodyStmt(inner)
	xRef := b.Ident(ast.Position{Line: 3}, "x")
	inner.AddBodyStmt(b.Return(ast.Position{Line: 3}, xRef))

	outer.AddBodyStmt(b.Return(ast.Position{Line: 4}, b.Ident(ast.Position{Line: 4}, "inner")))

	require.NoError(t, r.Resolve(f))
	require.False(t, f.Messages.HasErrors(), f.Messages.String())

	require.True(t, xRef.ResolvedToDef)
	require.Equal(t, ast.StorageLocal, xRef.Storage.Kind)
	require.Len(t, inner.ClosureCaptures, 1)
	require.Equal(t, "x", inner.ClosureCaptures[0].Identifier)
	require.True(t, inner.ClosureCaptures[0].ClosureBound)
}

// TestResolveCrossModuleAccess builds `import b` plus a reference to
// `b.greet` inside main, and checks the terminal member access picks up
// greet's storage from the imported file (spec.md §8 scenario 4).
func TestResolveCrossModuleAccess(t *testing.T) {
	b := ast.NewBuilder()

	fileB := ast.NewFile("file:///b.h64")
	greet := b.Func(ast.Position{Line: 1}, fileB.OwnScope(), "greet", nil)
	fileB.AddStmt(greet)
	greet.AddBodyStmt(b.Return(ast.Position{Line: 1}, b.Str(ast.Position{Line: 1}, "hi")))

	imp := importer.New(
		func(fromURI string, path []string, library string) (string, error) {
			require.Equal(t, []string{"b"}, path)
			return "file:///b.h64", nil
		},
		func(uri string) (*ast.File, error) {
			require.Equal(t, "file:///b.h64", uri)
			return fileB, nil
		},
	)
	r := resolver.New(config.Default(), program.New(), imp)

	fileA := ast.NewFile("file:///a.h64")
	fileA.IsEntry = true
	fileA.AddStmt(b.Import(ast.Position{Line: 1}, "", "b"))

	main := b.Func(ast.Position{Line: 2}, fileA.OwnScope(), "main", nil)
	fileA.AddStmt(main)

	bRef := b.Ident(ast.Position{Line: 3}, "b")
	member := b.Member(ast.Position{Line: 3}, bRef, "greet")
	call := b.Call(ast.Position{Line: 3}, member, nil, nil)
	main.AddBodyStmt(b.Return(ast.Position{Line: 3}, call))

	require.NoError(t, r.Resolve(fileA))
	require.False(t, fileA.Messages.HasErrors(), fileA.Messages.String())

	require.True(t, member.ResolvedCrossModule)
	require.Equal(t, ast.StorageGlobalFunc, member.Storage.Kind)
	require.Equal(t, greet.Storage.ID, member.Storage.ID)
}

func TestResolveUnknownModulePathDiagnostic(t *testing.T) {
	b := ast.NewBuilder()
	imp := importer.New(
		func(fromURI string, path []string, library string) (string, error) {
			return "", importer.ErrNotFound
		},
		func(uri string) (*ast.File, error) {
			return nil, fmt.Errorf("should not be called")
		},
	)
	r := resolver.New(config.Default(), program.New(), imp)

	f := ast.NewFile("file:///a.h64")
	f.IsEntry = true
	f.AddStmt(b.Import(ast.Position{Line: 1}, "", "missing"))
	f.AddStmt(b.Func(ast.Position{Line: 2}, f.OwnScope(), "main", nil))

	require.NoError(t, r.Resolve(f))
	require.Len(t, f.Messages.OfKind(diag.UnknownModulePath), 1)
}

func TestResolveSelfOutsideMethodDiagnostic(t *testing.T) {
	b := ast.NewBuilder()
	r, _ := newResolver(t, noImports(t))

	f := ast.NewFile("file:///a.h64")
	f.IsEntry = true
	main := b.Func(ast.Position{Line: 1}, f.OwnScope(), "main", nil)
	f.AddStmt(main)
	main.AddBodyStmt(b.Return(ast.Position{Line: 1}, b.Self(ast.Position{Line: 1})))

	require.NoError(t, r.Resolve(f))
	require.Len(t, f.Messages.OfKind(diag.SelfOutsideMethod), 1)
}

func TestResolveSelfInsideMethodIsFine(t *testing.T) {
	b := ast.NewBuilder()
	r, _ := newResolver(t, noImports(t))

	f := ast.NewFile("file:///a.h64")
	f.IsEntry = true
	cls := b.Class(ast.Position{Line: 1}, "Widget", "")
	f.AddStmt(cls)

	method := b.Func(ast.Position{Line: 2}, f.OwnScope(), "describe", nil)
	method.AssociatedClass = cls
	cls.AddMember(method)
	method.AddBodyStmt(b.Return(ast.Position{Line: 2}, b.Self(ast.Position{Line: 2})))

	main := b.Func(ast.Position{Line: 3}, f.OwnScope(), "main", nil)
	f.AddStmt(main)

	require.NoError(t, r.Resolve(f))
	require.Empty(t, f.Messages.OfKind(diag.SelfOutsideMethod), f.Messages.String())
}

func TestResolveUnknownIdentifierDiagnostic(t *testing.T) {
	b := ast.NewBuilder()
	r, _ := newResolver(t, noImports(t))

	f := ast.NewFile("file:///a.h64")
	f.IsEntry = true
	main := b.Func(ast.Position{Line: 1}, f.OwnScope(), "main", nil)
	f.AddStmt(main)
	main.AddBodyStmt(b.Return(ast.Position{Line: 1}, b.Ident(ast.Position{Line: 1}, "nope")))

	require.NoError(t, r.Resolve(f))
	require.Len(t, f.Messages.OfKind(diag.UnknownIdentifier), 1)
}

func TestResolveUnknownIdentifierFallsBackToBuiltin(t *testing.T) {
	b := ast.NewBuilder()
	prog := program.New()
	r := resolver.New(config.Default(), prog, noImports(t))
	r.Builtins = resolver.NewBuiltinSet()
	r.Builtins.Funcs["print"] = 7

	f := ast.NewFile("file:///a.h64")
	f.IsEntry = true
	main := b.Func(ast.Position{Line: 1}, f.OwnScope(), "main", nil)
	f.AddStmt(main)
	printRef := b.Ident(ast.Position{Line: 1}, "print")
	main.AddBodyStmt(b.Return(ast.Position{Line: 1}, printRef))

	require.NoError(t, r.Resolve(f))
	require.Empty(t, f.Messages.OfKind(diag.UnknownIdentifier), f.Messages.String())
	require.True(t, printRef.ResolvedToBuiltin)
	require.Equal(t, ast.StorageBuiltin, printRef.Storage.Kind)
	require.Equal(t, 7, printRef.Storage.ID)
}

func TestAssignLocalStorageGivesParamsTheFirstSlots(t *testing.T) {
	b := ast.NewBuilder()
	r, _ := newResolver(t, noImports(t))

	f := ast.NewFile("file:///a.h64")
	f.IsEntry = true
	fn := b.Func(ast.Position{Line: 1}, f.OwnScope(), "add", []ast.Param{{Name: "a"}, {Name: "b"}})
	f.AddStmt(fn)

	sum := b.VarDef(ast.Position{Line: 2}, "sum", b.Ident(ast.Position{Line: 2}, "a"), false)
	fn.AddBodyStmt(sum)
	fn.AddBodyStmt(b.Return(ast.Position{Line: 3}, b.Ident(ast.Position{Line: 3}, "sum")))

	main := b.Func(ast.Position{Line: 4}, f.OwnScope(), "main", nil)
	f.AddStmt(main)

	require.NoError(t, r.Resolve(f))
	require.False(t, f.Messages.HasErrors(), f.Messages.String())

	require.True(t, sum.Storage.Set)
	require.Equal(t, ast.StorageLocal, sum.Storage.Kind)
	require.Equal(t, 2, sum.Storage.LocalSlot)
}
