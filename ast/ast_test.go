package ast_test

import (
	"testing"

	"github.com/redchew/horse64/ast"
	"github.com/stretchr/testify/require"
)

func TestScopeQueryWalksParents(t *testing.T) {
	global := ast.NewScope(nil, true)
	outer := ast.NewScope(global, false)
	inner := ast.NewScope(outer, false)

	global.Define("g", nil)
	outer.Define("o", nil)

	require.NotNil(t, inner.Query("g", true))
	require.NotNil(t, inner.Query("o", true))
	require.Nil(t, inner.Query("o", false))
	require.Nil(t, inner.Query("missing", true))
}

func TestScopeDefineAccumulatesAdditionalDecls(t *testing.T) {
	s := ast.NewScope(nil, true)
	b := ast.NewBuilder()
	first := b.Import(ast.Position{Line: 1}, "", "foo", "bar")
	second := b.Import(ast.Position{Line: 2}, "", "foo", "baz")

	def := s.Define("foo", first)
	s.Define("foo", second)

	require.Same(t, def, s.Query("foo", false))
	require.Len(t, def.AdditionalDecls, 1)
	require.Same(t, ast.Node(second), def.AdditionalDecls[0])
}

func TestGetScopeWalksToNearestOwner(t *testing.T) {
	b := ast.NewBuilder()
	file := ast.NewFile("file:///a.h64")
	fn := b.Func(ast.Position{Line: 1}, file.OwnScope(), "outer", nil)
	file.AddStmt(fn)

	ref := b.Ident(ast.Position{Line: 2}, "x")
	fn.AddBodyStmt(ref)

	scope, err := ast.GetScope(ref)
	require.NoError(t, err)
	require.Same(t, fn.OwnScope(), scope)
}

func TestGetScopeOnOrphanFails(t *testing.T) {
	b := ast.NewBuilder()
	orphan := b.Ident(ast.Position{Line: 1}, "x")
	_, err := ast.GetScope(orphan)
	require.Error(t, err)
}

func TestClosureCaptureDeduplicates(t *testing.T) {
	def := &ast.Definition{Identifier: "x"}
	fn := ast.NewFuncDef(ast.Position{}, nil)
	fn.AddCapture(def)
	fn.AddCapture(def)
	require.Len(t, fn.ClosureCaptures, 1)
}
