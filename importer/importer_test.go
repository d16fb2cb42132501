package importer_test

import (
	"fmt"
	"testing"

	"github.com/redchew/horse64/ast"
	"github.com/redchew/horse64/importer"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesEachURIOnce(t *testing.T) {
	calls := 0
	resolve := func(fromURI string, path []string, library string) (string, error) {
		return "file:///b.h64", nil
	}
	getAST := func(uri string) (*ast.File, error) {
		calls++
		return ast.NewFile(uri), nil
	}
	im := importer.New(resolve, getAST)

	f1, err := im.Load("file:///a.h64", []string{"b"}, "")
	require.NoError(t, err)
	f2, err := im.Load("file:///a.h64", []string{"b"}, "")
	require.NoError(t, err)

	require.Same(t, f1, f2)
	require.Equal(t, 1, calls)
}

func TestLoadPropagatesResolveError(t *testing.T) {
	resolve := func(fromURI string, path []string, library string) (string, error) {
		return "", importer.ErrNotFound
	}
	getAST := func(uri string) (*ast.File, error) {
		t.Fatal("getAST should not be called when resolve fails")
		return nil, nil
	}
	im := importer.New(resolve, getAST)

	_, err := im.Load("file:///a.h64", []string{"missing"}, "")
	require.ErrorIs(t, err, importer.ErrNotFound)
}

func TestLoadedReturnsEveryMaterializedAST(t *testing.T) {
	n := 0
	resolve := func(fromURI string, path []string, library string) (string, error) {
		n++
		return fmt.Sprintf("file:///%d.h64", n), nil
	}
	getAST := func(uri string) (*ast.File, error) {
		return ast.NewFile(uri), nil
	}
	im := importer.New(resolve, getAST)

	_, err := im.Load("file:///a.h64", []string{"x"}, "")
	require.NoError(t, err)
	_, err = im.Load("file:///a.h64", []string{"y"}, "")
	require.NoError(t, err)

	require.Len(t, im.Loaded(), 2)
}
