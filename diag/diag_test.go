package diag_test

import (
	"testing"

	"github.com/redchew/horse64/diag"
	"github.com/stretchr/testify/require"
)

func TestTransferMessagesPreservesOrder(t *testing.T) {
	var fileList diag.List
	fileList.Addf(diag.UnknownIdentifier, "file:///a.h64", 3, 1, "unknown %s", "foo")
	fileList.Addf(diag.SelfOutsideMethod, "file:///a.h64", 5, 1, "self outside method")

	var project diag.List
	project.Addf(diag.DuplicateMain, "file:///b.h64", 1, 1, "duplicate main")
	diag.TransferMessages(&project, fileList)

	require.Len(t, project, 3)
	require.Equal(t, diag.DuplicateMain, project[0].Kind)
	require.Equal(t, diag.UnknownIdentifier, project[1].Kind)
	require.Equal(t, diag.SelfOutsideMethod, project[2].Kind)
}

func TestOfKindFilters(t *testing.T) {
	var l diag.List
	l.Addf(diag.UnknownIdentifier, "f", 1, 1, "x")
	l.Addf(diag.UnknownModulePath, "f", 1, 1, "y")
	l.Addf(diag.UnknownIdentifier, "f", 2, 1, "z")

	require.Len(t, l.OfKind(diag.UnknownIdentifier), 2)
	require.True(t, l.HasErrors())
	require.Equal(t, 3, l.Count())
}
