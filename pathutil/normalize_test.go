package pathutil_test

import (
	"testing"

	"github.com/redchew/horse64/pathutil"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExamples(t *testing.T) {
	require.Equal(t, "u/abc", pathutil.Normalize("u//abc/def/..u/../.."))
	require.Equal(t, "../abc", pathutil.Normalize("../abc/def/..u/../.."))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"u//abc/def/..u/../..",
		"../abc/def/..u/../..",
		"a/b/c",
		"./a/./b/",
		"../../a",
	}
	for _, in := range inputs {
		once := pathutil.Normalize(in)
		twice := pathutil.Normalize(once)
		require.Equal(t, once, twice, "not idempotent for %q", in)
	}
}
