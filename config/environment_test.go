package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/redchew/horse64/config"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	env, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), env)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horse64.yaml")
	require.NoError(t, os.WriteFile(path, []byte("import_chain_limit: 4\nproject_root: /src\n"), 0o644))

	env, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, env.ImportChainLimit)
	require.Equal(t, "/src", env.ProjectRoot)
	require.Equal(t, config.Default().MaxStackSize, env.MaxStackSize)
}
