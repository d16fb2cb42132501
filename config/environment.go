// Package config lifts the process-wide mutable state the original
// implementation kept as globals (cached project root, tuning constants)
// into an explicit Environment record, per spec.md §9 DESIGN NOTES:
// "Global mutable state ... must be lifted into an explicit Environment
// record passed to the resolver."
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment carries every tunable the resolver and VM need instead of
// reading ambient global state.
type Environment struct {
	// ProjectRoot is the directory module paths are derived relative to
	// (spec.md §4.5 step 1).
	ProjectRoot string `yaml:"project_root"`

	// ImportChainLimit bounds the dotted member-access chain the
	// identifier-resolution pass will walk when reconstructing a module
	// access path (spec.md §9 Open Question). Default 16.
	ImportChainLimit int `yaml:"import_chain_limit"`

	// InitialStackSize and MaxStackSize bound the per-thread value stack
	// (spec.md §4.6).
	InitialStackSize int `yaml:"initial_stack_size"`
	MaxStackSize     int `yaml:"max_stack_size"`

	// StackGrowthFactor controls the geometric increment used by
	// Stack.ToSize.
	StackGrowthFactor float64 `yaml:"stack_growth_factor"`

	// EmergencyStackMargin is reserved headroom usable only while building
	// an exception value, so an OOM mid-construction still has room to
	// push it (spec.md §4.6).
	EmergencyStackMargin int `yaml:"emergency_stack_margin"`

	// HeapPoolCellSize and HeapPoolGrowBy size the pooled heap-object
	// allocator (spec.md §4.2).
	HeapPoolCellSize  int `yaml:"heap_pool_cell_size"`
	HeapPoolGrowBy    int `yaml:"heap_pool_grow_by"`
}

// Default returns the hard-coded defaults that apply with no config file
// present. The YAML layer is strictly additive on top of these.
func Default() *Environment {
	return &Environment{
		ProjectRoot:          ".",
		ImportChainLimit:     16,
		InitialStackSize:     256,
		MaxStackSize:         1 << 20,
		StackGrowthFactor:    1.5,
		EmergencyStackMargin: 64,
		HeapPoolCellSize:     64,
		HeapPoolGrowBy:       256,
	}
}

// Load reads an Environment from a YAML file, starting from Default() and
// overlaying whatever fields the file sets. A missing file is not an
// error: the caller gets the defaults back.
func Load(path string) (*Environment, error) {
	env := Default()
	if path == "" {
		return env, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return env, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return env, nil
}
