package ast

import "github.com/redchew/horse64/diag"

// State is the one-shot latch sequence an AST progresses through
// (spec.md §4.5): Parsed -> GlobalStorageBuilt -> IdentifiersResolved.
// Each transition fires at most once; a failed pass still latches the
// AST forward (it is not retried) but leaves diagnostics behind.
type State int

const (
	Parsed State = iota
	GlobalStorageBuilt
	IdentifiersResolved
)

// File is the per-source-file AST root (spec.md §3: "An AST (per source
// file) has: file URI, module path (dotted), library name, root scope,
// imports list, a result-message buffer, and global_storage_built /
// identifiers_resolved flags").
type File struct {
	Base

	FileURI    string
	ModulePath string
	Library    string

	scope   *Scope
	Stmts   []Node
	Imports []*ImportStmt

	Messages diag.List
	State    State

	// IsEntry marks the AST supplied as the program's entry file; only
	// its top-level `func main` may set program.MainFuncIndex.
	IsEntry bool
}

func NewFile(fileURI string) *File {
	f := &File{Base: Base{K: KindFile}, FileURI: fileURI}
	f.scope = NewScope(nil, true)
	f.scope.Owner = f
	return f
}

func (f *File) OwnScope() *Scope    { return f.scope }
func (f *File) Children() []Node    { return f.Stmts }

func (f *File) AddStmt(n Node) {
	n.SetParent(f)
	f.Stmts = append(f.Stmts, n)
	if imp, ok := n.(*ImportStmt); ok {
		f.Imports = append(f.Imports, imp)
	}
}
