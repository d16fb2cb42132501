// Package diag carries the closed set of diagnostic kinds the resolver and
// program table can raise, and the accumulator that collects them per AST
// and per project (spec.md §7 ERROR HANDLING DESIGN).
package diag

import (
	"fmt"
	"strings"
)

// Kind is a stable error-kind tag. The set is closed: new resolver or
// program-table failures must reuse or extend this list, never invent an
// ad-hoc string.
type Kind int

const (
	// Resolver kinds.
	UnknownIdentifier Kind = iota
	UnknownModulePath
	BareModuleReference
	SelfOutsideMethod
	DuplicateMain
	ImportChainTooDeep
	ModulePathHasDots
	FileNotInProject
	MalformedAST

	// Program-table kinds.
	DuplicateClassMember
	TooManyMethods

	// DuplicateGlobalDecl covers a global-scope name collision (two
	// global vars, classes, or free functions sharing a name within one
	// module) that spec.md §4.1 says AddGlobalVar/AddClass/RegisterFunction
	// must reject, but spec.md §7's closed kind list has no dedicated tag
	// for outside of DuplicateMain. Added as the minimal extension the
	// list's own doc comment anticipates ("the set is closed... must
	// reuse or extend this list").
	DuplicateGlobalDecl

	// VM kinds (surfaced through diag when caught at the project boundary,
	// e.g. an uncaught exception printed by the host).
	OutOfMemory
	InvalidInstruction
	UncaughtException
	DivisionByZero
	TypeMismatch
)

func (k Kind) String() string {
	switch k {
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case UnknownModulePath:
		return "UnknownModulePath"
	case BareModuleReference:
		return "BareModuleReference"
	case SelfOutsideMethod:
		return "SelfOutsideMethod"
	case DuplicateMain:
		return "DuplicateMain"
	case ImportChainTooDeep:
		return "ImportChainTooDeep"
	case ModulePathHasDots:
		return "ModulePathHasDots"
	case FileNotInProject:
		return "FileNotInProject"
	case MalformedAST:
		return "MalformedAST"
	case DuplicateClassMember:
		return "DuplicateClassMember"
	case TooManyMethods:
		return "TooManyMethods"
	case DuplicateGlobalDecl:
		return "DuplicateGlobalDecl"
	case OutOfMemory:
		return "OutOfMemory"
	case InvalidInstruction:
		return "InvalidInstruction"
	case UncaughtException:
		return "UncaughtException"
	case DivisionByZero:
		return "DivisionByZero"
	case TypeMismatch:
		return "TypeMismatch"
	default:
		return "UnknownKind"
	}
}

// Diagnostic is a single recoverable failure: {kind, file_uri, line,
// column, message} per spec.md §6 External Interfaces.
type Diagnostic struct {
	Kind    Kind
	FileURI string
	Line    int
	Column  int
	Message string
}

func New(kind Kind, fileURI string, line, column int, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, FileURI: fileURI, Line: line, Column: column, Message: message}
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s:%d:%d: %s", d.Kind, d.FileURI, d.Line, d.Column, d.Message)
}

func (d *Diagnostic) Error() string {
	return d.String()
}

// List accumulates diagnostics the way the resolver is specified to: it
// keeps collecting after a recoverable failure instead of aborting, so
// later passes can surface more problems in one run.
type List []*Diagnostic

func (l *List) Add(d *Diagnostic) {
	*l = append(*l, d)
}

func (l *List) Addf(kind Kind, fileURI string, line, column int, format string, args ...interface{}) {
	l.Add(New(kind, fileURI, line, column, fmt.Sprintf(format, args...)))
}

func (l List) HasErrors() bool {
	return len(l) > 0
}

func (l List) Count() int {
	return len(l)
}

func (l List) OfKind(kind Kind) List {
	var out List
	for _, d := range l {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func (l List) String() string {
	var b strings.Builder
	for i, d := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.String())
	}
	return b.String()
}

func (l List) Error() string {
	return l.String()
}

// TransferMessages appends src's diagnostics onto dst, preserving order of
// first occurrence. Named in spec.md §7; bubbles an AST's per-file buffer
// into the project-level buffer without deduplication.
func TransferMessages(dst *List, src List) {
	*dst = append(*dst, src...)
}
