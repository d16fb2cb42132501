package resolver

import (
	"github.com/redchew/horse64/ast"
	"github.com/redchew/horse64/diag"
	"github.com/redchew/horse64/program"
)

// varinitName names the synthesized per-class member-initializer
// function (spec.md §4.5 step 3, GLOSSARY "$$varinit").
const varinitName = "$$varinit"

// buildGlobalStorage runs the global-storage pass (spec.md §4.5 step 3)
// over f once, latching f.State forward regardless of outcome. extractMain
// controls whether a top-level `func main` may claim
// Program.MainFuncIndex (only the entry AST's pass does, per step 3).
func (r *Resolver) buildGlobalStorage(f *ast.File, extractMain bool) error {
	if f.State >= ast.GlobalStorageBuilt {
		return nil
	}
	defer func() {
		if f.State < ast.GlobalStorageBuilt {
			f.State = ast.GlobalStorageBuilt
		}
	}()

	for _, stmt := range f.Stmts {
		switch n := stmt.(type) {
		case *ast.VarDef:
			r.registerGlobalVar(f, n)
		case *ast.ClassDef:
			r.registerClass(f, n)
		case *ast.FuncDef:
			r.registerFunction(f, n, program.NoID, extractMain)
		}
	}

	r.internKwargNames(f)
	return nil
}

func (r *Resolver) registerGlobalVar(f *ast.File, n *ast.VarDef) {
	id, err := r.Program.AddGlobalVar(n.Name, n.IsConst, f.FileURI, f.ModulePath, f.Library)
	if err != nil {
		f.Messages.Addf(diag.DuplicateGlobalDecl, f.FileURI, n.Pos().Line, n.Pos().Column, "%v", err)
		return
	}
	n.Storage = ast.Storage{Set: true, Kind: ast.StorageGlobalVar, ID: id}
	f.OwnScope().Define(n.Name, n)
}

func (r *Resolver) registerClass(f *ast.File, n *ast.ClassDef) {
	id, err := r.Program.AddClass(n.Name, f.FileURI, f.ModulePath, f.Library)
	if err != nil {
		f.Messages.Addf(diag.DuplicateGlobalDecl, f.FileURI, n.Pos().Line, n.Pos().Column, "%v", err)
		return
	}
	n.Storage = ast.Storage{Set: true, Kind: ast.StorageGlobalClass, ID: id}
	f.OwnScope().Define(n.Name, n)

	for _, member := range n.Members {
		switch m := member.(type) {
		case *ast.VarDef:
			r.registerClassMemberVar(f, n, id, m)
		case *ast.FuncDef:
			r.registerFunction(f, m, id, false)
		}
	}
}

func (r *Resolver) registerClassMemberVar(f *ast.File, class *ast.ClassDef, classID int, n *ast.VarDef) {
	if err := r.Program.RegisterClassMember(classID, n.Name, -1); err != nil {
		f.Messages.Addf(diag.DuplicateClassMember, f.FileURI, n.Pos().Line, n.Pos().Column, "%v", err)
		return
	}
	nameID, _ := r.Program.MemberNames.Lookup(n.Name)
	n.Storage = ast.Storage{Set: true, Kind: ast.StorageGlobalVar, ID: nameID}

	if n.Init != nil {
		if lit, ok := n.Init.(*ast.Literal); ok && lit.LitKind == ast.LiteralNone {
			return
		}
		if _, exists := r.classVarinit[class]; !exists {
			funcID, err := r.Program.RegisterFunction(varinitName, f.FileURI, 0, nil, false, f.ModulePath, f.Library, classID, nil)
			if err != nil {
				f.Messages.Addf(diag.DuplicateClassMember, f.FileURI, n.Pos().Line, n.Pos().Column, "%v", err)
				return
			}
			r.classVarinit[class] = funcID
		}
	}
}

func (r *Resolver) registerFunction(f *ast.File, n *ast.FuncDef, associatedClassID int, extractMain bool) {
	kwargNames := append([]string(nil), n.KwParamNames...)
	funcID, err := r.Program.RegisterFunction(n.Name, f.FileURI, len(n.Params), kwargNames, n.LastIsMulti, f.ModulePath, f.Library, associatedClassID, nil)
	if err != nil {
		kind := diag.DuplicateGlobalDecl
		if associatedClassID >= 0 {
			kind = diag.DuplicateClassMember
		}
		f.Messages.Addf(kind, f.FileURI, n.Pos().Line, n.Pos().Column, "%v", err)
		return
	}

	if associatedClassID < 0 {
		n.Storage = ast.Storage{Set: true, Kind: ast.StorageGlobalFunc, ID: funcID}
		f.OwnScope().Define(n.Name, n)
	} else {
		n.Storage = ast.Storage{Set: true, Kind: ast.StorageGlobalFunc, ID: funcID}
	}

	if extractMain && n.Name == "main" {
		if r.Program.MainFuncIndex != program.NoID {
			f.Messages.Addf(diag.DuplicateMain, f.FileURI, n.Pos().Line, n.Pos().Column, "a program entry function main is already registered")
		} else {
			r.Program.MainFuncIndex = funcID
		}
	}
}

// internKwargNames walks the whole tree (not just top-level declarations)
// interning every call-site keyword-argument name, per spec.md §4.5 step
// 3: "Call-site kwarg names... have their names pre-interned into
// member_names so emitted bytecode can reference them by id."
func (r *Resolver) internKwargNames(f *ast.File) {
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		if call, ok := n.(*ast.Call); ok {
			for i := range call.KwArgs {
				call.KwArgs[i].NameID = r.Program.MemberNames.Intern(call.KwArgs[i].Name)
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	for _, stmt := range f.Stmts {
		walk(stmt)
	}
}
