package ast

// Builder constructs AST fragments directly, standing in for the
// out-of-scope parser (spec.md §1: "Lexer / parser ... their shape is
// assumed, not specified here"). Tests use it the same way the teacher's
// ast.NewASTBuilder lets tests build trees without running a real parser.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

func (*Builder) Literal(pos Position, kind LiteralKind) *Literal {
	return &Literal{Base: Base{K: KindLiteral, P: pos}, LitKind: kind}
}

func (b *Builder) None(pos Position) *Literal { return b.Literal(pos, LiteralNone) }

func (b *Builder) Bool(pos Position, v bool) *Literal {
	l := b.Literal(pos, LiteralBool)
	l.Bool = v
	return l
}

func (b *Builder) Int(pos Position, v int64) *Literal {
	l := b.Literal(pos, LiteralInt64)
	l.Int64 = v
	return l
}

func (b *Builder) Float(pos Position, v float64) *Literal {
	l := b.Literal(pos, LiteralFloat64)
	l.Float64 = v
	return l
}

func (b *Builder) Str(pos Position, v string) *Literal {
	l := b.Literal(pos, LiteralString)
	l.Str = v
	return l
}

func (*Builder) Ident(pos Position, name string) *IdentifierRef {
	return &IdentifierRef{Base: Base{K: KindIdentifierRef, P: pos}, Name: name}
}

func (*Builder) Self(pos Position) *SelfExpr { return &SelfExpr{Base{K: KindSelf, P: pos}} }
func (*Builder) BaseRef(pos Position) *BaseExpr { return &BaseExpr{Base{K: KindBase, P: pos}} }

func (*Builder) BinaryOp(pos Position, op string, left, right Node) *BinaryOp {
	n := &BinaryOp{Base: Base{K: KindBinaryOp, P: pos}, Op: op, Left: left, Right: right}
	left.SetParent(n)
	right.SetParent(n)
	return n
}

func (*Builder) UnaryOp(pos Position, op string, operand Node) *UnaryOp {
	n := &UnaryOp{Base: Base{K: KindUnaryOp, P: pos}, Op: op, Operand: operand}
	operand.SetParent(n)
	return n
}

func (*Builder) Call(pos Position, callee Node, args []Node, kwargs []KwArg) *Call {
	n := &Call{Base: Base{K: KindCall, P: pos}, Callee: callee, Args: args, KwArgs: kwargs}
	callee.SetParent(n)
	for _, a := range args {
		a.SetParent(n)
	}
	for _, kw := range kwargs {
		kw.Value.SetParent(n)
	}
	return n
}

func (*Builder) Member(pos Position, target Node, name string) *MemberByIdentifier {
	n := &MemberByIdentifier{Base: Base{K: KindMemberByIdentifier, P: pos}, Target: target, Name: name}
	target.SetParent(n)
	return n
}

func (*Builder) VarDef(pos Position, name string, init Node, isConst bool) *VarDef {
	n := &VarDef{Base: Base{K: KindVarDef, P: pos}, Name: name, Init: init, IsConst: isConst}
	if init != nil {
		init.SetParent(n)
	}
	return n
}

// Func creates a function definition whose body is filled in via AddBodyStmt.
func (*Builder) Func(pos Position, parentScope *Scope, name string, params []Param) *FuncDef {
	f := NewFuncDef(pos, parentScope)
	f.Name = name
	f.Params = params
	for _, p := range params {
		f.scope.Define(p.Name, f)
	}
	return f
}

func (f *FuncDef) AddBodyStmt(n Node) {
	n.SetParent(f)
	f.Body = append(f.Body, n)
}

func (f *ForStmt) AddBodyStmt(n Node) {
	n.SetParent(f)
	f.Body = append(f.Body, n)
}

func (d *DoRescueStmt) AddDoStmt(n Node) {
	n.SetParent(d)
	d.Do = append(d.Do, n)
}

func (*Builder) Class(pos Position, name, baseName string) *ClassDef {
	return &ClassDef{Base: Base{K: KindClassDef, P: pos}, Name: name, BaseName: baseName}
}

func (c *ClassDef) AddMember(n Node) {
	n.SetParent(c)
	c.Members = append(c.Members, n)
}

func (*Builder) Import(pos Position, library string, components ...string) *ImportStmt {
	return &ImportStmt{Base: Base{K: KindImportStmt, P: pos}, PathComponents: components, Library: library}
}

func (*Builder) For(pos Position, iteratorName string, iterExpr Node) *ForStmt {
	f := &ForStmt{Base: Base{K: KindForStmt, P: pos}, IteratorName: iteratorName, IterExpr: iterExpr}
	iterExpr.SetParent(f)
	return f
}

func (*Builder) Return(pos Position, value Node) *ReturnStmt {
	n := &ReturnStmt{Base: Base{K: KindReturnStmt, P: pos}, Value: value}
	if value != nil {
		value.SetParent(n)
	}
	return n
}

func (*Builder) Raise(pos Position, value Node) *RaiseStmt {
	n := &RaiseStmt{Base: Base{K: KindRaiseStmt, P: pos}, Value: value}
	value.SetParent(n)
	return n
}

func (*Builder) DoRescue(pos Position) *DoRescueStmt {
	return &DoRescueStmt{Base: Base{K: KindDoRescueStmt, P: pos}}
}
