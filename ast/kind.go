package ast

// Kind tags an expression or statement node. The parser (external,
// out of scope) is assumed to produce trees built from exactly this set
// -- spec.md §3 DATA MODEL lists these kinds explicitly.
type Kind int

const (
	KindFile Kind = iota
	KindLiteral
	KindIdentifierRef
	KindSelf
	KindBase
	KindBinaryOp
	KindUnaryOp
	KindCall
	KindMemberByIdentifier
	KindVarDef
	KindFuncDef
	KindInlineFunc
	KindClassDef
	KindImportStmt
	KindForStmt
	KindReturnStmt
	KindDoRescueStmt
	KindRaiseStmt
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindLiteral:
		return "Literal"
	case KindIdentifierRef:
		return "IdentifierRef"
	case KindSelf:
		return "Self"
	case KindBase:
		return "Base"
	case KindBinaryOp:
		return "BinaryOp"
	case KindUnaryOp:
		return "UnaryOp"
	case KindCall:
		return "Call"
	case KindMemberByIdentifier:
		return "MemberByIdentifier"
	case KindVarDef:
		return "VarDef"
	case KindFuncDef:
		return "FuncDef"
	case KindInlineFunc:
		return "InlineFunc"
	case KindClassDef:
		return "ClassDef"
	case KindImportStmt:
		return "ImportStmt"
	case KindForStmt:
		return "ForStmt"
	case KindReturnStmt:
		return "ReturnStmt"
	case KindDoRescueStmt:
		return "DoRescueStmt"
	case KindRaiseStmt:
		return "RaiseStmt"
	default:
		return "UnknownKind"
	}
}
