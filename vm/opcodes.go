package vm

// Opcode is the instruction-set tag interpreted by the central dispatch
// switch in interpreter.go (spec.md §4.7 lists the handler set; §9's
// design note says a switch is an accepted equivalent to the
// label-as-value threaded dispatch the original implementation used).
type Opcode byte

const (
	OP_SETCONST Opcode = iota
	OP_SETGLOBAL
	OP_GETGLOBAL
	OP_GETFUNC
	OP_GETCLASS
	OP_VALUECOPY
	OP_BINOP
	OP_UNOP
	OP_CALL
	OP_SETTOP
	OP_RETURNVALUE
	OP_JUMPTARGET
	OP_CONDJUMP
	OP_JUMP
	OP_NEWITERATOR
	OP_ITERATE
	OP_PUSHCATCHFRAME
	OP_ADDCATCHTYPE
	OP_ADDCATCHTYPEBYREF
	OP_POPCATCHFRAME
	OP_GETMEMBER
	OP_JUMPTOFINALLY
	OP_NEWLIST
	OP_ADDTOLIST
	OP_NEWSET
	OP_ADDTOSET
	OP_NEWVECTOR
	OP_PUTVECTOR
	OP_NEWMAP
	OP_PUTMAP

	opcodeCount
)

var opcodeNames = map[Opcode]string{
	OP_SETCONST:          "SETCONST",
	OP_SETGLOBAL:         "SETGLOBAL",
	OP_GETGLOBAL:         "GETGLOBAL",
	OP_GETFUNC:           "GETFUNC",
	OP_GETCLASS:          "GETCLASS",
	OP_VALUECOPY:         "VALUECOPY",
	OP_BINOP:             "BINOP",
	OP_UNOP:              "UNOP",
	OP_CALL:              "CALL",
	OP_SETTOP:            "SETTOP",
	OP_RETURNVALUE:       "RETURNVALUE",
	OP_JUMPTARGET:        "JUMPTARGET",
	OP_CONDJUMP:          "CONDJUMP",
	OP_JUMP:              "JUMP",
	OP_NEWITERATOR:       "NEWITERATOR",
	OP_ITERATE:           "ITERATE",
	OP_PUSHCATCHFRAME:    "PUSHCATCHFRAME",
	OP_ADDCATCHTYPE:      "ADDCATCHTYPE",
	OP_ADDCATCHTYPEBYREF: "ADDCATCHTYPEBYREF",
	OP_POPCATCHFRAME:     "POPCATCHFRAME",
	OP_GETMEMBER:         "GETMEMBER",
	OP_JUMPTOFINALLY:     "JUMPTOFINALLY",
	OP_NEWLIST:           "NEWLIST",
	OP_ADDTOLIST:         "ADDTOLIST",
	OP_NEWSET:            "NEWSET",
	OP_ADDTOSET:          "ADDTOSET",
	OP_NEWVECTOR:         "NEWVECTOR",
	OP_PUTVECTOR:         "PUTVECTOR",
	OP_NEWMAP:            "NEWMAP",
	OP_PUTMAP:            "PUTMAP",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// BinOp / UnOp select the operator a BINOP/UNOP instruction's B operand
// names (spec.md leaves the operator-set closed over the language's
// usual arithmetic/comparison/logical operators; GLOSSARY names none of
// these explicitly, so the set below is the minimal one the example
// programs in spec.md §8 exercise).
type BinOp int32

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEqual
	BinNotEqual
	BinLess
	BinLessEqual
	BinGreater
	BinGreaterEqual
	BinAnd
	BinOr
)

type UnOp int32

const (
	UnNegate UnOp = iota
	UnNot
)
