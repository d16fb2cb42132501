package vm

import "github.com/redchew/horse64/values"

// doBinOp implements BINOP's operator set over the scalar Value variants
// plus string concatenation for heap-backed strings. Returning
// ErrTypeMismatch/ErrDivisionByZero (rather than panicking) keeps every
// failure on the same path OP_BINOP's dispatch site routes through
// raiseVMError.
func (t *Thread) doBinOp(op BinOp, l, r values.Value) (values.Value, error) {
	switch op {
	case BinAnd:
		return values.Bool(l.Truthy() && r.Truthy()), nil
	case BinOr:
		return values.Bool(l.Truthy() || r.Truthy()), nil
	}

	if op == BinAdd {
		if lo, ok := l.AsHeapRef(); ok && lo != nil && lo.Type == values.TypeString {
			ro, ok := r.AsHeapRef()
			if !ok || ro == nil || ro.Type != values.TypeString {
				return values.None(), ErrTypeMismatch
			}
			lp := lo.Payload.(*values.StringPayload)
			rp := ro.Payload.(*values.StringPayload)
			runes := append(append([]rune(nil), lp.Runes...), rp.Runes...)
			obj := t.Heap.Alloc(values.TypeString, &values.StringPayload{Runes: runes})
			// Leave ExternalRefCount at zero here: the caller installs the
			// result via assignSlot (or an equivalent single-owner write),
			// which is what actually bumps it to one. Bumping it here too
			// would double-count the one slot that ends up holding it.
			return values.HeapRefValue(obj), nil
		}
	}

	if li, lok := l.AsInt64(); lok {
		if ri, rok := r.AsInt64(); rok {
			return intBinOp(op, li, ri)
		}
		if rf, rok := r.AsFloat64(); rok {
			return floatBinOp(op, float64(li), rf)
		}
		return values.None(), ErrTypeMismatch
	}
	if lf, lok := l.AsFloat64(); lok {
		if ri, rok := r.AsInt64(); rok {
			return floatBinOp(op, lf, float64(ri))
		}
		if rf, rok := r.AsFloat64(); rok {
			return floatBinOp(op, lf, rf)
		}
		return values.None(), ErrTypeMismatch
	}
	return values.None(), ErrTypeMismatch
}

func intBinOp(op BinOp, l, r int64) (values.Value, error) {
	switch op {
	case BinAdd:
		return values.Int64(l + r), nil
	case BinSub:
		return values.Int64(l - r), nil
	case BinMul:
		return values.Int64(l * r), nil
	case BinDiv:
		if r == 0 {
			return values.None(), ErrDivisionByZero
		}
		return values.Int64(l / r), nil
	case BinMod:
		if r == 0 {
			return values.None(), ErrDivisionByZero
		}
		return values.Int64(l % r), nil
	case BinEqual:
		return values.Bool(l == r), nil
	case BinNotEqual:
		return values.Bool(l != r), nil
	case BinLess:
		return values.Bool(l < r), nil
	case BinLessEqual:
		return values.Bool(l <= r), nil
	case BinGreater:
		return values.Bool(l > r), nil
	case BinGreaterEqual:
		return values.Bool(l >= r), nil
	default:
		return values.None(), ErrTypeMismatch
	}
}

func floatBinOp(op BinOp, l, r float64) (values.Value, error) {
	switch op {
	case BinAdd:
		return values.Float64(l + r), nil
	case BinSub:
		return values.Float64(l - r), nil
	case BinMul:
		return values.Float64(l * r), nil
	case BinDiv:
		if r == 0 {
			return values.None(), ErrDivisionByZero
		}
		return values.Float64(l / r), nil
	case BinEqual:
		return values.Bool(l == r), nil
	case BinNotEqual:
		return values.Bool(l != r), nil
	case BinLess:
		return values.Bool(l < r), nil
	case BinLessEqual:
		return values.Bool(l <= r), nil
	case BinGreater:
		return values.Bool(l > r), nil
	case BinGreaterEqual:
		return values.Bool(l >= r), nil
	default:
		return values.None(), ErrTypeMismatch
	}
}

func (t *Thread) doUnOp(op UnOp, v values.Value) (values.Value, error) {
	switch op {
	case UnNot:
		return values.Bool(!v.Truthy()), nil
	case UnNegate:
		if i, ok := v.AsInt64(); ok {
			return values.Int64(-i), nil
		}
		if f, ok := v.AsFloat64(); ok {
			return values.Float64(-f), nil
		}
		return values.None(), ErrTypeMismatch
	default:
		return values.None(), ErrTypeMismatch
	}
}
