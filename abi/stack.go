package abi

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// EncodeStack converts function inputs into get-method arguments, in declaration order.
func EncodeStack(f *Function, input map[string]any) ([]any, error) {
	args := make([]any, 0, len(f.Inputs))
	for _, p := range f.Inputs {
		value, ok := input[p.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, p.Name)
		}
		t, err := parseType(p)
		if err != nil {
			return nil, err
		}
		arg, err := stackArg(value, t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

func stackArg(v any, t *paramType) (any, error) {
	switch t.kind {
	case kindUint, kindInt, kindVarUint:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return n, checkRange(n, t)
	case kindBool:
		b, err := toBool(v)
		if err != nil {
			return nil, err
		}
		if b {
			return big.NewInt(-1), nil
		}
		return big.NewInt(0), nil
	case kindAddress:
		addr, err := toAddress(v)
		if err != nil {
			return nil, err
		}
		b := cell.BeginCell()
		if err := b.StoreAddr(addr); err != nil {
			return nil, err
		}
		return b.EndCell().BeginParse(), nil
	case kindCell:
		return toCell(v)
	}
	return nil, fmt.Errorf("%w: %s in get-method arguments", ErrUnsupportedType, kindName(t))
}

func kindName(t *paramType) string {
	switch t.kind {
	case kindBytes:
		return "bytes"
	case kindString:
		return "string"
	case kindArray:
		return "array"
	case kindTuple:
		return "tuple"
	}
	return "value"
}

// DecodeStack maps the result stack of a get-method onto the function outputs, in order.
func DecodeStack(f *Function, stack []any) (map[string]any, error) {
	if len(stack) < len(f.Outputs) {
		return nil, fmt.Errorf("%w: function %s returned %d values, expected %d",
			ErrInvalidValue, f.Name, len(stack), len(f.Outputs))
	}
	out := make(map[string]any, len(f.Outputs))
	for i, p := range f.Outputs {
		t, err := parseType(p)
		if err != nil {
			return nil, err
		}
		if out[p.Name], err = stackValue(stack[i], t); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return out, nil
}

func stackValue(v any, t *paramType) (any, error) {
	switch t.kind {
	case kindUint, kindInt, kindVarUint:
		if n, ok := v.(*big.Int); ok {
			return n, nil
		}
	case kindBool:
		if n, ok := v.(*big.Int); ok {
			return n.Sign() != 0, nil
		}
	case kindAddress:
		if s, ok := v.(*cell.Slice); ok {
			return s.LoadAddr()
		}
	case kindCell:
		switch x := v.(type) {
		case *cell.Cell:
			return x, nil
		case *cell.Slice:
			return x.ToCell()
		}
	case kindBytes, kindString:
		c, ok := v.(*cell.Cell)
		if !ok {
			break
		}
		data, err := readSnake(c.BeginParse())
		if err != nil {
			return nil, err
		}
		if t.kind == kindString {
			return string(data), nil
		}
		return data, nil
	default:
		return nil, ErrUnsupportedType
	}
	return nil, fmt.Errorf("%w: unexpected stack entry %T", ErrInvalidValue, v)
}
