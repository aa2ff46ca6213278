package abi

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// DecodeOutput decodes the body of an outbound external message produced as an
// answer of one of the contract functions.
func DecodeOutput(c *Contract, body *cell.Cell) (*Function, map[string]any, error) {
	s := body.BeginParse()
	id, err := s.LoadUInt(32)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load function id: %w", err)
	}
	f, err := c.FunctionByOutputID(uint32(id))
	if err != nil {
		return nil, nil, err
	}
	out := make(map[string]any, len(f.Outputs))
	if _, err := decodeParams(s, f.Outputs, out); err != nil {
		return nil, nil, fmt.Errorf("function %s: %w", f.Name, err)
	}
	return f, out, nil
}

// DecodeInput decodes an internal call body, the counterpart of EncodeInternalCall.
func DecodeInput(c *Contract, body *cell.Cell) (*Function, map[string]any, error) {
	s := body.BeginParse()
	id, err := s.LoadUInt(32)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load function id: %w", err)
	}
	for i := range c.Functions {
		f := &c.Functions[i]
		if f.InputID() != uint32(id) {
			continue
		}
		in := make(map[string]any, len(f.Inputs))
		if _, err := decodeParams(s, f.Inputs, in); err != nil {
			return nil, nil, fmt.Errorf("function %s: %w", f.Name, err)
		}
		return f, in, nil
	}
	return nil, nil, fmt.Errorf("%w: input id 0x%08x", ErrUnknownFunction, id)
}

func decodeParams(s *cell.Slice, params []Param, out map[string]any) (*cell.Slice, error) {
	for _, p := range params {
		t, err := parseType(p)
		if err != nil {
			return nil, err
		}
		if t.kind == kindTuple {
			fields := make(map[string]any, len(t.components))
			if s, err = decodeParams(s, t.components, fields); err != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, err)
			}
			out[p.Name] = fields
			continue
		}
		if s, err = nextCellIfNeeded(s, t); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		if out[p.Name], err = decodeValue(s, t); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return s, nil
}

func nextCellIfNeeded(s *cell.Slice, t *paramType) (*cell.Slice, error) {
	bits := t.bits()
	switch t.kind {
	case kindAddress:
		bits = 2
		if s.BitsLeft() >= 2 {
			if tag, err := s.Copy().LoadUInt(2); err == nil && tag == 2 {
				bits = 267
			}
		}
	}
	if s.BitsLeft() >= bits && s.RefsNum() >= t.refs() {
		return s, nil
	}
	if s.RefsNum() == 0 {
		return nil, fmt.Errorf("%w: unexpected end of data", ErrInvalidValue)
	}
	// the link to the next cell is always the last ref
	for s.RefsNum() > 1 {
		if _, err := s.LoadRef(); err != nil {
			return nil, err
		}
	}
	return s.LoadRef()
}

func decodeValue(s *cell.Slice, t *paramType) (any, error) {
	switch t.kind {
	case kindUint:
		return s.LoadBigUInt(t.size)
	case kindInt:
		return s.LoadBigInt(t.size)
	case kindVarUint:
		return loadVarUint(s, t)
	case kindBool:
		return s.LoadBoolBit()
	case kindAddress:
		return s.LoadAddr()
	case kindCell:
		return s.LoadRefCell()
	case kindBytes, kindString:
		ref, err := s.LoadRef()
		if err != nil {
			return nil, err
		}
		data, err := readSnake(ref)
		if err != nil {
			return nil, err
		}
		if t.kind == kindString {
			return string(data), nil
		}
		return data, nil
	case kindArray:
		n, err := s.LoadUInt(32)
		if err != nil {
			return nil, err
		}
		dict, err := s.LoadDict(32)
		if err != nil {
			return nil, err
		}
		items := make([]any, n)
		for i := range items {
			if dict == nil {
				return nil, fmt.Errorf("%w: array of %d items has no elements", ErrInvalidValue, n)
			}
			item, err := dict.LoadValueByIntKey(big.NewInt(int64(i)))
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			if items[i], err = decodeValue(item, t.elem); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return items, nil
	case kindTuple:
		fields := make(map[string]any, len(t.components))
		for _, p := range t.components {
			ct, err := parseType(p)
			if err != nil {
				return nil, err
			}
			if fields[p.Name], err = decodeValue(s, ct); err != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, err)
			}
		}
		return fields, nil
	}
	return nil, ErrUnsupportedType
}

func readSnake(s *cell.Slice) ([]byte, error) {
	var res []byte
	for {
		chunk, err := s.LoadSlice(s.BitsLeft())
		if err != nil {
			return nil, err
		}
		res = append(res, chunk...)
		if s.RefsNum() == 0 {
			return res, nil
		}
		if s, err = s.LoadRef(); err != nil {
			return nil, err
		}
	}
}

func loadVarUint(s *cell.Slice, t *paramType) (*big.Int, error) {
	n, err := s.LoadUInt(t.lenBits())
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(big.Int), nil
	}
	return s.LoadBigUInt(uint(n) * 8)
}
