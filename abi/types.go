package abi

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

type kind int

const (
	kindUint kind = iota
	kindInt
	kindVarUint
	kindBool
	kindAddress
	kindCell
	kindBytes
	kindString
	kindTuple
	kindArray
)

type paramType struct {
	kind       kind
	size       uint
	elem       *paramType
	components []Param
}

func parseType(p Param) (*paramType, error) {
	return parseTypeString(p.Type, p.Components)
}

func parseTypeString(t string, components []Param) (*paramType, error) {
	if elem, ok := strings.CutSuffix(t, "[]"); ok {
		e, err := parseTypeString(elem, components)
		if err != nil {
			return nil, err
		}
		return &paramType{kind: kindArray, elem: e}, nil
	}

	switch t {
	case "bool":
		return &paramType{kind: kindBool, size: 1}, nil
	case "address":
		return &paramType{kind: kindAddress}, nil
	case "cell":
		return &paramType{kind: kindCell}, nil
	case "bytes":
		return &paramType{kind: kindBytes}, nil
	case "string":
		return &paramType{kind: kindString}, nil
	case "varuint16":
		return &paramType{kind: kindVarUint, size: 16}, nil
	case "varuint32":
		return &paramType{kind: kindVarUint, size: 32}, nil
	case "tuple":
		for _, c := range components {
			if _, err := parseType(c); err != nil {
				return nil, err
			}
		}
		return &paramType{kind: kindTuple, components: components}, nil
	}

	for prefix, k := range map[string]kind{"uint": kindUint, "int": kindInt} {
		if rest, ok := strings.CutPrefix(t, prefix); ok {
			size, err := strconv.ParseUint(rest, 10, 16)
			if err != nil || size == 0 || size > 256 {
				break
			}
			return &paramType{kind: k, size: uint(size)}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// bits is the size of an encoded value in the cell data, not counting refs.
// For varuintN it is the length prefix only.
func (t *paramType) bits() uint {
	switch t.kind {
	case kindUint, kindInt, kindBool:
		return t.size
	case kindVarUint:
		return t.lenBits()
	case kindArray:
		return 33
	}
	return 0
}

// lenBits is the width of the byte length prefix of varuintN: 4 for varuint16, 5 for varuint32.
func (t *paramType) lenBits() uint {
	return uint(bits.Len(t.size - 1))
}

func (t *paramType) refs() int {
	switch t.kind {
	case kindCell, kindBytes, kindString:
		return 1
	}
	return 0
}
