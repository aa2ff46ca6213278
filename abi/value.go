package abi

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/holiman/uint256"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

type bigConvertible interface {
	ToBig() *big.Int
}

func toBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, fmt.Errorf("%w: nil integer", ErrInvalidValue)
		}
		return x, nil
	case big.Int:
		return &x, nil
	case int:
		return big.NewInt(int64(x)), nil
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, x)
		}
		res, _ := big.NewFloat(x).Int(nil)
		return res, nil
	case json.Number:
		return parseBigInt(x.String())
	case string:
		return parseBigInt(x)
	case bigConvertible:
		return x.ToBig(), nil
	}
	return nil, fmt.Errorf("%w: %T is not an integer", ErrInvalidValue, v)
}

// parseBigInt accepts decimal or 0x-prefixed hex; "_" separators are ignored.
func parseBigInt(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if hexDigits, ok := strings.CutPrefix(s, "0x"); ok {
		res, ok := new(big.Int).SetString(hexDigits, 16)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a hex integer", ErrInvalidValue, s)
		}
		return res, nil
	}
	if strings.HasPrefix(s, "-") {
		res, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
		}
		return res, nil
	}
	res, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidValue, s, err)
	}
	return res.ToBig(), nil
}

func checkRange(v *big.Int, t *paramType) error {
	switch t.kind {
	case kindUint, kindVarUint:
		limit := t.size
		if t.kind == kindVarUint {
			limit = 8 * (t.size - 1)
		}
		if v.Sign() < 0 || uint(v.BitLen()) > limit {
			return fmt.Errorf("%w: %s does not fit into unsigned %d bits", ErrInvalidValue, v, limit)
		}
	case kindInt:
		limit := new(big.Int).Lsh(big.NewInt(1), t.size-1)
		if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
			return fmt.Errorf("%w: %s does not fit into signed %d bits", ErrInvalidValue, v, t.size)
		}
	}
	return nil
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch x {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %v is not a bool", ErrInvalidValue, v)
}

// ParseAddress accepts both raw ("0:abcd...") and user-friendly forms.
func ParseAddress(s string) (*address.Address, error) {
	if strings.Contains(s, ":") {
		return address.ParseRawAddr(s)
	}
	return address.ParseAddr(s)
}

func toAddress(v any) (*address.Address, error) {
	switch x := v.(type) {
	case *address.Address:
		return x, nil
	case string:
		addr, err := ParseAddress(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidValue, x, err)
		}
		return addr, nil
	}
	return nil, fmt.Errorf("%w: %T is not an address", ErrInvalidValue, v)
}

func toCell(v any) (*cell.Cell, error) {
	switch x := v.(type) {
	case *cell.Cell:
		return x, nil
	case []byte:
		return cell.FromBOC(x)
	case string:
		boc, err := base64.StdEncoding.DecodeString(x)
		if err != nil {
			return nil, fmt.Errorf("%w: cell must be a base64 BOC: %w", ErrInvalidValue, err)
		}
		return cell.FromBOC(boc)
	}
	return nil, fmt.Errorf("%w: %T is not a cell", ErrInvalidValue, v)
}

// toBytes accepts raw bytes or a hex string.
func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		b, err := hex.DecodeString(strings.TrimPrefix(x, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: bytes must be hex: %w", ErrInvalidValue, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %T is not bytes", ErrInvalidValue, v)
}

func toSlice(v any) ([]any, error) {
	if x, ok := v.([]any); ok {
		return x, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T is not an array", ErrInvalidValue, v)
	}
	res := make([]any, rv.Len())
	for i := range res {
		res[i] = rv.Index(i).Interface()
	}
	return res, nil
}

func toTuple(v any) (map[string]any, error) {
	if x, ok := v.(map[string]any); ok {
		return x, nil
	}
	return nil, fmt.Errorf("%w: %T is not a tuple", ErrInvalidValue, v)
}
