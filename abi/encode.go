package abi

import (
	"crypto/ed25519"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// bytes and strings are stored as a snake of cells with this many bytes per cell
const snakeChunk = 127

// Header carries the values of the message headers declared by the contract.
type Header struct {
	// Time is the message creation time in milliseconds.
	Time   uint64
	Expire uint32
}

// EncodeExternalCall builds the body of an inbound external message calling function.
// The body is signed when signer is not nil.
func EncodeExternalCall(c *Contract, function string, input map[string]any, h Header, signer ed25519.PrivateKey) (*cell.Cell, error) {
	f, err := c.Function(function)
	if err != nil {
		return nil, err
	}

	ch := newChain(signatureBits)
	for _, name := range c.Header {
		item := cell.BeginCell()
		switch name {
		case HeaderPubKey:
			if signer == nil {
				err = item.StoreBoolBit(false)
				break
			}
			if err = item.StoreBoolBit(true); err == nil {
				err = item.StoreSlice(signer.Public().(ed25519.PublicKey), 256)
			}
		case HeaderTime:
			err = item.StoreUInt(h.Time, 64)
		case HeaderExpire:
			err = item.StoreUInt(uint64(h.Expire), 32)
		default:
			return nil, fmt.Errorf("%w: header %s", ErrUnsupportedType, name)
		}
		if err != nil {
			return nil, err
		}
		if err := ch.push(item); err != nil {
			return nil, err
		}
	}

	if err := pushCall(ch, f, input); err != nil {
		return nil, err
	}

	prefix := cell.BeginCell()
	if signer == nil {
		if err := prefix.StoreBoolBit(false); err != nil {
			return nil, err
		}
		return ch.build(prefix)
	}

	unsigned, err := ch.build(nil)
	if err != nil {
		return nil, err
	}
	signature := ed25519.Sign(signer, unsigned.Hash())
	if err := prefix.StoreBoolBit(true); err != nil {
		return nil, err
	}
	if err := prefix.StoreSlice(signature, 512); err != nil {
		return nil, err
	}
	return ch.build(prefix)
}

// EncodeInternalCall builds the body of an internal message calling function.
func EncodeInternalCall(c *Contract, function string, input map[string]any) (*cell.Cell, error) {
	f, err := c.Function(function)
	if err != nil {
		return nil, err
	}
	ch := newChain(0)
	if err := pushCall(ch, f, input); err != nil {
		return nil, err
	}
	return ch.build(nil)
}

// EncodeInitialData inserts the public key and the given data fields into the
// initial persistent data of a contract.
func EncodeInitialData(c *Contract, data *cell.Cell, pubKey ed25519.PublicKey, values map[string]any) (*cell.Cell, error) {
	var dict *cell.Dictionary
	if data != nil && data.BitsSize() > 0 {
		loaded, err := data.BeginParse().LoadDict(64)
		if err != nil {
			return nil, fmt.Errorf("failed to load initial data: %w", err)
		}
		dict = loaded
	}
	if dict == nil {
		dict = cell.NewDict(64)
	}

	if pubKey != nil {
		v := cell.BeginCell()
		if err := v.StoreSlice(pubKey, 256); err != nil {
			return nil, err
		}
		if err := dict.SetIntKey(big.NewInt(0), v.EndCell()); err != nil {
			return nil, err
		}
	}

	for name, value := range values {
		p, ok := c.dataParam(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown data field %s", ErrInvalidValue, name)
		}
		t, err := parseType(p.Param)
		if err != nil {
			return nil, err
		}
		v := cell.BeginCell()
		if err := encodeValue(v, t, value); err != nil {
			return nil, fmt.Errorf("data field %s: %w", name, err)
		}
		if err := dict.SetIntKey(new(big.Int).SetUint64(p.Key), v.EndCell()); err != nil {
			return nil, err
		}
	}

	b := cell.BeginCell()
	if err := b.StoreMaybeRef(dict.AsCell()); err != nil {
		return nil, err
	}
	return b.EndCell(), nil
}

func pushCall(ch *chain, f *Function, input map[string]any) error {
	id := cell.BeginCell()
	if err := id.StoreUInt(uint64(f.InputID()), 32); err != nil {
		return err
	}
	if err := ch.push(id); err != nil {
		return err
	}
	if err := pushParams(ch, f.Inputs, input); err != nil {
		return fmt.Errorf("function %s: %w", f.Name, err)
	}
	return nil
}

func pushParams(ch *chain, params []Param, input map[string]any) error {
	for _, p := range params {
		value, ok := input[p.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingParameter, p.Name)
		}
		t, err := parseType(p)
		if err != nil {
			return err
		}
		if t.kind == kindTuple {
			fields, err := toTuple(value)
			if err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			if err := pushParams(ch, t.components, fields); err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			continue
		}
		item := cell.BeginCell()
		if err := encodeValue(item, t, value); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		if err := ch.push(item); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(b *cell.Builder, t *paramType, v any) error {
	switch t.kind {
	case kindUint, kindInt, kindVarUint:
		n, err := toBigInt(v)
		if err != nil {
			return err
		}
		if err := checkRange(n, t); err != nil {
			return err
		}
		switch t.kind {
		case kindUint:
			return b.StoreBigUInt(n, t.size)
		case kindInt:
			return b.StoreBigInt(n, t.size)
		default:
			return storeVarUint(b, n, t)
		}
	case kindBool:
		x, err := toBool(v)
		if err != nil {
			return err
		}
		return b.StoreBoolBit(x)
	case kindAddress:
		addr, err := toAddress(v)
		if err != nil {
			return err
		}
		return b.StoreAddr(addr)
	case kindCell:
		c, err := toCell(v)
		if err != nil {
			return err
		}
		return b.StoreRef(c)
	case kindBytes:
		data, err := toBytes(v)
		if err != nil {
			return err
		}
		return b.StoreRef(snake(data))
	case kindString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %T is not a string", ErrInvalidValue, v)
		}
		return b.StoreRef(snake([]byte(s)))
	case kindArray:
		return encodeArray(b, t, v)
	case kindTuple:
		fields, err := toTuple(v)
		if err != nil {
			return err
		}
		for _, p := range t.components {
			ct, err := parseType(p)
			if err != nil {
				return err
			}
			value, ok := fields[p.Name]
			if !ok {
				return fmt.Errorf("%w: %s", ErrMissingParameter, p.Name)
			}
			if err := encodeValue(b, ct, value); err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
		}
		return nil
	}
	return ErrUnsupportedType
}

// arrays are a uint32 length followed by a HashmapE(32) of the elements
func encodeArray(b *cell.Builder, t *paramType, v any) error {
	items, err := toSlice(v)
	if err != nil {
		return err
	}
	if err := b.StoreUInt(uint64(len(items)), 32); err != nil {
		return err
	}
	if len(items) == 0 {
		return b.StoreMaybeRef(nil)
	}
	dict := cell.NewDict(32)
	for i, item := range items {
		value := cell.BeginCell()
		if err := encodeValue(value, t.elem, item); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		if err := dict.SetIntKey(big.NewInt(int64(i)), value.EndCell()); err != nil {
			return err
		}
	}
	return b.StoreMaybeRef(dict.AsCell())
}

func snake(data []byte) *cell.Cell {
	chunks := [][]byte{nil}
	if len(data) > 0 {
		chunks = chunks[:0]
		for len(data) > 0 {
			n := min(len(data), snakeChunk)
			chunks = append(chunks, data[:n])
			data = data[n:]
		}
	}

	var next *cell.Cell
	for i := len(chunks) - 1; i >= 0; i-- {
		b := cell.BeginCell()
		_ = b.StoreSlice(chunks[i], uint(8*len(chunks[i])))
		if next != nil {
			_ = b.StoreRef(next)
		}
		next = b.EndCell()
	}
	return next
}

func storeVarUint(b *cell.Builder, n *big.Int, t *paramType) error {
	size := uint((n.BitLen() + 7) / 8)
	if err := b.StoreUInt(uint64(size), t.lenBits()); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	return b.StoreBigUInt(n, size*8)
}
