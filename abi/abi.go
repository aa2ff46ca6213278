// Package abi implements the subset of the TON contract ABI (version 2) needed to
// build external and internal message bodies, initial data and to decode answers.
package abi

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/tonkit/tonkit/common"
)

var (
	ErrUnknownFunction  = errors.New("unknown function")
	ErrUnsupportedType  = errors.New("unsupported abi type")
	ErrInvalidValue     = errors.New("invalid value")
	ErrMissingParameter = errors.New("missing parameter")
)

const (
	HeaderPubKey = "pubkey"
	HeaderTime   = "time"
	HeaderExpire = "expire"
)

type Param struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Components []Param `json:"components,omitempty"`
}

type Function struct {
	Name    string  `json:"name"`
	ID      string  `json:"id,omitempty"`
	Inputs  []Param `json:"inputs"`
	Outputs []Param `json:"outputs"`
}

type Event struct {
	Name   string  `json:"name"`
	ID     string  `json:"id,omitempty"`
	Inputs []Param `json:"inputs"`
}

// DataParam is a persistent field that may be set in the initial data of a contract.
type DataParam struct {
	Key uint64 `json:"key"`
	Param
}

type Contract struct {
	AbiVersion int         `json:"ABI version"`
	Version    string      `json:"version,omitempty"`
	Header     []string    `json:"header"`
	Functions  []Function  `json:"functions"`
	Data       []DataParam `json:"data"`
	Events     []Event     `json:"events"`

	byName map[string]*Function
}

func Parse(data []byte) (*Contract, error) {
	var c Contract
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	if c.AbiVersion != 2 {
		return nil, fmt.Errorf("%w: ABI version %d", ErrUnsupportedType, c.AbiVersion)
	}
	for _, f := range c.Functions {
		for _, p := range append(append([]Param{}, f.Inputs...), f.Outputs...) {
			if _, err := parseType(p); err != nil {
				return nil, fmt.Errorf("function %s: %w", f.Name, err)
			}
		}
	}
	c.byName = common.SliceToMap(c.Functions, func(i int, f Function) (string, *Function) {
		return f.Name, &c.Functions[i]
	})
	return &c, nil
}

func MustParse(data []byte) *Contract {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Contract) Function(name string) (*Function, error) {
	if f, ok := c.byName[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
}

func (c *Contract) FunctionByOutputID(id uint32) (*Function, error) {
	for i := range c.Functions {
		if c.Functions[i].OutputID() == id {
			return &c.Functions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: output id 0x%08x", ErrUnknownFunction, id)
}

func (c *Contract) HasHeader(name string) bool {
	for _, h := range c.Header {
		if h == name {
			return true
		}
	}
	return false
}

func (c *Contract) dataParam(name string) (*DataParam, bool) {
	for i := range c.Data {
		if c.Data[i].Name == name {
			return &c.Data[i], true
		}
	}
	return nil, false
}

// Signature is the canonical string the function id is derived from.
func (f *Function) Signature() string {
	return fmt.Sprintf("%s(%s)(%s)v2", f.Name, typeList(f.Inputs), typeList(f.Outputs))
}

func (f *Function) explicitID() (uint32, bool) {
	if f.ID == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(f.ID, "0x"), 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

func (f *Function) InputID() uint32 {
	if id, ok := f.explicitID(); ok {
		return id
	}
	return crc32.ChecksumIEEE([]byte(f.Signature())) & 0x7FFFFFFF
}

func (f *Function) OutputID() uint32 {
	if id, ok := f.explicitID(); ok {
		return id | 0x80000000
	}
	return crc32.ChecksumIEEE([]byte(f.Signature())) | 0x80000000
}

func typeList(params []Param) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = signatureType(p)
	}
	return strings.Join(types, ",")
}

func signatureType(p Param) string {
	if rest, ok := strings.CutPrefix(p.Type, "tuple"); ok {
		return "(" + typeList(p.Components) + ")" + rest
	}
	return p.Type
}
