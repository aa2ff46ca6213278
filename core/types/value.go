package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Value is an amount of nanotons.
type Value struct{ *uint256.Int }

// ParseValue accepts a decimal amount; "_" may be used as a digit separator.
func ParseValue(s string) (Value, error) {
	var v Value
	return v, v.Set(s)
}

func (v Value) safeInt() *uint256.Int {
	if v.Int == nil {
		return new(uint256.Int)
	}
	return v.Int
}

func (v Value) IsZero() bool {
	return v.safeInt().IsZero()
}

func (v Value) ToBig() *big.Int {
	return v.safeInt().ToBig()
}

func (v Value) String() string {
	return v.safeInt().Dec()
}

func (v *Value) Set(s string) error {
	res, err := uint256.FromDecimal(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", s, err)
	}
	v.Int = res
	return nil
}
