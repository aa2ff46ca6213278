// Package hexutil converts values to the hex strings contract arguments expect.
package hexutil

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func Has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// X0 prefixes s with 0x unless it already has the prefix.
func X0(s string) string {
	if Has0xPrefix(s) {
		return s
	}
	return "0x" + s
}

// String encodes the UTF-8 bytes of s without the 0x prefix, as bytes and string ABI parameters take it.
func String(s string) string {
	return strings.TrimPrefix(hexutil.Encode([]byte(s)), "0x")
}

func Strings(ss []string) []string {
	res := make([]string, len(ss))
	for i, s := range ss {
		res[i] = String(s)
	}
	return res
}

func Number(n uint64) string {
	return hexutil.EncodeUint64(n)
}

func Big(n *big.Int) string {
	return hexutil.EncodeBig(n)
}

// Abi encodes the JSON form of an ABI so it can be passed as a bytes parameter.
func Abi(abi any) (string, error) {
	data, err := json.Marshal(abi)
	if err != nil {
		return "", err
	}
	return String(string(data)), nil
}
