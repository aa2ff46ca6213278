package contracts

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/core/types"
)

// ReadInt parses a non-negative decimal; "_" may separate digit groups.
func ReadInt(s string) (*big.Int, error) {
	v, err := types.ParseValue(s)
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

func ReadBoolean(s string) bool {
	return s == "true"
}

func ReadAbi(path string) (*abi.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return abi.Parse(data)
}

// ReadJSON parses a JSON object into values accepted by the ABI encoder.
// Numbers keep their textual form so that 256-bit integers survive.
func ReadJSON(text string) (map[string]any, error) {
	if !gjson.Valid(text) {
		return nil, errors.New("invalid JSON")
	}
	r := gjson.Parse(text)
	if !r.IsObject() {
		return nil, fmt.Errorf("JSON object expected, got %s", r.Type)
	}
	return jsonValue(r).(map[string]any), nil
}

func jsonValue(r gjson.Result) any {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.JSON:
		if r.IsArray() {
			items := make([]any, 0)
			for _, item := range r.Array() {
				items = append(items, jsonValue(item))
			}
			return items
		}
		fields := make(map[string]any)
		r.ForEach(func(key, value gjson.Result) bool {
			fields[key.String()] = jsonValue(value)
			return true
		})
		return fields
	}
	return nil
}
