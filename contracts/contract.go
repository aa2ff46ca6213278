package contracts

import (
	"sync"

	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/common/check"
)

var (
	abiCache   = make(map[string]*abi.Contract)
	abiCacheMu sync.Mutex
)

// GetAbi returns the parsed ABI of an embedded contract.
func GetAbi(name string) (*abi.Contract, error) {
	abiCacheMu.Lock()
	defer abiCacheMu.Unlock()

	if c, ok := abiCache[name]; ok {
		return c, nil
	}
	data, err := Fs.ReadFile("compiled/" + name + ".abi.json")
	if err != nil {
		return nil, err
	}
	c, err := abi.Parse(data)
	if err != nil {
		return nil, err
	}
	abiCache[name] = c
	return c, nil
}

func mustGetAbi(name string) *abi.Contract {
	c, err := GetAbi(name)
	check.PanicIfErr(err)
	return c
}
