package types

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
)

// AccountType is the on-chain lifecycle state of an account.
type AccountType int

const (
	AccountNotFound AccountType = -1
	AccountUninit   AccountType = 0
	AccountActive   AccountType = 1
	AccountFrozen   AccountType = 2
	AccountNonExist AccountType = 3
)

var accountTypeNames = map[AccountType]string{
	AccountNotFound: "Not found",
	AccountUninit:   "Un init",
	AccountActive:   "Active",
	AccountFrozen:   "Frozen",
	AccountNonExist: "Non exist",
}

func (t AccountType) String() string {
	if name, ok := accountTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(t))
}

// Account is a snapshot of an account state as reported by the network.
type Account struct {
	Address    *address.Address
	Type       AccountType
	Balance    *big.Int
	LastTxLT   uint64
	LastTxHash []byte
	HasCode    bool
	HasData    bool
}

// BalanceOrZero never returns nil.
func (a *Account) BalanceOrZero() *big.Int {
	if a == nil || a.Balance == nil {
		return new(big.Int)
	}
	return a.Balance
}
