package client

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

var ErrAccountNotFound = errors.New("account not found")

// DeploySet describes the state init attached to a deploy message.
type DeploySet struct {
	Image       *types.CodeImage
	InitialData map[string]any
	Workchain   int32
}

type CallSet struct {
	Function string
	Input    map[string]any
}

type EncodeMessageParams struct {
	Abi *abi.Contract
	// Address is the destination. It is derived from the state init when Deploy is set.
	Address *address.Address
	Deploy  *DeploySet
	Call    *CallSet
	Signer  *types.KeyPair
}

type EncodedMessage struct {
	Address *address.Address
	Message *tlb.ExternalMessage
	Hash    []byte
}

type EncodeMessageBodyParams struct {
	Abi  *abi.Contract
	Call *CallSet
	// Internal bodies carry neither headers nor a signature.
	Internal bool
	Signer   *types.KeyPair
}

type ProcessResult struct {
	Address     *address.Address
	MessageHash []byte
	// TransactionLT is the logical time of the transaction that processed the message.
	TransactionLT uint64
	// Output holds decoded answer values, if the function returns any.
	Output map[string]any
}

type RunLocalParams struct {
	Abi      *abi.Contract
	Address  *address.Address
	Function string
	Input    map[string]any
}

// AccountFilter is a set of conditions an account state must satisfy.
// Zero fields are not checked.
type AccountFilter struct {
	LastTxLTGreaterThan *uint64
	BalanceGreaterThan  *big.Int
	// NoCode requires an account without code and data, i.e. not deployed yet.
	NoCode bool
}

func (f AccountFilter) Match(acc *types.Account) bool {
	if acc == nil {
		return false
	}
	if f.LastTxLTGreaterThan != nil && acc.LastTxLT <= *f.LastTxLTGreaterThan {
		return false
	}
	if f.BalanceGreaterThan != nil && acc.BalanceOrZero().Cmp(f.BalanceGreaterThan) <= 0 {
		return false
	}
	if f.NoCode && (acc.HasCode || acc.HasData) {
		return false
	}
	return true
}

// Client is the network collaborator used by contract sessions.
type Client interface {
	// EncodeMessage builds an inbound external message. For deploy messages the
	// destination address is computed from the state init.
	EncodeMessage(ctx context.Context, params *EncodeMessageParams) (*EncodedMessage, error)

	// EncodeMessageBody builds a standalone message body, e.g. a payload for an internal message.
	EncodeMessageBody(ctx context.Context, params *EncodeMessageBodyParams) (*cell.Cell, error)

	SendMessage(ctx context.Context, msg *EncodedMessage) error

	// ProcessMessage encodes, sends and waits for the transaction processing the message.
	ProcessMessage(ctx context.Context, params *EncodeMessageParams) (*ProcessResult, error)

	// GetAccount returns nil and no error when the account is unknown to the network.
	GetAccount(ctx context.Context, addr *address.Address) (*types.Account, error)

	// WaitForAccount blocks until the account state matches filter or timeout elapses.
	WaitForAccount(ctx context.Context, addr *address.Address, filter AccountFilter, timeout time.Duration) (*types.Account, error)

	// RunLocal executes a read-only function against the current account state.
	RunLocal(ctx context.Context, params *RunLocalParams) (map[string]any, error)

	Ping(ctx context.Context) error
	Close()
}
