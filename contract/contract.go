// Package contract provides a session object bound to one deployed (or
// deployable) contract instance.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/hexutil"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

var (
	ErrMissingKeys      = errors.New("contract keys is undefined")
	ErrMissingCodeImage = errors.New("contract code image is undefined")
)

//go:embed abi/transfer.abi.json
var transferAbiJson []byte

var transferAbi = abi.MustParse(transferAbiJson)

const DefaultTimeout = time.Minute

type Config struct {
	Name        string
	Abi         *abi.Contract
	InitialData map[string]any
	Keys        *types.KeyPair
	Image       *types.CodeImage
	// Address skips derivation from keys and image when set.
	Address   *address.Address
	Workchain int32
}

// Contract is not safe for concurrent use.
type Contract struct {
	client      client.Client
	timeout     time.Duration
	name        string
	abi         *abi.Contract
	initialData map[string]any
	keys        *types.KeyPair
	image       *types.CodeImage
	workchain   int32
	address     *address.Address
	lastTxLT    uint64
	logger      zerolog.Logger
}

func New(c client.Client, timeout time.Duration, cfg Config) *Contract {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	name := cfg.Name
	if name == "" {
		name = "Contract"
	}
	return &Contract{
		client:      c,
		timeout:     timeout,
		name:        name,
		abi:         cfg.Abi,
		initialData: cfg.InitialData,
		keys:        cfg.Keys,
		image:       cfg.Image,
		workchain:   cfg.Workchain,
		address:     cfg.Address,
		logger:      logging.NewLogger("contract").With().Str(logging.FieldContract, name).Logger(),
	}
}

func (c *Contract) Name() string {
	return c.name
}

func (c *Contract) Abi() *abi.Contract {
	return c.abi
}

func (c *Contract) Keys() *types.KeyPair {
	return c.keys
}

// LastTransactionLT is the logical time of the newest transaction seen by the session.
func (c *Contract) LastTransactionLT() uint64 {
	return c.lastTxLT
}

func (c *Contract) observe(lt uint64) {
	if lt > c.lastTxLT {
		c.lastTxLT = lt
	}
}

// Address returns the contract address, deriving it once from keys and code image.
func (c *Contract) Address(ctx context.Context) (*address.Address, error) {
	if c.address != nil {
		return c.address, nil
	}
	if c.keys == nil {
		return nil, ErrMissingKeys
	}
	if c.image == nil {
		return nil, ErrMissingCodeImage
	}
	msg, err := c.client.EncodeMessage(ctx, &client.EncodeMessageParams{
		Abi:    c.abi,
		Deploy: c.deploySet(),
		Signer: c.keys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute address: %w", err)
	}
	c.address = msg.Address
	return c.address, nil
}

func (c *Contract) deploySet() *client.DeploySet {
	return &client.DeploySet{Image: c.image, InitialData: c.initialData, Workchain: c.workchain}
}

// WaitForTransaction waits for a transaction newer than the last one seen.
// A non-positive timeout means the session timeout. Any failure, a timeout
// included, is reported as false.
func (c *Contract) WaitForTransaction(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = c.timeout
	}
	addr, err := c.Address(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Cannot wait for transaction")
		return false
	}
	lt := c.lastTxLT
	acc, err := c.client.WaitForAccount(ctx, addr, client.AccountFilter{LastTxLTGreaterThan: &lt}, timeout)
	if err != nil {
		c.logger.Debug().Err(err).
			Uint64(logging.FieldLastTxLT, lt).
			Dur(logging.FieldDuration, timeout).
			Msg("No new transaction")
		return false
	}
	c.observe(acc.LastTxLT)
	return true
}

// Balance returns the balance in nanotons as a 0x-prefixed hex string, "0x0" for unknown accounts.
func (c *Contract) Balance(ctx context.Context) (string, error) {
	acc, err := c.account(ctx)
	if err != nil {
		return "", err
	}
	if acc == nil {
		return "0x0", nil
	}
	return hexutil.Big(acc.BalanceOrZero()), nil
}

func (c *Contract) AccountType(ctx context.Context) (types.AccountType, error) {
	acc, err := c.account(ctx)
	if err != nil {
		return types.AccountNotFound, err
	}
	if acc == nil {
		return types.AccountNotFound, nil
	}
	c.logger.Trace().Stringer(logging.FieldAccountType, acc.Type).Msg("Account state fetched")
	return acc.Type, nil
}

func (c *Contract) account(ctx context.Context) (*types.Account, error) {
	addr, err := c.Address(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := c.client.GetAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		c.observe(acc.LastTxLT)
	}
	return acc, nil
}

// RunLocal executes a read-only function without sending a message.
func (c *Contract) RunLocal(ctx context.Context, function string, input map[string]any) (map[string]any, error) {
	addr, err := c.Address(ctx)
	if err != nil {
		return nil, err
	}
	return c.client.RunLocal(ctx, &client.RunLocalParams{
		Abi:      c.abi,
		Address:  addr,
		Function: function,
		Input:    input,
	})
}

// Call sends a signed external message and waits for it to be processed.
// keys override the session keys when not nil.
func (c *Contract) Call(ctx context.Context, function string, input map[string]any, keys *types.KeyPair) (*client.ProcessResult, error) {
	if keys == nil {
		keys = c.keys
	}
	if keys == nil {
		return nil, ErrMissingKeys
	}
	addr, err := c.Address(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str(logging.FieldFunction, function).Msg("Calling")
	res, err := c.client.ProcessMessage(ctx, &client.EncodeMessageParams{
		Abi:     c.abi,
		Address: addr,
		Call:    &client.CallSet{Function: function, Input: input},
		Signer:  keys,
	})
	if err != nil {
		return nil, fmt.Errorf("%s.%s failed: %w", c.name, function, err)
	}
	c.WaitForTransaction(ctx, 0)
	return res, nil
}

// Deploy waits for the account to be funded, sends the deploy message with the
// constructor call and reports whether the deploy transaction was observed.
func (c *Contract) Deploy(ctx context.Context, input map[string]any) (bool, error) {
	if c.keys == nil {
		return false, ErrMissingKeys
	}
	if c.image == nil {
		return false, ErrMissingCodeImage
	}
	addr, err := c.Address(ctx)
	if err != nil {
		return false, err
	}

	acc, err := c.client.WaitForAccount(ctx, addr, client.AccountFilter{
		NoCode:             true,
		BalanceGreaterThan: big.NewInt(0),
	}, c.timeout)
	if err != nil {
		return false, fmt.Errorf("account %s is not ready for deploy: %w", addr.StringRaw(), err)
	}
	c.observe(acc.LastTxLT)

	if input == nil {
		input = map[string]any{}
	}
	msg, err := c.client.EncodeMessage(ctx, &client.EncodeMessageParams{
		Abi:     c.abi,
		Address: addr,
		Deploy:  c.deploySet(),
		Call:    &client.CallSet{Function: "constructor", Input: input},
		Signer:  c.keys,
	})
	if err != nil {
		return false, err
	}
	if err := c.client.SendMessage(ctx, msg); err != nil {
		return false, err
	}
	return c.WaitForTransaction(ctx, 0), nil
}

// PayloadToCallAnotherContract builds an internal message body calling function of another contract.
func (c *Contract) PayloadToCallAnotherContract(
	ctx context.Context, target *abi.Contract, function string, input map[string]any,
) (*cell.Cell, error) {
	return c.client.EncodeMessageBody(ctx, &client.EncodeMessageBodyParams{
		Abi:      target,
		Call:     &client.CallSet{Function: function, Input: input},
		Internal: true,
	})
}

// PayloadToTransferWithComment builds an internal message body carrying a text comment.
func (c *Contract) PayloadToTransferWithComment(ctx context.Context, comment string) (*cell.Cell, error) {
	return c.PayloadToCallAnotherContract(ctx, transferAbi, "transfer", map[string]any{
		"comment": hexutil.String(comment),
	})
}
