package ton

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	tonlib "github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

var (
	errNoDestination = errors.New("message destination is not set")

	ErrAccountNotActive = errors.New("account is not active")
	// ErrGetMethodFailed is returned when the contract has no get-method with
	// the function name or the method throws.
	ErrGetMethodFailed = errors.New("get-method failed")
)

func signerKey(kp *types.KeyPair) (ed25519.PrivateKey, error) {
	if kp == nil {
		return nil, nil
	}
	return kp.PrivateKey()
}

func (c *Client) header() abi.Header {
	now := c.cfg.Timer.Now()
	return abi.Header{
		Time:   uint64(now.UnixMilli()),
		Expire: uint32(now.Add(c.cfg.MessageTimeout).Unix()),
	}
}

func (c *Client) EncodeMessage(_ context.Context, params *client.EncodeMessageParams) (*client.EncodedMessage, error) {
	signer, err := signerKey(params.Signer)
	if err != nil {
		return nil, err
	}

	msg := &tlb.ExternalMessage{DstAddr: params.Address}
	if params.Deploy != nil {
		si, addr, err := stateInit(params.Abi, params.Deploy, signer)
		if err != nil {
			return nil, err
		}
		msg.DstAddr = addr
		msg.StateInit = si
	}
	if msg.DstAddr == nil {
		return nil, errNoDestination
	}

	msg.Body = cell.BeginCell().EndCell()
	if params.Call != nil {
		body, err := abi.EncodeExternalCall(params.Abi, params.Call.Function, params.Call.Input, c.header(), signer)
		if err != nil {
			return nil, err
		}
		msg.Body = body
	}

	root, err := tlb.ToCell(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}
	return &client.EncodedMessage{Address: msg.DstAddr, Message: msg, Hash: root.Hash()}, nil
}

func stateInit(contract *abi.Contract, deploy *client.DeploySet, signer ed25519.PrivateKey) (*tlb.StateInit, *address.Address, error) {
	if deploy.Image == nil {
		return nil, nil, errors.New("deploy requires a code image")
	}
	var pub ed25519.PublicKey
	if signer != nil {
		pub = signer.Public().(ed25519.PublicKey)
	}
	data, err := abi.EncodeInitialData(contract, deploy.Image.Data, pub, deploy.InitialData)
	if err != nil {
		return nil, nil, err
	}
	si := &tlb.StateInit{Code: deploy.Image.Code, Data: data}
	root, err := tlb.ToCell(si)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize state init: %w", err)
	}
	return si, address.NewAddress(0, byte(deploy.Workchain), root.Hash()), nil
}

func (c *Client) EncodeMessageBody(_ context.Context, params *client.EncodeMessageBodyParams) (*cell.Cell, error) {
	if params.Call == nil {
		return nil, errors.New("message body requires a function call")
	}
	if params.Internal {
		return abi.EncodeInternalCall(params.Abi, params.Call.Function, params.Call.Input)
	}
	signer, err := signerKey(params.Signer)
	if err != nil {
		return nil, err
	}
	return abi.EncodeExternalCall(params.Abi, params.Call.Function, params.Call.Input, c.header(), signer)
}

func (c *Client) SendMessage(ctx context.Context, msg *client.EncodedMessage) error {
	c.logger.Debug().
		Str(logging.FieldMessageHash, hex.EncodeToString(msg.Hash)).
		Str(logging.FieldMessageTo, msg.Address.StringRaw()).
		Msg("Sending external message")
	if err := c.api.SendExternalMessage(ctx, msg.Message); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (c *Client) ProcessMessage(ctx context.Context, params *client.EncodeMessageParams) (*client.ProcessResult, error) {
	msg, err := c.EncodeMessage(ctx, params)
	if err != nil {
		return nil, err
	}

	var lt uint64
	before, err := c.GetAccount(ctx, msg.Address)
	if err != nil {
		return nil, err
	}
	if before != nil {
		lt = before.LastTxLT
	}

	if err := c.SendMessage(ctx, msg); err != nil {
		return nil, err
	}
	acc, err := c.WaitForAccount(ctx, msg.Address, client.AccountFilter{LastTxLTGreaterThan: &lt}, c.cfg.MessageTimeout)
	if err != nil {
		return nil, fmt.Errorf("message %x was not processed: %w", msg.Hash, err)
	}

	res := &client.ProcessResult{
		Address:       msg.Address,
		MessageHash:   msg.Hash,
		TransactionLT: acc.LastTxLT,
	}
	if params.Call == nil {
		return res, nil
	}
	f, err := params.Abi.Function(params.Call.Function)
	if err != nil {
		return nil, err
	}
	if len(f.Outputs) > 0 {
		if res.Output, err = c.findAnswer(ctx, params.Abi, f, acc); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// findAnswer looks for the outbound external message with the function answer
// in the last transaction of the account.
func (c *Client) findAnswer(ctx context.Context, contract *abi.Contract, f *abi.Function, acc *types.Account) (map[string]any, error) {
	txs, err := c.api.ListTransactions(ctx, acc.Address, 1, acc.LastTxLT, acc.LastTxHash)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	for _, tx := range txs {
		if tx.IO.Out == nil {
			continue
		}
		msgs, err := tx.IO.Out.ToSlice()
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			if m.MsgType != tlb.MsgTypeExternalOut {
				continue
			}
			answered, out, err := abi.DecodeOutput(contract, m.AsExternalOut().Body)
			if err == nil && answered.Name == f.Name {
				return out, nil
			}
		}
	}
	return nil, nil
}

// RunLocal evaluates a function of an active account as a TVM get-method
// against the state of the latest masterchain block.
func (c *Client) RunLocal(ctx context.Context, params *client.RunLocalParams) (map[string]any, error) {
	f, err := params.Abi.Function(params.Function)
	if err != nil {
		return nil, err
	}
	args, err := abi.EncodeStack(f, params.Input)
	if err != nil {
		return nil, err
	}
	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get masterchain info: %w", err)
	}
	state, err := c.api.GetAccount(ctx, block, params.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	acc := accountFromState(params.Address, state)
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", client.ErrAccountNotFound, params.Address.StringRaw())
	}
	if acc.Type != types.AccountActive {
		return nil, fmt.Errorf("%w: %s is %s", ErrAccountNotActive, params.Address.StringRaw(), acc.Type)
	}

	res, err := c.api.RunGetMethod(ctx, block, params.Address, f.Name, args...)
	var execErr tonlib.ContractExecError
	if errors.As(err, &execErr) {
		return nil, fmt.Errorf("%w: %s exited with code %d", ErrGetMethodFailed, f.Name, execErr.Code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", f.Name, err)
	}
	return abi.DecodeStack(f, res.AsTuple())
}
