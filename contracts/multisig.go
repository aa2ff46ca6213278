package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/hexutil"
	"github.com/tonkit/tonkit/contract"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

const SafeMultisigWalletName = "SafeMultisigWallet"

// SafeMultisigWallet is the multi-owner wallet from the standard contract set.
type SafeMultisigWallet struct {
	*contract.Contract
}

type MultisigDeployIn struct {
	// Owners are custodian public keys, as hex strings.
	Owners      []string
	ReqConfirms uint8
}

type SendTransactionIn struct {
	Dest    *address.Address
	Value   *big.Int
	Bounce  bool
	Flags   uint8
	Payload *cell.Cell
}

type SubmitTransactionIn struct {
	Dest       *address.Address
	Value      *big.Int
	Bounce     bool
	AllBalance bool
	Payload    *cell.Cell
}

type MultisigParameters struct {
	MaxQueuedTransactions uint8
	MaxCustodianCount     uint8
	ExpirationTime        uint64
	MinValue              *big.Int
	RequiredTxnConfirms   uint8
}

func NewSafeMultisigWallet(c client.Client, timeout time.Duration, keys *types.KeyPair, image *types.CodeImage) *SafeMultisigWallet {
	return &SafeMultisigWallet{contract.New(c, timeout, contract.Config{
		Name:  SafeMultisigWalletName,
		Abi:   mustGetAbi(SafeMultisigWalletName),
		Keys:  keys,
		Image: image,
	})}
}

func (w *SafeMultisigWallet) Session() *contract.Contract {
	return w.Contract
}

func (w *SafeMultisigWallet) Deploy(ctx context.Context, in MultisigDeployIn) (bool, error) {
	owners := make([]any, len(in.Owners))
	for i, o := range in.Owners {
		owners[i] = hexutil.X0(o)
	}
	return w.Contract.Deploy(ctx, map[string]any{
		"owners":      owners,
		"reqConfirms": in.ReqConfirms,
	})
}

func (w *SafeMultisigWallet) SendTransaction(ctx context.Context, in SendTransactionIn, keys *types.KeyPair) (*client.ProcessResult, error) {
	return w.Call(ctx, "sendTransaction", map[string]any{
		"dest":    in.Dest,
		"value":   in.Value,
		"bounce":  in.Bounce,
		"flags":   in.Flags,
		"payload": payloadOrEmpty(in.Payload),
	}, keys)
}

// SendTransactionWithComment transfers value with a text comment attached.
func (w *SafeMultisigWallet) SendTransactionWithComment(
	ctx context.Context, dest *address.Address, value *big.Int, bounce bool, flags uint8, comment string, keys *types.KeyPair,
) (*client.ProcessResult, error) {
	payload, err := w.PayloadToTransferWithComment(ctx, comment)
	if err != nil {
		return nil, err
	}
	return w.SendTransaction(ctx, SendTransactionIn{
		Dest: dest, Value: value, Bounce: bounce, Flags: flags, Payload: payload,
	}, keys)
}

// CallAnotherContract transfers value along with a call of method of the destination contract.
func (w *SafeMultisigWallet) CallAnotherContract(
	ctx context.Context, dest *address.Address, value *big.Int, bounce bool, flags uint8,
	target *abi.Contract, method string, input map[string]any, keys *types.KeyPair,
) (*client.ProcessResult, error) {
	payload, err := w.PayloadToCallAnotherContract(ctx, target, method, input)
	if err != nil {
		return nil, err
	}
	return w.SendTransaction(ctx, SendTransactionIn{
		Dest: dest, Value: value, Bounce: bounce, Flags: flags, Payload: payload,
	}, keys)
}

// SubmitTransaction creates a transaction that needs confirmations of other custodians.
func (w *SafeMultisigWallet) SubmitTransaction(ctx context.Context, in SubmitTransactionIn, keys *types.KeyPair) (uint64, error) {
	res, err := w.Call(ctx, "submitTransaction", map[string]any{
		"dest":       in.Dest,
		"value":      in.Value,
		"bounce":     in.Bounce,
		"allBalance": in.AllBalance,
		"payload":    payloadOrEmpty(in.Payload),
	}, keys)
	if err != nil {
		return 0, err
	}
	id, ok := res.Output["transId"].(*big.Int)
	if !ok {
		return 0, errors.New("submitTransaction returned no transaction id")
	}
	return id.Uint64(), nil
}

func (w *SafeMultisigWallet) ConfirmTransaction(ctx context.Context, transactionId uint64, keys *types.KeyPair) (*client.ProcessResult, error) {
	return w.Call(ctx, "confirmTransaction", map[string]any{"transactionId": transactionId}, keys)
}

func (w *SafeMultisigWallet) GetParameters(ctx context.Context) (*MultisigParameters, error) {
	out, err := w.RunLocal(ctx, "getParameters", map[string]any{})
	if err != nil {
		return nil, err
	}
	var (
		res  MultisigParameters
		ints = make(map[string]*big.Int, len(out))
	)
	for _, name := range []string{"maxQueuedTransactions", "maxCustodianCount", "expirationTime", "minValue", "requiredTxnConfirms"} {
		v, ok := out[name].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("getParameters: missing %s", name)
		}
		ints[name] = v
	}
	res.MaxQueuedTransactions = uint8(ints["maxQueuedTransactions"].Uint64())
	res.MaxCustodianCount = uint8(ints["maxCustodianCount"].Uint64())
	res.ExpirationTime = ints["expirationTime"].Uint64()
	res.MinValue = ints["minValue"]
	res.RequiredTxnConfirms = uint8(ints["requiredTxnConfirms"].Uint64())
	return &res, nil
}

func payloadOrEmpty(payload *cell.Cell) *cell.Cell {
	if payload == nil {
		return cell.BeginCell().EndCell()
	}
	return payload
}
