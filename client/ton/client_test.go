package ton

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common"
	"github.com/tonkit/tonkit/common/concurrent"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	tonlib "github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

const counterAbi = `{
	"ABI version": 2,
	"header": ["pubkey", "time", "expire"],
	"functions": [
		{"name": "constructor", "inputs": [], "outputs": []},
		{"name": "add", "inputs": [{"name": "value", "type": "uint32"}], "outputs": []},
		{
			"name": "getCount",
			"inputs": [{"name": "slot", "type": "uint8"}],
			"outputs": [{"name": "count", "type": "uint32"}, {"name": "enabled", "type": "bool"}]
		}
	],
	"data": [],
	"events": []
}`

type fakeAPI struct {
	accounts map[string]*tlb.Account
	sent     []*tlb.ExternalMessage
	// stacks holds get-method results by method name.
	stacks map[string][]any
	calls  []getMethodCall
	err    error
}

type getMethodCall struct {
	method string
	args   []any
}

func (f *fakeAPI) CurrentMasterchainInfo(context.Context) (*tonlib.BlockIDExt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &tonlib.BlockIDExt{}, nil
}

func (f *fakeAPI) GetAccount(_ context.Context, _ *tonlib.BlockIDExt, addr *address.Address) (*tlb.Account, error) {
	if acc, ok := f.accounts[addr.StringRaw()]; ok {
		return acc, nil
	}
	return &tlb.Account{IsActive: false}, nil
}

// SendExternalMessage turns the destination into an active account with a new transaction.
func (f *fakeAPI) SendExternalMessage(_ context.Context, msg *tlb.ExternalMessage) error {
	f.sent = append(f.sent, msg)
	acc, ok := f.accounts[msg.DstAddr.StringRaw()]
	if !ok {
		return errors.New("no such account")
	}
	acc.LastTxLT++
	acc.State.Status = tlb.AccountStatusActive
	return nil
}

func (f *fakeAPI) RunGetMethod(_ context.Context, _ *tonlib.BlockIDExt, _ *address.Address, method string, args ...any) (*tonlib.ExecutionResult, error) {
	f.calls = append(f.calls, getMethodCall{method: method, args: args})
	stack, ok := f.stacks[method]
	if !ok {
		// the exit code of a missing method
		return nil, tonlib.ContractExecError{Code: 11}
	}
	return tonlib.NewExecutionResult(stack), nil
}

func (f *fakeAPI) ListTransactions(context.Context, *address.Address, uint32, uint64, []byte) ([]*tlb.Transaction, error) {
	return nil, nil
}

func uninitAccount(balance uint64) *tlb.Account {
	return &tlb.Account{
		IsActive: true,
		LastTxLT: 7,
		State: &tlb.AccountState{
			IsValid: true,
			AccountStorage: tlb.AccountStorage{
				Status:  tlb.AccountStatusUninit,
				Balance: tlb.FromNanoTONU(balance),
			},
		},
	}
}

func testImage() *types.CodeImage {
	code := cell.BeginCell()
	_ = code.StoreUInt(0xC0DE, 16)
	data := cell.BeginCell()
	_ = data.StoreBoolBit(false)
	return &types.CodeImage{Code: code.EndCell(), Data: data.EndCell()}
}

func newTestClient(api *fakeAPI) *Client {
	return newClient(api, Config{
		URL:            "127.0.0.1:1",
		PollInterval:   time.Millisecond,
		MessageTimeout: 50 * time.Millisecond,
		Timer:          common.NewTestTimer(time.Unix(1700000000, 0)),
	})
}

func TestAccountFromState(t *testing.T) {
	t.Parallel()

	addr := address.NewAddress(0, 0, make([]byte, 32))

	assert.Nil(t, accountFromState(addr, nil))
	assert.Nil(t, accountFromState(addr, &tlb.Account{IsActive: false}))

	acc := accountFromState(addr, uninitAccount(5))
	require.NotNil(t, acc)
	assert.Equal(t, types.AccountUninit, acc.Type)
	assert.Equal(t, int64(5), acc.Balance.Int64())
	assert.Equal(t, uint64(7), acc.LastTxLT)
	assert.False(t, acc.HasCode)
}

func TestEncodeDeployMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeAPI{})
	keys, err := types.KeyPairFromSecret("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	params := &client.EncodeMessageParams{
		Abi:    abi.MustParse([]byte(counterAbi)),
		Deploy: &client.DeploySet{Image: testImage()},
		Signer: keys,
	}
	first, err := c.EncodeMessage(context.Background(), params)
	require.NoError(t, err)
	second, err := c.EncodeMessage(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, first.Address.StringRaw(), second.Address.StringRaw())
	require.NotNil(t, first.Message.StateInit)

	root, err := tlb.ToCell(first.Message.StateInit)
	require.NoError(t, err)
	assert.Equal(t, address.NewAddress(0, 0, root.Hash()).StringRaw(), first.Address.StringRaw())

	other, err := types.KeyPairFromSecret("0000000000000000000000000000000000000000000000000000000000000002")
	require.NoError(t, err)
	params.Signer = other
	third, err := c.EncodeMessage(context.Background(), params)
	require.NoError(t, err)
	assert.NotEqual(t, first.Address.StringRaw(), third.Address.StringRaw())

	_, err = c.EncodeMessage(context.Background(), &client.EncodeMessageParams{Abi: params.Abi})
	require.ErrorIs(t, err, errNoDestination)
}

func TestProcessMessage(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{accounts: map[string]*tlb.Account{}}
	c := newTestClient(api)
	keys, err := types.NewKeyPair()
	require.NoError(t, err)
	contract := abi.MustParse([]byte(counterAbi))

	enc, err := c.EncodeMessage(context.Background(), &client.EncodeMessageParams{
		Abi: contract, Deploy: &client.DeploySet{Image: testImage()}, Signer: keys,
	})
	require.NoError(t, err)
	api.accounts[enc.Address.StringRaw()] = uninitAccount(1_000)

	res, err := c.ProcessMessage(context.Background(), &client.EncodeMessageParams{
		Abi:     contract,
		Address: enc.Address,
		Call:    &client.CallSet{Function: "add", Input: map[string]any{"value": 3}},
		Signer:  keys,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), res.TransactionLT)
	assert.Nil(t, res.Output)
	require.Len(t, api.sent, 1)

	acc, err := c.GetAccount(context.Background(), enc.Address)
	require.NoError(t, err)
	assert.Equal(t, types.AccountActive, acc.Type)
}

func activeAccount() *tlb.Account {
	acc := uninitAccount(1_000)
	acc.State.Status = tlb.AccountStatusActive
	return acc
}

func TestRunLocal(t *testing.T) {
	t.Parallel()

	addr := address.NewAddress(0, 0, make([]byte, 32))
	api := &fakeAPI{
		accounts: map[string]*tlb.Account{addr.StringRaw(): activeAccount()},
		stacks: map[string][]any{
			"getCount": {big.NewInt(42), big.NewInt(-1)},
		},
	}
	c := newTestClient(api)
	contract := abi.MustParse([]byte(counterAbi))

	out, err := c.RunLocal(context.Background(), &client.RunLocalParams{
		Abi:      contract,
		Address:  addr,
		Function: "getCount",
		Input:    map[string]any{"slot": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), out["count"].(*big.Int).Int64())
	assert.Equal(t, true, out["enabled"])

	require.Len(t, api.calls, 1)
	assert.Equal(t, "getCount", api.calls[0].method)
	require.Len(t, api.calls[0].args, 1)
	assert.Equal(t, int64(3), api.calls[0].args[0].(*big.Int).Int64())

	_, err = c.RunLocal(context.Background(), &client.RunLocalParams{
		Abi: contract, Address: addr, Function: "add", Input: map[string]any{"value": 1},
	})
	require.ErrorIs(t, err, ErrGetMethodFailed, "a function without a get-method should fail with the exit code")
	assert.Contains(t, err.Error(), "code 11")
}

func TestRunLocalNeedsActiveAccount(t *testing.T) {
	t.Parallel()

	missing := address.NewAddress(0, 0, make([]byte, 32))
	uninit := address.NewAddress(0, 0, append(make([]byte, 31), 1))
	api := &fakeAPI{accounts: map[string]*tlb.Account{uninit.StringRaw(): uninitAccount(5)}}
	c := newTestClient(api)
	contract := abi.MustParse([]byte(counterAbi))

	params := &client.RunLocalParams{Abi: contract, Address: missing, Function: "getCount", Input: map[string]any{"slot": 0}}
	_, err := c.RunLocal(context.Background(), params)
	require.ErrorIs(t, err, client.ErrAccountNotFound)

	params.Address = uninit
	_, err = c.RunLocal(context.Background(), params)
	require.ErrorIs(t, err, ErrAccountNotActive)
	assert.Empty(t, api.calls, "get-methods should not run on inactive accounts")
}

func TestWaitForAccountTimeout(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeAPI{})
	addr := address.NewAddress(0, 0, make([]byte, 32))

	_, err := c.WaitForAccount(context.Background(), addr, client.AccountFilter{}, 20*time.Millisecond)
	require.ErrorIs(t, err, concurrent.ErrWaitTimeout)
}

func TestProofCheckPolicy(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "secure", "fast", "unsafe"} {
		_, err := proofCheckPolicy(name)
		require.NoError(t, err, name)
	}
	_, err := proofCheckPolicy("paranoid")
	require.Error(t, err)
}
