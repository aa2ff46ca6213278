package mock

import (
	"context"
	"crypto/sha256"
	"math/big"
	"time"

	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/concurrent"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// MockClient simulates the network with an in-memory ledger of accounts keyed by raw address.
type MockClient struct {
	Accounts map[string]*types.Account
	// Address is the destination assigned to encoded deploy messages.
	Address *address.Address
	// Addresses overrides Address per signer public key.
	Addresses map[string]*address.Address

	RunResult map[string]any
	Body      *cell.Cell
	Err       error
	// WaitErr fails WaitForAccount only.
	WaitErr error

	// OnSend observes every message sent with SendMessage or ProcessMessage.
	OnSend func(m *MockClient, params *client.EncodeMessageParams)

	EncodeCalls     int
	SendCalls       int
	ProcessCalls    int
	WaitCalls       int
	GetAccountCalls int
	RunCalls        int

	Encoded   []*client.EncodeMessageParams
	Processed []*client.EncodeMessageParams
	Bodies    []*client.EncodeMessageBodyParams

	sent map[*client.EncodedMessage]*client.EncodeMessageParams
}

var _ client.Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{
		Accounts: make(map[string]*types.Account),
		Address:  address.NewAddress(0, 0, make([]byte, 32)),
	}
}

// SetAccount stores a copy of acc in the ledger.
func (m *MockClient) SetAccount(acc *types.Account) {
	if m.Accounts == nil {
		m.Accounts = make(map[string]*types.Account)
	}
	m.Accounts[acc.Address.StringRaw()] = copyAccount(acc)
}

// Account returns the ledger entry for addr, not a copy.
func (m *MockClient) Account(addr *address.Address) *types.Account {
	return m.Accounts[addr.StringRaw()]
}

func (m *MockClient) EncodeMessage(_ context.Context, params *client.EncodeMessageParams) (*client.EncodedMessage, error) {
	m.EncodeCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	m.Encoded = append(m.Encoded, params)

	dest := params.Address
	if params.Deploy != nil {
		dest = m.Address
		if params.Signer != nil && m.Addresses[params.Signer.Public] != nil {
			dest = m.Addresses[params.Signer.Public]
		}
	}
	hash := sha256.Sum256([]byte(dest.StringRaw()))
	msg := &client.EncodedMessage{
		Address: dest,
		Message: &tlb.ExternalMessage{DstAddr: dest},
		Hash:    hash[:],
	}
	if m.sent == nil {
		m.sent = make(map[*client.EncodedMessage]*client.EncodeMessageParams)
	}
	m.sent[msg] = params
	return msg, nil
}

func (m *MockClient) EncodeMessageBody(_ context.Context, params *client.EncodeMessageBodyParams) (*cell.Cell, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Bodies = append(m.Bodies, params)
	if m.Body != nil {
		return m.Body, nil
	}
	return cell.BeginCell().EndCell(), nil
}

func (m *MockClient) SendMessage(_ context.Context, msg *client.EncodedMessage) error {
	m.SendCalls++
	if m.Err != nil {
		return m.Err
	}
	if m.OnSend != nil {
		m.OnSend(m, m.sent[msg])
	}
	return nil
}

// ProcessMessage advances the logical time of the destination account, if it exists.
func (m *MockClient) ProcessMessage(_ context.Context, params *client.EncodeMessageParams) (*client.ProcessResult, error) {
	m.ProcessCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	m.Processed = append(m.Processed, params)
	if m.OnSend != nil {
		m.OnSend(m, params)
	}

	res := &client.ProcessResult{Address: params.Address, Output: m.RunResult}
	if acc := m.Account(params.Address); acc != nil {
		acc.LastTxLT++
		res.TransactionLT = acc.LastTxLT
	}
	return res, nil
}

func (m *MockClient) GetAccount(_ context.Context, addr *address.Address) (*types.Account, error) {
	m.GetAccountCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if acc := m.Account(addr); acc != nil {
		return copyAccount(acc), nil
	}
	return nil, nil
}

// WaitForAccount never blocks: it times out at once if the ledger does not match.
func (m *MockClient) WaitForAccount(
	_ context.Context, addr *address.Address, filter client.AccountFilter, _ time.Duration,
) (*types.Account, error) {
	m.WaitCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.WaitErr != nil {
		return nil, m.WaitErr
	}
	acc := m.Account(addr)
	if !filter.Match(acc) {
		return nil, concurrent.ErrWaitTimeout
	}
	return copyAccount(acc), nil
}

func (m *MockClient) RunLocal(_ context.Context, _ *client.RunLocalParams) (map[string]any, error) {
	m.RunCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.RunResult, nil
}

func (m *MockClient) Ping(context.Context) error {
	return m.Err
}

func (m *MockClient) Close() {}

func copyAccount(acc *types.Account) *types.Account {
	res := *acc
	if acc.Balance != nil {
		res.Balance = new(big.Int).Set(acc.Balance)
	}
	return &res
}
