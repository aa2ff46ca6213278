package printer

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonkit/tonkit/client/mock"
	"github.com/tonkit/tonkit/contract"
	"github.com/tonkit/tonkit/core/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatBalance(t *testing.T) {
	t.Parallel()

	p := New(&bytes.Buffer{}, "en")

	for balance, expected := range map[string]string{
		"0x0":                "0",
		"0x3b9aca00":         "1",
		"0x4563918243faa410": "4,999,999,999.983658",
		"0x1":                "0.000000001",
	} {
		formatted, err := p.FormatBalance(balance)
		require.NoError(t, err, balance)
		assert.Equal(t, expected, formatted, balance)
	}

	_, err := p.FormatBalance("12")
	require.Error(t, err)
}

func TestAccount(t *testing.T) {
	t.Parallel()

	m := mock.NewMockClient()
	m.SetAccount(&types.Account{Address: m.Address, Type: types.AccountActive, Balance: big.NewInt(2_500_000_000)})
	c := contract.New(m, 0, contract.Config{Name: "SafeMultisigWallet", Address: m.Address})

	out := &bytes.Buffer{}
	p := New(out, "")
	require.NoError(t, p.Account(context.Background(), c))

	assert.Equal(t,
		"SafeMultisigWallet\n"+m.Address.StringRaw()+"   2.5   Active\n\n",
		out.String())
}

func TestAccountError(t *testing.T) {
	t.Parallel()

	m := mock.NewMockClient()
	m.Err = errors.New("RPC error")
	c := contract.New(m, 0, contract.Config{Address: m.Address})

	out := &bytes.Buffer{}
	require.Error(t, New(out, "en").Account(context.Background(), c))
	assert.Empty(t, out.String())
}

func TestNetwork(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	New(out, "en").Network("http://localhost")
	assert.Equal(t, "http://localhost\n\n", out.String())
}
