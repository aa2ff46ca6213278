package hexutil

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestX0(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x123", X0("123"))
	assert.Equal(t, "0x123", X0("0x123"))
	assert.Equal(t, "0X1", X0("0X1"))
	assert.Equal(t, "0x", X0(""))
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "58595a313233", String("XYZ123"))
	assert.Equal(t, "0a", String("\n"), "single digit codes should be padded")
	assert.Equal(t, "d0af", String("Я"))
	assert.Equal(t, []string{"58595a313233", "414243343536"}, Strings([]string{"XYZ123", "ABC456"}))
	assert.Empty(t, Strings(nil))
}

func TestNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x3b9aca00", Number(1_000_000_000))
	assert.Equal(t, "0x0", Number(0))
	assert.Equal(t, "0x3b9aca00", Big(big.NewInt(1_000_000_000)))
}

func TestAbi(t *testing.T) {
	t.Parallel()

	res, err := Abi(map[string]any{"ABI version": 2})
	require.NoError(t, err)
	assert.Equal(t, String(`{"ABI version":2}`), res)

	_, err = Abi(func() {})
	require.Error(t, err)
}
