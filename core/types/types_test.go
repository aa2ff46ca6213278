package types

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Not found", AccountNotFound.String())
	assert.Equal(t, "Un init", AccountUninit.String())
	assert.Equal(t, "Active", AccountActive.String())
	assert.Equal(t, "Frozen", AccountFrozen.String())
	assert.Equal(t, "Non exist", AccountNonExist.String())
	assert.Equal(t, "Unknown(7)", AccountType(7).String())
}

func TestCreateKeyPairOrRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "owner.json")

	created, err := CreateKeyPairOrRead(path)
	require.NoError(t, err)
	require.NoError(t, created.Validate())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(keyFileMode), info.Mode().Perm())

	read, err := CreateKeyPairOrRead(path)
	require.NoError(t, err)
	assert.Equal(t, created, read)
}

func TestKeyPairFromSecret(t *testing.T) {
	t.Parallel()

	k, err := KeyPairFromSecret("0x" + "01" + "00000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	require.NoError(t, k.Validate())
	assert.Len(t, k.Public, 64)

	_, err = KeyPairFromSecret("abcd")
	require.ErrorIs(t, err, ErrInvalidKey)

	broken := *k
	broken.Public = "00" + k.Public[2:]
	if broken.Public == k.Public {
		broken.Public = "ff" + k.Public[2:]
	}
	require.ErrorIs(t, broken.Validate(), ErrInvalidKey)
}

func TestReadKeyPairMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := ReadKeyPair(path)
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = CreateKeyPairOrRead(path)
	require.Error(t, err)
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	v, err := ParseValue("1_000_000_000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000", v.String())
	assert.False(t, v.IsZero())

	_, err = ParseValue("-5")
	require.Error(t, err)
	_, err = ParseValue("1" + strings.Repeat("0", 80))
	require.Error(t, err, "values above 256 bits should be rejected")
	assert.Equal(t, int64(1_000_000_000), v.ToBig().Int64())

	assert.True(t, Value{}.IsZero())
}
