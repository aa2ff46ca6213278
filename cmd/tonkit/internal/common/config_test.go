package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTemplate(t *testing.T) (*Config, string) {
	t.Helper()

	viper.Reset()
	path, err := InitDefaultConfig(filepath.Join(t.TempDir(), "conf", "tonkit.yaml"))
	require.NoError(t, err)
	SetConfigFile(path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg, path
}

func TestLoadConfig(t *testing.T) {
	cfg, path := loadTemplate(t)
	dir := filepath.Dir(path)

	t.Setenv(NetEnv, "")
	name, net, err := cfg.Network("")
	require.NoError(t, err)
	assert.Equal(t, "local", name)
	assert.Equal(t, 30*time.Second, net.Timeout)
	assert.True(t, decimal.RequireFromString("0.02").Equal(net.TransactionFee))
	assert.True(t, decimal.RequireFromString("0.000001").Equal(net.Tolerance))

	assert.True(t, decimal.RequireFromString("0.03").Equal(cfg.Required("SafeMultisigWallet")))
	assert.True(t, cfg.Required("Unknown").IsZero())

	keyFile, err := cfg.KeyFile("SafeMultisigWallet")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "keys/SafeMultisigWallet.keys.json"), keyFile)

	giverFile, err := cfg.GiverKeyFile(net)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "keys/GiverV2.se.keys.json"), giverFile)

	image, err := cfg.Artifact("giverv2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "contracts/GiverV2.tvc"), image)

	_, err = cfg.KeyFile("Wallet")
	require.ErrorIs(t, err, ErrUnknownKeyName)
	_, err = cfg.Artifact("Wallet")
	require.ErrorIs(t, err, ErrUnknownArtifact)

	assert.Equal(t, []string{"example"}, cfg.Copy.Words)
	assert.Equal(t, "docker", cfg.Node.Command)
	assert.Equal(t, 1, cfg.Make.Jobs)
}

// TestTemplateLocalNode checks that "up" waits for the network the template deploys to
func TestTemplateLocalNode(t *testing.T) {
	cfg, _ := loadTemplate(t)

	t.Setenv(NetEnv, "")
	_, net, err := cfg.Network("")
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Node.Command)
	require.NotEmpty(t, cfg.Node.Args)
	assert.Equal(t, cfg.Node.ConfigURL, net.URL, "default network should be the local node")
	assert.Empty(t, net.ServerKey, "liteserver keys come from the global config")

	nodeNet, err := cfg.NodeNetwork(net)
	require.NoError(t, err)
	assert.Equal(t, net, nodeNet)

	_, testnet, err := cfg.Network("testnet")
	require.NoError(t, err)
	nodeNet, err = cfg.NodeNetwork(testnet)
	require.NoError(t, err)
	assert.Equal(t, cfg.Node.ConfigURL, nodeNet.URL)
	assert.Equal(t, testnet.Timeout, nodeNet.Timeout)

	cfg.Node.ConfigURL = ""
	_, err = cfg.NodeNetwork(net)
	require.ErrorIs(t, err, ErrNoNodeConfigURL)
}

func TestNetworkSelection(t *testing.T) {
	cfg, _ := loadTemplate(t)

	t.Setenv(NetEnv, "testnet")
	name, net, err := cfg.Network("")
	require.NoError(t, err, "NET should select the network")
	assert.Equal(t, "testnet", name)
	assert.Equal(t, time.Minute, net.Timeout)

	name, _, err = cfg.Network("LOCAL")
	require.NoError(t, err, "the flag should win over NET")
	assert.Equal(t, "local", name)

	_, _, err = cfg.Network("mainnet")
	require.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestPatchConfig(t *testing.T) {
	_, path := loadTemplate(t)

	require.Error(t, PatchConfig(map[string]any{DefaultNetField: "testnet"}, false),
		"existing values should be kept without force")
	require.NoError(t, PatchConfig(map[string]any{DefaultNetField: "testnet"}, true))

	viper.Reset()
	SetConfigFile(path)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.DefaultNet)
}

func TestInitDefaultConfigExists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tonkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: en\n"), 0o644))

	_, err := InitDefaultConfig(path)
	require.ErrorIs(t, err, os.ErrExist)
}

func TestIsSupportedOption(t *testing.T) {
	t.Parallel()

	for key, supported := range map[string]bool{
		"default_net":             true,
		"locale":                  true,
		"net.local.url":           true,
		"net.local":               false,
		"keys.GiverV2":            true,
		"artifacts.Wallet":        true,
		"node.config_url":         true,
		"private_key":             false,
		"giver_keys.se.extra":     false,
		"required_for_deployment": false,
	} {
		assert.Equal(t, supported, IsSupportedOption(key), key)
	}
}
