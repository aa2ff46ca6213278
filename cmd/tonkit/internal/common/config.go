package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tonkit/tonkit/common/check"
)

var (
	ErrUnknownNetwork  = errors.New("UNKNOWN NETWORK")
	ErrUnknownKeyName  = errors.New("unknown key name")
	ErrUnknownArtifact = errors.New("unknown code image")
	ErrNoNodeConfigURL = errors.New("node.config_url is not set")
)

// NetEnv selects the network when the --net flag is not given.
const NetEnv = "NET"

type NetConfig struct {
	URL string `mapstructure:"url"`
	// ServerKey is the liteserver key when URL is "host:port".
	ServerKey      string          `mapstructure:"server_key"`
	ProofCheck     string          `mapstructure:"proof_check"`
	Timeout        time.Duration   `mapstructure:"timeout"`
	TransactionFee decimal.Decimal `mapstructure:"transaction_fee"`
	Tolerance      decimal.Decimal `mapstructure:"tolerance"`
	// Giver names the entry of giver_keys used on this network.
	Giver string `mapstructure:"giver"`
}

type NodeConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	// ConfigURL is the global config served by the started network.
	ConfigURL string `mapstructure:"config_url"`
}

type MakeConfig struct {
	Command  string   `mapstructure:"command"`
	Root     string   `mapstructure:"root"`
	Compile  []string `mapstructure:"compile"`
	Wrap     []string `mapstructure:"wrap"`
	Compiler string   `mapstructure:"compiler"`
	Linker   string   `mapstructure:"linker"`
	Stdlib   string   `mapstructure:"stdlib"`
	Package  string   `mapstructure:"package"`
	Jobs     int      `mapstructure:"jobs"`
}

type CopyConfig struct {
	Source []string `mapstructure:"source"`
	Words  []string `mapstructure:"words"`
}

type Config struct {
	DefaultNet string               `mapstructure:"default_net"`
	Locale     string               `mapstructure:"locale"`
	Net        map[string]NetConfig `mapstructure:"net"`
	// Keys maps contract names to key files.
	Keys      map[string]string `mapstructure:"keys"`
	GiverKeys map[string]string `mapstructure:"giver_keys"`
	// Artifacts maps contract names to code image files.
	Artifacts             map[string]string          `mapstructure:"artifacts"`
	RequiredForDeployment map[string]decimal.Decimal `mapstructure:"required_for_deployment"`
	Node                  NodeConfig                 `mapstructure:"node"`
	Make                  MakeConfig                 `mapstructure:"make"`
	Copy                  CopyConfig                 `mapstructure:"copy"`
}

const (
	DefaultNetField = "default_net"
	LocaleField     = "locale"
)

// Config keys are matched case-insensitively since viper lowercases them.
func lookup[V any](m map[string]V, name string) (V, bool) {
	v, ok := m[strings.ToLower(name)]
	return v, ok
}

// Network picks the network by flag, then by the NET environment variable, then by default_net.
func (c *Config) Network(flag string) (string, NetConfig, error) {
	name := flag
	if name == "" {
		name = os.Getenv(NetEnv)
	}
	if name == "" {
		name = c.DefaultNet
	}
	net, ok := lookup(c.Net, name)
	if !ok {
		return name, NetConfig{}, fmt.Errorf("%w %q", ErrUnknownNetwork, name)
	}
	return strings.ToLower(name), net, nil
}

func (c *Config) KeyFile(contract string) (string, error) {
	file, ok := lookup(c.Keys, contract)
	if !ok || file == "" {
		return "", fmt.Errorf("%w %q", ErrUnknownKeyName, contract)
	}
	return file, nil
}

func (c *Config) GiverKeyFile(net NetConfig) (string, error) {
	file, ok := lookup(c.GiverKeys, net.Giver)
	if !ok || file == "" {
		return "", fmt.Errorf("%w %q", ErrUnknownKeyName, net.Giver)
	}
	return file, nil
}

func (c *Config) Artifact(contract string) (string, error) {
	file, ok := lookup(c.Artifacts, contract)
	if !ok || file == "" {
		return "", fmt.Errorf("%w for %q", ErrUnknownArtifact, contract)
	}
	return file, nil
}

// NodeNetwork returns net pointed at the global config of the local node.
func (c *Config) NodeNetwork(net NetConfig) (NetConfig, error) {
	if c.Node.ConfigURL == "" {
		return NetConfig{}, ErrNoNodeConfigURL
	}
	net.URL = c.Node.ConfigURL
	net.ServerKey = ""
	return net, nil
}

// Required is the balance a contract needs for deploy, zero if not configured.
func (c *Config) Required(contract string) decimal.Decimal {
	v, _ := lookup(c.RequiredForDeployment, contract)
	return v
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decodeDecimal(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(strings.ReplaceAll(v, "_", ""))
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return data, nil
}

func UpdateDecoderConfig(config *mapstructure.DecoderConfig) {
	config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		config.DecodeHook,
		decodeDecimal,
	)
}

// LoadConfig reads the config file chosen by SetConfigFile.
func LoadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := viper.Unmarshal(cfg, UpdateDecoderConfig); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.resolvePaths(filepath.Dir(viper.ConfigFileUsed()))
	return cfg, nil
}

// resolvePaths makes relative file paths relative to the config file.
func (c *Config) resolvePaths(dir string) {
	for _, m := range []map[string]string{c.Keys, c.GiverKeys, c.Artifacts} {
		for k, v := range m {
			m[k] = resolve(dir, v)
		}
	}
	if c.Make.Root != "" {
		c.Make.Root = resolve(dir, c.Make.Root)
	}
	for i, src := range c.Copy.Source {
		c.Copy.Source[i] = resolve(dir, src)
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "~") {
		return path
	}
	return filepath.Join(dir, path)
}

const InitConfigTemplate = `---
# Configuration of tonkit

# Network used when neither --net nor the NET environment variable is set
default_net: local

# Locale of the numbers in the output
locale: en

net:
  local:
    # Global config URL or file, or "host:port" of a single liteserver with server_key
    url: "http://127.0.0.1:8000/localhost.global.config.json"
    # secure, fast or unsafe
    proof_check: unsafe
    timeout: 30s
    transaction_fee: "0.02"
    tolerance: "0.000001"
    giver: se
  testnet:
    url: "https://ton.org/testnet-global.config.json"
    timeout: 1m
    transaction_fee: "0.02"
    tolerance: "0.000001"
    giver: dev

# Key files of the contracts, created on first use
keys:
  GiverV2: keys/GiverV2.keys.json
  SafeMultisigWallet: keys/SafeMultisigWallet.keys.json

# Key files of the givers, selected by net.<name>.giver
giver_keys:
  se: keys/GiverV2.se.keys.json
  dev: keys/GiverV2.keys.json

# Code images of the contracts
artifacts:
  GiverV2: contracts/GiverV2.tvc
  SafeMultisigWallet: contracts/SafeMultisigWallet.tvc

# Balance in tons an account needs before deploy
required_for_deployment:
  GiverV2: "1"
  SafeMultisigWallet: "0.03"

# Local network started by "tonkit up"
node:
  command: docker
  args: [run, --detach, --name, tonkit-node, -p, "8000:8000", -p, "40004:40004", "ghcr.io/neodix42/mylocalton-docker:latest"]
  # Global config served by the local network, "up" waits until its liteservers answer
  config_url: "http://127.0.0.1:8000/localhost.global.config.json"

make:
  command: everdev
  root: .
  compile: []
  wrap: []
  package: contracts
  jobs: 1

copy:
  # Glob patterns as in filepath.Match, "**" is not supported
  source: ["./*"]
  words: [example]
`

var DefaultConfigPath string

func init() {
	homeDir, err := os.UserHomeDir()
	check.PanicIfErr(err)

	DefaultConfigPath = filepath.Join(homeDir, ".config/tonkit/config.yaml")
}

func InitDefaultConfig(configPath string) (string, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	dirPath := filepath.Dir(configPath)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(InitConfigTemplate); err != nil {
		return "", fmt.Errorf("failed to write template to config file: %w", err)
	}
	return configPath, nil
}

// IsSupportedOption reports whether key can be changed with "config set".
func IsSupportedOption(key string) bool {
	switch key {
	case DefaultNetField, LocaleField:
		return true
	}
	parts := strings.Split(key, ".")
	switch parts[0] {
	case "keys", "giver_keys", "artifacts", "required_for_deployment":
		return len(parts) == 2
	case "net":
		return len(parts) == 3
	case "node", "make":
		return len(parts) == 2
	}
	return false
}

func PatchConfig(delta map[string]any, force bool) error {
	for key, value := range delta {
		oldValue := viper.GetString(key)
		if !force && oldValue != "" && oldValue != value {
			return fmt.Errorf("key %q already exists in the config file", key)
		}
		viper.Set(key, value)
	}
	return viper.WriteConfig()
}

// LocalConfigFile is preferred over DefaultConfigPath when it exists in the working directory.
const LocalConfigFile = "tonkit.yaml"

// ConfigPath returns cfgFile, or the default config file if it is empty.
func ConfigPath(cfgFile string) string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}
	return DefaultConfigPath
}

// SetConfigFile sets the config file for the viper
func SetConfigFile(cfgFile string) {
	viper.SetConfigFile(ConfigPath(cfgFile))
	viper.SetConfigType("yaml")
}
