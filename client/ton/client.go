package ton

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	tonlib "github.com/xssnick/tonutils-go/ton"
)

const (
	DefaultPollInterval   = time.Second
	DefaultMessageTimeout = time.Minute
	DefaultRetries        = 3
)

type Config struct {
	// URL is a global config URL (http or https), a path to a global config file,
	// or the "host:port" of a single liteserver.
	URL string
	// ServerKey is the base64 public key of the liteserver when URL is "host:port".
	ServerKey string
	// ProofCheck is one of "secure", "fast" or "unsafe".
	ProofCheck     string
	Retries        int
	PollInterval   time.Duration
	MessageTimeout time.Duration
	Timer          common.Timer
}

// liteAPI is the part of the tonutils API client used here.
type liteAPI interface {
	CurrentMasterchainInfo(ctx context.Context) (*tonlib.BlockIDExt, error)
	GetAccount(ctx context.Context, block *tonlib.BlockIDExt, addr *address.Address) (*tlb.Account, error)
	SendExternalMessage(ctx context.Context, msg *tlb.ExternalMessage) error
	RunGetMethod(ctx context.Context, block *tonlib.BlockIDExt, addr *address.Address, method string, params ...any) (*tonlib.ExecutionResult, error)
	ListTransactions(ctx context.Context, addr *address.Address, num uint32, lt uint64, txHash []byte) ([]*tlb.Transaction, error)
}

// Client talks to the network through a pool of liteserver connections.
type Client struct {
	api    liteAPI
	pool   *liteclient.ConnectionPool
	cfg    Config
	logger zerolog.Logger
}

var _ client.Client = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	policy, err := proofCheckPolicy(cfg.ProofCheck)
	if err != nil {
		return nil, err
	}

	pool := liteclient.NewConnectionPool()
	switch {
	case strings.HasPrefix(cfg.URL, "http://") || strings.HasPrefix(cfg.URL, "https://"):
		err = pool.AddConnectionsFromConfigUrl(ctx, cfg.URL)
	case strings.HasSuffix(cfg.URL, ".json"):
		var global *liteclient.GlobalConfig
		if global, err = liteclient.GetConfigFromFile(os.ExpandEnv(cfg.URL)); err == nil {
			err = pool.AddConnectionsFromConfig(ctx, global)
		}
	default:
		err = pool.AddConnection(ctx, cfg.URL, cfg.ServerKey)
	}
	if err != nil {
		pool.Stop()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, err)
	}

	retries := cfg.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}
	c := newClient(tonlib.NewAPIClient(pool, policy).WithRetry(retries), cfg)
	c.pool = pool
	return c, nil
}

func newClient(api liteAPI, cfg Config) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MessageTimeout <= 0 {
		cfg.MessageTimeout = DefaultMessageTimeout
	}
	if cfg.Timer == nil {
		cfg.Timer = common.NewTimer()
	}
	return &Client{
		api:    api,
		cfg:    cfg,
		logger: logging.NewLogger("tonClient").With().Str(logging.FieldUrl, cfg.URL).Logger(),
	}
}

func proofCheckPolicy(name string) (tonlib.ProofCheckPolicy, error) {
	switch name {
	case "", "secure":
		return tonlib.ProofCheckPolicySecure, nil
	case "fast":
		return tonlib.ProofCheckPolicyFast, nil
	case "unsafe":
		return tonlib.ProofCheckPolicyUnsafe, nil
	}
	return tonlib.ProofCheckPolicySecure, fmt.Errorf("unknown proof check policy %q", name)
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.CurrentMasterchainInfo(ctx)
	return err
}

func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Stop()
	}
}
