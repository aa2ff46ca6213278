package common

import (
	"context"
	"io"
	"os"

	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/cli/service"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/client/ton"
	"github.com/tonkit/tonkit/contracts"
	"github.com/tonkit/tonkit/core/types"
)

var (
	// Quiet suppresses the progress output of the runners.
	Quiet = false
	// NetName is the value of the --net flag.
	NetName string
)

func ClientConfig(net NetConfig) ton.Config {
	return ton.Config{
		URL:            net.URL,
		ServerKey:      net.ServerKey,
		ProofCheck:     net.ProofCheck,
		MessageTimeout: net.Timeout,
	}
}

func Dial(net NetConfig) service.Dialer {
	return func(ctx context.Context) (client.Client, error) {
		return ton.NewClient(ctx, ClientConfig(net))
	}
}

func NewPrinter(cfg *Config) *printer.Printer {
	var out io.Writer = os.Stdout
	if Quiet {
		out = io.Discard
	}
	return printer.New(out, cfg.Locale)
}

func NewService(c client.Client, cfg *Config, name string, net NetConfig) *service.Service {
	return service.NewService(c, NewPrinter(cfg), service.Network{
		Name:           name,
		URL:            net.URL,
		Timeout:        net.Timeout,
		TransactionFee: net.TransactionFee,
		Tolerance:      net.Tolerance,
	})
}

type Connection struct {
	Service *service.Service
	Client  client.Client
	Net     NetConfig
}

func (c *Connection) Close() {
	c.Client.Close()
}

// Connect selects the network and returns a service bound to it.
func Connect(ctx context.Context, cfg *Config, netFlag string) (*Connection, error) {
	name, net, err := cfg.Network(netFlag)
	if err != nil {
		return nil, err
	}
	c, err := Dial(net)(ctx)
	if err != nil {
		return nil, err
	}
	return &Connection{Service: NewService(c, cfg, name, net), Client: c, Net: net}, nil
}

// SampleMaterial is everything needed to bind a sample contract: its keys and its code image.
type SampleMaterial struct {
	Sample *contracts.Sample
	Keys   *types.KeyPair
	Image  *types.CodeImage
}

// LoadSample resolves a sample by name with its key file (created if missing) and code image.
func LoadSample(s *service.Service, cfg *Config, name string) (*SampleMaterial, error) {
	sample, err := contracts.Lookup(name)
	if err != nil {
		return nil, err
	}
	keyFile, err := cfg.KeyFile(sample.Name)
	if err != nil {
		return nil, err
	}
	return loadMaterial(s, cfg, sample, keyFile)
}

// LoadGiver resolves the giver of the network.
func LoadGiver(s *service.Service, cfg *Config, net NetConfig) (*SampleMaterial, error) {
	sample, err := contracts.Lookup(contracts.GiverV2Name)
	if err != nil {
		return nil, err
	}
	keyFile, err := cfg.GiverKeyFile(net)
	if err != nil {
		return nil, err
	}
	return loadMaterial(s, cfg, sample, keyFile)
}

func loadMaterial(s *service.Service, cfg *Config, sample *contracts.Sample, keyFile string) (*SampleMaterial, error) {
	keys, err := s.Keys(keyFile)
	if err != nil {
		return nil, err
	}
	imageFile, err := cfg.Artifact(sample.Name)
	if err != nil {
		return nil, err
	}
	image, err := types.ReadCodeImage(imageFile)
	if err != nil {
		return nil, err
	}
	return &SampleMaterial{Sample: sample, Keys: keys, Image: image}, nil
}
