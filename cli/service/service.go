package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/contract"
)

// Network describes the network the runners work against.
type Network struct {
	Name    string
	URL     string
	Timeout time.Duration
	// TransactionFee is kept on the giver on top of the amount it sends, in tons.
	TransactionFee decimal.Decimal
	// Tolerance is the balance shortfall, in tons, still accepted for deploy.
	Tolerance decimal.Decimal
}

type Service struct {
	client  client.Client
	printer *printer.Printer
	net     Network
	exec    Executor
	logger  zerolog.Logger
}

// NewService initializes a new Service with the given client
func NewService(c client.Client, p *printer.Printer, net Network) *Service {
	if net.Timeout <= 0 {
		net.Timeout = contract.DefaultTimeout
	}
	return &Service{
		client:  c,
		printer: p,
		net:     net,
		exec:    NewCommandExecutor(),
		logger: logging.NewLogger("cliService").With().
			Str(logging.FieldNetwork, net.Name).
			Logger(),
	}
}

// WithExecutor replaces the runner of external tools.
func (s *Service) WithExecutor(e Executor) *Service {
	s.exec = e
	return s
}

func (s *Service) Network() Network {
	return s.net
}

// ToNano converts an amount of tons to nanotons, dropping what is below one nanoton.
func ToNano(tons decimal.Decimal) *big.Int {
	return tons.Shift(9).BigInt()
}

func balanceOf(ctx context.Context, c *contract.Contract) (*big.Int, error) {
	balance, err := c.Balance(ctx)
	if err != nil {
		return nil, err
	}
	return hexutil.DecodeBig(balance)
}
