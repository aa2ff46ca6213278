package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/contract"
	"github.com/tonkit/tonkit/contracts"
	"github.com/tonkit/tonkit/core/types"
)

var (
	ErrInvalidArgumentsCount = errors.New("invalid arguments count")
	ErrAccountNotActive      = errors.New("account is not active")
)

type CallParams struct {
	Sample *contracts.Sample
	Keys   *types.KeyPair
	Image  *types.CodeImage
	Method string
	// Args are positional, matched against the names the method declares.
	Args []string
}

// Call invokes a method of an active contract with an external message.
func (s *Service) Call(ctx context.Context, p CallParams) (*client.ProcessResult, error) {
	method, err := p.Sample.Method(p.Method)
	if err != nil {
		return nil, err
	}
	if len(method.Args) != len(p.Args) {
		s.printer.Print(printer.Red(InvalidArgumentsCount))
		s.printer.Print(Arguments)
		for _, name := range method.Args {
			s.printer.Print("    ", printer.Yellow(name))
		}
		return nil, fmt.Errorf("%w: %s.%s takes %d, got %d",
			ErrInvalidArgumentsCount, p.Sample.Name, p.Method, len(method.Args), len(p.Args))
	}

	inst := p.Sample.New(s.client, s.net.Timeout, p.Keys, p.Image)
	c := inst.Session()

	accType, err := c.AccountType(ctx)
	if err != nil {
		return nil, err
	}
	if accType != types.AccountActive {
		s.printer.Network(s.net.URL)
		if err := s.printer.Account(ctx, c); err != nil {
			return nil, err
		}
		s.printer.Print(printer.Red(AccountIsNotActive))
		return nil, fmt.Errorf("%w: %s is %s", ErrAccountNotActive, c.Name(), accType)
	}

	args := make(map[string]string, len(method.Args))
	for i, name := range method.Args {
		args[name] = p.Args[i]
	}

	accounts := []*contract.Contract{c}
	if method.Target != "" {
		target, err := abi.ParseAddress(args[method.Target])
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", method.Target, args[method.Target], err)
		}
		accounts = append(accounts, contract.New(s.client, s.net.Timeout, contract.Config{
			Name:    "Target",
			Address: target,
		}))
	}

	s.printer.Network(s.net.URL)
	if err := s.printAccounts(ctx, accounts...); err != nil {
		return nil, err
	}

	s.printer.Print(Calling)
	res, err := method.Run(ctx, inst, args, p.Keys)
	if err != nil {
		s.logger.Error().Err(err).
			Str(logging.FieldContract, c.Name()).
			Str(logging.FieldFunction, p.Method).
			Msg("Call failed")
		return nil, err
	}
	s.printer.Print(printer.Green(Done))
	s.printer.Print()

	s.printOutput(res)
	if err := s.printAccounts(ctx, accounts...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) printOutput(res *client.ProcessResult) {
	if res == nil || len(res.Output) == 0 {
		return
	}
	names := make([]string, 0, len(res.Output))
	for name := range res.Output {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s.printer.Print(printer.Gray("%s", name), " ", fmt.Sprint(res.Output[name]))
	}
	s.printer.Print()
}
