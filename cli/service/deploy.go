package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/contract"
	"github.com/tonkit/tonkit/contracts"
	"github.com/tonkit/tonkit/core/types"
)

var ErrNotAGiver = errors.New("contract cannot be used as a giver")

type DeployStatus int

const (
	DeployStatusDeployed DeployStatus = iota
	// DeployStatusUnconfirmed means the deploy message was sent but no transaction followed in time.
	DeployStatusUnconfirmed
	DeployStatusAlreadyDeployed
	DeployStatusNotEnoughBalance
	DeployStatusFrozen
	DeployStatusNonExist
)

func (s DeployStatus) String() string {
	switch s {
	case DeployStatusDeployed:
		return "deployed"
	case DeployStatusUnconfirmed:
		return "unconfirmed"
	case DeployStatusAlreadyDeployed:
		return "already deployed"
	case DeployStatusNotEnoughBalance:
		return "not enough balance"
	case DeployStatusFrozen:
		return "frozen"
	case DeployStatusNonExist:
		return "non exist"
	}
	return fmt.Sprintf("DeployStatus(%d)", int(s))
}

type DeployParams struct {
	Sample *contracts.Sample
	Keys   *types.KeyPair
	Image  *types.CodeImage
	// RequiredForDeployment is the balance, in tons, the account needs before deploy.
	RequiredForDeployment decimal.Decimal
	// Params are the constructor parameters, sample defaults apply to missing ones.
	Params map[string]any
}

// GiverParams identifies the contract funding a deploy.
type GiverParams struct {
	Sample *contracts.Sample
	Keys   *types.KeyPair
	Image  *types.CodeImage
}

// Deploy deploys a contract whose account was funded beforehand.
func (s *Service) Deploy(ctx context.Context, p DeployParams) (DeployStatus, error) {
	inst := p.Sample.New(s.client, s.net.Timeout, p.Keys, p.Image)
	c := inst.Session()

	s.printer.Network(s.net.URL)
	if err := s.printer.Account(ctx, c); err != nil {
		return 0, err
	}

	accType, err := c.AccountType(ctx)
	if err != nil {
		return 0, err
	}
	if accType == types.AccountNotFound {
		s.printer.Print(printer.Red(NotEnoughBalance))
		return DeployStatusNotEnoughBalance, nil
	}
	if status, done := s.checkDeployable(accType); done {
		return status, nil
	}

	balance, err := balanceOf(ctx, c)
	if err != nil {
		return 0, err
	}
	if !s.enough(balance, p.RequiredForDeployment) {
		s.printer.Print(printer.Red(NotEnoughBalance))
		return DeployStatusNotEnoughBalance, nil
	}

	return s.deploy(ctx, p, inst, c)
}

// DeployWithGiver deploys a contract, topping up its account from the giver first if needed.
func (s *Service) DeployWithGiver(ctx context.Context, p DeployParams, g GiverParams) (DeployStatus, error) {
	if g.Sample.Give == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotAGiver, g.Sample.Name)
	}
	giverInst := g.Sample.New(s.client, s.net.Timeout, g.Keys, g.Image)
	giver := giverInst.Session()
	inst := p.Sample.New(s.client, s.net.Timeout, p.Keys, p.Image)
	c := inst.Session()

	s.printer.Network(s.net.URL)
	if err := s.printAccounts(ctx, giver, c); err != nil {
		return 0, err
	}

	accType, err := c.AccountType(ctx)
	if err != nil {
		return 0, err
	}
	if status, done := s.checkDeployable(accType); done {
		return status, nil
	}

	balance, err := balanceOf(ctx, c)
	if err != nil {
		return 0, err
	}
	if !s.enough(balance, p.RequiredForDeployment) {
		giverBalance, err := balanceOf(ctx, giver)
		if err != nil {
			return 0, err
		}
		need := new(big.Int).Sub(ToNano(p.RequiredForDeployment), balance)
		needOnGiver := new(big.Int).Add(need, ToNano(s.net.TransactionFee))
		if giverBalance.Cmp(needOnGiver) < 0 {
			s.printer.Print(printer.Red(NotEnoughBalance))
			return DeployStatusNotEnoughBalance, nil
		}

		s.printer.Print(Sending)
		addr, err := c.Address(ctx)
		if err != nil {
			return 0, err
		}
		s.logger.Info().
			Str(logging.FieldAddress, addr.StringRaw()).
			Stringer(logging.FieldAccountBalance, need).
			Msg("Topping up from giver")
		if err := g.Sample.Give(ctx, giverInst, addr, need); err != nil {
			return 0, fmt.Errorf("giver %s: %w", g.Sample.Name, err)
		}
		if !c.WaitForTransaction(ctx, 0) {
			s.logger.Warn().Str(logging.FieldAddress, addr.StringRaw()).Msg("No transaction after top up")
		}
		s.printer.Print(printer.Green(Sent))
		s.printer.Print()
		if err := s.printAccounts(ctx, giver, c); err != nil {
			return 0, err
		}
	}

	return s.deploy(ctx, p, inst, c, giver)
}

// checkDeployable reports the terminal states that stop a deploy.
func (s *Service) checkDeployable(accType types.AccountType) (DeployStatus, bool) {
	switch accType {
	case types.AccountActive:
		s.printer.Print(printer.Green(AlreadyDeployed))
		return DeployStatusAlreadyDeployed, true
	case types.AccountFrozen:
		s.printer.Print(printer.Red(AccountFrozen))
		return DeployStatusFrozen, true
	case types.AccountNonExist:
		s.printer.Print(printer.Red(AccountNonExist))
		return DeployStatusNonExist, true
	}
	return 0, false
}

// enough reports whether balance covers required minus the network tolerance.
func (s *Service) enough(balance *big.Int, required decimal.Decimal) bool {
	threshold := ToNano(required.Sub(s.net.Tolerance))
	return balance.Cmp(threshold) >= 0
}

func (s *Service) deploy(
	ctx context.Context, p DeployParams, inst contracts.Instance, c *contract.Contract, others ...*contract.Contract,
) (DeployStatus, error) {
	s.printer.Print(Deploying)
	ok, err := p.Sample.Deploy(ctx, inst, p.Params)
	if err != nil {
		s.logger.Error().Err(err).Str(logging.FieldContract, c.Name()).Msg("Deploy failed")
		return 0, err
	}

	status := DeployStatusDeployed
	if ok {
		s.printer.Print(printer.Green(Deployed))
	} else {
		status = DeployStatusUnconfirmed
		s.printer.Print(printer.Yellow(NotConfirmed))
	}
	s.printer.Print()

	if err := s.printAccounts(ctx, append(others, c)...); err != nil {
		return 0, err
	}
	return status, nil
}

func (s *Service) printAccounts(ctx context.Context, cs ...*contract.Contract) error {
	for _, c := range cs {
		if err := s.printer.Account(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
