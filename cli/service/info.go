package service

import (
	"context"

	"github.com/tonkit/tonkit/contracts"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
)

type InfoParams struct {
	Sample *contracts.Sample
	Keys   *types.KeyPair
	Image  *types.CodeImage
}

// Info prints the network and the account of a sample contract.
func (s *Service) Info(ctx context.Context, p InfoParams) error {
	c := p.Sample.New(s.client, s.net.Timeout, p.Keys, p.Image).Session()
	s.printer.Network(s.net.URL)
	return s.printer.Account(ctx, c)
}

// Address computes the address of a sample contract without touching its account.
func (s *Service) Address(ctx context.Context, p InfoParams) (*address.Address, error) {
	return p.Sample.New(s.client, s.net.Timeout, p.Keys, p.Image).Session().Address(ctx)
}
