package ton

import (
	"context"
	"fmt"
	"time"

	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/concurrent"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
)

func (c *Client) GetAccount(ctx context.Context, addr *address.Address) (*types.Account, error) {
	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get masterchain info: %w", err)
	}
	acc, err := c.api.GetAccount(ctx, block, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", addr.StringRaw(), err)
	}
	return accountFromState(addr, acc), nil
}

func (c *Client) WaitForAccount(
	ctx context.Context, addr *address.Address, filter client.AccountFilter, timeout time.Duration,
) (*types.Account, error) {
	return concurrent.WaitFor(ctx, timeout, c.cfg.PollInterval, func(ctx context.Context) (*types.Account, error) {
		acc, err := c.GetAccount(ctx, addr)
		if err != nil {
			// the liteserver may lag behind; keep polling until the timeout
			c.logger.Debug().Err(err).Str(logging.FieldAddress, addr.StringRaw()).Msg("Account query failed")
			return nil, nil
		}
		if !filter.Match(acc) {
			return nil, nil
		}
		return acc, nil
	})
}

func accountFromState(addr *address.Address, acc *tlb.Account) *types.Account {
	if acc == nil || !acc.IsActive || acc.State == nil || !acc.State.IsValid {
		return nil
	}

	res := &types.Account{
		Address:    addr,
		Balance:    acc.State.Balance.Nano(),
		LastTxLT:   acc.LastTxLT,
		LastTxHash: acc.LastTxHash,
		HasCode:    acc.Code != nil,
		HasData:    acc.Data != nil,
	}
	switch acc.State.Status {
	case tlb.AccountStatusActive:
		res.Type = types.AccountActive
	case tlb.AccountStatusUninit:
		res.Type = types.AccountUninit
	case tlb.AccountStatusFrozen:
		res.Type = types.AccountFrozen
	default:
		res.Type = types.AccountNonExist
	}
	return res
}
