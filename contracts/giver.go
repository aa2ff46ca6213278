package contracts

import (
	"context"
	"math/big"
	"time"

	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/contract"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

const GiverV2Name = "GiverV2"

// GiverV2 is the faucet contract of local and test networks.
type GiverV2 struct {
	*contract.Contract
}

type GiverSendTransactionIn struct {
	Dest  *address.Address
	Value *big.Int
	// Bounce returns the funds if the destination fails to process them.
	Bounce bool
}

func NewGiverV2(c client.Client, timeout time.Duration, keys *types.KeyPair, image *types.CodeImage) *GiverV2 {
	return &GiverV2{contract.New(c, timeout, contract.Config{
		Name:  GiverV2Name,
		Abi:   mustGetAbi(GiverV2Name),
		Keys:  keys,
		Image: image,
	})}
}

func (g *GiverV2) Session() *contract.Contract {
	return g.Contract
}

func (g *GiverV2) Deploy(ctx context.Context) (bool, error) {
	return g.Contract.Deploy(ctx, nil)
}

func (g *GiverV2) SendTransaction(ctx context.Context, in GiverSendTransactionIn, keys *types.KeyPair) (*client.ProcessResult, error) {
	return g.Call(ctx, "sendTransaction", map[string]any{
		"dest":   in.Dest,
		"value":  in.Value,
		"bounce": in.Bounce,
	}, keys)
}

// Upgrade replaces the giver code.
func (g *GiverV2) Upgrade(ctx context.Context, code *cell.Cell, keys *types.KeyPair) (*client.ProcessResult, error) {
	return g.Call(ctx, "upgrade", map[string]any{"newcode": code}, keys)
}
