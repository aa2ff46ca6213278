package service

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/client/mock"
	"github.com/tonkit/tonkit/contracts"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

const testURL = "http://localhost"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type SuiteRunners struct {
	suite.Suite

	ctx    context.Context
	client *mock.MockClient
	out    *bytes.Buffer
	svc    *Service

	image       *types.CodeImage
	walletKeys  *types.KeyPair
	giverKeys   *types.KeyPair
	walletAddr  *address.Address
	giverAddr   *address.Address
	wallet      *contracts.Sample
	giver       *contracts.Sample
	targetRaw   string
	deployCalls int
}

func (s *SuiteRunners) SetupTest() {
	var err error
	s.ctx = context.Background()
	s.client = mock.NewMockClient()
	s.out = &bytes.Buffer{}
	s.svc = NewService(s.client, printer.New(s.out, "en"), Network{
		Name:           "local",
		URL:            testURL,
		TransactionFee: decimal.RequireFromString("0.02"),
		Tolerance:      decimal.RequireFromString("0.000001"),
	})

	s.image = &types.CodeImage{Code: cell.BeginCell().EndCell(), Data: cell.BeginCell().EndCell()}
	s.walletKeys, err = types.NewKeyPair()
	s.Require().NoError(err)
	s.giverKeys, err = types.NewKeyPair()
	s.Require().NoError(err)

	s.walletAddr = address.NewAddress(0, 0, bytes.Repeat([]byte{0x11}, 32))
	s.giverAddr = address.NewAddress(0, 0, bytes.Repeat([]byte{0x22}, 32))
	s.targetRaw = "0:" + strings.Repeat("33", 32)
	s.client.Addresses = map[string]*address.Address{
		s.walletKeys.Public: s.walletAddr,
		s.giverKeys.Public:  s.giverAddr,
	}

	s.wallet, err = contracts.Lookup(contracts.SafeMultisigWalletName)
	s.Require().NoError(err)
	s.giver, err = contracts.Lookup(contracts.GiverV2Name)
	s.Require().NoError(err)

	s.deployCalls = 0
	s.client.OnSend = func(m *mock.MockClient, params *client.EncodeMessageParams) {
		if params == nil || params.Deploy == nil {
			return
		}
		s.deployCalls++
		acc := m.Account(m.Addresses[params.Signer.Public])
		acc.Type = types.AccountActive
		acc.HasCode = true
		acc.LastTxLT++
	}
}

func (s *SuiteRunners) setAccount(addr *address.Address, t types.AccountType, nano int64) {
	s.client.SetAccount(&types.Account{
		Address:  addr,
		Type:     t,
		Balance:  big.NewInt(nano),
		LastTxLT: 1,
		HasCode:  t == types.AccountActive,
	})
}

func (s *SuiteRunners) deployParams(required string) DeployParams {
	return DeployParams{
		Sample:                s.wallet,
		Keys:                  s.walletKeys,
		Image:                 s.image,
		RequiredForDeployment: decimal.RequireFromString(required),
	}
}

func (s *SuiteRunners) giverParams() GiverParams {
	return GiverParams{Sample: s.giver, Keys: s.giverKeys, Image: s.image}
}

func (s *SuiteRunners) TestDeployNotFound() {
	status, err := s.svc.Deploy(s.ctx, s.deployParams("1"))
	s.Require().NoError(err)
	s.Equal(DeployStatusNotEnoughBalance, status)
	s.Contains(s.out.String(), testURL)
	s.Contains(s.out.String(), NotEnoughBalance)
	s.Zero(s.client.SendCalls)
}

func (s *SuiteRunners) TestDeployTerminalStates() {
	for accType, expected := range map[types.AccountType]DeployStatus{
		types.AccountActive:   DeployStatusAlreadyDeployed,
		types.AccountFrozen:   DeployStatusFrozen,
		types.AccountNonExist: DeployStatusNonExist,
	} {
		s.setAccount(s.walletAddr, accType, 5_000_000_000)
		status, err := s.svc.Deploy(s.ctx, s.deployParams("1"))
		s.Require().NoError(err)
		s.Equal(expected, status, accType.String())
	}
	s.Contains(s.out.String(), AlreadyDeployed)
	s.Contains(s.out.String(), AccountFrozen)
	s.Contains(s.out.String(), AccountNonExist)
	s.Zero(s.client.SendCalls)
}

func (s *SuiteRunners) TestDeployTolerance() {
	// one ton minus the tolerance is enough
	s.setAccount(s.walletAddr, types.AccountUninit, 999_999_000)
	status, err := s.svc.Deploy(s.ctx, s.deployParams("1"))
	s.Require().NoError(err)
	s.Equal(DeployStatusDeployed, status)
	s.Equal(1, s.deployCalls)

	s.setAccount(s.walletAddr, types.AccountUninit, 999_998_999)
	status, err = s.svc.Deploy(s.ctx, s.deployParams("1"))
	s.Require().NoError(err)
	s.Equal(DeployStatusNotEnoughBalance, status)
	s.Equal(1, s.deployCalls)
}

func (s *SuiteRunners) TestDeploy() {
	s.setAccount(s.walletAddr, types.AccountUninit, 2_000_000_000)

	status, err := s.svc.Deploy(s.ctx, s.deployParams("1"))
	s.Require().NoError(err)
	s.Equal(DeployStatusDeployed, status)

	out := s.out.String()
	s.Contains(out, Deploying)
	s.Contains(out, Deployed)
	s.Contains(out, "Un init")
	s.Contains(out, "Active")
	s.Equal(types.AccountActive, s.client.Account(s.walletAddr).Type)

	deploy := s.client.Encoded[len(s.client.Encoded)-1]
	s.Require().NotNil(deploy.Call)
	s.Equal("constructor", deploy.Call.Function)
}

func (s *SuiteRunners) TestDeployUnconfirmed() {
	s.setAccount(s.walletAddr, types.AccountUninit, 2_000_000_000)
	s.client.OnSend = nil

	status, err := s.svc.Deploy(s.ctx, s.deployParams("1"))
	s.Require().NoError(err)
	s.Equal(DeployStatusUnconfirmed, status)
	s.Contains(s.out.String(), NotConfirmed)
}

func (s *SuiteRunners) TestDeployWithGiver() {
	s.setAccount(s.giverAddr, types.AccountActive, 10_000_000_000)
	deployHook := s.client.OnSend
	var given *big.Int
	s.client.OnSend = func(m *mock.MockClient, params *client.EncodeMessageParams) {
		if params != nil && params.Call != nil && params.Call.Function == "sendTransaction" {
			given = params.Call.Input["value"].(*big.Int)
			s.setAccount(s.walletAddr, types.AccountUninit, given.Int64())
			return
		}
		deployHook(m, params)
	}

	status, err := s.svc.DeployWithGiver(s.ctx, s.deployParams("0.5"), s.giverParams())
	s.Require().NoError(err)
	s.Equal(DeployStatusDeployed, status)
	s.Equal(big.NewInt(500_000_000), given)
	s.Equal(1, s.deployCalls)

	out := s.out.String()
	s.Contains(out, Sending)
	s.Contains(out, Sent)
	s.Contains(out, Deployed)
	s.Contains(out, contracts.GiverV2Name)
	s.Less(strings.Index(out, Sent), strings.Index(out, Deploying))
}

func (s *SuiteRunners) TestDeployWithGiverFunded() {
	s.setAccount(s.giverAddr, types.AccountActive, 10_000_000_000)
	s.setAccount(s.walletAddr, types.AccountUninit, 1_000_000_000)

	status, err := s.svc.DeployWithGiver(s.ctx, s.deployParams("0.5"), s.giverParams())
	s.Require().NoError(err)
	s.Equal(DeployStatusDeployed, status)
	s.NotContains(s.out.String(), Sending)
	s.Empty(s.client.Processed)
}

func (s *SuiteRunners) TestDeployWithPoorGiver() {
	// the giver must also cover the transaction fee
	s.setAccount(s.giverAddr, types.AccountActive, 510_000_000)

	status, err := s.svc.DeployWithGiver(s.ctx, s.deployParams("0.5"), s.giverParams())
	s.Require().NoError(err)
	s.Equal(DeployStatusNotEnoughBalance, status)
	s.Empty(s.client.Processed)
	s.Zero(s.deployCalls)
}

func (s *SuiteRunners) TestDeployWithNonGiver() {
	_, err := s.svc.DeployWithGiver(s.ctx, s.deployParams("0.5"), GiverParams{
		Sample: s.wallet, Keys: s.giverKeys, Image: s.image,
	})
	s.Require().ErrorIs(err, ErrNotAGiver)
}

func (s *SuiteRunners) callParams(method string, args ...string) CallParams {
	return CallParams{
		Sample: s.wallet,
		Keys:   s.walletKeys,
		Image:  s.image,
		Method: method,
		Args:   args,
	}
}

func (s *SuiteRunners) TestCallInvalidArgumentsCount() {
	_, err := s.svc.Call(s.ctx, s.callParams("sendTransaction", s.targetRaw, "1"))
	s.Require().ErrorIs(err, ErrInvalidArgumentsCount)

	out := s.out.String()
	s.Contains(out, InvalidArgumentsCount)
	s.Contains(out, Arguments)
	for _, name := range []string{"address", "value", "bounce", "flags", "comment"} {
		s.Contains(out, "    "+name)
	}
	s.Zero(s.client.GetAccountCalls)
}

func (s *SuiteRunners) TestCallUnknownMethod() {
	_, err := s.svc.Call(s.ctx, s.callParams("selfDestruct"))
	s.Require().ErrorIs(err, contracts.ErrUnknownMethod)
}

func (s *SuiteRunners) TestCallNotActive() {
	s.setAccount(s.walletAddr, types.AccountUninit, 1_000_000_000)

	_, err := s.svc.Call(s.ctx, s.callParams("sendTransaction", s.targetRaw, "1", "false", "3", ""))
	s.Require().ErrorIs(err, ErrAccountNotActive)
	s.Contains(s.out.String(), AccountIsNotActive)
	s.Contains(s.out.String(), testURL)
	s.Empty(s.client.Processed)
}

func (s *SuiteRunners) TestCall() {
	s.setAccount(s.walletAddr, types.AccountActive, 5_000_000_000)
	target, err := address.ParseRawAddr(s.targetRaw)
	s.Require().NoError(err)
	s.setAccount(target, types.AccountActive, 1)

	res, err := s.svc.Call(s.ctx, s.callParams("sendTransaction", s.targetRaw, "1_000_000_000", "false", "3", "hi"))
	s.Require().NoError(err)
	s.Require().NotNil(res)

	s.Require().Len(s.client.Processed, 1)
	call := s.client.Processed[0].Call
	s.Equal("sendTransaction", call.Function)
	s.Equal(big.NewInt(1_000_000_000), call.Input["value"])
	s.Equal(s.walletAddr.StringRaw(), s.client.Processed[0].Address.StringRaw())

	out := s.out.String()
	s.Contains(out, Calling)
	s.Contains(out, Done)
	s.Contains(out, "Target")
	s.Contains(out, s.targetRaw)
	s.Less(strings.Index(out, Calling), strings.Index(out, Done))
}

func (s *SuiteRunners) TestCallPrintsOutput() {
	s.setAccount(s.walletAddr, types.AccountActive, 5_000_000_000)
	s.client.RunResult = map[string]any{"transId": big.NewInt(42)}

	_, err := s.svc.Call(s.ctx, s.callParams("submitTransaction", s.targetRaw, "1", "true", "false", "note"))
	s.Require().NoError(err)
	s.Contains(s.out.String(), "transId 42")
}

func (s *SuiteRunners) TestInfo() {
	s.setAccount(s.walletAddr, types.AccountActive, 2_500_000_000)

	s.Require().NoError(s.svc.Info(s.ctx, InfoParams{Sample: s.wallet, Keys: s.walletKeys, Image: s.image}))
	out := s.out.String()
	s.Contains(out, testURL)
	s.Contains(out, contracts.SafeMultisigWalletName)
	s.Contains(out, s.walletAddr.StringRaw())
	s.Contains(out, "2.5   Active")
}

func (s *SuiteRunners) TestAddress() {
	addr, err := s.svc.Address(s.ctx, InfoParams{Sample: s.wallet, Keys: s.walletKeys, Image: s.image})
	s.Require().NoError(err)
	s.Equal(s.walletAddr.StringRaw(), addr.StringRaw())
	s.Zero(s.client.GetAccountCalls)
}

func TestRunners(t *testing.T) {
	t.Parallel()

	suite.Run(t, new(SuiteRunners))
}
