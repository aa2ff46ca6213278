package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tonkit/tonkit/abi"
	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/contract"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
)

var (
	ErrUnknownContract = errors.New("unknown contract")
	ErrUnknownMethod   = errors.New("unknown method")
)

// Instance is a sample contract bound to a session.
type Instance interface {
	Session() *contract.Contract
}

type Factory func(c client.Client, timeout time.Duration, keys *types.KeyPair, image *types.CodeImage) Instance

// Method is a contract function callable with positional string arguments.
type Method struct {
	Args []string
	// Target names the argument holding the address of the receiving contract, if any.
	Target string
	Run    func(ctx context.Context, inst Instance, args map[string]string, keys *types.KeyPair) (*client.ProcessResult, error)
}

type Sample struct {
	Name string
	New  Factory
	// Deploy runs the constructor. Missing params fall back to defaults derived from the keys.
	Deploy  func(ctx context.Context, inst Instance, params map[string]any) (bool, error)
	Methods map[string]Method
	// Give transfers value to dest. Only givers have it.
	Give func(ctx context.Context, inst Instance, dest *address.Address, value *big.Int) error
}

func (s *Sample) Method(name string) (Method, error) {
	if m, ok := s.Methods[name]; ok {
		return m, nil
	}
	return Method{}, fmt.Errorf("%w %s.%s, available: %s",
		ErrUnknownMethod, s.Name, name, strings.Join(s.MethodNames(), ", "))
}

func (s *Sample) MethodNames() []string {
	names := make([]string, 0, len(s.Methods))
	for name := range s.Methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var registry = []*Sample{
	{
		Name: GiverV2Name,
		New: func(c client.Client, timeout time.Duration, keys *types.KeyPair, image *types.CodeImage) Instance {
			return NewGiverV2(c, timeout, keys, image)
		},
		Deploy: func(ctx context.Context, inst Instance, _ map[string]any) (bool, error) {
			return inst.(*GiverV2).Deploy(ctx)
		},
		Methods: map[string]Method{
			"sendTransaction": {
				Args:   []string{"address", "value", "bounce"},
				Target: "address",
				Run: func(ctx context.Context, inst Instance, args map[string]string, keys *types.KeyPair) (*client.ProcessResult, error) {
					dest, value, err := destAndValue(args)
					if err != nil {
						return nil, err
					}
					return inst.(*GiverV2).SendTransaction(ctx, GiverSendTransactionIn{
						Dest: dest, Value: value, Bounce: ReadBoolean(args["bounce"]),
					}, keys)
				},
			},
			"upgrade": {
				Args: []string{"pathToCodeImage"},
				Run: func(ctx context.Context, inst Instance, args map[string]string, keys *types.KeyPair) (*client.ProcessResult, error) {
					img, err := types.ReadCodeImage(args["pathToCodeImage"])
					if err != nil {
						return nil, err
					}
					return inst.(*GiverV2).Upgrade(ctx, img.Code, keys)
				},
			},
		},
		Give: func(ctx context.Context, inst Instance, dest *address.Address, value *big.Int) error {
			_, err := inst.(*GiverV2).SendTransaction(ctx, GiverSendTransactionIn{Dest: dest, Value: value}, nil)
			return err
		},
	},
	{
		Name: SafeMultisigWalletName,
		New: func(c client.Client, timeout time.Duration, keys *types.KeyPair, image *types.CodeImage) Instance {
			return NewSafeMultisigWallet(c, timeout, keys, image)
		},
		Deploy: func(ctx context.Context, inst Instance, params map[string]any) (bool, error) {
			w := inst.(*SafeMultisigWallet)
			in := MultisigDeployIn{ReqConfirms: 1}
			if keys := w.Keys(); keys != nil {
				in.Owners = []string{keys.Public}
			}
			if owners, ok := params["owners"].([]any); ok {
				in.Owners = in.Owners[:0]
				for _, o := range owners {
					in.Owners = append(in.Owners, fmt.Sprint(o))
				}
			}
			if req, ok := params["reqConfirms"]; ok {
				n, err := strconv.ParseUint(fmt.Sprint(req), 10, 8)
				if err != nil {
					return false, fmt.Errorf("invalid reqConfirms: %w", err)
				}
				in.ReqConfirms = uint8(n)
			}
			return w.Deploy(ctx, in)
		},
		Methods: map[string]Method{
			"sendTransaction": {
				Args:   []string{"address", "value", "bounce", "flags", "comment"},
				Target: "address",
				Run: func(ctx context.Context, inst Instance, args map[string]string, keys *types.KeyPair) (*client.ProcessResult, error) {
					dest, value, err := destAndValue(args)
					if err != nil {
						return nil, err
					}
					flags, err := readFlags(args["flags"])
					if err != nil {
						return nil, err
					}
					return inst.(*SafeMultisigWallet).SendTransactionWithComment(
						ctx, dest, value, ReadBoolean(args["bounce"]), flags, args["comment"], keys)
				},
			},
			"callAnotherContract": {
				Args:   []string{"address", "value", "bounce", "flags", "pathToAbi", "method", "parameters"},
				Target: "address",
				Run: func(ctx context.Context, inst Instance, args map[string]string, keys *types.KeyPair) (*client.ProcessResult, error) {
					dest, value, err := destAndValue(args)
					if err != nil {
						return nil, err
					}
					flags, err := readFlags(args["flags"])
					if err != nil {
						return nil, err
					}
					target, err := ReadAbi(args["pathToAbi"])
					if err != nil {
						return nil, err
					}
					input, err := ReadJSON(args["parameters"])
					if err != nil {
						return nil, fmt.Errorf("parameters: %w", err)
					}
					return inst.(*SafeMultisigWallet).CallAnotherContract(
						ctx, dest, value, ReadBoolean(args["bounce"]), flags, target, args["method"], input, keys)
				},
			},
			"submitTransaction": {
				Args:   []string{"address", "value", "bounce", "allBalance", "comment"},
				Target: "address",
				Run: func(ctx context.Context, inst Instance, args map[string]string, keys *types.KeyPair) (*client.ProcessResult, error) {
					dest, value, err := destAndValue(args)
					if err != nil {
						return nil, err
					}
					w := inst.(*SafeMultisigWallet)
					payload, err := w.PayloadToTransferWithComment(ctx, args["comment"])
					if err != nil {
						return nil, err
					}
					id, err := w.SubmitTransaction(ctx, SubmitTransactionIn{
						Dest:       dest,
						Value:      value,
						Bounce:     ReadBoolean(args["bounce"]),
						AllBalance: ReadBoolean(args["allBalance"]),
						Payload:    payload,
					}, keys)
					if err != nil {
						return nil, err
					}
					return &client.ProcessResult{Output: map[string]any{"transId": new(big.Int).SetUint64(id)}}, nil
				},
			},
			"confirmTransaction": {
				Args: []string{"transactionId"},
				Run: func(ctx context.Context, inst Instance, args map[string]string, keys *types.KeyPair) (*client.ProcessResult, error) {
					id, err := ReadInt(args["transactionId"])
					if err != nil {
						return nil, err
					}
					if !id.IsUint64() {
						return nil, fmt.Errorf("transaction id %s is out of range", id)
					}
					return inst.(*SafeMultisigWallet).ConfirmTransaction(ctx, id.Uint64(), keys)
				},
			},
		},
	},
}

// Lookup finds a sample by name, ignoring case.
func Lookup(name string) (*Sample, error) {
	for _, s := range registry {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w %q, available: %s", ErrUnknownContract, name, strings.Join(Names(), ", "))
}

func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	return names
}

func destAndValue(args map[string]string) (*address.Address, *big.Int, error) {
	dest, err := abi.ParseAddress(args["address"])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid address %q: %w", args["address"], err)
	}
	value, err := ReadInt(args["value"])
	if err != nil {
		return nil, nil, err
	}
	return dest, value, nil
}

func readFlags(s string) (uint8, error) {
	n, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid flags %q: %w", s, err)
	}
	return uint8(n), nil
}
