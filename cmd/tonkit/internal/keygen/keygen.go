package keygen

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/cli/service"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
	"github.com/tonkit/tonkit/core/types"
)

const forceFlag = "force"

var force bool

func GetCommand() *cobra.Command {
	keygen := service.NewService(nil, printer.New(io.Discard, ""), service.Network{})

	keygenCmd := &cobra.Command{
		Use:          "keygen",
		Short:        "Generate a new key pair or restore one from a hex secret",
		SilenceUsage: true,
	}
	keygenCmd.PersistentFlags().BoolVarP(&force, forceFlag, "f", false, "Overwrite an existing key file")

	keygenCmd.AddCommand(
		NewCommand(keygen),
		FromHexCommand(keygen),
		PubCommand(),
	)
	return keygenCmd
}

func NewCommand(keygen *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "new [key file]",
		Short: "Generate a new key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := keygen.GenerateKeys(args[0], force)
			if err != nil {
				return err
			}
			printPublic(keys)
			return nil
		},
		SilenceUsage: true,
	}
}

func FromHexCommand(keygen *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "from-hex [key file] [secret]",
		Short: "Restore a key pair from a provided hex secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := keygen.KeysFromHex(args[0], args[1], force)
			if err != nil {
				return err
			}
			printPublic(keys)
			return nil
		},
		SilenceUsage: true,
	}
}

func PubCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pub [key file]",
		Short: "Print the public key of a key file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := types.ReadKeyPair(args[0])
			if err != nil {
				return err
			}
			printPublic(keys)
			return nil
		},
		SilenceUsage: true,
	}
}

func printPublic(keys *types.KeyPair) {
	if !common.Quiet {
		fmt.Print("Public key: ")
	}
	fmt.Println(keys.Public)
}
